// Package config provides PostgreSQL database configuration for gateway testing.
//
// It contains factory functions for creating database connections with the
// supported PostgreSQL adapters (pgx.Pool, sql.DB, sqlx.DB), pre-configured
// with the test database DSNs. Single-node and primary/replica topologies
// are covered so the gateway can be exercised against both.
package config
