// Package helper provides testing utilities for the PostgreSQL gateway test suite.
//
// This package contains shared testing infrastructure including fixture builders
// for library records, an embedded seed data set, and test doubles for capturing
// and validating log, metric, and tracing output during tests.
package helper
