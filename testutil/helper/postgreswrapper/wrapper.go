package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/libraryops/library-records-go/librarystore/postgresengine"
	"github.com/libraryops/library-records-go/testutil/config"
)

// Engine type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// libraryTables lists every table of the schema in dependency order,
// children before parents, so truncation does not trip foreign keys.
var libraryTables = []string{
	"loan",
	"book_copy",
	"book_author",
	"book",
	"author",
	"members",
	"publisher",
}

// Wrapper interface to abstract over different engine types
type Wrapper interface {
	GetGateway() *postgresengine.Gateway
	ExecSQL(t testing.TB, query string, args ...any)
	QueryInt64(t testing.TB, query string, args ...any) int64
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	gw   *postgresengine.Gateway
}

func (e *PGXPoolWrapper) GetGateway() *postgresengine.Gateway {
	return e.gw
}

func (e *PGXPoolWrapper) ExecSQL(t testing.TB, query string, args ...any) {
	_, err := e.pool.Exec(context.Background(), query, args...)
	assert.NoError(t, err, "error executing sql in test setup")
}

func (e *PGXPoolWrapper) QueryInt64(t testing.TB, query string, args ...any) int64 {
	var value int64
	err := e.pool.QueryRow(context.Background(), query, args...).Scan(&value)
	assert.NoError(t, err, "error querying in test setup")

	return value
}

func (e *PGXPoolWrapper) Close() {
	e.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db *sql.DB
	gw *postgresengine.Gateway
}

func (e *SQLDBWrapper) GetGateway() *postgresengine.Gateway {
	return e.gw
}

func (e *SQLDBWrapper) ExecSQL(t testing.TB, query string, args ...any) {
	_, err := e.db.Exec(query, args...)
	assert.NoError(t, err, "error executing sql in test setup")
}

func (e *SQLDBWrapper) QueryInt64(t testing.TB, query string, args ...any) int64 {
	var value int64
	err := e.db.QueryRow(query, args...).Scan(&value)
	assert.NoError(t, err, "error querying in test setup")

	return value
}

func (e *SQLDBWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db *sqlx.DB
	gw *postgresengine.Gateway
}

func (e *SQLXWrapper) GetGateway() *postgresengine.Gateway {
	return e.gw
}

func (e *SQLXWrapper) ExecSQL(t testing.TB, query string, args ...any) {
	_, err := e.db.Exec(query, args...)
	assert.NoError(t, err, "error executing sql in test setup")
}

func (e *SQLXWrapper) QueryInt64(t testing.TB, query string, args ...any) int64 {
	var value int64
	err := e.db.QueryRow(query, args...).Scan(&value)
	assert.NoError(t, err, "error querying in test setup")

	return value
}

func (e *SQLXWrapper) Close() {
	_ = e.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the ADAPTER_TYPE environment variable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch engineTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolSingleConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")

		gw, err := postgresengine.NewGatewayFromPGXPool(connPool, options...)
		assert.NoError(t, err, "error creating gateway")

		return &PGXPoolWrapper{pool: connPool, gw: gw}

	case typeSQLDB:
		db := config.PostgresSQLDBSingleConfig()

		gw, err := postgresengine.NewGatewayFromSQLDB(db, options...)
		assert.NoError(t, err, "error creating gateway")

		return &SQLDBWrapper{db: db, gw: gw}

	case typeSQLXDB:
		db := config.PostgresSQLXSingleConfig()

		gw, err := postgresengine.NewGatewayFromSQLX(db, options...)
		assert.NoError(t, err, "error creating gateway")

		return &SQLXWrapper{db: db, gw: gw}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}
}

// TryCreateGatewayWithTablePrefix tries to create a gateway with the given table prefix
// and returns the error (for testing error cases).
func TryCreateGatewayWithTablePrefix(t testing.TB, prefix string) error {
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	options := []postgresengine.Option{postgresengine.WithTablePrefix(prefix)}

	switch engineTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolSingleConfig())
		assert.NoError(t, err, "error connecting to DB pool in test setup")
		defer connPool.Close()

		_, err = postgresengine.NewGatewayFromPGXPool(connPool, options...)
		return err

	case typeSQLDB:
		db := config.PostgresSQLDBSingleConfig()
		defer func(db *sql.DB) {
			_ = db.Close() // makes no sense to handle this
		}(db)

		_, err := postgresengine.NewGatewayFromSQLDB(db, options...)
		return err

	case typeSQLXDB:
		db := config.PostgresSQLXSingleConfig()
		defer func(db *sqlx.DB) {
			_ = db.Close() // makes no sense to handle this
		}(db)

		_, err := postgresengine.NewGatewayFromSQLX(db, options...)
		return err

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}
}

// CreateLibrarySchema creates all tables of the schema if they do not exist yet.
func CreateLibrarySchema(t testing.TB, wrapper Wrapper) {
	for _, ddl := range librarySchemaDDL {
		wrapper.ExecSQL(t, ddl)
	}
}

// CleanUp truncates all library tables for the given wrapper.
func CleanUp(t testing.TB, wrapper Wrapper) {
	query := "TRUNCATE TABLE " + strings.Join(libraryTables, ", ") + " RESTART IDENTITY CASCADE"
	wrapper.ExecSQL(t, query)
}

// CountRowsInTable returns the number of rows in the given table.
func CountRowsInTable(t testing.TB, wrapper Wrapper, table string) int64 {
	return wrapper.QueryInt64(t, fmt.Sprintf("SELECT count(*) FROM %s", table))
}

var librarySchemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS publisher (
		publisher_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS author (
		author_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS genre (
		genre_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`INSERT INTO genre (genre_id, name) VALUES (1, 'Unspecified') ON CONFLICT DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS book (
		book_id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		isbn TEXT NOT NULL,
		pub_year INT NOT NULL,
		genre_id INT NOT NULL REFERENCES genre (genre_id),
		publisher_id BIGINT NOT NULL REFERENCES publisher (publisher_id)
	)`,
	`CREATE TABLE IF NOT EXISTS book_author (
		book_id BIGINT NOT NULL REFERENCES book (book_id) ON DELETE CASCADE,
		author_id BIGINT NOT NULL REFERENCES author (author_id) ON DELETE CASCADE,
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS book_copy (
		copy_id BIGSERIAL PRIMARY KEY,
		book_id BIGINT NOT NULL REFERENCES book (book_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS members (
		member_id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		membership_date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS loan (
		loan_id BIGSERIAL PRIMARY KEY,
		copy_id BIGINT NOT NULL REFERENCES book_copy (copy_id),
		member_id BIGINT NOT NULL REFERENCES members (member_id),
		staff_id BIGINT NOT NULL DEFAULT 0,
		librarian_id BIGINT NOT NULL DEFAULT 0,
		issue_date TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ NOT NULL,
		return_date TIMESTAMPTZ NULL
	)`,
}
