// Package postgresengine provides the PostgreSQL implementation of the library records gateway.
//
// This package translates typed method calls into parameterized SQL against the
// relational schema (book, author, book_author, publisher, members, loan,
// book_copy), supporting multiple database adapters (pgx, sql.DB, sqlx) and
// mapping result rows positionally into librarystore records.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - One method per supported query; all SQL built with goqu and bound parameters
//   - Configurable read-error policy (suppress to empty result vs. propagate)
//   - Configurable table prefix and dual-logger support
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	gw, _ := postgresengine.NewGatewayFromPGXPool(db)
//
//	// With operational logging and strict reads
//	gw, _ := postgresengine.NewGatewayFromPGXPool(
//		db,
//		postgresengine.WithLogger(logger),
//		postgresengine.WithReadErrorPolicy(librarystore.PropagateReadErrors),
//	)
//
//	books, _ := gw.ListBooks(ctx)
//	err := gw.AddBook(ctx, book)
package postgresengine
