// Package librarystore provides the core record types and shared contracts
// for the library records gateway.
//
// This package defines the record shapes mapped from the relational schema
// (book, author, book_author, publisher, members, loan, book_copy), the
// common error definitions, the read-error policy, and the dependency-free
// observability interfaces used by the storage engines.
//
// Records are plain immutable attribute bundles: they are constructed fresh
// for every query result and never mutated after construction. Update
// operations build a brand-new record with the caller-supplied values and
// overwrite by primary key.
//
// Key types:
//   - Book, BookWithAuthor: the book record, optionally joined to one author name
//   - Publisher, Member: full-table read records
//   - Loan, BorrowedBookRow, MemberSummary: loan-related projections
//   - ReadErrorPolicy: suppress-vs-propagate behavior for read failures
//
// Common usage pattern:
//
//	gw, err := postgresengine.NewGatewayFromPGXPool(pool)
//	if err != nil {
//		// handle error
//	}
//
//	books, err := gw.ListBooks(ctx)
//	if err != nil {
//		// only reachable with PropagateReadErrors
//	}
package librarystore
