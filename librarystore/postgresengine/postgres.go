package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/libraryops/library-records-go/librarystore"
	"github.com/libraryops/library-records-go/librarystore/postgresengine/internal/adapters"
)

const (
	tableBook       = "book"
	tableAuthor     = "author"
	tableBookAuthor = "book_author"
	tablePublisher  = "publisher"
	tableMembers    = "members"
	tableLoan       = "loan"
	tableBookCopy   = "book_copy"

	opListBooks              = "list_books"
	opAddBook                = "add_book"
	opUpdateBook             = "update_book"
	opDeleteBookByID         = "delete_book_by_id"
	opFindBookByTitle        = "find_book_by_title"
	opFindBookByAuthor       = "find_book_by_author"
	opListBooksByAuthor      = "list_books_by_author"
	opListPublishers         = "list_publishers"
	opListMembers            = "list_members"
	opListLoans              = "list_loans"
	opListMembersForBook     = "list_members_for_book"
	opListMembersWithAnyLoan = "list_members_with_any_loan"

	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "gateway operation: "
	logMsgReadFailed          = "read operation failed"
	logMsgWriteFailed         = "write operation failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgReadErrorSuppressed = "read error suppressed, degrading to empty result"

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrOperation    = "operation"
	logAttrPolicy       = "read_error_policy"
	logAttrDurationMS   = "duration_ms"
	logAttrRecordCount  = "record_count"
	logAttrRowsAffected = "rows_affected"
	logAttrBookID       = "book_id"
	logAttrTitle        = "title"

	metricOperationDuration = "librarygateway_operation_duration_seconds"
	metricRecordsFetched    = "librarygateway_records_fetched"
	metricDatabaseErrors    = "librarygateway_database_errors_total"

	spanNamePrefix      = "librarygateway."
	spanAttrOperation   = "operation"
	spanAttrErrorType   = "error_type"
	spanAttrRecordCount = "record_count"
	spanAttrDurationMS  = "duration_ms"

	labelStatus   = "status"
	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery  = "build_query"
	errorTypeQueryFailed = "query_failed"
	errorTypeScanFailed  = "scan_failed"
	errorTypeExecFailed  = "exec_failed"

	dialectPostgres = "postgres"
)

// Gateway is the sole component permitted to issue SQL against the library
// schema. It owns a database adapter and exposes one method per supported
// query; each method builds a parameterized statement, executes it, and maps
// result rows positionally into librarystore records.
type Gateway struct {
	db               adapters.DBAdapter
	tablePrefix      string
	readErrorPolicy  librarystore.ReadErrorPolicy
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewGatewayFromPGXPool creates a new Gateway using a pgx Pool with optional configuration.
func NewGatewayFromPGXPool(db *pgxpool.Pool, options ...Option) (*Gateway, error) {
	if db == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return newGateway(adapters.NewPGXAdapter(db), options...)
}

// NewGatewayFromPGXPoolWithReplica creates a new Gateway that executes reads
// on a replica pool and writes on the primary pool.
func NewGatewayFromPGXPoolWithReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Gateway, error) {
	if primary == nil || replica == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return newGateway(adapters.NewPGXAdapterWithReplica(primary, replica), options...)
}

// NewGatewayFromSQLDB creates a new Gateway using a sql.DB with optional configuration.
func NewGatewayFromSQLDB(db *sql.DB, options ...Option) (*Gateway, error) {
	if db == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return newGateway(adapters.NewSQLAdapter(db), options...)
}

// NewGatewayFromSQLX creates a new Gateway using a sqlx.DB with optional configuration.
func NewGatewayFromSQLX(db *sqlx.DB, options ...Option) (*Gateway, error) {
	if db == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return newGateway(adapters.NewSQLXAdapter(db), options...)
}

func newGateway(db adapters.DBAdapter, options ...Option) (*Gateway, error) {
	gw := &Gateway{
		db:              db,
		readErrorPolicy: librarystore.SuppressReadErrors,
	}

	for _, option := range options {
		if err := option(gw); err != nil {
			return nil, err
		}
	}

	return gw, nil
}

func (gw *Gateway) table(name string) string {
	return gw.tablePrefix + name
}

/*** Book queries ***/

// ListBooks returns all books, left-joined to one author name. Books without
// an author row come back with an empty Author; books with multiple authors
// come back once per author row (first match is the schema's convention).
// Failures follow the configured read-error policy.
func (gw *Gateway) ListBooks(ctx context.Context) ([]librarystore.BookWithAuthor, error) {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opListBooks)
	books := make([]librarystore.BookWithAuthor, 0)

	sqlQuery, args, buildErr := gw.buildListBooksQuery()
	if buildErr != nil {
		return books, gw.failRead(ctx, span, opListBooks, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, opListBooks, sqlQuery, args)
	if queryErr != nil {
		return books, gw.failRead(ctx, span, opListBooks, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	for rows.Next() {
		var book librarystore.BookWithAuthor
		var author sql.NullString

		scanErr := rows.Scan(&book.ID, &book.Title, &author, &book.ISBN, &book.PubYear, &book.GenreID, &book.PublisherID)
		if scanErr != nil {
			return books[:0], gw.failRead(ctx, span, opListBooks, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
		}

		book.Author = author.String
		books = append(books, book)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return books[:0], gw.failRead(ctx, span, opListBooks, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
	}

	gw.completeRead(ctx, span, opListBooks, len(books), start)

	return books, nil
}

// AddBook inserts one book row. The ID of the given record is ignored; storage
// assigns it. Foreign keys are assumed valid by the caller.
func (gw *Gateway) AddBook(ctx context.Context, book librarystore.Book) error {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opAddBook)

	stmt := goqu.Dialect(dialectPostgres).
		Insert(gw.table(tableBook)).
		Cols("title", "isbn", "pub_year", "genre_id", "publisher_id").
		Vals(goqu.Vals{book.Title, book.ISBN, book.PubYear, book.GenreID, book.PublisherID})

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return gw.failWrite(ctx, span, opAddBook, librarystore.ErrAddingBookFailed, buildErr, errorTypeBuildQuery)
	}

	rowsAffected, execErr := gw.executeStatement(ctx, opAddBook, sqlQuery, args)
	if execErr != nil {
		return gw.failWrite(ctx, span, opAddBook, librarystore.ErrAddingBookFailed, execErr, errorTypeExecFailed)
	}

	gw.completeWrite(ctx, span, opAddBook, rowsAffected, start, logAttrTitle, book.Title)

	return nil
}

// UpdateBook overwrites all mutable fields of the book identified by book.ID.
// An ID that matches no row succeeds silently with zero rows affected; the
// count is logged and traceable but not surfaced as an error.
func (gw *Gateway) UpdateBook(ctx context.Context, book librarystore.Book) error {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opUpdateBook)

	stmt := goqu.Dialect(dialectPostgres).
		Update(gw.table(tableBook)).
		Set(goqu.Record{
			"title":        book.Title,
			"isbn":         book.ISBN,
			"pub_year":     book.PubYear,
			"genre_id":     book.GenreID,
			"publisher_id": book.PublisherID,
		}).
		Where(goqu.C("book_id").Eq(book.ID))

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return gw.failWrite(ctx, span, opUpdateBook, librarystore.ErrUpdatingBookFailed, buildErr, errorTypeBuildQuery)
	}

	rowsAffected, execErr := gw.executeStatement(ctx, opUpdateBook, sqlQuery, args)
	if execErr != nil {
		return gw.failWrite(ctx, span, opUpdateBook, librarystore.ErrUpdatingBookFailed, execErr, errorTypeExecFailed)
	}

	gw.completeWrite(ctx, span, opUpdateBook, rowsAffected, start, logAttrBookID, book.ID)

	return nil
}

// DeleteBookByID deletes the book row with the given primary key.
func (gw *Gateway) DeleteBookByID(ctx context.Context, id int64) error {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opDeleteBookByID)

	stmt := goqu.Dialect(dialectPostgres).
		Delete(gw.table(tableBook)).
		Where(goqu.C("book_id").Eq(id))

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return gw.failWrite(ctx, span, opDeleteBookByID, librarystore.ErrDeletingBookFailed, buildErr, errorTypeBuildQuery)
	}

	rowsAffected, execErr := gw.executeStatement(ctx, opDeleteBookByID, sqlQuery, args)
	if execErr != nil {
		return gw.failWrite(ctx, span, opDeleteBookByID, librarystore.ErrDeletingBookFailed, execErr, errorTypeExecFailed)
	}

	gw.completeWrite(ctx, span, opDeleteBookByID, rowsAffected, start, logAttrBookID, id)

	return nil
}

// FindBookByTitle returns the first book whose title matches exactly.
// Case sensitivity follows the storage collation. Returns
// librarystore.ErrRecordNotFound when no row matches - and, under the
// suppressing read-error policy, on read failures as well.
func (gw *Gateway) FindBookByTitle(ctx context.Context, title string) (librarystore.Book, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(gw.table(tableBook)).
		Select("book_id", "title", "isbn", "pub_year", "genre_id", "publisher_id").
		Where(goqu.C("title").Eq(title)).
		Order(goqu.C("book_id").Asc()).
		Limit(1)

	return gw.findSingleBook(ctx, opFindBookByTitle, stmt)
}

// FindBookByAuthor returns the first book written by the given author name,
// resolved through the book_author join table. Exact match only.
func (gw *Gateway) FindBookByAuthor(ctx context.Context, authorName string) (librarystore.Book, error) {
	stmt := gw.booksByAuthorQuery(authorName).Limit(1)

	return gw.findSingleBook(ctx, opFindBookByAuthor, stmt)
}

// ListBooksByAuthor returns all books written by the given author name,
// resolved through the book_author join table. Exact match only; an unknown
// author yields an empty sequence. Failures follow the read-error policy.
func (gw *Gateway) ListBooksByAuthor(ctx context.Context, authorName string) ([]librarystore.Book, error) {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opListBooksByAuthor)
	books := make([]librarystore.Book, 0)

	sqlQuery, args, buildErr := gw.booksByAuthorQuery(authorName).Prepared(true).ToSQL()
	if buildErr != nil {
		return books, gw.failRead(ctx, span, opListBooksByAuthor, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, opListBooksByAuthor, sqlQuery, args)
	if queryErr != nil {
		return books, gw.failRead(ctx, span, opListBooksByAuthor, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	for rows.Next() {
		book, scanErr := scanBook(rows)
		if scanErr != nil {
			return books[:0], gw.failRead(ctx, span, opListBooksByAuthor, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
		}

		books = append(books, book)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return books[:0], gw.failRead(ctx, span, opListBooksByAuthor, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
	}

	gw.completeRead(ctx, span, opListBooksByAuthor, len(books), start)

	return books, nil
}

/*** Publisher and member queries ***/

// ListPublishers returns all publishers. Failures follow the read-error policy.
func (gw *Gateway) ListPublishers(ctx context.Context) ([]librarystore.Publisher, error) {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opListPublishers)
	publishers := make([]librarystore.Publisher, 0)

	stmt := goqu.Dialect(dialectPostgres).
		From(gw.table(tablePublisher)).
		Select("publisher_id", "name", "address", "phone", "email").
		Order(goqu.C("publisher_id").Asc())

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return publishers, gw.failRead(ctx, span, opListPublishers, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, opListPublishers, sqlQuery, args)
	if queryErr != nil {
		return publishers, gw.failRead(ctx, span, opListPublishers, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	for rows.Next() {
		var publisher librarystore.Publisher

		scanErr := rows.Scan(&publisher.ID, &publisher.Name, &publisher.Address, &publisher.Phone, &publisher.Email)
		if scanErr != nil {
			return publishers[:0], gw.failRead(ctx, span, opListPublishers, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
		}

		publishers = append(publishers, publisher)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return publishers[:0], gw.failRead(ctx, span, opListPublishers, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
	}

	gw.completeRead(ctx, span, opListPublishers, len(publishers), start)

	return publishers, nil
}

// ListMembers returns all members. Failures follow the read-error policy.
func (gw *Gateway) ListMembers(ctx context.Context) ([]librarystore.Member, error) {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opListMembers)
	members := make([]librarystore.Member, 0)

	stmt := goqu.Dialect(dialectPostgres).
		From(gw.table(tableMembers)).
		Select("member_id", "first_name", "last_name", "address", "email", "membership_date").
		Order(goqu.C("member_id").Asc())

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return members, gw.failRead(ctx, span, opListMembers, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, opListMembers, sqlQuery, args)
	if queryErr != nil {
		return members, gw.failRead(ctx, span, opListMembers, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	for rows.Next() {
		var member librarystore.Member

		scanErr := rows.Scan(&member.ID, &member.FirstName, &member.LastName, &member.Address, &member.Email, &member.MembershipDate)
		if scanErr != nil {
			return members[:0], gw.failRead(ctx, span, opListMembers, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
		}

		members = append(members, member)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return members[:0], gw.failRead(ctx, span, opListMembers, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
	}

	gw.completeRead(ctx, span, opListMembers, len(members), start)

	return members, nil
}

/*** Loan queries ***/

// ListLoans returns all loan rows. Failures follow the read-error policy.
func (gw *Gateway) ListLoans(ctx context.Context) ([]librarystore.Loan, error) {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opListLoans)
	loans := make([]librarystore.Loan, 0)

	stmt := goqu.Dialect(dialectPostgres).
		From(gw.table(tableLoan)).
		Select("loan_id", "copy_id", "member_id", "staff_id", "librarian_id", "issue_date", "due_date", "return_date").
		Order(goqu.C("loan_id").Asc())

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return loans, gw.failRead(ctx, span, opListLoans, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, opListLoans, sqlQuery, args)
	if queryErr != nil {
		return loans, gw.failRead(ctx, span, opListLoans, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	for rows.Next() {
		var loan librarystore.Loan
		var returnDate sql.NullTime

		scanErr := rows.Scan(&loan.ID, &loan.CopyID, &loan.MemberID, &loan.StaffID, &loan.LibrarianID, &loan.IssueDate, &loan.DueDate, &returnDate)
		if scanErr != nil {
			return loans[:0], gw.failRead(ctx, span, opListLoans, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
		}

		if returnDate.Valid {
			returned := returnDate.Time
			loan.ReturnDate = &returned
		}

		loans = append(loans, loan)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return loans[:0], gw.failRead(ctx, span, opListLoans, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
	}

	gw.completeRead(ctx, span, opListLoans, len(loans), start)

	return loans, nil
}

// ListMembersForBook returns the members who borrowed the book with the given
// title, with the loan dates. The title is resolved to a book id first (exact
// match only); an unresolvable title yields an empty sequence, not an error.
func (gw *Gateway) ListMembersForBook(ctx context.Context, title string) ([]librarystore.BorrowedBookRow, error) {
	borrowers := make([]librarystore.BorrowedBookRow, 0)

	book, findErr := gw.FindBookByTitle(ctx, title)
	if findErr != nil {
		if errors.Is(findErr, librarystore.ErrRecordNotFound) {
			return borrowers, nil
		}

		return borrowers, findErr
	}

	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opListMembersForBook)

	stmt := goqu.Dialect(dialectPostgres).
		From(goqu.T(gw.table(tableMembers)).As("m")).
		Join(goqu.T(gw.table(tableLoan)).As("l"), goqu.On(goqu.I("m.member_id").Eq(goqu.I("l.member_id")))).
		Join(goqu.T(gw.table(tableBookCopy)).As("bc"), goqu.On(goqu.I("l.copy_id").Eq(goqu.I("bc.copy_id")))).
		Join(goqu.T(gw.table(tableBook)).As("b"), goqu.On(goqu.I("bc.book_id").Eq(goqu.I("b.book_id")))).
		Select(
			goqu.I("m.first_name"), goqu.I("m.last_name"), goqu.I("b.title"),
			goqu.I("l.issue_date"), goqu.I("l.due_date"), goqu.I("l.return_date")).
		Where(goqu.I("b.book_id").Eq(book.ID)).
		Order(goqu.I("l.loan_id").Asc())

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return borrowers, gw.failRead(ctx, span, opListMembersForBook, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, opListMembersForBook, sqlQuery, args)
	if queryErr != nil {
		return borrowers, gw.failRead(ctx, span, opListMembersForBook, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	for rows.Next() {
		var row librarystore.BorrowedBookRow
		var returnDate sql.NullTime

		scanErr := rows.Scan(&row.FirstName, &row.LastName, &row.Title, &row.IssueDate, &row.DueDate, &returnDate)
		if scanErr != nil {
			return borrowers[:0], gw.failRead(ctx, span, opListMembersForBook, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
		}

		if returnDate.Valid {
			returned := returnDate.Time
			row.ReturnDate = &returned
		}

		borrowers = append(borrowers, row)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return borrowers[:0], gw.failRead(ctx, span, opListMembersForBook, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
	}

	gw.completeRead(ctx, span, opListMembersForBook, len(borrowers), start)

	return borrowers, nil
}

// ListMembersWithAnyLoan returns the distinct members having at least one
// loan row, via an inner join. Failures follow the read-error policy.
func (gw *Gateway) ListMembersWithAnyLoan(ctx context.Context) ([]librarystore.MemberSummary, error) {
	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, opListMembersWithAnyLoan)
	members := make([]librarystore.MemberSummary, 0)

	stmt := goqu.Dialect(dialectPostgres).
		From(goqu.T(gw.table(tableMembers)).As("m")).
		Join(goqu.T(gw.table(tableLoan)).As("l"), goqu.On(goqu.I("m.member_id").Eq(goqu.I("l.member_id")))).
		Select(goqu.I("m.member_id"), goqu.I("m.first_name"), goqu.I("m.last_name")).
		Distinct().
		Order(goqu.I("m.member_id").Asc())

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return members, gw.failRead(ctx, span, opListMembersWithAnyLoan, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, opListMembersWithAnyLoan, sqlQuery, args)
	if queryErr != nil {
		return members, gw.failRead(ctx, span, opListMembersWithAnyLoan, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	for rows.Next() {
		var member librarystore.MemberSummary

		scanErr := rows.Scan(&member.ID, &member.FirstName, &member.LastName)
		if scanErr != nil {
			return members[:0], gw.failRead(ctx, span, opListMembersWithAnyLoan, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
		}

		members = append(members, member)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return members[:0], gw.failRead(ctx, span, opListMembersWithAnyLoan, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
	}

	gw.completeRead(ctx, span, opListMembersWithAnyLoan, len(members), start)

	return members, nil
}

/*** shared query building and row mapping ***/

// buildListBooksQuery joins each book to at most its first author name.
// The DISTINCT ON clause keeps one row per book when several authors exist.
func (gw *Gateway) buildListBooksQuery() (string, []any, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(goqu.T(gw.table(tableBook)).As("b")).
		LeftJoin(goqu.T(gw.table(tableBookAuthor)).As("ba"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("ba.book_id")))).
		LeftJoin(goqu.T(gw.table(tableAuthor)).As("a"), goqu.On(goqu.I("ba.author_id").Eq(goqu.I("a.author_id")))).
		Select(
			goqu.I("b.book_id"), goqu.I("b.title"), goqu.I("a.name"),
			goqu.I("b.isbn"), goqu.I("b.pub_year"), goqu.I("b.genre_id"), goqu.I("b.publisher_id")).
		Distinct(goqu.I("b.book_id")).
		Order(goqu.I("b.book_id").Asc(), goqu.I("a.author_id").Asc())

	return stmt.Prepared(true).ToSQL()
}

// booksByAuthorQuery is the shared join for author-name lookups.
func (gw *Gateway) booksByAuthorQuery(authorName string) *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T(gw.table(tableBook)).As("b")).
		Join(goqu.T(gw.table(tableBookAuthor)).As("ba"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("ba.book_id")))).
		Join(goqu.T(gw.table(tableAuthor)).As("a"), goqu.On(goqu.I("ba.author_id").Eq(goqu.I("a.author_id")))).
		Select(
			goqu.I("b.book_id"), goqu.I("b.title"), goqu.I("b.isbn"),
			goqu.I("b.pub_year"), goqu.I("b.genre_id"), goqu.I("b.publisher_id")).
		Where(goqu.I("a.name").Eq(authorName)).
		Order(goqu.I("b.book_id").Asc())
}

// findSingleBook executes a single-book select and maps the first row.
func (gw *Gateway) findSingleBook(
	ctx context.Context,
	operation string,
	stmt *goqu.SelectDataset,
) (librarystore.Book, error) {

	start := time.Now()
	ctx, span := gw.startOperationSpan(ctx, operation)
	var empty librarystore.Book

	sqlQuery, args, buildErr := stmt.Prepared(true).ToSQL()
	if buildErr != nil {
		return empty, gw.failFind(ctx, span, operation, librarystore.ErrBuildingQueryFailed, buildErr, errorTypeBuildQuery, start)
	}

	rows, queryErr := gw.executeQuery(ctx, operation, sqlQuery, args)
	if queryErr != nil {
		return empty, gw.failFind(ctx, span, operation, librarystore.ErrQueryingRecordsFailed, queryErr, errorTypeQueryFailed, start)
	}
	defer gw.closeRows(rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return empty, gw.failFind(ctx, span, operation, librarystore.ErrQueryingRecordsFailed, rowsErr, errorTypeQueryFailed, start)
		}

		gw.completeRead(ctx, span, operation, 0, start)

		return empty, librarystore.ErrRecordNotFound
	}

	book, scanErr := scanBook(rows)
	if scanErr != nil {
		return empty, gw.failFind(ctx, span, operation, librarystore.ErrScanningRowFailed, scanErr, errorTypeScanFailed, start)
	}

	gw.completeRead(ctx, span, operation, 1, start)

	return book, nil
}

// scanBook maps the canonical six book columns positionally into a record.
func scanBook(rows adapters.DBRows) (librarystore.Book, error) {
	var book librarystore.Book

	err := rows.Scan(&book.ID, &book.Title, &book.ISBN, &book.PubYear, &book.GenreID, &book.PublisherID)
	if err != nil {
		return librarystore.Book{}, err
	}

	return book, nil
}

/*** shared execution and failure handling ***/

// executeQuery executes a read statement and logs it with timing.
func (gw *Gateway) executeQuery(ctx context.Context, operation string, sqlQuery string, args []any) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := gw.db.Query(ctx, sqlQuery, args...)
	gw.logQueryWithDuration(ctx, operation, sqlQuery, time.Since(start))

	if queryErr != nil {
		return nil, queryErr
	}

	return rows, nil
}

// executeStatement executes a write statement, logs it with timing, and returns rows affected.
func (gw *Gateway) executeStatement(ctx context.Context, operation string, sqlQuery string, args []any) (int64, error) {
	start := time.Now()
	result, execErr := gw.db.Exec(ctx, sqlQuery, args...)
	gw.logQueryWithDuration(ctx, operation, sqlQuery, time.Since(start))

	if execErr != nil {
		return 0, execErr
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		return 0, rowsAffectedErr
	}

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (gw *Gateway) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if gw.logger != nil {
			gw.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// failRead records a failed read operation and applies the read-error policy:
// it returns nil when the failure is suppressed (the caller then hands out the
// empty result) and the wrapped error when failures propagate.
func (gw *Gateway) failRead(
	ctx context.Context,
	span SpanContext,
	operation string,
	sentinel error,
	cause error,
	errorType string,
	start time.Time,
) error {

	wrapped := errors.Join(sentinel, cause)
	gw.logError(ctx, logMsgReadFailed, wrapped, logAttrOperation, operation)
	gw.recordDurationMetrics(ctx, operation, statusError, time.Since(start))
	gw.recordErrorMetrics(ctx, operation, errorType)
	gw.finishOperationSpanError(span, errorType)

	if gw.readErrorPolicy == librarystore.SuppressReadErrors {
		gw.logSuppressedReadError(ctx, operation, wrapped)
		return nil
	}

	return wrapped
}

// failFind is failRead for single-record lookups: a suppressed failure
// becomes ErrRecordNotFound so the caller still gets the domain answer.
func (gw *Gateway) failFind(
	ctx context.Context,
	span SpanContext,
	operation string,
	sentinel error,
	cause error,
	errorType string,
	start time.Time,
) error {

	if readErr := gw.failRead(ctx, span, operation, sentinel, cause, errorType, start); readErr != nil {
		return readErr
	}

	return librarystore.ErrRecordNotFound
}

// completeRead records a successful read operation.
func (gw *Gateway) completeRead(
	ctx context.Context,
	span SpanContext,
	operation string,
	recordCount int,
	start time.Time,
) {

	duration := time.Since(start)
	gw.recordDurationMetrics(ctx, operation, statusSuccess, duration)
	gw.recordRecordCountMetrics(ctx, operation, recordCount)
	gw.finishOperationSpanSuccess(span, recordCount, duration)
	gw.logOperation(ctx, operation, logAttrRecordCount, recordCount, logAttrDurationMS, gw.toMilliseconds(duration))
}

// failWrite records a failed write operation and returns the wrapped domain error.
func (gw *Gateway) failWrite(
	ctx context.Context,
	span SpanContext,
	operation string,
	sentinel error,
	cause error,
	errorType string,
) error {

	wrapped := errors.Join(sentinel, cause)
	gw.logError(ctx, logMsgWriteFailed, wrapped, logAttrOperation, operation)
	gw.recordErrorMetrics(ctx, operation, errorType)
	gw.finishOperationSpanError(span, errorType)

	return wrapped
}

// completeWrite records a successful write operation.
func (gw *Gateway) completeWrite(
	ctx context.Context,
	span SpanContext,
	operation string,
	rowsAffected int64,
	start time.Time,
	extraArgs ...any,
) {

	duration := time.Since(start)
	gw.recordDurationMetrics(ctx, operation, statusSuccess, duration)
	gw.finishOperationSpanSuccess(span, int(rowsAffected), duration)

	args := []any{logAttrRowsAffected, rowsAffected, logAttrDurationMS, gw.toMilliseconds(duration)}
	args = append(args, extraArgs...)
	gw.logOperation(ctx, operation, args...)
}
