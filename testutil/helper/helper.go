package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libraryops/library-records-go/librarystore"
	"github.com/libraryops/library-records-go/testutil/helper/postgreswrapper"
)

// GivenUniqueTitle returns a book title that is unique across test runs.
func GivenUniqueTitle(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "Test Book " + id.String()
}

// GivenUniqueISBN returns an ISBN-shaped string that is unique across test runs.
func GivenUniqueISBN(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "978-" + id.String()[:13]
}

// GivenUniqueEmail returns an email address that is unique across test runs.
func GivenUniqueEmail(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id.String() + "@example.test"
}

// GivenPublisherExists inserts a publisher row and returns its id.
func GivenPublisherExists(t testing.TB, wrapper postgreswrapper.Wrapper, name string) int64 {
	return wrapper.QueryInt64(t,
		`INSERT INTO publisher (name, address, phone, email) VALUES ($1, $2, $3, $4) RETURNING publisher_id`,
		name, "1 Example Street", "555-0100", GivenUniqueEmail(t))
}

// GivenAuthorExists inserts an author row and returns its id.
func GivenAuthorExists(t testing.TB, wrapper postgreswrapper.Wrapper, name string) int64 {
	return wrapper.QueryInt64(t,
		`INSERT INTO author (name) VALUES ($1) RETURNING author_id`,
		name)
}

// GivenBookExists inserts a book row and returns its id.
func GivenBookExists(t testing.TB, wrapper postgreswrapper.Wrapper, title string, publisherID int64) int64 {
	return wrapper.QueryInt64(t,
		`INSERT INTO book (title, isbn, pub_year, genre_id, publisher_id) VALUES ($1, $2, $3, $4, $5) RETURNING book_id`,
		title, GivenUniqueISBN(t), 2020, librarystore.DefaultGenreID, publisherID)
}

// GivenBookWrittenBy links a book to an author.
func GivenBookWrittenBy(t testing.TB, wrapper postgreswrapper.Wrapper, bookID int64, authorID int64) {
	wrapper.ExecSQL(t,
		`INSERT INTO book_author (book_id, author_id) VALUES ($1, $2)`,
		bookID, authorID)
}

// GivenBookCopyExists inserts a physical copy of a book and returns its id.
func GivenBookCopyExists(t testing.TB, wrapper postgreswrapper.Wrapper, bookID int64) int64 {
	return wrapper.QueryInt64(t,
		`INSERT INTO book_copy (book_id) VALUES ($1) RETURNING copy_id`,
		bookID)
}

// GivenMemberExists inserts a member row and returns its id.
func GivenMemberExists(t testing.TB, wrapper postgreswrapper.Wrapper, firstName string, lastName string) int64 {
	return wrapper.QueryInt64(t,
		`INSERT INTO members (first_name, last_name, address, email, membership_date) VALUES ($1, $2, $3, $4, $5) RETURNING member_id`,
		firstName, lastName, "2 Example Street", GivenUniqueEmail(t), time.Now().UTC())
}

// GivenLoanExists inserts an open loan for the given copy and member and returns its id.
func GivenLoanExists(t testing.TB, wrapper postgreswrapper.Wrapper, copyID int64, memberID int64) int64 {
	issueDate := time.Now().UTC().Truncate(time.Second)

	return wrapper.QueryInt64(t,
		`INSERT INTO loan (copy_id, member_id, staff_id, librarian_id, issue_date, due_date) VALUES ($1, $2, $3, $4, $5, $6) RETURNING loan_id`,
		copyID, memberID, 1, 1, issueDate, issueDate.AddDate(0, 0, 14))
}

// GivenLoanWasReturned marks a loan as returned.
func GivenLoanWasReturned(t testing.TB, wrapper postgreswrapper.Wrapper, loanID int64) {
	wrapper.ExecSQL(t,
		`UPDATE loan SET return_date = $1 WHERE loan_id = $2`,
		time.Now().UTC().Truncate(time.Second), loanID)
}
