package librarystore

import (
	"time"
)

// Book represents one row of the book table.
//
// The author is not stored on the book row; it is resolved through the
// book_author join table and only carried by BookWithAuthor results.
// ID is storage-assigned and ignored on inserts.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ISBN        string `json:"isbn"`
	PubYear     int    `json:"pub_year"`
	GenreID     int    `json:"genre_id"`
	PublisherID int64  `json:"publisher_id"`
}

// BookWithAuthor is a Book joined to one author name. When a book has
// multiple authors only the first match is carried; when it has none,
// Author is empty.
type BookWithAuthor struct {
	Book
	Author string `json:"author"`
}

// Publisher represents one row of the publisher table.
type Publisher struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Member represents one row of the members table.
type Member struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Address        string    `json:"address"`
	Email          string    `json:"email"`
	MembershipDate time.Time `json:"membership_date"`
}

// Loan represents one row of the loan table.
//
// ReturnDate is nil while the loan is still open.
type Loan struct {
	ID          int64      `json:"id"`
	CopyID      int64      `json:"copy_id"`
	MemberID    int64      `json:"member_id"`
	StaffID     int64      `json:"staff_id"`
	LibrarianID int64      `json:"librarian_id"`
	IssueDate   time.Time  `json:"issue_date"`
	DueDate     time.Time  `json:"due_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
}

// BorrowedBookRow is the projection returned when listing the members who
// borrowed a given book: member name, book title, and the loan dates.
type BorrowedBookRow struct {
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Title      string     `json:"title"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// MemberSummary is the projection returned when listing distinct members
// holding at least one loan row.
type MemberSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
