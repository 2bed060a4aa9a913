package controller

import (
	"context"
	"strings"
	"time"

	"github.com/libraryops/library-records-go/librarystore"
)

// QueryGateway defines the storage operations the QueryController needs.
type QueryGateway interface {
	FindBookByAuthor(ctx context.Context, authorName string) (librarystore.Book, error)
	ListBooksByAuthor(ctx context.Context, authorName string) ([]librarystore.Book, error)
	ListPublishers(ctx context.Context) ([]librarystore.Publisher, error)
	ListMembers(ctx context.Context) ([]librarystore.Member, error)
	ListLoans(ctx context.Context) ([]librarystore.Loan, error)
	ListMembersForBook(ctx context.Context, title string) ([]librarystore.BorrowedBookRow, error)
	ListMembersWithAnyLoan(ctx context.Context) ([]librarystore.MemberSummary, error)
}

const (
	actionFindBookByAuthor   = "find_book_by_author"
	actionBooksByAuthor      = "books_by_author"
	actionPublishers         = "publishers"
	actionMembers            = "members"
	actionLoans              = "loans"
	actionMembersForBook     = "members_for_book"
	actionMembersWithAnyLoan = "members_with_any_loan"
)

// QueryController drives the reporting use cases across books, publishers,
// members, and loans.
type QueryController struct {
	gateway QueryGateway
	instr   instrumentation
}

// NewQueryController creates a new QueryController with the provided gateway and options.
func NewQueryController(gateway QueryGateway, opts ...Option) (QueryController, error) {
	c := QueryController{gateway: gateway}

	for _, opt := range opts {
		if err := opt(&c.instr); err != nil {
			return QueryController{}, err
		}
	}

	return c, nil
}

// FindBookByAuthor returns the first book written by the given author.
func (c QueryController) FindBookByAuthor(ctx context.Context, authorName string) (librarystore.Book, error) {
	start := time.Now()

	book, err := c.gateway.FindBookByAuthor(ctx, strings.TrimSpace(authorName))
	if err != nil {
		c.instr.recordError(ctx, actionFindBookByAuthor, start, err)
		return librarystore.Book{}, err
	}

	c.instr.recordSuccess(ctx, actionFindBookByAuthor, start)

	return book, nil
}

// BooksByAuthor returns all books written by the given author.
func (c QueryController) BooksByAuthor(ctx context.Context, authorName string) ([]librarystore.Book, error) {
	start := time.Now()

	books, err := c.gateway.ListBooksByAuthor(ctx, strings.TrimSpace(authorName))
	if err != nil {
		c.instr.recordError(ctx, actionBooksByAuthor, start, err)
		return nil, err
	}

	c.instr.recordSuccess(ctx, actionBooksByAuthor, start)

	return books, nil
}

// Publishers returns all publishers.
func (c QueryController) Publishers(ctx context.Context) ([]librarystore.Publisher, error) {
	start := time.Now()

	publishers, err := c.gateway.ListPublishers(ctx)
	if err != nil {
		c.instr.recordError(ctx, actionPublishers, start, err)
		return nil, err
	}

	c.instr.recordSuccess(ctx, actionPublishers, start)

	return publishers, nil
}

// Members returns all members.
func (c QueryController) Members(ctx context.Context) ([]librarystore.Member, error) {
	start := time.Now()

	members, err := c.gateway.ListMembers(ctx)
	if err != nil {
		c.instr.recordError(ctx, actionMembers, start, err)
		return nil, err
	}

	c.instr.recordSuccess(ctx, actionMembers, start)

	return members, nil
}

// Loans returns all loans.
func (c QueryController) Loans(ctx context.Context) ([]librarystore.Loan, error) {
	start := time.Now()

	loans, err := c.gateway.ListLoans(ctx)
	if err != nil {
		c.instr.recordError(ctx, actionLoans, start, err)
		return nil, err
	}

	c.instr.recordSuccess(ctx, actionLoans, start)

	return loans, nil
}

// MembersForBook returns everyone who borrowed the book with the given title.
func (c QueryController) MembersForBook(ctx context.Context, title string) ([]librarystore.BorrowedBookRow, error) {
	start := time.Now()

	borrowers, err := c.gateway.ListMembersForBook(ctx, strings.TrimSpace(title))
	if err != nil {
		c.instr.recordError(ctx, actionMembersForBook, start, err)
		return nil, err
	}

	c.instr.recordSuccess(ctx, actionMembersForBook, start)

	return borrowers, nil
}

// MembersWithAnyLoan returns the distinct members that borrowed at least once.
func (c QueryController) MembersWithAnyLoan(ctx context.Context) ([]librarystore.MemberSummary, error) {
	start := time.Now()

	members, err := c.gateway.ListMembersWithAnyLoan(ctx)
	if err != nil {
		c.instr.recordError(ctx, actionMembersWithAnyLoan, start, err)
		return nil, err
	}

	c.instr.recordSuccess(ctx, actionMembersWithAnyLoan, start)

	return members, nil
}
