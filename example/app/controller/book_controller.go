package controller

import (
	"context"
	"strings"
	"time"

	"github.com/libraryops/library-records-go/librarystore"
)

// BookGateway defines the storage operations the BookController needs.
type BookGateway interface {
	ListBooks(ctx context.Context) ([]librarystore.BookWithAuthor, error)
	AddBook(ctx context.Context, book librarystore.Book) error
	UpdateBook(ctx context.Context, book librarystore.Book) error
	DeleteBookByID(ctx context.Context, id int64) error
	FindBookByTitle(ctx context.Context, title string) (librarystore.Book, error)
}

const (
	actionListBooks       = "list_books"
	actionAddBook         = "add_book"
	actionUpdateBook      = "update_book"
	actionDeleteBook      = "delete_book"
	actionFindBookByTitle = "find_book_by_title"
)

// BookController drives the book catalog use cases. It normalizes input
// records before handing them to storage; a zero GenreID is replaced with
// the default genre.
type BookController struct {
	gateway BookGateway
	instr   instrumentation
}

// Option defines a functional option for configuring a controller.
type Option func(*instrumentation) error

// WithLogging sets the basic logger.
func WithLogging(logger librarystore.Logger) Option {
	return func(in *instrumentation) error {
		in.logger = logger
		return nil
	}
}

// WithContextualLogging sets the contextual logger.
func WithContextualLogging(logger librarystore.ContextualLogger) Option {
	return func(in *instrumentation) error {
		in.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector librarystore.MetricsCollector) Option {
	return func(in *instrumentation) error {
		in.metricsCollector = collector
		return nil
	}
}

// NewBookController creates a new BookController with the provided gateway and options.
func NewBookController(gateway BookGateway, opts ...Option) (BookController, error) {
	c := BookController{gateway: gateway}

	for _, opt := range opts {
		if err := opt(&c.instr); err != nil {
			return BookController{}, err
		}
	}

	return c, nil
}

// List returns the full catalog with author names.
func (c BookController) List(ctx context.Context) ([]librarystore.BookWithAuthor, error) {
	start := time.Now()

	books, err := c.gateway.ListBooks(ctx)
	if err != nil {
		c.instr.recordError(ctx, actionListBooks, start, err)
		return nil, err
	}

	c.instr.recordSuccess(ctx, actionListBooks, start)

	return books, nil
}

// Add stores a new book. Title and ISBN are trimmed, and a zero GenreID
// falls back to the default genre.
func (c BookController) Add(ctx context.Context, book librarystore.Book) error {
	start := time.Now()

	normalized := normalizeBook(book)

	if err := c.gateway.AddBook(ctx, normalized); err != nil {
		c.instr.recordError(ctx, actionAddBook, start, err)
		return err
	}

	c.instr.recordSuccess(ctx, actionAddBook, start)

	return nil
}

// Update overwrites an existing book with the normalized record.
func (c BookController) Update(ctx context.Context, book librarystore.Book) error {
	start := time.Now()

	normalized := normalizeBook(book)

	if err := c.gateway.UpdateBook(ctx, normalized); err != nil {
		c.instr.recordError(ctx, actionUpdateBook, start, err)
		return err
	}

	c.instr.recordSuccess(ctx, actionUpdateBook, start)

	return nil
}

// Delete removes the book with the given id.
func (c BookController) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	if err := c.gateway.DeleteBookByID(ctx, id); err != nil {
		c.instr.recordError(ctx, actionDeleteBook, start, err)
		return err
	}

	c.instr.recordSuccess(ctx, actionDeleteBook, start)

	return nil
}

// FindByTitle looks up a single book by its exact title.
func (c BookController) FindByTitle(ctx context.Context, title string) (librarystore.Book, error) {
	start := time.Now()

	book, err := c.gateway.FindBookByTitle(ctx, strings.TrimSpace(title))
	if err != nil {
		c.instr.recordError(ctx, actionFindBookByTitle, start, err)
		return librarystore.Book{}, err
	}

	c.instr.recordSuccess(ctx, actionFindBookByTitle, start)

	return book, nil
}

func normalizeBook(book librarystore.Book) librarystore.Book {
	book.Title = strings.TrimSpace(book.Title)
	book.ISBN = strings.TrimSpace(book.ISBN)

	if book.GenreID == 0 {
		book.GenreID = librarystore.DefaultGenreID
	}

	return book
}
