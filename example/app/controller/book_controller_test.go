package controller_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/libraryops/library-records-go/example/app/controller"
	"github.com/libraryops/library-records-go/librarystore"
)

type fakeBookGateway struct {
	books     []librarystore.BookWithAuthor
	added     []librarystore.Book
	updated   []librarystore.Book
	deletedID int64
	findByErr error
	found     librarystore.Book
	failWith  error
}

func (f *fakeBookGateway) ListBooks(_ context.Context) ([]librarystore.BookWithAuthor, error) {
	return f.books, f.failWith
}

func (f *fakeBookGateway) AddBook(_ context.Context, book librarystore.Book) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.added = append(f.added, book)
	return nil
}

func (f *fakeBookGateway) UpdateBook(_ context.Context, book librarystore.Book) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.updated = append(f.updated, book)
	return nil
}

func (f *fakeBookGateway) DeleteBookByID(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.deletedID = id
	return nil
}

func (f *fakeBookGateway) FindBookByTitle(_ context.Context, _ string) (librarystore.Book, error) {
	return f.found, f.findByErr
}

func Test_BookController_Add_AppliesTheDefaultGenre(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	err = bookController.Add(context.Background(), librarystore.Book{
		Title:       "  The Tidal Archive ",
		ISBN:        " 978-0-1000-0001-1",
		PubYear:     2018,
		PublisherID: 1,
	})

	// assert
	assert.NoError(t, err)
	assert.Len(t, gateway.added, 1)
	assert.Equal(t, librarystore.DefaultGenreID, gateway.added[0].GenreID, "a zero genre id should fall back to the default genre")
	assert.Equal(t, "The Tidal Archive", gateway.added[0].Title, "the title should be trimmed")
	assert.Equal(t, "978-0-1000-0001-1", gateway.added[0].ISBN, "the isbn should be trimmed")
}

func Test_BookController_Add_KeepsAnExplicitGenre(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	err = bookController.Add(context.Background(), librarystore.Book{
		Title:       "Winter Cartography",
		ISBN:        "978-0-1000-0002-8",
		PubYear:     2021,
		GenreID:     7,
		PublisherID: 1,
	})

	// assert
	assert.NoError(t, err)
	assert.Len(t, gateway.added, 1)
	assert.Equal(t, 7, gateway.added[0].GenreID)
}

func Test_BookController_Add_SurfacesGatewayErrors(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{failWith: librarystore.ErrAddingBookFailed}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	err = bookController.Add(context.Background(), librarystore.Book{Title: "The Tidal Archive"})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrAddingBookFailed)
}

func Test_BookController_Update_AppliesTheDefaultGenre(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	err = bookController.Update(context.Background(), librarystore.Book{
		ID:          3,
		Title:       "The Tidal Archive",
		ISBN:        "978-0-1000-0001-1",
		PubYear:     2018,
		PublisherID: 1,
	})

	// assert
	assert.NoError(t, err)
	assert.Len(t, gateway.updated, 1)
	assert.Equal(t, librarystore.DefaultGenreID, gateway.updated[0].GenreID)
}

func Test_BookController_Delete_PassesTheID(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	err = bookController.Delete(context.Background(), 42)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, int64(42), gateway.deletedID)
}

func Test_BookController_List_ReturnsTheCatalog(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{books: []librarystore.BookWithAuthor{
		{Book: librarystore.Book{ID: 1, Title: "The Tidal Archive"}, Author: "Iris Caldwell"},
	}}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	books, err := bookController.List(context.Background())

	// assert
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, "Iris Caldwell", books[0].Author)
}

func Test_BookController_FindByTitle_TrimsTheTitle(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{found: librarystore.Book{ID: 1, Title: "The Tidal Archive"}}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	book, err := bookController.FindByTitle(context.Background(), "  The Tidal Archive  ")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, int64(1), book.ID)
}

func Test_BookController_FindByTitle_SurfacesNotFound(t *testing.T) {
	// setup
	gateway := &fakeBookGateway{findByErr: librarystore.ErrRecordNotFound}
	bookController, err := controller.NewBookController(gateway)
	assert.NoError(t, err)

	// act
	_, err = bookController.FindByTitle(context.Background(), "No Such Title")

	// assert
	assert.ErrorIs(t, err, librarystore.ErrRecordNotFound)
}
