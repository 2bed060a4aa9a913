package postgresengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/libraryops/library-records-go/librarystore"
	. "github.com/libraryops/library-records-go/testutil/helper"                 //nolint:revive
	. "github.com/libraryops/library-records-go/testutil/helper/postgreswrapper" //nolint:revive
)

func setupWrapper(t testing.TB) Wrapper {
	wrapper := CreateWrapperWithTestConfig(t)
	CreateLibrarySchema(t, wrapper)
	CleanUp(t, wrapper)

	return wrapper
}

func Test_ListBooks_ReturnsAllBooksWithTheirFirstAuthor(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	authorID := GivenAuthorExists(t, wrapper, "Iris Caldwell")
	firstBookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	GivenBookWrittenBy(t, wrapper, firstBookID, authorID)
	secondBookID := GivenBookExists(t, wrapper, "Winter Cartography", publisherID)

	// act
	books, err := gateway.ListBooks(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, firstBookID, books[0].ID)
	assert.Equal(t, "The Tidal Archive", books[0].Title)
	assert.Equal(t, "Iris Caldwell", books[0].Author)
	assert.Equal(t, secondBookID, books[1].ID)
	assert.Empty(t, books[1].Author, "book without author rows should have an empty author")
}

func Test_ListBooks_ReturnsEachBookOnce_WithMultipleAuthors(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Northfield Books")
	firstAuthorID := GivenAuthorExists(t, wrapper, "Mei Tanaka")
	secondAuthorID := GivenAuthorExists(t, wrapper, "Tomas Rivera")
	bookID := GivenBookExists(t, wrapper, "A Field Guide to Silence", publisherID)
	GivenBookWrittenBy(t, wrapper, bookID, firstAuthorID)
	GivenBookWrittenBy(t, wrapper, bookID, secondAuthorID)

	// act
	books, err := gateway.ListBooks(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, books, 1, "a book with several authors should come back once")
	assert.Equal(t, "Mei Tanaka", books[0].Author, "the first author row should win")
}

func Test_ListBooks_ReturnsEmptyResult_WithEmptyDatabase(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// act
	books, err := gateway.ListBooks(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func Test_AddBook_InsertsTheBookRow(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	title := GivenUniqueTitle(t)

	// act
	err := gateway.AddBook(ctxWithTimeout, librarystore.Book{
		Title:       title,
		ISBN:        GivenUniqueISBN(t),
		PubYear:     2022,
		GenreID:     librarystore.DefaultGenreID,
		PublisherID: publisherID,
	})

	// assert
	assert.NoError(t, err)

	book, findErr := gateway.FindBookByTitle(ctxWithTimeout, title)
	assert.NoError(t, findErr)
	assert.Equal(t, title, book.Title)
	assert.Equal(t, librarystore.DefaultGenreID, book.GenreID)
	assert.NotZero(t, book.ID)
}

func Test_AddBook_ReturnsDomainError_WithViolatedForeignKey(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// act
	err := gateway.AddBook(ctxWithTimeout, librarystore.Book{
		Title:       GivenUniqueTitle(t),
		ISBN:        GivenUniqueISBN(t),
		PubYear:     2022,
		GenreID:     librarystore.DefaultGenreID,
		PublisherID: 999999,
	})

	// assert
	assert.ErrorIs(t, err, librarystore.ErrAddingBookFailed)
}

func Test_UpdateBook_OverwritesAllMutableFields(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	bookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	newTitle := GivenUniqueTitle(t)

	// act
	err := gateway.UpdateBook(ctxWithTimeout, librarystore.Book{
		ID:          bookID,
		Title:       newTitle,
		ISBN:        "978-0-1000-0099-9",
		PubYear:     2023,
		GenreID:     librarystore.DefaultGenreID,
		PublisherID: publisherID,
	})

	// assert
	assert.NoError(t, err)

	book, findErr := gateway.FindBookByTitle(ctxWithTimeout, newTitle)
	assert.NoError(t, findErr)
	assert.Equal(t, bookID, book.ID)
	assert.Equal(t, "978-0-1000-0099-9", book.ISBN)
	assert.Equal(t, 2023, book.PubYear)
}

func Test_UpdateBook_SucceedsSilently_WithUnknownID(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")

	// act
	err := gateway.UpdateBook(ctxWithTimeout, librarystore.Book{
		ID:          999999,
		Title:       GivenUniqueTitle(t),
		ISBN:        GivenUniqueISBN(t),
		PubYear:     2023,
		GenreID:     librarystore.DefaultGenreID,
		PublisherID: publisherID,
	})

	// assert
	assert.NoError(t, err, "updating a missing book should not be an error")
}

func Test_DeleteBookByID_RemovesTheBookRow(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	bookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)

	// act
	err := gateway.DeleteBookByID(ctxWithTimeout, bookID)

	// assert
	assert.NoError(t, err)

	_, findErr := gateway.FindBookByTitle(ctxWithTimeout, "The Tidal Archive")
	assert.ErrorIs(t, findErr, librarystore.ErrRecordNotFound)
}

func Test_DeleteBookByID_SucceedsSilently_WithUnknownID(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// act
	err := gateway.DeleteBookByID(ctxWithTimeout, 999999)

	// assert
	assert.NoError(t, err, "deleting a missing book should not be an error")
}

func Test_FindBookByTitle_ReturnsTheFirstMatch(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	firstBookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)

	// act
	book, err := gateway.FindBookByTitle(ctxWithTimeout, "The Tidal Archive")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, firstBookID, book.ID, "the lowest book id should win with duplicate titles")
}

func Test_FindBookByTitle_ReturnsNotFound_WithUnknownTitle(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// act
	_, err := gateway.FindBookByTitle(ctxWithTimeout, "No Such Title")

	// assert
	assert.ErrorIs(t, err, librarystore.ErrRecordNotFound)
}

func Test_FindBookByTitle_MatchesCaseSensitively(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)

	// act
	_, err := gateway.FindBookByTitle(ctxWithTimeout, "the tidal archive")

	// assert
	assert.ErrorIs(t, err, librarystore.ErrRecordNotFound)
}

func Test_FindBookByAuthor_ResolvesThroughTheJoinTable(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Northfield Books")
	authorID := GivenAuthorExists(t, wrapper, "Tomas Rivera")
	bookID := GivenBookExists(t, wrapper, "Winter Cartography", publisherID)
	GivenBookWrittenBy(t, wrapper, bookID, authorID)

	// act
	book, err := gateway.FindBookByAuthor(ctxWithTimeout, "Tomas Rivera")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, bookID, book.ID)
	assert.Equal(t, "Winter Cartography", book.Title)
}

func Test_FindBookByAuthor_ReturnsNotFound_WithUnknownAuthor(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// act
	_, err := gateway.FindBookByAuthor(ctxWithTimeout, "Nobody Writes")

	// assert
	assert.ErrorIs(t, err, librarystore.ErrRecordNotFound)
}

func Test_ListBooksByAuthor_ReturnsAllBooksOfTheAuthor(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Northfield Books")
	authorID := GivenAuthorExists(t, wrapper, "Iris Caldwell")
	otherAuthorID := GivenAuthorExists(t, wrapper, "Mei Tanaka")
	firstBookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	secondBookID := GivenBookExists(t, wrapper, "A Field Guide to Silence", publisherID)
	otherBookID := GivenBookExists(t, wrapper, "Winter Cartography", publisherID)
	GivenBookWrittenBy(t, wrapper, firstBookID, authorID)
	GivenBookWrittenBy(t, wrapper, secondBookID, authorID)
	GivenBookWrittenBy(t, wrapper, otherBookID, otherAuthorID)

	// act
	books, err := gateway.ListBooksByAuthor(ctxWithTimeout, "Iris Caldwell")

	// assert
	assert.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, firstBookID, books[0].ID)
	assert.Equal(t, secondBookID, books[1].ID)
}

func Test_ListBooksByAuthor_ReturnsEmptyResult_WithUnknownAuthor(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// act
	books, err := gateway.ListBooksByAuthor(ctxWithTimeout, "Nobody Writes")

	// assert
	assert.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func Test_ListPublishers_ReturnsAllPublishers(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	firstID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	secondID := GivenPublisherExists(t, wrapper, "Northfield Books")

	// act
	publishers, err := gateway.ListPublishers(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, publishers, 2)
	assert.Equal(t, firstID, publishers[0].ID)
	assert.Equal(t, "Harborlight Press", publishers[0].Name)
	assert.Equal(t, secondID, publishers[1].ID)
}

func Test_ListMembers_ReturnsAllMembers(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	firstID := GivenMemberExists(t, wrapper, "Alice", "Morgan")
	secondID := GivenMemberExists(t, wrapper, "Ben", "Okafor")

	// act
	members, err := gateway.ListMembers(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, firstID, members[0].ID)
	assert.Equal(t, "Alice", members[0].FirstName)
	assert.Equal(t, "Morgan", members[0].LastName)
	assert.False(t, members[0].MembershipDate.IsZero())
	assert.Equal(t, secondID, members[1].ID)
}

func Test_ListLoans_ReturnsOpenAndReturnedLoans(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	bookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	copyID := GivenBookCopyExists(t, wrapper, bookID)
	memberID := GivenMemberExists(t, wrapper, "Alice", "Morgan")
	openLoanID := GivenLoanExists(t, wrapper, copyID, memberID)
	returnedLoanID := GivenLoanExists(t, wrapper, copyID, memberID)
	GivenLoanWasReturned(t, wrapper, returnedLoanID)

	// act
	loans, err := gateway.ListLoans(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, loans, 2)
	assert.Equal(t, openLoanID, loans[0].ID)
	assert.Equal(t, copyID, loans[0].CopyID)
	assert.Equal(t, memberID, loans[0].MemberID)
	assert.Nil(t, loans[0].ReturnDate, "an open loan should have no return date")
	assert.Equal(t, returnedLoanID, loans[1].ID)
	assert.NotNil(t, loans[1].ReturnDate, "a returned loan should carry its return date")
}

func Test_ListMembersForBook_ReturnsBorrowersWithLoanDates(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	bookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	copyID := GivenBookCopyExists(t, wrapper, bookID)
	aliceID := GivenMemberExists(t, wrapper, "Alice", "Morgan")
	benID := GivenMemberExists(t, wrapper, "Ben", "Okafor")
	GivenLoanExists(t, wrapper, copyID, aliceID)
	GivenLoanExists(t, wrapper, copyID, benID)

	otherBookID := GivenBookExists(t, wrapper, "Winter Cartography", publisherID)
	otherCopyID := GivenBookCopyExists(t, wrapper, otherBookID)
	GivenLoanExists(t, wrapper, otherCopyID, aliceID)

	// act
	borrowers, err := gateway.ListMembersForBook(ctxWithTimeout, "The Tidal Archive")

	// assert
	assert.NoError(t, err)
	assert.Len(t, borrowers, 2, "loans of other books should not appear")
	assert.Equal(t, "Alice", borrowers[0].FirstName)
	assert.Equal(t, "The Tidal Archive", borrowers[0].Title)
	assert.False(t, borrowers[0].IssueDate.IsZero())
	assert.False(t, borrowers[0].DueDate.IsZero())
	assert.Nil(t, borrowers[0].ReturnDate)
	assert.Equal(t, "Ben", borrowers[1].FirstName)
}

func Test_ListMembersForBook_ReturnsOneRowPerLoan_WithRepeatBorrower(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	bookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	copyID := GivenBookCopyExists(t, wrapper, bookID)
	aliceID := GivenMemberExists(t, wrapper, "Alice", "Morgan")
	firstLoanID := GivenLoanExists(t, wrapper, copyID, aliceID)
	GivenLoanWasReturned(t, wrapper, firstLoanID)
	GivenLoanExists(t, wrapper, copyID, aliceID)

	// act
	borrowers, err := gateway.ListMembersForBook(ctxWithTimeout, "The Tidal Archive")

	// assert
	assert.NoError(t, err)
	assert.Len(t, borrowers, 2, "a repeat borrower should appear once per loan")
	assert.NotNil(t, borrowers[0].ReturnDate)
	assert.Nil(t, borrowers[1].ReturnDate)
}

func Test_ListMembersForBook_ReturnsEmptyResult_WithUnknownTitle(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// act
	borrowers, err := gateway.ListMembersForBook(ctxWithTimeout, "No Such Title")

	// assert
	assert.NoError(t, err, "an unresolvable title is not an error")
	assert.NotNil(t, borrowers)
	assert.Empty(t, borrowers)
}

func Test_ListMembersWithAnyLoan_ReturnsDistinctMembers(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	publisherID := GivenPublisherExists(t, wrapper, "Harborlight Press")
	bookID := GivenBookExists(t, wrapper, "The Tidal Archive", publisherID)
	copyID := GivenBookCopyExists(t, wrapper, bookID)
	aliceID := GivenMemberExists(t, wrapper, "Alice", "Morgan")
	GivenMemberExists(t, wrapper, "Ben", "Okafor")
	GivenLoanExists(t, wrapper, copyID, aliceID)
	GivenLoanExists(t, wrapper, copyID, aliceID)

	// act
	members, err := gateway.ListMembersWithAnyLoan(ctxWithTimeout)

	// assert
	assert.NoError(t, err)
	assert.Len(t, members, 1, "members appear once regardless of loan count, members without loans not at all")
	assert.Equal(t, aliceID, members[0].ID)
	assert.Equal(t, "Alice", members[0].FirstName)
	assert.Equal(t, "Morgan", members[0].LastName)
}

func Test_Gateway_WorksWithSeededData(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := setupWrapper(t)
	defer wrapper.Close()
	gateway := wrapper.GetGateway()

	// arrange
	ids := SeedLibraryData(t, wrapper)

	// act
	books, listErr := gateway.ListBooks(ctxWithTimeout)
	book, findErr := gateway.FindBookByAuthor(ctxWithTimeout, "Tomas Rivera")

	// assert
	assert.NoError(t, listErr)
	assert.Len(t, books, 3)
	assert.NoError(t, findErr)
	assert.Equal(t, ids.Books["Winter Cartography"], book.ID)
}
