package helper

import (
	_ "embed"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/libraryops/library-records-go/librarystore"
	"github.com/libraryops/library-records-go/testutil/helper/postgreswrapper"
)

//go:embed seed_records.json
var seedRecordsJSON []byte

type seedPublisher struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type seedAuthor struct {
	Name string `json:"name"`
}

type seedMember struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Email     string `json:"email"`
}

type seedBook struct {
	Title     string   `json:"title"`
	ISBN      string   `json:"isbn"`
	PubYear   int      `json:"pub_year"`
	Publisher string   `json:"publisher"`
	Authors   []string `json:"authors"`
}

type seedData struct {
	Publishers []seedPublisher `json:"publishers"`
	Authors    []seedAuthor    `json:"authors"`
	Members    []seedMember    `json:"members"`
	Books      []seedBook      `json:"books"`
}

// SeededIDs holds the generated primary keys of the seed records,
// keyed by the natural identifiers used in the seed file.
type SeededIDs struct {
	Publishers map[string]int64
	Authors    map[string]int64
	Members    map[string]int64
	Books      map[string]int64
}

// SeedLibraryData loads the embedded seed records into the database and
// returns the generated ids so tests can build loans and copies on top.
func SeedLibraryData(t testing.TB, wrapper postgreswrapper.Wrapper) SeededIDs {
	var data seedData
	err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(seedRecordsJSON, &data)
	assert.NoError(t, err, "error parsing seed records")

	ids := SeededIDs{
		Publishers: make(map[string]int64),
		Authors:    make(map[string]int64),
		Members:    make(map[string]int64),
		Books:      make(map[string]int64),
	}

	for _, p := range data.Publishers {
		ids.Publishers[p.Name] = wrapper.QueryInt64(t,
			`INSERT INTO publisher (name, address, phone, email) VALUES ($1, $2, $3, $4) RETURNING publisher_id`,
			p.Name, p.Address, p.Phone, p.Email)
	}

	for _, a := range data.Authors {
		ids.Authors[a.Name] = wrapper.QueryInt64(t,
			`INSERT INTO author (name) VALUES ($1) RETURNING author_id`,
			a.Name)
	}

	for _, m := range data.Members {
		ids.Members[m.FirstName+" "+m.LastName] = wrapper.QueryInt64(t,
			`INSERT INTO members (first_name, last_name, address, email, membership_date) VALUES ($1, $2, $3, $4, $5) RETURNING member_id`,
			m.FirstName, m.LastName, m.Address, m.Email, time.Now().UTC())
	}

	for _, b := range data.Books {
		bookID := wrapper.QueryInt64(t,
			`INSERT INTO book (title, isbn, pub_year, genre_id, publisher_id) VALUES ($1, $2, $3, $4, $5) RETURNING book_id`,
			b.Title, b.ISBN, b.PubYear, librarystore.DefaultGenreID, ids.Publishers[b.Publisher])
		ids.Books[b.Title] = bookID

		for _, authorName := range b.Authors {
			wrapper.ExecSQL(t,
				`INSERT INTO book_author (book_id, author_id) VALUES ($1, $2)`,
				bookID, ids.Authors[authorName])
		}
	}

	return ids
}
