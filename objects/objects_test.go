package objects

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supakorn-kn/book-catalog/models"
)

func TestDateJSON(t *testing.T) {

	t.Run("Should marshal as calendar date", func(t *testing.T) {

		b, err := json.Marshal(NewDate(time.Date(1920, 10, 1, 15, 4, 5, 0, time.UTC)))
		require.NoError(t, err)
		assert.Equal(t, `"1920-10-01"`, string(b))
	})

	t.Run("Should marshal zero date as null", func(t *testing.T) {

		b, err := json.Marshal(Date{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(b))
	})

	t.Run("Should unmarshal calendar date", func(t *testing.T) {

		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"1920-10-01"`), &d))
		assert.Equal(t, time.Date(1920, 10, 1, 0, 0, 0, 0, time.UTC), d.Time)
	})

	t.Run("Should reject other layouts", func(t *testing.T) {

		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"01/10/1920"`), &d))
		assert.Error(t, json.Unmarshal([]byte(`19201001`), &d))
	})
}

func TestFromBook(t *testing.T) {

	book := models.Book{
		ISBN:  "123",
		Title: "Good Omens",
		Authors: []models.Author{
			{Name: "Pratchett", BirthDate: time.Date(1948, 4, 28, 0, 0, 0, 0, time.UTC)},
			{Name: "Gaiman", BirthDate: time.Date(1960, 11, 10, 0, 0, 0, 0, time.UTC)},
		},
		Publisher: models.Publisher{PublisherName: "Gollancz"},
	}

	actual := FromBook(book)

	assert.Equal(t, "123", actual.ISBN)
	assert.Equal(t, "Good Omens", actual.Title)
	assert.Equal(t, "Gollancz", actual.Publisher)
	require.Len(t, actual.Authors, 2)
	assert.Equal(t, "Gaiman", actual.Authors[0].Name, "Authors should be sorted by name")
	assert.Equal(t, "1960-11-10", actual.Authors[0].BirthDate.String())

	b, err := json.Marshal(actual)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"isbn": "123",
		"title": "Good Omens",
		"publisher": "Gollancz",
		"authors": [
			{"name": "Gaiman", "birthDate": "1960-11-10"},
			{"name": "Pratchett", "birthDate": "1948-04-28"}
		]
	}`, string(b))
}

func TestToAuthor(t *testing.T) {

	author := Author{Name: "Herbert", BirthDate: NewDate(time.Date(1920, 10, 1, 0, 0, 0, 0, time.UTC))}

	assert.Equal(t, author, FromAuthor(ToAuthor(author)))
}

func TestFromBooksKeepsOrder(t *testing.T) {

	books := []models.Book{{ISBN: "2"}, {ISBN: "1"}}

	actual := FromBooks(books)
	require.Len(t, actual, 2)
	assert.Equal(t, "2", actual[0].ISBN)
	assert.Equal(t, "1", actual[1].ISBN)
	assert.Empty(t, FromBooks(nil))
}
