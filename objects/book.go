package objects

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/supakorn-kn/book-catalog/models"
)

type Author struct {
	Name      string `json:"name"`
	BirthDate Date   `json:"birthDate"`
}

type Book struct {
	ISBN      string   `json:"isbn"`
	Title     string   `json:"title"`
	Authors   []Author `json:"authors"`
	Publisher string   `json:"publisher"`
}

// NewBook is the request body of AddBook.
type NewBook struct {
	ISBN      string   `json:"isbn"`
	Title     string   `json:"title"`
	Authors   []Author `json:"authors"`
	Publisher string   `json:"publisher"`
}

func FromAuthor(author models.Author) Author {
	return Author{
		Name:      author.Name,
		BirthDate: NewDate(author.BirthDate),
	}
}

// FromAuthors converts authors sorted by name.
func FromAuthors(authors []models.Author) []Author {

	converted := lo.Map(authors, func(author models.Author, _ int) Author {
		return FromAuthor(author)
	})

	slices.SortStableFunc(converted, func(a, b Author) int {
		return strings.Compare(a.Name, b.Name)
	})

	return converted
}

func ToAuthor(author Author) models.Author {
	return models.Author{
		Name:      author.Name,
		BirthDate: author.BirthDate.Time,
	}
}

func FromBook(book models.Book) Book {
	return Book{
		ISBN:      book.ISBN,
		Title:     book.Title,
		Authors:   FromAuthors(book.Authors),
		Publisher: book.Publisher.PublisherName,
	}
}

func FromBooks(books []models.Book) []Book {
	return lo.Map(books, func(book models.Book, _ int) Book {
		return FromBook(book)
	})
}
