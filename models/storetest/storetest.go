// Package storetest holds the behaviour every models.Store implementation must share.
package storetest

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/suite"
	serverError "github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/models"
)

// StoreSuite runs against Store. Embedders set Store in SetupSuite and
// implement Reset to clear it between tests.
type StoreSuite struct {
	suite.Suite
	Store models.Store
	Reset func()

	insertedBook models.Book
}

func (s *StoreSuite) BeforeTest(suiteName, testName string) {

	if s.Reset != nil {
		s.Reset()
	}

	s.insertedBook = s.saveBook(FakeBook())
}

func (s *StoreSuite) write(fn func(tx models.Tx) error) error {
	return s.Store.Atomic(context.Background(), false, fn)
}

func (s *StoreSuite) read(fn func(tx models.Tx) error) error {
	return s.Store.Atomic(context.Background(), true, fn)
}

func (s *StoreSuite) saveBook(book models.Book) models.Book {

	ctx := context.Background()

	err := s.write(func(tx models.Tx) error {

		publisher, err := tx.FindOrCreatePublisher(ctx, book.Publisher.PublisherName)
		if err != nil {
			return err
		}
		book.Publisher = publisher

		for i, author := range book.Authors {
			stored, err := tx.FindOrCreateAuthor(ctx, author)
			if err != nil {
				return err
			}
			book.Authors[i] = stored
		}

		return tx.SaveBook(ctx, book)
	})
	s.Require().NoError(err, "Saving book before testing failed")

	return book
}

func (s *StoreSuite) findBook(isbn string) (book models.Book, err error) {

	err = s.read(func(tx models.Tx) error {
		book, err = tx.FindBook(context.Background(), isbn)
		return err
	})

	return
}

func (s *StoreSuite) TestFindBook() {

	s.Run("Should load book with publisher and authors", func() {

		actual, err := s.findBook(s.insertedBook.ISBN)
		s.Require().NoError(err)
		s.Equal(s.insertedBook.ISBN, actual.ISBN)
		s.Equal(s.insertedBook.Title, actual.Title)
		s.Equal(s.insertedBook.Publisher, actual.Publisher)
		s.ElementsMatch(s.insertedBook.AuthorNames(), actual.AuthorNames())

		for _, author := range actual.Authors {
			s.False(author.BirthDate.IsZero(), "Author birth date should be loaded")
		}
	})

	s.Run("Should return not found for unknown isbn", func() {

		_, err := s.findBook("non-exist_isbn")
		s.Require().ErrorIs(err, serverError.ObjectIDNotFoundError.New())
	})
}

func (s *StoreSuite) TestBookExists() {

	var exists, missing bool
	err := s.read(func(tx models.Tx) (err error) {

		ctx := context.Background()
		if exists, err = tx.BookExists(ctx, s.insertedBook.ISBN); err != nil {
			return err
		}

		missing, err = tx.BookExists(ctx, "non-exist_isbn")
		return err
	})

	s.Require().NoError(err)
	s.True(exists)
	s.False(missing)
}

func (s *StoreSuite) TestSaveBook() {

	s.Run("Should reject duplicated isbn", func() {

		duplicate := FakeBook()
		duplicate.ISBN = s.insertedBook.ISBN

		err := s.write(func(tx models.Tx) error {

			ctx := context.Background()
			publisher, err := tx.FindOrCreatePublisher(ctx, duplicate.Publisher.PublisherName)
			if err != nil {
				return err
			}
			duplicate.Publisher = publisher
			duplicate.Authors = nil

			return tx.SaveBook(ctx, duplicate)
		})
		s.Require().Error(err)

		actual, err := s.findBook(s.insertedBook.ISBN)
		s.Require().NoError(err)
		s.Equal(s.insertedBook.Title, actual.Title)
	})

	s.Run("Should discard every change when transaction fails", func() {

		book := FakeBook()
		rollback := stdErrors.New("rollback")

		err := s.write(func(tx models.Tx) error {

			ctx := context.Background()
			publisher, err := tx.FindOrCreatePublisher(ctx, book.Publisher.PublisherName)
			if err != nil {
				return err
			}
			book.Publisher = publisher

			if _, err := tx.FindOrCreateAuthor(ctx, book.Authors[0]); err != nil {
				return err
			}

			book.Authors = book.Authors[:1]
			if err := tx.SaveBook(ctx, book); err != nil {
				return err
			}

			return rollback
		})
		s.Require().ErrorIs(err, rollback)

		_, err = s.findBook(book.ISBN)
		s.Require().ErrorIs(err, serverError.ObjectIDNotFoundError.New())

		err = s.read(func(tx models.Tx) error {
			_, err := tx.FindAuthor(context.Background(), book.Authors[0].Name)
			return err
		})
		s.Require().ErrorIs(err, serverError.ObjectIDNotFoundError.New())
	})
}

func (s *StoreSuite) TestFindOrCreate() {

	s.Run("Should reuse existing author without changing it", func() {

		existing := s.insertedBook.Authors[0]

		var actual models.Author
		err := s.write(func(tx models.Tx) (err error) {
			actual, err = tx.FindOrCreateAuthor(context.Background(), models.Author{
				Name:      existing.Name,
				BirthDate: existing.BirthDate.AddDate(-10, 0, 0),
			})
			return err
		})

		s.Require().NoError(err)
		s.Equal(existing.Name, actual.Name)
		s.True(existing.BirthDate.Equal(actual.BirthDate))
	})

	s.Run("Should create missing publisher", func() {

		name := fmt.Sprintf("publisher_%s", gofakeit.UUID())

		var actual models.Publisher
		err := s.write(func(tx models.Tx) (err error) {
			actual, err = tx.FindOrCreatePublisher(context.Background(), name)
			return err
		})

		s.Require().NoError(err)
		s.Equal(name, actual.PublisherName)

		err = s.write(func(tx models.Tx) (err error) {
			actual, err = tx.FindOrCreatePublisher(context.Background(), name)
			return err
		})
		s.Require().NoError(err, "Second find-or-create should reuse the publisher")
		s.Equal(name, actual.PublisherName)
	})
}

func (s *StoreSuite) TestUpdateBookTitle() {

	s.Run("Should change title only", func() {

		err := s.write(func(tx models.Tx) error {
			return tx.UpdateBookTitle(context.Background(), s.insertedBook.ISBN, "New title")
		})
		s.Require().NoError(err)

		actual, err := s.findBook(s.insertedBook.ISBN)
		s.Require().NoError(err)
		s.Equal("New title", actual.Title)
		s.Equal(s.insertedBook.Publisher, actual.Publisher)
		s.ElementsMatch(s.insertedBook.AuthorNames(), actual.AuthorNames())
	})

	s.Run("Should return not found for unknown isbn", func() {

		err := s.write(func(tx models.Tx) error {
			return tx.UpdateBookTitle(context.Background(), "non-exist_isbn", "title")
		})
		s.Require().ErrorIs(err, serverError.ObjectIDNotFoundError.New())
	})
}

func (s *StoreSuite) TestDeleteBook() {

	s.Run("Should delete book but keep its authors and publisher", func() {

		err := s.write(func(tx models.Tx) error {
			return tx.DeleteBook(context.Background(), s.insertedBook.ISBN)
		})
		s.Require().NoError(err)

		_, err = s.findBook(s.insertedBook.ISBN)
		s.Require().ErrorIs(err, serverError.ObjectIDNotFoundError.New())

		err = s.read(func(tx models.Tx) error {
			_, err := tx.FindAuthor(context.Background(), s.insertedBook.Authors[0].Name)
			return err
		})
		s.Require().NoError(err, "Author should survive book deletion")
	})

	s.Run("Should return not found for unknown isbn", func() {

		err := s.write(func(tx models.Tx) error {
			return tx.DeleteBook(context.Background(), "non-exist_isbn")
		})
		s.Require().ErrorIs(err, serverError.ObjectIDNotFoundError.New())
	})
}

func (s *StoreSuite) TestListBooks() {

	second := FakeBook()
	second.Publisher = s.insertedBook.Publisher
	second = s.saveBook(second)

	other := s.saveBook(FakeBook())

	s.Run("Should list all books with relations", func() {

		var books []models.Book
		err := s.read(func(tx models.Tx) (err error) {
			books, err = tx.AllBooks(context.Background())
			return err
		})
		s.Require().NoError(err)

		isbns := make([]string, 0, len(books))
		for _, book := range books {
			isbns = append(isbns, book.ISBN)
			s.NotEmpty(book.Publisher.PublisherName)
			s.NotEmpty(book.Authors)
		}
		s.ElementsMatch([]string{s.insertedBook.ISBN, second.ISBN, other.ISBN}, isbns)
	})

	s.Run("Should list books by exact publisher name", func() {

		var books []models.Book
		err := s.read(func(tx models.Tx) (err error) {
			books, err = tx.BooksByPublisher(context.Background(), s.insertedBook.Publisher.PublisherName)
			return err
		})
		s.Require().NoError(err)

		isbns := make([]string, 0, len(books))
		for _, book := range books {
			isbns = append(isbns, book.ISBN)
		}
		s.ElementsMatch([]string{s.insertedBook.ISBN, second.ISBN}, isbns)
	})

	s.Run("Should return nothing for unknown publisher", func() {

		var books []models.Book
		err := s.read(func(tx models.Tx) (err error) {
			books, err = tx.BooksByPublisher(context.Background(), "non-exist_publisher")
			return err
		})
		s.Require().NoError(err)
		s.Empty(books)
	})
}

// FakeBook builds a book with two distinct authors and unique identifiers.
func FakeBook() models.Book {

	fakeInfo := gofakeit.Book()
	uuid := gofakeit.UUID()

	return models.Book{
		ISBN:  fmt.Sprintf("isbn_%s", uuid),
		Title: fakeInfo.Title,
		Authors: []models.Author{
			FakeAuthor(),
			FakeAuthor(),
		},
		Publisher: models.Publisher{PublisherName: fmt.Sprintf("publisher_%s", uuid)},
	}
}

func FakeAuthor() models.Author {

	birthDate := gofakeit.DateRange(
		time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	)

	return models.Author{
		Name:      fmt.Sprintf("%s_%s", gofakeit.Name(), gofakeit.UUID()),
		BirthDate: time.Date(birthDate.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, time.UTC),
	}
}
