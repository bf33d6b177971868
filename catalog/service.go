// Package catalog holds the book catalog operations. Every operation runs in
// one store transaction and returns presentation objects.
package catalog

import (
	"context"

	"github.com/samber/lo"
	serverError "github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/logger"
	"github.com/supakorn-kn/book-catalog/metrics"
	"github.com/supakorn-kn/book-catalog/models"
	"github.com/supakorn-kn/book-catalog/objects"
)

type Service struct {
	store models.Store
}

func NewService(store models.Store) *Service {
	return &Service{store: store}
}

func (s *Service) read(ctx context.Context, operation string, fn func(tx models.Tx) error) error {
	return s.atomic(ctx, operation, true, fn)
}

func (s *Service) write(ctx context.Context, operation string, fn func(tx models.Tx) error) error {
	return s.atomic(ctx, operation, false, fn)
}

func (s *Service) atomic(ctx context.Context, operation string, readOnly bool, fn func(tx models.Tx) error) error {

	err := s.store.Atomic(ctx, readOnly, fn)
	metrics.CatalogOperations.WithLabelValues(operation, outcome(err)).Inc()

	if err != nil && !serverError.ObjectIDNotFoundError.IsEqual(err) {
		logger.For(ctx).WithError(err).WithField("operation", operation).Error("catalog operation failed")
	}

	return err
}

func outcome(err error) string {

	switch {
	case err == nil:
		return "ok"
	case serverError.ObjectIDNotFoundError.IsEqual(err):
		return "not_found"
	default:
		return "error"
	}
}

// AddBook stores a new book, creating its publisher and any missing authors.
// It returns false without changing anything when the ISBN is already used.
// Authors that already exist are reused as stored.
func (s *Service) AddBook(ctx context.Context, newBook objects.NewBook) (bool, error) {

	added := false

	err := s.write(ctx, "add_book", func(tx models.Tx) error {

		exists, err := tx.BookExists(ctx, newBook.ISBN)
		if err != nil || exists {
			return err
		}

		publisher, err := tx.FindOrCreatePublisher(ctx, newBook.Publisher)
		if err != nil {
			return err
		}

		requested := lo.UniqBy(newBook.Authors, func(author objects.Author) string {
			return author.Name
		})

		authors := make([]models.Author, 0, len(requested))
		for _, author := range requested {

			stored, err := tx.FindOrCreateAuthor(ctx, objects.ToAuthor(author))
			if err != nil {
				return err
			}

			authors = append(authors, stored)
		}

		err = tx.SaveBook(ctx, models.Book{
			ISBN:      newBook.ISBN,
			Title:     newBook.Title,
			Authors:   authors,
			Publisher: publisher,
		})
		if err != nil {
			return err
		}

		added = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

func (s *Service) FindBookByIsbn(ctx context.Context, isbn string) (objects.Book, error) {

	var book models.Book

	err := s.read(ctx, "find_book", func(tx models.Tx) (err error) {
		book, err = tx.FindBook(ctx, isbn)
		return err
	})
	if err != nil {
		return objects.Book{}, err
	}

	return objects.FromBook(book), nil
}

// RemoveBook deletes the book and returns it as it was. Its authors and
// publisher are kept.
func (s *Service) RemoveBook(ctx context.Context, isbn string) (objects.Book, error) {

	var book models.Book

	err := s.write(ctx, "remove_book", func(tx models.Tx) (err error) {

		book, err = tx.FindBook(ctx, isbn)
		if err != nil {
			return err
		}

		return tx.DeleteBook(ctx, isbn)
	})
	if err != nil {
		return objects.Book{}, err
	}

	return objects.FromBook(book), nil
}

func (s *Service) UpdateBookTitle(ctx context.Context, isbn, title string) (objects.Book, error) {

	var book models.Book

	err := s.write(ctx, "update_book_title", func(tx models.Tx) (err error) {

		if err := tx.UpdateBookTitle(ctx, isbn, title); err != nil {
			return err
		}

		book, err = tx.FindBook(ctx, isbn)
		return err
	})
	if err != nil {
		return objects.Book{}, err
	}

	return objects.FromBook(book), nil
}

func (s *Service) booksByAuthor(ctx context.Context, operation, authorName string) ([]models.Book, error) {

	var books []models.Book

	err := s.read(ctx, operation, func(tx models.Tx) (err error) {
		books, err = tx.AllBooks(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return lo.Filter(books, func(book models.Book, _ int) bool {
		return book.HasAuthor(authorName)
	}), nil
}

// FindBooksByAuthor matches the author name exactly, case included.
func (s *Service) FindBooksByAuthor(ctx context.Context, authorName string) ([]objects.Book, error) {

	books, err := s.booksByAuthor(ctx, "find_books_by_author", authorName)
	if err != nil {
		return nil, err
	}

	return objects.FromBooks(books), nil
}

func (s *Service) FindBooksByPublisher(ctx context.Context, publisherName string) ([]objects.Book, error) {

	var books []models.Book

	err := s.read(ctx, "find_books_by_publisher", func(tx models.Tx) (err error) {
		books, err = tx.BooksByPublisher(ctx, publisherName)
		return err
	})
	if err != nil {
		return nil, err
	}

	return objects.FromBooks(books), nil
}

func (s *Service) FindBookAuthors(ctx context.Context, isbn string) ([]objects.Author, error) {

	var book models.Book

	err := s.read(ctx, "find_book_authors", func(tx models.Tx) (err error) {
		book, err = tx.FindBook(ctx, isbn)
		return err
	})
	if err != nil {
		return nil, err
	}

	return objects.FromAuthors(book.Authors), nil
}

// FindPublishersByAuthor returns one publisher name per matching book, so a
// publisher appears as often as it published the author.
func (s *Service) FindPublishersByAuthor(ctx context.Context, authorName string) ([]string, error) {

	books, err := s.booksByAuthor(ctx, "find_publishers_by_author", authorName)
	if err != nil {
		return nil, err
	}

	return lo.Map(books, func(book models.Book, _ int) string {
		return book.Publisher.PublisherName
	}), nil
}

// RemoveAuthor is not supported. It never removes anything and always returns nil.
func (s *Service) RemoveAuthor(ctx context.Context, authorName string) (*objects.Author, error) {

	logger.For(ctx).WithField("author", authorName).Warn("removing authors is not supported")
	metrics.CatalogOperations.WithLabelValues("remove_author", "unsupported").Inc()

	return nil, nil
}
