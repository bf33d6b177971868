// Package memory is an in-process entity store. Write transactions work on a
// copy of the data that replaces the committed state only when they succeed.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/samber/lo"
	serverError "github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/models"
)

var ErrReadOnly = errors.New("memory: write attempted in read-only transaction")

type bookRow struct {
	ISBN          string
	Title         string
	PublisherName string
	AuthorNames   []string
}

func (r bookRow) GetID() string {
	return r.ISBN
}

type state struct {
	books      table[bookRow]
	authors    table[models.Author]
	publishers table[models.Publisher]
}

func (s state) clone() state {
	return state{
		books:      s.books.clone(),
		authors:    s.authors.clone(),
		publishers: s.publishers.clone(),
	}
}

type Store struct {
	mu    sync.RWMutex
	state state
}

func New() *Store {
	return &Store{
		state: state{
			books:      newTable[bookRow](),
			authors:    newTable[models.Author](),
			publishers: newTable[models.Publisher](),
		},
	}
}

func (s *Store) Atomic(ctx context.Context, readOnly bool, fn func(tx models.Tx) error) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	if readOnly {
		s.mu.RLock()
		defer s.mu.RUnlock()

		return fn(&tx{state: &s.state, readOnly: true})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&tx{state: &working}); err != nil {
		return err
	}

	s.state = working
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(context.Context) error {
	return nil
}

type tx struct {
	state    *state
	readOnly bool
}

func (t *tx) writable() error {

	if t.readOnly {
		return ErrReadOnly
	}

	return nil
}

func (t *tx) load(row bookRow) models.Book {

	authors := lo.FilterMap(row.AuthorNames, func(name string, _ int) (models.Author, bool) {
		return t.state.authors.get(name)
	})

	publisher, _ := t.state.publishers.get(row.PublisherName)

	return models.Book{
		ISBN:      row.ISBN,
		Title:     row.Title,
		Authors:   authors,
		Publisher: publisher,
	}
}

func (t *tx) FindBook(ctx context.Context, isbn string) (models.Book, error) {

	row, ok := t.state.books.get(isbn)
	if !ok {
		return models.Book{}, serverError.ObjectIDNotFoundError.New(isbn)
	}

	return t.load(row), nil
}

func (t *tx) BookExists(ctx context.Context, isbn string) (bool, error) {

	_, ok := t.state.books.get(isbn)
	return ok, nil
}

func (t *tx) SaveBook(ctx context.Context, book models.Book) error {

	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.state.publishers.get(book.Publisher.PublisherName); !ok {
		return serverError.ObjectIDNotFoundError.New(book.Publisher.PublisherName)
	}

	for _, author := range book.Authors {
		if _, ok := t.state.authors.get(author.Name); !ok {
			return serverError.ObjectIDNotFoundError.New(author.Name)
		}
	}

	return t.state.books.insert(bookRow{
		ISBN:          book.ISBN,
		Title:         book.Title,
		PublisherName: book.Publisher.PublisherName,
		AuthorNames:   lo.Uniq(book.AuthorNames()),
	})
}

func (t *tx) UpdateBookTitle(ctx context.Context, isbn, title string) error {

	if err := t.writable(); err != nil {
		return err
	}

	row, ok := t.state.books.get(isbn)
	if !ok {
		return serverError.ObjectIDNotFoundError.New(isbn)
	}

	row.Title = title
	t.state.books.replace(row)

	return nil
}

func (t *tx) DeleteBook(ctx context.Context, isbn string) error {

	if err := t.writable(); err != nil {
		return err
	}

	if !t.state.books.delete(isbn) {
		return serverError.ObjectIDNotFoundError.New(isbn)
	}

	return nil
}

func (t *tx) AllBooks(ctx context.Context) ([]models.Book, error) {

	return lo.Map(t.state.books.all(), func(row bookRow, _ int) models.Book {
		return t.load(row)
	}), nil
}

func (t *tx) BooksByPublisher(ctx context.Context, publisherName string) ([]models.Book, error) {

	rows := lo.Filter(t.state.books.all(), func(row bookRow, _ int) bool {
		return row.PublisherName == publisherName
	})

	return lo.Map(rows, func(row bookRow, _ int) models.Book {
		return t.load(row)
	}), nil
}

func (t *tx) FindAuthor(ctx context.Context, name string) (models.Author, error) {

	author, ok := t.state.authors.get(name)
	if !ok {
		return models.Author{}, serverError.ObjectIDNotFoundError.New(name)
	}

	return author, nil
}

func (t *tx) FindOrCreateAuthor(ctx context.Context, author models.Author) (models.Author, error) {

	if existing, ok := t.state.authors.get(author.Name); ok {
		return existing, nil
	}

	if err := t.writable(); err != nil {
		return models.Author{}, err
	}

	if err := t.state.authors.insert(author); err != nil {
		return models.Author{}, err
	}

	return author, nil
}

func (t *tx) FindOrCreatePublisher(ctx context.Context, publisherName string) (models.Publisher, error) {

	if existing, ok := t.state.publishers.get(publisherName); ok {
		return existing, nil
	}

	if err := t.writable(); err != nil {
		return models.Publisher{}, err
	}

	publisher := models.Publisher{PublisherName: publisherName}
	if err := t.state.publishers.insert(publisher); err != nil {
		return models.Publisher{}, err
	}

	return publisher, nil
}
