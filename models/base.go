package models

import "context"

// Store is the entity store behind the catalog. Every read or write happens
// inside Atomic: fn's changes are committed when it returns nil and discarded
// otherwise.
type Store interface {
	Atomic(ctx context.Context, readOnly bool, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Tx is the set of operations available inside one store transaction.
// Lookups by identifier return errors.ObjectIDNotFoundError when nothing matches.
// Books are always returned with their publisher and authors loaded.
type Tx interface {
	FindBook(ctx context.Context, isbn string) (Book, error)
	BookExists(ctx context.Context, isbn string) (bool, error)
	SaveBook(ctx context.Context, book Book) error
	UpdateBookTitle(ctx context.Context, isbn, title string) error
	DeleteBook(ctx context.Context, isbn string) error
	AllBooks(ctx context.Context) ([]Book, error)
	BooksByPublisher(ctx context.Context, publisherName string) ([]Book, error)

	FindAuthor(ctx context.Context, name string) (Author, error)
	// FindOrCreateAuthor returns the stored author named author.Name, inserting
	// author first if no such record exists. An existing record is never modified.
	FindOrCreateAuthor(ctx context.Context, author Author) (Author, error)
	FindOrCreatePublisher(ctx context.Context, publisherName string) (Publisher, error)
}
