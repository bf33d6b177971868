package models

import (
	"time"

	"github.com/samber/lo"
)

type Item interface {
	GetID() string
}

type Publisher struct {
	PublisherName string
}

func (p Publisher) GetID() string {
	return p.PublisherName
}

type Author struct {
	Name      string
	BirthDate time.Time
}

func (a Author) GetID() string {
	return a.Name
}

// Book references its publisher and authors by value; both are shared records
// owned by their own collections.
type Book struct {
	ISBN      string
	Title     string
	Authors   []Author
	Publisher Publisher
}

func (b Book) GetID() string {
	return b.ISBN
}

// HasAuthor reports whether an author named exactly name (case-sensitive) wrote b.
func (b Book) HasAuthor(name string) bool {
	return lo.ContainsBy(b.Authors, func(a Author) bool {
		return a.Name == name
	})
}

func (b Book) AuthorNames() []string {
	return lo.Map(b.Authors, func(a Author, _ int) string {
		return a.Name
	})
}
