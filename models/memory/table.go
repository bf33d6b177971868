package memory

import (
	"slices"

	serverError "github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/models"
)

// table keeps rows keyed by ID and remembers insertion order so enumeration is stable.
type table[T models.Item] struct {
	order []string
	rows  map[string]T
}

func newTable[T models.Item]() table[T] {
	return table[T]{rows: map[string]T{}}
}

func (t table[T]) clone() table[T] {

	rows := make(map[string]T, len(t.rows))
	for id, row := range t.rows {
		rows[id] = row
	}

	return table[T]{order: slices.Clone(t.order), rows: rows}
}

func (t table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) insert(row T) error {

	id := row.GetID()
	if _, ok := t.rows[id]; ok {
		return serverError.DuplicatedObjectIDError.New(id)
	}

	t.rows[id] = row
	t.order = append(t.order, id)

	return nil
}

func (t *table[T]) replace(row T) bool {

	id := row.GetID()
	if _, ok := t.rows[id]; !ok {
		return false
	}

	t.rows[id] = row
	return true
}

func (t *table[T]) delete(id string) bool {

	if _, ok := t.rows[id]; !ok {
		return false
	}

	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(existing string) bool {
		return existing == id
	})

	return true
}

func (t table[T]) all() []T {

	rows := make([]T, 0, len(t.order))
	for _, id := range t.order {
		rows = append(rows, t.rows[id])
	}

	return rows
}
