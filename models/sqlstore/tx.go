package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	serverError "github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/models"
)

const dateLayout = "2006-01-02"

// loadChunkSize bounds the ISBN placeholders of one author query below every
// driver's variable limit.
const loadChunkSize = 500

type bookRow struct {
	ISBN          string `db:"isbn"`
	Title         string `db:"title"`
	PublisherName string `db:"publisher_name"`
}

type authorRow struct {
	ISBN      string `db:"isbn"`
	Name      string `db:"name"`
	BirthDate string `db:"birth_date"`
}

func (r authorRow) toAuthor() (models.Author, error) {

	birthDate, err := parseDate(r.BirthDate)
	if err != nil {
		return models.Author{}, err
	}

	return models.Author{Name: r.Name, BirthDate: birthDate}, nil
}

// tx builds statements with sb, which runs them on sqlTx, and scans query results through sqlTx.
type tx struct {
	sb    sq.StatementBuilderType
	sqlTx *sqlx.Tx
}

func (t *tx) selectBooks(ctx context.Context, where any) ([]models.Book, error) {

	query := t.sb.Select("isbn", "title", "publisher_name").From("books")
	if where != nil {
		query = query.Where(where)
	}

	statement, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select books: %w", err)
	}

	var bookRows []bookRow
	if err := t.sqlTx.SelectContext(ctx, &bookRows, statement, args...); err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}

	return t.loadBooks(ctx, bookRows)
}

func (t *tx) selectAuthorRows(ctx context.Context, isbns []string) ([]authorRow, error) {

	statement, args, err := t.sb.Select("ba.isbn AS isbn", "a.name AS name", "a.birth_date AS birth_date").
		From("book_authors ba").
		Join("authors a ON a.name = ba.author_name").
		Where(sq.Eq{"ba.isbn": isbns}).
		OrderBy("a.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select book authors: %w", err)
	}

	var authorRows []authorRow
	if err := t.sqlTx.SelectContext(ctx, &authorRows, statement, args...); err != nil {
		return nil, fmt.Errorf("select book authors: %w", err)
	}

	return authorRows, nil
}

// loadBooks resolves the authors of every row, querying loadChunkSize books at a time.
func (t *tx) loadBooks(ctx context.Context, bookRows []bookRow) ([]models.Book, error) {

	if len(bookRows) == 0 {
		return []models.Book{}, nil
	}

	isbns := lo.Map(bookRows, func(row bookRow, _ int) string {
		return row.ISBN
	})

	authorsByISBN := map[string][]models.Author{}
	for _, chunk := range lo.Chunk(isbns, loadChunkSize) {

		authorRows, err := t.selectAuthorRows(ctx, chunk)
		if err != nil {
			return nil, err
		}

		for _, row := range authorRows {

			author, err := row.toAuthor()
			if err != nil {
				return nil, err
			}

			authorsByISBN[row.ISBN] = append(authorsByISBN[row.ISBN], author)
		}
	}

	return lo.Map(bookRows, func(row bookRow, _ int) models.Book {
		return models.Book{
			ISBN:      row.ISBN,
			Title:     row.Title,
			Authors:   authorsByISBN[row.ISBN],
			Publisher: models.Publisher{PublisherName: row.PublisherName},
		}
	}), nil
}

func (t *tx) FindBook(ctx context.Context, isbn string) (models.Book, error) {

	books, err := t.selectBooks(ctx, sq.Eq{"isbn": isbn})
	if err != nil {
		return models.Book{}, err
	}

	if len(books) == 0 {
		return models.Book{}, serverError.ObjectIDNotFoundError.New(isbn)
	}

	return books[0], nil
}

func (t *tx) BookExists(ctx context.Context, isbn string) (bool, error) {

	statement, args, err := t.sb.Select("COUNT(*)").From("books").Where(sq.Eq{"isbn": isbn}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build count books: %w", err)
	}

	var count int
	if err := t.sqlTx.GetContext(ctx, &count, statement, args...); err != nil {
		return false, fmt.Errorf("count books: %w", err)
	}

	return count > 0, nil
}

func (t *tx) SaveBook(ctx context.Context, book models.Book) error {

	_, err := t.sb.Insert("books").
		Columns("isbn", "title", "publisher_name").
		Values(book.ISBN, book.Title, book.Publisher.PublisherName).
		ExecContext(ctx)
	if err != nil {

		if isUniqueViolation(err) {
			return serverError.DuplicatedObjectIDError.New(book.ISBN)
		}

		return fmt.Errorf("insert book: %w", err)
	}

	names := lo.Uniq(book.AuthorNames())
	if len(names) == 0 {
		return nil
	}

	insert := t.sb.Insert("book_authors").Columns("isbn", "author_name")
	for _, name := range names {
		insert = insert.Values(book.ISBN, name)
	}

	if _, err := insert.ExecContext(ctx); err != nil {
		return fmt.Errorf("insert book authors: %w", err)
	}

	return nil
}

func (t *tx) UpdateBookTitle(ctx context.Context, isbn, title string) error {

	result, err := t.sb.Update("books").
		Set("title", title).
		Where(sq.Eq{"isbn": isbn}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update book title: %w", err)
	}

	return expectAffected(result, isbn)
}

func (t *tx) DeleteBook(ctx context.Context, isbn string) error {

	if _, err := t.sb.Delete("book_authors").Where(sq.Eq{"isbn": isbn}).ExecContext(ctx); err != nil {
		return fmt.Errorf("delete book authors: %w", err)
	}

	result, err := t.sb.Delete("books").Where(sq.Eq{"isbn": isbn}).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	return expectAffected(result, isbn)
}

func (t *tx) AllBooks(ctx context.Context) ([]models.Book, error) {
	return t.selectBooks(ctx, nil)
}

func (t *tx) BooksByPublisher(ctx context.Context, publisherName string) ([]models.Book, error) {
	return t.selectBooks(ctx, sq.Eq{"publisher_name": publisherName})
}

func (t *tx) FindAuthor(ctx context.Context, name string) (models.Author, error) {

	statement, args, err := t.sb.Select("name", "birth_date").From("authors").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return models.Author{}, fmt.Errorf("build select author: %w", err)
	}

	var row authorRow
	err = t.sqlTx.GetContext(ctx, &row, statement, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Author{}, serverError.ObjectIDNotFoundError.New(name)
	}

	if err != nil {
		return models.Author{}, fmt.Errorf("select author: %w", err)
	}

	return row.toAuthor()
}

func (t *tx) FindOrCreateAuthor(ctx context.Context, author models.Author) (models.Author, error) {

	_, err := t.sb.Insert("authors").
		Columns("name", "birth_date").
		Values(author.Name, author.BirthDate.Format(dateLayout)).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ExecContext(ctx)
	if err != nil {
		return models.Author{}, fmt.Errorf("insert author: %w", err)
	}

	return t.FindAuthor(ctx, author.Name)
}

func (t *tx) FindOrCreatePublisher(ctx context.Context, publisherName string) (models.Publisher, error) {

	_, err := t.sb.Insert("publishers").
		Columns("name").
		Values(publisherName).
		Suffix("ON CONFLICT (name) DO NOTHING").
		ExecContext(ctx)
	if err != nil {
		return models.Publisher{}, fmt.Errorf("insert publisher: %w", err)
	}

	return models.Publisher{PublisherName: publisherName}, nil
}

func expectAffected(result sql.Result, isbn string) error {

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return serverError.ObjectIDNotFoundError.New(isbn)
	}

	return nil
}

func parseDate(value string) (time.Time, error) {

	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}

	return date, nil
}
