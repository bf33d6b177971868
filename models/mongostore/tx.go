package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	serverError "github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookDocument struct {
	ISBN          string   `bson:"isbn"`
	Title         string   `bson:"title"`
	PublisherName string   `bson:"publisher_name"`
	AuthorNames   []string `bson:"author_names"`
}

type authorDocument struct {
	Name      string    `bson:"name"`
	BirthDate time.Time `bson:"birth_date"`
}

func (d authorDocument) toAuthor() models.Author {
	return models.Author{Name: d.Name, BirthDate: d.BirthDate.UTC()}
}

type publisherDocument struct {
	PublisherName string `bson:"publisher_name"`
}

// loadChunkSize bounds the author names sent in one $in filter.
const loadChunkSize = 1000

type tx struct {
	store   *Store
	session mongo.Session
}

// bind attaches the transaction session to ctx so every call joins it.
func (t *tx) bind(ctx context.Context) context.Context {

	if t.session == nil {
		return ctx
	}

	return mongo.NewSessionContext(ctx, t.session)
}

func (t *tx) load(ctx context.Context, docs []bookDocument) ([]models.Book, error) {

	if len(docs) == 0 {
		return []models.Book{}, nil
	}

	names := lo.Uniq(lo.FlatMap(docs, func(doc bookDocument, _ int) []string {
		return doc.AuthorNames
	}))

	authorsByName := map[string]models.Author{}
	for _, chunk := range lo.Chunk(names, loadChunkSize) {

		cur, err := t.store.authors.Find(ctx, InMatchBson("name", chunk))
		if err != nil {
			return nil, fmt.Errorf("loading authors: %w", err)
		}

		var authorDocs []authorDocument
		if err := cur.All(ctx, &authorDocs); err != nil {
			return nil, fmt.Errorf("loading authors: %w", err)
		}

		for _, doc := range authorDocs {
			authorsByName[doc.Name] = doc.toAuthor()
		}
	}

	return lo.Map(docs, func(doc bookDocument, _ int) models.Book {

		authors := lo.FilterMap(doc.AuthorNames, func(name string, _ int) (models.Author, bool) {
			author, ok := authorsByName[name]
			return author, ok
		})

		return models.Book{
			ISBN:      doc.ISBN,
			Title:     doc.Title,
			Authors:   authors,
			Publisher: models.Publisher{PublisherName: doc.PublisherName},
		}
	}), nil
}

func (t *tx) findBooks(ctx context.Context, filter bson.D) ([]models.Book, error) {

	ctx = t.bind(ctx)

	cur, err := t.store.books.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("finding books: %w", err)
	}

	var docs []bookDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding books: %w", err)
	}

	return t.load(ctx, docs)
}

func (t *tx) FindBook(ctx context.Context, isbn string) (models.Book, error) {

	ctx = t.bind(ctx)

	var doc bookDocument
	err := t.store.books.FindOne(ctx, EqualMatchBson("isbn", isbn)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Book{}, serverError.ObjectIDNotFoundError.New(isbn)
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("finding book %s: %w", isbn, err)
	}

	books, err := t.load(ctx, []bookDocument{doc})
	if err != nil {
		return models.Book{}, err
	}

	return books[0], nil
}

func (t *tx) BookExists(ctx context.Context, isbn string) (bool, error) {

	count, err := t.store.books.CountDocuments(t.bind(ctx), EqualMatchBson("isbn", isbn), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("counting book %s: %w", isbn, err)
	}

	return count > 0, nil
}

func (t *tx) SaveBook(ctx context.Context, book models.Book) error {

	doc := bookDocument{
		ISBN:          book.ISBN,
		Title:         book.Title,
		PublisherName: book.Publisher.PublisherName,
		AuthorNames:   lo.Uniq(book.AuthorNames()),
	}

	_, err := t.store.books.InsertOne(t.bind(ctx), doc, options.InsertOne())
	if mongo.IsDuplicateKeyError(err) {
		return serverError.DuplicatedObjectIDError.New(book.ISBN)
	}
	if err != nil {
		return fmt.Errorf("inserting book %s: %w", book.ISBN, err)
	}

	return nil
}

func (t *tx) UpdateBookTitle(ctx context.Context, isbn, title string) error {

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "title", Value: title}}}}

	result, err := t.store.books.UpdateOne(t.bind(ctx), EqualMatchBson("isbn", isbn), update)
	if err != nil {
		return fmt.Errorf("updating book %s: %w", isbn, err)
	}

	if result.MatchedCount == 0 {
		return serverError.ObjectIDNotFoundError.New(isbn)
	}

	return nil
}

func (t *tx) DeleteBook(ctx context.Context, isbn string) error {

	result, err := t.store.books.DeleteOne(t.bind(ctx), EqualMatchBson("isbn", isbn))
	if err != nil {
		return fmt.Errorf("deleting book %s: %w", isbn, err)
	}

	if result.DeletedCount == 0 {
		return serverError.ObjectIDNotFoundError.New(isbn)
	}

	return nil
}

func (t *tx) AllBooks(ctx context.Context) ([]models.Book, error) {
	return t.findBooks(ctx, bson.D{})
}

func (t *tx) BooksByPublisher(ctx context.Context, publisherName string) ([]models.Book, error) {
	return t.findBooks(ctx, EqualMatchBson("publisher_name", publisherName))
}

func (t *tx) FindAuthor(ctx context.Context, name string) (models.Author, error) {

	var doc authorDocument
	err := t.store.authors.FindOne(t.bind(ctx), EqualMatchBson("name", name)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Author{}, serverError.ObjectIDNotFoundError.New(name)
	}
	if err != nil {
		return models.Author{}, fmt.Errorf("finding author %s: %w", name, err)
	}

	return doc.toAuthor(), nil
}

var upsertOption = options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

func (t *tx) FindOrCreateAuthor(ctx context.Context, author models.Author) (models.Author, error) {

	update := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "birth_date", Value: author.BirthDate}}}}

	var doc authorDocument
	err := t.store.authors.FindOneAndUpdate(t.bind(ctx), EqualMatchBson("name", author.Name), update, upsertOption).Decode(&doc)
	if err != nil {
		return models.Author{}, fmt.Errorf("upserting author %s: %w", author.Name, err)
	}

	return doc.toAuthor(), nil
}

func (t *tx) FindOrCreatePublisher(ctx context.Context, publisherName string) (models.Publisher, error) {

	update := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "publisher_name", Value: publisherName}}}}

	var doc publisherDocument
	err := t.store.publishers.FindOneAndUpdate(t.bind(ctx), EqualMatchBson("publisher_name", publisherName), update, upsertOption).Decode(&doc)
	if err != nil {
		return models.Publisher{}, fmt.Errorf("upserting publisher %s: %w", publisherName, err)
	}

	return models.Publisher{PublisherName: doc.PublisherName}, nil
}
