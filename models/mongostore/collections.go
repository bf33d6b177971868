package mongostore

import (
	"context"
	"slices"

	"github.com/supakorn-kn/book-catalog/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BooksCollection      = "books"
	AuthorsCollection    = "authors"
	PublishersCollection = "publishers"
)

type index struct {
	name   string
	keys   bson.D
	unique bool
}

type collectionSpec struct {
	name       string
	properties bson.M
	required   []string
	indexes    []index
}

var collectionSpecs = []collectionSpec{
	{
		name:     PublishersCollection,
		required: []string{"publisher_name"},
		properties: bson.M{
			"publisher_name": bson.M{
				"bsonType":    "string",
				"description": "Publisher name must not be empty",
			},
		},
		indexes: []index{
			{name: "publisher_name_1", keys: bson.D{{Key: "publisher_name", Value: 1}}, unique: true},
		},
	},
	{
		name:     AuthorsCollection,
		required: []string{"name", "birth_date"},
		properties: bson.M{
			"name": bson.M{
				"bsonType":    "string",
				"description": "Author name must not be empty",
			},
			"birth_date": bson.M{
				"bsonType":    "date",
				"description": "Birth date must be a date",
			},
		},
		indexes: []index{
			{name: "name_1", keys: bson.D{{Key: "name", Value: 1}}, unique: true},
		},
	},
	{
		name:     BooksCollection,
		required: []string{"isbn", "title", "publisher_name", "author_names"},
		properties: bson.M{
			"isbn": bson.M{
				"bsonType":    "string",
				"description": "ISBN must not be empty",
			},
			"title": bson.M{
				"bsonType":    "string",
				"description": "Title must be a string",
			},
			"publisher_name": bson.M{
				"bsonType":    "string",
				"description": "Publisher name must not be empty",
			},
			"author_names": bson.M{
				"bsonType":    "array",
				"uniqueItems": true,
				"items": bson.M{
					"bsonType": "string",
				},
				"description": "Author names must contains unique string elements",
			},
		},
		indexes: []index{
			{name: "isbn_1", keys: bson.D{{Key: "isbn", Value: 1}}, unique: true},
			{name: "publisher_name_1", keys: bson.D{{Key: "publisher_name", Value: 1}}},
		},
	},
}

// InitCollections creates every catalog collection with its validator, or
// updates the validator of an existing one, then creates missing indexes.
func InitCollections(ctx context.Context, conn *mongodb.MongoDBConn) error {

	db := conn.GetDatabase()

	collectionNameList, err := db.ListCollectionNames(ctx, bson.D{}, options.ListCollections())
	if err != nil {
		return err
	}

	for _, spec := range collectionSpecs {

		if err := spec.initCollection(ctx, db, collectionNameList); err != nil {
			return err
		}

		if err := spec.initIndexes(ctx, db.Collection(spec.name)); err != nil {
			return err
		}
	}

	return nil
}

func (c collectionSpec) validator() bson.D {
	return bson.D{
		{
			Key: "$jsonSchema", Value: bson.M{
				"bsonType":   "object",
				"required":   c.required,
				"properties": c.properties,
			},
		},
	}
}

func (c collectionSpec) initCollection(ctx context.Context, db *mongo.Database, existing []string) error {

	validator := c.validator()

	if slices.Contains(existing, c.name) {

		cmd := bson.D{
			{Key: "collMod", Value: c.name},
			{Key: "validator", Value: validator},
			{Key: "validationLevel", Value: "strict"},
		}

		return db.RunCommand(ctx, cmd, options.RunCmd()).Err()
	}

	collectionOption := options.CreateCollection()
	collectionOption.SetValidator(validator)
	collectionOption.SetValidationLevel("strict")

	return db.CreateCollection(ctx, c.name, collectionOption)
}

func (c collectionSpec) initIndexes(ctx context.Context, coll *mongo.Collection) error {

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return err
	}

	var indexes []bson.M
	if err := cur.All(ctx, &indexes); err != nil {
		return err
	}

	for _, idx := range c.indexes {

		contains := slices.ContainsFunc(indexes, func(m primitive.M) bool {
			return m["name"] == idx.name
		})
		if contains {
			continue
		}

		indexModelOption := options.Index()
		indexModelOption.SetName(idx.name)
		if idx.unique {
			indexModelOption.SetUnique(true)
		}

		indexModel := mongo.IndexModel{
			Keys:    idx.keys,
			Options: indexModelOption,
		}

		if _, err := coll.Indexes().CreateOne(ctx, indexModel, options.CreateIndexes()); err != nil {
			return err
		}
	}

	return nil
}
