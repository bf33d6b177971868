package mongodb

import (
	"context"
	"errors"

	"github.com/supakorn-kn/book-catalog/env"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBConn struct {
	Client *mongo.Client
	opts   *options.ClientOptions
	dbName string
}

func (db *MongoDBConn) Connect(ctx context.Context) error {

	client, err := mongo.Connect(ctx, db.opts)
	if err != nil {
		return err
	}

	db.Client = client

	return nil
}

func (db *MongoDBConn) Disconnect(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

func (db *MongoDBConn) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *MongoDBConn) GetDatabase() *mongo.Database {
	return db.Client.Database(db.dbName)
}

func (db *MongoDBConn) GetCollection(collectionName string) *mongo.Collection {
	return db.GetDatabase().Collection(collectionName)
}

func New(config env.MongoDBConfig) (*MongoDBConn, error) {

	if config.URI == "" {
		return nil, errors.New("MongoDB URI must not be empty")
	}

	if config.DB == "" {
		return nil, errors.New("MongoDB database name must not be empty")
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(config.URI).SetServerAPIOptions(serverAPI)

	return &MongoDBConn{
		opts:   opts,
		dbName: config.DB,
	}, nil
}

func InitConnection(ctx context.Context, config env.MongoDBConfig) (*MongoDBConn, error) {

	mongodbConn, err := New(config)
	if err != nil {
		return nil, err
	}

	if err := mongodbConn.Connect(ctx); err != nil {
		return nil, err
	}

	if err := mongodbConn.Ping(ctx); err != nil {
		mongodbConn.Disconnect(ctx)
		return nil, err
	}

	return mongodbConn, nil
}
