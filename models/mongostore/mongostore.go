// Package mongostore keeps the catalog in three MongoDB collections. Write
// transactions run inside a client session and need a replica set.
package mongostore

import (
	"context"

	"github.com/supakorn-kn/book-catalog/models"
	"github.com/supakorn-kn/book-catalog/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

type Store struct {
	conn       *mongodb.MongoDBConn
	books      *mongo.Collection
	authors    *mongo.Collection
	publishers *mongo.Collection
}

// New prepares collections and indexes on an already connected conn.
func New(ctx context.Context, conn *mongodb.MongoDBConn) (*Store, error) {

	if err := InitCollections(ctx, conn); err != nil {
		return nil, err
	}

	return &Store{
		conn:       conn,
		books:      conn.GetCollection(BooksCollection),
		authors:    conn.GetCollection(AuthorsCollection),
		publishers: conn.GetCollection(PublishersCollection),
	}, nil
}

func (s *Store) Atomic(ctx context.Context, readOnly bool, fn func(tx models.Tx) error) error {

	if readOnly {
		return fn(&tx{store: s})
	}

	session, err := s.conn.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnOption := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(&tx{store: s, session: sessCtx})
	}, txnOption)

	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.conn.Disconnect(ctx)
}
