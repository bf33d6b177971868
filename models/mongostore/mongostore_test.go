package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/book-catalog/env"
	"github.com/supakorn-kn/book-catalog/models/storetest"
	"github.com/supakorn-kn/book-catalog/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

type MongoStoreTestSuite struct {
	storetest.StoreSuite
	conn *mongodb.MongoDBConn
}

func (s *MongoStoreTestSuite) SetupSuite() {

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		s.T().Skip("MONGODB_URI is not set, transactions need a replica set to run against")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := mongodb.InitConnection(ctx, env.MongoDBConfig{
		URI: uri,
		DB:  fmt.Sprintf("catalog_test_%d", time.Now().UnixNano()),
	})
	s.Require().NoError(err, "Connecting to MongoDB failed")

	store, err := New(ctx, conn)
	s.Require().NoError(err, "Initializing collections failed")

	s.conn = conn
	s.Store = store
	s.Reset = func() {

		for _, name := range []string{BooksCollection, AuthorsCollection, PublishersCollection} {
			_, err := conn.GetCollection(name).DeleteMany(context.Background(), bson.D{})
			s.Require().NoError(err, "Clearing collection %s failed", name)
		}
	}
}

func (s *MongoStoreTestSuite) TearDownSuite() {

	if s.conn == nil {
		return
	}

	ctx := context.Background()
	s.conn.GetDatabase().Drop(ctx)
	s.conn.Disconnect(ctx)
}

func (s *MongoStoreTestSuite) TestInitCollectionsIsRepeatable() {
	s.Require().NoError(InitCollections(context.Background(), s.conn))
}

func TestMongoStore(t *testing.T) {
	suite.Run(t, new(MongoStoreTestSuite))
}
