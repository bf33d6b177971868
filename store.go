package main

import (
	"context"
	"fmt"

	"github.com/supakorn-kn/book-catalog/env"
	"github.com/supakorn-kn/book-catalog/models"
	"github.com/supakorn-kn/book-catalog/models/memory"
	"github.com/supakorn-kn/book-catalog/models/mongostore"
	"github.com/supakorn-kn/book-catalog/models/sqlstore"
	"github.com/supakorn-kn/book-catalog/mongodb"
)

func openStore(ctx context.Context, config *env.Env) (models.Store, error) {

	switch config.Store.Driver {
	case "memory":
		return memory.New(), nil

	case "mongodb":
		conn, err := mongodb.InitConnection(ctx, config.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %w", err)
		}

		store, err := mongostore.New(ctx, conn)
		if err != nil {
			conn.Disconnect(ctx)
			return nil, fmt.Errorf("preparing MongoDB collections: %w", err)
		}

		return store, nil
	}

	dialect, ok := sqlstore.DialectByName(config.Store.Driver)
	if !ok {
		return nil, fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	store, err := sqlstore.Open(ctx, dialect, config.SQL.DSN)
	if err != nil {
		return nil, err
	}

	return store, nil
}
