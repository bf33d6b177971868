package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supakorn-kn/book-catalog/env"
)

func TestOpenStore(t *testing.T) {

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := openStore(ctx, &env.Env{Store: env.StoreConfig{Driver: "memory"}})
		require.NoError(t, err)
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := openStore(ctx, &env.Env{
			Store: env.StoreConfig{Driver: "sqlite"},
			SQL:   env.SQLConfig{DSN: "file::memory:?_pragma=foreign_keys(1)"},
		})
		require.NoError(t, err)
		defer store.Close(ctx)
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := openStore(ctx, &env.Env{Store: env.StoreConfig{Driver: "cassandra"}})
		assert.ErrorContains(t, err, "cassandra")
	})
}

func TestRouter(t *testing.T) {

	gin.SetMode(gin.TestMode)

	store, err := openStore(context.Background(), &env.Env{Store: env.StoreConfig{Driver: "memory"}})
	require.NoError(t, err)

	g := newRouter(store)

	body := `{"isbn": "123", "title": "Dune", "publisher": "Ace", "authors": [{"name": "Herbert", "birthDate": "1920-10-01"}]}`

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/book", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"result": true}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/book/123", nil)
	g.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"result": {
		"isbn": "123",
		"title": "Dune",
		"publisher": "Ace",
		"authors": [{"name": "Herbert", "birthDate": "1920-10-01"}]
	}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	g.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "catalog_http_requests_total")
	assert.Contains(t, recorder.Body.String(), "catalog_operations_total")
}
