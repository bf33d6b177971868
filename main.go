package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/supakorn-kn/book-catalog/apis"
	authorsAPI "github.com/supakorn-kn/book-catalog/apis/authors"
	booksAPI "github.com/supakorn-kn/book-catalog/apis/books"
	publishersAPI "github.com/supakorn-kn/book-catalog/apis/publishers"
	"github.com/supakorn-kn/book-catalog/catalog"
	"github.com/supakorn-kn/book-catalog/env"
	"github.com/supakorn-kn/book-catalog/logger"
	"github.com/supakorn-kn/book-catalog/models"
)

func main() {

	config, err := env.GetEnv()
	if err != nil {
		logrus.WithError(err).Fatal("Load configuration failed")
	}

	if err := logger.Setup(config.Log.Level, config.Log.Format); err != nil {
		logrus.WithError(err).Fatal("Setup logger failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := openStore(openCtx, config)
	cancel()
	if err != nil {
		logrus.WithError(err).WithField("driver", config.Store.Driver).Fatal("Open store failed")
	}

	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logrus.WithError(err).Error("Close store failed")
		}
	}()

	gin.SetMode(config.Server.Mode)

	server := &http.Server{
		Addr:              config.Server.Address(),
		Handler:           newRouter(store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":   server.Addr,
			"driver": config.Store.Driver,
		}).Info("Catalog server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Run server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down catalog server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Shutdown server failed")
	}
}

func newRouter(store models.Store) *gin.Engine {

	service := catalog.NewService(store)

	g := gin.New()
	g.Use(apis.Middlewares()...)

	apis.RegisterAPIs(&g.RouterGroup,
		apis.NewHealthAPI(store),
		booksAPI.NewBooksAPI(service),
		authorsAPI.NewAuthorsAPI(service),
		publishersAPI.NewPublishersAPI(service),
	)

	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return g
}
