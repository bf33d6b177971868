package logger

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "requestId"

// Setup configures the standard logrus logger. format is "json" or "text".
func Setup(level, format string) error {

	parsedLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(parsedLevel)

	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		return nil
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	return nil
}

// For returns an entry tagged with the request ID stored in ctx, if any.
func For(ctx context.Context) *logrus.Entry {

	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}

	return logrus.WithField("request_id", id)
}

func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func IDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
