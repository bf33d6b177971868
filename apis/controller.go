package apis

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/logger"
	"github.com/supakorn-kn/book-catalog/metrics"
)

const RequestIDHeader = "X-Request-Id"

// Handle writes the result of fn as a 200 CRUDResponse, or the error it returns.
func Handle(fn func(ctx *gin.Context) (any, error)) gin.HandlerFunc {

	return func(ctx *gin.Context) {

		result, err := fn(ctx)
		if err != nil {
			WriteErrorJSON(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, CRUDResponse{Result: result})
	}
}

// BindJSON decodes the request body into obj, reporting failures as RequestInvalidError.
func BindJSON(ctx *gin.Context, obj any) error {

	if err := ctx.ShouldBindJSON(obj); err != nil {
		return errors.RequestInvalidError.New(err.Error())
	}

	return nil
}

func WriteErrorJSON(ctx *gin.Context, err error) {

	assertedError, ok := errors.TryAssertError(err)
	if !ok {
		unknownError := errors.UnknownError.New(err.Error())
		ctx.JSON(http.StatusInternalServerError, CRUDResponse{Error: &unknownError})
		return
	}

	var statusCode int

	switch assertedError.Code {
	case errors.ObjectIDNotFoundErrorCode:
		statusCode = http.StatusNotFound
	case errors.RequestInvalidErrorCode:
		statusCode = http.StatusBadRequest
	default:
		statusCode = http.StatusInternalServerError
	}

	ctx.JSON(statusCode, CRUDResponse{Error: &assertedError})
}

// RequestID reuses the caller's X-Request-Id or generates one, and stores it
// in the request context for logging.
func RequestID() gin.HandlerFunc {

	return func(ctx *gin.Context) {

		requestID := ctx.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx.Header(RequestIDHeader, requestID)
		ctx.Request = ctx.Request.WithContext(logger.ContextWithID(ctx.Request.Context(), requestID))

		ctx.Next()
	}
}

func AccessLog() gin.HandlerFunc {

	return func(ctx *gin.Context) {

		start := time.Now()
		ctx.Next()

		logger.For(ctx.Request.Context()).WithFields(logrus.Fields{
			"method":      ctx.Request.Method,
			"path":        ctx.Request.URL.Path,
			"status":      ctx.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("http.request")
	}
}

// Metrics records requests under their route pattern, not the raw path.
func Metrics() gin.HandlerFunc {

	return func(ctx *gin.Context) {

		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func Recovery() gin.HandlerFunc {

	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {

		logger.For(ctx.Request.Context()).WithField("panic", recovered).Error("panic recovered")

		unknownError := errors.UnknownError.New("internal error")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, CRUDResponse{Error: &unknownError})
	})
}

// Middlewares returns the handlers every catalog engine runs, in order.
func Middlewares() []gin.HandlerFunc {
	return []gin.HandlerFunc{RequestID(), AccessLog(), Metrics(), Recovery()}
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type healthAPI struct {
	pinger Pinger
}

func NewHealthAPI(pinger Pinger) API {
	return healthAPI{pinger: pinger}
}

func (api healthAPI) Register(group *gin.RouterGroup) {

	group.GET("healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, OKResponse)
	})

	group.GET("readyz", func(ctx *gin.Context) {

		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := api.pinger.Ping(pingCtx); err != nil {
			logger.For(ctx.Request.Context()).WithError(err).Warn("store is not ready")

			unknownError := errors.UnknownError.New(err.Error())
			ctx.JSON(http.StatusServiceUnavailable, CRUDResponse{Error: &unknownError})
			return
		}

		ctx.JSON(http.StatusOK, OKResponse)
	})
}
