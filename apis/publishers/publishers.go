package publishers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/book-catalog/apis"
)

type Catalog interface {
	FindPublishersByAuthor(ctx context.Context, authorName string) ([]string, error)
}

type PublishersAPI struct {
	catalog Catalog
}

func NewPublishersAPI(catalog Catalog) *PublishersAPI {
	return &PublishersAPI{catalog: catalog}
}

func (api PublishersAPI) Register(group *gin.RouterGroup) {
	group.GET("publishers/author/:author", apis.Handle(api.ReadByAuthor))
}

func (api PublishersAPI) ReadByAuthor(ctx *gin.Context) (any, error) {
	return api.catalog.FindPublishersByAuthor(ctx.Request.Context(), ctx.Param("author"))
}
