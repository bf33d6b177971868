package authors

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/book-catalog/apis"
	"github.com/supakorn-kn/book-catalog/objects"
)

type Catalog interface {
	FindBookAuthors(ctx context.Context, isbn string) ([]objects.Author, error)
	RemoveAuthor(ctx context.Context, authorName string) (*objects.Author, error)
}

type AuthorsAPI struct {
	catalog Catalog
}

func NewAuthorsAPI(catalog Catalog) *AuthorsAPI {
	return &AuthorsAPI{catalog: catalog}
}

func (api AuthorsAPI) Register(group *gin.RouterGroup) {

	group.GET("authors/book/:isbn", apis.Handle(api.ReadByBook))
	group.DELETE("author/:author", apis.Handle(api.Delete))
}

func (api AuthorsAPI) ReadByBook(ctx *gin.Context) (any, error) {
	return api.catalog.FindBookAuthors(ctx.Request.Context(), ctx.Param("isbn"))
}

// Delete answers with an empty result, removal is not supported.
func (api AuthorsAPI) Delete(ctx *gin.Context) (any, error) {

	author, err := api.catalog.RemoveAuthor(ctx.Request.Context(), ctx.Param("author"))
	if err != nil || author == nil {
		return nil, err
	}

	return author, nil
}
