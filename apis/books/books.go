package books

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/book-catalog/apis"
	"github.com/supakorn-kn/book-catalog/objects"
)

type Catalog interface {
	AddBook(ctx context.Context, newBook objects.NewBook) (bool, error)
	FindBookByIsbn(ctx context.Context, isbn string) (objects.Book, error)
	RemoveBook(ctx context.Context, isbn string) (objects.Book, error)
	UpdateBookTitle(ctx context.Context, isbn, title string) (objects.Book, error)
	FindBooksByAuthor(ctx context.Context, authorName string) ([]objects.Book, error)
	FindBooksByPublisher(ctx context.Context, publisherName string) ([]objects.Book, error)
}

type BooksAPI struct {
	catalog Catalog
}

func NewBooksAPI(catalog Catalog) *BooksAPI {
	return &BooksAPI{catalog: catalog}
}

func (api BooksAPI) Register(group *gin.RouterGroup) {

	group.POST("book", apis.Handle(api.Insert))
	group.GET("book/:isbn", apis.Handle(api.ReadOne))
	group.DELETE("book/:isbn", apis.Handle(api.Delete))
	group.PUT("book/:isbn/title/:title", apis.Handle(api.UpdateTitle))
	group.GET("books/author/:author", apis.Handle(api.ReadByAuthor))
	group.GET("books/publisher/:publisher", apis.Handle(api.ReadByPublisher))
}

func (api BooksAPI) Insert(ctx *gin.Context) (any, error) {

	var newBook objects.NewBook
	if err := apis.BindJSON(ctx, &newBook); err != nil {
		return nil, err
	}

	return api.catalog.AddBook(ctx.Request.Context(), newBook)
}

func (api BooksAPI) ReadOne(ctx *gin.Context) (any, error) {
	return api.catalog.FindBookByIsbn(ctx.Request.Context(), ctx.Param("isbn"))
}

func (api BooksAPI) Delete(ctx *gin.Context) (any, error) {
	return api.catalog.RemoveBook(ctx.Request.Context(), ctx.Param("isbn"))
}

func (api BooksAPI) UpdateTitle(ctx *gin.Context) (any, error) {
	return api.catalog.UpdateBookTitle(ctx.Request.Context(), ctx.Param("isbn"), ctx.Param("title"))
}

func (api BooksAPI) ReadByAuthor(ctx *gin.Context) (any, error) {
	return api.catalog.FindBooksByAuthor(ctx.Request.Context(), ctx.Param("author"))
}

func (api BooksAPI) ReadByPublisher(ctx *gin.Context) (any, error) {
	return api.catalog.FindBooksByPublisher(ctx.Request.Context(), ctx.Param("publisher"))
}
