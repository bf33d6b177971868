package books

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/book-catalog/apis"
	"github.com/supakorn-kn/book-catalog/catalog"
	"github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/models/memory"
	"github.com/supakorn-kn/book-catalog/objects"
)

type BooksAPISuite struct {
	suite.Suite
	g         *gin.Engine
	addedBook objects.NewBook
}

func (s *BooksAPISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *BooksAPISuite) BeforeTest(suiteName, testName string) {

	s.g = newEngine(catalog.NewService(memory.New()))

	book := fakeNewBook()
	recorder, resp := s.request(http.MethodPost, "/book", book)
	s.Require().Equal(http.StatusOK, recorder.Code, "Adding book before test failed")
	s.Require().Equal(true, resp.Result)

	s.addedBook = book
}

func (s *BooksAPISuite) request(method, path string, body any) (*httptest.ResponseRecorder, apis.CRUDResponse) {

	var reqBody bytes.Buffer
	if raw, ok := body.(string); ok {
		reqBody.WriteString(raw)
	} else if body != nil {
		s.Require().NoError(json.NewEncoder(&reqBody).Encode(body))
	}

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")

	s.g.ServeHTTP(recorder, req)

	var resp apis.CRUDResponse
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))

	return recorder, resp
}

func decodeResult[T any](s *BooksAPISuite, resp apis.CRUDResponse) T {

	b, err := json.Marshal(resp.Result)
	s.Require().NoError(err)

	var result T
	s.Require().NoError(json.Unmarshal(b, &result))

	return result
}

func (s *BooksAPISuite) TestInsert() {

	s.Run("Should add book properly", func() {

		recorder, resp := s.request(http.MethodPost, "/book", fakeNewBook())
		s.Require().Equal(http.StatusOK, recorder.Code)
		s.Nil(resp.Error)
		s.Equal(true, resp.Result)
	})

	s.Run("Should return false for existing isbn", func() {

		duplicate := fakeNewBook()
		duplicate.ISBN = s.addedBook.ISBN

		recorder, resp := s.request(http.MethodPost, "/book", duplicate)
		s.Require().Equal(http.StatusOK, recorder.Code)
		s.Equal(false, resp.Result)
	})

	s.Run("Should reject malformed body", func() {

		for _, body := range []string{"", "{", `{"isbn": "1", "authors": [{"name": "a", "birthDate": "01/10/1920"}]}`} {

			recorder, resp := s.request(http.MethodPost, "/book", body)
			s.Equal(http.StatusBadRequest, recorder.Code, "Body %q should be rejected", body)
			s.Require().NotNil(resp.Error)
			s.True(errors.RequestInvalidError.IsEqual(*resp.Error))
		}
	})
}

func (s *BooksAPISuite) TestReadOne() {

	s.Run("Should return book by isbn", func() {

		recorder, resp := s.request(http.MethodGet, "/book/"+s.addedBook.ISBN, nil)
		s.Require().Equal(http.StatusOK, recorder.Code)

		book := decodeResult[objects.Book](s, resp)
		s.Equal(s.addedBook.ISBN, book.ISBN)
		s.Equal(s.addedBook.Title, book.Title)
		s.Equal(s.addedBook.Publisher, book.Publisher)
		s.ElementsMatch(s.addedBook.Authors, book.Authors)
	})

	s.Run("Should return not found for unknown isbn", func() {

		recorder, resp := s.request(http.MethodGet, "/book/non-exist_isbn", nil)
		s.Require().Equal(http.StatusNotFound, recorder.Code)
		s.Require().NotNil(resp.Error)
		s.True(errors.ObjectIDNotFoundError.IsEqual(*resp.Error))
	})
}

func (s *BooksAPISuite) TestDelete() {

	recorder, resp := s.request(http.MethodDelete, "/book/"+s.addedBook.ISBN, nil)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Equal(s.addedBook.ISBN, decodeResult[objects.Book](s, resp).ISBN)

	recorder, _ = s.request(http.MethodGet, "/book/"+s.addedBook.ISBN, nil)
	s.Equal(http.StatusNotFound, recorder.Code)

	recorder, _ = s.request(http.MethodDelete, "/book/"+s.addedBook.ISBN, nil)
	s.Equal(http.StatusNotFound, recorder.Code)
}

func (s *BooksAPISuite) TestUpdateTitle() {

	s.Run("Should update title from path", func() {

		path := fmt.Sprintf("/book/%s/title/%s", s.addedBook.ISBN, url.PathEscape("New Title"))

		recorder, resp := s.request(http.MethodPut, path, nil)
		s.Require().Equal(http.StatusOK, recorder.Code)

		book := decodeResult[objects.Book](s, resp)
		s.Equal("New Title", book.Title)
		s.Equal(s.addedBook.Publisher, book.Publisher)
	})

	s.Run("Should return not found for unknown isbn", func() {

		recorder, _ := s.request(http.MethodPut, "/book/non-exist_isbn/title/title", nil)
		s.Equal(http.StatusNotFound, recorder.Code)
	})
}

func (s *BooksAPISuite) TestReadByAuthor() {

	recorder, resp := s.request(http.MethodGet, "/books/author/"+url.PathEscape(s.addedBook.Authors[0].Name), nil)
	s.Require().Equal(http.StatusOK, recorder.Code)

	books := decodeResult[[]objects.Book](s, resp)
	s.Require().Len(books, 1)
	s.Equal(s.addedBook.ISBN, books[0].ISBN)

	recorder, resp = s.request(http.MethodGet, "/books/author/non-exist_author", nil)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Equal([]any{}, resp.Result)
}

func (s *BooksAPISuite) TestReadByPublisher() {

	recorder, resp := s.request(http.MethodGet, "/books/publisher/"+s.addedBook.Publisher, nil)
	s.Require().Equal(http.StatusOK, recorder.Code)

	books := decodeResult[[]objects.Book](s, resp)
	s.Require().Len(books, 1)
	s.Equal(s.addedBook.ISBN, books[0].ISBN)
}

func (s *BooksAPISuite) TestStoreFailure() {

	failing := new(mockCatalog)
	failing.On("FindBookByIsbn", "123").Return(objects.Book{}, stdErrors.New("connection reset"))

	s.g = newEngine(failing)

	recorder, resp := s.request(http.MethodGet, "/book/123", nil)
	s.Equal(http.StatusInternalServerError, recorder.Code)
	s.Require().NotNil(resp.Error)
	s.True(errors.UnknownError.IsEqual(*resp.Error))

	failing.AssertExpectations(s.T())
}

func TestBooksAPI(t *testing.T) {
	suite.Run(t, new(BooksAPISuite))
}

func newEngine(service Catalog) *gin.Engine {

	g := gin.New()
	g.Use(apis.Middlewares()...)
	apis.RegisterAPIs(&g.RouterGroup, NewBooksAPI(service))

	return g
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) AddBook(ctx context.Context, newBook objects.NewBook) (bool, error) {
	args := m.Called(newBook)
	return args.Bool(0), args.Error(1)
}

func (m *mockCatalog) FindBookByIsbn(ctx context.Context, isbn string) (objects.Book, error) {
	args := m.Called(isbn)
	return args.Get(0).(objects.Book), args.Error(1)
}

func (m *mockCatalog) RemoveBook(ctx context.Context, isbn string) (objects.Book, error) {
	args := m.Called(isbn)
	return args.Get(0).(objects.Book), args.Error(1)
}

func (m *mockCatalog) UpdateBookTitle(ctx context.Context, isbn, title string) (objects.Book, error) {
	args := m.Called(isbn, title)
	return args.Get(0).(objects.Book), args.Error(1)
}

func (m *mockCatalog) FindBooksByAuthor(ctx context.Context, authorName string) ([]objects.Book, error) {
	args := m.Called(authorName)
	return args.Get(0).([]objects.Book), args.Error(1)
}

func (m *mockCatalog) FindBooksByPublisher(ctx context.Context, publisherName string) ([]objects.Book, error) {
	args := m.Called(publisherName)
	return args.Get(0).([]objects.Book), args.Error(1)
}

func fakeNewBook() objects.NewBook {

	uuid := gofakeit.UUID()
	birthDate := gofakeit.DateRange(
		time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	)

	return objects.NewBook{
		ISBN:      fmt.Sprintf("isbn_%s", uuid),
		Title:     gofakeit.Book().Title,
		Publisher: fmt.Sprintf("publisher_%s", uuid),
		Authors: []objects.Author{{
			Name:      fmt.Sprintf("%s_%s", gofakeit.FirstName(), uuid),
			BirthDate: objects.NewDate(birthDate),
		}},
	}
}
