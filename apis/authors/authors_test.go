package authors

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/book-catalog/apis"
	"github.com/supakorn-kn/book-catalog/catalog"
	"github.com/supakorn-kn/book-catalog/errors"
	"github.com/supakorn-kn/book-catalog/models/memory"
	"github.com/supakorn-kn/book-catalog/objects"
)

type AuthorsAPISuite struct {
	suite.Suite
	g       *gin.Engine
	service *catalog.Service
	book    objects.NewBook
}

func (s *AuthorsAPISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *AuthorsAPISuite) BeforeTest(suiteName, testName string) {

	s.service = catalog.NewService(memory.New())

	g := gin.New()
	g.Use(apis.Middlewares()...)
	apis.RegisterAPIs(&g.RouterGroup, NewAuthorsAPI(s.service))
	s.g = g

	s.book = objects.NewBook{
		ISBN:      "123",
		Title:     "Good Omens",
		Publisher: "Gollancz",
		Authors: []objects.Author{
			{Name: "Pratchett", BirthDate: objects.NewDate(time.Date(1948, 4, 28, 0, 0, 0, 0, time.UTC))},
			{Name: "Gaiman", BirthDate: objects.NewDate(time.Date(1960, 11, 10, 0, 0, 0, 0, time.UTC))},
		},
	}

	added, err := s.service.AddBook(context.Background(), s.book)
	s.Require().NoError(err)
	s.Require().True(added)
}

func (s *AuthorsAPISuite) request(method, path string) (*httptest.ResponseRecorder, apis.CRUDResponse) {

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)

	s.g.ServeHTTP(recorder, req)

	var resp apis.CRUDResponse
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))

	return recorder, resp
}

func (s *AuthorsAPISuite) TestReadByBook() {

	s.Run("Should return authors sorted by name", func() {

		recorder, resp := s.request(http.MethodGet, "/authors/book/123")
		s.Require().Equal(http.StatusOK, recorder.Code)

		b, err := json.Marshal(resp.Result)
		s.Require().NoError(err)
		s.JSONEq(`[
			{"name": "Gaiman", "birthDate": "1960-11-10"},
			{"name": "Pratchett", "birthDate": "1948-04-28"}
		]`, string(b))
	})

	s.Run("Should return not found for unknown isbn", func() {

		recorder, resp := s.request(http.MethodGet, "/authors/book/non-exist_isbn")
		s.Require().Equal(http.StatusNotFound, recorder.Code)
		s.Require().NotNil(resp.Error)
		s.True(errors.ObjectIDNotFoundError.IsEqual(*resp.Error))
	})
}

func (s *AuthorsAPISuite) TestDelete() {

	recorder, _ := s.request(http.MethodDelete, "/author/Gaiman")
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Equal("{}", string(bytes.TrimSpace(recorder.Body.Bytes())))

	authors, err := s.service.FindBookAuthors(context.Background(), "123")
	s.Require().NoError(err)
	s.Len(authors, 2, "Removing author should change nothing")
}

func TestAuthorsAPI(t *testing.T) {
	suite.Run(t, new(AuthorsAPISuite))
}
