package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Astemirdum/bookstore-service/bookstore/internal/handler"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/model"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/queue"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/repository"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/service"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/testdb"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newLiveRouter(t *testing.T) *echo.Echo {
	t.Helper()
	log := zaptest.NewLogger(t)
	repo, err := repository.NewRepository(testdb.New(t), log)
	require.NoError(t, err)
	svc := service.NewService(repo, queue.NewNopEnqueuer(), "books", log)
	return handler.New(svc, log).NewRouter()
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestLive_ListBooks(t *testing.T) {
	e := newLiveRouter(t)

	w := serve(e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []model.Book{testdb.Seed}, decode[model.ListBooks](t, w.Body.Bytes()).Books)
}

func TestLive_CreateBook(t *testing.T) {
	e := newLiveRouter(t)
	body := `{"book":` + theBugzJSON + `}`

	w := serve(e, http.MethodPost, "/books", body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.JSONEq(t, body, w.Body.String())

	w = serve(e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, decode[model.ListBooks](t, w.Body.Bytes()).Books, testdb.Other)

	w = serve(e, http.MethodPost, "/books", body)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLive_CreateBook_TwoWrongTypes(t *testing.T) {
	e := newLiveRouter(t)

	w := serve(e, http.MethodPost, "/books",
		`{"book":{"isbn":"5125734717","amazon_url":"amazonprime.com","author":123,"language":"spanish","pages":"three","publisher":"Warner Bros Ent","title":"The Bugz","year":2000}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, decode[model.ValidationErrorResponse](t, w.Body.Bytes()).Message, 2)

	w = serve(e, http.MethodGet, "/books/5125734717", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLive_CreateBook_MissingField(t *testing.T) {
	e := newLiveRouter(t)

	w := serve(e, http.MethodPost, "/books",
		`{"book":{"isbn":"5125734717","amazon_url":"amazonprime.com","author":"Hello","language":"spanish","publisher":"Warner Bros Ent","title":"The Bugz","year":2000}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLive_UpdateBook(t *testing.T) {
	e := newLiveRouter(t)
	body := `{"book":{"isbn":"111000333","amazon_url":"amazonprime.com","author":"Bugs Bunny","language":"spanish","pages":100,"publisher":"Warner Bros Ent","title":"The Bugz","year":2000}}`

	w := serve(e, http.MethodPut, "/books/"+testdb.Seed.Isbn, body)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, body, w.Body.String())

	w = serve(e, http.MethodGet, "/books/"+testdb.Seed.Isbn, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, body, w.Body.String())
}

func TestLive_UpdateBook_MissingField(t *testing.T) {
	e := newLiveRouter(t)

	w := serve(e, http.MethodPut, "/books/"+testdb.Seed.Isbn,
		`{"book":{"isbn":"111000333","amazon_url":"amazonprime.com","language":"spanish","pages":100,"publisher":"Warner Bros Ent","title":"The Bugz","year":2000}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(e, http.MethodGet, "/books/"+testdb.Seed.Isbn, "")
	require.Equal(t, testdb.Seed, decode[model.BookResponse](t, w.Body.Bytes()).Book)
}

func TestLive_DeleteBook(t *testing.T) {
	e := newLiveRouter(t)

	w := serve(e, http.MethodDelete, "/books/"+testdb.Seed.Isbn, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(e, http.MethodDelete, "/books/"+testdb.Seed.Isbn, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = serve(e, http.MethodGet, "/books", "")
	require.Empty(t, decode[model.ListBooks](t, w.Body.Bytes()).Books)
}
