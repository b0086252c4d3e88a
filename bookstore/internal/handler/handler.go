package handler

import (
	"net/http"

	"github.com/Astemirdum/bookstore-service/bookstore/internal/errs"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/model"
	"github.com/Astemirdum/bookstore-service/bookstore/internal/schema"
	md "github.com/Astemirdum/bookstore-service/pkg/middleware"
	"github.com/Astemirdum/bookstore-service/pkg/validate"
	_ "github.com/Astemirdum/bookstore-service/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	bookSvc BookService
	log     *zap.Logger
}

func New(bookSvc BookService, log *zap.Logger) *Handler {
	h := &Handler{
		bookSvc: bookSvc,
		log:     log.Named("handler"),
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		md.NewRequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:isbn", h.GetBook)
	api.POST("/books", h.CreateBook)
	api.PUT("/books/:isbn", h.UpdateBook)
	api.DELETE("/books/:isbn", h.DeleteBook)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// ListBooks godoc
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {object} model.ListBooks
// @Router /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.bookSvc.ListBooks(c.Request().Context())
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, model.ListBooks{Books: books})
}

// GetBook godoc
// @Summary Get a book by isbn
// @Tags books
// @Produce json
// @Param isbn path string true "isbn"
// @Success 200 {object} model.BookResponse
// @Failure 404 {object} model.MessageResponse
// @Router /books/{isbn} [get]
func (h *Handler) GetBook(c echo.Context) error {
	isbn := c.Param("isbn")
	if isbn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "isbn is empty")
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), isbn)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, model.BookResponse{Book: book})
}

// CreateBook godoc
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Param request body model.BookResponse true "book"
// @Success 201 {object} model.BookResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 409 {object} model.MessageResponse
// @Router /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	book, err := h.bindBook(c)
	if err != nil {
		return h.errorResponse(err)
	}
	created, err := h.bookSvc.CreateBook(c.Request().Context(), book)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusCreated, model.BookResponse{Book: created})
}

// UpdateBook godoc
// @Summary Replace a book
// @Tags books
// @Accept json
// @Produce json
// @Param isbn path string true "isbn"
// @Param request body model.BookResponse true "book"
// @Success 200 {object} model.BookResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 404 {object} model.MessageResponse
// @Router /books/{isbn} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	isbn := c.Param("isbn")
	if isbn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "isbn is empty")
	}
	book, err := h.bindBook(c)
	if err != nil {
		return h.errorResponse(err)
	}
	if book.Isbn != isbn {
		return h.errorResponse(errs.NewValidationError(errs.ErrIsbnMismatch.Error()))
	}
	updated, err := h.bookSvc.UpdateBook(c.Request().Context(), isbn, book)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, model.BookResponse{Book: updated})
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param isbn path string true "isbn"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /books/{isbn} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	isbn := c.Param("isbn")
	if isbn == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "isbn is empty")
	}
	if err := h.bookSvc.DeleteBook(c.Request().Context(), isbn); err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Book deleted"})
}

// bindBook decodes {"book": {...}}, checking the raw fields first so absent and mistyped values are told apart.
func (h *Handler) bindBook(c echo.Context) (model.Book, error) {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return model.Book{}, err
	}
	if msgs := schema.Book.Validate(req.Book); len(msgs) > 0 {
		return model.Book{}, errs.NewValidationError(msgs...)
	}

	var book model.Book
	if err := schema.Book.Decode(req.Book, &book); err != nil {
		return model.Book{}, errs.NewValidationError(err.Error())
	}
	if err := c.Validate(book); err != nil {
		return model.Book{}, errs.NewValidationError(validate.Messages(err)...)
	}
	return book, nil
}

func (h *Handler) errorResponse(err error) error {
	var (
		vErr *errs.ValidationError
		hErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &vErr):
		return echo.NewHTTPError(http.StatusBadRequest, model.ValidationErrorResponse{Message: vErr.Messages})
	case errors.As(err, &hErr):
		return hErr
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		h.log.Error("request failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, errs.ErrInternalError.Error()).SetInternal(err)
	}
}
