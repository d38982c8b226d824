package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/moviehub/movie-catalog/internal/paging"
	"github.com/moviehub/movie-catalog/internal/repository"
)

// CacheInvalidator is the slice of the response cache the write path needs.
// A nil invalidator is valid and means no cache is configured.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// MovieHandler exposes the movie resource over HTTP. It depends on the
// storage interface rather than the concrete repository so tests can
// substitute a stub.
type MovieHandler struct {
	store    repository.MovieStore
	validate *validator.Validate
	cache    CacheInvalidator
}

// NewMovieHandler constructs a MovieHandler. cache may be nil.
func NewMovieHandler(store repository.MovieStore, cache CacheInvalidator) *MovieHandler {
	if store == nil {
		panic("nil store passed to NewMovieHandler")
	}
	return &MovieHandler{
		store:    store,
		validate: validator.New(),
		cache:    cache,
	}
}

// movieCreateInput is the POST /movie body.
type movieCreateInput struct {
	Name       string `json:"name" validate:"required,max=50"`
	DirectorID int64  `json:"directorId" validate:"required"`
}

// movieUpdateInput is the PUT /movie/:id body. Id must match the path.
type movieUpdateInput struct {
	ID         int64  `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required,max=50"`
	DirectorID int64  `json:"directorId" validate:"required"`
}

// validationMessages flattens validator output into one message per failed
// field, for the envelope's messages list.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return msgs
}

func (h *MovieHandler) invalidateCache(c echo.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request().Context())
	}
}

// SearchMovies handles GET /movie. Query parameters: name (substring filter,
// case-insensitive), sortBy ("field [asc|desc]" list), pageNumber, pageSize.
// The paging header is mirrored into the X-Pagination response header.
func (h *MovieHandler) SearchMovies(c echo.Context) error {
	filtering := repository.MovieFiltering{Name: c.QueryParam("name")}
	sorting := paging.Sorting{SortBy: c.QueryParam("sortBy")}

	pageNumber, _ := strconv.Atoi(c.QueryParam("pageNumber"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	p := paging.Paging{PageNumber: pageNumber, PageSize: pageSize}.Normalize()

	result, err := h.store.Search(c.Request().Context(), filtering, sorting, p)
	if err != nil {
		return err
	}

	hdr, err := json.Marshal(result.Header)
	if err != nil {
		return err
	}
	c.Response().Header().Set("X-Pagination", string(hdr))
	return ok(c, result)
}

// CreateMovie handles POST /movie. A name already held by any movie is a
// Duplicate outcome, returned as a 400 with no row written.
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var input movieCreateInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return fail(c, http.StatusBadRequest, validationMessages(err)...)
	}

	movie := &repository.Movie{Name: input.Name, DirectorID: input.DirectorID}
	if err := h.store.Create(c.Request().Context(), movie); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return fail(c, http.StatusBadRequest, "Create Duplicate")
		}
		return err
	}
	h.invalidateCache(c)
	return ok(c, nil)
}

// UpdateMovie handles PUT /movie/:id. The path id must match the body id.
// The duplicate check excludes the record itself, so re-submitting the
// current name succeeds. A movie.updated event follows a successful commit.
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Update BadRequest")
	}
	var input movieUpdateInput
	if err := c.Bind(&input); err != nil || id != input.ID {
		return fail(c, http.StatusBadRequest, "Update BadRequest")
	}
	if err := h.validate.Struct(input); err != nil {
		return fail(c, http.StatusBadRequest, validationMessages(err)...)
	}

	movie := &repository.Movie{ID: input.ID, Name: input.Name, DirectorID: input.DirectorID}
	if err := h.store.Update(c.Request().Context(), movie); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return fail(c, http.StatusBadRequest, "Update Duplicate")
		}
		return err
	}
	h.invalidateCache(c)
	return ok(c, nil)
}

// DeleteMovie handles DELETE /movie/:id. Deletion is physical and removes
// the movie's actor links in the same transaction.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusNotFound, "Delete NotFound")
	}
	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return fail(c, http.StatusNotFound, "Delete NotFound")
		}
		return err
	}
	h.invalidateCache(c)
	return ok(c, nil)
}

// ImportMovies handles POST /movie/Import. The upload is accepted and its
// filename echoed back; actual ingestion is not implemented.
func (h *MovieHandler) ImportMovies(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "file is required")
	}
	return ok(c, map[string]string{"fileName": file.Filename})
}

// ExportMovies handles POST /movie/Export. Placeholder acknowledging the
// request; no export artifact is produced.
func (h *MovieHandler) ExportMovies(c echo.Context) error {
	return ok(c, nil)
}
