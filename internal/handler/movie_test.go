package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/movie-catalog/internal/paging"
	"github.com/moviehub/movie-catalog/internal/repository"
)

// stubStore records calls and returns canned results, standing in for the
// MySQL-backed repository.
type stubStore struct {
	searchResult *repository.SearchResult
	err          error

	gotFiltering repository.MovieFiltering
	gotSorting   paging.Sorting
	gotPaging    paging.Paging
	gotMovie     *repository.Movie
	gotDeleteID  int64
	calls        []string
}

func (s *stubStore) Search(_ context.Context, f repository.MovieFiltering, so paging.Sorting, p paging.Paging) (*repository.SearchResult, error) {
	s.calls = append(s.calls, "search")
	s.gotFiltering, s.gotSorting, s.gotPaging = f, so, p
	return s.searchResult, s.err
}

func (s *stubStore) Create(_ context.Context, m *repository.Movie) error {
	s.calls = append(s.calls, "create")
	s.gotMovie = m
	return s.err
}

func (s *stubStore) Update(_ context.Context, m *repository.Movie) error {
	s.calls = append(s.calls, "update")
	s.gotMovie = m
	return s.err
}

func (s *stubStore) Delete(_ context.Context, id int64) error {
	s.calls = append(s.calls, "delete")
	s.gotDeleteID = id
	return s.err
}

type stubInvalidator struct{ calls int }

func (s *stubInvalidator) Invalidate(context.Context) { s.calls++ }

func newTestHandler(store *stubStore) (*MovieHandler, *stubInvalidator) {
	inv := &stubInvalidator{}
	return NewMovieHandler(store, inv), inv
}

func doRequest(t *testing.T, method, target string, body *bytes.Buffer, contentType string, handlerFn func(echo.Context) error, pathParam string) (*httptest.ResponseRecorder, ActionResult) {
	t.Helper()
	e := echo.New()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if pathParam != "" {
		c.SetParamNames("id")
		c.SetParamValues(pathParam)
	}
	if err := handlerFn(c); err != nil {
		HTTPErrorHandler(err, c)
	}
	var envelope ActionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not the envelope: %v (%s)", err, rec.Body.String())
	}
	return rec, envelope
}

func TestSearchMovies(t *testing.T) {
	store := &stubStore{
		searchResult: &repository.SearchResult{
			Header: paging.NewHeader(1, 5, 1),
			Movies: []repository.MovieSearchRow{
				{ID: 1, Name: "Batman", Director: "Nolan", Actors: []string{"Bale"}},
			},
		},
	}
	h, _ := newTestHandler(store)

	rec, envelope := doRequest(t, http.MethodGet,
		"/movie?name=bat&sortBy=name+desc&pageNumber=2&pageSize=10", nil, "", h.SearchMovies, "")

	if rec.Code != http.StatusOK || !envelope.Status {
		t.Fatalf("status = %d, envelope = %+v", rec.Code, envelope)
	}
	if store.gotFiltering.Name != "bat" {
		t.Fatalf("filter not passed: %+v", store.gotFiltering)
	}
	if store.gotSorting.SortBy != "name desc" {
		t.Fatalf("sortBy not passed: %+v", store.gotSorting)
	}
	if store.gotPaging.PageNumber != 2 || store.gotPaging.PageSize != 10 {
		t.Fatalf("paging not passed: %+v", store.gotPaging)
	}

	var hdr paging.Header
	if err := json.Unmarshal([]byte(rec.Header().Get("X-Pagination")), &hdr); err != nil {
		t.Fatalf("X-Pagination not valid JSON: %v", err)
	}
	if hdr.TotalCount != 1 {
		t.Fatalf("X-Pagination totalCount = %d, want 1", hdr.TotalCount)
	}
	if !strings.Contains(rec.Body.String(), `"pagingData"`) || !strings.Contains(rec.Body.String(), `"pagingHeader"`) {
		t.Fatalf("body missing paging envelope: %s", rec.Body.String())
	}
}

func TestSearchMoviesDefaults(t *testing.T) {
	store := &stubStore{searchResult: &repository.SearchResult{Header: paging.NewHeader(1, 5, 0), Movies: []repository.MovieSearchRow{}}}
	h, _ := newTestHandler(store)

	doRequest(t, http.MethodGet, "/movie", nil, "", h.SearchMovies, "")

	if store.gotPaging.PageNumber != 1 || store.gotPaging.PageSize != 5 {
		t.Fatalf("defaults not applied: %+v", store.gotPaging)
	}
}

func TestCreateMovie(t *testing.T) {
	cases := []struct {
		name        string
		body        string
		storeErr    error
		wantCode    int
		wantMsg     string
		wantCreated bool
	}{
		{"success", `{"name":"Inception","directorId":1}`, nil, http.StatusOK, "", true},
		{"duplicate", `{"name":"Inception","directorId":2}`, repository.ErrDuplicateName, http.StatusBadRequest, "Create Duplicate", true},
		{"missing name", `{"directorId":1}`, nil, http.StatusBadRequest, "Name is required", false},
		{"missing director", `{"name":"Inception"}`, nil, http.StatusBadRequest, "DirectorID is required", false},
		{"name too long", `{"name":"` + strings.Repeat("x", 51) + `","directorId":1}`, nil, http.StatusBadRequest, "at most 50", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{err: tc.storeErr}
			h, inv := newTestHandler(store)

			rec, envelope := doRequest(t, http.MethodPost, "/movie",
				bytes.NewBufferString(tc.body), echo.MIMEApplicationJSON, h.CreateMovie, "")

			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantMsg != "" {
				if envelope.Status {
					t.Fatal("envelope status should be false on failure")
				}
				if !strings.Contains(strings.Join(envelope.Messages, "|"), tc.wantMsg) {
					t.Fatalf("messages %v missing %q", envelope.Messages, tc.wantMsg)
				}
			}
			if gotCreate := len(store.calls) > 0; gotCreate != tc.wantCreated {
				t.Fatalf("store called = %v, want %v", gotCreate, tc.wantCreated)
			}
			if wantInvalidate := tc.wantCode == http.StatusOK; (inv.calls > 0) != wantInvalidate {
				t.Fatalf("cache invalidations = %d", inv.calls)
			}
		})
	}
}

func TestUpdateMovie(t *testing.T) {
	cases := []struct {
		name     string
		pathID   string
		body     string
		storeErr error
		wantCode int
		wantMsg  string
	}{
		{"success", "5", `{"id":5,"name":"Heat","directorId":2}`, nil, http.StatusOK, ""},
		{"own name unchanged", "5", `{"id":5,"name":"Heat","directorId":2}`, nil, http.StatusOK, ""},
		{"duplicate", "5", `{"id":5,"name":"Taken","directorId":2}`, repository.ErrDuplicateName, http.StatusBadRequest, "Update Duplicate"},
		{"id mismatch", "5", `{"id":7,"name":"Heat","directorId":2}`, nil, http.StatusBadRequest, "Update BadRequest"},
		{"bad path id", "abc", `{"id":5,"name":"Heat","directorId":2}`, nil, http.StatusBadRequest, "Update BadRequest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{err: tc.storeErr}
			h, _ := newTestHandler(store)

			rec, envelope := doRequest(t, http.MethodPut, "/movie/"+tc.pathID,
				bytes.NewBufferString(tc.body), echo.MIMEApplicationJSON, h.UpdateMovie, tc.pathID)

			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.wantCode, rec.Body.String())
			}
			if tc.wantMsg != "" && !strings.Contains(strings.Join(envelope.Messages, "|"), tc.wantMsg) {
				t.Fatalf("messages %v missing %q", envelope.Messages, tc.wantMsg)
			}
			if tc.wantCode == http.StatusOK && store.gotMovie.ID != 5 {
				t.Fatalf("wrong movie passed to store: %+v", store.gotMovie)
			}
		})
	}
}

func TestDeleteMovie(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		store := &stubStore{err: repository.ErrMovieNotFound}
		h, inv := newTestHandler(store)

		rec, envelope := doRequest(t, http.MethodDelete, "/movie/99", nil, "", h.DeleteMovie, "99")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if envelope.Status || !strings.Contains(strings.Join(envelope.Messages, "|"), "Delete NotFound") {
			t.Fatalf("envelope = %+v", envelope)
		}
		if inv.calls != 0 {
			t.Fatal("cache invalidated on a failed delete")
		}
	})

	t.Run("success", func(t *testing.T) {
		store := &stubStore{}
		h, inv := newTestHandler(store)

		rec, envelope := doRequest(t, http.MethodDelete, "/movie/3", nil, "", h.DeleteMovie, "3")

		if rec.Code != http.StatusOK || !envelope.Status {
			t.Fatalf("status = %d, envelope = %+v", rec.Code, envelope)
		}
		if store.gotDeleteID != 3 {
			t.Fatalf("wrong id passed: %d", store.gotDeleteID)
		}
		if inv.calls != 1 {
			t.Fatalf("cache invalidations = %d, want 1", inv.calls)
		}
	})
}

func TestImportMovies(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestHandler(store)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "catalog.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("id,name\n")); err != nil {
		t.Fatal(err)
	}
	_ = w.Close()

	rec, envelope := doRequest(t, http.MethodPost, "/movie/Import", &buf, w.FormDataContentType(), h.ImportMovies, "")

	if rec.Code != http.StatusOK || !envelope.Status {
		t.Fatalf("status = %d, envelope = %+v", rec.Code, envelope)
	}
	if !strings.Contains(rec.Body.String(), "catalog.csv") {
		t.Fatalf("filename not echoed: %s", rec.Body.String())
	}
}

func TestImportMoviesMissingFile(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestHandler(store)

	rec, envelope := doRequest(t, http.MethodPost, "/movie/Import", nil, "", h.ImportMovies, "")

	if rec.Code != http.StatusBadRequest || envelope.Status {
		t.Fatalf("status = %d, envelope = %+v", rec.Code, envelope)
	}
}

func TestExportMovies(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestHandler(store)

	rec, envelope := doRequest(t, http.MethodPost, "/movie/Export", nil, "", h.ExportMovies, "")

	if rec.Code != http.StatusOK || !envelope.Status {
		t.Fatalf("status = %d, envelope = %+v", rec.Code, envelope)
	}
}

// A storage failure the handler does not recognize becomes a 500 envelope
// with the error's message.
func TestStorageFailureMapsTo500(t *testing.T) {
	store := &stubStore{err: errors.New("connection reset")}
	h, _ := newTestHandler(store)

	rec, envelope := doRequest(t, http.MethodPost, "/movie",
		bytes.NewBufferString(`{"name":"Heat","directorId":1}`), echo.MIMEApplicationJSON, h.CreateMovie, "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if envelope.Status || !strings.Contains(strings.Join(envelope.Messages, "|"), "connection reset") {
		t.Fatalf("envelope = %+v", envelope)
	}
}
