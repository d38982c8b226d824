package repository

import (
	"context"
	"strings"

	"github.com/moviehub/movie-catalog/internal/paging"
)

// MovieFiltering defines the search filters for movies.
type MovieFiltering struct {
	Name string
}

// MovieSearchRow is one projected search result: the movie, its director's
// name (empty when the director row is missing) and the names of its actors.
type MovieSearchRow struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Director string   `json:"director"`
	Actors   []string `json:"actors"`
}

// SearchResult bundles one page of rows with its paging header.
type SearchResult struct {
	Header paging.Header    `json:"pagingHeader"`
	Movies []MovieSearchRow `json:"pagingData"`
}

// sortColumns whitelists the projection fields a client may sort by and maps
// them to SQL expressions. Dynamic field names never reach the query text.
var sortColumns = map[string]string{
	"id":       "m.id",
	"name":     "m.name",
	"director": "COALESCE(d.name, '')",
}

// searchFilter builds the WHERE condition for the filter. An empty (or
// all-space) name matches everything. Matching is case-insensitive
// substring, unlike the exact-match uniqueness check on writes.
func searchFilter(f MovieFiltering) (string, []any) {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	if name == "" {
		return "1=1", nil
	}
	return "LOWER(m.name) LIKE ?", []any{"%" + name + "%"}
}

// orderBy renders the parsed sort clauses against the whitelist. If any
// clause names an unknown field the whole ordering is discarded and the
// result set comes back unsorted; a bad sortBy is never a client error.
func orderBy(clauses []paging.Clause) string {
	if len(clauses) == 0 {
		return ""
	}
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		col, ok := sortColumns[c.Field]
		if !ok {
			return ""
		}
		if c.Direction == paging.Descending {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// Search returns one page of movies matching the filter, sorted by the
// sortBy expression and joined with director and actor names. The total
// count is taken on the filtered set before the page is cut, and actor
// names are fetched only for the rows of the returned page.
func (r *MovieRepo) Search(ctx context.Context, f MovieFiltering, s paging.Sorting, p paging.Paging) (*SearchResult, error) {
	p = p.Normalize()
	cond, args := searchFilter(f)

	var total int
	countSQL := "SELECT COUNT(*) FROM movies m WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, err
	}

	dataSQL := `SELECT m.id, m.name, COALESCE(d.name, '') AS director
		FROM movies m
		LEFT JOIN directors d ON d.id = m.director_id
		WHERE ` + cond + orderBy(paging.ParseSortBy(s.SortBy)) + `
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), p.PageSize, p.Offset())

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]MovieSearchRow, 0, p.PageSize)
	for rows.Next() {
		var m MovieSearchRow
		if err := rows.Scan(&m.ID, &m.Name, &m.Director); err != nil {
			return nil, err
		}
		m.Actors = []string{}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.fillActors(ctx, movies); err != nil {
		return nil, err
	}

	return &SearchResult{
		Header: paging.NewHeader(p.PageNumber, p.PageSize, total),
		Movies: movies,
	}, nil
}

// fillActors loads actor names for the given page rows with a single query
// over the movie_actors join table.
func (r *MovieRepo) fillActors(ctx context.Context, movies []MovieSearchRow) error {
	if len(movies) == 0 {
		return nil
	}
	byID := make(map[int64]int, len(movies))
	ids := make([]any, 0, len(movies))
	for i, m := range movies {
		byID[m.ID] = i
		ids = append(ids, m.ID)
	}

	q := `SELECT ma.movie_id, a.name
		FROM movie_actors ma
		JOIN actors a ON a.id = ma.actor_id
		WHERE ma.movie_id IN (` + placeholders(len(ids)) + `)
		ORDER BY ma.movie_id, a.id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var movieID int64
		var name string
		if err := rows.Scan(&movieID, &name); err != nil {
			return err
		}
		if i, ok := byID[movieID]; ok {
			movies[i].Actors = append(movies[i].Actors, name)
		}
	}
	return rows.Err()
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
