package repository

import (
	"testing"

	"github.com/moviehub/movie-catalog/internal/paging"
)

func TestSearchFilter(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		wantCond string
		wantArg  string
	}{
		{"empty matches all", "", "1=1", ""},
		{"spaces only matches all", "   ", "1=1", ""},
		{"trimmed and lowered", "  Bat ", "LOWER(m.name) LIKE ?", "%bat%"},
		{"already lowercase", "super", "LOWER(m.name) LIKE ?", "%super%"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cond, args := searchFilter(MovieFiltering{Name: c.in})
			if cond != c.wantCond {
				t.Fatalf("cond = %q, want %q", cond, c.wantCond)
			}
			if c.wantArg == "" {
				if len(args) != 0 {
					t.Fatalf("unexpected args: %v", args)
				}
				return
			}
			if len(args) != 1 || args[0] != c.wantArg {
				t.Fatalf("args = %v, want [%q]", args, c.wantArg)
			}
		})
	}
}

func TestOrderBy(t *testing.T) {
	cases := []struct {
		name   string
		sortBy string
		want   string
	}{
		{"no sort", "", ""},
		{"single ascending default", "name", " ORDER BY m.name"},
		{"explicit asc", "name asc", " ORDER BY m.name"},
		{"descending", "name desc", " ORDER BY m.name DESC"},
		{"director alias", "director desc", " ORDER BY COALESCE(d.name, '') DESC"},
		{"multiple clauses", "director desc,name", " ORDER BY COALESCE(d.name, '') DESC, m.name"},
		{"space after comma", "name desc, id", " ORDER BY m.name DESC, m.id"},
		// one unknown field silently drops the entire ordering
		{"unknown field", "bogusField", ""},
		{"unknown among valid", "name desc,bogusField asc", ""},
		// actors is part of the projection but not sortable
		{"actors not sortable", "actors", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := orderBy(paging.ParseSortBy(c.sortBy))
			if got != c.want {
				t.Fatalf("orderBy(%q) = %q, want %q", c.sortBy, got, c.want)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(1); got != "?" {
		t.Fatalf("placeholders(1) = %q", got)
	}
	if got := placeholders(3); got != "?, ?, ?" {
		t.Fatalf("placeholders(3) = %q", got)
	}
}
