package paging

import "strings"

// Direction is the requested ordering of a single sort clause.
type Direction int

const (
	// Unspecified means the client named a field without a direction (or
	// with an unrecognized direction token); the store sorts ascending.
	Unspecified Direction = iota
	Ascending
	Descending
)

// Sorting carries the raw sortBy expression from the query string, e.g.
// "name desc,id".
type Sorting struct {
	SortBy string
}

// Clause is one parsed ordering instruction. Clauses apply in left-to-right
// priority.
type Clause struct {
	Field     string
	Direction Direction
}

// ParseSortBy splits a comma-separated list of "field" or "field direction"
// tokens into ordered clauses. Items are trimmed of surrounding spaces, so
// "name desc, id" names the id field. Direction keywords are matched exactly
// (case-sensitive): asc, ascending, desc, descending. Any other word after
// the field is dropped and the field is emitted with Unspecified direction.
// Whether a field actually exists on the projection is not checked here;
// that is the store's concern (see the whitelist in the repository).
func ParseSortBy(sortBy string) []Clause {
	if sortBy == "" {
		return nil
	}
	var clauses []Clause
	for _, item := range strings.Split(sortBy, ",") {
		field, rest, hasDir := strings.Cut(strings.TrimSpace(item), " ")
		c := Clause{Field: field}
		if hasDir {
			dir, _, _ := strings.Cut(rest, " ")
			switch dir {
			case "asc", "ascending":
				c.Direction = Ascending
			case "desc", "descending":
				c.Direction = Descending
			}
		}
		clauses = append(clauses, c)
	}
	return clauses
}
