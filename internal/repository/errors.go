// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel errors shared across repository methods. These
// values represent expected business outcomes rather than storage failures:
// handlers translate them into 400/404 responses, while any other error
// bubbles up as a 500.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie id does not exist in the store.
// Handlers should translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrDuplicateName is returned when a create or update would give a movie a
// name already held by another record. The comparison is exact-match on the
// stored bytes, not case-folded. Handlers should translate this into an
// HTTP 400 response.
var ErrDuplicateName = errors.New("movie name already exists")
