package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/moviehub/movie-catalog/internal/paging"
	"github.com/moviehub/movie-catalog/internal/queue"
)

// Movie represents a movie row. Identity is assigned by the database on
// insert. DirectorID references directors.id; the relation is not enforced
// at read time (search left-joins), only populated by writes.
type Movie struct {
	ID         int64  // movies.id
	Name       string // movies.name, unique across all movies
	DirectorID int64  // movies.director_id
}

// Director represents a row of the directors table. Directors are read-only
// from this service's perspective; there is no director write endpoint.
type Director struct {
	ID   int64
	Name string
}

// Actor represents a row of the actors table. Read-only, like directors.
type Actor struct {
	ID   int64
	Name string
}

// MovieActor links a movie to an actor. Rows are removed together with their
// movie; the cascade is performed explicitly by Delete, not assumed from the
// schema.
type MovieActor struct {
	ID      int64
	MovieID int64
	ActorID int64
}

// Notifier publishes a movie-updated event to an external bus. Publication
// is best-effort: it happens only after the database transaction committed
// and its failure never fails the request.
type Notifier interface {
	PublishMovieUpdated(ctx context.Context, ev queue.MovieUpdatedEvent) error
}

// MovieStore is the storage surface the HTTP handlers depend on. *MovieRepo
// is the production implementation; tests substitute a stub.
type MovieStore interface {
	Search(ctx context.Context, f MovieFiltering, s paging.Sorting, p paging.Paging) (*SearchResult, error)
	Create(ctx context.Context, m *Movie) error
	Update(ctx context.Context, m *Movie) error
	Delete(ctx context.Context, id int64) error
}

// MovieRepo encapsulates all database access for movies plus the post-commit
// update notification. It depends on a sql.DB pool configured elsewhere.
type MovieRepo struct {
	db       *sql.DB
	notifier Notifier
}

// NewMovieRepo constructs a MovieRepo. notifier may be nil, in which case
// updates commit without emitting an event (useful in tests).
func NewMovieRepo(db *sql.DB, notifier Notifier) *MovieRepo {
	return &MovieRepo{db: db, notifier: notifier}
}

// nameTaken reports whether another movie already holds exactly this name.
// excludeID carves out the record being updated (pass 0 to exclude
// nothing). Runs on the operation's transaction so the check and the write
// share one scope. The movies.name column uses a binary collation, so the
// match is case-sensitive even though search filtering is not.
func nameTaken(ctx context.Context, tx *sql.Tx, name string, excludeID int64) (bool, error) {
	const q = "SELECT id FROM movies WHERE name = ? AND id <> ? LIMIT 1"
	var id int64
	if err := tx.QueryRowContext(ctx, q, name, excludeID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts a new movie unless another movie already holds the same
// name. On success the movie's ID field is populated with the generated
// value. Returns ErrDuplicateName when the name is taken; no event is
// emitted for creates.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := nameTaken(ctx, tx, m.Name, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO movies (name, director_id) VALUES (?, ?)", m.Name, m.DirectorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	m.ID = id
	return nil
}

// Update replaces the movie's name and director. The duplicate check
// excludes the record's own id, so updating a movie to its current name
// succeeds. After the transaction commits, a movie.updated event is
// published best-effort; a failed publish is logged and dropped.
func (r *MovieRepo) Update(ctx context.Context, m *Movie) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	taken, err := nameTaken(ctx, tx, m.Name, m.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE movies SET name = ?, director_id = ? WHERE id = ?",
		m.Name, m.DirectorID, m.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if r.notifier != nil {
		ev := queue.NewMovieUpdatedEvent(m.ID, m.Name, m.DirectorID)
		// Detached from the request: the write already committed, so the
		// response must not wait on (or fail because of) the broker.
		go func() {
			if err := r.notifier.PublishMovieUpdated(context.Background(), ev); err != nil {
				log.Printf("movie repo: publish %s failed: %v", queue.MovieUpdatedQueue, err)
			}
		}()
	}
	return nil
}

// Delete removes the movie and all movie_actors rows referencing it in one
// transaction. Returns ErrMovieNotFound when the id does not exist.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var got int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM movies WHERE id = ?", id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMovieNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM movie_actors WHERE movie_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
