package database

import (
	"context"
	"database/sql"
)

// schema creates the four catalog tables. movies.name carries a binary
// collation plus a unique index: the application-level duplicate check is
// exact-match, and the index closes the race window between two concurrent
// writes that both pass that check. Search lowercases explicitly, so
// filtering stays case-insensitive despite the collation.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS directors (
		id   BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS actors (
		id   BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movies (
		id          BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(50) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		director_id BIGINT NOT NULL,
		UNIQUE KEY uq_movies_name (name),
		KEY idx_movies_director (director_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movie_actors (
		id       BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		movie_id BIGINT NOT NULL,
		actor_id BIGINT NOT NULL,
		KEY idx_movie_actors_movie (movie_id),
		KEY idx_movie_actors_actor (actor_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables. It is idempotent and runs at
// startup before the server begins accepting requests.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
