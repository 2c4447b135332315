package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contents (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT        NOT NULL,
		body             TEXT        NOT NULL DEFAULT '',
		user_id          BIGINT      NOT NULL,
		comments_enabled BOOLEAN     NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         BIGSERIAL PRIMARY KEY,
		content_id BIGINT      NOT NULL REFERENCES contents (id) ON DELETE CASCADE,
		parent_id  BIGINT      REFERENCES comments (id) ON DELETE CASCADE,
		user_id    BIGINT      NOT NULL,
		body       TEXT        NOT NULL,
		score      BIGINT      NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS comments_content_keyset_idx
		ON comments (content_id, created_at, id)`,
	`CREATE INDEX IF NOT EXISTS comments_parent_idx ON comments (parent_id)`,
	`CREATE TABLE IF NOT EXISTS comment_votes (
		comment_id BIGINT      NOT NULL REFERENCES comments (id) ON DELETE CASCADE,
		user_id    BIGINT      NOT NULL,
		delta      SMALLINT    NOT NULL CHECK (delta IN (-1, 1)),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (comment_id, user_id)
	)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
