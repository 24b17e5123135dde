package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store. Drafts are stored whole as a
// JSONB payload; the tree is only ever read and written by its owning
// authoring session, so row-level structure buys nothing here.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed draft store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Save(d Draft) error {
	if d.ID == "" {
		return fmt.Errorf("draft ID is required")
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO drafts (id, instructor_id, payload, created_at, updated_at)
		 VALUES ($1, $2, $3::jsonb, $4, NOW())
		 ON CONFLICT (id) DO UPDATE
		 SET payload = EXCLUDED.payload, updated_at = NOW()`,
		d.ID,
		d.InstructorID,
		string(payload),
		d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(id string) (*Draft, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM drafts WHERE id = $1`,
		id,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("draft not found: %s", id)
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft %s: %w", id, err)
	}
	return &d, nil
}

func (s *PostgresStore) ListByInstructor(instructorID string) ([]Draft, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM drafts
		 WHERE instructor_id = $1
		 ORDER BY created_at ASC`,
		instructorID,
	)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	out := []Draft{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		var d Draft
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("unmarshal draft: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("draft not found: %s", id)
	}
	return nil
}
