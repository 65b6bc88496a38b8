package mapping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed mapping store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the flexible_mappings table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS flexible_mappings (
			id          UUID PRIMARY KEY,
			student_id  TEXT NOT NULL,
			path        TEXT NOT NULL,
			course_code TEXT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, path, course_code)
		)`)
	if err != nil {
		return fmt.Errorf("migrate flexible_mappings: %w", err)
	}
	return nil
}

func (s *PostgresStore) Mappings(ctx context.Context, studentID string) ([]Mapping, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, student_id, path, course_code, created_at
		 FROM flexible_mappings
		 WHERE student_id = $1
		 ORDER BY created_at ASC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	var maps []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.ID, &m.StudentID, &m.Path, &m.CourseCode, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}

	return maps, nil
}

func (s *PostgresStore) SaveMapping(ctx context.Context, m Mapping) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if m.StudentID == "" || m.Path == "" || m.CourseCode == "" {
		return fmt.Errorf("mapping student_id, path, and course_code are required")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO flexible_mappings (id, student_id, path, course_code, created_at)
		 VALUES ($1::uuid, $2, $3, $4, $5)
		 ON CONFLICT (student_id, path, course_code) DO NOTHING`,
		m.ID, m.StudentID, m.Path, m.CourseCode, createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert mapping: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteMapping(ctx context.Context, studentID, path, courseCode string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`DELETE FROM flexible_mappings
		 WHERE student_id = $1 AND path = $2 AND course_code = $3`,
		studentID, path, courseCode,
	)
	if err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	return nil
}
