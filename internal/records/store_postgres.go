package records

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed record store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed record store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the course_records table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS course_records (
			student_id TEXT NOT NULL,
			code       TEXT NOT NULL,
			status     TEXT NOT NULL,
			grade      TEXT,
			credits    INTEGER NOT NULL,
			season     TEXT NOT NULL DEFAULT '',
			year       INTEGER NOT NULL DEFAULT 0,
			slot_id    TEXT NOT NULL,
			PRIMARY KEY (student_id, code, slot_id)
		)`)
	if err != nil {
		return fmt.Errorf("migrate course_records: %w", err)
	}
	return nil
}

func (s *PostgresStore) CourseRecords(ctx context.Context, studentID string) ([]CourseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT code, status, COALESCE(grade, ''), credits, season, year, slot_id
		 FROM course_records
		 WHERE student_id = $1
		 ORDER BY year ASC, code ASC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query course records: %w", err)
	}
	defer rows.Close()

	var recs []CourseRecord
	for rows.Next() {
		var rec CourseRecord
		var season string
		if err := rows.Scan(
			&rec.Code,
			&rec.Status,
			&rec.Grade,
			&rec.Credits,
			&season,
			&rec.Semester.Year,
			&rec.SlotID,
		); err != nil {
			return nil, fmt.Errorf("scan course record: %w", err)
		}
		rec.Semester.Season = Season(season)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course records: %w", err)
	}

	return recs, nil
}

func (s *PostgresStore) SaveRecord(ctx context.Context, studentID string, rec CourseRecord) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if rec.Code == "" {
		return fmt.Errorf("record code is required")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO course_records (student_id, code, status, grade, credits, season, year, slot_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (student_id, code, slot_id)
		 DO UPDATE SET status = $3, grade = $4, credits = $5, season = $6, year = $7`,
		studentID,
		rec.Code,
		rec.Status,
		nullIfEmpty(rec.Grade),
		rec.Credits,
		string(rec.Semester.Season),
		rec.Semester.Year,
		rec.SlotID,
	)
	if err != nil {
		return fmt.Errorf("save course record: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteRecord(ctx context.Context, studentID, code, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`DELETE FROM course_records
		 WHERE student_id = $1 AND code = $2 AND slot_id = $3`,
		studentID, code, slotID,
	)
	if err != nil {
		return fmt.Errorf("delete course record: %w", err)
	}
	return nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
