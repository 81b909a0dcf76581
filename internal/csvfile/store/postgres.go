package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
)

// row_data is TEXT rather than JSONB: JSONB does not keep key order.
//
//nolint:gochecknoglobals // schema statements
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS csv_files (
		id          TEXT PRIMARY KEY,
		filename    TEXT NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS csv_data (
		id        BIGSERIAL PRIMARY KEY,
		file_id   TEXT NOT NULL REFERENCES csv_files (id),
		row_index BIGINT NOT NULL,
		row_data  TEXT NOT NULL,
		UNIQUE (file_id, row_index)
	)`,
	`CREATE TABLE IF NOT EXISTS csv_cursors (
		file_id      TEXT PRIMARY KEY REFERENCES csv_files (id),
		row_position BIGINT NOT NULL DEFAULT 0
	)`,
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) CreateFile(ctx context.Context, file entity.File, rows []entity.Row) error {
	values := make([][]any, 0, len(rows))
	for i, row := range rows {
		data, err := encodeRow(row)
		if err != nil {
			return err
		}
		values = append(values, []any{file.ID, int64(i), string(data)})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx,
		`INSERT INTO csv_files (id, filename, uploaded_at) VALUES ($1, $2, $3)`,
		file.ID, file.Filename, file.UploadedAt,
	); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	if len(values) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"csv_data"},
			[]string{"file_id", "row_index", "row_data"},
			pgx.CopyFromRows(values),
		); err != nil {
			return fmt.Errorf("copy rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *PostgresStore) FileExists(ctx context.Context, fileID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM csv_files WHERE id = $1)`, fileID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (s *PostgresStore) GetRows(ctx context.Context, fileID string, limit int) ([]entity.Row, error) {
	if limit > 0 {
		return s.queryRows(ctx,
			`SELECT row_data FROM csv_data WHERE file_id = $1 ORDER BY row_index LIMIT $2`, fileID, limit)
	}

	return s.queryRows(ctx, `SELECT row_data FROM csv_data WHERE file_id = $1 ORDER BY row_index`, fileID)
}

func (s *PostgresStore) GetRowAt(ctx context.Context, fileID string, index int64) ([]entity.Row, error) {
	return s.queryRows(ctx, `SELECT row_data FROM csv_data WHERE file_id = $1 AND row_index = $2`, fileID, index)
}

func (s *PostgresStore) GetCursor(ctx context.Context, fileID string) (int64, bool, error) {
	var position int64
	err := s.pool.QueryRow(ctx, `SELECT row_position FROM csv_cursors WHERE file_id = $1`, fileID).Scan(&position)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return position, true, nil
}

func (s *PostgresStore) AdvanceCursor(ctx context.Context, fileID string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var position int64
	if err := tx.QueryRow(ctx, cursorUpsertPostgres, fileID).Scan(&position); err != nil {
		return 0, fmt.Errorf("advance cursor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return position, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) queryRows(ctx context.Context, query string, args ...any) ([]entity.Row, error) {
	rs, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	rows, err := pgx.CollectRows(rs, func(r pgx.CollectableRow) (entity.Row, error) {
		var data string
		if err := r.Scan(&data); err != nil {
			return entity.Row{}, err
		}
		return decodeRow([]byte(data))
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.Row{}
	}

	return rows, nil
}

const cursorUpsertPostgres = `INSERT INTO csv_cursors (file_id, row_position) VALUES ($1, 0)
	ON CONFLICT (file_id) DO UPDATE SET row_position = csv_cursors.row_position + 1
	RETURNING row_position`
