package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
)

const DefaultSQLiteName = "csv_data.db"

//nolint:gochecknoglobals // schema statements
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS csv_files (
		id          TEXT PRIMARY KEY,
		filename    TEXT NOT NULL,
		uploaded_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS csv_data (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id   TEXT NOT NULL REFERENCES csv_files (id),
		row_index INTEGER NOT NULL,
		row_data  TEXT NOT NULL,
		UNIQUE (file_id, row_index)
	)`,
	`CREATE TABLE IF NOT EXISTS csv_cursors (
		file_id      TEXT PRIMARY KEY REFERENCES csv_files (id),
		row_position INTEGER NOT NULL DEFAULT 0
	)`,
}

// SQLiteStore persists files in one SQLite database in WAL mode. Write
// transactions start as BEGIN IMMEDIATE so concurrent writers queue on the
// busy timeout instead of failing on lock upgrade.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) dir/name and applies the schema.
func NewSQLiteStore(ctx context.Context, dir, name string) (*SQLiteStore, error) {
	if name == "" {
		name = DefaultSQLiteName
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + filepath.Join(dir, name) +
		"?_pragma=busy_timeout(10000)" +
		"&_pragma=journal_mode(wal)" +
		"&_pragma=foreign_keys(1)" +
		"&_txlock=immediate"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateFile(ctx context.Context, file entity.File, rows []entity.Row) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO csv_files (id, filename, uploaded_at) VALUES (?, ?, ?)`,
		file.ID, file.Filename, file.UploadedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO csv_data (file_id, row_index, row_data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		data, encErr := encodeRow(row)
		if encErr != nil {
			return encErr
		}
		if _, err = stmt.ExecContext(ctx, file.ID, i, string(data)); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *SQLiteStore) FileExists(ctx context.Context, fileID string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM csv_files WHERE id = ?`, fileID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *SQLiteStore) GetRows(ctx context.Context, fileID string, limit int) ([]entity.Row, error) {
	query := `SELECT row_data FROM csv_data WHERE file_id = ? ORDER BY row_index`
	args := []any{fileID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return s.queryRows(ctx, query, args...)
}

func (s *SQLiteStore) GetRowAt(ctx context.Context, fileID string, index int64) ([]entity.Row, error) {
	return s.queryRows(ctx, `SELECT row_data FROM csv_data WHERE file_id = ? AND row_index = ?`, fileID, index)
}

func (s *SQLiteStore) GetCursor(ctx context.Context, fileID string) (int64, bool, error) {
	var position int64
	err := s.db.QueryRowContext(ctx, `SELECT row_position FROM csv_cursors WHERE file_id = ?`, fileID).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return position, true, nil
}

func (s *SQLiteStore) AdvanceCursor(ctx context.Context, fileID string) (position int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.QueryRowContext(ctx, cursorUpsertSQLite, fileID).Scan(&position); err != nil {
		return 0, fmt.Errorf("advance cursor: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return position, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryRows(ctx context.Context, query string, args ...any) ([]entity.Row, error) {
	rs, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	rows := make([]entity.Row, 0)
	for rs.Next() {
		var data string
		if err := rs.Scan(&data); err != nil {
			return nil, err
		}

		row, err := decodeRow([]byte(data))
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, rs.Err()
}

const cursorUpsertSQLite = `INSERT INTO csv_cursors (file_id, row_position) VALUES (?, 0)
	ON CONFLICT (file_id) DO UPDATE SET row_position = csv_cursors.row_position + 1
	RETURNING row_position`

