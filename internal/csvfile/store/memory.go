package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgerror"
)

// InMemoryStore keeps rows in their encoded form so reads never share
// memory with writers.
type InMemoryStore struct {
	mu    sync.RWMutex
	files map[string]*fileRecord
}

type fileRecord struct {
	mu      sync.Mutex
	file    entity.File
	rows    [][]byte
	cursor  int64
	started bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		files: make(map[string]*fileRecord),
	}
}

func (s *InMemoryStore) CreateFile(ctx context.Context, file entity.File, rows []entity.Row) error {
	encoded := make([][]byte, 0, len(rows))
	for _, row := range rows {
		data, err := encodeRow(row)
		if err != nil {
			return err
		}
		encoded = append(encoded, data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[file.ID]; exists {
		return pkgerror.NewBusiness("file already exists", pkgerror.CodeConflict)
	}

	s.files[file.ID] = &fileRecord{
		file: file,
		rows: encoded,
	}

	return nil
}

func (s *InMemoryStore) FileExists(ctx context.Context, fileID string) (bool, error) {
	s.mu.RLock()
	_, ok := s.files[fileID]
	s.mu.RUnlock()

	return ok, nil
}

func (s *InMemoryStore) GetRows(ctx context.Context, fileID string, limit int) ([]entity.Row, error) {
	rec, err := s.get(fileID)
	if err != nil {
		return []entity.Row{}, nil
	}

	encoded := rec.rows
	if limit > 0 && limit < len(encoded) {
		encoded = encoded[:limit]
	}

	rows := make([]entity.Row, 0, len(encoded))
	for _, data := range encoded {
		row, err := decodeRow(data)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *InMemoryStore) GetRowAt(ctx context.Context, fileID string, index int64) ([]entity.Row, error) {
	rec, err := s.get(fileID)
	if err != nil || index < 0 || index >= int64(len(rec.rows)) {
		return []entity.Row{}, nil
	}

	row, err := decodeRow(rec.rows[index])
	if err != nil {
		return nil, err
	}

	return []entity.Row{row}, nil
}

func (s *InMemoryStore) GetCursor(ctx context.Context, fileID string) (int64, bool, error) {
	rec, err := s.get(fileID)
	if err != nil {
		return 0, false, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	return rec.cursor, rec.started, nil
}

func (s *InMemoryStore) AdvanceCursor(ctx context.Context, fileID string) (int64, error) {
	rec, err := s.get(fileID)
	if err != nil {
		return 0, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.started {
		rec.cursor++
	}
	rec.started = true

	return rec.cursor, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

func (s *InMemoryStore) get(fileID string) (*fileRecord, error) {
	s.mu.RLock()
	rec, ok := s.files[fileID]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
