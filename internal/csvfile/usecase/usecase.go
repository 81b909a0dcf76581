package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkguid"
)

type Store interface {
	// CreateFile stores the file record and all of its rows atomically.
	CreateFile(ctx context.Context, file entity.File, rows []entity.Row) error
	FileExists(ctx context.Context, fileID string) (bool, error)
	// GetRows returns rows ordered by index; limit <= 0 means all rows.
	GetRows(ctx context.Context, fileID string, limit int) ([]entity.Row, error)
	// GetRowAt returns zero or one row.
	GetRowAt(ctx context.Context, fileID string, index int64) ([]entity.Row, error)
	GetCursor(ctx context.Context, fileID string) (int64, bool, error)
	// AdvanceCursor creates the cursor at 0 or increments it by one, and
	// returns the new position.
	AdvanceCursor(ctx context.Context, fileID string) (int64, error)
}

type Archiver interface {
	Put(ctx context.Context, key string, content []byte) error
}

type Runner interface {
	Go(ctx context.Context, name string, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store    Store
	Archiver Archiver
	Runner   Runner
	Clock    Clock
	ID       pkguid.StringID
	RootCtx  context.Context
}

type Usecase struct {
	store    Store
	archiver Archiver
	runner   Runner
	clock    Clock
	id       pkguid.StringID
	rootCtx  context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		store:    dep.Store,
		archiver: dep.Archiver,
		runner:   dep.Runner,
		clock:    clock,
		id:       dep.ID,
		rootCtx:  root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Upload validates and parses content, then stores it under a new file id.
func (u *Usecase) Upload(ctx context.Context, filename string, content []byte) (UploadResult, error) {
	if u.store == nil || u.id == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if !strings.HasSuffix(filename, ".csv") {
		return UploadResult{}, pkgerror.NewValidation(MsgNotCSV)
	}

	if !utf8.Valid(content) {
		return UploadResult{}, pkgerror.NewValidation(MsgNotUTF8)
	}

	headers, rows, err := parseCSV(content)
	if err != nil {
		slog.WarnContext(ctx, "rejected csv upload", "filename", filename, "error", err)
		return UploadResult{}, err
	}

	file := entity.File{
		ID:         u.id.Generate(),
		Filename:   filename,
		UploadedAt: u.clock.Now().UTC(),
	}

	if err := u.store.CreateFile(ctx, file, rows); err != nil {
		return UploadResult{}, storageErr(msgProcessing, err)
	}

	slog.InfoContext(ctx, "csv file stored",
		"file_id", file.ID,
		"filename", filename,
		"columns", len(headers),
		"rows", len(rows),
	)

	u.archive(file.ID, content)

	return UploadResult{ID: file.ID, Message: MsgUploaded}, nil
}

// Rows is the bulk read: every row in order, capped at limit when limit > 0.
func (u *Usecase) Rows(ctx context.Context, fileID string, limit int) ([]entity.Row, error) {
	if err := u.ensureFile(ctx, fileID); err != nil {
		return nil, err
	}

	rows, err := u.store.GetRows(ctx, fileID, limit)
	if err != nil {
		return nil, storageErr(msgRetrieving, err)
	}

	return rows, nil
}

// NextRow is the cursor read. The first call for a file returns row 0 and
// every later call moves one row ahead; past the end it returns no rows.
func (u *Usecase) NextRow(ctx context.Context, fileID string) ([]entity.Row, error) {
	if err := u.ensureFile(ctx, fileID); err != nil {
		return nil, err
	}

	position, err := u.store.AdvanceCursor(ctx, fileID)
	if err != nil {
		return nil, storageErr(msgRetrieving, err)
	}

	rows, err := u.store.GetRowAt(ctx, fileID, position)
	if err != nil {
		return nil, storageErr(msgRetrieving, err)
	}

	return rows, nil
}

// Cursor reports the stored cursor without moving it.
func (u *Usecase) Cursor(ctx context.Context, fileID string) (CursorResult, error) {
	if err := u.ensureFile(ctx, fileID); err != nil {
		return CursorResult{}, err
	}

	position, found, err := u.store.GetCursor(ctx, fileID)
	if err != nil {
		return CursorResult{}, storageErr(msgRetrieving, err)
	}

	return CursorResult{FileID: fileID, Position: position, Started: found}, nil
}

func (u *Usecase) ensureFile(ctx context.Context, fileID string) error {
	if u.store == nil {
		return pkgerror.NewServer(errors.New("missing dependency"))
	}

	exists, err := u.store.FileExists(ctx, fileID)
	if err != nil {
		return storageErr(msgRetrieving, err)
	}
	if !exists {
		return pkgerror.NewBusiness(MsgFileNotFound, pkgerror.CodeNotFound)
	}

	return nil
}

func (u *Usecase) archive(fileID string, content []byte) {
	if u.archiver == nil || u.runner == nil {
		return
	}

	key := fileID + ".csv"
	u.runner.Go(u.rootCtx, "archive "+key, func(ctx context.Context) error {
		if err := u.archiver.Put(ctx, key, content); err != nil {
			slog.ErrorContext(ctx, "failed to archive csv upload", "file_id", fileID, "key", key, "error", err)
			return err
		}
		return nil
	})
}

func storageErr(msg string, err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) && perr.Type() != pkgerror.TypeServer {
		return perr
	}
	return pkgerror.NewServerWithMessage(err, msg)
}
