package csvfile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocsv/internal/csvfile/archive"
	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
	"github.com/shandysiswandi/gocsv/internal/csvfile/inbound"
	"github.com/shandysiswandi/gocsv/internal/csvfile/store"
	"github.com/shandysiswandi/gocsv/internal/csvfile/usecase"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkguid"
)

const defaultMaxUploadBytes int64 = 32 << 20

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil {
		return nil, errors.New("csvfile: missing dependency")
	}

	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}

	storage, err := store.Open(ctx, store.Options{
		Driver:      dep.Config.GetString("database.driver"),
		SQLiteDir:   dep.Config.GetString("database.sqlite.dir"),
		SQLiteName:  dep.Config.GetString("database.sqlite.name"),
		PostgresURL: dep.Config.GetString("database.postgres.url"),
	})
	if err != nil {
		return nil, err
	}

	archiver, err := archive.Open(ctx, archive.Options{
		Driver:         dep.Config.GetString("archive.driver"),
		LocalDir:       dep.Config.GetString("archive.local.dir"),
		MinioEndpoint:  dep.Config.GetString("archive.minio.endpoint"),
		MinioAccessKey: dep.Config.GetString("archive.minio.access_key"),
		MinioSecretKey: dep.Config.GetString("archive.minio.secret_key"),
		MinioBucket:    dep.Config.GetString("archive.minio.bucket"),
		MinioRegion:    dep.Config.GetString("archive.minio.region"),
	})
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	var runner usecase.Runner
	if dep.Goroutine != nil {
		runner = dep.Goroutine
	}

	uc := usecase.New(usecase.Dependency{
		Store:    storage,
		Archiver: archiver,
		Runner:   runner,
		Clock:    nil,
		ID:       dep.ID,
		RootCtx:  ctx,
	})

	maxUpload := dep.Config.GetInt("modules.csv.max_upload_bytes")
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	mode := entity.ParseRetrievalMode(dep.Config.GetString("modules.csv.default_mode"))

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Options{
		Mode:           mode,
		MaxUploadBytes: maxUpload,
	})

	slog.InfoContext(ctx, "csv module ready",
		"database_driver", dep.Config.GetString("database.driver"),
		"archive_driver", dep.Config.GetString("archive.driver"),
		"default_mode", mode,
		"max_upload_bytes", maxUpload,
	)

	return func(context.Context) error {
		return storage.Close()
	}, nil
}
