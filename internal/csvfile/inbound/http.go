package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
	"github.com/shandysiswandi/gocsv/internal/csvfile/usecase"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgrouter"
)

type uc interface {
	Upload(ctx context.Context, filename string, content []byte) (usecase.UploadResult, error)
	Rows(ctx context.Context, fileID string, limit int) ([]entity.Row, error)
	NextRow(ctx context.Context, fileID string) ([]entity.Row, error)
	Cursor(ctx context.Context, fileID string) (usecase.CursorResult, error)
}

type Options struct {
	// Mode picks what GET /get-csv/:file_id does.
	Mode entity.RetrievalMode
	// MaxUploadBytes caps the upload request body; 0 means no cap.
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, opts Options) {
	end := &HTTPEndpoint{uc: uc, mode: opts.Mode, maxUploadBytes: opts.MaxUploadBytes}

	r.GET("/", end.Root)
	r.GET("/openapi.json", end.OpenAPI)
	r.Handle(http.MethodGet, "/docs", docsPage(swaggerPage))
	r.Handle(http.MethodGet, "/redoc", docsPage(redocPage))

	r.POST("/upload-csv/", end.Upload)

	r.GET("/get-csv/:file_id", end.Get)
	r.GET("/get-csv/:file_id/next", end.Next)
	r.GET("/get-csv/:file_id/rows", end.Rows) // ?limit=
	r.GET("/get-csv/:file_id/cursor", end.Cursor)
}
