package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gocsv/internal/csvfile/entity"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgrouter"
)

const welcomeMessage = "CSV to JSON API. Use /upload-csv/ to upload a CSV file and /get-csv/{id} to retrieve it as JSON."

var errFilePartRequired = errors.New("file part is required")

type HTTPEndpoint struct {
	uc             uc
	mode           entity.RetrievalMode
	maxUploadBytes int64
}

func (h *HTTPEndpoint) Root(context.Context, *http.Request) (any, error) {
	return MessageResponse{Message: welcomeMessage}, nil
}

func (h *HTTPEndpoint) OpenAPI(context.Context, *http.Request) (any, error) {
	return json.RawMessage(openAPIDocument), nil
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	if h.maxUploadBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxUploadBytes)
	}

	filename, content, err := h.readFilePart(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Upload(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	return UploadResponse{ID: result.ID, Message: result.Message}, nil
}

// Get serves the configured default retrieval mode.
func (h *HTTPEndpoint) Get(ctx context.Context, r *http.Request) (any, error) {
	if h.mode == entity.RetrievalModeBulk {
		return h.Rows(ctx, r)
	}
	return h.Next(ctx, r)
}

func (h *HTTPEndpoint) Next(ctx context.Context, r *http.Request) (any, error) {
	rows, err := h.uc.NextRow(ctx, pkgrouter.GetParam(ctx, "file_id"))
	if err != nil {
		return nil, err
	}

	return nonNil(rows), nil
}

func (h *HTTPEndpoint) Rows(ctx context.Context, r *http.Request) (any, error) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		return nil, err
	}

	rows, err := h.uc.Rows(ctx, pkgrouter.GetParam(ctx, "file_id"), limit)
	if err != nil {
		return nil, err
	}

	return nonNil(rows), nil
}

func (h *HTTPEndpoint) Cursor(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Cursor(ctx, pkgrouter.GetParam(ctx, "file_id"))
	if err != nil {
		return nil, err
	}

	resp := CursorResponse{FileID: result.FileID, Started: result.Started}
	if result.Started {
		position := result.Position
		resp.Position = &position
	}

	return resp, nil
}

func (h *HTTPEndpoint) readFilePart(r *http.Request) (string, []byte, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return "", nil, pkgerror.NewInvalidInput(errFilePartRequired)
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", nil, pkgerror.NewInvalidInput(errFilePartRequired)
			}
			return "", nil, h.bodyErr(err)
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		// a plain form field named "file" is not an upload
		filename := rawFilename(part)
		if filename == "" {
			_ = part.Close()
			return "", nil, pkgerror.NewInvalidInput(errFilePartRequired)
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return "", nil, h.bodyErr(err)
		}

		return filename, content, nil
	}
}

// rawFilename returns the filename parameter exactly as the client sent it;
// multipart.Part.FileName strips any directory.
func rawFilename(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

func (h *HTTPEndpoint) bodyErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerror.NewPayloadTooLarge(tooLarge.Limit)
	}
	return pkgerror.NewInvalidFormat()
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerror.NewInvalidInput(errors.New("limit must be an integer"))
	}

	return limit, nil
}

func nonNil(rows []entity.Row) []entity.Row {
	if rows == nil {
		return []entity.Row{}
	}
	return rows
}
