package csvfile

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/gocsv/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gocsv/internal/pkg/pkguid"
)

type mapConfig map[string]string

func (m mapConfig) Close() error { return nil }

func (m mapConfig) GetInt(key string) int64 {
	v, _ := strconv.ParseInt(m[key], 10, 64)
	return v
}

func (m mapConfig) GetBool(key string) bool {
	v, _ := strconv.ParseBool(m[key])
	return v
}

func (m mapConfig) GetString(key string) string { return m[key] }

func TestNewWiresSQLiteAndLocalArchive(t *testing.T) {
	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "archive")

	cfg := mapConfig{
		"database.driver":              "sqlite",
		"database.sqlite.dir":          filepath.Join(dir, "db"),
		"database.sqlite.name":         "test.db",
		"modules.csv.default_mode":     "bulk",
		"modules.csv.max_upload_bytes": "1048576",
		"archive.driver":               "local",
		"archive.local.dir":            archiveDir,
	}

	runner := pkgroutine.NewManager(2)
	router := pkgrouter.NewRouter(pkguid.NewUUID())

	closer, err := New(Dependency{
		Config:    cfg,
		Goroutine: runner,
		Router:    router,
		Context:   context.Background(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer(context.Background()) })

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "people.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,age\nann,30\nbob,41\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-csv/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-csv/"+resp.ID+"?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"ann","age":"30"}]`, rec.Body.String())

	require.NoError(t, runner.Wait())
	archived, err := os.ReadFile(filepath.Join(archiveDir, resp.ID+".csv"))
	require.NoError(t, err)
	assert.Equal(t, "name,age\nann,30\nbob,41\n", string(archived))
}

func TestNewMemoryWithoutArchive(t *testing.T) {
	router := pkgrouter.NewRouter(pkguid.NewUUID())

	closer, err := New(Dependency{
		Config: mapConfig{"database.driver": "memory"},
		Router: router,
	})
	require.NoError(t, err)
	require.NoError(t, closer(context.Background()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-csv/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRejectsBadArchive(t *testing.T) {
	_, err := New(Dependency{
		Config: mapConfig{"database.driver": "memory", "archive.driver": "tape"},
		Router: pkgrouter.NewRouter(pkguid.NewUUID()),
	})
	assert.Error(t, err)

	_, err = New(Dependency{})
	assert.Error(t, err)
}

