package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/gocsv/internal/pkg/pkgerror"
)

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body["detail"]
}

func TestRouterErrorCodec(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})

	router.GET("/missing", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewBusiness("File not found", pkgerror.CodeNotFound)
	})
	router.GET("/broken", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewServerWithMessage(errors.New("disk full"), "Error processing CSV")
	})
	router.GET("/raw", func(context.Context, *http.Request) (any, error) {
		return nil, errors.New("boom")
	})

	cases := []struct {
		path   string
		status int
		detail string
	}{
		{"/missing", http.StatusNotFound, "File not found"},
		{"/broken", http.StatusInternalServerError, "Error processing CSV: disk full"},
		{"/raw", http.StatusInternalServerError, "Internal server error"},
		{"/nowhere", http.StatusNotFound, "Not Found"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.path, tc.status, rec.Code)
		}
		if got := decodeDetail(t, rec); got != tc.detail {
			t.Fatalf("%s: expected detail %q, got %q", tc.path, tc.detail, got)
		}
	}
}

func TestRouterWritesRawPayload(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})
	router.GET("/rows", func(context.Context, *http.Request) (any, error) {
		return []map[string]string{{"a": "1"}}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/rows", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var rows []map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) != 1 || rows[0]["a"] != "1" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})
	router.GET("/only-get", func(context.Context, *http.Request) (any, error) {
		return map[string]string{}, nil
	})

	req := httptest.NewRequest(http.MethodDelete, "/only-get", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRouterUseAppliesToLaterRoutes(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})
	router.Use(MiddlewareAPIKey("k", PublicPaths...))
	router.GET("/secured", func(context.Context, *http.Request) (any, error) {
		return map[string]string{"ok": "yes"}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/secured", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/secured", nil)
	req.Header.Set(HeaderAPIKey, "k")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rec.Code)
	}
}

func TestRouterRecoversPanic(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})
	router.GET("/panic", func(context.Context, *http.Request) (any, error) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeDetail(t, rec); got != "Internal server error" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestRouterFallbacksPassThroughGate(t *testing.T) {
	router := NewRouter(&staticGenerator{value: "cid"})
	router.Use(MiddlewareAPIKey("k", PublicPaths...))

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown path without key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set(HeaderAPIKey, "k")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with key, got %d", rec.Code)
	}
	if got := rec.Header().Get(HeaderCorrelationID); got == "" {
		t.Fatal("expected correlation id on fallback response")
	}
}
