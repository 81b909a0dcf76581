package pkgrouter

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/gocsv/internal/pkg/pkgerror"
)

// HeaderAPIKey carries the shared secret checked by MiddlewareAPIKey.
const HeaderAPIKey = "X-API-Key"

// DeniedMessage is the detail returned for every rejected request.
const DeniedMessage = "Invalid or missing API key"

// PublicPaths are reachable without the shared secret.
//
//nolint:gochecknoglobals // read-only defaults
var PublicPaths = []string{"/", "/health", "/docs", "/redoc", "/openapi.json"}

// MiddlewareAPIKey rejects requests whose X-API-Key header does not match
// secret, except for the exact paths in public. Rejections answer 403 before
// the wrapped handler runs.
func MiddlewareAPIKey(secret string, public ...string) Middleware {
	allowed := make(map[string]struct{}, len(public))
	for _, p := range public {
		allowed[p] = struct{}{}
	}
	want := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(HeaderAPIKey)
			if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				slog.WarnContext(r.Context(), "access denied",
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"key_present", got != "",
				)
				writeError(r.Context(), w, pkgerror.NewForbidden(DeniedMessage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
