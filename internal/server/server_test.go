package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
)

func newTestServer(t *testing.T, allowedOrigins []string) *Server {
	t.Helper()

	public := fstest.MapFS{
		"index.html":   {Data: []byte("<!doctype html><title>Acasă</title>")},
		"privacy.html": {Data: []byte("<!doctype html><title>Confidențialitate</title>")},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, public, allowedOrigins)
}

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/api/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
}

func doRequest(srv *Server, method, path, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if origin != "" {
		req.Header.Set(echo.HeaderOrigin, origin)
	}
	rec := httptest.NewRecorder()
	srv.e.ServeHTTP(rec, req)
	return rec
}

func TestServesEmbeddedSite(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Acasă") {
		t.Errorf("unexpected index body: %q", rec.Body.String())
	}

	rec = doRequest(srv, http.MethodGet, "/privacy.html", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("privacy page: got %d, want 200", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/", "")
	if got := rec.Header().Get("Content-Security-Policy"); got != contentSecurityPolicy {
		t.Errorf("csp header: got %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("nosniff header: got %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("frame options header: got %q", got)
	}
}

func TestOriginGuard(t *testing.T) {
	t.Parallel()

	allowed := []string{"https://activcleaning.ro", "https://www.activcleaning.ro"}

	cases := []struct {
		name     string
		origins  []string
		origin   string
		wantCode int
	}{
		{name: "empty allow list passes all", origins: nil, origin: "https://evil.example", wantCode: http.StatusOK},
		{name: "allowed origin", origins: allowed, origin: "https://activcleaning.ro", wantCode: http.StatusOK},
		{name: "no origin header", origins: allowed, origin: "", wantCode: http.StatusOK},
		{name: "null origin", origins: allowed, origin: "null", wantCode: http.StatusOK},
		{name: "unknown origin", origins: allowed, origin: "https://evil.example", wantCode: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, tc.origins)
			srv.RegisterRouter(pingRoutes{})

			rec := doRequest(srv, http.MethodGet, "/api/ping", tc.origin)
			if rec.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d: %s", rec.Code, tc.wantCode, rec.Body.String())
			}

			if tc.wantCode == http.StatusForbidden {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if body["message"] != msgOriginRejected {
					t.Errorf("message: got %q, want %q", body["message"], msgOriginRejected)
				}
			}
		})
	}
}

func TestCORSAllowList(t *testing.T) {
	t.Parallel()

	if got := corsAllowList(nil); len(got) != 1 || got[0] != "*" {
		t.Errorf("empty list: got %v, want [*]", got)
	}
	origins := []string{"https://activcleaning.ro"}
	if got := corsAllowList(origins); len(got) != 1 || got[0] != origins[0] {
		t.Errorf("configured list: got %v, want %v", got, origins)
	}
}
