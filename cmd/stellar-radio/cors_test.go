package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCorsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		method     string
		status     int
		wantOrigin string
		wantCode   int
	}{
		{"success", "", http.MethodGet, http.StatusOK, "*", http.StatusOK},
		{"error response", "", http.MethodGet, http.StatusNotFound, "*", http.StatusNotFound},
		{"preflight", "", http.MethodOptions, http.StatusOK, "*", http.StatusNoContent},
		{"fixed origin", "http://panel.lan", http.MethodPost, http.StatusOK, "http://panel.lan", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := corsMiddleware(tt.origin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(tt.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/v1/state", nil))

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
				t.Errorf("Access-Control-Allow-Headers = %q", got)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if called == (tt.method == http.MethodOptions) {
				t.Errorf("handler called = %v for %s", called, tt.method)
			}
		})
	}
}

func TestSpaHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>panel</html>"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0644); err != nil {
		t.Fatal(err)
	}
	h := spaHandler(dir)

	tests := map[string]string{
		"/app.js":          "console.log(1)",
		"/stations/jazz":   "<html>panel</html>",
		"/favorites/index": "<html>panel</html>",
	}
	for path, want := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("GET %s = %d %q, want %q", path, rec.Code, rec.Body.String(), want)
		}
	}
}
