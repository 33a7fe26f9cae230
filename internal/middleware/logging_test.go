package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLog routes the default logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		handler   http.HandlerFunc
		wantCode  int
		wantLevel string
		wantBytes float64
	}{
		{
			name:   "success",
			method: http.MethodGet,
			path:   "/posts",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[]"))
			},
			wantCode:  http.StatusOK,
			wantLevel: "INFO",
			wantBytes: 2,
		},
		{
			name:   "created",
			method: http.MethodPost,
			path:   "/categories",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
			},
			wantCode:  http.StatusCreated,
			wantLevel: "INFO",
		},
		{
			name:   "client error",
			method: http.MethodGet,
			path:   "/posts/missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantCode:  http.StatusNotFound,
			wantLevel: "WARN",
		},
		{
			name:   "server error",
			method: http.MethodDelete,
			path:   "/posts/1",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantCode:  http.StatusInternalServerError,
			wantLevel: "ERROR",
		},
		{
			name:      "nothing written",
			method:    http.MethodGet,
			path:      "/health",
			handler:   func(w http.ResponseWriter, r *http.Request) {},
			wantCode:  http.StatusOK,
			wantLevel: "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			Logger(tt.handler).ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantCode)
			}

			entry := lastEntry(t, buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level: got %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["method"] != tt.method || entry["path"] != tt.path {
				t.Errorf("logged %v %v, want %s %s", entry["method"], entry["path"], tt.method, tt.path)
			}
			if entry["status"] != float64(tt.wantCode) {
				t.Errorf("logged status: got %v, want %d", entry["status"], tt.wantCode)
			}
			if entry["bytes"] != tt.wantBytes {
				t.Errorf("logged bytes: got %v, want %v", entry["bytes"], tt.wantBytes)
			}
		})
	}
}

func TestLogger_RequestID(t *testing.T) {
	buf := captureLog(t)

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts", nil))

	id, _ := lastEntry(t, buf)["request_id"].(string)
	if id == "" {
		t.Error("request_id should be logged when RequestID runs first")
	}
}

func TestStatusLevel(t *testing.T) {
	tests := map[int]slog.Level{
		200: slog.LevelInfo,
		304: slog.LevelInfo,
		401: slog.LevelWarn,
		429: slog.LevelWarn,
		503: slog.LevelError,
	}
	for status, want := range tests {
		if got := statusLevel(status); got != want {
			t.Errorf("statusLevel(%d) = %v, want %v", status, got, want)
		}
	}
}
