package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeObjectStore struct {
	bucket      string
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeObjectStore) Upload(_ context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	f.bucket, f.key, f.contentType, f.body = bucket, key, contentType, data
	return nil
}

func (f *fakeObjectStore) PublicBucket() string { return "blogcraft-public" }

func (f *fakeObjectStore) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	store := &fakeObjectStore{}
	h := NewUploads(store)
	h.now = func() time.Time { return time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC) }

	rr := httptest.NewRecorder()
	// The misleading extension is ignored; the bytes decide.
	h.Upload(rr, multipartRequest(t, "file", "cover.gif", pngHeader))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	if store.bucket != "blogcraft-public" {
		t.Errorf("bucket: got %q", store.bucket)
	}
	if store.contentType != "image/png" {
		t.Errorf("content type: got %q", store.contentType)
	}
	if !strings.HasPrefix(store.key, "images/2026/03/") || !strings.HasSuffix(store.key, ".png") {
		t.Errorf("key: got %q", store.key)
	}
	if !bytes.Equal(store.body, pngHeader) {
		t.Errorf("stored body differs from upload")
	}

	var res UploadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.URL != "https://cdn.example.com/"+store.key {
		t.Errorf("url: got %q", res.URL)
	}
}

func TestUpload_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
	}{
		{"not an image", func(t *testing.T) *http.Request {
			return multipartRequest(t, "file", "notes.png", []byte("just some text"))
		}, http.StatusBadRequest},
		{"wrong field", func(t *testing.T) *http.Request {
			return multipartRequest(t, "image", "cover.png", pngHeader)
		}, http.StatusBadRequest},
		{"empty file", func(t *testing.T) *http.Request {
			return multipartRequest(t, "file", "cover.png", nil)
		}, http.StatusBadRequest},
		{"not multipart", func(t *testing.T) *http.Request {
			return httptest.NewRequest(http.MethodPost, "/uploads", strings.NewReader("{}"))
		}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeObjectStore{}
			rr := httptest.NewRecorder()
			NewUploads(store).Upload(rr, tt.req(t))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if store.key != "" {
				t.Errorf("rejected upload reached storage: %q", store.key)
			}
		})
	}
}

func TestUpload_StorageFailure(t *testing.T) {
	store := &fakeObjectStore{err: errors.New("bucket unavailable")}
	rr := httptest.NewRecorder()
	NewUploads(store).Upload(rr, multipartRequest(t, "file", "cover.png", pngHeader))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}

func TestUpload_NoStorage(t *testing.T) {
	rr := httptest.NewRecorder()
	NewUploads(nil).Upload(rr, multipartRequest(t, "file", "cover.png", pngHeader))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}
