package upload_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openlearn/coursecraft/internal/upload"
)

// newBackend serves signed-upload tickets pointing at the given storage URL
// and counts every request it sees.
func newBackend(t *testing.T, storageURL, key string, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("backend method = %s, want GET", r.Method)
		}
		json.NewEncoder(w).Encode(upload.Ticket{UploadURL: storageURL, Key: key})
	}))
}

func TestUpload(t *testing.T) {
	var storageCalls atomic.Int64
	var gotContentType string
	var gotBody int64
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storageCalls.Add(1)
		if r.Method != http.MethodPut {
			t.Errorf("storage method = %s, want PUT", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		gotBody = r.ContentLength
		w.WriteHeader(http.StatusOK)
	}))
	defer storage.Close()

	var backendCalls atomic.Int64
	backend := newBackend(t, storage.URL, "videos/abc.mp4", &backendCalls)
	defer backend.Close()

	c, err := upload.NewCoordinator(upload.Config{BaseURL: backend.URL})
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}

	key, err := c.Upload(context.Background(), upload.KindVideo, upload.Asset{
		Name:        "lecture.mp4",
		ContentType: "video/mp4",
		Data:        []byte("fake video bytes"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if key != "videos/abc.mp4" {
		t.Errorf("key = %q, want videos/abc.mp4", key)
	}
	if backendCalls.Load() != 1 || storageCalls.Load() != 1 {
		t.Errorf("calls = %d backend, %d storage; want 1 each", backendCalls.Load(), storageCalls.Load())
	}
	if gotContentType != "video/mp4" {
		t.Errorf("storage Content-Type = %q, want video/mp4", gotContentType)
	}
	if gotBody != int64(len("fake video bytes")) {
		t.Errorf("storage body = %d bytes, want %d", gotBody, len("fake video bytes"))
	}
}

func TestUpload_RejectsBeforeAnyNetworkCall(t *testing.T) {
	var backendCalls atomic.Int64
	backend := newBackend(t, "http://unused", "k", &backendCalls)
	defer backend.Close()

	c, err := upload.NewCoordinator(upload.Config{
		BaseURL:           backend.URL,
		MaxThumbnailBytes: 2 << 20,
		MaxVideoBytes:     100 << 20,
	})
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}

	tests := []struct {
		name        string
		kind        upload.Kind
		contentType string
		size        int64
		wantErr     error
	}{
		{"gif thumbnail", upload.KindThumbnail, "image/gif", 100, upload.ErrUnsupportedType},
		{"video as thumbnail", upload.KindThumbnail, "video/mp4", 100, upload.ErrUnsupportedType},
		{"mkv video", upload.KindVideo, "video/x-matroska", 100, upload.ErrUnsupportedType},
		{"oversized thumbnail", upload.KindThumbnail, "image/png", (2 << 20) + 1, upload.ErrTooLarge},
		{"oversized video", upload.KindVideo, "video/mp4", (100 << 20) + 1, upload.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Validate(tt.kind, tt.contentType, tt.size); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := c.Upload(context.Background(), tt.kind, upload.Asset{
				ContentType: tt.contentType,
				Data:        make([]byte, tt.size),
			}); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if backendCalls.Load() != 0 {
		t.Errorf("backend calls = %d, want 0 (rejection must precede network)", backendCalls.Load())
	}
}

func TestUpload_AtSizeLimit(t *testing.T) {
	c, err := upload.NewCoordinator(upload.Config{BaseURL: "http://unused", MaxThumbnailBytes: 1024})
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}

	if err := c.Validate(upload.KindThumbnail, "image/png", 1024); err != nil {
		t.Errorf("Validate() at exact limit error = %v, want nil", err)
	}
	if err := c.Validate(upload.KindThumbnail, "image/png", 1025); !errors.Is(err, upload.ErrTooLarge) {
		t.Errorf("Validate() one over limit error = %v, want ErrTooLarge", err)
	}
}

func TestUpload_TicketFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	c, _ := upload.NewCoordinator(upload.Config{BaseURL: backend.URL})

	_, err := c.Upload(context.Background(), upload.KindThumbnail, upload.Asset{
		ContentType: "image/png",
		Data:        []byte("png"),
	})
	if !errors.Is(err, upload.ErrTicketRequest) {
		t.Errorf("Upload() error = %v, want ErrTicketRequest", err)
	}
}

func TestUpload_IncompleteTicket(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(upload.Ticket{UploadURL: "", Key: "k"})
	}))
	defer backend.Close()

	c, _ := upload.NewCoordinator(upload.Config{BaseURL: backend.URL})

	_, err := c.Upload(context.Background(), upload.KindThumbnail, upload.Asset{
		ContentType: "image/png",
		Data:        []byte("png"),
	})
	if !errors.Is(err, upload.ErrTicketRequest) {
		t.Errorf("Upload() error = %v, want ErrTicketRequest", err)
	}
}

func TestUpload_TransferFailure(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer storage.Close()

	var backendCalls atomic.Int64
	backend := newBackend(t, storage.URL, "thumbnails/x.png", &backendCalls)
	defer backend.Close()

	c, _ := upload.NewCoordinator(upload.Config{BaseURL: backend.URL})

	_, err := c.Upload(context.Background(), upload.KindThumbnail, upload.Asset{
		ContentType: "image/png",
		Data:        []byte("png"),
	})
	if !errors.Is(err, upload.ErrTransfer) {
		t.Errorf("Upload() error = %v, want ErrTransfer", err)
	}
	if backendCalls.Load() != 1 {
		t.Errorf("backend calls = %d, want 1 (no ticket retry)", backendCalls.Load())
	}
}

func TestUpload_PassesFileTypeQuery(t *testing.T) {
	var gotFileType string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer storage.Close()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFileType = r.URL.Query().Get("fileType")
		json.NewEncoder(w).Encode(upload.Ticket{UploadURL: storage.URL, Key: "k"})
	}))
	defer backend.Close()

	c, _ := upload.NewCoordinator(upload.Config{BaseURL: backend.URL})

	if _, err := c.Upload(context.Background(), upload.KindVideo, upload.Asset{
		ContentType: "video/webm",
		Data:        []byte("webm"),
	}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if gotFileType != "video/webm" {
		t.Errorf("fileType = %q, want video/webm", gotFileType)
	}
}

func TestPublicURL(t *testing.T) {
	withBucket, _ := upload.NewCoordinator(upload.Config{
		BaseURL: "http://unused",
		Bucket:  "course-assets",
		Region:  "eu-central-1",
	})
	if got := withBucket.PublicURL("videos/abc.mp4"); got != "https://course-assets.s3.eu-central-1.amazonaws.com/videos/abc.mp4" {
		t.Errorf("PublicURL() = %q", got)
	}

	noBucket, _ := upload.NewCoordinator(upload.Config{BaseURL: "http://unused"})
	if got := noBucket.PublicURL("videos/abc.mp4"); got != "videos/abc.mp4" {
		t.Errorf("PublicURL() without bucket = %q, want the bare key", got)
	}
}

func TestNewCoordinator_RequiresBaseURL(t *testing.T) {
	if _, err := upload.NewCoordinator(upload.Config{}); err == nil {
		t.Error("NewCoordinator() without base URL should fail")
	}
}
