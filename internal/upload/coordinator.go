// Package upload drives the two-phase asset upload protocol: request a
// signed upload target from the backend, PUT the raw bytes straight to
// object storage, and hand the resulting storage key back to the caller.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Kind selects the signed-upload endpoint and validation rules for an asset.
type Kind string

const (
	KindThumbnail Kind = "thumbnail"
	KindVideo     Kind = "video"
)

var (
	// ErrUnsupportedType is returned before any network call when the
	// asset's MIME type is not allowed for its kind.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrTooLarge is returned before any network call when the asset
	// exceeds its kind's size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrTicketRequest is returned when the signed-URL request fails.
	ErrTicketRequest = errors.New("failed to get upload URL")

	// ErrTransfer is returned when the PUT to object storage fails. The
	// issued ticket is discarded; the orphaned server-side key is accepted.
	ErrTransfer = errors.New("failed to upload file")
)

var allowedTypes = map[Kind]map[string]bool{
	KindThumbnail: {"image/png": true, "image/jpeg": true},
	KindVideo:     {"video/mp4": true, "video/webm": true},
}

// Ticket is a short-lived authorization for one direct upload: the signed
// target URL plus the storage key the asset will live under.
type Ticket struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// Asset is one binary file selected for upload.
type Asset struct {
	Name        string
	ContentType string
	Data        []byte
}

// Config holds coordinator settings.
type Config struct {
	BaseURL           string // signed-upload API base URL
	Bucket            string // object storage bucket, used for public URLs
	Region            string
	MaxThumbnailBytes int64
	MaxVideoBytes     int64
	Client            *http.Client
}

// Coordinator uploads independent assets. It holds no per-upload state, so
// any number of uploads may run concurrently.
type Coordinator struct {
	baseURL  string
	bucket   string
	region   string
	maxBytes map[Kind]int64
	client   *http.Client
}

// NewCoordinator creates an upload coordinator.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("upload base URL is required")
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	maxThumb := cfg.MaxThumbnailBytes
	if maxThumb <= 0 {
		maxThumb = 2 << 20
	}
	maxVideo := cfg.MaxVideoBytes
	if maxVideo <= 0 {
		maxVideo = 100 << 20
	}
	return &Coordinator{
		baseURL: cfg.BaseURL,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		maxBytes: map[Kind]int64{
			KindThumbnail: maxThumb,
			KindVideo:     maxVideo,
		},
		client: client,
	}, nil
}

// Validate checks an asset's type and size against its kind's rules. It
// runs before any network traffic; a violation means zero requests are
// issued.
func (c *Coordinator) Validate(kind Kind, contentType string, size int64) error {
	allowed, ok := allowedTypes[kind]
	if !ok {
		return fmt.Errorf("unknown upload kind: %s", kind)
	}
	if !allowed[contentType] {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if size > c.maxBytes[kind] {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, size, c.maxBytes[kind])
	}
	return nil
}

// Upload runs the full two-phase protocol for one asset and returns the
// storage key on success. There is no retry at either phase: a ticket
// failure or transfer failure is terminal and the caller must re-trigger
// the upload with a fresh selection.
func (c *Coordinator) Upload(ctx context.Context, kind Kind, asset Asset) (string, error) {
	if err := c.Validate(kind, asset.ContentType, int64(len(asset.Data))); err != nil {
		return "", err
	}

	ticket, err := c.requestTicket(ctx, kind, asset.ContentType)
	if err != nil {
		return "", err
	}

	if err := c.transfer(ctx, ticket, asset); err != nil {
		return "", err
	}

	slog.Info("asset uploaded",
		"kind", string(kind),
		"name", asset.Name,
		"key", ticket.Key,
		"size", len(asset.Data),
	)
	return ticket.Key, nil
}

// PublicURL composes the fully-qualified URL for a storage key. Without a
// configured bucket the bare key is returned.
func (c *Coordinator) PublicURL(key string) string {
	if c.bucket == "" {
		return key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

func (c *Coordinator) requestTicket(ctx context.Context, kind Kind, contentType string) (Ticket, error) {
	endpoint := fmt.Sprintf("%s/upload/%s?fileType=%s", c.baseURL, kind, url.QueryEscape(contentType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrTicketRequest, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrTicketRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Ticket{}, fmt.Errorf("%w: status %d", ErrTicketRequest, resp.StatusCode)
	}

	var ticket Ticket
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return Ticket{}, fmt.Errorf("%w: decoding response: %v", ErrTicketRequest, err)
	}
	if ticket.UploadURL == "" || ticket.Key == "" {
		return Ticket{}, fmt.Errorf("%w: incomplete ticket", ErrTicketRequest)
	}
	return ticket, nil
}

func (c *Coordinator) transfer(ctx context.Context, ticket Ticket, asset Asset) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, ticket.UploadURL, bytes.NewReader(asset.Data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransfer, err)
	}
	req.Header.Set("Content-Type", asset.ContentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransfer, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrTransfer, resp.StatusCode)
	}
	return nil
}
