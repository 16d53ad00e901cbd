package storage

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	catalogapp "github.com/erp/reconciler/internal/application/catalog"
)

// Object is a stored export
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryArchive keeps exports in process memory. Its download links point at
// BaseURL, which the HTTP server serves from the same archive.
type MemoryArchive struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryArchive creates an empty archive linking to baseURL
func NewMemoryArchive(baseURL string) *MemoryArchive {
	return &MemoryArchive{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

// Upload implements catalogapp.ExportArchive
func (m *MemoryArchive) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// DownloadURL implements catalogapp.ExportArchive. Links never expire
// server-side; the returned time only mirrors the request.
func (m *MemoryArchive) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", time.Time{}, catalogapp.ErrExportNotFound
	}
	return m.BaseURL + "/" + url.PathEscape(key), time.Now().Add(expiresIn), nil
}

// Get returns a stored export
func (m *MemoryArchive) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}

var _ catalogapp.ExportArchive = (*MemoryArchive)(nil)
