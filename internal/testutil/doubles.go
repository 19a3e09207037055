package testutil

import (
	"context"
	"sync"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// DirectoryCache is an in-process staff directory cache counting hits and invalidations.
type DirectoryCache struct {
	mu          sync.Mutex
	entries     []domain.StaffSummary
	filled      bool
	Hits        int
	Invalidated int
}

func (c *DirectoryCache) Get(context.Context) ([]domain.StaffSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filled {
		return nil, false, nil
	}
	c.Hits++
	return append([]domain.StaffSummary(nil), c.entries...), true, nil
}

func (c *DirectoryCache) Set(_ context.Context, entries []domain.StaffSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]domain.StaffSummary(nil), entries...)
	c.filled = true
	return nil
}

func (c *DirectoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.filled = false
	c.Invalidated++
	return nil
}

// UploadCall records one relay to the media host.
type UploadCall struct {
	Filename string
	Kind     domain.MediaKind
}

// Uploader returns a fixed URL or error and records every call.
type Uploader struct {
	mu    sync.Mutex
	URL   string
	Err   error
	Calls []UploadCall
}

func (u *Uploader) Upload(_ context.Context, file *domain.MediaFile, kind domain.MediaKind) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls = append(u.Calls, UploadCall{Filename: file.Filename, Kind: kind})
	if u.Err != nil {
		return "", u.Err
	}
	if u.URL == "" {
		return "https://media.example.com/" + file.Filename, nil
	}
	return u.URL, nil
}
