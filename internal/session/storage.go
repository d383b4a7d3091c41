// Package session keeps uploaded CSV bytes between form submissions.
package session

import (
	"context"
	"sync"
	"time"

	"riskexplorer/internal"
	"riskexplorer/internal/errors"

	"github.com/google/uuid"
)

// Upload is one stored file
type Upload struct {
	Token    string
	Name     string
	Data     []byte
	StoredAt time.Time
}

// UploadStore is an in-memory, size bounded store of uploads keyed by random
// tokens. Entries expire after ttl; when full the oldest entry is evicted.
type UploadStore struct {
	mu         sync.Mutex
	entries    map[string]*Upload
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	log        *internal.Logger
}

// NewUploadStore creates a store. Non-positive limits disable that limit.
func NewUploadStore(ttl time.Duration, maxEntries int) *UploadStore {
	return &UploadStore{
		entries:    make(map[string]*Upload),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		log:        internal.DefaultLogger.With("uploads"),
	}
}

// Put stores data under a fresh token
func (s *UploadStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.InvalidInput("empty upload")
	}

	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	if s.maxEntries > 0 {
		for len(s.entries) >= s.maxEntries {
			s.evictOldestLocked()
		}
	}
	s.entries[token] = &Upload{
		Token:    token,
		Name:     name,
		Data:     append([]byte(nil), data...),
		StoredAt: s.now(),
	}
	s.log.Debug("stored upload %s (%s, %d bytes)", token, name, len(data))
	return token, nil
}

// Get returns the upload for token. Unknown, malformed and expired tokens
// are NOT_FOUND.
func (s *UploadStore) Get(ctx context.Context, token string) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(token); err != nil {
		return nil, errors.NotFound("upload " + token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok || s.expired(entry) {
		delete(s.entries, token)
		return nil, errors.NotFound("upload " + token)
	}
	return entry, nil
}

// Len reports the number of live entries
func (s *UploadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return len(s.entries)
}

// CleanupExpired drops expired entries and returns how many were removed
func (s *UploadStore) CleanupExpired(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.expireLocked()
	if removed > 0 {
		s.log.Debug("expired %d uploads", removed)
	}
	return removed
}

// Run cleans up expired entries every interval until ctx is done
func (s *UploadStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CleanupExpired(ctx)
		}
	}
}

func (s *UploadStore) expired(entry *Upload) bool {
	return s.ttl > 0 && s.now().Sub(entry.StoredAt) > s.ttl
}

func (s *UploadStore) expireLocked() int {
	removed := 0
	for token, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed
}

func (s *UploadStore) evictOldestLocked() {
	var oldest *Upload
	for _, entry := range s.entries {
		if oldest == nil || entry.StoredAt.Before(oldest.StoredAt) {
			oldest = entry
		}
	}
	if oldest != nil {
		delete(s.entries, oldest.Token)
	}
}
