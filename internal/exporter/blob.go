package exporter

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// BlobStore holds ephemeral PNG blobs behind short-lived URLs, standing
// in for browser object URLs. Every Put must be balanced by a Revoke or
// a RevokeAfter so handles never leak.
type BlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewBlobStore returns an empty store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: map[string][]byte{}}
}

// Put stores data and returns its handle id and the URL path it is
// served under.
func (s *BlobStore) Put(data []byte) (id, url string) {
	raw := make([]byte, 8)
	rand.Read(raw)
	id = hex.EncodeToString(raw)

	s.mu.Lock()
	s.blobs[id] = data
	s.mu.Unlock()
	return id, "/blob/" + id
}

// Get returns the blob for id, if it has not been revoked.
func (s *BlobStore) Get(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[id]
	return data, ok
}

// Revoke releases the handle immediately.
func (s *BlobStore) Revoke(id string) {
	s.mu.Lock()
	delete(s.blobs, id)
	s.mu.Unlock()
}

// RevokeAfter releases the handle once d has elapsed, giving the opener
// a bounded window to fetch the blob.
func (s *BlobStore) RevokeAfter(id string, d time.Duration) {
	time.AfterFunc(d, func() { s.Revoke(id) })
}

// Len reports how many handles are live.
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
