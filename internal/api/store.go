package api

import (
	"bytes"
	"sync"
	"time"
)

type imageRecord struct {
	Data      []byte
	CreatedAt time.Time
}

// ImageStore keeps encoded tag images in memory, keyed by CID, so a client can
// fetch the exact bytes to write after an encode or sign call.
type ImageStore struct {
	mu     sync.Mutex
	images map[string]*imageRecord
	limit  int
	order  []string
}

// NewImageStore returns a store holding at most limit images. The oldest entry
// is evicted first. A limit of zero or less means unbounded.
func NewImageStore(limit int) *ImageStore {
	return &ImageStore{
		images: make(map[string]*imageRecord),
		limit:  limit,
	}
}

func (s *ImageStore) Save(id string, data []byte, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[id]; ok {
		return
	}
	s.images[id] = &imageRecord{Data: bytes.Clone(data), CreatedAt: now}
	s.order = append(s.order, id)
	for s.limit > 0 && len(s.order) > s.limit {
		delete(s.images, s.order[0])
		s.order = s.order[1:]
	}
}

// Get returns a copy of the stored image.
func (s *ImageStore) Get(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.images[id]
	if !ok {
		return nil, false
	}
	return bytes.Clone(rec.Data), true
}

func (s *ImageStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[id]; !ok {
		return false
	}
	delete(s.images, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *ImageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}
