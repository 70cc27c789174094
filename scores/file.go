/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scores

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// FileStore keeps every record in one pretty-printed JSON array, sorted
// by points.
type FileStore struct {
	mu   sync.RWMutex
	path string
	recs []Record
	now  func() time.Time
}

func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &FileStore{path: path, now: time.Now}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.recs = nil
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, &s.recs)
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.recs, "", "    ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Submit(_ context.Context, r Record) (Record, error) {
	rec, err := Normalize(r, s.now())
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, prev := range s.recs {
		if prev.ID == rec.ID {
			return prev, nil
		}
	}

	saved := s.recs
	s.recs = append(slices.Clone(saved), rec)
	Sort(s.recs, All)
	if err := s.saveLocked(); err != nil {
		s.recs = saved
		return Record{}, err
	}
	return rec, nil
}

func (s *FileStore) List(_ context.Context, f Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Apply(s.recs, f), nil
}

func (s *FileStore) Close() error {
	return nil
}
