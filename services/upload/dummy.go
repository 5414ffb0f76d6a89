package uploadsvc

import (
	"context"
	"io"
	"sync"

	"github.com/opennotes/opennotes/core"
)

// DummyStore keeps uploaded bytes in memory; for dev and tests.
type DummyStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

var _ core.FileStore = (*DummyStore)(nil)

func NewDummyStore() *DummyStore {
	return &DummyStore{Objects: make(map[string][]byte)}
}

func (s *DummyStore) Upload(_ context.Context, key, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.Objects[key] = data
	s.mu.Unlock()
	return "https://files.local/" + key, nil
}
