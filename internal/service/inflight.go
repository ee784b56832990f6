package service

import (
	"sync"

	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

// inFlight refuses a second mutation on the same row while the first is still
// running. Unrelated keys never block each other.
type inFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInFlight() *inFlight {
	return &inFlight{keys: make(map[string]struct{})}
}

// acquire marks key busy. The returned release must be called exactly once.
func (f *inFlight) acquire(key string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return nil, appErrors.ErrBusy
	}
	f.keys[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, nil
}

// busy reports whether key is marked.
func (f *inFlight) busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.keys[key]
	return ok
}
