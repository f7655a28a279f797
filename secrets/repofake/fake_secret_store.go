package secretrepofake

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/go-club-sync/internal/errors"
	"github.com/jrsteele09/go-club-sync/secrets"
	"github.com/pkg/errors"
)

var _ secrets.Store = (*FakeSecretStore)(nil)

type FakeSecretStore struct {
	values  map[string]string
	lookups int
	lock    sync.RWMutex
}

func NewFakeSecretStore(values map[string]string) *FakeSecretStore {
	v := make(map[string]string, len(values))
	for k, val := range values {
		v[k] = val
	}
	return &FakeSecretStore{values: v}
}

func (s *FakeSecretStore) GetParameter(_ context.Context, name string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.lookups++
	v, ok := s.values[name]
	if !ok {
		return "", errors.Wrap(apperrors.ErrSecretNotFound, name)
	}
	return v, nil
}

// Lookups returns how many times GetParameter was called.
func (s *FakeSecretStore) Lookups() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.lookups
}
