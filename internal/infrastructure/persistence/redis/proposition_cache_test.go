package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// fakeStore keeps JSON values in a map, like Cache does in Redis.
type fakeStore struct {
	mu      sync.Mutex
	values  map[string][]byte
	reads   int
	failGet error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.failGet != nil {
		return s.failGet
	}
	data, ok := s.values[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (s *fakeStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = data
	return nil
}

func (s *fakeStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

func nouvelle(t *testing.T) *proposition.Proposition {
	t.Helper()
	p, err := proposition.Nouvelle("0123456",
		formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster},
		proposition.TypeAdmission,
		time.Date(2020, time.November, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestCachedPropositionRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	backing := memory.NewPropositionRepository()
	repo := NewCachedPropositionRepository(backing, store, time.Minute, logger.Discard())

	p := nouvelle(t)
	require.NoError(t, backing.Save(ctx, p))
	assert.False(t, store.has(PropositionKey(p.UUID)))

	got, err := repo.Get(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, p.UUID, got.UUID)
	assert.True(t, store.has(PropositionKey(p.UUID)))

	again, err := repo.Get(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, got.Version, again.Version)
	assert.Equal(t, proposition.StatutEnBrouillon, again.Statut)
}

func TestCachedPropositionRepository_SaveRefreshesEntry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewCachedPropositionRepository(memory.NewPropositionRepository(), store, time.Minute, logger.Discard())

	p := nouvelle(t)
	require.NoError(t, repo.Save(ctx, p))

	p.AuteurDerniereModification = "sic"
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Get(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, "sic", got.AuteurDerniereModification)
	assert.Equal(t, 2, got.Version)
}

func TestCachedPropositionRepository_ConflictEvicts(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewCachedPropositionRepository(memory.NewPropositionRepository(), store, time.Minute, logger.Discard())

	p := nouvelle(t)
	require.NoError(t, repo.Save(ctx, p))

	stale := p.Clone()
	stale.Version = 0
	err := repo.Save(ctx, stale)

	require.Error(t, err)
	assert.True(t, shared.IsRetryable(err))
	assert.False(t, store.has(PropositionKey(p.UUID)))
}

func TestCachedPropositionRepository_CacheDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.failGet = errors.New("connection refused")
	backing := memory.NewPropositionRepository()
	repo := NewCachedPropositionRepository(backing, store, time.Minute, logger.Discard())

	p := nouvelle(t)
	require.NoError(t, backing.Save(ctx, p))

	got, err := repo.Get(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, p.UUID, got.UUID)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrPropositionNonTrouvee)
}
