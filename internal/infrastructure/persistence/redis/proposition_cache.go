package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
)

// Store is the part of Cache the repository decorator needs.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedPropositionRepository serves Get from the cache and keeps it in step
// with every Save. Cache failures are logged and fall through to the store.
type CachedPropositionRepository struct {
	next   proposition.Repository
	cache  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedPropositionRepository wraps next.
func NewCachedPropositionRepository(next proposition.Repository, cache Store, ttl time.Duration, logger *slog.Logger) *CachedPropositionRepository {
	if ttl <= 0 {
		ttl = TTLProposition
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedPropositionRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "proposition_cache"),
	}
}

// Get implements proposition.Repository.
func (r *CachedPropositionRepository) Get(ctx context.Context, uuid string) (*proposition.Proposition, error) {
	var cached proposition.Proposition
	err := r.cache.Get(ctx, PropositionKey(uuid), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("cache read failed", "proposition_uuid", uuid, "error", err)
	}

	p, err := r.next.Get(ctx, uuid)
	if err != nil {
		return nil, err
	}
	r.store(ctx, p)
	return p, nil
}

// Save implements proposition.Repository. A failed save evicts the entry
// so the next read sees the stored version.
func (r *CachedPropositionRepository) Save(ctx context.Context, p *proposition.Proposition) error {
	if err := r.next.Save(ctx, p); err != nil {
		if delErr := r.cache.Delete(ctx, PropositionKey(p.UUID)); delErr != nil {
			r.logger.Warn("cache eviction failed", "proposition_uuid", p.UUID, "error", delErr)
		}
		return err
	}
	r.store(ctx, p)
	return nil
}

// Search implements proposition.Repository; searches are never cached.
func (r *CachedPropositionRepository) Search(ctx context.Context, filtre proposition.Filtre) ([]*proposition.Proposition, error) {
	return r.next.Search(ctx, filtre)
}

// CountSoumises implements proposition.Repository.
func (r *CachedPropositionRepository) CountSoumises(ctx context.Context, matricule string) (int, error) {
	return r.next.CountSoumises(ctx, matricule)
}

func (r *CachedPropositionRepository) store(ctx context.Context, p *proposition.Proposition) {
	if err := r.cache.Set(ctx, PropositionKey(p.UUID), p, r.ttl); err != nil {
		r.logger.Warn("cache write failed", "proposition_uuid", p.UUID, "error", err)
		// A stale entry would hide this save.
		_ = r.cache.Delete(ctx, PropositionKey(p.UUID))
	}
}
