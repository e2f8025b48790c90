// Package memory provides in-memory implementations of the domain ports.
// They back the unit tests and local runs without Postgres.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// PropositionRepository stores propositions as deep copies.
type PropositionRepository struct {
	mu           sync.RWMutex
	propositions map[string]*proposition.Proposition
}

// NewPropositionRepository creates an empty repository.
func NewPropositionRepository() *PropositionRepository {
	return &PropositionRepository{
		propositions: make(map[string]*proposition.Proposition),
	}
}

// Get implements proposition.Repository.
func (r *PropositionRepository) Get(_ context.Context, uuid string) (*proposition.Proposition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.propositions[uuid]
	if !ok {
		return nil, shared.ErrPropositionNonTrouvee
	}
	return p.Clone(), nil
}

// Save implements proposition.Repository. The stored version must match the
// caller's; on success both are incremented.
func (r *PropositionRepository) Save(_ context.Context, p *proposition.Proposition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.propositions[p.UUID]; ok && existing.Version != p.Version {
		return shared.WrapError("proposition", "Save", shared.ErrConcurrentModification,
			"proposition was modified concurrently", nil)
	}
	p.Version++
	r.propositions[p.UUID] = p.Clone()
	return nil
}

// Search implements proposition.Repository.
func (r *PropositionRepository) Search(_ context.Context, filtre proposition.Filtre) ([]*proposition.Proposition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*proposition.Proposition
	for _, p := range r.propositions {
		if filtre.Correspond(p) {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreeLe.Equal(result[j].CreeLe) {
			return result[i].UUID < result[j].UUID
		}
		return result[i].CreeLe.After(result[j].CreeLe)
	})

	if filtre.Pagination.PageSize == 0 && filtre.Pagination.Page == 0 {
		return result, nil
	}
	offset := filtre.Pagination.Offset()
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + filtre.Pagination.Limit()
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

// CountSoumises implements proposition.Repository.
func (r *PropositionRepository) CountSoumises(_ context.Context, matricule string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.propositions {
		if p.MatriculeCandidat == matricule && p.Statut.EstSoumise() && !p.Statut.EstTerminal() {
			n++
		}
	}
	return n, nil
}
