package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// DocumentRepository keeps the slots of each proposition by identifier.
type DocumentRepository struct {
	mu    sync.RWMutex
	slots map[string]map[string]document.EmplacementDocument
}

// NewDocumentRepository creates an empty repository.
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		slots: make(map[string]map[string]document.EmplacementDocument),
	}
}

func (r *DocumentRepository) proposition(uuidProposition string) map[string]document.EmplacementDocument {
	slots, ok := r.slots[uuidProposition]
	if !ok {
		slots = make(map[string]document.EmplacementDocument)
		r.slots[uuidProposition] = slots
	}
	return slots
}

// Get implements document.Repository.
func (r *DocumentRepository) Get(_ context.Context, uuidProposition, identifiant string) (*document.EmplacementDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.slots[uuidProposition][identifiant]
	if !ok {
		return nil, shared.ErrEmplacementNonTrouve
	}
	return &e, nil
}

// Search implements document.Repository.
func (r *DocumentRepository) Search(_ context.Context, uuidProposition string, identifiants []string, statuts ...document.StatutEmplacementDocument) ([]document.EmplacementDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(identifiants))
	for _, id := range identifiants {
		wanted[id] = true
	}
	statutOK := make(map[document.StatutEmplacementDocument]bool, len(statuts))
	for _, s := range statuts {
		statutOK[s] = true
	}

	var result []document.EmplacementDocument
	for id, e := range r.slots[uuidProposition] {
		if len(wanted) > 0 && !wanted[id] {
			continue
		}
		if len(statutOK) > 0 && !statutOK[e.Statut] {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Identifiant < result[j].Identifiant })
	return result, nil
}

// SaveMultiple implements document.Repository. Uploaded files already
// attached to a slot are kept when the new view carries none.
func (r *DocumentRepository) SaveMultiple(_ context.Context, uuidProposition string, emplacements []document.EmplacementDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := r.proposition(uuidProposition)
	for _, e := range emplacements {
		if len(e.UUIDsDocuments) == 0 {
			e.UUIDsDocuments = slots[e.Identifiant].UUIDsDocuments
		}
		e.UUIDsDocuments = append([]string(nil), e.UUIDsDocuments...)
		slots[e.Identifiant] = e
	}
	return nil
}

// CompleterDocumentsParCandidat implements document.Repository.
func (r *DocumentRepository) CompleterDocumentsParCandidat(_ context.Context, uuidProposition string, reponses map[string][]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := r.proposition(uuidProposition)
	for id, fichiers := range reponses {
		e, ok := slots[id]
		if !ok {
			e = document.EmplacementDocument{Identifiant: id}
		}
		e.UUIDsDocuments = append([]string(nil), fichiers...)
		slots[id] = e
	}
	return nil
}

// Fichiers implements document.Repository.
func (r *DocumentRepository) Fichiers(_ context.Context, uuidProposition string) (map[string][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]string)
	for id, e := range r.slots[uuidProposition] {
		if len(e.UUIDsDocuments) > 0 {
			out[id] = append([]string(nil), e.UUIDsDocuments...)
		}
	}
	return out, nil
}
