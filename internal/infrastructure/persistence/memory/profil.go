package memory

import (
	"context"
	"sync"

	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ProfilTranslator serves candidate profiles registered with Enregistrer.
type ProfilTranslator struct {
	mu      sync.RWMutex
	profils map[string]proposition.Profil
}

// NewProfilTranslator creates an empty translator.
func NewProfilTranslator() *ProfilTranslator {
	return &ProfilTranslator{profils: make(map[string]proposition.Profil)}
}

// Enregistrer stores or replaces the profile of a candidate.
func (t *ProfilTranslator) Enregistrer(matricule string, p proposition.Profil) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.profils[matricule] = p
}

// Supprimer forgets a candidate.
func (t *ProfilTranslator) Supprimer(matricule string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.profils, matricule)
}

func (t *ProfilTranslator) get(matricule string) (proposition.Profil, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.profils[matricule]
	if !ok {
		return proposition.Profil{}, shared.ErrCandidatNonTrouve
	}
	return p, nil
}

// GetIdentification implements profil.Translator.
func (t *ProfilTranslator) GetIdentification(_ context.Context, matricule string) (*profil.Identification, error) {
	p, err := t.get(matricule)
	if err != nil {
		return nil, err
	}
	return p.Identification, nil
}

// GetCoordonnees implements profil.Translator.
func (t *ProfilTranslator) GetCoordonnees(_ context.Context, matricule string) (*profil.Coordonnees, error) {
	p, err := t.get(matricule)
	if err != nil {
		return nil, err
	}
	return p.Coordonnees, nil
}

// GetLanguesConnues implements profil.Translator.
func (t *ProfilTranslator) GetLanguesConnues(_ context.Context, matricule string) ([]profil.ConnaissanceLangue, error) {
	p, err := t.get(matricule)
	if err != nil {
		return nil, err
	}
	return p.Langues, nil
}

// GetEtudesSecondaires implements profil.Translator.
func (t *ProfilTranslator) GetEtudesSecondaires(_ context.Context, matricule string) (*profil.EtudesSecondaires, error) {
	p, err := t.get(matricule)
	if err != nil {
		return nil, err
	}
	return p.EtudesSecondaires, nil
}

// GetExamen implements profil.Translator.
func (t *ProfilTranslator) GetExamen(_ context.Context, matricule string, _ formation.Formation) (*profil.Examen, error) {
	p, err := t.get(matricule)
	if err != nil {
		return nil, err
	}
	return p.Examen, nil
}

// GetCurriculum implements profil.Translator.
func (t *ProfilTranslator) GetCurriculum(_ context.Context, matricule string, _ int, _ string) (*profil.Curriculum, error) {
	p, err := t.get(matricule)
	if err != nil {
		return nil, err
	}
	return p.Curriculum, nil
}
