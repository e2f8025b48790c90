package profil

import (
	"context"

	"github.com/alem-hub/admission-workflow/internal/domain/formation"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSLATOR INTERFACE
// Implementations live in infrastructure (reference system client, in-memory).
// ══════════════════════════════════════════════════════════════════════════════

// Translator gives read access to the candidate profile.
// Every method returns shared.ErrCandidatNonTrouve when the matricule is unknown.
type Translator interface {
	GetIdentification(ctx context.Context, matricule string) (*Identification, error)
	GetCoordonnees(ctx context.Context, matricule string) (*Coordonnees, error)
	GetLanguesConnues(ctx context.Context, matricule string) ([]ConnaissanceLangue, error)
	GetEtudesSecondaires(ctx context.Context, matricule string) (*EtudesSecondaires, error)
	GetExamen(ctx context.Context, matricule string, f formation.Formation) (*Examen, error)
	GetCurriculum(ctx context.Context, matricule string, anneeCourante int, uuidProposition string) (*Curriculum, error)
}
