package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT PROPOSITION COMMAND
// Runs every submission rule against the current profile in one pass. On
// success the checklists are initialised and the document requests are
// computed for the first time.
// ══════════════════════════════════════════════════════════════════════════════

// SoumettrePropositionCommand contains the data to submit a proposition.
type SoumettrePropositionCommand struct {
	// UUIDProposition identifies the proposition.
	UUIDProposition string

	// Auteur is the candidate's matricule (or the acting manager).
	Auteur string
}

// Validate validates the command.
func (c SoumettrePropositionCommand) Validate() error {
	if c.UUIDProposition == "" {
		return errors.New("soumettre_proposition: uuid_proposition is required")
	}
	return nil
}

// SoumettrePropositionResult contains the result of the submission.
type SoumettrePropositionResult struct {
	// UUIDProposition is the submitted proposition.
	UUIDProposition string

	// Statut is CONFIRMEE, or FRAIS_DOSSIER_EN_ATTENTE when fees are due.
	Statut proposition.ChoixStatutProposition

	// Emplacements are the document slots computed at submission.
	Emplacements []document.EmplacementDocument

	// SoumiseLe is the submission date.
	SoumiseLe time.Time
}

// SoumettrePropositionConfig contains configuration for the handler.
type SoumettrePropositionConfig struct {
	// MaximumPropositions is the number of submitted propositions a
	// candidate may hold at once (0 disables the limit).
	MaximumPropositions int
}

// DefaultSoumettrePropositionConfig returns default configuration.
func DefaultSoumettrePropositionConfig() SoumettrePropositionConfig {
	return SoumettrePropositionConfig{MaximumPropositions: 5}
}

// SoumettrePropositionHandler handles the SoumettrePropositionCommand.
type SoumettrePropositionHandler struct {
	base
	config SoumettrePropositionConfig
}

// NewSoumettrePropositionHandler creates a new SoumettrePropositionHandler.
func NewSoumettrePropositionHandler(deps Dependencies, config SoumettrePropositionConfig) *SoumettrePropositionHandler {
	return &SoumettrePropositionHandler{
		base:   newBase(deps, "soumettre_proposition"),
		config: config,
	}
}

// Handle executes the submission.
func (h *SoumettrePropositionHandler) Handle(ctx context.Context, cmd SoumettrePropositionCommand) (_ *SoumettrePropositionResult, err error) {
	defer h.observe(string(proposition.OpSoumettre), time.Now(), &err)

	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("soumettre_proposition: validation failed: %w", err)
	}

	p, err := h.charger(ctx, "soumettre_proposition", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	now := h.now()

	pr, err := h.chargerProfil(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("soumettre_proposition: %w", err)
	}
	questions, err := h.questions(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("soumettre_proposition: %w", err)
	}
	fichiers, err := h.deps.Documents.Fichiers(ctx, p.UUID)
	if err != nil {
		return nil, fmt.Errorf("soumettre_proposition: failed to load uploaded files: %w", err)
	}
	soumises, err := h.deps.Propositions.CountSoumises(ctx, p.MatriculeCandidat)
	if err != nil {
		return nil, fmt.Errorf("soumettre_proposition: failed to count submitted propositions: %w", err)
	}

	emplacements, err := p.Soumettre(proposition.Soumission{
		Profil:                     pr,
		Questions:                  questions,
		Fichiers:                   fichiers,
		NombrePropositionsSoumises: soumises,
		Maximum:                    h.config.MaximumPropositions,
		Auteur:                     auteurOu(cmd.Auteur, p.MatriculeCandidat),
		Maintenant:                 now,
	})
	if err != nil {
		return nil, fmt.Errorf("soumettre_proposition: %w", err)
	}

	event := evenement(shared.EventPropositionSoumise, p, p.AuteurDerniereModification)
	if err := h.sauvegarder(ctx, "soumettre_proposition", p, emplacements, event); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "proposition submitted",
		logger.PropositionUUID(p.UUID),
		logger.Matricule(p.MatriculeCandidat),
		logger.Statut(string(p.Statut)),
	)

	return &SoumettrePropositionResult{
		UUIDProposition: p.UUID,
		Statut:          p.Statut,
		Emplacements:    emplacements,
		SoumiseLe:       now,
	}, nil
}

func auteurOu(auteur, defaut string) string {
	if auteur != "" {
		return auteur
	}
	return defaut
}
