package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHECKLIST COMMANDS
// Managers move checklist areas between configured statuses. The prior
// curriculum area is special: its children follow the candidate's
// experiences and reaching success is guarded by business rules.
// ══════════════════════════════════════════════════════════════════════════════

// ModifierStatutChecklistCommand moves any area but parcours_anterieur.
type ModifierStatutChecklistCommand struct {
	UUIDProposition string
	Onglet          checklist.Onglet
	Identifiant     string
	Auteur          string
}

// ModifierStatutParcoursAnterieurCommand moves the prior curriculum area.
type ModifierStatutParcoursAnterieurCommand struct {
	UUIDProposition string
	Identifiant     string
	Auteur          string
}

// ModifierStatutExperienceCommand changes the validation status of one
// experience of the prior curriculum.
type ModifierStatutExperienceCommand struct {
	UUIDProposition string
	UUIDExperience  string
	Statut          checklist.StatutValidationExperience
	Auteur          string
}

// ModifierAuthentificationExperienceCommand records the authentication
// progress of one experience.
type ModifierAuthentificationExperienceCommand struct {
	UUIDProposition string
	UUIDExperience  string
	Etat            checklist.EtatAuthentificationParcours
	Commentaire     string
	Auteur          string
}

// ChecklistResult contains the area state after the change.
type ChecklistResult struct {
	UUIDProposition string
	Onglet          checklist.Onglet
	Statut          checklist.ConfigurationStatut
	Checklist       *checklist.StatutsChecklist
}

// ChecklistHandler handles the checklist commands.
type ChecklistHandler struct {
	base
}

// NewChecklistHandler creates a new ChecklistHandler.
func NewChecklistHandler(deps Dependencies) *ChecklistHandler {
	return &ChecklistHandler{base: newBase(deps, "checklist")}
}

func (h *ChecklistHandler) terminer(ctx context.Context, op string, p *proposition.Proposition, onglet checklist.Onglet, identifiant, auteur string, cfg checklist.ConfigurationStatut) (*ChecklistResult, error) {
	event := shared.NewChecklistModifieeEvent(p.UUID, p.MatriculeCandidat, auteur, string(p.Statut),
		string(onglet), identifiant, string(cfg.Statut))
	if err := h.sauvegarder(ctx, op, p, nil, event); err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "checklist changed",
		logger.PropositionUUID(p.UUID),
		logger.Operation(op),
		"onglet", onglet,
		"statut", cfg.Statut,
	)
	return &ChecklistResult{UUIDProposition: p.UUID, Onglet: onglet, Statut: cfg, Checklist: p.ChecklistActuelle}, nil
}

// ModifierStatut moves an area to a configured status.
func (h *ChecklistHandler) ModifierStatut(ctx context.Context, cmd ModifierStatutChecklistCommand) (_ *ChecklistResult, err error) {
	const op = "modifier_statut_checklist"
	defer h.observe(op, time.Now(), &err)

	if cmd.Auteur == "" {
		return nil, errors.New(op + ": auteur is required")
	}
	p, err := h.charger(ctx, op, cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	cfg, err := p.ModifierStatutChecklist(cmd.Onglet, cmd.Identifiant, cmd.Auteur, h.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return h.terminer(ctx, op, p, cmd.Onglet, "", cmd.Auteur, cfg)
}

// ModifierStatutParcoursAnterieur moves the prior curriculum area. The
// experiences valued by the proposition and the secondary studies come
// from the current profile.
func (h *ChecklistHandler) ModifierStatutParcoursAnterieur(ctx context.Context, cmd ModifierStatutParcoursAnterieurCommand) (_ *ChecklistResult, err error) {
	const op = "modifier_statut_parcours_anterieur"
	defer h.observe(op, time.Now(), &err)

	if cmd.Auteur == "" {
		return nil, errors.New(op + ": auteur is required")
	}
	p, err := h.charger(ctx, op, cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	now := h.now()
	pr, err := h.chargerProfil(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pa := proposition.ParcoursAnterieur{
		Statut:            cmd.Identifiant,
		EtudesSecondaires: pr.EtudesSecondaires,
	}
	if pr.Curriculum != nil {
		if err := p.SynchroniserParcours(pr.Curriculum.Identifiants()); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		pa.ExperiencesValorisees = pr.Curriculum.ExperiencesValorisees(p.UUID)
	}

	cfg, err := p.ModifierStatutChecklistParcoursAnterieur(pa, cmd.Auteur, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return h.terminer(ctx, op, p, checklist.OngletParcoursAnterieur, "", cmd.Auteur, cfg)
}

// ModifierStatutExperience changes the validation status of one experience.
func (h *ChecklistHandler) ModifierStatutExperience(ctx context.Context, cmd ModifierStatutExperienceCommand) (_ *ChecklistResult, err error) {
	const op = "modifier_statut_experience"
	defer h.observe(op, time.Now(), &err)

	if !cmd.Statut.IsValid() {
		return nil, fmt.Errorf("%s: %w", op, shared.ErrStatutChecklistInvalide)
	}
	p, err := h.charger(ctx, op, cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	if err := p.ModifierStatutChecklistExperience(cmd.UUIDExperience, cmd.Statut, cmd.Auteur, h.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg := checklist.ConfigurationStatut{Identifiant: string(cmd.Statut)}
	if enfant := p.ChecklistActuelle.ParcoursAnterieur.Enfant(cmd.UUIDExperience); enfant != nil {
		cfg.Statut = enfant.Statut
		cfg.Libelle = enfant.Libelle
	}
	return h.terminer(ctx, op, p, checklist.OngletParcoursAnterieur, cmd.UUIDExperience, cmd.Auteur, cfg)
}

// ModifierAuthentificationExperience records the authentication progress.
func (h *ChecklistHandler) ModifierAuthentificationExperience(ctx context.Context, cmd ModifierAuthentificationExperienceCommand) (_ *ChecklistResult, err error) {
	const op = "modifier_authentification_experience"
	defer h.observe(op, time.Now(), &err)

	if !cmd.Etat.IsValid() {
		return nil, fmt.Errorf("%s: %w", op, shared.ErrStatutChecklistInvalide)
	}
	p, err := h.charger(ctx, op, cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	if err := p.ModifierAuthentificationExperience(cmd.UUIDExperience, cmd.Etat, cmd.Commentaire, cmd.Auteur, h.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg := checklist.ConfigurationStatut{Identifiant: string(cmd.Etat)}
	if enfant := p.ChecklistActuelle.ParcoursAnterieur.Enfant(cmd.UUIDExperience); enfant != nil {
		cfg.Statut = enfant.Statut
		cfg.Extra = enfant.Extra
	}
	return h.terminer(ctx, op, p, checklist.OngletParcoursAnterieur, cmd.UUIDExperience, cmd.Auteur, cfg)
}
