package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT SLOT COMMANDS
// Managers add free slots and tune how urgently a slot is requested.
// ══════════════════════════════════════════════════════════════════════════════

// CreerEmplacementLibreCommand contains the data to add a free slot.
type CreerEmplacementLibreCommand struct {
	UUIDProposition string
	Emplacement     document.EmplacementLibre
	Auteur          string
}

// CreerEmplacementLibreResult contains the new slot identifier.
type CreerEmplacementLibreResult struct {
	Identifiant  string
	Emplacements []document.EmplacementDocument
}

// ModifierReclamationEmplacementCommand changes the urgency of a slot
// waiting to be requested.
type ModifierReclamationEmplacementCommand struct {
	UUIDProposition string
	Identifiant     string
	Urgence         document.StatutReclamationEmplacementDocument
	Raison          string
	Auteur          string
}

// AnnulerReclamationEmplacementCommand withdraws a pending slot request.
type AnnulerReclamationEmplacementCommand struct {
	UUIDProposition string
	Identifiant     string
	Auteur          string
}

// EmplacementsHandler handles the slot commands.
type EmplacementsHandler struct {
	base
}

// NewEmplacementsHandler creates a new EmplacementsHandler.
func NewEmplacementsHandler(deps Dependencies) *EmplacementsHandler {
	return &EmplacementsHandler{base: newBase(deps, "emplacements")}
}

// modifier loads p, applies fn against the current resume, recomputes the
// documents and saves.
func (h *EmplacementsHandler) modifier(ctx context.Context, op, uuid, auteur string, fn func(p *proposition.Proposition, r *document.Resume, now time.Time) error) ([]document.EmplacementDocument, error) {
	if auteur == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("auteur is required"))
	}
	p, err := h.charger(ctx, op, uuid)
	if err != nil {
		return nil, err
	}
	now := h.now()
	r, err := h.resume(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(p, r, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	emplacements := p.RecalculerDocuments(r)
	if err := h.sauvegarder(ctx, op, p, emplacements); err != nil {
		return nil, err
	}
	return emplacements, nil
}

// Creer adds a free slot.
func (h *EmplacementsHandler) Creer(ctx context.Context, cmd CreerEmplacementLibreCommand) (_ *CreerEmplacementLibreResult, err error) {
	defer h.observe("creer_emplacement_libre", time.Now(), &err)

	var id string
	emplacements, err := h.modifier(ctx, "creer_emplacement_libre", cmd.UUIDProposition, cmd.Auteur,
		func(p *proposition.Proposition, _ *document.Resume, now time.Time) error {
			var err error
			id, err = p.CreerEmplacementLibre(cmd.Emplacement, cmd.Auteur, now)
			return err
		})
	if err != nil {
		return nil, err
	}
	return &CreerEmplacementLibreResult{Identifiant: id, Emplacements: emplacements}, nil
}

// ModifierReclamation changes the urgency of a slot.
func (h *EmplacementsHandler) ModifierReclamation(ctx context.Context, cmd ModifierReclamationEmplacementCommand) (_ []document.EmplacementDocument, err error) {
	defer h.observe("modifier_reclamation_emplacement", time.Now(), &err)

	return h.modifier(ctx, "modifier_reclamation_emplacement", cmd.UUIDProposition, cmd.Auteur,
		func(p *proposition.Proposition, r *document.Resume, now time.Time) error {
			return p.ModifierReclamationEmplacement(r, cmd.Identifiant, cmd.Urgence, cmd.Raison, cmd.Auteur, now)
		})
}

// AnnulerReclamation withdraws a slot request.
func (h *EmplacementsHandler) AnnulerReclamation(ctx context.Context, cmd AnnulerReclamationEmplacementCommand) (_ []document.EmplacementDocument, err error) {
	defer h.observe("annuler_reclamation_emplacement", time.Now(), &err)

	return h.modifier(ctx, "annuler_reclamation_emplacement", cmd.UUIDProposition, cmd.Auteur,
		func(p *proposition.Proposition, _ *document.Resume, now time.Time) error {
			return p.AnnulerReclamationEmplacement(cmd.Identifiant, cmd.Auteur, now)
		})
}
