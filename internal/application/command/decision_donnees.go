package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DECISION DATA COMMANDS
// Managers fill in the access condition and the acceptance information
// before they approve.
// ══════════════════════════════════════════════════════════════════════════════

// SpecifierConditionAccesCommand records the access condition and titles.
type SpecifierConditionAccesCommand struct {
	UUIDProposition string
	ConditionAcces  string
	TitresAcces     []proposition.TitreAcces
	TypeEquivalence string
	Auteur          string
}

// SpecifierInformationsAcceptationCommand records the acceptance conditions.
type SpecifierInformationsAcceptationCommand struct {
	UUIDProposition string
	Informations    proposition.InformationsAcceptation
	Auteur          string
}

// DecisionDonneesHandler handles the decision data commands.
type DecisionDonneesHandler struct {
	base
}

// NewDecisionDonneesHandler creates a new DecisionDonneesHandler.
func NewDecisionDonneesHandler(deps Dependencies) *DecisionDonneesHandler {
	return &DecisionDonneesHandler{base: newBase(deps, "decision_donnees")}
}

func (h *DecisionDonneesHandler) modifier(ctx context.Context, op, uuid, auteur string, fn func(p *proposition.Proposition, now time.Time) error) (*proposition.Proposition, error) {
	if auteur == "" {
		return nil, errors.New(op + ": auteur is required")
	}
	p, err := h.charger(ctx, op, uuid)
	if err != nil {
		return nil, err
	}
	if err := fn(p, h.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := h.sauvegarder(ctx, op, p, nil, evenement(shared.EventStatutModifie, p, auteur)); err != nil {
		return nil, err
	}
	return p, nil
}

// SpecifierConditionAcces records the access condition.
func (h *DecisionDonneesHandler) SpecifierConditionAcces(ctx context.Context, cmd SpecifierConditionAccesCommand) (_ *proposition.Proposition, err error) {
	const op = "specifier_condition_acces"
	defer h.observe(op, time.Now(), &err)

	return h.modifier(ctx, op, cmd.UUIDProposition, cmd.Auteur, func(p *proposition.Proposition, now time.Time) error {
		return p.SpecifierConditionAcces(cmd.ConditionAcces, cmd.TitresAcces, cmd.TypeEquivalence, cmd.Auteur, now)
	})
}

// SpecifierInformationsAcceptation records the acceptance conditions.
func (h *DecisionDonneesHandler) SpecifierInformationsAcceptation(ctx context.Context, cmd SpecifierInformationsAcceptationCommand) (_ *proposition.Proposition, err error) {
	const op = "specifier_informations_acceptation"
	defer h.observe(op, time.Now(), &err)

	return h.modifier(ctx, op, cmd.UUIDProposition, cmd.Auteur, func(p *proposition.Proposition, now time.Time) error {
		return p.SpecifierInformationsAcceptation(cmd.Informations, cmd.Auteur, now)
	})
}
