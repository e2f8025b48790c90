package command

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHANGE STATUS COMMAND
// Operations that only move the proposition along its status graph and
// take no input besides the acting user.
// ══════════════════════════════════════════════════════════════════════════════

// ChangerStatutCommand contains the data to run a parameterless operation.
type ChangerStatutCommand struct {
	UUIDProposition string
	Operation       proposition.Operation
	Auteur          string
}

// operationsSimples maps each supported operation to its aggregate method.
var operationsSimples = map[proposition.Operation]func(p *proposition.Proposition, auteur string, now time.Time) error{
	proposition.OpVerrouillerPourSignature:    (*proposition.Proposition).VerrouillerPourSignature,
	proposition.OpDeverrouillerSignature:      (*proposition.Proposition).DeverrouillerSignature,
	proposition.OpSpecifierPaiementNecessaire: (*proposition.Proposition).SpecifierPaiementNecessaire,
	proposition.OpEnvoyerALaFac:               (*proposition.Proposition).EnvoyerALaFac,
	proposition.OpAnnulerReclamation:          (*proposition.Proposition).AnnulerReclamation,
	proposition.OpEnvoyerAValidationDirection: (*proposition.Proposition).EnvoyerAValidationDirection,
	proposition.OpAnnuler:                     (*proposition.Proposition).Annuler,
}

// Validate validates the command.
func (c ChangerStatutCommand) Validate() error {
	if c.UUIDProposition == "" {
		return shared.NewDomainError("proposition", "ChangerStatut", shared.ErrEmptyValue, "proposition uuid is required")
	}
	if _, ok := operationsSimples[c.Operation]; !ok {
		return shared.NewDomainError("proposition", "ChangerStatut", shared.ErrInvalidInput,
			fmt.Sprintf("operation %q takes parameters or does not exist", c.Operation))
	}
	if c.Auteur == "" {
		return shared.NewDomainError("proposition", "ChangerStatut", shared.ErrEmptyValue, "author is required")
	}
	return nil
}

// ChangerStatutResult contains the resulting status.
type ChangerStatutResult struct {
	UUIDProposition string
	Precedent       proposition.ChoixStatutProposition
	Statut          proposition.ChoixStatutProposition
}

// ChangerStatutHandler handles the ChangerStatutCommand.
type ChangerStatutHandler struct {
	base
}

// NewChangerStatutHandler creates a new ChangerStatutHandler.
func NewChangerStatutHandler(deps Dependencies) *ChangerStatutHandler {
	return &ChangerStatutHandler{base: newBase(deps, "changer_statut")}
}

// Handle executes the operation.
func (h *ChangerStatutHandler) Handle(ctx context.Context, cmd ChangerStatutCommand) (_ *ChangerStatutResult, err error) {
	defer h.observe(string(cmd.Operation), time.Now(), &err)

	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("changer_statut: validation failed: %w", err)
	}
	p, err := h.charger(ctx, "changer_statut", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}

	precedent := p.Statut
	if err := operationsSimples[cmd.Operation](p, cmd.Auteur, h.now()); err != nil {
		return nil, fmt.Errorf("changer_statut: %s: %w", cmd.Operation, err)
	}

	event := evenement(shared.EventStatutModifie, p, cmd.Auteur)
	if err := h.sauvegarder(ctx, "changer_statut", p, nil, event); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "proposition status changed",
		logger.PropositionUUID(p.UUID),
		logger.Operation(string(cmd.Operation)),
		logger.Statut(string(p.Statut)),
	)
	return &ChangerStatutResult{UUIDProposition: p.UUID, Precedent: precedent, Statut: p.Statut}, nil
}
