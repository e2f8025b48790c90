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
// FACULTY DECISION COMMANDS
// The faculty (or the doctoral committee) approves or refuses; the final
// word stays with the central administration.
// ══════════════════════════════════════════════════════════════════════════════

// DecisionResult is returned by every decision command.
type DecisionResult struct {
	UUIDProposition string
	Statut          proposition.ChoixStatutProposition

	// DocumentsSysteme are the generated PDFs, by template.
	DocumentsSysteme map[string][]string

	// Emplacements is the recomputed document list.
	Emplacements []document.EmplacementDocument
}

func resultatDecision(p *proposition.Proposition, emplacements []document.EmplacementDocument) *DecisionResult {
	return &DecisionResult{
		UUIDProposition:  p.UUID,
		Statut:           p.Statut,
		DocumentsSysteme: p.DocumentsSysteme,
		Emplacements:     emplacements,
	}
}

// ApprouverParFacCommand contains the data to approve a proposition at
// faculty level.
type ApprouverParFacCommand struct {
	UUIDProposition string
	Auteur          string
}

// ApprouverParFacHandler handles the ApprouverParFacCommand.
type ApprouverParFacHandler struct {
	base
}

// NewApprouverParFacHandler creates a new ApprouverParFacHandler.
func NewApprouverParFacHandler(deps Dependencies) *ApprouverParFacHandler {
	return &ApprouverParFacHandler{base: newBase(deps, "approuver_par_fac")}
}

// Handle executes the approval, then renders the faculty approval
// certificate.
func (h *ApprouverParFacHandler) Handle(ctx context.Context, cmd ApprouverParFacCommand) (_ *DecisionResult, err error) {
	defer h.observe(string(proposition.OpApprouverParFac), time.Now(), &err)

	if cmd.Auteur == "" {
		return nil, errors.New("approuver_par_fac: auteur is required")
	}
	p, err := h.charger(ctx, "approuver_par_fac", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := p.ApprouverParFac(cmd.Auteur, now); err != nil {
		return nil, fmt.Errorf("approuver_par_fac: %w", err)
	}

	h.genererPdf(ctx, p, proposition.PdfAttestationAccordFacultaire)
	emplacements, err := h.recalculer(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("approuver_par_fac: %w", err)
	}

	event := evenement(shared.EventPropositionApprouveeFac, p, cmd.Auteur)
	if err := h.sauvegarder(ctx, "approuver_par_fac", p, emplacements, event); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "proposition approved by faculty",
		logger.PropositionUUID(p.UUID),
		logger.Statut(string(p.Statut)),
	)
	return resultatDecision(p, emplacements), nil
}

// RefuserParFacCommand contains the data to refuse a proposition at
// faculty level.
type RefuserParFacCommand struct {
	UUIDProposition string
	Motifs          []string
	Auteur          string
}

// RefuserParFacHandler handles the RefuserParFacCommand.
type RefuserParFacHandler struct {
	base
}

// NewRefuserParFacHandler creates a new RefuserParFacHandler.
func NewRefuserParFacHandler(deps Dependencies) *RefuserParFacHandler {
	return &RefuserParFacHandler{base: newBase(deps, "refuser_par_fac")}
}

// Handle executes the refusal.
func (h *RefuserParFacHandler) Handle(ctx context.Context, cmd RefuserParFacCommand) (_ *DecisionResult, err error) {
	defer h.observe(string(proposition.OpRefuserParFac), time.Now(), &err)

	if cmd.Auteur == "" {
		return nil, errors.New("refuser_par_fac: auteur is required")
	}
	p, err := h.charger(ctx, "refuser_par_fac", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	if err := p.RefuserParFac(cmd.Motifs, cmd.Auteur, h.now()); err != nil {
		return nil, fmt.Errorf("refuser_par_fac: %w", err)
	}

	event := evenement(shared.EventStatutModifie, p, cmd.Auteur)
	if err := h.sauvegarder(ctx, "refuser_par_fac", p, nil, event); err != nil {
		return nil, err
	}
	return resultatDecision(p, nil), nil
}
