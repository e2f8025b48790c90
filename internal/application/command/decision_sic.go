package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CENTRAL ADMINISTRATION DECISION COMMANDS
// Approval authorises the registration and asks the candidate for the
// signed authorisation (and the study visa when needed). Refusal is final.
// ══════════════════════════════════════════════════════════════════════════════

// ApprouverParSicCommand contains the data to authorise a registration.
type ApprouverParSicCommand struct {
	UUIDProposition string
	Auteur          string
}

// ApprouverParSicHandler handles the ApprouverParSicCommand.
type ApprouverParSicHandler struct {
	base
}

// NewApprouverParSicHandler creates a new ApprouverParSicHandler.
func NewApprouverParSicHandler(deps Dependencies) *ApprouverParSicHandler {
	return &ApprouverParSicHandler{base: newBase(deps, "approuver_par_sic")}
}

// Handle executes the approval. The document list is recomputed so that
// the post-authorisation slots appear right away.
func (h *ApprouverParSicHandler) Handle(ctx context.Context, cmd ApprouverParSicCommand) (_ *DecisionResult, err error) {
	defer h.observe(string(proposition.OpApprouverParSic), time.Now(), &err)

	if cmd.Auteur == "" {
		return nil, errors.New("approuver_par_sic: auteur is required")
	}
	p, err := h.charger(ctx, "approuver_par_sic", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	now := h.now()
	if err := p.ApprouverParSic(cmd.Auteur, now); err != nil {
		return nil, fmt.Errorf("approuver_par_sic: %w", err)
	}

	h.genererPdf(ctx, p, proposition.PdfAttestationAccordSic)
	emplacements, err := h.recalculer(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("approuver_par_sic: %w", err)
	}

	event := evenement(shared.EventPropositionApprouveeSic, p, cmd.Auteur)
	if err := h.sauvegarder(ctx, "approuver_par_sic", p, emplacements, event); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "registration authorised",
		logger.PropositionUUID(p.UUID),
		logger.Matricule(p.MatriculeCandidat),
	)
	return resultatDecision(p, emplacements), nil
}

// RefuserParSicCommand contains the data to refuse a registration.
type RefuserParSicCommand struct {
	UUIDProposition string
	Motifs          []string
	Auteur          string
}

// RefuserParSicHandler handles the RefuserParSicCommand.
type RefuserParSicHandler struct {
	base
}

// NewRefuserParSicHandler creates a new RefuserParSicHandler.
func NewRefuserParSicHandler(deps Dependencies) *RefuserParSicHandler {
	return &RefuserParSicHandler{base: newBase(deps, "refuser_par_sic")}
}

// Handle executes the refusal and renders the refusal certificate.
func (h *RefuserParSicHandler) Handle(ctx context.Context, cmd RefuserParSicCommand) (_ *DecisionResult, err error) {
	defer h.observe(string(proposition.OpRefuserParSic), time.Now(), &err)

	if cmd.Auteur == "" {
		return nil, errors.New("refuser_par_sic: auteur is required")
	}
	p, err := h.charger(ctx, "refuser_par_sic", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	if err := p.RefuserParSic(cmd.Motifs, cmd.Auteur, h.now()); err != nil {
		return nil, fmt.Errorf("refuser_par_sic: %w", err)
	}

	h.genererPdf(ctx, p, proposition.PdfAttestationRefusSic)

	event := shared.NewPropositionRefuseeSicEvent(p.UUID, p.MatriculeCandidat, cmd.Auteur, string(p.Statut), p.MotifsRefus)
	if err := h.sauvegarder(ctx, "refuser_par_sic", p, nil, event); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "registration refused",
		logger.PropositionUUID(p.UUID),
		logger.Matricule(p.MatriculeCandidat),
	)
	return resultatDecision(p, nil), nil
}
