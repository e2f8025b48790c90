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
// DOCUMENT REQUEST COMMANDS
// Requests go out for every slot waiting to be requested; the candidate
// answers with uploaded files for requested slots only.
// ══════════════════════════════════════════════════════════════════════════════

// DocumentsResult is returned by the document commands.
type DocumentsResult struct {
	UUIDProposition string
	Statut          proposition.ChoixStatutProposition

	// Identifiants are the slots requested or completed by the command.
	Identifiants []string

	// Emplacements is the recomputed document list.
	Emplacements []document.EmplacementDocument
}

// ReclamerDocumentsCommand contains the data to request documents.
type ReclamerDocumentsCommand struct {
	UUIDProposition string
	Par             proposition.Demandeur
	DateLimite      time.Time
	Auteur          string
}

// Validate validates the command.
func (c ReclamerDocumentsCommand) Validate() error {
	if c.Par != proposition.DemandeurFac && c.Par != proposition.DemandeurSic {
		return fmt.Errorf("reclamer_documents: unknown requester %q", c.Par)
	}
	if c.DateLimite.IsZero() {
		return errors.New("reclamer_documents: date_limite is required")
	}
	if c.Auteur == "" {
		return errors.New("reclamer_documents: auteur is required")
	}
	return nil
}

// ReclamerDocumentsHandler handles the ReclamerDocumentsCommand.
type ReclamerDocumentsHandler struct {
	base
}

// NewReclamerDocumentsHandler creates a new ReclamerDocumentsHandler.
func NewReclamerDocumentsHandler(deps Dependencies) *ReclamerDocumentsHandler {
	return &ReclamerDocumentsHandler{base: newBase(deps, "reclamer_documents")}
}

// Handle executes the request. The document list is recomputed first so
// that the request covers the current situation of the candidate.
func (h *ReclamerDocumentsHandler) Handle(ctx context.Context, cmd ReclamerDocumentsCommand) (_ *DocumentsResult, err error) {
	defer h.observe("reclamer_documents", time.Now(), &err)

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	p, err := h.charger(ctx, "reclamer_documents", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	now := h.now()
	resume, err := h.resume(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("reclamer_documents: %w", err)
	}
	p.RecalculerDocuments(resume)

	ids, err := p.ReclamerDocuments(cmd.Par, cmd.DateLimite, cmd.Auteur, now)
	if err != nil {
		return nil, fmt.Errorf("reclamer_documents: %w", err)
	}
	emplacements := p.RecalculerDocuments(resume)

	event := shared.NewDocumentsEvent(shared.EventDocumentsReclames, p.UUID, p.MatriculeCandidat, cmd.Auteur, string(p.Statut), ids)
	if err := h.sauvegarder(ctx, "reclamer_documents", p, emplacements, event); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "documents requested",
		logger.PropositionUUID(p.UUID),
		logger.Identifiants(ids),
	)
	return &DocumentsResult{UUIDProposition: p.UUID, Statut: p.Statut, Identifiants: ids, Emplacements: emplacements}, nil
}

// CompleterDocumentsCommand contains the candidate's answers: uploaded
// file identifiers per requested slot.
type CompleterDocumentsCommand struct {
	UUIDProposition string
	Reponses        map[string][]string
	Auteur          string
}

// CompleterDocumentsHandler handles the CompleterDocumentsCommand.
type CompleterDocumentsHandler struct {
	base
}

// NewCompleterDocumentsHandler creates a new CompleterDocumentsHandler.
func NewCompleterDocumentsHandler(deps Dependencies) *CompleterDocumentsHandler {
	return &CompleterDocumentsHandler{base: newBase(deps, "completer_documents")}
}

// Handle executes the command.
func (h *CompleterDocumentsHandler) Handle(ctx context.Context, cmd CompleterDocumentsCommand) (_ *DocumentsResult, err error) {
	defer h.observe(string(proposition.OpCompleterDocuments), time.Now(), &err)

	p, err := h.charger(ctx, "completer_documents", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	now := h.now()
	auteur := auteurOu(cmd.Auteur, p.MatriculeCandidat)

	ids, err := p.CompleterDocuments(cmd.Reponses, auteur, now)
	if err != nil {
		return nil, fmt.Errorf("completer_documents: %w", err)
	}
	if err := h.deps.Documents.CompleterDocumentsParCandidat(ctx, p.UUID, cmd.Reponses); err != nil {
		return nil, fmt.Errorf("completer_documents: failed to attach files: %w", err)
	}
	emplacements, err := h.recalculer(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("completer_documents: %w", err)
	}

	event := shared.NewDocumentsEvent(shared.EventDocumentsCompletes, p.UUID, p.MatriculeCandidat, auteur, string(p.Statut), ids)
	if err := h.sauvegarder(ctx, "completer_documents", p, emplacements, event); err != nil {
		return nil, err
	}
	return &DocumentsResult{UUIDProposition: p.UUID, Statut: p.Statut, Identifiants: ids, Emplacements: emplacements}, nil
}

// RecalculerDocumentsCommand refreshes the document requests of a
// proposition after its profile changed.
type RecalculerDocumentsCommand struct {
	UUIDProposition string
}

// RecalculerDocumentsHandler handles the RecalculerDocumentsCommand.
type RecalculerDocumentsHandler struct {
	base
}

// NewRecalculerDocumentsHandler creates a new RecalculerDocumentsHandler.
func NewRecalculerDocumentsHandler(deps Dependencies) *RecalculerDocumentsHandler {
	return &RecalculerDocumentsHandler{base: newBase(deps, "recalculer_documents")}
}

// Handle executes the command. Running it twice yields the same result.
func (h *RecalculerDocumentsHandler) Handle(ctx context.Context, cmd RecalculerDocumentsCommand) (_ []document.EmplacementDocument, err error) {
	defer h.observe("recalculer_documents", time.Now(), &err)

	p, err := h.charger(ctx, "recalculer_documents", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	emplacements, err := h.recalculer(ctx, p, h.now())
	if err != nil {
		return nil, fmt.Errorf("recalculer_documents: %w", err)
	}
	if err := h.sauvegarder(ctx, "recalculer_documents", p, emplacements); err != nil {
		return nil, err
	}
	return emplacements, nil
}
