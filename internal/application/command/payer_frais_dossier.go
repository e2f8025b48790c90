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
// DOSSIER FEE COMMANDS
// The payment provider is asked whether the fee is paid; the aggregate
// decides what the answer means for the proposition.
// ══════════════════════════════════════════════════════════════════════════════

// PayerFraisDossierCommand contains the data to record a dossier fee payment.
type PayerFraisDossierCommand struct {
	UUIDProposition string
	Auteur          string
}

// PayerFraisDossierResult contains the resulting status.
type PayerFraisDossierResult struct {
	UUIDProposition string
	Statut          proposition.ChoixStatutProposition
}

// PayerFraisDossierHandler handles the PayerFraisDossierCommand.
type PayerFraisDossierHandler struct {
	base
}

// NewPayerFraisDossierHandler creates a new PayerFraisDossierHandler.
func NewPayerFraisDossierHandler(deps Dependencies) *PayerFraisDossierHandler {
	return &PayerFraisDossierHandler{base: newBase(deps, "payer_frais_dossier")}
}

// Handle executes the command. PaiementNonRealise is returned as a business
// error when the provider has no payment yet.
func (h *PayerFraisDossierHandler) Handle(ctx context.Context, cmd PayerFraisDossierCommand) (_ *PayerFraisDossierResult, err error) {
	defer h.observe(string(proposition.OpPayerFraisDossier), time.Now(), &err)

	if cmd.UUIDProposition == "" {
		return nil, errors.New("payer_frais_dossier: uuid_proposition is required")
	}
	p, err := h.charger(ctx, "payer_frais_dossier", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}

	if err := p.VerifierPaiementAttendu(); err != nil {
		return nil, fmt.Errorf("payer_frais_dossier: %w", err)
	}
	effectue, err := h.deps.Paiements.PaiementRealise(ctx, p.UUID)
	if err != nil {
		return nil, fmt.Errorf("payer_frais_dossier: failed to query payment provider: %w", err)
	}

	auteur := auteurOu(cmd.Auteur, p.MatriculeCandidat)
	if err := p.PayerFraisDossier(effectue, auteur, h.now()); err != nil {
		return nil, fmt.Errorf("payer_frais_dossier: %w", err)
	}

	event := evenement(shared.EventFraisDossierPayes, p, auteur)
	if err := h.sauvegarder(ctx, "payer_frais_dossier", p, nil, event); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "dossier fee paid",
		logger.PropositionUUID(p.UUID),
		logger.Statut(string(p.Statut)),
	)
	return &PayerFraisDossierResult{UUIDProposition: p.UUID, Statut: p.Statut}, nil
}

// SpecifierPaiementPlusNecessaireCommand waives the dossier fee.
type SpecifierPaiementPlusNecessaireCommand struct {
	UUIDProposition string

	// Dispense distinguishes an exemption from a candidate who is not
	// concerned by the fee at all.
	Dispense bool

	Auteur string
}

// SpecifierPaiementPlusNecessaireHandler handles the waiver.
type SpecifierPaiementPlusNecessaireHandler struct {
	base
}

// NewSpecifierPaiementPlusNecessaireHandler creates the handler.
func NewSpecifierPaiementPlusNecessaireHandler(deps Dependencies) *SpecifierPaiementPlusNecessaireHandler {
	return &SpecifierPaiementPlusNecessaireHandler{base: newBase(deps, "specifier_paiement_plus_necessaire")}
}

// Handle executes the command.
func (h *SpecifierPaiementPlusNecessaireHandler) Handle(ctx context.Context, cmd SpecifierPaiementPlusNecessaireCommand) (_ *PayerFraisDossierResult, err error) {
	defer h.observe(string(proposition.OpSpecifierPaiementPlusNecessaire), time.Now(), &err)

	if cmd.Auteur == "" {
		return nil, errors.New("specifier_paiement_plus_necessaire: auteur is required")
	}
	p, err := h.charger(ctx, "specifier_paiement_plus_necessaire", cmd.UUIDProposition)
	if err != nil {
		return nil, err
	}
	if err := p.SpecifierPaiementPlusNecessaire(cmd.Dispense, cmd.Auteur, h.now()); err != nil {
		return nil, fmt.Errorf("specifier_paiement_plus_necessaire: %w", err)
	}

	event := evenement(shared.EventStatutModifie, p, cmd.Auteur)
	if err := h.sauvegarder(ctx, "specifier_paiement_plus_necessaire", p, nil, event); err != nil {
		return nil, err
	}
	return &PayerFraisDossierResult{UUIDProposition: p.UUID, Statut: p.Statut}, nil
}
