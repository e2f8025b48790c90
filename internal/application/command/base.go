// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
	"github.com/alem-hub/admission-workflow/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// Every proposition command loads the aggregate, runs one aggregate
// operation, persists, and then publishes. Best-effort collaborators (PDF
// rendering, event subscribers) are called after the mutation and never
// roll it back.
// ══════════════════════════════════════════════════════════════════════════════

// OperationObserver records the outcome of each command.
type OperationObserver interface {
	ObserveOperation(operation string, d time.Duration, err error)
}

// Dependencies groups the ports shared by all proposition handlers.
type Dependencies struct {
	Propositions proposition.Repository
	Documents    document.Repository
	Profils      profil.Translator
	Questions    proposition.QuestionsSpecifiquesRepository
	Annees       proposition.AcademicYearRepository
	Paiements    proposition.PaiementService
	Pdf          proposition.PdfGenerationService
	Publisher    shared.EventPublisher

	// Observer is optional.
	Observer OperationObserver

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Clock defaults to time.Now in UTC.
	Clock func() time.Time
}

// base is embedded by every handler.
type base struct {
	deps   Dependencies
	logger *slog.Logger
}

func newBase(deps Dependencies, name string) base {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = func() time.Time { return time.Now().UTC() }
	}
	return base{deps: deps, logger: deps.Logger.With(logger.Component(name))}
}

func (b base) now() time.Time {
	return b.deps.Clock()
}

// observe is deferred by Handle methods with a pointer to their error.
func (b base) observe(operation string, start time.Time, err *error) {
	if b.deps.Observer != nil {
		b.deps.Observer.ObserveOperation(operation, time.Since(start), *err)
	}
}

// charger loads the proposition.
func (b base) charger(ctx context.Context, op, uuid string) (*proposition.Proposition, error) {
	if uuid == "" {
		return nil, fmt.Errorf("%s: %w", op, shared.NewDomainError("proposition", op, shared.ErrEmptyValue, "proposition uuid is required"))
	}
	p, err := b.deps.Propositions.Get(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load proposition: %w", op, err)
	}
	return p, nil
}

// anneeCourante returns the academic year of now, as configured by the
// calendar when one is available.
func (b base) anneeCourante(ctx context.Context, now time.Time) int {
	if b.deps.Annees != nil {
		if a, err := b.deps.Annees.Courante(ctx, now); err == nil {
			return a.Annee
		}
	}
	return timeutil.AnneeAcademique(now)
}

// chargerProfil reads the candidate profile. An unknown candidate yields an
// empty profile, which the submission rules report as CandidatNonTrouve.
func (b base) chargerProfil(ctx context.Context, p *proposition.Proposition, now time.Time) (proposition.Profil, error) {
	return proposition.ChargerProfil(ctx, b.deps.Profils, p, b.anneeCourante(ctx, now))
}

// resume gathers everything the document engine needs.
func (b base) resume(ctx context.Context, p *proposition.Proposition, now time.Time) (*document.Resume, error) {
	pr, err := b.chargerProfil(ctx, p, now)
	if err != nil {
		return nil, err
	}
	questions, err := b.questions(ctx, p)
	if err != nil {
		return nil, err
	}
	fichiers, err := b.deps.Documents.Fichiers(ctx, p.UUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load uploaded files: %w", err)
	}
	return p.Resume(pr, questions, fichiers), nil
}

func (b base) questions(ctx context.Context, p *proposition.Proposition) ([]document.QuestionSpecifique, error) {
	if b.deps.Questions == nil {
		return nil, nil
	}
	questions, err := b.deps.Questions.Search(ctx, p.Formation)
	if err != nil {
		return nil, fmt.Errorf("failed to load specific questions: %w", err)
	}
	return questions, nil
}

// sauvegarder persists the aggregate, then the computed document views
// when given, then publishes the events.
func (b base) sauvegarder(ctx context.Context, op string, p *proposition.Proposition, emplacements []document.EmplacementDocument, events ...shared.Event) error {
	if err := b.deps.Propositions.Save(ctx, p); err != nil {
		return fmt.Errorf("%s: failed to save proposition: %w", op, err)
	}
	if emplacements != nil {
		if err := b.deps.Documents.SaveMultiple(ctx, p.UUID, emplacements); err != nil {
			return fmt.Errorf("%s: failed to save documents: %w", op, err)
		}
	}
	b.publier(ctx, events...)
	return nil
}

func (b base) publier(ctx context.Context, events ...shared.Event) {
	if b.deps.Publisher == nil {
		return
	}
	for _, event := range events {
		if err := b.deps.Publisher.Publish(event); err != nil {
			b.logger.WarnContext(ctx, "failed to publish event",
				slog.String("event_type", string(event.EventType())),
				logger.PropositionUUID(event.AggregateID()),
				logger.Err(err),
			)
		}
	}
}

// genererPdf renders a decision PDF and stores it in its SYSTEME slot.
// Failures are logged; the decision stands.
func (b base) genererPdf(ctx context.Context, p *proposition.Proposition, modele string) {
	if b.deps.Pdf == nil {
		return
	}
	uuids, err := b.deps.Pdf.Generer(ctx, p, modele)
	if err != nil {
		b.logger.WarnContext(ctx, "failed to generate pdf",
			logger.PropositionUUID(p.UUID),
			slog.String("modele", modele),
			logger.Err(err),
		)
		return
	}
	p.AjouterDocumentSysteme(modele, uuids)
}

// recalculer refreshes the document requests of p.
func (b base) recalculer(ctx context.Context, p *proposition.Proposition, now time.Time) ([]document.EmplacementDocument, error) {
	r, err := b.resume(ctx, p, now)
	if err != nil {
		return nil, err
	}
	return p.RecalculerDocuments(r), nil
}

func evenement(t shared.EventType, p *proposition.Proposition, auteur string) shared.PropositionEvent {
	return shared.NewPropositionEvent(t, p.UUID, p.MatriculeCandidat, auteur, string(p.Statut))
}
