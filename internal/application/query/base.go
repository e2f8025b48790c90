// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// Запросы ничего не сохраняют: агрегат клонируется перед любым пересчётом.
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies - порты, общие для всех запросов.
type Dependencies struct {
	Propositions proposition.Repository
	Documents    document.Repository
	Profils      profil.Translator
	Questions    proposition.QuestionsSpecifiquesRepository
	Annees       proposition.AcademicYearRepository
	Historique   proposition.HistoriqueService

	// Logger по умолчанию slog.Default().
	Logger *slog.Logger

	// Clock по умолчанию time.Now в UTC.
	Clock func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// charger читает заявку.
func (d Dependencies) charger(ctx context.Context, op, uuid string) (*proposition.Proposition, error) {
	if uuid == "" {
		return nil, shared.NewDomainError("query", op, shared.ErrEmptyValue, "proposition uuid is required")
	}
	p, err := d.Propositions.Get(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// reference - дата, от которой считаются годы curriculum: дата подачи или
// текущий момент для черновика.
func (d Dependencies) reference(p *proposition.Proposition) time.Time {
	if p.SoumiseLe != nil {
		return *p.SoumiseLe
	}
	return d.Clock()
}

func (d Dependencies) anneeCourante(ctx context.Context, now time.Time) int {
	if d.Annees != nil {
		if a, err := d.Annees.Courante(ctx, now); err == nil {
			return a.Annee
		}
	}
	return timeutil.AnneeAcademique(now)
}

func (d Dependencies) profil(ctx context.Context, p *proposition.Proposition, now time.Time) (proposition.Profil, error) {
	return proposition.ChargerProfil(ctx, d.Profils, p, d.anneeCourante(ctx, now))
}

func (d Dependencies) questions(ctx context.Context, p *proposition.Proposition) ([]document.QuestionSpecifique, error) {
	if d.Questions == nil {
		return nil, nil
	}
	q, err := d.Questions.Search(ctx, p.Formation)
	if err != nil {
		return nil, fmt.Errorf("failed to load specific questions: %w", err)
	}
	return q, nil
}
