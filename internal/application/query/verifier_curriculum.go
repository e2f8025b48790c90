package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// VERIFY CURRICULUM QUERY
// Только проверка годов curriculum: вкладка "Curriculum" показывает
// пропущенные периоды, пока кандидат заполняет профиль.
// ══════════════════════════════════════════════════════════════════════════════

// VerifierCurriculumQuery - параметры проверки.
type VerifierCurriculumQuery struct {
	UUIDProposition string
}

// VerifierCurriculumResult - результат проверки.
type VerifierCurriculumResult struct {
	UUIDProposition string `json:"uuid_proposition"`

	// AnneeMinimale - первый учебный год, который нужно объяснить.
	AnneeMinimale int `json:"annee_minimale"`

	// PeriodesManquantes - метки пропущенных периодов.
	PeriodesManquantes []string `json:"periodes_manquantes"`
}

// VerifierCurriculumHandler обрабатывает VerifierCurriculumQuery.
type VerifierCurriculumHandler struct {
	deps Dependencies
}

// NewVerifierCurriculumHandler создаёт обработчик.
func NewVerifierCurriculumHandler(deps Dependencies) *VerifierCurriculumHandler {
	return &VerifierCurriculumHandler{deps: deps.withDefaults()}
}

// Handle возвращает результат вместе с *shared.MultipleBusinessErrors, если
// curriculum неполон: клиенту нужны и периоды, и сообщения.
func (h *VerifierCurriculumHandler) Handle(ctx context.Context, q VerifierCurriculumQuery) (*VerifierCurriculumResult, error) {
	const op = "verifier_curriculum"

	p, err := h.deps.charger(ctx, op, q.UUIDProposition)
	if err != nil {
		return nil, err
	}
	pr, err := h.deps.profil(ctx, p, h.deps.Clock())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cv profil.Curriculum
	if pr.Curriculum != nil {
		cv = *pr.Curriculum
	}
	reference := h.deps.reference(p)
	annee := proposition.AnneeDiplomeSecondaire(pr.EtudesSecondaires)

	res := &VerifierCurriculumResult{
		UUIDProposition:    p.UUID,
		AnneeMinimale:      proposition.AnneeMinimaleCurriculum(cv, annee, reference),
		PeriodesManquantes: []string{},
	}
	for _, periode := range proposition.PeriodesManquantes(cv, annee, reference) {
		res.PeriodesManquantes = append(res.PeriodesManquantes, periode.Libelle())
	}

	if err := validation.Run(proposition.ReglesCurriculum(cv, annee, reference)...); err != nil {
		return res, err
	}
	return res, nil
}
