package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// VERIFY PROPOSITION QUERY
// Прогоняет правила подачи без изменения заявки. Кандидат видит все
// нарушения сразу, до нажатия "подать".
// ══════════════════════════════════════════════════════════════════════════════

// VerifierPropositionQuery - параметры проверки.
type VerifierPropositionQuery struct {
	UUIDProposition string
}

// VerifierPropositionResult - заявка прошла все правила.
type VerifierPropositionResult struct {
	UUIDProposition string `json:"uuid_proposition"`
}

// VerifierPropositionConfig - настройки проверки.
type VerifierPropositionConfig struct {
	// MaximumPropositions - тот же лимит, что и при подаче.
	MaximumPropositions int
}

// VerifierPropositionHandler обрабатывает VerifierPropositionQuery.
type VerifierPropositionHandler struct {
	deps   Dependencies
	config VerifierPropositionConfig
}

// NewVerifierPropositionHandler создаёт обработчик.
func NewVerifierPropositionHandler(deps Dependencies, config VerifierPropositionConfig) *VerifierPropositionHandler {
	return &VerifierPropositionHandler{deps: deps.withDefaults(), config: config}
}

// Handle возвращает идентификатор заявки или *shared.MultipleBusinessErrors.
func (h *VerifierPropositionHandler) Handle(ctx context.Context, q VerifierPropositionQuery) (*VerifierPropositionResult, error) {
	const op = "verifier_proposition"

	p, err := h.deps.charger(ctx, op, q.UUIDProposition)
	if err != nil {
		return nil, err
	}
	now := h.deps.Clock()

	pr, err := h.deps.profil(ctx, p, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	questions, err := h.deps.questions(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fichiers, err := h.deps.Documents.Fichiers(ctx, p.UUID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load uploaded files: %w", op, err)
	}
	soumises, err := h.deps.Propositions.CountSoumises(ctx, p.MatriculeCandidat)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count submitted propositions: %w", op, err)
	}
	if p.Statut.EstSoumise() && !p.Statut.EstTerminal() {
		soumises--
	}

	validators := p.ValidatorsSoumission(proposition.Soumission{
		Profil:                     pr,
		Questions:                  questions,
		Fichiers:                   fichiers,
		NombrePropositionsSoumises: soumises,
		Maximum:                    h.config.MaximumPropositions,
		Maintenant:                 h.deps.reference(p),
	})
	if err := validation.RunValidators(validators...); err != nil {
		return nil, err
	}
	return &VerifierPropositionResult{UUIDProposition: p.UUID}, nil
}
