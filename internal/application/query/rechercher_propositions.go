package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH PROPOSITIONS QUERY
// Список заявок для менеджеров и для заданий планировщика.
// ══════════════════════════════════════════════════════════════════════════════

// RechercherPropositionsQuery - фильтры поиска.
type RechercherPropositionsQuery struct {
	Matricule      string
	Statuts        []proposition.ChoixStatutProposition
	Contexte       formation.Contexte
	AnneeFormation int
	Page           int
	PageSize       int
}

// Validate проверяет фильтры.
func (q RechercherPropositionsQuery) Validate() error {
	for _, s := range q.Statuts {
		if !s.IsValid() {
			return shared.NewDomainError("query", "RechercherPropositions", shared.ErrInvalidInput, "unknown status "+string(s))
		}
	}
	switch q.Contexte {
	case "", formation.ContexteGenerale, formation.ContexteDoctorat, formation.ContexteContinue:
	default:
		return shared.NewDomainError("query", "RechercherPropositions", shared.ErrInvalidInput, "unknown context "+string(q.Contexte))
	}
	return nil
}

// PropositionDTO - краткое представление заявки.
type PropositionDTO struct {
	UUID              string     `json:"uuid"`
	Reference         int64      `json:"reference"`
	Statut            string     `json:"statut"`
	Type              string     `json:"type"`
	MatriculeCandidat string     `json:"matricule_candidat"`
	Sigle             string     `json:"sigle_formation"`
	Annee             int        `json:"annee_formation"`
	SoumiseLe         *time.Time `json:"soumise_le,omitempty"`
	ModifieeLe        time.Time  `json:"modifiee_le"`
}

// NewPropositionDTO строит DTO из агрегата.
func NewPropositionDTO(p *proposition.Proposition) PropositionDTO {
	return PropositionDTO{
		UUID:              p.UUID,
		Reference:         p.Reference,
		Statut:            string(p.Statut),
		Type:              string(p.Type),
		MatriculeCandidat: p.MatriculeCandidat,
		Sigle:             p.Formation.Sigle,
		Annee:             p.Formation.Annee,
		SoumiseLe:         p.SoumiseLe,
		ModifieeLe:        p.ModifieeLe,
	}
}

// RechercherPropositionsResult - страница результатов.
type RechercherPropositionsResult struct {
	Propositions []PropositionDTO `json:"propositions"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
}

// RechercherPropositionsHandler обрабатывает RechercherPropositionsQuery.
type RechercherPropositionsHandler struct {
	deps Dependencies
}

// NewRechercherPropositionsHandler создаёт обработчик.
func NewRechercherPropositionsHandler(deps Dependencies) *RechercherPropositionsHandler {
	return &RechercherPropositionsHandler{deps: deps.withDefaults()}
}

// Handle выполняет поиск.
func (h *RechercherPropositionsHandler) Handle(ctx context.Context, q RechercherPropositionsQuery) (*RechercherPropositionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	pagination := shared.NewPagination(q.Page, q.PageSize)

	found, err := h.deps.Propositions.Search(ctx, proposition.Filtre{
		Matricule:      q.Matricule,
		Statuts:        q.Statuts,
		Contexte:       q.Contexte,
		AnneeFormation: q.AnneeFormation,
		Pagination:     pagination,
	})
	if err != nil {
		return nil, fmt.Errorf("rechercher_propositions: search failed: %w", err)
	}

	res := &RechercherPropositionsResult{
		Propositions: make([]PropositionDTO, 0, len(found)),
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
	}
	for _, p := range found {
		res.Propositions = append(res.Propositions, NewPropositionDTO(p))
	}
	return res, nil
}
