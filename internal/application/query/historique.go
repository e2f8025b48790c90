package query

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// HistoriqueQuery - история действий по заявке.
type HistoriqueQuery struct {
	UUIDProposition string

	// Limite - максимум записей (0 = все).
	Limite int
}

// EntreeHistoriqueDTO - одна запись истории.
type EntreeHistoriqueDTO struct {
	Evenement  string    `json:"evenement"`
	Auteur     string    `json:"auteur"`
	Message    string    `json:"message"`
	Statut     string    `json:"statut"`
	Horodatage time.Time `json:"horodatage"`
}

// HistoriqueHandler обрабатывает HistoriqueQuery.
type HistoriqueHandler struct {
	deps Dependencies
}

// NewHistoriqueHandler создаёт обработчик.
func NewHistoriqueHandler(deps Dependencies) *HistoriqueHandler {
	return &HistoriqueHandler{deps: deps.withDefaults()}
}

// Handle возвращает записи от новых к старым.
func (h *HistoriqueHandler) Handle(ctx context.Context, q HistoriqueQuery) ([]EntreeHistoriqueDTO, error) {
	if q.UUIDProposition == "" {
		return nil, shared.NewDomainError("query", "Historique", shared.ErrEmptyValue, "proposition uuid is required")
	}
	if q.Limite < 0 {
		return nil, shared.NewDomainError("query", "Historique", shared.ErrInvalidInput, "limit cannot be negative")
	}
	if h.deps.Historique == nil {
		return []EntreeHistoriqueDTO{}, nil
	}

	entrees, err := h.deps.Historique.Lister(ctx, q.UUIDProposition)
	if err != nil {
		return nil, fmt.Errorf("historique: %w", err)
	}
	if q.Limite > 0 && len(entrees) > q.Limite {
		entrees = entrees[:q.Limite]
	}

	out := make([]EntreeHistoriqueDTO, 0, len(entrees))
	for _, e := range entrees {
		out = append(out, EntreeHistoriqueDTO{
			Evenement:  e.Evenement,
			Auteur:     e.Auteur,
			Message:    e.Message,
			Statut:     string(e.Statut),
			Horodatage: e.Horodatage,
		})
	}
	return out, nil
}
