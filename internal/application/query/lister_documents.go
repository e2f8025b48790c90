package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST DOCUMENTS QUERY
// Список слотов документов, посчитанный по текущему профилю. Сохранённые
// записи не меняются: пересчёт идёт на копии агрегата.
// ══════════════════════════════════════════════════════════════════════════════

// ListerDocumentsQuery - параметры запроса.
type ListerDocumentsQuery struct {
	UUIDProposition string

	// Statuts - оставить только слоты в этих статусах (пусто = все).
	Statuts []document.StatutEmplacementDocument

	// Onglet - оставить только слоты вкладки (пусто = все).
	Onglet document.OngletsDemande
}

// ListerDocumentsResult - слоты в порядке каталога.
type ListerDocumentsResult struct {
	UUIDProposition string                         `json:"uuid_proposition"`
	Emplacements    []document.EmplacementDocument `json:"emplacements"`

	// AReclamerImmediatement - слоты, блокирующие авторизацию.
	AReclamerImmediatement []string `json:"a_reclamer_immediatement"`
}

// ListerDocumentsHandler обрабатывает ListerDocumentsQuery.
type ListerDocumentsHandler struct {
	deps Dependencies
}

// NewListerDocumentsHandler создаёт обработчик.
func NewListerDocumentsHandler(deps Dependencies) *ListerDocumentsHandler {
	return &ListerDocumentsHandler{deps: deps.withDefaults()}
}

// Handle выполняет запрос.
func (h *ListerDocumentsHandler) Handle(ctx context.Context, q ListerDocumentsQuery) (*ListerDocumentsResult, error) {
	const op = "lister_documents"

	stored, err := h.deps.charger(ctx, op, q.UUIDProposition)
	if err != nil {
		return nil, err
	}
	p := stored.Clone()

	pr, err := h.deps.profil(ctx, p, h.deps.Clock())
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

	emplacements := p.RecalculerDocuments(p.Resume(pr, questions, fichiers))

	res := &ListerDocumentsResult{
		UUIDProposition:        p.UUID,
		Emplacements:           make([]document.EmplacementDocument, 0, len(emplacements)),
		AReclamerImmediatement: p.DocumentsDemandes.AReclamerImmediatement(),
	}
	for _, e := range emplacements {
		if q.Onglet != "" && e.Onglet != q.Onglet {
			continue
		}
		if len(q.Statuts) > 0 && !contientStatut(q.Statuts, e.Statut) {
			continue
		}
		res.Emplacements = append(res.Emplacements, e)
	}
	return res, nil
}

func contientStatut(statuts []document.StatutEmplacementDocument, s document.StatutEmplacementDocument) bool {
	for _, v := range statuts {
		if v == s {
			return true
		}
	}
	return false
}
