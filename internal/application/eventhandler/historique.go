// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// HISTORIQUE HANDLER
// Пишет запись в историю заявки на каждое событие.
// История не критична: ошибка записи логируется и не возвращается шине.
// ═══════════════════════════════════════════════════════════════════════════

// messagesHistorique - текст записи по типу события.
var messagesHistorique = map[shared.EventType]string{
	shared.EventPropositionSoumise:      "The application has been submitted.",
	shared.EventFraisDossierPayes:       "The application fee has been paid.",
	shared.EventDocumentsReclames:       "Documents have been requested from the candidate.",
	shared.EventDocumentsCompletes:      "The candidate has answered the document request.",
	shared.EventPropositionApprouveeFac: "The faculty has approved the application.",
	shared.EventPropositionApprouveeSic: "The enrolment has been authorised.",
	shared.EventPropositionRefuseeSic:   "The enrolment has been refused.",
	shared.EventChecklistModifiee:       "A checklist status has been changed.",
	shared.EventStatutModifie:           "The application status has been changed.",
}

// HistoriqueHandler сохраняет события в историю.
type HistoriqueHandler struct {
	historique proposition.HistoriqueService
	logger     *slog.Logger
}

// NewHistoriqueHandler создаёт обработчик.
func NewHistoriqueHandler(historique proposition.HistoriqueService, logger *slog.Logger) *HistoriqueHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoriqueHandler{
		historique: historique,
		logger:     logger.With("handler", "historique"),
	}
}

// Register подписывает обработчик на все события.
func (h *HistoriqueHandler) Register(sub shared.EventSubscriber) error {
	return sub.SubscribeAll(h.Handle)
}

// Handle реализует shared.EventHandler.
func (h *HistoriqueHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	entree := proposition.EntreeHistorique{
		UUIDProposition: event.AggregateID(),
		Evenement:       string(event.EventType()),
		Message:         messageHistorique(event),
		Horodatage:      event.OccurredAt(),
		Donnees:         event.Payload(),
	}
	if base, ok := propositionEvent(event); ok {
		entree.Auteur = base.Auteur
		entree.Statut = proposition.ChoixStatutProposition(base.Statut)
	}

	if err := h.historique.Historiser(ctx, entree); err != nil {
		h.logger.Warn("failed to write history entry",
			"event_type", event.EventType(),
			"proposition_uuid", event.AggregateID(),
			"error", err,
		)
	}
	return nil
}

func messageHistorique(event shared.Event) string {
	msg, ok := messagesHistorique[event.EventType()]
	if !ok {
		msg = string(event.EventType())
	}
	switch e := event.(type) {
	case shared.PropositionRefuseeSicEvent:
		if len(e.Motifs) > 0 {
			msg += " Reasons: " + strings.Join(e.Motifs, "; ")
		}
	case shared.ChecklistModifieeEvent:
		msg += " " + e.Onglet + " -> " + e.NouveauStatut
	}
	return msg
}

// propositionEvent извлекает общую часть события заявки.
func propositionEvent(event shared.Event) (shared.PropositionEvent, bool) {
	switch e := event.(type) {
	case shared.PropositionEvent:
		return e, true
	case shared.PropositionRefuseeSicEvent:
		return e.PropositionEvent, true
	case shared.DocumentsEvent:
		return e.PropositionEvent, true
	case shared.ChecklistModifieeEvent:
		return e.PropositionEvent, true
	}
	return shared.PropositionEvent{}, false
}
