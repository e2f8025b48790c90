package eventhandler

import (
	"context"
	"log/slog"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLER
// Сообщения кандидату после подачи, запроса документов и решения SIC.
// Отправка best-effort: сбой не откатывает сохранённую заявку.
// ═══════════════════════════════════════════════════════════════════════════

// NotificationHandler отправляет уведомления по событиям.
type NotificationHandler struct {
	propositions  proposition.Repository
	notifications proposition.NotificationService
	logger        *slog.Logger

	// gate решает, получает ли кандидат сообщения (nil = все).
	gate func(p *proposition.Proposition) bool
}

// NewNotificationHandler создаёт обработчик.
func NewNotificationHandler(
	propositions proposition.Repository,
	notifications proposition.NotificationService,
	logger *slog.Logger,
) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{
		propositions:  propositions,
		notifications: notifications,
		logger:        logger.With("handler", "notification"),
	}
}

// WithGate ограничивает рассылку кандидатами, для которых gate истинна.
func (h *NotificationHandler) WithGate(gate func(p *proposition.Proposition) bool) *NotificationHandler {
	h.gate = gate
	return h
}

// Register подписывает обработчик на события, требующие сообщения.
func (h *NotificationHandler) Register(sub shared.EventSubscriber) error {
	for _, t := range []shared.EventType{
		shared.EventPropositionSoumise,
		shared.EventDocumentsReclames,
		shared.EventPropositionRefuseeSic,
		shared.EventPropositionApprouveeSic,
	} {
		if err := sub.Subscribe(t, h.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Handle реализует shared.EventHandler.
func (h *NotificationHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	p, err := h.propositions.Get(ctx, event.AggregateID())
	if err != nil {
		h.logger.Warn("failed to load proposition for notification",
			"event_type", event.EventType(),
			"proposition_uuid", event.AggregateID(),
			"error", err,
		)
		return nil
	}
	if h.gate != nil && !h.gate(p) {
		h.logger.Debug("notification disabled for candidate",
			"event_type", event.EventType(),
			"proposition_uuid", p.UUID,
		)
		return nil
	}

	switch event.EventType() {
	case shared.EventPropositionSoumise:
		err = h.notifications.Confirmer(ctx, p)
	case shared.EventDocumentsReclames:
		var ids []string
		if e, ok := event.(shared.DocumentsEvent); ok {
			ids = e.Identifiants
		}
		err = h.notifications.DemanderDocuments(ctx, p, ids)
	case shared.EventPropositionRefuseeSic:
		err = h.notifications.NotifierRefus(ctx, p)
	case shared.EventPropositionApprouveeSic:
		err = h.notifications.NotifierAutorisation(ctx, p)
	default:
		return nil
	}

	if err != nil {
		h.logger.Warn("failed to send notification",
			"event_type", event.EventType(),
			"proposition_uuid", p.UUID,
			"error", err,
		)
		return nil
	}
	h.logger.Info("notification sent",
		"event_type", event.EventType(),
		"proposition_uuid", p.UUID,
	)
	return nil
}
