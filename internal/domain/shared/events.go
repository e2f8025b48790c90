// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import "time"

// EventType represents the type of domain event.
type EventType string

// Domain event types. Every event is published once the proposition has been
// persisted; subscribers are best-effort (history, notifications).
const (
	// Candidate-side events
	EventPropositionSoumise EventType = "proposition.soumise"
	EventDocumentsCompletes EventType = "proposition.documents_completes"
	EventFraisDossierPayes  EventType = "proposition.frais_payes"

	// Manager-side events
	EventPropositionApprouveeFac EventType = "proposition.approuvee_fac"
	EventPropositionApprouveeSic EventType = "proposition.approuvee_sic"
	EventPropositionRefuseeSic   EventType = "proposition.refusee_sic"
	EventDocumentsReclames       EventType = "proposition.documents_reclames"
	EventChecklistModifiee       EventType = "proposition.checklist_modifiee"
	EventStatutModifie           EventType = "proposition.statut_modifie"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Proposition Events
// ═══════════════════════════════════════════════════════════════════════════

// PropositionEvent is the common shape of every proposition event:
// who triggered it, for which candidate, and the resulting status.
type PropositionEvent struct {
	BaseEvent
	Matricule string `json:"matricule"`
	Auteur    string `json:"auteur"`
	Statut    string `json:"statut"`
}

// Payload implements Event interface.
func (e PropositionEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"matricule": e.Matricule,
		"auteur":    e.Auteur,
		"statut":    e.Statut,
	}
}

// NewPropositionEvent creates a new PropositionEvent.
func NewPropositionEvent(eventType EventType, uuidProposition, matricule, auteur, statut string) PropositionEvent {
	return PropositionEvent{
		BaseEvent: NewBaseEvent(eventType, uuidProposition),
		Matricule: matricule,
		Auteur:    auteur,
		Statut:    statut,
	}
}

// PropositionRefuseeSicEvent is emitted when the central administration refuses a proposition.
type PropositionRefuseeSicEvent struct {
	PropositionEvent
	Motifs []string `json:"motifs"`
}

// Payload implements Event interface.
func (e PropositionRefuseeSicEvent) Payload() map[string]interface{} {
	payload := e.PropositionEvent.Payload()
	payload["motifs"] = e.Motifs
	return payload
}

// NewPropositionRefuseeSicEvent creates a new PropositionRefuseeSicEvent.
func NewPropositionRefuseeSicEvent(uuidProposition, matricule, auteur, statut string, motifs []string) PropositionRefuseeSicEvent {
	return PropositionRefuseeSicEvent{
		PropositionEvent: NewPropositionEvent(EventPropositionRefuseeSic, uuidProposition, matricule, auteur, statut),
		Motifs:           motifs,
	}
}

// DocumentsEvent is emitted when documents are requested from or supplied by the candidate.
type DocumentsEvent struct {
	PropositionEvent
	Identifiants []string `json:"identifiants"`
}

// Payload implements Event interface.
func (e DocumentsEvent) Payload() map[string]interface{} {
	payload := e.PropositionEvent.Payload()
	payload["identifiants"] = e.Identifiants
	return payload
}

// NewDocumentsEvent creates a new DocumentsEvent.
func NewDocumentsEvent(eventType EventType, uuidProposition, matricule, auteur, statut string, identifiants []string) DocumentsEvent {
	return DocumentsEvent{
		PropositionEvent: NewPropositionEvent(eventType, uuidProposition, matricule, auteur, statut),
		Identifiants:     identifiants,
	}
}

// ChecklistModifieeEvent is emitted when a manager changes a checklist area or child node.
type ChecklistModifieeEvent struct {
	PropositionEvent
	Onglet        string `json:"onglet"`
	Identifiant   string `json:"identifiant,omitempty"`
	NouveauStatut string `json:"nouveau_statut"`
}

// Payload implements Event interface.
func (e ChecklistModifieeEvent) Payload() map[string]interface{} {
	payload := e.PropositionEvent.Payload()
	payload["onglet"] = e.Onglet
	payload["identifiant"] = e.Identifiant
	payload["nouveau_statut"] = e.NouveauStatut
	return payload
}

// NewChecklistModifieeEvent creates a new ChecklistModifieeEvent.
func NewChecklistModifieeEvent(uuidProposition, matricule, auteur, statut, onglet, identifiant, nouveauStatut string) ChecklistModifieeEvent {
	return ChecklistModifieeEvent{
		PropositionEvent: NewPropositionEvent(EventChecklistModifiee, uuidProposition, matricule, auteur, statut),
		Onglet:           onglet,
		Identifiant:      identifiant,
		NouveauStatut:    nouveauStatut,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
