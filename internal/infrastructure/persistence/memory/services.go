package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
)

// PaiementService answers from payments registered with Marquer.
type PaiementService struct {
	mu        sync.RWMutex
	effectues map[string]bool
}

// NewPaiementService creates a service where nothing is paid.
func NewPaiementService() *PaiementService {
	return &PaiementService{effectues: make(map[string]bool)}
}

// Marquer records whether the dossier fee of a proposition is paid.
func (s *PaiementService) Marquer(uuidProposition string, effectue bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effectues[uuidProposition] = effectue
}

// PaiementRealise implements proposition.PaiementService.
func (s *PaiementService) PaiementRealise(_ context.Context, uuidProposition string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effectues[uuidProposition], nil
}

// Message is a notification recorded by NotificationService.
type Message struct {
	Type            string
	UUIDProposition string
	Identifiants    []string
}

// NotificationService records the messages it was asked to send.
type NotificationService struct {
	mu       sync.Mutex
	messages []Message
}

// NewNotificationService creates an empty outbox.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (s *NotificationService) record(m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return nil
}

// Messages returns the recorded messages in sending order.
func (s *NotificationService) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Confirmer implements proposition.NotificationService.
func (s *NotificationService) Confirmer(_ context.Context, p *proposition.Proposition) error {
	return s.record(Message{Type: "confirmation", UUIDProposition: p.UUID})
}

// DemanderDocuments implements proposition.NotificationService.
func (s *NotificationService) DemanderDocuments(_ context.Context, p *proposition.Proposition, identifiants []string) error {
	return s.record(Message{Type: "documents", UUIDProposition: p.UUID, Identifiants: append([]string(nil), identifiants...)})
}

// NotifierRefus implements proposition.NotificationService.
func (s *NotificationService) NotifierRefus(_ context.Context, p *proposition.Proposition) error {
	return s.record(Message{Type: "refus", UUIDProposition: p.UUID})
}

// NotifierAutorisation implements proposition.NotificationService.
func (s *NotificationService) NotifierAutorisation(_ context.Context, p *proposition.Proposition) error {
	return s.record(Message{Type: "autorisation", UUIDProposition: p.UUID})
}

// HistoriqueService keeps history entries per proposition.
type HistoriqueService struct {
	mu      sync.RWMutex
	entrees map[string][]proposition.EntreeHistorique
}

// NewHistoriqueService creates an empty history.
func NewHistoriqueService() *HistoriqueService {
	return &HistoriqueService{entrees: make(map[string][]proposition.EntreeHistorique)}
}

// Historiser implements proposition.HistoriqueService.
func (s *HistoriqueService) Historiser(_ context.Context, e proposition.EntreeHistorique) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entrees[e.UUIDProposition] = append(s.entrees[e.UUIDProposition], e)
	return nil
}

// Lister implements proposition.HistoriqueService, newest first.
func (s *HistoriqueService) Lister(_ context.Context, uuidProposition string) ([]proposition.EntreeHistorique, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]proposition.EntreeHistorique(nil), s.entrees[uuidProposition]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Horodatage.After(out[j].Horodatage) })
	return out, nil
}

// PdfGenerationService pretends to render a PDF and returns a fresh file
// identifier per call.
type PdfGenerationService struct {
	mu      sync.Mutex
	generes map[string][]string
}

// NewPdfGenerationService creates the generator.
func NewPdfGenerationService() *PdfGenerationService {
	return &PdfGenerationService{generes: make(map[string][]string)}
}

// Generer implements proposition.PdfGenerationService.
func (s *PdfGenerationService) Generer(_ context.Context, p *proposition.Proposition, modele string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.generes[p.UUID] = append(s.generes[p.UUID], modele)
	return []string{id}, nil
}

// Modeles returns the templates rendered for a proposition, in order.
func (s *PdfGenerationService) Modeles(uuidProposition string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.generes[uuidProposition]...)
}
