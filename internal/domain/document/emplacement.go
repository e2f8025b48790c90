package document

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERSISTED REQUEST RECORD
// ══════════════════════════════════════════════════════════════════════════════

// DemandeDocument is the request state of one slot, as stored in the
// proposition's documents_demandes map.
type DemandeDocument struct {
	Type                   TypeEmplacementDocument
	Statut                 StatutEmplacementDocument
	StatutReclamation      StatutReclamationEmplacementDocument
	Raison                 string
	ReclameLe              time.Time
	DernierActeur          string
	DerniereActionLe       time.Time
	DateLimite             time.Time
	OngletChecklistAssocie string

	// Libelle is only set on free slots.
	Libelle string
}

// EstAutomatique reports whether the request was raised by the engine
// rather than by a manager.
func (d DemandeDocument) EstAutomatique() bool {
	return d.Type == TypeNonLibre && d.Statut == StatutAReclamer && d.DernierActeur == "" && d.ReclameLe.IsZero()
}

type demandeDocumentJSON struct {
	Type                   TypeEmplacementDocument              `json:"type"`
	Statut                 StatutEmplacementDocument            `json:"status"`
	Raison                 string                               `json:"reason"`
	ReclameLe              string                               `json:"requested_at"`
	DernierActeur          string                               `json:"last_actor"`
	DerniereActionLe       string                               `json:"last_action_at"`
	DateLimite             string                               `json:"deadline_at"`
	StatutReclamation      StatutReclamationEmplacementDocument `json:"request_status"`
	OngletChecklistAssocie string                               `json:"related_checklist_tab"`
	Libelle                string                               `json:"label,omitempty"`
}

const (
	// layoutHorodatageSansZone is only read, for records written without
	// an offset.
	layoutHorodatageSansZone = "2006-01-02T15:04:05"
	layoutDate               = "2006-01-02"
)

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, layoutHorodatageSansZone, layoutDate} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewDomainError("document", "Unmarshal", shared.ErrInvalidInput, "invalid timestamp "+value)
}

// MarshalJSON writes the record with the historical key names.
func (d DemandeDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(demandeDocumentJSON{
		Type:                   d.Type,
		Statut:                 d.Statut,
		Raison:                 d.Raison,
		ReclameLe:              formatTime(d.ReclameLe, time.RFC3339Nano),
		DernierActeur:          d.DernierActeur,
		DerniereActionLe:       formatTime(d.DerniereActionLe, time.RFC3339Nano),
		DateLimite:             formatTime(d.DateLimite, layoutDate),
		StatutReclamation:      d.StatutReclamation,
		OngletChecklistAssocie: d.OngletChecklistAssocie,
		Libelle:                d.Libelle,
	})
}

// UnmarshalJSON reads the record written by MarshalJSON.
func (d *DemandeDocument) UnmarshalJSON(data []byte) error {
	var raw demandeDocumentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	reclameLe, err := parseTime(raw.ReclameLe)
	if err != nil {
		return err
	}
	derniereAction, err := parseTime(raw.DerniereActionLe)
	if err != nil {
		return err
	}
	dateLimite, err := parseTime(raw.DateLimite)
	if err != nil {
		return err
	}
	*d = DemandeDocument{
		Type:                   raw.Type,
		Statut:                 raw.Statut,
		StatutReclamation:      raw.StatutReclamation,
		Raison:                 raw.Raison,
		ReclameLe:              reclameLe,
		DernierActeur:          raw.DernierActeur,
		DerniereActionLe:       derniereAction,
		DateLimite:             dateLimite,
		OngletChecklistAssocie: raw.OngletChecklistAssocie,
		Libelle:                raw.Libelle,
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENTS DEMANDES
// ══════════════════════════════════════════════════════════════════════════════

// DocumentsDemandes maps slot identifiers to their request records.
type DocumentsDemandes map[string]DemandeDocument

// Clone returns an independent copy.
func (d DocumentsDemandes) Clone() DocumentsDemandes {
	out := make(DocumentsDemandes, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Identifiants returns the identifiers in lexical order.
func (d DocumentsDemandes) Identifiants() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Filtrer returns the identifiers of the records matching pred, in lexical order.
func (d DocumentsDemandes) Filtrer(pred func(DemandeDocument) bool) []string {
	var ids []string
	for _, id := range d.Identifiants() {
		if pred(d[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// AReclamerImmediatement lists slots still to be requested immediately.
func (d DocumentsDemandes) AReclamerImmediatement() []string {
	return d.Filtrer(func(r DemandeDocument) bool {
		return r.Statut == StatutAReclamer && r.StatutReclamation == ReclamationImmediate
	})
}

// ReclamesImmediatement lists requested slots blocking the candidate.
func (d DocumentsDemandes) ReclamesImmediatement() []string {
	return d.Filtrer(func(r DemandeDocument) bool {
		return r.Statut == StatutReclame && r.StatutReclamation == ReclamationImmediate
	})
}

// Forcer marks a slot as to be requested, whatever its previous state.
func (d DocumentsDemandes) Forcer(identifiant string, urgence StatutReclamationEmplacementDocument, auteur string, now time.Time) {
	record, ok := d[identifiant]
	if !ok {
		record = DemandeDocument{Type: TypeNonLibre}
	}
	record.Statut = StatutAReclamer
	record.StatutReclamation = urgence
	record.DernierActeur = auteur
	record.DerniereActionLe = now
	record.ReclameLe = now
	d[identifiant] = record
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPUTED SLOT
// ══════════════════════════════════════════════════════════════════════════════

// EmplacementDocument is one slot as presented to managers and candidates:
// catalog facts merged with the persisted request state.
type EmplacementDocument struct {
	Identifiant            string                               `json:"identifiant"`
	Onglet                 OngletsDemande                       `json:"onglet,omitempty"`
	NomEmplacement         string                               `json:"nom"`
	Libelle                string                               `json:"libelle,omitempty"`
	Type                   TypeEmplacementDocument              `json:"type"`
	Statut                 StatutEmplacementDocument            `json:"statut"`
	StatutReclamation      StatutReclamationEmplacementDocument `json:"statut_reclamation"`
	UUIDsDocuments         []string                             `json:"uuids_documents"`
	Requis                 bool                                 `json:"requis"`
	RequisAutomatiquement  bool                                 `json:"requis_automatiquement"`
	Raison                 string                               `json:"raison,omitempty"`
	ReclameLe              *time.Time                           `json:"reclame_le,omitempty"`
	DernierActeur          string                               `json:"dernier_acteur,omitempty"`
	DerniereActionLe       *time.Time                           `json:"derniere_action_le,omitempty"`
	DateLimite             *time.Time                           `json:"date_limite_reclamation,omitempty"`
	OngletChecklistAssocie string                               `json:"onglet_checklist_associe,omitempty"`
}

// EstLibre reports whether the slot was created by a manager.
func (e EmplacementDocument) EstLibre() bool {
	return e.Type.EstLibre()
}

// Demande returns the persisted form of the slot.
func (e EmplacementDocument) Demande() DemandeDocument {
	return DemandeDocument{
		Type:                   e.Type,
		Statut:                 e.Statut,
		StatutReclamation:      e.StatutReclamation,
		Raison:                 e.Raison,
		ReclameLe:              derefTime(e.ReclameLe),
		DernierActeur:          e.DernierActeur,
		DerniereActionLe:       derefTime(e.DerniereActionLe),
		DateLimite:             derefTime(e.DateLimite),
		OngletChecklistAssocie: e.OngletChecklistAssocie,
		Libelle:                e.Libelle,
	}
}

func refTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
