package document

import (
	"sort"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECONCILIATION
// ══════════════════════════════════════════════════════════════════════════════

// Calculer builds the catalog of the resume and reconciles it with the
// persisted request records.
func Calculer(r *Resume, persistes DocumentsDemandes) ([]EmplacementDocument, DocumentsDemandes) {
	return Reconcile(BuildCatalog(r), persistes, r.Fichiers)
}

// Reconcile merges the catalog with the persisted request records.
//
// Catalog slots keep their persisted request state when one exists. New
// required slots without any file are requested immediately; automatic
// requests that no longer apply are dropped. Persisted non-free records
// absent from the catalog are pruned. Free slots are carried over untouched
// and listed after the catalog.
//
// The returned map is a new value; persistes is not modified.
func Reconcile(catalog []Emplacement, persistes DocumentsDemandes, fichiers map[string][]string) ([]EmplacementDocument, DocumentsDemandes) {
	out := make([]EmplacementDocument, 0, len(catalog)+len(persistes))
	demandes := make(DocumentsDemandes, len(persistes))

	for _, slot := range catalog {
		requisAuto := slot.Type == TypeNonLibre && slot.Requis && len(slot.UUIDs) == 0

		record, ok := persistes[slot.Identifiant]
		if ok && record.EstAutomatique() && !requisAuto {
			ok = false
		}

		switch {
		case ok:
			demandes[slot.Identifiant] = record
		case requisAuto:
			record = DemandeDocument{
				Type:                   TypeNonLibre,
				Statut:                 StatutAReclamer,
				StatutReclamation:      ReclamationImmediate,
				OngletChecklistAssocie: slot.OngletChecklist,
			}
			demandes[slot.Identifiant] = record
		case len(slot.UUIDs) > 0:
			record = DemandeDocument{Type: slot.Type, Statut: StatutNonAnalyse}
		default:
			record = DemandeDocument{Type: slot.Type, Statut: StatutNonReclame}
		}

		out = append(out, vue(slot, record, requisAuto))
	}

	libres := make([]string, 0)
	for id, record := range persistes {
		if record.Type.EstLibre() {
			libres = append(libres, id)
		}
	}
	sort.Slice(libres, func(i, j int) bool {
		a, b := persistes[libres[i]], persistes[libres[j]]
		if !a.ReclameLe.Equal(b.ReclameLe) {
			return a.ReclameLe.Before(b.ReclameLe)
		}
		return libres[i] < libres[j]
	})
	for _, id := range libres {
		record := persistes[id]
		demandes[id] = record
		out = append(out, vue(Emplacement{
			Identifiant:     id,
			Onglet:          OngletsDemande(Categorie(id)),
			Libelle:         record.Libelle,
			Type:            record.Type,
			UUIDs:           fichiers[id],
			OngletChecklist: record.OngletChecklistAssocie,
		}, record, false))
	}

	return out, demandes
}

func vue(slot Emplacement, record DemandeDocument, requisAuto bool) EmplacementDocument {
	onglet := slot.Onglet
	if !onglet.IsValid() {
		onglet = ""
	}
	checklist := record.OngletChecklistAssocie
	if checklist == "" {
		checklist = slot.OngletChecklist
	}
	uuids := slot.UUIDs
	if uuids == nil {
		uuids = []string{}
	}
	return EmplacementDocument{
		Identifiant:            slot.Identifiant,
		Onglet:                 onglet,
		NomEmplacement:         NomEmplacement(slot.Identifiant),
		Libelle:                slot.Libelle,
		Type:                   record.Type,
		Statut:                 record.Statut,
		StatutReclamation:      record.StatutReclamation,
		UUIDsDocuments:         uuids,
		Requis:                 slot.Requis,
		RequisAutomatiquement:  requisAuto,
		Raison:                 record.Raison,
		ReclameLe:              refTime(record.ReclameLe),
		DernierActeur:          record.DernierActeur,
		DerniereActionLe:       refTime(record.DerniereActionLe),
		DateLimite:             refTime(record.DateLimite),
		OngletChecklistAssocie: checklist,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// FREE SLOTS
// ══════════════════════════════════════════════════════════════════════════════

// EmplacementLibre describes a slot created by a manager.
type EmplacementLibre struct {
	Type                   TypeEmplacementDocument
	Onglet                 OngletsDemande
	Libelle                string
	Raison                 string
	OngletChecklistAssocie string
}

// NouvelEmplacementLibre builds the identifier and request record of a free
// slot. Internal slots are stored as validated; requestable ones are
// waiting to be sent to the candidate.
func NouvelEmplacementLibre(e EmplacementLibre, auteur string, now time.Time) (string, DemandeDocument, error) {
	if !e.Type.EstLibre() {
		return "", DemandeDocument{}, shared.ErrEmplacementNonLibre
	}

	id := shared.NewUUID().String()
	record := DemandeDocument{
		Type:                   e.Type,
		Raison:                 e.Raison,
		DernierActeur:          auteur,
		DerniereActionLe:       now,
		OngletChecklistAssocie: e.OngletChecklistAssocie,
		Libelle:                e.Libelle,
	}

	if e.Type.EstInterne() {
		record.Statut = StatutValide
		return Identifiant(string(BaseLibreGestionnaire), id), record, nil
	}

	onglet := e.Onglet
	if !onglet.IsValid() {
		onglet = OngletInformationsAdditionnelles
	}
	record.Statut = StatutAReclamer
	record.StatutReclamation = ReclamationImmediate
	record.ReclameLe = now
	return Identifiant(string(onglet), id), record, nil
}
