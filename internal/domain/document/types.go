// Package document models the supporting documents of a proposition:
// the slots that may hold them, their request state, and the engine that
// derives the applicable slots from the applicant's situation.
package document

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// TypeEmplacementDocument tells who created a slot and who may request it.
type TypeEmplacementDocument string

const (
	TypeNonLibre           TypeEmplacementDocument = "NON_LIBRE"
	TypeLibreReclamableSic TypeEmplacementDocument = "LIBRE_RECLAMABLE_SIC"
	TypeLibreReclamableFac TypeEmplacementDocument = "LIBRE_RECLAMABLE_FAC"
	TypeLibreInterneSic    TypeEmplacementDocument = "LIBRE_INTERNE_SIC"
	TypeLibreInterneFac    TypeEmplacementDocument = "LIBRE_INTERNE_FAC"
	TypeSysteme            TypeEmplacementDocument = "SYSTEME"
)

// IsValid checks the type is known.
func (t TypeEmplacementDocument) IsValid() bool {
	switch t {
	case TypeNonLibre, TypeLibreReclamableSic, TypeLibreReclamableFac,
		TypeLibreInterneSic, TypeLibreInterneFac, TypeSysteme:
		return true
	default:
		return false
	}
}

// EstLibre reports whether the slot was created by a manager.
func (t TypeEmplacementDocument) EstLibre() bool {
	return strings.HasPrefix(string(t), "LIBRE_")
}

// EstInterne reports whether the slot is never shown to the candidate.
func (t TypeEmplacementDocument) EstInterne() bool {
	return t == TypeLibreInterneSic || t == TypeLibreInterneFac || t == TypeSysteme
}

// EstReclamable reports whether the candidate can be asked for the document.
func (t TypeEmplacementDocument) EstReclamable() bool {
	return t == TypeNonLibre || t == TypeLibreReclamableSic || t == TypeLibreReclamableFac
}

// StatutEmplacementDocument is the request state of a slot.
type StatutEmplacementDocument string

const (
	StatutNonReclame               StatutEmplacementDocument = "NON_RECLAME"
	StatutNonAnalyse               StatutEmplacementDocument = "NON_ANALYSE"
	StatutAReclamer                StatutEmplacementDocument = "A_RECLAMER"
	StatutReclame                  StatutEmplacementDocument = "RECLAME"
	StatutCompleteApresReclamation StatutEmplacementDocument = "COMPLETE_APRES_RECLAMATION"
	StatutValide                   StatutEmplacementDocument = "VALIDE"
)

// IsValid checks the status is known.
func (s StatutEmplacementDocument) IsValid() bool {
	switch s {
	case StatutNonReclame, StatutNonAnalyse, StatutAReclamer, StatutReclame,
		StatutCompleteApresReclamation, StatutValide:
		return true
	default:
		return false
	}
}

// StatutReclamationEmplacementDocument is the urgency of a request.
type StatutReclamationEmplacementDocument string

const (
	ReclamationAucune                    StatutReclamationEmplacementDocument = ""
	ReclamationImmediate                 StatutReclamationEmplacementDocument = "IMMEDIATEMENT"
	ReclamationUlterieurementBloquant    StatutReclamationEmplacementDocument = "ULTERIEUREMENT_BLOQUANT"
	ReclamationUlterieurementNonBloquant StatutReclamationEmplacementDocument = "ULTERIEUREMENT_NON_BLOQUANT"
)

// IsValid checks the urgency is known (empty allowed).
func (s StatutReclamationEmplacementDocument) IsValid() bool {
	switch s {
	case ReclamationAucune, ReclamationImmediate, ReclamationUlterieurementBloquant, ReclamationUlterieurementNonBloquant:
		return true
	default:
		return false
	}
}

// OngletsDemande are the tabs of the application form.
type OngletsDemande string

const (
	OngletIdentification             OngletsDemande = "IDENTIFICATION"
	OngletCoordonnees                OngletsDemande = "COORDONNEES"
	OngletChoixFormation             OngletsDemande = "CHOIX_FORMATION"
	OngletEtudesSecondaires          OngletsDemande = "ETUDES_SECONDAIRES"
	OngletCurriculum                 OngletsDemande = "CURRICULUM"
	OngletLangues                    OngletsDemande = "LANGUES"
	OngletComptabilite               OngletsDemande = "COMPTABILITE"
	OngletProjet                     OngletsDemande = "PROJET"
	OngletCotutelle                  OngletsDemande = "COTUTELLE"
	OngletSupervision                OngletsDemande = "SUPERVISION"
	OngletInformationsAdditionnelles OngletsDemande = "INFORMATIONS_ADDITIONNELLES"
	OngletConfirmation               OngletsDemande = "CONFIRMATION"
	OngletSuiteAutorisation          OngletsDemande = "SUITE_AUTORISATION"
)

// IsValid checks the tab is known.
func (o OngletsDemande) IsValid() bool {
	switch o {
	case OngletIdentification, OngletCoordonnees, OngletChoixFormation, OngletEtudesSecondaires,
		OngletCurriculum, OngletLangues, OngletComptabilite, OngletProjet, OngletCotutelle,
		OngletSupervision, OngletInformationsAdditionnelles, OngletConfirmation, OngletSuiteAutorisation:
		return true
	default:
		return false
	}
}

// IdentifiantBase are the identifier categories that are not tabs.
type IdentifiantBase string

const (
	BaseQuestionSpecifique IdentifiantBase = "QUESTION_SPECIFIQUE"
	BaseLibreCandidat      IdentifiantBase = "LIBRE_CANDIDAT"
	BaseLibreGestionnaire  IdentifiantBase = "LIBRE_GESTIONNAIRE"
	BaseSysteme            IdentifiantBase = "SYSTEME"
)

// Identifiant joins identifier segments with dots.
func Identifiant(parts ...string) string {
	return strings.Join(parts, ".")
}

// Categorie returns the first segment of an identifier.
func Categorie(identifiant string) string {
	if i := strings.IndexByte(identifiant, '.'); i >= 0 {
		return identifiant[:i]
	}
	return identifiant
}

// NomEmplacement returns the last segment of an identifier.
func NomEmplacement(identifiant string) string {
	if i := strings.LastIndexByte(identifiant, '.'); i >= 0 {
		return identifiant[i+1:]
	}
	return identifiant
}
