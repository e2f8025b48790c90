// Package formation describes the training an admission proposition targets.
package formation

// TypeFormation is the kind of training.
type TypeFormation string

const (
	TypeBachelier               TypeFormation = "BACHELIER"
	TypeMaster                  TypeFormation = "MASTER"
	TypeAgregationSecondaireSup TypeFormation = "AGREGATION_ENSEIGNEMENT_SECONDAIRE_SUPERIEUR"
	TypeCapaes                  TypeFormation = "CAPAES"
	TypeDoctorat                TypeFormation = "DOCTORAT"
	TypeCertificat              TypeFormation = "CERTIFICAT"
	TypeFormationContinue       TypeFormation = "FORMATION_CONTINUE"
)

// IsValid checks the type is known.
func (t TypeFormation) IsValid() bool {
	switch t {
	case TypeBachelier, TypeMaster, TypeAgregationSecondaireSup, TypeCapaes,
		TypeDoctorat, TypeCertificat, TypeFormationContinue:
		return true
	default:
		return false
	}
}

// Contexte returns the workflow context the training belongs to.
func (t TypeFormation) Contexte() Contexte {
	switch t {
	case TypeDoctorat:
		return ContexteDoctorat
	case TypeCertificat, TypeFormationContinue:
		return ContexteContinue
	default:
		return ContexteGenerale
	}
}

// EstBachelier reports whether the training is a first-cycle bachelor.
func (t TypeFormation) EstBachelier() bool {
	return t == TypeBachelier
}

// EstAssimileBachelier reports trainings requiring an equivalence of a
// bachelor diploma obtained abroad.
func (t TypeFormation) EstAssimileBachelier() bool {
	switch t {
	case TypeAgregationSecondaireSup, TypeCapaes:
		return true
	default:
		return false
	}
}

// Contexte is the admission workflow family: each has its own status graph
// and checklist areas.
type Contexte string

const (
	ContexteGenerale Contexte = "GENERALE"
	ContexteDoctorat Contexte = "DOCTORAT"
	ContexteContinue Contexte = "CONTINUE"
)

// Domain codes for which foreign secondary diplomas always need an equivalence.
var domainesMedecineDentisterie = map[string]bool{
	"11A": true, // médecine
	"11J": true, // sciences dentaires
	"13F": true, // médecine vétérinaire
}

// Formation identifies a training for one academic year.
type Formation struct {
	Sigle       string        `json:"sigle"`
	Annee       int           `json:"annee"`
	Intitule    string        `json:"intitule"`
	Type        TypeFormation `json:"type"`
	CodeDomaine string        `json:"code_domaine"`
	Campus      string        `json:"campus"`
}

// Contexte returns the workflow context of the training.
func (f Formation) Contexte() Contexte {
	return f.Type.Contexte()
}

// EstMedecineDentisterie reports whether the training is in a medicine or
// dentistry assimilated domain.
func (f Formation) EstMedecineDentisterie() bool {
	return domainesMedecineDentisterie[f.CodeDomaine]
}
