package checklist

import "github.com/alem-hub/admission-workflow/internal/domain/formation"

// Libelles of the fee area set by system operations.
const (
	LibelleFraisDus         = "Must pay"
	LibelleFraisPayes       = "Payed"
	LibelleFraisDispenses   = "Dispensed"
	LibelleFraisNonConcerne = "Not concerned"
)

// Initialisation gathers what the checklist depends on at submission.
type Initialisation struct {
	Contexte              formation.Contexte
	Experiences           []string
	AssimilationConcernee bool
	FraisDossierDus       bool
}

// Initialiser creates the checklist of a freshly submitted proposition.
func Initialiser(p Initialisation) *StatutsChecklist {
	c := &StatutsChecklist{
		DonneesPersonnelles: Nouveau(InitialCandidat, libelleATraiter),
		ChoixFormation:      Nouveau(InitialCandidat, libelleATraiter),
		ParcoursAnterieur:   NouveauParcours(p.Experiences),
	}

	if p.Contexte == formation.ContexteContinue {
		c.DecisionFacultaire = Nouveau(InitialCandidat, libelleATraiter)
		return c
	}

	if p.AssimilationConcernee {
		c.Assimilation = Nouveau(InitialCandidat, "Declared assimilated or not")
	} else {
		c.Assimilation = Nouveau(InitialNonConcerne, "Not concerned")
	}
	c.Financabilite = Nouveau(InitialCandidat, libelleATraiter)
	c.DecisionSic = Nouveau(InitialCandidat, libelleATraiter)

	switch p.Contexte {
	case formation.ContexteDoctorat:
		c.ProjetRecherche = Nouveau(InitialCandidat, libelleATraiter)
		c.DecisionCdd = Nouveau(InitialCandidat, libelleATraiter)
	default:
		c.DecisionFacultaire = Nouveau(InitialCandidat, libelleATraiter)
		if p.FraisDossierDus {
			c.FraisDossier = Nouveau(GestBlocage, LibelleFraisDus)
			c.FraisDossier.Extra["initial"] = "1"
		} else {
			c.FraisDossier = Nouveau(InitialNonConcerne, LibelleFraisNonConcerne)
		}
	}
	return c
}
