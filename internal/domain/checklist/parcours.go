package checklist

import (
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// Keys of a prior-curriculum child's extra values.
const (
	ExtraIdentifiant                 = "identifiant"
	ExtraAuthentification            = "authentification"
	ExtraEtatAuthentification        = "etat_authentification"
	ExtraCommentaireAuthentification = "commentaire_authentification"
)

// IdentifiantEtudesSecondaires keys the child covering secondary studies.
const IdentifiantEtudesSecondaires = "ETUDES_SECONDAIRES"

const libelleATraiter = "To be processed"

// StatutValidationExperience is the manager's verdict on one experience.
type StatutValidationExperience string

const (
	ValidationATraiter         StatutValidationExperience = "A_TRAITER"
	ValidationACompleter       StatutValidationExperience = "A_COMPLETER"
	ValidationAvisExpert       StatutValidationExperience = "AVIS_EXPERT"
	ValidationAuthentification StatutValidationExperience = "AUTHENTIFICATION"
	ValidationValidee          StatutValidationExperience = "VALIDEE"
)

type validationConfig struct {
	statut           ChoixStatutChecklist
	libelle          string
	authentification bool
}

var validations = map[StatutValidationExperience]validationConfig{
	ValidationATraiter:         {InitialCandidat, libelleATraiter, false},
	ValidationACompleter:       {GestBlocage, "To be completed", false},
	ValidationAvisExpert:       {GestEnCours, "Expert opinion", false},
	ValidationAuthentification: {GestEnCours, "Authentication", true},
	ValidationValidee:          {GestReussite, "Validated", false},
}

// IsValid checks the validation status is known.
func (s StatutValidationExperience) IsValid() bool {
	_, ok := validations[s]
	return ok
}

// EtatAuthentificationParcours is the progress of an authentication request
// sent to the institution that issued a document.
type EtatAuthentificationParcours string

const (
	AuthentificationNonConcerne   EtatAuthentificationParcours = "NON_CONCERNE"
	AuthentificationEtablissement EtatAuthentificationParcours = "ETABLISSEMENT_CONTACTE"
	AuthentificationDemandee      EtatAuthentificationParcours = "AUTHENTIFICATION_DEMANDEE"
	AuthentificationVrai          EtatAuthentificationParcours = "VRAI"
	AuthentificationFaux          EtatAuthentificationParcours = "FAUX"
)

// IsValid checks the state is known.
func (e EtatAuthentificationParcours) IsValid() bool {
	switch e {
	case AuthentificationNonConcerne, AuthentificationEtablissement, AuthentificationDemandee,
		AuthentificationVrai, AuthentificationFaux:
		return true
	default:
		return false
	}
}

// NouvelEnfant creates the initial node of one experience.
func NouvelEnfant(identifiant string) StatutChecklist {
	return StatutChecklist{
		Libelle: libelleATraiter,
		Enfants: []StatutChecklist{},
		Statut:  InitialCandidat,
		Extra: map[string]string{
			ExtraIdentifiant:                 identifiant,
			ExtraEtatAuthentification:        string(AuthentificationNonConcerne),
			ExtraCommentaireAuthentification: "",
		},
	}
}

// NouveauParcours creates the prior-curriculum area with one child per
// experience, followed by the secondary studies child.
func NouveauParcours(identifiants []string) *StatutChecklist {
	p := Nouveau(InitialCandidat, libelleATraiter)
	for _, id := range identifiants {
		p.Enfants = append(p.Enfants, NouvelEnfant(id))
	}
	p.Enfants = append(p.Enfants, NouvelEnfant(IdentifiantEtudesSecondaires))
	return p
}

// SynchroniserEnfants aligns the children with the current experiences:
// children of removed experiences are pruned, new experiences are appended,
// existing children keep their order and state. The secondary studies
// child is always kept.
func (s *StatutChecklist) SynchroniserEnfants(identifiants []string) {
	voulus := make(map[string]bool, len(identifiants)+1)
	for _, id := range identifiants {
		voulus[id] = true
	}
	voulus[IdentifiantEtudesSecondaires] = true

	gardes := make([]StatutChecklist, 0, len(voulus))
	presents := make(map[string]bool, len(s.Enfants))
	for _, enfant := range s.Enfants {
		id := enfant.Extra[ExtraIdentifiant]
		if voulus[id] && !presents[id] {
			gardes = append(gardes, enfant)
			presents[id] = true
		}
	}
	for _, id := range identifiants {
		if !presents[id] {
			gardes = append(gardes, NouvelEnfant(id))
			presents[id] = true
		}
	}
	if !presents[IdentifiantEtudesSecondaires] {
		gardes = append(gardes, NouvelEnfant(IdentifiantEtudesSecondaires))
	}
	s.Enfants = gardes
}

// StatutValidation returns the validation status of an experience child.
func (s *StatutChecklist) StatutValidation() StatutValidationExperience {
	auth := s.Extra[ExtraAuthentification] == "1"
	for _, v := range []StatutValidationExperience{
		ValidationATraiter, ValidationACompleter, ValidationAuthentification, ValidationAvisExpert, ValidationValidee,
	} {
		cfg := validations[v]
		if cfg.statut == s.Statut && cfg.authentification == auth {
			return v
		}
	}
	return ValidationATraiter
}

// ModifierStatutValidation sets the validation status of an experience
// child. The authentication state is kept.
func (s *StatutChecklist) ModifierStatutValidation(statut StatutValidationExperience) error {
	cfg, ok := validations[statut]
	if !ok {
		return shared.ErrStatutChecklistInvalide
	}
	s.Statut = cfg.statut
	s.Libelle = cfg.libelle
	if s.Extra == nil {
		s.Extra = map[string]string{}
	}
	if cfg.authentification {
		s.Extra[ExtraAuthentification] = "1"
	} else {
		delete(s.Extra, ExtraAuthentification)
	}
	return nil
}

// ModifierAuthentification records the authentication state of an
// experience child. Only allowed while the experience is being authenticated.
func (s *StatutChecklist) ModifierAuthentification(etat EtatAuthentificationParcours, commentaire string) error {
	if s.StatutValidation() != ValidationAuthentification {
		return shared.ErrAuthentificationInterdite
	}
	if !etat.IsValid() {
		return shared.ErrStatutChecklistInvalide
	}
	s.Extra[ExtraEtatAuthentification] = string(etat)
	s.Extra[ExtraCommentaireAuthentification] = commentaire
	return nil
}
