package proposition

import (
	"strings"
	"time"

	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION
// ══════════════════════════════════════════════════════════════════════════════

// ValidatorIdentification проверяет вкладку идентификации.
type ValidatorIdentification struct {
	Identification *profil.Identification
}

func (v ValidatorIdentification) Rules() []validation.Rule {
	id := v.Identification
	if id == nil {
		return []validation.Rule{validation.Require(false, CandidatNonTrouve())}
	}
	return []validation.Rule{
		validation.Require(id.NomsCompletes(), IdentificationNonCompletee()),
		validation.Require(id.AUnNumeroIdentite(), NumeroIdentiteNonSpecifie()),
		validation.When(id.EstBelge(),
			validation.Require(id.NumeroRegistreNationalBelge != "", NumeroIdentiteBelgeNonSpecifie())),
		validation.Require(id.DateNaissance != nil || id.AnneeNaissance > 0, DateOuAnneeNaissanceNonSpecifiee()),
	}
}

// ValidatorCoordonnees проверяет адреса.
type ValidatorCoordonnees struct {
	Coordonnees *profil.Coordonnees
}

func (v ValidatorCoordonnees) Rules() []validation.Rule {
	c := v.Coordonnees
	domicile := c != nil && c.DomicileLegal != nil && c.DomicileLegal.EstComplete()
	correspondance := c == nil || c.Correspondance == nil || c.Correspondance.EstComplete()
	return []validation.Rule{
		validation.Require(domicile, AdresseDomicileLegalNonCompletee()),
		validation.Require(correspondance, AdresseCorrespondanceNonCompletee()),
	}
}

// ValidatorLangues требует французский и английский для докторантуры.
type ValidatorLangues struct {
	Contexte formation.Contexte
	Langues  []profil.ConnaissanceLangue
}

func (v ValidatorLangues) Rules() []validation.Rule {
	if v.Contexte != formation.ContexteDoctorat {
		return nil
	}
	connues := make(map[string]bool, len(v.Langues))
	for _, l := range v.Langues {
		connues[l.Langue] = true
	}
	ok := connues[profil.LangueFrancais] && connues[profil.LangueAnglais]
	return []validation.Rule{validation.Require(ok, LanguesConnuesNonSpecifiees())}
}

// ValidatorCurriculum проверяет файл резюме и годы обучения.
type ValidatorCurriculum struct {
	Formation         formation.Formation
	Curriculum        *profil.Curriculum
	EtudesSecondaires *profil.EtudesSecondaires
	Fichiers          map[string][]string

	// Reference - дата, относительно которой считаются годы.
	Reference time.Time
}

func (v ValidatorCurriculum) Rules() []validation.Rule {
	contexte := v.Formation.Contexte()
	var rules []validation.Rule
	if contexte == formation.ContexteDoctorat {
		fichier := len(v.Fichiers[document.Identifiant(string(document.OngletCurriculum), "CURRICULUM")]) > 0
		rules = append(rules, validation.Require(fichier, FichierCurriculumNonRenseigne()))
	}
	if v.Curriculum == nil || contexte == formation.ContexteContinue {
		return rules
	}
	return append(rules, ReglesCurriculum(*v.Curriculum, AnneeDiplomeSecondaire(v.EtudesSecondaires), v.Reference)...)
}

// ValidatorQuestionsSpecifiques проверяет ответы на обязательные вопросы.
type ValidatorQuestionsSpecifiques struct {
	Questions []document.QuestionSpecifique
	Reponses  map[string]Reponse
	Fichiers  map[string][]string
}

func (v ValidatorQuestionsSpecifiques) Rules() []validation.Rule {
	complet := true
	for _, q := range v.Questions {
		if !q.Requis || q.Type == document.QuestionMessage {
			continue
		}
		if q.Type == document.QuestionDocument {
			id := document.Identifiant(string(document.BaseQuestionSpecifique), q.UUID)
			if len(v.Fichiers[id]) == 0 {
				complet = false
			}
			continue
		}
		if v.Reponses[q.UUID].EstVide() {
			complet = false
		}
	}
	return []validation.Rule{validation.Require(complet, QuestionsSpecifiquesNonCompletees())}
}

// ValidatorQuota ограничивает число одновременно поданных заявок.
type ValidatorQuota struct {
	Soumises int
	Maximum  int
}

func (v ValidatorQuota) Rules() []validation.Rule {
	if v.Maximum <= 0 {
		return nil
	}
	return []validation.Rule{validation.Require(v.Soumises < v.Maximum, MaximumPropositionsAtteint(v.Maximum))}
}

// ══════════════════════════════════════════════════════════════════════════════
// DECISIONS
// ══════════════════════════════════════════════════════════════════════════════

// ValidatorTitresAcces требует ровно один выбранный титул доступа.
type ValidatorTitresAcces struct {
	Titres []TitreAcces
}

func (v ValidatorTitresAcces) Rules() []validation.Rule {
	n := 0
	for _, t := range v.Titres {
		if t.Selectionne {
			n++
		}
	}
	return []validation.Rule{validation.Require(n == 1, TitreAccesEtreSelectionne())}
}

// ValidatorComplementsFormation проверяет согласованность дополнительного
// обучения.
type ValidatorComplementsFormation struct {
	Avec        *bool
	Complements []string
}

func (v ValidatorComplementsFormation) Rules() []validation.Rule {
	ok := (v.Avec == nil && len(v.Complements) == 0) ||
		(v.Avec != nil && *v.Avec == (len(v.Complements) > 0))
	return []validation.Rule{validation.Require(ok, InformationsAcceptationNonSpecifiees())}
}

// ValidatorApprobationSic: условия утверждения центральной администрацией.
type ValidatorApprobationSic struct {
	AvecConditionsComplementaires *bool
	ConditionsComplementaires     []string
	NombreAnneesPrevoirProgramme  *int
	ParcoursAnterieur             *checklist.StatutChecklist
	DocumentsDemandes             document.DocumentsDemandes
}

func (v ValidatorApprobationSic) Rules() []validation.Rule {
	conditions := v.AvecConditionsComplementaires != nil &&
		(!*v.AvecConditionsComplementaires || len(v.ConditionsComplementaires) > 0)
	parcours := v.ParcoursAnterieur != nil && v.ParcoursAnterieur.Statut == checklist.GestReussite
	return []validation.Rule{
		validation.Require(conditions, InformationsAcceptationNonSpecifiees()),
		validation.Require(v.NombreAnneesPrevoirProgramme != nil, InformationsAcceptationNonSpecifiees()),
		validation.Require(parcours, ParcoursAnterieurNonSuffisant()),
		validation.Require(len(v.DocumentsDemandes.AReclamerImmediatement()) == 0, DocumentAReclamerImmediat()),
	}
}

// ValidatorMotifsRefus требует хотя бы одну причину отказа.
type ValidatorMotifsRefus struct {
	Motifs []string
}

func (v ValidatorMotifsRefus) Rules() []validation.Rule {
	ok := false
	for _, m := range v.Motifs {
		if strings.TrimSpace(m) != "" {
			ok = true
		}
	}
	return []validation.Rule{validation.Require(ok, MotifsRefusNonSpecifies())}
}

// ══════════════════════════════════════════════════════════════════════════════
// PRIOR CURRICULUM SUFFICIENCY
// ══════════════════════════════════════════════════════════════════════════════

// ValidatorParcoursSuffisant: условия перевода parcours_anterieur в
// GEST_REUSSITE.
type ValidatorParcoursSuffisant struct {
	ConditionAcces            string
	Titres                    []TitreAcces
	Parcours                  *checklist.StatutChecklist
	ExperiencesValorisees     []string
	Formation                 formation.Formation
	EtudesSecondaires         *profil.EtudesSecondaires
	TypeEquivalenceTitreAcces string
}

func (v ValidatorParcoursSuffisant) Rules() []validation.Rule {
	rules := []validation.Rule{
		validation.Require(v.ConditionAcces != "", ConditionAccesEtreSelectionne()),
	}
	rules = append(rules, ValidatorTitresAcces{Titres: v.Titres}.Rules()...)
	rules = append(rules, v.experiencesValidees)

	es := v.EtudesSecondaires
	equivalenceRequise := v.Formation.Type.EstBachelier() && es != nil && es.DiplomeEtranger != nil &&
		es.DiplomeEtranger.NecessiteEquivalence()
	rules = append(rules, validation.When(equivalenceRequise,
		validation.Require(v.TypeEquivalenceTitreAcces != "", TypeEquivalenceNonSpecifie())))
	return rules
}

// experiencesValidees: опыт без узла чеклиста считается ошибкой данных, а не
// бизнес-правило.
func (v ValidatorParcoursSuffisant) experiencesValidees() error {
	tousValides := true
	for _, id := range v.ExperiencesValorisees {
		var enfant *checklist.StatutChecklist
		if v.Parcours != nil {
			enfant = v.Parcours.Enfant(id)
		}
		if enfant == nil {
			return shared.WrapError("proposition", "ValiderParcours", shared.ErrNotFound,
				"no checklist node for valued experience "+id, shared.ErrExperienceNonTrouvee)
		}
		if enfant.StatutValidation() != checklist.ValidationValidee {
			tousValides = false
		}
	}
	if !tousValides {
		return StatutsChecklistExperiencesEtreValides()
	}
	return nil
}
