package proposition

import (
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// ChoixStatutProposition: общий статус предложения (заявки).
type ChoixStatutProposition string

const (
	StatutEnBrouillon                ChoixStatutProposition = "EN_BROUILLON"
	StatutEnAttenteDeSignature       ChoixStatutProposition = "EN_ATTENTE_DE_SIGNATURE"
	StatutFraisDossierEnAttente      ChoixStatutProposition = "FRAIS_DOSSIER_EN_ATTENTE"
	StatutConfirmee                  ChoixStatutProposition = "CONFIRMEE"
	StatutTraitementFac              ChoixStatutProposition = "TRAITEMENT_FAC"
	StatutRetourDeFac                ChoixStatutProposition = "RETOUR_DE_FAC"
	StatutACompleterPourFac          ChoixStatutProposition = "A_COMPLETER_POUR_FAC"
	StatutACompleterPourSic          ChoixStatutProposition = "A_COMPLETER_POUR_SIC"
	StatutCompleteePourFac           ChoixStatutProposition = "COMPLETEE_POUR_FAC"
	StatutCompleteePourSic           ChoixStatutProposition = "COMPLETEE_POUR_SIC"
	StatutAttenteValidationDirection ChoixStatutProposition = "ATTENTE_VALIDATION_DIRECTION"
	StatutInscriptionAutorisee       ChoixStatutProposition = "INSCRIPTION_AUTORISEE"
	StatutInscriptionRefusee         ChoixStatutProposition = "INSCRIPTION_REFUSEE"
	StatutAnnulee                    ChoixStatutProposition = "ANNULEE"
)

// IsValid проверяет, что статус известен.
func (s ChoixStatutProposition) IsValid() bool {
	switch s {
	case StatutEnBrouillon, StatutEnAttenteDeSignature, StatutFraisDossierEnAttente, StatutConfirmee,
		StatutTraitementFac, StatutRetourDeFac, StatutACompleterPourFac, StatutACompleterPourSic,
		StatutCompleteePourFac, StatutCompleteePourSic, StatutAttenteValidationDirection,
		StatutInscriptionAutorisee, StatutInscriptionRefusee, StatutAnnulee:
		return true
	default:
		return false
	}
}

// EstTerminal возвращает true для статусов, из которых нет выхода.
func (s ChoixStatutProposition) EstTerminal() bool {
	return s == StatutInscriptionAutorisee || s == StatutInscriptionRefusee || s == StatutAnnulee
}

// EstSoumise возвращает true, если заявка уже подана.
func (s ChoixStatutProposition) EstSoumise() bool {
	return s != StatutEnBrouillon && s != StatutEnAttenteDeSignature && s != StatutAnnulee
}

// StatutsEnCours возвращает статусы поданных и ещё не закрытых заявок.
func StatutsEnCours() []ChoixStatutProposition {
	return []ChoixStatutProposition{
		StatutFraisDossierEnAttente, StatutConfirmee, StatutTraitementFac, StatutRetourDeFac,
		StatutACompleterPourFac, StatutACompleterPourSic, StatutCompleteePourFac,
		StatutCompleteePourSic, StatutAttenteValidationDirection,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITIONS
// ══════════════════════════════════════════════════════════════════════════════

// Operation: операция агрегата, меняющая статус.
type Operation string

const (
	OpVerrouillerPourSignature        Operation = "VerrouillerPourSignature"
	OpDeverrouillerSignature          Operation = "DeverrouillerSignature"
	OpSoumettre                       Operation = "Soumettre"
	OpPayerFraisDossier               Operation = "PayerFraisDossier"
	OpSpecifierPaiementPlusNecessaire Operation = "SpecifierPaiementPlusNecessaire"
	OpSpecifierPaiementNecessaire     Operation = "SpecifierPaiementNecessaire"
	OpEnvoyerALaFac                   Operation = "EnvoyerALaFac"
	OpApprouverParFac                 Operation = "ApprouverParFac"
	OpRefuserParFac                   Operation = "RefuserParFac"
	OpReclamerDocumentsFac            Operation = "ReclamerDocumentsFac"
	OpReclamerDocumentsSic            Operation = "ReclamerDocumentsSic"
	OpAnnulerReclamation              Operation = "AnnulerReclamation"
	OpCompleterDocuments              Operation = "CompleterDocuments"
	OpEnvoyerAValidationDirection     Operation = "EnvoyerAValidationDirection"
	OpApprouverParSic                 Operation = "ApprouverParSic"
	OpRefuserParSic                   Operation = "RefuserParSic"
	OpAnnuler                         Operation = "Annuler"
)

// Edge: допустимый переход статуса.
type Edge struct {
	Operation Operation
	Contextes []formation.Contexte
	From      ChoixStatutProposition
	To        ChoixStatutProposition
}

var (
	tous         = []formation.Contexte{formation.ContexteGenerale, formation.ContexteDoctorat, formation.ContexteContinue}
	generale     = []formation.Contexte{formation.ContexteGenerale}
	doctorat     = []formation.Contexte{formation.ContexteDoctorat}
	continues    = []formation.Contexte{formation.ContexteContinue}
	avecSic      = []formation.Contexte{formation.ContexteGenerale, formation.ContexteDoctorat}
	sansDoctorat = []formation.Contexte{formation.ContexteGenerale, formation.ContexteContinue}
)

// edges: полный граф статусов. Любая пара (статус, операция) вне этой
// таблицы запрещена.
var edges = []Edge{
	{OpVerrouillerPourSignature, doctorat, StatutEnBrouillon, StatutEnAttenteDeSignature},
	{OpDeverrouillerSignature, doctorat, StatutEnAttenteDeSignature, StatutEnBrouillon},

	{OpSoumettre, doctorat, StatutEnAttenteDeSignature, StatutConfirmee},
	{OpSoumettre, generale, StatutEnBrouillon, StatutFraisDossierEnAttente},
	{OpSoumettre, generale, StatutEnBrouillon, StatutConfirmee},
	{OpSoumettre, continues, StatutEnBrouillon, StatutConfirmee},

	{OpPayerFraisDossier, generale, StatutFraisDossierEnAttente, StatutConfirmee},
	{OpSpecifierPaiementPlusNecessaire, generale, StatutFraisDossierEnAttente, StatutConfirmee},
	{OpSpecifierPaiementNecessaire, generale, StatutConfirmee, StatutFraisDossierEnAttente},

	{OpEnvoyerALaFac, tous, StatutConfirmee, StatutTraitementFac},
	{OpEnvoyerALaFac, tous, StatutCompleteePourSic, StatutTraitementFac},
	{OpEnvoyerALaFac, tous, StatutRetourDeFac, StatutTraitementFac},

	{OpApprouverParFac, sansDoctorat, StatutTraitementFac, StatutRetourDeFac},
	{OpApprouverParFac, sansDoctorat, StatutCompleteePourFac, StatutRetourDeFac},
	{OpApprouverParFac, doctorat, StatutTraitementFac, StatutConfirmee},
	{OpApprouverParFac, doctorat, StatutCompleteePourFac, StatutConfirmee},
	{OpRefuserParFac, sansDoctorat, StatutTraitementFac, StatutRetourDeFac},
	{OpRefuserParFac, sansDoctorat, StatutCompleteePourFac, StatutRetourDeFac},
	{OpRefuserParFac, doctorat, StatutTraitementFac, StatutConfirmee},
	{OpRefuserParFac, doctorat, StatutCompleteePourFac, StatutConfirmee},

	{OpReclamerDocumentsFac, tous, StatutTraitementFac, StatutACompleterPourFac},
	{OpReclamerDocumentsSic, tous, StatutConfirmee, StatutACompleterPourSic},
	{OpReclamerDocumentsSic, tous, StatutRetourDeFac, StatutACompleterPourSic},
	{OpReclamerDocumentsSic, tous, StatutCompleteePourSic, StatutACompleterPourSic},
	{OpAnnulerReclamation, tous, StatutACompleterPourFac, StatutTraitementFac},
	{OpAnnulerReclamation, tous, StatutACompleterPourSic, StatutConfirmee},
	{OpCompleterDocuments, tous, StatutACompleterPourFac, StatutCompleteePourFac},
	{OpCompleterDocuments, tous, StatutACompleterPourSic, StatutCompleteePourSic},

	{OpEnvoyerAValidationDirection, avecSic, StatutConfirmee, StatutAttenteValidationDirection},
	{OpEnvoyerAValidationDirection, avecSic, StatutRetourDeFac, StatutAttenteValidationDirection},
	{OpEnvoyerAValidationDirection, avecSic, StatutCompleteePourSic, StatutAttenteValidationDirection},
	{OpApprouverParSic, avecSic, StatutAttenteValidationDirection, StatutInscriptionAutorisee},
	{OpRefuserParSic, avecSic, StatutConfirmee, StatutInscriptionRefusee},
	{OpRefuserParSic, avecSic, StatutRetourDeFac, StatutInscriptionRefusee},
	{OpRefuserParSic, avecSic, StatutCompleteePourSic, StatutInscriptionRefusee},
	{OpRefuserParSic, avecSic, StatutAttenteValidationDirection, StatutInscriptionRefusee},

	{OpAnnuler, tous, StatutEnBrouillon, StatutAnnulee},
	{OpAnnuler, doctorat, StatutEnAttenteDeSignature, StatutAnnulee},
}

// Edges возвращает копию графа статусов.
func Edges() []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

func contient(contextes []formation.Contexte, c formation.Contexte) bool {
	for _, x := range contextes {
		if x == c {
			return true
		}
	}
	return false
}

// Destinations возвращает статусы, достижимые операцией из данного статуса.
func Destinations(op Operation, contexte formation.Contexte, from ChoixStatutProposition) []ChoixStatutProposition {
	var out []ChoixStatutProposition
	for _, e := range edges {
		if e.Operation == op && e.From == from && contient(e.Contextes, contexte) {
			out = append(out, e.To)
		}
	}
	return out
}

// PeutExecuter проверяет, что операция допустима из данного статуса.
func PeutExecuter(op Operation, contexte formation.Contexte, from ChoixStatutProposition) bool {
	return len(Destinations(op, contexte, from)) > 0
}

// VerifierTransition проверяет конкретное ребро графа.
func VerifierTransition(op Operation, contexte formation.Contexte, from, to ChoixStatutProposition) error {
	for _, dest := range Destinations(op, contexte, from) {
		if dest == to {
			return nil
		}
	}
	return erreurTransition(op, from)
}

func erreurTransition(op Operation, from ChoixStatutProposition) error {
	return shared.WrapError("proposition", string(op), shared.ErrStateTransition,
		"status "+string(from), shared.ErrTransitionInterdite)
}
