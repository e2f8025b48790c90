package proposition

import (
	"fmt"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUSINESS EXCEPTIONS
// Каждое нарушенное бизнес-правило возвращается как отдельный *shared.BusinessError.
// Kind стабилен и используется клиентами API.
// ══════════════════════════════════════════════════════════════════════════════

const (
	KindMaximumPropositionsAtteint             = "MaximumPropositionsAtteintException"
	KindPropositionNonTrouvee                  = "PropositionNonTrouveeException"
	KindCandidatNonTrouve                      = "CandidatNonTrouveException"
	KindIdentificationNonCompletee             = "IdentificationNonCompleteeException"
	KindNumeroIdentiteNonSpecifie              = "NumeroIdentiteNonSpecifieException"
	KindNumeroIdentiteBelgeNonSpecifie         = "NumeroIdentiteBelgeNonSpecifieException"
	KindDateOuAnneeNaissanceNonSpecifiee       = "DateOuAnneeNaissanceNonSpecifieeException"
	KindAdresseDomicileLegalNonCompletee       = "AdresseDomicileLegalNonCompleteeException"
	KindAdresseCorrespondanceNonCompletee      = "AdresseCorrespondanceNonCompleteeException"
	KindLanguesConnuesNonSpecifiees            = "LanguesConnuesNonSpecifieesException"
	KindFichierCurriculumNonRenseigne          = "FichierCurriculumNonRenseigneException"
	KindAnneesCurriculumNonSpecifiees          = "AnneesCurriculumNonSpecifieesException"
	KindQuestionsSpecifiquesNonCompletees      = "QuestionsSpecifiquesNonCompleteesException"
	KindExperiencesAcademiquesNonCompletees    = "ExperiencesAcademiquesNonCompleteesException"
	KindTitreAccesEtreSelectionne              = "TitreAccesEtreSelectionneException"
	KindConditionAccesEtreSelectionne          = "ConditionAccesEtreSelectionneException"
	KindInformationsAcceptationNonSpecifiees   = "InformationsAcceptationNonSpecifieesException"
	KindParcoursAnterieurNonSuffisant          = "ParcoursAnterieurNonSuffisantException"
	KindDocumentAReclamerImmediat              = "DocumentAReclamerImmediatException"
	KindPaiementNonRealise                     = "PaiementNonRealiseException"
	KindPropositionPourPaiementInvalide        = "PropositionPourPaiementInvalideException"
	KindAucunDocumentAReclamer                 = "AucunDocumentAReclamerException"
	KindMotifsRefusNonSpecifies                = "MotifsRefusNonSpecifiesException"
	KindTypeEquivalenceNonSpecifie             = "TypeEquivalenceNonSpecifieException"
	KindStatutsChecklistExperiencesEtreValides = "StatutsChecklistExperiencesEtreValidesException"
)

func MaximumPropositionsAtteint(maximum int) *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-1", KindMaximumPropositionsAtteint,
		fmt.Sprintf("You cannot have more than %d applications in progress at the same time.", maximum))
}

func PropositionNonTrouvee() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-3", KindPropositionNonTrouvee, "Proposition not found.")
}

func CandidatNonTrouve() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-24", KindCandidatNonTrouve, "Candidate not found.")
}

func IdentificationNonCompletee() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-25", KindIdentificationNonCompletee,
		"Please fill in all the required information in the 'Personal Data > Identification' tab.")
}

func NumeroIdentiteNonSpecifie() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-26", KindNumeroIdentiteNonSpecifie,
		"Please specify at least one identity number.")
}

func NumeroIdentiteBelgeNonSpecifie() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-27", KindNumeroIdentiteBelgeNonSpecifie,
		"Please specify your Belgian national register number.")
}

func DateOuAnneeNaissanceNonSpecifiee() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-28", KindDateOuAnneeNaissanceNonSpecifiee,
		"Please specify either your date of birth or your year of birth.")
}

func AdresseDomicileLegalNonCompletee() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-31", KindAdresseDomicileLegalNonCompletee,
		"Please fill in all the required information in the 'Personal Data > Coordinates' tab.")
}

func AdresseCorrespondanceNonCompletee() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-32", KindAdresseCorrespondanceNonCompletee,
		"Please fill in all the required information related to your contact address.")
}

func LanguesConnuesNonSpecifiees() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-33", KindLanguesConnuesNonSpecifiees,
		"Please fill in all the required information in the 'Previous experience > Knowledge of languages' tab.")
}

func FichierCurriculumNonRenseigne() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-34", KindFichierCurriculumNonRenseigne,
		"Please provide a copy of your curriculum.")
}

// AnneesCurriculumNonSpecifiees несёт в сообщении метку пропущенного периода,
// например "De Septembre 2010 à Février 2011".
func AnneesCurriculumNonSpecifiees(periode string) *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-35", KindAnneesCurriculumNonSpecifiees, periode)
}

func QuestionsSpecifiquesNonCompletees() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-38", KindQuestionsSpecifiquesNonCompletees,
		"Please answer all the required specific questions.")
}

func ExperiencesAcademiquesNonCompletees(nom string) *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-49", KindExperiencesAcademiquesNonCompletees,
		fmt.Sprintf("The educational experience '%s' is not completed.", nom))
}

func TitreAccesEtreSelectionne() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-53", KindTitreAccesEtreSelectionne,
		"You must choose a title of access among the previous experiences of the candidate.")
}

func ConditionAccesEtreSelectionne() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-54", KindConditionAccesEtreSelectionne,
		"You must choose an admission requirement.")
}

func InformationsAcceptationNonSpecifiees() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-55", KindInformationsAcceptationNonSpecifiees,
		"Please specify all the information required for the approval.")
}

func ParcoursAnterieurNonSuffisant() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-57", KindParcoursAnterieurNonSuffisant,
		`The Previous experience must be in the "Sufficient" status in order to do this action.`)
}

func DocumentAReclamerImmediat() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-58", KindDocumentAReclamerImmediat,
		"The authorization can not be done while there is one or more documents to be requested immediately.")
}

func PaiementNonRealise() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-59", KindPaiementNonRealise,
		"The payment of the application fee has not been made.")
}

func PropositionPourPaiementInvalide() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-60", KindPropositionPourPaiementInvalide,
		"The application is not awaiting the payment of the application fee.")
}

func AucunDocumentAReclamer() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-61", KindAucunDocumentAReclamer,
		"There is no document to request.")
}

func MotifsRefusNonSpecifies() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-62", KindMotifsRefusNonSpecifies,
		"Please specify at least one reason for the refusal.")
}

func TypeEquivalenceNonSpecifie() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-67", KindTypeEquivalenceNonSpecifie,
		"Please specify the type of equivalence of the foreign secondary diploma.")
}

func StatutsChecklistExperiencesEtreValides() *shared.BusinessError {
	return shared.NewBusinessError("PROPOSITION-69", KindStatutsChecklistExperiencesEtreValides,
		"All experiences must be in the 'Validated' status so that the previous experience can be changed to the 'Sufficient' status.")
}
