package proposition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

var tousLesStatuts = []ChoixStatutProposition{
	StatutEnBrouillon, StatutEnAttenteDeSignature, StatutFraisDossierEnAttente, StatutConfirmee,
	StatutTraitementFac, StatutRetourDeFac, StatutACompleterPourFac, StatutACompleterPourSic,
	StatutCompleteePourFac, StatutCompleteePourSic, StatutAttenteValidationDirection,
	StatutInscriptionAutorisee, StatutInscriptionRefusee, StatutAnnulee,
}

var toutesLesOperations = []Operation{
	OpVerrouillerPourSignature, OpDeverrouillerSignature, OpSoumettre, OpPayerFraisDossier,
	OpSpecifierPaiementPlusNecessaire, OpSpecifierPaiementNecessaire, OpEnvoyerALaFac,
	OpApprouverParFac, OpRefuserParFac, OpReclamerDocumentsFac, OpReclamerDocumentsSic,
	OpAnnulerReclamation, OpCompleterDocuments, OpEnvoyerAValidationDirection,
	OpApprouverParSic, OpRefuserParSic, OpAnnuler,
}

// executer runs an operation with arguments that satisfy its business rules
// whenever the proposition fixture allows it.
func executer(p *Proposition, op Operation) error {
	const auteur = "manager"
	switch op {
	case OpVerrouillerPourSignature:
		return p.VerrouillerPourSignature(auteur, maintenant)
	case OpDeverrouillerSignature:
		return p.DeverrouillerSignature(auteur, maintenant)
	case OpSoumettre:
		_, err := p.Soumettre(soumission(profilComplet()))
		return err
	case OpPayerFraisDossier:
		return p.PayerFraisDossier(true, auteur, maintenant)
	case OpSpecifierPaiementPlusNecessaire:
		return p.SpecifierPaiementPlusNecessaire(true, auteur, maintenant)
	case OpSpecifierPaiementNecessaire:
		return p.SpecifierPaiementNecessaire(auteur, maintenant)
	case OpEnvoyerALaFac:
		return p.EnvoyerALaFac(auteur, maintenant)
	case OpApprouverParFac:
		return p.ApprouverParFac(auteur, maintenant)
	case OpRefuserParFac:
		return p.RefuserParFac([]string{"reason"}, auteur, maintenant)
	case OpReclamerDocumentsFac:
		_, err := p.ReclamerDocuments(DemandeurFac, maintenant, auteur, maintenant)
		return err
	case OpReclamerDocumentsSic:
		_, err := p.ReclamerDocuments(DemandeurSic, maintenant, auteur, maintenant)
		return err
	case OpAnnulerReclamation:
		return p.AnnulerReclamation(auteur, maintenant)
	case OpCompleterDocuments:
		_, err := p.CompleterDocuments(nil, auteur, maintenant)
		return err
	case OpEnvoyerAValidationDirection:
		return p.EnvoyerAValidationDirection(auteur, maintenant)
	case OpApprouverParSic:
		return p.ApprouverParSic(auteur, maintenant)
	case OpRefuserParSic:
		return p.RefuserParSic([]string{"reason"}, auteur, maintenant)
	case OpAnnuler:
		return p.Annuler(auteur, maintenant)
	}
	return errors.New("unknown operation " + string(op))
}

func TestOperations_RejectTransitionsOutsideGraph(t *testing.T) {
	contextes := []formation.Contexte{formation.ContexteGenerale, formation.ContexteDoctorat, formation.ContexteContinue}

	for _, c := range contextes {
		for _, op := range toutesLesOperations {
			for _, from := range tousLesStatuts {
				if PeutExecuter(op, c, from) {
					continue
				}
				t.Run(string(c)+"/"+string(op)+"/"+string(from), func(t *testing.T) {
					p := propositionSoumise(t, formationPour(c), from)
					avant := p.Clone()

					err := executer(p, op)

					require.Error(t, err)
					if op == OpPayerFraisDossier && c == formation.ContexteGenerale {
						assert.Equal(t, []string{KindPropositionPourPaiementInvalide}, kinds(t, err))
					} else {
						assert.True(t, shared.IsInvalidState(err), "%v", err)
						assert.True(t, errors.Is(err, shared.ErrTransitionInterdite), "%v", err)
					}
					assert.Equal(t, avant, p)
				})
			}
		}
	}
}

func TestOperations_FollowGraphEdges(t *testing.T) {
	sansRegles := map[Operation]bool{
		OpVerrouillerPourSignature:        true,
		OpDeverrouillerSignature:          true,
		OpSpecifierPaiementPlusNecessaire: true,
		OpSpecifierPaiementNecessaire:     true,
		OpEnvoyerALaFac:                   true,
		OpAnnulerReclamation:              true,
		OpEnvoyerAValidationDirection:     true,
		OpAnnuler:                         true,
		OpRefuserParFac:                   true,
		OpRefuserParSic:                   true,
	}

	for _, e := range Edges() {
		if !sansRegles[e.Operation] {
			continue
		}
		for _, c := range e.Contextes {
			t.Run(string(c)+"/"+string(e.Operation)+"/"+string(e.From), func(t *testing.T) {
				p := propositionSoumise(t, formationPour(c), e.From)

				require.NoError(t, executer(p, e.Operation))

				assert.Equal(t, e.To, p.Statut)
				assert.Equal(t, "manager", p.AuteurDerniereModification)
				assert.Equal(t, maintenant, p.ModifieeLe)
			})
		}
	}
}

func TestVerifierTransition(t *testing.T) {
	assert.NoError(t, VerifierTransition(OpSoumettre, formation.ContexteGenerale, StatutEnBrouillon, StatutFraisDossierEnAttente))
	assert.NoError(t, VerifierTransition(OpSoumettre, formation.ContexteGenerale, StatutEnBrouillon, StatutConfirmee))
	assert.Error(t, VerifierTransition(OpSoumettre, formation.ContexteContinue, StatutEnBrouillon, StatutFraisDossierEnAttente))
	assert.Error(t, VerifierTransition(OpSoumettre, formation.ContexteDoctorat, StatutEnBrouillon, StatutConfirmee))

	assert.Equal(t, []ChoixStatutProposition{StatutConfirmee},
		Destinations(OpApprouverParFac, formation.ContexteDoctorat, StatutTraitementFac))
	assert.Equal(t, []ChoixStatutProposition{StatutRetourDeFac},
		Destinations(OpApprouverParFac, formation.ContexteContinue, StatutCompleteePourFac))
	assert.Empty(t, Destinations(OpApprouverParSic, formation.ContexteContinue, StatutAttenteValidationDirection))
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, e := range Edges() {
		assert.False(t, e.From.EstTerminal(), "%s leaves terminal status %s", e.Operation, e.From)
		assert.True(t, e.From.IsValid())
		assert.True(t, e.To.IsValid())
	}
}
