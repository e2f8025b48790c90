package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/admission-workflow/internal/mocks"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

var maintenant = time.Date(2020, time.November, 1, 10, 0, 0, 0, time.UTC)

const matricule = "0123456"

type publisherEnregistreur struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *publisherEnregistreur) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *publisherEnregistreur) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.EventType
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type observerEnregistreur struct {
	operations []string
	erreurs    int
}

func (o *observerEnregistreur) ObserveOperation(operation string, _ time.Duration, err error) {
	o.operations = append(o.operations, operation)
	if err != nil {
		o.erreurs++
	}
}

func profilComplet() proposition.Profil {
	naissance := time.Date(1995, time.March, 12, 0, 0, 0, 0, time.UTC)
	var annees []profil.AnneeExperienceAcademique
	for a := 2016; a <= 2020; a++ {
		annees = append(annees, profil.AnneeExperienceAcademique{Annee: a, Resultat: profil.ResultatReussite})
	}
	return proposition.Profil{
		Identification: &profil.Identification{
			Matricule:                   matricule,
			Nom:                         "Dupont",
			Prenom:                      "Jean",
			Sexe:                        "M",
			DateNaissance:               &naissance,
			PaysNationalite:             profil.PaysBelgique,
			PaysNationaliteUE:           true,
			PaysResidence:               profil.PaysBelgique,
			NumeroRegistreNationalBelge: "95031200123",
		},
		Coordonnees: &profil.Coordonnees{
			DomicileLegal: &profil.Adresse{Rue: "Rue de la Paix", Numero: "10", CodePostal: "1348", Ville: "Louvain-la-Neuve", Pays: profil.PaysBelgique},
		},
		Langues: []profil.ConnaissanceLangue{{Langue: profil.LangueFrancais}, {Langue: profil.LangueAnglais}},
		EtudesSecondaires: &profil.EtudesSecondaires{
			DiplomeObtenu: profil.DiplomeObtenuOui,
			AnneeDiplome:  2013,
			DiplomeBelge:  &profil.DiplomeBelge{Communaute: "FRENCH_SPEAKING"},
		},
		Curriculum: &profil.Curriculum{
			ExperiencesAcademiques: []profil.ExperienceAcademique{{
				UUID:               "exp-1",
				NomFormation:       "Bachelor in computer science",
				Pays:               profil.PaysBelgique,
				RegimeLinguistique: "FR",
				TypeReleve:         profil.ReleveUnique,
				ObtentionDiplome:   true,
				Annees:             annees,
				Complete:           true,
			}},
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SUITE
// ══════════════════════════════════════════════════════════════════════════════

type CommandSuite struct {
	suite.Suite
	ctx context.Context

	propositions *memory.PropositionRepository
	documents    *memory.DocumentRepository
	profils      *memory.ProfilTranslator
	paiements    *mocks.MockPaiementService
	pdf          *mocks.MockPdfGenerationService
	publisher    *publisherEnregistreur
	observer     *observerEnregistreur
	deps         Dependencies
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) SetupTest() {
	s.ctx = context.Background()
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)

	s.propositions = memory.NewPropositionRepository()
	s.documents = memory.NewDocumentRepository()
	s.profils = memory.NewProfilTranslator()
	s.profils.Enregistrer(matricule, profilComplet())
	s.paiements = mocks.NewMockPaiementService(ctrl)
	s.pdf = mocks.NewMockPdfGenerationService(ctrl)
	s.publisher = &publisherEnregistreur{}
	s.observer = &observerEnregistreur{}

	s.deps = Dependencies{
		Propositions: s.propositions,
		Documents:    s.documents,
		Profils:      s.profils,
		Questions:    memory.NewQuestionsSpecifiquesRepository(),
		Annees:       memory.NewAcademicYearRepository(),
		Paiements:    s.paiements,
		Pdf:          s.pdf,
		Publisher:    s.publisher,
		Observer:     s.observer,
		Logger:       logger.Discard(),
		Clock:        func() time.Time { return maintenant },
	}
}

func (s *CommandSuite) nouvelle(f formation.Formation) *proposition.Proposition {
	p, err := proposition.Nouvelle(matricule, f, proposition.TypeAdmission, maintenant)
	s.Require().NoError(err)
	s.Require().NoError(s.propositions.Save(s.ctx, p))
	s.Require().NoError(s.documents.CompleterDocumentsParCandidat(s.ctx, p.UUID, map[string][]string{
		"CURRICULUM.CURRICULUM": {"file-cv"},
	}))
	return p
}

func (s *CommandSuite) soumettre(f formation.Formation) *proposition.Proposition {
	p := s.nouvelle(f)
	_, err := NewSoumettrePropositionHandler(s.deps, DefaultSoumettrePropositionConfig()).
		Handle(s.ctx, SoumettrePropositionCommand{UUIDProposition: p.UUID})
	s.Require().NoError(err)
	return s.recharger(p.UUID)
}

func (s *CommandSuite) recharger(uuid string) *proposition.Proposition {
	p, err := s.propositions.Get(s.ctx, uuid)
	s.Require().NoError(err)
	return p
}

// preteSic stores a general proposition ready for central approval.
func (s *CommandSuite) preteSic(visa bool) *proposition.Proposition {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	faux, annees := false, 1
	p.Statut = proposition.StatutAttenteValidationDirection
	p.AvecConditionsComplementaires = &faux
	p.NombreAnneesPrevoirProgramme = &annees
	p.DoitFournirVisaEtudes = visa
	p.ChecklistActuelle.ParcoursAnterieur.Forcer(checklist.GestReussite, "Sufficient", nil)
	for id, d := range p.DocumentsDemandes {
		if d.Statut == document.StatutAReclamer {
			d.Statut = document.StatutValide
			p.DocumentsDemandes[id] = d
		}
	}
	s.Require().NoError(s.propositions.Save(s.ctx, p))
	return p
}

func kinds(t *testing.T, err error) []string {
	t.Helper()
	m, ok := shared.AsMultipleBusinessErrors(err)
	require.True(t, ok, "expected business errors, got %v", err)
	return m.Kinds()
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION & FEES
// ══════════════════════════════════════════════════════════════════════════════

func (s *CommandSuite) TestSoumettre_PersistsDocumentsAndPublishes() {
	p := s.nouvelle(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})

	res, err := NewSoumettrePropositionHandler(s.deps, DefaultSoumettrePropositionConfig()).
		Handle(s.ctx, SoumettrePropositionCommand{UUIDProposition: p.UUID})

	s.Require().NoError(err)
	s.Equal(proposition.StatutFraisDossierEnAttente, res.Statut)
	s.Equal(maintenant, res.SoumiseLe)

	stored := s.recharger(p.UUID)
	s.Equal(proposition.StatutFraisDossierEnAttente, stored.Statut)
	s.Equal(matricule, stored.AuteurDerniereModification)
	s.NotNil(stored.ChecklistInitiale)

	photo, err := s.documents.Get(s.ctx, p.UUID, "IDENTIFICATION.PHOTO_IDENTITE")
	s.Require().NoError(err)
	s.Equal(document.StatutAReclamer, photo.Statut)

	cv, err := s.documents.Get(s.ctx, p.UUID, "CURRICULUM.CURRICULUM")
	s.Require().NoError(err)
	s.Equal([]string{"file-cv"}, cv.UUIDsDocuments)

	s.Equal([]shared.EventType{shared.EventPropositionSoumise}, s.publisher.types())
	s.Equal([]string{string(proposition.OpSoumettre)}, s.observer.operations)
}

func (s *CommandSuite) TestSoumettre_BusinessErrorsLeaveStoreUntouched() {
	p := s.nouvelle(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	s.profils.Supprimer(matricule)

	_, err := NewSoumettrePropositionHandler(s.deps, DefaultSoumettrePropositionConfig()).
		Handle(s.ctx, SoumettrePropositionCommand{UUIDProposition: p.UUID})

	s.Require().Error(err)
	s.Contains(kinds(s.T(), err), proposition.KindCandidatNonTrouve)
	s.Equal(proposition.StatutEnBrouillon, s.recharger(p.UUID).Statut)
	s.Empty(s.publisher.types())
	s.Equal(1, s.observer.erreurs)
}

func (s *CommandSuite) TestSoumettre_MaximumPropositions() {
	s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	p := s.nouvelle(formation.Formation{Sigle: "BIO2M", Annee: 2020, Type: formation.TypeMaster})

	_, err := NewSoumettrePropositionHandler(s.deps, SoumettrePropositionConfig{MaximumPropositions: 1}).
		Handle(s.ctx, SoumettrePropositionCommand{UUIDProposition: p.UUID})

	s.Require().Error(err)
	s.Equal([]string{proposition.KindMaximumPropositionsAtteint}, kinds(s.T(), err))
}

func (s *CommandSuite) TestPayerFraisDossier() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	handler := NewPayerFraisDossierHandler(s.deps)

	s.paiements.EXPECT().PaiementRealise(gomock.Any(), p.UUID).Return(false, nil)
	_, err := handler.Handle(s.ctx, PayerFraisDossierCommand{UUIDProposition: p.UUID})
	s.Require().Error(err)
	s.Equal([]string{proposition.KindPaiementNonRealise}, kinds(s.T(), err))
	s.Equal(proposition.StatutFraisDossierEnAttente, s.recharger(p.UUID).Statut)

	s.paiements.EXPECT().PaiementRealise(gomock.Any(), p.UUID).Return(true, nil)
	res, err := handler.Handle(s.ctx, PayerFraisDossierCommand{UUIDProposition: p.UUID})
	s.Require().NoError(err)
	s.Equal(proposition.StatutConfirmee, res.Statut)

	stored := s.recharger(p.UUID)
	s.Equal(checklist.SystReussite, stored.ChecklistActuelle.FraisDossier.Statut)
	s.Equal(shared.EventFraisDossierPayes, s.publisher.types()[len(s.publisher.types())-1])
}

func (s *CommandSuite) TestPayerFraisDossier_ProviderDown() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	s.paiements.EXPECT().PaiementRealise(gomock.Any(), p.UUID).Return(false, shared.ErrPaiementIndisponible)

	_, err := NewPayerFraisDossierHandler(s.deps).Handle(s.ctx, PayerFraisDossierCommand{UUIDProposition: p.UUID})

	s.Require().Error(err)
	s.True(shared.IsRetryable(err))
	s.Equal(proposition.StatutFraisDossierEnAttente, s.recharger(p.UUID).Statut)
}

func (s *CommandSuite) TestPayerFraisDossier_StatutVerifieAvantFournisseur() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	p.Statut = proposition.StatutConfirmee
	s.Require().NoError(s.propositions.Save(s.ctx, p))

	// No provider call is expected.
	_, err := NewPayerFraisDossierHandler(s.deps).Handle(s.ctx, PayerFraisDossierCommand{UUIDProposition: p.UUID})

	s.Require().Error(err)
	s.Equal([]string{proposition.KindPropositionPourPaiementInvalide}, kinds(s.T(), err))
}

func (s *CommandSuite) TestChangerStatut() {
	p := s.nouvelle(formation.Formation{Sigle: "SC3DP", Annee: 2020, Type: formation.TypeDoctorat})
	handler := NewChangerStatutHandler(s.deps)

	res, err := handler.Handle(s.ctx, ChangerStatutCommand{
		UUIDProposition: p.UUID, Operation: proposition.OpVerrouillerPourSignature, Auteur: matricule,
	})
	s.Require().NoError(err)
	s.Equal(proposition.StatutEnBrouillon, res.Precedent)
	s.Equal(proposition.StatutEnAttenteDeSignature, res.Statut)

	_, err = handler.Handle(s.ctx, ChangerStatutCommand{
		UUIDProposition: p.UUID, Operation: proposition.OpEnvoyerALaFac, Auteur: "fac",
	})
	s.Require().Error(err)
	s.True(errors.Is(err, shared.ErrTransitionInterdite))
	s.Equal(proposition.StatutEnAttenteDeSignature, s.recharger(p.UUID).Statut)

	_, err = handler.Handle(s.ctx, ChangerStatutCommand{
		UUIDProposition: p.UUID, Operation: proposition.OpApprouverParSic, Auteur: "sic",
	})
	s.Require().Error(err)
	s.True(shared.IsValidation(err))
}

func (s *CommandSuite) TestPropositionInconnue() {
	_, err := NewApprouverParFacHandler(s.deps).Handle(s.ctx, ApprouverParFacCommand{UUIDProposition: "unknown", Auteur: "fac"})

	s.Require().Error(err)
	s.True(shared.IsNotFound(err))
}

// ══════════════════════════════════════════════════════════════════════════════
// DECISIONS
// ══════════════════════════════════════════════════════════════════════════════

func (s *CommandSuite) TestApprouverParSic_DocumentsSuiteAutorisation() {
	tests := []struct {
		name string
		visa bool
		want []string
	}{
		{"with visa", true, []string{proposition.IdentifiantAutorisationSignee, proposition.IdentifiantVisaEtudes}},
		{"without visa", false, []string{proposition.IdentifiantAutorisationSignee}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			p := s.preteSic(tt.visa)
			s.pdf.EXPECT().Generer(gomock.Any(), gomock.Any(), proposition.PdfAttestationAccordSic).Return([]string{"pdf-1"}, nil)

			res, err := NewApprouverParSicHandler(s.deps).Handle(s.ctx, ApprouverParSicCommand{UUIDProposition: p.UUID, Auteur: "sic"})
			s.Require().NoError(err)
			s.Equal(proposition.StatutInscriptionAutorisee, res.Statut)

			stored := s.recharger(p.UUID)
			s.Equal([]string{"pdf-1"}, stored.DocumentsSysteme[proposition.PdfAttestationAccordSic])
			bloquants := stored.DocumentsDemandes.Filtrer(func(d document.DemandeDocument) bool {
				return d.Statut == document.StatutAReclamer && d.StatutReclamation == document.ReclamationUlterieurementBloquant
			})
			s.Equal(tt.want, bloquants)

			slot, err := s.documents.Get(s.ctx, p.UUID, proposition.IdentifiantAutorisationSignee)
			s.Require().NoError(err)
			s.Equal(document.ReclamationUlterieurementBloquant, slot.StatutReclamation)
		})
	}
}

func (s *CommandSuite) TestApprouverParSic_PdfFailureKeepsDecision() {
	p := s.preteSic(false)
	s.pdf.EXPECT().Generer(gomock.Any(), gomock.Any(), proposition.PdfAttestationAccordSic).Return(nil, errors.New("renderer down"))

	_, err := NewApprouverParSicHandler(s.deps).Handle(s.ctx, ApprouverParSicCommand{UUIDProposition: p.UUID, Auteur: "sic"})

	s.Require().NoError(err)
	stored := s.recharger(p.UUID)
	s.Equal(proposition.StatutInscriptionAutorisee, stored.Statut)
	s.Empty(stored.DocumentsSysteme[proposition.PdfAttestationAccordSic])
	s.Contains(s.publisher.types(), shared.EventPropositionApprouveeSic)
}

func (s *CommandSuite) TestRefuserParSic() {
	p := s.preteSic(false)

	_, err := NewRefuserParSicHandler(s.deps).Handle(s.ctx, RefuserParSicCommand{UUIDProposition: p.UUID, Auteur: "sic"})
	s.Require().Error(err)
	s.Equal([]string{proposition.KindMotifsRefusNonSpecifies}, kinds(s.T(), err))

	s.pdf.EXPECT().Generer(gomock.Any(), gomock.Any(), proposition.PdfAttestationRefusSic).Return([]string{"pdf-refus"}, nil)
	res, err := NewRefuserParSicHandler(s.deps).Handle(s.ctx, RefuserParSicCommand{
		UUIDProposition: p.UUID, Motifs: []string{"Insufficient prior studies"}, Auteur: "sic",
	})
	s.Require().NoError(err)
	s.Equal(proposition.StatutInscriptionRefusee, res.Statut)
	s.Equal([]string{"pdf-refus"}, res.DocumentsSysteme[proposition.PdfAttestationRefusSic])

	last := s.publisher.events[len(s.publisher.events)-1]
	refus, ok := last.(shared.PropositionRefuseeSicEvent)
	s.Require().True(ok)
	s.Equal([]string{"Insufficient prior studies"}, refus.Motifs)
}

func (s *CommandSuite) TestApprouverParFac() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	p.Statut = proposition.StatutTraitementFac
	s.Require().NoError(s.propositions.Save(s.ctx, p))

	_, err := NewApprouverParFacHandler(s.deps).Handle(s.ctx, ApprouverParFacCommand{UUIDProposition: p.UUID, Auteur: "fac"})
	s.Require().Error(err)
	s.Equal([]string{proposition.KindTitreAccesEtreSelectionne}, kinds(s.T(), err))

	_, err = NewDecisionDonneesHandler(s.deps).SpecifierConditionAcces(s.ctx, SpecifierConditionAccesCommand{
		UUIDProposition: p.UUID,
		ConditionAcces:  "BAC",
		TitresAcces: []proposition.TitreAcces{
			{UUIDExperience: "exp-1", Type: proposition.TitreExperienceAcademique, Selectionne: true},
		},
		Auteur: "fac",
	})
	s.Require().NoError(err)

	s.pdf.EXPECT().Generer(gomock.Any(), gomock.Any(), proposition.PdfAttestationAccordFacultaire).Return([]string{"pdf-fac"}, nil)
	res, err := NewApprouverParFacHandler(s.deps).Handle(s.ctx, ApprouverParFacCommand{UUIDProposition: p.UUID, Auteur: "fac"})
	s.Require().NoError(err)
	s.Equal(proposition.StatutRetourDeFac, res.Statut)

	stored := s.recharger(p.UUID)
	s.Equal(checklist.GestReussite, stored.ChecklistActuelle.DecisionFacultaire.Statut)
	s.Equal([]string{"pdf-fac"}, stored.DocumentsSysteme[proposition.PdfAttestationAccordFacultaire])
	s.Equal(shared.EventPropositionApprouveeFac, s.publisher.types()[len(s.publisher.types())-1])
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENTS
// ══════════════════════════════════════════════════════════════════════════════

func (s *CommandSuite) TestReclamerEtCompleterDocuments() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	p.Statut = proposition.StatutConfirmee
	s.Require().NoError(s.propositions.Save(s.ctx, p))

	limite := maintenant.AddDate(0, 0, 15)
	res, err := NewReclamerDocumentsHandler(s.deps).Handle(s.ctx, ReclamerDocumentsCommand{
		UUIDProposition: p.UUID, Par: proposition.DemandeurSic, DateLimite: limite, Auteur: "sic",
	})
	s.Require().NoError(err)
	s.Equal(proposition.StatutACompleterPourSic, res.Statut)
	s.Require().NotEmpty(res.Identifiants)
	s.Contains(res.Identifiants, "IDENTIFICATION.PHOTO_IDENTITE")

	reclame, err := s.documents.Search(s.ctx, p.UUID, nil, document.StatutReclame)
	s.Require().NoError(err)
	s.Len(reclame, len(res.Identifiants))

	reponses := make(map[string][]string, len(res.Identifiants))
	for i, id := range res.Identifiants {
		reponses[id] = []string{"upload-" + string(rune('a'+i))}
	}
	done, err := NewCompleterDocumentsHandler(s.deps).Handle(s.ctx, CompleterDocumentsCommand{
		UUIDProposition: p.UUID, Reponses: reponses,
	})
	s.Require().NoError(err)
	s.Equal(proposition.StatutCompleteePourSic, done.Statut)
	s.Equal(res.Identifiants, done.Identifiants)

	fichiers, err := s.documents.Fichiers(s.ctx, p.UUID)
	s.Require().NoError(err)
	s.Equal([]string{"upload-a"}, fichiers[res.Identifiants[0]])

	s.Equal([]shared.EventType{
		shared.EventPropositionSoumise,
		shared.EventDocumentsReclames,
		shared.EventDocumentsCompletes,
	}, s.publisher.types())
}

func (s *CommandSuite) TestCompleterDocuments_SlotNonReclame() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	p.Statut = proposition.StatutACompleterPourSic
	s.Require().NoError(s.propositions.Save(s.ctx, p))

	_, err := NewCompleterDocumentsHandler(s.deps).Handle(s.ctx, CompleterDocumentsCommand{
		UUIDProposition: p.UUID, Reponses: map[string][]string{"IDENTIFICATION.PHOTO_IDENTITE": {"x"}},
	})

	s.Require().Error(err)
	s.True(errors.Is(err, shared.ErrEmplacementNonReclame))
	fichiers, _ := s.documents.Fichiers(s.ctx, p.UUID)
	s.NotContains(fichiers, "IDENTIFICATION.PHOTO_IDENTITE")
}

func (s *CommandSuite) TestEmplacementLibre() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	handler := NewEmplacementsHandler(s.deps)

	res, err := handler.Creer(s.ctx, CreerEmplacementLibreCommand{
		UUIDProposition: p.UUID,
		Emplacement: document.EmplacementLibre{
			Type:    document.TypeLibreReclamableFac,
			Onglet:  document.OngletCurriculum,
			Libelle: "Transcript of the last year",
		},
		Auteur: "sic",
	})
	s.Require().NoError(err)

	var found bool
	for _, e := range res.Emplacements {
		if e.Identifiant == res.Identifiant {
			found = true
			s.Equal("Transcript of the last year", e.Libelle)
			s.Equal(document.StatutAReclamer, e.Statut)
		}
	}
	s.True(found)

	_, err = handler.AnnulerReclamation(s.ctx, AnnulerReclamationEmplacementCommand{
		UUIDProposition: p.UUID, Identifiant: res.Identifiant, Auteur: "sic",
	})
	s.Require().NoError(err)
	_, ok := s.recharger(p.UUID).DocumentsDemandes[res.Identifiant]
	s.False(ok)
}

func (s *CommandSuite) TestRecalculerDocuments_Idempotent() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	handler := NewRecalculerDocumentsHandler(s.deps)

	first, err := handler.Handle(s.ctx, RecalculerDocumentsCommand{UUIDProposition: p.UUID})
	s.Require().NoError(err)
	second, err := handler.Handle(s.ctx, RecalculerDocumentsCommand{UUIDProposition: p.UUID})
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *CommandSuite) TestModifierReclamation_SlotInconnu() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	avant := len(s.recharger(p.UUID).DocumentsDemandes)

	_, err := NewEmplacementsHandler(s.deps).ModifierReclamation(s.ctx, ModifierReclamationEmplacementCommand{
		UUIDProposition: p.UUID,
		Identifiant:     "INEXISTANT.abc",
		Urgence:         document.ReclamationImmediate,
		Auteur:          "sic",
	})

	s.Require().Error(err)
	s.True(shared.IsNotFound(err))
	s.True(errors.Is(err, shared.ErrEmplacementNonTrouve))
	s.Len(s.recharger(p.UUID).DocumentsDemandes, avant)
}

func (s *CommandSuite) TestModifierReclamation_SlotDuCatalogue() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	const id = "CURRICULUM.CURRICULUM"

	_, err := NewEmplacementsHandler(s.deps).ModifierReclamation(s.ctx, ModifierReclamationEmplacementCommand{
		UUIDProposition: p.UUID,
		Identifiant:     id,
		Urgence:         document.ReclamationUlterieurementNonBloquant,
		Raison:          "Unreadable",
		Auteur:          "sic",
	})

	s.Require().NoError(err)
	d := s.recharger(p.UUID).DocumentsDemandes[id]
	s.Equal(document.StatutAReclamer, d.Statut)
	s.Equal("Unreadable", d.Raison)
}

func (s *CommandSuite) TestRecalculerDocuments_ExperienceSupprimee() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	s.Contains(s.recharger(p.UUID).DocumentsDemandes, "CURRICULUM.exp-1.DIPLOME")

	pr := profilComplet()
	pr.Curriculum = &profil.Curriculum{}
	s.profils.Enregistrer(matricule, pr)

	emplacements, err := NewRecalculerDocumentsHandler(s.deps).Handle(s.ctx, RecalculerDocumentsCommand{UUIDProposition: p.UUID})
	s.Require().NoError(err)

	for _, e := range emplacements {
		s.NotContains(e.Identifiant, "exp-1")
	}
	stored := s.recharger(p.UUID)
	for id := range stored.DocumentsDemandes {
		s.NotContains(id, "exp-1")
	}
	for _, enfant := range stored.ChecklistActuelle.ParcoursAnterieur.Enfants {
		s.NotEqual("exp-1", enfant.Extra[checklist.ExtraIdentifiant])
	}
	s.Len(stored.ChecklistActuelle.ParcoursAnterieur.Enfants, 1)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECKLIST
// ══════════════════════════════════════════════════════════════════════════════

func (s *CommandSuite) TestModifierStatutParcoursAnterieur() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})
	handler := NewChecklistHandler(s.deps)
	suffisant := ModifierStatutParcoursAnterieurCommand{
		UUIDProposition: p.UUID, Identifiant: checklist.ParcoursSuffisant, Auteur: "sic",
	}

	_, err := handler.ModifierStatutParcoursAnterieur(s.ctx, suffisant)
	s.Require().Error(err)
	s.True(errors.Is(err, shared.ErrTransitionChecklist))

	res, err := handler.ModifierStatutParcoursAnterieur(s.ctx, ModifierStatutParcoursAnterieurCommand{
		UUIDProposition: p.UUID, Identifiant: checklist.ParcoursToilette, Auteur: "sic",
	})
	s.Require().NoError(err)
	s.Equal(checklist.OngletParcoursAnterieur, res.Onglet)
	s.Equal(checklist.ParcoursToilette, res.Statut.Identifiant)
	s.Equal(checklist.GestEnCours, s.recharger(p.UUID).ChecklistActuelle.ParcoursAnterieur.Statut)

	event, ok := s.publisher.events[len(s.publisher.events)-1].(shared.ChecklistModifieeEvent)
	s.Require().True(ok)
	s.Equal(string(checklist.OngletParcoursAnterieur), event.Onglet)

	_, err = handler.ModifierStatutParcoursAnterieur(s.ctx, suffisant)
	s.Require().Error(err)
	assert.Contains(s.T(), kinds(s.T(), err), proposition.KindConditionAccesEtreSelectionne)
	s.Equal(checklist.GestEnCours, s.recharger(p.UUID).ChecklistActuelle.ParcoursAnterieur.Statut)
}

func (s *CommandSuite) TestModifierStatutExperience_Inconnue() {
	p := s.soumettre(formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster})

	_, err := NewChecklistHandler(s.deps).ModifierStatutExperience(s.ctx, ModifierStatutExperienceCommand{
		UUIDProposition: p.UUID, UUIDExperience: "missing", Statut: checklist.ValidationValidee, Auteur: "sic",
	})

	s.Require().Error(err)
	s.True(errors.Is(err, shared.ErrExperienceNonTrouvee))
}
