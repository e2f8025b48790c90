package proposition

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

var maintenant = time.Date(2020, time.November, 1, 10, 0, 0, 0, time.UTC)

func formationGenerale() formation.Formation {
	return formation.Formation{Sigle: "INFO2M", Annee: 2020, Intitule: "Master in computer science", Type: formation.TypeMaster}
}

func formationDoctorat() formation.Formation {
	return formation.Formation{Sigle: "SC3DP", Annee: 2020, Intitule: "Doctorate in sciences", Type: formation.TypeDoctorat}
}

func formationContinue() formation.Formation {
	return formation.Formation{Sigle: "USCC1FC", Annee: 2020, Intitule: "Certificate in data science", Type: formation.TypeFormationContinue}
}

func formationPour(c formation.Contexte) formation.Formation {
	switch c {
	case formation.ContexteDoctorat:
		return formationDoctorat()
	case formation.ContexteContinue:
		return formationContinue()
	default:
		return formationGenerale()
	}
}

func profilComplet() Profil {
	naissance := time.Date(1995, time.March, 12, 0, 0, 0, 0, time.UTC)
	annees := make([]profil.AnneeExperienceAcademique, 0, 5)
	for a := 2016; a <= 2020; a++ {
		annees = append(annees, profil.AnneeExperienceAcademique{Annee: a, Resultat: profil.ResultatReussite})
	}
	return Profil{
		Identification: &profil.Identification{
			Matricule:                   "0123456",
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

func soumission(pr Profil) Soumission {
	return Soumission{
		Profil:     pr,
		Fichiers:   map[string][]string{"CURRICULUM.CURRICULUM": {"file-cv"}},
		Maximum:    5,
		Auteur:     "0123456",
		Maintenant: maintenant,
	}
}

// propositionSoumise builds a submitted proposition directly in a status.
func propositionSoumise(t *testing.T, f formation.Formation, statut ChoixStatutProposition) *Proposition {
	t.Helper()
	p, err := Nouvelle("0123456", f, TypeAdmission, maintenant)
	require.NoError(t, err)
	soumise := maintenant
	p.SoumiseLe = &soumise
	p.ChecklistActuelle = checklist.Initialiser(checklist.Initialisation{
		Contexte:        f.Contexte(),
		Experiences:     []string{"exp-1"},
		FraisDossierDus: statut == StatutFraisDossierEnAttente,
	})
	p.ChecklistInitiale = p.ChecklistActuelle.Clone()
	p.Statut = statut
	return p
}

func kinds(t *testing.T, err error) []string {
	t.Helper()
	m, ok := shared.AsMultipleBusinessErrors(err)
	require.True(t, ok, "expected business errors, got %v", err)
	return m.Kinds()
}

func vrai() *bool { v := true; return &v }
func faux() *bool { v := false; return &v }

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION
// ══════════════════════════════════════════════════════════════════════════════

func TestSoumettre_GeneraleFraisDus(t *testing.T) {
	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)

	slots, err := p.Soumettre(soumission(profilComplet()))
	require.NoError(t, err)

	assert.Equal(t, StatutFraisDossierEnAttente, p.Statut)
	require.NotNil(t, p.SoumiseLe)
	assert.Equal(t, maintenant, *p.SoumiseLe)
	assert.NotEmpty(t, slots)

	frais := p.ChecklistActuelle.FraisDossier
	require.NotNil(t, frais)
	assert.Equal(t, checklist.GestBlocage, frais.Statut)
	assert.Equal(t, checklist.LibelleFraisDus, frais.Libelle)

	var ids []string
	for _, e := range p.ChecklistActuelle.ParcoursAnterieur.Enfants {
		ids = append(ids, e.Extra[checklist.ExtraIdentifiant])
	}
	assert.Equal(t, []string{"exp-1", checklist.IdentifiantEtudesSecondaires}, ids)

	photo, ok := p.DocumentsDemandes["IDENTIFICATION.PHOTO_IDENTITE"]
	require.True(t, ok)
	assert.Equal(t, document.StatutAReclamer, photo.Statut)
	assert.Equal(t, document.ReclamationImmediate, photo.StatutReclamation)
}

func TestSoumettre_InscriptionInterneSansFrais(t *testing.T) {
	pr := profilComplet()
	pr.Curriculum.InscriptionsInternes = []profil.InscriptionInterne{{Annee: 2019}}
	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)

	_, err = p.Soumettre(soumission(pr))
	require.NoError(t, err)

	assert.Equal(t, StatutConfirmee, p.Statut)
	assert.Equal(t, checklist.InitialNonConcerne, p.ChecklistActuelle.FraisDossier.Statut)
}

func TestSoumettre_ChecklistInitialeIndependante(t *testing.T) {
	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)
	_, err = p.Soumettre(soumission(profilComplet()))
	require.NoError(t, err)

	assert.Equal(t, p.ChecklistInitiale, p.ChecklistActuelle)

	p.ChecklistActuelle.DonneesPersonnelles.Forcer(checklist.GestReussite, "Validated", nil)
	p.ChecklistActuelle.ParcoursAnterieur.Enfants[0].Statut = checklist.GestReussite

	assert.Equal(t, checklist.InitialCandidat, p.ChecklistInitiale.DonneesPersonnelles.Statut)
	assert.Equal(t, checklist.InitialCandidat, p.ChecklistInitiale.ParcoursAnterieur.Enfants[0].Statut)
}

func TestSoumettre_CollecteToutesLesErreurs(t *testing.T) {
	pr := profilComplet()
	pr.Identification = &profil.Identification{Prenom: "Jean", Sexe: "M", PaysNationalite: profil.PaysBelgique}
	pr.Coordonnees = nil
	s := soumission(pr)
	s.NombrePropositionsSoumises = 5

	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)
	avant := p.Clone()

	_, err = p.Soumettre(s)
	require.Error(t, err)
	assert.True(t, shared.IsBusinessRule(err))
	assert.Equal(t, []string{
		KindIdentificationNonCompletee,
		KindNumeroIdentiteNonSpecifie,
		KindNumeroIdentiteBelgeNonSpecifie,
		KindDateOuAnneeNaissanceNonSpecifiee,
		KindAdresseDomicileLegalNonCompletee,
		KindMaximumPropositionsAtteint,
	}, kinds(t, err))
	assert.Equal(t, avant, p)
}

func TestSoumettre_CandidatNonTrouve(t *testing.T) {
	pr := profilComplet()
	pr.Identification = nil
	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)

	_, err = p.Soumettre(soumission(pr))

	assert.Contains(t, kinds(t, err), KindCandidatNonTrouve)
	assert.Equal(t, StatutEnBrouillon, p.Statut)
}

func TestSoumettre_Doctorat(t *testing.T) {
	p, err := Nouvelle("0123456", formationDoctorat(), TypeAdmission, maintenant)
	require.NoError(t, err)

	t.Run("requires signature lock", func(t *testing.T) {
		_, err := p.Soumettre(soumission(profilComplet()))
		require.Error(t, err)
		assert.True(t, shared.IsInvalidState(err))
		assert.True(t, errors.Is(err, shared.ErrTransitionInterdite))
	})

	require.NoError(t, p.VerrouillerPourSignature("0123456", maintenant))

	t.Run("languages and curriculum file", func(t *testing.T) {
		pr := profilComplet()
		pr.Langues = []profil.ConnaissanceLangue{{Langue: profil.LangueFrancais}}
		s := soumission(pr)
		s.Fichiers = nil

		_, err := p.Soumettre(s)
		assert.Equal(t, []string{KindLanguesConnuesNonSpecifiees, KindFichierCurriculumNonRenseigne}, kinds(t, err))
		assert.Equal(t, StatutEnAttenteDeSignature, p.Statut)
	})

	_, err = p.Soumettre(soumission(profilComplet()))
	require.NoError(t, err)

	assert.Equal(t, StatutConfirmee, p.Statut)
	c := p.ChecklistActuelle
	assert.NotNil(t, c.DecisionCdd)
	assert.NotNil(t, c.ProjetRecherche)
	assert.NotNil(t, c.DecisionSic)
	assert.Nil(t, c.FraisDossier)
	assert.Nil(t, c.DecisionFacultaire)
}

func TestSoumettre_ElagueReponsesObsoletes(t *testing.T) {
	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)
	p.ReponsesQuestionsSpecifiques = map[string]Reponse{
		"q-1":   Texte("yes"),
		"q-old": Texte("obsolete"),
	}
	s := soumission(profilComplet())
	s.Questions = []document.QuestionSpecifique{{UUID: "q-1", Type: document.QuestionTexte, Requis: true}}

	_, err = p.Soumettre(s)
	require.NoError(t, err)

	assert.Equal(t, map[string]Reponse{"q-1": Texte("yes")}, p.ReponsesQuestionsSpecifiques)
}

func TestSoumettre_QuestionObligatoireSansReponse(t *testing.T) {
	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)
	s := soumission(profilComplet())
	s.Questions = []document.QuestionSpecifique{
		{UUID: "q-1", Type: document.QuestionTexte, Requis: true},
		{UUID: "q-2", Type: document.QuestionMessage, Requis: true},
	}

	_, err = p.Soumettre(s)

	assert.Equal(t, []string{KindQuestionsSpecifiquesNonCompletees}, kinds(t, err))
}

// ══════════════════════════════════════════════════════════════════════════════
// DOSSIER FEES
// ══════════════════════════════════════════════════════════════════════════════

func TestPayerFraisDossier(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutFraisDossierEnAttente)

	err := p.PayerFraisDossier(false, "system", maintenant)
	assert.Equal(t, []string{KindPaiementNonRealise}, kinds(t, err))
	assert.Equal(t, StatutFraisDossierEnAttente, p.Statut)
	assert.Equal(t, checklist.GestBlocage, p.ChecklistActuelle.FraisDossier.Statut)

	require.NoError(t, p.PayerFraisDossier(true, "system", maintenant))
	assert.Equal(t, StatutConfirmee, p.Statut)
	assert.Equal(t, checklist.SystReussite, p.ChecklistActuelle.FraisDossier.Statut)
	assert.Equal(t, checklist.LibelleFraisPayes, p.ChecklistActuelle.FraisDossier.Libelle)
}

func TestPayerFraisDossier_PropositionInvalide(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)

	err := p.PayerFraisDossier(true, "system", maintenant)

	assert.Equal(t, []string{KindPropositionPourPaiementInvalide}, kinds(t, err))
	assert.Equal(t, StatutConfirmee, p.Statut)
}

func TestSpecifierPaiementPlusNecessaire(t *testing.T) {
	tests := []struct {
		name     string
		dispense bool
		statut   checklist.ChoixStatutChecklist
		libelle  string
	}{
		{"dispensed", true, checklist.GestReussite, checklist.LibelleFraisDispenses},
		{"not concerned", false, checklist.InitialNonConcerne, checklist.LibelleFraisNonConcerne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := propositionSoumise(t, formationGenerale(), StatutFraisDossierEnAttente)

			require.NoError(t, p.SpecifierPaiementPlusNecessaire(tt.dispense, "manager", maintenant))

			assert.Equal(t, StatutConfirmee, p.Statut)
			assert.Equal(t, tt.statut, p.ChecklistActuelle.FraisDossier.Statut)
			assert.Equal(t, tt.libelle, p.ChecklistActuelle.FraisDossier.Libelle)
			assert.Equal(t, "manager", p.AuteurDerniereModification)
		})
	}
}

func TestSpecifierPaiementNecessaire(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)

	require.NoError(t, p.SpecifierPaiementNecessaire("manager", maintenant))

	assert.Equal(t, StatutFraisDossierEnAttente, p.Statut)
	assert.Equal(t, checklist.GestBlocage, p.ChecklistActuelle.FraisDossier.Statut)
}

// ══════════════════════════════════════════════════════════════════════════════
// FACULTY
// ══════════════════════════════════════════════════════════════════════════════

func TestApprouverParFac(t *testing.T) {
	titres := []TitreAcces{
		{UUIDExperience: "exp-1", Type: TitreExperienceAcademique, Selectionne: true},
		{UUIDExperience: "es", Type: TitreEtudesSecondaires},
	}

	t.Run("general goes back to central administration", func(t *testing.T) {
		p := propositionSoumise(t, formationGenerale(), StatutTraitementFac)
		p.TitresAcces = titres

		require.NoError(t, p.ApprouverParFac("fac", maintenant))

		assert.Equal(t, StatutRetourDeFac, p.Statut)
		assert.Equal(t, checklist.GestReussite, p.ChecklistActuelle.DecisionFacultaire.Statut)
	})

	t.Run("doctorate is confirmed", func(t *testing.T) {
		p := propositionSoumise(t, formationDoctorat(), StatutCompleteePourFac)
		p.TitresAcces = titres

		require.NoError(t, p.ApprouverParFac("cdd", maintenant))

		assert.Equal(t, StatutConfirmee, p.Statut)
		assert.Equal(t, checklist.GestReussite, p.ChecklistActuelle.DecisionCdd.Statut)
		assert.Equal(t, "Approval", p.ChecklistActuelle.DecisionCdd.Libelle)
	})

	t.Run("access titles and complements are checked", func(t *testing.T) {
		p := propositionSoumise(t, formationGenerale(), StatutTraitementFac)
		p.TitresAcces = []TitreAcces{
			{UUIDExperience: "exp-1", Selectionne: true},
			{UUIDExperience: "exp-2", Selectionne: true},
		}
		p.AvecComplementsFormation = vrai()

		err := p.ApprouverParFac("fac", maintenant)

		assert.Equal(t, []string{KindTitreAccesEtreSelectionne, KindInformationsAcceptationNonSpecifiees}, kinds(t, err))
		assert.Equal(t, StatutTraitementFac, p.Statut)
	})
}

func TestRefuserParFac(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutTraitementFac)

	err := p.RefuserParFac([]string{" "}, "fac", maintenant)
	assert.Equal(t, []string{KindMotifsRefusNonSpecifies}, kinds(t, err))

	require.NoError(t, p.RefuserParFac([]string{"Insufficient prior curriculum"}, "fac", maintenant))
	assert.Equal(t, StatutRetourDeFac, p.Statut)
	assert.Equal(t, checklist.GestBlocage, p.ChecklistActuelle.DecisionFacultaire.Statut)
	assert.Equal(t, []string{"Insufficient prior curriculum"}, p.MotifsRefus)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT REQUESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestReclamerEtCompleterDocuments(t *testing.T) {
	const (
		photo = "IDENTIFICATION.PHOTO_IDENTITE"
		cv    = "CURRICULUM.CURRICULUM"
		carte = "IDENTIFICATION.CARTE_IDENTITE"
	)
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)
	p.DocumentsDemandes = document.DocumentsDemandes{
		photo: {Type: document.TypeNonLibre, Statut: document.StatutAReclamer, StatutReclamation: document.ReclamationImmediate},
		cv:    {Type: document.TypeNonLibre, Statut: document.StatutAReclamer, StatutReclamation: document.ReclamationUlterieurementNonBloquant},
		carte: {Type: document.TypeNonLibre, Statut: document.StatutNonAnalyse},
	}
	limite := time.Date(2020, time.November, 15, 0, 0, 0, 0, time.UTC)

	ids, err := p.ReclamerDocuments(DemandeurSic, limite, "sic", maintenant)
	require.NoError(t, err)
	assert.Equal(t, []string{cv, photo}, ids)
	assert.Equal(t, StatutACompleterPourSic, p.Statut)
	assert.Equal(t, document.StatutReclame, p.DocumentsDemandes[photo].Statut)
	assert.Equal(t, limite, p.DocumentsDemandes[photo].DateLimite)
	assert.Equal(t, document.StatutNonAnalyse, p.DocumentsDemandes[carte].Statut)

	_, err = p.CompleterDocuments(map[string][]string{carte: {"file"}}, "0123456", maintenant)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrEmplacementNonReclame))

	completes, err := p.CompleterDocuments(map[string][]string{cv: {"file-cv"}}, "0123456", maintenant)
	require.NoError(t, err)
	assert.Equal(t, []string{cv}, completes)
	assert.Equal(t, document.StatutValide, p.DocumentsDemandes[cv].Statut)
	assert.Equal(t, StatutACompleterPourSic, p.Statut)

	_, err = p.CompleterDocuments(map[string][]string{photo: {"file-photo"}}, "0123456", maintenant)
	require.NoError(t, err)
	assert.Equal(t, StatutCompleteePourSic, p.Statut)
}

func TestReclamerDocuments_AucunDocument(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutTraitementFac)

	_, err := p.ReclamerDocuments(DemandeurFac, maintenant, "fac", maintenant)

	assert.Equal(t, []string{KindAucunDocumentAReclamer}, kinds(t, err))
	assert.Equal(t, StatutTraitementFac, p.Statut)
}

func TestAnnulerReclamation(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutTraitementFac)
	p.DocumentsDemandes = document.DocumentsDemandes{
		"CURRICULUM.CURRICULUM": {Type: document.TypeNonLibre, Statut: document.StatutAReclamer, StatutReclamation: document.ReclamationImmediate},
	}
	_, err := p.ReclamerDocuments(DemandeurFac, maintenant, "fac", maintenant)
	require.NoError(t, err)

	require.NoError(t, p.AnnulerReclamation("fac", maintenant))

	assert.Equal(t, StatutTraitementFac, p.Statut)
	d := p.DocumentsDemandes["CURRICULUM.CURRICULUM"]
	assert.Equal(t, document.StatutAReclamer, d.Statut)
	assert.True(t, d.DateLimite.IsZero())
}

// ══════════════════════════════════════════════════════════════════════════════
// CENTRAL ADMINISTRATION
// ══════════════════════════════════════════════════════════════════════════════

func propositionPreteSic(t *testing.T) *Proposition {
	t.Helper()
	p := propositionSoumise(t, formationGenerale(), StatutAttenteValidationDirection)
	annees := 1
	p.AvecConditionsComplementaires = faux()
	p.NombreAnneesPrevoirProgramme = &annees
	p.ChecklistActuelle.ParcoursAnterieur.Forcer(checklist.GestReussite, "Sufficient", nil)
	return p
}

func TestApprouverParSic_DocumentsSuiteAutorisation(t *testing.T) {
	tests := []struct {
		name string
		visa bool
		want []string
	}{
		{"with visa", true, []string{IdentifiantAutorisationSignee, IdentifiantVisaEtudes}},
		{"without visa", false, []string{IdentifiantAutorisationSignee}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := propositionPreteSic(t)
			p.DoitFournirVisaEtudes = tt.visa

			require.NoError(t, p.ApprouverParSic("sic", maintenant))

			assert.Equal(t, StatutInscriptionAutorisee, p.Statut)
			assert.Equal(t, checklist.GestReussite, p.ChecklistActuelle.DecisionSic.Statut)
			bloquants := p.DocumentsDemandes.Filtrer(func(d document.DemandeDocument) bool {
				return d.Statut == document.StatutAReclamer && d.StatutReclamation == document.ReclamationUlterieurementBloquant
			})
			assert.Equal(t, tt.want, bloquants)
		})
	}
}

func TestApprouverParSic_DocumentsSurviventAuRecalcul(t *testing.T) {
	p := propositionPreteSic(t)
	p.DoitFournirVisaEtudes = true
	require.NoError(t, p.ApprouverParSic("sic", maintenant))

	p.RecalculerDocuments(p.Resume(profilComplet(), nil, map[string][]string{}))

	for _, id := range []string{IdentifiantAutorisationSignee, IdentifiantVisaEtudes} {
		d, ok := p.DocumentsDemandes[id]
		require.True(t, ok, id)
		assert.Equal(t, document.ReclamationUlterieurementBloquant, d.StatutReclamation, id)
		assert.Equal(t, "sic", d.DernierActeur, id)
	}
}

func TestApprouverParSic_Validation(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutAttenteValidationDirection)
	p.AvecConditionsComplementaires = vrai()
	p.DocumentsDemandes = document.DocumentsDemandes{
		"IDENTIFICATION.PHOTO_IDENTITE": {Type: document.TypeNonLibre, Statut: document.StatutAReclamer, StatutReclamation: document.ReclamationImmediate},
	}
	avant := p.Clone()

	err := p.ApprouverParSic("sic", maintenant)

	assert.Equal(t, []string{
		KindInformationsAcceptationNonSpecifiees,
		KindInformationsAcceptationNonSpecifiees,
		KindParcoursAnterieurNonSuffisant,
		KindDocumentAReclamerImmediat,
	}, kinds(t, err))
	assert.Equal(t, avant, p)
}

func TestRefuserParSic(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutRetourDeFac)

	err := p.RefuserParSic(nil, "sic", maintenant)
	assert.Equal(t, []string{KindMotifsRefusNonSpecifies}, kinds(t, err))

	require.NoError(t, p.RefuserParSic([]string{"Quota reached"}, "sic", maintenant))
	assert.Equal(t, StatutInscriptionRefusee, p.Statut)
	assert.Equal(t, checklist.GestBlocage, p.ChecklistActuelle.DecisionSic.Statut)
	assert.Equal(t, "refusal", p.ChecklistActuelle.DecisionSic.Extra["blocage"])
}

func TestSpecifierInformations_PropositionNonSoumise(t *testing.T) {
	p, err := Nouvelle("0123456", formationGenerale(), TypeAdmission, maintenant)
	require.NoError(t, err)

	err = p.SpecifierConditionAcces("BAC", nil, "", "sic", maintenant)
	assert.True(t, shared.IsInvalidState(err))

	err = p.SpecifierInformationsAcceptation(InformationsAcceptation{DoitFournirVisaEtudes: true}, "sic", maintenant)
	assert.True(t, shared.IsInvalidState(err))
	assert.False(t, p.DoitFournirVisaEtudes)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECKLIST
// ══════════════════════════════════════════════════════════════════════════════

func TestModifierStatutChecklistParcoursAnterieur(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)
	suffisant := ParcoursAnterieur{Statut: checklist.ParcoursSuffisant, ExperiencesValorisees: []string{"exp-1"}}

	t.Run("manager transitions apply first", func(t *testing.T) {
		_, err := p.ModifierStatutChecklistParcoursAnterieur(suffisant, "sic", maintenant)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrTransitionChecklist))
	})

	_, err := p.ModifierStatutChecklistParcoursAnterieur(ParcoursAnterieur{Statut: checklist.ParcoursToilette}, "sic", maintenant)
	require.NoError(t, err)
	assert.Equal(t, checklist.GestEnCours, p.ChecklistActuelle.ParcoursAnterieur.Statut)

	t.Run("sufficiency rules", func(t *testing.T) {
		_, err := p.ModifierStatutChecklistParcoursAnterieur(suffisant, "sic", maintenant)
		assert.Equal(t, []string{
			KindConditionAccesEtreSelectionne,
			KindTitreAccesEtreSelectionne,
			KindStatutsChecklistExperiencesEtreValides,
		}, kinds(t, err))
		assert.Equal(t, checklist.GestEnCours, p.ChecklistActuelle.ParcoursAnterieur.Statut)
	})

	t.Run("valued experience without child", func(t *testing.T) {
		_, err := p.ModifierStatutChecklistParcoursAnterieur(
			ParcoursAnterieur{Statut: checklist.ParcoursSuffisant, ExperiencesValorisees: []string{"unknown"}}, "sic", maintenant)
		require.Error(t, err)
		assert.False(t, shared.IsBusinessRule(err))
		assert.True(t, shared.IsNotFound(err))
		assert.True(t, errors.Is(err, shared.ErrExperienceNonTrouvee))
	})

	titres := []TitreAcces{{UUIDExperience: "exp-1", Type: TitreExperienceAcademique, Selectionne: true}}
	require.NoError(t, p.SpecifierConditionAcces("BAC", titres, "", "sic", maintenant))
	require.NoError(t, p.ModifierStatutChecklistExperience("exp-1", checklist.ValidationValidee, "sic", maintenant))

	cfg, err := p.ModifierStatutChecklistParcoursAnterieur(suffisant, "sic", maintenant)
	require.NoError(t, err)
	assert.Equal(t, checklist.ParcoursSuffisant, cfg.Identifiant)
	assert.Equal(t, checklist.GestReussite, p.ChecklistActuelle.ParcoursAnterieur.Statut)
}

func TestModifierStatutChecklistParcoursAnterieur_EquivalenceBachelier(t *testing.T) {
	bachelier := formation.Formation{Sigle: "SINF1BA", Annee: 2020, Type: formation.TypeBachelier}
	p := propositionSoumise(t, bachelier, StatutConfirmee)
	p.ChecklistActuelle.ParcoursAnterieur.Forcer(checklist.GestEnCours, "Cleaning", nil)
	p.ConditionAcces = "BAC"
	p.TitresAcces = []TitreAcces{{Type: TitreEtudesSecondaires, Selectionne: true}}

	_, err := p.ModifierStatutChecklistParcoursAnterieur(ParcoursAnterieur{
		Statut: checklist.ParcoursSuffisant,
		EtudesSecondaires: &profil.EtudesSecondaires{
			DiplomeObtenu:   profil.DiplomeObtenuOui,
			DiplomeEtranger: &profil.DiplomeEtranger{TypeDiplome: profil.DiplomeEtrangerNational},
		},
	}, "sic", maintenant)

	assert.Equal(t, []string{KindTypeEquivalenceNonSpecifie}, kinds(t, err))
}

func TestModifierStatutChecklist(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)

	cfg, err := p.ModifierStatutChecklist(checklist.OngletDonneesPersonnelles, "EN_COURS", "sic", maintenant)
	require.NoError(t, err)
	assert.Equal(t, checklist.GestEnCours, cfg.Statut)

	_, err = p.ModifierStatutChecklist(checklist.OngletDonneesPersonnelles, "FRAUDEUR", "sic", maintenant)
	require.NoError(t, err)
	assert.Equal(t, "1", p.ChecklistActuelle.DonneesPersonnelles.Extra["fraud"])

	_, err = p.ModifierStatutChecklist(checklist.OngletDonneesPersonnelles, "VALIDEES", "sic", maintenant)
	assert.True(t, errors.Is(err, shared.ErrTransitionChecklist))

	_, err = p.ModifierStatutChecklist(checklist.OngletDonneesPersonnelles, "UNKNOWN", "sic", maintenant)
	assert.True(t, errors.Is(err, shared.ErrStatutChecklistInvalide))

	_, err = p.ModifierStatutChecklist(checklist.OngletProjetRecherche, "EN_COURS", "sic", maintenant)
	assert.True(t, shared.IsInvalidState(err))
}

func TestModifierAuthentificationExperience(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)

	err := p.ModifierAuthentificationExperience("exp-1", checklist.AuthentificationDemandee, "", "sic", maintenant)
	assert.True(t, errors.Is(err, shared.ErrAuthentificationInterdite))

	err = p.ModifierStatutChecklistExperience("missing", checklist.ValidationAuthentification, "sic", maintenant)
	assert.True(t, errors.Is(err, shared.ErrExperienceNonTrouvee))

	require.NoError(t, p.ModifierStatutChecklistExperience("exp-1", checklist.ValidationAuthentification, "sic", maintenant))
	require.NoError(t, p.ModifierAuthentificationExperience("exp-1", checklist.AuthentificationDemandee, "sent to school", "sic", maintenant))

	enfant := p.ChecklistActuelle.ParcoursAnterieur.Enfant("exp-1")
	assert.Equal(t, string(checklist.AuthentificationDemandee), enfant.Extra[checklist.ExtraEtatAuthentification])
	assert.Equal(t, "sent to school", enfant.Extra[checklist.ExtraCommentaireAuthentification])
}

func TestSynchroniserParcours(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)
	require.NoError(t, p.ModifierStatutChecklistExperience("exp-1", checklist.ValidationValidee, "sic", maintenant))

	require.NoError(t, p.SynchroniserParcours([]string{"exp-1", "exp-3"}))

	enfants := p.ChecklistActuelle.ParcoursAnterieur.Enfants
	require.Len(t, enfants, 3)
	assert.Equal(t, checklist.ValidationValidee, enfants[0].StatutValidation())
	assert.Equal(t, "exp-3", enfants[2].Extra[checklist.ExtraIdentifiant])
}

// ══════════════════════════════════════════════════════════════════════════════
// FREE SLOTS
// ══════════════════════════════════════════════════════════════════════════════

func TestCreerEmplacementLibre(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)

	interne, err := p.CreerEmplacementLibre(document.EmplacementLibre{Type: document.TypeLibreInterneSic, Libelle: "Note"}, "sic", maintenant)
	require.NoError(t, err)
	assert.Equal(t, document.StatutValide, p.DocumentsDemandes[interne].Statut)

	reclamable, err := p.CreerEmplacementLibre(document.EmplacementLibre{
		Type:    document.TypeLibreReclamableFac,
		Onglet:  document.OngletCurriculum,
		Libelle: "Detailed transcript",
	}, "fac", maintenant)
	require.NoError(t, err)
	assert.Equal(t, string(document.OngletCurriculum), document.Categorie(reclamable))
	assert.Equal(t, document.StatutAReclamer, p.DocumentsDemandes[reclamable].Statut)

	_, err = p.CreerEmplacementLibre(document.EmplacementLibre{Type: document.TypeNonLibre}, "sic", maintenant)
	assert.True(t, errors.Is(err, shared.ErrEmplacementNonLibre))

	require.NoError(t, p.AnnulerReclamationEmplacement(reclamable, "fac", maintenant))
	_, existe := p.DocumentsDemandes[reclamable]
	assert.False(t, existe)

	err = p.AnnulerReclamationEmplacement(interne, "sic", maintenant)
	assert.True(t, errors.Is(err, shared.ErrEmplacementNonModifiable))
}

func TestModifierEtAnnulerReclamationEmplacement(t *testing.T) {
	const id = "CURRICULUM.CURRICULUM"
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)

	r := p.Resume(profilComplet(), nil, nil)

	require.NoError(t, p.ModifierReclamationEmplacement(r, id, document.ReclamationUlterieurementNonBloquant, "Unreadable", "sic", maintenant))
	d := p.DocumentsDemandes[id]
	assert.Equal(t, document.StatutAReclamer, d.Statut)
	assert.Equal(t, "Unreadable", d.Raison)

	require.NoError(t, p.AnnulerReclamationEmplacement(id, "sic", maintenant))
	d = p.DocumentsDemandes[id]
	assert.Equal(t, document.StatutNonAnalyse, d.Statut)
	assert.Empty(t, d.Raison)
	assert.False(t, d.EstAutomatique())

	err := p.AnnulerReclamationEmplacement("UNKNOWN.SLOT", "sic", maintenant)
	assert.True(t, shared.IsNotFound(err))
}

func TestModifierReclamationEmplacement_SlotInconnu(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)
	avant := len(p.DocumentsDemandes)

	err := p.ModifierReclamationEmplacement(p.Resume(profilComplet(), nil, nil), "INEXISTANT.abc",
		document.ReclamationImmediate, "", "sic", maintenant)

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, errors.Is(err, shared.ErrEmplacementNonTrouve))
	assert.Len(t, p.DocumentsDemandes, avant)
	_, existe := p.DocumentsDemandes["INEXISTANT.abc"]
	assert.False(t, existe)
}

func identifiantsEnfants(s *checklist.StatutChecklist) []string {
	ids := make([]string, 0, len(s.Enfants))
	for _, enfant := range s.Enfants {
		ids = append(ids, enfant.Extra[checklist.ExtraIdentifiant])
	}
	return ids
}

func TestRecalculerDocuments_ElagueEnfantsParcours(t *testing.T) {
	p := propositionSoumise(t, formationGenerale(), StatutConfirmee)
	pr := profilComplet()
	pr.Curriculum = &profil.Curriculum{}

	p.RecalculerDocuments(p.Resume(pr, nil, nil))

	assert.Equal(t, []string{checklist.IdentifiantEtudesSecondaires}, identifiantsEnfants(p.ChecklistActuelle.ParcoursAnterieur))
	assert.Equal(t, []string{"exp-1", checklist.IdentifiantEtudesSecondaires}, identifiantsEnfants(p.ChecklistInitiale.ParcoursAnterieur))
}
