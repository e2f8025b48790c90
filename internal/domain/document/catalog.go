package document

import (
	"strconv"

	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/profil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESUME
// ══════════════════════════════════════════════════════════════════════════════

// TypeQuestion is the kind of answer a specific question expects.
type TypeQuestion string

const (
	QuestionTexte    TypeQuestion = "TEXTE"
	QuestionListe    TypeQuestion = "LISTE"
	QuestionDocument TypeQuestion = "DOCUMENT"
	QuestionMessage  TypeQuestion = "MESSAGE"
)

// QuestionSpecifique is an admin-configured question attached to a training.
type QuestionSpecifique struct {
	UUID    string         `json:"uuid"`
	Type    TypeQuestion   `json:"type"`
	Onglet  OngletsDemande `json:"onglet"`
	Requis  bool           `json:"requis"`
	Libelle string         `json:"libelle"`
}

// Resume is the read-only snapshot the engine works from.
type Resume struct {
	UUIDProposition string
	Formation       formation.Formation

	InscriptionAutorisee       bool
	DoitFournirVisaEtudes      bool
	EstReorientation           bool
	EstModificationInscription bool
	Cotutelle                  bool
	FinancementParBourse       bool
	MembresSupervision         []string

	Identification    profil.Identification
	EtudesSecondaires *profil.EtudesSecondaires
	Examen            *profil.Examen
	Langues           []profil.ConnaissanceLangue
	Curriculum        profil.Curriculum
	Comptabilite      *profil.Comptabilite
	Questions         []QuestionSpecifique

	// Fichiers holds the uploaded file identifiers per slot identifier.
	Fichiers map[string][]string

	// DocumentsSysteme holds generated PDFs per system slot name.
	DocumentsSysteme map[string][]string
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Emplacement is a catalog entry: a slot applicable to the current situation.
type Emplacement struct {
	Identifiant     string
	Onglet          OngletsDemande
	Libelle         string
	Type            TypeEmplacementDocument
	Requis          bool
	UUIDs           []string
	OngletChecklist string
}

// Checklist areas documents relate to.
const (
	checklistDonneesPersonnelles = "donnees_personnelles"
	checklistAssimilation        = "assimilation"
	checklistFinancabilite       = "financabilite"
	checklistParcoursAnterieur   = "parcours_anterieur"
	checklistChoixFormation      = "choix_formation"
	checklistProjetRecherche     = "projet_recherche"
	checklistDecisionSic         = "decision_sic"
)

var ongletChecklist = map[OngletsDemande]string{
	OngletIdentification:             checklistDonneesPersonnelles,
	OngletCoordonnees:                checklistDonneesPersonnelles,
	OngletEtudesSecondaires:          checklistParcoursAnterieur,
	OngletCurriculum:                 checklistParcoursAnterieur,
	OngletLangues:                    checklistDonneesPersonnelles,
	OngletComptabilite:               checklistFinancabilite,
	OngletProjet:                     checklistProjetRecherche,
	OngletCotutelle:                  checklistProjetRecherche,
	OngletSupervision:                checklistProjetRecherche,
	OngletChoixFormation:             checklistChoixFormation,
	OngletInformationsAdditionnelles: checklistChoixFormation,
	OngletSuiteAutorisation:          checklistDecisionSic,
}

// Regimes for which no sworn translation is asked.
var regimesSansTraduction = map[string]bool{"FR": true, "EN": true, "NL": true, "DE": true}

func necessiteTraduction(regime string) bool {
	return regime != "" && !regimesSansTraduction[regime]
}

// Generated documents, in presentation order.
var documentsSysteme = []string{
	"DOSSIER_ANALYSE",
	"ATTESTATION_ACCORD_FACULTAIRE",
	"ATTESTATION_REFUS_FACULTAIRE",
	"ATTESTATION_ACCORD_SIC",
	"ATTESTATION_ACCORD_ANNEXE_SIC",
	"ATTESTATION_REFUS_SIC",
}

type catalogue struct {
	resume *Resume
	slots  []Emplacement
	vus    map[string]bool
}

func (c *catalogue) ajouter(onglet OngletsDemande, requis bool, parts ...string) {
	c.ajouterAvecChecklist(onglet, requis, ongletChecklist[onglet], parts...)
}

func (c *catalogue) ajouterAvecChecklist(onglet OngletsDemande, requis bool, checklist string, parts ...string) {
	id := Identifiant(parts...)
	if c.vus[id] {
		return
	}
	c.vus[id] = true
	c.slots = append(c.slots, Emplacement{
		Identifiant:     id,
		Onglet:          onglet,
		Libelle:         parts[len(parts)-1],
		Type:            TypeNonLibre,
		Requis:          requis,
		UUIDs:           c.resume.Fichiers[id],
		OngletChecklist: checklist,
	})
}

// BuildCatalog lists every slot applicable to the resume, in the order
// identity, secondary studies, curriculum, accounting, specific questions,
// training-specific, system.
func BuildCatalog(r *Resume) []Emplacement {
	c := &catalogue{resume: r, vus: make(map[string]bool)}

	c.identification()
	c.etudesSecondaires()
	c.langues()
	c.curriculum()
	c.comptabilite()
	c.questionsSpecifiques()
	c.specifiquesFormation()
	c.systeme()

	return c.slots
}

func (c *catalogue) identification() {
	id := c.resume.Identification
	o := string(OngletIdentification)

	c.ajouter(OngletIdentification, true, o, "PHOTO_IDENTITE")
	switch {
	case id.NumeroCarteIdentite != "" || id.NumeroRegistreNationalBelge != "":
		c.ajouter(OngletIdentification, true, o, "CARTE_IDENTITE")
	case id.NumeroPasseport != "":
		c.ajouter(OngletIdentification, true, o, "PASSEPORT")
	}
}

func (c *catalogue) etudesSecondaires() {
	r := c.resume
	if !r.Formation.Type.EstBachelier() || r.EtudesSecondaires == nil {
		return
	}
	es := r.EtudesSecondaires
	o := string(OngletEtudesSecondaires)

	if !es.AUnDiplome() {
		if es.Alternative || (r.Examen != nil && r.Examen.Requis) {
			vae := profil.EstEligibleVAE(r.Curriculum.ExperiencesNonAcademiques)
			c.ajouter(OngletEtudesSecondaires, !vae, o, "ALTERNATIVE_SECONDAIRES_EXAMEN_ADMISSION_PREMIER_CYCLE")
		}
		return
	}

	requisDiplome := es.DiplomeObtenu == profil.DiplomeObtenuOui

	if es.DiplomeBelge != nil {
		c.ajouter(OngletEtudesSecondaires, requisDiplome, o, "DIPLOME_BELGE_DIPLOME")
		return
	}

	de := es.DiplomeEtranger
	if de == nil {
		return
	}
	traduction := necessiteTraduction(de.RegimeLinguistique)

	if de.NecessiteEquivalence() {
		exigee := r.Formation.EstMedecineDentisterie() || !r.Identification.PaysNationaliteUE
		switch de.Equivalence {
		case profil.EquivalenceOui:
			if de.PaysMembreUE {
				c.ajouter(OngletEtudesSecondaires, exigee, o, "DIPLOME_ETRANGER_DECISION_FINAL_EQUIVALENCE_UE")
			} else {
				c.ajouter(OngletEtudesSecondaires, exigee, o, "DIPLOME_ETRANGER_DECISION_FINAL_EQUIVALENCE_HORS_UE")
			}
		case profil.EquivalenceEnCours:
			c.ajouter(OngletEtudesSecondaires, exigee, o, "DIPLOME_ETRANGER_PREUVE_DECISION_EQUIVALENCE")
		}
	}

	c.ajouter(OngletEtudesSecondaires, requisDiplome, o, "DIPLOME_ETRANGER_DIPLOME")
	if traduction {
		c.ajouter(OngletEtudesSecondaires, requisDiplome, o, "DIPLOME_ETRANGER_TRADUCTION_DIPLOME")
	}
	c.ajouter(OngletEtudesSecondaires, true, o, "DIPLOME_ETRANGER_RELEVE_NOTES")
	if traduction {
		c.ajouter(OngletEtudesSecondaires, true, o, "DIPLOME_ETRANGER_TRADUCTION_RELEVE_NOTES")
	}
}

func (c *catalogue) langues() {
	if c.resume.Formation.Contexte() != formation.ContexteDoctorat {
		return
	}
	for _, l := range c.resume.Langues {
		if l.Certificat {
			c.ajouter(OngletLangues, false, string(OngletLangues), l.Langue, "CERTIFICAT_CONNAISSANCE_LANGUE")
		}
	}
}

func (c *catalogue) curriculum() {
	r := c.resume
	o := string(OngletCurriculum)
	doctorat := r.Formation.Contexte() == formation.ContexteDoctorat

	if doctorat || (r.Formation.Contexte() == formation.ContexteGenerale && !r.Formation.Type.EstBachelier()) {
		c.ajouter(OngletCurriculum, true, o, "CURRICULUM")
	}

	for _, exp := range r.Curriculum.ExperiencesAcademiques {
		traduction := necessiteTraduction(exp.RegimeLinguistique)

		if exp.TypeReleve == profil.ReleveParAnnee {
			for _, annee := range exp.Annees {
				a := strconv.Itoa(annee.Annee)
				requis := annee.Resultat != profil.ResultatEnAttente
				c.ajouter(OngletCurriculum, requis, o, exp.UUID, a, "RELEVE_NOTES_ANNUEL")
				if traduction {
					c.ajouter(OngletCurriculum, requis, o, exp.UUID, a, "TRADUCTION_RELEVE_NOTES_ANNUEL")
				}
			}
		} else {
			requis := !exp.UneAnneeEnAttente()
			c.ajouter(OngletCurriculum, requis, o, exp.UUID, "RELEVE_NOTES")
			if traduction {
				c.ajouter(OngletCurriculum, requis, o, exp.UUID, "TRADUCTION_RELEVE_NOTES")
			}
		}

		if exp.ObtentionDiplome {
			if doctorat {
				c.ajouter(OngletCurriculum, true, o, exp.UUID, "RESUME_MEMOIRE")
			}
			c.ajouter(OngletCurriculum, true, o, exp.UUID, "DIPLOME")
			if traduction {
				c.ajouter(OngletCurriculum, true, o, exp.UUID, "TRADUCTION_DIPLOME")
			}
		}
	}

	for _, exp := range r.Curriculum.ExperiencesNonAcademiques {
		c.ajouter(OngletCurriculum, exp.Type == profil.ActiviteTravail, o, exp.UUID, "CERTIFICAT_EXPERIENCE")
	}
}

func (c *catalogue) comptabilite() {
	r := c.resume
	compta := r.Comptabilite
	if compta == nil || r.Formation.Contexte() == formation.ContexteContinue {
		return
	}
	o := string(OngletComptabilite)

	if compta.AttestationAbsenceDette {
		c.ajouter(OngletComptabilite, true, o, "ATTESTATION_ABSENCE_DETTE_ETABLISSEMENT")
	}
	if compta.EnfantDuPersonnel {
		c.ajouter(OngletComptabilite, true, o, "ATTESTATION_ENFANT_PERSONNEL")
	}

	if r.Identification.PaysNationaliteUE || r.Identification.EstBelge() {
		return
	}
	for _, nom := range documentsAssimilation(compta) {
		c.ajouterAvecChecklist(OngletComptabilite, true, checklistAssimilation, o, nom)
	}
}

// documentsAssimilation lists the documents proving an assimilation situation.
func documentsAssimilation(compta *profil.Comptabilite) []string {
	switch compta.TypeSituationAssimilation {
	case profil.AssimilationResidentLongueDuree:
		switch compta.SousTypeSituation {
		case "CARTE_RESIDENT_LONGUE_DUREE", "CARTE_CIRE_SEJOUR_ILLIMITE_ETRANGER",
			"CARTE_SEJOUR_MEMBRE_UE", "CARTE_SEJOUR_PERMANENT_MEMBRE_UE":
			return []string{compta.SousTypeSituation}
		}
	case profil.AssimilationRefugieApatride:
		switch compta.SousTypeSituation {
		case "REFUGIE":
			return []string{"CARTE_A_B_REFUGIE", "ANNEXE_25_26_REFUGIES_APATRIDES"}
		case "APATRIDE":
			return []string{"PREUVE_STATUT_APATRIDE"}
		case "PROTECTION_SUBSIDIAIRE":
			return []string{"CARTE_A_B", "DECISION_PROTECTION_SUBSIDIAIRE"}
		case "PROTECTION_TEMPORAIRE":
			return []string{"DECISION_PROTECTION_TEMPORAIRE", "CARTE_A"}
		}
	case profil.AssimilationRevenusProfessionnels:
		switch compta.SousTypeSituation {
		case "REVENUS_PROFESSIONNELS":
			return []string{"TITRE_SEJOUR_3_MOIS_PROFESSIONEL", "FICHES_REMUNERATION"}
		case "REVENUS_REMPLACEMENT":
			return []string{"TITRE_SEJOUR_3_MOIS_REMPLACEMENT", "PREUVE_ALLOCATIONS_CHOMAGE_PENSION_INDEMNITE"}
		}
	case profil.AssimilationCPAS:
		return []string{"ATTESTATION_CPAS"}
	case profil.AssimilationProche:
		return documentsProche(compta)
	case profil.AssimilationBoursier:
		switch compta.SousTypeSituation {
		case "DECISION_BOURSE_CFWB", "ATTESTATION_BOURSIER":
			return []string{compta.SousTypeSituation}
		}
	case profil.AssimilationResidentLongueDureeUE:
		return []string{"TITRE_IDENTITE_SEJOUR_LONGUE_DUREE_UE", "TITRE_SEJOUR_BELGIQUE"}
	}
	return nil
}

// documentsProche covers situation 5: the link with the relative, then the
// relative's own situation.
func documentsProche(compta *profil.Comptabilite) []string {
	var docs []string
	parent := false
	switch compta.RelationParente {
	case profil.RelationPere, profil.RelationMere:
		docs = append(docs, "COMPOSITION_MENAGE_ACTE_NAISSANCE")
		parent = true
	case profil.RelationTuteurLegal:
		docs = append(docs, "ACTE_TUTELLE")
		parent = true
	case profil.RelationConjoint:
		docs = append(docs, "COMPOSITION_MENAGE_ACTE_MARIAGE")
	case profil.RelationCohabitantLegal:
		docs = append(docs, "ATTESTATION_COHABITATION_LEGALE")
	}

	switch compta.SituationParent {
	case "NATIONALITE_UE":
		if parent {
			docs = append(docs, "CARTE_IDENTITE_PARENT")
		}
	case "RESIDENT_LONGUE_DUREE":
		docs = append(docs, "TITRE_SEJOUR_LONGUE_DUREE_PARENT")
	case "REFUGIE_APATRIDE_PROTECTION":
		docs = append(docs, "ANNEXE_25_26_REFUGIES_APATRIDES_DECISION_PROTECTION_PARENT")
	case "REVENUS":
		docs = append(docs, "TITRE_SEJOUR_3_MOIS_PARENT", "FICHES_REMUNERATION_PARENT")
	case "CPAS":
		docs = append(docs, "ATTESTATION_CPAS_PARENT")
	}
	return docs
}

func (c *catalogue) questionsSpecifiques() {
	for _, q := range c.resume.Questions {
		if q.Type != QuestionDocument {
			continue
		}
		id := Identifiant(string(BaseQuestionSpecifique), q.UUID)
		if c.vus[id] {
			continue
		}
		c.vus[id] = true
		c.slots = append(c.slots, Emplacement{
			Identifiant:     id,
			Onglet:          q.Onglet,
			Libelle:         q.Libelle,
			Type:            TypeNonLibre,
			Requis:          q.Requis,
			UUIDs:           c.resume.Fichiers[id],
			OngletChecklist: ongletChecklist[q.Onglet],
		})
	}
}

func (c *catalogue) specifiquesFormation() {
	r := c.resume
	ia := string(OngletInformationsAdditionnelles)
	contexte := r.Formation.Contexte()

	if contexte != formation.ContexteContinue && !r.Identification.PaysNationaliteUE &&
		!r.Identification.EstBelge() && r.Identification.ResideEnBelgique() {
		c.ajouter(OngletInformationsAdditionnelles, true, ia, "COPIE_TITRE_SEJOUR")
	}

	if contexte == formation.ContexteGenerale {
		if r.EstReorientation {
			c.ajouter(OngletInformationsAdditionnelles, true, ia, "ATTESTATION_INSCRIPTION_REGULIERE")
		}
		if r.EstModificationInscription {
			c.ajouter(OngletInformationsAdditionnelles, true, ia, "FORMULAIRE_MODIFICATION_INSCRIPTION")
		}
		c.ajouter(OngletInformationsAdditionnelles, false, ia, "ADDITIONAL_DOCUMENTS")

		if r.Formation.Type.EstAssimileBachelier() && diplomeObtenuALEtranger(r.Curriculum) {
			c.ajouter(OngletCurriculum, true, string(OngletCurriculum), "DIPLOME_EQUIVALENCE")
		}
	}

	if contexte == formation.ContexteDoctorat {
		p := string(OngletProjet)
		if r.FinancementParBourse {
			c.ajouter(OngletProjet, true, p, "PREUVE_BOURSE")
		}
		c.ajouter(OngletProjet, true, p, "DOCUMENTS_PROJET")
		c.ajouter(OngletProjet, true, p, "PROPOSITION_PROGRAMME_DOCTORAL")
		c.ajouter(OngletProjet, false, p, "PROJET_FORMATION_COMPLEMENTAIRE")
		c.ajouter(OngletProjet, false, p, "GRAPHE_GANTT")
		c.ajouter(OngletProjet, false, p, "LETTRES_RECOMMANDATION")

		if r.Cotutelle {
			ct := string(OngletCotutelle)
			c.ajouter(OngletCotutelle, true, ct, "DEMANDE_OUVERTURE")
			c.ajouter(OngletCotutelle, true, ct, "CONVENTION")
			c.ajouter(OngletCotutelle, false, ct, "AUTRES_DOCUMENTS")
		}
		for _, membre := range r.MembresSupervision {
			c.ajouter(OngletSupervision, false, string(OngletSupervision), membre, "APPROBATION_PDF")
		}
	}

	if r.InscriptionAutorisee {
		sa := string(OngletSuiteAutorisation)
		c.ajouter(OngletSuiteAutorisation, true, sa, "AUTORISATION_PDF_SIGNEE")
		if r.DoitFournirVisaEtudes {
			c.ajouter(OngletSuiteAutorisation, true, sa, "VISA_ETUDES")
		}
	}
}

func diplomeObtenuALEtranger(cv profil.Curriculum) bool {
	for _, exp := range cv.ExperiencesAcademiques {
		if exp.ObtentionDiplome && exp.Pays != "" && exp.Pays != profil.PaysBelgique {
			return true
		}
	}
	return false
}

func (c *catalogue) systeme() {
	for _, nom := range documentsSysteme {
		uuids := c.resume.DocumentsSysteme[nom]
		if len(uuids) == 0 {
			continue
		}
		id := Identifiant(string(BaseSysteme), nom)
		c.vus[id] = true
		c.slots = append(c.slots, Emplacement{
			Identifiant: id,
			Libelle:     nom,
			Type:        TypeSysteme,
			UUIDs:       uuids,
		})
	}
}
