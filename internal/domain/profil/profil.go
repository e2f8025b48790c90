// Package profil holds the read-only view of an applicant's profile
// (identity, addresses, secondary studies, curriculum, accounting answers)
// as supplied by the reference system.
package profil

import (
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTIFICATION & ADDRESSES
// ══════════════════════════════════════════════════════════════════════════════

// Identification is the civil identity of the candidate.
type Identification struct {
	Matricule                   string     `json:"matricule"`
	Nom                         string     `json:"nom"`
	Prenom                      string     `json:"prenom"`
	Sexe                        string     `json:"sexe"`
	DateNaissance               *time.Time `json:"date_naissance,omitempty"`
	AnneeNaissance              int        `json:"annee_naissance,omitempty"`
	PaysNationalite             string     `json:"pays_nationalite"`
	PaysNationaliteUE           bool       `json:"pays_nationalite_europeen"`
	PaysResidence               string     `json:"pays_residence"`
	NumeroRegistreNationalBelge string     `json:"numero_registre_national_belge"`
	NumeroCarteIdentite         string     `json:"numero_carte_identite"`
	NumeroPasseport             string     `json:"numero_passeport"`
}

// PaysBelgique is the ISO code of Belgium.
const PaysBelgique = "BE"

// EstBelge reports whether the candidate has the Belgian nationality.
func (i Identification) EstBelge() bool {
	return i.PaysNationalite == PaysBelgique
}

// ResideEnBelgique reports whether the candidate lives in Belgium.
func (i Identification) ResideEnBelgique() bool {
	return i.PaysResidence == PaysBelgique
}

// NomsCompletes reports whether the mandatory civil fields are filled in.
func (i Identification) NomsCompletes() bool {
	return strings.TrimSpace(i.Nom) != "" && strings.TrimSpace(i.Prenom) != "" &&
		i.Sexe != "" && i.PaysNationalite != ""
}

// AUnNumeroIdentite reports whether any identity document number is known.
func (i Identification) AUnNumeroIdentite() bool {
	return i.NumeroRegistreNationalBelge != "" || i.NumeroCarteIdentite != "" || i.NumeroPasseport != ""
}

// Adresse is a postal address.
type Adresse struct {
	Rue        string `json:"rue"`
	Numero     string `json:"numero_rue"`
	CodePostal string `json:"code_postal"`
	Ville      string `json:"ville"`
	Pays       string `json:"pays"`
}

// EstComplete reports whether the address can be used for mailing.
func (a Adresse) EstComplete() bool {
	return a.Rue != "" && a.Numero != "" && a.CodePostal != "" && a.Ville != "" && a.Pays != ""
}

// Coordonnees are the candidate's addresses.
type Coordonnees struct {
	DomicileLegal  *Adresse `json:"domicile_legal,omitempty"`
	Correspondance *Adresse `json:"adresse_correspondance,omitempty"`
}

// ConnaissanceLangue is one known language.
type ConnaissanceLangue struct {
	Langue     string `json:"langue"`
	Certificat bool   `json:"certificat"`
}

// Langues the doctoral candidate must declare.
const (
	LangueFrancais = "FR"
	LangueAnglais  = "EN"
)

// ══════════════════════════════════════════════════════════════════════════════
// SECONDARY STUDIES
// ══════════════════════════════════════════════════════════════════════════════

// DiplomeObtenu tells when the secondary diploma was (or will be) obtained.
type DiplomeObtenu string

const (
	DiplomeObtenuOui        DiplomeObtenu = "YES"
	DiplomeObtenuCetteAnnee DiplomeObtenu = "THIS_YEAR"
	DiplomeObtenuNon        DiplomeObtenu = "NO"
)

// TypeDiplomeEtranger is the kind of foreign secondary diploma.
type TypeDiplomeEtranger string

const (
	DiplomeEtrangerNational                  TypeDiplomeEtranger = "NATIONAL_BACHELOR"
	DiplomeEtrangerBaccalaureatEuropeen      TypeDiplomeEtranger = "EUROPEAN_BACHELOR"
	DiplomeEtrangerBaccalaureatInternational TypeDiplomeEtranger = "INTERNATIONAL_BACCALAUREATE"
)

// Equivalence is the state of an equivalence decision.
type Equivalence string

const (
	EquivalenceOui     Equivalence = "YES"
	EquivalenceEnCours Equivalence = "PENDING"
	EquivalenceNon     Equivalence = "NO"
)

// DiplomeBelge is a Belgian secondary diploma.
type DiplomeBelge struct {
	Communaute string `json:"communaute"`
}

// DiplomeEtranger is a foreign secondary diploma.
type DiplomeEtranger struct {
	TypeDiplome        TypeDiplomeEtranger `json:"type_diplome"`
	PaysMembreUE       bool                `json:"pays_membre_ue"`
	RegimeLinguistique string              `json:"regime_linguistique"`
	Equivalence        Equivalence         `json:"equivalence"`
}

// NecessiteEquivalence reports whether an equivalence decision is expected.
func (d DiplomeEtranger) NecessiteEquivalence() bool {
	return d.TypeDiplome == DiplomeEtrangerNational
}

// EtudesSecondaires is the candidate's secondary education record.
type EtudesSecondaires struct {
	DiplomeObtenu   DiplomeObtenu    `json:"diplome_obtenu"`
	AnneeDiplome    int              `json:"annee_diplome,omitempty"`
	DiplomeBelge    *DiplomeBelge    `json:"diplome_belge,omitempty"`
	DiplomeEtranger *DiplomeEtranger `json:"diplome_etranger,omitempty"`
	Alternative     bool             `json:"alternative_secondaires"`
}

// AUnDiplome reports whether a diploma is obtained or expected this year.
func (e EtudesSecondaires) AUnDiplome() bool {
	return e.DiplomeObtenu == DiplomeObtenuOui || e.DiplomeObtenu == DiplomeObtenuCetteAnnee
}

// Examen is the admission exam taken as an alternative to secondary studies.
type Examen struct {
	Requis bool `json:"requis"`
	Annee  int  `json:"annee,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CURRICULUM
// ══════════════════════════════════════════════════════════════════════════════

// TypeReleve tells whether transcripts are global or per year.
type TypeReleve string

const (
	ReleveUnique   TypeReleve = "UN_RELEVE"
	ReleveParAnnee TypeReleve = "RELEVE_PAR_ANNEE"
)

// Resultat of one academic year.
type Resultat string

const (
	ResultatReussite          Resultat = "SUCCESS"
	ResultatReussitePartielle Resultat = "SUCCESS_WITH_RESIDUAL_CREDITS"
	ResultatEchec             Resultat = "FAILURE"
	ResultatEnAttente         Resultat = "WAITING_RESULT"
)

// AnneeExperienceAcademique is one enrolled year of an academic experience.
type AnneeExperienceAcademique struct {
	Annee    int      `json:"annee"`
	Resultat Resultat `json:"resultat"`
}

// ExperienceAcademique is a higher-education curriculum entry.
type ExperienceAcademique struct {
	UUID               string                      `json:"uuid"`
	NomFormation       string                      `json:"nom_formation"`
	Pays               string                      `json:"pays"`
	RegimeLinguistique string                      `json:"regime_linguistique"`
	TypeReleve         TypeReleve                  `json:"type_releve_notes"`
	ObtentionDiplome   bool                        `json:"a_obtenu_diplome"`
	Annees             []AnneeExperienceAcademique `json:"annees"`
	Complete           bool                        `json:"est_complete"`
	Valorisee          []string                    `json:"valorisee_par_admissions"`
}

// EnAttente reports whether a year's result is still pending.
func (e ExperienceAcademique) EnAttente(annee int) bool {
	for _, a := range e.Annees {
		if a.Annee == annee {
			return a.Resultat == ResultatEnAttente
		}
	}
	return false
}

// UneAnneeEnAttente reports whether any year's result is pending.
func (e ExperienceAcademique) UneAnneeEnAttente() bool {
	for _, a := range e.Annees {
		if a.Resultat == ResultatEnAttente {
			return true
		}
	}
	return false
}

// TypeActivite is the kind of non-academic experience.
type TypeActivite string

const (
	ActiviteTravail          TypeActivite = "WORK"
	ActiviteStage            TypeActivite = "INTERNSHIP"
	ActiviteBenevolat        TypeActivite = "VOLUNTEERING"
	ActiviteChomage          TypeActivite = "UNEMPLOYMENT"
	ActiviteLanguesEtVoyages TypeActivite = "LANGUAGE_TRAVEL"
	ActiviteAutre            TypeActivite = "OTHER"
)

// ExperienceNonAcademique is a professional or personal activity.
type ExperienceNonAcademique struct {
	UUID      string       `json:"uuid"`
	Type      TypeActivite `json:"type"`
	Debut     time.Time    `json:"date_debut"`
	Fin       time.Time    `json:"date_fin"`
	Valorisee []string     `json:"valorisee_par_admissions"`
}

// InscriptionInterne is a past registration at the institution itself.
type InscriptionInterne struct {
	Annee    int  `json:"annee"`
	EnErreur bool `json:"en_erreur"`
}

// Curriculum is the candidate's full past track.
type Curriculum struct {
	ExperiencesAcademiques    []ExperienceAcademique    `json:"experiences_academiques"`
	ExperiencesNonAcademiques []ExperienceNonAcademique `json:"experiences_non_academiques"`
	InscriptionsInternes      []InscriptionInterne      `json:"inscriptions_internes"`
	AnneeDerniereInscription  int                       `json:"annee_derniere_inscription_ucl,omitempty"`
}

// Identifiants returns the experience identifiers in checklist order:
// academic first, then non-academic.
func (c Curriculum) Identifiants() []string {
	ids := make([]string, 0, len(c.ExperiencesAcademiques)+len(c.ExperiencesNonAcademiques))
	for _, e := range c.ExperiencesAcademiques {
		ids = append(ids, e.UUID)
	}
	for _, e := range c.ExperiencesNonAcademiques {
		ids = append(ids, e.UUID)
	}
	return ids
}

// ExperiencesValorisees returns the identifiers of experiences valued by
// the given proposition.
func (c Curriculum) ExperiencesValorisees(uuidProposition string) []string {
	var ids []string
	for _, e := range c.ExperiencesAcademiques {
		if contains(e.Valorisee, uuidProposition) {
			ids = append(ids, e.UUID)
		}
	}
	for _, e := range c.ExperiencesNonAcademiques {
		if contains(e.Valorisee, uuidProposition) {
			ids = append(ids, e.UUID)
		}
	}
	return ids
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNTING
// ══════════════════════════════════════════════════════════════════════════════

// TypeSituationAssimilation is one of the seven assimilation situations
// allowing a non-EU candidate to pay Belgian fees.
type TypeSituationAssimilation string

const (
	AssimilationAucune                TypeSituationAssimilation = "AUCUNE_ASSIMILATION"
	AssimilationResidentLongueDuree   TypeSituationAssimilation = "AUTORISATION_ETABLISSEMENT_OU_RESIDENT_LONGUE_DUREE"
	AssimilationRefugieApatride       TypeSituationAssimilation = "REFUGIE_OU_APATRIDE_OU_PROTECTION_SUBSIDIAIRE_TEMPORAIRE"
	AssimilationRevenusProfessionnels TypeSituationAssimilation = "AUTORISATION_SEJOUR_ET_REVENUS_PROFESSIONNELS_OU_REMPLACEMENT"
	AssimilationCPAS                  TypeSituationAssimilation = "PRIS_EN_CHARGE_OU_DESIGNE_CPAS"
	AssimilationProche                TypeSituationAssimilation = "PROCHE_A_NATIONALITE_UE_OU_RESPECTE_ASSIMILATIONS_1_A_4"
	AssimilationBoursier              TypeSituationAssimilation = "A_BOURSE_ARTICLE_105_PARAGRAPH_2"
	AssimilationResidentLongueDureeUE TypeSituationAssimilation = "RESIDENT_LONGUE_DUREE_UE_HORS_BELGIQUE"
)

// Comptabilite is the candidate's accounting answers, snapshotted on the proposition.
type Comptabilite struct {
	AttestationAbsenceDette   bool                      `json:"attestation_absence_dette_etablissement"`
	EnfantDuPersonnel         bool                      `json:"enfant_personnel"`
	TypeSituationAssimilation TypeSituationAssimilation `json:"type_situation_assimilation"`
	SousTypeSituation         string                    `json:"sous_type_situation_assimilation"`
	RelationParente           string                    `json:"relation_parente"`
	SituationParent           string                    `json:"situation_parent"`
}

// Relations used by situation 5.
const (
	RelationPere            = "PERE"
	RelationMere            = "MERE"
	RelationTuteurLegal     = "TUTEUR_LEGAL"
	RelationConjoint        = "CONJOINT"
	RelationCohabitantLegal = "COHABITANT_LEGAL"
)
