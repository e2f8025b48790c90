package checklist

import "github.com/alem-hub/admission-workflow/internal/domain/shared"

// ConfigurationStatut is one named status a manager can pick for an area.
type ConfigurationStatut struct {
	Identifiant string
	Libelle     string
	Statut      ChoixStatutChecklist
	Extra       map[string]string
}

// Correspond reports whether a node is in this configured status: same
// status, and every configured extra value present on the node.
func (c ConfigurationStatut) Correspond(s *StatutChecklist) bool {
	if s == nil || s.Statut != c.Statut {
		return false
	}
	for k, v := range c.Extra {
		if s.Extra[k] != v {
			return false
		}
	}
	return true
}

// Configuration is the set of statuses available on an area.
type Configuration struct {
	Onglet  Onglet
	Statuts []ConfigurationStatut
}

// Statut returns the configured status with the given identifier.
func (c Configuration) Statut(identifiant string) (ConfigurationStatut, bool) {
	for _, s := range c.Statuts {
		if s.Identifiant == identifiant {
			return s, true
		}
	}
	return ConfigurationStatut{}, false
}

// Courant returns the configured status matching a node, preferring the
// most specific extra constraints.
func (c Configuration) Courant(s *StatutChecklist) (ConfigurationStatut, bool) {
	best, found := ConfigurationStatut{}, false
	for _, cfg := range c.Statuts {
		if cfg.Correspond(s) && (!found || len(cfg.Extra) > len(best.Extra)) {
			best, found = cfg, true
		}
	}
	return best, found
}

// Identifiers of the parcours_anterieur statuses.
const (
	ParcoursATraiter    = "A_TRAITER"
	ParcoursToilette    = "TOILETTE"
	ParcoursInsuffisant = "INSUFFISANT"
	ParcoursSuffisant   = "SUFFISANT"
)

var configurations = map[Onglet]Configuration{
	OngletDonneesPersonnelles: {OngletDonneesPersonnelles, []ConfigurationStatut{
		{"A_TRAITER", "To be processed", InitialCandidat, nil},
		{"EN_COURS", "In progress", GestEnCours, nil},
		{"A_COMPLETER", "To be completed", GestBlocage, map[string]string{"fraud": "0"}},
		{"FRAUDEUR", "Fraudster", GestBlocage, map[string]string{"fraud": "1"}},
		{"VALIDEES", "Validated", GestReussite, nil},
	}},
	OngletAssimilation: {OngletAssimilation, []ConfigurationStatut{
		{"NON_CONCERNE", "Not concerned", InitialNonConcerne, nil},
		{"DECLARE_ASSIMILE_OU_PAS", "Declared assimilated or not", InitialCandidat, nil},
		{"AVIS_EXPERT", "Expert opinion", GestEnCours, nil},
		{"A_COMPLETER", "To be completed", GestBlocage, nil},
		{"A_COMPLETER_APRES_INSCRIPTION", "To be completed after application", GestBlocageUlterieur, nil},
		{"VALIDEE", "Validated", GestReussite, nil},
	}},
	OngletFraisDossier: {OngletFraisDossier, []ConfigurationStatut{
		{"NON_CONCERNE", "Not concerned", InitialNonConcerne, nil},
		{"EN_ATTENTE", "Must pay", GestBlocage, nil},
		{"DISPENSE", "Dispensed", GestReussite, nil},
		{"PAYES", "Payed", SystReussite, nil},
	}},
	OngletChoixFormation: {OngletChoixFormation, []ConfigurationStatut{
		{"A_TRAITER", "To be processed", InitialCandidat, nil},
		{"EN_COURS", "In progress", GestEnCours, nil},
		{"VALIDE", "Validated", GestReussite, nil},
	}},
	OngletParcoursAnterieur: {OngletParcoursAnterieur, []ConfigurationStatut{
		{ParcoursATraiter, "To be processed", InitialCandidat, nil},
		{ParcoursToilette, "Cleaning", GestEnCours, nil},
		{ParcoursInsuffisant, "Insufficient", GestBlocage, nil},
		{ParcoursSuffisant, "Sufficient", GestReussite, nil},
	}},
	OngletFinancabilite: {OngletFinancabilite, []ConfigurationStatut{
		{"NON_CONCERNE", "Not concerned", InitialNonConcerne, nil},
		{"A_TRAITER", "To be processed", InitialCandidat, nil},
		{"AVIS_EXPERT", "Expert opinion", GestEnCours, map[string]string{"en_cours": "expert"}},
		{"BESOIN_DEROGATION", "Dérogation needed", GestEnCours, map[string]string{"en_cours": "derogation"}},
		{"A_COMPLETER", "To be completed", GestBlocage, map[string]string{"to_be_completed": "1"}},
		{"NON_FINANCABLE", "Not financeable", GestBlocage, map[string]string{"to_be_completed": "0"}},
		{"DEROGATION_ACCORDEE", "Dérogation granted", GestReussite, map[string]string{"reussite": "derogation"}},
		{"FINANCABLE", "Financeable", GestReussite, map[string]string{"reussite": "financable"}},
	}},
	OngletProjetRecherche: {OngletProjetRecherche, []ConfigurationStatut{
		{"A_TRAITER", "To be processed", InitialCandidat, nil},
		{"EN_COURS", "In progress", GestEnCours, nil},
		{"A_COMPLETER", "To be completed", GestBlocage, nil},
		{"VALIDE", "Validated", GestReussite, nil},
	}},
	OngletDecisionFacultaire: {OngletDecisionFacultaire, []ConfigurationStatut{
		{"A_TRAITER", "To be processed", InitialCandidat, nil},
		{"PRIS_EN_CHARGE", "Taken in charge", GestEnCours, nil},
		{"REFUS", "Denied", GestBlocage, map[string]string{"decision": "2"}},
		{"APPROUVE", "Approved", GestReussite, nil},
	}},
	OngletDecisionCdd: {OngletDecisionCdd, []ConfigurationStatut{
		{"A_TRAITER", "To be processed", InitialCandidat, nil},
		{"PRIS_EN_CHARGE", "Taken in charge", GestEnCours, nil},
		{"REFUS", "Denied", GestBlocage, map[string]string{"decision": "EN_DECISION"}},
		{"CLOTURE", "Closed", GestBlocage, map[string]string{"decision": "CLOTURE"}},
		{"ACCORD", "Approval", GestReussite, nil},
	}},
	OngletDecisionSic: {OngletDecisionSic, []ConfigurationStatut{
		{"A_TRAITER", "To be processed", InitialCandidat, nil},
		{"AUTORISATION_A_VALIDER", "Authorization to be validated", GestEnCours, map[string]string{"en_cours": "approval"}},
		{"REFUS_A_VALIDER", "Refusal to be validated", GestEnCours, map[string]string{"en_cours": "refusal"}},
		{"A_COMPLETER", "To be completed", GestBlocage, map[string]string{"blocage": "to_be_completed"}},
		{"CLOTURE", "Closed", GestBlocage, map[string]string{"blocage": "closed"}},
		{"REFUSE", "Refused", GestBlocage, map[string]string{"blocage": "refusal"}},
		{"AUTORISE", "Authorized", GestReussite, nil},
	}},
}

// ConfigurationOnglet returns the configured statuses of an area.
func ConfigurationOnglet(onglet Onglet) (Configuration, bool) {
	c, ok := configurations[onglet]
	return c, ok
}

// Appliquer forces a configured status on a node without checking the
// manager transitions. Used by system operations.
func Appliquer(onglet Onglet, s *StatutChecklist, identifiant string) error {
	cfg, ok := configurations[onglet]
	if !ok {
		return shared.ErrStatutChecklistInvalide
	}
	statut, ok := cfg.Statut(identifiant)
	if !ok {
		return shared.ErrStatutChecklistInvalide
	}
	s.Forcer(statut.Statut, statut.Libelle, statut.Extra)
	return nil
}

// MustAppliquer is Appliquer for fixed system statuses. It panics when the
// identifier is not configured for the area.
func MustAppliquer(onglet Onglet, s *StatutChecklist, identifiant string) {
	if err := Appliquer(onglet, s, identifiant); err != nil {
		panic("checklist: " + string(onglet) + "." + identifiant + ": " + err.Error())
	}
}

// Choisir moves a node to a configured status through the manager
// transitions.
func Choisir(onglet Onglet, s *StatutChecklist, identifiant string) (ConfigurationStatut, error) {
	cfg, ok := configurations[onglet]
	if !ok {
		return ConfigurationStatut{}, shared.ErrStatutChecklistInvalide
	}
	statut, ok := cfg.Statut(identifiant)
	if !ok {
		return ConfigurationStatut{}, shared.ErrStatutChecklistInvalide
	}
	return statut, s.Changer(statut.Statut, statut.Libelle, statut.Extra)
}
