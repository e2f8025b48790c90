// Package checklist models the manager review checklist of a proposition:
// one small status automaton per functional area, plus one child node per
// curriculum experience under the prior-curriculum area.
package checklist

import (
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// ChoixStatutChecklist is the status of one checklist node.
type ChoixStatutChecklist string

const (
	InitialNonConcerne   ChoixStatutChecklist = "INITIAL_NON_CONCERNE"
	InitialCandidat      ChoixStatutChecklist = "INITIAL_CANDIDAT"
	GestEnCours          ChoixStatutChecklist = "GEST_EN_COURS"
	GestBlocage          ChoixStatutChecklist = "GEST_BLOCAGE"
	GestBlocageUlterieur ChoixStatutChecklist = "GEST_BLOCAGE_ULTERIEUR"
	GestReussite         ChoixStatutChecklist = "GEST_REUSSITE"
	SystReussite         ChoixStatutChecklist = "SYST_REUSSITE"
)

// IsValid checks the status is known.
func (s ChoixStatutChecklist) IsValid() bool {
	switch s {
	case InitialNonConcerne, InitialCandidat, GestEnCours, GestBlocage,
		GestBlocageUlterieur, GestReussite, SystReussite:
		return true
	default:
		return false
	}
}

// transitions lists the moves a manager may make on an area.
var transitions = map[ChoixStatutChecklist][]ChoixStatutChecklist{
	InitialCandidat:      {GestEnCours},
	GestEnCours:          {GestBlocage, GestBlocageUlterieur, GestReussite},
	GestBlocage:          {GestEnCours},
	GestBlocageUlterieur: {GestEnCours},
}

// PeutPasser reports whether a manager may move from one status to another.
// Staying on the same status is always allowed.
func PeutPasser(from, to ChoixStatutChecklist) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// NODE
// ══════════════════════════════════════════════════════════════════════════════

// StatutChecklist is one checklist node. The JSON shape is the stored one.
type StatutChecklist struct {
	Libelle string               `json:"libelle"`
	Enfants []StatutChecklist    `json:"enfants"`
	Statut  ChoixStatutChecklist `json:"statut"`
	Extra   map[string]string    `json:"extra"`
}

// Nouveau creates a node without children.
func Nouveau(statut ChoixStatutChecklist, libelle string) *StatutChecklist {
	return &StatutChecklist{
		Libelle: libelle,
		Enfants: []StatutChecklist{},
		Statut:  statut,
		Extra:   map[string]string{},
	}
}

// Clone returns a deep copy.
func (s *StatutChecklist) Clone() *StatutChecklist {
	if s == nil {
		return nil
	}
	c := &StatutChecklist{
		Libelle: s.Libelle,
		Statut:  s.Statut,
		Extra:   make(map[string]string, len(s.Extra)),
		Enfants: make([]StatutChecklist, 0, len(s.Enfants)),
	}
	for k, v := range s.Extra {
		c.Extra[k] = v
	}
	for i := range s.Enfants {
		c.Enfants = append(c.Enfants, *s.Enfants[i].Clone())
	}
	return c
}

// Changer moves the node to a new status through the manager transitions.
// Extra values replace the previous ones.
func (s *StatutChecklist) Changer(statut ChoixStatutChecklist, libelle string, extra map[string]string) error {
	if !statut.IsValid() {
		return shared.ErrStatutChecklistInvalide
	}
	if !PeutPasser(s.Statut, statut) {
		return shared.WrapError("checklist", "Changer", shared.ErrStateTransition,
			string(s.Statut)+" -> "+string(statut), shared.ErrTransitionChecklist)
	}
	s.Forcer(statut, libelle, extra)
	return nil
}

// Forcer sets the status without checking the manager transitions.
// Used by system operations (submission, payment, decisions).
func (s *StatutChecklist) Forcer(statut ChoixStatutChecklist, libelle string, extra map[string]string) {
	s.Statut = statut
	if libelle != "" {
		s.Libelle = libelle
	}
	s.Extra = make(map[string]string, len(extra))
	for k, v := range extra {
		s.Extra[k] = v
	}
}

// Enfant returns the child whose extra.identifiant matches, or nil.
func (s *StatutChecklist) Enfant(identifiant string) *StatutChecklist {
	for i := range s.Enfants {
		if s.Enfants[i].Extra[ExtraIdentifiant] == identifiant {
			return &s.Enfants[i]
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECKLIST
// ══════════════════════════════════════════════════════════════════════════════

// Onglet is a checklist area key.
type Onglet string

const (
	OngletDonneesPersonnelles Onglet = "donnees_personnelles"
	OngletAssimilation        Onglet = "assimilation"
	OngletFraisDossier        Onglet = "frais_dossier"
	OngletChoixFormation      Onglet = "choix_formation"
	OngletParcoursAnterieur   Onglet = "parcours_anterieur"
	OngletFinancabilite       Onglet = "financabilite"
	OngletProjetRecherche     Onglet = "projet_recherche"
	OngletDecisionFacultaire  Onglet = "decision_facultaire"
	OngletDecisionCdd         Onglet = "decision_cdd"
	OngletDecisionSic         Onglet = "decision_sic"
)

// StatutsChecklist is the full checklist of a proposition. Areas that do
// not apply to the training context are nil.
type StatutsChecklist struct {
	DonneesPersonnelles *StatutChecklist `json:"donnees_personnelles,omitempty"`
	Assimilation        *StatutChecklist `json:"assimilation,omitempty"`
	FraisDossier        *StatutChecklist `json:"frais_dossier,omitempty"`
	ChoixFormation      *StatutChecklist `json:"choix_formation,omitempty"`
	ParcoursAnterieur   *StatutChecklist `json:"parcours_anterieur,omitempty"`
	Financabilite       *StatutChecklist `json:"financabilite,omitempty"`
	ProjetRecherche     *StatutChecklist `json:"projet_recherche,omitempty"`
	DecisionFacultaire  *StatutChecklist `json:"decision_facultaire,omitempty"`
	DecisionCdd         *StatutChecklist `json:"decision_cdd,omitempty"`
	DecisionSic         *StatutChecklist `json:"decision_sic,omitempty"`
}

func (c *StatutsChecklist) champ(onglet Onglet) **StatutChecklist {
	switch onglet {
	case OngletDonneesPersonnelles:
		return &c.DonneesPersonnelles
	case OngletAssimilation:
		return &c.Assimilation
	case OngletFraisDossier:
		return &c.FraisDossier
	case OngletChoixFormation:
		return &c.ChoixFormation
	case OngletParcoursAnterieur:
		return &c.ParcoursAnterieur
	case OngletFinancabilite:
		return &c.Financabilite
	case OngletProjetRecherche:
		return &c.ProjetRecherche
	case OngletDecisionFacultaire:
		return &c.DecisionFacultaire
	case OngletDecisionCdd:
		return &c.DecisionCdd
	case OngletDecisionSic:
		return &c.DecisionSic
	default:
		return nil
	}
}

// Get returns the area node.
// Returns shared.ErrChecklistNonInitialisee when the area is absent.
func (c *StatutsChecklist) Get(onglet Onglet) (*StatutChecklist, error) {
	if c == nil {
		return nil, shared.ErrChecklistNonInitialisee
	}
	f := c.champ(onglet)
	if f == nil || *f == nil {
		return nil, shared.NewDomainError("checklist", "Get", shared.ErrInvalidState, "checklist area not initialized: "+string(onglet))
	}
	return *f, nil
}

// Set replaces an area node. Unknown areas are ignored.
func (c *StatutsChecklist) Set(onglet Onglet, statut *StatutChecklist) {
	if f := c.champ(onglet); f != nil {
		*f = statut
	}
}

// Onglets lists the initialized areas in display order.
func (c *StatutsChecklist) Onglets() []Onglet {
	all := []Onglet{
		OngletDonneesPersonnelles, OngletAssimilation, OngletFraisDossier, OngletChoixFormation,
		OngletParcoursAnterieur, OngletFinancabilite, OngletProjetRecherche,
		OngletDecisionFacultaire, OngletDecisionCdd, OngletDecisionSic,
	}
	out := make([]Onglet, 0, len(all))
	for _, o := range all {
		if f := c.champ(o); f != nil && *f != nil {
			out = append(out, o)
		}
	}
	return out
}

// Clone returns a deep copy of the whole checklist.
func (c *StatutsChecklist) Clone() *StatutsChecklist {
	if c == nil {
		return nil
	}
	out := &StatutsChecklist{}
	for _, o := range c.Onglets() {
		out.Set(o, (*c.champ(o)).Clone())
	}
	return out
}
