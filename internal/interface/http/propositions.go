package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alem-hub/admission-workflow/internal/application/command"
	"github.com/alem-hub/admission-workflow/internal/application/query"
	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
)

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Handler is implemented by the application command and query handlers.
type Handler[C, R any] interface {
	Handle(ctx context.Context, c C) (R, error)
}

// HandlerFunc adapts a method value to Handler.
type HandlerFunc[C, R any] func(ctx context.Context, c C) (R, error)

// Handle calls f.
func (f HandlerFunc[C, R]) Handle(ctx context.Context, c C) (R, error) {
	return f(ctx, c)
}

// Commands are the write side handlers. A nil handler leaves its route
// unregistered.
type Commands struct {
	Soumettre                Handler[command.SoumettrePropositionCommand, *command.SoumettrePropositionResult]
	ApprouverParFac          Handler[command.ApprouverParFacCommand, *command.DecisionResult]
	RefuserParFac            Handler[command.RefuserParFacCommand, *command.DecisionResult]
	ApprouverParSic          Handler[command.ApprouverParSicCommand, *command.DecisionResult]
	RefuserParSic            Handler[command.RefuserParSicCommand, *command.DecisionResult]
	ReclamerDocuments        Handler[command.ReclamerDocumentsCommand, *command.DocumentsResult]
	CompleterDocuments       Handler[command.CompleterDocumentsCommand, *command.DocumentsResult]
	PayerFraisDossier        Handler[command.PayerFraisDossierCommand, *command.PayerFraisDossierResult]
	ModifierStatutExperience Handler[command.ModifierStatutExperienceCommand, *command.ChecklistResult]
	AuthentifierExperience   Handler[command.ModifierAuthentificationExperienceCommand, *command.ChecklistResult]

	ChangerStatut                    Handler[command.ChangerStatutCommand, *command.ChangerStatutResult]
	SpecifierPaiementPlusNecessaire  Handler[command.SpecifierPaiementPlusNecessaireCommand, *command.PayerFraisDossierResult]
	SpecifierConditionAcces          Handler[command.SpecifierConditionAccesCommand, *proposition.Proposition]
	SpecifierInformationsAcceptation Handler[command.SpecifierInformationsAcceptationCommand, *proposition.Proposition]
	CreerEmplacement                 Handler[command.CreerEmplacementLibreCommand, *command.CreerEmplacementLibreResult]
	ModifierReclamationEmplacement   Handler[command.ModifierReclamationEmplacementCommand, []document.EmplacementDocument]
	AnnulerReclamationEmplacement    Handler[command.AnnulerReclamationEmplacementCommand, []document.EmplacementDocument]
	ModifierStatutChecklist          Handler[command.ModifierStatutChecklistCommand, *command.ChecklistResult]
	ModifierStatutParcoursAnterieur  Handler[command.ModifierStatutParcoursAnterieurCommand, *command.ChecklistResult]
}

// Queries are the read side handlers.
type Queries struct {
	Verifier           Handler[query.VerifierPropositionQuery, *query.VerifierPropositionResult]
	VerifierCurriculum Handler[query.VerifierCurriculumQuery, *query.VerifierCurriculumResult]
	ListerDocuments    Handler[query.ListerDocumentsQuery, *query.ListerDocumentsResult]
	Rechercher         Handler[query.RechercherPropositionsQuery, *query.RechercherPropositionsResult]
	Historique         Handler[query.HistoriqueQuery, []query.EntreeHistoriqueDTO]
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTES
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) propositionRoutes(r chi.Router) {
	c, q := s.deps.Commands, s.deps.Queries

	if q.Rechercher != nil {
		r.Get("/", s.handleRechercher)
	}

	r.Route("/{uuid}", func(r chi.Router) {
		mount(s, r, http.MethodGet, "/verification", q.Verifier, decodeVerifier, identity[*query.VerifierPropositionResult])
		mount(s, r, http.MethodGet, "/curriculum", q.VerifierCurriculum, decodeVerifierCurriculum, identity[*query.VerifierCurriculumResult])
		mount(s, r, http.MethodGet, "/documents", q.ListerDocuments, decodeListerDocuments, identity[*query.ListerDocumentsResult])
		mount(s, r, http.MethodGet, "/historique", q.Historique, decodeHistorique, identity[[]query.EntreeHistoriqueDTO])

		mount(s, r, http.MethodPost, "/soumettre", c.Soumettre, decodeSoumettre, newSoumissionResponse)
		mount(s, r, http.MethodPost, "/approuver-fac", c.ApprouverParFac, decodeApprouverFac, newDecisionResponse)
		mount(s, r, http.MethodPost, "/refuser-fac", c.RefuserParFac, decodeRefuserFac, newDecisionResponse)
		mount(s, r, http.MethodPost, "/approuver-sic", c.ApprouverParSic, decodeApprouverSic, newDecisionResponse)
		mount(s, r, http.MethodPost, "/refuser-sic", c.RefuserParSic, decodeRefuserSic, newDecisionResponse)
		mount(s, r, http.MethodPost, "/documents/reclamer", c.ReclamerDocuments, decodeReclamerDocuments, newDocumentsResponse)
		mount(s, r, http.MethodPost, "/documents/completer", c.CompleterDocuments, decodeCompleterDocuments, newDocumentsResponse)
		mount(s, r, http.MethodPost, "/frais/payer", c.PayerFraisDossier, decodePayerFrais, newPaiementResponse)
		mount(s, r, http.MethodPut, "/checklist/parcours-anterieur/{experience}", c.ModifierStatutExperience, decodeStatutExperience, newChecklistResponse)
		mount(s, r, http.MethodPut, "/checklist/parcours-anterieur/{experience}/authentification", c.AuthentifierExperience, decodeAuthentification, newChecklistResponse)
		mount(s, r, http.MethodPut, "/checklist/parcours-anterieur", c.ModifierStatutParcoursAnterieur, decodeStatutParcoursAnterieur, newChecklistResponse)
		mount(s, r, http.MethodPut, "/checklist/{onglet}", c.ModifierStatutChecklist, decodeStatutChecklist, newChecklistResponse)

		mount(s, r, http.MethodPost, "/statut", c.ChangerStatut, decodeChangerStatut, newChangementStatutResponse)
		mount(s, r, http.MethodPost, "/frais/dispenser", c.SpecifierPaiementPlusNecessaire, decodeDispense, newPaiementResponse)
		mount(s, r, http.MethodPut, "/condition-acces", c.SpecifierConditionAcces, decodeConditionAcces, newPropositionResponse)
		mount(s, r, http.MethodPut, "/informations-acceptation", c.SpecifierInformationsAcceptation, decodeInformationsAcceptation, newPropositionResponse)

		mount(s, r, http.MethodPost, "/emplacements", c.CreerEmplacement, decodeCreerEmplacement, newEmplacementCreeResponse)
		mount(s, r, http.MethodPut, "/emplacements/{identifiant}/reclamation", c.ModifierReclamationEmplacement, decodeModifierReclamation, identity[[]document.EmplacementDocument])
		mount(s, r, http.MethodDelete, "/emplacements/{identifiant}/reclamation", c.AnnulerReclamationEmplacement, decodeAnnulerReclamation, identity[[]document.EmplacementDocument])
	})
}

// mount registers one route dispatching to h. decode builds the command or
// query from the request and the proposition uuid. Nothing is registered for
// a nil handler.
func mount[C, R any](s *Server, r chi.Router, method, pattern string, h Handler[C, R], decode func(*http.Request, string) (C, error), encode func(R) any) {
	if h == nil {
		return
	}
	op := strings.TrimPrefix(pattern, "/")
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		in, err := decode(req, chi.URLParam(req, "uuid"))
		if err != nil {
			s.writeError(w, req, op, err)
			return
		}
		out, err := h.Handle(req.Context(), in)
		if err != nil {
			s.writeError(w, req, op, err)
			return
		}
		writeJSON(w, req, http.StatusOK, encode(out))
	}))
}

func identity[R any](r R) any { return r }

// handleRechercher handles GET /api/v1/propositions
func (s *Server) handleRechercher(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, err := getQueryParamInt(r, "page", 1)
	if err != nil {
		s.writeError(w, r, "rechercher", invalidRequest(err.Error()))
		return
	}
	pageSize, err := getQueryParamInt(r, "page_size", 20)
	if err != nil {
		s.writeError(w, r, "rechercher", invalidRequest(err.Error()))
		return
	}
	annee, err := getQueryParamInt(r, "annee", 0)
	if err != nil {
		s.writeError(w, r, "rechercher", invalidRequest(err.Error()))
		return
	}

	q := query.RechercherPropositionsQuery{
		Matricule:      params.Get("matricule"),
		Contexte:       formation.Contexte(params.Get("contexte")),
		AnneeFormation: annee,
		Page:           page,
		PageSize:       pageSize,
	}
	for _, st := range splitList(params["statut"]) {
		q.Statuts = append(q.Statuts, proposition.ChoixStatutProposition(st))
	}

	result, err := s.deps.Queries.Rechercher.Handle(r.Context(), q)
	if err != nil {
		s.writeError(w, r, "rechercher", err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, result.Propositions, &ResponseMeta{
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING
// ══════════════════════════════════════════════════════════════════════════════

type auteurRequest struct {
	Auteur string `json:"auteur"`
}

type refusRequest struct {
	Auteur string   `json:"auteur"`
	Motifs []string `json:"motifs"`
}

type reclamationRequest struct {
	Auteur     string    `json:"auteur"`
	Par        string    `json:"par"`
	DateLimite time.Time `json:"date_limite"`
}

type completionRequest struct {
	Auteur   string              `json:"auteur"`
	Reponses map[string][]string `json:"reponses"`
}

type statutExperienceRequest struct {
	Auteur string `json:"auteur"`
	Statut string `json:"statut"`
}

type authentificationRequest struct {
	Auteur      string `json:"auteur"`
	Etat        string `json:"etat"`
	Commentaire string `json:"commentaire"`
}

// decodeBody decodes a JSON body into dst. Unknown fields are rejected.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return invalidRequest("request body is required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return invalidRequest("request body too large")
		}
		return invalidRequest("malformed JSON body: " + err.Error())
	}
	return nil
}

func requireAuteur(auteur string) error {
	if strings.TrimSpace(auteur) == "" {
		return invalidRequest("auteur is required")
	}
	return nil
}

// decodeAuteur reads a body holding only the acting user.
func decodeAuteur(r *http.Request) (string, error) {
	var body auteurRequest
	if err := decodeBody(r, &body); err != nil {
		return "", err
	}
	return body.Auteur, requireAuteur(body.Auteur)
}

func decodeRefus(r *http.Request) (refusRequest, error) {
	var body refusRequest
	if err := decodeBody(r, &body); err != nil {
		return body, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return body, err
	}
	if len(body.Motifs) == 0 {
		return body, invalidRequest("at least one motif is required")
	}
	return body, nil
}

func decodeVerifier(_ *http.Request, uuid string) (query.VerifierPropositionQuery, error) {
	return query.VerifierPropositionQuery{UUIDProposition: uuid}, nil
}

func decodeVerifierCurriculum(_ *http.Request, uuid string) (query.VerifierCurriculumQuery, error) {
	return query.VerifierCurriculumQuery{UUIDProposition: uuid}, nil
}

func decodeListerDocuments(r *http.Request, uuid string) (query.ListerDocumentsQuery, error) {
	q := query.ListerDocumentsQuery{
		UUIDProposition: uuid,
		Onglet:          document.OngletsDemande(r.URL.Query().Get("onglet")),
	}
	for _, st := range splitList(r.URL.Query()["statut"]) {
		q.Statuts = append(q.Statuts, document.StatutEmplacementDocument(st))
	}
	return q, nil
}

func decodeHistorique(r *http.Request, uuid string) (query.HistoriqueQuery, error) {
	limite, err := getQueryParamInt(r, "limite", 0)
	if err != nil {
		return query.HistoriqueQuery{}, invalidRequest(err.Error())
	}
	return query.HistoriqueQuery{UUIDProposition: uuid, Limite: limite}, nil
}

func decodeSoumettre(r *http.Request, uuid string) (command.SoumettrePropositionCommand, error) {
	auteur, err := decodeAuteur(r)
	return command.SoumettrePropositionCommand{UUIDProposition: uuid, Auteur: auteur}, err
}

func decodeApprouverFac(r *http.Request, uuid string) (command.ApprouverParFacCommand, error) {
	auteur, err := decodeAuteur(r)
	return command.ApprouverParFacCommand{UUIDProposition: uuid, Auteur: auteur}, err
}

func decodeRefuserFac(r *http.Request, uuid string) (command.RefuserParFacCommand, error) {
	body, err := decodeRefus(r)
	return command.RefuserParFacCommand{UUIDProposition: uuid, Motifs: body.Motifs, Auteur: body.Auteur}, err
}

func decodeApprouverSic(r *http.Request, uuid string) (command.ApprouverParSicCommand, error) {
	auteur, err := decodeAuteur(r)
	return command.ApprouverParSicCommand{UUIDProposition: uuid, Auteur: auteur}, err
}

func decodeRefuserSic(r *http.Request, uuid string) (command.RefuserParSicCommand, error) {
	body, err := decodeRefus(r)
	return command.RefuserParSicCommand{UUIDProposition: uuid, Motifs: body.Motifs, Auteur: body.Auteur}, err
}

func decodeReclamerDocuments(r *http.Request, uuid string) (command.ReclamerDocumentsCommand, error) {
	var body reclamationRequest
	if err := decodeBody(r, &body); err != nil {
		return command.ReclamerDocumentsCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.ReclamerDocumentsCommand{}, err
	}
	par := proposition.Demandeur(strings.ToUpper(body.Par))
	if par != proposition.DemandeurFac && par != proposition.DemandeurSic {
		return command.ReclamerDocumentsCommand{}, invalidRequest("par must be FAC or SIC")
	}
	if body.DateLimite.IsZero() {
		return command.ReclamerDocumentsCommand{}, invalidRequest("date_limite is required")
	}
	return command.ReclamerDocumentsCommand{
		UUIDProposition: uuid,
		Par:             par,
		DateLimite:      body.DateLimite,
		Auteur:          body.Auteur,
	}, nil
}

func decodeCompleterDocuments(r *http.Request, uuid string) (command.CompleterDocumentsCommand, error) {
	var body completionRequest
	if err := decodeBody(r, &body); err != nil {
		return command.CompleterDocumentsCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.CompleterDocumentsCommand{}, err
	}
	return command.CompleterDocumentsCommand{UUIDProposition: uuid, Reponses: body.Reponses, Auteur: body.Auteur}, nil
}

func decodePayerFrais(r *http.Request, uuid string) (command.PayerFraisDossierCommand, error) {
	auteur, err := decodeAuteur(r)
	return command.PayerFraisDossierCommand{UUIDProposition: uuid, Auteur: auteur}, err
}

func decodeStatutExperience(r *http.Request, uuid string) (command.ModifierStatutExperienceCommand, error) {
	var body statutExperienceRequest
	if err := decodeBody(r, &body); err != nil {
		return command.ModifierStatutExperienceCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.ModifierStatutExperienceCommand{}, err
	}
	if body.Statut == "" {
		return command.ModifierStatutExperienceCommand{}, invalidRequest("statut is required")
	}
	return command.ModifierStatutExperienceCommand{
		UUIDProposition: uuid,
		UUIDExperience:  chi.URLParam(r, "experience"),
		Statut:          checklist.StatutValidationExperience(body.Statut),
		Auteur:          body.Auteur,
	}, nil
}

func decodeAuthentification(r *http.Request, uuid string) (command.ModifierAuthentificationExperienceCommand, error) {
	var body authentificationRequest
	if err := decodeBody(r, &body); err != nil {
		return command.ModifierAuthentificationExperienceCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.ModifierAuthentificationExperienceCommand{}, err
	}
	etat := checklist.EtatAuthentificationParcours(body.Etat)
	if !etat.IsValid() {
		return command.ModifierAuthentificationExperienceCommand{}, invalidRequest("unknown etat " + body.Etat)
	}
	return command.ModifierAuthentificationExperienceCommand{
		UUIDProposition: uuid,
		UUIDExperience:  chi.URLParam(r, "experience"),
		Etat:            etat,
		Commentaire:     body.Commentaire,
		Auteur:          body.Auteur,
	}, nil
}

type statutChecklistRequest struct {
	Auteur      string `json:"auteur"`
	Identifiant string `json:"identifiant"`
}

func decodeStatutChecklistBody(r *http.Request) (statutChecklistRequest, error) {
	var body statutChecklistRequest
	if err := decodeBody(r, &body); err != nil {
		return body, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return body, err
	}
	if body.Identifiant == "" {
		return body, invalidRequest("identifiant is required")
	}
	return body, nil
}

func decodeStatutChecklist(r *http.Request, uuid string) (command.ModifierStatutChecklistCommand, error) {
	body, err := decodeStatutChecklistBody(r)
	return command.ModifierStatutChecklistCommand{
		UUIDProposition: uuid,
		Onglet:          checklist.Onglet(chi.URLParam(r, "onglet")),
		Identifiant:     body.Identifiant,
		Auteur:          body.Auteur,
	}, err
}

func decodeStatutParcoursAnterieur(r *http.Request, uuid string) (command.ModifierStatutParcoursAnterieurCommand, error) {
	body, err := decodeStatutChecklistBody(r)
	return command.ModifierStatutParcoursAnterieurCommand{
		UUIDProposition: uuid,
		Identifiant:     body.Identifiant,
		Auteur:          body.Auteur,
	}, err
}

type changementStatutRequest struct {
	Auteur    string `json:"auteur"`
	Operation string `json:"operation"`
}

func decodeChangerStatut(r *http.Request, uuid string) (command.ChangerStatutCommand, error) {
	var body changementStatutRequest
	if err := decodeBody(r, &body); err != nil {
		return command.ChangerStatutCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.ChangerStatutCommand{}, err
	}
	if body.Operation == "" {
		return command.ChangerStatutCommand{}, invalidRequest("operation is required")
	}
	return command.ChangerStatutCommand{
		UUIDProposition: uuid,
		Operation:       proposition.Operation(body.Operation),
		Auteur:          body.Auteur,
	}, nil
}

type dispenseRequest struct {
	Auteur   string `json:"auteur"`
	Dispense bool   `json:"dispense"`
}

func decodeDispense(r *http.Request, uuid string) (command.SpecifierPaiementPlusNecessaireCommand, error) {
	var body dispenseRequest
	if err := decodeBody(r, &body); err != nil {
		return command.SpecifierPaiementPlusNecessaireCommand{}, err
	}
	return command.SpecifierPaiementPlusNecessaireCommand{
		UUIDProposition: uuid,
		Dispense:        body.Dispense,
		Auteur:          body.Auteur,
	}, requireAuteur(body.Auteur)
}

type conditionAccesRequest struct {
	Auteur          string                   `json:"auteur"`
	ConditionAcces  string                   `json:"condition_acces"`
	TitresAcces     []proposition.TitreAcces `json:"titres_acces"`
	TypeEquivalence string                   `json:"type_equivalence"`
}

func decodeConditionAcces(r *http.Request, uuid string) (command.SpecifierConditionAccesCommand, error) {
	var body conditionAccesRequest
	if err := decodeBody(r, &body); err != nil {
		return command.SpecifierConditionAccesCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.SpecifierConditionAccesCommand{}, err
	}
	return command.SpecifierConditionAccesCommand{
		UUIDProposition: uuid,
		ConditionAcces:  body.ConditionAcces,
		TitresAcces:     body.TitresAcces,
		TypeEquivalence: body.TypeEquivalence,
		Auteur:          body.Auteur,
	}, nil
}

type informationsAcceptationRequest struct {
	Auteur                        string   `json:"auteur"`
	AvecConditionsComplementaires *bool    `json:"avec_conditions_complementaires"`
	ConditionsComplementaires     []string `json:"conditions_complementaires"`
	AvecComplementsFormation      *bool    `json:"avec_complements_formation"`
	ComplementsFormation          []string `json:"complements_formation"`
	NombreAnneesPrevoirProgramme  *int     `json:"nombre_annees_prevoir_programme"`
	DoitFournirVisaEtudes         bool     `json:"doit_fournir_visa_etudes"`
}

func decodeInformationsAcceptation(r *http.Request, uuid string) (command.SpecifierInformationsAcceptationCommand, error) {
	var body informationsAcceptationRequest
	if err := decodeBody(r, &body); err != nil {
		return command.SpecifierInformationsAcceptationCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.SpecifierInformationsAcceptationCommand{}, err
	}
	return command.SpecifierInformationsAcceptationCommand{
		UUIDProposition: uuid,
		Informations: proposition.InformationsAcceptation{
			AvecConditionsComplementaires: body.AvecConditionsComplementaires,
			ConditionsComplementaires:     body.ConditionsComplementaires,
			AvecComplementsFormation:      body.AvecComplementsFormation,
			ComplementsFormation:          body.ComplementsFormation,
			NombreAnneesPrevoirProgramme:  body.NombreAnneesPrevoirProgramme,
			DoitFournirVisaEtudes:         body.DoitFournirVisaEtudes,
		},
		Auteur: body.Auteur,
	}, nil
}

type emplacementLibreRequest struct {
	Auteur                 string `json:"auteur"`
	Type                   string `json:"type"`
	Onglet                 string `json:"onglet"`
	Libelle                string `json:"libelle"`
	Raison                 string `json:"raison"`
	OngletChecklistAssocie string `json:"onglet_checklist_associe"`
}

func decodeCreerEmplacement(r *http.Request, uuid string) (command.CreerEmplacementLibreCommand, error) {
	var body emplacementLibreRequest
	if err := decodeBody(r, &body); err != nil {
		return command.CreerEmplacementLibreCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.CreerEmplacementLibreCommand{}, err
	}
	typ := document.TypeEmplacementDocument(strings.ToUpper(body.Type))
	if !typ.IsValid() || !typ.EstLibre() {
		return command.CreerEmplacementLibreCommand{}, invalidRequest("type must be a free slot type")
	}
	if strings.TrimSpace(body.Libelle) == "" {
		return command.CreerEmplacementLibreCommand{}, invalidRequest("libelle is required")
	}
	return command.CreerEmplacementLibreCommand{
		UUIDProposition: uuid,
		Emplacement: document.EmplacementLibre{
			Type:                   typ,
			Onglet:                 document.OngletsDemande(body.Onglet),
			Libelle:                body.Libelle,
			Raison:                 body.Raison,
			OngletChecklistAssocie: body.OngletChecklistAssocie,
		},
		Auteur: body.Auteur,
	}, nil
}

type modificationReclamationRequest struct {
	Auteur  string `json:"auteur"`
	Urgence string `json:"urgence"`
	Raison  string `json:"raison"`
}

func decodeModifierReclamation(r *http.Request, uuid string) (command.ModifierReclamationEmplacementCommand, error) {
	var body modificationReclamationRequest
	if err := decodeBody(r, &body); err != nil {
		return command.ModifierReclamationEmplacementCommand{}, err
	}
	if err := requireAuteur(body.Auteur); err != nil {
		return command.ModifierReclamationEmplacementCommand{}, err
	}
	return command.ModifierReclamationEmplacementCommand{
		UUIDProposition: uuid,
		Identifiant:     chi.URLParam(r, "identifiant"),
		Urgence:         document.StatutReclamationEmplacementDocument(body.Urgence),
		Raison:          body.Raison,
		Auteur:          body.Auteur,
	}, nil
}

func decodeAnnulerReclamation(r *http.Request, uuid string) (command.AnnulerReclamationEmplacementCommand, error) {
	auteur, err := decodeAuteur(r)
	return command.AnnulerReclamationEmplacementCommand{
		UUIDProposition: uuid,
		Identifiant:     chi.URLParam(r, "identifiant"),
		Auteur:          auteur,
	}, err
}

// splitList accepts both repeated and comma separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSES
// ══════════════════════════════════════════════════════════════════════════════

type soumissionResponse struct {
	UUIDProposition string                         `json:"uuid_proposition"`
	Statut          string                         `json:"statut"`
	SoumiseLe       time.Time                      `json:"soumise_le"`
	Emplacements    []document.EmplacementDocument `json:"emplacements"`
}

func newSoumissionResponse(r *command.SoumettrePropositionResult) any {
	return soumissionResponse{
		UUIDProposition: r.UUIDProposition,
		Statut:          string(r.Statut),
		SoumiseLe:       r.SoumiseLe,
		Emplacements:    r.Emplacements,
	}
}

type decisionResponse struct {
	UUIDProposition  string                         `json:"uuid_proposition"`
	Statut           string                         `json:"statut"`
	DocumentsSysteme map[string][]string            `json:"documents_systeme,omitempty"`
	Emplacements     []document.EmplacementDocument `json:"emplacements"`
}

func newDecisionResponse(r *command.DecisionResult) any {
	return decisionResponse{
		UUIDProposition:  r.UUIDProposition,
		Statut:           string(r.Statut),
		DocumentsSysteme: r.DocumentsSysteme,
		Emplacements:     r.Emplacements,
	}
}

type documentsResponse struct {
	UUIDProposition string                         `json:"uuid_proposition"`
	Statut          string                         `json:"statut"`
	Identifiants    []string                       `json:"identifiants"`
	Emplacements    []document.EmplacementDocument `json:"emplacements"`
}

func newDocumentsResponse(r *command.DocumentsResult) any {
	return documentsResponse{
		UUIDProposition: r.UUIDProposition,
		Statut:          string(r.Statut),
		Identifiants:    r.Identifiants,
		Emplacements:    r.Emplacements,
	}
}

type paiementResponse struct {
	UUIDProposition string `json:"uuid_proposition"`
	Statut          string `json:"statut"`
}

func newPaiementResponse(r *command.PayerFraisDossierResult) any {
	return paiementResponse{UUIDProposition: r.UUIDProposition, Statut: string(r.Statut)}
}

type changementStatutResponse struct {
	UUIDProposition string `json:"uuid_proposition"`
	Precedent       string `json:"precedent"`
	Statut          string `json:"statut"`
}

func newChangementStatutResponse(r *command.ChangerStatutResult) any {
	return changementStatutResponse{
		UUIDProposition: r.UUIDProposition,
		Precedent:       string(r.Precedent),
		Statut:          string(r.Statut),
	}
}

func newPropositionResponse(p *proposition.Proposition) any {
	return query.NewPropositionDTO(p)
}

type emplacementCreeResponse struct {
	Identifiant  string                         `json:"identifiant"`
	Emplacements []document.EmplacementDocument `json:"emplacements"`
}

func newEmplacementCreeResponse(r *command.CreerEmplacementLibreResult) any {
	return emplacementCreeResponse{Identifiant: r.Identifiant, Emplacements: r.Emplacements}
}

type statutChecklistResponse struct {
	Identifiant string            `json:"identifiant"`
	Libelle     string            `json:"libelle"`
	Statut      string            `json:"statut"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type checklistResponse struct {
	UUIDProposition string                      `json:"uuid_proposition"`
	Onglet          string                      `json:"onglet"`
	Statut          statutChecklistResponse     `json:"statut"`
	Checklist       *checklist.StatutsChecklist `json:"checklist,omitempty"`
}

func newChecklistResponse(r *command.ChecklistResult) any {
	return checklistResponse{
		UUIDProposition: r.UUIDProposition,
		Onglet:          string(r.Onglet),
		Statut: statutChecklistResponse{
			Identifiant: r.Statut.Identifiant,
			Libelle:     r.Statut.Libelle,
			Statut:      string(r.Statut.Statut),
			Extra:       r.Statut.Extra,
		},
		Checklist: r.Checklist,
	}
}
