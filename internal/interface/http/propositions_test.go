package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/admission-workflow/internal/application/command"
	"github.com/alem-hub/admission-workflow/internal/domain/checklist"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
)

func TestChangerStatut(t *testing.T) {
	var recu command.ChangerStatutCommand
	changer := HandlerFunc[command.ChangerStatutCommand, *command.ChangerStatutResult](
		func(_ context.Context, cmd command.ChangerStatutCommand) (*command.ChangerStatutResult, error) {
			recu = cmd
			return &command.ChangerStatutResult{
				UUIDProposition: cmd.UUIDProposition,
				Precedent:       proposition.StatutEnBrouillon,
				Statut:          proposition.StatutEnAttenteDeSignature,
			}, nil
		})
	h := newTestServer(t, testConfig(), Dependencies{Commands: Commands{ChangerStatut: changer}})
	path := "/api/v1/propositions/" + uuidProposition + "/statut"

	rec, _ := do(t, h, http.MethodPost, path, `{"auteur":"0123456"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, h, http.MethodPost, path, `{"auteur":"0123456","operation":"VerrouillerPourSignature"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, proposition.OpVerrouillerPourSignature, recu.Operation)

	var data changementStatutResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, string(proposition.StatutEnBrouillon), data.Precedent)
	assert.Equal(t, string(proposition.StatutEnAttenteDeSignature), data.Statut)
}

func TestDispenserFrais(t *testing.T) {
	var recu command.SpecifierPaiementPlusNecessaireCommand
	dispenser := HandlerFunc[command.SpecifierPaiementPlusNecessaireCommand, *command.PayerFraisDossierResult](
		func(_ context.Context, cmd command.SpecifierPaiementPlusNecessaireCommand) (*command.PayerFraisDossierResult, error) {
			recu = cmd
			return &command.PayerFraisDossierResult{UUIDProposition: cmd.UUIDProposition, Statut: proposition.StatutConfirmee}, nil
		})
	h := newTestServer(t, testConfig(), Dependencies{Commands: Commands{SpecifierPaiementPlusNecessaire: dispenser}})

	rec, env := do(t, h, http.MethodPost, "/api/v1/propositions/"+uuidProposition+"/frais/dispenser", `{"auteur":"sic","dispense":true}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, recu.Dispense)
	var data paiementResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, string(proposition.StatutConfirmee), data.Statut)
}

func TestCreerEmplacement(t *testing.T) {
	called := 0
	var recu command.CreerEmplacementLibreCommand
	creer := HandlerFunc[command.CreerEmplacementLibreCommand, *command.CreerEmplacementLibreResult](
		func(_ context.Context, cmd command.CreerEmplacementLibreCommand) (*command.CreerEmplacementLibreResult, error) {
			called++
			recu = cmd
			return &command.CreerEmplacementLibreResult{Identifiant: "LIBRE_CANDIDAT.a1b2"}, nil
		})
	h := newTestServer(t, testConfig(), Dependencies{Commands: Commands{CreerEmplacement: creer}})
	path := "/api/v1/propositions/" + uuidProposition + "/emplacements"

	tests := []struct {
		name string
		body string
	}{
		{"fixed type", `{"auteur":"sic","type":"NON_LIBRE","libelle":"Diplome"}`},
		{"system type", `{"auteur":"sic","type":"SYSTEME","libelle":"Diplome"}`},
		{"unknown type", `{"auteur":"sic","type":"LIBRE_AUTRE","libelle":"Diplome"}`},
		{"missing label", `{"auteur":"sic","type":"LIBRE_RECLAMABLE_SIC","libelle":" "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "invalid_request", env.Error.Code)
		})
	}
	require.Zero(t, called)

	rec, env := do(t, h, http.MethodPost, path, `{"auteur":"sic","type":"libre_reclamable_sic","libelle":"Diplome traduit","onglet":"CURRICULUM"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, document.TypeLibreReclamableSic, recu.Emplacement.Type)
	assert.Equal(t, "Diplome traduit", recu.Emplacement.Libelle)

	var data emplacementCreeResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "LIBRE_CANDIDAT.a1b2", data.Identifiant)
}

func TestReclamationEmplacement(t *testing.T) {
	var modifie command.ModifierReclamationEmplacementCommand
	var annule command.AnnulerReclamationEmplacementCommand
	h := newTestServer(t, testConfig(), Dependencies{Commands: Commands{
		ModifierReclamationEmplacement: HandlerFunc[command.ModifierReclamationEmplacementCommand, []document.EmplacementDocument](
			func(_ context.Context, cmd command.ModifierReclamationEmplacementCommand) ([]document.EmplacementDocument, error) {
				modifie = cmd
				return nil, nil
			}),
		AnnulerReclamationEmplacement: HandlerFunc[command.AnnulerReclamationEmplacementCommand, []document.EmplacementDocument](
			func(_ context.Context, cmd command.AnnulerReclamationEmplacementCommand) ([]document.EmplacementDocument, error) {
				annule = cmd
				return nil, nil
			}),
	}})
	path := "/api/v1/propositions/" + uuidProposition + "/emplacements/CURRICULUM.DIPLOME/reclamation"

	rec, _ := do(t, h, http.MethodPut, path, `{"auteur":"sic","urgence":"ULTERIEUREMENT_BLOQUANT","raison":"Illisible"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CURRICULUM.DIPLOME", modifie.Identifiant)
	assert.Equal(t, "Illisible", modifie.Raison)

	rec, _ = do(t, h, http.MethodDelete, path, `{"auteur":"sic"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CURRICULUM.DIPLOME", annule.Identifiant)
	assert.Equal(t, "sic", annule.Auteur)
}

func TestModifierStatutChecklist(t *testing.T) {
	var onglet, parcours string
	resultat := func(o checklist.Onglet, id string) *command.ChecklistResult {
		return &command.ChecklistResult{
			UUIDProposition: uuidProposition,
			Onglet:          o,
			Statut:          checklist.ConfigurationStatut{Identifiant: id, Statut: checklist.GestEnCours},
		}
	}
	h := newTestServer(t, testConfig(), Dependencies{Commands: Commands{
		ModifierStatutChecklist: HandlerFunc[command.ModifierStatutChecklistCommand, *command.ChecklistResult](
			func(_ context.Context, cmd command.ModifierStatutChecklistCommand) (*command.ChecklistResult, error) {
				onglet = string(cmd.Onglet)
				return resultat(cmd.Onglet, cmd.Identifiant), nil
			}),
		ModifierStatutParcoursAnterieur: HandlerFunc[command.ModifierStatutParcoursAnterieurCommand, *command.ChecklistResult](
			func(_ context.Context, cmd command.ModifierStatutParcoursAnterieurCommand) (*command.ChecklistResult, error) {
				parcours = cmd.Identifiant
				return resultat(checklist.OngletParcoursAnterieur, cmd.Identifiant), nil
			}),
	}})
	base := "/api/v1/propositions/" + uuidProposition + "/checklist/"

	rec, _ := do(t, h, http.MethodPut, base+"financabilite", `{"auteur":"sic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, h, http.MethodPut, base+"financabilite", `{"auteur":"sic","identifiant":"A_TRAITER"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, string(checklist.OngletFinancabilite), onglet)
	var data checklistResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "A_TRAITER", data.Statut.Identifiant)

	// The static segment wins over the tab parameter.
	rec, _ = do(t, h, http.MethodPut, base+"parcours-anterieur", `{"auteur":"sic","identifiant":"SUFFISANT"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SUFFISANT", parcours)
	assert.Equal(t, string(checklist.OngletFinancabilite), onglet)
}
