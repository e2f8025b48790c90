package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

var infoMaster = formation.Formation{Sigle: "INFO2M", Annee: 2020, Type: formation.TypeMaster}

func nouvelle(t *testing.T, matricule string, creeLe time.Time) *proposition.Proposition {
	t.Helper()
	p, err := proposition.Nouvelle(matricule, infoMaster, proposition.TypeAdmission, creeLe)
	require.NoError(t, err)
	return p
}

func TestPropositionRepository_OptimisticLocking(t *testing.T) {
	ctx := context.Background()
	repo := NewPropositionRepository()
	p := nouvelle(t, "0123456", time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, repo.Save(ctx, p))
	assert.Equal(t, 1, p.Version)

	a, err := repo.Get(ctx, p.UUID)
	require.NoError(t, err)
	b, err := repo.Get(ctx, p.UUID)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, a))
	err = repo.Save(ctx, b)
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)

	// Copies do not leak back into the store.
	a.MatriculeCandidat = "9999999"
	stored, err := repo.Get(ctx, p.UUID)
	require.NoError(t, err)
	assert.Equal(t, "0123456", stored.MatriculeCandidat)

	_, err = repo.Get(ctx, "inconnue")
	assert.ErrorIs(t, err, shared.ErrPropositionNonTrouvee)
}

func TestPropositionRepository_SearchNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPropositionRepository()
	debut := time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, nouvelle(t, "0123456", debut.AddDate(0, 0, i))))
	}
	require.NoError(t, repo.Save(ctx, nouvelle(t, "7654321", debut)))

	found, err := repo.Search(ctx, proposition.Filtre{Matricule: "0123456"})
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.True(t, found[0].CreeLe.After(found[1].CreeLe))

	page, err := repo.Search(ctx, proposition.Filtre{Matricule: "0123456", Pagination: shared.NewPagination(2, 2)})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, debut, page[0].CreeLe)

	n, err := repo.CountSoumises(ctx, "0123456")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAcademicYearRepository(t *testing.T) {
	repo := NewAcademicYearRepository()

	a, err := repo.Courante(context.Background(), time.Date(2021, time.September, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2020, a.Annee)

	a, err = repo.Courante(context.Background(), time.Date(2021, time.September, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2021, a.Annee)

	_, err = repo.Get(context.Background(), 0)
	assert.ErrorIs(t, err, shared.ErrAnneeAcademiqueInconnu)
}

func TestQuestionsSpecifiquesRepository(t *testing.T) {
	repo := NewQuestionsSpecifiquesRepository()
	q := document.QuestionSpecifique{UUID: "q-1", Requis: true, Libelle: "Lettre de motivation"}
	repo.Configurer(infoMaster, q)

	found, err := repo.Search(context.Background(), infoMaster)
	require.NoError(t, err)
	assert.Equal(t, []document.QuestionSpecifique{q}, found)

	autre := infoMaster
	autre.Annee = 2021
	found, err = repo.Search(context.Background(), autre)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestServices(t *testing.T) {
	ctx := context.Background()
	p := nouvelle(t, "0123456", time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC))

	paiement := NewPaiementService()
	paye, err := paiement.PaiementRealise(ctx, p.UUID)
	require.NoError(t, err)
	assert.False(t, paye)
	paiement.Marquer(p.UUID, true)
	paye, err = paiement.PaiementRealise(ctx, p.UUID)
	require.NoError(t, err)
	assert.True(t, paye)

	pdf := NewPdfGenerationService()
	first, err := pdf.Generer(ctx, p, "recapitulatif")
	require.NoError(t, err)
	second, err := pdf.Generer(ctx, p, "attestation")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, []string{"recapitulatif", "attestation"}, pdf.Modeles(p.UUID))

	historique := NewHistoriqueService()
	t0 := time.Date(2020, time.November, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, historique.Historiser(ctx, proposition.EntreeHistorique{UUIDProposition: p.UUID, Evenement: "soumise", Horodatage: t0}))
	require.NoError(t, historique.Historiser(ctx, proposition.EntreeHistorique{UUIDProposition: p.UUID, Evenement: "payee", Horodatage: t0.Add(time.Hour)}))
	entrees, err := historique.Lister(ctx, p.UUID)
	require.NoError(t, err)
	require.Len(t, entrees, 2)
	assert.Equal(t, "payee", entrees[0].Evenement)

	notifications := NewNotificationService()
	require.NoError(t, notifications.DemanderDocuments(ctx, p, []string{"CURRICULUM.DIPLOME"}))
	require.Len(t, notifications.Messages(), 1)
	assert.Equal(t, []string{"CURRICULUM.DIPLOME"}, notifications.Messages()[0].Identifiants)
}
