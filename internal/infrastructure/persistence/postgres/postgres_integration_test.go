//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/formation"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/admission-workflow/pkg/testutil/containers"
)

type PostgresSuite struct {
	suite.Suite
	conn         *postgres.Connection
	propositions *postgres.PropositionRepository
	documents    *postgres.DocumentRepository
	historique   *postgres.HistoriqueRepository
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(s.T())

	cfg := postgres.DefaultConfig()
	cfg.URL = pg.URL
	conn, err := postgres.NewConnection(ctx, cfg)
	s.Require().NoError(err)
	s.conn = conn

	s.Require().NoError(postgres.NewMigrator(conn).Migrate(ctx))
	// A second run finds nothing pending.
	s.Require().NoError(postgres.NewMigrator(conn).Migrate(ctx))

	s.propositions = postgres.NewPropositionRepository(conn)
	s.documents = postgres.NewDocumentRepository(conn)
	s.historique = postgres.NewHistoriqueRepository(conn)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *PostgresSuite) SetupTest() {
	_, err := s.conn.Exec(context.Background(), `TRUNCATE historique, emplacements_documents, propositions CASCADE`)
	s.Require().NoError(err)
}

func (s *PostgresSuite) nouvelle(matricule string, annee int) *proposition.Proposition {
	p, err := proposition.Nouvelle(matricule,
		formation.Formation{Sigle: "INFO2M", Annee: annee, Type: formation.TypeMaster},
		proposition.TypeAdmission,
		time.Date(annee, time.November, 1, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return p
}

func (s *PostgresSuite) TestSaveAndGet() {
	ctx := context.Background()
	p := s.nouvelle("0123456", 2020)

	s.Require().NoError(s.propositions.Save(ctx, p))
	s.Equal(1, p.Version)
	s.NotZero(p.Reference)

	got, err := s.propositions.Get(ctx, p.UUID)
	s.Require().NoError(err)
	s.Equal(p.UUID, got.UUID)
	s.Equal(p.Reference, got.Reference)
	s.Equal(proposition.StatutEnBrouillon, got.Statut)
	s.Equal("INFO2M", got.Formation.Sigle)
}

func (s *PostgresSuite) TestGetUnknown() {
	_, err := s.propositions.Get(context.Background(), "3f0c1f44-1a4c-4c61-9d3b-7f0d6b0b2a11")
	s.Require().Error(err)
	s.True(shared.IsNotFound(err))
}

func (s *PostgresSuite) TestOptimisticLocking() {
	ctx := context.Background()
	p := s.nouvelle("0123456", 2020)
	s.Require().NoError(s.propositions.Save(ctx, p))

	first, err := s.propositions.Get(ctx, p.UUID)
	s.Require().NoError(err)
	second, err := s.propositions.Get(ctx, p.UUID)
	s.Require().NoError(err)

	first.Statut = proposition.StatutConfirmee
	s.Require().NoError(s.propositions.Save(ctx, first))
	s.Equal(2, first.Version)

	second.Statut = proposition.StatutTraitementFac
	err = s.propositions.Save(ctx, second)
	s.Require().Error(err)
	s.True(errors.Is(err, shared.ErrConcurrentModification))

	stored, err := s.propositions.Get(ctx, p.UUID)
	s.Require().NoError(err)
	s.Equal(proposition.StatutConfirmee, stored.Statut)
}

func (s *PostgresSuite) TestSearchAndCount() {
	ctx := context.Background()

	brouillon := s.nouvelle("0123456", 2020)
	s.Require().NoError(s.propositions.Save(ctx, brouillon))

	confirmee := s.nouvelle("0123456", 2020)
	confirmee.Statut = proposition.StatutConfirmee
	s.Require().NoError(s.propositions.Save(ctx, confirmee))

	autre := s.nouvelle("7654321", 2021)
	autre.Statut = proposition.StatutConfirmee
	s.Require().NoError(s.propositions.Save(ctx, autre))

	n, err := s.propositions.CountSoumises(ctx, "0123456")
	s.Require().NoError(err)
	s.Equal(1, n)

	found, err := s.propositions.Search(ctx, proposition.Filtre{
		Statuts: []proposition.ChoixStatutProposition{proposition.StatutConfirmee},
	})
	s.Require().NoError(err)
	s.Len(found, 2)

	found, err = s.propositions.Search(ctx, proposition.Filtre{Matricule: "0123456", AnneeFormation: 2020})
	s.Require().NoError(err)
	s.Len(found, 2)

	found, err = s.propositions.Search(ctx, proposition.Filtre{
		Pagination: shared.Pagination{Page: 1, PageSize: 1},
	})
	s.Require().NoError(err)
	s.Len(found, 1)
}

func (s *PostgresSuite) TestDocumentSlots() {
	ctx := context.Background()
	p := s.nouvelle("0123456", 2020)
	s.Require().NoError(s.propositions.Save(ctx, p))

	limite := time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.documents.SaveMultiple(ctx, p.UUID, []document.EmplacementDocument{
		{
			Identifiant:       "CURRICULUM.CURRICULUM",
			Type:              document.TypeNonLibre,
			Statut:            document.StatutReclame,
			StatutReclamation: document.ReclamationImmediate,
			DateLimite:        &limite,
		},
		{
			Identifiant: "IDENTIFICATION.CARTE_IDENTITE",
			Type:        document.TypeNonLibre,
			Statut:      document.StatutNonAnalyse,
		},
	}))

	reclames, err := s.documents.Search(ctx, p.UUID, nil, document.StatutReclame)
	s.Require().NoError(err)
	s.Require().Len(reclames, 1)
	s.Equal("CURRICULUM.CURRICULUM", reclames[0].Identifiant)
	s.Equal(document.ReclamationImmediate, reclames[0].StatutReclamation)
	s.Require().NotNil(reclames[0].DateLimite)
	s.True(limite.Equal(*reclames[0].DateLimite))

	s.Require().NoError(s.documents.CompleterDocumentsParCandidat(ctx, p.UUID, map[string][]string{
		"CURRICULUM.CURRICULUM": {"f1", "f2"},
	}))

	fichiers, err := s.documents.Fichiers(ctx, p.UUID)
	s.Require().NoError(err)
	s.Equal([]string{"f1", "f2"}, fichiers["CURRICULUM.CURRICULUM"])

	// Saving a slot without files keeps the uploaded ones.
	s.Require().NoError(s.documents.SaveMultiple(ctx, p.UUID, []document.EmplacementDocument{{
		Identifiant: "CURRICULUM.CURRICULUM",
		Type:        document.TypeNonLibre,
		Statut:      document.StatutNonAnalyse,
	}}))
	e, err := s.documents.Get(ctx, p.UUID, "CURRICULUM.CURRICULUM")
	s.Require().NoError(err)
	s.Equal(document.StatutNonAnalyse, e.Statut)
	s.Equal([]string{"f1", "f2"}, e.UUIDsDocuments)
}

func (s *PostgresSuite) TestHistorique() {
	ctx := context.Background()
	p := s.nouvelle("0123456", 2020)
	s.Require().NoError(s.propositions.Save(ctx, p))

	debut := time.Date(2020, time.November, 2, 9, 0, 0, 0, time.UTC)
	for i, evt := range []string{"soumise", "approuvee-par-fac"} {
		s.Require().NoError(s.historique.Historiser(ctx, proposition.EntreeHistorique{
			UUIDProposition: p.UUID,
			Evenement:       evt,
			Auteur:          "00321234",
			Message:         evt,
			Statut:          proposition.StatutConfirmee,
			Horodatage:      debut.Add(time.Duration(i) * time.Hour),
			Donnees:         map[string]interface{}{"rang": float64(i)},
		}))
	}

	entrees, err := s.historique.Lister(ctx, p.UUID)
	s.Require().NoError(err)
	s.Require().Len(entrees, 2)
	// Newest first.
	s.Equal("approuvee-par-fac", entrees[0].Evenement)
	s.Equal("soumise", entrees[1].Evenement)
	s.Equal(float64(1), entrees[0].Donnees["rang"])
}

func (s *PostgresSuite) TestConnectionHealth() {
	status := s.conn.Health(context.Background())

	s.True(status.Healthy)
	s.Empty(status.Error)
	s.Positive(status.TotalConns)
}

func (s *PostgresSuite) TestMigrationStatusAndRollback() {
	ctx := context.Background()
	migrator := postgres.NewMigrator(s.conn)

	status, err := migrator.Status(ctx)
	s.Require().NoError(err)
	s.Require().Len(status, len(postgres.GetMigrations()))
	for _, m := range status {
		s.True(m.IsApplied, m.Name)
	}

	s.Require().NoError(migrator.Rollback(ctx))
	status, err = migrator.Status(ctx)
	s.Require().NoError(err)
	s.False(status[len(status)-1].IsApplied)

	s.Require().NoError(migrator.Migrate(ctx))
	status, err = migrator.Status(ctx)
	s.Require().NoError(err)
	s.True(status[len(status)-1].IsApplied)
}
