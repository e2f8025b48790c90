// Package jobs contains the scheduled jobs of the admission service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alem-hub/admission-workflow/internal/application/command"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// VERIFIER PAIEMENTS JOB
// ══════════════════════════════════════════════════════════════════════════════

// PayeurFraisDossier records a dossier fee payment.
type PayeurFraisDossier interface {
	Handle(ctx context.Context, cmd command.PayerFraisDossierCommand) (*command.PayerFraisDossierResult, error)
}

// VerifierPaiementsJob asks the payment provider about every proposition
// waiting for its dossier fee and confirms the paid ones.
type VerifierPaiementsJob struct {
	propositions proposition.Repository
	payeur       PayeurFraisDossier
	logger       *slog.Logger
	config       VerifierPaiementsConfig

	lastStats atomic.Pointer[VerifierPaiementsStats]
}

// VerifierPaiementsConfig contains configuration for the job.
type VerifierPaiementsConfig struct {
	// Timeout is the maximum duration of one run.
	Timeout time.Duration
}

// DefaultVerifierPaiementsConfig returns sensible defaults.
func DefaultVerifierPaiementsConfig() VerifierPaiementsConfig {
	return VerifierPaiementsConfig{Timeout: 2 * time.Minute}
}

// VerifierPaiementsStats summarises one run.
type VerifierPaiementsStats struct {
	StartedAt  time.Time
	Duration   time.Duration
	Total      int
	Payees     int
	EnAttente  int
	Echecs     int
	Interrompu bool
}

// NewVerifierPaiementsJob creates the job.
func NewVerifierPaiementsJob(
	propositions proposition.Repository,
	payeur PayeurFraisDossier,
	log *slog.Logger,
	config VerifierPaiementsConfig,
) *VerifierPaiementsJob {
	if log == nil {
		log = slog.Default()
	}
	return &VerifierPaiementsJob{
		propositions: propositions,
		payeur:       payeur,
		logger:       log.With(logger.Component("job_verifier_paiements")),
		config:       config,
	}
}

// Name returns the job name.
func (j *VerifierPaiementsJob) Name() string {
	return "verifier_paiements"
}

// Description returns a human-readable description.
func (j *VerifierPaiementsJob) Description() string {
	return "Confirms propositions whose dossier fee has been paid"
}

// LastStats returns the statistics of the previous run, or nil.
func (j *VerifierPaiementsJob) LastStats() *VerifierPaiementsStats {
	return j.lastStats.Load()
}

// Run executes the job. An unavailable provider stops the run early: the
// remaining propositions are picked up by the next one.
func (j *VerifierPaiementsJob) Run(ctx context.Context) error {
	stats := &VerifierPaiementsStats{StartedAt: time.Now()}
	defer func() {
		stats.Duration = time.Since(stats.StartedAt)
		j.lastStats.Store(stats)
	}()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	enAttente, err := j.propositions.Search(ctx, proposition.Filtre{
		Statuts: []proposition.ChoixStatutProposition{proposition.StatutFraisDossierEnAttente},
	})
	if err != nil {
		return fmt.Errorf("failed to list propositions awaiting payment: %w", err)
	}
	stats.Total = len(enAttente)

	for _, p := range enAttente {
		if err := ctx.Err(); err != nil {
			stats.Interrompu = true
			return err
		}

		_, err := j.payeur.Handle(ctx, command.PayerFraisDossierCommand{UUIDProposition: p.UUID})
		switch {
		case err == nil:
			stats.Payees++
		case paiementNonRealise(err):
			stats.EnAttente++
		case shared.IsExternalService(err):
			stats.Echecs++
			stats.Interrompu = true
			j.logger.WarnContext(ctx, "payment provider unavailable, stopping run",
				logger.PropositionUUID(p.UUID),
				logger.Err(err),
			)
			return fmt.Errorf("payment provider unavailable: %w", err)
		default:
			stats.Echecs++
			j.logger.ErrorContext(ctx, "failed to confirm payment",
				logger.PropositionUUID(p.UUID),
				logger.Err(err),
			)
		}
	}

	j.logger.InfoContext(ctx, "verifier_paiements job completed",
		slog.Int("total", stats.Total),
		slog.Int("payees", stats.Payees),
		slog.Int("en_attente", stats.EnAttente),
		slog.Int("echecs", stats.Echecs),
	)

	if stats.Total > 0 && stats.Echecs*2 > stats.Total {
		return fmt.Errorf("payment confirmation failed for more than 50%% of propositions (%d/%d)", stats.Echecs, stats.Total)
	}
	return nil
}

func paiementNonRealise(err error) bool {
	multiple, ok := shared.AsMultipleBusinessErrors(err)
	return ok && multiple.Has(proposition.KindPaiementNonRealise)
}
