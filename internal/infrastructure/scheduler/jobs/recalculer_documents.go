package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alem-hub/admission-workflow/internal/application/command"
	"github.com/alem-hub/admission-workflow/internal/domain/document"
	"github.com/alem-hub/admission-workflow/internal/domain/proposition"
	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
	"github.com/alem-hub/admission-workflow/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECALCULER DOCUMENTS JOB
// ══════════════════════════════════════════════════════════════════════════════

// RecalculateurDocuments refreshes the document requests of one proposition.
type RecalculateurDocuments interface {
	Handle(ctx context.Context, cmd command.RecalculerDocumentsCommand) ([]document.EmplacementDocument, error)
}

// Verrou grants exclusive access to a resource across instances.
type Verrou interface {
	TryLock(ctx context.Context, resource string) (release func(), ok bool, err error)
}

// RecalculerDocumentsJob recomputes the document requests of every
// submitted proposition that is still open.
type RecalculerDocumentsJob struct {
	propositions  proposition.Repository
	recalculateur RecalculateurDocuments
	verrou        Verrou
	retrier       *retry.Retrier
	logger        *slog.Logger
	config        RecalculerDocumentsConfig

	lastStats atomic.Pointer[RecalculerDocumentsStats]
}

// RecalculerDocumentsConfig contains configuration for the job.
type RecalculerDocumentsConfig struct {
	// Concurrency bounds the number of propositions handled at once.
	Concurrency int

	// Timeout is the maximum duration of one run.
	Timeout time.Duration
}

// DefaultRecalculerDocumentsConfig returns sensible defaults.
func DefaultRecalculerDocumentsConfig() RecalculerDocumentsConfig {
	return RecalculerDocumentsConfig{
		Concurrency: 4,
		Timeout:     10 * time.Minute,
	}
}

// RecalculerDocumentsStats summarises one run.
type RecalculerDocumentsStats struct {
	StartedAt  time.Time
	Duration   time.Duration
	Total      int
	Recalcules int
	Ignores    int
	Echecs     int
}

// NewRecalculerDocumentsJob creates the job. verrou may be nil when a single
// instance runs the scheduler.
func NewRecalculerDocumentsJob(
	propositions proposition.Repository,
	recalculateur RecalculateurDocuments,
	verrou Verrou,
	log *slog.Logger,
	config RecalculerDocumentsConfig,
) *RecalculerDocumentsJob {
	if log == nil {
		log = slog.Default()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	l := log.With(logger.Component("job_recalculer_documents"))

	return &RecalculerDocumentsJob{
		propositions:  propositions,
		recalculateur: recalculateur,
		verrou:        verrou,
		retrier: retry.DatabaseRetrier(
			retry.WithRetryIf(shared.IsRetryable),
			retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
				l.Debug("retrying document recomputation", "attempt", attempt, "delay", delay, "error", err)
			}),
		),
		logger: l,
		config: config,
	}
}

// WithRetrier replaces the default retrier.
func (j *RecalculerDocumentsJob) WithRetrier(r *retry.Retrier) *RecalculerDocumentsJob {
	j.retrier = r
	return j
}

// Name returns the job name.
func (j *RecalculerDocumentsJob) Name() string {
	return "recalculer_documents"
}

// Description returns a human-readable description.
func (j *RecalculerDocumentsJob) Description() string {
	return "Recomputes requested documents of open propositions"
}

// LastStats returns the statistics of the previous run, or nil.
func (j *RecalculerDocumentsJob) LastStats() *RecalculerDocumentsStats {
	return j.lastStats.Load()
}

// Run executes the job.
func (j *RecalculerDocumentsJob) Run(ctx context.Context) error {
	stats := &RecalculerDocumentsStats{StartedAt: time.Now()}
	defer func() {
		stats.Duration = time.Since(stats.StartedAt)
		j.lastStats.Store(stats)
	}()

	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	ouvertes, err := j.propositions.Search(ctx, proposition.Filtre{Statuts: proposition.StatutsEnCours()})
	if err != nil {
		return fmt.Errorf("failed to list open propositions: %w", err)
	}
	stats.Total = len(ouvertes)

	var recalcules, ignores, echecs atomic.Int64
	var g errgroup.Group
	g.SetLimit(j.config.Concurrency)

	for _, p := range ouvertes {
		if ctx.Err() != nil {
			break
		}
		uuid := p.UUID
		g.Go(func() error {
			traite, err := j.traiter(ctx, uuid)
			switch {
			case err != nil:
				echecs.Add(1)
				j.logger.ErrorContext(ctx, "failed to recompute documents",
					logger.PropositionUUID(uuid),
					logger.Err(err),
				)
			case traite:
				recalcules.Add(1)
			default:
				ignores.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Recalcules = int(recalcules.Load())
	stats.Ignores = int(ignores.Load())
	stats.Echecs = int(echecs.Load())

	j.logger.InfoContext(ctx, "recalculer_documents job completed",
		slog.Int("total", stats.Total),
		slog.Int("recalcules", stats.Recalcules),
		slog.Int("ignores", stats.Ignores),
		slog.Int("echecs", stats.Echecs),
	)

	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.Echecs > 0 {
		return fmt.Errorf("document recomputation failed for %d/%d propositions", stats.Echecs, stats.Total)
	}
	return nil
}

// traiter recomputes one proposition. It returns false when another instance
// holds the proposition.
func (j *RecalculerDocumentsJob) traiter(ctx context.Context, uuid string) (bool, error) {
	if j.verrou != nil {
		release, ok, err := j.verrou.TryLock(ctx, "recalcul:"+uuid)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		defer release()
	}

	err := j.retrier.Do(ctx, func(ctx context.Context) error {
		_, err := j.recalculateur.Handle(ctx, command.RecalculerDocumentsCommand{UUIDProposition: uuid})
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
