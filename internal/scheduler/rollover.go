// Package scheduler runs the ledger's periodic jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/service"
)

// jobTimeout bounds a single rollover run.
const jobTimeout = time.Minute

// Rollover opens the current month's period on a cron schedule so its opening
// balance is carried forward as soon as the month starts.
type Rollover struct {
	cron    *cron.Cron
	periods service.PeriodService
	clock   clock.Clock
	loc     *time.Location
	logger  *slog.Logger
}

func NewRollover(periods service.PeriodService, clk clock.Clock, loc *time.Location, logger *slog.Logger) *Rollover {
	return &Rollover{
		cron:    cron.New(cron.WithLocation(loc)),
		periods: periods,
		clock:   clk,
		loc:     loc,
		logger:  logger,
	}
}

// Schedule registers the rollover job with a standard five-field cron spec,
// evaluated in the ledger timezone.
func (r *Rollover) Schedule(spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		r.RollOver(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add rollover job %q: %w", spec, err)
	}
	return nil
}

// RollOver opens the period of the current month. Failures are logged and left for
// the next run or the next read of the period.
func (r *Rollover) RollOver(ctx context.Context) (*models.MonthlyPeriod, error) {
	key := models.PeriodKeyOf(r.clock.Now().In(r.loc))
	r.logger.Info("executing period rollover", "period", key.ID())

	period, err := r.periods.GetOrCreatePeriod(ctx, key)
	if err != nil {
		r.logger.Error("period rollover failed",
			"period", key.ID(),
			"error", err.Error(),
		)
		return nil, err
	}

	r.logger.Info("period rollover complete",
		"period", key.ID(),
		"opening_balance", period.OpeningBalance.String(),
		"locked", period.Locked,
	)
	return period, nil
}

func (r *Rollover) Start() {
	r.cron.Start()
}

// Stop stops scheduling and returns a context that is done once a running job has
// finished.
func (r *Rollover) Stop() context.Context {
	return r.cron.Stop()
}
