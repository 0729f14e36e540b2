package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/report"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

// PeriodServiceImpl keeps the monthly periods. Opening balances are derived from the
// transaction log: the bootstrap constant plus every earlier net, or, once the ledger
// is seeded, the seeded period's opening plus the net since it. Adjacent periods
// therefore always carry forward, whichever month was opened first.
type PeriodServiceImpl struct {
	store     repository.Store
	clock     clock.Clock
	locks     *PeriodLocks
	loc       *time.Location
	bootstrap money.Amount
	logger    *slog.Logger

	// createMu serializes period creation with seeding.
	createMu sync.Mutex
}

func NewPeriodService(store repository.Store, clk clock.Clock, locks *PeriodLocks, loc *time.Location, bootstrap money.Amount, logger *slog.Logger) *PeriodServiceImpl {
	return &PeriodServiceImpl{
		store:     store,
		clock:     clk,
		locks:     locks,
		loc:       loc,
		bootstrap: bootstrap,
		logger:    logger,
	}
}

// GetOrCreatePeriod returns the stored period for key, creating it when absent.
func (s *PeriodServiceImpl) GetOrCreatePeriod(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	period, err := s.store.Periods().Get(ctx, key)
	if err == nil {
		return period, nil
	}
	if !errors.IsNotFound(err) {
		logFailure(s.logger, "failed to get period", err, "period", key.ID())
		return nil, errors.NewStorageError("get period", err)
	}

	unlock := s.locks.Lock(key)
	defer unlock()
	s.createMu.Lock()
	defer s.createMu.Unlock()

	period, err = s.create(ctx, key)
	if errors.IsAlreadyExists(err) {
		// Another process won the race. The failed insert may have aborted the unit
		// of work, so read outside it.
		period, err = s.store.Periods().Get(ctx, key)
	}
	if err != nil {
		logFailure(s.logger, "failed to create period", err, "period", key.ID())
		return nil, errors.NewStorageError("create period", err)
	}
	return period, nil
}

// GetMonthlyPeriod returns the period with current figures. Locked periods are
// returned as frozen.
func (s *PeriodServiceImpl) GetMonthlyPeriod(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	period, err := s.GetOrCreatePeriod(ctx, key)
	if err != nil {
		return nil, err
	}
	if period.Locked {
		return period, nil
	}

	period, err = s.Recompute(ctx, key, false)
	if errors.IsPeriodLocked(err) {
		return s.GetOrCreatePeriod(ctx, key)
	}
	return period, err
}

// SeedPeriod sets an explicitly entered opening balance on key, which becomes the
// start of the ledger. It fails once the ledger is seeded, when an earlier period
// exists, or when transactions predate key. A period already opened for key is
// taken over unless it is locked.
func (s *PeriodServiceImpl) SeedPeriod(ctx context.Context, key models.PeriodKey, opening money.Amount, actor string) (*models.MonthlyPeriod, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, errors.NewValidationError("user", "must be non-empty")
	}
	if opening > money.MaxAmount || opening < -money.MaxAmount {
		return nil, errors.NewValidationError("openingBalance", "out of range")
	}

	unlock := s.locks.Lock(key)
	defer unlock()
	s.createMu.Lock()
	defer s.createMu.Unlock()

	var period *models.MonthlyPeriod
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		first, err := st.Periods().First(ctx)
		switch {
		case errors.IsNotFound(err):
			// empty ledger
		case err != nil:
			return err
		case first.Seeded:
			return errors.NewValidationError("period", "the ledger already starts at "+first.Key.String())
		case first.Key.Before(key):
			return errors.NewValidationError("period", first.Key.String()+" is already open")
		}

		earlier, err := sumTransactions(st.Transactions().List(ctx, repository.TransactionFilter{To: key.Start(s.loc)}))
		if err != nil {
			return err
		}
		if earlier != (totals{}) {
			return errors.NewValidationError("period", "transactions before "+key.String()+" exist")
		}

		p, err := st.Periods().GetForUpdate(ctx, key)
		exists := err == nil
		switch {
		case exists && p.Locked:
			return errors.NewPeriodLockedError(key.String())
		case errors.IsNotFound(err):
			p = &models.MonthlyPeriod{Key: key, CreatedAt: s.clock.Now()}
		case err != nil:
			return err
		}

		p.OpeningBalance = opening
		p.Seeded = true
		if err := s.figures(ctx, st, p, p); err != nil {
			return err
		}
		p.UpdatedAt = s.clock.Now()
		period = p
		if exists {
			return st.Periods().Update(ctx, p)
		}
		return st.Periods().Create(ctx, p)
	})
	if err != nil {
		logFailure(s.logger, "failed to seed period", err, "period", key.ID(), "user", actor)
		return nil, errors.NewStorageError("seed period", err)
	}

	s.logger.Info("ledger seeded",
		"period", key.ID(),
		"opening_balance", opening.String(),
		"user", actor,
	)
	return period, nil
}

// Recompute refreshes the period's figures from the transaction log. A locked period
// is only recomputed with override.
func (s *PeriodServiceImpl) Recompute(ctx context.Context, key models.PeriodKey, override bool) (*models.MonthlyPeriod, error) {
	unlock := s.locks.Lock(key)
	defer unlock()

	var period *models.MonthlyPeriod
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		p, err := st.Periods().GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if p.Locked && !override {
			return errors.NewPeriodLockedError(key.String())
		}

		if err := s.refresh(ctx, st, p); err != nil {
			return err
		}
		period = p
		return st.Periods().Update(ctx, p)
	})
	if err != nil {
		logFailure(s.logger, "failed to recompute period", err, "period", key.ID(), "override", override)
		return nil, errors.NewStorageError("recompute period", err)
	}

	if period.Locked {
		s.logger.Warn("locked period recomputed with override",
			"period", key.ID(),
			"closing_balance", period.ClosingBalance.String(),
		)
	}
	return period, nil
}

// LockPeriod recomputes the period, then freezes it.
func (s *PeriodServiceImpl) LockPeriod(ctx context.Context, key models.PeriodKey, actor string) (*models.MonthlyPeriod, error) {
	return s.setLocked(ctx, key, actor, true)
}

func (s *PeriodServiceImpl) UnlockPeriod(ctx context.Context, key models.PeriodKey, actor string) (*models.MonthlyPeriod, error) {
	return s.setLocked(ctx, key, actor, false)
}

func (s *PeriodServiceImpl) ListPeriods(ctx context.Context) ([]*models.MonthlyPeriod, error) {
	periods, err := s.store.Periods().List(ctx)
	if err != nil {
		logFailure(s.logger, "failed to list periods", err)
		return nil, errors.NewStorageError("list periods", err)
	}
	return periods, nil
}

// WriteMonthlyReport writes the period summary and its transactions as CSV.
func (s *PeriodServiceImpl) WriteMonthlyReport(ctx context.Context, key models.PeriodKey, w io.Writer) error {
	period, err := s.GetMonthlyPeriod(ctx, key)
	if err != nil {
		return err
	}

	txs := s.store.Transactions().List(ctx, s.window(key))
	if err := report.WriteMonthlyCSV(w, period, storageSeq("list transactions", txs), s.loc); err != nil {
		logFailure(s.logger, "failed to write monthly report", err, "period", key.ID())
		return err
	}
	return nil
}

func (s *PeriodServiceImpl) setLocked(ctx context.Context, key models.PeriodKey, actor string, locked bool) (*models.MonthlyPeriod, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, errors.NewValidationError("user", "must be non-empty")
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	action := models.AuditActionUnlockPeriod
	if locked {
		action = models.AuditActionLockPeriod
	}

	var period *models.MonthlyPeriod
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		p, err := st.Periods().GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if p.Locked == locked {
			if locked {
				return errors.NewValidationError("period", key.String()+" is already locked")
			}
			return errors.NewValidationError("period", key.String()+" is not locked")
		}

		if locked {
			if err := s.refresh(ctx, st, p); err != nil {
				return err
			}
		}
		p.Locked = locked
		p.UpdatedAt = s.clock.Now()
		if err := st.Periods().Update(ctx, p); err != nil {
			return err
		}

		details := fmt.Sprintf("Unlocked %s", key)
		if locked {
			details = fmt.Sprintf("Locked %s with closing balance ₹%s", key, p.ClosingBalance)
		}
		if _, err := appendAudit(ctx, st, s.clock, action, details, actor); err != nil {
			return err
		}
		period = p
		return nil
	})
	if err != nil {
		logFailure(s.logger, "failed to change period lock", err,
			"period", key.ID(),
			"locked", locked,
			"user", actor,
		)
		return nil, errors.NewStorageError(strings.ToLower(string(action)), err)
	}

	s.logger.Info("period lock changed",
		"period", key.ID(),
		"locked", locked,
		"user", actor,
	)
	return period, nil
}

// create inserts the period for key. Months before a seeded start are refused. The
// caller holds createMu and the period lock.
func (s *PeriodServiceImpl) create(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	var period *models.MonthlyPeriod
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		if _, err := st.Periods().Get(ctx, key); err == nil {
			return errors.ErrPeriodAlreadyExists
		} else if !errors.IsNotFound(err) {
			return err
		}

		start, err := ledgerStart(ctx, st)
		if err != nil {
			return err
		}
		if start != nil && key.Before(start.Key) {
			return errors.NewValidationError("period", "the ledger starts at "+start.Key.String())
		}

		now := s.clock.Now()
		p := &models.MonthlyPeriod{Key: key, CreatedAt: now}
		if err := s.figures(ctx, st, start, p); err != nil {
			return err
		}
		p.UpdatedAt = now

		period = p
		return st.Periods().Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("period created",
		"period", key.ID(),
		"opening_balance", period.OpeningBalance.String(),
	)
	return period, nil
}

// refresh recomputes p against the current start of the ledger.
func (s *PeriodServiceImpl) refresh(ctx context.Context, st repository.Store, p *models.MonthlyPeriod) error {
	start, err := ledgerStart(ctx, st)
	if err != nil {
		return err
	}
	if err := s.figures(ctx, st, start, p); err != nil {
		return err
	}
	p.UpdatedAt = s.clock.Now()
	return nil
}

// figures fills in p's balances. Without a seeded start the opening is the bootstrap
// plus every earlier transaction. The seeded period itself keeps its opening.
func (s *PeriodServiceImpl) figures(ctx context.Context, st repository.Store, start *models.MonthlyPeriod, p *models.MonthlyPeriod) error {
	if start == nil || start.Key != p.Key {
		opening := s.bootstrap
		carry := repository.TransactionFilter{To: p.Key.Start(s.loc)}
		if start != nil {
			opening = start.OpeningBalance
			carry.From = start.Key.Start(s.loc)
		}

		carried, err := sumTransactions(st.Transactions().List(ctx, carry))
		if err != nil {
			return err
		}
		net, err := carried.net()
		if err != nil {
			return err
		}
		var ok bool
		if p.OpeningBalance, ok = opening.Add(net); !ok {
			return fmt.Errorf("opening balance of %s: %w", p.Key, errors.ErrAmountOverflow)
		}
	}

	window, err := sumTransactions(st.Transactions().List(ctx, s.window(p.Key)))
	if err != nil {
		return err
	}
	net, err := window.net()
	if err != nil {
		return err
	}
	closing, ok := p.OpeningBalance.Add(net)
	if !ok {
		return fmt.Errorf("closing balance of %s: %w", p.Key, errors.ErrAmountOverflow)
	}

	p.TotalIncome = window.credit
	p.TotalExpense = window.debit
	p.ClosingBalance = closing
	return nil
}

// ledgerStart returns the seeded period, or nil while the ledger is unseeded. A
// seeded period is always the earliest one.
func ledgerStart(ctx context.Context, st repository.Store) (*models.MonthlyPeriod, error) {
	first, err := st.Periods().First(ctx)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !first.Seeded {
		return nil, nil
	}
	return first, nil
}

func (s *PeriodServiceImpl) window(key models.PeriodKey) repository.TransactionFilter {
	return repository.TransactionFilter{
		From: key.Start(s.loc),
		To:   key.End(s.loc),
	}
}
