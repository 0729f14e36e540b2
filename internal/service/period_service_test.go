package service_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

func TestPeriodService_CarryForward(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(2850)))
	ctx := context.Background()

	jan, err := l.periods.GetOrCreatePeriod(ctx, period(time.January, 2026))
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(2850), jan.OpeningBalance)
	assert.False(t, jan.Locked)

	l.record(t, models.DirectionCredit, 115406, models.CategoryMaintenance, "", "2026-01-05")
	l.record(t, models.DirectionDebit, 104019, models.CategoryExpense, "", "2026-01-28")

	jan, err = l.periods.Recompute(ctx, period(time.January, 2026), false)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(115406), jan.TotalIncome)
	assert.Equal(t, money.FromMajor(104019), jan.TotalExpense)
	assert.Equal(t, money.FromMajor(14237), jan.ClosingBalance)

	feb, err := l.periods.GetOrCreatePeriod(ctx, period(time.February, 2026))
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(14237), feb.OpeningBalance)
}

func TestPeriodService_CarryForwardAfterLateEntry(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(1000)))
	ctx := context.Background()

	_, err := l.periods.GetOrCreatePeriod(ctx, period(time.January, 2026))
	require.NoError(t, err)
	_, err = l.periods.GetOrCreatePeriod(ctx, period(time.March, 2026))
	require.NoError(t, err)

	// Recorded after March was created.
	l.record(t, models.DirectionCredit, 500, models.CategoryMaintenance, "101", "2026-01-31")
	l.record(t, models.DirectionDebit, 120, models.CategoryExpense, "", "2026-02-14")

	mar, err := l.periods.Recompute(ctx, period(time.March, 2026), false)
	require.NoError(t, err)
	feb, err := l.periods.GetMonthlyPeriod(ctx, period(time.February, 2026))
	require.NoError(t, err)
	jan, err := l.periods.Recompute(ctx, period(time.January, 2026), false)
	require.NoError(t, err)

	assert.Equal(t, money.FromMajor(1500), jan.ClosingBalance)
	assert.Equal(t, jan.ClosingBalance, feb.OpeningBalance)
	assert.Equal(t, money.FromMajor(1380), feb.ClosingBalance)
	assert.Equal(t, feb.ClosingBalance, mar.OpeningBalance)
}

func TestPeriodService_RecomputeIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	l.record(t, models.DirectionCredit, 2500, models.CategoryMaintenance, "101", "2026-01-03")
	l.record(t, models.DirectionDebit, 700, models.CategoryExpense, "", "2026-01-04")
	_, err := l.periods.GetOrCreatePeriod(ctx, period(time.January, 2026))
	require.NoError(t, err)

	first, err := l.periods.Recompute(ctx, period(time.January, 2026), false)
	require.NoError(t, err)
	second, err := l.periods.Recompute(ctx, period(time.January, 2026), false)
	require.NoError(t, err)

	assert.Equal(t, first.TotalIncome, second.TotalIncome)
	assert.Equal(t, first.TotalExpense, second.TotalExpense)
	assert.Equal(t, first.ClosingBalance, second.ClosingBalance)
	assert.Equal(t, money.FromMajor(1800), second.ClosingBalance)
}

func TestPeriodService_Lock(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(2850)))
	ctx := context.Background()
	jan := period(time.January, 2026)

	_, err := l.periods.GetOrCreatePeriod(ctx, jan)
	require.NoError(t, err)
	tx := l.record(t, models.DirectionCredit, 500, models.CategoryMaintenance, "101", "2026-01-09")

	locked, err := l.periods.LockPeriod(ctx, jan, "treasurer")
	require.NoError(t, err)
	assert.True(t, locked.Locked)
	assert.Equal(t, money.FromMajor(3350), locked.ClosingBalance, "lock freezes current figures")

	t.Run("recompute without override", func(t *testing.T) {
		_, err := l.periods.Recompute(ctx, jan, false)
		require.Error(t, err)
		assert.True(t, errors.IsPeriodLocked(err))
		var lockedErr *errors.PeriodLockedError
		require.ErrorAs(t, err, &lockedErr)
		assert.Equal(t, "January 2026", lockedErr.Period)
	})

	t.Run("append into locked month", func(t *testing.T) {
		_, err := l.transactions.RecordTransaction(ctx, &models.RecordTransactionRequest{
			Date:      "2026-01-20",
			Amount:    money.FromMajor(10),
			Type:      models.DirectionDebit,
			Category:  models.CategoryExpense,
			CreatedBy: "admin",
		})
		assert.True(t, errors.IsPeriodLocked(err))
	})

	t.Run("void in locked month", func(t *testing.T) {
		_, err := l.transactions.VoidTransaction(ctx, tx.ID, "admin")
		assert.True(t, errors.IsPeriodLocked(err))
	})

	t.Run("correct into locked month", func(t *testing.T) {
		feb := l.record(t, models.DirectionCredit, 300, models.CategoryMaintenance, "102", "2026-02-02")
		_, err := l.transactions.CorrectTransaction(ctx, feb.ID, &models.CorrectTransactionRequest{
			RecordTransactionRequest: models.RecordTransactionRequest{Date: "2026-01-30", CreatedBy: "admin"},
		})
		assert.True(t, errors.IsPeriodLocked(err))

		unchanged, err := l.transactions.GetTransaction(ctx, feb.ID)
		require.NoError(t, err)
		assert.False(t, unchanged.Voided)
	})

	t.Run("lock twice", func(t *testing.T) {
		_, err := l.periods.LockPeriod(ctx, jan, "treasurer")
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("recompute with override", func(t *testing.T) {
		p, err := l.periods.Recompute(ctx, jan, true)
		require.NoError(t, err)
		assert.True(t, p.Locked)
		assert.Equal(t, money.FromMajor(3350), p.ClosingBalance)
	})

	t.Run("read returns frozen period", func(t *testing.T) {
		p, err := l.periods.GetMonthlyPeriod(ctx, jan)
		require.NoError(t, err)
		assert.True(t, p.Locked)
	})

	unlocked, err := l.periods.UnlockPeriod(ctx, jan, "chairman")
	require.NoError(t, err)
	assert.False(t, unlocked.Locked)

	_, err = l.periods.UnlockPeriod(ctx, jan, "chairman")
	assert.True(t, errors.IsValidationError(err))

	l.record(t, models.DirectionDebit, 10, models.CategoryExpense, "", "2026-01-20")

	locks := l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionLockPeriod})
	require.Len(t, locks, 1)
	assert.Equal(t, "treasurer", locks[0].Actor)
	assert.Contains(t, locks[0].Details, "January 2026")

	unlocks := l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionUnlockPeriod})
	require.Len(t, unlocks, 1)
	assert.Equal(t, "chairman", unlocks[0].Actor)
}

func TestPeriodService_LockUnknownPeriod(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.periods.LockPeriod(ctx, period(time.May, 2026), "treasurer")
	assert.ErrorIs(t, err, errors.ErrPeriodNotFound)

	_, err = l.periods.Recompute(ctx, period(time.May, 2026), false)
	assert.True(t, errors.IsNotFound(err))

	_, err = l.periods.LockPeriod(ctx, period(time.May, 2026), "")
	assert.True(t, errors.IsValidationError(err))
}

func TestPeriodService_EarlierMonthOpensWhileUnseeded(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(1000)))
	ctx := context.Background()

	_, err := l.periods.GetOrCreatePeriod(ctx, period(time.April, 2025))
	require.NoError(t, err)

	mar, err := l.periods.GetOrCreatePeriod(ctx, period(time.March, 2025))
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(1000), mar.OpeningBalance)

	l.record(t, models.DirectionCredit, 200, models.CategoryMaintenance, "101", "2025-03-10")
	apr, err := l.periods.GetMonthlyPeriod(ctx, period(time.April, 2025))
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(1200), apr.OpeningBalance)
}

func TestPeriodService_EarlierTransactionsCarryIntoOpening(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(1000)))
	ctx := context.Background()

	_, err := l.periods.GetOrCreatePeriod(ctx, period(time.February, 2026))
	require.NoError(t, err)
	l.record(t, models.DirectionCredit, 500, models.CategoryMaintenance, "101", "2025-12-15")

	feb, err := l.periods.GetMonthlyPeriod(ctx, period(time.February, 2026))
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(1500), feb.OpeningBalance)

	building, err := l.balances.BuildingBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(500), building.Net)

	opening, ok := money.FromMajor(1000).Add(building.Net)
	require.True(t, ok)
	assert.Equal(t, opening, feb.OpeningBalance)
}

func TestPeriodService_SeedAfterRollover(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	jan := period(time.January, 2026)

	// what the startup rollover does
	_, err := l.periods.GetOrCreatePeriod(ctx, period(time.February, 2026))
	require.NoError(t, err)

	seeded, err := l.periods.SeedPeriod(ctx, jan, money.FromMajor(2850), "treasurer")
	require.NoError(t, err)
	assert.True(t, seeded.Seeded)
	assert.Equal(t, money.FromMajor(2850), seeded.OpeningBalance)

	l.record(t, models.DirectionCredit, 115406, models.CategoryMaintenance, "", "2026-01-05")
	l.record(t, models.DirectionDebit, 104019, models.CategoryExpense, "", "2026-01-28")

	janPeriod, err := l.periods.GetMonthlyPeriod(ctx, jan)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(2850), janPeriod.OpeningBalance)
	assert.Equal(t, money.FromMajor(14237), janPeriod.ClosingBalance)

	feb, err := l.periods.GetMonthlyPeriod(ctx, period(time.February, 2026))
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(14237), feb.OpeningBalance)

	tests := []struct {
		name string
		call func(t *testing.T) error
	}{
		{
			name: "month before the start",
			call: func(t *testing.T) error {
				_, err := l.periods.GetOrCreatePeriod(ctx, period(time.December, 2025))
				return err
			},
		},
		{
			name: "append before the start",
			call: func(t *testing.T) error {
				_, err := l.transactions.RecordTransaction(ctx, &models.RecordTransactionRequest{
					Date:      "2025-12-15",
					Amount:    money.FromMajor(500),
					Type:      models.DirectionCredit,
					Category:  models.CategoryMaintenance,
					CreatedBy: "admin",
				})
				return err
			},
		},
		{
			name: "correct into a month before the start",
			call: func(t *testing.T) error {
				tx := l.record(t, models.DirectionCredit, 10, models.CategoryMaintenance, "101", "2026-02-03")
				_, err := l.transactions.CorrectTransaction(ctx, tx.ID, &models.CorrectTransactionRequest{
					RecordTransactionRequest: models.RecordTransactionRequest{Date: "2025-11-30", CreatedBy: "admin"},
				})
				return err
			},
		},
		{
			name: "second seed",
			call: func(t *testing.T) error {
				_, err := l.periods.SeedPeriod(ctx, period(time.December, 2025), money.FromMajor(10), "treasurer")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(t)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}

	_, err = l.periods.GetOrCreatePeriod(ctx, period(time.December, 2025))
	assert.Contains(t, err.Error(), "the ledger starts at January 2026")
}

func TestPeriodService_SeedPeriod(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(99)))
	ctx := context.Background()

	seeded, err := l.periods.SeedPeriod(ctx, period(time.April, 2025), money.FromMajor(2850), "admin")
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(2850), seeded.OpeningBalance)
	assert.Equal(t, money.FromMajor(2850), seeded.ClosingBalance)

	_, err = l.periods.SeedPeriod(ctx, period(time.May, 2025), money.FromMajor(10), "admin")
	assert.True(t, errors.IsValidationError(err))

	_, err = l.periods.SeedPeriod(ctx, period(time.April, 2025), money.FromMajor(10), "admin")
	assert.True(t, errors.IsValidationError(err))

	may, err := l.periods.GetOrCreatePeriod(ctx, period(time.May, 2025))
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(2850), may.OpeningBalance)
	assert.False(t, may.Seeded)

	periods, err := l.periods.ListPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, period(time.April, 2025), periods[0].Key)
	assert.True(t, periods[0].Seeded)
	assert.Equal(t, period(time.May, 2025), periods[1].Key)
}

func TestPeriodService_SeedRejected(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, l *testLedger)
		actor   string
		wantErr func(error) bool
	}{
		{
			name: "earlier period open",
			setup: func(t *testing.T, l *testLedger) {
				_, err := l.periods.GetOrCreatePeriod(context.Background(), period(time.December, 2025))
				require.NoError(t, err)
			},
			actor:   "treasurer",
			wantErr: errors.IsValidationError,
		},
		{
			name: "earlier transactions",
			setup: func(t *testing.T, l *testLedger) {
				l.record(t, models.DirectionCredit, 500, models.CategoryMaintenance, "101", "2025-12-15")
			},
			actor:   "treasurer",
			wantErr: errors.IsValidationError,
		},
		{
			name: "month locked",
			setup: func(t *testing.T, l *testLedger) {
				_, err := l.periods.GetOrCreatePeriod(context.Background(), period(time.January, 2026))
				require.NoError(t, err)
				_, err = l.periods.LockPeriod(context.Background(), period(time.January, 2026), "treasurer")
				require.NoError(t, err)
			},
			actor:   "treasurer",
			wantErr: errors.IsPeriodLocked,
		},
		{
			name:    "blank user",
			setup:   func(t *testing.T, l *testLedger) {},
			actor:   " ",
			wantErr: errors.IsValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			tt.setup(t, l)

			_, err := l.periods.SeedPeriod(context.Background(), period(time.January, 2026), money.FromMajor(2850), tt.actor)

			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "got %v", err)
		})
	}

	t.Run("voided earlier transactions do not count", func(t *testing.T) {
		l := newTestLedger(t)
		tx := l.record(t, models.DirectionCredit, 500, models.CategoryMaintenance, "101", "2025-12-15")
		_, err := l.transactions.VoidTransaction(context.Background(), tx.ID, "admin")
		require.NoError(t, err)

		p, err := l.periods.SeedPeriod(context.Background(), period(time.January, 2026), money.FromMajor(2850), "treasurer")
		require.NoError(t, err)
		assert.Equal(t, money.FromMajor(2850), p.ClosingBalance)
	})
}

func TestPeriodService_ConcurrentGetOrCreate(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(500)))
	ctx := context.Background()

	_, err := l.periods.GetOrCreatePeriod(ctx, period(time.January, 2026))
	require.NoError(t, err)

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*models.MonthlyPeriod, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			month := time.January
			if i%2 == 1 {
				month = time.February
			}
			results[i], errs[i] = l.periods.GetOrCreatePeriod(ctx, period(month, 2026))
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, money.FromMajor(500), results[i].OpeningBalance)
	}

	periods, err := l.periods.ListPeriods(ctx)
	require.NoError(t, err)
	assert.Len(t, periods, 2)
}

func TestPeriodService_WriteMonthlyReport(t *testing.T) {
	l := newTestLedger(t, withBootstrap(money.FromMajor(2850)))
	ctx := context.Background()

	l.record(t, models.DirectionCredit, 115406, models.CategoryMaintenance, "101", "2026-01-05")
	l.record(t, models.DirectionDebit, 104019, models.CategoryExpense, "", "2026-01-28")
	l.record(t, models.DirectionDebit, 50, models.CategoryExpense, "", "2026-02-02")

	var buf bytes.Buffer
	require.NoError(t, l.periods.WriteMonthlyReport(ctx, period(time.January, 2026), &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Monthly Ledger Report"))
	assert.Contains(t, out, "Closing Balance,14237.00")
	assert.Contains(t, out, "2026-01-28,DEBIT,EXPENSE")
	assert.NotContains(t, out, "2026-02-02")
}
