// Package storetest is a behavioural suite every repository.Store adapter must pass.
package storetest

import (
	"context"
	stderrors "errors"
	"fmt"
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

// Factory returns an empty store; it registers its own cleanup on t.
type Factory func(t *testing.T) repository.Store

var base = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

func Run(t *testing.T, newStore Factory) {
	t.Run("TransactionsCreateGetAndVoid", func(t *testing.T) { testTransactionsCreateGetAndVoid(t, newStore(t)) })
	t.Run("TransactionsListOrderAndFilter", func(t *testing.T) { testTransactionsList(t, newStore(t)) })
	t.Run("WithTxRollsBack", func(t *testing.T) { testWithTxRollsBack(t, newStore(t)) })
	t.Run("WithTxCommits", func(t *testing.T) { testWithTxCommits(t, newStore(t)) })
	t.Run("AuditListNewestFirst", func(t *testing.T) { testAuditList(t, newStore(t)) })
	t.Run("Periods", func(t *testing.T) { testPeriods(t, newStore(t)) })
	t.Run("PeriodGetForUpdateSerializes", func(t *testing.T) { testPeriodGetForUpdateSerializes(t, newStore(t)) })
	t.Run("Units", func(t *testing.T) { testUnits(t, newStore(t)) })
}

func newTx(id string, occurredAt time.Time, recordedOffset int, dir models.Direction, unit string, amount int64) *models.Transaction {
	return &models.Transaction{
		ID:          id,
		OccurredAt:  occurredAt,
		RecordedAt:  base.Add(time.Duration(recordedOffset) * time.Microsecond),
		Amount:      money.FromMajor(amount),
		Direction:   dir,
		Category:    models.CategoryMaintenance,
		UnitRef:     unit,
		Description: "tx " + id,
		CreatedBy:   "admin",
	}
}

func ids(t *testing.T, txs []models.Transaction) []string {
	t.Helper()
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func testTransactionsCreateGetAndVoid(t *testing.T, s repository.Store) {
	ctx := context.Background()
	repo := s.Transactions()

	tx := newTx("tx-1", base, 1, models.DirectionCredit, "101", 250)
	tx.ProofRef = "https://example.com/receipt.jpg"
	require.NoError(t, repo.Create(ctx, tx))

	got, err := repo.GetByID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(250), got.Amount)
	assert.Equal(t, models.DirectionCredit, got.Direction)
	assert.Equal(t, "101", got.UnitRef)
	assert.Equal(t, "https://example.com/receipt.jpg", got.ProofRef)
	assert.WithinDuration(t, base, got.OccurredAt, 0)
	assert.False(t, got.Voided)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	voidedAt := base.Add(time.Hour)
	require.NoError(t, repo.MarkVoided(ctx, "tx-1", voidedAt, "treasurer"))

	got, err = repo.GetByID(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, got.Voided)
	assert.Equal(t, "treasurer", got.VoidedBy)
	require.NotNil(t, got.VoidedAt)
	assert.WithinDuration(t, voidedAt, *got.VoidedAt, time.Millisecond)
	assert.Equal(t, money.FromMajor(250), got.Amount)

	err = repo.MarkVoided(ctx, "tx-1", voidedAt, "treasurer")
	assert.True(t, errors.IsAlreadyVoided(err))

	err = repo.MarkVoided(ctx, "missing", voidedAt, "treasurer")
	assert.True(t, errors.IsNotFound(err))
}

func testTransactionsList(t *testing.T, s repository.Store) {
	ctx := context.Background()
	repo := s.Transactions()

	day := 24 * time.Hour
	require.NoError(t, repo.Create(ctx, newTx("a", base, 1, models.DirectionCredit, "101", 250)))
	require.NoError(t, repo.Create(ctx, newTx("b", base.Add(day), 2, models.DirectionDebit, "", 100)))
	// Same occurredAt as "a" but recorded later: comes first on ties.
	require.NoError(t, repo.Create(ctx, newTx("c", base, 3, models.DirectionCredit, "202", 500)))
	require.NoError(t, repo.Create(ctx, newTx("d", base.Add(-40*day), 4, models.DirectionCredit, "101", 250)))

	all, err := repository.Collect(repo.List(ctx, repository.TransactionFilter{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(t, all))

	seq := repo.List(ctx, repository.TransactionFilter{UnitRef: "101"})
	first, err := repository.Collect(seq)
	require.NoError(t, err)
	second, err := repository.Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d"}, ids(t, first))
	assert.Equal(t, ids(t, first), ids(t, second), "sequence must be restartable")

	debits, err := repository.Collect(repo.List(ctx, repository.TransactionFilter{Direction: models.DirectionDebit}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(t, debits))

	window, err := repository.Collect(repo.List(ctx, repository.TransactionFilter{
		From: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   base.Add(day),
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(t, window))

	// Breaking out early must not leak or fail.
	for tx, err := range repo.List(ctx, repository.TransactionFilter{}) {
		require.NoError(t, err)
		assert.Equal(t, "b", tx.ID)
		break
	}
}

var errBoom = stderrors.New("boom")

func testWithTxRollsBack(t *testing.T, s repository.Store) {
	ctx := context.Background()

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Transactions().Create(ctx, newTx("rolled-back", base, 1, models.DirectionCredit, "101", 250)); err != nil {
			return err
		}
		if err := tx.Audit().Create(ctx, &models.AuditEntry{
			ID: "audit-1", Action: models.AuditActionAddTransaction, Details: "x", Actor: "admin", Timestamp: base,
		}); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Transactions().GetByID(ctx, "rolled-back")
	assert.True(t, errors.IsNotFound(err))

	entries, err := repository.Collect(s.Audit().List(ctx, repository.AuditFilter{}))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testWithTxCommits(t *testing.T, s repository.Store) {
	ctx := context.Background()

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Transactions().Create(ctx, newTx("kept", base, 1, models.DirectionCredit, "101", 250)); err != nil {
			return err
		}
		// Nested units of work join the outer one.
		return tx.WithTx(ctx, func(ctx context.Context, inner repository.Store) error {
			got, err := inner.Transactions().GetByID(ctx, "kept")
			if err != nil {
				return err
			}
			return inner.Audit().Create(ctx, &models.AuditEntry{
				ID: "audit-kept", Action: models.AuditActionAddTransaction, Details: got.ID, Actor: "admin", Timestamp: base,
			})
		})
	})
	require.NoError(t, err)

	_, err = s.Transactions().GetByID(ctx, "kept")
	require.NoError(t, err)

	entries, err := repository.Collect(s.Audit().List(ctx, repository.AuditFilter{}))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Details)
}

func testAuditList(t *testing.T, s repository.Store) {
	ctx := context.Background()
	repo := s.Audit()

	for i, action := range []models.AuditAction{
		models.AuditActionAddTransaction,
		models.AuditActionLockPeriod,
		models.AuditActionAddTransaction,
	} {
		actor := "admin"
		if i == 1 {
			actor = "treasurer"
		}
		require.NoError(t, repo.Create(ctx, &models.AuditEntry{
			ID:        fmt.Sprintf("audit-%d", i),
			Action:    action,
			Details:   fmt.Sprintf("entry %d", i),
			Actor:     actor,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := repository.Collect(repo.List(ctx, repository.AuditFilter{}))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "audit-2", all[0].ID)
	assert.Equal(t, "audit-0", all[2].ID)

	adds, err := repository.Collect(repo.List(ctx, repository.AuditFilter{Action: models.AuditActionAddTransaction}))
	require.NoError(t, err)
	assert.Len(t, adds, 2)

	byActor, err := repository.Collect(repo.List(ctx, repository.AuditFilter{Actor: "treasurer"}))
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	assert.Equal(t, models.AuditActionLockPeriod, byActor[0].Action)

	window, err := repository.Collect(repo.List(ctx, repository.AuditFilter{From: base.Add(time.Second), To: base.Add(2 * time.Second)}))
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "audit-1", window[0].ID)
}

func testPeriods(t *testing.T, s repository.Store) {
	ctx := context.Background()
	repo := s.Periods()

	_, err := repo.First(ctx)
	assert.True(t, errors.IsNotFound(err))

	feb := &models.MonthlyPeriod{
		Key:            models.PeriodKey{Year: 2026, Month: time.February},
		OpeningBalance: money.FromMajor(14237),
		ClosingBalance: money.FromMajor(14237),
		CreatedAt:      base,
		UpdatedAt:      base,
	}
	jan := &models.MonthlyPeriod{
		Key:            models.PeriodKey{Year: 2026, Month: time.January},
		OpeningBalance: money.FromMajor(2850),
		ClosingBalance: money.FromMajor(2850),
		Seeded:         true,
		CreatedAt:      base,
		UpdatedAt:      base,
	}
	require.NoError(t, repo.Create(ctx, feb))
	require.NoError(t, repo.Create(ctx, jan))

	err = repo.Create(ctx, jan)
	assert.True(t, errors.IsAlreadyExists(err))

	first, err := repo.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, jan.Key, first.Key)
	assert.Equal(t, money.FromMajor(2850), first.OpeningBalance)
	assert.True(t, first.Seeded)

	jan.Locked = true
	jan.TotalIncome = money.FromMajor(115406)
	jan.TotalExpense = money.FromMajor(104019)
	jan.ClosingBalance = money.FromMajor(14237)
	require.NoError(t, s.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Periods().GetForUpdate(ctx, jan.Key); err != nil {
			return err
		}
		return tx.Periods().Update(ctx, jan)
	}))

	got, err := repo.Get(ctx, jan.Key)
	require.NoError(t, err)
	assert.True(t, got.Locked)
	assert.True(t, got.Seeded)
	assert.Equal(t, money.FromMajor(14237), got.ClosingBalance)

	feb2, err := repo.Get(ctx, feb.Key)
	require.NoError(t, err)
	assert.False(t, feb2.Seeded)

	_, err = repo.Get(ctx, models.PeriodKey{Year: 2030, Month: time.May})
	assert.True(t, errors.IsNotFound(err))

	err = repo.Update(ctx, &models.MonthlyPeriod{Key: models.PeriodKey{Year: 2030, Month: time.May}})
	assert.True(t, errors.IsNotFound(err))

	periods, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, jan.Key, periods[0].Key)
	assert.Equal(t, feb.Key, periods[1].Key)
}

// Concurrent read-modify-write units of work on one period must not lose updates.
func testPeriodGetForUpdateSerializes(t *testing.T, s repository.Store) {
	ctx := context.Background()
	key := models.PeriodKey{Year: 2026, Month: time.March}
	require.NoError(t, s.Periods().Create(ctx, &models.MonthlyPeriod{Key: key, CreatedAt: base, UpdatedAt: base}))

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
				p, err := tx.Periods().GetForUpdate(ctx, key)
				if err != nil {
					return err
				}
				p.TotalIncome += money.FromMajor(1)
				return tx.Periods().Update(ctx, p)
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	got, err := s.Periods().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(workers), got.TotalIncome)
}

func testUnits(t *testing.T, s repository.Store) {
	ctx := context.Background()
	repo := s.Units()

	unit := &models.Unit{ID: "202", FloorLabel: "2nd Floor", OwnerName: "GIRISH PANDEY", OwnerPhone: "+91 99113 00816", CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.Create(ctx, unit))
	require.NoError(t, repo.Create(ctx, &models.Unit{ID: "101", FloorLabel: "1st Floor", OwnerName: "SHARMA JI", CreatedAt: base, UpdatedAt: base}))

	err := repo.Create(ctx, unit)
	assert.True(t, errors.IsAlreadyExists(err))

	unit.OwnerPhone = "+91 90000 00000"
	unit.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, unit))

	got, err := repo.Get(ctx, "202")
	require.NoError(t, err)
	assert.Equal(t, "+91 90000 00000", got.OwnerPhone)

	_, err = repo.Get(ctx, "999")
	assert.True(t, errors.IsNotFound(err))

	err = repo.Update(ctx, &models.Unit{ID: "999"})
	assert.True(t, errors.IsNotFound(err))

	units, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "101", units[0].ID)
	assert.Equal(t, "202", units[1].ID)
}
