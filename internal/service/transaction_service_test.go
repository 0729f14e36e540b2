package service_test

import (
	"context"
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
	"github.com/riteshkumar/building-ledger/internal/repository/memstore"
)

func TestTransactionService_RecordTransaction_Validation(t *testing.T) {
	valid := models.RecordTransactionRequest{
		Date:      "2026-01-15",
		Amount:    money.FromMajor(250),
		Type:      models.DirectionCredit,
		Category:  models.CategoryMaintenance,
		FlatID:    "101",
		CreatedBy: "admin",
	}

	tests := []struct {
		name      string
		modify    func(r *models.RecordTransactionRequest)
		wantField string
	}{
		{name: "zero amount", modify: func(r *models.RecordTransactionRequest) { r.Amount = 0 }, wantField: "amount"},
		{name: "negative amount", modify: func(r *models.RecordTransactionRequest) { r.Amount = -1 }, wantField: "amount"},
		{name: "amount above maximum", modify: func(r *models.RecordTransactionRequest) { r.Amount = money.MaxAmount + 1 }, wantField: "amount"},
		{name: "unknown type", modify: func(r *models.RecordTransactionRequest) { r.Type = "REFUND" }, wantField: "type"},
		{name: "missing type", modify: func(r *models.RecordTransactionRequest) { r.Type = "" }, wantField: "type"},
		{name: "unknown category", modify: func(r *models.RecordTransactionRequest) { r.Category = "FESTIVAL" }, wantField: "category"},
		{name: "missing actor", modify: func(r *models.RecordTransactionRequest) { r.CreatedBy = "  " }, wantField: "createdBy"},
		{name: "malformed date", modify: func(r *models.RecordTransactionRequest) { r.Date = "15/01/2026" }, wantField: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			req := valid
			tt.modify(&req)

			tx, err := l.transactions.RecordTransaction(context.Background(), &req)

			require.Error(t, err)
			assert.Nil(t, tx)
			var validationErr *errors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
			assert.Empty(t, l.auditEntries(t, repository.AuditFilter{}))
		})
	}
}

func TestTransactionService_RecordTransaction(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	tx, err := l.transactions.RecordTransaction(ctx, &models.RecordTransactionRequest{
		Date:        "2026-01-15",
		Amount:      money.FromMajor(250),
		Type:        models.DirectionCredit,
		Category:    models.CategoryMaintenance,
		FlatID:      "101",
		Description: " January dues ",
		ProofURL:    "receipts/101-jan.jpg",
		CreatedBy:   "admin",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.True(t, tx.OccurredAt.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, ist)))
	assert.True(t, tx.RecordedAt.Equal(now))
	assert.Equal(t, "January dues", tx.Description)
	assert.Equal(t, "101", tx.UnitRef)
	assert.False(t, tx.Voided)

	stored, err := l.transactions.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, stored.ID)
	assert.Equal(t, tx.Amount, stored.Amount)

	entries := l.auditEntries(t, repository.AuditFilter{})
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionAddTransaction, entries[0].Action)
	assert.Equal(t, "admin", entries[0].Actor)
	assert.Contains(t, entries[0].Details, "₹250.00")
	assert.Contains(t, entries[0].Details, "flat 101")
}

func TestTransactionService_RecordTransaction_Dates(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{name: "empty date is now", date: "", want: now},
		{name: "calendar date in ledger timezone", date: "2026-01-31", want: time.Date(2026, 1, 31, 0, 0, 0, 0, ist)},
		{name: "timestamp", date: "2026-01-15T10:30:00.000Z", want: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			tx := l.record(t, models.DirectionCredit, 100, models.CategoryMaintenance, "101", tt.date)
			assert.True(t, tx.OccurredAt.Equal(tt.want), "got %s", tx.OccurredAt)
		})
	}
}

func TestTransactionService_MaxAmount(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.transactions.RecordTransaction(ctx, &models.RecordTransactionRequest{
		Amount:    money.MaxAmount,
		Type:      models.DirectionCredit,
		Category:  models.CategoryAdvance,
		FlatID:    "301",
		CreatedBy: "admin",
	})
	require.NoError(t, err)

	balance, err := l.balances.UnitBalance(ctx, "301")
	require.NoError(t, err)
	assert.Equal(t, money.MaxAmount, balance.TotalPaid)
	assert.Equal(t, money.MaxAmount, balance.Balance)
}

func TestTransactionService_ListTransactions(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	jan := l.record(t, models.DirectionCredit, 250, models.CategoryMaintenance, "101", "2026-01-05")
	sameDay := l.record(t, models.DirectionDebit, 90, models.CategoryExpense, "", "2026-01-05")
	dec := l.record(t, models.DirectionCredit, 250, models.CategoryMaintenance, "102", "2025-12-20")
	feb := l.record(t, models.DirectionDebit, 200, models.CategoryPenalty, "101", "2026-02-01")

	seq := l.transactions.ListTransactions(ctx, repository.TransactionFilter{})
	all, err := repository.Collect(seq)
	require.NoError(t, err)

	var ids []string
	for _, tx := range all {
		ids = append(ids, tx.ID)
	}
	// Same occurredAt falls back to the later recordedAt first.
	assert.Equal(t, []string{feb.ID, sameDay.ID, jan.ID, dec.ID}, ids)

	again, err := repository.Collect(seq)
	require.NoError(t, err)
	assert.Len(t, again, 4)

	forUnit, err := repository.Collect(l.transactions.ListTransactions(ctx, repository.TransactionFilter{UnitRef: "101"}))
	require.NoError(t, err)
	assert.Len(t, forUnit, 2)

	january, err := repository.Collect(l.transactions.ListTransactions(ctx, repository.TransactionFilter{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, ist),
		To:   time.Date(2026, 2, 1, 0, 0, 0, 0, ist),
	}))
	require.NoError(t, err)
	assert.Len(t, january, 2)
}

func TestTransactionService_VoidTransaction(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	keep := l.record(t, models.DirectionCredit, 1250, models.CategoryMaintenance, "202", "2026-01-10")
	mistake := l.record(t, models.DirectionDebit, 200, models.CategoryPenalty, "202", "2026-01-11")

	voided, err := l.transactions.VoidTransaction(ctx, mistake.ID, "treasurer")
	require.NoError(t, err)
	assert.True(t, voided.Voided)
	assert.Equal(t, "treasurer", voided.VoidedBy)
	require.NotNil(t, voided.VoidedAt)

	listed, err := repository.Collect(l.transactions.ListTransactions(ctx, repository.TransactionFilter{UnitRef: "202"}))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, mistake.ID, listed[0].ID)
	assert.True(t, listed[0].Voided)
	assert.Equal(t, keep.ID, listed[1].ID)
	assert.False(t, listed[1].Voided)

	balance, err := l.balances.UnitBalance(ctx, "202")
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(1250), balance.Balance)
	assert.Zero(t, balance.TotalCharged)

	deletes := l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionDeleteTransaction})
	require.Len(t, deletes, 1)
	assert.Equal(t, "treasurer", deletes[0].Actor)
	assert.Contains(t, deletes[0].Details, mistake.ID)

	t.Run("already voided", func(t *testing.T) {
		_, err := l.transactions.VoidTransaction(ctx, mistake.ID, "treasurer")
		assert.True(t, errors.IsAlreadyVoided(err))
		assert.Len(t, l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionDeleteTransaction}), 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := l.transactions.VoidTransaction(ctx, "does-not-exist", "treasurer")
		assert.ErrorIs(t, err, errors.ErrTransactionNotFound)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, err := l.transactions.VoidTransaction(ctx, keep.ID, "")
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestTransactionService_CorrectTransaction(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	original := l.record(t, models.DirectionCredit, 2500, models.CategoryMaintenance, "101", "2026-01-10")

	replacement, err := l.transactions.CorrectTransaction(ctx, original.ID, &models.CorrectTransactionRequest{
		RecordTransactionRequest: models.RecordTransactionRequest{
			Amount:    money.FromMajor(2000),
			CreatedBy: "treasurer",
		},
		Reason: "cheque bounced partially",
	})
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, replacement.ID)
	assert.Equal(t, money.FromMajor(2000), replacement.Amount)
	assert.Equal(t, models.DirectionCredit, replacement.Direction)
	assert.Equal(t, models.CategoryMaintenance, replacement.Category)
	assert.Equal(t, "101", replacement.UnitRef)
	assert.True(t, replacement.OccurredAt.Equal(original.OccurredAt))
	assert.Equal(t, "treasurer", replacement.CreatedBy)

	old, err := l.transactions.GetTransaction(ctx, original.ID)
	require.NoError(t, err)
	assert.True(t, old.Voided)
	assert.Equal(t, money.FromMajor(2500), old.Amount)

	balance, err := l.balances.UnitBalance(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(2000), balance.TotalPaid)

	edits := l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionEditTransaction})
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].Details, original.ID)
	assert.Contains(t, edits[0].Details, replacement.ID)
	assert.Contains(t, edits[0].Details, "₹2500.00 -> ₹2000.00")
	assert.Contains(t, edits[0].Details, "cheque bounced partially")
	assert.Empty(t, l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionDeleteTransaction}))

	t.Run("voided original", func(t *testing.T) {
		_, err := l.transactions.CorrectTransaction(ctx, original.ID, &models.CorrectTransactionRequest{
			RecordTransactionRequest: models.RecordTransactionRequest{CreatedBy: "treasurer"},
		})
		assert.True(t, errors.IsAlreadyVoided(err))
	})

	t.Run("invalid replacement", func(t *testing.T) {
		_, err := l.transactions.CorrectTransaction(ctx, replacement.ID, &models.CorrectTransactionRequest{
			RecordTransactionRequest: models.RecordTransactionRequest{Category: "BOGUS", CreatedBy: "treasurer"},
		})
		assert.True(t, errors.IsValidationError(err))

		stillLive, err := l.transactions.GetTransaction(ctx, replacement.ID)
		require.NoError(t, err)
		assert.False(t, stillLive.Voided)
	})
}

func TestTransactionService_AuditCompleteness(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		tx := l.record(t, models.DirectionCredit, int64(100+i), models.CategoryMaintenance, fmt.Sprint(101+i), "2026-01-20")
		ids = append(ids, tx.ID)
	}
	for _, id := range ids[:2] {
		_, err := l.transactions.VoidTransaction(ctx, id, "treasurer")
		require.NoError(t, err)
	}

	assert.Len(t, l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionAddTransaction, Actor: "admin"}), 5)
	assert.Len(t, l.auditEntries(t, repository.AuditFilter{Action: models.AuditActionDeleteTransaction, Actor: "treasurer"}), 2)

	all := l.auditEntries(t, repository.AuditFilter{})
	require.Len(t, all, 7)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.After(all[i-1].Timestamp), "audit trail must be newest first")
	}
}

func TestTransactionService_ConcurrentAppends(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.transactions.RecordTransaction(ctx, &models.RecordTransactionRequest{
				Date:      "2026-01-25",
				Amount:    money.FromMajor(10),
				Type:      models.DirectionCredit,
				Category:  models.CategoryMaintenance,
				FlatID:    "101",
				CreatedBy: "admin",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := l.balances.UnitBalance(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(10*writers), balance.TotalPaid)
	assert.Len(t, l.auditEntries(t, repository.AuditFilter{}), writers)
}

func TestTransactionService_StorageFailure(t *testing.T) {
	cause := fmt.Errorf("disk full")
	l := newTestLedger(t, withStore(&failingStore{Store: memstore.New(), err: cause}))

	_, err := l.transactions.RecordTransaction(context.Background(), &models.RecordTransactionRequest{
		Amount:    money.FromMajor(250),
		Type:      models.DirectionCredit,
		Category:  models.CategoryMaintenance,
		CreatedBy: "admin",
	})

	require.Error(t, err)
	assert.True(t, errors.IsStorageError(err))
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, l.auditEntries(t, repository.AuditFilter{}), "audit entry must roll back with the failed append")
}
