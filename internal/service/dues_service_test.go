package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/service"
)

func TestDuesService_Statement(t *testing.T) {
	schedule := service.DuesSchedule{
		MonthlyAmount: money.FromMajor(2500),
		Start:         period(time.December, 2025),
	}

	tests := []struct {
		name          string
		payments      []int64
		wantPending   []models.PeriodKey
		wantPendingAm int64
		wantAdvance   int64
		wantAdvMonths int
		wantThrough   *models.PeriodKey
		wantStatus    string
	}{
		{
			name:          "nothing paid",
			wantPending:   []models.PeriodKey{period(time.December, 2025), period(time.January, 2026), period(time.February, 2026)},
			wantPendingAm: 7500,
			wantStatus:    "Pending for Dec'25-Feb'26",
		},
		{
			name:          "first month paid",
			payments:      []int64{2500},
			wantPending:   []models.PeriodKey{period(time.January, 2026), period(time.February, 2026)},
			wantPendingAm: 5000,
			wantThrough:   &models.PeriodKey{Year: 2025, Month: time.December},
			wantStatus:    "Pending for Jan-Feb'26",
		},
		{
			name:          "current month partly paid",
			payments:      []int64{5000, 1000},
			wantPending:   []models.PeriodKey{period(time.February, 2026)},
			wantPendingAm: 1500,
			wantThrough:   &models.PeriodKey{Year: 2026, Month: time.January},
			wantStatus:    "Pending for Feb'26",
		},
		{
			name:        "fully paid",
			payments:    []int64{2500, 2500, 2500},
			wantThrough: &models.PeriodKey{Year: 2026, Month: time.February},
			wantStatus:  "No dues till Feb'26",
		},
		{
			name:          "one month in advance",
			payments:      []int64{10000},
			wantAdvance:   2500,
			wantAdvMonths: 1,
			wantThrough:   &models.PeriodKey{Year: 2026, Month: time.March},
			wantStatus:    "Advance till Mar'26",
		},
		{
			name:        "partial advance",
			payments:    []int64{7500, 500},
			wantAdvance: 500,
			wantThrough: &models.PeriodKey{Year: 2026, Month: time.February},
			wantStatus:  "Partial Advance till Mar'26",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, withDues(schedule))
			for _, amount := range tt.payments {
				l.record(t, models.DirectionCredit, amount, models.CategoryMaintenance, "101", "2026-01-15")
			}

			stmt, err := l.dues.Statement(context.Background(), "101", now)
			require.NoError(t, err)

			assert.Equal(t, "101", stmt.UnitRef)
			assert.Equal(t, 3, stmt.MonthsCharged)
			assert.Equal(t, money.FromMajor(7500), stmt.TotalDue)
			assert.Equal(t, tt.wantPending, stmt.PendingMonths)
			assert.Equal(t, money.FromMajor(tt.wantPendingAm), stmt.PendingAmount)
			assert.Equal(t, money.FromMajor(tt.wantAdvance), stmt.AdvanceAmount)
			assert.Equal(t, tt.wantAdvMonths, stmt.AdvanceMonths)
			assert.Equal(t, tt.wantThrough, stmt.PaidThrough)
			assert.Equal(t, tt.wantStatus, stmt.StatusLabel)
			if len(tt.wantPending) > 0 {
				require.NotNil(t, stmt.OldestPending)
				assert.Equal(t, tt.wantPending[0], *stmt.OldestPending)
			} else {
				assert.Nil(t, stmt.OldestPending)
			}
		})
	}
}

func TestDuesService_CountsOnlyLiveDuesPayments(t *testing.T) {
	l := newTestLedger(t, withDues(service.DuesSchedule{
		MonthlyAmount: money.FromMajor(2500),
		Start:         period(time.February, 2026),
	}))
	ctx := context.Background()

	l.record(t, models.DirectionCredit, 1000, models.CategoryAdvance, "101", "2026-02-01")
	l.record(t, models.DirectionCredit, 900, models.CategoryPenalty, "101", "2026-02-01")
	l.record(t, models.DirectionCredit, 2500, models.CategoryMaintenance, "102", "2026-02-01")
	wrong := l.record(t, models.DirectionCredit, 2500, models.CategoryMaintenance, "101", "2026-02-02")
	_, err := l.transactions.VoidTransaction(ctx, wrong.ID, "admin")
	require.NoError(t, err)

	stmt, err := l.dues.Statement(ctx, "101", now)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(1000), stmt.TotalPaid)
	assert.Equal(t, money.FromMajor(1500), stmt.PendingAmount)
	assert.Equal(t, "Pending for Feb'26", stmt.StatusLabel)
}

func TestDuesService_BeforeScheduleStarts(t *testing.T) {
	l := newTestLedger(t, withDues(service.DuesSchedule{
		MonthlyAmount: money.FromMajor(2500),
		Start:         period(time.April, 2026),
	}))
	l.record(t, models.DirectionCredit, 5000, models.CategoryAdvance, "101", "2026-02-01")

	stmt, err := l.dues.Statement(context.Background(), "101", now)
	require.NoError(t, err)
	assert.Zero(t, stmt.MonthsCharged)
	assert.Equal(t, 2, stmt.AdvanceMonths)
	assert.Equal(t, "Advance till May'26", stmt.StatusLabel)
}

func TestDuesService_NoSchedule(t *testing.T) {
	l := newTestLedger(t)
	l.record(t, models.DirectionCredit, 700, models.CategoryMaintenance, "101", "2026-02-01")

	stmt, err := l.dues.Statement(context.Background(), "101", now)
	require.NoError(t, err)
	assert.Zero(t, stmt.TotalDue)
	assert.Equal(t, money.FromMajor(700), stmt.AdvanceAmount)
	assert.Equal(t, "No dues till Feb'26", stmt.StatusLabel)

	_, err = l.dues.Statement(context.Background(), " ", now)
	assert.True(t, errors.IsValidationError(err))
}
