package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

// DuesSchedule charges MonthlyAmount to every unit for each month from Start on. A
// zero MonthlyAmount disables the schedule.
type DuesSchedule struct {
	MonthlyAmount money.Amount
	Start         models.PeriodKey
}

// monthsUntil counts the scheduled months up to and including current.
func (d DuesSchedule) monthsUntil(current models.PeriodKey) int {
	if d.MonthlyAmount <= 0 || current.Before(d.Start) {
		return 0
	}
	return d.Start.MonthsUntil(current) + 1
}

type DuesServiceImpl struct {
	store    repository.Store
	schedule DuesSchedule
	loc      *time.Location
	logger   *slog.Logger
}

func NewDuesService(store repository.Store, schedule DuesSchedule, loc *time.Location, logger *slog.Logger) *DuesServiceImpl {
	return &DuesServiceImpl{
		store:    store,
		schedule: schedule,
		loc:      loc,
		logger:   logger,
	}
}

// Statement allocates the unit's dues payments to scheduled months, oldest first.
func (s *DuesServiceImpl) Statement(ctx context.Context, unitRef string, asOf time.Time) (*models.DuesStatement, error) {
	unitRef = strings.TrimSpace(unitRef)
	if unitRef == "" {
		return nil, errors.NewValidationError("flatId", "must be non-empty")
	}

	paid, err := s.duesPaid(ctx, unitRef)
	if err != nil {
		logFailure(s.logger, "failed to compute dues", err, "flat_id", unitRef)
		return nil, errors.NewStorageError("dues statement", err)
	}

	stmt, err := allocateDues(s.schedule, models.PeriodKeyOf(asOf.In(s.loc)), paid)
	if err != nil {
		return nil, err
	}
	stmt.UnitRef = unitRef
	return stmt, nil
}

// duesPaid sums the unit's non-voided maintenance and advance credits.
func (s *DuesServiceImpl) duesPaid(ctx context.Context, unitRef string) (money.Amount, error) {
	var paid money.Amount
	filter := repository.TransactionFilter{UnitRef: unitRef, Direction: models.DirectionCredit}
	for tx, err := range s.store.Transactions().List(ctx, filter) {
		if err != nil {
			return 0, err
		}
		if tx.Voided {
			continue
		}
		if tx.Category != models.CategoryMaintenance && tx.Category != models.CategoryAdvance {
			continue
		}
		var ok bool
		if paid, ok = paid.Add(tx.Amount); !ok {
			return 0, fmt.Errorf("summing dues of flat %s: %w", unitRef, errors.ErrAmountOverflow)
		}
	}
	return paid, nil
}

func allocateDues(schedule DuesSchedule, current models.PeriodKey, paid money.Amount) (*models.DuesStatement, error) {
	charged := schedule.monthsUntil(current)
	stmt := &models.DuesStatement{
		MonthlyDue:    schedule.MonthlyAmount,
		MonthsCharged: charged,
		TotalPaid:     paid,
	}

	if schedule.MonthlyAmount <= 0 {
		stmt.AdvanceAmount = paid
		stmt.StatusLabel = "No dues till " + current.Short()
		return stmt, nil
	}

	if int64(charged) > int64(money.MaxAmount/schedule.MonthlyAmount) {
		return nil, fmt.Errorf("dues for %d months: %w", charged, errors.ErrAmountOverflow)
	}
	stmt.TotalDue = schedule.MonthlyAmount * money.Amount(charged)

	covered := int(paid / schedule.MonthlyAmount)
	remainder := paid % schedule.MonthlyAmount
	if covered > 0 {
		through := schedule.Start.AddMonths(covered - 1)
		stmt.PaidThrough = &through
	}

	if covered < charged {
		for k := schedule.Start.AddMonths(covered); !current.Before(k); k = k.Next() {
			stmt.PendingMonths = append(stmt.PendingMonths, k)
		}
		oldest := stmt.PendingMonths[0]
		stmt.OldestPending = &oldest
		stmt.PendingAmount = stmt.TotalDue - paid
		stmt.StatusLabel = pendingLabel(stmt.PendingMonths)
		return stmt, nil
	}

	stmt.AdvanceMonths = covered - charged
	stmt.AdvanceAmount = paid - stmt.TotalDue
	stmt.PartialAdvance = remainder > 0

	switch {
	case stmt.PartialAdvance:
		stmt.StatusLabel = "Partial Advance till " + schedule.Start.AddMonths(covered).Short()
	case stmt.AdvanceMonths > 0:
		stmt.StatusLabel = "Advance till " + stmt.PaidThrough.Short()
	default:
		stmt.StatusLabel = "No dues till " + current.Short()
	}
	return stmt, nil
}

// pendingLabel renders "Pending for Feb'26", "Pending for Jan-Feb'26" within a year
// and "Pending for Oct'25-Feb'26" across years.
func pendingLabel(months []models.PeriodKey) string {
	first, last := months[0], months[len(months)-1]
	switch {
	case first == last:
		return "Pending for " + last.Short()
	case first.Year == last.Year:
		return fmt.Sprintf("Pending for %s-%s", first.Month.String()[:3], last.Short())
	default:
		return fmt.Sprintf("Pending for %s-%s", first.Short(), last.Short())
	}
}
