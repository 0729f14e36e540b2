package repository

import (
	"context"
	"iter"
	"time"

	"github.com/riteshkumar/building-ledger/internal/models"
)

// TransactionFilter narrows a transaction listing. Zero fields match everything; the
// date range is [From, To) on occurredAt.
type TransactionFilter struct {
	UnitRef   string
	Direction models.Direction
	Category  models.Category
	From      time.Time
	To        time.Time
}

func (f TransactionFilter) Matches(tx *models.Transaction) bool {
	if f.UnitRef != "" && tx.UnitRef != f.UnitRef {
		return false
	}
	if f.Direction != "" && tx.Direction != f.Direction {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	return inRange(tx.OccurredAt, f.From, f.To)
}

// AuditFilter narrows an audit listing; the date range is [From, To) on timestamp.
type AuditFilter struct {
	Action models.AuditAction
	Actor  string
	From   time.Time
	To     time.Time
}

func (f AuditFilter) Matches(e *models.AuditEntry) bool {
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.Actor != "" && e.Actor != f.Actor {
		return false
	}
	return inRange(e.Timestamp, f.From, f.To)
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// TransactionRepository is the append-only transaction log. List sequences are lazy
// and run their query again on every range, ordered by occurredAt then recordedAt,
// newest first.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	MarkVoided(ctx context.Context, id string, voidedAt time.Time, voidedBy string) error
	List(ctx context.Context, filter TransactionFilter) iter.Seq2[models.Transaction, error]
}

// AuditRepository is the append-only audit log. List is newest first.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) iter.Seq2[models.AuditEntry, error]
}

type PeriodRepository interface {
	// Create fails with errors.ErrPeriodAlreadyExists when the key is taken.
	Create(ctx context.Context, period *models.MonthlyPeriod) error
	Get(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error)
	// GetForUpdate reads the period and, on stores that support it, holds a row lock
	// until the surrounding unit of work ends.
	GetForUpdate(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error)
	Update(ctx context.Context, period *models.MonthlyPeriod) error
	// First returns the earliest period, or errors.ErrPeriodNotFound.
	First(ctx context.Context) (*models.MonthlyPeriod, error)
	List(ctx context.Context) ([]*models.MonthlyPeriod, error)
}

type UnitRepository interface {
	Create(ctx context.Context, unit *models.Unit) error
	Get(ctx context.Context, id string) (*models.Unit, error)
	Update(ctx context.Context, unit *models.Unit) error
	List(ctx context.Context) ([]*models.Unit, error)
}

// Store is the single persistence boundary. A deployment picks one adapter.
type Store interface {
	Transactions() TransactionRepository
	Audit() AuditRepository
	Periods() PeriodRepository
	Units() UnitRepository

	// WithTx runs fn against repositories bound to one unit of work. Either every
	// write fn makes is applied or none is. Nested calls join the outer unit.
	WithTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
