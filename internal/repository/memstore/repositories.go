package memstore

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"time"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

type transactionRepo struct {
	store *Store
}

func (r *transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	return r.store.write(ctx, func(st *state) error {
		st.Transactions = append(st.Transactions, *tx)
		return nil
	})
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var found *models.Transaction
	r.store.read(func(st *state) {
		for i := range st.Transactions {
			if st.Transactions[i].ID == id {
				tx := st.Transactions[i]
				found = &tx
				return
			}
		}
	})
	if found == nil {
		return nil, errors.ErrTransactionNotFound
	}
	return found, nil
}

func (r *transactionRepo) MarkVoided(ctx context.Context, id string, voidedAt time.Time, voidedBy string) error {
	return r.store.write(ctx, func(st *state) error {
		for i := range st.Transactions {
			if st.Transactions[i].ID != id {
				continue
			}
			if st.Transactions[i].Voided {
				return errors.ErrAlreadyVoided
			}
			at := voidedAt
			st.Transactions[i].Voided = true
			st.Transactions[i].VoidedAt = &at
			st.Transactions[i].VoidedBy = voidedBy
			return nil
		}
		return errors.ErrTransactionNotFound
	})
}

func (r *transactionRepo) List(ctx context.Context, filter repository.TransactionFilter) iter.Seq2[models.Transaction, error] {
	return func(yield func(models.Transaction, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(models.Transaction{}, err)
			return
		}

		var matched []models.Transaction
		r.store.read(func(st *state) {
			for i := range st.Transactions {
				if filter.Matches(&st.Transactions[i]) {
					matched = append(matched, st.Transactions[i])
				}
			}
		})

		slices.SortStableFunc(matched, func(a, b models.Transaction) int {
			if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
				return c
			}
			return b.RecordedAt.Compare(a.RecordedAt)
		})

		for _, tx := range matched {
			if !yield(tx, nil) {
				return
			}
		}
	}
}

type auditRepo struct {
	store *Store
}

func (r *auditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	return r.store.write(ctx, func(st *state) error {
		st.Audit = append(st.Audit, *entry)
		return nil
	})
}

func (r *auditRepo) List(ctx context.Context, filter repository.AuditFilter) iter.Seq2[models.AuditEntry, error] {
	return func(yield func(models.AuditEntry, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(models.AuditEntry{}, err)
			return
		}

		var matched []models.AuditEntry
		r.store.read(func(st *state) {
			for i := len(st.Audit) - 1; i >= 0; i-- {
				if filter.Matches(&st.Audit[i]) {
					matched = append(matched, st.Audit[i])
				}
			}
		})

		slices.SortStableFunc(matched, func(a, b models.AuditEntry) int {
			return b.Timestamp.Compare(a.Timestamp)
		})

		for _, e := range matched {
			if !yield(e, nil) {
				return
			}
		}
	}
}

type periodRepo struct {
	store *Store
}

func (r *periodRepo) Create(ctx context.Context, period *models.MonthlyPeriod) error {
	return r.store.write(ctx, func(st *state) error {
		id := period.Key.ID()
		if _, ok := st.Periods[id]; ok {
			return errors.ErrPeriodAlreadyExists
		}
		st.Periods[id] = *period
		return nil
	})
}

func (r *periodRepo) Get(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	var found *models.MonthlyPeriod
	r.store.read(func(st *state) {
		if p, ok := st.Periods[key.ID()]; ok {
			found = &p
		}
	})
	if found == nil {
		return nil, errors.ErrPeriodNotFound
	}
	return found, nil
}

// GetForUpdate needs no row lock here: units of work are already single-writer.
func (r *periodRepo) GetForUpdate(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	return r.Get(ctx, key)
}

func (r *periodRepo) Update(ctx context.Context, period *models.MonthlyPeriod) error {
	return r.store.write(ctx, func(st *state) error {
		id := period.Key.ID()
		if _, ok := st.Periods[id]; !ok {
			return errors.ErrPeriodNotFound
		}
		st.Periods[id] = *period
		return nil
	})
}

func (r *periodRepo) First(ctx context.Context) (*models.MonthlyPeriod, error) {
	periods, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, errors.ErrPeriodNotFound
	}
	return periods[0], nil
}

func (r *periodRepo) List(ctx context.Context) ([]*models.MonthlyPeriod, error) {
	var periods []*models.MonthlyPeriod
	r.store.read(func(st *state) {
		for _, p := range st.Periods {
			p := p
			periods = append(periods, &p)
		}
	})
	slices.SortFunc(periods, func(a, b *models.MonthlyPeriod) int {
		return cmp.Compare(a.Key.ID(), b.Key.ID())
	})
	return periods, nil
}

type unitRepo struct {
	store *Store
}

func (r *unitRepo) Create(ctx context.Context, unit *models.Unit) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.Units[unit.ID]; ok {
			return errors.ErrUnitAlreadyExists
		}
		st.Units[unit.ID] = *unit
		return nil
	})
}

func (r *unitRepo) Get(ctx context.Context, id string) (*models.Unit, error) {
	var found *models.Unit
	r.store.read(func(st *state) {
		if u, ok := st.Units[id]; ok {
			found = &u
		}
	})
	if found == nil {
		return nil, errors.ErrUnitNotFound
	}
	return found, nil
}

func (r *unitRepo) Update(ctx context.Context, unit *models.Unit) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.Units[unit.ID]; !ok {
			return errors.ErrUnitNotFound
		}
		st.Units[unit.ID] = *unit
		return nil
	})
}

func (r *unitRepo) List(ctx context.Context) ([]*models.Unit, error) {
	var units []*models.Unit
	r.store.read(func(st *state) {
		for _, u := range st.Units {
			u := u
			units = append(units, &u)
		}
	})
	slices.SortFunc(units, func(a, b *models.Unit) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return units, nil
}
