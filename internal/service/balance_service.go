package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

// BalanceServiceImpl derives balances from the transaction log on every call. Nothing
// is cached.
type BalanceServiceImpl struct {
	store  repository.Store
	logger *slog.Logger
}

func NewBalanceService(store repository.Store, logger *slog.Logger) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		store:  store,
		logger: logger,
	}
}

func (s *BalanceServiceImpl) UnitBalance(ctx context.Context, unitRef string) (*models.UnitBalance, error) {
	unitRef = strings.TrimSpace(unitRef)
	if unitRef == "" {
		return nil, errors.NewValidationError("flatId", "must be non-empty")
	}

	sum, err := sumTransactions(s.store.Transactions().List(ctx, repository.TransactionFilter{UnitRef: unitRef}))
	if err != nil {
		logFailure(s.logger, "failed to compute unit balance", err, "flat_id", unitRef)
		return nil, errors.NewStorageError("unit balance", err)
	}

	balance, err := sum.net()
	if err != nil {
		return nil, err
	}
	return &models.UnitBalance{
		UnitRef:      unitRef,
		TotalPaid:    sum.credit,
		TotalCharged: sum.debit,
		Balance:      balance,
	}, nil
}

func (s *BalanceServiceImpl) BuildingBalance(ctx context.Context) (*models.BuildingBalance, error) {
	sum, err := sumTransactions(s.store.Transactions().List(ctx, repository.TransactionFilter{}))
	if err != nil {
		logFailure(s.logger, "failed to compute building balance", err)
		return nil, errors.NewStorageError("building balance", err)
	}

	net, err := sum.net()
	if err != nil {
		return nil, err
	}
	return &models.BuildingBalance{
		TotalIncome:  sum.credit,
		TotalExpense: sum.debit,
		Net:          net,
	}, nil
}

type totals struct {
	credit money.Amount
	debit  money.Amount
}

func (t totals) net() (money.Amount, error) {
	n, ok := t.credit.Sub(t.debit)
	if !ok {
		return 0, fmt.Errorf("net of %s and %s: %w", t.credit, t.debit, errors.ErrAmountOverflow)
	}
	return n, nil
}

// sumTransactions folds the non-voided transactions of seq into credit and debit
// totals.
func sumTransactions(seq iter.Seq2[models.Transaction, error]) (totals, error) {
	var t totals
	for tx, err := range seq {
		if err != nil {
			return totals{}, err
		}
		if tx.Voided {
			continue
		}

		var ok bool
		switch tx.Direction {
		case models.DirectionCredit:
			t.credit, ok = t.credit.Add(tx.Amount)
		case models.DirectionDebit:
			t.debit, ok = t.debit.Add(tx.Amount)
		default:
			ok = true
		}
		if !ok {
			return totals{}, fmt.Errorf("summing transaction %s: %w", tx.ID, errors.ErrAmountOverflow)
		}
	}
	return t, nil
}
