package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

// UnitServiceImpl manages unit profiles. Advance, pending and last payment are
// derived from the transaction log on every read and can't be written.
type UnitServiceImpl struct {
	store    repository.Store
	clock    clock.Clock
	balances BalanceService
	dues     DuesService
	loc      *time.Location
	logger   *slog.Logger
}

func NewUnitService(store repository.Store, clk clock.Clock, balances BalanceService, dues DuesService, loc *time.Location, logger *slog.Logger) *UnitServiceImpl {
	return &UnitServiceImpl{
		store:    store,
		clock:    clk,
		balances: balances,
		dues:     dues,
		loc:      loc,
		logger:   logger,
	}
}

func (s *UnitServiceImpl) CreateUnit(ctx context.Context, req *models.CreateUnitRequest) (*models.UnitView, error) {
	if err := s.validateCreateRequest(req); err != nil {
		s.logger.Warn("invalid create unit request",
			"flat_id", req.ID,
			"error", err.Error(),
		)
		return nil, err
	}

	now := s.clock.Now()
	unit := &models.Unit{
		ID:         strings.TrimSpace(string(req.ID)),
		FloorLabel: strings.TrimSpace(req.Floor),
		OwnerName:  strings.TrimSpace(req.Owner),
		OwnerPhone: strings.TrimSpace(req.Phone),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		if err := st.Units().Create(ctx, unit); err != nil {
			return err
		}
		details := fmt.Sprintf("Added flat %s (floor %q, owner %q)", unit.ID, unit.FloorLabel, unit.OwnerName)
		_, err := appendAudit(ctx, st, s.clock, models.AuditActionUpdateProfile, details, req.User)
		return err
	})
	if err != nil {
		logFailure(s.logger, "failed to create unit", err, "flat_id", unit.ID)
		return nil, errors.NewStorageError("create unit", err)
	}

	s.logger.Info("unit created", "flat_id", unit.ID, "user", req.User)
	return s.view(ctx, unit)
}

func (s *UnitServiceImpl) GetUnit(ctx context.Context, id string) (*models.UnitView, error) {
	unit, err := s.store.Units().Get(ctx, strings.TrimSpace(id))
	if err != nil {
		logFailure(s.logger, "failed to get unit", err, "flat_id", id)
		return nil, errors.NewStorageError("get unit", err)
	}
	return s.view(ctx, unit)
}

func (s *UnitServiceImpl) ListUnits(ctx context.Context) ([]*models.UnitView, error) {
	units, err := s.store.Units().List(ctx)
	if err != nil {
		logFailure(s.logger, "failed to list units", err)
		return nil, errors.NewStorageError("list units", err)
	}

	views := make([]*models.UnitView, 0, len(units))
	for _, unit := range units {
		v, err := s.view(ctx, unit)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// UpdateProfile changes owner, phone or floor. Only the fields present in req change.
func (s *UnitServiceImpl) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.UnitView, error) {
	id = strings.TrimSpace(id)
	if strings.TrimSpace(req.User) == "" {
		return nil, errors.NewValidationError("user", "must be non-empty")
	}
	if req.Floor == nil && req.Owner == nil && req.Phone == nil {
		return nil, errors.NewValidationError("profile", "nothing to update")
	}

	var updated *models.Unit
	err := s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		unit, err := st.Units().Get(ctx, id)
		if err != nil {
			return err
		}

		var changes []string
		apply := func(name string, field *string, value *string) {
			if value == nil {
				return
			}
			v := strings.TrimSpace(*value)
			if v == *field {
				return
			}
			changes = append(changes, fmt.Sprintf("%s %q -> %q", name, *field, v))
			*field = v
		}
		apply("floor", &unit.FloorLabel, req.Floor)
		apply("owner", &unit.OwnerName, req.Owner)
		apply("phone", &unit.OwnerPhone, req.Phone)

		updated = unit
		if len(changes) == 0 {
			return nil
		}

		unit.UpdatedAt = s.clock.Now()
		if err := st.Units().Update(ctx, unit); err != nil {
			return err
		}
		details := fmt.Sprintf("Updated flat %s: %s", unit.ID, strings.Join(changes, ", "))
		_, err = appendAudit(ctx, st, s.clock, models.AuditActionUpdateProfile, details, req.User)
		return err
	})
	if err != nil {
		logFailure(s.logger, "failed to update unit profile", err, "flat_id", id, "user", req.User)
		return nil, errors.NewStorageError("update unit profile", err)
	}

	return s.view(ctx, updated)
}

func (s *UnitServiceImpl) validateCreateRequest(req *models.CreateUnitRequest) error {
	if strings.TrimSpace(string(req.ID)) == "" {
		return errors.NewValidationError("id", "must be non-empty")
	}
	if strings.TrimSpace(req.User) == "" {
		return errors.NewValidationError("user", "must be non-empty")
	}
	return nil
}

// view derives the unit's position: its transaction balance less the dues scheduled
// so far. A positive position is advance, a negative one pending.
func (s *UnitServiceImpl) view(ctx context.Context, unit *models.Unit) (*models.UnitView, error) {
	balance, err := s.balances.UnitBalance(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	stmt, err := s.dues.Statement(ctx, unit.ID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	position, ok := balance.Balance.Sub(stmt.TotalDue)
	if !ok {
		return nil, fmt.Errorf("position of flat %s: %w", unit.ID, errors.ErrAmountOverflow)
	}

	v := &models.UnitView{Unit: *unit}
	if position > 0 {
		v.AdvanceBalance = position
	} else {
		v.PendingBalance = -position
	}

	if v.DepositBalance, err = s.deposit(ctx, unit.ID); err != nil {
		return nil, err
	}

	last, err := s.lastPayment(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		v.LastPaymentLabel = models.PeriodKeyOf(last.OccurredAt.In(s.loc)).Label()
	}
	return v, nil
}

func (s *UnitServiceImpl) deposit(ctx context.Context, unitRef string) (money.Amount, error) {
	filter := repository.TransactionFilter{UnitRef: unitRef, Category: models.CategoryAdvance}
	sum, err := sumTransactions(s.store.Transactions().List(ctx, filter))
	if err != nil {
		logFailure(s.logger, "failed to compute deposit", err, "flat_id", unitRef)
		return 0, errors.NewStorageError("deposit", err)
	}
	net, err := sum.net()
	if err != nil {
		return 0, err
	}
	return net, nil
}

func (s *UnitServiceImpl) lastPayment(ctx context.Context, unitRef string) (*models.Transaction, error) {
	filter := repository.TransactionFilter{UnitRef: unitRef, Direction: models.DirectionCredit}
	for tx, err := range s.store.Transactions().List(ctx, filter) {
		if err != nil {
			return nil, errors.NewStorageError("last payment", err)
		}
		if !tx.Voided {
			return &tx, nil
		}
	}
	return nil, nil
}
