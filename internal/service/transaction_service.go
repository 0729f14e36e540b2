package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

type TransactionServiceImpl struct {
	store  repository.Store
	clock  clock.Clock
	locks  *PeriodLocks
	loc    *time.Location
	logger *slog.Logger
}

func NewTransactionService(store repository.Store, clk clock.Clock, locks *PeriodLocks, loc *time.Location, logger *slog.Logger) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		store:  store,
		clock:  clk,
		locks:  locks,
		loc:    loc,
		logger: logger,
	}
}

// RecordTransaction appends a transaction and its ADD_TRANSACTION audit entry in one
// unit of work.
func (s *TransactionServiceImpl) RecordTransaction(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error) {
	tx, err := s.newTransaction(req)
	if err != nil {
		s.logger.Warn("invalid transaction request",
			"type", req.Type,
			"category", req.Category,
			"flat_id", req.FlatID,
			"error", err.Error(),
		)
		return nil, err
	}

	key := s.periodOf(tx.OccurredAt)
	unlock := s.locks.Lock(key)
	defer unlock()

	err = s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		if err := s.ensureWithinLedger(ctx, st, key); err != nil {
			return err
		}
		if err := ensureUnlocked(ctx, st, key); err != nil {
			return err
		}

		tx.RecordedAt = s.clock.Now()
		if err := st.Transactions().Create(ctx, tx); err != nil {
			return err
		}

		_, err := appendAudit(ctx, st, s.clock, models.AuditActionAddTransaction, describeTransaction("Added", tx), tx.CreatedBy)
		return err
	})
	if err != nil {
		logFailure(s.logger, "failed to record transaction", err,
			"period", key.ID(),
			"amount", tx.Amount.String(),
		)
		return nil, errors.NewStorageError("record transaction", err)
	}

	s.logger.Info("transaction recorded",
		"transaction_id", tx.ID,
		"type", tx.Direction,
		"category", tx.Category,
		"amount", tx.Amount.String(),
		"flat_id", tx.UnitRef,
	)
	return tx, nil
}

// VoidTransaction marks a transaction voided. The record stays in the log.
func (s *TransactionServiceImpl) VoidTransaction(ctx context.Context, id, actor string) (*models.Transaction, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, errors.NewValidationError("user", "must be non-empty")
	}

	original, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		logFailure(s.logger, "failed to get transaction", err, "transaction_id", id)
		return nil, errors.NewStorageError("get transaction", err)
	}

	key := s.periodOf(original.OccurredAt)
	unlock := s.locks.Lock(key)
	defer unlock()

	var voided *models.Transaction
	err = s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		tx, err := s.voidLocked(ctx, st, id, actor)
		if err != nil {
			return err
		}

		_, err = appendAudit(ctx, st, s.clock, models.AuditActionDeleteTransaction, describeTransaction("Voided", tx), actor)
		voided = tx
		return err
	})
	if err != nil {
		logFailure(s.logger, "failed to void transaction", err,
			"transaction_id", id,
			"user", actor,
		)
		return nil, errors.NewStorageError("void transaction", err)
	}

	s.logger.Info("transaction voided",
		"transaction_id", id,
		"user", actor,
	)
	return voided, nil
}

// CorrectTransaction voids the original and appends its replacement. Fields left
// empty in the request keep the original's values.
func (s *TransactionServiceImpl) CorrectTransaction(ctx context.Context, id string, req *models.CorrectTransactionRequest) (*models.Transaction, error) {
	actor := strings.TrimSpace(req.CreatedBy)
	if actor == "" {
		return nil, errors.NewValidationError("createdBy", "must be non-empty")
	}

	original, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		logFailure(s.logger, "failed to get transaction", err, "transaction_id", id)
		return nil, errors.NewStorageError("get transaction", err)
	}

	merged := mergeCorrection(original, &req.RecordTransactionRequest)
	replacement, err := s.newTransaction(merged)
	if err != nil {
		s.logger.Warn("invalid correction request",
			"transaction_id", id,
			"error", err.Error(),
		)
		return nil, err
	}
	if merged.Date == "" {
		replacement.OccurredAt = original.OccurredAt
	}

	oldKey := s.periodOf(original.OccurredAt)
	newKey := s.periodOf(replacement.OccurredAt)
	unlock := s.locks.Lock(oldKey, newKey)
	defer unlock()

	err = s.store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		old, err := s.voidLocked(ctx, st, id, actor)
		if err != nil {
			return err
		}
		if newKey != oldKey {
			if err := s.ensureWithinLedger(ctx, st, newKey); err != nil {
				return err
			}
			if err := ensureUnlocked(ctx, st, newKey); err != nil {
				return err
			}
		}

		replacement.RecordedAt = s.clock.Now()
		if err := st.Transactions().Create(ctx, replacement); err != nil {
			return err
		}

		details := fmt.Sprintf("Corrected transaction %s as %s: %s", old.ID, replacement.ID, describeChanges(old, replacement))
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			details += "; reason: " + reason
		}
		_, err = appendAudit(ctx, st, s.clock, models.AuditActionEditTransaction, details, actor)
		return err
	})
	if err != nil {
		logFailure(s.logger, "failed to correct transaction", err,
			"transaction_id", id,
			"user", actor,
		)
		return nil, errors.NewStorageError("correct transaction", err)
	}

	s.logger.Info("transaction corrected",
		"transaction_id", id,
		"replacement_id", replacement.ID,
		"user", actor,
	)
	return replacement, nil
}

func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("failed to get transaction",
				"transaction_id", id,
				"error", err.Error(),
			)
		}
		return nil, errors.NewStorageError("get transaction", err)
	}
	return tx, nil
}

// ListTransactions returns a lazy sequence, newest first. Voided records are included.
func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, filter repository.TransactionFilter) iter.Seq2[models.Transaction, error] {
	return storageSeq("list transactions", s.store.Transactions().List(ctx, filter))
}

// voidLocked re-reads the transaction inside the unit of work so a concurrent void is
// seen, then marks it. The caller holds the period lock.
func (s *TransactionServiceImpl) voidLocked(ctx context.Context, st repository.Store, id, actor string) (*models.Transaction, error) {
	tx, err := st.Transactions().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Voided {
		return nil, errors.ErrAlreadyVoided
	}
	if err := ensureUnlocked(ctx, st, s.periodOf(tx.OccurredAt)); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := st.Transactions().MarkVoided(ctx, id, now, actor); err != nil {
		return nil, err
	}
	tx.Voided = true
	tx.VoidedAt = &now
	tx.VoidedBy = actor
	return tx, nil
}

func (s *TransactionServiceImpl) newTransaction(req *models.RecordTransactionRequest) (*models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.NewValidationError("amount", "must be greater than zero")
	}
	if req.Amount > money.MaxAmount {
		return nil, errors.NewValidationError("amount", "must not exceed "+money.MaxAmount.String())
	}
	if !req.Type.Valid() {
		return nil, errors.NewValidationError("type", "must be CREDIT or DEBIT")
	}
	if !req.Category.Valid() {
		return nil, errors.NewValidationError("category", "unknown category "+string(req.Category))
	}
	createdBy := strings.TrimSpace(req.CreatedBy)
	if createdBy == "" {
		return nil, errors.NewValidationError("createdBy", "must be non-empty")
	}

	occurredAt, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	return &models.Transaction{
		ID:          uuid.New().String(),
		OccurredAt:  occurredAt,
		Amount:      req.Amount,
		Direction:   req.Type,
		Category:    req.Category,
		UnitRef:     strings.TrimSpace(string(req.FlatID)),
		Description: strings.TrimSpace(req.Description),
		ProofRef:    strings.TrimSpace(req.ProofURL),
		CreatedBy:   createdBy,
	}, nil
}

// parseDate accepts "", a calendar date taken as midnight in the ledger timezone, or
// an RFC 3339 timestamp.
func (s *TransactionServiceImpl) parseDate(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.clock.Now().UTC(), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, date, s.loc); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.UTC().Truncate(time.Microsecond), nil
	}
	return time.Time{}, errors.NewValidationError("date", "must be YYYY-MM-DD or an RFC 3339 timestamp")
}

func (s *TransactionServiceImpl) periodOf(t time.Time) models.PeriodKey {
	return models.PeriodKeyOf(t.In(s.loc))
}

// ensureWithinLedger refuses months before a seeded start, which no period covers.
func (s *TransactionServiceImpl) ensureWithinLedger(ctx context.Context, st repository.Store, key models.PeriodKey) error {
	start, err := ledgerStart(ctx, st)
	if err != nil {
		return err
	}
	if start != nil && key.Before(start.Key) {
		return errors.NewValidationError("date", "before the ledger start, "+start.Key.String())
	}
	return nil
}

// ensureUnlocked fails when key names a locked period. A month with no period yet is
// open.
func ensureUnlocked(ctx context.Context, st repository.Store, key models.PeriodKey) error {
	period, err := st.Periods().GetForUpdate(ctx, key)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if period.Locked {
		return errors.NewPeriodLockedError(key.String())
	}
	return nil
}

func mergeCorrection(original *models.Transaction, req *models.RecordTransactionRequest) *models.RecordTransactionRequest {
	merged := *req
	if merged.Amount == 0 {
		merged.Amount = original.Amount
	}
	if merged.Type == "" {
		merged.Type = original.Direction
	}
	if merged.Category == "" {
		merged.Category = original.Category
	}
	if merged.FlatID == "" {
		merged.FlatID = models.UnitRef(original.UnitRef)
	}
	if merged.Description == "" {
		merged.Description = original.Description
	}
	if merged.ProofURL == "" {
		merged.ProofURL = original.ProofRef
	}
	return &merged
}

func describeTransaction(verb string, tx *models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s of ₹%s (%s)", verb, tx.Direction, tx.Amount, tx.Category)
	if tx.UnitRef != "" {
		fmt.Fprintf(&b, " for flat %s", tx.UnitRef)
	}
	if tx.Description != "" {
		fmt.Fprintf(&b, ": %s", tx.Description)
	}
	fmt.Fprintf(&b, " [%s]", tx.ID)
	return b.String()
}

func describeChanges(old, replacement *models.Transaction) string {
	var changes []string
	if old.Amount != replacement.Amount {
		changes = append(changes, fmt.Sprintf("amount ₹%s -> ₹%s", old.Amount, replacement.Amount))
	}
	if old.Direction != replacement.Direction {
		changes = append(changes, fmt.Sprintf("type %s -> %s", old.Direction, replacement.Direction))
	}
	if old.Category != replacement.Category {
		changes = append(changes, fmt.Sprintf("category %s -> %s", old.Category, replacement.Category))
	}
	if old.UnitRef != replacement.UnitRef {
		changes = append(changes, fmt.Sprintf("flat %q -> %q", old.UnitRef, replacement.UnitRef))
	}
	if !old.OccurredAt.Equal(replacement.OccurredAt) {
		changes = append(changes, fmt.Sprintf("date %s -> %s", old.OccurredAt.Format(time.DateOnly), replacement.OccurredAt.Format(time.DateOnly)))
	}
	if old.Description != replacement.Description {
		changes = append(changes, "description")
	}
	if old.ProofRef != replacement.ProofRef {
		changes = append(changes, "proof")
	}
	if len(changes) == 0 {
		return "no field changes"
	}
	return strings.Join(changes, ", ")
}

// storageSeq wraps infrastructure errors from a repository sequence.
func storageSeq[T any](op string, seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for item, err := range seq {
			if err != nil {
				var zero T
				yield(zero, errors.NewStorageError(op, err))
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}
