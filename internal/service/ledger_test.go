package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
	"github.com/riteshkumar/building-ledger/internal/repository/memstore"
	"github.com/riteshkumar/building-ledger/internal/service"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// now is the fixed wall clock of every test ledger: 10 February 2026, 10:00 IST.
var now = time.Date(2026, time.February, 10, 10, 0, 0, 0, ist)

type testLedger struct {
	store        repository.Store
	transactions *service.TransactionServiceImpl
	balances     *service.BalanceServiceImpl
	audit        *service.AuditServiceImpl
	periods      *service.PeriodServiceImpl
	units        *service.UnitServiceImpl
	dues         *service.DuesServiceImpl
}

type ledgerOption func(*ledgerConfig)

type ledgerConfig struct {
	store     repository.Store
	bootstrap money.Amount
	schedule  service.DuesSchedule
}

func withStore(st repository.Store) ledgerOption {
	return func(c *ledgerConfig) { c.store = st }
}

func withBootstrap(a money.Amount) ledgerOption {
	return func(c *ledgerConfig) { c.bootstrap = a }
}

func withDues(schedule service.DuesSchedule) ledgerOption {
	return func(c *ledgerConfig) { c.schedule = schedule }
}

func newTestLedger(t *testing.T, opts ...ledgerOption) *testLedger {
	t.Helper()

	cfg := ledgerConfig{store: memstore.New()}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMonotonic(func() time.Time { return now })
	locks := service.NewPeriodLocks()

	balances := service.NewBalanceService(cfg.store, logger)
	dues := service.NewDuesService(cfg.store, cfg.schedule, ist, logger)
	return &testLedger{
		store:        cfg.store,
		transactions: service.NewTransactionService(cfg.store, clk, locks, ist, logger),
		balances:     balances,
		audit:        service.NewAuditService(cfg.store, clk, logger),
		periods:      service.NewPeriodService(cfg.store, clk, locks, ist, cfg.bootstrap, logger),
		units:        service.NewUnitService(cfg.store, clk, balances, dues, ist, logger),
		dues:         dues,
	}
}

func (l *testLedger) record(t *testing.T, direction models.Direction, amount int64, category models.Category, flat, date string) *models.Transaction {
	t.Helper()
	tx, err := l.transactions.RecordTransaction(context.Background(), &models.RecordTransactionRequest{
		Date:      date,
		Amount:    money.FromMajor(amount),
		Type:      direction,
		Category:  category,
		FlatID:    models.UnitRef(flat),
		CreatedBy: "admin",
	})
	require.NoError(t, err)
	return tx
}

func (l *testLedger) auditEntries(t *testing.T, filter repository.AuditFilter) []models.AuditEntry {
	t.Helper()
	entries, err := repository.Collect(l.audit.ListAuditEntries(context.Background(), filter))
	require.NoError(t, err)
	return entries
}

func period(month time.Month, year int) models.PeriodKey {
	return models.PeriodKey{Year: year, Month: month}
}

// failingStore fails every transaction insert with err, inside and outside units of
// work.
type failingStore struct {
	repository.Store
	err error
}

func (f *failingStore) Transactions() repository.TransactionRepository {
	return failingTransactions{TransactionRepository: f.Store.Transactions(), err: f.err}
}

func (f *failingStore) WithTx(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	return f.Store.WithTx(ctx, func(ctx context.Context, st repository.Store) error {
		return fn(ctx, &failingStore{Store: st, err: f.err})
	})
}

type failingTransactions struct {
	repository.TransactionRepository
	err error
}

func (r failingTransactions) Create(context.Context, *models.Transaction) error {
	return r.err
}
