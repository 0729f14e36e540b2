// Package memstore is an in-process Store, optionally persisted to a JSON file after
// every committed unit of work. It suits a single building on a single server.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

type state struct {
	Transactions []models.Transaction            `json:"transactions"`
	Audit        []models.AuditEntry             `json:"audit"`
	Periods      map[string]models.MonthlyPeriod `json:"periods"`
	Units        map[string]models.Unit          `json:"units"`
}

func newState() *state {
	return &state{
		Periods: make(map[string]models.MonthlyPeriod),
		Units:   make(map[string]models.Unit),
	}
}

func (s *state) clone() *state {
	c := &state{
		Transactions: make([]models.Transaction, len(s.Transactions)),
		Audit:        make([]models.AuditEntry, len(s.Audit)),
		Periods:      make(map[string]models.MonthlyPeriod, len(s.Periods)),
		Units:        make(map[string]models.Unit, len(s.Units)),
	}
	copy(c.Transactions, s.Transactions)
	copy(c.Audit, s.Audit)
	for k, v := range s.Periods {
		c.Periods[k] = v
	}
	for k, v := range s.Units {
		c.Units[k] = v
	}
	return c
}

type root struct {
	// txMu makes units of work single-writer; mu guards swapping the committed state.
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *state
	path  string
}

// Store implements repository.Store. Inside WithTx, work points at the private copy
// being built; outside it is nil and reads go to the committed state.
type Store struct {
	root *root
	work *state
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store that lives only in memory.
func New() *Store {
	return &Store{root: &root{state: newState()}}
}

// Open loads the store from path, creating an empty one when the file does not exist
// yet. Every commit rewrites the file.
func Open(path string) (*Store, error) {
	st := newState()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, st); err != nil {
			return nil, fmt.Errorf("failed to decode data file %s: %w", path, err)
		}
		if st.Periods == nil {
			st.Periods = make(map[string]models.MonthlyPeriod)
		}
		if st.Units == nil {
			st.Units = make(map[string]models.Unit)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	return &Store{root: &root{state: st, path: path}}, nil
}

func (s *Store) Transactions() repository.TransactionRepository {
	return &transactionRepo{store: s}
}

func (s *Store) Audit() repository.AuditRepository {
	return &auditRepo{store: s}
}

func (s *Store) Periods() repository.PeriodRepository {
	return &periodRepo{store: s}
}

func (s *Store) Units() repository.UnitRepository {
	return &unitRepo{store: s}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	if s.work != nil {
		return fn(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.root.txMu.Lock()
	defer s.root.txMu.Unlock()

	s.root.mu.RLock()
	work := s.root.state.clone()
	s.root.mu.RUnlock()

	if err := fn(ctx, &Store{root: s.root, work: work}); err != nil {
		return err
	}

	if err := s.root.persist(work); err != nil {
		return err
	}

	s.root.mu.Lock()
	s.root.state = work
	s.root.mu.Unlock()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

// read runs fn against the state visible to this store handle.
func (s *Store) read(fn func(st *state)) {
	if s.work != nil {
		fn(s.work)
		return
	}
	s.root.mu.RLock()
	defer s.root.mu.RUnlock()
	fn(s.root.state)
}

// write runs fn inside the current unit of work, opening one if needed.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if s.work != nil {
		return fn(s.work)
	}
	return s.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return fn(tx.(*Store).work)
	})
}

func (r *root) persist(st *state) error {
	if r.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
