// Package mongostore stores the ledger in MongoDB. Units of work use multi-document
// transactions, so the deployment must be a replica set (a single-node replica set
// is enough). Period row locks are emulated by a write to the period document.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/riteshkumar/building-ledger/internal/repository"
)

const (
	transactionsCollection = "transactions"
	auditCollection        = "audit_entries"
	periodsCollection      = "monthly_periods"
	unitsCollection        = "units"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	inTx   bool
}

var _ repository.Store = (*Store)(nil)

// Connect creates a new database connection
func Connect(ctx context.Context, uri, dbName string, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	logger.Info("connected to MongoDB", "database", dbName)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(transactionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "occurredAt", Value: -1}, {Key: "recordedAtMicros", Value: -1}}},
		{Keys: bson.D{{Key: "unitRef", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}

	_, err = s.db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestampMicros", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}
	return nil
}

func (s *Store) Transactions() repository.TransactionRepository {
	return &transactionRepo{coll: s.db.Collection(transactionsCollection)}
}

func (s *Store) Audit() repository.AuditRepository {
	return &auditRepo{coll: s.db.Collection(auditCollection)}
}

func (s *Store) Periods() repository.PeriodRepository {
	return &periodRepo{coll: s.db.Collection(periodsCollection), inTx: s.inTx}
}

func (s *Store) Units() repository.UnitRepository {
	return &unitRepo{coll: s.db.Collection(unitsCollection)}
}

// WithTx runs fn inside a session transaction. The driver may call fn again on a
// transient transaction error, so fn must not have effects outside the store.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	if s.inTx || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txStore := &Store{client: s.client, db: s.db, inTx: true}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, txStore)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close closes the database connection
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
