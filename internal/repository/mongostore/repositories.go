package mongostore

import (
	"context"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

type transactionRepo struct {
	coll *mongo.Collection
}

func (r *transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	if _, err := r.coll.InsertOne(ctx, newTransactionDoc(tx)); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var doc transactionDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	tx := doc.model()
	return &tx, nil
}

func (r *transactionRepo) MarkVoided(ctx context.Context, id string, voidedAt time.Time, voidedBy string) error {
	filter := bson.M{"_id": id, "voided": false}
	update := bson.M{"$set": bson.M{"voided": true, "voidedAt": voidedAt, "voidedBy": voidedBy}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to void transaction: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return errors.ErrAlreadyVoided
}

func (r *transactionRepo) List(ctx context.Context, filter repository.TransactionFilter) iter.Seq2[models.Transaction, error] {
	query := bson.M{}
	if filter.UnitRef != "" {
		query["unitRef"] = filter.UnitRef
	}
	if filter.Direction != "" {
		query["direction"] = string(filter.Direction)
	}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if dates := dateRange(filter.From, filter.To); dates != nil {
		query["occurredAt"] = dates
	}
	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: -1}, {Key: "recordedAtMicros", Value: -1}})

	return func(yield func(models.Transaction, error) bool) {
		cursor, err := r.coll.Find(ctx, query, opts)
		if err != nil {
			yield(models.Transaction{}, fmt.Errorf("failed to fetch transactions: %w", err))
			return
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var doc transactionDoc
			if err := cursor.Decode(&doc); err != nil {
				yield(models.Transaction{}, fmt.Errorf("failed to decode transaction: %w", err))
				return
			}
			if !yield(doc.model(), nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(models.Transaction{}, fmt.Errorf("error iterating over transactions: %w", err))
		}
	}
}

type auditRepo struct {
	coll *mongo.Collection
}

func (r *auditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	doc := auditDoc{
		ID:              entry.ID,
		Action:          string(entry.Action),
		Details:         entry.Details,
		Actor:           entry.Actor,
		TimestampMicros: entry.Timestamp.UnixMicro(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *auditRepo) List(ctx context.Context, filter repository.AuditFilter) iter.Seq2[models.AuditEntry, error] {
	query := bson.M{}
	if filter.Action != "" {
		query["action"] = string(filter.Action)
	}
	if filter.Actor != "" {
		query["actor"] = filter.Actor
	}
	ts := bson.M{}
	if !filter.From.IsZero() {
		ts["$gte"] = filter.From.UnixMicro()
	}
	if !filter.To.IsZero() {
		ts["$lt"] = filter.To.UnixMicro()
	}
	if len(ts) > 0 {
		query["timestampMicros"] = ts
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestampMicros", Value: -1}})

	return func(yield func(models.AuditEntry, error) bool) {
		cursor, err := r.coll.Find(ctx, query, opts)
		if err != nil {
			yield(models.AuditEntry{}, fmt.Errorf("failed to fetch audit entries: %w", err))
			return
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var doc auditDoc
			if err := cursor.Decode(&doc); err != nil {
				yield(models.AuditEntry{}, fmt.Errorf("failed to decode audit entry: %w", err))
				return
			}
			if !yield(doc.model(), nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(models.AuditEntry{}, fmt.Errorf("error iterating over audit entries: %w", err))
		}
	}
}

type periodRepo struct {
	coll *mongo.Collection
	inTx bool
}

func (r *periodRepo) Create(ctx context.Context, p *models.MonthlyPeriod) error {
	if _, err := r.coll.InsertOne(ctx, newPeriodDoc(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrPeriodAlreadyExists
		}
		return fmt.Errorf("failed to insert period: %w", err)
	}
	return nil
}

func (r *periodRepo) Get(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	return r.findOne(ctx, bson.M{"_id": key.ID()}, nil)
}

// GetForUpdate bumps the document's lockVersion inside a unit of work. MongoDB has
// no read locks, so the write is what makes a concurrent unit of work touching the
// same period fail with a write conflict and retry. Outside one it is a plain read.
func (r *periodRepo) GetForUpdate(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	if !r.inTx {
		return r.Get(ctx, key)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc periodDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": key.ID()}, bson.M{"$inc": bson.M{"lockVersion": 1}}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to lock period: %w", err)
	}
	return doc.model(), nil
}

func (r *periodRepo) Update(ctx context.Context, p *models.MonthlyPeriod) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.Key.ID()}, newPeriodDoc(p))
	if err != nil {
		return fmt.Errorf("failed to update period: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.ErrPeriodNotFound
	}
	return nil
}

func (r *periodRepo) First(ctx context.Context) (*models.MonthlyPeriod, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{}, opts)
}

func (r *periodRepo) List(ctx context.Context) ([]*models.MonthlyPeriod, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch periods: %w", err)
	}
	defer cursor.Close(ctx)

	var periods []*models.MonthlyPeriod
	for cursor.Next(ctx) {
		var doc periodDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode period: %w", err)
		}
		periods = append(periods, doc.model())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over periods: %w", err)
	}
	return periods, nil
}

func (r *periodRepo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.MonthlyPeriod, error) {
	var doc periodDoc
	var err error
	if opts != nil {
		err = r.coll.FindOne(ctx, filter, opts).Decode(&doc)
	} else {
		err = r.coll.FindOne(ctx, filter).Decode(&doc)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to find period: %w", err)
	}
	return doc.model(), nil
}

type unitRepo struct {
	coll *mongo.Collection
}

func newUnitDoc(u *models.Unit) unitDoc {
	return unitDoc{
		ID:         u.ID,
		FloorLabel: u.FloorLabel,
		OwnerName:  u.OwnerName,
		OwnerPhone: u.OwnerPhone,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (r *unitRepo) Create(ctx context.Context, unit *models.Unit) error {
	if _, err := r.coll.InsertOne(ctx, newUnitDoc(unit)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ErrUnitAlreadyExists
		}
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	return nil
}

func (r *unitRepo) Get(ctx context.Context, id string) (*models.Unit, error) {
	var doc unitDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to find unit: %w", err)
	}
	return doc.model(), nil
}

func (r *unitRepo) Update(ctx context.Context, unit *models.Unit) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": unit.ID}, newUnitDoc(unit))
	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.ErrUnitNotFound
	}
	return nil
}

func (r *unitRepo) List(ctx context.Context) ([]*models.Unit, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []*models.Unit
	for cursor.Next(ctx) {
		var doc unitDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode unit: %w", err)
		}
		units = append(units, doc.model())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over units: %w", err)
	}
	return units, nil
}

func dateRange(from, to time.Time) bson.M {
	r := bson.M{}
	if !from.IsZero() {
		r["$gte"] = from
	}
	if !to.IsZero() {
		r["$lt"] = to
	}
	if len(r) == 0 {
		return nil
	}
	return r
}
