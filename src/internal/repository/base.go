package repository

import (
	"context"
	"errors"
	"time"

	"activity-tracking-svc/src/internal/models"
	"activity-tracking-svc/src/internal/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mapper converts between a domain model T and its storage record E.
// ToEntity fails with a validation error when the model carries a malformed
// identifier.
type Mapper[T any, E any] interface {
	ToEntity(item *T) (*E, error)
	ToModel(entity *E) *T
}

// Base issues CRUD operations for one collection. Entity-specific
// repositories embed it and add their own lookups on top.
type Base[T any, E any] struct {
	Collection *mongo.Collection
	Mapper     Mapper[T, E]
}

func NewBase[T any, E any](collection *mongo.Collection, mapper Mapper[T, E]) *Base[T, E] {
	return &Base[T, E]{
		Collection: collection,
		Mapper:     mapper,
	}
}

// Create inserts the mapped record and reads it back so the caller receives
// the store-assigned id and created_at. Unset optional fields are omitted
// from the record, so partial models never write empty values.
func (b *Base[T, E]) Create(ctx context.Context, item *T) (*T, error) {
	entity, err := b.Mapper.ToEntity(item)
	if err != nil {
		return nil, err
	}

	document, err := toDocument(entity)
	if err != nil {
		return nil, WrapError(err)
	}
	if _, ok := document["created_at"]; !ok {
		document["created_at"] = time.Now().UTC().Truncate(time.Second)
	}

	result, err := b.Collection.InsertOne(ctx, document)
	if err != nil {
		return nil, WrapError(err)
	}

	var stored E
	if err := b.Collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&stored); err != nil {
		return nil, WrapError(err)
	}

	return b.Mapper.ToModel(&stored), nil
}

// Find translates the query into filter/projection/sort/skip/limit and maps
// every matching record.
func (b *Base[T, E]) Find(ctx context.Context, q *query.Query) ([]T, error) {
	filters, err := NormalizeFilters(q.Filters)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(q.Skip()).
		SetLimit(q.Limit())
	if len(q.Fields) > 0 {
		opts.SetProjection(q.Projection())
	}
	if len(q.Ordination) > 0 {
		opts.SetSort(q.Sort())
	}

	cursor, err := b.Collection.Find(ctx, filters, opts)
	if err != nil {
		return nil, WrapError(err)
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var entity E
		if err := cursor.Decode(&entity); err != nil {
			logrus.WithError(err).Error("Failed to decode record")
			continue
		}
		items = append(items, *b.Mapper.ToModel(&entity))
	}

	if err := cursor.Err(); err != nil {
		return nil, WrapError(err)
	}

	return items, nil
}

// FindOne returns the single matching record, or nil when nothing matches.
// Absence is not an error.
func (b *Base[T, E]) FindOne(ctx context.Context, q *query.Query) (*T, error) {
	filters, err := NormalizeFilters(q.Filters)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne()
	if len(q.Fields) > 0 {
		opts.SetProjection(q.Projection())
	}

	var entity E
	err = b.Collection.FindOne(ctx, filters, opts).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(err)
	}

	return b.Mapper.ToModel(&entity), nil
}

// Update replaces the stored record's fields with the mapped record's set
// fields. Returns nil when no record has the item's id.
func (b *Base[T, E]) Update(ctx context.Context, item *T) (*T, error) {
	entity, err := b.Mapper.ToEntity(item)
	if err != nil {
		return nil, err
	}

	document, err := toDocument(entity)
	if err != nil {
		return nil, WrapError(err)
	}

	id, ok := document["_id"]
	if !ok {
		return nil, models.NewValidationError(invalidIDMessage, invalidIDDescription)
	}
	delete(document, "_id")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated E
	err = b.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": document}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(err)
	}

	return b.Mapper.ToModel(&updated), nil
}

// Delete removes the record with the given id. False means no record
// matched.
func (b *Base[T, E]) Delete(ctx context.Context, id string) (bool, error) {
	objectID, err := ParseID(id)
	if err != nil {
		return false, err
	}

	result, err := b.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return false, WrapError(err)
	}

	return result.DeletedCount > 0, nil
}

// Count returns the number of records matching the query's filters.
func (b *Base[T, E]) Count(ctx context.Context, q *query.Query) (int64, error) {
	filters, err := NormalizeFilters(q.Filters)
	if err != nil {
		return 0, err
	}

	count, err := b.Collection.CountDocuments(ctx, filters)
	if err != nil {
		return 0, WrapError(err)
	}

	return count, nil
}

func toDocument(entity any) (bson.M, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, err
	}
	document := bson.M{}
	if err := bson.Unmarshal(raw, &document); err != nil {
		return nil, err
	}
	return document, nil
}
