package activity

import (
	"context"

	"activity-tracking-svc/src/clients"
	"activity-tracking-svc/src/internal/query"
	"activity-tracking-svc/src/internal/repository"
	"activity-tracking-svc/src/internal/user"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

type Repository interface {
	Create(ctx context.Context, item *Activity) (*Activity, error)
	Find(ctx context.Context, q *query.Query) ([]Activity, error)
	FindOne(ctx context.Context, q *query.Query) (*Activity, error)
	Update(ctx context.Context, item *Activity) (*Activity, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
	CheckExist(ctx context.Context, item *Activity) (bool, error)
}

type activityRepository struct {
	*repository.Base[Activity, Entity]
	users user.Repository
}

func NewRepository(mongodb *clients.MongoDB, collectionName string, users user.Repository) Repository {
	collection := mongodb.Database.Collection(collectionName)
	return &activityRepository{
		Base:  repository.NewBase[Activity, Entity](collection, entityMapper{}),
		users: users,
	}
}

// Create persists the activity and resolves the owning user's data into the
// returned record.
func (r *activityRepository) Create(ctx context.Context, item *Activity) (*Activity, error) {
	created, err := r.Base.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	return r.populate(ctx, created), nil
}

func (r *activityRepository) Find(ctx context.Context, q *query.Query) ([]Activity, error) {
	items, err := r.Base.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range items {
		r.populate(ctx, &items[i])
	}
	return items, nil
}

func (r *activityRepository) FindOne(ctx context.Context, q *query.Query) (*Activity, error) {
	item, err := r.Base.FindOne(ctx, q)
	if err != nil || item == nil {
		return item, err
	}
	return r.populate(ctx, item), nil
}

func (r *activityRepository) Update(ctx context.Context, item *Activity) (*Activity, error) {
	updated, err := r.Base.Update(ctx, item)
	if err != nil || updated == nil {
		return updated, err
	}
	return r.populate(ctx, updated), nil
}

// CheckExist reports whether an activity for the same user and start time is
// already registered. What differs one activity from another is its start
// time and associated user.
func (r *activityRepository) CheckExist(ctx context.Context, item *Activity) (bool, error) {
	q := query.New()
	if item.StartTime != nil && item.User != nil {
		q.Filters = bson.M{"start_time": *item.StartTime, "user": item.User.ID}
	}

	found, err := r.Base.FindOne(ctx, q)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

// populate swaps the bare user reference for the owner's stored record.
// Resolution failures leave the reference in place.
func (r *activityRepository) populate(ctx context.Context, item *Activity) *Activity {
	if item == nil || item.User == nil || item.User.ID == "" {
		return item
	}

	q := query.New()
	q.Filters = bson.M{"_id": item.User.ID}
	owner, err := r.users.FindOne(ctx, q)
	if err != nil || owner == nil {
		logrus.WithField("user_id", item.User.ID).Debug("Failed to resolve activity owner")
		return item
	}

	item.User = owner
	return item
}
