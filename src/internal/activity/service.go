package activity

import (
	"context"

	"activity-tracking-svc/src/internal/models"
	"activity-tracking-svc/src/internal/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

type Service interface {
	Add(ctx context.Context, item *Activity) (*Activity, error)
	GetAll(ctx context.Context, q *query.Query) ([]Activity, error)
	GetByID(ctx context.Context, id string, q *query.Query) (*Activity, error)
	Update(ctx context.Context, item *Activity) (*Activity, error)
	Remove(ctx context.Context, id string) (bool, error)
}

type activityService struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return &activityService{repository: repository}
}

// Add validates the activity, checks for an existing registration for the
// same user and start time, then persists. The duplicate check completes
// before the write; the compound unique index is the real guard when two
// creates race.
func (s *activityService) Add(ctx context.Context, item *Activity) (*Activity, error) {
	if err := Validate(item); err != nil {
		return nil, err
	}

	exists, err := s.repository.CheckExist(ctx, item)
	if err != nil {
		return nil, err
	}
	if exists {
		logrus.WithField("start_time", item.StartTime).Debug("Activity already registered")
		return nil, models.NewConflictError("Activity is already registered...")
	}

	return s.repository.Create(ctx, item)
}

func (s *activityService) GetAll(ctx context.Context, q *query.Query) ([]Activity, error) {
	return s.repository.Find(ctx, q)
}

func (s *activityService) GetByID(ctx context.Context, id string, q *query.Query) (*Activity, error) {
	q.Filters = bson.M{"_id": id}
	return s.repository.FindOne(ctx, q)
}

func (s *activityService) Update(ctx context.Context, item *Activity) (*Activity, error) {
	return s.repository.Update(ctx, item)
}

func (s *activityService) Remove(ctx context.Context, id string) (bool, error) {
	return s.repository.Delete(ctx, id)
}
