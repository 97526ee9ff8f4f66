package user

import (
	"context"

	"activity-tracking-svc/src/internal/models"
	"activity-tracking-svc/src/internal/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

type Service interface {
	Add(ctx context.Context, item *User) (*User, error)
	GetAll(ctx context.Context, q *query.Query) ([]User, error)
	GetByID(ctx context.Context, id string, q *query.Query) (*User, error)
	Update(ctx context.Context, item *User) (*User, error)
	Remove(ctx context.Context, id string) (bool, error)
}

type userService struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return &userService{repository: repository}
}

// Add validates the user, checks for an existing registration under the
// same email, then persists. Repository errors propagate unchanged. The
// duplicate check completes before the write is issued; the unique index on
// email is the real guard when two creates race.
func (s *userService) Add(ctx context.Context, item *User) (*User, error) {
	if err := Validate(item); err != nil {
		return nil, err
	}

	exists, err := s.repository.CheckExist(ctx, item)
	if err != nil {
		return nil, err
	}
	if exists {
		logrus.WithField("email", item.Email).Debug("User already registered")
		return nil, models.NewConflictError("User already has an account...")
	}

	return s.repository.Create(ctx, item)
}

func (s *userService) GetAll(ctx context.Context, q *query.Query) ([]User, error) {
	return s.repository.Find(ctx, q)
}

func (s *userService) GetByID(ctx context.Context, id string, q *query.Query) (*User, error) {
	q.Filters = bson.M{"_id": id}
	return s.repository.FindOne(ctx, q)
}

func (s *userService) Update(ctx context.Context, item *User) (*User, error) {
	return s.repository.Update(ctx, item)
}

func (s *userService) Remove(ctx context.Context, id string) (bool, error) {
	return s.repository.Delete(ctx, id)
}
