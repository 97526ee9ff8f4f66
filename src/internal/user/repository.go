package user

import (
	"context"

	"activity-tracking-svc/src/clients"
	"activity-tracking-svc/src/internal/config"
	"activity-tracking-svc/src/internal/eventbus"
	"activity-tracking-svc/src/internal/query"
	"activity-tracking-svc/src/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

type Repository interface {
	Create(ctx context.Context, item *User) (*User, error)
	Find(ctx context.Context, q *query.Query) ([]User, error)
	FindOne(ctx context.Context, q *query.Query) (*User, error)
	Update(ctx context.Context, item *User) (*User, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, q *query.Query) (int64, error)
	CheckExist(ctx context.Context, item *User) (bool, error)
	GetByEmail(ctx context.Context, email string, q *query.Query) (*User, error)
}

type userRepository struct {
	*repository.Base[User, Entity]
	bus eventbus.Publisher
	cfg *config.RabbitMQConfig
}

func NewRepository(mongodb *clients.MongoDB, collectionName string, bus eventbus.Publisher, cfg *config.Configuration) Repository {
	collection := mongodb.Database.Collection(collectionName)
	return &userRepository{
		Base: repository.NewBase[User, Entity](collection, entityMapper{}),
		bus:  bus,
		cfg:  &cfg.Queue.RabbitMQ,
	}
}

// Create persists the user and publishes a user-saved integration event.
// A failed publish never fails the create.
func (r *userRepository) Create(ctx context.Context, item *User) (*User, error) {
	created, err := r.Base.Create(ctx, item)
	if err != nil {
		return nil, err
	}

	logrus.WithField("user_id", created.ID).Info("Publishing user on message bus...")
	if err := r.bus.Publish(NewSaveEvent(created), r.cfg.UserSaveKey); err != nil {
		logrus.WithError(err).Warn("Failed to publish user saved event")
	}

	return created, nil
}

// GetByEmail retrieves the user registered under the email, or nil.
func (r *userRepository) GetByEmail(ctx context.Context, email string, q *query.Query) (*User, error) {
	q.Filters = bson.M{"email": email}
	return r.FindOne(ctx, q)
}

// CheckExist reports whether a user with the item's email is already
// registered. What differs one user from another is the email.
func (r *userRepository) CheckExist(ctx context.Context, item *User) (bool, error) {
	found, err := r.GetByEmail(ctx, item.Email, query.New())
	if err != nil {
		return false, err
	}
	return found != nil, nil
}
