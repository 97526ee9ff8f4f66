package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"activity-tracking-svc/src/internal/repository"
)

// User is the domain record. The identifier is assigned by the store and
// absent until the user is persisted.
type User struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Entity is the storage record for a user. Optional fields carry omitempty
// so partial models never overwrite stored values with empties.
type Entity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name,omitempty"`
	Email     string             `bson:"email,omitempty"`
	CreatedAt time.Time          `bson:"created_at,omitempty"`
}

type entityMapper struct{}

func (entityMapper) ToEntity(item *User) (*Entity, error) {
	entity := &Entity{
		Name:  item.Name,
		Email: item.Email,
	}
	if item.ID != "" {
		id, err := repository.ParseID(item.ID)
		if err != nil {
			return nil, err
		}
		entity.ID = id
	}
	if item.CreatedAt != nil {
		entity.CreatedAt = *item.CreatedAt
	}
	return entity, nil
}

func (entityMapper) ToModel(entity *Entity) *User {
	item := &User{
		Name:  entity.Name,
		Email: entity.Email,
	}
	if !entity.ID.IsZero() {
		item.ID = entity.ID.Hex()
	}
	if !entity.CreatedAt.IsZero() {
		createdAt := entity.CreatedAt
		item.CreatedAt = &createdAt
	}
	return item
}
