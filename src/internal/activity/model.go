package activity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"activity-tracking-svc/src/internal/repository"
	"activity-tracking-svc/src/internal/user"
)

// Activity is one tracked physical activity owned by a user. Identity and
// created_at are assigned by the store.
type Activity struct {
	ID                   string     `json:"id,omitempty"`
	Name                 string     `json:"name,omitempty"`
	StartTime            *time.Time `json:"start_time,omitempty"`
	EndTime              *time.Time `json:"end_time,omitempty"`
	Duration             float64    `json:"duration,omitempty"`
	MaxIntensity         string     `json:"max_intensity,omitempty"`
	MaxIntensityDuration float64    `json:"max_intensity_duration,omitempty"`
	Calories             float64    `json:"calories,omitempty"`
	Steps                int64      `json:"steps,omitempty"`
	User                 *user.User `json:"user,omitempty"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
}

// Entity is the storage record. The owning user is kept as a reference and
// resolved into the model on reads.
type Entity struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Name                 string             `bson:"name,omitempty"`
	StartTime            time.Time          `bson:"start_time,omitempty"`
	EndTime              time.Time          `bson:"end_time,omitempty"`
	Duration             float64            `bson:"duration,omitempty"`
	MaxIntensity         string             `bson:"max_intensity,omitempty"`
	MaxIntensityDuration float64            `bson:"max_intensity_duration,omitempty"`
	Calories             float64            `bson:"calories,omitempty"`
	Steps                int64              `bson:"steps,omitempty"`
	User                 primitive.ObjectID `bson:"user,omitempty"`
	CreatedAt            time.Time          `bson:"created_at,omitempty"`
}

type entityMapper struct{}

func (entityMapper) ToEntity(item *Activity) (*Entity, error) {
	entity := &Entity{
		Name:                 item.Name,
		Duration:             item.Duration,
		MaxIntensity:         item.MaxIntensity,
		MaxIntensityDuration: item.MaxIntensityDuration,
		Calories:             item.Calories,
		Steps:                item.Steps,
	}
	if item.ID != "" {
		id, err := repository.ParseID(item.ID)
		if err != nil {
			return nil, err
		}
		entity.ID = id
	}
	if item.StartTime != nil {
		entity.StartTime = *item.StartTime
	}
	if item.EndTime != nil {
		entity.EndTime = *item.EndTime
	}
	if item.User != nil && item.User.ID != "" {
		owner, err := repository.ParseID(item.User.ID)
		if err != nil {
			return nil, err
		}
		entity.User = owner
	}
	if item.CreatedAt != nil {
		entity.CreatedAt = *item.CreatedAt
	}
	return entity, nil
}

func (entityMapper) ToModel(entity *Entity) *Activity {
	item := &Activity{
		Name:                 entity.Name,
		Duration:             entity.Duration,
		MaxIntensity:         entity.MaxIntensity,
		MaxIntensityDuration: entity.MaxIntensityDuration,
		Calories:             entity.Calories,
		Steps:                entity.Steps,
	}
	if !entity.ID.IsZero() {
		item.ID = entity.ID.Hex()
	}
	if !entity.StartTime.IsZero() {
		startTime := entity.StartTime
		item.StartTime = &startTime
	}
	if !entity.EndTime.IsZero() {
		endTime := entity.EndTime
		item.EndTime = &endTime
	}
	if !entity.User.IsZero() {
		// Bare reference; the repository resolves the full user on reads.
		item.User = &user.User{ID: entity.User.Hex()}
	}
	if !entity.CreatedAt.IsZero() {
		createdAt := entity.CreatedAt
		item.CreatedAt = &createdAt
	}
	return item
}
