package repository

import (
	"errors"

	"activity-tracking-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	invalidIDMessage     = "The given ID is not in valid format."
	invalidIDDescription = "A 12 bytes hexadecimal ID is expected."
)

// WrapError classifies a store failure once, at the repository boundary.
// Callers never see driver-specific error shapes.
func WrapError(err error) error {
	var appErr *models.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	logrus.WithError(err).Error("Database operation failed")

	if mongo.IsDuplicateKeyError(err) {
		return models.NewConflictError("A registration with the same unique data already exists!")
	}

	if errors.Is(err, primitive.ErrInvalidHex) {
		return models.NewValidationError(invalidIDMessage, invalidIDDescription)
	}

	var marshalErr mongo.MarshalError
	if errors.As(err, &marshalErr) {
		return models.NewValidationError("Invalid query parameters!", "")
	}

	return models.NewRepositoryError("An internal error has occurred in the database!",
		"Please try again later...")
}

// ParseID converts a client-supplied identifier to its storage form.
func ParseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError(invalidIDMessage, invalidIDDescription)
	}
	return objectID, nil
}

// NormalizeFilters converts identifier filters supplied as hex strings into
// ObjectIDs so equality matches work against the store.
func NormalizeFilters(filters bson.M) (bson.M, error) {
	if filters == nil {
		return bson.M{}, nil
	}

	normalized := bson.M{}
	for key, value := range filters {
		if key == "_id" || key == "user" {
			if hex, ok := value.(string); ok {
				objectID, err := ParseID(hex)
				if err != nil {
					return nil, err
				}
				normalized[key] = objectID
				continue
			}
		}
		normalized[key] = value
	}
	return normalized, nil
}
