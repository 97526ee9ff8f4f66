package activity

import (
	"strings"

	"activity-tracking-svc/src/internal/models"
)

// Validate checks the required fields, reporting every missing one in a
// single validation error.
func Validate(item *Activity) error {
	fields := make([]string, 0, 6)

	if item.Name == "" {
		fields = append(fields, "Name")
	}
	if item.StartTime == nil {
		fields = append(fields, "Start time")
	}
	if item.EndTime == nil {
		fields = append(fields, "End time")
	}
	if item.Duration == 0 {
		fields = append(fields, "Duration")
	}
	if item.Calories == 0 {
		fields = append(fields, "Calories")
	}
	if item.Steps == 0 {
		fields = append(fields, "Steps")
	}

	if len(fields) > 0 {
		return models.NewValidationError("Required fields were not provided...",
			"Activity validation failed: "+strings.Join(fields, ", ")+" required!")
	}

	return nil
}
