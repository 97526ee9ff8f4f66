package activity

import "time"

// Integration event names dispatched over the bus.
const (
	SaveEventName   = "ActivitySaveEvent"
	RemoveEventName = "ActivityRemoveEvent"
)

// SaveEvent is the wire shape of the activity-saved integration event.
type SaveEvent struct {
	EventName string    `json:"event_name"`
	Timestamp time.Time `json:"timestamp"`
	Activity  *Activity `json:"activity,omitempty"`
}

func (e SaveEvent) Name() string {
	return e.EventName
}

func NewSaveEvent(item *Activity) SaveEvent {
	return SaveEvent{
		EventName: SaveEventName,
		Timestamp: time.Now().UTC(),
		Activity:  item,
	}
}

// RemoveEvent carries only the identifiers of a removed activity.
type RemoveEvent struct {
	EventName string    `json:"event_name"`
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
}

func (e RemoveEvent) Name() string {
	return e.EventName
}
