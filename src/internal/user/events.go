package user

import "time"

// SaveEventName keys the integration event published after a user is
// created.
const SaveEventName = "UserSaveEvent"

// SaveEvent is the wire shape of the user-saved integration event.
type SaveEvent struct {
	EventName string    `json:"event_name"`
	Timestamp time.Time `json:"timestamp"`
	User      *User     `json:"user,omitempty"`
}

func (e SaveEvent) Name() string {
	return e.EventName
}

func NewSaveEvent(item *User) SaveEvent {
	return SaveEvent{
		EventName: SaveEventName,
		Timestamp: time.Now().UTC(),
		User:      item,
	}
}
