package publishers

import "time"

// Activity kinds emitted after successful gallery mutations.
const (
	KindFavouriteSaved   = "favourite.saved"
	KindFavouriteDeleted = "favourite.deleted"
	KindUploadCreated    = "upload.created"
	KindUploadDeleted    = "upload.deleted"
)

// Event represents the payload published downstream.
type Event struct {
	Kind       string    `json:"kind"`
	SubjectID  string    `json:"subject_id"`
	Page       string    `json:"page,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event stamped with the current time.
func NewEvent(kind, subjectID, page string) Event {
	return Event{
		Kind:       kind,
		SubjectID:  subjectID,
		Page:       page,
		OccurredAt: time.Now().UTC(),
	}
}
