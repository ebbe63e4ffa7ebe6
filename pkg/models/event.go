package models

// Allowed event statuses.
const (
	EventDrafting  = "drafting"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

func ValidEventStatus(s string) bool {
	switch s {
	case EventDrafting, EventPublished, EventCancelled, EventCompleted:
		return true
	}
	return false
}

type Event struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Date         string `json:"date,omitempty"`
	Rules        string `json:"rules,omitempty"`
	Status       string `json:"status"`
	EntrantCount int    `json:"entrant_count"`
}
