package live

import "time"

// Match event types.
const (
	MatchCreated = "match.created"
	MatchUpdated = "match.updated"
	MatchDeleted = "match.deleted"
)

type MatchEvent struct {
	Type     string    `json:"type"`
	MatchID  int64     `json:"match_id"`
	EventID  int64     `json:"event_id"`
	Round    *int      `json:"round,omitempty"`
	Scores   string    `json:"scores,omitempty"`
	WinnerID *int64    `json:"winner_id,omitempty"`
	At       time.Time `json:"at"`
}
