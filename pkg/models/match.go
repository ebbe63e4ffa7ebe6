package models

import "time"

type Match struct {
	ID         int64     `json:"id"`
	EventID    int64     `json:"event_id"`
	Round      *int      `json:"round,omitempty"`
	Entrant1ID *int64    `json:"entrant1_id,omitempty"`
	Entrant2ID *int64    `json:"entrant2_id,omitempty"`
	Scores     string    `json:"scores,omitempty"`
	WinnerID   *int64    `json:"winner_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
