package models

import "time"

type Entrant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Alias     string    `json:"alias,omitempty"`
	EventID   int64     `json:"event_id"`
	UserID    string    `json:"user_id,omitempty"`
	HeroID    *int      `json:"hero_id,omitempty"`
	Dropped   bool      `json:"dropped"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
