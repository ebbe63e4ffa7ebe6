package analytics

import (
	"context"
	"database/sql"
	"fmt"
)

// Repo answers aggregate questions over the tournament tables. All the
// heavy lifting stays in SQL; Go only derives ratios.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// HeroStats describes how one hero performs across all events.
type HeroStats struct {
	HeroID    int     `json:"hero_id"`
	Name      string  `json:"name"`
	Alignment string  `json:"alignment"`
	Entrants  int     `json:"entrants"`
	Matches   int     `json:"matches"`
	Wins      int     `json:"wins"`
	UsageRate float64 `json:"usage_rate"`
	WinRate   float64 `json:"win_rate"`
}

// HeroStats reports per-hero entrant counts, matches played and wins won
// by entrants fielding that hero. Heroes nobody has picked are omitted.
func (r *Repo) HeroStats(ctx context.Context) ([]HeroStats, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT h.id, h.name, h.alignment,
			COUNT(DISTINCT en.id),
			COUNT(DISTINCT m.id),
			COUNT(DISTINCT CASE WHEN m.winner_id = en.id THEN m.id END)
		FROM heroes h
		JOIN entrants en ON en.hero_id = h.id
		LEFT JOIN matches m ON m.entrant1_id = en.id OR m.entrant2_id = en.id
		GROUP BY h.id
		ORDER BY 6 DESC, 4 DESC, h.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("hero stats: %w", err)
	}
	defer rows.Close()

	var out []HeroStats
	totalEntrants := 0
	for rows.Next() {
		var s HeroStats
		if err := rows.Scan(&s.HeroID, &s.Name, &s.Alignment, &s.Entrants, &s.Matches, &s.Wins); err != nil {
			return nil, fmt.Errorf("scan hero stats: %w", err)
		}
		if s.Matches > 0 {
			s.WinRate = float64(s.Wins) / float64(s.Matches)
		}
		totalEntrants += s.Entrants
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	if totalEntrants > 0 {
		for i := range out {
			out[i].UsageRate = float64(out[i].Entrants) / float64(totalEntrants)
		}
	}
	return out, nil
}

// EventUsage counts entrants per event.
type EventUsage struct {
	EventID  int64  `json:"event_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Entrants int    `json:"entrants"`
}

func (r *Repo) Usage(ctx context.Context) ([]EventUsage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.id, e.name, e.status, COUNT(en.id)
		FROM events e
		LEFT JOIN entrants en ON en.event_id = e.id
		GROUP BY e.id
		ORDER BY 4 DESC, e.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("event usage: %w", err)
	}
	defer rows.Close()

	var out []EventUsage
	for rows.Next() {
		var u EventUsage
		if err := rows.Scan(&u.EventID, &u.Name, &u.Status, &u.Entrants); err != nil {
			return nil, fmt.Errorf("scan event usage: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// EventResults counts matches per event; a match with a winner is
// completed.
type EventResults struct {
	EventID   int64  `json:"event_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Matches   int    `json:"matches"`
	Completed int    `json:"completed"`
}

func (r *Repo) Results(ctx context.Context) ([]EventResults, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.id, e.name, e.status, COUNT(m.id), COUNT(m.winner_id)
		FROM events e
		LEFT JOIN matches m ON m.event_id = e.id
		GROUP BY e.id
		ORDER BY e.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("event results: %w", err)
	}
	defer rows.Close()

	var out []EventResults
	for rows.Next() {
		var res EventResults
		if err := rows.Scan(&res.EventID, &res.Name, &res.Status, &res.Matches, &res.Completed); err != nil {
			return nil, fmt.Errorf("scan event results: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
