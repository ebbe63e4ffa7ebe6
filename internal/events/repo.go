package events

import (
	"context"
	"database/sql"
	"fmt"

	"heroleague/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, ev models.Event) (*models.Event, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO events (name, date, rules, status)
		VALUES (?, ?, ?, ?)
	`, ev.Name, nullString(ev.Date), nullString(ev.Rules), ev.Status)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT e.id, e.name, e.date, e.rules, e.status, COUNT(en.id)
		FROM events e
		LEFT JOIN entrants en ON en.event_id = e.id
		WHERE e.id = ?
		GROUP BY e.id
	`, id)

	ev, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return ev, nil
}

// List returns all events with their entrant counts, newest first, then
// by status rank (published, drafting, completed, cancelled), then name.
func (r *Repo) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.id, e.name, e.date, e.rules, e.status, COUNT(en.id)
		FROM events e
		LEFT JOIN entrants en ON en.event_id = e.id
		GROUP BY e.id
		ORDER BY e.date DESC,
			CASE e.status
				WHEN 'published' THEN 1
				WHEN 'drafting' THEN 2
				WHEN 'completed' THEN 3
				WHEN 'cancelled' THEN 4
				ELSE 5
			END,
			e.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]models.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, ev models.Event) (*models.Event, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE events
		SET name = ?, date = ?, rules = ?, status = ?
		WHERE id = ?
	`, ev.Name, nullString(ev.Date), nullString(ev.Rules), ev.Status, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, ev.ID)
}

// Delete removes the event; entrants and matches cascade.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*models.Event, error) {
	var (
		ev          models.Event
		date, rules sql.NullString
	)
	if err := row.Scan(&ev.ID, &ev.Name, &date, &rules, &ev.Status, &ev.EntrantCount); err != nil {
		return nil, err
	}
	ev.Date = date.String
	ev.Rules = rules.String
	return &ev, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
