package matches

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

// Detail is a match with its entrant and winner rows expanded.
type Detail struct {
	models.Match
	Entrant1 *models.Entrant `json:"entrant1"`
	Entrant2 *models.Entrant `json:"entrant2"`
	Winner   *models.Entrant `json:"winner"`
}

func (r *Repo) Create(ctx context.Context, m models.Match) (*Detail, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO matches (event_id, round, entrant1_id, entrant2_id, scores, winner_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.EventID, m.Round, m.Entrant1ID, m.Entrant2ID, nullString(m.Scores), m.WinnerID)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Detail, error) {
	row := r.DB.QueryRowContext(ctx, matchSelect+` WHERE id = ?`, id)
	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}
	return r.expand(ctx, m)
}

// List returns matches, optionally restricted to one event, with entrants
// expanded.
func (r *Repo) List(ctx context.Context, eventID int64) ([]Detail, error) {
	q := matchSelect
	var args []any
	if eventID != 0 {
		q += " WHERE event_id = ?"
		args = append(args, eventID)
	}
	q += " ORDER BY id ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var plain []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		plain = append(plain, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	out := make([]Detail, 0, len(plain))
	for _, m := range plain {
		d, err := r.expand(ctx, &m)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, m models.Match) (*Detail, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE matches
		SET round = ?, entrant1_id = ?, entrant2_id = ?, scores = ?, winner_id = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, m.Round, m.Entrant1ID, m.Entrant2ID, nullString(m.Scores), m.WinnerID, m.ID)
	if err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, m.ID)
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) expand(ctx context.Context, m *models.Match) (*Detail, error) {
	d := Detail{Match: *m}

	var err error
	if d.Entrant1, err = r.entrantByID(ctx, m.Entrant1ID); err != nil {
		return nil, err
	}
	if d.Entrant2, err = r.entrantByID(ctx, m.Entrant2ID); err != nil {
		return nil, err
	}
	if d.Winner, err = r.entrantByID(ctx, m.WinnerID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) entrantByID(ctx context.Context, id *int64) (*models.Entrant, error) {
	if id == nil {
		return nil, nil
	}

	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, alias, event_id, user_id, hero_id, dropped, created_at, updated_at
		FROM entrants
		WHERE id = ?
	`, *id)

	var (
		e      models.Entrant
		alias  sql.NullString
		userID sql.NullString
		heroID sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Name, &alias, &e.EventID, &userID, &heroID, &e.Dropped, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan match entrant: %w", err)
	}
	e.Alias = alias.String
	e.UserID = userID.String
	if heroID.Valid {
		hid := int(heroID.Int64)
		e.HeroID = &hid
	}
	return &e, nil
}

const matchSelect = `
	SELECT id, event_id, round, entrant1_id, entrant2_id, scores, winner_id, created_at, updated_at
	FROM matches
`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (*models.Match, error) {
	var (
		m              models.Match
		round          sql.NullInt64
		e1, e2, winner sql.NullInt64
		scores         sql.NullString
	)
	if err := row.Scan(&m.ID, &m.EventID, &round, &e1, &e2, &scores, &winner, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if round.Valid {
		v := int(round.Int64)
		m.Round = &v
	}
	if e1.Valid {
		m.Entrant1ID = &e1.Int64
	}
	if e2.Valid {
		m.Entrant2ID = &e2.Int64
	}
	if winner.Valid {
		m.WinnerID = &winner.Int64
	}
	m.Scores = scores.String
	return &m, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
