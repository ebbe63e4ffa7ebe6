package entrants

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

// HeroSummary is the slice of a hero embedded in entrant listings.
type HeroSummary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Alignment string `json:"alignment"`
}

// UserSummary is the slice of a user embedded in entrant listings.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Detail is an entrant with its hero and user expanded.
type Detail struct {
	models.Entrant
	Hero *HeroSummary `json:"hero,omitempty"`
	User *UserSummary `json:"user,omitempty"`
}

// Filter narrows List; zero values mean "no constraint".
type Filter struct {
	EventID int64
	UserID  string
}

func (r *Repo) Create(ctx context.Context, e models.Entrant) (*models.Entrant, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO entrants (name, alias, event_id, user_id, hero_id, dropped)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Name, nullString(e.Alias), e.EventID, nullString(e.UserID), e.HeroID, e.Dropped)
	if err != nil {
		return nil, fmt.Errorf("insert entrant: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Entrant, error) {
	row := r.DB.QueryRowContext(ctx, entrantSelect+` WHERE id = ?`, id)
	e, err := scanEntrant(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan entrant: %w", err)
	}
	return e, nil
}

func (r *Repo) GetByUserAndEvent(ctx context.Context, userID string, eventID int64) (*models.Entrant, error) {
	row := r.DB.QueryRowContext(ctx, entrantSelect+` WHERE user_id = ? AND event_id = ?`, userID, eventID)
	e, err := scanEntrant(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan entrant: %w", err)
	}
	return e, nil
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Detail, error) {
	q := detailSelect
	var where []string
	var args []any
	if f.EventID != 0 {
		where = append(where, "en.event_id = ?")
		args = append(args, f.EventID)
	}
	if f.UserID != "" {
		where = append(where, "en.user_id = ?")
		args = append(args, f.UserID)
	}
	for i, w := range where {
		if i == 0 {
			q += " WHERE " + w
		} else {
			q += " AND " + w
		}
	}
	q += " ORDER BY en.id ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list entrants: %w", err)
	}
	defer rows.Close()

	out := make([]Detail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entrant row: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, e models.Entrant) (*models.Entrant, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE entrants
		SET name = ?, alias = ?, hero_id = ?, dropped = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, e.Name, nullString(e.Alias), e.HeroID, e.Dropped, e.ID)
	if err != nil {
		return nil, fmt.Errorf("update entrant: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, e.ID)
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM entrants WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete entrant: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SoftDelete keeps the row so finished matches stay meaningful, but strips
// the identity: the entrant shows up as "Dropped" from then on.
func (r *Repo) SoftDelete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE entrants
		SET name = 'Dropped', alias = NULL, dropped = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete entrant: %w", err)
	}
	return nil
}

// HasMatches reports whether any match references the entrant.
func (r *Repo) HasMatches(ctx context.Context, id int64) (bool, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM matches
		WHERE entrant1_id = ? OR entrant2_id = ? OR winner_id = ?
	`, id, id, id)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("count entrant matches: %w", err)
	}
	return n > 0, nil
}

const entrantSelect = `
	SELECT id, name, alias, event_id, user_id, hero_id, dropped, created_at, updated_at
	FROM entrants
`

const detailSelect = `
	SELECT en.id, en.name, en.alias, en.event_id, en.user_id, en.hero_id,
	       en.dropped, en.created_at, en.updated_at,
	       h.id, h.name, h.alignment,
	       u.id, u.username
	FROM entrants en
	LEFT JOIN heroes h ON h.id = en.hero_id
	LEFT JOIN users u ON u.id = en.user_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntrant(row scanner) (*models.Entrant, error) {
	var (
		e      models.Entrant
		alias  sql.NullString
		userID sql.NullString
		heroID sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Name, &alias, &e.EventID, &userID, &heroID, &e.Dropped, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Alias = alias.String
	e.UserID = userID.String
	if heroID.Valid {
		id := int(heroID.Int64)
		e.HeroID = &id
	}
	return &e, nil
}

func scanDetail(row scanner) (*Detail, error) {
	var (
		d                       Detail
		alias, userID           sql.NullString
		heroID                  sql.NullInt64
		hID                     sql.NullInt64
		hName, hAlignment       sql.NullString
		uID, uName              sql.NullString
	)
	if err := row.Scan(
		&d.ID, &d.Name, &alias, &d.EventID, &userID, &heroID,
		&d.Dropped, &d.CreatedAt, &d.UpdatedAt,
		&hID, &hName, &hAlignment,
		&uID, &uName,
	); err != nil {
		return nil, err
	}
	d.Alias = alias.String
	d.UserID = userID.String
	if heroID.Valid {
		id := int(heroID.Int64)
		d.HeroID = &id
	}
	if hID.Valid {
		d.Hero = &HeroSummary{ID: int(hID.Int64), Name: hName.String, Alignment: hAlignment.String}
	}
	if uID.Valid {
		d.User = &UserSummary{ID: uID.String, Username: uName.String}
	}
	return &d, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
