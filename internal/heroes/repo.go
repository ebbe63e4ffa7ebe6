package heroes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"heroleague/pkg/models"
)

// Repo is the local hero store. It is a permanent overwrite-on-observe
// cache: rows are inserted or fully replaced by external id and never
// deleted or expired.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) GetByID(ctx context.Context, id int) (*models.Hero, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, full_name, alias, alignment, image,
		       powerstats, biography, appearance, work, connections
		FROM heroes
		WHERE id = ?
	`, id)

	h, err := scanHero(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan hero: %w", err)
	}
	return h, nil
}

// Upsert inserts the record or fully replaces the existing row with the
// same id. A single statement, so each record's write is atomic and
// applying the same record twice leaves identical state.
func (r *Repo) Upsert(ctx context.Context, h models.Hero) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO heroes (id, name, full_name, alias, alignment, image,
		                    powerstats, biography, appearance, work, connections)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  full_name = excluded.full_name,
		  alias = excluded.alias,
		  alignment = excluded.alignment,
		  image = excluded.image,
		  powerstats = excluded.powerstats,
		  biography = excluded.biography,
		  appearance = excluded.appearance,
		  work = excluded.work,
		  connections = excluded.connections
	`,
		h.ID, h.Name, nullString(h.FullName), nullString(h.Alias), h.Alignment,
		nullString(h.Image), blob(h.Powerstats), blob(h.Biography),
		blob(h.Appearance), blob(h.Work), blob(h.Connections),
	)
	if err != nil {
		return fmt.Errorf("upsert hero %d: %w", h.ID, err)
	}
	return nil
}

// List returns heroes ordered by name ascending (id as stable tie-break).
// An empty or "all" alignment disables filtering.
func (r *Repo) List(ctx context.Context, alignment string) ([]models.Hero, error) {
	q := `
		SELECT id, name, full_name, alias, alignment, image,
		       powerstats, biography, appearance, work, connections
		FROM heroes
	`
	var args []any
	alignment = strings.ToLower(strings.TrimSpace(alignment))
	if alignment != "" && alignment != "all" {
		q += " WHERE alignment = ?"
		args = append(args, alignment)
	}
	q += " ORDER BY name ASC, id ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	defer rows.Close()

	var out []models.Hero
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hero row: %w", err)
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHero(row scanner) (*models.Hero, error) {
	var (
		h                               models.Hero
		fullName, alias, image         sql.NullString
		stats, bio, appear, work, conn sql.NullString
	)

	if err := row.Scan(
		&h.ID, &h.Name, &fullName, &alias, &h.Alignment, &image,
		&stats, &bio, &appear, &work, &conn,
	); err != nil {
		return nil, err
	}

	h.FullName = fullName.String
	h.Alias = alias.String
	h.Image = image.String
	h.Powerstats = rawMessage(stats)
	h.Biography = rawMessage(bio)
	h.Appearance = rawMessage(appear)
	h.Work = rawMessage(work)
	h.Connections = rawMessage(conn)
	return &h, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func blob(m json.RawMessage) any {
	if len(m) == 0 {
		return nil
	}
	return string(m)
}

func rawMessage(s sql.NullString) json.RawMessage {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.RawMessage(s.String)
}
