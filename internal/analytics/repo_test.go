package analytics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heroleague/pkg/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedTournament builds one event with three entrants: two on Batman, one
// on Joker. Batman entrant #1 wins both finished matches; one match is
// still pending.
func seedTournament(t *testing.T, db *sql.DB) {
	t.Helper()

	mustExec := func(q string, args ...any) {
		t.Helper()
		_, err := db.Exec(q, args...)
		require.NoError(t, err)
	}

	mustExec(`INSERT INTO heroes (id, name, alignment) VALUES (70, 'Batman', 'hero')`)
	mustExec(`INSERT INTO heroes (id, name, alignment) VALUES (370, 'Joker', 'villain')`)
	mustExec(`INSERT INTO heroes (id, name, alignment) VALUES (999, 'Benched', 'unknown')`)

	mustExec(`INSERT INTO events (id, name, status) VALUES (1, 'Open', 'published')`)
	mustExec(`INSERT INTO events (id, name, status) VALUES (2, 'Empty Cup', 'drafting')`)

	mustExec(`INSERT INTO entrants (id, name, event_id, hero_id) VALUES (1, 'A', 1, 70)`)
	mustExec(`INSERT INTO entrants (id, name, event_id, hero_id) VALUES (2, 'B', 1, 70)`)
	mustExec(`INSERT INTO entrants (id, name, event_id, hero_id) VALUES (3, 'C', 1, 370)`)

	mustExec(`INSERT INTO matches (event_id, entrant1_id, entrant2_id, winner_id) VALUES (1, 1, 3, 1)`)
	mustExec(`INSERT INTO matches (event_id, entrant1_id, entrant2_id, winner_id) VALUES (1, 1, 2, 1)`)
	mustExec(`INSERT INTO matches (event_id, entrant1_id, entrant2_id) VALUES (1, 2, 3)`)
}

func TestHeroStats(t *testing.T) {
	db := openTestDB(t)
	seedTournament(t, db)
	repo := NewRepo(db)

	stats, err := repo.HeroStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2) // the benched hero never shows up

	byName := map[string]HeroStats{}
	for _, s := range stats {
		byName[s.Name] = s
	}

	batman := byName["Batman"]
	assert.Equal(t, 2, batman.Entrants)
	assert.Equal(t, 3, batman.Matches) // entrant 1 twice plus entrant 2's two, minus the shared one
	assert.Equal(t, 2, batman.Wins)
	assert.InDelta(t, 2.0/3.0, batman.UsageRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, batman.WinRate, 1e-9)

	joker := byName["Joker"]
	assert.Equal(t, 1, joker.Entrants)
	assert.Equal(t, 2, joker.Matches)
	assert.Equal(t, 0, joker.Wins)
	assert.InDelta(t, 1.0/3.0, joker.UsageRate, 1e-9)
	assert.Zero(t, joker.WinRate)

	// winners sort first
	assert.Equal(t, "Batman", stats[0].Name)
}

func TestHeroStatsEmptyDB(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	stats, err := repo.HeroStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestUsage(t *testing.T) {
	db := openTestDB(t)
	seedTournament(t, db)
	repo := NewRepo(db)

	usage, err := repo.Usage(context.Background())
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, "Open", usage[0].Name)
	assert.Equal(t, 3, usage[0].Entrants)
	assert.Equal(t, "Empty Cup", usage[1].Name)
	assert.Zero(t, usage[1].Entrants)
}

func TestResults(t *testing.T) {
	db := openTestDB(t)
	seedTournament(t, db)
	repo := NewRepo(db)

	results, err := repo.Results(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := map[string]EventResults{}
	for _, r := range results {
		byName[r.Name] = r
	}

	open := byName["Open"]
	assert.Equal(t, 3, open.Matches)
	assert.Equal(t, 2, open.Completed)

	empty := byName["Empty Cup"]
	assert.Zero(t, empty.Matches)
	assert.Zero(t, empty.Completed)
}
