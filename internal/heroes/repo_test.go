package heroes

import (
	"context"
	"database/sql"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heroleague/pkg/database"
	"heroleague/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testHero(id int, name, alignment string) models.Hero {
	return models.Hero{
		ID:         id,
		Name:       name,
		Alignment:  alignment,
		Image:      "https://img.example/hero.jpg",
		Powerstats: json.RawMessage(`{"strength":"10"}`),
	}
}

func TestRepoUpsertAndGet(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testHero(70, "Batman", models.AlignmentHero)))

	got, err := repo.GetByID(ctx, 70)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Batman", got.Name)
	assert.Equal(t, models.AlignmentHero, got.Alignment)
	assert.JSONEq(t, `{"strength":"10"}`, string(got.Powerstats))
}

func TestRepoGetMissingReturnsNil(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	got, err := repo.GetByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepoUpsertIsIdempotent(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	h := testHero(70, "Batman", models.AlignmentHero)
	require.NoError(t, repo.Upsert(ctx, h))
	require.NoError(t, repo.Upsert(ctx, h))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, h.Name, all[0].Name)
}

func TestRepoUpsertFullyReplaces(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	first := testHero(70, "Batman", models.AlignmentHero)
	first.FullName = "Bruce Wayne"
	require.NoError(t, repo.Upsert(ctx, first))

	// second observation drops the full name and flips alignment; the row
	// must be replaced field for field, not merged
	second := testHero(70, "Batman", models.AlignmentVillain)
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.GetByID(ctx, 70)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.AlignmentVillain, got.Alignment)
	assert.Empty(t, got.FullName)
}

func TestRepoListFilterAndOrder(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testHero(3, "Zatanna", models.AlignmentHero)))
	require.NoError(t, repo.Upsert(ctx, testHero(1, "Joker", models.AlignmentVillain)))
	require.NoError(t, repo.Upsert(ctx, testHero(2, "Alfred", models.AlignmentHero)))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alfred", "Joker", "Zatanna"}, []string{all[0].Name, all[1].Name, all[2].Name})

	villains, err := repo.List(ctx, "villain")
	require.NoError(t, err)
	require.Len(t, villains, 1)
	assert.Equal(t, "Joker", villains[0].Name)

	everyone, err := repo.List(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, everyone, 3)
}

func TestRepoRejectsNonCanonicalAlignment(t *testing.T) {
	repo := NewRepo(openTestDB(t))

	err := repo.Upsert(context.Background(), testHero(5, "Mystery", "chaotic"))
	assert.Error(t, err)
}
