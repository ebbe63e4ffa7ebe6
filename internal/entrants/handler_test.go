package entrants

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heroleague/internal/auth"
	"heroleague/internal/heroes"
	"heroleague/pkg/models"
)

func asUser(userID string, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.CtxClaimsKey, &auth.Claims{UserID: userID, IsAdmin: admin})
		c.Next()
	}
}

func rejectAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		c.Abort()
	}
}

func newTestRouter(db *sql.DB, authRequired gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewRepo(db), heroes.NewRepo(db)).RegisterRoutes(router.Group("/entrants"), authRequired)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf.Write(b)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterDerivesIdentityFromHero(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u-1", "demo")
	eventID := seedEvent(t, db, "Open")
	_, err := db.Exec(`
		INSERT INTO heroes (id, name, full_name, alignment) VALUES (70, 'Batman', 'Bruce Wayne', 'hero')
	`)
	require.NoError(t, err)

	router := newTestRouter(db, asUser("u-1", false))

	w := doJSON(router, http.MethodPost, "/entrants/register", gin.H{"event_id": eventID, "hero_id": 70})
	require.Equal(t, http.StatusCreated, w.Code)

	var e models.Entrant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "Batman", e.Name)
	assert.Equal(t, "Bruce Wayne", e.Alias)
	assert.Equal(t, "u-1", e.UserID)
	require.NotNil(t, e.HeroID)
	assert.Equal(t, 70, *e.HeroID)

	// second registration for the same event is rejected
	w = doJSON(router, http.MethodPost, "/entrants/register", gin.H{"event_id": eventID, "hero_id": 70})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUnknownHero(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u-1", "demo")
	eventID := seedEvent(t, db, "Open")
	router := newTestRouter(db, asUser("u-1", false))

	w := doJSON(router, http.MethodPost, "/entrants/register", gin.H{"event_id": eventID, "hero_id": 404})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnregisterHardDeletesWithoutMatches(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u-1", "demo")
	eventID := seedEvent(t, db, "Open")
	repo := NewRepo(db)
	_, err := repo.Create(context.Background(), models.Entrant{Name: "Ironclad", EventID: eventID, UserID: "u-1"})
	require.NoError(t, err)

	router := newTestRouter(db, asUser("u-1", false))
	w := doJSON(router, http.MethodDelete, "/entrants/unregister/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entrants`).Scan(&n))
	assert.Zero(t, n)
}

func TestUnregisterSoftDeletesWithMatches(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u-1", "demo")
	eventID := seedEvent(t, db, "Open")
	repo := NewRepo(db)
	ctx := context.Background()

	mine, err := repo.Create(ctx, models.Entrant{Name: "Ironclad", EventID: eventID, UserID: "u-1"})
	require.NoError(t, err)
	other, err := repo.Create(ctx, models.Entrant{Name: "Nightshade", EventID: eventID})
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO matches (event_id, entrant1_id, entrant2_id) VALUES (?, ?, ?)`,
		eventID, mine.ID, other.ID)
	require.NoError(t, err)

	router := newTestRouter(db, asUser("u-1", false))
	w := doJSON(router, http.MethodDelete, "/entrants/unregister/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dropped models.Entrant
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dropped))
	assert.Equal(t, "Dropped", dropped.Name)
	assert.True(t, dropped.Dropped)
}

func TestUnregisterNotRegistered(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u-1", "demo")
	seedEvent(t, db, "Open")
	router := newTestRouter(db, asUser("u-1", false))

	w := doJSON(router, http.MethodDelete, "/entrants/unregister/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreateRequiresAdmin(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u-1", "demo")
	eventID := seedEvent(t, db, "Open")

	user := newTestRouter(db, asUser("u-1", false))
	w := doJSON(user, http.MethodPost, "/entrants", gin.H{"name": "Walk-in", "event_id": eventID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := newTestRouter(db, asUser("u-1", true))
	w = doJSON(admin, http.MethodPost, "/entrants", gin.H{"name": "Walk-in", "event_id": eventID})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListIsPublicRegisterNeedsAuth(t *testing.T) {
	db := openTestDB(t)
	eventID := seedEvent(t, db, "Open")
	_, err := NewRepo(db).Create(context.Background(), models.Entrant{Name: "Nightshade", EventID: eventID})
	require.NoError(t, err)

	router := newTestRouter(db, rejectAuth())

	w := doJSON(router, http.MethodGet, "/entrants", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []Detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(router, http.MethodPost, "/entrants/register", gin.H{"event_id": eventID, "hero_id": 70})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
