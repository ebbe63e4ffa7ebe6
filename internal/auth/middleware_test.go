package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heroleague/pkg/database"
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

func protectedRouter(tokens TokenService, repo *Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", Middleware(tokens, repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": MustGetClaims(c).UserID})
	})
	router.GET("/admin", Middleware(tokens, repo), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doAuthed(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	tokens := testTokens()

	u := User{ID: "u-1", Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(context.Background(), u))

	token, _, err := tokens.Sign(&u)
	require.NoError(t, err)

	w := doAuthed(protectedRouter(tokens, repo), "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	w := doAuthed(protectedRouter(testTokens(), repo), "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddlewareRejectsRevokedToken(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	tokens := testTokens()
	ctx := context.Background()

	u := User{ID: "u-1", Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(ctx, u))

	token, _, err := tokens.Sign(&u)
	require.NoError(t, err)

	// a logout bumps the version; the old token must stop working
	require.NoError(t, repo.BumpTokenVersion(ctx, u.ID))

	w := doAuthed(protectedRouter(tokens, repo), "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	tokens := testTokens()
	ctx := context.Background()

	regular := User{ID: "u-1", Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	admin := User{ID: "u-2", Username: "root", Email: "root@example.com", PasswordHash: "x", IsAdmin: true}
	require.NoError(t, repo.CreateUser(ctx, regular))
	require.NoError(t, repo.CreateUser(ctx, admin))

	router := protectedRouter(tokens, repo)

	userToken, _, err := tokens.Sign(&regular)
	require.NoError(t, err)
	adminToken, _, err := tokens.Sign(&admin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doAuthed(router, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, doAuthed(router, "/admin", adminToken).Code)
}
