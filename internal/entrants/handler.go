package entrants

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"heroleague/internal/auth"
	"heroleague/internal/heroes"
	"heroleague/pkg/models"
)

type Handler struct {
	Repo   *Repo
	Heroes *heroes.Repo
}

func NewHandler(repo *Repo, heroRepo *heroes.Repo) *Handler {
	return &Handler{Repo: repo, Heroes: heroRepo}
}

// RegisterRoutes mounts the entrant endpoints. Listing is public,
// register/unregister need a logged-in user, and the direct CRUD routes
// are admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.POST("/register", authRequired, h.register)
	rg.DELETE("/unregister/:event_id", authRequired, h.unregister)

	rg.GET("", h.list)
	rg.POST("", authRequired, auth.AdminRequired(), h.create)
	rg.PUT("/:id", authRequired, auth.AdminRequired(), h.update)
	rg.DELETE("/:id", authRequired, auth.AdminRequired(), h.remove)
}

type registerReq struct {
	EventID int64 `json:"event_id"`
	HeroID  int   `json:"hero_id"`
}

// register signs the calling user up for an event with a hero from the
// local catalog; the entrant's display identity is derived from the hero.
func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.EventID == 0 || req.HeroID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id and hero_id are required"})
		return
	}

	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	existing, err := h.Repo.GetByUserAndEvent(c.Request.Context(), claims.UserID, req.EventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "already registered for this event"})
		return
	}

	hero, err := h.Heroes.GetByID(c.Request.Context(), req.HeroID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	if hero == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "hero not found"})
		return
	}

	alias := hero.FullName
	if alias == "" {
		alias = hero.Alias
	}

	heroID := hero.ID
	entrant, err := h.Repo.Create(c.Request.Context(), models.Entrant{
		Name:    hero.Name,
		Alias:   alias,
		EventID: req.EventID,
		UserID:  claims.UserID,
		HeroID:  &heroID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, entrant)
}

// unregister removes the calling user from an event: a hard delete when no
// matches reference the entrant, a soft delete otherwise.
func (h *Handler) unregister(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	entrant, err := h.Repo.GetByUserAndEvent(c.Request.Context(), claims.UserID, eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unregister failed"})
		return
	}
	if entrant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not registered for this event"})
		return
	}

	hasMatches, err := h.Repo.HasMatches(c.Request.Context(), entrant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unregister failed"})
		return
	}

	if hasMatches {
		if err := h.Repo.SoftDelete(c.Request.Context(), entrant.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unregister failed"})
			return
		}
		updated, _ := h.Repo.GetByID(c.Request.Context(), entrant.ID)
		c.JSON(http.StatusOK, updated)
		return
	}

	if _, err := h.Repo.Delete(c.Request.Context(), entrant.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unregister failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) list(c *gin.Context) {
	var f Filter
	if s := c.Query("event_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
			return
		}
		f.EventID = id
	}
	f.UserID = c.Query("user_id")

	out, err := h.Repo.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

type createReq struct {
	Name    string `json:"name"`
	Alias   string `json:"alias"`
	EventID int64  `json:"event_id"`
	UserID  string `json:"user_id"`
	HeroID  *int   `json:"hero_id"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Name == "" || req.EventID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and event_id are required"})
		return
	}

	entrant, err := h.Repo.Create(c.Request.Context(), models.Entrant{
		Name:    req.Name,
		Alias:   req.Alias,
		EventID: req.EventID,
		UserID:  req.UserID,
		HeroID:  req.HeroID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create entrant failed"})
		return
	}
	c.JSON(http.StatusCreated, entrant)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entrant id"})
		return
	}

	existing, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entrant not found"})
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Alias   *string `json:"alias"`
		HeroID  *int    `json:"hero_id"`
		Dropped *bool   `json:"dropped"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Alias != nil {
		existing.Alias = *req.Alias
	}
	if req.HeroID != nil {
		existing.HeroID = req.HeroID
	}
	if req.Dropped != nil {
		existing.Dropped = *req.Dropped
	}

	updated, err := h.Repo.Update(c.Request.Context(), *existing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entrant id"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "entrant not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
