package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"heroleague/internal/entrants"
	"heroleague/internal/matches"
	"heroleague/pkg/models"
)

type Handler struct {
	Repo     *Repo
	Entrants *entrants.Repo
	Matches  *matches.Repo
}

func NewHandler(repo *Repo, entrantRepo *entrants.Repo, matchRepo *matches.Repo) *Handler {
	return &Handler{Repo: repo, Entrants: entrantRepo, Matches: matchRepo}
}

// RegisterRoutes mounts the event endpoints. Reads are public; writes run
// behind the given auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("", authRequired, h.create)
	rg.PUT("/:id", authRequired, h.update)
	rg.DELETE("/:id", authRequired, h.remove)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// get returns one event with its entrant roster and match list expanded.
func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ev, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	roster, err := h.Entrants.List(c.Request.Context(), entrants.Filter{EventID: id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	bracket, err := h.Matches.List(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":    ev,
		"entrants": roster,
		"matches":  bracket,
	})
}

type eventReq struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Rules  string `json:"rules"`
	Status string `json:"status"`
}

func (h *Handler) create(c *gin.Context) {
	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if req.Status == "" {
		req.Status = models.EventDrafting
	}
	if !models.ValidEventStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	ev, err := h.Repo.Create(c.Request.Context(), models.Event{
		Name:   req.Name,
		Date:   req.Date,
		Rules:  req.Rules,
		Status: req.Status,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create event failed"})
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	existing, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	var req struct {
		Name   *string `json:"name"`
		Date   *string `json:"date"`
		Rules  *string `json:"rules"`
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Date != nil {
		existing.Date = *req.Date
	}
	if req.Rules != nil {
		existing.Rules = *req.Rules
	}
	if req.Status != nil {
		if !models.ValidEventStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		existing.Status = *req.Status
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
