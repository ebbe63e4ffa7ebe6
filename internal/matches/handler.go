package matches

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"heroleague/internal/live"
	"heroleague/pkg/models"
)

// Broadcaster pushes match events to connected live clients.
type Broadcaster interface {
	BroadcastJSON(v any)
}

type Handler struct {
	Repo *Repo
	Hub  Broadcaster
}

func NewHandler(repo *Repo, hub Broadcaster) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

// RegisterRoutes mounts the match endpoints. Reads are public; writes run
// behind the given auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("", authRequired, h.create)
	rg.PUT("/:id", authRequired, h.update)
	rg.DELETE("/:id", authRequired, h.remove)
}

type matchReq struct {
	EventID    int64  `json:"event_id"`
	Round      *int   `json:"round"`
	Entrant1ID *int64 `json:"entrant1_id"`
	Entrant2ID *int64 `json:"entrant2_id"`
	Scores     string `json:"scores"`
	WinnerID   *int64 `json:"winner_id"`
}

// validWinner reports whether winner is absent or names one of the two
// entrants.
func validWinner(winner, e1, e2 *int64) bool {
	if winner == nil {
		return true
	}
	if e1 != nil && *e1 == *winner {
		return true
	}
	if e2 != nil && *e2 == *winner {
		return true
	}
	return false
}

func (h *Handler) create(c *gin.Context) {
	var req matchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.EventID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id is required"})
		return
	}
	if req.Entrant1ID != nil && req.Entrant2ID != nil && *req.Entrant1ID == *req.Entrant2ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entrants must differ"})
		return
	}
	if !validWinner(req.WinnerID, req.Entrant1ID, req.Entrant2ID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winner must be one of the entrants"})
		return
	}

	match, err := h.Repo.Create(c.Request.Context(), models.Match{
		EventID:    req.EventID,
		Round:      req.Round,
		Entrant1ID: req.Entrant1ID,
		Entrant2ID: req.Entrant2ID,
		Scores:     req.Scores,
		WinnerID:   req.WinnerID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create match failed"})
		return
	}

	h.broadcast(live.MatchCreated, &match.Match)
	c.JSON(http.StatusCreated, match)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	match, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if match == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}
	c.JSON(http.StatusOK, match)
}

func (h *Handler) list(c *gin.Context) {
	var eventID int64
	if s := c.Query("event_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
			return
		}
		eventID = id
	}

	out, err := h.Repo.List(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	existing, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}

	var req struct {
		Round      *int    `json:"round"`
		Entrant1ID *int64  `json:"entrant1_id"`
		Entrant2ID *int64  `json:"entrant2_id"`
		Scores     *string `json:"scores"`
		WinnerID   *int64  `json:"winner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	next := existing.Match
	if req.Round != nil {
		next.Round = req.Round
	}
	if req.Entrant1ID != nil {
		next.Entrant1ID = req.Entrant1ID
	}
	if req.Entrant2ID != nil {
		next.Entrant2ID = req.Entrant2ID
	}
	if req.Scores != nil {
		next.Scores = *req.Scores
	}
	if req.WinnerID != nil {
		next.WinnerID = req.WinnerID
	}

	if next.Entrant1ID != nil && next.Entrant2ID != nil && *next.Entrant1ID == *next.Entrant2ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entrants must differ"})
		return
	}
	if !validWinner(next.WinnerID, next.Entrant1ID, next.Entrant2ID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winner must be one of the entrants"})
		return
	}

	updated, err := h.Repo.Update(c.Request.Context(), next)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}

	h.broadcast(live.MatchUpdated, &updated.Match)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}

	existing, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
		return
	}

	if _, err := h.Repo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	h.broadcast(live.MatchDeleted, &existing.Match)
	c.Status(http.StatusNoContent)
}

// broadcast is best effort; a failed push never fails the request.
func (h *Handler) broadcast(typ string, m *models.Match) {
	if h.Hub == nil {
		return
	}
	h.Hub.BroadcastJSON(live.MatchEvent{
		Type:     typ,
		MatchID:  m.ID,
		EventID:  m.EventID,
		Round:    m.Round,
		Scores:   m.Scores,
		WinnerID: m.WinnerID,
		At:       time.Now().UTC(),
	})
}
