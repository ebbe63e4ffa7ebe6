package heroes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Browser caches may hold hero images for a day; they are immutable once
// resolved.
const imageCacheControl = "public, max-age=86400"

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)             // GET /heroes
	rg.GET("/:id", h.getByID)      // GET /heroes/:id
	rg.GET("/:id/image", h.image)  // GET /heroes/:id/image
}

func (h *Handler) list(c *gin.Context) {
	q := Query{
		Search:    strings.TrimSpace(c.Query("search")),
		Alignment: c.Query("alignment"),
		Page:      parseInt(c.Query("page"), 1),
		PerPage:   parseInt(c.Query("per_page"), DefaultPerPage),
	}

	page, err := h.Service.SearchOrBrowse(c.Request.Context(), q)
	if err != nil {
		writeHeroError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hero id"})
		return
	}

	hero, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeHeroError(c, err)
		return
	}
	c.JSON(http.StatusOK, hero)
}

func (h *Handler) image(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hero id"})
		return
	}

	data, contentType, err := h.Service.GetImage(c.Request.Context(), id)
	if err != nil {
		writeHeroError(c, err)
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, contentType, data)
}

// writeHeroError maps the catalog error taxonomy onto HTTP statuses;
// directory errors keep their upstream status verbatim.
func writeHeroError(c *gin.Context, err error) {
	var ue *UpstreamError
	switch {
	case errors.As(err, &ue):
		c.JSON(ue.Status, gin.H{"error": "hero directory error"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "hero not found"})
	case errors.Is(err, ErrNoImage):
		c.JSON(http.StatusNotFound, gin.H{"error": "no image available"})
	case errors.Is(err, ErrUpstreamImage):
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch hero image"})
	case errors.Is(err, ErrMalformedPayload):
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid hero directory payload"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch heroes"})
	}
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
