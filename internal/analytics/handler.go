package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/heroes", h.heroes)
	rg.GET("/usage", h.usage)
	rg.GET("/results", h.results)
}

func (h *Handler) heroes(c *gin.Context) {
	out, err := h.Repo.HeroStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	if out == nil {
		out = []HeroStats{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) usage(c *gin.Context) {
	out, err := h.Repo.Usage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	if out == nil {
		out = []EventUsage{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) results(c *gin.Context) {
	out, err := h.Repo.Results(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	if out == nil {
		out = []EventResults{}
	}
	c.JSON(http.StatusOK, out)
}
