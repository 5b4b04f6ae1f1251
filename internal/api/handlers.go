package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type handler struct {
	deps Deps
}

// GET /api/status
func (h *handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Director.Status())
}

// GET /api/rules
func (h *handler) rules(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Director.Rules())
}

// GET /api/prayer-times
func (h *handler) prayerTimes(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Registry.Snapshot())
}

type simulateRequest struct {
	Clear     bool   `json:"clear"`
	Time      string `json:"time"`
	DayOfWeek int    `json:"day_of_week"`
	Summer    bool   `json:"summer"`
}

// POST /api/control/simulate
//
// Pins the display clock to a simulated time, or clears the simulation.
// The director re-evaluates immediately so the caller sees the effect in
// the response.
func (h *handler) simulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Clear {
		h.deps.Basis.ClearSimulation()
		log.Info().Msg("simulation cleared")
	} else {
		if err := h.deps.Basis.Simulate(req.Time, req.DayOfWeek, req.Summer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Info().
			Str("time", req.Time).
			Int("day_of_week", req.DayOfWeek).
			Bool("summer", req.Summer).
			Msg("simulation started")
	}

	h.deps.Director.Tick()
	c.JSON(http.StatusOK, h.deps.Director.Status())
}

// POST /api/control/refresh
func (h *handler) refresh(c *gin.Context) {
	h.deps.Refresher.ForceRefresh()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh requested"})
}
