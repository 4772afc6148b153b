package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openstreets/server/game/world"
)

// MissionHandler exposes the mission registry.
type MissionHandler struct {
	w *world.World
}

// NewMissionHandler creates a MissionHandler.
func NewMissionHandler(w *world.World) *MissionHandler {
	return &MissionHandler{w: w}
}

// List handles GET /api/missions.
func (h *MissionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"missions": h.w.Registry().Missions()})
}

// Available handles GET /api/missions/available.
func (h *MissionHandler) Available(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"missions": h.w.Registry().Available()})
}

// Active handles GET /api/missions/active.
func (h *MissionHandler) Active(c *gin.Context) {
	m := h.w.Registry().Active()
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active mission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mission":       m,
		"mission_timer": h.w.MissionTimer(),
	})
}

// Get handles GET /api/missions/:id.
func (h *MissionHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	m := h.w.Registry().Mission(id)
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mission not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mission": m})
}

// Start handles POST /api/missions/:id/start.
func (h *MissionHandler) Start(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	if err := h.w.StartMission(id); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mission": h.w.Registry().Mission(id)})
}

// Completed handles GET /api/missions/completed.
func (h *MissionHandler) Completed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mission_ids": h.w.Registry().Completed()})
}
