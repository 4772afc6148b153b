package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openstreets/server/game/world"
)

// WorldHandler exposes the simulation to the client: player state,
// movement, interaction and combat.
type WorldHandler struct {
	w *world.World
}

// NewWorldHandler creates a WorldHandler.
func NewWorldHandler(w *world.World) *WorldHandler {
	return &WorldHandler{w: w}
}

// State handles GET /api/world/state.
func (h *WorldHandler) State(c *gin.Context) {
	active := h.w.Registry().Active()
	resp := gin.H{
		"map":           h.w.CurrentMap(),
		"player":        h.w.PlayerState(),
		"npcs":          h.w.NPCs(),
		"vehicles":      h.w.Vehicles(),
		"mission_timer": h.w.MissionTimer(),
	}
	if active != nil {
		resp["active_mission"] = active
	}
	c.JSON(http.StatusOK, resp)
}

type moveRequest struct {
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	DeltaMs float64 `json:"delta_ms"`
}

// Move handles POST /api/world/move.
func (h *WorldHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DeltaMs <= 0 || req.DeltaMs > 1000 {
		req.DeltaMs = 16
	}
	h.w.MovePlayer(req.DX, req.DY, req.DeltaMs)
	c.JSON(http.StatusOK, gin.H{"player": h.w.PlayerState()})
}

// Interact handles POST /api/world/interact.
func (h *WorldHandler) Interact(c *gin.Context) {
	handled := h.w.Interact()
	c.JSON(http.StatusOK, gin.H{
		"handled": handled,
		"player":  h.w.PlayerState(),
	})
}

// AttackMelee handles POST /api/world/attack/melee.
func (h *WorldHandler) AttackMelee(c *gin.Context) {
	hit := h.w.AttackMelee()
	c.JSON(http.StatusOK, gin.H{"hit": hit})
}

type rangedRequest struct {
	TargetX float64 `json:"target_x"`
	TargetY float64 `json:"target_y"`
}

// AttackRanged handles POST /api/world/attack/ranged.
func (h *WorldHandler) AttackRanged(c *gin.Context) {
	var req rangedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := h.w.AttackRanged(req.TargetX, req.TargetY)
	c.JSON(http.StatusOK, gin.H{"projectile": p})
}

// EnterVehicle handles POST /api/world/vehicle/enter.
func (h *WorldHandler) EnterVehicle(c *gin.Context) {
	if !h.w.EnterVehicle() {
		c.JSON(http.StatusConflict, gin.H{"error": "no vehicle in reach"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": h.w.PlayerState()})
}

// ExitVehicle handles POST /api/world/vehicle/exit.
func (h *WorldHandler) ExitVehicle(c *gin.Context) {
	if !h.w.ExitVehicle() {
		c.JSON(http.StatusConflict, gin.H{"error": "not in a vehicle"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": h.w.PlayerState()})
}
