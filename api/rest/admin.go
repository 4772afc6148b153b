package rest

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openstreets/server/game/npc"
	"github.com/openstreets/server/game/trigger"
	"github.com/openstreets/server/game/world"
	"github.com/openstreets/server/scheduler"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by AdminAuth middleware.
type AdminHandler struct {
	db     *gorm.DB
	w      *world.World
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, w *world.World, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, w: w, sched: sched, logger: logger}
}

// Metrics returns server health metrics.
// GET /api/admin/metrics
func (h *AdminHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ticks":           h.w.Ticks(),
		"npcs":            len(h.w.NPCs()),
		"vehicles":        len(h.w.Vehicles()),
		"goroutines":      runtime.NumGoroutine(),
		"scheduler_tasks": h.sched.ListTickers(),
	})
}

type spawnRequest struct {
	Archetype string  `json:"archetype" binding:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// SpawnNPC adds an NPC to the world.
// POST /api/admin/npcs
func (h *AdminHandler) SpawnNPC(c *gin.Context) {
	var req spawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n := h.w.SpawnNPC(npc.Archetype(req.Archetype), req.X, req.Y)
	h.logger.Info("admin spawned npc",
		zap.String("archetype", req.Archetype),
		zap.Int("npc_id", n.ID))
	c.JSON(http.StatusOK, gin.H{"npc": n})
}

type fireTriggerRequest struct {
	TriggerID int     `json:"trigger_id" binding:"required"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// FireTrigger places a trigger tile on the map.
// POST /api/admin/triggers
func (h *AdminHandler) FireTrigger(c *gin.Context) {
	var req fireTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if trigger.IsTerrain(req.TriggerID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a trigger id"})
		return
	}
	h.w.Map().Set(int(req.X), int(req.Y), req.TriggerID)
	c.JSON(http.StatusOK, gin.H{
		"trigger_id": req.TriggerID,
		"effect":     trigger.EffectFor(req.TriggerID).String(),
	})
}

// Archetypes lists the NPC parameter tables.
// GET /api/admin/archetypes
func (h *AdminHandler) Archetypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"archetypes": npc.Archetypes()})
}

// AdminAuth guards admin routes with a shared key.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "admin endpoints disabled: set server.admin_key in config"})
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if key != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
