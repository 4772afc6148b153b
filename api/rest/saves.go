package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openstreets/server/game/world"
	"github.com/openstreets/server/model"
)

// SaveHandler persists and restores world snapshots.
type SaveHandler struct {
	db     *gorm.DB
	w      *world.World
	logger *zap.Logger
}

// NewSaveHandler creates a SaveHandler.
func NewSaveHandler(db *gorm.DB, w *world.World, logger *zap.Logger) *SaveHandler {
	return &SaveHandler{db: db, w: w, logger: logger}
}

// List handles GET /api/saves.
func (h *SaveHandler) List(c *gin.Context) {
	var slots []model.SaveSlot
	if err := h.db.Select("id", "slot", "name", "created_at", "updated_at").
		Order("slot").Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saves": slots})
}

type saveRequest struct {
	Name string `json:"name" binding:"max=128"`
}

// Save handles POST /api/saves/:slot.
func (h *SaveHandler) Save(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot"})
		return
	}
	// The body is optional; an empty request saves with an empty name.
	var req saveRequest
	_ = c.ShouldBindJSON(&req)
	if len(req.Name) > 128 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name too long"})
		return
	}
	if err := h.w.Save(h.db, slot, req.Name); err != nil {
		h.logger.Error("save failed", zap.Int("slot", slot), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

// Load handles POST /api/saves/:slot/load.
func (h *SaveHandler) Load(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot"})
		return
	}
	if err := h.w.Load(h.db, slot); err != nil {
		if errors.Is(err, world.ErrNoSave) {
			c.JSON(http.StatusNotFound, gin.H{"error": "save slot is empty"})
			return
		}
		h.logger.Error("load failed", zap.Int("slot", slot), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slot":   slot,
		"player": h.w.PlayerState(),
	})
}
