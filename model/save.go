package model

import (
	"time"

	"gorm.io/datatypes"
)

// SaveSlot is one persisted world snapshot. Each payload column holds a
// JSON section of the snapshot; a loader must tolerate any section being
// empty or corrupt and substitute defaults instead of failing.
type SaveSlot struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Slot      int            `gorm:"uniqueIndex:idx_save_slot;not null" json:"slot"`
	Name      string         `gorm:"size:128" json:"name"`
	Player    datatypes.JSON `gorm:"column:player" json:"player"`
	Missions  datatypes.JSON `gorm:"column:missions" json:"missions"`
	NPCs      datatypes.JSON `gorm:"column:npcs" json:"npcs"`
	Vehicles  datatypes.JSON `gorm:"column:vehicles" json:"vehicles"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
