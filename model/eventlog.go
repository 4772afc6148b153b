package model

import (
	"time"

	"gorm.io/datatypes"
)

// EventLog is one persisted world event (mission progress, combat,
// map changes), written in batches by the journal service.
type EventLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      string         `gorm:"size:64;index" json:"type"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}
