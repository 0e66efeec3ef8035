package models

import (
	"gorm.io/datatypes"
)

type AuditLog struct {
	BaseModel

	ActorID    uint           `gorm:"not null;index"`
	EntityType string         `gorm:"not null"` // "user", "job"
	EntityID   uint           `gorm:"not null"`
	Action     string         `gorm:"not null"` // "delete"
	Detail     datatypes.JSON `gorm:"type:jsonb"`
}
