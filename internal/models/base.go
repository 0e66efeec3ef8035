package models

import "time"

// BaseModel is gorm.Model without soft deletion. Moderation deletes are
// permanent; keeping tombstoned rows would also pin the unique
// (job_id, job_seeker_id) index for re-applications.
type BaseModel struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
