package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserName      string    `gorm:"not null;index" json:"user_name"`
	Date          string    `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	StartTime     string    `gorm:"type:varchar(5);not null" json:"start"`      // HH:MM
	EndTime       string    `gorm:"type:varchar(5);not null" json:"end"`        // HH:MM
	Break         bool      `gorm:"not null;default:false" json:"break"`
	BreakDuration int       `gorm:"not null;default:0" json:"break_duration"` // minutes
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (w *WorkLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
