package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule is one published shift. (name, date, store_id) is unique.
type Schedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_schedule_name_date_store" json:"name"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_schedule_name_date_store;index" json:"date"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end"`
	StoreID   string    `gorm:"not null;uniqueIndex:idx_schedule_name_date_store" json:"store_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ScheduleComment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID    string    `gorm:"not null;index" json:"store_id"`
	AuthorName string    `gorm:"not null" json:"author"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (c *ScheduleComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
