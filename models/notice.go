package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityNormal    = "normal"
	PriorityImportant = "important"
	PriorityUrgent    = "urgent"
)

type Notice struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    string    `gorm:"not null" json:"author"`
	StoreID   string    `gorm:"not null;default:all;index" json:"store_id"` // store1, store2, all
	Priority  string    `gorm:"not null;default:normal" json:"priority"`
	ImageURLs []string  `gorm:"type:text;serializer:json" json:"image_urls"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.ImageURLs == nil {
		n.ImageURLs = []string{}
	}
	return nil
}

func IsValidNoticeStore(storeID string) bool {
	return storeID == StoreOne || storeID == StoreTwo || storeID == StoreAll
}

func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityNormal, PriorityImportant, PriorityUrgent:
		return true
	}
	return false
}
