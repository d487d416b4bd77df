package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllowedName pre-approves exactly one registration under Name.
type AllowedName struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null" json:"name"`
	Role             string    `gorm:"not null" json:"role"`     // worker, manager, boss
	StoreID          string    `gorm:"not null" json:"store_id"` // store1, store2, both
	RegistrationCode string    `gorm:"uniqueIndex;not null" json:"-"` // handed out only on add and regenerate
	AddedAt          time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (a *AllowedName) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
