package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleWorker  = "worker"
	RoleManager = "manager"
	RoleBoss    = "boss"
	RoleAdmin   = "admin"
)

const (
	StoreOne  = "store1"
	StoreTwo  = "store2"
	StoreBoth = "both"
	// StoreAll is only valid on notices.
	StoreAll = "all"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Email     *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"not null;default:worker" json:"role"` // worker, manager, boss, admin
	StoreID   *string   `gorm:"index" json:"store_id,omitempty"`     // store1, store2, both
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BypassesAllowlist reports whether the role may keep logging in after its allowlist entry is gone.
func (u *User) BypassesAllowlist() bool {
	return u.Role == RoleBoss || u.Role == RoleAdmin
}

func IsValidRole(role string) bool {
	switch role {
	case RoleWorker, RoleManager, RoleBoss, RoleAdmin:
		return true
	}
	return false
}

// IsValidUserStore accepts the store assignments an identity or allowlist entry can carry.
func IsValidUserStore(storeID string) bool {
	switch storeID {
	case StoreOne, StoreTwo, StoreBoth:
		return true
	}
	return false
}
