package handlers

import (
	"shiftnote-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// caller is the identity AuthMiddleware placed on the request.
type caller struct {
	ID      uuid.UUID
	Name    string
	Role    string
	StoreID string
}

func currentCaller(c *gin.Context) caller {
	id, _ := c.Get(middleware.KeyUserID)
	uid, _ := id.(uuid.UUID)
	return caller{
		ID:      uid,
		Name:    c.GetString(middleware.KeyUserName),
		Role:    c.GetString(middleware.KeyUserRole),
		StoreID: c.GetString(middleware.KeyUserStore),
	}
}

func (u caller) isStaffManager() bool {
	return u.Role == "manager" || u.Role == "boss" || u.Role == "admin"
}
