package handlers

import (
	"errors"
	"net/http"
	"strings"

	"shiftnote-backend/models"
	"shiftnote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler is the admin-only account console.
type UserHandler struct {
	DB          *gorm.DB
	FrontendURL string
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	query := h.DB.Order("created_at ASC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

// CreateUser opens an account directly, without a registration code.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=50"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required,oneof=worker manager boss admin"`
		StoreID  string `json:"store_id" binding:"omitempty,oneof=store1 store2 both"`
		Email    string `json:"email" binding:"omitempty,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	user := models.User{
		Name:  strings.TrimSpace(req.Name),
		Role:  req.Role,
		Email: normalizeEmail(&req.Email),
	}
	if user.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if req.StoreID != "" {
		store := req.StoreID
		user.StoreID = &store
	}

	conflict, err := accountConflict(h.DB, user.Name, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("account lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if conflict != "" {
		c.JSON(http.StatusConflict, gin.H{"error": conflict})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	user.Password = string(hashedPassword)

	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Name or email already registered"})
			return
		}
		log.Error().Err(err).Str("name", user.Name).Msg("create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if user.Email != nil {
		utils.SendAccountCreatedEmail(*user.Email, user.Name, user.Role, req.Password, h.FrontendURL+"/login")
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if id == currentCaller(c).ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Use account withdrawal to delete your own account"})
		return
	}

	result := h.DB.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
