package handlers

import (
	"errors"
	"net/http"
	"strings"

	"shiftnote-backend/invitation"
	"shiftnote-backend/models"
	"shiftnote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB       *gorm.DB
	Registry *invitation.Registry
}

func userResponse(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"store_id":   u.StoreID,
		"created_at": u.CreatedAt,
	}
}

func issueToken(c *gin.Context, status int, user models.User) {
	token, err := utils.GenerateToken(user.ID, user.Name, user.Role, user.StoreID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

// accountConflict returns the message for the first unique account field already in use,
// or "" when both name and email are free.
func accountConflict(db *gorm.DB, name string, email *string) (string, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "Name already registered", nil
	}
	if email == nil {
		return "", nil
	}
	if err := db.Model(&models.User{}).Where("email = ?", *email).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "Email already registered", nil
	}
	return "", nil
}

// Register consumes a registration code. The boss secret lets the caller pick a name;
// a personal code fixes name, role and store to its allowlist entry.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Code            string `json:"code" binding:"required"`
		Name            string `json:"name"`
		Email           string `json:"email" binding:"omitempty,email"`
		Password        string `json:"password" binding:"required,min=8"`
		PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
		StoreID         string `json:"store_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	ctx := c.Request.Context()
	resolution, err := h.Registry.Resolve(ctx, req.Code)
	if errors.Is(err, invitation.ErrInvalidCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration code"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("resolve registration code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify registration code"})
		return
	}

	user := models.User{Email: normalizeEmail(&req.Email)}
	switch resolution.Mode {
	case invitation.ModeBoss:
		user.Name = strings.TrimSpace(req.Name)
		if user.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required when registering with the owner code"})
			return
		}
		store := req.StoreID
		if store == "" {
			store = models.StoreOne
		}
		if !models.IsValidUserStore(store) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be one of: store1, store2, both"})
			return
		}
		user.Role = models.RoleBoss
		user.StoreID = &store
	default:
		entry := resolution.Entry
		store := entry.StoreID
		user.Name = entry.Name
		user.Role = entry.Role
		user.StoreID = &store
	}

	conflict, err := accountConflict(h.DB, user.Name, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("account lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
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

	log.Info().Str("name", user.Name).Str("role", user.Role).Str("mode", resolution.Mode).Msg("user registered")
	if user.Email != nil {
		utils.SendWelcomeEmail(*user.Email, user.Name, user.Role)
	}

	issueToken(c, http.StatusCreated, user)
}

// CheckCode tells the registration form what a code would register as.
func (h *AuthHandler) CheckCode(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	resolution, err := h.Registry.Resolve(c.Request.Context(), req.Code)
	if errors.Is(err, invitation.ErrInvalidCode) {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("resolve registration code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify registration code"})
		return
	}

	if resolution.Mode == invitation.ModeBoss {
		c.JSON(http.StatusOK, gin.H{"valid": true, "mode": invitation.ModeBoss, "role": models.RoleBoss})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"mode":     invitation.ModePersonal,
		"name":     resolution.Entry.Name,
		"role":     resolution.Entry.Role,
		"store_id": resolution.Entry.StoreID,
	})
}

// Login accepts a name or an email as identifier. Worker and manager accounts whose
// allowlist entry has been revoked are refused.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	var user models.User
	if err := h.DB.Where("name = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.BypassesAllowlist() {
		allowed, err := h.Registry.IsNameAllowed(c.Request.Context(), user.Name)
		if err != nil {
			log.Error().Err(err).Msg("allowlist lookup")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify account"})
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "This account is no longer approved. Please contact the store owner."})
			return
		}
	}

	issueToken(c, http.StatusOK, user)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	me := currentCaller(c)

	var user models.User
	if err := h.DB.Where("id = ?", me.ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword    string `json:"current_password" binding:"required"`
		NewPassword        string `json:"new_password" binding:"required,min=8"`
		NewPasswordConfirm string `json:"new_password_confirm" binding:"required,eqfield=NewPassword"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	me := currentCaller(c)
	var user models.User
	if err := h.DB.Where("id = ?", me.ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// Withdraw deletes the caller's own account. The allowlist entry is kept so the
// same person can register again with their code.
func (h *AuthHandler) Withdraw(c *gin.Context) {
	me := currentCaller(c)

	result := h.DB.Where("id = ?", me.ID).Delete(&models.User{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	log.Info().Str("name", me.Name).Msg("user withdrew")
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
