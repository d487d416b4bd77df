package handlers

import (
	"errors"
	"net/http"

	"shiftnote-backend/invitation"
	"shiftnote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AllowedNameHandler struct {
	Registry *invitation.Registry
}

// ListAllowedNames never includes registration codes; a lost code has to be regenerated.
func (h *AllowedNameHandler) ListAllowedNames(c *gin.Context) {
	entries, err := h.Registry.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch allowed names"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *AllowedNameHandler) AddAllowedName(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required,max=50"`
		Role    string `json:"role" binding:"required,oneof=worker manager boss"`
		StoreID string `json:"store_id" binding:"required,oneof=store1 store2 both"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	entry, err := h.Registry.AddAllowedName(c.Request.Context(), req.Name, req.Role, req.StoreID)
	switch {
	case errors.Is(err, invitation.ErrNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "This name is already on the allowlist"})
		return
	case errors.Is(err, invitation.ErrNameRequired),
		errors.Is(err, invitation.ErrInvalidRole),
		errors.Is(err, invitation.ErrInvalidStore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Msg("add allowed name")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add allowed name"})
		return
	}

	log.Info().Str("name", entry.Name).Str("role", entry.Role).Str("by", currentCaller(c).Name).Msg("allowed name added")
	c.JSON(http.StatusCreated, gin.H{
		"id":                entry.ID,
		"name":              entry.Name,
		"role":              entry.Role,
		"store_id":          entry.StoreID,
		"added_at":          entry.AddedAt,
		"registration_code": entry.RegistrationCode,
	})
}

func (h *AllowedNameHandler) RegenerateCode(c *gin.Context) {
	name := c.Param("name")
	code, err := h.Registry.RegenerateCode(c.Request.Context(), name)
	if errors.Is(err, invitation.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Allowed name not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("regenerate code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "registration_code": code})
}

// RemoveAllowedName revokes the entry and deletes any account registered under it.
func (h *AllowedNameHandler) RemoveAllowedName(c *gin.Context) {
	name := c.Param("name")
	err := h.Registry.RemoveAllowedName(c.Request.Context(), name)
	if errors.Is(err, invitation.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Allowed name not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("remove allowed name")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove allowed name"})
		return
	}

	log.Info().Str("name", name).Str("by", currentCaller(c).Name).Msg("allowed name removed")
	c.JSON(http.StatusOK, gin.H{"message": "Allowed name removed"})
}
