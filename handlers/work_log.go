package handlers

import (
	"net/http"
	"time"

	"shiftnote-backend/models"
	"shiftnote-backend/payroll"
	"shiftnote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type WorkLogHandler struct {
	DB *gorm.DB
}

type workLogResponse struct {
	models.WorkLog
	Hours float64 `json:"hours"`
}

func withHours(logs []models.WorkLog) []workLogResponse {
	out := make([]workLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, workLogResponse{WorkLog: l, Hours: shiftOf(l).Hours()})
	}
	return out
}

func shiftOf(l models.WorkLog) payroll.Shift {
	return payroll.Shift{Start: l.StartTime, End: l.EndTime, Break: l.Break, BreakDuration: l.BreakDuration}
}

// dateRange applies optional from/to query bounds, rejecting malformed dates.
func dateRange(c *gin.Context, query *gorm.DB, fromKey, toKey string) (*gorm.DB, bool) {
	if from := c.Query(fromKey); from != "" {
		if _, err := time.Parse(dateLayout, from); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fromKey + " must match the format YYYY-MM-DD"})
			return nil, false
		}
		query = query.Where("date >= ?", from)
	}
	if to := c.Query(toKey); to != "" {
		if _, err := time.Parse(dateLayout, to); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": toKey + " must match the format YYYY-MM-DD"})
			return nil, false
		}
		query = query.Where("date <= ?", to)
	}
	return query, true
}

func (h *WorkLogHandler) CreateWorkLog(c *gin.Context) {
	var req struct {
		Date          string `json:"date" binding:"required,datetime=2006-01-02"`
		Start         string `json:"start" binding:"required,datetime=15:04"`
		End           string `json:"end" binding:"required,datetime=15:04"`
		Break         bool   `json:"break"`
		BreakDuration int    `json:"break_duration" binding:"gte=0"`
		Note          string `json:"note" binding:"max=500"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	entry := models.WorkLog{
		UserName:      currentCaller(c).Name,
		Date:          req.Date,
		StartTime:     req.Start,
		EndTime:       req.End,
		Break:         req.Break,
		BreakDuration: payroll.BreakMinutes(req.Break, req.BreakDuration),
		Note:          req.Note,
	}

	if err := h.DB.Create(&entry).Error; err != nil {
		log.Error().Err(err).Str("user", entry.UserName).Msg("create work log")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save work log"})
		return
	}

	c.JSON(http.StatusCreated, workLogResponse{WorkLog: entry, Hours: shiftOf(entry).Hours()})
}

func (h *WorkLogHandler) ListMyWorkLogs(c *gin.Context) {
	query, ok := dateRange(c, h.DB.Where("user_name = ?", currentCaller(c).Name), "from", "to")
	if !ok {
		return
	}

	var logs []models.WorkLog
	if err := query.Order("date DESC, start_time DESC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch work logs"})
		return
	}
	c.JSON(http.StatusOK, withHours(logs))
}

// ListAllWorkLogs is the manager view across every employee.
func (h *WorkLogHandler) ListAllWorkLogs(c *gin.Context) {
	query := h.DB.Model(&models.WorkLog{})
	if name := c.Query("name"); name != "" {
		query = query.Where("user_name = ?", name)
	}
	query, ok := dateRange(c, query, "from", "to")
	if !ok {
		return
	}

	var logs []models.WorkLog
	if err := query.Order("date DESC, user_name ASC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch work logs"})
		return
	}
	c.JSON(http.StatusOK, withHours(logs))
}

// DeleteWorkLog lets owners remove their own entries; managers and above may remove any.
func (h *WorkLogHandler) DeleteWorkLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work log ID"})
		return
	}

	var entry models.WorkLog
	if err := h.DB.Where("id = ?", id).First(&entry).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Work log not found"})
		return
	}

	me := currentCaller(c)
	if entry.UserName != me.Name && !me.isStaffManager() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own work logs"})
		return
	}

	if err := h.DB.Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete work log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work log deleted"})
}
