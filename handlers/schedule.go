package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shiftnote-backend/models"
	"shiftnote-backend/scheduleimport"
	"shiftnote-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxCommentsPerPage = 100

type ScheduleHandler struct {
	DB *gorm.DB
}

func isScheduleStore(storeID string) bool {
	return storeID == models.StoreOne || storeID == models.StoreTwo
}

// UploadSchedules imports a schedule spreadsheet for one store. Rows already present for the
// same (name, date, store) are left as they are.
func (h *ScheduleHandler) UploadSchedules(c *gin.Context) {
	storeID := c.PostForm("store_id")
	if !isScheduleStore(storeID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be one of: store1, store2"})
		return
	}

	year := time.Now().Year()
	if raw := c.PostForm("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year is invalid"})
			return
		}
		year = y
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if err := utils.ValidateScheduleUpload(fh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	rows, err := scheduleimport.ReadRows(file, fh.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := scheduleimport.Parse(rows, year, storeID)
	if errors.Is(err, scheduleimport.ErrEmptySheet) || errors.Is(err, scheduleimport.ErrNoDateColumns) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse schedule"})
		return
	}

	var inserted int64
	if len(result.Schedules) > 0 {
		res := h.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "date"}, {Name: "store_id"}},
			DoNothing: true,
		}).Create(&result.Schedules)
		if res.Error != nil {
			log.Error().Err(res.Error).Str("store", storeID).Msg("insert schedules")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save schedules"})
			return
		}
		inserted = res.RowsAffected
	}

	parsed := len(result.Schedules)
	log.Info().Str("store", storeID).Int("parsed", parsed).Int64("inserted", inserted).Str("by", currentCaller(c).Name).Msg("schedules uploaded")

	c.JSON(http.StatusOK, gin.H{
		"parsed":     parsed,
		"inserted":   inserted,
		"duplicates": int64(parsed) - inserted,
		"skipped":    result.Skipped,
	})
}

func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	query := h.DB.Model(&models.Schedule{})
	if storeID := c.Query("store_id"); storeID != "" {
		if !isScheduleStore(storeID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be one of: store1, store2"})
			return
		}
		query = query.Where("store_id = ?", storeID)
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("name = ?", name)
	}
	query, ok := dateRange(c, query, "from", "to")
	if !ok {
		return
	}

	var schedules []models.Schedule
	if err := query.Order("date ASC, start_time ASC, name ASC").Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	result := h.DB.Where("id = ?", id).Delete(&models.Schedule{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

// commentStore picks the store a comment request is about, falling back to the caller's own store.
func commentStore(c *gin.Context, requested string) (string, bool) {
	if requested == "" {
		requested = currentCaller(c).StoreID
	}
	if !isScheduleStore(requested) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id must be one of: store1, store2"})
		return "", false
	}
	return requested, true
}

func (h *ScheduleHandler) ListComments(c *gin.Context) {
	storeID, ok := commentStore(c, c.Query("store_id"))
	if !ok {
		return
	}

	var comments []models.ScheduleComment
	if err := h.DB.Where("store_id = ?", storeID).
		Order("created_at DESC").Limit(maxCommentsPerPage).Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *ScheduleHandler) AddComment(c *gin.Context) {
	var req struct {
		StoreID string `json:"store_id"`
		Content string `json:"content" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	storeID, ok := commentStore(c, req.StoreID)
	if !ok {
		return
	}

	comment := models.ScheduleComment{
		StoreID:    storeID,
		AuthorName: currentCaller(c).Name,
		Content:    req.Content,
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}
