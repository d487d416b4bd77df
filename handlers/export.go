package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"shiftnote-backend/export"
	"shiftnote-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ExportHandler struct {
	DB *gorm.DB
}

// ExportWorkLogs streams every work log between start and end (inclusive) as an attachment.
func (h *ExportHandler) ExportWorkLogs(c *gin.Context) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})
		return
	}
	startDate, err1 := time.Parse(dateLayout, start)
	endDate, err2 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must match the format YYYY-MM-DD"})
		return
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return
	}

	format := c.DefaultQuery("format", export.FormatCSV)
	contentType, err := export.ContentType(format)
	if errors.Is(err, export.ErrUnknownFormat) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var logs []models.WorkLog
	if err := h.DB.Where("date >= ? AND date <= ?", start, end).
		Order("date ASC, user_name ASC, start_time ASC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch work logs"})
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, logs); err != nil {
		log.Error().Err(err).Str("format", format).Msg("render export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	filename := export.Filename(start, end, format)
	c.Header("Content-Disposition", `attachment; filename="export.`+format+`"; filename*=UTF-8''`+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
