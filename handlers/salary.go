package handlers

import (
	"net/http"
	"strconv"
	"time"

	"shiftnote-backend/models"
	"shiftnote-backend/payroll"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SalaryHandler struct {
	DB          *gorm.DB
	DefaultWage int
}

// GetSalary estimates the caller's pay for one month from their work logs.
func (h *SalaryHandler) GetSalary(c *gin.Context) {
	month := c.DefaultQuery("month", time.Now().Format("2006-01"))
	start, err := time.Parse("2006-01", month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must match the format YYYY-MM"})
		return
	}

	wage := h.DefaultWage
	if raw := c.Query("wage"); raw != "" {
		wage, err = strconv.Atoi(raw)
		if err != nil || wage <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "wage must be a positive integer"})
			return
		}
	}

	from := start.Format(dateLayout)
	to := start.AddDate(0, 1, -1).Format(dateLayout)

	var logs []models.WorkLog
	if err := h.DB.Where("user_name = ? AND date >= ? AND date <= ?", currentCaller(c).Name, from, to).
		Order("date ASC, start_time ASC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch work logs"})
		return
	}

	shifts := make([]payroll.Shift, 0, len(logs))
	for _, l := range logs {
		shifts = append(shifts, shiftOf(l))
	}
	total := payroll.TotalHours(shifts)
	pay := payroll.MonthlyPay(total, wage)

	c.JSON(http.StatusOK, gin.H{
		"month":         month,
		"hourly_wage":   wage,
		"logs":          withHours(logs),
		"total_hours":   total,
		"total_pay":     pay,
		"formatted_pay": payroll.FormatCurrency(pay),
	})
}
