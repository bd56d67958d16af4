package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/middleware"
	"github.com/silvercase/attendance-backend/internal/services"
)

// AttendanceHandler handles attendance and payroll HTTP requests
type AttendanceHandler struct {
	attendance *services.AttendanceService
	logger     *logrus.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendance *services.AttendanceService, logger *logrus.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		logger:     logger,
	}
}

// Today returns the present/absent split for the acting owner's staff.
// Dashboards poll this; every call re-derives the snapshot from the log.
func (h *AttendanceHandler) Today(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		respondBadRequest(c, "ownerId is required")
		return
	}

	snapshot, err := h.attendance.PresenceToday(ownerID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build presence snapshot")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// DayEntries returns a staff member's log entries for one calendar day.
func (h *AttendanceHandler) DayEntries(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid staff ID")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		respondBadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	entries, err := h.attendance.DayEntries(id, day)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Payroll returns {days, total} for a staff member and month.
func (h *AttendanceHandler) Payroll(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid staff ID")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		respondBadRequest(c, "year must be a four-digit year")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		respondBadRequest(c, "month must be between 1 and 12")
		return
	}

	summary, err := h.attendance.MonthlyPayroll(id, year, time.Month(month))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
