package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studio-service/internal/model"
	"studio-service/pkg/logger"
	"studio-service/prometheus"
)

func (h *Handler) GetSchedule(c echo.Context) error {
	prometheus.RecordScheduleOperation("get")

	defer prometheus.TrackDBOperation("query")(time.Now())
	schedule, err := h.Schedules.Get(userID(c), paramID(c, "studio_id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, schedule)
}

func (h *Handler) CreateSchedule(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordScheduleOperation("create")

	studioID := paramID(c, "studio_id")

	defer prometheus.TrackDBOperation("insert")(time.Now())
	schedule, err := h.Schedules.Create(userID(c), studioID)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Schedule created",
		zap.Uint("schedule_id", schedule.ID),
		zap.Uint("studio_id", studioID))

	return c.JSON(http.StatusCreated, schedule)
}

func (h *Handler) ReplaceAvailability(c echo.Context) error {
	prometheus.RecordScheduleOperation("replace_availability")

	var req struct {
		Availability []model.AvailabilityWindow `json:"availability"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	schedule, err := h.Schedules.ReplaceAvailability(userID(c), paramID(c, "studio_id"), req.Availability)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, schedule)
}

func (h *Handler) AppendAvailabilityWindow(c echo.Context) error {
	prometheus.RecordScheduleOperation("append_window")

	var req model.AvailabilityWindow
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	schedule, err := h.Schedules.AppendWindow(userID(c), paramID(c, "studio_id"), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, schedule)
}

func (h *Handler) UpdateScheduleStudents(c echo.Context) error {
	prometheus.RecordScheduleOperation("update_students")

	var req struct {
		StudentIDs []uint `json:"student_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	schedule, err := h.Schedules.UpdateStudents(userID(c), paramID(c, "schedule_id"), req.StudentIDs)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, schedule)
}
