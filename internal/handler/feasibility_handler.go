package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusgrid/scheduler-api/internal/dto"
	"github.com/campusgrid/scheduler-api/internal/service"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
	"github.com/campusgrid/scheduler-api/pkg/response"
)

// FeasibilityHandler exposes multi-room validation and compatibility endpoints.
type FeasibilityHandler struct {
	feasibility *service.FeasibilityService
	validate    *validator.Validate
}

// NewFeasibilityHandler constructs a feasibility handler.
func NewFeasibilityHandler(feasibility *service.FeasibilityService, validate *validator.Validate) *FeasibilityHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &FeasibilityHandler{feasibility: feasibility, validate: validate}
}

// ValidateRooms godoc
// @Summary Validate a course's multi-room assignment for a date and window
// @Tags Feasibility
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.ValidateRoomsRequest true "Date and interval"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/rooms/validate [post]
func (h *FeasibilityHandler) ValidateRooms(c *gin.Context) {
	var req dto.ValidateRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	interval, err := req.Interval.ToModel()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid interval"))
		return
	}

	result, err := h.feasibility.ValidateMultiRoomAssignment(c.Request.Context(), c.Param("id"), date, interval)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// EffectiveRooms godoc
// @Summary List the rooms effective for a course on a calendar date
// @Tags Feasibility
// @Produce json
// @Param id path string true "Course ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/rooms/effective [get]
func (h *FeasibilityHandler) EffectiveRooms(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	rooms, err := h.feasibility.EffectiveRooms(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// Compatibility godoc
// @Summary Score how well a room fits a course's equipment needs
// @Tags Feasibility
// @Produce json
// @Param id path string true "Course ID"
// @Param roomId path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/rooms/{roomId}/compatibility [get]
func (h *FeasibilityHandler) Compatibility(c *gin.Context) {
	report, err := h.feasibility.CompatibilityReport(c.Request.Context(), c.Param("id"), c.Param("roomId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
