package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusgrid/scheduler-api/internal/dto"
	"github.com/campusgrid/scheduler-api/internal/service"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
	"github.com/campusgrid/scheduler-api/pkg/response"
)

// ConflictHandler exposes conflict detection and resolution endpoints.
type ConflictHandler struct {
	detector *service.ConflictDetectorService
	resolver *service.ResolutionService
	validate *validator.Validate
}

// NewConflictHandler constructs a conflict handler.
func NewConflictHandler(detector *service.ConflictDetectorService, resolver *service.ResolutionService, validate *validator.Validate) *ConflictHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ConflictHandler{detector: detector, resolver: resolver, validate: validate}
}

// Detect godoc
// @Summary Detect all conflicts in a schedule
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts [get]
func (h *ConflictHandler) Detect(c *gin.Context) {
	conflicts, err := h.detector.DetectAll(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// CheckMove godoc
// @Summary Check whether moving a slot would cause conflicts
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body dto.CheckMoveRequest true "Proposed interval"
// @Success 200 {object} response.Envelope
// @Router /slots/{id}/check-move [post]
func (h *ConflictHandler) CheckMove(c *gin.Context) {
	var req dto.CheckMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	interval, err := req.Interval.ToModel()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid interval"))
		return
	}

	slotID := c.Param("id")
	conflicts, err := h.detector.CheckMove(c.Request.Context(), slotID, interval)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.CheckMoveResponse{
		SlotID:    slotID,
		Feasible:  len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil)
}

// Prioritize godoc
// @Summary Detect and rank a schedule's conflicts by urgency
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts/priority [get]
func (h *ConflictHandler) Prioritize(c *gin.Context) {
	conflicts, err := h.detector.DetectAll(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	byKey := make(map[string]int, len(conflicts))
	for i, conflict := range conflicts {
		byKey[conflict.Key()] = i
	}
	scores := h.resolver.PrioritizeConflicts(conflicts)
	out := make([]dto.PrioritizedConflict, 0, len(scores))
	for _, score := range scores {
		idx, ok := byKey[score.ConflictKey]
		if !ok {
			continue
		}
		out = append(out, dto.PrioritizedConflict{Conflict: conflicts[idx], Score: score})
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Suggest godoc
// @Summary Generate ranked resolution suggestions for a conflict
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param payload body dto.SuggestionsRequest true "Conflict"
// @Success 200 {object} response.Envelope
// @Router /conflicts/suggestions [post]
func (h *ConflictHandler) Suggest(c *gin.Context) {
	var req dto.SuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	suggestions, err := h.resolver.GenerateSuggestions(c.Request.Context(), req.Conflict.ToModel())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestions, nil)
}

// Apply godoc
// @Summary Apply a resolution suggestion
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param payload body dto.ApplySuggestionRequest true "Conflict and suggestion"
// @Success 200 {object} response.Envelope
// @Router /conflicts/apply [post]
func (h *ConflictHandler) Apply(c *gin.Context) {
	var req dto.ApplySuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	applied, err := h.resolver.ApplySuggestion(c.Request.Context(), req.Conflict.ToModel(), req.Suggestion)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.ApplySuggestionResponse{Applied: applied}
	if !applied {
		resp.Message = "suggestion no longer applies to the current schedule state"
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// AutoResolve godoc
// @Summary Run one automatic resolution pass over a schedule
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/auto-resolve [post]
func (h *ConflictHandler) AutoResolve(c *gin.Context) {
	report, err := h.resolver.AutoResolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
