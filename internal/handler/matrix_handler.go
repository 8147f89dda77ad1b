package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusgrid/scheduler-api/internal/dto"
	"github.com/campusgrid/scheduler-api/internal/service"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
	"github.com/campusgrid/scheduler-api/pkg/jobs"
	"github.com/campusgrid/scheduler-api/pkg/response"
)

// MatrixHandler exposes conflict matrix endpoints.
type MatrixHandler struct {
	matrix   *service.ConflictMatrixService
	rebuilds *jobs.Queue
}

// NewMatrixHandler constructs a matrix handler. The rebuild queue is optional;
// without it the async rebuild path falls back to synchronous.
func NewMatrixHandler(matrix *service.ConflictMatrixService, rebuilds *jobs.Queue) *MatrixHandler {
	return &MatrixHandler{matrix: matrix, rebuilds: rebuilds}
}

// Rebuild godoc
// @Summary Rebuild the conflict matrix for a planning year
// @Tags ConflictMatrix
// @Produce json
// @Param year path int true "Planning year"
// @Param async query bool false "Queue the rebuild instead of waiting"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /conflict-matrix/{year}/rebuild [post]
func (h *MatrixHandler) Rebuild(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	if c.Query("async") == "true" && h.rebuilds != nil {
		err := h.rebuilds.Enqueue(jobs.Job{
			ID:      uuid.NewString(),
			Type:    "matrix-rebuild",
			Payload: year,
		})
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue matrix rebuild"))
			return
		}
		response.JSON(c, http.StatusAccepted, dto.MatrixRebuildResponse{Year: year}, nil)
		return
	}

	pairs, err := h.matrix.Build(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	builtAt, _ := h.matrix.BuiltAt(year)
	response.JSON(c, http.StatusOK, dto.MatrixRebuildResponse{Year: year, Pairs: pairs, BuiltAt: builtAt}, nil)
}

// Heatmap godoc
// @Summary Get the full course pair co-request heatmap for a year
// @Tags ConflictMatrix
// @Produce json
// @Param year path int true "Planning year"
// @Success 200 {object} response.Envelope
// @Router /conflict-matrix/{year}/heatmap [get]
func (h *MatrixHandler) Heatmap(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	heatmap, err := h.matrix.Heatmap(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, heatmap, nil)
}

// Singletons godoc
// @Summary List conflicting pairs involving single-section courses
// @Tags ConflictMatrix
// @Produce json
// @Param year path int true "Planning year"
// @Success 200 {object} response.Envelope
// @Router /conflict-matrix/{year}/singletons [get]
func (h *MatrixHandler) Singletons(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	entries, err := h.matrix.SingletonConflicts(year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// PairStats godoc
// @Summary Get co-request count and percentage for a course pair
// @Tags ConflictMatrix
// @Produce json
// @Param courseA query string true "First course code"
// @Param courseB query string true "Second course code"
// @Param year query int true "Planning year"
// @Success 200 {object} response.Envelope
// @Router /conflict-matrix/pair [get]
func (h *MatrixHandler) PairStats(c *gin.Context) {
	courseA := c.Query("courseA")
	courseB := c.Query("courseB")
	if courseA == "" || courseB == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseA and courseB are required"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
		return
	}
	if _, built := h.matrix.BuiltAt(year); !built {
		response.Error(c, appErrors.ErrMatrixNotBuilt)
		return
	}

	courseA, courseB = orderedPair(courseA, courseB)
	response.JSON(c, http.StatusOK, dto.PairStatsResponse{
		CourseA:    courseA,
		CourseB:    courseB,
		Year:       year,
		Count:      h.matrix.ConflictCount(courseA, courseB, year),
		Percentage: h.matrix.ConflictPercentage(courseA, courseB, year),
	}, nil)
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
		return 0, false
	}
	return year, true
}

func orderedPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
