package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/scheduler-api/internal/dto"
	"github.com/campusgrid/scheduler-api/internal/models"
	"github.com/campusgrid/scheduler-api/internal/service"
	"github.com/campusgrid/scheduler-api/pkg/config"
)

type slotRepoStub struct {
	slots []models.ScheduleSlot
}

func (s *slotRepoStub) ListBySchedule(_ context.Context, scheduleID string) ([]models.ScheduleSlot, error) {
	out := make([]models.ScheduleSlot, 0)
	for _, slot := range s.slots {
		if slot.ScheduleID == scheduleID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotRepoStub) FindByID(_ context.Context, id string) (*models.ScheduleSlot, error) {
	for i := range s.slots {
		if s.slots[i].ID == id {
			slot := s.slots[i]
			return &slot, nil
		}
	}
	return nil, nil
}

func (s *slotRepoStub) ListByTeacher(_ context.Context, teacherID string) ([]models.ScheduleSlot, error) {
	out := make([]models.ScheduleSlot, 0)
	for _, slot := range s.slots {
		if slot.TeacherID != nil && *slot.TeacherID == teacherID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotRepoStub) ListByRoom(_ context.Context, roomID string) ([]models.ScheduleSlot, error) {
	out := make([]models.ScheduleSlot, 0)
	for _, slot := range s.slots {
		if slot.RoomID != nil && *slot.RoomID == roomID {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *slotRepoStub) Update(_ context.Context, slot *models.ScheduleSlot) error {
	for i := range s.slots {
		if s.slots[i].ID == slot.ID {
			s.slots[i] = *slot
		}
	}
	return nil
}

func (s *slotRepoStub) UpdateConflictFlags(_ context.Context, _ string, _ []string) error {
	return nil
}

type roomRepoStub struct {
	rooms []models.Room
}

func (s *roomRepoStub) FindByID(_ context.Context, id string) (*models.Room, error) {
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			room := s.rooms[i]
			return &room, nil
		}
	}
	return nil, nil
}

func (s *roomRepoStub) ListByIDs(_ context.Context, ids []string) ([]models.Room, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]models.Room, 0)
	for _, room := range s.rooms {
		if _, ok := want[room.ID]; ok {
			out = append(out, room)
		}
	}
	return out, nil
}

func (s *roomRepoStub) ListActive(_ context.Context) ([]models.Room, error) {
	out := make([]models.Room, 0)
	for _, room := range s.rooms {
		if room.Active {
			out = append(out, room)
		}
	}
	return out, nil
}

type teacherRepoStub struct {
	teachers []models.Teacher
}

func (s *teacherRepoStub) ListActive(_ context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type outcomeRepoStub struct{}

func (outcomeRepoStub) Record(_ context.Context, _ *models.ResolutionOutcome) error {
	return nil
}

func (outcomeRepoStub) ListRecentByType(_ context.Context, _ models.ResolutionType, _ int) ([]models.ResolutionOutcome, error) {
	return nil, nil
}

func stubSlot(id, scheduleID string, teacherID, roomID *string, start, end int) models.ScheduleSlot {
	day := string(models.Monday)
	dayType := string(models.DayTypeDaily)
	return models.ScheduleSlot{
		ID:          id,
		ScheduleID:  scheduleID,
		TeacherID:   teacherID,
		RoomID:      roomID,
		DayOfWeek:   &day,
		DayType:     &dayType,
		StartMinute: &start,
		EndMinute:   &end,
		Enrollment:  10,
	}
}

func ref(s string) *string { return &s }

func newConflictHandlerFixture(slots *slotRepoStub, rooms *roomRepoStub, teachers *teacherRepoStub) *ConflictHandler {
	cfg := config.EngineConfig{
		HardViolationWeight:       50,
		SoftViolationWeight:       25,
		AffectedEntityWeight:      25,
		CascadeWeight:             25,
		CascadeUnitScore:          5,
		TimeSensitivityWeight:     10,
		AutoApplyMaxImpact:        20,
		AutoApplyMinSuccess:       75,
		AutoApplyEnrollmentCap:    30,
		SuggestionConfidenceFloor: 55,
		HistoryWindow:             100,
	}
	detector := service.NewConflictDetectorService(slots, rooms, nil, nil)
	resolver := service.NewResolutionService(slots, rooms, teachers, outcomeRepoStub{}, detector, nil, cfg, nil)
	return NewConflictHandler(detector, resolver, nil)
}

func doubleBookedFixture() (*slotRepoStub, *ConflictHandler) {
	slots := &slotRepoStub{slots: []models.ScheduleSlot{
		stubSlot("slot-1", "sched-1", ref("teacher-1"), ref("room-1"), 540, 600),
		stubSlot("slot-2", "sched-1", ref("teacher-1"), ref("room-2"), 570, 630),
	}}
	teachers := &teacherRepoStub{teachers: []models.Teacher{
		{ID: "teacher-1", FullName: "Ana Ruiz", Active: true},
		{ID: "teacher-2", FullName: "Ben Osei", Active: true},
	}}
	return slots, newConflictHandlerFixture(slots, &roomRepoStub{}, teachers)
}

func TestConflictHandlerDetect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, handler := doubleBookedFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1/conflicts", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	handler.Detect(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Conflict `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, models.ConflictTeacherDoubleBook, resp.Data[0].Kind)
}

func TestConflictHandlerCheckMoveInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, handler := doubleBookedFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/slots/slot-2/check-move", bytes.NewBufferString(`{"interval":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "slot-2"}}

	handler.CheckMove(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictHandlerCheckMoveMissingDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, handler := doubleBookedFixture()

	// Without a day qualifier the window could never collide with anything,
	// so the request is rejected instead of reported feasible.
	payload, _ := json.Marshal(dto.CheckMoveRequest{Interval: dto.IntervalPayload{
		StartTime: "09:00",
		EndTime:   "10:00",
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/slots/slot-2/check-move", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "slot-2"}}

	handler.CheckMove(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictHandlerCheckMoveFeasible(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, handler := doubleBookedFixture()

	payload, _ := json.Marshal(dto.CheckMoveRequest{Interval: dto.IntervalPayload{
		DayOfWeek: "TUESDAY",
		StartTime: "09:00",
		EndTime:   "10:00",
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/slots/slot-2/check-move", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "slot-2"}}

	handler.CheckMove(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.CheckMoveResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Feasible)
	assert.Empty(t, resp.Data.Conflicts)
}

func TestConflictHandlerPrioritize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, handler := doubleBookedFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/sched-1/conflicts/priority", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	handler.Prioritize(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []dto.PrioritizedConflict `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, resp.Data[0].Conflict.Key(), resp.Data[0].Score.ConflictKey)
	assert.NotZero(t, resp.Data[0].Score.Total)
}

func TestConflictHandlerSuggest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, handler := doubleBookedFixture()

	payload, _ := json.Marshal(dto.SuggestionsRequest{Conflict: dto.ConflictPayload{
		Kind:      "TEACHER_DOUBLE_BOOK",
		SlotIDs:   []string{"slot-1", "slot-2"},
		TeacherID: ref("teacher-1"),
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/conflicts/suggestions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Suggest(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Suggestion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, models.ResolutionChangeTeacher, resp.Data[0].Type)
}

func TestConflictHandlerSuggestUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, handler := doubleBookedFixture()

	payload, _ := json.Marshal(dto.SuggestionsRequest{Conflict: dto.ConflictPayload{
		Kind:    "SOLAR_FLARE",
		SlotIDs: []string{"slot-1"},
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/conflicts/suggestions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Suggest(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictHandlerApplyStaleSuggestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	slots, handler := doubleBookedFixture()
	// The slot was already reassigned, so the suggestion no longer matches.
	slots.slots[1].TeacherID = ref("teacher-9")

	payload, _ := json.Marshal(dto.ApplySuggestionRequest{
		Conflict: dto.ConflictPayload{
			Kind:      "TEACHER_DOUBLE_BOOK",
			SlotIDs:   []string{"slot-1", "slot-2"},
			TeacherID: ref("teacher-1"),
		},
		Suggestion: models.Suggestion{
			ID:                "sug-1",
			Type:              models.ResolutionChangeTeacher,
			TargetSlotID:      "slot-2",
			ProposedTeacherID: ref("teacher-2"),
		},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/conflicts/apply", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Apply(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data dto.ApplySuggestionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Applied)
	assert.NotEmpty(t, resp.Data.Message)
}

func TestConflictHandlerAutoResolve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	slots, handler := doubleBookedFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedules/sched-1/auto-resolve", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sched-1"}}

	handler.AutoResolve(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.AutoResolveReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Detected)
	assert.True(t, resp.Data.FullyResolved)

	moved, err := slots.FindByID(context.Background(), "slot-2")
	require.NoError(t, err)
	assert.Equal(t, "teacher-2", *moved.TeacherID)
}
