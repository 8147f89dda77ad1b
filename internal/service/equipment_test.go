package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusgrid/scheduler-api/internal/models"
)

func labCourse() *models.Course {
	return &models.Course{
		ID:                  "c1",
		Code:                "CHEM101",
		RequiredRoomType:    strPtr("LAB"),
		RequiresProjector:   true,
		RequiresComputers:   true,
		AdditionalEquipment: "fume hood, eye wash",
	}
}

func labRoom() *models.Room {
	return &models.Room{
		ID:           "r1",
		Number:       "L-201",
		Type:         strPtr("LAB"),
		HasProjector: true,
		HasComputers: true,
		Equipment:    "fume hood, eye wash, sink",
	}
}

func TestEquipmentScorePerfectFit(t *testing.T) {
	assert.Equal(t, 100, EquipmentScore(labCourse(), labRoom()))
	assert.True(t, MeetsEquipmentRequirements(labCourse(), labRoom()))
	assert.Empty(t, MissingEquipment(labCourse(), labRoom()))
}

func TestEquipmentScorePenalties(t *testing.T) {
	tests := []struct {
		name  string
		room  func(*models.Room)
		score int
	}{
		{"missing projector", func(r *models.Room) { r.HasProjector = false }, 70},
		{"missing computers", func(r *models.Room) { r.HasComputers = false }, 60},
		{"one additional item missing", func(r *models.Room) { r.Equipment = "fume hood" }, 90},
		{"both additional items missing", func(r *models.Room) { r.Equipment = "" }, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := labRoom()
			tt.room(room)
			assert.Equal(t, tt.score, EquipmentScore(labCourse(), room))
		})
	}
}

func TestEquipmentScoreWrongRoomTypeZeroes(t *testing.T) {
	room := labRoom()
	room.Type = strPtr("LECTURE")
	assert.Equal(t, 0, EquipmentScore(labCourse(), room))
	assert.False(t, MeetsEquipmentRequirements(labCourse(), room))
}

func TestEquipmentScoreClampsAtZero(t *testing.T) {
	room := &models.Room{ID: "r2", Number: "A-1"}
	// Room type, projector, computers, and both additional items all
	// missing would go negative without the clamp.
	assert.Equal(t, 0, EquipmentScore(labCourse(), room))
}

func TestEquipmentScoreNoRequirements(t *testing.T) {
	course := &models.Course{ID: "c2", Code: "HIST200"}
	room := &models.Room{ID: "r2", Number: "A-1"}
	assert.Equal(t, 100, EquipmentScore(course, room))
	assert.True(t, MeetsEquipmentRequirements(course, room))
}

func TestEquipmentScoreNilInputs(t *testing.T) {
	assert.Equal(t, 0, EquipmentScore(nil, labRoom()))
	assert.Equal(t, 0, EquipmentScore(labCourse(), nil))
	assert.False(t, MeetsEquipmentRequirements(nil, nil))
	assert.Nil(t, MissingEquipment(nil, labRoom()))
}

func TestRoomTypeMatchIsCaseInsensitive(t *testing.T) {
	course := labCourse()
	course.RequiredRoomType = strPtr(" lab ")
	room := labRoom()
	room.Type = strPtr("Lab")
	assert.True(t, MeetsEquipmentRequirements(course, room))

	room.Type = nil
	assert.False(t, MeetsEquipmentRequirements(course, room))
}

func TestMeetsRequirementsIgnoresAdditionalEquipment(t *testing.T) {
	room := labRoom()
	room.Equipment = ""
	assert.True(t, MeetsEquipmentRequirements(labCourse(), room))
	assert.Equal(t, 80, EquipmentScore(labCourse(), room))
}

func TestMissingEquipmentLabels(t *testing.T) {
	course := labCourse()
	course.RequiresSmartboard = true
	room := &models.Room{ID: "r2", Number: "A-1", Equipment: "eye wash"}

	missing := MissingEquipment(course, room)
	assert.Equal(t, []string{"room type LAB", "projector", "smartboard", "computers", "fume hood"}, missing)
}

func TestEquipmentPenaltyBucketBoundaries(t *testing.T) {
	assert.Equal(t, 0, EquipmentPenaltyBucket(100))
	assert.Equal(t, 2, EquipmentPenaltyBucket(99))
	assert.Equal(t, 2, EquipmentPenaltyBucket(70))
	assert.Equal(t, 5, EquipmentPenaltyBucket(69))
	assert.Equal(t, 5, EquipmentPenaltyBucket(40))
	assert.Equal(t, 10, EquipmentPenaltyBucket(39))
	assert.Equal(t, 10, EquipmentPenaltyBucket(0))
}
