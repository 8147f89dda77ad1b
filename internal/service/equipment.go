package service

import (
	"fmt"
	"strings"

	"github.com/campusgrid/scheduler-api/internal/models"
)

// Equipment scoring starts from a perfect score and subtracts a fixed
// penalty per unmet requirement. The room-type penalty alone zeroes the
// score: a lab course in a lecture hall is never a partial fit.
const (
	equipmentBaseScore    = 100
	roomTypePenalty       = 100
	projectorPenalty      = 30
	smartboardPenalty     = 30
	computersPenalty      = 40
	additionalItemPenalty = 10
)

// EquipmentScore rates how well a room satisfies a course's equipment
// requirements, from 0 (unusable) to 100 (perfect fit).
func EquipmentScore(course *models.Course, room *models.Room) int {
	if course == nil || room == nil {
		return 0
	}

	score := equipmentBaseScore
	if !roomTypeMatches(course, room) {
		score -= roomTypePenalty
	}
	if course.RequiresProjector && !room.HasProjector {
		score -= projectorPenalty
	}
	if course.RequiresSmartboard && !room.HasSmartboard {
		score -= smartboardPenalty
	}
	if course.RequiresComputers && !room.HasComputers {
		score -= computersPenalty
	}
	score -= additionalItemPenalty * len(missingAdditionalEquipment(course, room))

	if score < 0 {
		return 0
	}
	return score
}

// MeetsEquipmentRequirements reports whether the room satisfies every hard
// requirement: room type and the three fixed installations. Additional
// free-form equipment only affects the score, never this check.
func MeetsEquipmentRequirements(course *models.Course, room *models.Room) bool {
	if course == nil || room == nil {
		return false
	}
	if !roomTypeMatches(course, room) {
		return false
	}
	if course.RequiresProjector && !room.HasProjector {
		return false
	}
	if course.RequiresSmartboard && !room.HasSmartboard {
		return false
	}
	if course.RequiresComputers && !room.HasComputers {
		return false
	}
	return true
}

// MissingEquipment lists each unmet requirement in human-readable form.
func MissingEquipment(course *models.Course, room *models.Room) []string {
	if course == nil || room == nil {
		return nil
	}

	missing := make([]string, 0)
	if !roomTypeMatches(course, room) {
		missing = append(missing, fmt.Sprintf("room type %s", strings.TrimSpace(*course.RequiredRoomType)))
	}
	if course.RequiresProjector && !room.HasProjector {
		missing = append(missing, "projector")
	}
	if course.RequiresSmartboard && !room.HasSmartboard {
		missing = append(missing, "smartboard")
	}
	if course.RequiresComputers && !room.HasComputers {
		missing = append(missing, "computers")
	}
	missing = append(missing, missingAdditionalEquipment(course, room)...)
	return missing
}

// EquipmentPenaltyBucket maps a compatibility score onto the penalty the
// optimizer charges for placing the course in that room.
func EquipmentPenaltyBucket(score int) int {
	switch {
	case score >= 100:
		return 0
	case score >= 70:
		return 2
	case score >= 40:
		return 5
	default:
		return 10
	}
}

func roomTypeMatches(course *models.Course, room *models.Room) bool {
	if course.RequiredRoomType == nil || strings.TrimSpace(*course.RequiredRoomType) == "" {
		return true
	}
	if room.Type == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*course.RequiredRoomType), strings.TrimSpace(*room.Type))
}

func missingAdditionalEquipment(course *models.Course, room *models.Room) []string {
	wanted := splitEquipmentList(course.AdditionalEquipment)
	if len(wanted) == 0 {
		return nil
	}
	available := make(map[string]struct{})
	for _, item := range splitEquipmentList(room.Equipment) {
		available[strings.ToLower(item)] = struct{}{}
	}

	missing := make([]string, 0)
	for _, item := range wanted {
		if _, ok := available[strings.ToLower(item)]; !ok {
			missing = append(missing, item)
		}
	}
	return missing
}

func splitEquipmentList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
