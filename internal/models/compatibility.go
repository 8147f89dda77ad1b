package models

// CompatibilityReport summarizes how well one room fits one course.
type CompatibilityReport struct {
	CourseID          string   `json:"course_id"`
	CourseCode        string   `json:"course_code"`
	RoomID            string   `json:"room_id"`
	RoomNumber        string   `json:"room_number"`
	Score             int      `json:"score"`
	MeetsRequirements bool     `json:"meets_requirements"`
	MissingEquipment  []string `json:"missing_equipment"`
	// PenaltyBucket is the optimizer cost tier derived from the score.
	PenaltyBucket int `json:"penalty_bucket"`
}
