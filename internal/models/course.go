package models

import "time"

// Course is an offered course in a planning year, with the equipment and
// capacity requirements the feasibility validator checks.
type Course struct {
	ID                 string  `db:"id" json:"id"`
	Code               string  `db:"code" json:"code"`
	Name               string  `db:"name" json:"name"`
	Year               int     `db:"year" json:"year"`
	SectionCount       int     `db:"section_count" json:"section_count"`
	CurrentEnrollment  int     `db:"current_enrollment" json:"current_enrollment"`
	MaxStudents        *int    `db:"max_students" json:"max_students,omitempty"`
	RequiredRoomType   *string `db:"required_room_type" json:"required_room_type,omitempty"`
	RequiresProjector  bool    `db:"requires_projector" json:"requires_projector"`
	RequiresSmartboard bool    `db:"requires_smartboard" json:"requires_smartboard"`
	RequiresComputers  bool    `db:"requires_computers" json:"requires_computers"`
	// AdditionalEquipment is a comma-separated soft requirement list.
	AdditionalEquipment string `db:"additional_equipment" json:"additional_equipment"`
	// MaxRoomDistanceMinutes bounds pairwise proximity for multi-room
	// assignments; nil falls back to the engine default.
	MaxRoomDistanceMinutes *int      `db:"max_room_distance_minutes" json:"max_room_distance_minutes,omitempty"`
	UsesMultipleRooms      bool      `db:"uses_multiple_rooms" json:"uses_multiple_rooms"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// IsSingleton reports whether the course is offered in exactly one section.
func (c *Course) IsSingleton() bool {
	return c != nil && c.SectionCount == 1
}

// HasEquipmentRequirements reports whether any hard or soft requirement is set.
func (c *Course) HasEquipmentRequirements() bool {
	if c == nil {
		return false
	}
	return c.RequiredRoomType != nil ||
		c.RequiresProjector || c.RequiresSmartboard || c.RequiresComputers ||
		len(c.AdditionalEquipment) > 0
}
