package models

import "time"

// Room is a physical teaching space. Equipment is a free-form comma
// separated tag list; the three boolean flags are the hard requirements the
// compatibility scorer checks individually.
type Room struct {
	ID            string    `db:"id" json:"id"`
	Number        string    `db:"number" json:"number"`
	Building      *string   `db:"building" json:"building,omitempty"`
	Floor         *int      `db:"floor" json:"floor,omitempty"`
	Zone          *string   `db:"zone" json:"zone,omitempty"`
	Capacity      int       `db:"capacity" json:"capacity"`
	Type          *string   `db:"type" json:"type,omitempty"`
	HasProjector  bool      `db:"has_projector" json:"has_projector"`
	HasSmartboard bool      `db:"has_smartboard" json:"has_smartboard"`
	HasComputers  bool      `db:"has_computers" json:"has_computers"`
	Equipment     string    `db:"equipment" json:"equipment"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
