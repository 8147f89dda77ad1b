package models

import "time"

// EnrollmentRequest is one student's request to take a course in a year.
type EnrollmentRequest struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseCode string    `db:"course_code" json:"course_code"`
	Year       int       `db:"year" json:"year"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ConflictMatrixEntry counts students co-requesting a pair of courses in a
// planning year. Entries are symmetric; CourseA/CourseB are stored in
// lexicographic order and self-pairs are excluded.
type ConflictMatrixEntry struct {
	CourseA    string  `json:"course_a"`
	CourseB    string  `json:"course_b"`
	Year       int     `json:"year"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	// Singleton marks pairs where at least one side has a single section;
	// such pairs must never share a period.
	Singleton     bool `json:"singleton"`
	PriorityLevel int  `json:"priority_level"`
}

// PairKey returns the canonical ordered key for a course pair.
func PairKey(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}
