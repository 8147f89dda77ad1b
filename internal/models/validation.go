package models

// ValidationResult separates hard failures from advisory findings. A result
// with zero errors is valid regardless of warning count; callers decide
// whether warnings block a commit.
type ValidationResult struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// AddError records a hard failure.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a soft finding.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// IsValid reports whether no hard failures were recorded.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any advisory findings exist.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}
