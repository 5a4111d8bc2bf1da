package model

import "time"

// School groups school-scoped organizers and admins under one institution.
type School struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// School application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// SchoolApplication is a request to register a school on the platform.
// Approval atomically creates the School and grants the applicant
// SCHOOL_ADMIN access.
type SchoolApplication struct {
	ID          string    `json:"id"`
	ApplicantID string    `json:"applicant_id"`
	SchoolName  string    `json:"school_name"`
	Contact     string    `json:"contact,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
