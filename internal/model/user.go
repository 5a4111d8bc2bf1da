package model

import "time"

type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	SchoolID    string     `json:"school_id,omitempty"`
	ProfileURL  string     `json:"profile_url,omitempty"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsSuspended returns true if the user account is currently suspended.
func (u *User) IsSuspended() bool {
	return u.SuspendedAt != nil
}

// Principal returns the scope tuple consumed by event visibility rules.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, SchoolID: u.SchoolID}
}
