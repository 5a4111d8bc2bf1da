package model

// Scope is the event-visibility rule for one principal, expressed as data so
// the repository can translate it to SQL and tests can evaluate it in memory.
// service.EventScope is the only producer.
type Scope struct {
	OrganizerID string
	SchoolID    string
	SchoolMode  SchoolMode
}

// SchoolMode widens or narrows the organizer match for school-scoped roles.
type SchoolMode int

const (
	SchoolIgnored SchoolMode = iota // organizer_id match only
	SchoolEither                    // organizer_id match OR school_id match
	SchoolBoth                      // organizer_id match AND school_id match
)

// Matches reports whether the event falls inside the scope.
func (s Scope) Matches(e *Event) bool {
	own := e.OrganizerID == s.OrganizerID
	school := s.SchoolID != "" && e.SchoolID == s.SchoolID
	switch s.SchoolMode {
	case SchoolEither:
		return own || school
	case SchoolBoth:
		return own && school
	default:
		return own
	}
}
