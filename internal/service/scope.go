package service

import (
	"github.com/shaderlpay/backend/internal/model"
)

// EventScope maps a principal to its event-visibility scope. This is the
// single source of truth for role dispatch; endpoints must not re-derive it.
//
//	SCHOOL_ADMIN      own events OR any event of their school
//	SCHOOL_ORGANIZER  own events AND within their school
//	ORGANIZER         own events
//	SUPER_ADMIN       own events (review endpoints cover the platform view)
func EventScope(p model.Principal) model.Scope {
	switch p.Role {
	case model.RoleSchoolAdmin:
		return model.Scope{OrganizerID: p.ID, SchoolID: p.SchoolID, SchoolMode: model.SchoolEither}
	case model.RoleSchoolOrganizer:
		return model.Scope{OrganizerID: p.ID, SchoolID: p.SchoolID, SchoolMode: model.SchoolBoth}
	default:
		return model.Scope{OrganizerID: p.ID}
	}
}

// CanManage reports whether the principal may mutate the event (owner, or a
// school admin of the event's school).
func CanManage(p model.Principal, e *model.Event) bool {
	if e.OrganizerID == p.ID {
		return true
	}
	return p.Role == model.RoleSchoolAdmin && p.SchoolID != "" && e.SchoolID == p.SchoolID
}
