package service

import (
	"testing"

	"github.com/shaderlpay/backend/internal/model"
)

// ---------------------------------------------------------------------------
// EventScope tests
// ---------------------------------------------------------------------------

func TestEventScope_Organizer_OwnOnly(t *testing.T) {
	p := model.Principal{ID: "u1", Role: model.RoleOrganizer}
	scope := EventScope(p)

	if !scope.Matches(&model.Event{OrganizerID: "u1"}) {
		t.Error("own event must match")
	}
	if scope.Matches(&model.Event{OrganizerID: "u2"}) {
		t.Error("foreign event must not match")
	}
}

func TestEventScope_SchoolOrganizer_OwnAndSchool(t *testing.T) {
	p := model.Principal{ID: "7", Role: model.RoleSchoolOrganizer, SchoolID: "3"}
	scope := EventScope(p)

	cases := []struct {
		name  string
		event *model.Event
		want  bool
	}{
		{"own within school", &model.Event{OrganizerID: "7", SchoolID: "3"}, true},
		{"own outside school", &model.Event{OrganizerID: "7", SchoolID: "9"}, false},
		{"own with no school", &model.Event{OrganizerID: "7"}, false},
		{"colleague same school", &model.Event{OrganizerID: "8", SchoolID: "3"}, false},
	}
	for _, tc := range cases {
		if got := scope.Matches(tc.event); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestEventScope_SchoolAdmin_OwnOrSchool(t *testing.T) {
	p := model.Principal{ID: "a1", Role: model.RoleSchoolAdmin, SchoolID: "s1"}
	scope := EventScope(p)

	if !scope.Matches(&model.Event{OrganizerID: "a1"}) {
		t.Error("own event must match")
	}
	if !scope.Matches(&model.Event{OrganizerID: "other", SchoolID: "s1"}) {
		t.Error("school event must match")
	}
	if scope.Matches(&model.Event{OrganizerID: "other", SchoolID: "s2"}) {
		t.Error("other school must not match")
	}
}

func TestEventScope_SuperAdmin_OwnOnly(t *testing.T) {
	scope := EventScope(model.Principal{ID: "sa", Role: model.RoleSuperAdmin})
	if scope.Matches(&model.Event{OrganizerID: "other"}) {
		t.Error("super admin dashboard lists own events only")
	}
}

// ---------------------------------------------------------------------------
// CanManage tests
// ---------------------------------------------------------------------------

func TestCanManage_Owner(t *testing.T) {
	p := model.Principal{ID: "u1", Role: model.RoleOrganizer}
	if !CanManage(p, &model.Event{OrganizerID: "u1"}) {
		t.Error("owner must be able to manage")
	}
	if CanManage(p, &model.Event{OrganizerID: "u2"}) {
		t.Error("non-owner must not manage")
	}
}

func TestCanManage_SchoolAdminOverSchoolEvent(t *testing.T) {
	p := model.Principal{ID: "a1", Role: model.RoleSchoolAdmin, SchoolID: "s1"}
	if !CanManage(p, &model.Event{OrganizerID: "u9", SchoolID: "s1"}) {
		t.Error("school admin must manage school events")
	}
	if CanManage(p, &model.Event{OrganizerID: "u9", SchoolID: "s2"}) {
		t.Error("school admin must not manage other schools")
	}
	if CanManage(p, &model.Event{OrganizerID: "u9"}) {
		t.Error("school admin must not manage unaffiliated events")
	}
}
