package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock SchoolRepository
// ---------------------------------------------------------------------------

type mockSchoolRepository struct {
	createApplicationFunc func(ctx context.Context, a *model.SchoolApplication) error
	getApplicationFunc    func(ctx context.Context, id string) (*model.SchoolApplication, error)
	listApplicationsFunc  func(ctx context.Context, status string, limit, offset int) ([]*model.SchoolApplication, error)
	approveFunc           func(ctx context.Context, applicationID, schoolCode string) (*model.School, error)
	rejectFunc            func(ctx context.Context, applicationID string) error
}

func (m *mockSchoolRepository) GetSchool(ctx context.Context, id string) (*model.School, error) {
	return nil, repository.ErrNotFound
}
func (m *mockSchoolRepository) CreateApplication(ctx context.Context, a *model.SchoolApplication) error {
	if m.createApplicationFunc != nil {
		return m.createApplicationFunc(ctx, a)
	}
	return nil
}
func (m *mockSchoolRepository) GetApplication(ctx context.Context, id string) (*model.SchoolApplication, error) {
	if m.getApplicationFunc != nil {
		return m.getApplicationFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockSchoolRepository) ListApplications(ctx context.Context, status string, limit, offset int) ([]*model.SchoolApplication, error) {
	if m.listApplicationsFunc != nil {
		return m.listApplicationsFunc(ctx, status, limit, offset)
	}
	return nil, nil
}
func (m *mockSchoolRepository) Approve(ctx context.Context, applicationID, schoolCode string) (*model.School, error) {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, applicationID, schoolCode)
	}
	return nil, nil
}
func (m *mockSchoolRepository) Reject(ctx context.Context, applicationID string) error {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, applicationID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// SchoolService tests
// ---------------------------------------------------------------------------

func TestSchoolService_Apply_CreatesPendingApplication(t *testing.T) {
	var saved *model.SchoolApplication
	mock := &mockSchoolRepository{
		createApplicationFunc: func(ctx context.Context, a *model.SchoolApplication) error {
			saved = a
			return nil
		},
	}
	svc := NewSchoolService(mock)

	p := model.Principal{ID: "u1", Role: model.RoleOrganizer}
	app, err := svc.Apply(context.Background(), p, "  Lycée Bilingue  ", "admin@lycee.cm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || app.ApplicantID != "u1" {
		t.Fatalf("application not persisted for applicant: %+v", saved)
	}
	if app.SchoolName != "Lycée Bilingue" {
		t.Errorf("expected trimmed name, got %q", app.SchoolName)
	}
}

func TestSchoolService_Apply_RequiresName(t *testing.T) {
	svc := NewSchoolService(&mockSchoolRepository{})
	_, err := svc.Apply(context.Background(), model.Principal{ID: "u1"}, "   ", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["school_name"]; !ok {
		t.Errorf("expected school_name violation, got %v", verr.Fields)
	}
}

func TestSchoolService_Approve_GeneratesJoinCode(t *testing.T) {
	var gotCode string
	mock := &mockSchoolRepository{
		approveFunc: func(ctx context.Context, applicationID, schoolCode string) (*model.School, error) {
			gotCode = schoolCode
			return &model.School{ID: "s1", Code: schoolCode, Approved: true}, nil
		},
	}
	svc := NewSchoolService(mock)

	school, err := svc.Approve(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(gotCode, "SCH-") || len(gotCode) != 10 {
		t.Errorf("unexpected join code %q", gotCode)
	}
	if !school.Approved {
		t.Error("approved school must be marked approved")
	}
}

func TestSchoolService_Approve_AlreadyDecidedConflicts(t *testing.T) {
	mock := &mockSchoolRepository{
		approveFunc: func(ctx context.Context, applicationID, schoolCode string) (*model.School, error) {
			return nil, repository.ErrDuplicate
		},
	}
	svc := NewSchoolService(mock)
	_, err := svc.Approve(context.Background(), "app-1")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestSchoolService_ListApplications_ClampsLimit(t *testing.T) {
	var gotLimit int
	mock := &mockSchoolRepository{
		listApplicationsFunc: func(ctx context.Context, status string, limit, offset int) ([]*model.SchoolApplication, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewSchoolService(mock)

	if _, err := svc.ListApplications(context.Background(), "pending", 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 20 {
		t.Errorf("expected default limit 20, got %d", gotLimit)
	}
}
