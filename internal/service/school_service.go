package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
)

// SchoolService handles school registration applications.
type SchoolService interface {
	Apply(ctx context.Context, principal model.Principal, schoolName, contact string) (*model.SchoolApplication, error)
	ListApplications(ctx context.Context, status string, limit, offset int) ([]*model.SchoolApplication, error)
	Approve(ctx context.Context, applicationID string) (*model.School, error)
	Reject(ctx context.Context, applicationID string) error
}

// SchoolServiceImpl implements SchoolService.
type SchoolServiceImpl struct {
	schoolRepo repository.SchoolRepository
}

// NewSchoolService creates a SchoolServiceImpl.
func NewSchoolService(schoolRepo repository.SchoolRepository) SchoolService {
	return &SchoolServiceImpl{schoolRepo: schoolRepo}
}

func (s *SchoolServiceImpl) Apply(ctx context.Context, principal model.Principal, schoolName, contact string) (*model.SchoolApplication, error) {
	name := strings.TrimSpace(schoolName)
	if name == "" {
		return nil, &ValidationError{Fields: map[string]string{"school_name": "school name is required"}}
	}
	app := &model.SchoolApplication{
		ApplicantID: principal.ID,
		SchoolName:  name,
		Contact:     contact,
	}
	if err := s.schoolRepo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *SchoolServiceImpl) ListApplications(ctx context.Context, status string, limit, offset int) ([]*model.SchoolApplication, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.schoolRepo.ListApplications(ctx, status, limit, offset)
}

// Approve runs the atomic approval (school created, application approved,
// applicant granted SCHOOL_ADMIN). Approving twice is a conflict.
func (s *SchoolServiceImpl) Approve(ctx context.Context, applicationID string) (*model.School, error) {
	code := newSchoolCode()
	school, err := s.schoolRepo.Approve(ctx, applicationID, code)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: application already decided", ErrConflict)
		}
		return nil, err
	}
	return school, nil
}

func (s *SchoolServiceImpl) Reject(ctx context.Context, applicationID string) error {
	return s.schoolRepo.Reject(ctx, applicationID)
}

// newSchoolCode produces a short join code like "SCH-4F9A2B".
func newSchoolCode() string {
	return "SCH-" + strings.ToUpper(uuid.NewString()[:6])
}
