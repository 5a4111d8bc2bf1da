package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
	listFunc     func(ctx context.Context, limit, offset int) ([]*model.User, error)
	suspendFunc  func(ctx context.Context, id string, suspend bool) error
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return nil
}
func (m *mockUserRepository) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, nil
}
func (m *mockUserRepository) Suspend(ctx context.Context, id string, suspend bool) error {
	if m.suspendFunc != nil {
		return m.suspendFunc(ctx, id, suspend)
	}
	return nil
}
func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// AdminUserService tests
// ---------------------------------------------------------------------------

func TestAdminUserService_Delete_RefusesOwnerOfEvents(t *testing.T) {
	eventRepo := &mockEventRepository{
		countByOrganizerFunc: func(ctx context.Context, organizerID string) (int, error) {
			return 2, nil
		},
	}
	deleted := false
	userRepo := &mockUserRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewAdminUserService(userRepo, eventRepo)

	err := svc.Delete(context.Background(), "u1")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if deleted {
		t.Error("user must not be deleted while owning events")
	}
}

func TestAdminUserService_Delete_Success(t *testing.T) {
	deleted := false
	userRepo := &mockUserRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewAdminUserService(userRepo, &mockEventRepository{})

	if err := svc.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected user deletion")
	}
}

func TestAdminUserService_Suspend_Passthrough(t *testing.T) {
	var gotSuspend bool
	userRepo := &mockUserRepository{
		suspendFunc: func(ctx context.Context, id string, suspend bool) error {
			gotSuspend = suspend
			return nil
		},
	}
	svc := NewAdminUserService(userRepo, &mockEventRepository{})

	if err := svc.Suspend(context.Background(), "u1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotSuspend {
		t.Error("suspend flag not forwarded")
	}
}

func TestAdminUserService_List_ClampsLimit(t *testing.T) {
	var gotLimit int
	userRepo := &mockUserRepository{
		listFunc: func(ctx context.Context, limit, offset int) ([]*model.User, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewAdminUserService(userRepo, &mockEventRepository{})

	if _, err := svc.List(context.Background(), 1000, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("expected clamped limit 50, got %d", gotLimit)
	}
}
