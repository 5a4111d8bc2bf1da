package service

import (
	"context"
	"fmt"

	"github.com/shaderlpay/backend/internal/model"
	"github.com/shaderlpay/backend/internal/repository"
)

// AdminUserService is the platform-admin view over users.
type AdminUserService interface {
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
	Suspend(ctx context.Context, id string, suspend bool) error
	Delete(ctx context.Context, id string) error
}

// AdminUserServiceImpl implements AdminUserService.
type AdminUserServiceImpl struct {
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
}

// NewAdminUserService creates an AdminUserServiceImpl.
func NewAdminUserService(userRepo repository.UserRepository, eventRepo repository.EventRepository) AdminUserService {
	return &AdminUserServiceImpl{userRepo: userRepo, eventRepo: eventRepo}
}

func (s *AdminUserServiceImpl) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.userRepo.List(ctx, limit, offset)
}

func (s *AdminUserServiceImpl) Suspend(ctx context.Context, id string, suspend bool) error {
	return s.userRepo.Suspend(ctx, id, suspend)
}

// Delete refuses to remove an organizer that still owns events — those must
// be deleted or reassigned first.
func (s *AdminUserServiceImpl) Delete(ctx context.Context, id string) error {
	n, err := s.eventRepo.CountByOrganizer(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: user still owns %d event(s)", ErrConflict, n)
	}
	return s.userRepo.Delete(ctx, id)
}
