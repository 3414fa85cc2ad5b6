package services

import (
	"context"
	"fmt"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/pkg/logger"
)

// UserService manages user accounts and role assignment
type UserService struct {
	repo     repository.UserRepository
	auditSvc *AuditService
}

func NewUserService(repo repository.UserRepository, auditSvc *AuditService) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) Create(ctx context.Context, user *models.User) error {
	if user.Username == "" || user.Email == "" {
		return fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if user.Username == models.SystemUsername {
		return fmt.Errorf("%w: username %q is reserved", ErrValidation, models.SystemUsername)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// UpdateRole changes a user's role. The reserved system account keeps its
// admin role.
func (s *UserService) UpdateRole(ctx context.Context, id uint, role string, actorID uint) (*models.User, error) {
	switch role {
	case models.RoleAuctioneer, models.RoleBidder, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if user.Username == models.SystemUsername {
		return nil, fmt.Errorf("%w: the system account role cannot change", ErrValidation)
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, wrapStoreErr(err)
	}
	user.Role = role

	if err := s.auditSvc.Log(ctx, actorID, "UPDATE", "User", user.ID,
		fmt.Sprintf("Role of user %s changed to %s", user.Username, role)); err != nil {
		logger.Warn("Failed to audit role change", "user_id", user.ID, "error", err)
	}

	return user, nil
}
