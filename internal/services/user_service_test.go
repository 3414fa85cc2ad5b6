package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidhall/auction-api/internal/models"
)

func TestCreateUserRejectsReservedUsername(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, NewAuditService(&mockAuditRepository{}))

	err := svc.Create(context.Background(), &models.User{
		Username: models.SystemUsername,
		Email:    "imposter@example.com",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRoleValidatesRole(t *testing.T) {
	repo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "bidder1", Role: models.RoleBidder}, nil
		},
	}
	audits := &mockAuditRepository{}
	svc := NewUserService(repo, NewAuditService(audits))

	_, err := svc.UpdateRole(context.Background(), 2, "superuser", 50)
	assert.ErrorIs(t, err, ErrValidation)

	user, err := svc.UpdateRole(context.Background(), 2, models.RoleAuctioneer, 50)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuctioneer, user.Role)
	assert.Len(t, audits.all(), 1)
}

func TestUpdateRoleProtectsSystemAccount(t *testing.T) {
	repo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: models.SystemUsername, Role: models.RoleAdmin}, nil
		},
	}
	svc := NewUserService(repo, NewAuditService(&mockAuditRepository{}))

	_, err := svc.UpdateRole(context.Background(), 1, models.RoleBidder, 50)
	assert.ErrorIs(t, err, ErrValidation)
}
