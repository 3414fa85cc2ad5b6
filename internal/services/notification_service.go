package services

import (
	"context"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
)

// NotificationService manages in-app notification rows. Creation happens
// through the dispatcher after domain events; users read, acknowledge and
// delete their own rows through the API.
type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo}
}

func (s *NotificationService) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return notification, nil
}

func (s *NotificationService) FindByUser(ctx context.Context, userID uint, query *repository.ListQuery) ([]models.Notification, int64, error) {
	return s.repo.FindByUser(ctx, userID, query)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uint) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return wrapStoreErr(err)
	}
	notification.MarkAsRead()
	return s.repo.Update(ctx, notification)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// NotifyUser stores one notification row for the given user.
func (s *NotificationService) NotifyUser(ctx context.Context, userID uint, title, message, notifType string) error {
	return s.repo.Create(ctx, &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	})
}

// NotifyAdmins fans one notification out to every admin account. Used for
// moderation events that need a human to look at them.
func (s *NotificationService) NotifyAdmins(ctx context.Context, title, message, notifType string) error {
	admins, err := s.userRepo.FindAdmins(ctx)
	if err != nil {
		return err
	}
	for i := range admins {
		err := s.repo.Create(ctx, &models.Notification{
			UserID:           admins[i].ID,
			Title:            title,
			Message:          message,
			NotificationType: &notifType,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
