package services

import (
	"context"
	"fmt"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/pkg/logger"
)

const maxItemImages = 10

// ItemService manages the item catalog
type ItemService struct {
	repo     repository.ItemRepository
	auditSvc *AuditService
}

func NewItemService(repo repository.ItemRepository, auditSvc *AuditService) *ItemService {
	return &ItemService{repo: repo, auditSvc: auditSvc}
}

func (s *ItemService) FindByID(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return item, nil
}

func (s *ItemService) List(ctx context.Context, query *repository.ListQuery) ([]models.Item, int64, error) {
	return s.repo.List(ctx, query)
}

// Create lists a new item with between one and ten images. Image positions
// follow insertion order.
func (s *ItemService) Create(ctx context.Context, item *models.Item, imageURLs []string) error {
	if item.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if item.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if item.StartingPrice < 0 {
		return fmt.Errorf("%w: starting_price cannot be negative", ErrValidation)
	}
	if len(imageURLs) == 0 || len(imageURLs) > maxItemImages {
		return fmt.Errorf("%w: an item needs between 1 and %d images, got %d", ErrValidation, maxItemImages, len(imageURLs))
	}

	for pos, url := range imageURLs {
		item.Images = append(item.Images, models.Image{ImageURL: url, Position: pos})
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return wrapStoreErr(err)
	}

	if err := s.auditSvc.Log(ctx, item.PostedByID, "CREATE", "Item", item.ID,
		fmt.Sprintf("Item %q listed with %d images", item.Title, len(imageURLs))); err != nil {
		logger.Warn("Failed to audit item creation", "item_id", item.ID, "error", err)
	}

	return nil
}

// AddImage appends one image to an existing item, keeping the total within
// the ten-image cap.
func (s *ItemService) AddImage(ctx context.Context, itemID uint, url string, actorID uint) (*models.Image, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	if len(item.Images) >= maxItemImages {
		return nil, fmt.Errorf("%w: item %d already has %d images", ErrValidation, itemID, maxItemImages)
	}

	image := &models.Image{
		ItemID:   item.ID,
		ImageURL: url,
		Position: len(item.Images),
	}
	if err := s.repo.AddImage(ctx, image); err != nil {
		return nil, wrapStoreErr(err)
	}

	if err := s.auditSvc.Log(ctx, actorID, "UPDATE", "Item", item.ID,
		fmt.Sprintf("Image added to item %q at position %d", item.Title, image.Position)); err != nil {
		logger.Warn("Failed to audit image addition", "item_id", item.ID, "error", err)
	}

	return image, nil
}
