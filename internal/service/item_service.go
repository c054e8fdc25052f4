package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
	"inventory-api/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPhotoFileRemove reports that a photo record was deleted but its
// backing file could not be removed. Callers must surface this
// distinctly from "photo not found".
var ErrPhotoFileRemove = errors.New("photo record deleted but file removal failed")

// ItemInput carries the scalar fields of an item for create and update.
// PUT is a full replace of these fields; the photo list is never part of
// the input.
type ItemInput struct {
	Name         string
	Quantity     int
	Price        *float64
	Category     string
	Manufacturer string
	Machine      string
	Description  string
}

// ItemService defines the interface for inventory business logic
type ItemService interface {
	List(ctx context.Context) ([]*domain.Item, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	Create(ctx context.Context, in ItemInput) (*domain.Item, error)
	Update(ctx context.Context, id uuid.UUID, in ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeletePhoto(ctx context.Context, photoID uuid.UUID) error
}

type itemService struct {
	itemRepo  repository.ItemRepository
	photoRepo repository.PhotoRepository
	store     storage.PhotoStorage
	logger    *zap.Logger
}

// NewItemService creates a new instance of ItemService
func NewItemService(
	itemRepo repository.ItemRepository,
	photoRepo repository.PhotoRepository,
	store storage.PhotoStorage,
	logger *zap.Logger,
) ItemService {
	return &itemService{
		itemRepo:  itemRepo,
		photoRepo: photoRepo,
		store:     store,
		logger:    logger,
	}
}

// List returns all items with resolved photo lists
func (s *itemService) List(ctx context.Context) ([]*domain.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Get returns one item with its resolved photo list
func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts a new item with an empty photo list
func (s *itemService) Create(ctx context.Context, in ItemInput) (*domain.Item, error) {
	item := &domain.Item{
		ID:           uuid.New(),
		Name:         in.Name,
		Quantity:     in.Quantity,
		Price:        in.Price,
		Category:     in.Category,
		Manufacturer: in.Manufacturer,
		Machine:      in.Machine,
		Description:  in.Description,
		Photos:       []domain.Photo{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Update replaces the scalar fields of an item and returns the updated
// record, photos included.
func (s *itemService) Update(ctx context.Context, id uuid.UUID, in ItemInput) (*domain.Item, error) {
	item := &domain.Item{
		ID:           id,
		Name:         in.Name,
		Quantity:     in.Quantity,
		Price:        in.Price,
		Category:     in.Category,
		Manufacturer: in.Manufacturer,
		Machine:      in.Machine,
		Description:  in.Description,
		UpdatedAt:    time.Now(),
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return s.itemRepo.FindByID(ctx, id)
}

// Delete removes an item, cascading its photo records, then removes the
// backing files best-effort. A file that cannot be removed is logged and
// does not fail the delete: the records are already gone.
func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	photos, err := s.photoRepo.ListByItem(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list item photos: %w", err)
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, photo := range photos {
		if err := s.store.Remove(ctx, photo.FilePath); err != nil {
			s.logger.Error("Failed to remove photo file after item delete",
				zap.String("item_id", id.String()),
				zap.String("file_path", photo.FilePath),
				zap.Error(err),
			)
		}
	}

	return nil
}

// DeletePhoto removes a photo record and its backing file. Deleting the
// row prunes the owning item's photo list. If the file removal fails
// after the record is gone, ErrPhotoFileRemove is returned so the caller
// can report it distinctly from not-found.
func (s *itemService) DeletePhoto(ctx context.Context, photoID uuid.UUID) error {
	photo, err := s.photoRepo.FindByID(ctx, photoID)
	if err != nil {
		return err
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, photo.FilePath); err != nil {
		s.logger.Error("Failed to remove photo file",
			zap.String("photo_id", photoID.String()),
			zap.String("file_path", photo.FilePath),
			zap.Error(err),
		)
		return ErrPhotoFileRemove
	}

	return nil
}
