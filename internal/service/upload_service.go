package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
	"inventory-api/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoFilesProvided = errors.New("no files provided")
	ErrInvalidFileType = errors.New("file type not allowed: images only (jpeg, jpg, png, gif, webp)")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrTooManyFiles    = errors.New("too many files in one upload")
)

// Extension and declared MIME type must both pass; a .txt with an image
// MIME or a .png with a text MIME are equally rejected.
var (
	allowedExtensions = map[string]bool{
		".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
	}
	allowedMIMETypes = map[string]bool{
		"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
	}
)

// UploadedFile is one entry of an upload result, in storage order.
type UploadedFile struct {
	ItemID   uuid.UUID `json:"item_id"`
	FilePath string    `json:"file_path"`
}

// UploadService implements the photo upload pipeline: validate every
// file, write the files to storage, then insert the photo records in one
// transaction. If the transaction fails the written files are removed
// again, so storage and database cannot drift apart silently.
type UploadService interface {
	UploadPhotos(ctx context.Context, itemID uuid.UUID, files []*multipart.FileHeader) ([]UploadedFile, error)
}

type uploadService struct {
	itemRepo    repository.ItemRepository
	photoRepo   repository.PhotoRepository
	store       storage.PhotoStorage
	maxFileSize int64
	maxFiles    int
	logger      *zap.Logger
}

// NewUploadService creates a new instance of UploadService
func NewUploadService(
	itemRepo repository.ItemRepository,
	photoRepo repository.PhotoRepository,
	store storage.PhotoStorage,
	maxFileSize int64,
	maxFiles int,
	logger *zap.Logger,
) UploadService {
	return &uploadService{
		itemRepo:    itemRepo,
		photoRepo:   photoRepo,
		store:       store,
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
		logger:      logger,
	}
}

// UploadPhotos validates, stores and associates a batch of photos with an
// item. Validation happens for the whole batch before any file is
// written. Result order matches submission order.
func (s *uploadService) UploadPhotos(ctx context.Context, itemID uuid.UUID, files []*multipart.FileHeader) ([]UploadedFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesProvided
	}
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return nil, ErrTooManyFiles
	}

	// The owning item must exist before anything touches storage.
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	for _, fh := range files {
		if err := s.validateFile(fh); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	photos := make([]*domain.Photo, 0, len(files))
	saved := make([]string, 0, len(files))

	for _, fh := range files {
		name := s.uniqueName(itemID, fh.Filename)

		f, err := fh.Open()
		if err != nil {
			s.cleanup(ctx, saved)
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		publicPath, err := s.store.Save(ctx, name, f)
		f.Close()
		if err != nil {
			s.cleanup(ctx, saved)
			return nil, fmt.Errorf("failed to store file: %w", err)
		}
		saved = append(saved, name)

		photos = append(photos, &domain.Photo{
			ID:        uuid.New(),
			ItemID:    itemID,
			FilePath:  publicPath,
			CreatedAt: now,
		})
	}

	if err := s.photoRepo.CreateBatch(ctx, photos); err != nil {
		// Compensating action: never leave files without records.
		s.cleanup(ctx, saved)
		return nil, fmt.Errorf("failed to save photo records: %w", err)
	}

	result := make([]UploadedFile, len(photos))
	for i, photo := range photos {
		result[i] = UploadedFile{ItemID: photo.ItemID, FilePath: photo.FilePath}
	}

	return result, nil
}

func (s *uploadService) validateFile(fh *multipart.FileHeader) error {
	if s.maxFileSize > 0 && fh.Size > s.maxFileSize {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return ErrInvalidFileType
	}

	mimeType := fh.Header.Get("Content-Type")
	if !allowedMIMETypes[strings.ToLower(mimeType)] {
		return ErrInvalidFileType
	}

	return nil
}

// uniqueName composes item ID, timestamp and a random disambiguator so
// concurrent uploads cannot collide on disk.
func (s *uploadService) uniqueName(itemID uuid.UUID, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%d-%d%s", itemID, time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}

// cleanup removes already-written files after a downstream failure.
// Failures here are logged with the orphaned names for reconciliation.
func (s *uploadService) cleanup(ctx context.Context, names []string) {
	for _, name := range names {
		if err := s.store.Remove(ctx, name); err != nil {
			s.logger.Error("Failed to clean up stored file after upload failure",
				zap.String("file", name),
				zap.Error(err),
			)
		}
	}
}
