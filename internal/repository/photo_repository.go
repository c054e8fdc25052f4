package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
)

// PhotoRepository defines the interface for photo record data access.
// CreateBatch is the only way photo rows come into existence; it commits
// one upload's records as a unit so concurrent uploads to the same item
// interleave whole batches, never partial ones.
type PhotoRepository interface {
	CreateBatch(ctx context.Context, photos []*domain.Photo) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Photo, error)
}

type photoRepository struct {
	db *sql.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *sql.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// CreateBatch inserts all photo rows of one upload inside a single
// transaction, in slice order. Positions come from the sequence, so the
// append preserves submission order.
func (r *photoRepository) CreateBatch(ctx context.Context, photos []*domain.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO photos (id, item_id, file_path, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING position
	`

	for _, photo := range photos {
		err := tx.QueryRowContext(
			ctx,
			query,
			photo.ID,
			photo.ItemID,
			photo.FilePath,
			photo.CreatedAt,
		).Scan(&photo.Position)

		if err != nil {
			return fmt.Errorf("failed to create photo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit photos: %w", err)
	}

	return nil
}

// FindByID retrieves a photo by ID using parameterized queries
func (r *photoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	query := `
		SELECT id, item_id, file_path, position, created_at
		FROM photos
		WHERE id = $1
	`

	photo := &domain.Photo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&photo.ID,
		&photo.ItemID,
		&photo.FilePath,
		&photo.Position,
		&photo.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo by ID: %w", err)
	}

	return photo, nil
}

// Delete removes a photo record. Removing the row is what prunes the
// owning item's resolved photo list.
func (r *photoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM photos WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

// ListByItem retrieves an item's photos in upload order
func (r *photoRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]domain.Photo, error) {
	query := `
		SELECT id, item_id, file_path, position, created_at
		FROM photos
		WHERE item_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := []domain.Photo{}
	for rows.Next() {
		photo := domain.Photo{}
		err := rows.Scan(
			&photo.ID,
			&photo.ItemID,
			&photo.FilePath,
			&photo.Position,
			&photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}
