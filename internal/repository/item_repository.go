package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inventory-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemAlreadyExists = errors.New("item with this name already exists")
)

// ItemRepository defines the interface for inventory item data access.
// List and FindByID return items with their photo lists resolved in
// upload order.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
}

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new instance of ItemRepository
func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Create inserts a new item into the database using parameterized queries
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, name, quantity, price, category, manufacturer, machine, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Quantity,
		item.Price,
		item.Category,
		item.Manufacturer,
		item.Machine,
		item.Description,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		// Unique constraint violation on name
		if strings.Contains(err.Error(), "items_name_key") {
			return ErrItemAlreadyExists
		}
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// Update replaces the scalar fields of an existing item. The photo list is
// owned by the upload pipeline and is never touched here.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items
		SET name = $2, quantity = $3, price = $4, category = $5,
		    manufacturer = $6, machine = $7, description = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Name,
		item.Quantity,
		item.Price,
		item.Category,
		item.Manufacturer,
		item.Machine,
		item.Description,
		item.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "items_name_key") {
			return ErrItemAlreadyExists
		}
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete removes an item; its photo rows go with it via the FK cascade.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// FindByID retrieves an item with its resolved photo list
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `
		SELECT id, name, quantity, price, category, manufacturer, machine, description, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	item := &domain.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Quantity,
		&item.Price,
		&item.Category,
		&item.Manufacturer,
		&item.Machine,
		&item.Description,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}

	photos, err := r.photosForItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	item.Photos = photos[id]
	if item.Photos == nil {
		item.Photos = []domain.Photo{}
	}

	return item, nil
}

// List retrieves all items with their resolved photo lists
func (r *itemRepository) List(ctx context.Context) ([]*domain.Item, error) {
	query := `
		SELECT id, name, quantity, price, category, manufacturer, machine, description, created_at, updated_at
		FROM items
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	ids := []uuid.UUID{}
	for rows.Next() {
		item := &domain.Item{Photos: []domain.Photo{}}
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Quantity,
			&item.Price,
			&item.Category,
			&item.Manufacturer,
			&item.Machine,
			&item.Description,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
		ids = append(ids, item.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	if len(ids) == 0 {
		return items, nil
	}

	photos, err := r.photosForItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if p, ok := photos[item.ID]; ok {
			item.Photos = p
		}
	}

	return items, nil
}

// photosForItems loads the photos of the given items keyed by item ID,
// each list in upload order.
func (r *itemRepository) photosForItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.Photo, error) {
	query := `
		SELECT id, item_id, file_path, position, created_at
		FROM photos
		WHERE item_id = ANY($1::uuid[])
		ORDER BY position ASC
	`

	// database/sql has no uuid-slice support; pass text and cast in SQL.
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, query, idStrs)
	if err != nil {
		return nil, fmt.Errorf("failed to load photos: %w", err)
	}
	defer rows.Close()

	photos := map[uuid.UUID][]domain.Photo{}
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
		photos[photo.ItemID] = append(photos[photo.ItemID], photo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}
