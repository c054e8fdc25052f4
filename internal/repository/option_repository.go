package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"inventory-api/internal/domain"

	"github.com/google/uuid"
)

// OptionRepository defines the interface for option list data access.
// Values lists are append-only; the append is a single atomic statement
// in the store, so concurrent appends to one type never lose entries.
type OptionRepository interface {
	List(ctx context.Context) ([]*domain.Option, error)
	Append(ctx context.Context, optionType, value string) (*domain.Option, error)
}

type optionRepository struct {
	db *sql.DB
}

// NewOptionRepository creates a new instance of OptionRepository
func NewOptionRepository(db *sql.DB) OptionRepository {
	return &optionRepository{db: db}
}

// List retrieves all option types with their values
func (r *optionRepository) List(ctx context.Context) ([]*domain.Option, error) {
	query := `
		SELECT id, type, array_to_json("values")::text
		FROM options
		ORDER BY type ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer rows.Close()

	options := []*domain.Option{}
	for rows.Next() {
		option := &domain.Option{}
		var values string
		if err := rows.Scan(&option.ID, &option.Type, &values); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		if err := json.Unmarshal([]byte(values), &option.Values); err != nil {
			return nil, fmt.Errorf("failed to decode option values: %w", err)
		}
		options = append(options, option)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}

	return options, nil
}

// Append adds a value to a type's list, creating the type if it does not
// exist yet. array_append inside the upsert keeps the operation atomic.
// No dedup: the list records every appended value.
func (r *optionRepository) Append(ctx context.Context, optionType, value string) (*domain.Option, error) {
	query := `
		INSERT INTO options (id, type, "values")
		VALUES ($1, $2, ARRAY[$3])
		ON CONFLICT (type) DO UPDATE SET "values" = array_append(options."values", $3)
		RETURNING id, type, array_to_json("values")::text
	`

	option := &domain.Option{}
	var values string
	err := r.db.QueryRowContext(ctx, query, uuid.New(), optionType, value).Scan(
		&option.ID,
		&option.Type,
		&values,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append option value: %w", err)
	}

	if err := json.Unmarshal([]byte(values), &option.Values); err != nil {
		return nil, fmt.Errorf("failed to decode option values: %w", err)
	}

	return option, nil
}
