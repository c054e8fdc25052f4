package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item represents an inventory record. Photos is resolved in upload order;
// PUT replaces the scalar fields only and never touches it.
type Item struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Price        *float64  `json:"price,omitempty" db:"price"`
	Category     string    `json:"category" db:"category"`
	Manufacturer string    `json:"manufacturer" db:"manufacturer"`
	Machine      string    `json:"machine" db:"machine"`
	Description  string    `json:"description" db:"description"`
	Photos       []Photo   `json:"photos"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Photo is a stored image attached to exactly one item. FilePath is the
// public path the file is served from (under /uploads/ for the local
// driver) and stays valid for the lifetime of the record.
type Photo struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ItemID    uuid.UUID `json:"item_id" db:"item_id"`
	FilePath  string    `json:"file_path" db:"file_path"`
	Position  int64     `json:"-" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Option is a named, append-only list of allowed values for a form field
// (categories, manufacturers, machines). Values are never deduplicated.
type Option struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Type   string    `json:"type" db:"type"`
	Values []string  `json:"values" db:"values"`
}
