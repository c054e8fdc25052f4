package service

import (
	"context"
	"fmt"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

// OptionService defines the interface for option list business logic.
// Values lists only ever grow; nothing dedupes or removes entries.
type OptionService interface {
	List(ctx context.Context) ([]*domain.Option, error)
	Append(ctx context.Context, optionType, value string) (*domain.Option, error)
}

type optionService struct {
	optionRepo repository.OptionRepository
}

// NewOptionService creates a new instance of OptionService
func NewOptionService(optionRepo repository.OptionRepository) OptionService {
	return &optionService{optionRepo: optionRepo}
}

// List returns every option type with its values
func (s *optionService) List(ctx context.Context) ([]*domain.Option, error) {
	options, err := s.optionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	return options, nil
}

// Append adds a value to a type's list, creating the type on first use
func (s *optionService) Append(ctx context.Context, optionType, value string) (*domain.Option, error) {
	option, err := s.optionRepo.Append(ctx, optionType, value)
	if err != nil {
		return nil, fmt.Errorf("failed to append option value: %w", err)
	}
	return option, nil
}
