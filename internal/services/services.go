package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/domain/lifecycle"
	"github.com/Naya-01/PAE/internal/domain/objecttype"
	"github.com/Naya-01/PAE/internal/logger"
	"github.com/Naya-01/PAE/internal/validation"
)

// TypeService serves the object type catalogue
type TypeService struct {
	types     lifecycle.TypeStore
	validator validation.TypeValidation
	log       *log.Logger
}

// NewTypeService creates a new type service
func NewTypeService(types lifecycle.TypeStore) *TypeService {
	return &TypeService{
		types:     types,
		validator: validation.TypeValidation{},
		log:       logger.Service("type"),
	}
}

// GetType returns the type with the given id
func (s *TypeService) GetType(ctx context.Context, id int) (*objecttype.Type, error) {
	if err := validation.ValidatePositiveID(id, "type id"); err != nil {
		return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
	}
	return s.types.GetByID(ctx, id)
}

// GetTypeByName looks a type up by its name, ignoring case
func (s *TypeService) GetTypeByName(ctx context.Context, name string) (*objecttype.Type, error) {
	name = objecttype.NormalizeName(name)
	if err := s.validator.ValidateTypeName(name); err != nil {
		return nil, apierr.New(apierr.KindBadRequest, err.Error(), err)
	}
	return s.types.GetByName(ctx, name)
}

// GetDefaultTypes returns the default catalogue
func (s *TypeService) GetDefaultTypes(ctx context.Context) ([]*objecttype.Type, error) {
	types, err := s.types.GetDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get default types: %w", err)
	}
	if len(types) == 0 {
		s.log.Warn("No default types configured")
		return nil, apierr.NotFound("no default types")
	}
	return types, nil
}
