package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/entities"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service manages the global category list. Every user reads the same
// categories; writes are gated at the route layer.
type Service interface {
	List(ctx context.Context, direction string) ([]entities.Category, error)
	Create(ctx context.Context, req dtos.CategoryDTO) (entities.Category, error)
	Update(ctx context.Context, id uint, req dtos.CategoryDTO) (entities.Category, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repository Repository
}

func NewService(r Repository) Service {
	return &service{
		repository: r,
	}
}

func (s *service) List(ctx context.Context, direction string) ([]entities.Category, error) {
	d := entities.Direction(strings.ToLower(strings.TrimSpace(direction)))
	if d != "" && !d.Valid() {
		return nil, apperr.Validation(constant.INVALID_DIRECTION)
	}
	categories, err := s.repository.List(ctx, d)
	if err != nil {
		return nil, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, req dtos.CategoryDTO) (entities.Category, error) {
	category, err := s.validate(ctx, 0, req)
	if err != nil {
		return entities.Category{}, err
	}
	if err := s.repository.Create(ctx, &category); err != nil {
		return entities.Category{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	zap.L().Info("category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *service) Update(ctx context.Context, id uint, req dtos.CategoryDTO) (entities.Category, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return entities.Category{}, notFoundOr(err)
	}
	next, err := s.validate(ctx, id, req)
	if err != nil {
		return entities.Category{}, err
	}
	current.Name = next.Name
	current.Direction = next.Direction
	if err := s.repository.Save(ctx, &current); err != nil {
		return entities.Category{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return current, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	inUse, err := s.repository.InUse(ctx, id)
	if err != nil {
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	if inUse {
		return apperr.Conflict(constant.CATEGORY_IN_USE)
	}
	if err := s.repository.Delete(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func (s *service) validate(ctx context.Context, id uint, req dtos.CategoryDTO) (entities.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return entities.Category{}, apperr.Validation(constant.INVALID_REQUEST)
	}
	if !req.Direction.Valid() {
		return entities.Category{}, apperr.Validation(constant.INVALID_DIRECTION)
	}

	existing, err := s.repository.FindByName(ctx, name, req.Direction)
	switch {
	case err == nil && existing.ID != id:
		return entities.Category{}, apperr.Conflict(fmt.Sprintf(constant.ALREADY_EXISTS, "Category"))
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return entities.Category{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return entities.Category{Name: name, Direction: req.Direction}, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(fmt.Sprintf(constant.CANT_FIND, "Category"))
	}
	return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
}
