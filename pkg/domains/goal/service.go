package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, userID uint) ([]entities.Goal, error)
	Get(ctx context.Context, userID, id uint) (entities.Goal, error)
	Create(ctx context.Context, userID uint, req dtos.GoalDTO) (entities.Goal, error)
	Update(ctx context.Context, userID, id uint, req dtos.GoalDTO) (entities.Goal, error)
	Delete(ctx context.Context, userID, id uint) error
	Contribute(ctx context.Context, userID, id uint, amount decimal.Decimal) (entities.Goal, error)
}

type service struct {
	repository Repository
}

func NewService(r Repository) Service {
	return &service{
		repository: r,
	}
}

func (s *service) List(ctx context.Context, userID uint) ([]entities.Goal, error) {
	goals, err := s.repository.List(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return goals, nil
}

func (s *service) Get(ctx context.Context, userID, id uint) (entities.Goal, error) {
	goal, err := s.repository.FindByID(ctx, userID, id)
	if err != nil {
		return entities.Goal{}, notFoundOr(err)
	}
	return goal, nil
}

func (s *service) Create(ctx context.Context, userID uint, req dtos.GoalDTO) (entities.Goal, error) {
	goal, err := build(req)
	if err != nil {
		return entities.Goal{}, err
	}
	goal.UserID = userID
	if err := s.repository.Create(ctx, &goal); err != nil {
		return entities.Goal{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return goal, nil
}

func (s *service) Update(ctx context.Context, userID, id uint, req dtos.GoalDTO) (entities.Goal, error) {
	current, err := s.repository.FindByID(ctx, userID, id)
	if err != nil {
		return entities.Goal{}, notFoundOr(err)
	}
	next, err := build(req)
	if err != nil {
		return entities.Goal{}, err
	}
	next.Model = current.Model
	next.UserID = userID
	if req.CurrentAmount == nil {
		next.CurrentAmount = current.CurrentAmount
	}
	if err := s.repository.Save(ctx, &next); err != nil {
		return entities.Goal{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return next, nil
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	if err := s.repository.Delete(ctx, userID, id); err != nil {
		return notFoundOr(err)
	}
	return nil
}

func (s *service) Contribute(ctx context.Context, userID, id uint, amount decimal.Decimal) (entities.Goal, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return entities.Goal{}, apperr.Validation(constant.AMOUNT_NOT_POSITIVE)
	}
	if err := s.repository.AddToCurrent(ctx, userID, id, amount); err != nil {
		return entities.Goal{}, notFoundOr(err)
	}
	return s.Get(ctx, userID, id)
}

func build(req dtos.GoalDTO) (entities.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return entities.Goal{}, apperr.Validation(constant.INVALID_REQUEST)
	}
	target := req.TargetAmount.Round(2)
	if !target.IsPositive() {
		return entities.Goal{}, apperr.Validation(constant.GOAL_TARGET_NOT_POSITIVE)
	}
	current := decimal.Zero
	if req.CurrentAmount != nil {
		current = req.CurrentAmount.Round(2)
	}
	if current.IsNegative() {
		return entities.Goal{}, apperr.Validation(constant.GOAL_AMOUNT_NEGATIVE)
	}
	goal := entities.Goal{
		Title:         title,
		Description:   req.Description,
		TargetAmount:  target,
		CurrentAmount: current,
		Category:      strings.TrimSpace(req.Category),
	}
	if req.Deadline != nil {
		y, m, d := req.Deadline.Date()
		deadline := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		goal.Deadline = &deadline
	}
	return goal, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(fmt.Sprintf(constant.CANT_FIND, "Goal"))
	}
	return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
}
