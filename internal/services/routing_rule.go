package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"claims-platform/internal/dto"
	"claims-platform/internal/entities"
	"claims-platform/internal/repositories"
	apperrors "claims-platform/pkg/errors"
	"claims-platform/pkg/utils"
)

type RoutingRuleServiceInterface interface {
	Create(ctx context.Context, d dto.CreateRoutingRuleDTO) (*entities.RoutingRule, error)
	Update(ctx context.Context, id int64, d dto.UpdateRoutingRuleDTO) (*entities.RoutingRule, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*entities.RoutingRule, error)
	GetAll(ctx context.Context, filter utils.Filter) ([]*entities.RoutingRule, uint64, error)
}

type RoutingRuleService struct {
	ruleRepo      repositories.RoutingRuleRepositoryInterface
	craftsmanRepo repositories.CraftsmanRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewRoutingRuleService(
	ruleRepo repositories.RoutingRuleRepositoryInterface,
	craftsmanRepo repositories.CraftsmanRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) RoutingRuleServiceInterface {
	return &RoutingRuleService{
		ruleRepo:      ruleRepo,
		craftsmanRepo: craftsmanRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// validateCraftsman rejects rules that could never produce a candidate: the
// craftsman must exist and declare the rule's profession.
func (s *RoutingRuleService) validateCraftsman(ctx context.Context, craftsmanID int64, profession string) error {
	craftsman, err := s.craftsmanRepo.FindByID(ctx, craftsmanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHttpError(http.StatusUnprocessableEntity,
				"craftsman does not exist", err, nil)
		}
		return err
	}
	if !craftsman.HasProfession(profession) {
		return apperrors.NewHttpError(http.StatusUnprocessableEntity,
			"craftsman does not declare this profession", nil,
			map[string]interface{}{"profession": profession})
	}
	return nil
}

func (s *RoutingRuleService) Create(ctx context.Context, d dto.CreateRoutingRuleDTO) (*entities.RoutingRule, error) {
	if err := s.validateCraftsman(ctx, d.CraftsmanID, d.Profession); err != nil {
		return nil, err
	}

	rule := &entities.RoutingRule{
		ZipPrefix:   d.ZipPrefix,
		Profession:  d.Profession,
		Priority:    d.Priority,
		Active:      true,
		CraftsmanID: d.CraftsmanID,
	}
	if d.Active != nil {
		rule.Active = *d.Active
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, txErr := s.ruleRepo.Create(ctx, tx, rule)
		if txErr != nil {
			return txErr
		}
		rule.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ruleRepo.FindByID(ctx, rule.ID)
}

func (s *RoutingRuleService) Update(ctx context.Context, id int64, d dto.UpdateRoutingRuleDTO) (*entities.RoutingRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.ZipPrefix.Valid {
		rule.ZipPrefix = d.ZipPrefix.String
	}
	if d.Profession.Valid {
		rule.Profession = d.Profession.String
	}
	if d.Priority.Valid {
		rule.Priority = d.Priority.Int
	}
	if d.Active.Valid {
		rule.Active = d.Active.Bool
	}
	if d.CraftsmanID.Valid {
		rule.CraftsmanID = d.CraftsmanID.Int64
	}

	if err := s.validateCraftsman(ctx, rule.CraftsmanID, rule.Profession); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.ruleRepo.Update(ctx, tx, rule)
	})
	if err != nil {
		return nil, err
	}
	return s.ruleRepo.FindByID(ctx, id)
}

func (s *RoutingRuleService) Delete(ctx context.Context, id int64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.ruleRepo.Delete(ctx, tx, id)
	})
}

func (s *RoutingRuleService) FindByID(ctx context.Context, id int64) (*entities.RoutingRule, error) {
	return s.ruleRepo.FindByID(ctx, id)
}

func (s *RoutingRuleService) GetAll(ctx context.Context, filter utils.Filter) ([]*entities.RoutingRule, uint64, error) {
	return s.ruleRepo.GetAll(ctx, uint64(filter.Limit), uint64(filter.Offset), filter.Search)
}
