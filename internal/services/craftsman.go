package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"claims-platform/internal/dto"
	"claims-platform/internal/entities"
	"claims-platform/internal/repositories"
	"claims-platform/pkg/utils"
)

type CraftsmanServiceInterface interface {
	Create(ctx context.Context, d dto.CreateCraftsmanDTO) (*entities.Craftsman, error)
	FindByID(ctx context.Context, id int64) (*entities.Craftsman, error)
	GetAll(ctx context.Context, filter utils.Filter) ([]*entities.Craftsman, uint64, error)
}

type CraftsmanService struct {
	repo      repositories.CraftsmanRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewCraftsmanService(
	repo repositories.CraftsmanRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) CraftsmanServiceInterface {
	return &CraftsmanService{repo: repo, txManager: txManager, logger: logger}
}

func (s *CraftsmanService) Create(ctx context.Context, d dto.CreateCraftsmanDTO) (*entities.Craftsman, error) {
	craftsman := &entities.Craftsman{
		Name:        d.Name,
		Role:        d.Role,
		Professions: d.Professions,
		Verified:    d.Verified,
		Rating:      d.Rating,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, txErr := s.repo.Create(ctx, tx, craftsman)
		if txErr != nil {
			return txErr
		}
		craftsman.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, craftsman.ID)
}

func (s *CraftsmanService) FindByID(ctx context.Context, id int64) (*entities.Craftsman, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CraftsmanService) GetAll(ctx context.Context, filter utils.Filter) ([]*entities.Craftsman, uint64, error) {
	return s.repo.GetAll(ctx, uint64(filter.Limit), uint64(filter.Offset), filter.Search)
}
