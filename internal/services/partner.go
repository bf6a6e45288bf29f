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

type PartnerServiceInterface interface {
	Create(ctx context.Context, d dto.CreatePartnerDTO) (*entities.Partner, error)
	FindByID(ctx context.Context, id int64) (*entities.Partner, error)
	GetAll(ctx context.Context, filter utils.Filter) ([]*entities.Partner, uint64, error)
}

type PartnerService struct {
	repo      repositories.PartnerRepositoryInterface
	txManager repositories.TxManagerInterface
	logger    *zap.Logger
}

func NewPartnerService(
	repo repositories.PartnerRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) PartnerServiceInterface {
	return &PartnerService{repo: repo, txManager: txManager, logger: logger}
}

func (s *PartnerService) Create(ctx context.Context, d dto.CreatePartnerDTO) (*entities.Partner, error) {
	partner := &entities.Partner{
		CompanyName: d.CompanyName,
		Email:       d.Email,
		Professions: d.Professions,
		Verified:    d.Verified,
		Rating:      d.Rating,
		ZipCoverage: d.ZipCoverage,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, txErr := s.repo.Create(ctx, tx, partner)
		if txErr != nil {
			return txErr
		}
		partner.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, partner.ID)
}

func (s *PartnerService) FindByID(ctx context.Context, id int64) (*entities.Partner, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PartnerService) GetAll(ctx context.Context, filter utils.Filter) ([]*entities.Partner, uint64, error) {
	return s.repo.GetAll(ctx, uint64(filter.Limit), uint64(filter.Offset), filter.Search)
}
