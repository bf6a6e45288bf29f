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

type AssignmentSettingsServiceInterface interface {
	Create(ctx context.Context, d dto.CreateAssignmentSettingsDTO) (*entities.AssignmentSettings, error)
	Update(ctx context.Context, id int64, d dto.UpdateAssignmentSettingsDTO) (*entities.AssignmentSettings, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*entities.AssignmentSettings, error)
	GetAll(ctx context.Context, filter utils.Filter) ([]*entities.AssignmentSettings, uint64, error)
}

type AssignmentSettingsService struct {
	settingsRepo repositories.AssignmentSettingsRepositoryInterface
	cache        repositories.CacheRepositoryInterface
	txManager    repositories.TxManagerInterface
	logger       *zap.Logger
}

func NewAssignmentSettingsService(
	settingsRepo repositories.AssignmentSettingsRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) AssignmentSettingsServiceInterface {
	return &AssignmentSettingsService{
		settingsRepo: settingsRepo,
		cache:        cache,
		txManager:    txManager,
		logger:       logger,
	}
}

// invalidate drops the resolver cache entries a mutated row can serve. Cache
// errors are logged and swallowed, the TTL bounds the staleness either way.
func (s *AssignmentSettingsService) invalidate(ctx context.Context, settings *entities.AssignmentSettings) {
	if s.cache == nil {
		return
	}
	keys := []string{SettingsCacheKey(settings.Profession, "")}
	if settings.ZipPrefix != nil {
		keys = append(keys, SettingsCacheKey(settings.Profession, *settings.ZipPrefix))
	}
	for _, key := range keys {
		if err := s.cache.Del(ctx, key); err != nil {
			s.logger.Warn("settings cache invalidation failed",
				zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *AssignmentSettingsService) Create(ctx context.Context, d dto.CreateAssignmentSettingsDTO) (*entities.AssignmentSettings, error) {
	settings := &entities.AssignmentSettings{
		Profession:            d.Profession,
		ZipPrefix:             d.ZipPrefix,
		Mode:                  d.Mode,
		BroadcastPartnerCount: d.BroadcastPartnerCount,
		FallbackBehavior:      d.FallbackBehavior,
		Active:                true,
	}
	if d.Active != nil {
		settings.Active = *d.Active
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, txErr := s.settingsRepo.Create(ctx, tx, settings)
		if txErr != nil {
			return txErr
		}
		settings.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, settings)
	return s.settingsRepo.FindByID(ctx, settings.ID)
}

func (s *AssignmentSettingsService) Update(ctx context.Context, id int64, d dto.UpdateAssignmentSettingsDTO) (*entities.AssignmentSettings, error) {
	settings, err := s.settingsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.Mode.Valid {
		settings.Mode = d.Mode.String
	}
	if d.BroadcastPartnerCount.Valid {
		settings.BroadcastPartnerCount = d.BroadcastPartnerCount.Int
	}
	if d.FallbackBehavior.Valid {
		settings.FallbackBehavior = d.FallbackBehavior.String
	}
	if d.Active.Valid {
		settings.Active = d.Active.Bool
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.settingsRepo.Update(ctx, tx, settings)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, settings)
	return s.settingsRepo.FindByID(ctx, id)
}

func (s *AssignmentSettingsService) Delete(ctx context.Context, id int64) error {
	settings, err := s.settingsRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.settingsRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, settings)
	return nil
}

func (s *AssignmentSettingsService) FindByID(ctx context.Context, id int64) (*entities.AssignmentSettings, error) {
	return s.settingsRepo.FindByID(ctx, id)
}

func (s *AssignmentSettingsService) GetAll(ctx context.Context, filter utils.Filter) ([]*entities.AssignmentSettings, uint64, error) {
	return s.settingsRepo.GetAll(ctx, uint64(filter.Limit), uint64(filter.Offset), filter.Search)
}
