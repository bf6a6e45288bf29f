package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"claims-platform/internal/entities"
	"claims-platform/internal/repositories"
	apperrors "claims-platform/pkg/errors"
	"claims-platform/pkg/utils"
)

type SettingsResolverInterface interface {
	// Resolve returns the effective dispatch configuration for a profession
	// and postal code, or nil when none is configured. It never returns an
	// error: this lookup sits on the order-creation critical path and a
	// failing configuration store must degrade to "do not auto-assign".
	Resolve(ctx context.Context, profession, postalCode string) *entities.AssignmentSettings
}

type SettingsResolver struct {
	repo            repositories.AssignmentSettingsRepositoryInterface
	cache           repositories.CacheRepositoryInterface
	logger          *zap.Logger
	zipPrefixLength int
	cacheTTL        time.Duration
}

func NewSettingsResolver(
	repo repositories.AssignmentSettingsRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	zipPrefixLength int,
	cacheTTL time.Duration,
) SettingsResolverInterface {
	return &SettingsResolver{
		repo:            repo,
		cache:           cache,
		logger:          logger,
		zipPrefixLength: zipPrefixLength,
		cacheTTL:        cacheTTL,
	}
}

// SettingsCacheKey is shared with the admin settings service, which deletes
// the affected keys on every mutation. Pass "" for the global row.
func SettingsCacheKey(profession, zipPrefix string) string {
	if zipPrefix == "" {
		return fmt.Sprintf("dispatch:settings:%s:global", profession)
	}
	return fmt.Sprintf("dispatch:settings:%s:%s", profession, zipPrefix)
}

func (s *SettingsResolver) Resolve(ctx context.Context, profession, postalCode string) *entities.AssignmentSettings {
	zipPrefix := utils.ZipPrefix(postalCode, s.zipPrefixLength)

	// Zip-specific always beats global. Specificity is the tie-break, not
	// recency or mode.
	if zipPrefix != "" {
		if settings := s.lookup(ctx, profession, zipPrefix); settings != nil {
			return settings
		}
	}
	return s.lookup(ctx, profession, "")
}

func (s *SettingsResolver) lookup(ctx context.Context, profession, zipPrefix string) *entities.AssignmentSettings {
	key := SettingsCacheKey(profession, zipPrefix)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			var settings entities.AssignmentSettings
			if err := json.Unmarshal([]byte(cached), &settings); err == nil {
				return &settings
			}
		}
	}

	var settings *entities.AssignmentSettings
	var err error
	if zipPrefix == "" {
		settings, err = s.repo.FindActiveGlobal(ctx, profession)
	} else {
		settings, err = s.repo.FindActiveByProfessionAndZip(ctx, profession, zipPrefix)
	}
	if err != nil {
		// Storage failures degrade to "not configured", they must never
		// abort order creation.
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("settings lookup failed, treating as not configured",
				zap.String("profession", profession),
				zap.String("zip_prefix", zipPrefix),
				zap.Error(err),
			)
		}
		return nil
	}

	if s.cache != nil {
		if payload, err := json.Marshal(settings); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
				s.logger.Debug("settings cache write failed", zap.Error(err))
			}
		}
	}

	return settings
}
