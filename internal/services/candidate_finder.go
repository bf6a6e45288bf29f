package services

import (
	"context"

	"go.uber.org/zap"

	"claims-platform/internal/entities"
	"claims-platform/internal/repositories"
	"claims-platform/pkg/utils"
)

type CandidateFinderInterface interface {
	// Find returns the ranked candidate pool for a profession and postal
	// code: rule-preferred craftsmen first, then the general pool. An empty
	// slice is a valid answer and never an error.
	Find(ctx context.Context, profession, postalCode string) []entities.Assignee

	// FindInternal restricts the pool to verified craftsmen. Used by the
	// internal_only fallback.
	FindInternal(ctx context.Context, profession string) []entities.Assignee
}

type CandidateFinder struct {
	ruleRepo        repositories.RoutingRuleRepositoryInterface
	craftsmanRepo   repositories.CraftsmanRepositoryInterface
	partnerRepo     repositories.PartnerRepositoryInterface
	logger          *zap.Logger
	zipPrefixLength int
	ruleLimit       int
	poolLimit       int
}

func NewCandidateFinder(
	ruleRepo repositories.RoutingRuleRepositoryInterface,
	craftsmanRepo repositories.CraftsmanRepositoryInterface,
	partnerRepo repositories.PartnerRepositoryInterface,
	logger *zap.Logger,
	zipPrefixLength, ruleLimit, poolLimit int,
) CandidateFinderInterface {
	return &CandidateFinder{
		ruleRepo:        ruleRepo,
		craftsmanRepo:   craftsmanRepo,
		partnerRepo:     partnerRepo,
		logger:          logger,
		zipPrefixLength: zipPrefixLength,
		ruleLimit:       ruleLimit,
		poolLimit:       poolLimit,
	}
}

func (f *CandidateFinder) Find(ctx context.Context, profession, postalCode string) []entities.Assignee {
	zipPrefix := utils.ZipPrefix(postalCode, f.zipPrefixLength)

	// Tier 1: craftsmen pinned by routing rules for this zip prefix, in rule
	// priority order. Rules pointing at unverified or re-skilled craftsmen
	// are skipped, not errors. Any survivor makes the rule tier exclusive:
	// the generic pool is not consulted, not even to pad a broadcast.
	if preferred := f.ruleCandidates(ctx, profession, zipPrefix); len(preferred) > 0 {
		if len(preferred) > f.poolLimit {
			preferred = preferred[:f.poolLimit]
		}
		return preferred
	}

	// Tier 2: general pool, craftsmen before partners.
	candidates := make([]entities.Assignee, 0, f.poolLimit)
	candidates = append(candidates, f.internalPool(ctx, profession)...)
	candidates = append(candidates, f.partnerPool(ctx, profession, zipPrefix)...)

	if len(candidates) > f.poolLimit {
		candidates = candidates[:f.poolLimit]
	}
	return candidates
}

func (f *CandidateFinder) FindInternal(ctx context.Context, profession string) []entities.Assignee {
	return f.internalPool(ctx, profession)
}

func (f *CandidateFinder) ruleCandidates(ctx context.Context, profession, zipPrefix string) []entities.Assignee {
	if zipPrefix == "" {
		return nil
	}

	rules, err := f.ruleRepo.FindActiveByZipAndProfession(ctx, zipPrefix, profession, f.ruleLimit)
	if err != nil {
		f.logger.Warn("routing rule lookup failed, continuing without preferences",
			zap.String("zip_prefix", zipPrefix),
			zap.String("profession", profession),
			zap.Error(err),
		)
		return nil
	}

	preferred := make([]entities.Assignee, 0, len(rules))
	seen := make(map[int64]struct{})
	for _, rule := range rules {
		if _, dup := seen[rule.CraftsmanID]; dup {
			continue
		}
		craftsman, err := f.craftsmanRepo.FindByID(ctx, rule.CraftsmanID)
		if err != nil {
			f.logger.Warn("routing rule points at unknown craftsman",
				zap.Int64("rule_id", rule.ID),
				zap.Int64("craftsman_id", rule.CraftsmanID),
				zap.Error(err),
			)
			continue
		}
		candidate := entities.CraftsmanAssignee(craftsman)
		if !candidate.Verified || !candidate.HasProfession(profession) {
			continue
		}
		seen[rule.CraftsmanID] = struct{}{}
		preferred = append(preferred, candidate)
	}
	return preferred
}

func (f *CandidateFinder) internalPool(ctx context.Context, profession string) []entities.Assignee {
	craftsmen, err := f.craftsmanRepo.FindByProfession(ctx, profession, f.poolLimit)
	if err != nil {
		f.logger.Warn("craftsman pool lookup failed",
			zap.String("profession", profession), zap.Error(err))
		return nil
	}

	pool := make([]entities.Assignee, 0, len(craftsmen))
	for _, c := range craftsmen {
		pool = append(pool, entities.CraftsmanAssignee(c))
	}
	return pool
}

func (f *CandidateFinder) partnerPool(ctx context.Context, profession, zipPrefix string) []entities.Assignee {
	partners, err := f.partnerRepo.FindByProfessionAndCoverage(ctx, profession, zipPrefix, f.poolLimit)
	if err != nil {
		// The containment query can fail on a schema drift of zip_coverage.
		// Degrade to a bounded profession query and filter coverage here
		// rather than dropping external candidates entirely.
		f.logger.Warn("partner coverage query failed, falling back to client-side filtering",
			zap.String("profession", profession),
			zap.String("zip_prefix", zipPrefix),
			zap.Error(err),
		)

		partners, err = f.partnerRepo.FindByProfession(ctx, profession, f.poolLimit)
		if err != nil {
			f.logger.Warn("partner pool lookup failed",
				zap.String("profession", profession), zap.Error(err))
			return nil
		}

		pool := make([]entities.Assignee, 0, len(partners))
		for _, p := range partners {
			candidate := entities.PartnerAssignee(p)
			if zipPrefix != "" && !candidate.CoversZip(zipPrefix) {
				continue
			}
			pool = append(pool, candidate)
		}
		return pool
	}

	pool := make([]entities.Assignee, 0, len(partners))
	for _, p := range partners {
		pool = append(pool, entities.PartnerAssignee(p))
	}
	return pool
}
