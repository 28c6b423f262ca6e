package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skillcircle/skillcircle-api/internal/dto"
	"github.com/skillcircle/skillcircle-api/internal/models"
	appErrors "github.com/skillcircle/skillcircle-api/pkg/errors"
)

type skillSearcher interface {
	Search(ctx context.Context, filter models.SkillSearchFilter) ([]dto.SkillSearchRow, int, error)
}

// SearchKeyPattern matches every cached search page. Profile changes
// invalidate with this pattern since any of them can alter result sets.
const SearchKeyPattern = "search:*"

// maxSearchLimit caps the page size an oversized limit clamps down to.
const maxSearchLimit = 50

// SearchService runs skill discovery queries with a short-lived cache in
// front of the database.
type SearchService struct {
	repo   skillSearcher
	cache  *CacheService
	logger *zap.Logger
}

// NewSearchService constructs a SearchService.
func NewSearchService(repo skillSearcher, cache *CacheService, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{repo: repo, cache: cache, logger: logger}
}

// Search returns a page of discoverable skills matching the filter. The
// viewer's own skills are excluded and owner privacy settings are honored
// inside the query itself.
func (s *SearchService) Search(ctx context.Context, filter models.SkillSearchFilter) (*dto.SkillSearchResult, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Location = strings.TrimSpace(filter.Location)

	if filter.Category != "" && filter.Category != "ALL" && !models.SkillCategory(filter.Category).IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown skill category")
	}
	if filter.ExperienceLevel != "" && filter.ExperienceLevel != "ALL" && !models.ExperienceLevel(filter.ExperienceLevel).IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown experience level")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 12
	}
	if filter.Limit > maxSearchLimit {
		filter.Limit = maxSearchLimit
	}

	key := searchCacheKey(filter)
	var cached dto.SkillSearchResult
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	rows, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search skills")
	}

	items := make([]*dto.SkillSearchItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].Item())
	}

	result := &dto.SkillSearchResult{
		Skills:     items,
		Pagination: models.NewPagination(filter.Page, filter.Limit, total),
	}

	if err := s.cache.Set(ctx, key, result, 0); err != nil {
		s.logger.Debug("search cache write skipped", zap.Error(err))
	}

	return result, nil
}

func searchCacheKey(f models.SkillSearchFilter) string {
	return fmt.Sprintf("search:%s:%s:%s:%s:%s:%d:%d",
		f.ViewerID, strings.ToLower(f.Query), f.Category, f.ExperienceLevel, strings.ToLower(f.Location), f.Page, f.Limit)
}
