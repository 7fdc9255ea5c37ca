package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trivia-api/internal/cache"
	"trivia-api/internal/domain"
	"trivia-api/internal/logger"

	"go.uber.org/zap"
)

const defaultCategoryTTL = 5 * time.Minute

// CategoryListCacheKey holds the JSON-encoded category list
var CategoryListCacheKey = cache.GenerateCacheKey("category", "list", "all")

// CachedCategoryRepository serves categories from the cache and falls back to next.
// Categories are read-only through the API, so only SaveCategory invalidates.
type CachedCategoryRepository struct {
	next  domain.CategoryRepository
	cache domain.Cache
	ttl   time.Duration
}

// NewCachedCategoryRepository wraps next with a read-through cache
func NewCachedCategoryRepository(next domain.CategoryRepository, c domain.Cache, ttl time.Duration) *CachedCategoryRepository {
	if ttl <= 0 {
		ttl = defaultCategoryTTL
	}
	return &CachedCategoryRepository{next: next, cache: c, ttl: ttl}
}

var _ domain.CategoryRepository = (*CachedCategoryRepository)(nil)

// ListCategories implements domain.CategoryRepository
func (r *CachedCategoryRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if categories, ok := r.fromCache(ctx); ok {
		return categories, nil
	}

	categories, err := r.next.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, categories)
	return categories, nil
}

// GetCategory implements domain.CategoryRepository
func (r *CachedCategoryRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if categories, ok := r.fromCache(ctx); ok {
		for _, c := range categories {
			if c.ID == id {
				return c, nil
			}
		}
	}
	// a miss in the cached list may be a category created after the list was cached
	return r.next.GetCategory(ctx, id)
}

// SaveCategory implements domain.CategoryRepository
func (r *CachedCategoryRepository) SaveCategory(ctx context.Context, category *domain.Category) error {
	if err := r.next.SaveCategory(ctx, category); err != nil {
		return err
	}
	return r.Invalidate(ctx)
}

// Invalidate drops the cached category list
func (r *CachedCategoryRepository) Invalidate(ctx context.Context) error {
	if err := r.cache.Delete(ctx, CategoryListCacheKey); err != nil {
		logger.Get().Warn("CachedCategoryRepository: failed to invalidate category cache", zap.Error(err))
		return err
	}
	return nil
}

func (r *CachedCategoryRepository) fromCache(ctx context.Context) ([]*domain.Category, bool) {
	raw, err := r.cache.Get(ctx, CategoryListCacheKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("CachedCategoryRepository: cache read failed, using database", zap.Error(err))
		}
		return nil, false
	}

	var categories []*domain.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		logger.Get().Warn("CachedCategoryRepository: discarding undecodable cache entry", zap.Error(err))
		return nil, false
	}
	return categories, true
}

func (r *CachedCategoryRepository) store(ctx context.Context, categories []*domain.Category) {
	data, err := json.Marshal(categories)
	if err != nil {
		logger.Get().Warn("CachedCategoryRepository: failed to encode categories", zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, CategoryListCacheKey, string(data), r.ttl); err != nil {
		logger.Get().Warn("CachedCategoryRepository: cache write failed", zap.Error(err))
	}
}
