package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/haircare/backend/internal/domain"
	"github.com/haircare/backend/internal/observability"
	"github.com/haircare/backend/internal/platform/logger"
)

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	CacheTTL        time.Duration
	CacheType       string // metrics label: memory, redis
	MaxProductTypes int
}

// RecommendationService validates requests, serves repeated ones from the
// cache and delegates the rest to the engine.
type RecommendationService struct {
	engine     *RecommendationEngine
	cache      domain.CacheRepository
	normalizer *RequestNormalizer
	cacheTTL   time.Duration
	cacheType  string
	log        *logger.Logger
}

// NewRecommendationService creates a new recommendation service. cache may be
// nil, in which case every request is computed.
func NewRecommendationService(
	engine *RecommendationEngine,
	cache domain.CacheRepository,
	config RecommendationServiceConfig,
	log *logger.Logger,
) *RecommendationService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheType := config.CacheType
	if cacheType == "" {
		cacheType = "memory"
	}

	if log == nil {
		log = logger.NewNop()
	}

	return &RecommendationService{
		engine:     engine,
		cache:      cache,
		normalizer: NewRequestNormalizer(config.MaxProductTypes),
		cacheTTL:   cacheTTL,
		cacheType:  cacheType,
		log:        log.With("component", "RecommendationService"),
	}
}

// Recommend returns recommendations for the request.
// Flow: validate -> check cache -> run engine -> cache -> return
func (s *RecommendationService) Recommend(
	ctx context.Context,
	request *domain.RecommendationRequest,
) (*domain.RecommendationResponse, error) {
	if err := s.normalizer.ValidateRecommendation(request); err != nil {
		return nil, err
	}

	cacheKey := s.normalizer.RecommendationCacheKey(request)
	if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		observability.RecommendationsTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
		return cached, nil
	}

	start := time.Now()
	recommendations, err := s.engine.Recommend(ctx, request.HairPorosity, request.ProductFocus)
	observability.RecommendationDuration.Observe(time.Since(start).Seconds())
	observability.RecommendationsTotal.WithLabelValues(outcomeOf(err)).Inc()
	if err != nil {
		return nil, err
	}

	response := &domain.RecommendationResponse{Recommendations: recommendations}
	s.setInCache(ctx, cacheKey, response)

	s.log.Debug("recommendations computed",
		"hair_porosity", request.HairPorosity,
		"requested", len(request.ProductFocus),
		"returned", len(recommendations),
		"duration", time.Since(start),
	)
	return response, nil
}

// SimilarTo returns products similar to the one described by the request.
// Results are not cached: they depend on the excluded product id.
func (s *RecommendationService) SimilarTo(
	ctx context.Context,
	request *domain.SimilarRequest,
) (*domain.SimilarResponse, error) {
	if err := s.normalizer.ValidateSimilar(request); err != nil {
		return nil, err
	}

	similar, err := s.engine.SimilarTo(ctx, *request)
	if err != nil {
		return nil, err
	}
	return &domain.SimilarResponse{SimilarProducts: similar}, nil
}

// getFromCache returns the cached response for key. Any cache failure is
// treated as a miss.
func (s *RecommendationService) getFromCache(ctx context.Context, key string) (*domain.RecommendationResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		observability.CacheMisses.WithLabelValues(s.cacheType).Inc()
		return nil, false
	}

	var response domain.RecommendationResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		s.log.Warn("discarding undecodable cache entry", "key", key, "error", err)
		observability.CacheMisses.WithLabelValues(s.cacheType).Inc()
		return nil, false
	}

	observability.CacheHits.WithLabelValues(s.cacheType).Inc()
	return &response, true
}

// setInCache stores the response; failures are logged and otherwise ignored
func (s *RecommendationService) setInCache(ctx context.Context, key string, response *domain.RecommendationResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(response)
	if err != nil {
		s.log.Warn("failed to encode recommendation for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, domain.ErrInvalidPorosity):
		return observability.OutcomeInvalidPorosity
	case errors.Is(err, domain.ErrNoRecommendations):
		return observability.OutcomeNotFound
	default:
		return observability.OutcomeError
	}
}
