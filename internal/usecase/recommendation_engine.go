package usecase

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/haircare/backend/internal/domain"
	"github.com/haircare/backend/internal/observability"
	"github.com/haircare/backend/internal/platform/logger"
)

// Result limits
const (
	defaultMaxResults     = 4 // one main recommendation plus similar products
	defaultMaxSimilar     = 3
	defaultMaxConcurrency = 4
)

// EngineConfig holds configuration for the recommendation engine
type EngineConfig struct {
	MaxResults     int
	MaxSimilar     int
	MaxConcurrency int
}

// RecommendationEngine selects products for a hair porosity and a set of
// product type / focus area pairs. It holds no mutable state and is safe for
// concurrent use.
type RecommendationEngine struct {
	catalog        domain.CatalogRepository
	maxResults     int
	maxSimilar     int
	maxConcurrency int
	log            *logger.Logger
}

// NewRecommendationEngine creates an engine reading from the given catalog
func NewRecommendationEngine(catalog domain.CatalogRepository, config EngineConfig, log *logger.Logger) *RecommendationEngine {
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	maxSimilar := config.MaxSimilar
	if maxSimilar <= 0 {
		maxSimilar = defaultMaxSimilar
	}

	concurrency := config.MaxConcurrency
	if concurrency <= 0 {
		concurrency = defaultMaxConcurrency
	}

	if log == nil {
		log = logger.NewNop()
	}

	return &RecommendationEngine{
		catalog:        catalog,
		maxResults:     maxResults,
		maxSimilar:     maxSimilar,
		maxConcurrency: concurrency,
		log:            log.With("component", "RecommendationEngine"),
	}
}

// Recommend picks a main recommendation and up to maxResults-1 similar
// products for every product type in productFocus.
//
// An unknown porosity fails the whole request with ErrInvalidPorosity. Pairs
// whose focus area is unknown, or that have no surviving candidates, are left
// out of the result; if every pair is left out the call fails with
// ErrNoRecommendations. Catalog errors are returned as they are.
func (e *RecommendationEngine) Recommend(
	ctx context.Context,
	porosityName string,
	productFocus map[string]string,
) (domain.Recommendations, error) {
	porosity, err := e.catalog.FindPorosityByName(ctx, porosityName)
	if err != nil {
		return nil, err
	}
	if porosity == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPorosity, porosityName)
	}

	vetoed, err := e.vetoedProducts(ctx, porosity.ID)
	if err != nil {
		return nil, err
	}

	productTypes := make([]string, 0, len(productFocus))
	for productType := range productFocus {
		productTypes = append(productTypes, productType)
	}
	sort.Strings(productTypes)

	// Pairs are independent; each goroutine writes only its own slot.
	ranked := make([][]domain.ScoredProduct, len(productTypes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)

	for i, productType := range productTypes {
		g.Go(func() error {
			products, err := e.rankPair(gctx, productType, productFocus[productType], vetoed, 0, e.maxResults)
			if err != nil {
				return err
			}
			ranked[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recommendations := make(domain.Recommendations, len(productTypes))
	for i, productType := range productTypes {
		if len(ranked[i]) == 0 {
			continue
		}
		recommendations[productType] = packageRecommendation(ranked[i])
	}

	if len(recommendations) == 0 {
		return nil, domain.ErrNoRecommendations
	}
	return recommendations, nil
}

// SimilarTo ranks up to maxSimilar products of the request's product type,
// never returning the excluded product. An empty result is not an error; an
// unknown focus area yields an empty result as well.
func (e *RecommendationEngine) SimilarTo(ctx context.Context, request domain.SimilarRequest) ([]domain.ProductSummary, error) {
	porosity, err := e.catalog.FindPorosityByName(ctx, request.HairPorosity)
	if err != nil {
		return nil, err
	}
	if porosity == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPorosity, request.HairPorosity)
	}

	vetoed, err := e.vetoedProducts(ctx, porosity.ID)
	if err != nil {
		return nil, err
	}

	ranked, err := e.rankPair(ctx, request.ProductType, request.FocusArea, vetoed, request.ExcludeProductID, e.maxSimilar)
	if err != nil {
		return nil, err
	}

	similar := make([]domain.ProductSummary, 0, len(ranked))
	for _, p := range ranked {
		similar = append(similar, domain.NewProductSummary(p.Product))
	}
	return similar, nil
}

// vetoedProducts returns the products containing at least one ingredient
// marked unsuitable for the porosity. No unsuitable ingredients means no veto.
func (e *RecommendationEngine) vetoedProducts(ctx context.Context, porosityID int64) (domain.IDSet, error) {
	unsuitable, err := e.catalog.UnsuitableIngredients(ctx, porosityID)
	if err != nil {
		return nil, err
	}
	if unsuitable.Len() == 0 {
		return domain.NewIDSet(), nil
	}
	return e.catalog.ProductIDsContainingAny(ctx, unsuitable)
}

// rankPair resolves the focus area and returns the best candidates for one
// product type. A nil result with a nil error means the pair was skipped.
func (e *RecommendationEngine) rankPair(
	ctx context.Context,
	productType, focusName string,
	vetoed domain.IDSet,
	excludeID int64,
	limit int,
) ([]domain.ScoredProduct, error) {
	focus, err := e.catalog.FindFocusAreaByName(ctx, focusName)
	if err != nil {
		return nil, err
	}
	if focus == nil {
		e.log.Info("skipping product type: unknown focus area", "product_type", productType, "focus_area", focusName)
		observability.RecommendationPairsSkipped.WithLabelValues(observability.SkipUnknownFocusArea).Inc()
		return nil, nil
	}

	targeted, err := e.catalog.FocusIngredients(ctx, focus.ID)
	if err != nil {
		return nil, err
	}

	var candidates []domain.ScoredProduct
	if targeted.Len() > 0 {
		candidates, err = e.catalog.ProductsByTypeAndIngredients(ctx, productType, targeted)
		if err != nil {
			return nil, err
		}
	}

	ranked := rankCandidates(candidates, vetoed, excludeID, limit)
	if len(ranked) == 0 {
		e.log.Debug("skipping product type: no candidates", "product_type", productType, "focus_area", focus.Name)
		observability.RecommendationPairsSkipped.WithLabelValues(observability.SkipNoCandidates).Inc()
		return nil, nil
	}
	return ranked, nil
}

// rankCandidates drops vetoed, excluded and non-matching products, orders the
// rest by match count (stable, so catalog order breaks ties) and keeps the
// first limit entries.
func rankCandidates(candidates []domain.ScoredProduct, vetoed domain.IDSet, excludeID int64, limit int) []domain.ScoredProduct {
	survivors := make([]domain.ScoredProduct, 0, len(candidates))
	for _, c := range candidates {
		if c.MatchCount <= 0 || vetoed.Has(c.ID) {
			continue
		}
		if excludeID != 0 && c.ID == excludeID {
			continue
		}
		survivors = append(survivors, c)
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].MatchCount > survivors[j].MatchCount
	})

	if len(survivors) > limit {
		survivors = survivors[:limit]
	}
	return survivors
}

func packageRecommendation(ranked []domain.ScoredProduct) domain.Recommendation {
	similar := make([]domain.ProductSummary, 0, len(ranked)-1)
	for _, p := range ranked[1:] {
		similar = append(similar, domain.NewProductSummary(p.Product))
	}
	return domain.Recommendation{
		MainRecommendation: domain.NewProductSummary(ranked[0].Product),
		SimilarProducts:    similar,
	}
}
