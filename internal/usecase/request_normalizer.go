package usecase

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/haircare/backend/internal/domain"
)

const defaultMaxProductTypes = 20

// RequestNormalizer validates incoming requests and derives cache keys from them.
// It never rewrites names: lookups are exact after case normalization.
type RequestNormalizer struct {
	maxProductTypes int
}

// NewRequestNormalizer creates a normalizer accepting at most maxProductTypes
// product types per recommendation request (20 when zero or negative)
func NewRequestNormalizer(maxProductTypes int) *RequestNormalizer {
	if maxProductTypes <= 0 {
		maxProductTypes = defaultMaxProductTypes
	}
	return &RequestNormalizer{maxProductTypes: maxProductTypes}
}

// ValidateRecommendation checks the request shape. An empty product focus map
// is valid and simply produces no recommendations.
func (n *RequestNormalizer) ValidateRecommendation(request *domain.RecommendationRequest) error {
	if request == nil {
		return domain.ErrInvalidRequest
	}
	if strings.TrimSpace(request.HairPorosity) == "" {
		return fmt.Errorf("%w: hair_porosity is required", domain.ErrInvalidRequest)
	}
	if request.ProductFocus == nil {
		return fmt.Errorf("%w: product_focus is required", domain.ErrInvalidRequest)
	}
	if len(request.ProductFocus) > n.maxProductTypes {
		return fmt.Errorf("%w: at most %d product types per request", domain.ErrInvalidRequest, n.maxProductTypes)
	}
	return nil
}

// ValidateSimilar checks a similar-products request
func (n *RequestNormalizer) ValidateSimilar(request *domain.SimilarRequest) error {
	if request == nil {
		return domain.ErrInvalidRequest
	}
	switch {
	case strings.TrimSpace(request.HairPorosity) == "":
		return fmt.Errorf("%w: hair_porosity is required", domain.ErrInvalidRequest)
	case strings.TrimSpace(request.FocusArea) == "":
		return fmt.Errorf("%w: focus_area is required", domain.ErrInvalidRequest)
	case request.ExcludeProductID < 0:
		return fmt.Errorf("%w: exclude_product_id must not be negative", domain.ErrInvalidRequest)
	}
	return nil
}

// RecommendationCacheKey builds a key that is equal for requests the engine
// treats identically. Porosity and focus names are lower-cased since their
// lookup ignores case; product types are kept verbatim since categories match
// literally.
// Format: "recommendations:{porosity}:{type}={focus};{type}={focus}"
func (n *RequestNormalizer) RecommendationCacheKey(request *domain.RecommendationRequest) string {
	pairs := make([]string, 0, len(request.ProductFocus))
	for productType, focus := range request.ProductFocus {
		pairs = append(pairs, url.QueryEscape(productType)+"="+url.QueryEscape(strings.ToLower(focus)))
	}
	sort.Strings(pairs)

	return fmt.Sprintf("recommendations:%s:%s",
		url.QueryEscape(strings.ToLower(request.HairPorosity)),
		strings.Join(pairs, ";"))
}
