package domain

import "errors"

var (
	// ErrInvalidPorosity is returned when the requested hair porosity is not in the catalog
	ErrInvalidPorosity = errors.New("invalid hair porosity")

	// ErrNoRecommendations is returned when no product type produced any candidate
	ErrNoRecommendations = errors.New("no recommendations found for the given criteria")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when a product id does not exist in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable wraps failures of the underlying catalog store
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
