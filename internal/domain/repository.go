package domain

import (
	"context"
	"time"
)

// CatalogRepository is the read-only view of the product catalog the
// recommendation engine depends on. Name lookups are case-insensitive exact
// matches; lookups that find nothing return nil without an error.
type CatalogRepository interface {
	FindPorosityByName(ctx context.Context, name string) (*Porosity, error)
	FindFocusAreaByName(ctx context.Context, name string) (*FocusArea, error)

	// UnsuitableIngredients returns ingredients explicitly marked unsuitable for the porosity
	UnsuitableIngredients(ctx context.Context, porosityID int64) (IDSet, error)

	// FocusIngredients returns ingredients associated with the focus area
	FocusIngredients(ctx context.Context, focusAreaID int64) (IDSet, error)

	// ProductsByTypeAndIngredients returns products of the given type containing at
	// least one of the ingredients, with distinct match counts, in insertion order
	ProductsByTypeAndIngredients(ctx context.Context, productType string, ingredientIDs IDSet) ([]ScoredProduct, error)

	// ProductIDsContainingAny returns ids of products containing any of the ingredients
	ProductIDsContainingAny(ctx context.Context, ingredientIDs IDSet) (IDSet, error)

	GetProduct(ctx context.Context, id int64) (*Product, error)
	ProductIngredients(ctx context.Context, productID int64) ([]Ingredient, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
