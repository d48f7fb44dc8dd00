package usecase

import (
	"context"

	"github.com/haircare/backend/internal/domain"
)

// ProductService serves single-product lookups
type ProductService struct {
	catalog         domain.CatalogRepository
	recommendations *RecommendationService
}

// NewProductService creates a new product service
func NewProductService(catalog domain.CatalogRepository, recommendations *RecommendationService) *ProductService {
	return &ProductService{
		catalog:         catalog,
		recommendations: recommendations,
	}
}

// GetProduct returns a product with its ingredients
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	if id <= 0 {
		return nil, domain.ErrProductNotFound
	}

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	ingredients, err := s.catalog.ProductIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}

	return &domain.ProductDetail{Product: *product, Ingredients: ingredients}, nil
}

// SimilarForProduct returns alternatives to a product of the same type,
// never including the product itself.
func (s *ProductService) SimilarForProduct(
	ctx context.Context,
	id int64,
	hairPorosity, focusArea string,
) (*domain.SimilarResponse, error) {
	if id <= 0 {
		return nil, domain.ErrProductNotFound
	}

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	return s.recommendations.SimilarTo(ctx, &domain.SimilarRequest{
		ProductType:      product.ProductType,
		HairPorosity:     hairPorosity,
		FocusArea:        focusArea,
		ExcludeProductID: product.ID,
	})
}
