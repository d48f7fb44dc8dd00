package domain

// RecommendationRequest asks for one recommendation per product type
type RecommendationRequest struct {
	HairPorosity string            `json:"hair_porosity" binding:"required"`
	ProductFocus map[string]string `json:"product_focus" binding:"required"` // product_type -> focus_area
}

// SimilarRequest asks for products similar to a given one
type SimilarRequest struct {
	ProductType      string `json:"product_type" binding:"required"`
	HairPorosity     string `json:"hair_porosity" binding:"required"`
	FocusArea        string `json:"focus_area" binding:"required"`
	ExcludeProductID int64  `json:"exclude_product_id"`
}

// ProductSummary is the product shape exposed in recommendation responses.
// Price and ingredients are intentionally left out.
type ProductSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"product_name"`
	Company     string `json:"company"`
	ImageURL    string `json:"product_img"`
	ProductType string `json:"product_type"`
	Description string `json:"description"`
}

// NewProductSummary projects a catalog product onto its response shape
func NewProductSummary(p Product) ProductSummary {
	return ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Company:     p.Company,
		ImageURL:    p.ImageURL,
		ProductType: p.ProductType,
		Description: p.Description,
	}
}

// Recommendation is the result for a single product type
type Recommendation struct {
	MainRecommendation ProductSummary   `json:"main_recommendation"`
	SimilarProducts    []ProductSummary `json:"similar_products"`
}

// Recommendations maps product type to its recommendation
type Recommendations map[string]Recommendation

// RecommendationResponse is the full body returned for a recommendation request
type RecommendationResponse struct {
	Recommendations Recommendations `json:"recommendations"`
}

// SimilarResponse is the body returned for a similar-products request
type SimilarResponse struct {
	SimilarProducts []ProductSummary `json:"similar_products"`
}
