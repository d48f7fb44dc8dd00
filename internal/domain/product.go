package domain

// Product is a haircare product in the catalog
type Product struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"product_name" db:"product_name"`
	Company     string  `json:"company" db:"company"`
	Price       float64 `json:"price" db:"price"`
	ImageURL    string  `json:"product_img" db:"product_img"`
	ProductType string  `json:"product_type" db:"product_type"`
	Description string  `json:"description" db:"description"`
}

// Ingredient is a single ingredient that products are composed of
type Ingredient struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// FocusArea is a desired treatment outcome, e.g. "Deep hydration"
type FocusArea struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Porosity is a hair porosity class, e.g. "low", "medium", "high"
type Porosity struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ScoredProduct pairs a candidate product with the number of distinct
// ingredients it shares with a target ingredient set
type ScoredProduct struct {
	Product
	MatchCount int `json:"match_count" db:"match_count"`
}

// ProductDetail is a product together with its full ingredient list
type ProductDetail struct {
	Product
	Ingredients []Ingredient `json:"ingredients"`
}
