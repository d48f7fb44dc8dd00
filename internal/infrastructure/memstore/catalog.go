// Package memstore is an in-memory implementation of the product catalog.
// Entities keep their insertion order, which is the tie-break order used
// when ranking products with equal scores.
package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/haircare/backend/internal/domain"
)

// Catalog is a thread-safe in-memory catalog store
type Catalog struct {
	mu sync.RWMutex

	porosities  []domain.Porosity
	focusAreas  []domain.FocusArea
	ingredients []domain.Ingredient
	products    []domain.Product

	// association rows; duplicates are allowed and collapse when counted
	productIngredients map[int64][]int64
	focusIngredients   map[int64][]int64
	suitability        map[int64]map[int64]bool // porosity -> ingredient -> suitable
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		productIngredients: make(map[int64][]int64),
		focusIngredients:   make(map[int64][]int64),
		suitability:        make(map[int64]map[int64]bool),
	}
}

// AddPorosity adds a porosity class and returns its id
func (c *Catalog) AddPorosity(name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.porosities {
		if sameName(p.Name, name) {
			return 0, fmt.Errorf("porosity %q already exists", name)
		}
	}
	id := int64(len(c.porosities) + 1)
	c.porosities = append(c.porosities, domain.Porosity{ID: id, Name: name})
	return id, nil
}

// AddFocusArea adds a focus area and returns its id
func (c *Catalog) AddFocusArea(name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range c.focusAreas {
		if sameName(f.Name, name) {
			return 0, fmt.Errorf("focus area %q already exists", name)
		}
	}
	id := int64(len(c.focusAreas) + 1)
	c.focusAreas = append(c.focusAreas, domain.FocusArea{ID: id, Name: name})
	return id, nil
}

// AddIngredient adds an ingredient and returns its id
func (c *Catalog) AddIngredient(name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, i := range c.ingredients {
		if sameName(i.Name, name) {
			return 0, fmt.Errorf("ingredient %q already exists", name)
		}
	}
	id := int64(len(c.ingredients) + 1)
	c.ingredients = append(c.ingredients, domain.Ingredient{ID: id, Name: name})
	return id, nil
}

// AddProduct adds a product and returns its id. The ID field of p is ignored.
func (c *Catalog) AddProduct(p domain.Product) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.products {
		if existing.Name == p.Name {
			return 0, fmt.Errorf("product %q already exists", p.Name)
		}
	}
	p.ID = int64(len(c.products) + 1)
	c.products = append(c.products, p)
	return p.ID, nil
}

// Contain records that a product contains an ingredient
func (c *Catalog) Contain(productID, ingredientID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasProduct(productID) {
		return fmt.Errorf("unknown product %d", productID)
	}
	if !c.hasIngredient(ingredientID) {
		return fmt.Errorf("unknown ingredient %d", ingredientID)
	}
	c.productIngredients[productID] = append(c.productIngredients[productID], ingredientID)
	return nil
}

// Target records that an ingredient serves a focus area
func (c *Catalog) Target(ingredientID, focusAreaID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasIngredient(ingredientID) {
		return fmt.Errorf("unknown ingredient %d", ingredientID)
	}
	if focusAreaID < 1 || focusAreaID > int64(len(c.focusAreas)) {
		return fmt.Errorf("unknown focus area %d", focusAreaID)
	}
	c.focusIngredients[focusAreaID] = append(c.focusIngredients[focusAreaID], ingredientID)
	return nil
}

// SetSuitability records whether an ingredient suits a porosity class
func (c *Catalog) SetSuitability(ingredientID, porosityID int64, suitable bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasIngredient(ingredientID) {
		return fmt.Errorf("unknown ingredient %d", ingredientID)
	}
	if porosityID < 1 || porosityID > int64(len(c.porosities)) {
		return fmt.Errorf("unknown porosity %d", porosityID)
	}
	if c.suitability[porosityID] == nil {
		c.suitability[porosityID] = make(map[int64]bool)
	}
	c.suitability[porosityID][ingredientID] = suitable
	return nil
}

func (c *Catalog) FindPorosityByName(ctx context.Context, name string) (*domain.Porosity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.porosities {
		if sameName(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (c *Catalog) FindFocusAreaByName(ctx context.Context, name string) (*domain.FocusArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, f := range c.focusAreas {
		if sameName(f.Name, name) {
			found := f
			return &found, nil
		}
	}
	return nil, nil
}

func (c *Catalog) UnsuitableIngredients(ctx context.Context, porosityID int64) (domain.IDSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := domain.NewIDSet()
	for ingredientID, suitable := range c.suitability[porosityID] {
		if !suitable {
			set.Add(ingredientID)
		}
	}
	return set, nil
}

func (c *Catalog) FocusIngredients(ctx context.Context, focusAreaID int64) (domain.IDSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	return domain.NewIDSet(c.focusIngredients[focusAreaID]...), nil
}

func (c *Catalog) ProductsByTypeAndIngredients(ctx context.Context, productType string, ingredientIDs domain.IDSet) ([]domain.ScoredProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var scored []domain.ScoredProduct
	for _, p := range c.products {
		if p.ProductType != productType {
			continue
		}
		contained := domain.NewIDSet(c.productIngredients[p.ID]...)
		if n := contained.IntersectionLen(ingredientIDs); n > 0 {
			scored = append(scored, domain.ScoredProduct{Product: p, MatchCount: n})
		}
	}
	return scored, nil
}

func (c *Catalog) ProductIDsContainingAny(ctx context.Context, ingredientIDs domain.IDSet) (domain.IDSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := domain.NewIDSet()
	if ingredientIDs.Len() == 0 {
		return ids, nil
	}
	for productID, rows := range c.productIngredients {
		if domain.NewIDSet(rows...).Intersects(ingredientIDs) {
			ids.Add(productID)
		}
	}
	return ids, nil
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.hasProduct(id) {
		return nil, nil
	}
	p := c.products[id-1]
	return &p, nil
}

func (c *Catalog) ProductIngredients(ctx context.Context, productID int64) ([]domain.Ingredient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := domain.NewIDSet()
	ingredients := make([]domain.Ingredient, 0, len(c.productIngredients[productID]))
	for _, id := range c.productIngredients[productID] {
		if seen.Has(id) {
			continue
		}
		seen.Add(id)
		ingredients = append(ingredients, c.ingredients[id-1])
	}
	return ingredients, nil
}

// Counts reports the number of products and ingredients, for start-up logging
func (c *Catalog) Counts() (products, ingredients int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products), len(c.ingredients)
}

// ids are 1-based positions in their slices
func (c *Catalog) hasProduct(id int64) bool {
	return id >= 1 && id <= int64(len(c.products))
}

func (c *Catalog) hasIngredient(id int64) bool {
	return id >= 1 && id <= int64(len(c.ingredients))
}

func sameName(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}
