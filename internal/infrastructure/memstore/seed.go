package memstore

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/haircare/backend/internal/domain"
)

// Seed is the declarative form of a catalog, as stored in a YAML catalog file
type Seed struct {
	Porosities  []string         `yaml:"porosities"`
	FocusAreas  []string         `yaml:"focus_areas"`
	Ingredients []SeedIngredient `yaml:"ingredients"`
	Products    []SeedProduct    `yaml:"products"`
}

// SeedIngredient declares an ingredient and its associations
type SeedIngredient struct {
	Name       string          `yaml:"name"`
	FocusAreas []string        `yaml:"focus_areas"`
	Porosity   map[string]bool `yaml:"porosity"` // porosity name -> suitable
}

// SeedProduct declares a product and the names of its ingredients
type SeedProduct struct {
	Name        string   `yaml:"name"`
	Company     string   `yaml:"company"`
	Price       float64  `yaml:"price"`
	Image       string   `yaml:"image"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Ingredients []string `yaml:"ingredients"`
}

// LoadFile reads a YAML catalog file and builds a catalog from it
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML catalog data
func Parse(data []byte) (*Catalog, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return FromSeed(seed)
}

// FromSeed builds a catalog, assigning ids in declaration order. References to
// undeclared porosities, focus areas or ingredients are errors.
func FromSeed(seed Seed) (*Catalog, error) {
	c := New()

	porosityIDs := make(map[string]int64, len(seed.Porosities))
	for _, name := range seed.Porosities {
		id, err := c.AddPorosity(name)
		if err != nil {
			return nil, err
		}
		porosityIDs[strings.ToLower(name)] = id
	}

	focusIDs := make(map[string]int64, len(seed.FocusAreas))
	for _, name := range seed.FocusAreas {
		id, err := c.AddFocusArea(name)
		if err != nil {
			return nil, err
		}
		focusIDs[strings.ToLower(name)] = id
	}

	ingredientIDs := make(map[string]int64, len(seed.Ingredients))
	for _, si := range seed.Ingredients {
		id, err := c.AddIngredient(si.Name)
		if err != nil {
			return nil, err
		}
		ingredientIDs[strings.ToLower(si.Name)] = id

		for _, focus := range si.FocusAreas {
			focusID, ok := focusIDs[strings.ToLower(focus)]
			if !ok {
				return nil, fmt.Errorf("ingredient %q targets unknown focus area %q", si.Name, focus)
			}
			if err := c.Target(id, focusID); err != nil {
				return nil, err
			}
		}
		for porosity, suitable := range si.Porosity {
			porosityID, ok := porosityIDs[strings.ToLower(porosity)]
			if !ok {
				return nil, fmt.Errorf("ingredient %q references unknown porosity %q", si.Name, porosity)
			}
			if err := c.SetSuitability(id, porosityID, suitable); err != nil {
				return nil, err
			}
		}
	}

	for _, sp := range seed.Products {
		productID, err := c.AddProduct(domain.Product{
			Name:        sp.Name,
			Company:     sp.Company,
			Price:       sp.Price,
			ImageURL:    sp.Image,
			ProductType: sp.Type,
			Description: sp.Description,
		})
		if err != nil {
			return nil, err
		}
		for _, name := range sp.Ingredients {
			ingredientID, ok := ingredientIDs[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("product %q contains unknown ingredient %q", sp.Name, name)
			}
			if err := c.Contain(productID, ingredientID); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}
