package memstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
porosities: [low, medium, high]
focus_areas: [Deep hydration]
ingredients:
  - name: Glycerin
    focus_areas: [Deep hydration]
    porosity:
      low: false
  - name: Water
products:
  - name: Hydra Wash
    company: Acme
    price: 12.5
    image: /images/shampoo1.png
    type: shampoo
    description: Gentle wash
    ingredients: [Water, glycerin]
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	products, ingredients := c.Counts()
	assert.Equal(t, 1, products)
	assert.Equal(t, 2, ingredients)

	p, err := c.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Hydra Wash", p.Name)
	assert.Equal(t, 12.5, p.Price)
	assert.Equal(t, "/images/shampoo1.png", p.ImageURL)

	unsuitable, err := c.UnsuitableIngredients(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, unsuitable.Sorted())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "porosities: [low"},
		{"unknown focus area", "ingredients:\n  - name: A\n    focus_areas: [Nope]\n"},
		{"unknown porosity", "ingredients:\n  - name: A\n    porosity: {nope: false}\n"},
		{"unknown ingredient", "products:\n  - name: P\n    type: shampoo\n    ingredients: [Ghost]\n"},
		{"duplicate ingredient", "ingredients:\n  - name: A\n  - name: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("reads file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

		c, err := LoadFile(path)
		require.NoError(t, err)
		products, _ := c.Counts()
		assert.Equal(t, 1, products)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("shipped sample catalog is valid", func(t *testing.T) {
		c, err := LoadFile("../../../config/catalog.yaml")
		require.NoError(t, err)
		products, ingredients := c.Counts()
		assert.Greater(t, products, 0)
		assert.Greater(t, ingredients, 0)
	})
}
