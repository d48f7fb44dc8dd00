package usecase

import (
	"errors"
	"testing"

	"github.com/haircare/backend/internal/domain"
)

func TestNewRequestNormalizer(t *testing.T) {
	t.Run("uses provided limit", func(t *testing.T) {
		n := NewRequestNormalizer(5)
		if n.maxProductTypes != 5 {
			t.Errorf("maxProductTypes = %d, want 5", n.maxProductTypes)
		}
	})

	t.Run("uses default limit when zero", func(t *testing.T) {
		n := NewRequestNormalizer(0)
		if n.maxProductTypes != defaultMaxProductTypes {
			t.Errorf("maxProductTypes = %d, want %d", n.maxProductTypes, defaultMaxProductTypes)
		}
	})
}

func TestValidateRecommendation(t *testing.T) {
	n := NewRequestNormalizer(2)

	testCases := []struct {
		name    string
		request *domain.RecommendationRequest
		wantErr bool
	}{
		{name: "nil request", request: nil, wantErr: true},
		{name: "blank porosity", request: &domain.RecommendationRequest{HairPorosity: "  ", ProductFocus: map[string]string{}}, wantErr: true},
		{name: "missing product focus", request: &domain.RecommendationRequest{HairPorosity: "low"}, wantErr: true},
		{
			name:    "too many product types",
			request: &domain.RecommendationRequest{HairPorosity: "low", ProductFocus: map[string]string{"a": "x", "b": "y", "c": "z"}},
			wantErr: true,
		},
		{name: "empty product focus is allowed", request: &domain.RecommendationRequest{HairPorosity: "low", ProductFocus: map[string]string{}}},
		{
			name:    "valid request",
			request: &domain.RecommendationRequest{HairPorosity: "low", ProductFocus: map[string]string{"shampoo": "Deep hydration"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := n.ValidateRecommendation(tc.request)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidRequest) {
					t.Errorf("error = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSimilar(t *testing.T) {
	n := NewRequestNormalizer(0)

	testCases := []struct {
		name    string
		request *domain.SimilarRequest
		wantErr bool
	}{
		{name: "nil request", wantErr: true},
		{name: "missing porosity", request: &domain.SimilarRequest{ProductType: "shampoo", FocusArea: "x"}, wantErr: true},
		{name: "missing focus area", request: &domain.SimilarRequest{ProductType: "shampoo", HairPorosity: "low"}, wantErr: true},
		{name: "negative exclude id", request: &domain.SimilarRequest{ProductType: "shampoo", HairPorosity: "low", FocusArea: "x", ExcludeProductID: -1}, wantErr: true},
		{name: "valid", request: &domain.SimilarRequest{ProductType: "shampoo", HairPorosity: "low", FocusArea: "x", ExcludeProductID: 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := n.ValidateSimilar(tc.request)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateSimilar() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRecommendationCacheKey(t *testing.T) {
	n := NewRequestNormalizer(0)

	t.Run("independent of map order and name case", func(t *testing.T) {
		a := n.RecommendationCacheKey(&domain.RecommendationRequest{
			HairPorosity: "LOW",
			ProductFocus: map[string]string{"shampoo": "Deep Hydration", "conditioner": "Frizz control"},
		})
		b := n.RecommendationCacheKey(&domain.RecommendationRequest{
			HairPorosity: "low",
			ProductFocus: map[string]string{"conditioner": "frizz control", "shampoo": "deep hydration"},
		})
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
		want := "recommendations:low:conditioner=frizz+control;shampoo=deep+hydration"
		if a != want {
			t.Errorf("key = %q, want %q", a, want)
		}
	})

	t.Run("product type case is significant", func(t *testing.T) {
		a := n.RecommendationCacheKey(&domain.RecommendationRequest{HairPorosity: "low", ProductFocus: map[string]string{"shampoo": "x"}})
		b := n.RecommendationCacheKey(&domain.RecommendationRequest{HairPorosity: "low", ProductFocus: map[string]string{"Shampoo": "x"}})
		if a == b {
			t.Errorf("keys should differ for %q", a)
		}
	})

	t.Run("separators in names cannot collide", func(t *testing.T) {
		a := n.RecommendationCacheKey(&domain.RecommendationRequest{HairPorosity: "low", ProductFocus: map[string]string{"a=b": "c"}})
		b := n.RecommendationCacheKey(&domain.RecommendationRequest{HairPorosity: "low", ProductFocus: map[string]string{"a": "b=c"}})
		if a == b {
			t.Errorf("keys should differ for %q", a)
		}
	})
}
