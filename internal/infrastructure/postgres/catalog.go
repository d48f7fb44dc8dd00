package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/haircare/backend/internal/domain"
	"github.com/haircare/backend/internal/observability"
)

// CatalogRepository reads the product catalog from Postgres
type CatalogRepository struct {
	DB *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) FindPorosityByName(ctx context.Context, name string) (*domain.Porosity, error) {
	defer observe("find_porosity")()

	var porosity domain.Porosity
	query := `SELECT id, name FROM hair_porosities WHERE lower(name) = lower($1) LIMIT 1`
	if err := r.DB.GetContext(ctx, &porosity, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, queryError("find_porosity", err)
	}
	return &porosity, nil
}

func (r *CatalogRepository) FindFocusAreaByName(ctx context.Context, name string) (*domain.FocusArea, error) {
	defer observe("find_focus_area")()

	var focus domain.FocusArea
	query := `SELECT id, name FROM focus_areas WHERE lower(name) = lower($1) LIMIT 1`
	if err := r.DB.GetContext(ctx, &focus, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, queryError("find_focus_area", err)
	}
	return &focus, nil
}

func (r *CatalogRepository) UnsuitableIngredients(ctx context.Context, porosityID int64) (domain.IDSet, error) {
	defer observe("unsuitable_ingredients")()

	var ids []int64
	query := `SELECT ingredient_id FROM ingredient_porosities WHERE porosity_id = $1 AND suitability = FALSE`
	if err := r.DB.SelectContext(ctx, &ids, query, porosityID); err != nil {
		return nil, queryError("unsuitable_ingredients", err)
	}
	return domain.NewIDSet(ids...), nil
}

func (r *CatalogRepository) FocusIngredients(ctx context.Context, focusAreaID int64) (domain.IDSet, error) {
	defer observe("focus_ingredients")()

	var ids []int64
	query := `SELECT ingredient_id FROM ingredient_focus_areas WHERE focus_area_id = $1`
	if err := r.DB.SelectContext(ctx, &ids, query, focusAreaID); err != nil {
		return nil, queryError("focus_ingredients", err)
	}
	return domain.NewIDSet(ids...), nil
}

func (r *CatalogRepository) ProductsByTypeAndIngredients(ctx context.Context, productType string, ingredientIDs domain.IDSet) ([]domain.ScoredProduct, error) {
	if ingredientIDs.Len() == 0 {
		return nil, nil
	}
	defer observe("products_by_type")()

	query, args, err := sqlx.In(`
        SELECT p.id, p.product_name, p.company, p.price, p.product_img, p.product_type, p.description,
               COUNT(DISTINCT pi.ingredient_id) AS match_count
        FROM haircare_products p
        JOIN product_ingredients pi ON pi.product_id = p.id
        WHERE p.product_type = ? AND pi.ingredient_id IN (?)
        GROUP BY p.id
        ORDER BY p.id
    `, productType, ingredientIDs.Sorted())
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}

	var products []domain.ScoredProduct
	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(query), args...); err != nil {
		return nil, queryError("products_by_type", err)
	}
	return products, nil
}

func (r *CatalogRepository) ProductIDsContainingAny(ctx context.Context, ingredientIDs domain.IDSet) (domain.IDSet, error) {
	if ingredientIDs.Len() == 0 {
		return domain.NewIDSet(), nil
	}
	defer observe("products_containing_any")()

	query, args, err := sqlx.In(
		`SELECT DISTINCT product_id FROM product_ingredients WHERE ingredient_id IN (?)`,
		ingredientIDs.Sorted(),
	)
	if err != nil {
		return nil, fmt.Errorf("build containment query: %w", err)
	}

	var ids []int64
	if err := r.DB.SelectContext(ctx, &ids, r.DB.Rebind(query), args...); err != nil {
		return nil, queryError("products_containing_any", err)
	}
	return domain.NewIDSet(ids...), nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	defer observe("get_product")()

	var product domain.Product
	query := `
        SELECT id, product_name, company, price, product_img, product_type, description
        FROM haircare_products WHERE id = $1 LIMIT 1
    `
	if err := r.DB.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, queryError("get_product", err)
	}
	return &product, nil
}

func (r *CatalogRepository) ProductIngredients(ctx context.Context, productID int64) ([]domain.Ingredient, error) {
	defer observe("product_ingredients")()

	ingredients := []domain.Ingredient{}
	query := `
        SELECT i.id, i.name
        FROM haircare_ingredients i
        JOIN product_ingredients pi ON pi.ingredient_id = i.id
        WHERE pi.product_id = $1
        ORDER BY i.id
    `
	if err := r.DB.SelectContext(ctx, &ingredients, query, productID); err != nil {
		return nil, queryError("product_ingredients", err)
	}
	return ingredients, nil
}

func observe(query string) func() {
	start := time.Now()
	return func() {
		observability.CatalogQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	}
}

func queryError(query string, err error) error {
	observability.CatalogQueryErrors.WithLabelValues(query).Inc()
	return fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, query, err)
}
