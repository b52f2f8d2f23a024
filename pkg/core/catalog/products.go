package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"agentic_recommendation/pkg/models"
)

// ProductRepo reads the product catalog.
//
// Schema assumption (migrations are managed elsewhere):
// CREATE TABLE IF NOT EXISTS products (
//   id BIGSERIAL PRIMARY KEY,
//   name TEXT NOT NULL,
//   brand TEXT,
//   model TEXT,
//   category TEXT,
//   subcategory TEXT,
//   price NUMERIC NOT NULL,
//   mrp NUMERIC,
//   description TEXT,
//   features JSONB,
//   specifications JSONB,
//   rating NUMERIC,
//   review_count INT,
//   image_url TEXT,
//   in_stock BOOLEAN,
//   stock_quantity INT,
//   created_at TIMESTAMPTZ,
//   updated_at TIMESTAMPTZ
// );
type ProductRepo struct{}

// NewProductRepo creates a new repository instance.
func NewProductRepo() *ProductRepo {
	return &ProductRepo{}
}

const productColumns = `id, name, brand, model, category, subcategory, price, mrp,
	description, features, specifications, rating, review_count,
	image_url, in_stock, stock_quantity, created_at, updated_at`

// SearchFilter narrows a structured catalog query. Zero values mean
// "no constraint" except InStockOnly which must be set explicitly.
type SearchFilter struct {
	Terms       []string
	Category    string
	Subcategory string
	Brand       string
	MinPrice    float64
	MaxPrice    float64
	MinRating   float64
	InStockOnly bool
	Limit       int
}

// GetByID loads a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	row := pool.QueryRow(ctx, query, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load product %d: %w", id, err)
	}
	return p, nil
}

// GetByIDs loads several products in one round trip. Missing IDs are
// silently absent from the result; callers decide whether that is an error.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ANY($1)`, productColumns)

	rows, err := pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// Search runs a structured predicate query against the catalog. Results are
// ordered by rating then review count so the strongest candidates surface
// first even before ranking.
func (r *ProductRepo) Search(ctx context.Context, filter SearchFilter) ([]models.Product, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query, args := buildSearchQuery(filter)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListDealCandidates returns in-stock products that carry a list price, the
// pool the deal finder computes discounts over. Category matches exactly.
func (r *ProductRepo) ListDealCandidates(ctx context.Context, category string, limit int) ([]models.Product, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 40
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE mrp > 0 AND in_stock = TRUE`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("deal candidate query failed: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// buildSearchQuery assembles the SQL and positional args for a SearchFilter.
// Split out so the clause logic is testable without a live database.
func buildSearchQuery(filter SearchFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	// Keywords are one big disjunction: a product matches if ANY keyword
	// appears in ANY searchable field. Recall over precision here; the
	// fusion scoring sorts out relevance.
	var termClauses []string
	for _, term := range filter.Terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		p := next("%" + term + "%")
		for _, f := range []string{"name", "description", "category", "subcategory", "brand", "model", "features::text"} {
			termClauses = append(termClauses, fmt.Sprintf("%s ILIKE %s", f, p))
		}
	}
	if len(termClauses) > 0 {
		conds = append(conds, "("+strings.Join(termClauses, " OR ")+")")
	}
	if filter.Category != "" {
		p := next("%" + filter.Category + "%")
		conds = append(conds, fmt.Sprintf("(category ILIKE %s OR subcategory ILIKE %s)", p, p))
	}
	if filter.Subcategory != "" {
		conds = append(conds, fmt.Sprintf("subcategory ILIKE %s", next("%"+filter.Subcategory+"%")))
	}
	if filter.Brand != "" {
		conds = append(conds, fmt.Sprintf("brand ILIKE %s", next("%"+filter.Brand+"%")))
	}
	if filter.MinPrice > 0 {
		conds = append(conds, fmt.Sprintf("price >= %s", next(filter.MinPrice)))
	}
	if filter.MaxPrice > 0 {
		conds = append(conds, fmt.Sprintf("price <= %s", next(filter.MaxPrice)))
	}
	if filter.MinRating > 0 {
		conds = append(conds, fmt.Sprintf("rating >= %s", next(filter.MinRating)))
	}
	if filter.InStockOnly {
		conds = append(conds, "in_stock = TRUE")
	}

	query := fmt.Sprintf("SELECT %s FROM products", productColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// Popularity-weighted quality puts well-reviewed products ahead of
	// five-star items with three reviews.
	query += " ORDER BY rating * review_count DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query += fmt.Sprintf(" LIMIT %s", next(limit))

	return query, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p             models.Product
		featuresJSON  []byte
		specsJSON     []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Model, &p.Category, &p.Subcategory,
		&p.Price, &p.MRP, &p.Description, &featuresJSON, &specsJSON,
		&p.Rating, &p.ReviewCount, &p.ImageURL, &p.InStock, &p.StockQuantity,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features for product %d: %w", p.ID, err)
		}
	}
	if len(specsJSON) > 0 {
		if err := json.Unmarshal(specsJSON, &p.Specifications); err != nil {
			return nil, fmt.Errorf("failed to unmarshal specifications for product %d: %w", p.ID, err)
		}
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product rows iteration failed: %w", err)
	}
	return products, nil
}
