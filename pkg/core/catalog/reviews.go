package catalog

import (
	"context"
	"fmt"

	"agentic_recommendation/pkg/models"
)

// ReviewRepo reads customer reviews.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS reviews (
//   id BIGSERIAL PRIMARY KEY,
//   product_id BIGINT REFERENCES products(id),
//   rating INT,
//   review_text TEXT,
//   verified_purchase BOOLEAN,
//   helpful_count INT,
//   created_at TIMESTAMPTZ
// );
type ReviewRepo struct{}

// NewReviewRepo creates a new repository instance.
func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{}
}

// ListByProduct returns reviews for a product, most helpful first.
// A non-positive limit falls back to 100, enough for stable statistics
// without dragging the whole table through an analysis pass.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, product_id, rating, review_text, verified_purchase, helpful_count, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY helpful_count DESC, created_at DESC
		LIMIT $2
	`

	rows, err := pool.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for product %d: %w", productID, err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Rating, &rv.Text, &rv.Verified, &rv.HelpfulCount, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("review rows iteration failed: %w", err)
	}
	return reviews, nil
}
