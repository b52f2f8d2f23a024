package catalog

import (
	"context"
	"fmt"

	"agentic_recommendation/pkg/models"
)

// PriceRepo reads recorded price history.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS price_history (
//   id BIGSERIAL PRIMARY KEY,
//   product_id BIGINT REFERENCES products(id),
//   price NUMERIC NOT NULL,
//   recorded_at TIMESTAMPTZ NOT NULL
// );
type PriceRepo struct{}

// NewPriceRepo creates a new repository instance.
func NewPriceRepo() *PriceRepo {
	return &PriceRepo{}
}

// History returns price points for the last `days` days, newest first.
// Trend analysis wants 30 days; flash-deal detection looks back 90.
func (r *PriceRepo) History(ctx context.Context, productID int64, days int) ([]models.PricePoint, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if days <= 0 {
		days = 30
	}

	query := `
		SELECT product_id, price, recorded_at
		FROM price_history
		WHERE product_id = $1
		  AND recorded_at >= NOW() - make_interval(days => $2)
		ORDER BY recorded_at DESC
	`

	rows, err := pool.Query(ctx, query, productID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for product %d: %w", productID, err)
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		var pt models.PricePoint
		if err := rows.Scan(&pt.ProductID, &pt.Price, &pt.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("price rows iteration failed: %w", err)
	}
	return points, nil
}
