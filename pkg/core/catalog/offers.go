package catalog

import (
	"context"
	"fmt"

	"agentic_recommendation/pkg/models"
)

// OfferRepo reads bank card offers attached to products.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS card_offers (
//   id BIGSERIAL PRIMARY KEY,
//   product_id BIGINT REFERENCES products(id),
//   bank_name TEXT,
//   card_type TEXT,
//   offer_type TEXT,
//   discount_percent NUMERIC,
//   discount_amount NUMERIC,
//   cashback_amount NUMERIC,
//   emi_tenure_months INT,
//   no_cost BOOLEAN,
//   min_transaction_amount NUMERIC,
//   max_discount_amount NUMERIC,
//   description TEXT,
//   active BOOLEAN,
//   valid_from TIMESTAMPTZ,
//   valid_till TIMESTAMPTZ
// );
type OfferRepo struct{}

// NewOfferRepo creates a new repository instance.
func NewOfferRepo() *OfferRepo {
	return &OfferRepo{}
}

// ActiveByProduct returns offers currently redeemable for a product.
// Expired and disabled offers are excluded at the query level so payment
// planning never has to re-check validity windows.
func (r *OfferRepo) ActiveByProduct(ctx context.Context, productID int64) ([]models.CardOffer, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT id, product_id, bank_name, card_type, offer_type,
		       discount_percent, discount_amount, cashback_amount,
		       emi_tenure_months, no_cost, min_transaction_amount,
		       max_discount_amount, description, active, valid_from, valid_till
		FROM card_offers
		WHERE product_id = $1
		  AND active = TRUE
		  AND valid_from <= NOW()
		  AND valid_till >= NOW()
		ORDER BY bank_name, offer_type
	`

	rows, err := pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load card offers for product %d: %w", productID, err)
	}
	defer rows.Close()

	var offers []models.CardOffer
	for rows.Next() {
		var o models.CardOffer
		err := rows.Scan(
			&o.ID, &o.ProductID, &o.BankName, &o.CardType, &o.OfferType,
			&o.DiscountPercent, &o.DiscountAmount, &o.CashbackAmount,
			&o.EMITenureMonths, &o.NoCost, &o.MinTransactionAmount,
			&o.MaxDiscountAmount, &o.Description, &o.Active, &o.ValidFrom, &o.ValidTill,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("offer rows iteration failed: %w", err)
	}
	return offers, nil
}
