package compare

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"agentic_recommendation/pkg/core/utils"
)

func defaultTableAttributes() []string {
	return []string{"price", "rating", "discount_percent", "review_count", "in_stock"}
}

var asciiLabels = map[string]string{
	"price":            "Price",
	"rating":           "Rating",
	"discount_percent": "Discount",
	"review_count":     "Reviews",
	"in_stock":         "In Stock",
	"brand":            "Brand",
	"model":            "Model",
}

var frontendLabels = map[string]string{
	"price":            "Price",
	"rating":           "Rating",
	"discount_percent": "Discount",
	"review_count":     "Total Reviews",
	"in_stock":         "Availability",
	"brand":            "Brand",
	"model":            "Model",
	"category":         "Category",
}

// ASCIITable renders a side-by-side comparison grid for terminal display.
func ASCIITable(products []Product, attributes []string) string {
	if len(attributes) == 0 {
		attributes = defaultTableAttributes()
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = center(clip(p.Name, 20), 20)
	}
	header := fmt.Sprintf("%-20s | %s", "Attribute", strings.Join(names, " | "))
	separator := strings.Repeat("-", utf8.RuneCountInString(header))

	table := []string{separator, header, separator}
	for _, attr := range attributes {
		values := make([]string, len(products))
		for i, p := range products {
			values[i] = center(asciiValue(p, attr), 20)
		}
		table = append(table, fmt.Sprintf("%-20s | %s", attributeLabel(asciiLabels, attr), strings.Join(values, " | ")))
	}
	table = append(table, separator)

	return strings.Join(table, "\n")
}

// BattleText renders a round-by-round comparison of exactly two products:
// price, rating, discount, then a verdict by round wins.
func BattleText(products []Product) string {
	if len(products) != 2 {
		return "Battle mode requires exactly 2 products"
	}
	p1, p2 := products[0], products[1]

	type round struct {
		title   string
		p1Value string
		p2Value string
		winner  string
		reason  string
	}

	priceWinner := p2.Name
	if p1.Price < p2.Price {
		priceWinner = p1.Name
	}
	ratingWinner := p2.Name
	if p1.Rating > p2.Rating {
		ratingWinner = p1.Name
	}
	discountWinner := p2.Name
	if p1.DiscountPct > p2.DiscountPct {
		discountWinner = p1.Name
	}

	rounds := []round{
		{
			title:   "ROUND 1: PRICE 💰",
			p1Value: utils.FormatINR(p1.Price),
			p2Value: utils.FormatINR(p2.Price),
			winner:  priceWinner,
			reason:  utils.FormatINR(math.Abs(p1.Price-p2.Price)) + " cheaper",
		},
		{
			title:   "ROUND 2: RATING ⭐",
			p1Value: fmt.Sprintf("%.1f/5 (%d reviews)", p1.Rating, p1.ReviewCount),
			p2Value: fmt.Sprintf("%.1f/5 (%d reviews)", p2.Rating, p2.ReviewCount),
			winner:  ratingWinner,
			reason:  fmt.Sprintf("%.1f stars better", math.Abs(p1.Rating-p2.Rating)),
		},
		{
			title:   "ROUND 3: DISCOUNT 🎁",
			p1Value: fmt.Sprintf("%.1f%% OFF", p1.DiscountPct),
			p2Value: fmt.Sprintf("%.1f%% OFF", p2.DiscountPct),
			winner:  discountWinner,
			reason:  fmt.Sprintf("%.1f%% more savings", math.Abs(p1.DiscountPct-p2.DiscountPct)),
		},
	}

	var b strings.Builder
	b.WriteString("⚔️  PRODUCT BATTLE\n")
	fmt.Fprintf(&b, "\n%s VS %s\n\n", p1.Name, p2.Name)

	bar := strings.Repeat("─", 60)
	p1Wins, p2Wins := 0, 0
	for _, r := range rounds {
		fmt.Fprintf(&b, "┌%s┐\n", bar)
		fmt.Fprintf(&b, "│  %-56s  │\n", r.title)
		fmt.Fprintf(&b, "├%s┤\n", bar)
		fmt.Fprintf(&b, "│  %-25s: %-30s│\n", clip(p1.Name, 25), r.p1Value)
		fmt.Fprintf(&b, "│  %-25s: %-30s│\n", clip(p2.Name, 25), r.p2Value)
		fmt.Fprintf(&b, "│%s│\n", strings.Repeat(" ", 60))
		fmt.Fprintf(&b, "│  🏆 WINNER: %-45s│\n", r.winner)
		fmt.Fprintf(&b, "│  Reason: %-49s│\n", r.reason)
		fmt.Fprintf(&b, "└%s┘\n\n", bar)

		if r.winner == p1.Name {
			p1Wins++
		} else {
			p2Wins++
		}
	}

	b.WriteString("🏆 FINAL VERDICT:\n")
	switch {
	case p1Wins > p2Wins:
		fmt.Fprintf(&b, "   Winner: %s (%d rounds)", p1.Name, p1Wins)
	case p2Wins > p1Wins:
		fmt.Fprintf(&b, "   Winner: %s (%d rounds)", p2.Name, p2Wins)
	default:
		b.WriteString("   It's a TIE! Both products are equally matched")
	}

	return b.String()
}

// FrontendTable builds the structured comparison table a frontend renders
// directly: one column per product, one row per attribute, with styling
// hints on every cell.
func FrontendTable(products []Product, attributes []string) *TableData {
	if len(attributes) == 0 {
		attributes = defaultTableAttributes()
	}

	columns := []TableColumn{{Key: "attribute", Label: "Feature", Width: 150}}
	for i, p := range products {
		columns = append(columns, TableColumn{
			Key:       fmt.Sprintf("product_%d", i+1),
			Label:     clip(p.Name, 30),
			Width:     200,
			ProductID: p.ID,
		})
	}

	rows := make([]TableRow, 0, len(attributes))
	for _, attr := range attributes {
		row := TableRow{
			"attribute":     attributeLabel(frontendLabels, attr),
			"attribute_key": attr,
		}
		for i, p := range products {
			row[fmt.Sprintf("product_%d", i+1)] = tableCell(p, attr)
		}
		rows = append(rows, row)
	}

	winners := DetermineWinners(products)
	return &TableData{
		Columns: columns,
		Rows:    rows,
		Winners: winners,
		Metadata: TableMetadata{
			TotalProducts:      len(products),
			AttributesCompared: len(attributes),
			GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
		},
		Recommendations: TableRecommendations{
			BestValue:  winners.BestValue.Product,
			BestPrice:  winners.BestPrice.Product,
			BestRating: winners.BestRating.Product,
		},
	}
}

func tableCell(p Product, attr string) TableCell {
	switch attr {
	case "price":
		return TableCell{Value: utils.FormatINR(p.Price), Raw: p.Price, Style: "currency"}
	case "rating":
		color := "red"
		if p.Rating >= 4.0 {
			color = "green"
		} else if p.Rating >= 3.0 {
			color = "orange"
		}
		return TableCell{Value: fmt.Sprintf("%.1f/5", p.Rating), Raw: p.Rating, Style: "rating", Color: color}
	case "discount_percent":
		if p.DiscountPct <= 0 {
			return TableCell{Value: "No discount", Raw: p.DiscountPct, Style: "badge", Color: "gray"}
		}
		color := "blue"
		if p.DiscountPct >= 20 {
			color = "green"
		}
		return TableCell{Value: fmt.Sprintf("%.1f%% OFF", p.DiscountPct), Raw: p.DiscountPct, Style: "badge", Color: color}
	case "in_stock":
		if p.InStock {
			return TableCell{Value: "In Stock", Raw: true, Style: "status", Color: "green"}
		}
		return TableCell{Value: "Out of Stock", Raw: false, Style: "status", Color: "red"}
	case "review_count":
		return TableCell{Value: strconv.Itoa(p.ReviewCount), Raw: p.ReviewCount, Style: "text"}
	case "brand":
		return TableCell{Value: p.Brand, Raw: p.Brand, Style: "text"}
	case "model":
		return TableCell{Value: p.Model, Raw: p.Model, Style: "text"}
	case "category":
		return TableCell{Value: p.Category, Raw: p.Category, Style: "text"}
	default:
		return TableCell{Value: "N/A", Raw: nil, Style: "text"}
	}
}

func asciiValue(p Product, attr string) string {
	switch attr {
	case "price":
		return utils.FormatINR(p.Price)
	case "rating":
		return fmt.Sprintf("%.1f/5", p.Rating)
	case "discount_percent":
		if p.DiscountPct > 0 {
			return fmt.Sprintf("%.1f%% OFF", p.DiscountPct)
		}
		return "No discount"
	case "review_count":
		return strconv.Itoa(p.ReviewCount)
	case "in_stock":
		if p.InStock {
			return "✓ Yes"
		}
		return "✗ No"
	case "brand":
		return p.Brand
	case "model":
		return p.Model
	case "category":
		return p.Category
	default:
		return "N/A"
	}
}

func attributeLabel(labels map[string]string, attr string) string {
	if label, ok := labels[attr]; ok {
		return label
	}
	words := strings.Split(attr, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
