package price

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"agentic_recommendation/pkg/core/utils"
	"agentic_recommendation/pkg/models"
)

// buildChart shapes the 30-day series for the frontend: the price line, a
// dashed constant average overlay, and current/lowest/highest markers.
func buildChart(history []HistoryEntry, current, avg, minPrice, maxPrice float64) *Chart {
	sorted := sortedOldestFirst(history)

	labels := make([]string, len(sorted))
	prices := make([]float64, len(sorted))
	avgLine := make([]float64, len(sorted))
	for i, h := range sorted {
		labels[i] = dayLabel(h.Date)
		prices[i] = h.Price
		avgLine[i] = models.Round2(avg)
	}

	hidePoints := 0
	return &Chart{
		Type:   "line",
		Labels: labels,
		Datasets: []Dataset{
			{
				Label:           "Price History",
				Data:            prices,
				BorderColor:     "#3b82f6",
				BackgroundColor: "rgba(59, 130, 246, 0.1)",
				BorderWidth:     2,
				Fill:            true,
				Tension:         0.4,
			},
			{
				Label:       "30-Day Average",
				Data:        avgLine,
				BorderColor: "#10b981",
				BorderWidth: 2,
				BorderDash:  []int{5, 5},
				Fill:        false,
				PointRadius: &hidePoints,
			},
		},
		Markers: Markers{
			CurrentPrice: Marker{Value: current, Color: "#ef4444", Label: "Current"},
			LowestPrice:  Marker{Value: minPrice, Color: "#22c55e", Label: "Lowest"},
			HighestPrice: Marker{Value: maxPrice, Color: "#f59e0b", Label: "Highest"},
		},
		Options: chartOptions("30-Day Price Trend"),
	}
}

// BuildEnrichedChart produces the richer 90-day chart with price zones,
// point annotations, statistics and plain-language insights. The "current"
// price here is the newest history entry, not the live product price.
func BuildEnrichedChart(history []HistoryEntry, days int) (*EnrichedChart, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("no price history available")
	}

	sorted := sortedOldestFirst(history)
	n := len(sorted)

	labels := make([]string, n)
	fullDates := make([]string, n)
	prices := make([]float64, n)
	sum := 0.0
	minIdx, maxIdx := 0, 0
	for i, h := range sorted {
		prices[i] = h.Price
		sum += h.Price
		if h.Price < prices[minIdx] {
			minIdx = i
		}
		if h.Price > prices[maxIdx] {
			maxIdx = i
		}
		if t, err := time.Parse(time.RFC3339, h.Date); err == nil {
			labels[i] = t.Format("Jan 02")
			fullDates[i] = t.Format("2006-01-02")
		} else {
			labels[i] = dayLabel(h.Date)
			fullDates[i] = dayLabel(h.Date)
		}
	}

	current := prices[n-1]
	minPrice, maxPrice := prices[minIdx], prices[maxIdx]
	avgPrice := sum / float64(n)

	trend, trendEmoji, trendPct := monthlyTrend(prices)

	hidePoints := 0
	return &EnrichedChart{
		Labels:    labels,
		FullDates: fullDates,
		Datasets: []Dataset{
			{
				Label:            "Price History",
				Data:             prices,
				BorderColor:      "rgb(59, 130, 246)",
				BackgroundColor:  "rgba(59, 130, 246, 0.1)",
				Fill:             true,
				Tension:          0.4,
				BorderWidth:      3,
				PointRadius:      &hidePoints,
				PointHoverRadius: 6,
				PointBgColor:     "rgb(59, 130, 246)",
				PointBorderColor: "#fff",
				PointBorderWidth: 2,
			},
		},
		Annotations: chartAnnotations(minIdx, minPrice, maxIdx, maxPrice, n-1, current, avgPrice),
		PriceZones:  priceZones(minPrice, maxPrice, avgPrice),
		Statistics: ChartStatistics{
			CurrentPrice:    current,
			MinPrice:        minPrice,
			MaxPrice:        maxPrice,
			AveragePrice:    models.Round2(avgPrice),
			MinPriceDate:    monthDayYear(sorted[minIdx].Date),
			MaxPriceDate:    monthDayYear(sorted[maxIdx].Date),
			Trend:           trend,
			TrendEmoji:      trendEmoji,
			TrendPercentage: models.Round1(trendPct),
			PriceRange:      models.Round2(maxPrice - minPrice),
			Volatility:      models.Round1((maxPrice - minPrice) / avgPrice * 100),
		},
		Insights:       chartInsights(current, minPrice, maxPrice, avgPrice, trend, trendPct),
		Recommendation: chartRecommendation(current, minPrice, avgPrice, trend),
		ChartOptions:   enrichedChartOptions(days),
	}, nil
}

// monthlyTrend compares the newest 30 entries against the 30 before them.
// With under 60 entries the older window widens to the whole series.
func monthlyTrend(prices []float64) (string, string, float64) {
	n := len(prices)
	if n < 30 {
		return TrendInsufficientData, "❓", 0
	}

	lastMonth := mean(prices[n-30:])
	prevMonth := mean(prices)
	if n >= 60 {
		prevMonth = mean(prices[n-60 : n-30])
	}

	trendPct := (lastMonth - prevMonth) / prevMonth * 100
	switch {
	case trendPct < -5:
		return TrendDecreasing, "📉", trendPct
	case trendPct > 5:
		return TrendIncreasing, "📈", trendPct
	default:
		return TrendStable, "➡️", trendPct
	}
}

func chartInsights(current, minPrice, maxPrice, avgPrice float64, trend string, trendPct float64) []string {
	var insights []string

	if maxPrice > current {
		dropPct := (maxPrice - current) / maxPrice * 100
		if dropPct >= 40 {
			insights = append(insights, fmt.Sprintf("💡 Massive price drop! %.0f%% off from peak!", dropPct))
		} else if dropPct >= 20 {
			insights = append(insights, fmt.Sprintf("📉 Price down %.0f%% from highest", dropPct))
		}
	}

	if trend == TrendDecreasing {
		insights = append(insights, fmt.Sprintf("📉 Prices trending downward (%.1f%% last month)", math.Abs(trendPct)))
	} else if trend == TrendIncreasing {
		insights = append(insights, fmt.Sprintf("📈 Prices going up (%.1f%% last month)", trendPct))
	}

	if current < avgPrice*0.95 {
		insights = append(insights, fmt.Sprintf("✅ %.0f%% below average price", (avgPrice-current)/avgPrice*100))
	} else if current > avgPrice*1.05 {
		insights = append(insights, fmt.Sprintf("⚠️ %.0f%% above average price", (current-avgPrice)/avgPrice*100))
	}

	if current <= minPrice*1.05 {
		insights = append(insights, "🎯 Near all-time low price!")
	}

	return insights
}

func chartRecommendation(current, minPrice, avgPrice float64, trend string) ChartRecommendation {
	switch {
	case current <= minPrice*1.05:
		return ChartRecommendation{Action: "buy_now", Emoji: "✅", Text: "Excellent time to buy!", Reason: "Price is at or near all-time low"}
	case trend == TrendDecreasing:
		return ChartRecommendation{Action: "wait", Emoji: "⏳", Text: "Consider waiting", Reason: "Prices are trending downward"}
	case current < avgPrice:
		return ChartRecommendation{Action: "good_deal", Emoji: "👍", Text: "Fair deal", Reason: "Price is below average"}
	default:
		return ChartRecommendation{Action: "wait", Emoji: "⏳", Text: "Wait for better price", Reason: "Price is currently above average"}
	}
}

// priceZones bands the chart into four shaded regions between the period's
// low and high, anchored on the average.
func priceZones(minPrice, maxPrice, avgPrice float64) []PriceZone {
	goodCut := minPrice + (avgPrice-minPrice)*0.3
	expensiveCut := avgPrice + (maxPrice-avgPrice)*0.5
	return []PriceZone{
		{Name: "Excellent Deal", Min: minPrice, Max: goodCut, Color: "rgba(34, 197, 94, 0.1)", BorderColor: "rgb(34, 197, 94)"},
		{Name: "Good Price", Min: goodCut, Max: avgPrice, Color: "rgba(132, 204, 22, 0.1)", BorderColor: "rgb(132, 204, 22)"},
		{Name: "Average Price", Min: avgPrice, Max: expensiveCut, Color: "rgba(251, 191, 36, 0.1)", BorderColor: "rgb(251, 191, 36)"},
		{Name: "Expensive", Min: expensiveCut, Max: maxPrice, Color: "rgba(239, 68, 68, 0.1)", BorderColor: "rgb(239, 68, 68)"},
	}
}

func chartAnnotations(minIdx int, minPrice float64, maxIdx int, maxPrice float64, lastIdx int, current, avgPrice float64) []Annotation {
	return []Annotation{
		{
			Type: "point", XValue: &minIdx, YValue: &minPrice,
			BackgroundColor: "rgba(34, 197, 94, 0.8)", BorderColor: "rgb(34, 197, 94)", BorderWidth: 2, Radius: 6,
			Label: AnnotationLabel{Content: "Lowest: " + utils.FormatINR(minPrice), Enabled: true, Position: "top"},
		},
		{
			Type: "point", XValue: &maxIdx, YValue: &maxPrice,
			BackgroundColor: "rgba(239, 68, 68, 0.8)", BorderColor: "rgb(239, 68, 68)", BorderWidth: 2, Radius: 6,
			Label: AnnotationLabel{Content: "Highest: " + utils.FormatINR(maxPrice), Enabled: true, Position: "bottom"},
		},
		{
			Type: "point", XValue: &lastIdx, YValue: &current,
			BackgroundColor: "rgba(59, 130, 246, 0.8)", BorderColor: "rgb(59, 130, 246)", BorderWidth: 2, Radius: 6,
			Label: AnnotationLabel{Content: "Current: " + utils.FormatINR(current), Enabled: true, Position: "right"},
		},
		{
			Type: "line", YMin: &avgPrice, YMax: &avgPrice,
			BorderColor: "rgba(156, 163, 175, 0.5)", BorderWidth: 2, BorderDash: []int{5, 5},
			Label: AnnotationLabel{Content: "Average: " + utils.FormatINR(avgPrice), Enabled: true, Position: "end"},
		},
	}
}

func chartOptions(title string) map[string]interface{} {
	return map[string]interface{}{
		"responsive": true,
		"scales": map[string]interface{}{
			"y": map[string]interface{}{
				"beginAtZero": false,
				"title":       map[string]interface{}{"display": true, "text": "Price (₹)"},
			},
			"x": map[string]interface{}{
				"title": map[string]interface{}{"display": true, "text": "Date"},
			},
		},
		"plugins": map[string]interface{}{
			"title":  map[string]interface{}{"display": true, "text": title},
			"legend": map[string]interface{}{"display": true, "position": "top"},
		},
	}
}

func enrichedChartOptions(days int) map[string]interface{} {
	return map[string]interface{}{
		"responsive":          true,
		"maintainAspectRatio": false,
		"interaction":         map[string]interface{}{"mode": "index", "intersect": false},
		"plugins": map[string]interface{}{
			"legend": map[string]interface{}{"display": true, "position": "top"},
			"title": map[string]interface{}{
				"display": true,
				"text":    fmt.Sprintf("Price Trend - Last %d Days", days),
				"font":    map[string]interface{}{"size": 16, "weight": "bold"},
			},
			"tooltip": map[string]interface{}{"enabled": true},
		},
		"scales": map[string]interface{}{
			"y": map[string]interface{}{
				"beginAtZero": false,
				"title":       map[string]interface{}{"display": true, "text": "Price (₹)"},
			},
			"x": map[string]interface{}{
				"title": map[string]interface{}{"display": true, "text": "Date"},
			},
		},
	}
}

// RenderASCII draws the price series as a console chart, used by the
// pipeline CLI.
func RenderASCII(history []HistoryEntry, height int) string {
	if len(history) == 0 {
		return "No price history available"
	}
	if height <= 0 {
		height = 10
	}

	sorted := sortedOldestFirst(history)
	prices := make([]float64, len(sorted))
	minPrice, maxPrice := sorted[0].Price, sorted[0].Price
	for i, h := range sorted {
		prices[i] = h.Price
		if h.Price < minPrice {
			minPrice = h.Price
		}
		if h.Price > maxPrice {
			maxPrice = h.Price
		}
	}
	priceRange := maxPrice - minPrice
	if priceRange == 0 {
		priceRange = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n📊 Price History (Last %d days)\n\n", len(prices))

	for i := height; i >= 0; i-- {
		yValue := minPrice + priceRange*float64(i)/float64(height)
		fmt.Fprintf(&b, "₹%5.0f │", yValue)
		for _, p := range prices {
			normalized := (p - minPrice) / priceRange
			if math.Abs(normalized-float64(i)/float64(height)) < 1/(2*float64(height)) {
				b.WriteString("●")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("      └" + strings.Repeat("─", len(prices)) + "►\n")

	if len(sorted) >= 3 {
		start := monthName(sorted[0].Date)
		mid := monthName(sorted[len(sorted)/2].Date)
		end := monthName(sorted[len(sorted)-1].Date)
		fmt.Fprintf(&b, "       %s      %s      %s\n", start, mid, end)
	}
	b.WriteString("\n")

	current := prices[len(prices)-1]
	if dropPct := (maxPrice - current) / maxPrice * 100; dropPct >= 20 {
		fmt.Fprintf(&b, "💡 Price dropped %.0f%% from peak!\n", dropPct)
	}
	rec := chartRecommendation(current, minPrice, mean(prices), TrendStable)
	fmt.Fprintf(&b, "%s %s\n", rec.Emoji, rec.Text)

	return b.String()
}

func sortedOldestFirst(history []HistoryEntry) []HistoryEntry {
	sorted := make([]HistoryEntry, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return sorted
}

func dayLabel(date string) string {
	if len(date) >= 10 {
		return date[:10]
	}
	return date
}

func monthDayYear(date string) string {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format("Jan 02, 2006")
	}
	return dayLabel(date)
}

func monthName(date string) string {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format("Jan")
	}
	return dayLabel(date)
}
