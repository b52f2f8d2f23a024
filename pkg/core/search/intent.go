package search

import (
	"context"
	"fmt"
	"time"

	"agentic_recommendation/pkg/core/agent"
	"agentic_recommendation/pkg/core/prompt"
	"agentic_recommendation/pkg/core/utils"
)

// Intent parsing sits on the critical path of every request, so it gets a
// short hard deadline. Anything slower degrades to keyword tokenization.
const intentTimeout = 2 * time.Second

// Responses above this size are junk; a valid intent object is tiny.
const maxIntentResponseBytes = 4096

// IntentParser extracts a SearchIntent from a free-text query using the
// configured LLM, falling back to plain tokenization on any failure.
type IntentParser struct {
	agents *agent.Manager
}

func NewIntentParser(agents *agent.Manager) *IntentParser {
	return &IntentParser{agents: agents}
}

// Parse never fails: every error path returns the tokenized fallback intent.
func (p *IntentParser) Parse(ctx context.Context, query string) SearchIntent {
	fallback := fallbackIntent(query)
	if p.agents == nil {
		return fallback
	}

	cctx, cancel := context.WithTimeout(ctx, intentTimeout)
	defer cancel()

	options := map[string]interface{}{
		"temperature": 0.1,
		"num_predict": 200,
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}
	raw, err := p.agents.ExecutePrompt(cctx, "intent", buildIntentPrompt(query), intentSystemPrompt(), options)
	if err != nil {
		fmt.Printf("[SEARCH] Intent parsing failed (using fallback): %v\n", err)
		return fallback
	}
	if len(raw) > maxIntentResponseBytes {
		fmt.Printf("[SEARCH] Intent response too large (%d bytes), using fallback\n", len(raw))
		return fallback
	}

	cleaned := utils.ExtractJSONObject(utils.StripCodeFences(raw))

	var intent SearchIntent
	if _, err := utils.SmartParse(cleaned, &intent); err != nil {
		fmt.Printf("[SEARCH] Intent parse rejected model output: %v\n", err)
		return fallback
	}
	if intent.Intent == "" {
		intent.Intent = query
	}
	return intent
}

func intentSystemPrompt() string {
	return prompt.SystemPromptOr(prompt.PromptIDs.AgentIntent,
		"You are a product search intent parser. You convert shopper queries into structured JSON filters. Return ONLY valid JSON, no other text.")
}

func buildIntentPrompt(query string) string {
	return fmt.Sprintf(`Analyze this product search query and extract structured information.

Query: "%s"

Extract the following information in JSON format:
{
    "category": "product category (e.g. Smartphones, Laptops, Headphones)",
    "brand": "brand name if mentioned",
    "keywords": ["list", "of", "important", "keywords"],
    "price_range": [min_price_number_only, max_price_number_only] or null,
    "features": ["specific", "features", "mentioned"],
    "intent": "brief description of what user wants"
}

Examples:
- "best gaming laptop under 80000" -> {"category": "Laptops", "keywords": ["gaming"], "price_range": [null, 80000]}
- "Samsung phone with good camera" -> {"category": "Smartphones", "brand": "Samsung", "keywords": ["camera"]}
- "wireless headphones" -> {"category": "Headphones", "keywords": ["wireless"]}

Return ONLY valid JSON, no other text.`, query)
}
