package prompt

// Convenience functions for common prompt operations

// GetAgentPrompt returns an agent's system prompt by agent type
// (e.g. "intent", "review", "compare").
func GetAgentPrompt(agentType string) (string, error) {
	id := "agents." + agentType
	return Get().GetSystemPrompt(id)
}

// SystemPromptOr returns the registered system prompt for id, falling back
// to the given default when the library has no usable entry. Agent packages
// carry their prompts in code; the library exists so operators can override
// them without a rebuild.
func SystemPromptOr(id string, fallback string) string {
	if p, err := Get().GetSystemPrompt(id); err == nil && p != "" {
		return p
	}
	return fallback
}

// MustGetAgentPrompt is like GetAgentPrompt but panics on error
func MustGetAgentPrompt(agentType string) string {
	p, err := GetAgentPrompt(agentType)
	if err != nil {
		panic(err)
	}
	return p
}

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	// Pipeline agents
	AgentIntent  string
	AgentReview  string
	AgentPrice   string
	AgentCompare string
	AgentBuyPlan string
	AgentSummary string
}{
	AgentIntent:  "agents.intent",
	AgentReview:  "agents.review",
	AgentPrice:   "agents.price",
	AgentCompare: "agents.compare",
	AgentBuyPlan: "agents.buyplan",
	AgentSummary: "agents.summary",
}
