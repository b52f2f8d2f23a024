package agent

import (
	"context"
	"fmt"
	"sort"

	"agentic_recommendation/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Description string `yaml:"description"`
}

// Manager resolves which LLM provider serves each agent type. Agent types in
// use: intent, review, price, compare, buyplan, summary.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"ollama":   &llm.OllamaProvider{},
			"openai":   &llm.OpenAIProvider{},
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
		},
	}
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	// 2. Use global active provider
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	// 3. Fallback: local Ollama never needs credentials
	return m.providers["ollama"]
}

// GetProviderByName retrieves a provider instance by its specific name (e.g. "ollama", "gemini")
func (m *Manager) GetProviderByName(name string) llm.Provider {
	if p, ok := m.providers[name]; ok {
		return p
	}
	fmt.Printf("[AGENT] Provider '%s' not found, available: %v\n", name, m.ProviderNames())
	return nil
}

// ProviderNames returns the registered provider names, sorted for stable logs.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for k := range m.providers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AgentTypes returns the configured agent types, sorted.
func (m *Manager) AgentTypes() []string {
	types := make([]string, 0, len(m.config.Agents))
	for k := range m.config.Agents {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// ExecutePrompt handles instruction adaptation before sending to the model.
// The context carries the caller's deadline; a fan-out task that times out
// must cancel its in-flight model call.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)

	// Adapt instructions based on the model's specialized "teaching" style
	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)

	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}
