package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
)

// OllamaProvider talks to a local Ollama server. It is the default provider
// so the whole service can run without any cloud API key.
type OllamaProvider struct{}

var _ Provider = (*OllamaProvider)(nil)

type OllamaRequest struct {
	Model    string                 `json:"model"`
	Messages []Message              `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   string                 `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type OllamaResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// GenerateResponse sends a chat request to {OLLAMA_URL}/api/chat.
// Recognized options: model, temperature, num_predict, top_p, and
// response_format {"type": "json_object"} which maps to Ollama's format field.
func (p *OllamaProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	baseURL := os.Getenv("OLLAMA_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	url := baseURL + "/api/chat"

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "llama3.1"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Content: systemPrompt, Role: "system"})
	}
	messages = append(messages, Message{Content: prompt, Role: "user"})

	reqBody := OllamaRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	}

	modelOptions := map[string]interface{}{}
	if val, ok := options["temperature"].(float64); ok {
		modelOptions["temperature"] = val
	}
	if val, ok := options["num_predict"].(int); ok && val > 0 {
		modelOptions["num_predict"] = val
	}
	if val, ok := options["top_p"].(float64); ok {
		modelOptions["top_p"] = val
	}
	if len(modelOptions) > 0 {
		reqBody.Options = modelOptions
	}

	if val, ok := options["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			reqBody.Format = "json"
		}
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("OLLAMA_MARSHAL_ERROR: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("OLLAMA_REQ_CREATE_ERROR: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OLLAMA_API_CALL_ERROR: %v (is the Ollama server running?)", err)
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("OLLAMA_READ_BODY_ERROR: %v", err)
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("OLLAMA_API_ERROR: status=%d found=%s", res.StatusCode, string(body))
	}

	var response OllamaResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("OLLAMA_UNMARSHAL_ERROR: %v", err)
	}
	if response.Message.Content == "" {
		return "", fmt.Errorf("OLLAMA_EMPTY_RESPONSE: %s", string(body))
	}

	return response.Message.Content, nil
}

func (p *OllamaProvider) AdaptInstructions(raw string) string {
	return raw
}
