// Package llm wraps the Gemini SDKs behind one interface. The analyzer never needs a model
// to run; it is only consulted for optional steps such as mapping unfamiliar listing labels.
package llm

import (
	"context"
	"os"
	"strings"
)

// DefaultModel is used when neither the provider nor the call options name one
const DefaultModel = "gemini-2.0-flash"

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// FromEnv picks a provider from GEMINI_API_KEY, GEMINI_MODEL and GEMINI_SDK.
// It returns nil when no key is set. GEMINI_SDK=legacy selects the generative-ai-go client.
func FromEnv() Provider {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil
	}
	model := os.Getenv("GEMINI_MODEL")
	if strings.EqualFold(os.Getenv("GEMINI_SDK"), "legacy") {
		return &LegacyGeminiProvider{APIKey: key, Model: model}
	}
	return &GeminiProvider{APIKey: key, Model: model}
}

// apiKey prefers the configured key over the environment
func apiKey(configured string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv("GEMINI_API_KEY")
}

// modelName resolves options["model"], then the provider's model, then DefaultModel
func modelName(configured string, options map[string]interface{}) string {
	if val, ok := options["model"].(string); ok && val != "" {
		return val
	}
	if configured != "" {
		return configured
	}
	return DefaultModel
}

// wantsJSON is true for response_format {"type": "json_object"}, or when either prompt asks for JSON
func wantsJSON(prompt, systemPrompt string, options map[string]interface{}) bool {
	if val, ok := options["response_format"].(map[string]interface{}); ok {
		return val["type"] == "json_object"
	}
	return strings.Contains(strings.ToLower(systemPrompt), "json") ||
		strings.Contains(strings.ToLower(prompt), "json")
}
