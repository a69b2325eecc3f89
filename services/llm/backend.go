package llm

import (
	"context"
	"fmt"
	"strings"

	"taskmos/config"
)

// Backend variant names accepted in configuration.
const (
	BackendRemoteAPI    = "remote_api"
	BackendLocalProcess = "local_process"
)

// Result is the structural contract with every backend: one request, one
// JSON object response with a text field.
type Result struct {
	Text string `json:"text"`
}

// Backend is one text-generation strategy. GenerateJSON returns the raw
// JSON object produced for the given prompts; classification of failures
// into RetryableError/FatalError is the backend's responsibility.
type Backend interface {
	Name() string
	GenerateJSON(ctx context.Context, systemPrompt, userPayload string) (string, error)
}

// NewBackendFromConfig constructs the configured backend variant once, at
// startup. Callers hold the result by reference; there is no hidden
// global selection.
func NewBackendFromConfig() (Backend, error) {
	switch strings.ToLower(config.AppConfig.LLMBackend) {
	case BackendRemoteAPI:
		return NewRemoteAPIBackend(config.AppConfig.GeminiAPIKey, config.AppConfig.LLMModel)
	case BackendLocalProcess:
		return NewLocalProcessBackend(config.AppConfig.LocalLLMCommand)
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %s", config.AppConfig.LLMBackend)
	}
}
