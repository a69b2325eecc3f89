package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// RemoteAPIBackend generates text through the Gemini API in JSON mode.
type RemoteAPIBackend struct {
	model *genai.GenerativeModel
}

// NewRemoteAPIBackend creates the remote API backend.
func NewRemoteAPIBackend(apiKey, modelName string) (*RemoteAPIBackend, error) {
	if apiKey == "" {
		return nil, &FatalError{Op: "gemini init", Err: errors.New("GEMINI_API_KEY is not set")}
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &RemoteAPIBackend{model: model}, nil
}

func (g *RemoteAPIBackend) Name() string { return BackendRemoteAPI }

// GenerateJSON sends the prompts and returns the raw JSON object text.
func (g *RemoteAPIBackend) GenerateJSON(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(systemPrompt), genai.Text(userPayload))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// classifyGeminiError sorts API failures into retryable and fatal.
// Anything without an HTTP status is assumed to be a connection-level
// problem and retried.
func classifyGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 429 || gerr.Code >= 500:
			return &RetryableError{Op: "gemini generate", Err: err}
		case gerr.Code == 400 || gerr.Code == 401 || gerr.Code == 403 || gerr.Code == 404:
			return &FatalError{Op: "gemini generate", Err: err}
		}
	}
	return &RetryableError{Op: "gemini generate", Err: err}
}
