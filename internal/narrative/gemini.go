package narrative

import (
	"context"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig holds the settings for the Gemini generator
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Validate ensures all required settings are provided
func (c *GeminiConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.APIKey == "" {
		vb.RequiredField("APIKey")
	}

	return vb.Build()
}

// GeminiGenerator implements Generator on the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini connects a Gemini client
func NewGemini(ctx context.Context, cfg *GeminiConfig) (*GeminiGenerator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create gemini client")
	}

	name := cfg.Model
	if name == "" {
		name = DefaultGeminiModel
	}

	slog.Debug("Gemini generator ready", "model", name)

	return &GeminiGenerator{
		client: client,
		model:  client.GenerativeModel(name),
	}, nil
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "gemini request failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New(errors.CodeUnavailable, "no content returned from gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New(errors.CodeInternal, "unexpected response part from gemini")
	}
	return string(text), nil
}

// Close releases the client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
