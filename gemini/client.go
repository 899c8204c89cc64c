package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for audits unless overridden.
const DefaultModel = "gemini-3-flash-preview"

// Client wraps the Gemini genai.Client.
type Client struct {
	client *genai.Client
}

// NewClient creates a new Client with the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// Close is a no-op for the genai SDK.
func (c *Client) Close() error {
	return nil
}

// GenerateContent implements GenerativeClient by delegating to the genai.Client.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*Content, config *GenerateContentConfig) (*GenerateContentResponse, error) {
	genaiContents := make([]*genai.Content, len(contents))
	for i, content := range contents {
		genaiContents[i] = &genai.Content{Role: "user", Parts: convertParts(content.Parts)}
	}

	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: config.ResponseMIMEType,
		Temperature:      config.Temperature,
		MaxOutputTokens:  config.MaxOutputTokens,
	}
	if config.SystemInstruction != nil {
		genaiConfig.SystemInstruction = &genai.Content{Parts: convertParts(config.SystemInstruction.Parts)}
	}
	if config.ThinkingLevel != "" {
		genaiConfig.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingLevel: genai.ThinkingLevel(config.ThinkingLevel),
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, model, genaiContents, genaiConfig)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	return &GenerateContentResponse{Text: result.Text()}, nil
}

func convertParts(parts []*Part) []*genai.Part {
	out := make([]*genai.Part, len(parts))
	for i, part := range parts {
		out[i] = &genai.Part{Text: part.Text}
	}
	return out
}

// wrapAPIError converts genai.APIError to APIError so callers can classify it by status.
func wrapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return NewAPIError(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return NewAPIError(apiErrPtr.Code, apiErrPtr.Message)
	}
	return err
}

// Compile-time check that Client implements GenerativeClient.
var _ GenerativeClient = (*Client)(nil)
