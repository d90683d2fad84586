// Package grounding obtains current Indian pharmacy prices through a
// search-grounded Gemini generation call and extracts the citations the
// model used. Narrative text and citation sets are model-generated and
// not reproducible between calls with identical input.
package grounding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Generator is the slice of the Gemini SDK the client needs. The SDK's
// Models service satisfies it, and tests substitute canned responses.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Source is one cited web page backing the narrative
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PriceSearchResult carries the grounded answer and its provenance
type PriceSearchResult struct {
	Narrative     string   `json:"narrativeText"`
	Sources       []Source `json:"sources,omitempty"`
	SearchQueries []string `json:"searchQueriesUsed,omitempty"`
}

// Client runs grounded generation calls against one Gemini model
type Client struct {
	gen     Generator
	model   string
	timeout time.Duration
}

// NewClient creates a grounding client with its own Gemini connection
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		gen:     genaiClient.Models,
		model:   model,
		timeout: timeout,
	}, nil
}

// NewClientWithGenerator injects a Generator directly, used in tests
func NewClientWithGenerator(gen Generator, model string, timeout time.Duration) *Client {
	return &Client{
		gen:     gen,
		model:   model,
		timeout: timeout,
	}
}

// FindIndianPrices asks the model to search the web for the branded
// price and generic alternatives of a medicine in India. Failures are
// returned as errors for the caller to absorb into its payload.
func (c *Client) FindIndianPrices(ctx context.Context, medicineName, activeIngredient string) (*PriceSearchResult, error) {
	return c.run(ctx, BuildPricePrompt(medicineName, activeIngredient))
}

// Search runs a plain grounded web search
func (c *Client) Search(ctx context.Context, query string) (*PriceSearchResult, error) {
	return c.run(ctx, fmt.Sprintf("Search the web and answer concisely: %s", query))
}

// SearchIndia runs a grounded web search scoped to Indian sources
func (c *Client) SearchIndia(ctx context.Context, query string) (*PriceSearchResult, error) {
	return c.run(ctx, fmt.Sprintf("Search the web and answer concisely, preferring Indian websites and Indian context: %s (India)", query))
}

// run executes one grounded generation call under the client timeout
func (c *Client) run(ctx context.Context, prompt string) (*PriceSearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := c.gen.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("grounded generation failed: %w", err)
	}

	narrative := strings.TrimSpace(resp.Text())
	if narrative == "" {
		return nil, fmt.Errorf("grounded generation returned no text")
	}

	result := &PriceSearchResult{
		Narrative: narrative,
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		md := resp.Candidates[0].GroundingMetadata
		result.Sources = ExtractSources(md)
		result.SearchQueries = ExtractSearchQueries(md)
	}

	return result, nil
}
