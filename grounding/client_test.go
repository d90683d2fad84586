package grounding

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

// fakeGenerator returns a canned response or error
type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	calls int
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func groundedResponse(text string, md *genai.GroundingMetadata) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: text}},
				},
				GroundingMetadata: md,
			},
		},
	}
}

func sampleMetadata() *genai.GroundingMetadata {
	return &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{Title: "1mg", URI: "https://www.1mg.com/drugs/lipitor-20mg"}},
			{Web: nil}, // non-web chunk, must be skipped
			{Web: &genai.GroundingChunkWeb{Title: "PharmEasy", URI: "https://pharmeasy.in/atorvastatin"}},
			{Web: &genai.GroundingChunkWeb{Title: "Netmeds", URI: "https://www.netmeds.com/atorvastatin"}},
			{Web: &genai.GroundingChunkWeb{Title: "Apollo", URI: "https://www.apollopharmacy.in/atorvastatin"}},
			{Web: &genai.GroundingChunkWeb{Title: "Jan Aushadhi", URI: "https://janaushadhi.gov.in"}},
			{Web: &genai.GroundingChunkWeb{Title: "Extra", URI: "https://example.com/extra"}},
		},
		WebSearchQueries: []string{"Lipitor 20mg price India", "atorvastatin 20 mg generic price"},
	}
}

func TestFindIndianPrices(t *testing.T) {
	gen := &fakeGenerator{
		resp: groundedResponse("Lipitor 20mg costs ₹215 for 15 tablets on 1mg...", sampleMetadata()),
	}
	client := NewClientWithGenerator(gen, "gemini-2.0-flash", 10*time.Second)

	result, err := client.FindIndianPrices(context.Background(), "Lipitor 20mg", "atorvastatin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(result.Narrative, "₹") {
		t.Errorf("Expected rupee-denominated narrative, got %q", result.Narrative)
	}
	if len(result.Sources) != 5 {
		t.Errorf("Expected sources capped at 5, got %d", len(result.Sources))
	}
	if len(result.SearchQueries) != 2 {
		t.Errorf("Expected 2 search queries, got %d", len(result.SearchQueries))
	}
	if gen.calls != 1 {
		t.Errorf("Expected exactly one generation call, got %d", gen.calls)
	}
}

func TestFindIndianPricesError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	client := NewClientWithGenerator(gen, "gemini-2.0-flash", 10*time.Second)

	_, err := client.FindIndianPrices(context.Background(), "Lipitor", "")
	if err == nil {
		t.Fatal("Expected error, got none")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected underlying message to be carried, got %v", err)
	}
}

func TestFindIndianPricesEmptyText(t *testing.T) {
	gen := &fakeGenerator{resp: groundedResponse("", nil)}
	client := NewClientWithGenerator(gen, "gemini-2.0-flash", 10*time.Second)

	_, err := client.FindIndianPrices(context.Background(), "Lipitor", "")
	if err == nil {
		t.Fatal("Expected error for empty model output, got none")
	}
}

func TestExtractSourcesIdempotent(t *testing.T) {
	md := sampleMetadata()

	first := ExtractSources(md)
	second := ExtractSources(md)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical source lists, got %v and %v", first, second)
	}
	if len(first) != 5 {
		t.Fatalf("Expected 5 sources, got %d", len(first))
	}
	for _, s := range first {
		if s.URL == "" {
			t.Errorf("Expected every source to carry a URL, got %+v", s)
		}
	}
	if first[0].Title != "1mg" {
		t.Errorf("Expected upstream order preserved, got first source %q", first[0].Title)
	}
}

func TestExtractSourcesNilMetadata(t *testing.T) {
	if got := ExtractSources(nil); got != nil {
		t.Errorf("Expected nil for nil metadata, got %v", got)
	}
	if got := ExtractSearchQueries(nil); got != nil {
		t.Errorf("Expected nil queries for nil metadata, got %v", got)
	}
}

func TestBuildPricePrompt(t *testing.T) {
	prompt := BuildPricePrompt("Lipitor 20mg", "atorvastatin")

	for _, want := range []string{"Lipitor 20mg", "atorvastatin", "₹", "generic alternatives", "Do not include purchase links"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	withoutSalt := BuildPricePrompt("Crocin", "")
	if strings.Contains(withoutSalt, "active ingredient (salt) is") {
		t.Error("Expected no salt line when ingredient is unknown")
	}
}

func TestSearchIndiaScopesQuery(t *testing.T) {
	gen := &fakeGenerator{resp: groundedResponse("answer", nil)}
	client := NewClientWithGenerator(gen, "gemini-2.0-flash", 10*time.Second)

	result, err := client.SearchIndia(context.Background(), "atorvastatin brands")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Narrative != "answer" {
		t.Errorf("Expected narrative answer, got %q", result.Narrative)
	}
	if result.Sources != nil {
		t.Errorf("Expected no sources without metadata, got %v", result.Sources)
	}
}
