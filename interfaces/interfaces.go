// Package interfaces defines core abstractions for the generic
// medicines API to improve testability, maintainability, and
// separation of concerns.
package interfaces

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/medisave/genericmeds-api/grounding"
	"github.com/medisave/genericmeds-api/rxnav"
)

// MedicineResolver defines the contract for the drug vocabulary lookup.
// Implementations must convert every upstream failure into an error
// value; callers degrade gracefully instead of aborting a search.
type MedicineResolver interface {
	// Resolve maps a free-text medicine name to its ingredient,
	// generic formulation, brands and dose form
	Resolve(ctx context.Context, name string) (*rxnav.ResolvedMedicineInfo, error)

	// SearchDrugs returns raw concept groups for a name
	SearchDrugs(ctx context.Context, name string) ([]rxnav.ConceptGroup, error)

	// AllRelated returns every concept related to an identifier
	AllRelated(ctx context.Context, rxcui string) ([]rxnav.ConceptGroup, error)
}

// PriceSearcher defines the contract for search-grounded price lookups
type PriceSearcher interface {
	// FindIndianPrices reports branded and generic prices from Indian
	// pharmacy sources, with citations
	FindIndianPrices(ctx context.Context, medicineName, activeIngredient string) (*grounding.PriceSearchResult, error)

	// Search runs a plain grounded web search
	Search(ctx context.Context, query string) (*grounding.PriceSearchResult, error)

	// SearchIndia runs a grounded web search scoped to India
	SearchIndia(ctx context.Context, query string) (*grounding.PriceSearchResult, error)
}

// ChatBackend is the slice of the OpenAI client the orchestrator uses.
// The real *openai.Client satisfies it; tests supply canned tool-call
// responses since model behavior cannot be reproduced deterministically.
type ChatBackend interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Answer is the orchestrator's final output. Text is whatever the
// model emitted, usually the requested JSON shape; the system does not
// validate it.
type Answer struct {
	SearchID string `json:"search_id"`
	Text     string `json:"text"`
	Turns    int    `json:"turns"`
}

// Orchestrator defines the contract for the tool-calling agent
type Orchestrator interface {
	Run(ctx context.Context, query string) (*Answer, error)
}

// Pinger defines the contract for upstream reachability probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler defines the contract for background job lifecycles
type Scheduler interface {
	Start() error
	Stop()
}

// ProbeStatus is one observation of upstream reachability
type ProbeStatus struct {
	CheckedAt           time.Time `json:"checked_at"`
	Reachable           bool      `json:"reachable"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// StatusStore defines thread-safe storage for probe observations
type StatusStore interface {
	RecordProbe(status ProbeStatus)
	LastProbe() ProbeStatus
}

// Compile-time checks for the upstream clients
var (
	_ MedicineResolver = (*rxnav.Client)(nil)
	_ Pinger           = (*rxnav.Client)(nil)
	_ PriceSearcher    = (*grounding.Client)(nil)
	_ ChatBackend      = (*openai.Client)(nil)
)
