package agent

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/medisave/genericmeds-api/metrics"
	"github.com/medisave/genericmeds-api/rxnav"
)

// Tool names exposed to the model. The combined tool is primary; the
// rest are granular fallbacks.
const (
	toolFindGenericWithPrices = "find_generic_with_prices"
	toolSearchDrugConcepts    = "search_drug_concepts"
	toolGetDrugDetails        = "get_drug_details"
	toolFindGenericForBrand   = "find_generic_for_brand"
	toolListAvailableDoses    = "list_available_doses"
	toolWebSearch             = "web_search"
	toolWebSearchIndia        = "web_search_india"
)

type medicineNameArgs struct {
	MedicineName string `json:"medicine_name"`
}

type rxcuiArgs struct {
	RxCUI string `json:"rxcui"`
}

type queryArgs struct {
	Query string `json:"query"`
}

func medicineNameSchema(description string) jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"medicine_name": {
				Type:        jsonschema.String,
				Description: description,
			},
		},
		Required: []string{"medicine_name"},
	}
}

func querySchema(description string) jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"query": {
				Type:        jsonschema.String,
				Description: description,
			},
		},
		Required: []string{"query"},
	}
}

// toolDefinitions builds the function schemas handed to the model
func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolFindGenericWithPrices,
				Description: "PRIMARY TOOL, use this first. Resolves a medicine name to its active ingredient and generic formulation, and fetches current branded and generic prices from Indian pharmacies, in one call.",
				Parameters:  medicineNameSchema("The medicine name from the user's query, including strength if given, e.g. 'Lipitor 20mg'"),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolSearchDrugConcepts,
				Description: "Searches the drug vocabulary for a name and returns the raw concept groups (ingredients, generic and branded formulations, brand names).",
				Parameters:  medicineNameSchema("The medicine name to search"),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolGetDrugDetails,
				Description: "Fetches all concepts related to a drug concept identifier (rxcui) returned by search_drug_concepts.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"rxcui": {
							Type:        jsonschema.String,
							Description: "The concept identifier to expand",
						},
					},
					Required: []string{"rxcui"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolFindGenericForBrand,
				Description: "Maps a branded medicine name to its generic formulation and active ingredient.",
				Parameters:  medicineNameSchema("The branded medicine name, e.g. 'Lipitor'"),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolListAvailableDoses,
				Description: "Lists the generic formulations (all strengths) known for a medicine name.",
				Parameters:  medicineNameSchema("The medicine name to enumerate doses for"),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolWebSearch,
				Description: "General web search with citations. Use only when the drug tools cannot answer.",
				Parameters:  querySchema("The search query"),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolWebSearchIndia,
				Description: "Web search scoped to Indian websites and context, with citations.",
				Parameters:  querySchema("The search query"),
			},
		},
	}
}

// toolError is returned inside the tool result so a failed call never
// aborts the agent loop.
type toolError struct {
	Error string `json:"error"`
}

// executeTool runs one tool call and returns its JSON result
func (a *Agent) executeTool(ctx context.Context, searchID string, call openai.ToolCall) string {
	metrics.ToolCallsTotal.WithLabelValues(call.Function.Name).Inc()

	result := a.dispatch(ctx, searchID, call)

	data, err := json.Marshal(result)
	if err != nil {
		return `{"error": "failed to encode tool result"}`
	}
	return string(data)
}

func (a *Agent) dispatch(ctx context.Context, searchID string, call openai.ToolCall) any {
	switch call.Function.Name {
	case toolFindGenericWithPrices:
		var args medicineNameArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		return a.findGenericWithPrices(ctx, searchID, args.MedicineName)

	case toolSearchDrugConcepts:
		var args medicineNameArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		groups, err := a.resolver.SearchDrugs(ctx, args.MedicineName)
		if err != nil {
			return toolError{Error: err.Error()}
		}
		return groups

	case toolGetDrugDetails:
		var args rxcuiArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		groups, err := a.resolver.AllRelated(ctx, args.RxCUI)
		if err != nil {
			return toolError{Error: err.Error()}
		}
		return groups

	case toolFindGenericForBrand:
		var args medicineNameArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		info, err := a.resolver.Resolve(ctx, args.MedicineName)
		if err != nil {
			return toolError{Error: err.Error()}
		}
		return map[string]string{
			"genericName":      info.GenericName,
			"activeIngredient": info.ActiveIngredient,
			"dosageForm":       info.DosageForm,
		}

	case toolListAvailableDoses:
		var args medicineNameArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		return a.listAvailableDoses(ctx, args.MedicineName)

	case toolWebSearch:
		var args queryArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		result, err := a.prices.Search(ctx, args.Query)
		if err != nil {
			return toolError{Error: err.Error()}
		}
		return result

	case toolWebSearchIndia:
		var args queryArgs
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
		result, err := a.prices.SearchIndia(ctx, args.Query)
		if err != nil {
			return toolError{Error: err.Error()}
		}
		return result

	default:
		return toolError{Error: fmt.Sprintf("unknown tool: %s", call.Function.Name)}
	}
}

// listAvailableDoses enumerates generic formulations for a name; every
// strength appears as its own formulation concept upstream.
func (a *Agent) listAvailableDoses(ctx context.Context, medicineName string) any {
	groups, err := a.resolver.SearchDrugs(ctx, medicineName)
	if err != nil {
		return toolError{Error: err.Error()}
	}

	var doses []string
	for gi := range groups {
		if groups[gi].TTY != rxnav.TTYGenericFormulation {
			continue
		}
		for _, concept := range groups[gi].Concepts {
			doses = append(doses, concept.Name)
		}
	}

	return map[string]any{
		"medicine": medicineName,
		"doses":    doses,
	}
}
