// Package rxnav resolves free-text medicine names into ingredient,
// generic and brand relationships using the RxNav REST vocabulary
// service. The client is stateless and safe to call repeatedly with
// the same input.
package rxnav

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to an RxNav-compatible vocabulary service
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a vocabulary client. The timeout bounds each
// individual request so a slow upstream cannot hang a search.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured service endpoint
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the vocabulary service answers at all. Used by the
// availability monitor, never on the request path.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version.json", nil)
	if err != nil {
		return fmt.Errorf("failed to build ping request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vocabulary service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vocabulary service returned status %d", resp.StatusCode)
	}
	return nil
}

// SearchDrugs looks up concept groups for a medicine name
func (c *Client) SearchDrugs(ctx context.Context, name string) ([]ConceptGroup, error) {
	endpoint := fmt.Sprintf("%s/drugs.json?name=%s", c.baseURL, url.QueryEscape(name))

	var payload drugGroupResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("drug search for %q failed: %w", name, err)
	}

	return payload.DrugGroup.ConceptGroups, nil
}

// AllRelated fetches every concept related to the given identifier
func (c *Client) AllRelated(ctx context.Context, rxcui string) ([]ConceptGroup, error) {
	endpoint := fmt.Sprintf("%s/rxcui/%s/allrelated.json", c.baseURL, url.PathEscape(rxcui))

	var payload allRelatedResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("related concepts lookup for rxcui %s failed: %w", rxcui, err)
	}

	return payload.AllRelatedGroup.ConceptGroups, nil
}

// getJSON issues a GET request and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vocabulary service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}

	return nil
}
