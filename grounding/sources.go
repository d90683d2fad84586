package grounding

import "google.golang.org/genai"

// maxSources caps the citation list attached to a price result
const maxSources = 5

// ExtractSources pulls cited web pages out of grounding metadata.
// Only chunks backed by a web page are kept, upstream order is
// preserved, and the list caps at maxSources. Extraction has no side
// effects, so re-running it on the same metadata yields the same list.
func ExtractSources(md *genai.GroundingMetadata) []Source {
	if md == nil {
		return nil
	}

	var sources []Source
	for _, chunk := range md.GroundingChunks {
		if len(sources) >= maxSources {
			break
		}
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, Source{
			Title: chunk.Web.Title,
			URL:   chunk.Web.URI,
		})
	}

	return sources
}

// ExtractSearchQueries returns the literal queries the model issued
func ExtractSearchQueries(md *genai.GroundingMetadata) []string {
	if md == nil || len(md.WebSearchQueries) == 0 {
		return nil
	}

	queries := make([]string, len(md.WebSearchQueries))
	copy(queries, md.WebSearchQueries)
	return queries
}
