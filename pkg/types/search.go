// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the evo-predict pipeline.
// Implements: search results (SearchResult, ScrapeResult);
//
//	question evaluation (EvaluatedQuestion);
//	forecasting output (Prediction, CompletionPrediction);
//	component configuration (Config).
package types

// SearchResult is a single ranked hit returned by the web search provider.
// Values are treated as immutable once produced by the search client.
type SearchResult struct {
	// Query is the search string that produced this result.
	Query string `json:"query" yaml:"query"`

	// URL is the address of the result page.
	URL string `json:"url" yaml:"url"`

	// Title is the page title as reported by the provider.
	Title string `json:"title" yaml:"title"`

	// Description is the provider's short content snippet.
	Description string `json:"description" yaml:"description"`

	// RawContent is the provider-extracted page text, when requested.
	RawContent string `json:"raw_content" yaml:"raw_content"`

	// Relevancy is the provider-supplied ranking score. Higher is more relevant.
	Relevancy float64 `json:"relevancy" yaml:"relevancy"`
}

// ScrapeResult pairs a SearchResult with the cleaned text of its page.
// Content is empty when the page could not be scraped.
type ScrapeResult struct {
	Query   string `json:"query" yaml:"query"`
	URL     string `json:"url" yaml:"url"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// NewScrapeResult builds the ScrapeResult for r with the given page content.
func NewScrapeResult(r SearchResult, content string) ScrapeResult {
	return ScrapeResult{
		Query:   r.Query,
		URL:     r.URL,
		Title:   r.Title,
		Content: content,
	}
}
