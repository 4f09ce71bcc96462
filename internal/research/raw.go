// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"strings"
)

const defaultMaxReportChars = 20000

// RawResearcher concatenates every scraped page, in search order, into
// one report.
type RawResearcher struct {
	*gatherer

	// MaxChars bounds the report length in characters (default 20000).
	MaxChars int
}

// Research gathers evidence for goal and renders it as title/url/text
// blocks. Pages that scraped to nothing fall back to the provider's raw
// content, then to its description; results with no text at all are
// left out.
func (r *RawResearcher) Research(ctx context.Context, goal string) (Report, error) {
	ev, err := r.gather(ctx, goal)
	if err != nil {
		return Report{}, err
	}

	var blocks []string
	for i, page := range ev.pages {
		text := page.Content
		if text == "" {
			text = strings.TrimSpace(ev.results[i].RawContent)
		}
		if text == "" {
			text = strings.TrimSpace(ev.results[i].Description)
		}
		if text == "" {
			continue
		}
		blocks = append(blocks, "## "+page.Title+"\n"+page.URL+"\n\n"+text)
	}

	maxChars := r.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxReportChars
	}
	return Report{
		Text: truncateRunes(strings.Join(blocks, "\n\n"), maxChars),
		Metadata: Metadata{
			Strategy: "raw",
			Queries:  ev.queries,
			Sources:  sources(ev.pages),
		},
	}, nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
