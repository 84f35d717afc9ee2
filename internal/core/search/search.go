// Package search finds messages across stored sessions. It scans the
// in-memory session list so results are identical whichever persistence
// tier the sessions came from.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

// SearchResult represents a single search result
type SearchResult struct {
	SessionID    string
	SessionTitle string
	Role         models.Role
	MessageIndex int
	Snippet      string
}

const (
	maxResults  = 1000
	snippetSpan = 64
)

// Search returns messages containing query, case-insensitively. Results
// come from the most recently updated sessions first, in transcript
// order within each session.
func Search(sessions []*models.Session, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	needle := strings.ToLower(query)

	ordered := append([]*models.Session(nil), sessions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].LastUpdated.After(ordered[j].LastUpdated)
	})

	var results []SearchResult
	for _, session := range ordered {
		for i, msg := range session.History {
			pos := strings.Index(strings.ToLower(msg.Text), needle)
			if pos < 0 {
				continue
			}
			results = append(results, SearchResult{
				SessionID:    session.ID,
				SessionTitle: session.Title,
				Role:         msg.Role,
				MessageIndex: i,
				Snippet:      snippet(msg.Text, pos, len(query)),
			})
			if len(results) >= maxResults {
				return results, nil
			}
		}
	}
	return results, nil
}

// snippet cuts a window around the match, trimmed to rune boundaries.
func snippet(text string, pos, matchLen int) string {
	runes := []rune(text)

	// Byte position to rune position.
	start := len([]rune(text[:pos]))
	end := start + len([]rune(text[pos:pos+matchLen]))

	lo := start - snippetSpan/2
	if lo < 0 {
		lo = 0
	}
	hi := end + snippetSpan/2
	if hi > len(runes) {
		hi = len(runes)
	}

	out := string(runes[lo:hi])
	out = strings.ReplaceAll(out, "\n", " ")
	if lo > 0 {
		out = "..." + out
	}
	if hi < len(runes) {
		out += "..."
	}
	return out
}
