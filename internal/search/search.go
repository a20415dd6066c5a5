// Package search filters tab and favorite views by a free-text query.
// Matching is a case-insensitive substring over title and domain —
// no fuzziness, no tokenizing.
package search

import (
	"strings"

	"github.com/lotas/onehandle/internal/types"
)

// FilterGroups keeps only tabs whose title or domain contains the
// query. Groups left empty after filtering are dropped. An empty or
// all-whitespace query returns the input unchanged. Surviving items
// keep their input order.
func FilterGroups(groups []types.WindowGroup, query string) []types.WindowGroup {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return groups
	}

	result := make([]types.WindowGroup, 0, len(groups))
	for _, g := range groups {
		var kept []types.TabRecord
		for _, tab := range g.Tabs {
			if matches(tab.Title, tab.Domain, q) {
				kept = append(kept, tab)
			}
		}
		if len(kept) == 0 {
			continue
		}
		result = append(result, types.WindowGroup{
			WindowID: g.WindowID,
			Tabs:     kept,
			Focused:  g.Focused,
		})
	}
	return result
}

// FilterFavorites applies the same matching to a flat favorites list.
func FilterFavorites(favorites []types.FavoriteTab, query string) []types.FavoriteTab {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return favorites
	}

	result := make([]types.FavoriteTab, 0, len(favorites))
	for _, f := range favorites {
		if matches(f.Title, f.Domain, q) {
			result = append(result, f)
		}
	}
	return result
}

func matches(title, domain, q string) bool {
	return strings.Contains(strings.ToLower(title), q) ||
		strings.Contains(strings.ToLower(domain), q)
}
