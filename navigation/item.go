// Package navigation derives the navigable route set, the active menu item,
// and the breadcrumb trail from server-supplied navigation descriptors.
package navigation

import (
	"net/url"

	"github.com/rs/zerolog/log"
)

// Item is one server-supplied navigation descriptor. Either Path or URL is
// present; when URL is present the navigable path is its URL-path component,
// with Path as fallback if parsing fails. Labels are not guaranteed unique,
// so matching by label is a best-effort heuristic, never a key lookup.
type Item struct {
	Label string `json:"label"`
	Path  string `json:"path,omitempty"`
	URL   string `json:"url,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// ResolvedItem is an Item whose navigation target has been reduced to a single
// canonical path at ingestion time, so later matching never re-branches on
// which of Path/URL was present.
type ResolvedItem struct {
	Item
	CanonicalPath string
}

// Resolve canonicalizes a descriptor list. Malformed URL values degrade to
// Path, and to "/" when both are absent; they are logged as warnings, never
// surfaced as errors.
func Resolve(items []Item) []ResolvedItem {
	resolved := make([]ResolvedItem, 0, len(items))
	for _, item := range items {
		resolved = append(resolved, ResolvedItem{Item: item, CanonicalPath: canonicalPath(item)})
	}
	return resolved
}

func canonicalPath(item Item) string {
	if item.URL != "" {
		u, err := url.Parse(item.URL)
		if err == nil && u.Path != "" {
			return u.Path
		}
		log.Warn().Str("label", item.Label).Str("url", item.URL).Msg("navigation item URL unusable, falling back to path")
	}
	if item.Path != "" {
		return item.Path
	}
	log.Warn().Str("label", item.Label).Msg("navigation item has neither url nor path")
	return "/"
}
