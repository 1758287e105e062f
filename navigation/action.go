package navigation

import "strings"

// ActionLink finds the first item whose label contains any of the given
// keywords, case-insensitively, in list order. Labels are not unique, so this
// is best-effort intent guessing (e.g. keywords "employees", "team" to find
// the staff page), not a key lookup; callers should prefer explicit paths
// where the server provides them.
func ActionLink(items []Item, keywords ...string) *Item {
	for i := range items {
		label := strings.ToLower(items[i].Label)
		for _, keyword := range keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(label, strings.ToLower(keyword)) {
				return &items[i]
			}
		}
	}
	return nil
}
