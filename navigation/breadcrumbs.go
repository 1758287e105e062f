package navigation

import "strings"

// Crumb is one entry of a breadcrumb trail. Exactly one entry in a trail has
// Current set, and it is always the last.
type Crumb struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Current bool   `json:"current"`
}

// Breadcrumbs derives the trail for a pathname from a server-supplied mapping
// of accumulated path prefixes to crumbs. Path segments are accumulated left
// to right and an entry is emitted for every prefix present in the mapping.
// When the full pathname itself has no mapping, the raw last segment,
// capitalized, becomes the current-page crumb so the trail always ends at the
// page being viewed.
func Breadcrumbs(pathname string, mapping map[string]Crumb) []Crumb {
	segments := splitSegments(pathname)
	if len(segments) == 0 {
		return nil
	}

	var trail []Crumb
	prefix := ""
	fullMapped := false
	for i, segment := range segments {
		prefix += "/" + segment
		crumb, ok := mapping[prefix]
		if !ok {
			continue
		}
		href := crumb.Href
		if href == "" {
			href = prefix
		}
		trail = append(trail, Crumb{Label: crumb.Label, Href: href})
		if i == len(segments)-1 {
			fullMapped = true
		}
	}

	if !fullMapped {
		last := segments[len(segments)-1]
		trail = append(trail, Crumb{Label: capitalize(last), Href: pathname})
	}

	trail[len(trail)-1].Current = true
	return trail
}

func splitSegments(pathname string) []string {
	var segments []string
	for _, s := range strings.Split(pathname, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
