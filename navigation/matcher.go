package navigation

import "strings"

// DefaultSubRoutePrefixes marks drill-down pages that live under a top-level
// page but are not represented in the server's flat navigation list. Paths
// containing one of these are resolved by explicit path routing instead of
// the menu matcher.
var DefaultSubRoutePrefixes = []string{"/overview/"}

// Matcher resolves which navigation item is active for a given location.
// The zero value is usable; TenantKey and SubRoutePrefixes refine matching.
type Matcher struct {
	// TenantKey, when set, also matches paths prefixed "/{TenantKey}".
	TenantKey string
	// SubRoutePrefixes overrides DefaultSubRoutePrefixes when non-nil.
	SubRoutePrefixes []string
}

// ActiveItem returns the navigation item the current path belongs to, or nil
// when resolution is deferred to path-based routing. Matching is ordered and
// first match wins:
//
//  1. a sub-route path defers entirely (nil)
//  2. exact match of the canonical path
//  3. exact match of "/{tenantKey}{canonicalPath}"
//  4. prefix match (canonical path + "/"), excluding "/" which would match
//     everything
//  5. tenant-prefixed prefix match, same exclusions
func (m Matcher) ActiveItem(items []Item, currentPath string) *Item {
	for _, prefix := range m.subRoutePrefixes() {
		if strings.Contains(currentPath, prefix) {
			return nil
		}
	}

	resolved := Resolve(items)

	for i := range resolved {
		if resolved[i].CanonicalPath == currentPath {
			return &resolved[i].Item
		}
	}

	if m.TenantKey != "" {
		for i := range resolved {
			if "/"+m.TenantKey+resolved[i].CanonicalPath == currentPath {
				return &resolved[i].Item
			}
		}
	}

	for i := range resolved {
		if resolved[i].CanonicalPath == "/" {
			continue
		}
		if strings.HasPrefix(currentPath, resolved[i].CanonicalPath+"/") {
			return &resolved[i].Item
		}
	}

	if m.TenantKey != "" {
		for i := range resolved {
			if resolved[i].CanonicalPath == "/" {
				continue
			}
			if strings.HasPrefix(currentPath, "/"+m.TenantKey+resolved[i].CanonicalPath+"/") {
				return &resolved[i].Item
			}
		}
	}

	return nil
}

func (m Matcher) subRoutePrefixes() []string {
	if m.SubRoutePrefixes != nil {
		return m.SubRoutePrefixes
	}
	return DefaultSubRoutePrefixes
}

// ActiveItem resolves with default matcher settings and an optional tenant key.
func ActiveItem(items []Item, currentPath, tenantKey string) *Item {
	return Matcher{TenantKey: tenantKey}.ActiveItem(items, currentPath)
}
