package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bgricker/apismoke/internal/registry"
)

// Pattern represents a compiled filter condition supporting substring and regex matching.
type Pattern struct {
	raw   string
	regex *regexp.Regexp
	lower string
}

// Compile transforms raw pattern strings into Pattern values.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") && len(raw) >= 2 {
			expr := raw[1 : len(raw)-1]
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compile regexp %q: %w", raw, err)
			}
			result = append(result, Pattern{raw: raw, regex: re})
			continue
		}
		result = append(result, Pattern{raw: raw, lower: strings.ToLower(raw)})
	}
	return result, nil
}

// String returns the pattern as written.
func (p Pattern) String() string { return p.raw }

// Match reports whether the pattern matches the supplied string.
func (p Pattern) Match(s string) bool {
	if s == "" {
		return false
	}
	if p.regex != nil {
		return p.regex.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), p.lower)
}

// Criteria groups the compiled patterns applied to a registry.
type Criteria struct {
	Categories []Pattern
	Only       []Pattern
	Exclude    []Pattern
}

// CompileCriteria compiles category, only and exclude patterns in one go.
func CompileCriteria(categories, only, exclude []string) (Criteria, error) {
	var c Criteria
	var err error
	if c.Categories, err = Compile(categories); err != nil {
		return Criteria{}, err
	}
	if c.Only, err = Compile(only); err != nil {
		return Criteria{}, err
	}
	if c.Exclude, err = Compile(exclude); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// Empty reports whether no pattern was supplied.
func (c Criteria) Empty() bool {
	return len(c.Categories) == 0 && len(c.Only) == 0 && len(c.Exclude) == 0
}

// FilterEndpoints returns the endpoints that survive the criteria, in their original order.
func FilterEndpoints(endpoints []registry.Endpoint, c Criteria) []registry.Endpoint {
	if len(endpoints) == 0 {
		return nil
	}
	if c.Empty() {
		return append([]registry.Endpoint(nil), endpoints...)
	}

	result := make([]registry.Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if len(c.Categories) > 0 && !matchesAny(c.Categories, ep.Category) {
			continue
		}
		if len(c.Only) > 0 && !matchesEndpoint(ep, c.Only) {
			continue
		}
		if len(c.Exclude) > 0 && matchesEndpoint(ep, c.Exclude) {
			continue
		}
		result = append(result, ep)
	}
	return result
}

func matchesEndpoint(ep registry.Endpoint, patterns []Pattern) bool {
	return matchesAny(patterns, ep.Name, ep.Path)
}

func matchesAny(patterns []Pattern, values ...string) bool {
	for _, pattern := range patterns {
		for _, v := range values {
			if pattern.Match(v) {
				return true
			}
		}
	}
	return false
}
