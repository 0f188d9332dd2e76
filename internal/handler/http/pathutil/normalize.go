package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the dynamic routes, most specific first.
// Pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/rules/\d+$`), Template: "/rules/:id"},
	{Pattern: regexp.MustCompile(`^/providers/[^/]+/rules$`), Template: "/providers/:provider/rules"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion. Paths with IDs (e.g. /rules/123) become
// templates (/rules/:id); static paths pass through unchanged.
//
//	NormalizePath("/rules/123")              // "/rules/:id"
//	NormalizePath("/providers/slack/rules")  // "/providers/:provider/rules"
//	NormalizePath("/healthz")                // "/healthz" (unchanged)
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	return path
}
