// Package pathutil maps request paths to bounded metric and span labels.
package pathutil

import (
	"net/http"
	"strings"
)

// Other is the label for every path that is not a known route.
const Other = "/other"

// knownRoutes are reported as is.
var knownRoutes = map[string]struct{}{
	"/":                  {},
	"/api/summarize":     {},
	"/api/summarize/url": {},
	"/summarize":         {},
	"/health":            {},
	"/ready":             {},
	"/live":              {},
	"/metrics":           {},
}

// prefixRoutes collapse every path below them into one label.
var prefixRoutes = []string{
	"/swagger/",
}

// NormalizePath returns the route label for path.
//
//	NormalizePath("/api/summarize")        // "/api/summarize"
//	NormalizePath("/api/summarize/")       // "/api/summarize"
//	NormalizePath("/health?verbose=1")     // "/health"
//	NormalizePath("/swagger/index.html")   // "/swagger/*"
//	NormalizePath("/wp-login.php")         // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownRoutes[path]; ok {
		return path
	}
	for _, prefix := range prefixRoutes {
		if strings.HasPrefix(path+"/", prefix) {
			return prefix + "*"
		}
	}
	return Other
}

// RouteName returns "METHOD route" for spans, e.g. "POST /api/summarize".
func RouteName(r *http.Request) string {
	return r.Method + " " + NormalizePath(r.URL.Path)
}

// ExpectedCardinality returns the number of distinct labels NormalizePath
// can produce.
func ExpectedCardinality() int {
	return len(knownRoutes) + len(prefixRoutes) + 1
}
