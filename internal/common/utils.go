package common

import "strings"

// FirstNonEmpty returns the first value that is not blank, or "" if all are.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// TrimSlashes normalizes a URL path prefix to "/prefix" form without a
// trailing slash. An empty or "/" input yields "".
func TrimSlashes(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}
