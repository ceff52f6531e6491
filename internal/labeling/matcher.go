// Package labeling implements keyword matching and the manual labeling
// walker, plus the per-session state both operate on.
package labeling

import "strings"

// Match computes, for each image filename, the keywords whose lowercase form
// appears as a substring of the lowercase filename. Keyword input order is
// preserved per file. Empty images or keywords yield an empty map; rejecting
// that case as a usage error is the caller's job.
func Match(images []string, keywords []string) map[string][]string {
	labels := make(map[string][]string, len(images))
	if len(keywords) == 0 {
		return labels
	}

	for _, name := range images {
		lower := strings.ToLower(name)
		matched := []string{}
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		labels[name] = matched
	}
	return labels
}
