package ticket

import (
	"strings"
)

// NormalizeTags trims tags, drops empties and commas, and removes
// case-insensitive duplicates keeping the first spelling.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ReplaceAll(tag, ",", " "))
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// ParseTags splits the comma-separated storage form.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}

// JoinTags produces the comma-separated storage form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
