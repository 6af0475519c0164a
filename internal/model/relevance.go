package model

import "strings"

const (
	officialOwner      = "modelcontextprotocol"
	highRelevanceStars = 100
)

var mcpKeywords = []string{"mcp", "model context protocol", "model-context-protocol"}

// ClassifyRelevance grades a project by owner, keywords and popularity.
func ClassifyRelevance(p Project) Relevance {
	if strings.EqualFold(p.Owner, officialOwner) {
		return RelevanceOfficial
	}
	if !mentionsMCP(p) {
		return RelevanceLow
	}
	if p.Stars >= highRelevanceStars {
		return RelevanceHigh
	}
	return RelevanceMedium
}

func mentionsMCP(p Project) bool {
	for _, t := range p.Topics {
		t = strings.ToLower(t)
		for _, k := range mcpKeywords {
			if t == k || strings.HasPrefix(t, "mcp-") || strings.HasSuffix(t, "-mcp") {
				return true
			}
		}
	}
	haystack := strings.ToLower(p.Name + " " + p.Description)
	for _, k := range mcpKeywords {
		if containsWord(haystack, k) {
			return true
		}
	}
	return false
}

// containsWord matches k only when it is not embedded in a longer alphanumeric run,
// so "mcp-server" matches but "mcprofile" does not.
func containsWord(s, k string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], k)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(k)
		if (start == 0 || !isAlnum(s[start-1])) && (end == len(s) || !isAlnum(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
