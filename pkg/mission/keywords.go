package mission

import "strings"

// maxKeywords caps the derived keyword list so alignment checks stay cheap.
const maxKeywords = 20

// stopWords are filler tokens excluded from keyword derivation.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "about": {}, "that": {},
	"this": {}, "from": {}, "into": {}, "your": {}, "their": {}, "there": {},
	"then": {}, "have": {}, "will": {}, "should": {}, "would": {}, "could": {},
	"what": {}, "when": {}, "where": {}, "why": {}, "how": {}, "make": {},
	"create": {}, "work": {}, "task": {}, "focus": {}, "session": {},
	"goal": {}, "doing": {}, "do": {}, "on": {}, "to": {}, "of": {},
	"in": {}, "at": {}, "a": {}, "an": {},
}

// Keywords derives the alignment keyword list for a mission: lowercased
// stop-word-filtered tokens of at least three characters, their adjacent
// bigrams, and the mission's explicit allowed keywords, deduplicated and
// capped at 20 entries.
func (m *Mission) Keywords() []string {
	if m == nil {
		return nil
	}

	var base []string
	for _, token := range strings.Fields(strings.ToLower(m.Text)) {
		token = strings.Trim(token, ".,:;!?'\"()[]{}")
		if len(token) < 3 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		base = append(base, token)
	}

	keywords := make([]string, 0, len(base)*2)
	keywords = append(keywords, base...)
	for i := 0; i+1 < len(base); i++ {
		keywords = append(keywords, base[i]+" "+base[i+1])
	}
	for _, kw := range m.AllowedKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	seen := make(map[string]struct{}, len(keywords))
	dedup := keywords[:0]
	for _, kw := range keywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		dedup = append(dedup, kw)
	}

	if len(dedup) > maxKeywords {
		dedup = dedup[:maxKeywords]
	}
	return dedup
}

// MatchesText reports whether any mission keyword substring-matches the
// given text, case-insensitively. Empty text never matches.
func (m *Mission) MatchesText(text string) bool {
	if m == nil || text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range m.Keywords() {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
