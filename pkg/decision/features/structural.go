package features

import (
	"strconv"
	"strings"
)

// urlStructuralFeatures produces the 15-dim URL-structural block covering
// domain shape, path shape and query characteristics.
func urlStructuralFeatures(meta *Metadata) []float32 {
	rawURL := strings.ToLower(meta.URL)
	domain := strings.ToLower(meta.Domain)
	if domain == "" {
		domain = ExtractDomain(rawURL)
	}

	path := ""
	query := ""
	if idx := strings.Index(rawURL, "://"); idx >= 0 {
		rest := rawURL[idx+3:]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			path = rest[slash:]
		}
	}
	if q := strings.Index(path, "?"); q >= 0 {
		query = path[q+1:]
		path = path[:q]
	}

	queryParams := 0
	hasSearchParam := float32(0)
	if query != "" {
		for _, pair := range strings.Split(query, "&") {
			queryParams++
			key, _, _ := strings.Cut(pair, "=")
			if key == "q" || key == "search" {
				hasSearchParam = 1.0
			}
		}
	}

	return []float32{
		float32(len(strings.Split(domain, "."))),
		boolFeature(strings.HasSuffix(domain, ".edu")),
		boolFeature(strings.HasSuffix(domain, ".org")),
		boolFeature(strings.HasSuffix(domain, ".gov")),
		boolFeature(strings.Contains(domain, "docs") || strings.Contains(domain, "documentation")),
		float32(len(strings.Split(path, "/"))),
		boolFeature(strings.Contains(path, "/watch") || strings.Contains(path, "/video")),
		boolFeature(strings.Contains(path, "/article") || strings.Contains(path, "/post") || strings.Contains(path, "/blog")),
		boolFeature(strings.Contains(path, "/search") || strings.Contains(path, "/results")),
		boolFeature(strings.Contains(path, "/user") || strings.Contains(path, "/profile")),
		float32(queryParams),
		hasSearchParam,
		float32(len(rawURL)),
		float32(strings.Count(rawURL, "&")),
		boolFeature(strings.Contains(rawURL, "https")),
	}
}

// contentDerivedFeatures produces the 16-dim content-derived block:
// presence flags, normalized sizes, educational/entertainment balance and
// mission alignment of title and description.
func contentDerivedFeatures(meta *Metadata, mission string) []float32 {
	eduNorm := clamp01(float32(meta.EducationalIndicators) / 10.0)
	entNorm := clamp01(float32(meta.EntertainmentIndicators) / 10.0)

	// Educational-to-entertainment ratio, capped at 5:1 and normalized.
	var ratio float32
	if meta.EntertainmentIndicators > 0 {
		r := float32(meta.EducationalIndicators) / float32(meta.EntertainmentIndicators)
		if r > 5.0 {
			r = 5.0
		}
		ratio = r / 5.0
	} else if meta.EducationalIndicators > 0 {
		ratio = 1.0
	}

	missionLower := strings.ToLower(mission)
	titleAlign := alignmentScore(meta.Title, missionLower, 3)
	descAlign := alignmentScore(meta.Description, missionLower, 5)

	return []float32{
		boolFeature(meta.Title != ""),
		boolFeature(meta.Description != ""),
		float32(len(meta.Keywords)),
		clamp01(float32(meta.ContentLength) / 10000.0),
		boolFeature(meta.Channel != ""),
		eduNorm,
		entNorm,
		ratio,
		clamp01(float32(meta.QualityScore)),
		titleAlign,
		descAlign,
		boolFeature(meta.HasVideo),
		boolFeature(meta.HasForms),
		clamp01(float32(len(meta.Title)) / 200.0),
		clamp01(float32(len(meta.Description)) / 500.0),
		clamp01(float32(len(meta.ExtractedText)) / 1000.0),
	}
}

// alignmentScore counts mission words (≥4 chars) appearing in the text and
// normalizes by the given limit.
func alignmentScore(text, missionLower string, limit int) float32 {
	if text == "" || missionLower == "" {
		return 0
	}
	textLower := strings.ToLower(text)
	matches := 0
	for _, word := range strings.Fields(missionLower) {
		if len(word) >= 4 && strings.Contains(textLower, word) {
			matches++
		}
	}
	return clamp01(float32(matches) / float32(limit))
}

func boolFeature(b bool) float32 {
	if b {
		return 1.0
	}
	return 0.0
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func pad(values []float32, size int) []float32 {
	if len(values) >= size {
		return values[:size]
	}
	out := make([]float32, size)
	copy(out, values)
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func indicatorCount(s string, terms ...string) float32 {
	count := 0
	for _, term := range terms {
		if strings.Contains(s, term) {
			count++
		}
	}
	return float32(count)
}

func uniqueCount(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return len(seen)
}

func avgWordLen(words []string) float32 {
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += len(w)
	}
	return float32(total) / float32(len(words))
}

func maxWordLen(words []string) float32 {
	max := 0
	for _, w := range words {
		if len(w) > max {
			max = len(w)
		}
	}
	return float32(max)
}

func longWordCount(words []string, min int) int {
	count := 0
	for _, w := range words {
		if len(w) > min {
			count++
		}
	}
	return count
}

func countAlpha(s string) int {
	count := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			count++
		}
	}
	return count
}

func countDigit(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

func countNonAlnum(s string) int {
	count := 0
	for _, r := range s {
		alpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !alpha && !digit {
			count++
		}
	}
	return count
}

// tokenizeAlnum splits a string on every non-alphanumeric character.
func tokenizeAlnum(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		alpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		return !alpha && !digit
	})
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
