package features

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// hashPrefix is the fixed seed for pseudo-text hash features. The Python
// predecessor used the runtime's per-process hash here, which silently
// shifted the classifier's input distribution between runs; xxhash with a
// fixed prefix keeps vectors identical across processes and platforms.
const hashPrefix = "anchorite/features/v1|"

// hashBucket maps a labeled token onto [0,1) with 1000 buckets.
func hashBucket(label, token string) float32 {
	sum := xxhash.Sum64String(hashPrefix + label + "|" + token)
	return float32(sum%1000) / 1000.0
}

// urlTextFeatures produces the 384-dim URL-lexical block:
// 50 character statistics, 100 pattern indicators, 234 hash buckets.
func urlTextFeatures(rawURL string) []float32 {
	lower := strings.ToLower(rawURL)

	stats := []float32{
		float32(len(rawURL)),
		float32(len(strings.Split(lower, "/"))),
		float32(len(strings.Split(lower, "."))),
		float32(strings.Count(lower, "/")),
		float32(strings.Count(lower, "?")),
		float32(strings.Count(lower, "&")),
		float32(strings.Count(lower, "=")),
		float32(strings.Count(lower, "-")),
		float32(strings.Count(lower, "_")),
		float32(strings.Count(lower, "%")),
		float32(len(strings.SplitN(lower, "?", 2)[0])),
		boolFeature(strings.Contains(lower, "https")),
		boolFeature(strings.Contains(lower, "www")),
		boolFeature(strings.Contains(lower, ".com")),
		boolFeature(strings.Contains(lower, ".org")),
		boolFeature(strings.Contains(lower, ".edu")),
		boolFeature(strings.Contains(lower, ".gov")),
		float32(countAlpha(lower)),
		float32(countDigit(lower)),
		float32(countNonAlnum(lower)),
	}
	block := pad(stats, 50)

	patterns := []float32{
		float32(strings.Count(lower, "youtube")),
		float32(strings.Count(lower, "reddit")),
		float32(strings.Count(lower, "github")),
		float32(strings.Count(lower, "stackoverflow")),
		float32(strings.Count(lower, "wikipedia")),
		float32(strings.Count(lower, "docs")),
		float32(strings.Count(lower, "learn")),
		float32(strings.Count(lower, "tutorial")),
		float32(strings.Count(lower, "course")),
		float32(strings.Count(lower, "video")),
		float32(strings.Count(lower, "watch")),
		float32(strings.Count(lower, "search")),
		boolFeature(containsAny(lower, "api", "doc", "guide")),
		boolFeature(containsAny(lower, "game", "play", "fun")),
		float32(strings.Count(lower, "/")),
	}
	block = append(block, pad(patterns, 100)...)

	// Hash buckets over the first five URL words.
	words := tokenizeAlnum(lower)
	if len(words) > 5 {
		words = words[:5]
	}
	joined := strings.Join(words, " ")
	for i := 0; i < hashBucketsPerText; i++ {
		block = append(block, hashBucket("url", itoa(i)+"_"+joined))
	}

	return block
}

// missionTextFeatures produces the 384-dim mission-lexical block:
// 50 text statistics, 100 intent indicators, 234 per-word hash buckets.
func missionTextFeatures(mission string) []float32 {
	lower := strings.ToLower(mission)
	words := strings.Fields(lower)

	stats := []float32{
		float32(len(mission)),
		float32(len(words)),
		float32(uniqueCount(words)),
		float32(strings.Count(lower, " ")),
		float32(strings.Count(lower, ".")),
		float32(strings.Count(lower, ",")),
		float32(strings.Count(lower, "!")),
		float32(strings.Count(lower, "?")),
		float32(strings.Count(lower, ";")),
		float32(strings.Count(lower, ":")),
		float32(countAlpha(lower)),
		float32(countDigit(lower)),
		float32(countNonAlnum(lower)),
		avgWordLen(words),
		maxWordLen(words),
	}
	block := pad(stats, 50)

	indicators := []float32{
		indicatorCount(lower, "learn", "study", "understand", "master", "tutorial"),
		indicatorCount(lower, "work", "job", "project", "task", "complete"),
		indicatorCount(lower, "create", "build", "develop", "design", "make"),
		indicatorCount(lower, "research", "find", "information", "data", "explore"),
		indicatorCount(lower, "skill", "practice", "improve", "training", "course"),
		float32(len(words)),
		float32(strings.Count(lower, "?")),
		float32(strings.Count(lower, ".")),
	}
	block = append(block, pad(indicators, 100)...)

	for i := 0; i < hashBucketsPerText; i++ {
		token := "empty"
		if i < len(words) {
			token = words[i]
		}
		block = append(block, hashBucket("mission", itoa(i)+"_"+token))
	}

	return block
}

// contentTextFeatures produces the 384-dim content-lexical block:
// 50 text statistics, 100 quality/type indicators, 234 per-word hash
// buckets over the first twenty content words.
func contentTextFeatures(content string) []float32 {
	lower := strings.ToLower(content)
	words := strings.Fields(lower)
	sentences := strings.Split(lower, ".")

	stats := []float32{
		float32(len(content)),
		float32(len(words)),
		float32(uniqueCount(words)),
		float32(len(sentences)),
		float32(strings.Count(lower, " ")),
		float32(strings.Count(lower, ".")),
		float32(strings.Count(lower, ",")),
		float32(strings.Count(lower, "!")),
		float32(strings.Count(lower, "?")),
		float32(strings.Count(lower, ":")),
		float32(strings.Count(lower, ";")),
		float32(strings.Count(lower, `"`)),
		float32(strings.Count(lower, "'")),
		float32(countAlpha(lower)),
		float32(countDigit(lower)),
		avgWordLen(words),
		maxWordLen(words),
		float32(longWordCount(words, 10)),
		float32(strings.Count(lower, "http")),
		float32(strings.Count(lower, "www")),
	}
	block := pad(stats, 50)

	var hasLists, hasCode float32
	if strings.Count(lower, "•") > 0 || strings.Count(lower, "-") > 3 {
		hasLists = 1.0
	}
	if strings.Contains(lower, "code") || strings.Contains(lower, "function") {
		hasCode = 1.0
	}
	questionDensity := float32(0)
	if len(words) > 0 {
		questionDensity = float32(strings.Count(lower, "?")) / float32(len(words))
	}

	indicators := []float32{
		indicatorCount(lower, "title", "heading", "header"),
		indicatorCount(lower, "description", "summary", "about"),
		indicatorCount(lower, "tutorial", "guide", "how to", "step"),
		indicatorCount(lower, "documentation", "docs", "api", "reference"),
		indicatorCount(lower, "learn", "course", "lesson", "education"),
		hasLists,
		hasCode,
		questionDensity,
		float32(len(sentences)),
		maxWordLen(words),
	}
	block = append(block, pad(indicators, 100)...)

	if len(words) > 20 {
		words = words[:20]
	}
	for i := 0; i < hashBucketsPerText; i++ {
		token := "empty"
		if i < len(words) {
			token = words[i]
		}
		block = append(block, hashBucket("content", itoa(i)+"_"+token))
	}

	return block
}
