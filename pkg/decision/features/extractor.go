package features

import (
	"net/url"
	"strings"
	"time"
)

const (
	// Dim is the fixed feature vector length:
	// 384 URL-lexical + 384 mission-lexical + 384 content-lexical +
	// 15 URL-structural + 16 content-derived + 4 temporal.
	Dim = 1187

	// Version identifies the feature layout. Classifier weight files carry
	// the feature version they were trained against and refuse to load on
	// a mismatch.
	Version = 1

	textBlockDim       = 384
	urlStructuralDim   = 15
	contentDerivedDim  = 16
	temporalDim        = 4
	hashBucketsPerText = 234
)

// Metadata is the optional page metadata supplied on the slow path. Missing
// fields are neutral; a zero Metadata with only the URL set is valid input.
type Metadata struct {
	URL           string   `json:"url"`
	Domain        string   `json:"domain,omitempty"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Channel       string   `json:"channel,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	ExtractedText string   `json:"extracted_text,omitempty"`
	ContentLength int      `json:"content_length,omitempty"`
	HasVideo      bool     `json:"has_video,omitempty"`
	HasForms      bool     `json:"has_forms,omitempty"`

	// EducationalIndicators and EntertainmentIndicators are counts of
	// educational/entertainment signals found by the metadata collaborator.
	EducationalIndicators   int `json:"educational_indicators,omitempty"`
	EntertainmentIndicators int `json:"entertainment_indicators,omitempty"`

	// QualityScore is the collaborator's content quality estimate in [0,1].
	QualityScore float64 `json:"quality_score,omitempty"`
}

// BasicMetadata returns metadata derived from the URL alone, used when no
// page content is available.
func BasicMetadata(rawURL string) *Metadata {
	return &Metadata{
		URL:    rawURL,
		Domain: ExtractDomain(rawURL),
	}
}

// Extractor turns (URL, mission, optional metadata) into a fixed-length
// numeric vector. Extraction is deterministic: identical inputs produce
// identical vectors across runs, processes and platforms. It never fails;
// malformed input degrades to neutral feature values.
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates a feature extractor using the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// NewExtractorWithClock creates a feature extractor with an injected clock,
// for deterministic temporal features in tests.
func NewExtractorWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract builds a feature vector from a URL and mission alone.
func (e *Extractor) Extract(rawURL, mission string) []float32 {
	return e.ExtractFromMetadata(BasicMetadata(rawURL), mission)
}

// ExtractFromMetadata builds a feature vector from page metadata and the
// mission text. The returned slice always has length Dim.
func (e *Extractor) ExtractFromMetadata(meta *Metadata, mission string) []float32 {
	if meta == nil {
		meta = &Metadata{}
	}

	vec := make([]float32, 0, Dim)
	vec = append(vec, urlTextFeatures(meta.URL)...)
	vec = append(vec, missionTextFeatures(mission)...)
	vec = append(vec, contentTextFeatures(contentText(meta))...)
	vec = append(vec, urlStructuralFeatures(meta)...)
	vec = append(vec, contentDerivedFeatures(meta, mission)...)
	vec = append(vec, e.temporalFeatures()...)
	return vec
}

// contentText assembles the lexical content representation from metadata,
// falling back to a tokenized URL when no page content is available.
func contentText(meta *Metadata) string {
	var parts []string
	if meta.Title != "" {
		parts = append(parts, "Title: "+truncate(meta.Title, 300))
	}
	if meta.Description != "" {
		parts = append(parts, "Description: "+truncate(meta.Description, 300))
	}
	if meta.Channel != "" {
		parts = append(parts, "Channel: "+meta.Channel)
	}
	if len(meta.Keywords) > 0 {
		limit := len(meta.Keywords)
		if limit > 10 {
			limit = 10
		}
		parts = append(parts, "Keywords: "+strings.Join(meta.Keywords[:limit], " "))
	}
	if meta.ExtractedText != "" && meta.Title == "" {
		parts = append(parts, "Content: "+truncate(meta.ExtractedText, 200))
	}

	if len(parts) > 0 {
		return strings.Join(parts, " | ")
	}

	stripped := meta.URL
	if idx := strings.Index(stripped, "://"); idx >= 0 {
		stripped = stripped[idx+3:]
	}
	replacer := strings.NewReplacer("/", " ", "-", " ", "_", " ")
	return "Website: " + replacer.Replace(stripped)
}

// temporalFeatures encodes the local time: hour of day, day of week, a
// working-hours flag (9-17) and a weekend flag.
func (e *Extractor) temporalFeatures() []float32 {
	now := e.now()

	hourNorm := float32(now.Hour()) / 23.0
	dayNorm := float32(pythonWeekday(now.Weekday())) / 6.0

	var workHours, weekend float32
	if now.Hour() >= 9 && now.Hour() <= 17 {
		workHours = 1.0
	}
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		weekend = 1.0
	}

	return []float32{hourNorm, dayNorm, workHours, weekend}
}

// pythonWeekday maps time.Weekday (Sunday=0) onto the Monday=0..Sunday=6
// numbering the trained weights expect.
func pythonWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

// ExtractDomain returns the lowercased host of a URL without a leading
// "www." prefix. Malformed URLs degrade to best-effort string splitting so
// the caller can still treat the input as an unknown domain.
func ExtractDomain(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	}

	stripped := rawURL
	if idx := strings.Index(stripped, "://"); idx >= 0 {
		stripped = stripped[idx+3:]
	}
	host, _, _ := strings.Cut(stripped, "/")
	host, _, _ = strings.Cut(host, ":")
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
