package features

import (
	"testing"
	"time"
)

// fixedClock pins temporal features to a Wednesday 10:00 work hour.
func fixedClock() time.Time {
	return time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
}

func TestExtractDimension(t *testing.T) {
	e := NewExtractorWithClock(fixedClock)

	tests := []struct {
		name    string
		url     string
		mission string
	}{
		{"normal", "https://github.com/org/repo", "Learn Go"},
		{"empty url", "", "Learn Go"},
		{"empty mission", "https://example.com", ""},
		{"malformed url", "::::not a url::::", "Learn Go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := e.Extract(tt.url, tt.mission)
			if len(vec) != Dim {
				t.Errorf("Extract() returned %d features, want %d", len(vec), Dim)
			}
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc123"
	mission := "Learn logistic regression"

	a := NewExtractorWithClock(fixedClock).Extract(url, mission)
	b := NewExtractorWithClock(fixedClock).Extract(url, mission)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors diverge at index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestExtractFromMetadataNilIsNeutral(t *testing.T) {
	e := NewExtractorWithClock(fixedClock)

	vec := e.ExtractFromMetadata(nil, "mission")
	if len(vec) != Dim {
		t.Fatalf("nil metadata: got %d features, want %d", len(vec), Dim)
	}
}

func TestMetadataChangesVector(t *testing.T) {
	e := NewExtractorWithClock(fixedClock)
	mission := "Learn machine learning"

	basic := e.ExtractFromMetadata(BasicMetadata("https://example.com/page"), mission)
	rich := e.ExtractFromMetadata(&Metadata{
		URL:                   "https://example.com/page",
		Title:                 "Machine Learning Course",
		Description:           "A complete machine learning curriculum",
		EducationalIndicators: 5,
	}, mission)

	same := true
	for i := range basic {
		if basic[i] != rich[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("rich metadata produced the same vector as basic metadata")
	}
}

func TestTemporalFeatures(t *testing.T) {
	e := NewExtractorWithClock(fixedClock) // Wednesday 10:00
	vec := e.Extract("https://example.com", "m")

	temporal := vec[Dim-temporalDim:]
	if temporal[0] != float32(10)/23.0 {
		t.Errorf("hour feature = %v", temporal[0])
	}
	if temporal[1] != float32(2)/6.0 { // Wednesday = 2 in Monday-first numbering
		t.Errorf("weekday feature = %v", temporal[1])
	}
	if temporal[2] != 1.0 {
		t.Errorf("work-hours flag = %v, want 1", temporal[2])
	}
	if temporal[3] != 0.0 {
		t.Errorf("weekend flag = %v, want 0", temporal[3])
	}
}

func TestHashBucketsInRange(t *testing.T) {
	e := NewExtractorWithClock(fixedClock)
	vec := e.Extract("https://github.com/org/repo", "Learn Go programming")

	// URL hash-bucket sub-block occupies [150, 384).
	for i := 150; i < 384; i++ {
		if vec[i] < 0 || vec[i] >= 1 {
			t.Fatalf("hash bucket %d out of range: %v", i, vec[i])
		}
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=x", "youtube.com"},
		{"http://github.com/org", "github.com"},
		{"https://docs.python.org:443/3/", "docs.python.org"},
		{"github.com/org/repo", "github.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.url); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
