package decision

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"anchorite-hq/anchorite/pkg/decision/features"
	"anchorite-hq/anchorite/pkg/mission"
	"anchorite-hq/anchorite/pkg/store"
)

func testMission() *mission.Mission {
	return &mission.Mission{Text: "Learn logistic regression in Python"}
}

// testConfig points the weights path into an empty temp dir so the
// classifier runs degraded but deterministic.
func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.WeightsPath = filepath.Join(t.TempDir(), "absent.json")
	return cfg
}

func newTestEngine(t *testing.T, storage store.Storage) *Engine {
	t.Helper()
	return NewEngine(testConfig(t), testMission(), storage, nil, nil)
}

func TestDecideFastPath(t *testing.T) {
	e := newTestEngine(t, nil)

	tests := []struct {
		name  string
		url   string
		allow bool
	}{
		{"educational", "https://github.com/golang/go", true},
		{"shorts", "https://www.youtube.com/shorts/abc", false},
		{"distraction", "https://www.reddit.com/r/all", false},
		{"unknown fail-open", "https://example.com/page", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Decide(tt.url)
			if res.Allowed() != tt.allow {
				t.Errorf("Decide(%q) = %v, want allow=%v (reason %q)", tt.url, res.Verdict, tt.allow, res.Reason)
			}
			if res.Source != SourceRules {
				t.Errorf("Source = %q, want rules", res.Source)
			}
		})
	}
}

func TestDecideCaches(t *testing.T) {
	e := newTestEngine(t, nil)
	url := "https://github.com/golang/go"

	first := e.Decide(url)
	if first.Cached {
		t.Fatal("first decision reported cached")
	}

	second := e.Decide(url)
	if !second.Cached || second.Source != SourceCache {
		t.Fatalf("second decision = %+v, want cache hit", second)
	}
	if second.Verdict != first.Verdict {
		t.Errorf("cached verdict %v differs from original %v", second.Verdict, first.Verdict)
	}

	snap := e.Statistics()
	if snap.Total != 2 || snap.CacheHits != 1 {
		t.Errorf("stats = total %d, cache hits %d, want 2 and 1", snap.Total, snap.CacheHits)
	}
}

func TestShortFormSkipsCache(t *testing.T) {
	e := newTestEngine(t, nil)
	url := "https://www.youtube.com/shorts/abc"

	e.Decide(url)
	second := e.Decide(url)
	if second.Cached {
		t.Error("short-form verdict served from cache")
	}
	if second.Allowed() {
		t.Error("short-form URL allowed")
	}
}

func TestDecideWithMetadataClassifier(t *testing.T) {
	storage := store.NewMemoryStorage()
	e := newTestEngine(t, storage)

	meta := &features.Metadata{
		URL:   "https://unknown-blog.example.net/post/1",
		Title: "Some article",
	}
	res := e.DecideWithMetadata(context.Background(), meta)
	if res.Source != SourceClassifier {
		t.Fatalf("Source = %q, want classifier", res.Source)
	}
	if res.Confidence <= 0 || res.Confidence >= 1 {
		t.Errorf("Confidence = %v, want strictly inside (0,1)", res.Confidence)
	}

	recorded, err := storage.QueryDecisions(context.Background(), nil)
	if err != nil {
		t.Fatalf("QueryDecisions() error: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("%d decisions recorded, want 1", len(recorded))
	}
	if recorded[0].Source != SourceClassifier || recorded[0].Mission != testMission().Text {
		t.Errorf("recorded decision = %+v", recorded[0])
	}
	if len(recorded[0].Features) != features.Dim {
		t.Errorf("recorded feature vector has %d dims, want %d", len(recorded[0].Features), features.Dim)
	}
}

func TestThresholdBoundaries(t *testing.T) {
	meta := &features.Metadata{URL: "https://unknown.example.net/x"}

	// Sigmoid output is strictly inside (0,1), so an impossible threshold
	// must block and a zero threshold must allow.
	strict := testConfig(t)
	strict.Threshold = 1.0
	blocked := NewEngine(strict, testMission(), nil, nil, nil).DecideWithMetadata(context.Background(), meta)
	if blocked.Allowed() {
		t.Error("confidence at or below threshold did not block")
	}

	lax := testConfig(t)
	lax.Threshold = 0.0
	allowed := NewEngine(lax, testMission(), nil, nil, nil).DecideWithMetadata(context.Background(), meta)
	if !allowed.Allowed() {
		t.Error("confidence above threshold did not allow")
	}
}

// zeroWeightsPath writes a valid all-zero weights file. Every logit of
// such a network is 0, so the classifier scores exactly sigmoid(0) = 0.5
// for any input.
func zeroWeightsPath(t *testing.T) string {
	t.Helper()

	type layerJSON struct {
		In      int       `json:"in"`
		Out     int       `json:"out"`
		Weights []float32 `json:"weights"`
		Biases  []float32 `json:"biases"`
	}
	file := struct {
		Version        int         `json:"version"`
		FeatureVersion int         `json:"feature_version"`
		Layers         []layerJSON `json:"layers"`
	}{Version: 1, FeatureVersion: features.Version}

	sizes := [][2]int{{features.Dim, 256}, {256, 128}, {128, 64}, {64, 1}}
	for _, size := range sizes {
		in, out := size[0], size[1]
		file.Layers = append(file.Layers, layerJSON{
			In: in, Out: out,
			Weights: make([]float32, in*out),
			Biases:  make([]float32, out),
		})
	}

	raw, err := json.Marshal(file)
	if err != nil {
		t.Fatalf("marshal weights: %v", err)
	}
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write weights: %v", err)
	}
	return path
}

func TestThresholdTieBlocks(t *testing.T) {
	// Allowing requires confidence strictly above the threshold, so a
	// score landing exactly on it blocks. All-zero weights pin the score
	// to exactly 0.5.
	cfg := DefaultConfig()
	cfg.WeightsPath = zeroWeightsPath(t)
	cfg.Threshold = 0.5
	e := NewEngine(cfg, testMission(), nil, nil, nil)

	res := e.DecideWithMetadata(context.Background(), &features.Metadata{URL: "https://unknown.example.net/x"})
	if res.Source != SourceClassifier {
		t.Fatalf("Source = %q, want classifier", res.Source)
	}
	if res.Confidence != 0.5 {
		t.Fatalf("Confidence = %v, want exactly 0.5", res.Confidence)
	}
	if res.Allowed() {
		t.Error("confidence equal to the threshold did not block")
	}
}

func TestRulesBeatClassifierOnSlowPath(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.DecideWithMetadata(context.Background(), &features.Metadata{
		URL:   "https://github.com/golang/go",
		Title: "irrelevant",
	})
	if res.Source != SourceRules || !res.Allowed() {
		t.Errorf("slow path on a rule-decided URL = %+v, want rules allow", res)
	}
}

func TestSubmitFeedbackExactlyOnce(t *testing.T) {
	storage := store.NewMemoryStorage()
	cfg := testConfig(t)
	cfg.CacheTTL = -time.Second // expire immediately so both decisions are recorded
	e := NewEngine(cfg, testMission(), storage, nil, nil)
	ctx := context.Background()
	url := "https://unknown.example.net/article"

	e.DecideWithMetadata(ctx, &features.Metadata{URL: url})
	time.Sleep(time.Millisecond)
	e.DecideWithMetadata(ctx, &features.Metadata{URL: url})

	if err := e.SubmitFeedback(ctx, url, true); err != nil {
		t.Fatalf("first SubmitFeedback() error: %v", err)
	}
	if err := e.SubmitFeedback(ctx, url, false); err != nil {
		t.Fatalf("second SubmitFeedback() error: %v", err)
	}
	if err := e.SubmitFeedback(ctx, url, true); !errors.Is(err, store.ErrNoFeedbackTarget) {
		t.Errorf("third SubmitFeedback() error = %v, want ErrNoFeedbackTarget", err)
	}

	snap := e.Statistics()
	if snap.FeedbackTotal != 2 || snap.FeedbackCorrect != 1 {
		t.Errorf("feedback counters = %d/%d, want 2/1", snap.FeedbackCorrect, snap.FeedbackTotal)
	}
}

func TestSubmitFeedbackWithoutStorage(t *testing.T) {
	e := newTestEngine(t, nil)
	if err := e.SubmitFeedback(context.Background(), "https://example.com", true); !errors.Is(err, ErrNoStorage) {
		t.Errorf("SubmitFeedback() error = %v, want ErrNoStorage", err)
	}
}

// failingStorage errors on every operation except snapshot restore.
type failingStorage struct{}

func (failingStorage) RecordDecision(context.Context, *store.Decision) error {
	return store.NewStorageError("test", "record", errors.New("boom"))
}
func (failingStorage) ApplyFeedback(context.Context, string, string, int) (int64, error) {
	return 0, store.NewStorageError("test", "feedback", errors.New("boom"))
}
func (failingStorage) QueryDecisions(context.Context, *store.Query) ([]*store.Decision, error) {
	return nil, store.NewStorageError("test", "query", errors.New("boom"))
}
func (failingStorage) SaveSnapshot(context.Context, *store.StatsSnapshot) error {
	return store.NewStorageError("test", "snapshot", errors.New("boom"))
}
func (failingStorage) LatestSnapshot(context.Context) (*store.StatsSnapshot, error) {
	return nil, nil
}
func (failingStorage) Prune(context.Context, time.Time, int64) (int64, error) {
	return 0, store.NewStorageError("test", "prune", errors.New("boom"))
}
func (failingStorage) Close() error { return nil }

func TestStoreFailureDegrades(t *testing.T) {
	e := newTestEngine(t, failingStorage{})

	res := e.DecideWithMetadata(context.Background(), &features.Metadata{URL: "https://unknown.example.net"})
	if res.Verdict == "" {
		t.Fatal("no verdict returned when the store fails")
	}
}

func TestSetMissionClearsCache(t *testing.T) {
	e := newTestEngine(t, nil)

	e.Decide("https://github.com/golang/go")
	if e.CacheSize() == 0 {
		t.Fatal("decision was not cached")
	}

	e.SetMission(&mission.Mission{Text: "Write a thesis"})
	if e.CacheSize() != 0 {
		t.Errorf("CacheSize() = %d after mission change, want 0", e.CacheSize())
	}
	if e.Mission().Text != "Write a thesis" {
		t.Errorf("Mission() = %q", e.Mission().Text)
	}
}

// stubFetcher returns canned metadata or an error.
type stubFetcher struct {
	meta *features.Metadata
	err  error
}

func (f stubFetcher) Fetch(ctx context.Context, url string) (*features.Metadata, error) {
	return f.meta, f.err
}

func TestDecideURLUsesFetcher(t *testing.T) {
	cfg := testConfig(t)
	fetched := &features.Metadata{
		URL:   "https://www.youtube.com/watch?v=abc",
		Title: "Logistic regression explained",
	}
	e := NewEngine(cfg, testMission(), nil, nil, stubFetcher{meta: fetched})

	res := e.DecideURL(context.Background(), fetched.URL)
	if !res.Allowed() || res.Tier != "watch_endpoint" {
		t.Errorf("DecideURL() = %+v, want aligned watch-endpoint allow", res)
	}
}

func TestDecideURLFetchFailureDegrades(t *testing.T) {
	cfg := testConfig(t)
	e := NewEngine(cfg, testMission(), nil, nil, stubFetcher{err: errors.New("unreachable")})

	res := e.DecideURL(context.Background(), "https://unknown.example.net/page")
	if res.Verdict == "" {
		t.Fatal("no verdict after fetch failure")
	}
	if res.Source != SourceClassifier {
		t.Errorf("Source = %q, want classifier over basic metadata", res.Source)
	}
}
