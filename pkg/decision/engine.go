package decision

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"anchorite-hq/anchorite/pkg/decision/cache"
	"anchorite-hq/anchorite/pkg/decision/classifier"
	"anchorite-hq/anchorite/pkg/decision/features"
	"anchorite-hq/anchorite/pkg/decision/rules"
	"anchorite-hq/anchorite/pkg/mission"
	"anchorite-hq/anchorite/pkg/store"
	"anchorite-hq/anchorite/pkg/telemetry/metrics"
)

// Config contains configuration for the decision engine.
type Config struct {
	// CacheTTL bounds how long verdicts are reused. Default: 5 minutes.
	CacheTTL time.Duration

	// Threshold is the classifier confidence an allow must exceed.
	// A score exactly at the threshold blocks. Default: 0.5.
	Threshold float64

	// WeightsPath is the classifier weights file.
	WeightsPath string

	// FetchTimeout bounds a metadata fetch on the slow path. It must stay
	// below the fetcher's own transport timeout. Default: 2 seconds.
	FetchTimeout time.Duration

	// FetchWorkers caps concurrent metadata fetches. Default: 3.
	FetchWorkers int

	// StatsFlushEvery flushes a stats snapshot to the store after this
	// many feedback events. 0 disables flushing. Default: 100.
	StatsFlushEvery int

	// ExtraAllowedDomains and ExtraBlockedDomains extend the built-in
	// rule tables.
	ExtraAllowedDomains []string
	ExtraBlockedDomains []string
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		CacheTTL:        5 * time.Minute,
		Threshold:       0.5,
		WeightsPath:     "data/classifier_weights.json",
		FetchTimeout:    2 * time.Second,
		FetchWorkers:    3,
		StatsFlushEvery: 100,
	}
}

// Engine decides URL admission. The fast path is pure in-memory work and
// never blocks; the slow path may fetch page metadata and run the
// classifier. Storage and metrics are optional: a nil store means
// decisions are returned but not recorded, a nil collector disables
// instrumentation.
type Engine struct {
	config     *Config
	rules      *rules.Table
	classifier *classifier.Classifier
	cache      *cache.Cache
	extractor  *features.Extractor
	storage    store.Storage
	collector  *metrics.Collector
	fetcher    Fetcher
	stats      *Statistics
	logger     *slog.Logger
	fetchSem   chan struct{}

	mu      sync.RWMutex
	mission *mission.Mission
}

// NewEngine creates a decision engine for the given mission.
func NewEngine(config *Config, m *mission.Mission, storage store.Storage, collector *metrics.Collector, fetcher Fetcher) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	workers := config.FetchWorkers
	if workers <= 0 {
		workers = 3
	}

	logger := slog.Default().With("component", "decision.engine")

	e := &Engine{
		config:     config,
		rules:      rules.NewTable(config.ExtraAllowedDomains, config.ExtraBlockedDomains),
		classifier: classifier.New(config.WeightsPath, logger),
		cache:      cache.New(config.CacheTTL),
		extractor:  features.NewExtractor(),
		storage:    storage,
		collector:  collector,
		fetcher:    fetcher,
		stats:      NewStatistics(),
		logger:     logger,
		fetchSem:   make(chan struct{}, workers),
		mission:    m,
	}

	if storage != nil {
		if snap, err := storage.LatestSnapshot(context.Background()); err != nil {
			logger.Warn("could not restore statistics snapshot", "error", err)
		} else {
			e.stats.Restore(snap)
		}
	}
	return e
}

// SetMission replaces the active mission wholesale and clears the cache,
// since cached verdicts are not mission-aware.
func (e *Engine) SetMission(m *mission.Mission) {
	e.mu.Lock()
	e.mission = m
	e.mu.Unlock()

	e.cache.Clear()
	if e.collector != nil {
		e.collector.UpdateCacheSize(0)
	}
	e.logger.Info("mission updated, cache cleared", "mission", m.Text)
}

// Mission returns the active mission.
func (e *Engine) Mission() *mission.Mission {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mission
}

// Decide is the fast path: short-form check, cache, then rule tiers.
// It never blocks and never consults the classifier.
func (e *Engine) Decide(url string) Result {
	// Short-form blocks take precedence over everything, the cache
	// included.
	if e.rules.IsShortForm(url) {
		res := e.rules.Evaluate(url, e.Mission(), "")
		return e.finish(url, resultFromRules(url, res), PathFast)
	}

	if entry, ok := e.cache.Get(url); ok {
		return e.finishCached(url, entry, PathFast)
	}
	if e.collector != nil {
		e.collector.RecordCacheMiss()
	}

	res := e.rules.Evaluate(url, e.Mission(), "")
	return e.finish(url, resultFromRules(url, res), PathFast)
}

// DecideWithMetadata is the slow path: rule tiers over URL plus page
// text, then the classifier for URLs the rules leave undecided. The
// decision is persisted before it is returned; a store failure degrades
// to returned-not-recorded.
func (e *Engine) DecideWithMetadata(ctx context.Context, meta *features.Metadata) Result {
	if meta == nil {
		meta = &features.Metadata{}
	}
	url := meta.URL
	m := e.Mission()

	if e.rules.IsShortForm(url) {
		res := e.rules.Evaluate(url, m, "")
		return e.persistAndFinish(ctx, resultFromRules(url, res), nil)
	}

	if entry, ok := e.cache.Get(url); ok {
		return e.finishCached(url, entry, PathSlow)
	}
	if e.collector != nil {
		e.collector.RecordCacheMiss()
	}

	pageText := metadataText(meta)
	res := e.rules.Evaluate(url, m, pageText)
	if res.Terminal {
		return e.persistAndFinish(ctx, resultFromRules(url, res), nil)
	}

	// Non-terminal default: refine with the classifier.
	missionText := ""
	if m != nil {
		missionText = m.Text
	}
	vec := e.extractor.ExtractFromMetadata(meta, missionText)
	confidence := e.classifier.Score(vec)
	if e.collector != nil {
		e.collector.RecordConfidence(confidence)
	}

	result := Result{
		URL:        url,
		Verdict:    verdictOf(confidence > e.config.Threshold),
		Confidence: confidence,
		Source:     SourceClassifier,
		Reason:     "classifier confidence",
		DecidedAt:  time.Now(),
	}
	return e.persistAndFinish(ctx, result, vec)
}

// DecideURL is the slow path for callers that only have a URL: page
// metadata is fetched under the engine's deadline and worker cap, then
// scored. Fetch failures degrade to URL-only metadata, never to an
// error.
func (e *Engine) DecideURL(ctx context.Context, url string) Result {
	return e.DecideWithMetadata(ctx, e.fetchMetadata(ctx, url))
}

func (e *Engine) fetchMetadata(ctx context.Context, url string) *features.Metadata {
	if e.fetcher == nil {
		return features.BasicMetadata(url)
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.FetchTimeout)
	defer cancel()

	select {
	case e.fetchSem <- struct{}{}:
		defer func() { <-e.fetchSem }()
	case <-ctx.Done():
		e.logger.Debug("fetch workers saturated, using basic metadata", "url", url)
		return features.BasicMetadata(url)
	}

	meta, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		e.logger.Debug("metadata fetch failed, using basic metadata", "url", url, "error", err)
		return features.BasicMetadata(url)
	}
	return meta
}

// SubmitFeedback attaches a correctness signal to the newest recorded
// decision for the URL under the current mission.
func (e *Engine) SubmitFeedback(ctx context.Context, url string, wasCorrect bool) error {
	if e.storage == nil {
		return ErrNoStorage
	}

	reward := 1
	if !wasCorrect {
		reward = -1
	}
	missionText := ""
	if m := e.Mission(); m != nil {
		missionText = m.Text
	}

	id, err := e.storage.ApplyFeedback(ctx, url, missionText, reward)
	if err != nil {
		return err
	}

	count := e.stats.recordFeedback(wasCorrect)
	if e.collector != nil {
		e.collector.RecordFeedback(wasCorrect)
	}
	e.logger.Info("feedback recorded", "url", url, "decision_id", id, "reward", reward)

	if e.config.StatsFlushEvery > 0 && count%int64(e.config.StatsFlushEvery) == 0 {
		if err := e.storage.SaveSnapshot(ctx, e.stats.Snapshot()); err != nil {
			e.logger.Warn("stats snapshot flush failed", "error", err)
		}
	}
	return nil
}

// Statistics returns a copy of the running counters.
func (e *Engine) Statistics() *store.StatsSnapshot {
	return e.stats.Snapshot()
}

// CacheSize returns the number of cached verdicts.
func (e *Engine) CacheSize() int {
	return e.cache.Size()
}

// Degraded reports whether the classifier is running on fallback weights.
func (e *Engine) Degraded() bool {
	return e.classifier.Degraded()
}

func resultFromRules(url string, res rules.Result) Result {
	return Result{
		URL:        url,
		Verdict:    verdictOf(res.Allow),
		Confidence: 1.0,
		Source:     SourceRules,
		Tier:       res.Tier,
		Reason:     res.Reason,
		DecidedAt:  time.Now(),
	}
}

// finish caches the verdict, updates counters and logs.
func (e *Engine) finish(url string, result Result, path string) Result {
	e.cache.Put(url, cache.Entry{
		Allow:      result.Allowed(),
		Confidence: result.Confidence,
		Source:     result.Source,
		Reason:     result.Reason,
	})
	e.record(result, path, false)
	return result
}

func (e *Engine) finishCached(url string, entry cache.Entry, path string) Result {
	result := Result{
		URL:        url,
		Verdict:    verdictOf(entry.Allow),
		Confidence: entry.Confidence,
		Source:     SourceCache,
		Reason:     entry.Reason,
		Cached:     true,
		DecidedAt:  time.Now(),
	}
	if e.collector != nil {
		e.collector.RecordCacheHit()
	}
	e.record(result, path, true)
	return result
}

// persistAndFinish records the slow-path decision before returning it.
// The feature vector, when one was computed, is stored with the record
// for auditability. Store failures log and degrade, they never block the
// verdict.
func (e *Engine) persistAndFinish(ctx context.Context, result Result, vec []float32) Result {
	if e.storage != nil {
		missionText := ""
		if m := e.Mission(); m != nil {
			missionText = m.Text
		}
		rec := &store.Decision{
			URL:        result.URL,
			Domain:     features.ExtractDomain(result.URL),
			Allow:      result.Allowed(),
			Confidence: result.Confidence,
			Source:     result.Source,
			Tier:       string(result.Tier),
			Reason:     result.Reason,
			Mission:    missionText,
			Features:   vec,
			DecidedAt:  result.DecidedAt,
		}
		if err := e.storage.RecordDecision(ctx, rec); err != nil {
			e.logger.Warn("decision not recorded", "url", result.URL, "error", err)
		}
	}
	return e.finish(result.URL, result, PathSlow)
}

func (e *Engine) record(result Result, path string, cached bool) {
	e.stats.recordDecision(result.Allowed(), path == PathFast, cached)
	if e.collector != nil {
		e.collector.RecordDecision(path, string(result.Verdict), string(result.Tier))
		e.collector.UpdateCacheSize(e.cache.Size())
	}

	if result.Allowed() {
		e.logger.Debug("decision",
			"url", result.URL, "verdict", result.Verdict, "source", result.Source,
			"tier", result.Tier, "reason", result.Reason, "path", path, "cached", cached)
	} else {
		e.logger.Info("decision",
			"url", result.URL, "verdict", result.Verdict, "source", result.Source,
			"tier", result.Tier, "reason", result.Reason, "path", path, "cached", cached)
	}
}

// ErrNoStorage means feedback was submitted to an engine running without
// a decision store.
var ErrNoStorage = errors.New("no decision store configured")

// metadataText assembles the page text the watch-endpoint alignment
// check runs against.
func metadataText(meta *features.Metadata) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{meta.Title, meta.Description, meta.Channel, meta.ExtractedText} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
