package rules

import (
	"strings"

	"anchorite-hq/anchorite/pkg/decision/features"
	"anchorite-hq/anchorite/pkg/mission"
)

// Tier identifies the rule tier that produced a verdict. Tiers are
// evaluated in a fixed priority order; ties break by position.
type Tier string

const (
	TierShortForm      Tier = "shortform"
	TierInfrastructure Tier = "infrastructure"
	TierEducational    Tier = "educational"
	TierDistraction    Tier = "distraction"
	TierFeedPattern    Tier = "feed_pattern"
	TierWatchEndpoint  Tier = "watch_endpoint"
	TierSearchEngine   Tier = "search_engine"
	TierDefault        Tier = "default"
)

// Result is the outcome of a rule-tier evaluation.
type Result struct {
	// Allow is the verdict: true admits the URL.
	Allow bool

	// Tier names the tier that decided.
	Tier Tier

	// Reason is a short human-readable explanation for observability.
	Reason string

	// Terminal is false only for the default tier, signalling that the
	// metadata path may hand the URL to the classifier instead of taking
	// the blanket fail-open verdict.
	Terminal bool
}

// Table holds the ordered deterministic rule data. Evaluation is pure
// lookup work with no locking, I/O or allocation-heavy parsing, so it is
// safe on the enforcement point's per-request hot path.
type Table struct {
	shortFormMarkers []string
	infraDomains     map[string]struct{}
	infraPatterns    []string
	eduDomains       map[string]struct{}
	blockDomains     map[string]struct{}
	feedPatterns     []string
	watchMarkers     []string
	eduPathKeywords  []string
	searchEngines    map[string]struct{}
}

// NewTable builds the rule table from the package defaults plus any
// operator-supplied extra allow/block domains.
func NewTable(extraAllowed, extraBlocked []string) *Table {
	t := &Table{
		shortFormMarkers: defaultShortFormMarkers,
		infraDomains:     toSet(defaultInfraDomains),
		infraPatterns:    defaultInfraPatterns,
		eduDomains:       toSet(defaultEducationalDomains),
		blockDomains:     toSet(defaultDistractionDomains),
		feedPatterns:     defaultFeedPatterns,
		watchMarkers:     defaultWatchMarkers,
		eduPathKeywords:  defaultEducationalPathKeywords,
		searchEngines:    toSet(defaultSearchEngines),
	}

	for _, d := range extraAllowed {
		if d = normalizeDomain(d); d != "" {
			t.eduDomains[d] = struct{}{}
		}
	}
	for _, d := range extraBlocked {
		if d = normalizeDomain(d); d != "" {
			t.blockDomains[d] = struct{}{}
		}
	}

	return t
}

// Evaluate runs the eight tiers in priority order and returns the first
// match. pageText is optional title/description text for the
// watch-endpoint alignment check; when empty that check fails open.
// Malformed URLs degrade to unknown-domain and fall to the default tier.
// Evaluate never panics and never blocks.
func (t *Table) Evaluate(rawURL string, m *mission.Mission, pageText string) Result {
	lower := strings.ToLower(rawURL)
	domain := features.ExtractDomain(rawURL)

	// Tier 1: short-form and algorithmic-feed patterns block before any
	// allow rule is consulted.
	for _, marker := range t.shortFormMarkers {
		if strings.Contains(lower, marker) {
			return Result{Allow: false, Tier: TierShortForm, Reason: "short-form pattern " + marker, Terminal: true}
		}
	}

	// Tier 2: infrastructure and static-asset traffic.
	if domainMatches(domain, t.infraDomains) {
		return Result{Allow: true, Tier: TierInfrastructure, Reason: "infrastructure domain " + domain, Terminal: true}
	}
	for _, pattern := range t.infraPatterns {
		if strings.Contains(lower, pattern) {
			return Result{Allow: true, Tier: TierInfrastructure, Reason: "infrastructure pattern " + pattern, Terminal: true}
		}
	}

	// Tier 3: curated educational domains plus the mission's allow-list.
	if domainMatches(domain, t.eduDomains) {
		return Result{Allow: true, Tier: TierEducational, Reason: "educational domain " + domain, Terminal: true}
	}
	if m != nil {
		for _, allowed := range m.AllowedDomains {
			if allowed = normalizeDomain(allowed); allowed != "" && suffixMatch(domain, allowed) {
				return Result{Allow: true, Tier: TierEducational, Reason: "mission-allowed domain " + allowed, Terminal: true}
			}
		}
	}

	// Tier 4: curated distraction domains.
	if domainMatches(domain, t.blockDomains) {
		return Result{Allow: false, Tier: TierDistraction, Reason: "distraction domain " + domain, Terminal: true}
	}

	// Tier 5: generic feed/home/explore/stories path patterns.
	for _, pattern := range t.feedPatterns {
		if strings.Contains(lower, pattern) {
			return Result{Allow: false, Tier: TierFeedPattern, Reason: "feed pattern " + pattern, Terminal: true}
		}
	}

	// Tier 6: platform watch/player endpoints.
	if isWatchEndpoint(lower, domain, t.watchMarkers) {
		for _, kw := range t.eduPathKeywords {
			if strings.Contains(lower, kw) {
				return Result{Allow: true, Tier: TierWatchEndpoint, Reason: "educational keyword " + kw, Terminal: true}
			}
		}
		// No page text available: fail open rather than over-block.
		if pageText == "" {
			return Result{Allow: true, Tier: TierWatchEndpoint, Reason: "no page text, fail-open", Terminal: true}
		}
		if m == nil || m.MatchesText(pageText) {
			return Result{Allow: true, Tier: TierWatchEndpoint, Reason: "mission-aligned content", Terminal: true}
		}
		return Result{Allow: false, Tier: TierWatchEndpoint, Reason: "content not mission-aligned", Terminal: true}
	}

	// Tier 7: search engines.
	if domainMatches(domain, t.searchEngines) {
		return Result{Allow: true, Tier: TierSearchEngine, Reason: "search engine " + domain, Terminal: true}
	}

	// Tier 8: default allow. Availability is deliberately favored over
	// over-blocking on unknown domains; the metadata path may still refine
	// this verdict with the classifier.
	return Result{Allow: true, Tier: TierDefault, Reason: "unknown domain, fail-open", Terminal: false}
}

// IsShortForm reports whether the URL matches a tier-1 block pattern.
// Both decision paths consult this before anything else, including the
// cache, so tier-1 precedence holds unconditionally.
func (t *Table) IsShortForm(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, marker := range t.shortFormMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// isWatchEndpoint reports whether the URL is a platform video watch or
// player endpoint.
func isWatchEndpoint(lower, domain string, markers []string) bool {
	if !suffixMatch(domain, "youtube.com") {
		return false
	}
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// domainMatches reports whether the domain is in the set exactly or is a
// subdomain of a set entry.
func domainMatches(domain string, set map[string]struct{}) bool {
	if domain == "" {
		return false
	}
	if _, ok := set[domain]; ok {
		return true
	}
	for candidate := range set {
		if strings.HasSuffix(domain, "."+candidate) {
			return true
		}
	}
	return false
}

// suffixMatch reports whether domain equals base or is a subdomain of it.
func suffixMatch(domain, base string) bool {
	return domain == base || strings.HasSuffix(domain, "."+base)
}

func normalizeDomain(d string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
