package decision

import (
	"time"

	"anchorite-hq/anchorite/pkg/decision/rules"
)

// Verdict is the engine's answer for a URL.
type Verdict string

const (
	VerdictAllow Verdict = "allow"
	VerdictBlock Verdict = "block"
)

// Decision sources.
const (
	SourceRules      = "rules"
	SourceCache      = "cache"
	SourceClassifier = "classifier"
)

// Decision paths, used for metrics labels.
const (
	PathFast = "fast"
	PathSlow = "slow"
)

// Result is a fully-attributed admission decision.
type Result struct {
	URL        string     `json:"url"`
	Verdict    Verdict    `json:"verdict"`
	Confidence float64    `json:"confidence"`
	Source     string     `json:"source"`
	Tier       rules.Tier `json:"tier,omitempty"`
	Reason     string     `json:"reason"`
	Cached     bool       `json:"cached"`
	DecidedAt  time.Time  `json:"decided_at"`
}

// Allowed reports whether the result admits the URL.
func (r Result) Allowed() bool {
	return r.Verdict == VerdictAllow
}

func verdictOf(allow bool) Verdict {
	if allow {
		return VerdictAllow
	}
	return VerdictBlock
}
