package mission

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mission is the user's declared goal for a focus session. It is written by
// the setup collaborator and read-only to the decision engine for the
// session's duration; a new mission replaces the old one wholesale.
type Mission struct {
	// Text is the free-form goal description.
	Text string `yaml:"text"`

	// AllowedDomains are additional domains always admitted for this
	// mission.
	AllowedDomains []string `yaml:"allowed_domains"`

	// AllowedKeywords are additional keywords treated as mission-aligned.
	AllowedKeywords []string `yaml:"allowed_keywords"`
}

// Default returns the fallback mission used when no document exists yet.
func Default() *Mission {
	return &Mission{
		Text: "Stay productive and avoid distractions",
		AllowedDomains: []string{
			"github.com", "stackoverflow.com", "python.org",
			"docs.python.org", "pypi.org", "readthedocs.io",
		},
		AllowedKeywords: []string{
			"programming", "coding", "development",
			"tutorial", "documentation", "api",
		},
	}
}

// Load reads a mission document from a YAML file.
func Load(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission document %q: %w", path, err)
	}

	var m Mission
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mission document %q: %w", path, err)
	}

	if strings.TrimSpace(m.Text) == "" {
		return nil, fmt.Errorf("mission document %q has no text", path)
	}

	return &m, nil
}

// Save writes the mission document to a YAML file.
func Save(path string, m *Mission) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal mission: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mission document %q: %w", path, err)
	}
	return nil
}
