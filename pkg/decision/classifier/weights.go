package classifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"anchorite-hq/anchorite/pkg/decision/features"
)

// Layer sizes of the frozen scoring head.
var layerSizes = [][2]int{
	{features.Dim, 256},
	{256, 128},
	{128, 64},
	{64, 1},
}

// degradedSeed makes the fallback initialization deterministic so a
// degraded classifier at least scores reproducibly.
const degradedSeed = 0x616e63686f72

// ModelLoadError reports a weights file that could not be used.
type ModelLoadError struct {
	Path  string
	Cause error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("classifier weights %s: %v", e.Path, e.Cause)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Cause
}

// weightsFile is the on-disk JSON format. Version tracks the file format,
// FeatureVersion must match the extractor that produced training vectors.
type weightsFile struct {
	Version        int         `json:"version"`
	FeatureVersion int         `json:"feature_version"`
	Layers         []layerJSON `json:"layers"`
}

type layerJSON struct {
	In      int       `json:"in"`
	Out     int       `json:"out"`
	Weights []float32 `json:"weights"`
	Biases  []float32 `json:"biases"`
}

// Classifier scores feature vectors with the learned model, or with a
// deterministic random initialization when no usable weights exist.
type Classifier struct {
	net      *network
	degraded bool
	logger   *slog.Logger
}

// New loads weights from path. Any load failure is non-fatal: the
// classifier starts in degraded mode with seeded random weights and the
// error is logged, because the rule tiers above it still enforce the
// curated policy.
func New(path string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "classifier")

	net, err := loadNetwork(path)
	if err != nil {
		logger.Warn("weights unavailable, running degraded with seeded random weights",
			"path", path, "error", err)
		return &Classifier{net: degradedNetwork(), degraded: true, logger: logger}
	}

	logger.Info("classifier weights loaded", "path", path)
	return &Classifier{net: net, logger: logger}
}

// Score returns the model's confidence in [0,1] that the vector describes
// mission-aligned content.
func (c *Classifier) Score(vec []float32) float64 {
	return c.net.score(vec)
}

// Degraded reports whether the classifier fell back to random weights.
func (c *Classifier) Degraded() bool {
	return c.degraded
}

func loadNetwork(path string) (*network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Cause: err}
	}

	var file weightsFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, &ModelLoadError{Path: path, Cause: err}
	}
	if file.FeatureVersion != features.Version {
		return nil, &ModelLoadError{Path: path, Cause: fmt.Errorf(
			"feature version %d does not match extractor version %d", file.FeatureVersion, features.Version)}
	}
	if len(file.Layers) != len(layerSizes) {
		return nil, &ModelLoadError{Path: path, Cause: fmt.Errorf(
			"got %d layers, want %d", len(file.Layers), len(layerSizes))}
	}

	net := &network{}
	for i, lj := range file.Layers {
		in, out := layerSizes[i][0], layerSizes[i][1]
		if lj.In != in || lj.Out != out {
			return nil, &ModelLoadError{Path: path, Cause: fmt.Errorf(
				"layer %d is %dx%d, want %dx%d", i, lj.Out, lj.In, out, in)}
		}
		if len(lj.Weights) != in*out || len(lj.Biases) != out {
			return nil, &ModelLoadError{Path: path, Cause: fmt.Errorf(
				"layer %d has %d weights and %d biases, want %d and %d",
				i, len(lj.Weights), len(lj.Biases), in*out, out)}
		}
		net.layers = append(net.layers, &layer{in: in, out: out, weights: lj.Weights, biases: lj.Biases})
	}
	return net, nil
}

// degradedNetwork builds a small-weight random network from a fixed seed.
func degradedNetwork() *network {
	rng := rand.New(rand.NewSource(degradedSeed))
	net := &network{}
	for _, size := range layerSizes {
		in, out := size[0], size[1]
		l := &layer{in: in, out: out, weights: make([]float32, in*out), biases: make([]float32, out)}
		for i := range l.weights {
			l.weights[i] = float32(rng.NormFloat64()) * 0.01
		}
		net.layers = append(net.layers, l)
	}
	return net
}
