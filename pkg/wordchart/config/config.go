package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/wordchart/pkg/wordchart/chart"
	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
)

const (
	MinFreqLow     = 1
	MinFreqHigh    = 100
	DefaultMinFreq = 10
	DefaultTopN    = 20
)

// Config is the file-level configuration. Per-run inputs (url, chart kind,
// threshold) are not part of it.
type Config struct {
	Fetch    Fetch    `yaml:"fetch"`
	Decode   Decode   `yaml:"decode"`
	Pipeline Pipeline `yaml:"pipeline"`
	Chart    Chart    `yaml:"chart"`
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
}

// Fetch configures document retrieval.
type Fetch struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	MaxBytes  int64         `yaml:"max_bytes"`
}

// Decode configures encoding detection.
type Decode struct {
	MinConfidence int    `yaml:"min_confidence"`
	Fallback      string `yaml:"fallback"`
}

// Pipeline configures tokenization and ranking.
type Pipeline struct {
	// MinFreq is the default threshold when a request does not set one.
	MinFreq   int      `yaml:"min_freq"`
	TopN      int      `yaml:"top_n"`
	Stopwords []string `yaml:"stopwords"`
	// Segmenter is "script" (dictionary cutting for CJK) or "fields".
	Segmenter string `yaml:"segmenter"`
}

// Chart configures chart projection and page size.
type Chart struct {
	SizeMin    float64 `yaml:"size_min"`
	SizeMax    float64 `yaml:"size_max"`
	RadarFloor int     `yaml:"radar_floor"`
	// MaxItems caps the entries handed to the chart; 0 means all.
	MaxItems int    `yaml:"max_items"`
	Width    string `yaml:"width"`
	Height   string `yaml:"height"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

const (
	SegmenterScript = "script"
	SegmenterFields = "fields"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Fetch: Fetch{
			Timeout:   15 * time.Second,
			UserAgent: "wordchart/1.0",
			MaxBytes:  10 << 20,
		},
		Decode: Decode{
			MinConfidence: 10,
			Fallback:      "utf-8",
		},
		Pipeline: Pipeline{
			MinFreq:   DefaultMinFreq,
			TopN:      DefaultTopN,
			Segmenter: SegmenterScript,
		},
		Chart: Chart{
			SizeMin:    20,
			SizeMax:    100,
			RadarFloor: chart.DefaultRadarFloor,
			Width:      "900px",
			Height:     "600px",
		},
		Server: Server{Addr: ":8501"},
		Log:    Log{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if err := ValidateMinFreq(c.Pipeline.MinFreq); err != nil {
		return err
	}
	if c.Pipeline.TopN < 1 {
		return fmt.Errorf("%w: pipeline.top_n must be >= 1, got %d", internalerr.ErrInvalidConfig, c.Pipeline.TopN)
	}
	switch c.Pipeline.Segmenter {
	case SegmenterScript, SegmenterFields:
	default:
		return fmt.Errorf("%w: pipeline.segmenter %q (want %q or %q)",
			internalerr.ErrInvalidConfig, c.Pipeline.Segmenter, SegmenterScript, SegmenterFields)
	}
	if c.Chart.SizeMin < 0 || c.Chart.SizeMin > c.Chart.SizeMax {
		return fmt.Errorf("%w: chart size range [%g, %g]", internalerr.ErrInvalidConfig, c.Chart.SizeMin, c.Chart.SizeMax)
	}
	if c.Chart.RadarFloor < chart.DefaultRadarFloor {
		return fmt.Errorf("%w: chart.radar_floor must be >= %d, got %d",
			internalerr.ErrInvalidConfig, chart.DefaultRadarFloor, c.Chart.RadarFloor)
	}
	if c.Chart.MaxItems < 0 {
		return fmt.Errorf("%w: chart.max_items must be >= 0", internalerr.ErrInvalidConfig)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("%w: fetch.timeout must be positive", internalerr.ErrInvalidConfig)
	}
	if c.Decode.MinConfidence < 0 || c.Decode.MinConfidence > 100 {
		return fmt.Errorf("%w: decode.min_confidence must be in [0,100]", internalerr.ErrInvalidConfig)
	}
	return nil
}

// ValidateMinFreq checks a threshold against the accepted range [1,100].
func ValidateMinFreq(n int) error {
	if n < MinFreqLow || n > MinFreqHigh {
		return fmt.Errorf("%w: min_freq must be in [%d,%d], got %d",
			internalerr.ErrInvalidConfig, MinFreqLow, MinFreqHigh, n)
	}
	return nil
}
