package model

import "time"

// Config is the full runtime configuration.
//
// Hierarchy (highest to lowest priority): CLI flags, MAJORANT_* environment
// variables, ~/.majorant/config.yaml, defaults.
type Config struct {
	Oracle OracleConfig `yaml:"oracle"`
	LLM    LLMConfig    `yaml:"llm"`
	Search SearchConfig `yaml:"search"`
	Cache  CacheConfig  `yaml:"cache"`
	Output OutputConfig `yaml:"output"`
}

// OracleTransport selects how resolution queries reach the symbolic engine.
type OracleTransport string

const (
	TransportLocal  OracleTransport = "local"  // wolframscript subprocess
	TransportRemote OracleTransport = "remote" // HTTP endpoint
)

// OracleConfig configures the resolution oracle client. The transport is an
// explicit value constructed once and passed into controllers; it is never a
// process-wide mutable setting.
type OracleConfig struct {
	Transport     OracleTransport `yaml:"transport"`      // "local" or "remote"
	Endpoint      string          `yaml:"endpoint"`       // Remote evaluation URL
	WolframScript string          `yaml:"wolframscript"`  // Binary path override; "" means resolve
	Timeout       time.Duration   `yaml:"timeout"`        // Per-call wall clock bound
}

// LLMConfig configures the proposal oracle.
type LLMConfig struct {
	Model             string        `yaml:"model"`
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxTokens         int           `yaml:"max_tokens"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// SearchConfig bounds the controller's retry and constant-search loops.
type SearchConfig struct {
	MaxProposalCycles int `yaml:"max_proposal_cycles"` // Whole-proposal retries
	SeriesExponent    int `yaml:"series_exponent"`     // Single c for the series pass
	MinExponent       int `yaml:"min_exponent"`        // Inequality scan lower end
	MaxExponent       int `yaml:"max_exponent"`        // Inequality scan upper end (inclusive)
}

// CacheConfig configures resolution-result caching.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"` // "" means no disk layer
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig controls operational output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Transport: TransportLocal,
			Timeout:   120 * time.Second,
		},
		LLM: LLMConfig{
			Model:             "gpt-4o-mini",
			Timeout:           60 * time.Second,
			MaxTokens:         1024,
			RequestsPerSecond: 1,
		},
		Search: SearchConfig{
			MaxProposalCycles: 5,
			SeriesExponent:    0,
			MinExponent:       -2,
			MaxExponent:       6,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
	}
}
