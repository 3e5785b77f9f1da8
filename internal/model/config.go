package model

import "time"

// Config holds the complete wikibias configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Scrape      ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	Wiki        WikiConfig        `yaml:"wiki" mapstructure:"wiki"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behavior shared by wiki and scrape clients
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// LLMConfig controls the model provider boundary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // Never persisted; from env only
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ScrapeConfig controls citation-source retrieval
type ScrapeConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxChunkChars     int           `yaml:"max_chunk_chars" mapstructure:"max_chunk_chars"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// WikiConfig controls article fetching
type WikiConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ConcurrencyConfig controls the batch command only; a single article is
// always processed sequentially
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "wikibias/0.1 (+https://github.com/wikibias/wikibias)",
			MaxBodyBytes: 2_000_000,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Scrape: ScrapeConfig{
			Timeout:           10 * time.Second,
			MaxChunkChars:     8000,
			RequestsPerSecond: 1.0,
			RespectRobots:     true,
			CacheTTL:          15 * time.Minute,
		},
		Wiki: WikiConfig{
			BaseURL: "https://en.wikipedia.org/api/rest_v1",
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 2,
		},
		Output: OutputConfig{},
	}
}
