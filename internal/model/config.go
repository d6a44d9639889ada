package model

// Config is the complete runtime configuration. Values are resolved in order:
// CLI flags, RUBRICA_* environment variables, ~/.rubrica/config.yaml, defaults.
type Config struct {
	Dataset      DatasetConfig      `yaml:"dataset" mapstructure:"dataset"`
	Rubric       RubricConfig       `yaml:"rubric" mapstructure:"rubric"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
}

// DatasetConfig locates the question banks
type DatasetConfig struct {
	Dir        string `yaml:"dir" mapstructure:"dir"`
	GoldFile   string `yaml:"gold_file" mapstructure:"gold_file"`
	HiddenFile string `yaml:"hidden_file" mapstructure:"hidden_file"`
}

// RubricConfig selects the rubric source; an empty path means the embedded rubric
type RubricConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	ReportName    string `yaml:"report_name" mapstructure:"report_name"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles LLM feedback calls in batch mode
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls bank and feedback caching
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir        string `yaml:"dir" mapstructure:"dir"`
	TTLMinutes int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// LLMConfig configures the optional feedback narrative
type LLMConfig struct {
	Provider         string `yaml:"provider" mapstructure:"provider"`
	Model            string `yaml:"model" mapstructure:"model"`
	APIKey           string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	Timeout          int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictReferences bool   `yaml:"strict_references" mapstructure:"strict_references"`
	MaxTokens        int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy        string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy       string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy          string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Dir:        "rag_support_dataset",
			GoldFile:   "gold_questions_public.json",
			HiddenFile: "hidden_questions_instructor.json",
		},
		Rubric: RubricConfig{
			Path: "", // embedded default rubric
		},
		Output: OutputConfig{
			Verbose:       false,
			ReportName:    "grading_report.json",
			IncludeFooter: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1.0,
			BurstSize:         2,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Dir:        ".rubrica-cache",
			TTLMinutes: 60,
		},
		LLM: LLMConfig{
			Provider:         "", // disabled by default
			Model:            "",
			Timeout:          30,
			StrictReferences: true,
			MaxTokens:        1000,
		},
	}
}
