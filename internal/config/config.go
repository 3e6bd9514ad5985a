package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported LLM providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Supported search providers.
const (
	SearchGoogle     = "google"
	SearchJina       = "jina"
	SearchPerplexity = "perplexity"
)

// Config holds the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Google     GoogleConfig     `yaml:"google" mapstructure:"google"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Agent      AgentConfig      `yaml:"agent" mapstructure:"agent"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Input      InputConfig      `yaml:"input" mapstructure:"input"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects the model provider that drives the agent.
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	// CacheTTL is the system prompt cache lifetime: "5m", "1h", or empty for the API default.
	CacheTTL string `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SearchConfig selects the web search backend exposed to the agent.
type SearchConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
}

// GoogleConfig holds Google Custom Search credentials.
type GoogleConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	CSEID      string `yaml:"cse_id" mapstructure:"cse_id"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	NumResults int    `yaml:"num_results" mapstructure:"num_results"`
}

// JinaConfig holds Jina search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
	// Site restricts results to one domain, e.g. "linkedin.com".
	Site string `yaml:"site" mapstructure:"site"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AgentConfig bounds the tool-use loop.
type AgentConfig struct {
	MaxTurns int `yaml:"max_turns" mapstructure:"max_turns"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// InputConfig configures the company list source.
type InputConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	SkipInvalid bool   `yaml:"skip_invalid" mapstructure:"skip_invalid"`
	Encoding    string `yaml:"encoding" mapstructure:"encoding"`
}

// OutputConfig configures the results destination.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// envAliases maps config keys to the plain variable names commonly found in .env files.
var envAliases = map[string]string{
	"openai.key":     "OPENAI_API_KEY",
	"anthropic.key":  "ANTHROPIC_API_KEY",
	"gemini.key":     "GEMINI_API_KEY",
	"google.key":     "GOOGLE_API_KEY",
	"google.cse_id":  "GOOGLE_CSE_ID",
	"jina.key":       "JINA_API_KEY",
	"perplexity.key": "PERPLEXITY_API_KEY",
}

// Load reads configuration from defaults, config.yaml, .env and the environment.
func Load() (*Config, error) {
	// .env never overrides variables already set in the process.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		envKey := "FINDER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, alias); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.cache_ttl", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("search.provider", SearchGoogle)
	v.SetDefault("google.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("google.num_results", 10)
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("perplexity.model", "sonar")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("agent.max_turns", 15)
	v.SetDefault("batch.concurrency", 5)
	v.SetDefault("batch.timeout_secs", 120)
	v.SetDefault("input.path", "data/companies.csv")
	v.SetDefault("input.skip_invalid", false)
	v.SetDefault("output.path", "output.csv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the selected providers are known and have credentials,
// and that numeric limits are usable. All problems are reported in one error.
func (c *Config) Validate() error {
	var errs []string

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.OpenAI.Key == "" {
			errs = append(errs, "openai.key is required (OPENAI_API_KEY)")
		}
	case ProviderAnthropic:
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required (ANTHROPIC_API_KEY)")
		}
		switch c.Anthropic.CacheTTL {
		case "", "5m", "1h":
		default:
			errs = append(errs, fmt.Sprintf("anthropic.cache_ttl must be 5m or 1h, got %q", c.Anthropic.CacheTTL))
		}
	case ProviderGemini:
		if c.Gemini.Key == "" {
			errs = append(errs, "gemini.key is required (GEMINI_API_KEY)")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown llm.provider %q", c.LLM.Provider))
	}

	switch c.Search.Provider {
	case SearchGoogle:
		if c.Google.Key == "" {
			errs = append(errs, "google.key is required (GOOGLE_API_KEY)")
		}
		if c.Google.CSEID == "" {
			errs = append(errs, "google.cse_id is required (GOOGLE_CSE_ID)")
		}
	case SearchJina:
		if c.Jina.Key == "" {
			errs = append(errs, "jina.key is required (JINA_API_KEY)")
		}
	case SearchPerplexity:
		if c.Perplexity.Key == "" {
			errs = append(errs, "perplexity.key is required (PERPLEXITY_API_KEY)")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown search.provider %q", c.Search.Provider))
	}

	if c.Agent.MaxTurns < 1 {
		errs = append(errs, "agent.max_turns must be >= 1")
	}
	if c.Batch.TimeoutSecs < 0 {
		errs = append(errs, "batch.timeout_secs must be >= 0")
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// Redacted returns a copy of the config with every credential masked.
func (c Config) Redacted() Config {
	c.OpenAI.Key = redact(c.OpenAI.Key)
	c.Anthropic.Key = redact(c.Anthropic.Key)
	c.Gemini.Key = redact(c.Gemini.Key)
	c.Google.Key = redact(c.Google.Key)
	c.Jina.Key = redact(c.Jina.Key)
	c.Perplexity.Key = redact(c.Perplexity.Key)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
