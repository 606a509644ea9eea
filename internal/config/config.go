package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of the application configuration tree.
//
// API key precedence, highest first: Vault, config file, environment
// (SMARTATS_AI_APIKEY and friends), built-in defaults.
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig carries the global AI settings plus per-operation overrides.
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	Improve OperationAIConfig `mapstructure:"improve"`
}

// AnalysisConfig holds thresholds for the scoring pipeline.
type AnalysisConfig struct {
	// Inputs shorter than these are rejected before scoring
	MinJobDescriptionChars int `mapstructure:"minJobDescriptionChars"`
	MinResumeTextChars     int `mapstructure:"minResumeTextChars"`
}

// CircuitBreakerConfig tunes the gobreaker wrapper around AI calls.
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"` // allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`    // closed-state count reset
	Timeout          time.Duration `mapstructure:"timeout"`     // open before probing
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureThreshold float64       `mapstructure:"failureThreshold"` // failure ratio 0.0-1.0
}

// OperationAIConfig overrides AIConfig for a single operation. Pointer
// fields distinguish "unset" from an explicit zero.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig groups prompt overrides by role.
type PromptConfig struct {
	SystemPrompts SystemPrompts `mapstructure:"systemPrompts"`
	UserPrompts   UserPrompts   `mapstructure:"userPrompts"`
}

// SystemPrompts overrides the system-level instructions. The *File
// variants point at files whose content replaces the inline value.
type SystemPrompts struct {
	ImproveResume     string `mapstructure:"improveResume"`
	ImproveResumeFile string `mapstructure:"improveResumeFile"`
}

// UserPrompts overrides the user-level prompt templates.
type UserPrompts struct {
	ImproveResume     string `mapstructure:"improveResume"`
	ImproveResumeFile string `mapstructure:"improveResumeFile"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// Accepted API keys; empty disables authentication
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS and mTLS configuration. Certificates may be given
// as file paths or as PEM content (the latter typically from Vault).
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // "disabled", "server", "mutual"
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"` // client CA, required for mutual mode

	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string `mapstructure:"minVersion"`       // "1.2" or "1.3"
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // "require", "request", "verify"

	Reload CertReloadConfig `mapstructure:"reload"`
}

// CertReloadConfig controls file-watch based certificate reloading.
type CertReloadConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// RateLimitConfig holds token-bucket rate limiting configuration.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application configuration.
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxUploadSize    int64    `mapstructure:"maxUploadSize"`
}

// ObservabilityConfig holds tracing and metrics configuration.
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics collection configuration.
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig controls console span and metric output.
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig toggles the application-level metric families.
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig toggles AI operation metrics.
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
	TrackModelInfo  bool `mapstructure:"trackModelInfo"`
}

// BusinessMetricsConfig toggles business outcome metrics.
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig toggles infrastructure metrics.
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds the Prometheus scrape endpoint configuration.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration.
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig bounds the /health endpoint's dependency probes.
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig builds the configuration from defaults, an optional config
// file, and SMARTATS_-prefixed environment variables, then validates it.
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SMARTATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/smartats/")
	v.AddConfigPath("$HOME/.smartats")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch {
	case c.AI.APIKey == "":
		return fmt.Errorf("AI API key is required (set SMARTATS_AI_APIKEY environment variable)")
	case c.AI.Timeout <= 0:
		return fmt.Errorf("AI timeout must be positive")
	case c.Server.Port == "":
		return fmt.Errorf("server port is required")
	case c.Analysis.MinJobDescriptionChars <= 0:
		return fmt.Errorf("analysis minJobDescriptionChars must be positive")
	case c.Analysis.MinResumeTextChars <= 0:
		return fmt.Errorf("analysis minResumeTextChars must be positive")
	}

	supported := false
	for _, format := range c.App.SupportedFormats {
		if format == c.App.DefaultFormat {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// loadPromptsFromFiles reads file-based prompt overrides into the inline
// prompt fields. File content takes precedence over inline config values.
func (c *Config) loadPromptsFromFiles() error {
	entries := []struct {
		file   string
		target *string
	}{
		{c.AI.CustomPrompts.SystemPrompts.ImproveResumeFile, &c.AI.CustomPrompts.SystemPrompts.ImproveResume},
		{c.AI.CustomPrompts.UserPrompts.ImproveResumeFile, &c.AI.CustomPrompts.UserPrompts.ImproveResume},
		{c.AI.Improve.CustomPrompts.SystemPrompts.ImproveResumeFile, &c.AI.Improve.CustomPrompts.SystemPrompts.ImproveResume},
		{c.AI.Improve.CustomPrompts.UserPrompts.ImproveResumeFile, &c.AI.Improve.CustomPrompts.UserPrompts.ImproveResume},
	}

	for _, entry := range entries {
		if entry.file == "" {
			continue
		}
		content, err := os.ReadFile(entry.file)
		if err != nil {
			return fmt.Errorf("failed to read prompt file %s: %w", entry.file, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			return fmt.Errorf("prompt file %s is empty", entry.file)
		}
		*entry.target = string(content)
	}

	return nil
}

// GlobalConfig holds the process-wide configuration after InitConfig.
var GlobalConfig *Config

// InitConfig loads the configuration and stores it in GlobalConfig.
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
