// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Verification  VerificationConfig      `mapstructure:"verification"`
	Registry      RegistryConfig          `mapstructure:"registry"`
	Audit         AuditConfig             `mapstructure:"audit"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
	Server        ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	Plaintext      bool   `mapstructure:"plaintext"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// --- Verification Engine Configuration ---

// VerificationConfig tunes the document comparator and plate recovery.
type VerificationConfig struct {
	VerdictPolicy       string  `mapstructure:"verdict_policy"` // two_tier or three_tier
	TrustedThreshold    float64 `mapstructure:"trusted_threshold"`
	SuspiciousThreshold float64 `mapstructure:"suspicious_threshold"`
	PreferMaxCost       float64 `mapstructure:"prefer_max_cost"`
	OpenMaxCost         float64 `mapstructure:"open_max_cost"`
}

// RegistryConfig selects the vehicle registry backend.
type RegistryConfig struct {
	Source               string `mapstructure:"source"`           // postgres or memory
	CacheTTL             int    `mapstructure:"cache_ttl"`        // milliseconds
	PlatesCacheTTL       int    `mapstructure:"plates_cache_ttl"` // milliseconds
	SeedOnStart          bool   `mapstructure:"seed_on_start"`
	ActivityRegistryPath string `mapstructure:"activity_registry_path"`
}

// AuditConfig holds settings for the Elasticsearch verification audit index.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Index   string `mapstructure:"index"`
}

// NotificationConfig holds settings for the verification alert worker.
type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
	ReviewerEmail string  `mapstructure:"reviewer_email"`
	RatePerMinute float64 `mapstructure:"rate_per_minute"`
	Burst         int     `mapstructure:"burst"`
}

// TracingConfig controls span export to Jaeger.
type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// ServerConfig is the ops HTTP server (health, readiness, metrics).
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
