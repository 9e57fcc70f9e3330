package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Tasks    TasksConfig    `mapstructure:"tasks"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Events   EventsConfig   `mapstructure:"events"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// FrontendURL is the only origin allowed by CORS. Empty disables CORS headers.
	FrontendURL string `mapstructure:"frontend_url" validate:"omitempty,url"`

	RateLimitRPS           float64 `mapstructure:"rate_limit_rps"           validate:"gte=0"`
	RateLimitBurst         int     `mapstructure:"rate_limit_burst"         validate:"gte=0"`
	ShutdownTimeoutSeconds int     `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	MaxUploadBytes         int64   `mapstructure:"max_upload_bytes"         validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=10080"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// LLMConfig contains the Vertex AI Gemini settings.
type LLMConfig struct {
	ProjectID         string `mapstructure:"project_id"          validate:"required"`
	Region            string `mapstructure:"region"              validate:"required"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
	MaxConcurrency    int    `mapstructure:"max_concurrency"     validate:"gt=0,lte=32"`

	// IncludeImages attaches the project's stored images to refinement prompts.
	IncludeImages bool `mapstructure:"include_images"`
}

// StorageConfig contains the Cloud Storage settings for project images.
type StorageConfig struct {
	BucketName        string `mapstructure:"bucket_name"         validate:"required"`
	ObjectPrefix      string `mapstructure:"object_prefix"       validate:"required"`
	MaxImageDimension int    `mapstructure:"max_image_dimension" validate:"gt=0"`
	JPEGQuality       int    `mapstructure:"jpeg_quality"        validate:"gte=1,lte=100"`
}

// TasksConfig contains settings for maintenance tasks.
type TasksConfig struct {
	// ServiceURL is the expected audience of OIDC tokens presented to task
	// endpoints. Task endpoints are not mounted when it is empty.
	ServiceURL string `mapstructure:"service_url" validate:"omitempty,url"`

	// CleanupSchedule is a cron expression for in-process revoked token cleanup.
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

// RedisConfig contains the optional revocation cache settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// EventsConfig contains the optional AMQP publishing settings.
type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange" validate:"required_with=AMQPURL"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
