package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
const EnvPrefix = "PROJPOOL"

// envAliases maps configuration keys to the plain environment variable names
// used by the Cloud Run deployment. Prefixed variables take precedence.
var envAliases = map[string]string{
	"server.port":         "PORT",
	"server.frontend_url": "FRONTEND_URL",
	"database.url":        "DATABASE_URL",
	"auth.jwt_secret":     "JWT_SECRET_KEY",
	"llm.project_id":      "GOOGLE_CLOUD_PROJECT_ID",
	"llm.region":          "GOOGLE_CLOUD_REGION",
	"llm.model_name":      "GOOGLE_CLOUD_GEMINI_MODEL_ID",
	"storage.bucket_name": "GCS_BUCKET_NAME",
	"tasks.service_url":   "CLOUD_RUN_SERVICE_URL",
}

// defaults lists every known key with its default value. Keys must be known
// to viper for environment overrides to reach Unmarshal.
var defaults = map[string]any{
	"server.port":                        8080,
	"server.log_level":                   "info",
	"server.frontend_url":                "",
	"server.rate_limit_rps":              20.0,
	"server.rate_limit_burst":            40,
	"server.shutdown_timeout_seconds":    10,
	"server.max_upload_bytes":            10 << 20,
	"database.url":                       "",
	"database.max_open_conns":            10,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 5,
	"auth.jwt_secret":                    "",
	"auth.token_lifetime_minutes":        180,
	"auth.bcrypt_cost":                   10,
	"llm.project_id":                     "",
	"llm.region":                         "us-central1",
	"llm.model_name":                     "",
	"llm.max_retries":                    3,
	"llm.retry_delay_seconds":            2,
	"llm.max_concurrency":                6,
	"llm.include_images":                 true,
	"storage.bucket_name":                "",
	"storage.object_prefix":              "project_images",
	"storage.max_image_dimension":        1920,
	"storage.jpeg_quality":               85,
	"tasks.service_url":                  "",
	"tasks.cleanup_schedule":             "",
	"redis.addr":                         "",
	"redis.password":                     "",
	"redis.db":                           0,
	"events.amqp_url":                    "",
	"events.exchange":                    "projpool.events",
	"metrics.enabled":                    true,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key := range defaults {
		names := []string{envName(key)}
		if alias, ok := envAliases[key]; ok {
			names = append(names, alias)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envName converts a dotted key such as "server.port" into PROJPOOL_SERVER_PORT.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
