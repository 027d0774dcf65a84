// Package config builds runtime configuration. Environment variables win
// over the optional YAML file so deployments can override without editing
// files; FromEnv alone is enough for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr          string        `yaml:"addr"`
	LogLevel      string        `yaml:"log_level"`
	JWTSigningKey string        `yaml:"jwt_signing_key"`
	JWTIssuer     string        `yaml:"jwt_issuer"`
	JWTAudience   string        `yaml:"jwt_audience"`
	PostgresDSN   string        `yaml:"postgres_dsn"`
	Redis         RedisConfig   `yaml:"redis"`
	Kafka         KafkaConfig   `yaml:"kafka"`
	RemoteProfile RemoteConfig  `yaml:"remote_profile"`
	SubmitDelay   time.Duration `yaml:"submit_delay"`
	EnableSave    bool          `yaml:"enable_save"`
	MutationLimit int           `yaml:"mutation_limit"`
	MutationWin   time.Duration `yaml:"mutation_window"`
}

// RedisConfig configures the optional Redis draft store.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	DraftTTL     time.Duration `yaml:"draft_ttl"`
}

// KafkaConfig configures the optional audit sink.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RemoteConfig configures the external account-service client.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads the optional YAML file named by PATHWAY_CONFIG, then applies
// environment overrides and defaults.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("PATHWAY_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		// Development fallback; override in any real deployment.
		JWTSigningKey: "dev-secret-key-change-in-production",
		JWTIssuer:     "pathway",
		JWTAudience:   "pathway-api",
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			DraftTTL:     30 * 24 * time.Hour,
		},
		Kafka: KafkaConfig{Topic: "pathway.profile.audit"},
		RemoteProfile: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		SubmitDelay:   150 * time.Millisecond,
		EnableSave:    true,
		MutationLimit: 120,
		MutationWin:   time.Minute,
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Addr, "PATHWAY_ADDR")
	setString(&cfg.LogLevel, "PATHWAY_LOG_LEVEL")
	setString(&cfg.JWTSigningKey, "JWT_SIGNING_KEY")
	setString(&cfg.JWTIssuer, "JWT_ISSUER")
	setString(&cfg.JWTAudience, "JWT_AUDIENCE")
	setString(&cfg.PostgresDSN, "PATHWAY_POSTGRES_DSN")
	setString(&cfg.Redis.URL, "PATHWAY_REDIS_URL")
	setString(&cfg.RemoteProfile.BaseURL, "PATHWAY_REMOTE_PROFILE_URL")
	if v := os.Getenv("PATHWAY_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitCSV(v)
	}
	setString(&cfg.Kafka.Topic, "PATHWAY_KAFKA_TOPIC")
	if v := os.Getenv("PATHWAY_SUBMIT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SubmitDelay = d
		}
	}
	if v := os.Getenv("PATHWAY_ENABLE_SAVE"); v != "" {
		cfg.EnableSave = v == "true"
	}
	if v := os.Getenv("PATHWAY_MUTATION_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MutationLimit = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
