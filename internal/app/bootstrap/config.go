package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/veeraceo-pixel/cashback/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string
	HTTPPort  int
	GRPCPort  int

	DatabaseURL string
	MaxDBConns  int32
	RedisURL    string

	WebhookSecret     string
	NetworkSecrets    map[domain.NetworkKind]string
	NetworkAPIs       map[domain.NetworkKind]NetworkAPI
	APITimeout        time.Duration
	SupabaseSecret    string
	SupabaseIssuer    string
	AdminCacheTTL     time.Duration
	KafkaBrokers      []string
	KafkaTopics       map[string]string
	SyncInterval      time.Duration
	SyncNetworks      []domain.NetworkKind
	SyncLockTTL       time.Duration
	CountRedeliveries bool

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int

	LogLevel  string
	LogFormat string
}

// NetworkAPI is the listing endpoint polled for one network.
type NetworkAPI struct {
	URL      string
	APIToken string
}

type networkFile struct {
	URL           string `yaml:"url"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// configFile mirrors configs/default.yaml. Secrets are normally left empty there
// and supplied through the environment.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		MaxDBConns   int32    `yaml:"max_db_conns"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Networks map[string]networkFile `yaml:"networks"`
	Auth     struct {
		SupabaseIssuer string `yaml:"supabase_issuer"`
		AdminCacheTTL  string `yaml:"admin_cache_ttl"`
	} `yaml:"auth"`
	Reconciler struct {
		CountRedeliveries bool     `yaml:"count_redeliveries"`
		SyncInterval      string   `yaml:"sync_interval"`
		SyncNetworks      []string `yaml:"sync_networks"`
		SyncLockTTL       string   `yaml:"sync_lock_ttl"`
		APITimeout        string   `yaml:"api_timeout"`
	} `yaml:"reconciler"`
	Events struct {
		Topics map[string]string `yaml:"topics"`
	} `yaml:"events"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:      "cashback-reconciler",
		HTTPPort:       8080,
		GRPCPort:       9090,
		MaxDBConns:     20,
		NetworkSecrets: map[domain.NetworkKind]string{},
		NetworkAPIs: map[domain.NetworkKind]NetworkAPI{
			domain.NetworkAWIN: {URL: "https://api.awin.com/transactions"},
		},
		APITimeout:         30 * time.Second,
		AdminCacheTTL:      5 * time.Minute,
		KafkaTopics:        map[string]string{},
		SyncInterval:       6 * time.Hour,
		SyncNetworks:       []domain.NetworkKind{domain.NetworkAWIN},
		SyncLockTTL:        30 * time.Minute,
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		OutboxClaimTTL:     30 * time.Second,
		OutboxMaxRetries:   5,
		LogLevel:           "info",
		LogFormat:          "json",
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := applyFile(&cfg, raw); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	applyEnv(&cfg)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DATABASE_URL/SUPABASE_DB_URL")
	}
	if cfg.WebhookSecret == "" {
		return Config{}, fmt.Errorf("missing WEBHOOK_SECRET")
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	if f.Dependencies.PostgresURL != "" {
		cfg.DatabaseURL = f.Dependencies.PostgresURL
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if f.Dependencies.MaxDBConns > 0 {
		cfg.MaxDBConns = f.Dependencies.MaxDBConns
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
	}
	for name, n := range f.Networks {
		kind, err := domain.ParseNetworkKind(name)
		if err != nil {
			return fmt.Errorf("config networks.%s: %w", name, err)
		}
		if n.URL != "" {
			api := cfg.NetworkAPIs[kind]
			api.URL = n.URL
			cfg.NetworkAPIs[kind] = api
		}
		if n.WebhookSecret != "" {
			cfg.NetworkSecrets[kind] = n.WebhookSecret
		}
	}
	if f.Auth.SupabaseIssuer != "" {
		cfg.SupabaseIssuer = f.Auth.SupabaseIssuer
	}
	if err := parseDurationInto(&cfg.AdminCacheTTL, "auth.admin_cache_ttl", f.Auth.AdminCacheTTL); err != nil {
		return err
	}
	cfg.CountRedeliveries = f.Reconciler.CountRedeliveries
	if err := parseDurationInto(&cfg.SyncInterval, "reconciler.sync_interval", f.Reconciler.SyncInterval); err != nil {
		return err
	}
	if err := parseDurationInto(&cfg.SyncLockTTL, "reconciler.sync_lock_ttl", f.Reconciler.SyncLockTTL); err != nil {
		return err
	}
	if err := parseDurationInto(&cfg.APITimeout, "reconciler.api_timeout", f.Reconciler.APITimeout); err != nil {
		return err
	}
	if len(f.Reconciler.SyncNetworks) > 0 {
		kinds, err := parseNetworks(f.Reconciler.SyncNetworks)
		if err != nil {
			return fmt.Errorf("config reconciler.sync_networks: %w", err)
		}
		cfg.SyncNetworks = kinds
	}
	for eventType, topic := range f.Events.Topics {
		cfg.KafkaTopics[eventType] = topic
	}
	if f.Logging.Level != "" {
		cfg.LogLevel = f.Logging.Level
	}
	if f.Logging.Format != "" {
		cfg.LogFormat = f.Logging.Format
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", envOrDefault("SUPABASE_DB_URL", cfg.DatabaseURL))
	cfg.MaxDBConns = int32(envInt("MAX_DB_CONNS", int(cfg.MaxDBConns)))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.WebhookSecret = envOrDefault("WEBHOOK_SECRET", cfg.WebhookSecret)
	cfg.SupabaseSecret = envOrDefault("SUPABASE_JWT_SECRET", cfg.SupabaseSecret)
	cfg.SupabaseIssuer = envOrDefault("SUPABASE_JWT_ISSUER", cfg.SupabaseIssuer)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.CountRedeliveries = envBool("COUNT_REDELIVERIES", cfg.CountRedeliveries)
	cfg.SyncInterval = time.Duration(envInt("SYNC_INTERVAL_MINUTES", int(cfg.SyncInterval.Minutes()))) * time.Minute
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOrDefault("LOG_FORMAT", cfg.LogFormat)

	for _, kind := range domain.AllNetworks() {
		prefix := strings.ToUpper(string(kind))
		if secret := os.Getenv(prefix + "_WEBHOOK_SECRET"); secret != "" {
			cfg.NetworkSecrets[kind] = secret
		}
		api := cfg.NetworkAPIs[kind]
		api.URL = envOrDefault(prefix+"_API_URL", api.URL)
		api.APIToken = envOrDefault(prefix+"_API_TOKEN", api.APIToken)
		if api.URL != "" || api.APIToken != "" {
			cfg.NetworkAPIs[kind] = api
		}
	}
	if raw := envCSV("SYNC_NETWORKS", nil); len(raw) > 0 {
		if kinds, err := parseNetworks(raw); err == nil {
			cfg.SyncNetworks = kinds
		}
	}
}

// SlogLevel maps the configured level name onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseNetworks(raw []string) ([]domain.NetworkKind, error) {
	out := make([]domain.NetworkKind, 0, len(raw))
	for _, name := range raw {
		kind, err := domain.ParseNetworkKind(name)
		if err != nil {
			return nil, err
		}
		out = append(out, kind)
	}
	return out, nil
}

func parseDurationInto(dst *time.Duration, field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config %s: %w", field, err)
	}
	*dst = d
	return nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
