// Package config provides application configuration loaded from environment
// variables with defaults and validation. It covers the chat credentials and
// channel bindings, the event-log substrate, the status API server, logging
// and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Event-log substrates accepted by LOG_BACKEND.
const (
	BackendChannel = "channel"
	BackendSQLite  = "sqlite"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DiscordConfig binds the bot to its guild channels.
type DiscordConfig struct {
	Token            string // DISCORD_TOKEN
	BoosterChannelID string // BOOSTER_CHANNEL_ID, where jobs are posted and claimed
	LogChannelID     string // LOG_CHANNEL_ID, the event-log channel
	TicketCategoryID string // TICKET_CATEGORY_ID, parent of customer tickets
}

// EventLogConfig selects and bounds the event-log substrate.
type EventLogConfig struct {
	Backend         string // channel|sqlite
	DBPath          string // sqlite file
	RecoveryWindow  int    // entries replayed at startup
	HistoryPageSize int    // channel history page, 1..100
}

// Config holds all configuration values for the application.
type Config struct {
	Discord  DiscordConfig
	EventLog EventLogConfig

	// Status API server
	StatusEnabled     bool
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test
	SwaggerEnabled    bool
	APIBasePath       string
	ShutdownTimeout   time.Duration

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool

	// Rate limiting
	RateRPS   float64
	RateBurst int

	CORS     CORSConfig
	Security SecurityConfig
	OTEL     OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a .env file if one exists in the working directory or any
// parent, then reads the environment, applies defaults and validates.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	loadDotEnv()

	cfg := Config{
		Discord: DiscordConfig{
			Token:            strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
			BoosterChannelID: strings.TrimSpace(os.Getenv("BOOSTER_CHANNEL_ID")),
			LogChannelID:     strings.TrimSpace(os.Getenv("LOG_CHANNEL_ID")),
			TicketCategoryID: strings.TrimSpace(os.Getenv("TICKET_CATEGORY_ID")),
		},
		EventLog: EventLogConfig{
			Backend:         strings.ToLower(getenv("LOG_BACKEND", BackendChannel)),
			DBPath:          getenv("DB_PATH", "eventlog.db"),
			RecoveryWindow:  getint("RECOVERY_WINDOW", 500),
			HistoryPageSize: getint("HISTORY_PAGE_SIZE", 100),
		},

		StatusEnabled:     getbool("STATUS_ENABLED", true),
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
		SwaggerEnabled:    getbool("SWAGGER_ENABLED", false),
		APIBasePath:       normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-booster-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting. The Discord credential and
// channel bindings are required.
func (c Config) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"DISCORD_TOKEN":      c.Discord.Token,
		"BOOSTER_CHANNEL_ID": c.Discord.BoosterChannelID,
		"LOG_CHANNEL_ID":     c.Discord.LogChannelID,
		"TICKET_CATEGORY_ID": c.Discord.TicketCategoryID,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	switch c.EventLog.Backend {
	case BackendChannel:
	case BackendSQLite:
		if strings.TrimSpace(c.EventLog.DBPath) == "" {
			return errors.New("DB_PATH must not be empty when LOG_BACKEND=sqlite")
		}
	default:
		return errors.New("LOG_BACKEND must be one of: channel, sqlite")
	}
	if c.EventLog.RecoveryWindow <= 0 {
		return errors.New("RECOVERY_WINDOW must be > 0")
	}
	if c.EventLog.HistoryPageSize < 1 || c.EventLog.HistoryPageSize > 100 {
		return errors.New("HISTORY_PAGE_SIZE must be between 1 and 100")
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if c.ReadTimeout <= 0 || c.ReadHeaderTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}
	if c.MaxHeaderBytes <= 0 {
		return errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if c.RateRPS < 0 {
		return errors.New("RATE_RPS must be >= 0")
	}
	if c.RateBurst < 1 {
		return errors.New("RATE_BURST must be >= 1")
	}
	if c.Security.HSTSMaxAge < 0 {
		return errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if c.OTEL.SampleRatio < 0 || c.OTEL.SampleRatio > 1 {
		return errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	return nil
}

// loadDotEnv loads the nearest .env walking up from the working directory.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
