package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port      int
	LogLevel  string
	DB        DB
	Geocoder  Geocoder
	Resolver  Resolver
	Kafka     Kafka
	Auth      Auth
	RateLimit RateLimit
	Ops       Ops
	Timeouts  Timeouts
}

// DB stores Postgres connection settings.
type DB struct {
	Host    string
	Port    string
	User    string
	Pass    string
	Name    string
	SSLMode string
}

// DSN returns a pgx connection string.
func (d DB) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Pass, d.Host, d.Port, d.Name, sslMode)
}

// Geocoder stores geocoding provider settings.
type Geocoder struct {
	BaseURL     string
	APIKey      string
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Budget is the longest one lookup may take with every retry spent.
func (g Geocoder) Budget() time.Duration {
	total := time.Duration(g.MaxAttempts) * g.Timeout
	for attempt := 1; attempt < g.MaxAttempts; attempt++ {
		d := g.BaseDelay << (attempt - 1)
		if d > g.MaxDelay {
			d = g.MaxDelay
		}
		total += d
	}
	return total
}

// Resolver stores order lookup retry settings.
type Resolver struct {
	Attempts int
	Delay    time.Duration
}

// Budget is the longest an order lookup may take when each attempt is bounded
// by perAttempt.
func (r Resolver) Budget(perAttempt time.Duration) time.Duration {
	if r.Attempts < 1 {
		return 0
	}
	return time.Duration(r.Attempts)*perAttempt + time.Duration(r.Attempts-1)*r.Delay
}

// Kafka stores broker settings. An empty broker list disables Kafka.
type Kafka struct {
	Brokers       []string
	GroupID       string
	OrdersTopic   string
	DeliveryTopic string
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Auth stores actor identification settings. An empty secret means actors are
// taken from X-Actor-ID / X-Actor-Role headers.
type Auth struct {
	JWTSecret string
}

// RateLimit stores per-actor token bucket settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Ops stores the metrics/pprof listener settings.
type Ops struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Timeouts bounds service operations.
type Timeouts struct {
	Operation time.Duration
	Create    time.Duration
}

// CreateBudget is Timeouts.Create, raised when it cannot cover an order lookup
// plus geocoding both delivery endpoints with every retry spent.
func (c *Config) CreateBudget() time.Duration {
	need := c.Resolver.Budget(c.Timeouts.Operation) + 2*c.Geocoder.Budget() + 2*c.Timeouts.Operation
	if c.Timeouts.Create < need {
		return need
	}
	return c.Timeouts.Create
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs is Load with explicit command line arguments.
func LoadArgs(args []string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := defaults()
	var errs []string
	e := envReader{errs: &errs}

	cfg.Port = e.int("PORT", cfg.Port)
	cfg.LogLevel = e.str("LOG_LEVEL", cfg.LogLevel)

	cfg.DB.Host = e.str("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = e.str("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = e.str("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = e.str("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = e.str("POSTGRES_DB", cfg.DB.Name)
	cfg.DB.SSLMode = e.str("POSTGRES_SSLMODE", cfg.DB.SSLMode)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		errs = append(errs, fmt.Sprintf("POSTGRES_PORT: %q is not a number", cfg.DB.Port))
	}

	cfg.Geocoder.BaseURL = e.str("GEOCODER_BASE_URL", cfg.Geocoder.BaseURL)
	cfg.Geocoder.APIKey = e.str("GEOCODER_API_KEY", cfg.Geocoder.APIKey)
	cfg.Geocoder.UserAgent = e.str("GEOCODER_USER_AGENT", cfg.Geocoder.UserAgent)
	cfg.Geocoder.Timeout = e.duration("GEOCODER_TIMEOUT", cfg.Geocoder.Timeout)
	cfg.Geocoder.MaxAttempts = e.int("GEOCODER_MAX_ATTEMPTS", cfg.Geocoder.MaxAttempts)
	cfg.Geocoder.BaseDelay = e.duration("GEOCODER_BASE_DELAY", cfg.Geocoder.BaseDelay)
	cfg.Geocoder.MaxDelay = e.duration("GEOCODER_MAX_DELAY", cfg.Geocoder.MaxDelay)

	cfg.Resolver.Attempts = e.int("ORDER_LOOKUP_ATTEMPTS", cfg.Resolver.Attempts)
	cfg.Resolver.Delay = e.duration("ORDER_LOOKUP_DELAY", cfg.Resolver.Delay)

	cfg.Kafka.Brokers = e.list("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.GroupID = e.str("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.OrdersTopic = e.str("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)
	cfg.Kafka.DeliveryTopic = e.str("KAFKA_DELIVERY_TOPIC", cfg.Kafka.DeliveryTopic)

	cfg.Auth.JWTSecret = e.str("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.RateLimit.Enabled = e.bool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = e.float("RATE_LIMIT_RPS", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = e.int("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = e.duration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = e.int("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.Ops.Enabled = e.bool("OPS_ENABLED", cfg.Ops.Enabled)
	cfg.Ops.Addr = e.str("OPS_ADDR", cfg.Ops.Addr)
	cfg.Ops.User = e.str("OPS_USER", cfg.Ops.User)
	cfg.Ops.Pass = e.str("OPS_PASSWORD", cfg.Ops.Pass)

	cfg.Timeouts.Operation = e.duration("OPERATION_TIMEOUT", cfg.Timeouts.Operation)
	cfg.Timeouts.Create = e.duration("CREATE_TIMEOUT", cfg.Timeouts.Create)

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}

	fs := pflag.NewFlagSet("service-delivery", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.Ops.Addr, "ops-addr", cfg.Ops.Addr, "metrics and pprof listen address")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Geocoder.MaxAttempts < 1 {
		return fmt.Errorf("invalid geocoder max attempts: %d", c.Geocoder.MaxAttempts)
	}
	if c.Resolver.Attempts < 1 {
		return fmt.Errorf("invalid order lookup attempts: %d", c.Resolver.Attempts)
	}
	if c.Kafka.Enabled() && (c.Kafka.GroupID == "" || c.Kafka.OrdersTopic == "") {
		return fmt.Errorf("kafka brokers set but group id or orders topic is empty")
	}
	return nil
}

type envReader struct {
	errs *[]string
}

func (e envReader) fail(key, val, kind string) {
	*e.errs = append(*e.errs, fmt.Sprintf("%s: %q is not a valid %s", key, val, kind))
}

func (e envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e envReader) int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, "integer")
		return def
	}
	return n
}

func (e envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, "number")
		return def
	}
	return f
}

func (e envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, "boolean")
		return def
	}
	return b
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		e.fail(key, v, "duration")
		return def
	}
	return d
}

func (e envReader) list(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
