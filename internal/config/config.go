package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const redacted = "***REDACTED***"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 10s
	RequestTimeout  time.Duration // per-request budget, covers the model call
	MaxBodyBytes    int64         // request body cap

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Model
	OpenAIAPIKey  string
	OpenAIModel   string  // ex: "gpt-4"
	OpenAIBaseURL string  // ex: "https://api.openai.com/v1"
	Temperature   float64 // 0.9
	MaxTokens     int     // 2000
	ModelTimeout  time.Duration

	// UpstreamURL delegates generation to another deployment of the
	// stateless endpoint instead of calling the model directly.
	UpstreamURL string

	// Lead capture (each target is disabled when unset)
	MailchimpAPIKey  string
	MailchimpListID  string
	MailchimpTag     string
	MailchimpBaseURL string // override for tests/proxies, derived from the key otherwise
	WebhookURL       string
	LeadTimeout      time.Duration

	// Website extraction
	WebsiteEnabled     bool
	WebsiteMetadataURL string
	WebsiteReaderURL   string
	WebsiteTimeout     time.Duration

	// Content mix
	MixFile           string        // optional YAML file, empty => built-in mix
	MixReloadInterval time.Duration // 0 => manual reload only

	// Sessions
	SessionTTL    time.Duration
	SweepInterval time.Duration
	StaleAfter    time.Duration // abandoned in-flight generations expire after this

	// Redis (optional, empty address => in-memory sessions)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts

	// Rate limiting of generation routes (0 burst => disabled)
	RateBurst        int
	RateRefillPerMin int

	AllowedHosts []string // optional, restrict ops endpoints to specific Host headers
	AllowedCIDRs []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For style headers
}

// Load reads an optional .env file (IDEAS_ENV_FILE, default ".env") then
// the environment. Missing required values panic.
func Load() *Config {
	loadDotEnv(getenv("IDEAS_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("IDEAS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("IDEAS_SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:  mustDuration("IDEAS_REQUEST_TIMEOUT", 90*time.Second),
		MaxBodyBytes:    int64(getenvInt("IDEAS_MAX_BODY_BYTES", 1<<20)),

		// Logging
		LogLevel:  getenv("IDEAS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("IDEAS_PRETTY_LOG", false),

		// Model
		UpstreamURL:   strings.TrimRight(getenv("IDEAS_UPSTREAM_URL", ""), "/"),
		OpenAIModel:   getenv("IDEAS_OPENAI_MODEL", "gpt-4"),
		OpenAIBaseURL: getenv("IDEAS_OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Temperature:   getenvFloat("IDEAS_OPENAI_TEMPERATURE", 0.9),
		MaxTokens:     getenvInt("IDEAS_OPENAI_MAX_TOKENS", 2000),
		ModelTimeout:  mustDuration("IDEAS_OPENAI_TIMEOUT", 60*time.Second),

		// Leads
		MailchimpAPIKey:  getenv("IDEAS_MAILCHIMP_API_KEY", ""),
		MailchimpListID:  getenv("IDEAS_MAILCHIMP_LIST_ID", ""),
		MailchimpTag:     getenv("IDEAS_MAILCHIMP_TAG", "Content Ideas Generator"),
		MailchimpBaseURL: getenv("IDEAS_MAILCHIMP_BASE_URL", ""),
		WebhookURL:       getenv("IDEAS_LEAD_WEBHOOK_URL", ""),
		LeadTimeout:      mustDuration("IDEAS_LEAD_TIMEOUT", 10*time.Second),

		// Website
		WebsiteEnabled:     mustBool("IDEAS_WEBSITE_EXTRACTION", true),
		WebsiteMetadataURL: getenv("IDEAS_WEBSITE_METADATA_URL", "https://api.microlink.io/data"),
		WebsiteReaderURL:   getenv("IDEAS_WEBSITE_READER_URL", "https://r.jina.ai/"),
		WebsiteTimeout:     mustDuration("IDEAS_WEBSITE_TIMEOUT", 10*time.Second),

		// Content mix
		MixFile:           getenv("IDEAS_MIX_FILE", ""),
		MixReloadInterval: mustDuration("IDEAS_MIX_RELOAD_INTERVAL", time.Hour),

		// Sessions
		SessionTTL:    mustDuration("IDEAS_SESSION_TTL", 24*time.Hour),
		SweepInterval: mustDuration("IDEAS_SWEEP_INTERVAL", 10*time.Minute),
		StaleAfter:    mustDuration("IDEAS_STALE_GENERATION_AFTER", 3*time.Minute),

		// Redis settings
		RedisAddr:           getenv("IDEAS_REDIS_ADDR", ""),
		RedisUser:           getenv("IDEAS_REDIS_USERNAME", ""),
		RedisPassword:       getenv("IDEAS_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("IDEAS_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Rate limiting
		RateBurst:        getenvInt("IDEAS_RATE_BURST", 5),
		RateRefillPerMin: getenvInt("IDEAS_RATE_REFILL_PER_MIN", 10),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("IDEAS_ALLOWED_HOSTS", "")),
		AllowedCIDRs: splitAndTrim(getenv("IDEAS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("IDEAS_TRUST_PROXY", false),
	}

	// the key is only needed when this process talks to the model itself
	if cfg.UpstreamURL == "" {
		cfg.OpenAIAPIKey = requireEnv("IDEAS_OPENAI_API_KEY")
	} else {
		cfg.OpenAIAPIKey = getenv("IDEAS_OPENAI_API_KEY", "")
	}

	if cfg.RequestTimeout <= cfg.ModelTimeout {
		panic(fmt.Sprintf("❌ FATAL: IDEAS_REQUEST_TIMEOUT (%s) must exceed IDEAS_OPENAI_TIMEOUT (%s)",
			cfg.RequestTimeout, cfg.ModelTimeout))
	}
	if (cfg.MailchimpAPIKey == "") != (cfg.MailchimpListID == "") {
		panic("❌ FATAL: IDEAS_MAILCHIMP_API_KEY and IDEAS_MAILCHIMP_LIST_ID must be set together")
	}

	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	for _, s := range []*string{&c.OpenAIAPIKey, &c.MailchimpAPIKey, &c.RedisPassword, &c.RedisUser} {
		if *s != "" {
			*s = redacted
		}
	}
	if c.WebhookURL != "" {
		// webhook URLs usually embed a deployment secret
		c.WebhookURL = redacted
	}
	return c
}

func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot parse env file %s: %v", path, err))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
