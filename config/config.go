package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"conferencescheduler/internal/domain"
)

const devJWTSecret = "dev-only-secret"

// Config holds all configuration for the application.
type Config struct {
	Environment string
	Port        string

	// DBUrl enables snapshot persistence; empty keeps everything in memory only.
	DBUrl             string
	PersistOnShutdown bool

	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int

	CORSAllowedOrigins []string
	Location           *time.Location
	RequestTimeout     time.Duration

	// EventAttendeeLimit caps attendees per event on top of capacity; 0 disables it.
	EventAttendeeLimit   int
	DefaultRoomCapacity  int
	DefaultRoomHours     domain.AvailableHours
	DefaultEventCapacity int

	AdminUsername string
	AdminPassword string

	EmailProvider         string
	EmailFromAddress      string
	EmailFromName         string
	AWSRegion             string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	AWSInsecureSkipVerify bool

	SessionizeBaseURL string
}

// Load reads configuration from the environment. Outside production a .env file is
// loaded first. Malformed numbers, durations, booleans or hour ranges are errors.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// .env is optional; production relies on real environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	p := &parser{}
	cfg := &Config{
		Environment:       env,
		Port:              getString("PORT", "8080"),
		DBUrl:             os.Getenv("DATABASE_URL"),
		PersistOnShutdown: p.boolean("PERSIST_ON_SHUTDOWN", true),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTExpiry:  p.duration("JWT_EXPIRY", 24*time.Hour),
		BcryptCost: p.integer("BCRYPT_COST", 12),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RequestTimeout:     p.duration("REQUEST_TIMEOUT", 15*time.Second),

		EventAttendeeLimit:   p.integer("EVENT_ATTENDEE_LIMIT", 0),
		DefaultRoomCapacity:  p.integer("DEFAULT_ROOM_CAPACITY", 100),
		DefaultEventCapacity: p.integer("DEFAULT_EVENT_CAPACITY", 50),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		EmailProvider:         getString("EMAIL_PROVIDER", "noop"),
		EmailFromAddress:      os.Getenv("EMAIL_FROM_ADDRESS"),
		EmailFromName:         os.Getenv("EMAIL_FROM_NAME"),
		AWSRegion:             getString("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:        os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSInsecureSkipVerify: p.boolean("AWS_SES_INSECURE_SKIP_VERIFY", false),

		SessionizeBaseURL: os.Getenv("SESSIONIZE_BASE_URL"),
	}
	cfg.Location = p.location("TIMEZONE")
	cfg.DefaultRoomHours = p.hours("DEFAULT_ROOM_HOURS", "9-17")

	if cfg.JWTSecret == "" {
		if env == "production" {
			p.fail("JWT_SECRET", "required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	for _, k := range []struct {
		name  string
		value int
	}{
		{"EVENT_ATTENDEE_LIMIT", cfg.EventAttendeeLimit},
		{"DEFAULT_ROOM_CAPACITY", cfg.DefaultRoomCapacity},
		{"DEFAULT_EVENT_CAPACITY", cfg.DefaultEventCapacity},
	} {
		if k.value < 0 {
			p.fail(k.name, "must not be negative")
		}
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parser collects every malformed variable so one failed start reports them all.
type parser struct {
	errs []error
}

func (p *parser) fail(name, reason string) {
	p.errs = append(p.errs, fmt.Errorf("%s: %s", name, reason))
}

func (p *parser) integer(name string, def int) int {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		p.fail(name, fmt.Sprintf("%q is not an integer", s))
		return def
	}
	return v
}

func (p *parser) boolean(name string, def bool) bool {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(name, fmt.Sprintf("%q is not a boolean", s))
		return def
	}
	return v
}

func (p *parser) duration(name string, def time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		p.fail(name, fmt.Sprintf("%q is not a positive duration", s))
		return def
	}
	return v
}

func (p *parser) location(name string) *time.Location {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		p.fail(name, fmt.Sprintf("unknown time zone %q", s))
		return time.UTC
	}
	return loc
}

// hours parses "9-17" or "9-12,13-17".
func (p *parser) hours(name, def string) domain.AvailableHours {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		s = def
	}
	hours, err := ParseHours(s)
	if err != nil {
		p.fail(name, err.Error())
		hours, _ = ParseHours(def)
	}
	return hours
}

// ParseHours reads comma-separated "start-end" hour ranges.
func ParseHours(s string) (domain.AvailableHours, error) {
	var ranges []domain.HourRange
	for _, part := range splitList(s) {
		from, to, ok := strings.Cut(part, "-")
		start, err1 := strconv.Atoi(strings.TrimSpace(from))
		end, err2 := strconv.Atoi(strings.TrimSpace(to))
		if !ok || err1 != nil || err2 != nil {
			return nil, fmt.Errorf("hour range %q must look like 9-17", part)
		}
		ranges = append(ranges, domain.HourRange{Start: start, End: end})
	}
	return domain.NewAvailableHours(ranges...)
}

func getString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
