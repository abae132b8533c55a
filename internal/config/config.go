package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Session  SessionConfig
	Database DatabaseConfig
	Roster   RosterConfig
	DevAPI   DevAPIConfig
}

// AppConfig holds console server configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// APIConfig points the console at the employee REST backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret string
	// TTL of a console session; zero keeps it until logout.
	TTL           time.Duration
	Store         string
	SecureCookie  bool
	SweepInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type RosterConfig struct {
	PageSize        int
	NavigationDelay time.Duration
	RequireSalary   bool
}

// DevAPIConfig configures the in-memory development backend.
type DevAPIConfig struct {
	Port           int
	JWTSecret      string
	TokenTTL       time.Duration
	AdminUser      string
	AdminEmail     string
	AdminPassword  string
	SeedCount      int
	AllowedOrigins []string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	config := &Config{}
	var err error

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 3000)
	if err != nil {
		return nil, err
	}
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Backend API
	apiTimeout, err := getEnvDuration("API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	config.API = APIConfig{
		BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		Timeout: apiTimeout,
	}

	// Session configuration
	sessionTTL, err := getEnvDuration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	secureCookie, err := getEnvBool("SESSION_SECURE_COOKIE", false)
	if err != nil {
		return nil, err
	}
	config.Session = SessionConfig{
		Secret:        getEnv("SESSION_SECRET", ""),
		TTL:           sessionTTL,
		Store:         strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SecureCookie:  secureCookie,
		SweepInterval: sweepInterval,
	}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	dbMaxConns, err := getEnvInt("DB_MAX_CONNS", 5)
	if err != nil {
		return nil, err
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_console"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Record list
	pageSize, err := getEnvInt("ROSTER_PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}
	navDelay, err := getEnvDuration("ROSTER_NAVIGATION_DELAY", 300*time.Millisecond)
	if err != nil {
		return nil, err
	}
	requireSalary, err := getEnvBool("ROSTER_REQUIRE_SALARY", false)
	if err != nil {
		return nil, err
	}
	config.Roster = RosterConfig{
		PageSize:        pageSize,
		NavigationDelay: navDelay,
		RequireSalary:   requireSalary,
	}

	// Development backend
	devPort, err := getEnvInt("DEVAPI_PORT", 8080)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getEnvDuration("DEVAPI_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	seedCount, err := getEnvInt("DEVAPI_SEED_COUNT", 57)
	if err != nil {
		return nil, err
	}
	config.DevAPI = DevAPIConfig{
		Port:           devPort,
		JWTSecret:      getEnv("DEVAPI_JWT_SECRET", ""),
		TokenTTL:       tokenTTL,
		AdminUser:      getEnv("DEVAPI_ADMIN_USER", "admin"),
		AdminEmail:     getEnv("DEVAPI_ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:  getEnv("DEVAPI_ADMIN_PASSWORD", ""),
		SeedCount:      seedCount,
		AllowedOrigins: getEnvSlice("DEVAPI_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	return config, nil
}

// Validate checks the settings the console needs to start.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL")
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q", SessionStoreMemory, SessionStorePostgres)
	}
	if c.Roster.PageSize < 1 {
		return fmt.Errorf("ROSTER_PAGE_SIZE must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// ValidateDevAPI checks the settings of the development backend.
func (c *Config) ValidateDevAPI() error {
	if c.DevAPI.JWTSecret == "" {
		return fmt.Errorf("DEVAPI_JWT_SECRET is required")
	}
	if c.DevAPI.AdminPassword == "" {
		return fmt.Errorf("DEVAPI_ADMIN_PASSWORD is required")
	}
	if c.DevAPI.SeedCount < 0 {
		return fmt.Errorf("DEVAPI_SEED_COUNT must not be negative")
	}
	return nil
}

// LoadDevAPI is Load for cmd/devapi: console settings are not required.
func LoadDevAPI() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateDevAPI(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
