package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the process configuration. It is loaded once at startup and
// passed by value to the components that need it.
type Config struct {
	AppPort     string        `yaml:"app_port"`
	DBDriver    string        `yaml:"db_driver"`
	DBConn      string        `yaml:"db_conn"`
	HS256Secret string        `yaml:"hs256_secret"`
	TokenHeader string        `yaml:"token_header"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	TokenIssuer string        `yaml:"token_issuer"`
	BcryptCost  int           `yaml:"bcrypt_cost"`
	LogLevel    string        `yaml:"log_level"`
	LogPretty   bool          `yaml:"log_pretty"`
	CORSOrigins []string      `yaml:"cors_origins"`
}

func Default() Config {
	return Config{
		AppPort:     "8080",
		DBDriver:    DriverSQLite,
		DBConn:      "spot.db",
		TokenHeader: "access-token",
		TokenTTL:    24 * time.Hour,
		TokenIssuer: "spot",
		BcryptCost:  12,
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists), a .env file (if it exists) and finally the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.fromEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) fromEnv() error {
	str := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str(&c.AppPort, "APP_PORT")
	str(&c.DBDriver, "DB_DRIVER")
	str(&c.DBConn, "DB_CONN")
	str(&c.HS256Secret, "HS256_SECRET")
	str(&c.TokenHeader, "TOKEN_HEADER")
	str(&c.TokenIssuer, "TOKEN_ISSUER")
	str(&c.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		c.TokenTTL = d
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = n
	}
	if v, ok := os.LookupEnv("LOG_PRETTY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_PRETTY: %w", err)
		}
		c.LogPretty = b
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.CORSOrigins = strings.Split(v, ",")
	}
	return nil
}

func (c Config) Validate() error {
	if c.HS256Secret == "" {
		return errors.New("HS256_SECRET is required")
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBConn == "" {
		return errors.New("DB_CONN is required")
	}
	if c.TokenHeader == "" {
		return errors.New("TOKEN_HEADER must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
