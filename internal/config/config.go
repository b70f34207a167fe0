package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite / postgres
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	Algorithm     string `mapstructure:"algorithm"`
	Issuer        string `mapstructure:"issuer"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

type ForecastConfig struct {
	MaxDays int `mapstructure:"max_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration from the given YAML file (e.g. "config.yaml") once per process.
// A missing file is not an error; defaults and environment variables still apply.
// A .env file in the working directory is loaded first, without overriding the real environment.
func Load(path string) (*Config, error) {
	once.Do(func() {
		appConfig, loadErr = Read(path)
	})
	return appConfig, loadErr
}

// Read builds a fresh Config from defaults, the optional file at path, and the environment.
func Read(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// environment overrides, e.g. EXPLEDGER_SERVER_PORT=9000
	v.SetEnvPrefix("EXPLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// short names kept for existing deployments
	_ = v.BindEnv("jwt.secret", "EXPLEDGER_JWT_SECRET", "SECRET_KEY")
	_ = v.BindEnv("jwt.algorithm", "EXPLEDGER_JWT_ALGORITHM", "ALGORITHM")
	_ = v.BindEnv("jwt.expire_minutes", "EXPLEDGER_JWT_EXPIRE_MINUTES", "TOKEN_EXPIRE_TIME")
	_ = v.BindEnv("database.path", "EXPLEDGER_DATABASE_PATH", "DB_PATH")

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	} else if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/expense.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.issuer", "expense-ledger")
	v.SetDefault("jwt.expire_minutes", 30)

	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("forecast.max_days", 36500)

	v.SetDefault("cors.allowed_origins", []string{})
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			problems = append(problems, "database path cannot be empty when using sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			problems = append(problems, "database dsn cannot be empty when using postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid database driver '%s': must be sqlite or postgres", c.Database.Driver))
	}

	if c.JWT.Secret == "" {
		problems = append(problems, "jwt secret is required (SECRET_KEY)")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		problems = append(problems, fmt.Sprintf("unsupported jwt algorithm '%s': must be HS256, HS384 or HS512", c.JWT.Algorithm))
	}
	if c.JWT.ExpireMinutes <= 0 {
		problems = append(problems, fmt.Sprintf("invalid token expiry %d: must be a positive number of minutes", c.JWT.ExpireMinutes))
	}

	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.Security.BcryptCost))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.Log.Format))
	}

	if c.Forecast.MaxDays < 1 {
		problems = append(problems, fmt.Sprintf("invalid forecast horizon %d: must be at least 1 day", c.Forecast.MaxDays))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
