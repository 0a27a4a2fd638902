package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. MEDIBOOK_JWT_SECRET.
const EnvPrefix = "medibook"

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Auth      AuthConfig      `mapstructure:"auth"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit" split_words:"true"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

func (a AppConfig) IsDevelopment() bool {
	return a.Env == "" || a.Env == "development"
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ClientOrigin    string        `mapstructure:"clientOrigin" split_words:"true"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" split_words:"true"`
}

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout" split_words:"true"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns" split_words:"true"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns" split_words:"true"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime" split_words:"true"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AuthConfig struct {
	AllowAdminRegistration bool `mapstructure:"allowAdminRegistration" split_words:"true"`
	BcryptCost             int  `mapstructure:"bcryptCost" split_words:"true"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"fromName" split_words:"true"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"poolSize" split_words:"true"`
	MinIdleConns int           `mapstructure:"minIdleConns" split_words:"true"`
	MaxRetries   int           `mapstructure:"maxRetries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retryBackoff" split_words:"true"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type CacheConfig struct {
	DoctorListTTL time.Duration `mapstructure:"doctorListTTL" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "medibook-api")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.clientOrigin", "http://localhost:5173")
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 0)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongo.database", "medibook")
	v.SetDefault("database.mongo.connectTimeout", 10*time.Second)
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.name", "medibook")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.maxOpenConns", 25)
	v.SetDefault("database.postgres.maxIdleConns", 5)
	v.SetDefault("database.postgres.connMaxLifetime", 5*time.Minute)

	v.SetDefault("jwt.expiry", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "medibook")

	v.SetDefault("auth.allowAdminRegistration", false)
	v.SetDefault("auth.bcryptCost", 12)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "noreply@medibook.com")
	v.SetDefault("smtp.fromName", "MediBook")

	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.minIdleConns", 2)
	v.SetDefault("redis.maxRetries", 3)
	v.SetDefault("redis.retryBackoff", 100*time.Millisecond)

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requests", 100)
	v.SetDefault("rateLimit.window", 15*time.Minute)

	v.SetDefault("cache.doctorListTTL", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig reads config.yml (or the given file), then applies MEDIBOOK_* overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/medibook")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown database driver %q", c.Database.Driver))
	}

	if c.JWT.Secret == "" && !c.App.IsDevelopment() {
		problems = append(problems, "jwt secret is required outside development")
	}
	if c.Server.Port <= 0 {
		problems = append(problems, "server port must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		problems = append(problems, "rate limit requires positive requests and window")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
