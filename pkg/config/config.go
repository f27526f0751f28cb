package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Metrics      MetricsConfig
	Maintenance  MaintenanceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverMemory:
		return nil
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
		return nil
	case StorageDriverSQL:
		return c.DB.EnsureDSN()
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
}

type AppConfig struct {
	Env          string `envconfig:"ROCKETSHOES_APP_ENV" required:"true"`
	Port         string `envconfig:"ROCKETSHOES_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROCKETSHOES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROCKETSHOES_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"ROCKETSHOES_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the storefront API serving /stock and /products.
type CatalogConfig struct {
	BaseURL string        `envconfig:"ROCKETSHOES_CATALOG_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"ROCKETSHOES_CATALOG_TIMEOUT" default:"10s"`
}

type StorageConfig struct {
	Driver string `envconfig:"ROCKETSHOES_STORAGE_DRIVER" default:"memory"`
	Key    string `envconfig:"ROCKETSHOES_CART_STORAGE_KEY" default:"@RocketShoes:cart"`
}

type DBConfig struct {
	DSN    string `envconfig:"ROCKETSHOES_DB_DSN"`
	Driver string `envconfig:"ROCKETSHOES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROCKETSHOES_DB_HOST"`
	LegacyPort     int    `envconfig:"ROCKETSHOES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROCKETSHOES_DB_USER"`
	LegacyPassword string `envconfig:"ROCKETSHOES_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROCKETSHOES_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROCKETSHOES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROCKETSHOES_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"ROCKETSHOES_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"ROCKETSHOES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROCKETSHOES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the SQL driver targets an sqlite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"ROCKETSHOES_REDIS_URL"`
	Address      string        `envconfig:"ROCKETSHOES_REDIS_ADDR"`
	Password     string        `envconfig:"ROCKETSHOES_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROCKETSHOES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROCKETSHOES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROCKETSHOES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROCKETSHOES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROCKETSHOES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROCKETSHOES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROCKETSHOES_AUTO_MIGRATE" default:"false"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"ROCKETSHOES_METRICS_ENABLED" default:"true"`
}

// MaintenanceConfig drives the in-process job loop.
type MaintenanceConfig struct {
	Interval        time.Duration `envconfig:"ROCKETSHOES_MAINTENANCE_INTERVAL" default:"1h"`
	NoticeRetention time.Duration `envconfig:"ROCKETSHOES_NOTICE_RETENTION" default:"24h"`
}

// EnsureDSN fills DSN from the discrete Postgres variables when it is unset.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
