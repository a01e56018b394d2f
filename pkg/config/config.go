package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DELIVERYDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	EnvAppEnv          = "DELIVERYDESK_APP_ENV"
	EnvPort            = "DELIVERYDESK_APP_PORT"
	EnvLogLevel        = "DELIVERYDESK_LOG_LEVEL"
	EnvDBDriver        = "DELIVERYDESK_DB_DRIVER"
	EnvDBDSN           = "DELIVERYDESK_DB_DSN"
	EnvDBAutoMigrate   = "DELIVERYDESK_DB_AUTO_MIGRATE"
	EnvConflictRetries = "DELIVERYDESK_DB_CONFLICT_RETRIES"
	EnvSnowflakeNode   = "DELIVERYDESK_SNOWFLAKE_NODE"
	EnvStatsWeeks      = "DELIVERYDESK_STATS_WEEKS"
	EnvStatsMonths     = "DELIVERYDESK_STATS_MONTHS"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Password PasswordConfig
	IDs      IDConfig
	Stats    StatsConfig
	Redis    RedisConfig
	Cron     CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.normalize(); err != nil {
		return nil, err
	}
	if cfg.Cron.Interval <= 0 {
		return nil, fmt.Errorf("DELIVERYDESK_CRON_INTERVAL must be positive")
	}
	if cfg.IDs.SnowflakeNode < 0 || cfg.IDs.SnowflakeNode > 1023 {
		return nil, fmt.Errorf("%s must be between 0 and 1023", EnvSnowflakeNode)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DELIVERYDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"DELIVERYDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DELIVERYDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DELIVERYDESK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"DELIVERYDESK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver      string `envconfig:"DELIVERYDESK_DB_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"DELIVERYDESK_DB_DSN" default:"file:deliverydesk.db?_fk=1&_busy_timeout=5000"`
	AutoMigrate bool   `envconfig:"DELIVERYDESK_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"DELIVERYDESK_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DELIVERYDESK_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DELIVERYDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DELIVERYDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	ConflictRetries int           `envconfig:"DELIVERYDESK_DB_CONFLICT_RETRIES" default:"3"`
	ConflictBackoff time.Duration `envconfig:"DELIVERYDESK_DB_CONFLICT_BACKOFF" default:"25ms"`
}

// IsSQLite reports whether the configured driver is the embedded single-file store.
func (db DBConfig) IsSQLite() bool {
	return db.Driver == DriverSQLite
}

func (db *DBConfig) normalize() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DriverSQLite:
		// a single writer connection serialises every composite operation
		db.MaxOpenConns = 1
		db.MaxIdleConns = 1
	case DriverPostgres:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DriverSQLite, DriverPostgres, db.Driver)
	}
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	if db.ConflictRetries < 0 {
		db.ConflictRetries = 0
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DELIVERYDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DELIVERYDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DELIVERYDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DELIVERYDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DELIVERYDESK_ARGON_KEY_LEN" default:"32"`
}

type IDConfig struct {
	SnowflakeNode int64 `envconfig:"DELIVERYDESK_SNOWFLAKE_NODE" default:"1"`
}

type StatsConfig struct {
	Weeks  int `envconfig:"DELIVERYDESK_STATS_WEEKS" default:"8"`
	Months int `envconfig:"DELIVERYDESK_STATS_MONTHS" default:"6"`
}

// RedisConfig is optional. When neither URL nor Address is set the cron
// worker falls back to an in-process lock.
type RedisConfig struct {
	URL          string        `envconfig:"DELIVERYDESK_REDIS_URL"`
	Address      string        `envconfig:"DELIVERYDESK_REDIS_ADDRESS"`
	Password     string        `envconfig:"DELIVERYDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"DELIVERYDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DELIVERYDESK_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DELIVERYDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELIVERYDESK_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"DELIVERYDESK_REDIS_WRITE_TIMEOUT" default:"3s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"DELIVERYDESK_CRON_INTERVAL" default:"1h"`
	LockTTL    time.Duration `envconfig:"DELIVERYDESK_CRON_LOCK_TTL" default:"5m"`
	JobTimeout time.Duration `envconfig:"DELIVERYDESK_CRON_JOB_TIMEOUT" default:"2m"`
}
