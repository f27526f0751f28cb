package config

const EnvPrefix = "ROCKETSHOES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQL    = "sql"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "ROCKETSHOES_APP_ENV"
	EnvPort         = "ROCKETSHOES_APP_PORT"
	EnvLogLevel     = "ROCKETSHOES_LOG_LEVEL"
	EnvLogWarnStack = "ROCKETSHOES_LOG_WARN_STACK"
	EnvCORSOrigins  = "ROCKETSHOES_CORS_ORIGINS"

	EnvCatalogBaseURL = "ROCKETSHOES_CATALOG_BASE_URL"
	EnvCatalogTimeout = "ROCKETSHOES_CATALOG_TIMEOUT"

	EnvStorageDriver = "ROCKETSHOES_STORAGE_DRIVER"
	EnvCartKey       = "ROCKETSHOES_CART_STORAGE_KEY"

	EnvDBDSN    = "ROCKETSHOES_DB_DSN"
	EnvDBDriver = "ROCKETSHOES_DB_DRIVER"
	EnvDBHost   = "ROCKETSHOES_DB_HOST"
	EnvDBUser   = "ROCKETSHOES_DB_USER"
	EnvDBName   = "ROCKETSHOES_DB_NAME"

	EnvRedisURL  = "ROCKETSHOES_REDIS_URL"
	EnvRedisAddr = "ROCKETSHOES_REDIS_ADDR"

	EnvAutoMigrate    = "ROCKETSHOES_AUTO_MIGRATE"
	EnvMetricsEnabled = "ROCKETSHOES_METRICS_ENABLED"

	EnvMaintenanceInterval = "ROCKETSHOES_MAINTENANCE_INTERVAL"
	EnvNoticeRetention     = "ROCKETSHOES_NOTICE_RETENTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
