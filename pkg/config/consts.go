package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "AMZTWO"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv     = "AMZTWO_APP_ENV"
	EnvPort       = "AMZTWO_APP_PORT"
	EnvDBDSN      = "AMZTWO_DB_DSN"
	EnvDBHost     = "AMZTWO_DB_HOST"
	EnvDBUser     = "AMZTWO_DB_USER"
	EnvDBName     = "AMZTWO_DB_NAME"
	EnvRedisURL   = "AMZTWO_REDIS_URL"
	EnvJWTSecret  = "AMZTWO_JWT_SECRET"
	EnvJWTIssuer  = "AMZTWO_JWT_ISSUER"
	EnvJWTExpMins = "AMZTWO_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
