package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "LODGELINK_APP_ENV"
	EnvPort     = "LODGELINK_APP_PORT"
	EnvDBDSN    = "LODGELINK_DB_DSN"
	EnvDBHost   = "LODGELINK_DB_HOST"
	EnvDBUser   = "LODGELINK_DB_USER"
	EnvDBName   = "LODGELINK_DB_NAME"
	EnvRedisURL = "LODGELINK_REDIS_URL"

	EnvJWTSecret              = "LODGELINK_JWT_SECRET"
	EnvJWTIssuer              = "LODGELINK_JWT_ISSUER"
	EnvJWTExpMins             = "LODGELINK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "LODGELINK_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
