package config

// EnvPrefix is empty: variables are read by their bare names (JWT_SECRET, PORT, ...).
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "APP_ENV"
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvJWTSecret = "JWT_SECRET"
	EnvJWTIssuer = "JWT_ISSUER"
	EnvJWTExpMin = "JWT_EXPIRATION_MINUTES"

	EnvDBDSN  = "DB_DSN"
	EnvDBHost = "DB_HOST"
	EnvDBUser = "DB_USER"
	EnvDBName = "DB_NAME"

	EnvRedisURL  = "REDIS_URL"
	EnvUseSQLite = "FEATURE_USE_SQLITE"

	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvYandexClientID     = "YANDEX_CLIENT_ID"
	EnvYandexClientSecret = "YANDEX_CLIENT_SECRET"
	EnvServerURL          = "SERVER_URL"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
	EnvUploadsRoot        = "UPLOADS_ROOT"
	EnvPubSubEnabled      = "PUBSUB_ENABLED"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
