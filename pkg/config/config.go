package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	PasswordReset PasswordResetConfig
	SMTP          SMTPConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LODGELINK_APP_ENV" required:"true"`
	Port         string `envconfig:"LODGELINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LODGELINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LODGELINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LODGELINK_DB_DSN"`
	Driver string `envconfig:"LODGELINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LODGELINK_DB_HOST"`
	LegacyPort     int    `envconfig:"LODGELINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LODGELINK_DB_USER"`
	LegacyPassword string `envconfig:"LODGELINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"LODGELINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"LODGELINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LODGELINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LODGELINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LODGELINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LODGELINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LODGELINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LODGELINK_REDIS_ADDR"`
	Password     string        `envconfig:"LODGELINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LODGELINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LODGELINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LODGELINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LODGELINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LODGELINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LODGELINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig carries the session-issuer settings. The secret has no default:
// the legacy application fell back to a hard-coded signing secret when the
// environment variable was absent, and that fallback must not come back.
type JWTConfig struct {
	Secret                 string `envconfig:"LODGELINK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LODGELINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LODGELINK_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshTokenTTLMinutes int    `envconfig:"LODGELINK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"LODGELINK_BCRYPT_COST" default:"12"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LODGELINK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LODGELINK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LODGELINK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LODGELINK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LODGELINK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LODGELINK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PasswordResetConfig struct {
	TokenTTL time.Duration `envconfig:"LODGELINK_PASSWORD_RESET_TOKEN_TTL" default:"1h"`
	BaseURL  string        `envconfig:"LODGELINK_PASSWORD_RESET_BASE_URL"`
}

type SMTPConfig struct {
	Host     string `envconfig:"LODGELINK_SMTP_HOST"`
	Port     int    `envconfig:"LODGELINK_SMTP_PORT" default:"587"`
	Username string `envconfig:"LODGELINK_SMTP_USERNAME"`
	Password string `envconfig:"LODGELINK_SMTP_PASSWORD"`
	From     string `envconfig:"LODGELINK_SMTP_FROM"`
}

// Enabled reports whether outbound mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != "" && strings.TrimSpace(s.From) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LODGELINK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
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
