package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/retailpos/backoffice/pkg/enums"
)

// Config aggregates every environment-driven setting of the service.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Currency      CurrencyConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Currency.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RETAILPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"RETAILPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RETAILPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RETAILPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RETAILPOS_DB_DSN"`
	Driver string `envconfig:"RETAILPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RETAILPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"RETAILPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RETAILPOS_DB_USER"`
	LegacyPassword string `envconfig:"RETAILPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"RETAILPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"RETAILPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RETAILPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RETAILPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RETAILPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RETAILPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RETAILPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RETAILPOS_REDIS_ADDR"`
	Password     string        `envconfig:"RETAILPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"RETAILPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RETAILPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RETAILPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RETAILPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RETAILPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RETAILPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RETAILPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RETAILPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"RETAILPOS_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"RETAILPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RETAILPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RETAILPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RETAILPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RETAILPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RETAILPOS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"RETAILPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"RETAILPOS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"RETAILPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// CurrencyConfig pins the single display currency for the whole back office.
// The legacy app mixed locales between the order form and the list views;
// here every surface formats through this one setting.
type CurrencyConfig struct {
	Code string `envconfig:"RETAILPOS_CURRENCY" default:"USD"`
}

// Currency returns the typed currency code.
func (c CurrencyConfig) Currency() enums.Currency {
	return enums.Currency(strings.ToUpper(strings.TrimSpace(c.Code)))
}

func (c CurrencyConfig) validate() error {
	if !c.Currency().IsValid() {
		return fmt.Errorf("unsupported currency %q", c.Code)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RETAILPOS_AUTO_MIGRATE" default:"false"`
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
