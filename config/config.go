package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/foodhub/middlewares"
	"github.com/yeremiapane/foodhub/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config groups every setting read from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cart     CartConfig
	Redis    RedisConfig
	CORS     CORSConfig

	GinMode     string  `env:"GIN_MODE,default=debug"`
	LogLevel    string  `env:"LOG_LEVEL,default=info"`
	DeliveryFee float64 `env:"DELIVERY_FEE,default=5"`
	Seed        bool    `env:"SEED,default=false"`
}

type ServerConfig struct {
	Port           string   `env:"PORT,default=8080"`
	TrustedProxies []string `env:"TRUSTED_PROXIES,default=127.0.0.1"`
	RateLimit      int      `env:"RATE_LIMIT,default=50"`
	RateInterval   int      `env:"RATE_INTERVAL_SECONDS,default=1"`
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER,default=sqlite"`
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST,default=127.0.0.1"`
	Port     string `env:"DB_PORT,default=3306"`
	User     string `env:"DB_USER,default=root"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,default=foodhub"`
	Path     string `env:"DB_PATH,default=foodhub.db"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL,default=24h"`
}

// CartConfig selects where cart snapshots are persisted: memory, file, redis or db.
type CartConfig struct {
	Store   string        `env:"CART_STORE,default=db"`
	FileDir string        `env:"CART_FILE_DIR,default=data/carts"`
	TTL     time.Duration `env:"CART_TTL,default=720h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,default=127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS,default=http://localhost:3000"`
}

const devJWTSecret = "foodhub-dev-secret"

// Load reads .env (if any) and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debugf("no .env file loaded: %v", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.JWT.Secret == "" {
		utils.InfoLogger.Warn("JWT_SECRET not set, using development secret")
		cfg.JWT.Secret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Cart.Store {
	case "memory", "file", "redis", "db":
	default:
		return fmt.Errorf("unsupported CART_STORE %q", c.Cart.Store)
	}
	if c.DeliveryFee < 0 {
		return errors.New("DELIVERY_FEE must not be negative")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateInterval <= 0 {
		return errors.New("RATE_LIMIT and RATE_INTERVAL_SECONDS must be positive")
	}
	if len(c.CORS.AllowOrigins) == 0 {
		return errors.New("CORS_ALLOW_ORIGINS must list at least one origin")
	}
	for _, o := range c.CORS.AllowOrigins {
		if !middlewares.ValidOrigin(strings.TrimSpace(o)) {
			return fmt.Errorf("invalid CORS origin %q", o)
		}
	}
	return nil
}

// MySQLDSN builds the DSN from discrete settings unless DB_DSN is given.
func (d DatabaseConfig) MySQLDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// InitDB opens the gorm connection for the configured driver.
func InitDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "mysql":
		dialector = mysql.Open(cfg.MySQLDSN())
	case "sqlite":
		path := cfg.Path
		if cfg.DSN != "" {
			path = cfg.DSN
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	return db, nil
}
