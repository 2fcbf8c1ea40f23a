package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config 从环境变量读取
type Config struct {
	Env   string `env:"APP_ENV" envDefault:"development"`
	Debug bool   `env:"APP_DEBUG" envDefault:"false"`
	Name  string `env:"APP_NAME" envDefault:"Task API"`
	Port  string `env:"PORT" envDefault:"3001"`

	// DATABASE_URL 优先；为空时用 DB_* 拼 DSN。以 sqlite: 开头走 sqlite
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"tasks"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPwd  string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	WebOrigin   string   `env:"WEB_ORIGIN" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// 0 = token 永不过期，直到 logout
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"0s"`
	InviteTTL    time.Duration `env:"INVITE_TTL" envDefault:"24h"`
	SeenThrottle time.Duration `env:"SEEN_THROTTLE" envDefault:"5m"`
	RateLimitRPM int           `env:"RATE_LIMIT_RPM" envDefault:"120"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SMTP SMTP `envPrefix:"SMTP_"`
}

type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// LoadEnv 读取 .env（不存在时忽略）
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.WebOrigin}
	}
	if cfg.InviteTTL <= 0 {
		cfg.InviteTTL = 24 * time.Hour
	}
	return cfg, nil
}

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// DSN 返回 gorm 连接串
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

func (c Config) IsProduction() bool { return c.Env == "production" }
