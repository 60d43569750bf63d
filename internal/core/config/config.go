package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	CORSOrigins     []string
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 为空则只输出到 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	OfficeTTLSec int    `mapstructure:"officeTTLSec"`
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Billing 支付服务（Stripe）
type Billing struct {
	SecretKey string
	Currency  string
	Retries   uint64
}

type Storage struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

type Sentry struct {
	DSN         string
	Environment string
}

type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
	MaxBodyMB   int64
	TimeoutSec  int
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Billing Billing
	Storage Storage
	Sentry  Sentry
	Limits  Limits
}

func defaults(v *viper.Viper) {
	v.SetDefault("app.name", "office-rental")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 15)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "office-rental")
	v.SetDefault("jwt.accessTokenTTLMin", 60*24)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:office.db?_foreign_keys=on")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("redis.officeTTLSec", 60)
	v.SetDefault("billing.currency", "usd")
	v.SetDefault("billing.retries", 3)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxBodyMB", 16)
	v.SetDefault("limits.timeoutSec", 10)

	// 只有已知 key 才会被 APP_ 环境变量覆盖，密钥类给空默认值
	for _, k := range []string{
		"jwt.secret", "db.dsn", "redis.addr", "redis.password",
		"billing.secretKey", "storage.endpoint", "storage.accessKey", "storage.secretKey",
		"storage.bucket", "storage.publicBaseURL", "sentry.dsn", "sentry.environment",
	} {
		if !v.IsSet(k) {
			v.SetDefault(k, "")
		}
	}
}

// Load 读取 YAML 配置，APP_ 前缀的环境变量可覆盖（如 APP_JWT_SECRET）
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil || !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		// 文件不存在时只用默认值 + 环境变量
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		return fmt.Errorf("config: jwt.accessTokenTTLMin must be positive")
	}
	c.Billing.Currency = strings.ToLower(c.Billing.Currency)
	return nil
}
