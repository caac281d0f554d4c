package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/khanghh/unionhub/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr   = ":5000"
	DefaultUploadDir    = "./uploads"
	DefaultDBPort       = 3306
	DefaultDBPoolLimit  = 10
	DefaultClientURL    = "http://localhost:3000"
	DefaultMailFromName = "Union Membership Office"
)

type MySQLConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	PoolLimit       int           `yaml:"poolLimit"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	QueryTimeout    time.Duration `yaml:"queryTimeout"`
}

type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"tokenTTL"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type Config struct {
	Debug            bool        `yaml:"debug"`
	AppName          string      `yaml:"appName"`
	ListenAddr       string      `yaml:"listenAddr"`
	ClientURL        string      `yaml:"clientURL"`
	AllowOrigins     []string    `yaml:"allowOrigins"`
	UploadDir        string      `yaml:"uploadDir"`
	RedisURL         string      `yaml:"redisURL"`
	BcryptRounds     int         `yaml:"bcryptRounds"`
	TurnstileSecret  string      `yaml:"turnstileSecret"`
	MembershipPrefix string      `yaml:"membershipPrefix"`
	MySQL            MySQLConfig `yaml:"mysql"`
	JWT              JWTConfig   `yaml:"jwt"`
	SMTP             SMTPConfig  `yaml:"smtp"`
}

var envBindings = map[string]string{
	"mysql.host":      "DB_HOST",
	"mysql.port":      "DB_PORT",
	"mysql.user":      "DB_USER",
	"mysql.password":  "DB_PASSWORD",
	"mysql.database":  "DB_NAME",
	"mysql.poolLimit": "DB_POOL_LIMIT",
	"jwt.secret":      "JWT_SECRET",
	"clientURL":       "CLIENT_URL",
	"bcryptRounds":    "BCRYPT_ROUNDS",
	"redisURL":        "REDIS_URL",
	"uploadDir":       "UPLOAD_DIR",
	"turnstileSecret": "TURNSTILE_SECRET",
	"smtp.host":       "SMTP_HOST",
	"smtp.port":       "SMTP_PORT",
	"smtp.username":   "SMTP_USERNAME",
	"smtp.password":   "SMTP_PASSWORD",
	"smtp.from":       "SMTP_FROM",
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.AppName == "" {
		c.AppName = "UnionHub"
	}
	if c.ClientURL == "" {
		c.ClientURL = DefaultClientURL
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = strings.Split(c.ClientURL, ",")
	}
	if c.UploadDir == "" {
		c.UploadDir = DefaultUploadDir
	}
	if c.BcryptRounds == 0 {
		c.BcryptRounds = params.DefaultBcryptRounds
	}
	if c.MembershipPrefix == "" {
		c.MembershipPrefix = params.DefaultMembershipPrefix
	}
	if c.MySQL.Port == 0 {
		c.MySQL.Port = DefaultDBPort
	}
	if c.MySQL.PoolLimit <= 0 {
		c.MySQL.PoolLimit = DefaultDBPoolLimit
	}
	if c.MySQL.MaxIdleConns <= 0 || c.MySQL.MaxIdleConns > c.MySQL.PoolLimit {
		c.MySQL.MaxIdleConns = c.MySQL.PoolLimit
	}
	if c.JWT.TokenTTL == 0 {
		c.JWT.TokenTTL = params.DefaultTokenTTL
	}
	if c.SMTP.From == "" {
		c.SMTP.From = DefaultMailFromName
	}
	if c.BcryptRounds < 4 || c.BcryptRounds > 31 {
		return fmt.Errorf("bcryptRounds must be between 4 and 31, got %d", c.BcryptRounds)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	return nil
}

// LoadConfig reads the YAML config file, then applies the environment on top of it.
// A missing file is tolerated so deployments can be configured by environment only.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, err
		}
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		v.Set("listenAddr", ":"+port)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
