package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	RecordBackendPostgres = "postgres"
	RecordBackendBuntdb   = "buntdb"
)

type Config struct {
	Debug    bool           `mapstructure:"debug"`
	Http     HttpConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Record   RecordConfig   `mapstructure:"record"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Buntdb   BuntdbConfig   `mapstructure:"buntdb"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Avatar   AvatarConfig   `mapstructure:"avatar"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Smtp     SmtpConfig     `mapstructure:"smtp"`
	Mail     MailConfig     `mapstructure:"mail"`
}

type HttpConfig struct {
	Addr         string `mapstructure:"addr"`
	AllowOrigins string `mapstructure:"allow_origins"`
}

type LogConfig struct {
	Syslog bool `mapstructure:"syslog"`
}

type RecordConfig struct {
	// Backend is either "postgres" or "buntdb".
	Backend string `mapstructure:"backend"`
}

type PostgresConfig struct {
	Dsn string `mapstructure:"dsn"`
}

type BuntdbConfig struct {
	Path string `mapstructure:"path"`
}

type StorageConfig struct {
	Root string `mapstructure:"root"`
}

type RemoteConfig struct {
	BaseUrl string        `mapstructure:"base_url"`
	ApiKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AvatarConfig struct {
	ScopedLookup bool `mapstructure:"scoped_lookup"`
}

// RabbitMQConfig without Url disables the broker, messages are kept in memory.
type RabbitMQConfig struct {
	Url   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

// SmtpConfig without Host disables mail delivery.
type SmtpConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Tls      bool   `mapstructure:"tls"`
}

type MailConfig struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// Every key needs a default, viper unmarshals env overrides only for keys it
// already knows.
var defaults = map[string]interface{}{
	"debug":                false,
	"http.addr":            ":2137",
	"http.allow_origins":   "*",
	"log.syslog":           false,
	"record.backend":       RecordBackendPostgres,
	"postgres.dsn":         "",
	"buntdb.path":          "avatars.db",
	"storage.root":         "./saved_avatars",
	"remote.base_url":      "https://reqres.in",
	"remote.api_key":       "reqres-free-v1",
	"remote.timeout":       10 * time.Second,
	"avatar.scoped_lookup": false,
	"rabbitmq.url":         "",
	"rabbitmq.queue":       "test-queue",
	"smtp.host":            "",
	"smtp.port":            587,
	"smtp.username":        "",
	"smtp.password":        "",
	"smtp.tls":             false,
	"mail.from":            "mock@mail.com",
	"mail.to":              "mock2@mail.com",
}

// Load reads config.yaml from configPath, "." or "./config" when present and
// applies environment overrides (http.addr is read from HTTP_ADDR).
func Load(configPath string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Record.Backend {
	case RecordBackendPostgres:
		if c.Postgres.Dsn == "" {
			return errors.New("postgres.dsn (POSTGRES_DSN) is not set")
		}
	case RecordBackendBuntdb:
		if c.Buntdb.Path == "" {
			return errors.New("buntdb.path (BUNTDB_PATH) is not set")
		}
	default:
		return fmt.Errorf("unknown record backend '%s'", c.Record.Backend)
	}
	if c.Storage.Root == "" {
		return errors.New("storage.root (STORAGE_ROOT) is not set")
	}
	return nil
}
