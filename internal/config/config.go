package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Report  ReportConfig  `mapstructure:"report"`
	Anomaly AnomalyConfig `mapstructure:"anomaly"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects where report summaries are kept. Driver "none"
// disables history entirely.
type StorageConfig struct {
	Driver       string       `mapstructure:"driver"`
	SQLite       SQLiteConfig `mapstructure:"sqlite"`
	HistoryLimit int          `mapstructure:"history_limit"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ReportConfig struct {
	MaxBodyBytes  int64  `mapstructure:"max_body_bytes"`
	SigningSecret string `mapstructure:"signing_secret"`
}

type AnomalyConfig struct {
	Contamination float64 `mapstructure:"contamination"`
	Trees         int     `mapstructure:"trees"`
	Seed          int64   `mapstructure:"seed"`
	MinLoads      int     `mapstructure:"min_loads"`
	MinHistory    int     `mapstructure:"min_history"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("entregas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/entregas")
	}

	setDefaults(v)

	v.SetEnvPrefix("ENTREGAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite.path", "./data/entregas.db")
	v.SetDefault("storage.history_limit", 50)

	v.SetDefault("report.max_body_bytes", 1<<20)
	v.SetDefault("report.signing_secret", "")

	v.SetDefault("anomaly.contamination", 0.1)
	v.SetDefault("anomaly.trees", 100)
	v.SetDefault("anomaly.seed", 42)
	v.SetDefault("anomaly.min_loads", 3)
	v.SetDefault("anomaly.min_history", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
