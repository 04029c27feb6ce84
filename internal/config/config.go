package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ReadSeconds    int    `mapstructure:"read_timeout_seconds"`
	WriteSeconds   int    `mapstructure:"write_timeout_seconds"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
}

type MongoConf struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type StorageConf struct {
	Driver   string `mapstructure:"driver"` // local | s3
	LocalDir string `mapstructure:"local_dir"`
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
}

type RateLimitConf struct {
	PerMinute int `mapstructure:"per_minute"`
}

type Config struct {
	App       AppConf       `mapstructure:"app"`
	Mongo     MongoConf     `mapstructure:"mongodb"`
	Storage   StorageConf   `mapstructure:"storage"`
	RateLimit RateLimitConf `mapstructure:"ratelimit"`

	// derived
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 5000
	}
	if cfg.App.ReadSeconds == 0 {
		cfg.App.ReadSeconds = 30
	}
	if cfg.App.WriteSeconds == 0 {
		cfg.App.WriteSeconds = 30
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = "users"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "uploads"
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 300
	}

	cfg.ReadTimeout = time.Duration(cfg.App.ReadSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.App.WriteSeconds) * time.Second
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	return &cfg, nil
}
