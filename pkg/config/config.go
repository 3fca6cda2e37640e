// Package config resolves service settings from flags, the environment and an
// optional config file.
//
// Precedence, highest first: explicitly set flags, environment variables,
// the config file, then the defaults declared on Config.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adfharrison1/go-users/pkg/storage/memory"
)

// EnvPrefix namespaces every environment override, e.g. GO_USERS_PORT
const EnvPrefix = "GO_USERS"

// MongoURIEnv is the variable the connection string is read from
const MongoURIEnv = "MONGO_DB_URI"

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is the full runtime configuration
type Config struct {
	Port               int           `mapstructure:"port" default:"8080"`
	Store              string        `mapstructure:"store" default:"mongo"`
	MongoURI           string        `mapstructure:"mongo-uri"`
	Database           string        `mapstructure:"database" default:"youtube_ktor_mongo"`
	Collection         string        `mapstructure:"collection" default:"users"`
	DataDir            string        `mapstructure:"data-dir" default:"./data"`
	CheckpointInterval time.Duration `mapstructure:"checkpoint-interval" default:"30s"`
	Durability         string        `mapstructure:"durability" default:"os"`
	SeedFile           string        `mapstructure:"seed-file"`
	LogLevel           string        `mapstructure:"log-level" default:"info"`
	LogFormat          string        `mapstructure:"log-format" default:"console"`
	ConnectTimeout     time.Duration `mapstructure:"connect-timeout" default:"30s"`
}

// Default returns a Config with every default applied
func Default() Config {
	var cfg Config
	// Only fails for non-pointer arguments.
	_ = defaults.Set(&cfg)
	return cfg
}

// RegisterFlags adds one flag per setting to fs, defaulting to Default()
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()

	fs.Int("port", def.Port, "HTTP listen port")
	fs.String("store", def.Store, "document store backend (mongo|memory)")
	fs.String("mongo-uri", def.MongoURI, "MongoDB connection string (also read from "+MongoURIEnv+")")
	fs.String("database", def.Database, "database name")
	fs.String("collection", def.Collection, "collection holding user records")
	fs.String("data-dir", def.DataDir, "data directory for the memory store")
	fs.Duration("checkpoint-interval", def.CheckpointInterval, "memory store checkpoint interval, 0 disables")
	fs.String("durability", def.Durability, "memory store write durability (none|os|full)")
	fs.String("seed-file", def.SeedFile, "JSON file of users inserted at startup")
	fs.String("log-level", def.LogLevel, "log level (debug|info|warn|error)")
	fs.String("log-format", def.LogFormat, "log format (console|json)")
	fs.Duration("connect-timeout", def.ConnectTimeout, "how long to keep retrying the first mongo connection")
}

// Load merges fs, the environment and configFile (if not empty) into a
// validated Config.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("mongo-uri", MongoURIEnv, EnvPrefix+"_MONGO_URI"); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", MongoURIEnv, err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, fmt.Errorf("%s must be set when store is %q", MongoURIEnv, StoreMongo))
		}
	case StoreMemory:
		if _, err := c.MemoryDurability(); err != nil {
			errs = append(errs, err)
		}
		if c.CheckpointInterval < 0 {
			errs = append(errs, fmt.Errorf("checkpoint-interval must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q: must be %q or %q", c.Store, StoreMongo, StoreMemory))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Database == "" {
		errs = append(errs, fmt.Errorf("database must not be empty"))
	}
	if c.Collection == "" {
		errs = append(errs, fmt.Errorf("collection must not be empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// MemoryDurability parses Durability for the memory store
func (c *Config) MemoryDurability() (memory.Durability, error) {
	return memory.ParseDurability(c.Durability)
}

// Addr is the listen address for Port
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
