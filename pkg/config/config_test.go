package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-users/pkg/storage/memory"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(MongoURIEnv, "")
	for _, key := range []string{"PORT", "STORE", "MONGO_URI", "DATABASE", "DATA_DIR", "DURABILITY"} {
		t.Setenv(EnvPrefix+"_"+key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, "youtube_ktor_mongo", cfg.Database)
	assert.Equal(t, "users", cfg.Collection)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.CheckpointInterval)
	assert.Equal(t, "os", cfg.Durability)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ConnectTimeout)
	assert.Empty(t, cfg.MongoURI)
	assert.Empty(t, cfg.SeedFile)
}

func TestLoad_MongoRequiresURI(t *testing.T) {
	clearEnv(t)

	_, err := Load(newFlags(t), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), MongoURIEnv)
}

func TestLoad_MongoURIFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(MongoURIEnv, "mongodb://localhost:27017")

	cfg, err := Load(newFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPrefix+"_PORT", "9000")
	t.Setenv(EnvPrefix+"_DATA_DIR", "/from/env")

	cfg, err := Load(newFlags(t, "--store", "memory", "--port", "9100", "--checkpoint-interval", "5s"), "")
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.CheckpointInterval)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "go-users.yaml")
	content := "store: memory\nport: 9200\ndurability: full\nseed-file: users.json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(newFlags(t), path)
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, "users.json", cfg.SeedFile)

	level, err := cfg.MemoryDurability()
	require.NoError(t, err)
	assert.Equal(t, memory.DurabilityFull, level)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(newFlags(t, "--store", "memory"), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid memory", mutate: func(c *Config) { c.Store = StoreMemory }},
		{name: "valid mongo", mutate: func(c *Config) { c.MongoURI = "mongodb://db" }},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "redis" }, wantErr: "unknown store"},
		{name: "bad durability", mutate: func(c *Config) { c.Store = StoreMemory; c.Durability = "maybe" }, wantErr: "durability"},
		{name: "bad port", mutate: func(c *Config) { c.Store = StoreMemory; c.Port = 0 }, wantErr: "port"},
		{name: "empty collection", mutate: func(c *Config) { c.Store = StoreMemory; c.Collection = "" }, wantErr: "collection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
