package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-users/pkg/config"
	"github.com/adfharrison1/go-users/pkg/domain"
)

func TestRootCommand_InvalidStore(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--store", "redis"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}

func TestRootCommand_MongoWithoutURI(t *testing.T) {
	t.Setenv(config.MongoURIEnv, "")
	t.Setenv(config.EnvPrefix+"_MONGO_URI", "")
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--store", "mongo"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.MongoURIEnv)
}

func TestOpenCollection_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Store = config.StoreMemory
	cfg.DataDir = t.TempDir()
	cfg.CheckpointInterval = 0

	ctx := context.Background()
	coll, closeStore, err := openCollection(ctx, &cfg, zap.NewNop())
	require.NoError(t, err)

	res, err := coll.InsertOne(ctx, domain.UserEntity{ID: "u1", Name: "Ann", Age: 30})
	require.NoError(t, err)
	assert.Equal(t, []any{"u1"}, res.InsertedIDs)

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, closeStore(closeCtx))
}
