package indypool_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/didindy/resolver/internal/indylog"
	"github.com/didindy/resolver/internal/indypool"
	"github.com/didindy/resolver/internal/indytest"
)

func writeGenesis(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"txn":"genesis"}`), 0o644))
}

func TestBootstrap_SingleAndNestedNamespaces(t *testing.T) {
	root := t.TempDir()
	writeGenesis(t, root, "idunion", "pool_transactions_genesis.json")
	writeGenesis(t, root, "sovrin", "staging", "pool_transactions_genesis.json")
	// dotfile at top level must be skipped
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0o644))
	// non-directory entry at top level must be skipped
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray-file"), []byte("x"), 0o644))

	vdr := indytest.New()
	cfg := indypool.RegistryConfig{Root: root, GenesisFilename: "pool_transactions_genesis.json"}
	logger := indylog.New("test", indylog.LevelError)

	reg, err := indypool.Bootstrap(context.Background(), vdr, cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	_, ok := reg.Lookup("idunion")
	assert.True(t, ok)
	_, ok = reg.Lookup("sovrin:staging")
	assert.True(t, ok)
	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestBootstrap_SkipsMisnamedNamespaceDirs(t *testing.T) {
	root := t.TempDir()
	writeGenesis(t, root, "idunion", "pool_transactions_genesis.json")
	// segment charset is [a-z0-9_-]; anything else never becomes a key
	writeGenesis(t, root, "Bad.Name", "pool_transactions_genesis.json")
	writeGenesis(t, root, "sovrin", "Staging.Env", "pool_transactions_genesis.json")

	vdr := indytest.New()
	cfg := indypool.RegistryConfig{Root: root, GenesisFilename: "pool_transactions_genesis.json"}
	logger := indylog.New("test", indylog.LevelError)

	reg, err := indypool.Bootstrap(context.Background(), vdr, cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Lookup("idunion")
	assert.True(t, ok)
}

func TestBootstrap_MissingRootIsFatal(t *testing.T) {
	vdr := indytest.New()
	cfg := indypool.RegistryConfig{Root: "/does/not/exist", GenesisFilename: "pool_transactions_genesis.json"}
	logger := indylog.New("test", indylog.LevelError)

	_, err := indypool.Bootstrap(context.Background(), vdr, cfg, logger)
	require.Error(t, err)
}

func TestBootstrap_AppliesRefresh(t *testing.T) {
	root := t.TempDir()
	writeGenesis(t, root, "idunion", "pool_transactions_genesis.json")

	vdr := indytest.New()
	genesisBytes := []byte(`{"txn":"genesis"}`)
	vdr.SeedRefresh(genesisBytes, []byte(`{"txn":"refreshed-validator-set"}`))

	cfg := indypool.RegistryConfig{Root: root, GenesisFilename: "pool_transactions_genesis.json"}
	logger := indylog.New("test", indylog.LevelError)

	reg, err := indypool.Bootstrap(context.Background(), vdr, cfg, logger)
	require.NoError(t, err)
	_, ok := reg.Lookup("idunion")
	assert.True(t, ok)
}
