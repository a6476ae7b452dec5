package indypool

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/didindy/resolver/internal/indylog"
)

// Registry is the namespace -> Pool mapping. Built once by Bootstrap and
// never mutated afterward, so concurrent readers need no locking.
type Registry struct {
	pools map[string]Pool
}

// Lookup returns the pool registered for namespace, if any.
func (r *Registry) Lookup(namespace string) (Pool, bool) {
	p, ok := r.pools[namespace]
	return p, ok
}

// Len reports how many namespaces were registered.
func (r *Registry) Len() int {
	return len(r.pools)
}

// Bootstrap discovers every genesis leaf under cfg.Root, builds and
// refreshes a pool for each, and returns the frozen registry. Any single
// namespace's bootstrap failure aborts the whole call — the process must
// never serve requests against a partially populated registry.
func Bootstrap(ctx context.Context, vdr VDR, cfg RegistryConfig, logger *indylog.Logger) (*Registry, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	leaves, err := discoverGenesisLeaves(cfg.Root, cfg.GenesisFilename)
	if err != nil {
		return nil, fmt.Errorf("discover genesis leaves under %q: %w", cfg.Root, err)
	}

	pools := make(map[string]Pool, len(leaves))
	for _, leaf := range leaves {
		if err := validate.Var(leaf.Namespace, "namespace"); err != nil {
			return nil, fmt.Errorf("invalid namespace key %q: %w", leaf.Namespace, err)
		}
		logger.Info("bootstrapping pool", map[string]interface{}{"namespace": leaf.Namespace})
		pool, err := bootstrapLeaf(ctx, vdr, leaf, cfg.RefreshTimeout)
		if err != nil {
			return nil, fmt.Errorf("bootstrap namespace %q: %w", leaf.Namespace, err)
		}
		pools[leaf.Namespace] = pool
	}

	logger.Info("registry bootstrap complete", map[string]interface{}{"namespaces": len(pools)})
	return &Registry{pools: pools}, nil
}

func bootstrapLeaf(ctx context.Context, vdr VDR, leaf genesisLeaf, refreshTimeout time.Duration) (Pool, error) {
	genesisTxns, err := os.ReadFile(leaf.GenesisPath)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}

	pool, err := vdr.BuildPool(ctx, genesisTxns)
	if err != nil {
		return nil, fmt.Errorf("build pool: %w", err)
	}

	if refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
	}

	refreshReq, err := vdr.BuildRefreshRequest(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}

	reply, err := vdr.Submit(ctx, pool, refreshReq)
	if err != nil {
		return nil, fmt.Errorf("submit refresh request: %w", err)
	}

	if reply != "" {
		refreshed, err := vdr.ExtendPool(ctx, pool, []byte(reply))
		if err != nil {
			return nil, fmt.Errorf("extend pool with refresh: %w", err)
		}
		return refreshed, nil
	}
	return pool, nil
}
