// Command resolverd serves the did:indy DID URL resolution HTTP API,
// wiring the genesis-directory pool registry, the in-memory VDR collaborator
// stand-in, and the resolution pipeline behind a gorilla/mux front end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/didindy/resolver/internal/indylog"
	"github.com/didindy/resolver/internal/indypool"
	"github.com/didindy/resolver/internal/indyresolve"
	"github.com/didindy/resolver/internal/indyserver"
	"github.com/didindy/resolver/internal/indytest"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	source := flag.String("source", "", "genesis directory root, or the literal \"github\" to clone a network repository")
	githubNetwork := flag.String("github-network", "", "repository URL to clone when --source=github")
	genesisFilename := flag.String("genesis-filename", "pool_transactions_genesis.json", "genesis file name expected at each namespace leaf")
	flag.Parse()

	serverConfig := indyserver.DefaultConfig()
	serverConfig.Port = *port
	if p := os.Getenv("RESOLVER_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			serverConfig.Port = parsed
		}
	}

	registryConfig := indypool.DefaultRegistryConfig()
	registryConfig.GenesisFilename = *genesisFilename
	if f := os.Getenv("RESOLVER_GENESIS_FILENAME"); f != "" {
		registryConfig.GenesisFilename = f
	}

	root, err := resolveGenesisRoot(*source, *githubNetwork)
	if err != nil {
		log.Fatalf("resolve genesis source: %v", err)
	}
	registryConfig.Root = root
	if r := os.Getenv("RESOLVER_SOURCE"); r != "" {
		registryConfig.Root = r
	}

	if err := validator.New().Struct(serverConfig); err != nil {
		log.Fatalf("invalid server config: %v", err)
	}

	logger := indylog.New("resolverd", indylog.LevelInfo)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	vdr := indytest.New()
	registry, err := indypool.Bootstrap(ctx, vdr, registryConfig, logger)
	if err != nil {
		log.Fatalf("bootstrap registry: %v", err)
	}

	pipeline := indyresolve.New(registry, vdr, logger)
	srv := indyserver.New(pipeline, registry, serverConfig, logger)
	if err := srv.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down", nil)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", map[string]interface{}{"cause": err.Error()})
	}
}

// resolveGenesisRoot implements the --source contract: a local directory
// path is used as-is. The literal "github" is accepted by the flag parser
// but no repository is cloned: it returns an error (naming the repository
// when --github-network is set), so only a local directory can be used.
func resolveGenesisRoot(source, githubNetwork string) (string, error) {
	if source != "github" {
		return source, nil
	}
	if githubNetwork == "" {
		return "", fmt.Errorf("--github-network is required when --source=github")
	}
	return "", fmt.Errorf("cloning genesis repository %q is not implemented by this resolver core; supply a local --source directory instead", githubNetwork)
}
