// Package indypool implements the per-namespace ledger pool registry:
// bootstrap from genesis transactions, live validator-set refresh, and the
// read-only namespace -> Pool map consulted by every resolve.
package indypool

import (
	"context"
	"time"
)

// Ledger request type tags. RequestBuilder implementations must stamp
// every Request they build with the matching tag — the resolution
// pipeline dispatches its reply handling on it.
const (
	TypeGetNym           = "GET_NYM"
	TypeGetAttrib        = "GET_ATTRIB"
	TypeGetSchema        = "GET_SCHEMA"
	TypeGetCredDef       = "GET_CRED_DEF"
	TypeGetRevocRegDef   = "GET_REVOC_REG_DEF"
	TypeGetRevocReg      = "GET_REVOC_REG"
	TypeGetRevocRegDelta = "GET_REVOC_REG_DELTA"
	TypePoolRefresh      = "POOL_REFRESH"
)

// Request is a prepared ledger request: a type tag plus the payload the
// VDR transport needs to submit it. Construction is always delegated to a
// RequestBuilder — the resolution engine never builds the wire payload
// itself.
type Request struct {
	Type    string
	Payload map[string]interface{}
}

// Pool is an opaque per-namespace ledger pool handle owned by the
// Registry. Implementations must be safe for concurrent use by multiple
// resolvers (the "shared pool" semantic): many goroutines read through the
// same Pool value for the lifetime of the process. The marker method keeps
// arbitrary values from accidentally satisfying the interface.
type Pool interface {
	IsPool()
}

// PoolBuilder is the subset of the VDR collaborator contract responsible
// for turning genesis transactions into a Pool and producing the refresh
// request that yields the current validator set.
type PoolBuilder interface {
	BuildPool(ctx context.Context, genesisTxns []byte) (Pool, error)
	BuildRefreshRequest(ctx context.Context, pool Pool) (Request, error)
	ExtendPool(ctx context.Context, pool Pool, supplementaryTxns []byte) (Pool, error)
}

// RequestBuilder is the subset of the VDR collaborator contract that maps
// a parsed DID URL onto a concrete ledger request.
type RequestBuilder interface {
	BuildGetNym(id string) (Request, error)
	BuildGetAttrib(id, attribName string) (Request, error)
	BuildGetSchema(id, name, version string) (Request, error)
	BuildGetCredDef(credDefID string) (Request, error)
	BuildGetRevocRegDef(revRegDefID string) (Request, error)
	BuildGetRevocReg(revRegDefID string, timestamp int64) (Request, error)
	BuildGetRevocRegDelta(revRegDefID string, from *int64, to int64) (Request, error)
}

// RequestSubmitter submits a prepared request against a pool and returns
// either the reply payload as a JSON string, or an error representing a
// Failed reply (never a transport panic — transport-level failures are
// also reported through the error return).
type RequestSubmitter interface {
	Submit(ctx context.Context, pool Pool, req Request) (string, error)
}

// VDR is the full external collaborator contract consumed by the
// resolution engine. Out of scope for this repository: only the contract
// and an in-memory test fake live here, never a real Indy consensus
// transport.
type VDR interface {
	PoolBuilder
	RequestBuilder
	RequestSubmitter
}

// RegistryConfig configures genesis discovery for Bootstrap.
type RegistryConfig struct {
	// Root is the genesis source root directory.
	Root string `json:"root" validate:"required"`
	// GenesisFilename is the file name expected at each namespace leaf.
	GenesisFilename string `json:"genesis_filename" validate:"required"` // default: pool_transactions_genesis.json
	// RefreshTimeout bounds each namespace's validator-set refresh during
	// bootstrap.
	RefreshTimeout time.Duration `json:"refresh_timeout"` // default: 30s
}

// DefaultRegistryConfig returns the conventional genesis filename with no
// root set (the caller must supply one).
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		GenesisFilename: "pool_transactions_genesis.json",
		RefreshTimeout:  30 * time.Second,
	}
}
