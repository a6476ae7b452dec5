// Package indytest implements an in-memory VDR collaborator used by the
// resolution engine's tests and by cmd/resolverd's local smoke-testing
// wiring, standing in for a real Indy consensus transport.
package indytest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/didindy/resolver/internal/indypool"
)

// ErrNoSuchRequest is returned by Submit when no reply or failure has been
// seeded for the request's key.
var ErrNoSuchRequest = fmt.Errorf("indytest: no reply seeded for request")

// fakePool is the opaque Pool handle returned by Fake.BuildPool. A pool
// tracks only the genesis bytes and any refresh extension it was built
// from — enough to prove bootstrap wiring without modeling real consensus.
type fakePool struct {
	id         string
	genesis    []byte
	extensions [][]byte
}

func (*fakePool) IsPool() {}

// Fake is a sync.RWMutex-guarded in-memory VDR, mirroring the
// constructor-plus-guarded-map shape used across this codebase's other
// collaborator fakes.
type Fake struct {
	mu       sync.RWMutex
	replies  map[string]string
	failures map[string]error
	refresh  map[string][]byte
	seq      int
}

// New returns a Fake with no seeded replies.
func New() *Fake {
	return &Fake{
		replies:  make(map[string]string),
		failures: make(map[string]error),
		refresh:  make(map[string][]byte),
	}
}

// SeedReply registers the raw ledger envelope (the full `{"result":{"data":...}}`
// JSON string) that Submit returns for a given request key.
func (f *Fake) SeedReply(reqType, key, envelopeJSON string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[requestKey(reqType, key)] = envelopeJSON
}

// SeedData is a convenience wrapper over SeedReply: it wraps value in the
// `{"result":{"data":...}}` envelope the pipeline expects.
func (f *Fake) SeedData(reqType, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("indytest: SeedData marshal: %v", err))
	}
	envelope := fmt.Sprintf(`{"result":{"data":%s}}`, data)
	f.SeedReply(reqType, key, envelope)
}

// SeedFailure makes Submit return err for the given request key, modeling a
// ledger-level Failed reply.
func (f *Fake) SeedFailure(reqType, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[requestKey(reqType, key)] = err
}

// SeedRefresh registers the supplementary validator-set transactions a pool
// refresh returns for the pool built from genesisTxns. An empty refresh (the
// default, if never seeded) means "no supplementary transactions".
func (f *Fake) SeedRefresh(genesisTxns []byte, supplementary []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh[string(genesisTxns)] = supplementary
}

// BuildPool satisfies indypool.PoolBuilder.
func (f *Fake) BuildPool(_ context.Context, genesisTxns []byte) (indypool.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return &fakePool{id: fmt.Sprintf("pool-%d", f.seq), genesis: append([]byte(nil), genesisTxns...)}, nil
}

// BuildRefreshRequest satisfies indypool.PoolBuilder.
func (f *Fake) BuildRefreshRequest(_ context.Context, pool indypool.Pool) (indypool.Request, error) {
	fp, ok := pool.(*fakePool)
	if !ok {
		return indypool.Request{}, fmt.Errorf("indytest: not a fake pool")
	}
	return indypool.Request{Type: indypool.TypePoolRefresh, Payload: map[string]interface{}{"pool": fp.id}}, nil
}

// ExtendPool satisfies indypool.PoolBuilder: it returns a new pool handle
// with the same id and genesis plus the given supplementary transactions
// appended to its extensions.
func (f *Fake) ExtendPool(_ context.Context, pool indypool.Pool, supplementaryTxns []byte) (indypool.Pool, error) {
	fp, ok := pool.(*fakePool)
	if !ok {
		return nil, fmt.Errorf("indytest: not a fake pool")
	}
	extended := &fakePool{
		id:         fp.id,
		genesis:    fp.genesis,
		extensions: append(append([][]byte{}, fp.extensions...), supplementaryTxns),
	}
	return extended, nil
}

// Submit satisfies indypool.RequestSubmitter. The pool refresh request type
// is handled specially: it consults SeedRefresh rather than the generic
// reply table, so bootstrap tests don't need to pre-format an envelope for
// it.
func (f *Fake) Submit(_ context.Context, pool indypool.Pool, req indypool.Request) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if req.Type == indypool.TypePoolRefresh {
		fp, ok := pool.(*fakePool)
		if !ok {
			return "", fmt.Errorf("indytest: not a fake pool")
		}
		supplementary, ok := f.refresh[string(fp.genesis)]
		if !ok || len(supplementary) == 0 {
			return "", nil
		}
		return string(supplementary), nil
	}

	key := requestKeyFromPayload(req)
	if err, ok := f.failures[key]; ok {
		return "", err
	}
	envelope, ok := f.replies[key]
	if !ok {
		return "", ErrNoSuchRequest
	}
	return envelope, nil
}

// BuildGetNym satisfies indypool.RequestBuilder.
func (f *Fake) BuildGetNym(id string) (indypool.Request, error) {
	return indypool.Request{Type: indypool.TypeGetNym, Payload: map[string]interface{}{"dest": id}}, nil
}

// BuildGetAttrib satisfies indypool.RequestBuilder.
func (f *Fake) BuildGetAttrib(id, attribName string) (indypool.Request, error) {
	return indypool.Request{Type: indypool.TypeGetAttrib, Payload: map[string]interface{}{"dest": id, "raw": attribName}}, nil
}

// BuildGetSchema satisfies indypool.RequestBuilder.
func (f *Fake) BuildGetSchema(id, name, version string) (indypool.Request, error) {
	return indypool.Request{Type: indypool.TypeGetSchema, Payload: map[string]interface{}{
		"dest": id, "data": map[string]interface{}{"name": name, "version": version},
	}}, nil
}

// BuildGetCredDef satisfies indypool.RequestBuilder.
func (f *Fake) BuildGetCredDef(credDefID string) (indypool.Request, error) {
	return indypool.Request{Type: indypool.TypeGetCredDef, Payload: map[string]interface{}{"id": credDefID}}, nil
}

// BuildGetRevocRegDef satisfies indypool.RequestBuilder.
func (f *Fake) BuildGetRevocRegDef(revRegDefID string) (indypool.Request, error) {
	return indypool.Request{Type: indypool.TypeGetRevocRegDef, Payload: map[string]interface{}{"id": revRegDefID}}, nil
}

// BuildGetRevocReg satisfies indypool.RequestBuilder.
func (f *Fake) BuildGetRevocReg(revRegDefID string, timestamp int64) (indypool.Request, error) {
	return indypool.Request{Type: indypool.TypeGetRevocReg, Payload: map[string]interface{}{
		"revocRegDefId": revRegDefID, "timestamp": timestamp,
	}}, nil
}

// BuildGetRevocRegDelta satisfies indypool.RequestBuilder.
func (f *Fake) BuildGetRevocRegDelta(revRegDefID string, from *int64, to int64) (indypool.Request, error) {
	payload := map[string]interface{}{"revocRegDefId": revRegDefID, "to": to}
	if from != nil {
		payload["from"] = *from
	}
	return indypool.Request{Type: indypool.TypeGetRevocRegDelta, Payload: payload}, nil
}

// requestKey builds the lookup key Submit and the Seed* helpers share.
func requestKey(reqType, key string) string {
	return reqType + ":" + key
}

// requestKeyFromPayload derives a stable key from a built Request's
// identifying field, so Seed* calls don't need to know the payload's exact
// shape — only the same logical key used to build the request.
func requestKeyFromPayload(req indypool.Request) string {
	for _, field := range []string{"dest", "id", "revocRegDefId"} {
		if v, ok := req.Payload[field]; ok {
			if s, ok := v.(string); ok {
				return requestKey(req.Type, s)
			}
		}
	}
	return requestKey(req.Type, fmt.Sprintf("%v", req.Payload))
}
