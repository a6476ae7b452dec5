package indyresolve_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/didindy/resolver/internal/didindy"
	"github.com/didindy/resolver/internal/indylog"
	"github.com/didindy/resolver/internal/indypool"
	"github.com/didindy/resolver/internal/indyresolve"
	"github.com/didindy/resolver/internal/indytest"
)

func newTestRegistry(t *testing.T, vdr *indytest.Fake, namespace string) *indypool.Registry {
	t.Helper()
	// Exercise the same Bootstrap path the CLI uses, over a single
	// synthetic namespace, so the pipeline test covers C4 + C6 together.
	root := t.TempDir()
	return bootstrapSingle(t, vdr, root, namespace)
}

func bootstrapSingle(t *testing.T, vdr *indytest.Fake, root, namespace string) *indypool.Registry {
	t.Helper()
	dir := root + "/" + namespace
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(dir+"/pool_transactions_genesis.json", []byte(`{"txn":"genesis"}`), 0o644))

	cfg := indypool.RegistryConfig{Root: root, GenesisFilename: "pool_transactions_genesis.json"}
	logger := indylog.New("test", indylog.LevelError)
	reg, err := indypool.Bootstrap(context.Background(), vdr, cfg, logger)
	require.NoError(t, err)
	return reg
}

func TestResolve_PlainNymNoEndpointNoDiddocContent(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")
	vdr.SeedData("GET_NYM", "BDrEcHc8Tb4Lb2VyQZWEDE", map[string]interface{}{
		"dest":   "BDrEcHc8Tb4Lb2VyQZWEDE",
		"verkey": "~CoRER63DVYnWZtK8uAzNbx",
	})
	vdr.SeedFailure("GET_ATTRIB", "BDrEcHc8Tb4Lb2VyQZWEDE", fmt.Errorf("no attrib on ledger"))

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	out, err := p.Resolve(context.Background(), "did:indy:idunion:BDrEcHc8Tb4Lb2VyQZWEDE")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "did:indy:idunion:BDrEcHc8Tb4Lb2VyQZWEDE", doc["id"])
	assert.Nil(t, doc["service"])
	assert.Len(t, doc["verificationMethod"].([]interface{}), 1)
	assert.Len(t, doc["authentication"].([]interface{}), 1)
}

func TestResolve_NymWithLegacyEndpoint(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")
	vdr.SeedData("GET_NYM", "BDrEcHc8Tb4Lb2VyQZWEDE", map[string]interface{}{
		"dest":   "BDrEcHc8Tb4Lb2VyQZWEDE",
		"verkey": "rawverkey",
	})
	vdr.SeedData("GET_ATTRIB", "BDrEcHc8Tb4Lb2VyQZWEDE", map[string]string{
		"endpoint": "https://example.com/agent",
	})

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	out, err := p.Resolve(context.Background(), "did:indy:idunion:BDrEcHc8Tb4Lb2VyQZWEDE")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	services := doc["service"].([]interface{})
	require.Len(t, services, 1)
	svc := services[0].(map[string]interface{})
	assert.Equal(t, "did-communication", svc["type"])
}

func TestResolve_NymWithDiddocContentTakesPrecedenceOverEndpoint(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")
	vdr.SeedData("GET_NYM", "BDrEcHc8Tb4Lb2VyQZWEDE", map[string]interface{}{
		"dest":   "BDrEcHc8Tb4Lb2VyQZWEDE",
		"verkey": "rawverkey",
		"diddoc_content": map[string]interface{}{
			"service": []interface{}{
				map[string]interface{}{"id": "#custom", "type": "CustomService", "serviceEndpoint": "https://example.com"},
			},
		},
	})
	// No GET_ATTRIB seeded at all: if the pipeline called it, Submit would
	// return ErrNoSuchRequest and the failure would be swallowed. The fake
	// records no calls, so this test does not observe whether the lookup
	// ran; it checks that the embedded service is the only service emitted.

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	out, err := p.Resolve(context.Background(), "did:indy:idunion:BDrEcHc8Tb4Lb2VyQZWEDE")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	services := doc["service"].([]interface{})
	require.Len(t, services, 1)
	assert.Equal(t, "CustomService", services[0].(map[string]interface{})["type"])
}

func TestResolve_TypedLedgerObjectReturnsDataAsIs(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")
	vdr.SeedData("GET_SCHEMA", "BDrEcHc8Tb4Lb2VyQZWEDE", map[string]interface{}{
		"name": "degree", "version": "1.0", "attrNames": []string{"name", "age"},
	})

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	out, err := p.Resolve(context.Background(), "did:indy:idunion:BDrEcHc8Tb4Lb2VyQZWEDE/anoncreds/v0/SCHEMA/degree/1.0")
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "degree", schema["name"])
}

func TestResolve_EmptyDataIsError(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")
	vdr.SeedReply("GET_NYM", "BDrEcHc8Tb4Lb2VyQZWEDE", `{"result":{"data":null}}`)

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	_, err := p.Resolve(context.Background(), "did:indy:idunion:BDrEcHc8Tb4Lb2VyQZWEDE")
	require.Error(t, err)
	assert.ErrorIs(t, err, didindy.ErrEmptyData)
}

func TestResolve_UnknownNamespace(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	_, err := p.Resolve(context.Background(), "did:indy:unknownnamespace:BDrEcHc8Tb4Lb2VyQZWEDE")
	require.Error(t, err)
	assert.ErrorIs(t, err, didindy.ErrNamespaceNotSupported)
}

func TestResolve_VdrFailureBecomesVdrError(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")
	vdr.SeedFailure("GET_NYM", "BDrEcHc8Tb4Lb2VyQZWEDE", fmt.Errorf("consensus timeout"))

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	_, err := p.Resolve(context.Background(), "did:indy:idunion:BDrEcHc8Tb4Lb2VyQZWEDE")
	require.Error(t, err)
	assert.ErrorIs(t, err, didindy.ErrVdrError)
}

func TestResolve_MalformedInputPropagatesParserError(t *testing.T) {
	vdr := indytest.New()
	reg := newTestRegistry(t, vdr, "idunion")

	p := indyresolve.New(reg, vdr, indylog.New("test", indylog.LevelError))
	_, err := p.Resolve(context.Background(), "not-a-did-url")
	require.Error(t, err)
	assert.ErrorIs(t, err, didindy.ErrInvalidDidUrl)
}
