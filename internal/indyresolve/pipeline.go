// Package indyresolve orchestrates the DID URL parser, pool registry,
// request builder, and DID document builder into the single synchronous
// resolve operation served by the HTTP front end.
package indyresolve

import (
	"context"
	"encoding/json"

	"github.com/didindy/resolver/internal/didindy"
	"github.com/didindy/resolver/internal/indylog"
	"github.com/didindy/resolver/internal/indypool"
	"github.com/didindy/resolver/internal/indyreq"
)

const attribEndpointName = "endpoint"

// Pipeline is the resolution engine: C1's parser, C4's registry, C5's
// request builder, and C3's document builder wired together behind one
// blocking Resolve call.
type Pipeline struct {
	registry *indypool.Registry
	vdr      indypool.VDR
	logger   *indylog.Logger
}

// New builds a Pipeline over an already-bootstrapped registry and the VDR
// collaborator used both to build requests and submit them.
func New(registry *indypool.Registry, vdr indypool.VDR, logger *indylog.Logger) *Pipeline {
	return &Pipeline{registry: registry, vdr: vdr, logger: logger}
}

// Resolve parses rawDidURL, resolves it against the appropriate ledger
// pool, and returns the JSON result: a DID Document for a plain NYM
// lookup, or the typed ledger object as-is for a path-qualified lookup.
func (p *Pipeline) Resolve(ctx context.Context, rawDidURL string) (string, error) {
	const op = "Resolve"

	didURL, err := didindy.ParseDIDURL(rawDidURL)
	if err != nil {
		return "", err
	}

	pool, ok := p.registry.Lookup(didURL.Namespace)
	if !ok {
		return "", didindy.NewError(op, didindy.ErrNamespaceNotSupported).WithContext("namespace", didURL.Namespace)
	}

	req, err := indyreq.BuildRequest(p.vdr, didURL)
	if err != nil {
		return "", err
	}

	payload, err := p.submit(ctx, pool, req)
	if err != nil {
		return "", didindy.NewError(op, didindy.ErrVdrError).WithContext("cause", err.Error())
	}

	data, err := extractResultData(op, payload)
	if err != nil {
		return "", err
	}

	if req.Type != indypool.TypeGetNym {
		return string(data), nil
	}

	var nym didindy.NymResult
	if err := json.Unmarshal(data, &nym); err != nil {
		return "", didindy.NewError(op, didindy.ErrParsingError).WithContext("cause", err.Error())
	}

	var endpoint didindy.Endpoint
	if nym.DiddocContent == nil {
		endpoint = p.fetchLegacyEndpoint(ctx, pool, didURL.ID)
	}

	return didindy.BuildDocument(didURL.Namespace, nym.Dest, nym.Verkey, endpoint, nym.DiddocContent)
}

// submit is the blocking bridge over the VDR's submit primitive: it runs
// the submit in its own goroutine and awaits either the reply or ctx
// cancellation, so a caller-side deadline is honored even when the
// transport ignores its context.
func (p *Pipeline) submit(ctx context.Context, pool indypool.Pool, req indypool.Request) (string, error) {
	type result struct {
		payload string
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		payload, err := p.vdr.Submit(ctx, pool, req)
		ch <- result{payload: payload, err: err}
	}()
	select {
	case r := <-ch:
		return r.payload, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// fetchLegacyEndpoint issues the secondary GET_ATTRIB lookup for NYMs
// without embedded diddoc_content. Any failure — build, submit, decode —
// is swallowed: absence of a legacy endpoint is a normal outcome, never a
// resolution error.
func (p *Pipeline) fetchLegacyEndpoint(ctx context.Context, pool indypool.Pool, id string) didindy.Endpoint {
	req, err := p.vdr.BuildGetAttrib(id, attribEndpointName)
	if err != nil {
		return nil
	}
	payload, err := p.submit(ctx, pool, req)
	if err != nil {
		p.logger.Debug("legacy endpoint lookup failed", map[string]interface{}{"id": id, "cause": err.Error()})
		return nil
	}
	data, err := extractResultData("fetchLegacyEndpoint", payload)
	if err != nil {
		return nil
	}
	var endpoint didindy.Endpoint
	if err := json.Unmarshal(data, &endpoint); err != nil {
		return nil
	}
	return endpoint
}

func extractResultData(op, payload string) (json.RawMessage, error) {
	var envelope struct {
		Result struct {
			Data json.RawMessage `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, didindy.NewError(op, didindy.ErrParsingError).WithContext("cause", err.Error())
	}
	if len(envelope.Result.Data) == 0 || string(envelope.Result.Data) == "null" {
		return nil, didindy.NewError(op, didindy.ErrEmptyData)
	}
	return envelope.Result.Data, nil
}
