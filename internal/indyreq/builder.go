// Package indyreq maps a parsed did:indy DID URL onto a prepared ledger
// request via the VDR collaborator's request-builder contract.
package indyreq

import (
	"fmt"

	"github.com/didindy/resolver/internal/didindy"
	"github.com/didindy/resolver/internal/indypool"
)

// BuildRequest dispatches on the DID URL's path — empty means a plain NYM
// lookup, otherwise the path is classified by the ledger-object grammar
// and mapped to the matching typed ledger request.
func BuildRequest(rb indypool.RequestBuilder, didURL *didindy.DidUrl) (indypool.Request, error) {
	const op = "BuildRequest"

	if didURL.Path == "" {
		return rb.BuildGetNym(didURL.ID)
	}

	obj, err := didindy.ParseLedgerObject(didURL.Path)
	if err != nil {
		return indypool.Request{}, err
	}

	switch obj.Kind {
	case didindy.KindSchema:
		return rb.BuildGetSchema(didURL.ID, obj.Name, obj.Version)

	case didindy.KindClaimDef:
		credDefID := fmt.Sprintf("%s:3:CL:%d:%s", didURL.ID, obj.SchemaSeqNo, obj.Name)
		return rb.BuildGetCredDef(credDefID)

	case didindy.KindRevRegDef:
		return rb.BuildGetRevocRegDef(revRegDefID(didURL.ID, obj))

	case didindy.KindRevRegEntry:
		return buildRevRegEntry(rb, didURL, obj)

	case didindy.KindRevRegDelta:
		return buildRevRegDelta(rb, didURL, obj)

	default:
		return indypool.Request{}, didindy.NewError(op, didindy.ErrInvalidDidUrl)
	}
}

// revRegDefID formats the composite revocation registry definition
// identifier shared by RevRegDef/RevRegEntry/RevRegDelta dispatch.
func revRegDefID(id string, obj didindy.LedgerObject) string {
	return fmt.Sprintf("%s:4:%s:3:CL:%d:%s:CL_ACCUM:%s", id, id, obj.SchemaSeqNo, obj.ClaimDefName, obj.Tag)
}

func buildRevRegEntry(rb indypool.RequestBuilder, didURL *didindy.DidUrl, obj didindy.LedgerObject) (indypool.Request, error) {
	regDefID := revRegDefID(didURL.ID, obj)

	if fromStr, hasFrom := didURL.QueryValue(didindy.QueryFrom); hasFrom {
		from, err := parseRFC3339ToUnix(fromStr)
		if err != nil {
			return indypool.Request{}, err
		}
		to := nowUnix()
		if toStr, hasTo := didURL.QueryValue(didindy.QueryTo); hasTo {
			parsed, err := parseRFC3339ToUnix(toStr)
			if err != nil {
				return indypool.Request{}, err
			}
			to = parsed
		}
		return rb.BuildGetRevocRegDelta(regDefID, &from, to)
	}

	ts := nowUnix()
	if vt, hasVT := didURL.QueryValue(didindy.QueryVersionTime); hasVT {
		parsed, err := parseRFC3339ToUnix(vt)
		if err != nil {
			return indypool.Request{}, err
		}
		ts = parsed
	}
	return rb.BuildGetRevocReg(regDefID, ts)
}

func buildRevRegDelta(rb indypool.RequestBuilder, didURL *didindy.DidUrl, obj didindy.LedgerObject) (indypool.Request, error) {
	regDefID := revRegDefID(didURL.ID, obj)

	var from *int64
	if fromStr, hasFrom := didURL.QueryValue(didindy.QueryFrom); hasFrom {
		parsed, err := parseRFC3339ToUnix(fromStr)
		if err != nil {
			return indypool.Request{}, err
		}
		from = &parsed
	}

	to := nowUnix()
	if toStr, hasTo := didURL.QueryValue(didindy.QueryTo); hasTo {
		parsed, err := parseRFC3339ToUnix(toStr)
		if err != nil {
			return indypool.Request{}, err
		}
		to = parsed
	}

	return rb.BuildGetRevocRegDelta(regDefID, from, to)
}
