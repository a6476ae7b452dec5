// Package didindy implements the did:indy DID URL grammar, the ledger-object
// path grammar nested under it, and the DID Document assembly rules that
// turn a ledger NYM reply into a W3C DID Document.
package didindy

import "fmt"

// QueryParameter is the closed set of recognized did:indy query keys.
type QueryParameter int

const (
	QueryVersionID QueryParameter = iota
	QueryVersionTime
	QueryFrom
	QueryTo
)

func (q QueryParameter) String() string {
	switch q {
	case QueryVersionID:
		return "versionId"
	case QueryVersionTime:
		return "versionTime"
	case QueryFrom:
		return "from"
	case QueryTo:
		return "to"
	default:
		return "unknown"
	}
}

// ParseQueryParameter maps a raw query key to its enum value, or reports
// that the key isn't one of the four recognized parameters.
func ParseQueryParameter(key string) (QueryParameter, bool) {
	switch key {
	case "versionId":
		return QueryVersionID, true
	case "versionTime":
		return QueryVersionTime, true
	case "from":
		return QueryFrom, true
	case "to":
		return QueryTo, true
	default:
		return 0, false
	}
}

// DidUrl is the parsed form of a did:indy DID URL.
type DidUrl struct {
	Namespace string
	ID        string
	Path      string
	Query     map[QueryParameter]string
	URL       string
}

// QueryValue returns the raw value for a recognized query parameter and
// whether it was present.
func (d *DidUrl) QueryValue(q QueryParameter) (string, bool) {
	if d.Query == nil {
		return "", false
	}
	v, ok := d.Query[q]
	return v, ok
}

// ObjectKind tags which LedgerObject shape is populated.
type ObjectKind int

const (
	KindNone ObjectKind = iota
	KindSchema
	KindClaimDef
	KindRevRegDef
	KindRevRegEntry
	KindRevRegDelta
)

// LedgerObject is the tagged-variant classification of a DID URL path under
// the /anoncreds/v0/... grammar. Only the fields relevant to Kind are
// populated; dispatch is by a total switch on Kind, never by type
// assertion on an interface.
type LedgerObject struct {
	Kind ObjectKind

	// Schema
	Name    string
	Version string

	// ClaimDef / shared with RevReg* via SchemaSeqNo
	SchemaSeqNo uint32

	// RevRegDef / RevRegEntry / RevRegDelta
	ClaimDefName string
	Tag          string
}

func (o LedgerObject) String() string {
	switch o.Kind {
	case KindSchema:
		return fmt.Sprintf("Schema{%s/%s}", o.Name, o.Version)
	case KindClaimDef:
		return fmt.Sprintf("ClaimDef{%d/%s}", o.SchemaSeqNo, o.Name)
	case KindRevRegDef:
		return fmt.Sprintf("RevRegDef{%d/%s/%s}", o.SchemaSeqNo, o.ClaimDefName, o.Tag)
	case KindRevRegEntry:
		return fmt.Sprintf("RevRegEntry{%d/%s/%s}", o.SchemaSeqNo, o.ClaimDefName, o.Tag)
	case KindRevRegDelta:
		return fmt.Sprintf("RevRegDelta{%d/%s/%s}", o.SchemaSeqNo, o.ClaimDefName, o.Tag)
	default:
		return "None"
	}
}

// NymResult is the decoded payload of a GET_NYM ledger reply.
type NymResult struct {
	Dest          string                 `json:"dest"`
	Verkey        string                 `json:"verkey"`
	DiddocContent map[string]interface{} `json:"diddoc_content,omitempty"`
}

// Endpoint is the attribute-name -> URL mapping recovered from a legacy
// ATTRIB transaction.
type Endpoint map[string]string
