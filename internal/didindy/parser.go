package didindy

import (
	"net/url"
	"regexp"
	"strings"
)

// didURLRegex anchors the full did:indy grammar: method, one or two
// colon-separated namespace segments, the Base58 identifier, and an
// optional path. Only the query is split off before this regex runs; a
// "#fragment" is not split off, so after a path it is kept as part of the
// path and without a path it makes the match fail.
var didURLRegex = regexp.MustCompile(
	`^did:indy:([a-z0-9_-]+(?::[a-z0-9_-]+)?):([1-9A-HJ-NP-Za-km-z]{21,22})(/[^?]*)?$`,
)

// ParseDIDURL tokenizes a did:indy DID URL into its namespace, identifier,
// path, and query components. It returns ErrInvalidDidUrl for any grammar
// violation and ErrQueryParameterNotSupported for a query key outside the
// closed QueryParameter set.
func ParseDIDURL(input string) (*DidUrl, error) {
	original := input
	trimmed := strings.TrimSpace(input)

	head := trimmed
	rawQuery := ""
	if idx := strings.IndexByte(trimmed, '?'); idx >= 0 {
		head = trimmed[:idx]
		rawQuery = trimmed[idx+1:]
	}

	m := didURLRegex.FindStringSubmatch(head)
	if m == nil {
		return nil, NewError("ParseDIDURL", ErrInvalidDidUrl).WithContext("input", original)
	}

	path := ""
	if m[3] != "" {
		decoded, err := url.PathUnescape(m[3])
		if err != nil {
			return nil, NewError("ParseDIDURL", ErrInvalidDidUrl).WithContext("path", m[3])
		}
		path = decoded
	}

	query := map[QueryParameter]string{}
	if rawQuery != "" {
		values, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, NewError("ParseDIDURL", ErrInvalidDidUrl).WithContext("query", rawQuery)
		}
		for key, vs := range values {
			qp, ok := ParseQueryParameter(key)
			if !ok {
				return nil, NewError("ParseDIDURL", ErrQueryParameterNotSupported).WithContext("key", key)
			}
			if len(vs) > 0 {
				query[qp] = vs[0]
			}
		}
	}

	return &DidUrl{
		Namespace: m[1],
		ID:        m[2],
		Path:      path,
		Query:     query,
		URL:       original,
	}, nil
}
