package didindy

import (
	"strings"

	"github.com/mr-tron/base58"
)

// ExpandVerkey reconstructs a full Base58 verification key from an
// abbreviated form prefixed by "~". It never fails: any decode error or
// malformed input falls back to returning the original verkey unchanged,
// matching the resolver's policy of never surfacing UnexpectedKeyFormat to
// a caller.
func ExpandVerkey(id, verkey string) string {
	base := verkey
	keyType := ""
	if i := strings.LastIndex(verkey, ":"); i >= 0 {
		base, keyType = verkey[:i], verkey[i+1:]
		if base == "" || keyType == "" {
			return verkey
		}
	}

	expanded := base
	if strings.HasPrefix(base, "~") && len(base) >= 2 {
		if full, ok := expandAbbreviated(id, base[1:]); ok {
			expanded = full
		} else {
			return verkey
		}
	}

	if keyType != "" {
		return expanded + ":" + keyType
	}
	return expanded
}

func expandAbbreviated(id, abbreviated string) (string, bool) {
	idBytes, err := base58.Decode(id)
	if err != nil {
		return "", false
	}
	tailBytes, err := base58.Decode(abbreviated)
	if err != nil {
		return "", false
	}
	full := append(append([]byte{}, idBytes...), tailBytes...)
	return base58.Encode(full), true
}
