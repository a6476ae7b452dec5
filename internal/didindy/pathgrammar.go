package didindy

import (
	"strconv"
	"strings"
)

// ParseLedgerObject classifies a DID URL path under the
// /anoncreds/v0/{TYPE}/<specific> grammar into a typed LedgerObject.
// The empty path is not handled here — callers treat it as a plain NYM
// lookup before ever calling this function.
func ParseLedgerObject(path string) (LedgerObject, error) {
	const op = "ParseLedgerObject"

	trimmed := strings.TrimPrefix(path, "/")
	segments := strings.Split(trimmed, "/")
	if len(segments) < 3 {
		return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("path", path)
	}

	family, version, typeToken := segments[0], segments[1], segments[2]
	rest := segments[3:]

	if family != "anoncreds" {
		return LedgerObject{}, NewError(op, ErrObjectFamilyNotSupported).WithContext("family", family)
	}
	if version != "v0" {
		return LedgerObject{}, NewError(op, ErrVersionNotSupported).WithContext("version", version)
	}

	switch typeToken {
	case "SCHEMA":
		return parseSchema(op, rest)
	case "CLAIM_DEF":
		return parseClaimDef(op, rest)
	case "REV_REG_DEF":
		o, err := parseRevReg(op, rest)
		o.Kind = KindRevRegDef
		return o, err
	case "REV_REG_ENTRY":
		o, err := parseRevReg(op, rest)
		o.Kind = KindRevRegEntry
		return o, err
	case "REV_REG_DELTA":
		o, err := parseRevReg(op, rest)
		o.Kind = KindRevRegDelta
		return o, err
	default:
		return LedgerObject{}, NewError(op, ErrObjectTypeNotSupported).WithContext("type", typeToken)
	}
}

// parseSchema expects <name>/<major.minor[.patch]>.
func parseSchema(op string, segs []string) (LedgerObject, error) {
	if len(segs) != 2 {
		return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("segments", segs)
	}
	name, version := segs[0], segs[1]
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("version", version)
	}
	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("version", version)
		}
	}
	return LedgerObject{Kind: KindSchema, Name: name, Version: version}, nil
}

// parseClaimDef expects <digits>/<name>.
func parseClaimDef(op string, segs []string) (LedgerObject, error) {
	if len(segs) != 2 {
		return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("segments", segs)
	}
	seqNo, err := strconv.ParseUint(segs[0], 10, 32)
	if err != nil {
		return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("schemaSeqNo", segs[0])
	}
	return LedgerObject{Kind: KindClaimDef, SchemaSeqNo: uint32(seqNo), Name: segs[1]}, nil
}

// parseRevReg expects <digits>/<name>/<tag>, the shared shape used by
// RevRegDef, RevRegEntry, and RevRegDelta. The caller sets Kind.
func parseRevReg(op string, segs []string) (LedgerObject, error) {
	if len(segs) != 3 {
		return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("segments", segs)
	}
	seqNo, err := strconv.ParseUint(segs[0], 10, 32)
	if err != nil {
		return LedgerObject{}, NewError(op, ErrInvalidDidUrl).WithContext("schemaSeqNo", segs[0])
	}
	return LedgerObject{SchemaSeqNo: uint32(seqNo), ClaimDefName: segs[1], Tag: segs[2]}, nil
}
