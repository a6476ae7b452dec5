package didindy

import (
	"encoding/json"
	"fmt"
	"sort"
)

const didCoreContext = "https://www.w3.org/ns/did/v1"

// arrayConcatKeys are merged by concatenation (base first, then content)
// rather than by the generic deep-merge/overwrite rule.
var arrayConcatKeys = map[string]bool{
	"authentication":     true,
	"verificationMethod": true,
}

// BuildDocument renders the canonical DID Document JSON for a resolved NYM.
// diddocContent and endpoint are mutually exclusive augmentations tried in
// that order; when both are nil the bare verkey-only template is emitted.
func BuildDocument(namespace, id, verkey string, endpoint Endpoint, diddocContent map[string]interface{}) (string, error) {
	const op = "BuildDocument"

	did := fmt.Sprintf("did:indy:%s:%s", namespace, id)
	expanded := ExpandVerkey(id, verkey)

	base := map[string]interface{}{
		"id": did,
		"verificationMethod": []interface{}{
			map[string]interface{}{
				"id":              did + "#verkey",
				"type":            "Ed25519VerificationKey2018",
				"controller":      did,
				"publicKeyBase58": expanded,
			},
		},
		"authentication": []interface{}{did + "#verkey"},
	}

	switch {
	case diddocContent != nil:
		if err := validateDiddocContent(diddocContent); err != nil {
			return "", NewError(op, ErrInvalidDidDoc).WithContext("reason", err.Error())
		}
		mergeDiddoc(base, diddocContent)

	case len(endpoint) > 0:
		base["service"] = buildServiceArray(did, endpoint)
	}

	out, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return "", NewError(op, ErrParsingError).WithContext("cause", err.Error())
	}
	return string(out), nil
}

func validateDiddocContent(content map[string]interface{}) error {
	if _, hasID := content["id"]; hasID {
		return fmt.Errorf("diddoc_content must not declare id")
	}
	ctxVal, hasContext := content["@context"]
	if !hasContext {
		return nil
	}
	switch c := ctxVal.(type) {
	case string:
		if c != didCoreContext {
			return fmt.Errorf("@context must be %q", didCoreContext)
		}
	case []interface{}:
		for _, v := range c {
			if s, ok := v.(string); ok && s == didCoreContext {
				return nil
			}
		}
		return fmt.Errorf("@context array must contain %q", didCoreContext)
	default:
		return fmt.Errorf("@context has unsupported shape")
	}
	return nil
}

// mergeDiddoc deep-merges content into base in place: the two array-typed
// keys concatenate, everything else recurses on objects and overwrites on
// scalars.
func mergeDiddoc(base, content map[string]interface{}) {
	for key, contentVal := range content {
		if arrayConcatKeys[key] {
			baseArr, _ := base[key].([]interface{})
			contentArr, ok := contentVal.([]interface{})
			if !ok {
				base[key] = contentVal
				continue
			}
			merged := make([]interface{}, 0, len(baseArr)+len(contentArr))
			merged = append(merged, baseArr...)
			merged = append(merged, contentArr...)
			base[key] = merged
			continue
		}

		baseVal, exists := base[key]
		baseMap, baseIsMap := baseVal.(map[string]interface{})
		contentMap, contentIsMap := contentVal.(map[string]interface{})
		if exists && baseIsMap && contentIsMap {
			mergeDiddoc(baseMap, contentMap)
			continue
		}
		base[key] = contentVal
	}
}

func buildServiceArray(did string, endpoint Endpoint) []interface{} {
	types := make([]string, 0, len(endpoint))
	for t := range endpoint {
		types = append(types, t)
	}
	sort.Strings(types)

	services := make([]interface{}, 0, len(types))
	for _, t := range types {
		url := endpoint[t]
		if t == "endpoint" {
			services = append(services, map[string]interface{}{
				"id":            did + "#did-communication",
				"type":          "did-communication",
				"recipientKeys": []interface{}{did + "#verkey"},
				"routingKeys":   []interface{}{},
				"priority":      0,
			})
			continue
		}
		services = append(services, map[string]interface{}{
			"id":              did + "#" + t,
			"type":            t,
			"serviceEndpoint": url,
		})
	}
	return services
}
