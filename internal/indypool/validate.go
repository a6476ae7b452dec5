package indypool

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// namespaceSegment matches one colon-separated segment of a did:indy
// namespace, the same seg rule the DID URL parser enforces on the whole
// namespace string.
var namespaceSegment = regexp.MustCompile(`^[a-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("namespace", validateNamespaceField)
	return v
}

// validateNamespaceField backs the "namespace" struct-tag validator.
func validateNamespaceField(fl validator.FieldLevel) bool {
	return validateNamespace(fl.Field().String())
}

func validateNamespace(ns string) bool {
	if ns == "" {
		return false
	}
	segs := strings.Split(ns, ":")
	if len(segs) > 2 {
		return false
	}
	for _, seg := range segs {
		if !namespaceSegment.MatchString(seg) {
			return false
		}
	}
	return true
}

// ValidateConfig checks RegistryConfig's required fields via struct tags.
func ValidateConfig(cfg RegistryConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid registry config: %w", err)
	}
	return nil
}
