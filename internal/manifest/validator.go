package manifest

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	chrysalisErrors "github.com/chrysalis-cube/chrysalis/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern        = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	pluginVersionPattern = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("plugin_version", func(fl validator.FieldLevel) bool {
			return pluginVersionPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// Validate runs schema and cross-reference checks on m: per-field struct
// tags via go-playground/validator, plus the checks a tag can't express —
// that a plugin's restricted compute resources actually appear in
// Manifest.ComputeResources.
func Validate(m *Manifest) error {
	if m == nil {
		return chrysalisErrors.NewValidationError("manifest", "manifest is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(m); err != nil {
		return convertValidationError(err)
	}

	for name, plugin := range m.Plugins {
		for _, resource := range plugin.ComputeResources {
			if _, ok := m.ComputeResources[resource]; !ok {
				field := fmt.Sprintf("plugins.%s.compute_resources", name)
				return chrysalisErrors.NewValidationError(field, fmt.Sprintf("references unknown compute resource %q", resource), nil)
			}
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		fe := ves[0]
		field := yamlishFieldName(fe)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag())
		return chrysalisErrors.NewValidationError(field, msg, err)
	}

	return chrysalisErrors.NewValidationError("manifest", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
