// Package validation checks Zeebe job variables against the input schemas
// declared in the activity registry.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"insight-workers/internal/common/errors"
	"insight-workers/pkg/registry"
)

type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the input schema of every activity that has one.
func NewSchemaValidator(reg *registry.ActivityRegistry) (*SchemaValidator, error) {
	v := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema)}
	if reg == nil {
		return v, nil
	}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

func (v *SchemaValidator) Has(taskType string) bool {
	if v == nil {
		return false
	}
	_, ok := v.schemas[taskType]
	return ok
}

// Validate returns an INVALID_INPUT error listing every violation. Task types
// without a registered schema always pass.
func (v *SchemaValidator) Validate(taskType, variables string) error {
	if !v.Has(taskType) {
		return nil
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	result, err := v.schemas[taskType].Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("variables are not valid JSON: %v", err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return errors.NewInvalidInputError(strings.Join(msgs, "; ")).
		WithMetadata("taskType", taskType)
}
