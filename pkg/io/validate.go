package io

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/scenebridge/pkg/errors"
)

// RequiredKeys must be present in scene_data.
var RequiredKeys = []string{"schema_version", "scene_info", "cameras", "meshes"}

// SupportedSchemas is the schema_version range ValidateStrict accepts.
const SupportedSchemas = ">=0.2.0, <1.0.0"

//go:embed envelope.schema.json
var envelopeSchema []byte

const envelopeSchemaURL = "https://scenebridge.dev/schema/envelope.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Validate checks that doc holds a scene_data object with the required keys
// and a non-empty string schema_version.
func Validate(doc map[string]any) error {
	raw, ok := doc["scene_data"]
	if !ok {
		return errors.New(errors.ErrCodeSchemaInvalid, "missing required key %q", "scene_data")
	}
	data, ok := raw.(map[string]any)
	if !ok {
		return errors.New(errors.ErrCodeSchemaInvalid, "scene_data must be an object")
	}
	for _, key := range RequiredKeys {
		if _, ok := data[key]; !ok {
			return errors.New(errors.ErrCodeSchemaInvalid, "scene_data: missing required key %q", key)
		}
	}
	if v, ok := data["schema_version"].(string); !ok || strings.TrimSpace(v) == "" {
		return errors.New(errors.ErrCodeSchemaInvalid, "scene_data: schema_version must be a non-empty string")
	}
	return nil
}

// Valid reports whether doc passes Validate.
func Valid(doc map[string]any) bool {
	return Validate(doc) == nil
}

// ValidateStrict runs Validate, checks doc against the envelope JSON Schema
// and requires schema_version to fall within SupportedSchemas.
func ValidateStrict(doc map[string]any) error {
	if err := Validate(doc); err != nil {
		return err
	}

	sch, err := envelope()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile envelope schema")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode document")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	if err := sch.Validate(inst); err != nil {
		return errors.Wrap(errors.ErrCodeSchemaInvalid, err, "document does not match envelope schema")
	}

	version := doc["scene_data"].(map[string]any)["schema_version"].(string)
	return CheckSchemaVersion(version)
}

// CheckSchemaVersion reports whether version is a semantic version within
// SupportedSchemas.
func CheckSchemaVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSchemaInvalid, err, "schema_version %q is not a semantic version", version)
	}
	c, err := semver.NewConstraint(SupportedSchemas)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "parse supported schema range")
	}
	if !c.Check(v) {
		return errors.New(errors.ErrCodeSchemaInvalid, "schema_version %s outside supported range %s", version, SupportedSchemas)
	}
	return nil
}

func envelope() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(envelopeSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(envelopeSchemaURL, doc); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile(envelopeSchemaURL)
	})
	return compiled, compileErr
}
