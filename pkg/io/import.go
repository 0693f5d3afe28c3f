package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/scenebridge/pkg/errors"
)

// Decode parses a document into a generic map without validating it.
func Decode(r io.Reader) (map[string]any, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document")
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeSchemaInvalid, "document is not a JSON object")
	}
	return doc, nil
}

// ReadJSON decodes and validates an envelope from r. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*Envelope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaInvalid, err, "decode envelope")
	}
	return &env, nil
}

// Import reads and validates the envelope stored at path.
func Import(path string) (*Envelope, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "document not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	env, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}
