package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// WriteJSON encodes env to w with two-space indentation.
func WriteJSON(w io.Writer, env *Envelope) error {
	if err := encode(w, env); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export wraps snap in a new envelope and writes it atomically to path.
// It returns the envelope that was written.
func Export(path string, snap *scene.Snapshot) (*Envelope, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	env := NewEnvelope(snap)
	if err := WriteFile(path, env); err != nil {
		return nil, err
	}
	return env, nil
}

// WriteFile writes env to path through a temporary file in the same
// directory, then renames it over path.
func WriteFile(path string, env *Envelope) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := WriteJSON(tmp, env); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
