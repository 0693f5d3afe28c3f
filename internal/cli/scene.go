package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/scenebridge/pkg/cache"
	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host/memory"
)

// loadScene reads a scene description and returns its host together with a
// hash of the file contents for cache keys.
func loadScene(path string) (*memory.Host, string, error) {
	if err := errors.ValidateSceneFile(path); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "scene not found: %s", path)
		}
		return nil, "", fmt.Errorf("read scene: %w", err)
	}

	f, err := memory.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	h, err := f.Build()
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return h, cache.Hash(data), nil
}

// sceneStem returns the scene file name without directory or extension.
func sceneStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
