package output

import (
	"strings"

	"github.com/matzehuels/scenebridge/pkg/passes"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// previewPasses select preview mode.
var previewPasses = map[string]bool{
	"preview":  true,
	"beauty":   true,
	"viewport": true,
}

// ModeFor returns the render mode for a pass name.
func ModeFor(pass string) passes.Mode {
	if previewPasses[strings.ToLower(pass)] {
		return passes.Preview
	}
	return passes.Full
}

// Image format codes written to defaultRenderGlobals.imageFormat.
const (
	formatPNG = 8
	formatEXR = 32
)

// CommonSettings returns the render globals every backend gets for mode.
func CommonSettings(mode passes.Mode) []passes.Setting {
	g := passes.RenderGlobals
	if mode == passes.Preview {
		return []passes.Setting{
			{Node: g, Attr: "animation", Value: false},
			{Node: g, Attr: "imageFormat", Value: formatPNG},
		}
	}
	return []passes.Setting{
		{Node: g, Attr: "animation", Value: true},
		{Node: g, Attr: "extensionPadding", Value: 4},
		{Node: g, Attr: "putFrameBeforeExt", Value: true},
		{Node: g, Attr: "imageFormat", Value: formatEXR},
	}
}

// Extension returns the file extension a mode renders to.
func Extension(mode passes.Mode) string {
	if mode == passes.Preview {
		return passes.ImageFormat(formatPNG)
	}
	return passes.ImageFormat(formatEXR)
}

// hasPassNodes reports whether the backend's passes are toggled through an
// enabled attribute on pass nodes.
func hasPassNodes(id scene.RendererID) bool {
	return id == scene.Arnold || id == scene.Redshift
}
