package passes

import (
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// Resolution is the node holding the output image size.
const Resolution = "defaultResolution"

// imageFormats maps the host's imageFormat enum to a file extension token.
var imageFormats = map[int]string{
	0:  "iff",
	1:  "tiff",
	2:  "sgi",
	3:  "als",
	4:  "rla",
	5:  "jpg",
	6:  "tga",
	7:  "bmp",
	8:  "png",
	19: "tif",
	32: "exr",
}

// DefaultImageFormat is used for unknown imageFormat values.
const DefaultImageFormat = "exr"

// ImageFormat returns the extension token for an imageFormat enum value.
func ImageFormat(code int) string {
	if f, ok := imageFormats[code]; ok {
		return f
	}
	return DefaultImageFormat
}

// IsImageFormat reports whether ext, with or without a leading dot, is an
// extension the host writes images to.
func IsImageFormat(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "jpeg" {
		return true
	}
	for _, f := range imageFormats {
		if f == ext {
			return true
		}
	}
	return false
}

// OutputDir joins the workspace root and its "images" file rule.
func OutputDir(env host.Environment) string {
	rule := env.FileRule("images")
	if rule == "" {
		rule = "images"
	}
	root := env.WorkspaceRoot()
	if root == "" || path.IsAbs(rule) {
		return rule
	}
	return path.Join(root, rule)
}

// ReadSettings reads the global render settings. Unreadable attributes use
// the host defaults.
func ReadSettings(h host.Host, logger *log.Logger) scene.RenderSettings {
	width := host.Get[int](h, Resolution, "width").OrLog(logger, 1920)
	height := host.Get[int](h, Resolution, "height").OrLog(logger, 1080)
	aspect := 0.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}

	return scene.RenderSettings{
		Resolution: scene.Resolution{
			Width:       width,
			Height:      height,
			AspectRatio: host.Get[float64](h, Resolution, "deviceAspectRatio").OrLog(logger, aspect),
		},
		FramePadding: host.Get[int](h, RenderGlobals, "extensionPadding").OrLog(logger, 4),
		ImageFormat:  ImageFormat(host.Get[int](h, RenderGlobals, "imageFormat").OrLog(logger, 32)),
		OutputDir:    OutputDir(h),
		Animation:    host.Get[bool](h, RenderGlobals, "animation").OrLog(logger, false),
		StartFrame:   host.Get[float64](h, RenderGlobals, "startFrame").OrLog(logger, 1),
		EndFrame:     host.Get[float64](h, RenderGlobals, "endFrame").OrLog(logger, 1),
		ByFrame:      host.Get[float64](h, RenderGlobals, "byFrameStep").OrLog(logger, 1),
	}
}
