package passes

import (
	"strings"

	"github.com/matzehuels/scenebridge/pkg/scene"
)

// CatalogEntry is a standard pass a renderer can produce.
type CatalogEntry struct {
	Name     string
	DataType scene.DataType
}

// StandardCatalog is the set of standard Arnold AOVs, in report order.
var StandardCatalog = []CatalogEntry{
	{"N", scene.DataVector},
	{"Z", scene.DataFloat},
	{"P", scene.DataVector},
	{"ID", scene.DataInt},
	{"motionvector", scene.DataVector},
	{"diffuse", scene.DataRGB},
	{"specular", scene.DataRGB},
	{"coat", scene.DataRGB},
	{"sheen", scene.DataRGB},
	{"transmission", scene.DataRGB},
	{"sss", scene.DataRGB},
	{"emission", scene.DataRGB},
	{"background", scene.DataRGB},
	{"shadow_matte", scene.DataRGBA},
	{"albedo", scene.DataRGB},
}

// CatalogType returns the data type of a standard pass, or RGBA.
func CatalogType(name string) scene.DataType {
	for _, e := range StandardCatalog {
		if strings.EqualFold(e.Name, name) {
			return e.DataType
		}
	}
	return scene.DataRGBA
}

// dataTypes is the host's enum order for AOV data types.
var dataTypes = []scene.DataType{
	scene.DataRGBA,
	scene.DataRGB,
	scene.DataVector,
	scene.DataFloat,
	scene.DataInt,
}

func dataTypeFromEnum(i int) scene.DataType {
	if i < 0 || i >= len(dataTypes) {
		return scene.DataRGBA
	}
	return dataTypes[i]
}

func enumFromDataType(dt scene.DataType) int {
	for i, t := range dataTypes {
		if t == dt {
			return i
		}
	}
	return 0
}

// EnsureBeauty moves the first beauty pass to the front and drops later
// ones. Without one, a default beauty pass is synthesized; it is enabled
// only when no in-scene pass is. Empty input stays empty.
func EnsureBeauty(passes []scene.PassDescriptor) []scene.PassDescriptor {
	if len(passes) == 0 {
		return passes
	}
	out := make([]scene.PassDescriptor, 0, len(passes)+1)
	out = append(out, scene.PassDescriptor{})
	found := false
	for _, p := range passes {
		if p.IsBeauty() {
			if !found {
				out[0] = p
				found = true
			}
			continue
		}
		out = append(out, p)
	}
	if !found {
		out[0] = beautyPass()
		out[0].Enabled = !anyEnabledInScene(passes)
	}
	return out
}

func anyEnabledInScene(passes []scene.PassDescriptor) bool {
	for _, p := range passes {
		if p.Enabled && p.Provenance == scene.InScene {
			return true
		}
	}
	return false
}

func beautyPass() scene.PassDescriptor {
	return scene.PassDescriptor{
		Name:       scene.BeautyName,
		DataType:   scene.DataRGBA,
		Enabled:    true,
		Provenance: scene.Default,
	}
}
