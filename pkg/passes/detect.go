package passes

import (
	"strings"

	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// RenderGlobals is the node holding global render settings.
const RenderGlobals = "defaultRenderGlobals"

// rendererTokens maps the host's currentRenderer token to an identity.
var rendererTokens = map[string]scene.RendererID{
	"arnold":        scene.Arnold,
	"redshift":      scene.Redshift,
	"vray":          scene.VRay,
	"mentalRay":     scene.MentalRay,
	"mayaSoftware":  scene.MayaSoftware,
	"mayaHardware2": scene.MayaHardware,
}

// Detect returns the active renderer. Unknown tokens pass through verbatim;
// an unreadable or empty token means the host default, Maya Software.
func Detect(h host.AttributeStore) scene.RendererID {
	token := host.Get[string](h, RenderGlobals, "currentRenderer").Or("")
	if token == "" {
		return scene.MayaSoftware
	}
	return ParseRenderer(token)
}

// ParseRenderer maps a renderer token such as "arnold" or a display name
// such as "V-Ray" to its identity, ignoring case. Unknown tokens pass
// through verbatim.
func ParseRenderer(token string) scene.RendererID {
	if id, ok := rendererTokens[token]; ok {
		return id
	}
	for t, id := range rendererTokens {
		if strings.EqualFold(t, token) || strings.EqualFold(string(id), token) {
			return id
		}
	}
	return scene.RendererID(token)
}
