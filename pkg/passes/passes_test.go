package passes

import (
	"testing"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/host/memory"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

func withRenderer(token string) *memory.Host {
	h := memory.New()
	h.SetAttr(RenderGlobals, "currentRenderer", token)
	return h
}

func countBeauty(passes []scene.PassDescriptor) int {
	n := 0
	for _, p := range passes {
		if p.IsBeauty() {
			n++
		}
	}
	return n
}

func enabledNames(passes []scene.PassDescriptor) []string {
	var out []string
	for _, p := range passes {
		if p.Enabled {
			out = append(out, p.Name)
		}
	}
	return out
}

func TestDetect(t *testing.T) {
	tests := []struct {
		token string
		want  scene.RendererID
	}{
		{"arnold", scene.Arnold},
		{"redshift", scene.Redshift},
		{"vray", scene.VRay},
		{"mentalRay", scene.MentalRay},
		{"mayaSoftware", scene.MayaSoftware},
		{"mayaHardware2", scene.MayaHardware},
		{"cycles", scene.RendererID("cycles")},
		{"", scene.MayaSoftware},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := Detect(withRenderer(tt.token)); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}

	if scene.RendererID("cycles").Known() {
		t.Error("passthrough renderer reported as known")
	}
}

func TestParseRenderer(t *testing.T) {
	tests := []struct {
		token string
		want  scene.RendererID
	}{
		{"arnold", scene.Arnold},
		{"Arnold", scene.Arnold},
		{"REDSHIFT", scene.Redshift},
		{"V-Ray", scene.VRay},
		{"mayahardware2", scene.MayaHardware},
		{"Maya Software", scene.MayaSoftware},
		{"cycles", scene.RendererID("cycles")},
	}
	for _, tt := range tests {
		if got := ParseRenderer(tt.token); got != tt.want {
			t.Errorf("ParseRenderer(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestArnoldNotLoaded(t *testing.T) {
	h := withRenderer("arnold")
	got := For(h, scene.Arnold, nil).Enumerate()
	if got == nil || len(got) != 0 {
		t.Errorf("Enumerate() = %v, want empty non-nil slice", got)
	}

	_, err := For(h, scene.Arnold, nil).Isolate("diffuse")
	if !errors.Is(err, errors.ErrCodeBackendUnavailable) {
		t.Errorf("Isolate() error = %v, want %v", err, errors.ErrCodeBackendUnavailable)
	}
}

func TestArnoldNoAOVNodes(t *testing.T) {
	h := withRenderer("arnold")
	h.LoadPlugin("mtoa")

	got := For(h, scene.Arnold, nil).Enumerate()
	if len(got) != len(StandardCatalog)+1 {
		t.Fatalf("len(Enumerate()) = %d, want %d", len(got), len(StandardCatalog)+1)
	}
	if got[0].Name != scene.BeautyName || got[0].Provenance != scene.Default || !got[0].Enabled {
		t.Errorf("first pass = %+v, want synthesized beauty", got[0])
	}
	if n := countBeauty(got); n != 1 {
		t.Errorf("beauty passes = %d, want 1", n)
	}
	for _, p := range got[1:] {
		if p.Provenance != scene.Available || p.Enabled || p.Node != "" {
			t.Errorf("catalog pass %+v, want disabled available pass without node", p)
		}
	}
	if got[1].Name != "N" || got[1].DataType != scene.DataVector {
		t.Errorf("first catalog pass = %+v, want N VECTOR", got[1])
	}
}

func TestArnoldEnumerate(t *testing.T) {
	h := withRenderer("arnold")
	h.LoadPlugin("mtoa")
	h.AddNode("aiAOV_diffuse", "aiAOV", "", map[string]any{"name": "diffuse", "type": 1, "enabled": false})
	h.AddNode("aiAOV_RGBA", "aiAOV", "", map[string]any{"name": "RGBA"})
	h.AddNode("aiAOV_Z", "aiAOV", "", map[string]any{"name": "Z", "type": 3, "filterType": "closest"})
	h.AddNode("aiAOV_beauty", "aiAOV", "", map[string]any{"name": "beauty"})
	h.AddNode("aiAOV_broken", "aiAOV", "", nil)

	got := For(h, scene.Arnold, nil).Enumerate()

	if got[0].Name != "RGBA" || got[0].Node != "aiAOV_RGBA" || got[0].Provenance != scene.InScene {
		t.Errorf("first pass = %+v, want in-scene RGBA", got[0])
	}
	if n := countBeauty(got); n != 1 {
		t.Errorf("beauty passes = %d, want 1", n)
	}

	byName := make(map[string]scene.PassDescriptor)
	for _, p := range got {
		if _, dup := byName[p.Name]; dup {
			t.Errorf("duplicate pass %q", p.Name)
		}
		byName[p.Name] = p
	}

	diffuse := byName["diffuse"]
	if diffuse.Enabled || diffuse.DataType != scene.DataRGB || diffuse.Provenance != scene.InScene {
		t.Errorf("diffuse = %+v", diffuse)
	}
	z := byName["Z"]
	if !z.Enabled || z.DataType != scene.DataFloat || z.Filter != "closest" {
		t.Errorf("Z = %+v", z)
	}
	broken := byName["aiAOV_broken"]
	if !broken.Enabled || broken.DataType != scene.DataRGBA || broken.Filter != "gaussian" {
		t.Errorf("node without attributes = %+v, want defaults", broken)
	}
	if p := byName["specular"]; p.Provenance != scene.Available {
		t.Errorf("specular provenance = %q, want %q", p.Provenance, scene.Available)
	}
}

func TestArnoldIsolateExisting(t *testing.T) {
	h := withRenderer("arnold")
	h.LoadPlugin("mtoa")
	h.AddNode("aiAOV_diffuse", "aiAOV", "", map[string]any{"name": "diffuse", "enabled": false})
	h.AddNode("aiAOV_specular", "aiAOV", "", map[string]any{"name": "specular", "enabled": true})
	h.AddNode("aiAOV_N", "aiAOV", "", map[string]any{"name": "N", "enabled": true})

	b := For(h, scene.Arnold, nil)
	iso, err := b.Isolate("diffuse")
	if err != nil {
		t.Fatalf("Isolate() error = %v", err)
	}
	if iso.Synthesized != "" || len(iso.Enabled) != 1 || iso.Enabled[0] != "aiAOV_diffuse" {
		t.Errorf("Isolate() = %+v", iso)
	}

	got := enabledNames(b.Enumerate())
	if len(got) != 1 || got[0] != "diffuse" {
		t.Errorf("enabled passes = %v, want [diffuse]", got)
	}
}

func TestArnoldIsolateByNodeName(t *testing.T) {
	h := withRenderer("arnold")
	h.LoadPlugin("mtoa")
	h.AddNode("aiAOV_crypto", "aiAOV", "", map[string]any{"name": "crypto_object"})

	iso, err := For(h, scene.Arnold, nil).Isolate("aiAOV_crypto")
	if err != nil {
		t.Fatal(err)
	}
	if len(iso.Enabled) != 1 || iso.Synthesized != "" {
		t.Errorf("Isolate() = %+v, want match by node name", iso)
	}
}

func TestArnoldIsolateSynthesizes(t *testing.T) {
	h := withRenderer("arnold")
	h.LoadPlugin("mtoa")
	h.AddNode("aiAOV_specular", "aiAOV", "", map[string]any{"name": "specular", "enabled": true})

	b := For(h, scene.Arnold, nil)
	iso, err := b.Isolate("sss")
	if err != nil {
		t.Fatalf("Isolate() error = %v", err)
	}
	if iso.Synthesized != "aiAOV_sss" {
		t.Errorf("Synthesized = %q, want aiAOV_sss", iso.Synthesized)
	}
	if got := host.Get[int](h, "aiAOV_sss", "type").Or(-1); got != 1 {
		t.Errorf("synthesized type = %d, want 1 (RGB)", got)
	}

	passes := b.Enumerate()
	got := enabledNames(passes)
	if len(got) != 1 || got[0] != "sss" {
		t.Errorf("enabled passes = %v, want [sss]", got)
	}
	if passes[0].Provenance != scene.Default || passes[0].Enabled {
		t.Errorf("beauty = %+v, want disabled default beauty", passes[0])
	}
	for _, p := range passes {
		if p.Name == "sss" && p.Provenance != scene.InScene {
			t.Errorf("sss listed twice or as %q", p.Provenance)
		}
	}
}

func TestRedshift(t *testing.T) {
	h := withRenderer("redshift")

	if got := For(h, scene.Redshift, nil).Enumerate(); len(got) != 0 {
		t.Errorf("Enumerate() without plugin = %v, want empty", got)
	}

	h.LoadPlugin("redshift4maya")
	b := For(h, scene.Redshift, nil)

	got := b.Enumerate()
	if len(got) != 1 || got[0].Provenance != scene.Default {
		t.Errorf("Enumerate() without AOV nodes = %+v, want one default beauty", got)
	}

	h.AddNode("rsAov_Depth", "RedshiftAOV", "", map[string]any{"name": "Z", "aovType": "Depth"})
	h.AddNode("rsAov_Diffuse", "RedshiftAOV", "", map[string]any{"name": "diffuse", "aovType": "Diffuse Lighting", "enabled": false})
	h.AddNode("rsAov_Bare", "RedshiftAOV", "", nil)

	got = b.Enumerate()
	if len(got) != 4 || !got[0].IsBeauty() {
		t.Fatalf("Enumerate() = %+v", got)
	}
	if got[1].Name != "Z" || got[1].DataType != scene.DataFloat || !got[1].Enabled {
		t.Errorf("Z = %+v", got[1])
	}
	if got[2].DataType != scene.DataRGB || got[2].Enabled {
		t.Errorf("diffuse = %+v", got[2])
	}
	if got[3].Name != "rsAov_Bare" || !got[3].Enabled || got[3].DataType != scene.DataRGBA {
		t.Errorf("bare node = %+v, want enabled RGBA named after node", got[3])
	}

	iso, err := b.Isolate("emission")
	if err != nil {
		t.Fatal(err)
	}
	if iso.Synthesized != "rsAov_emission" {
		t.Errorf("Synthesized = %q, want rsAov_emission", iso.Synthesized)
	}
	if names := enabledNames(b.Enumerate()); len(names) != 1 || names[0] != "emission" {
		t.Errorf("enabled passes = %v, want [emission]", names)
	}
}

func TestFallback(t *testing.T) {
	h := withRenderer("vray")
	h.AddNode("fgLayer", "renderLayer", "", map[string]any{"renderable": true})
	h.AddNode("bgLayer", "renderLayer", "", map[string]any{"renderable": false})
	h.AddNode("fxLayer", "renderLayer", "", map[string]any{"renderable": true})

	b := For(h, scene.VRay, nil)
	if b.ID() != scene.VRay || !b.Available() {
		t.Errorf("ID() = %q, Available() = %v", b.ID(), b.Available())
	}

	got := b.Enumerate()
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	want := []string{"beauty", "fgLayer", "fxLayer"}
	if len(names) != len(want) {
		t.Fatalf("Enumerate() names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Enumerate()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if b.DefaultSettings(Full) != nil {
		t.Error("fallback has default settings")
	}

	if _, err := b.Isolate("fxLayer"); err != nil {
		t.Fatal(err)
	}
	for layer, want := range map[string]bool{"defaultRenderLayer": false, "fgLayer": false, "bgLayer": false, "fxLayer": true} {
		if got := host.Get[bool](h, layer, "renderable").Or(!want); got != want {
			t.Errorf("%s.renderable = %v, want %v", layer, got, want)
		}
	}

	before := len(h.ListByType("renderLayer"))
	iso, err := b.Isolate("missing")
	if err != nil || iso.Synthesized != "" || len(h.ListByType("renderLayer")) != before {
		t.Errorf("Isolate(missing) = %+v, %v; fallback must not create layers", iso, err)
	}
}

func TestDefaultSettings(t *testing.T) {
	h := withRenderer("arnold")

	preview := For(h, scene.Arnold, nil).DefaultSettings(Preview)
	full := For(h, scene.Arnold, nil).DefaultSettings(Full)
	if len(preview) != 4 || len(full) != 4 {
		t.Fatalf("settings = %d, %d, want 4, 4", len(preview), len(full))
	}
	if preview[0].Attr != "AASamples" || preview[0].Value != 1 {
		t.Errorf("preview[0] = %+v", preview[0])
	}
	if preview[1].Value != 0 || full[1].Value != 1 {
		t.Errorf("GI samples preview = %v, full = %v, want 0, 1", preview[1].Value, full[1].Value)
	}

	rs := For(h, scene.Redshift, nil).DefaultSettings(Full)
	if len(rs) != 2 || rs[0].Node != "redshiftOptions" {
		t.Errorf("redshift settings = %+v", rs)
	}
}

func TestEnsureBeauty(t *testing.T) {
	tests := []struct {
		name    string
		in      []scene.PassDescriptor
		first   string
		count   int
		enabled bool
	}{
		{"empty stays empty", []scene.PassDescriptor{}, "", 0, false},
		{"synthesized", []scene.PassDescriptor{{Name: "N"}}, "beauty", 2, true},
		{"synthesized behind enabled pass", []scene.PassDescriptor{{Name: "N", Enabled: true, Provenance: scene.InScene}}, "beauty", 2, false},
		{"synthesized behind available pass", []scene.PassDescriptor{{Name: "N", Enabled: true, Provenance: scene.Available}}, "beauty", 2, true},
		{"moved to front", []scene.PassDescriptor{{Name: "N"}, {Name: "RGBA", Enabled: true}}, "RGBA", 2, true},
		{"duplicates dropped", []scene.PassDescriptor{{Name: "Beauty"}, {Name: "N"}, {Name: "rgba"}}, "Beauty", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureBeauty(tt.in)
			if len(got) != tt.count {
				t.Fatalf("len = %d, want %d", len(got), tt.count)
			}
			if tt.count > 0 && got[0].Name != tt.first {
				t.Errorf("first = %q, want %q", got[0].Name, tt.first)
			}
			if tt.count > 0 && got[0].Enabled != tt.enabled {
				t.Errorf("first enabled = %v, want %v", got[0].Enabled, tt.enabled)
			}
		})
	}
}

func TestReadSettings(t *testing.T) {
	h := memory.New()
	h.SetWorkspace("/proj/shot010", map[string]string{"images": "renders/images"})
	h.SetAttr(RenderGlobals, "imageFormat", 8)
	h.SetAttr(RenderGlobals, "extensionPadding", 4)
	h.SetAttr(Resolution, "width", 1280)
	h.SetAttr(Resolution, "height", 720)

	got := ReadSettings(h, nil)
	if got.Resolution.Width != 1280 || got.Resolution.Height != 720 {
		t.Errorf("Resolution = %+v", got.Resolution)
	}
	if got.ImageFormat != "png" {
		t.Errorf("ImageFormat = %q, want png", got.ImageFormat)
	}
	if got.FramePadding != 4 {
		t.Errorf("FramePadding = %d, want 4", got.FramePadding)
	}
	if got.OutputDir != "/proj/shot010/renders/images" {
		t.Errorf("OutputDir = %q", got.OutputDir)
	}

	for code, want := range map[int]string{0: "iff", 19: "tif", 32: "exr", 99: "exr"} {
		if got := ImageFormat(code); got != want {
			t.Errorf("ImageFormat(%d) = %q, want %q", code, got, want)
		}
	}
	for ext, want := range map[string]bool{"exr": true, ".PNG": true, "jpeg": true, "tif": true, "ma": false, "txt": false, "": false} {
		if got := IsImageFormat(ext); got != want {
			t.Errorf("IsImageFormat(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestReport(t *testing.T) {
	h := withRenderer("arnold")
	h.LoadPlugin("mtoa")
	h.SetWorkspace("/proj", nil)
	h.AddNode("aiAOV_N", "aiAOV", "", map[string]any{"name": "N"})

	r := NewResolver(h, nil).Report()
	if r.Renderer != scene.Arnold {
		t.Errorf("Renderer = %q", r.Renderer)
	}
	if r.Settings.OutputDir != "/proj/images" {
		t.Errorf("OutputDir = %q", r.Settings.OutputDir)
	}
	for _, p := range r.Passes {
		switch p.Provenance {
		case scene.InScene:
			if p.OutputPath != "/proj/images" {
				t.Errorf("%s OutputPath = %q", p.Name, p.OutputPath)
			}
		default:
			if p.OutputPath != "" {
				t.Errorf("%s (%s) OutputPath = %q, want empty", p.Name, p.Provenance, p.OutputPath)
			}
		}
	}
}
