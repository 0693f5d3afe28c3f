package extract

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/scenebridge/pkg/cache"
	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/host/memory"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

func shotScene() *memory.Host {
	h := memory.New()
	h.SetSceneName("/shows/demo/shot010.ma")

	h.AddNode("shotCam", "transform", "", map[string]any{"translateX": 5.0, "translateZ": 20.0})
	h.AddNode("shotCamShape", "camera", "shotCam", map[string]any{"focalLength": 50.0, "renderable": true})
	h.SetKeys("shotCam", "translateY", []memory.Key{{Frame: 1, Value: 0}, {Frame: 24, Value: 23}})

	h.AddNode("top", "transform", "", map[string]any{"translateY": 100.0})
	h.AddNode("topShape", "camera", "top", map[string]any{"orthographic": true, "renderable": false})

	h.AddNode("pCube1", "transform", "", map[string]any{"translateY": 1.0})
	h.AddNode("pCubeShape1", "mesh", "pCube1", nil)
	h.SetMeshStats("pCubeShape1", host.MeshStats{Vertices: 8, Faces: 6, Triangles: 12, UVSets: []string{"map1"}})
	h.AddNode("pCubeShapeOrig", "mesh", "pCube1", map[string]any{"intermediateObject": true})

	h.AddNode("pHidden", "transform", "", map[string]any{"visibility": false})
	h.AddNode("pHiddenShape", "mesh", "pHidden", nil)

	h.AddNode("keyLight", "transform", "", nil)
	h.AddNode("keyLightShape", "pointLight", "keyLight", map[string]any{
		"color":     []any{1.0, 0.9, 0.8},
		"intensity": 2.5,
	})

	h.AddNode("rig", "transform", "", nil)
	h.AddNode("ctrl", "transform", "rig", nil)
	h.AddNode("ctrlShape", "locator", "ctrl", nil)
	return h
}

func TestExtractExhaustive(t *testing.T) {
	h := shotScene()
	snap, err := New(h, nil).Extract(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if snap.SchemaVersion != SchemaExhaustive {
		t.Errorf("SchemaVersion = %q, want %q", snap.SchemaVersion, SchemaExhaustive)
	}
	c, m, l, loc := snap.Counts()
	if c != 2 || m != 2 || l != 1 || loc != 1 {
		t.Errorf("Counts() = %d, %d, %d, %d, want 2, 2, 1, 1", c, m, l, loc)
	}

	cam := snap.Cameras[0]
	if cam.Name != "shotCam" || cam.ShapeName != "shotCamShape" || cam.Type != scene.TypeCamera {
		t.Errorf("camera = %s/%s/%s, want shotCam/shotCamShape/camera", cam.Name, cam.ShapeName, cam.Type)
	}
	if cam.FocalLength != 50 {
		t.Errorf("FocalLength = %v, want 50", cam.FocalLength)
	}
	if got := cam.Transform.Translation(); got != [3]float64{5, 0, 20} {
		t.Errorf("camera translation = %v, want [5 0 20]", got)
	}
	if cam.Animation != nil {
		t.Errorf("Animation = %v, want nil without baking", cam.Animation)
	}
	if top := snap.Cameras[1]; top.FocalLength != 35 || !top.Orthographic || top.FarClip != 10000 {
		t.Errorf("top camera = %+v, want defaults with orthographic", top)
	}

	cube := snap.Meshes[0]
	if cube.Name != "pCube1" || cube.ShapeName != "pCubeShape1" {
		t.Errorf("mesh = %s/%s, want pCube1/pCubeShape1", cube.Name, cube.ShapeName)
	}
	if cube.Geometry.VertexCount != 8 || cube.Geometry.FaceCount != 6 || !cube.Geometry.HasUVs {
		t.Errorf("Geometry = %+v, want 8 vertices, 6 faces, uvs", cube.Geometry)
	}
	if cube.Material != "lambert1" {
		t.Errorf("Material = %q, want lambert1", cube.Material)
	}
	if !cube.Visible {
		t.Error("pCube1 reported hidden")
	}

	hidden := snap.Meshes[1]
	if hidden.Visible {
		t.Error("pHidden reported visible")
	}
	if hidden.Geometry.UVSets == nil || hidden.Geometry.HasUVs {
		t.Errorf("hidden Geometry = %+v, want empty uv sets", hidden.Geometry)
	}

	light := snap.Lights[0]
	if light.Type != "pointLight" || light.Intensity != 2.5 || light.Color != [3]float64{1, 0.9, 0.8} {
		t.Errorf("light = %+v", light)
	}
	if !light.Enabled || !light.Visible {
		t.Errorf("light Enabled, Visible = %v, %v, want true, true", light.Enabled, light.Visible)
	}

	if snap.Locators[0].FullPath != "|rig|ctrl" {
		t.Errorf("locator FullPath = %q, want |rig|ctrl", snap.Locators[0].FullPath)
	}
	if snap.RenderPasses != nil || snap.Materials != nil {
		t.Error("passes or materials present without being requested")
	}
}

func TestExtractSceneInfo(t *testing.T) {
	h := shotScene()
	h.SetPlaybackRange(0.6, 48.4)
	h.SetUnit(host.UnitTime, "pal")
	h.SetCurrentTime(12)

	snap, err := Extract(context.Background(), h, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := scene.SceneInfo{
		CurrentFrame: 12,
		FrameRange:   [2]int{1, 48},
		FPS:          25,
		TimeUnit:     "pal",
		SceneFile:    "/shows/demo/shot010.ma",
		UpAxis:       "y",
		LinearUnit:   "cm",
		AngularUnit:  "deg",
	}
	if snap.SceneInfo != want {
		t.Errorf("SceneInfo = %+v, want %+v", snap.SceneInfo, want)
	}
}

func TestFPS(t *testing.T) {
	tests := []struct {
		unit string
		want float64
	}{
		{"game", 15},
		{"film", 24},
		{"pal", 25},
		{"ntsc", 30},
		{"show", 48},
		{"palf", 50},
		{"ntscf", 60},
		{"millisecond", DefaultFPS},
		{"", DefaultFPS},
	}
	for _, tt := range tests {
		if got := FPS(tt.unit); got != tt.want {
			t.Errorf("FPS(%q) = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestExtractSelection(t *testing.T) {
	h := shotScene()
	h.Select("shotCam", "top", "pCubeShape1", "rig")
	h.SetCurrentTime(7)

	snap, err := New(h, nil).Extract(context.Background(), Options{Policy: Selection})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if snap.SchemaVersion != SchemaSelection {
		t.Errorf("SchemaVersion = %q, want %q", snap.SchemaVersion, SchemaSelection)
	}
	c, m, l, loc := snap.Counts()
	if c != 1 || m != 1 || l != 0 || loc != 1 {
		t.Fatalf("Counts() = %d, %d, %d, %d, want 1, 1, 0, 1", c, m, l, loc)
	}
	if snap.Meshes[0].Name != "pCube1" {
		t.Errorf("mesh = %q, want pCube1", snap.Meshes[0].Name)
	}
	if snap.Locators[0].Name != "ctrl" {
		t.Errorf("locator = %q, want ctrl", snap.Locators[0].Name)
	}

	anim := snap.Cameras[0].Animation
	if len(anim) != 24 {
		t.Fatalf("len(Animation) = %d, want 24", len(anim))
	}
	for i, p := range anim {
		if p.Frame != i+1 {
			t.Errorf("Animation[%d].Frame = %d, want %d", i, p.Frame, i+1)
		}
		if want := float64(i); math.Abs(p.Translation[1]-want) > 1e-9 {
			t.Errorf("frame %d translateY = %v, want %v", p.Frame, p.Translation[1], want)
		}
	}
	if len(snap.Meshes[0].Animation) != 24 || len(snap.Locators[0].Animation) != 24 {
		t.Error("mesh or locator not baked under selection policy")
	}

	if h.CurrentTime() != 7 {
		t.Errorf("CurrentTime() = %v, want 7", h.CurrentTime())
	}
	// static transform is read at the restored time
	if got := snap.Cameras[0].Transform.Translation()[1]; math.Abs(got-6) > 1e-9 {
		t.Errorf("camera translateY = %v, want 6", got)
	}
}

func TestExtractFrameRange(t *testing.T) {
	h := shotScene()
	snap, err := New(h, nil).Extract(context.Background(), Options{
		Bake:       true,
		FrameRange: &[2]int{10, 12},
	})
	if err != nil {
		t.Fatal(err)
	}
	anim := snap.Cameras[0].Animation
	if len(anim) != 3 || anim[0].Frame != 10 || anim[2].Frame != 12 {
		t.Errorf("Animation = %+v, want frames 10..12", anim)
	}
	if snap.Lights[0].Transform != (scene.Matrix{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}) {
		t.Errorf("light Transform = %v, want identity", snap.Lights[0].Transform)
	}
}

func TestExtractNodeVanishes(t *testing.T) {
	h := shotScene()
	h.SetCurrentTime(5)
	h.OnTimeChange = func(h *memory.Host, t float64) {
		if t == 3 {
			h.DeleteNode("shotCam")
		}
	}

	snap, err := New(h, nil).Extract(context.Background(), Options{Bake: true})
	if !errors.Is(err, errors.ErrCodeNodeUnavailable) {
		t.Fatalf("Extract() error = %v, want %v", err, errors.ErrCodeNodeUnavailable)
	}
	if snap != nil {
		t.Error("partial snapshot returned")
	}
	if h.CurrentTime() != 5 {
		t.Errorf("CurrentTime() = %v, want 5", h.CurrentTime())
	}
}

func TestExtractInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"unknown policy", Options{Policy: "everything"}},
		{"reversed range", Options{FrameRange: &[2]int{10, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(shotScene(), nil).Extract(context.Background(), tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Extract() error = %v, want %v", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestExtractPassesAndMaterials(t *testing.T) {
	h := shotScene()
	h.SetAttr("defaultRenderGlobals", "currentRenderer", "arnold")
	h.LoadPlugin("mtoa")
	h.AddNode("aiAOV_diffuse", "aiAOV", "", map[string]any{"name": "diffuse", "type": 1})

	h.AddNode("blinn1", "blinn", "", map[string]any{"color": []any{0.8, 0.1, 0.1}})
	h.AddNode("blinn1SG", "shadingEngine", "", nil)
	h.Connect("blinn1.outColor", "blinn1SG.surfaceShader")
	h.Connect("pCubeShape1.instObjGroups", "blinn1SG.dagSetMembers")
	h.AddMembers("blinn1SG", "pCubeShape1")

	snap, err := New(h, nil).Extract(context.Background(), Options{IncludePasses: true, IncludeMaterials: true})
	if err != nil {
		t.Fatal(err)
	}

	report := snap.RenderPasses
	if report == nil {
		t.Fatal("RenderPasses = nil")
	}
	if report.Renderer != scene.Arnold {
		t.Errorf("Renderer = %q, want %q", report.Renderer, scene.Arnold)
	}
	if len(report.Passes) == 0 || !report.Passes[0].IsBeauty() {
		t.Fatalf("first pass = %+v, want beauty", report.Passes)
	}
	if report.Settings.ImageFormat != "exr" {
		t.Errorf("ImageFormat = %q, want exr", report.Settings.ImageFormat)
	}

	if snap.Meshes[0].Material != "blinn1" {
		t.Errorf("pCube1 Material = %q, want blinn1", snap.Meshes[0].Material)
	}
	if snap.Meshes[1].Material != "lambert1" {
		t.Errorf("pHidden Material = %q, want lambert1", snap.Meshes[1].Material)
	}
	if len(snap.Materials) != 1 || snap.Materials[0].Name != "blinn1" {
		t.Fatalf("Materials = %+v, want blinn1", snap.Materials)
	}
	if got := snap.Materials[0].AssignedObjects; len(got) != 1 || got[0] != "pCube1" {
		t.Errorf("AssignedObjects = %v, want [pCube1]", got)
	}
}

func TestRunnerCachesSnapshots(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(New(shotScene(), nil), fc, nil, nil)
	hash := cache.Hash([]byte("shot010"))

	first, hit, err := r.Extract(ctx, hash, Options{})
	if err != nil || hit {
		t.Fatalf("first Extract() = hit %v, err %v, want miss", hit, err)
	}
	second, hit, err := r.Extract(ctx, hash, Options{})
	if err != nil || !hit {
		t.Fatalf("second Extract() = hit %v, err %v, want hit", hit, err)
	}
	if second.Meshes[0].Geometry.VertexCount != first.Meshes[0].Geometry.VertexCount {
		t.Errorf("cached VertexCount = %d, want %d", second.Meshes[0].Geometry.VertexCount, first.Meshes[0].Geometry.VertexCount)
	}

	if _, hit, _ := r.Extract(ctx, hash, Options{Policy: Selection}); hit {
		t.Error("different policy served from cache")
	}
	if _, hit, _ := r.Extract(ctx, "", Options{}); hit {
		t.Error("empty scene hash served from cache")
	}
}
