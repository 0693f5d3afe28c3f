package extract

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/materials"
	"github.com/matzehuels/scenebridge/pkg/sampler"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// walk holds the state of one extraction.
type walk struct {
	b       *Builder
	opts    Options
	logger  *log.Logger
	sampler *sampler.Sampler

	// selected is nil under the exhaustive policy.
	selected map[string]bool
	frames   [2]int
}

func (w *walk) host() host.Host { return w.b.Host }

// transformOf returns the parent transform of shape, or shape itself.
func (w *walk) transformOf(shape string) string {
	if parent, ok := w.host().Parent(shape); ok {
		return parent
	}
	return shape
}

// include reports whether transform is visited under the active policy.
func (w *walk) include(transform string) bool {
	if w.selected == nil {
		return true
	}
	for node := transform; ; {
		if w.selected[node] {
			return true
		}
		parent, ok := w.host().Parent(node)
		if !ok {
			return false
		}
		node = parent
	}
}

// world evaluates the current world matrix of node.
func (w *walk) world(node string) (scene.Matrix, error) {
	h := w.host()
	if err := h.MarkDirty(node); err != nil {
		return scene.Matrix{}, wrapNode(err, node)
	}
	tr, err := h.WorldTransform(node)
	if err != nil {
		return scene.Matrix{}, wrapNode(err, node)
	}
	return scene.Matrix(tr.Matrix), nil
}

func (w *walk) bake(ctx context.Context, node string) ([]scene.FramePose, error) {
	if !w.opts.Bake {
		return nil, nil
	}
	return w.sampler.Sample(ctx, node, w.frames[0], w.frames[1])
}

func (w *walk) visible(node string) bool {
	return host.Get[bool](w.host(), node, "visibility").OrLog(w.logger, true)
}

func (w *walk) cameras(ctx context.Context) ([]scene.CameraRecord, error) {
	h := w.host()
	out := []scene.CameraRecord{}
	for _, shape := range h.ListByType(scene.TypeCamera) {
		tr := w.transformOf(shape)
		if !w.include(tr) {
			continue
		}
		renderable := host.Get[bool](h, shape, "renderable").OrLog(w.logger, false)
		ortho := host.Get[bool](h, shape, "orthographic").OrLog(w.logger, false)
		if w.selected != nil && (!renderable || ortho) {
			w.logger.Debug("skip camera", "camera", tr, "renderable", renderable, "orthographic", ortho)
			continue
		}

		matrix, err := w.world(tr)
		if err != nil {
			return nil, err
		}
		anim, err := w.bake(ctx, tr)
		if err != nil {
			return nil, err
		}
		rec := scene.CameraRecord{
			Name:                   tr,
			FullPath:               h.FullPath(tr),
			ShapeName:              shape,
			Type:                   scene.TypeCamera,
			Transform:              matrix,
			FocalLength:            host.Get[float64](h, shape, "focalLength").OrLog(w.logger, 35),
			HorizontalFilmAperture: host.Get[float64](h, shape, "horizontalFilmAperture").OrLog(w.logger, 1.417),
			VerticalFilmAperture:   host.Get[float64](h, shape, "verticalFilmAperture").OrLog(w.logger, 0.945),
			NearClip:               host.Get[float64](h, shape, "nearClipPlane").OrLog(w.logger, 0.1),
			FarClip:                host.Get[float64](h, shape, "farClipPlane").OrLog(w.logger, 10000),
			Renderable:             renderable,
			Orthographic:           ortho,
			Visible:                w.visible(tr),
			Animation:              anim,
		}
		if w.b.Materials != nil {
			if m, ok := w.b.Materials.MaterialFor(tr); ok {
				rec.Material = m
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (w *walk) meshes(ctx context.Context) ([]scene.MeshRecord, error) {
	h := w.host()
	out := []scene.MeshRecord{}
	for _, shape := range h.ListByType(scene.TypeMesh) {
		if host.Get[bool](h, shape, "intermediateObject").OrLog(w.logger, false) {
			continue
		}
		tr := w.transformOf(shape)
		if !w.include(tr) {
			continue
		}

		matrix, err := w.world(tr)
		if err != nil {
			return nil, err
		}
		anim, err := w.bake(ctx, tr)
		if err != nil {
			return nil, err
		}
		out = append(out, scene.MeshRecord{
			Name:      tr,
			FullPath:  h.FullPath(tr),
			ShapeName: shape,
			Type:      scene.TypeMesh,
			Transform: matrix,
			Geometry:  w.geometry(shape),
			Material:  materials.MaterialOr(w.b.Materials, shape),
			Visible:   w.visible(tr),
			Animation: anim,
		})
	}
	return out, nil
}

func (w *walk) geometry(shape string) scene.MeshGeometry {
	stats, err := w.host().MeshStats(shape)
	if err != nil {
		w.logger.Debug("mesh statistics unavailable", "shape", shape, "error", err)
	}
	uvs := append([]string{}, stats.UVSets...)
	return scene.MeshGeometry{
		VertexCount:   stats.Vertices,
		FaceCount:     stats.Faces,
		TriangleCount: stats.Triangles,
		UVSets:        uvs,
		HasUVs:        len(uvs) > 0,
	}
}

func (w *walk) lights() ([]scene.LightRecord, error) {
	h := w.host()
	out := []scene.LightRecord{}
	for _, typ := range scene.LightTypes {
		for _, shape := range h.ListByType(typ) {
			tr := w.transformOf(shape)
			if !w.include(tr) {
				continue
			}
			matrix, err := w.world(tr)
			if err != nil {
				return nil, err
			}
			out = append(out, scene.LightRecord{
				Name:      tr,
				FullPath:  h.FullPath(tr),
				ShapeName: shape,
				Type:      typ,
				Transform: matrix,
				Color:     host.Get[[3]float64](h, shape, "color").OrLog(w.logger, [3]float64{1, 1, 1}),
				Intensity: host.Get[float64](h, shape, "intensity").OrLog(w.logger, 1),
				Enabled:   w.visible(shape),
				Visible:   w.visible(tr),
			})
		}
	}
	return out, nil
}

func (w *walk) locators(ctx context.Context) ([]scene.LocatorRecord, error) {
	h := w.host()
	out := []scene.LocatorRecord{}
	for _, shape := range h.ListByType(scene.TypeLocator) {
		tr := w.transformOf(shape)
		if !w.include(tr) {
			continue
		}
		matrix, err := w.world(tr)
		if err != nil {
			return nil, err
		}
		anim, err := w.bake(ctx, tr)
		if err != nil {
			return nil, err
		}
		out = append(out, scene.LocatorRecord{
			Name:      tr,
			FullPath:  h.FullPath(tr),
			ShapeName: shape,
			Type:      scene.TypeLocator,
			Transform: matrix,
			Visible:   w.visible(tr),
			Animation: anim,
		})
	}
	return out, nil
}
