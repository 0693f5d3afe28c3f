package extract_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/scenebridge/pkg/extract"
	"github.com/matzehuels/scenebridge/pkg/host/memory"
)

func ExampleExtract() {
	h := memory.New()
	h.AddNode("cam1", "transform", "", map[string]any{"translateZ": 10.0})
	h.AddNode("camShape1", "camera", "cam1", map[string]any{"renderable": true, "focalLength": 50.0})

	snap, err := extract.Extract(context.Background(), h, extract.Options{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	cam := snap.Cameras[0]
	fmt.Println(snap.SchemaVersion, snap.SceneInfo.FrameRange, snap.SceneInfo.FPS)
	fmt.Println(cam.Name, cam.FocalLength, cam.Transform.Translation())
	// Output:
	// 0.2.0 [1 24] 24
	// cam1 50 [0 0 10]
}
