package extract

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/cache"
	"github.com/matzehuels/scenebridge/pkg/errors"
)

// Policy selects which nodes an extraction visits.
type Policy string

const (
	// Exhaustive visits every camera, mesh, light and locator in the scene.
	Exhaustive Policy = "exhaustive"
	// Selection visits only what is under the current selection and always
	// bakes animation.
	Selection Policy = "selection"
)

// Schema versions written by each policy.
const (
	SchemaExhaustive = "0.2.0"
	SchemaSelection  = "0.6.0"
)

// DefaultPolicy is used when Options.Policy is empty.
const DefaultPolicy = Exhaustive

// SchemaFor returns the schema version a policy writes.
func SchemaFor(p Policy) string {
	if p == Selection {
		return SchemaSelection
	}
	return SchemaExhaustive
}

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Exhaustive, Selection:
		return Policy(s), nil
	case "":
		return DefaultPolicy, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid policy %q (must be one of: exhaustive, selection)", s)
}

// Options configures one extraction.
type Options struct {
	Policy        Policy `json:"policy"`
	SchemaVersion string `json:"schema_version,omitempty"`

	IncludePasses    bool `json:"include_passes"`
	IncludeMaterials bool `json:"include_materials"`

	// Bake samples animation for cameras, meshes and locators. The
	// selection policy always bakes.
	Bake bool `json:"bake,omitempty"`

	// FrameRange bounds baking. Nil means the playback range.
	FrameRange *[2]int `json:"frame_range,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	p, err := ParsePolicy(string(o.Policy))
	if err != nil {
		return err
	}
	o.Policy = p
	if o.SchemaVersion == "" {
		o.SchemaVersion = SchemaFor(o.Policy)
	}
	if o.Policy == Selection {
		o.Bake = true
	}
	if o.FrameRange != nil {
		if err := errors.ValidateFrameRange(o.FrameRange[0], o.FrameRange[1]); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// KeyOpts returns the cache key options for o. Call after ValidateAndSetDefaults.
func (o Options) KeyOpts() cache.SnapshotKeyOpts {
	k := cache.SnapshotKeyOpts{
		Policy:           string(o.Policy),
		SchemaVersion:    o.SchemaVersion,
		IncludePasses:    o.IncludePasses,
		IncludeMaterials: o.IncludeMaterials,
		Bake:             o.Bake,
	}
	if o.FrameRange != nil {
		k.FrameStart, k.FrameEnd = o.FrameRange[0], o.FrameRange[1]
	}
	return k
}

// String summarizes the options for logs.
func (o Options) String() string {
	return fmt.Sprintf("policy=%s schema=%s passes=%t materials=%t bake=%t", o.Policy, o.SchemaVersion, o.IncludePasses, o.IncludeMaterials, o.Bake)
}
