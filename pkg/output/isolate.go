package output

import (
	"context"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/observability"
	"github.com/matzehuels/scenebridge/pkg/passes"
)

// Isolate leaves pass as the only enabled pass of b. A pass that does not
// exist yet is created, except on backends without a pass model.
func Isolate(ctx context.Context, b passes.Backend, pass string) (passes.Isolation, error) {
	if err := errors.ValidatePassName(pass); err != nil {
		return passes.Isolation{}, err
	}
	iso, err := b.Isolate(pass)
	if err != nil {
		return passes.Isolation{}, err
	}
	observability.Render().OnIsolate(ctx, string(b.ID()), pass, iso.Synthesized != "")
	return iso, nil
}
