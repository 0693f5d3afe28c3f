package host

import (
	"errors"
	"fmt"
)

type plug struct {
	node, attr string
}

// Recorder is a Host that remembers the value each attribute had before its
// first write through the recorder, along with the time cursor at creation.
// Restore puts all of them back.
//
// Attributes that could not be read before the first write are not restored.
type Recorder struct {
	Host

	time  float64
	order []plug
	prev  map[plug]any
}

// NewRecorder wraps h and captures its current time.
func NewRecorder(h Host) *Recorder {
	return &Recorder{
		Host: h,
		time: h.CurrentTime(),
		prev: make(map[plug]any),
	}
}

// SetAttr records the previous value of node.attr on first write, then writes.
func (r *Recorder) SetAttr(node, attr string, value any) error {
	p := plug{node, attr}
	if _, seen := r.prev[p]; !seen {
		if old, err := r.Host.GetAttr(node, attr); err == nil {
			r.prev[p] = old
			r.order = append(r.order, p)
		}
	}
	return r.Host.SetAttr(node, attr, value)
}

// Recorded returns the number of attributes that will be restored.
func (r *Recorder) Recorded() int {
	return len(r.order)
}

// Restore writes back recorded values in reverse order, then restores the
// time cursor. All failures are joined into the returned error.
func (r *Recorder) Restore() error {
	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		p := r.order[i]
		if err := r.Host.SetAttr(p.node, p.attr, r.prev[p]); err != nil {
			errs = append(errs, fmt.Errorf("restore %s.%s: %w", p.node, p.attr, err))
		}
	}
	if err := r.Host.SetCurrentTime(r.time); err != nil {
		errs = append(errs, fmt.Errorf("restore time: %w", err))
	}
	r.order = nil
	r.prev = make(map[plug]any)
	return errors.Join(errs...)
}
