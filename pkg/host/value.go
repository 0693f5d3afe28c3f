package host

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/errors"
)

// Value is the result of a typed attribute read.
//
// Reads are tolerant by default: callers pick a fallback with [Value.Or] or
// [Value.OrLog] instead of threading an error through every attribute.
//
//	fov := host.Get[float64](h, cam, "focalLength").Or(35)
type Value[T any] struct {
	Node string
	Attr string
	val  T
	err  error
}

// Get reads node.attr from r and converts it to T.
//
// Numeric conversions between int, float64 and bool are applied; []float64
// values convert to [3]float64 when T asks for one. Anything else that does
// not match T yields an ATTRIBUTE_MISSING error.
func Get[T any](r AttributeStore, node, attr string) Value[T] {
	v := Value[T]{Node: node, Attr: attr}
	raw, err := r.GetAttr(node, attr)
	if err != nil {
		v.err = err
		return v
	}
	out, ok := convert[T](raw)
	if !ok {
		v.err = errors.New(errors.ErrCodeAttributeMissing, "%s.%s: cannot use %T as %T", node, attr, raw, v.val)
		return v
	}
	v.val = out
	return v
}

// Get returns the value and any read error.
func (v Value[T]) Get() (T, error) {
	return v.val, v.err
}

// Ok reports whether the read succeeded.
func (v Value[T]) Ok() bool {
	return v.err == nil
}

// Or returns the value, or def when the read failed.
func (v Value[T]) Or(def T) T {
	if v.err != nil {
		return def
	}
	return v.val
}

// OrLog is like Or but logs the failure at debug level.
func (v Value[T]) OrLog(logger *log.Logger, def T) T {
	if v.err != nil {
		if logger != nil {
			logger.Debug("attribute read failed, using default", "plug", v.Node+"."+v.Attr, "default", def, "error", v.err)
		}
		return def
	}
	return v.val
}

func convert[T any](raw any) (T, bool) {
	var zero T
	if out, ok := raw.(T); ok {
		return out, true
	}

	var res any
	switch any(zero).(type) {
	case float64:
		f, ok := toFloat(raw)
		if !ok {
			return zero, false
		}
		res = f
	case int:
		f, ok := toFloat(raw)
		if !ok {
			return zero, false
		}
		res = int(f)
	case bool:
		f, ok := toFloat(raw)
		if !ok {
			return zero, false
		}
		res = f != 0
	case string:
		if raw == nil {
			return zero, false
		}
		res = fmt.Sprint(raw)
	case [3]float64:
		vec, ok := toVec3(raw)
		if !ok {
			return zero, false
		}
		res = vec
	case []float64:
		vec, ok := toFloats(raw)
		if !ok {
			return zero, false
		}
		res = vec
	default:
		return zero, false
	}
	return res.(T), true
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toFloats(raw any) ([]float64, bool) {
	switch xs := raw.(type) {
	case []float64:
		return xs, true
	case [3]float64:
		return xs[:], true
	case []any:
		out := make([]float64, len(xs))
		for i, x := range xs {
			f, ok := toFloat(x)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func toVec3(raw any) ([3]float64, bool) {
	xs, ok := toFloats(raw)
	if !ok || len(xs) < 3 {
		return [3]float64{}, false
	}
	return [3]float64{xs[0], xs[1], xs[2]}, true
}
