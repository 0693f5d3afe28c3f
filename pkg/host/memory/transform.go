package memory

import (
	"math"

	"github.com/matzehuels/scenebridge/pkg/host"
)

type mat4 [4][4]float64

func identity() mat4 {
	return mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

func (a mat4) mul(b mat4) mat4 {
	var out mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

func (h *Host) scalar(n *node, attr string, def float64) float64 {
	return host.Get[float64](h, n.name, attr).Or(def)
}

// localMatrix composes T * Rz * Ry * Rx * S (xyz rotate order, column vectors).
func (h *Host) localMatrix(n *node) mat4 {
	tx, ty, tz := h.scalar(n, "translateX", 0), h.scalar(n, "translateY", 0), h.scalar(n, "translateZ", 0)
	rx := h.scalar(n, "rotateX", 0) * math.Pi / 180
	ry := h.scalar(n, "rotateY", 0) * math.Pi / 180
	rz := h.scalar(n, "rotateZ", 0) * math.Pi / 180
	sx, sy, sz := h.scalar(n, "scaleX", 1), h.scalar(n, "scaleY", 1), h.scalar(n, "scaleZ", 1)

	t := identity()
	t[0][3], t[1][3], t[2][3] = tx, ty, tz

	cx, sxr := math.Cos(rx), math.Sin(rx)
	cy, syr := math.Cos(ry), math.Sin(ry)
	cz, szr := math.Cos(rz), math.Sin(rz)
	mx := mat4{{1, 0, 0, 0}, {0, cx, -sxr, 0}, {0, sxr, cx, 0}, {0, 0, 0, 1}}
	my := mat4{{cy, 0, syr, 0}, {0, 1, 0, 0}, {-syr, 0, cy, 0}, {0, 0, 0, 1}}
	mz := mat4{{cz, -szr, 0, 0}, {szr, cz, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}

	s := identity()
	s[0][0], s[1][1], s[2][2] = sx, sy, sz

	return t.mul(mz).mul(my).mul(mx).mul(s)
}

func (h *Host) worldMatrix(n *node) mat4 {
	m := h.localMatrix(n)
	for p := n.parent; p != ""; {
		pn, ok := h.nodes[p]
		if !ok {
			break
		}
		m = h.localMatrix(pn).mul(m)
		p = pn.parent
	}
	return m
}

// decompose flattens m into the host's row-major layout (translation at
// 12..14) and extracts translation and xyz Euler rotation in degrees.
func decompose(m mat4) host.Transform {
	var t host.Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			t.Matrix[4*col+row] = m[row][col]
		}
	}
	t.Translation = [3]float64{m[0][3], m[1][3], m[2][3]}

	var r [3][3]float64
	for col := 0; col < 3; col++ {
		norm := math.Sqrt(m[0][col]*m[0][col] + m[1][col]*m[1][col] + m[2][col]*m[2][col])
		if norm == 0 {
			norm = 1
		}
		for row := 0; row < 3; row++ {
			r[row][col] = m[row][col] / norm
		}
	}

	var x, y, z float64
	sy := math.Max(-1, math.Min(1, -r[2][0]))
	y = math.Asin(sy)
	if math.Abs(sy) < 1-1e-9 {
		x = math.Atan2(r[2][1], r[2][2])
		z = math.Atan2(r[1][0], r[0][0])
	} else {
		// gimbal lock: fold z into x
		x = math.Atan2(-r[1][2], r[1][1])
		z = 0
	}
	deg := 180 / math.Pi
	t.Rotation = [3]float64{clean(x * deg), clean(y * deg), clean(z * deg)}
	return t
}

// clean rounds away floating point noise so exact inputs decompose exactly.
func clean(v float64) float64 {
	r := math.Round(v*1e9) / 1e9
	if r == 0 {
		return 0
	}
	return r
}
