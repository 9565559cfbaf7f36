// Package geom holds the 2D affine matrix produced by transform parsing.
package geom

import (
	"math"
	"strconv"
	"strings"
)

// Matrix is a 3x2 affine transform with the SVG coefficient layout:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Scale returns a scale by (sx, sy) around the origin.
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Rotate returns a rotation by angle radians around the origin. Positive
// angles turn the x axis towards the y axis.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// RotateAround returns a rotation by angle radians around (cx, cy).
func RotateAround(angle, cx, cy float64) Matrix {
	return Translate(cx, cy).Multiply(Rotate(angle)).Multiply(Translate(-cx, -cy))
}

// Skew returns a shear with the x axis skewed by ax and the y axis by ay,
// both in radians.
func Skew(ax, ay float64) Matrix {
	return Matrix{A: 1, B: math.Tan(ay), C: math.Tan(ax), D: 1}
}

// Multiply returns m × n: the transform that applies n first, then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// PreConcat returns m × n, so n is applied before m.
func (m Matrix) PreConcat(n Matrix) Matrix {
	return m.Multiply(n)
}

// PostConcat returns n × m, so n is applied after m.
func (m Matrix) PostConcat(n Matrix) Matrix {
	return n.Multiply(m)
}

// Apply maps the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) {
		return Matrix{}, false
	}
	return Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}, true
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// ApproxEqual compares coefficients within eps.
func (m Matrix) ApproxEqual(o Matrix, eps float64) bool {
	a, b := m.Coefficients(), o.Coefficients()
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Coefficients returns [a b c d e f].
func (m Matrix) Coefficients() [6]float64 {
	return [6]float64{m.A, m.B, m.C, m.D, m.E, m.F}
}

// String formats m as a CSS matrix() function.
func (m Matrix) String() string {
	parts := make([]string, 0, 6)
	for _, v := range m.Coefficients() {
		if v == 0 {
			v = 0 // drop negative zero
		}
		parts = append(parts, strconv.FormatFloat(v, 'g', 6, 64))
	}
	return "matrix(" + strings.Join(parts, ", ") + ")"
}
