// Package animation contains easing curves and the parameters of property
// animations.
package animation

import (
	"fmt"
	"math"
)

// Curve is an easing curve: it maps linear animation progress in [0, 1] to
// eased progress. The zero value is the linear curve. Curves are values so
// that they can be compared and stored in compiled expressions.
type Curve struct {
	bezier         bool
	X1, Y1, X2, Y2 float64
}

// Linear returns progress unchanged.
var Linear = Curve{}

// Named curves, equivalent to their CSS counterparts.
var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = CubicBezier(0.42, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.58, 1.0)
	EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)
)

var namedCurves = map[string]Curve{
	"linear":      Linear,
	"ease":        Ease,
	"ease_in":     EaseIn,
	"ease_out":    EaseOut,
	"ease_in_out": EaseInOut,
}

// ByName returns the named curve used by the easing property, e.g. ease_in.
func ByName(name string) (Curve, bool) {
	c, ok := namedCurves[name]
	return c, ok
}

// CubicBezier returns a curve matching CSS cubic-bezier(). The curve starts
// at (0,0) and ends at (1,1); (x1,y1) and (x2,y2) are the control points.
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return Curve{true, x1, y1, x2, y2}
}

func (c Curve) String() string {
	if !c.bezier {
		return "linear"
	}
	for name, named := range namedCurves {
		if named == c {
			return name
		}
	}
	return fmt.Sprintf("cubic_bezier(%g, %g, %g, %g)", c.X1, c.Y1, c.X2, c.Y2)
}

// Transform maps linear progress t to eased progress. t is clamped to
// [0, 1].
func (c Curve) Transform(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if !c.bezier {
		return t
	}

	u := t
	// Newton-Raphson converges quickly for most values.
	for range 8 {
		x := sampleCurve(c.X1, c.X2, u) - t
		if math.Abs(x) < 1e-7 {
			return sampleCurve(c.Y1, c.Y2, clampUnit(u))
		}
		dx := sampleCurveDerivative(c.X1, c.X2, u)
		if math.Abs(dx) < 1e-7 {
			break
		}
		u -= x / dx
	}

	// Bisection keeps the solution in [0,1] when Newton-Raphson does not
	// converge.
	lo, hi := 0.0, 1.0
	u = clampUnit(u)
	for range 20 {
		x := sampleCurve(c.X1, c.X2, u) - t
		if math.Abs(x) < 1e-7 {
			break
		}
		if x > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}
	return sampleCurve(c.Y1, c.Y2, u)
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
