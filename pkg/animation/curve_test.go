package animation

import (
	"math"
	"testing"
	"time"

	"github.com/patrickelectric/sixtyfps/pkg/tt"
)

func TestCurveEndpoints(t *testing.T) {
	for name, c := range namedCurves {
		if c.Transform(0) != 0 || c.Transform(1) != 1 {
			t.Errorf("%s does not map 0->0 and 1->1", name)
		}
		if v := c.Transform(-1); v != 0 {
			t.Errorf("%s.Transform(-1) = %v", name, v)
		}
	}
}

func TestCurveMonotonic(t *testing.T) {
	for name, c := range namedCurves {
		prev := 0.0
		for i := 1; i <= 100; i++ {
			v := c.Transform(float64(i) / 100)
			if v < prev-1e-9 {
				t.Errorf("%s not monotonic at %d: %v < %v", name, i, v, prev)
			}
			prev = v
		}
	}
}

func TestCubicBezierLinearControlPoints(t *testing.T) {
	c := CubicBezier(1.0/3, 1.0/3, 2.0/3, 2.0/3)
	for _, x := range []float64{0.1, 0.25, 0.5, 0.9} {
		if got := c.Transform(x); math.Abs(got-x) > 1e-5 {
			t.Errorf("Transform(%v) = %v, want %v", x, got, x)
		}
	}
}

func TestEaseInIsSlowAtStart(t *testing.T) {
	if v := EaseIn.Transform(0.25); v >= 0.25 {
		t.Errorf("EaseIn.Transform(0.25) = %v, want < 0.25", v)
	}
	if v := EaseOut.Transform(0.25); v <= 0.25 {
		t.Errorf("EaseOut.Transform(0.25) = %v, want > 0.25", v)
	}
}

func TestByNameAndString(t *testing.T) {
	tt.Test(t, tt.Fn("ByName", ByName), tt.Table{
		tt.Args("ease_in").Rets(EaseIn, true),
		tt.Args("linear").Rets(Linear, true),
		tt.Args("bounce").Rets(Linear, false),
	})
	tt.Test(t, tt.Fn("String", Curve.String), tt.Table{
		tt.Args(EaseInOut).Rets("ease_in_out"),
		tt.Args(CubicBezier(0.1, 0.2, 0.3, 0.4)).Rets("cubic_bezier(0.1, 0.2, 0.3, 0.4)"),
	})
}

func TestParamsProgress(t *testing.T) {
	p := Params{Duration: 100 * time.Millisecond}
	tt.Test(t, tt.Fn("Progress", p.Progress), tt.Table{
		tt.Args(time.Duration(0)).Rets(0.0, false),
		tt.Args(50 * time.Millisecond).Rets(0.5, false),
		tt.Args(100 * time.Millisecond).Rets(1.0, true),
	})

	looping := Params{Duration: 100 * time.Millisecond, LoopCount: 1}
	tt.Test(t, tt.Fn("Progress", looping.Progress), tt.Table{
		tt.Args(150 * time.Millisecond).Rets(0.5, false),
		tt.Args(200 * time.Millisecond).Rets(1.0, true),
	})

	if v, done := (Params{}).Progress(time.Second); v != 1 || !done {
		t.Errorf("zero duration -> (%v, %v), want (1, true)", v, done)
	}
}
