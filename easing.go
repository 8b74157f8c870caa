package motion

import (
	"math"

	"github.com/fogleman/ease"
	gease "github.com/tanema/gween/ease"
)

// EasingFunc maps linear progress in [0, 1] to eased progress. The
// functions in github.com/fogleman/ease have this signature and can be used
// directly.
type EasingFunc func(t float64) float64

// TweenEasing adapts a gween easing function.
func TweenEasing(fn gease.TweenFunc) EasingFunc {
	if fn == nil {
		return nil
	}
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

func (fn EasingFunc) apply(t float64) float64 {
	if fn == nil {
		return t
	}
	return fn(t)
}

var easings = map[string]EasingFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inQuart":      ease.InQuart,
	"outQuart":     ease.OutQuart,
	"inOutQuart":   ease.InOutQuart,
	"inQuint":      ease.InQuint,
	"outQuint":     ease.OutQuint,
	"inOutQuint":   ease.InOutQuint,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inCirc":       ease.InCirc,
	"outCirc":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
}

// EasingByName looks up a named easing ("outCubic", "inOutSine", ...).
func EasingByName(name string) (EasingFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// KeySpline is a cubic Bézier progress curve from (0,0) to (1,1) with
// control points (X1,Y1) and (X2,Y2). X coordinates must lie in [0, 1].
type KeySpline struct {
	X1, Y1, X2, Y2 float64
}

func bezier(a, b, s float64) float64 {
	u := 1 - s
	return 3*u*u*s*a + 3*u*s*s*b + s*s*s
}

func bezierSlope(a, b, s float64) float64 {
	u := 1 - s
	return 3*u*u*a + 6*u*s*(b-a) + 3*s*s*(1-b)
}

// Progress returns the curve's y at x = t.
func (k KeySpline) Progress(t float64) float64 {
	t = clamp01(t)
	if t == 0 || t == 1 {
		return t
	}
	x1, x2 := clamp01(k.X1), clamp01(k.X2)
	s := t
	for i := 0; i < 8; i++ {
		dx := bezier(x1, x2, s) - t
		if math.Abs(dx) < 1e-7 && s >= 0 && s <= 1 {
			return bezier(k.Y1, k.Y2, s)
		}
		slope := bezierSlope(x1, x2, s)
		if math.Abs(slope) < 1e-6 {
			break
		}
		s -= dx / slope
	}
	lo, hi := 0.0, 1.0
	s = t
	for i := 0; i < 50 && hi-lo > 1e-9; i++ {
		if bezier(x1, x2, s) < t {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return bezier(k.Y1, k.Y2, s)
}
