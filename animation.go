package motion

import "time"

// FromToAnimation interpolates between two values of type T. Unset
// endpoints are filled from the animated property:
//
//	From+To   From → To
//	From+By   From → From+By
//	From      From → destination
//	To        origin → To
//	By        origin → origin+By
//	(none)    origin → destination
//
// Use the aliases (DoubleAnimation, ColorAnimation, ...) rather than
// instantiating it directly.
type FromToAnimation[T any, O Ops[T]] struct {
	Timeline
	From, To, By *T
	Easing       EasingFunc
}

// DoubleAnimation animates float64 properties.
type DoubleAnimation = FromToAnimation[float64, numberOps]

// IntAnimation animates integer properties, rounding every frame.
type IntAnimation = FromToAnimation[int, intOps]

// ColorAnimation animates colors channel by channel in sRGB.
type ColorAnimation = FromToAnimation[Color, colorOps]

// HCLColorAnimation animates colors through the HCL color space.
type HCLColorAnimation = FromToAnimation[Color, hclColorOps]

// PointAnimation animates 2D points.
type PointAnimation = FromToAnimation[Point, pointOps]

// ThicknessAnimation animates four-sided thickness values.
type ThicknessAnimation = FromToAnimation[Thickness, thicknessOps]

// Ptr returns a pointer to v, for filling From/To/By.
func Ptr[T any](v T) *T { return &v }

// NaturalDuration implements AnimationTimeline. Automatic is one second.
func (a *FromToAnimation[T, O]) NaturalDuration() time.Duration {
	return naturalDuration(&a.Timeline, defaultDuration)
}

// CurrentValue implements AnimationTimeline.
func (a *FromToAnimation[T, O]) CurrentValue(origin, destination Value, progress float64) Value {
	var ops O
	base, _ := ops.Unwrap(origin)
	dest, ok := ops.Unwrap(destination)
	if !ok {
		dest = base
	}

	var from, to T
	switch {
	case a.From != nil && a.To != nil:
		from, to = *a.From, *a.To
	case a.From != nil && a.By != nil:
		from, to = *a.From, ops.Add(*a.From, *a.By)
	case a.From != nil:
		from, to = *a.From, dest
	case a.To != nil:
		from, to = base, *a.To
	case a.By != nil:
		from, to = base, ops.Add(base, *a.By)
	default:
		from, to = base, dest
	}
	return ops.Wrap(ops.Lerp(from, to, a.Easing.apply(clamp01(progress))))
}
