package motion

import "time"

type interpolationKind uint8

const (
	interpolateLinear interpolationKind = iota
	interpolateDiscrete
	interpolateSpline
	interpolateEased
)

// Interpolation shapes progress inside the segment that ends at a key
// frame. The zero value is linear.
type Interpolation struct {
	kind   interpolationKind
	spline KeySpline
	easing EasingFunc
}

var (
	// Linear interpolates at constant speed.
	Linear = Interpolation{kind: interpolateLinear}
	// Discrete holds the previous value until the key time is reached.
	Discrete = Interpolation{kind: interpolateDiscrete}
)

// Spline interpolates along a cubic Bézier progress curve.
func Spline(k KeySpline) Interpolation {
	return Interpolation{kind: interpolateSpline, spline: k}
}

// Eased applies an easing function to the segment progress.
func Eased(fn EasingFunc) Interpolation {
	return Interpolation{kind: interpolateEased, easing: fn}
}

func (in Interpolation) progress(p float64) float64 {
	switch in.kind {
	case interpolateDiscrete:
		if p < 1 {
			return 0
		}
		return 1
	case interpolateSpline:
		return in.spline.Progress(p)
	case interpolateEased:
		return in.easing.apply(p)
	}
	return p
}

// KeyFrame is one target value of a key-frame animation.
type KeyFrame[T any] struct {
	Value         T
	KeyTime       KeyTime
	Interpolation Interpolation
}

// KeyFrameAnimation steps through a sequence of key frames. Each segment
// runs from the previous frame's value (the animated property's origin for
// the first) to the next frame's value, shaped by that frame's
// Interpolation.
type KeyFrameAnimation[T any, O Ops[T]] struct {
	Timeline
	KeyFrames []KeyFrame[T]
}

// DoubleKeyFrameAnimation animates float64 properties through key frames.
type DoubleKeyFrameAnimation = KeyFrameAnimation[float64, numberOps]

// IntKeyFrameAnimation animates integer properties through key frames.
type IntKeyFrameAnimation = KeyFrameAnimation[int, intOps]

// ColorKeyFrameAnimation animates colors through key frames.
type ColorKeyFrameAnimation = KeyFrameAnimation[Color, colorOps]

// PointKeyFrameAnimation animates points through key frames.
type PointKeyFrameAnimation = KeyFrameAnimation[Point, pointOps]

// ThicknessKeyFrameAnimation animates thickness values through key frames.
type ThicknessKeyFrameAnimation = KeyFrameAnimation[Thickness, thicknessOps]

// ObjectKeyFrameAnimation switches arbitrary values at their key times.
type ObjectKeyFrameAnimation = KeyFrameAnimation[any, objectOps]

// NaturalDuration implements AnimationTimeline. Automatic is the largest
// absolute key time, or one second when no frame has one.
func (a *KeyFrameAnimation[T, O]) NaturalDuration() time.Duration {
	if !a.Duration.IsAutomatic() {
		return a.Duration.Value()
	}
	var longest time.Duration
	found := false
	for _, kf := range a.KeyFrames {
		if kf.KeyTime.kind == keyTimeFixed && (!found || kf.KeyTime.at > longest) {
			longest, found = kf.KeyTime.at, true
		}
	}
	if !found {
		return defaultDuration
	}
	return longest
}

// Schedule resolves the key times of every frame against start, the value
// the animation begins from.
func (a *KeyFrameAnimation[T, O]) Schedule(start T) []ResolvedKeyTime {
	var ops O
	keyTimes := make([]KeyTime, len(a.KeyFrames))
	values := make([]T, len(a.KeyFrames))
	for i, kf := range a.KeyFrames {
		keyTimes[i] = kf.KeyTime
		values[i] = kf.Value
	}
	return ResolveKeyTimes(keyTimes, values, start, a.NaturalDuration(), ops.Distance)
}

// CurrentValue implements AnimationTimeline.
func (a *KeyFrameAnimation[T, O]) CurrentValue(origin, _ Value, progress float64) Value {
	var ops O
	if len(a.KeyFrames) == 0 {
		return origin
	}
	base, _ := ops.Unwrap(origin)
	total := a.NaturalDuration()
	now := time.Duration(clamp01(progress) * float64(total))

	prevValue, prevTime := base, time.Duration(0)
	for _, r := range a.Schedule(base) {
		kf := &a.KeyFrames[r.Index]
		if now <= r.Time {
			p := 1.0
			if span := r.Time - prevTime; span > 0 {
				p = float64(now-prevTime) / float64(span)
			}
			return ops.Wrap(ops.Lerp(prevValue, kf.Value, kf.Interpolation.progress(clamp01(p))))
		}
		prevValue, prevTime = kf.Value, r.Time
	}
	return ops.Wrap(prevValue)
}
