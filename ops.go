package motion

import (
	"math"
)

// Ops supplies the value-type arithmetic an animation needs. Implementations
// are zero-size types so FromToAnimation and KeyFrameAnimation can be
// instantiated without configuration.
type Ops[T any] interface {
	// Lerp interpolates from a to b at t in [0, 1].
	Lerp(a, b T, t float64) T
	// Add returns a + b, used by By animations.
	Add(a, b T) T
	// Distance is the metric Paced key times allocate by. Returning 0 for
	// every pair falls back to uniform allocation.
	Distance(a, b T) float64
	Wrap(v T) Value
	Unwrap(v Value) (T, bool)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

type numberOps struct{}

func (numberOps) Lerp(a, b float64, t float64) float64 { return lerp(a, b, t) }
func (numberOps) Add(a, b float64) float64             { return a + b }
func (numberOps) Distance(a, b float64) float64        { return math.Abs(b - a) }
func (numberOps) Wrap(v float64) Value                 { return Number(v) }
func (numberOps) Unwrap(v Value) (float64, bool)       { return v.Float() }

type intOps struct{}

func (intOps) Lerp(a, b int, t float64) int {
	return int(math.Round(lerp(float64(a), float64(b), t)))
}
func (intOps) Add(a, b int) int          { return a + b }
func (intOps) Distance(a, b int) float64 { return math.Abs(float64(b - a)) }
func (intOps) Wrap(v int) Value          { return Number(float64(v)) }
func (intOps) Unwrap(v Value) (int, bool) {
	f, ok := v.Float()
	return int(math.Round(f)), ok
}

type colorOps struct{}

func (colorOps) Lerp(a, b Color, t float64) Color {
	ch := func(x, y uint8) uint8 { return clampChannel(lerp(float64(x), float64(y), t)) }
	return Color{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}

func (colorOps) Add(a, b Color) Color {
	ch := func(x, y uint8) uint8 { return clampChannel(float64(x) + float64(y)) }
	return Color{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: ch(a.A, b.A)}
}

// Distance is the CIE L*a*b* distance of the RGB channels plus the alpha
// difference on the same [0, 1] scale.
func (colorOps) Distance(a, b Color) float64 {
	return a.colorful().DistanceLab(b.colorful()) + math.Abs(float64(b.A)-float64(a.A))/255
}

func (colorOps) Wrap(v Color) Value           { return ColorValue(v) }
func (colorOps) Unwrap(v Value) (Color, bool) { return v.Color() }

// hclColorOps blends through the HCL color space, which keeps perceived
// lightness steady across hue changes.
type hclColorOps struct{ colorOps }

func (hclColorOps) Lerp(a, b Color, t float64) Color {
	out := fromColorful(a.colorful().BlendHcl(b.colorful(), t))
	out.A = clampChannel(lerp(float64(a.A), float64(b.A), t))
	return out
}

type pointOps struct{}

func (pointOps) Lerp(a, b Point, t float64) Point {
	return Point{X: lerp(a.X, b.X, t), Y: lerp(a.Y, b.Y, t)}
}
func (pointOps) Add(a, b Point) Point { return Point{X: a.X + b.X, Y: a.Y + b.Y} }
func (pointOps) Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
func (pointOps) Wrap(v Point) Value           { return PointValue(v) }
func (pointOps) Unwrap(v Value) (Point, bool) { return v.Point() }

type thicknessOps struct{}

func (thicknessOps) Lerp(a, b Thickness, t float64) Thickness {
	return Thickness{
		Left:   lerp(a.Left, b.Left, t),
		Top:    lerp(a.Top, b.Top, t),
		Right:  lerp(a.Right, b.Right, t),
		Bottom: lerp(a.Bottom, b.Bottom, t),
	}
}

func (thicknessOps) Add(a, b Thickness) Thickness {
	return Thickness{a.Left + b.Left, a.Top + b.Top, a.Right + b.Right, a.Bottom + b.Bottom}
}

func (thicknessOps) Distance(a, b Thickness) float64 {
	dl, dt, dr, db := b.Left-a.Left, b.Top-a.Top, b.Right-a.Right, b.Bottom-a.Bottom
	return math.Sqrt(dl*dl + dt*dt + dr*dr + db*db)
}
func (thicknessOps) Wrap(v Thickness) Value           { return ThicknessValue(v) }
func (thicknessOps) Unwrap(v Value) (Thickness, bool) { return v.Thickness() }

// objectOps has no arithmetic: values switch at the end of a segment.
type objectOps struct{}

func (objectOps) Lerp(a, b any, t float64) any {
	if t < 1 {
		return a
	}
	return b
}
func (objectOps) Add(a, b any) any          { return b }
func (objectOps) Distance(a, b any) float64 { return 0 }
func (objectOps) Wrap(v any) Value          { return Opaque(v) }
func (objectOps) Unwrap(v Value) (any, bool) {
	return v.Interface(), !v.IsNone()
}
