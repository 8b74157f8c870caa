package motion

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Kind identifies the payload carried by a Value.
type Kind uint8

const (
	KindNone      Kind = iota // the null value
	KindNumber                // float64
	KindColor                 // Color
	KindPoint                 // Point
	KindThickness             // Thickness
	KindOpaque                // any other Go value
	numKinds
)

var kindNames = [numKinds]string{"none", "number", "color", "point", "thickness", "opaque"}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a tagged union over the value kinds an animation can produce.
// The zero Value is the null value: "nothing to contribute".
type Value struct {
	kind  Kind
	num   float64
	color Color
	point Point
	thick Thickness
	other any
}

// Number returns a numeric Value.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// ColorValue returns a color Value.
func ColorValue(c Color) Value { return Value{kind: KindColor, color: c} }

// PointValue returns a point Value.
func PointValue(p Point) Value { return Value{kind: KindPoint, point: p} }

// ThicknessValue returns a thickness Value.
func ThicknessValue(t Thickness) Value { return Value{kind: KindThickness, thick: t} }

// Opaque wraps an arbitrary Go value. Typed payloads the union knows about
// are unwrapped into their own kind, so Opaque(3.0) is Number(3). A nil v
// yields the null value.
func Opaque(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case Color:
		return ColorValue(x)
	case Point:
		return PointValue(x)
	case Thickness:
		return ThicknessValue(x)
	}
	return Value{kind: KindOpaque, other: v}
}

// Kind reports the payload kind.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the null value.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Color returns the color payload and whether v is a color.
func (v Value) Color() (Color, bool) { return v.color, v.kind == KindColor }

// Point returns the point payload and whether v is a point.
func (v Value) Point() (Point, bool) { return v.point, v.kind == KindPoint }

// Thickness returns the thickness payload and whether v is a thickness.
func (v Value) Thickness() (Thickness, bool) { return v.thick, v.kind == KindThickness }

// Interface returns the payload as a plain Go value, or nil for the null value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindColor:
		return v.color
	case KindPoint:
		return v.point
	case KindThickness:
		return v.thick
	case KindOpaque:
		return v.other
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "<none>"
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindColor:
		return v.color.Hex()
	case KindPoint:
		return fmt.Sprintf("(%g, %g)", v.point.X, v.point.Y)
	case KindThickness:
		return fmt.Sprintf("(%g, %g, %g, %g)", v.thick.Left, v.thick.Top, v.thick.Right, v.thick.Bottom)
	}
	return fmt.Sprint(v.other)
}

// Equal reports whether two values have the same kind and payload. Opaque
// payloads are compared with ==, so uncomparable payloads never match.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindNumber:
		return v.num == o.num
	case KindColor:
		return v.color == o.color
	case KindPoint:
		return v.point == o.point
	case KindThickness:
		return v.thick == o.thick
	}
	defer func() { _ = recover() }()
	return v.other == o.other
}

// --- Declared value types ---

// ValueType is the type a Sink declares for the property it fronts.
type ValueType uint8

const (
	TypeAny ValueType = iota // accepts any Value unchanged
	TypeFloat64
	TypeFloat32
	TypeInt
	TypeColor
	TypePoint
	TypeThickness
	TypeString
	TypeBool
)

var typeNames = [...]string{"any", "float64", "float32", "int", "color", "point", "thickness", "string", "bool"}

func (t ValueType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", t)
}

// ErrConversion is wrapped by every error returned from Convert.
var ErrConversion = errors.New("motion: value conversion failed")

// Convert coerces v to the declared type t. Numbers are widened or narrowed
// (TypeInt rounds to nearest), opaque payloads go through a generic
// conversion, and the null value converts to itself.
func Convert(v Value, t ValueType) (Value, error) {
	if v.kind == KindNone || t == TypeAny {
		return v, nil
	}
	switch t {
	case TypeFloat64, TypeFloat32, TypeInt:
		var f float64
		switch v.kind {
		case KindNumber:
			f = v.num
		case KindOpaque:
			var err error
			if f, err = cast.ToFloat64E(v.other); err != nil {
				return Value{}, fmt.Errorf("%w: %v to %s: %v", ErrConversion, v.other, t, err)
			}
		default:
			return Value{}, fmt.Errorf("%w: %s to %s", ErrConversion, v.kind, t)
		}
		switch t {
		case TypeFloat32:
			f = float64(float32(f))
		case TypeInt:
			f = math.Round(f)
		}
		return Number(f), nil
	case TypeColor:
		if v.kind == KindColor {
			return v, nil
		}
		if s, ok := v.other.(string); ok && v.kind == KindOpaque {
			c, err := ParseHex(s)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %q to color: %v", ErrConversion, s, err)
			}
			return ColorValue(c), nil
		}
	case TypePoint:
		if v.kind == KindPoint {
			return v, nil
		}
	case TypeThickness:
		switch v.kind {
		case KindThickness:
			return v, nil
		case KindNumber:
			return ThicknessValue(UniformThickness(v.num)), nil
		}
	case TypeString:
		if v.kind == KindOpaque {
			s, err := cast.ToStringE(v.other)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %v to string: %v", ErrConversion, v.other, err)
			}
			return Opaque(s), nil
		}
		return Opaque(v.String()), nil
	case TypeBool:
		b, err := cast.ToBoolE(v.Interface())
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s to bool: %v", ErrConversion, v, err)
		}
		return Opaque(b), nil
	}
	return Value{}, fmt.Errorf("%w: %s to %s", ErrConversion, v.kind, t)
}

// --- Composition ---

// deltaFunc returns current + (value - origin). All three share one kind.
type deltaFunc func(current, value, origin Value) Value

// deltas is indexed by Kind. A nil entry means the kind has no additive
// semantics and the later value overrides.
var deltas = [numKinds]deltaFunc{
	KindNumber: func(cur, val, org Value) Value {
		return Number(cur.num + (val.num - org.num))
	},
	KindColor: func(cur, val, org Value) Value {
		d := func(c, v, o uint8) uint8 {
			return clampChannel(float64(c) + float64(v) - float64(o))
		}
		return ColorValue(Color{
			R: d(cur.color.R, val.color.R, org.color.R),
			G: d(cur.color.G, val.color.G, org.color.G),
			B: d(cur.color.B, val.color.B, org.color.B),
			A: d(cur.color.A, val.color.A, org.color.A),
		})
	},
	KindPoint: func(cur, val, org Value) Value {
		return PointValue(Point{
			X: cur.point.X + (val.point.X - org.point.X),
			Y: cur.point.Y + (val.point.Y - org.point.Y),
		})
	},
	KindThickness: func(cur, val, org Value) Value {
		return ThicknessValue(Thickness{
			Left:   cur.thick.Left + (val.thick.Left - org.thick.Left),
			Top:    cur.thick.Top + (val.thick.Top - org.thick.Top),
			Right:  cur.thick.Right + (val.thick.Right - org.thick.Right),
			Bottom: cur.thick.Bottom + (val.thick.Bottom - org.thick.Bottom),
		})
	},
}

// addDelta layers value over current relative to origin. Mismatched kinds and
// kinds without a delta fall back to value.
func addDelta(current, value, origin Value) Value {
	k := value.kind
	if current.kind != k || origin.kind != k {
		return value
	}
	if fn := deltas[k]; fn != nil {
		return fn(current, value, origin)
	}
	return value
}

// ComposeValue folds sequence-ordered contributions over base. The first
// contribution replaces the running value; each later one adds its delta
// from its own origin, or overrides when no delta can be computed.
func ComposeValue(base Value, contributions []LaneContribution) Value {
	current := base
	for i := range contributions {
		c := &contributions[i]
		switch {
		case i == 0:
			current = c.Value
		case c.Value.IsNone():
		case current.IsNone() || c.Origin.IsNone():
			current = c.Value
		default:
			current = addDelta(current, c.Value, c.Origin)
		}
	}
	return current
}
