package definition

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/phanxgames/motion"
)

// parseDuration accepts Go duration strings ("250ms", "1.5s") and plain
// numbers, which are milliseconds.
func parseDuration(v any) (time.Duration, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return x, nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q", ErrInvalid, x)
		}
		return d, nil
	}
	ms, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %v", ErrInvalid, v)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

// parseRepeat accepts "2x", "forever", a duration string, or a bare count.
func parseRepeat(v any) (motion.RepeatBehavior, error) {
	if v == nil {
		return motion.RepeatBehavior{}, nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		switch {
		case strings.EqualFold(s, "forever"):
			return motion.Forever, nil
		case strings.HasSuffix(s, "x"):
			n, err := cast.ToFloat64E(strings.TrimSuffix(s, "x"))
			if err != nil {
				return motion.RepeatBehavior{}, fmt.Errorf("%w: repeat %q", ErrInvalid, s)
			}
			return motion.RepeatCount(n), nil
		}
		d, err := parseDuration(s)
		if err != nil {
			return motion.RepeatBehavior{}, err
		}
		return motion.RepeatFor(d), nil
	}
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return motion.RepeatBehavior{}, fmt.Errorf("%w: repeat %v", ErrInvalid, v)
	}
	return motion.RepeatCount(n), nil
}

func parseFill(s string) (motion.FillBehavior, error) {
	switch strings.ToLower(s) {
	case "", "holdend":
		return motion.FillHoldEnd, nil
	case "stop":
		return motion.FillStop, nil
	}
	return 0, fmt.Errorf("%w: fill %q", ErrInvalid, s)
}

func parseEasing(name string) (motion.EasingFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := motion.EasingByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown easing %q", ErrInvalid, name)
	}
	return fn, nil
}

// parseKeyTime accepts "uniform", "paced", "N%", a duration string or a
// number of milliseconds. A missing key time is uniform.
func parseKeyTime(v any) (motion.KeyTime, error) {
	s, isString := v.(string)
	switch {
	case v == nil:
		return motion.KeyTimeUniform, nil
	case isString && strings.EqualFold(s, "uniform"):
		return motion.KeyTimeUniform, nil
	case isString && strings.EqualFold(s, "paced"):
		return motion.KeyTimePaced, nil
	case isString && strings.HasSuffix(s, "%"):
		p, err := cast.ToFloat64E(strings.TrimSpace(strings.TrimSuffix(s, "%")))
		if err != nil {
			return motion.KeyTime{}, fmt.Errorf("%w: key time %q", ErrInvalid, s)
		}
		return motion.KeyTimePercent(p / 100), nil
	}
	d, err := parseDuration(v)
	if err != nil {
		return motion.KeyTime{}, err
	}
	return motion.KeyTimeAt(d), nil
}

func parseInterpolation(kind string, spline []float64, easing string) (motion.Interpolation, error) {
	switch strings.ToLower(kind) {
	case "", "linear":
		if easing != "" {
			fn, err := parseEasing(easing)
			if err != nil {
				return motion.Interpolation{}, err
			}
			return motion.Eased(fn), nil
		}
		return motion.Linear, nil
	case "discrete":
		return motion.Discrete, nil
	case "spline":
		if len(spline) != 4 {
			return motion.Interpolation{}, fmt.Errorf("%w: spline needs 4 numbers, got %d", ErrInvalid, len(spline))
		}
		return motion.Spline(motion.KeySpline{X1: spline[0], Y1: spline[1], X2: spline[2], Y2: spline[3]}), nil
	}
	return motion.Interpolation{}, fmt.Errorf("%w: interpolation %q", ErrInvalid, kind)
}

// --- Typed values ---

func parseFloat(v any) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: number %v", ErrInvalid, v)
	}
	return f, nil
}

func parseInt(v any) (int, error) {
	f, err := parseFloat(v)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

type rgbaSpec struct {
	R, G, B uint8
	A       *uint8
	H, C, L *float64
}

// parseColor accepts "#rrggbb", "#rrggbbaa", {r, g, b, a} channel maps and
// {h, c, l} maps in the HCL color space.
func parseColor(v any) (motion.Color, error) {
	if s, ok := v.(string); ok {
		c, err := motion.ParseHex(s)
		if err != nil {
			return motion.Color{}, fmt.Errorf("%w: color %q", ErrInvalid, s)
		}
		return c, nil
	}
	var spec rgbaSpec
	if err := weakDecode(v, &spec); err != nil {
		return motion.Color{}, fmt.Errorf("%w: color %v: %v", ErrInvalid, v, err)
	}
	alpha := uint8(255)
	if spec.A != nil {
		alpha = *spec.A
	}
	if spec.H != nil || spec.C != nil || spec.L != nil {
		h, c, l := deref(spec.H), deref(spec.C), deref(spec.L)
		col := colorful.Hcl(h, c, l).Clamped()
		return motion.Color{
			R: uint8(math.Round(col.R * 255)),
			G: uint8(math.Round(col.G * 255)),
			B: uint8(math.Round(col.B * 255)),
			A: alpha,
		}, nil
	}
	return motion.Color{R: spec.R, G: spec.G, B: spec.B, A: alpha}, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// parsePoint accepts [x, y] or {x, y}.
func parsePoint(v any) (motion.Point, error) {
	if list, ok := v.([]any); ok {
		if len(list) != 2 {
			return motion.Point{}, fmt.Errorf("%w: point needs 2 numbers, got %d", ErrInvalid, len(list))
		}
		x, err := parseFloat(list[0])
		if err != nil {
			return motion.Point{}, err
		}
		y, err := parseFloat(list[1])
		if err != nil {
			return motion.Point{}, err
		}
		return motion.Point{X: x, Y: y}, nil
	}
	var p motion.Point
	if err := weakDecode(v, &p); err != nil {
		return motion.Point{}, fmt.Errorf("%w: point %v: %v", ErrInvalid, v, err)
	}
	return p, nil
}

// parseThickness accepts a single number, [left, top, right, bottom] or a
// map with those keys.
func parseThickness(v any) (motion.Thickness, error) {
	switch x := v.(type) {
	case []any:
		if len(x) != 4 {
			return motion.Thickness{}, fmt.Errorf("%w: thickness needs 4 numbers, got %d", ErrInvalid, len(x))
		}
		var edges [4]float64
		for i, e := range x {
			f, err := parseFloat(e)
			if err != nil {
				return motion.Thickness{}, err
			}
			edges[i] = f
		}
		return motion.Thickness{Left: edges[0], Top: edges[1], Right: edges[2], Bottom: edges[3]}, nil
	case map[string]any:
		var t motion.Thickness
		if err := weakDecode(x, &t); err != nil {
			return motion.Thickness{}, fmt.Errorf("%w: thickness %v: %v", ErrInvalid, v, err)
		}
		return t, nil
	}
	f, err := parseFloat(v)
	if err != nil {
		return motion.Thickness{}, err
	}
	return motion.UniformThickness(f), nil
}

func parseObject(v any) (any, error) { return v, nil }

// weakDecode decodes maps into structs without tags, matching keys
// case-insensitively and converting scalars.
func weakDecode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
