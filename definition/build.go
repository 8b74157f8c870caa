package definition

import (
	"fmt"
	"strings"

	"github.com/phanxgames/motion"
)

func buildNode(ns nodeSpec, path string) (*motion.Node, error) {
	if ns.Name == "" {
		return nil, fmt.Errorf("%s: %w: node without name", path, ErrInvalid)
	}
	n := motion.NewNode(ns.Name)
	n.X, n.Y, n.Rotation = ns.X, ns.Y, ns.Rotation
	if ns.ScaleX != nil {
		n.ScaleX = *ns.ScaleX
	}
	if ns.ScaleY != nil {
		n.ScaleY = *ns.ScaleY
	}
	if ns.Alpha != nil {
		n.Alpha = *ns.Alpha
	}
	if ns.Visible != nil {
		n.Visible = *ns.Visible
	}
	if ns.Color != nil {
		c, err := parseColor(ns.Color)
		if err != nil {
			return nil, fmt.Errorf("%s.color: %w", path, err)
		}
		n.Color = c
	}
	if ns.Padding != nil {
		t, err := parseThickness(ns.Padding)
		if err != nil {
			return nil, fmt.Errorf("%s.padding: %w", path, err)
		}
		n.Padding = t
	}
	for i, cs := range ns.Children {
		child, err := buildNode(cs, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func buildTimeline(ts timelineSpec, path string) (motion.Timeline, error) {
	t := motion.Timeline{
		SpeedRatio:     ts.SpeedRatio,
		AutoReverse:    ts.AutoReverse,
		TargetName:     ts.Target,
		TargetProperty: ts.Property,
	}
	var err error
	if t.BeginTime, err = parseDuration(ts.BeginTime); err != nil {
		return t, fmt.Errorf("%s.beginTime: %w", path, err)
	}
	if ts.Duration != nil {
		d, err := parseDuration(ts.Duration)
		if err != nil {
			return t, fmt.Errorf("%s.duration: %w", path, err)
		}
		t.Duration = motion.DurationOf(d)
	}
	if t.Repeat, err = parseRepeat(ts.Repeat); err != nil {
		return t, fmt.Errorf("%s.repeat: %w", path, err)
	}
	if t.Fill, err = parseFill(ts.Fill); err != nil {
		return t, fmt.Errorf("%s.fill: %w", path, err)
	}
	return t, nil
}

func buildStoryboard(ts timelineSpec, path string) (*motion.Storyboard, error) {
	if ts.Type != "" && ts.Type != "storyboard" {
		return nil, fmt.Errorf("%s: %w: expected a storyboard, got type %q", path, ErrInvalid, ts.Type)
	}
	timing, err := buildTimeline(ts, path)
	if err != nil {
		return nil, err
	}
	sb := &motion.Storyboard{Timeline: timing}
	for i, cs := range ts.Children {
		child, err := buildChild(cs, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		sb.Add(child)
	}
	return sb, nil
}

func buildChild(ts timelineSpec, path string) (motion.Child, error) {
	if ts.Type == "" || ts.Type == "storyboard" {
		return buildStoryboard(ts, path)
	}
	timing, err := buildTimeline(ts, path)
	if err != nil {
		return nil, err
	}
	easing, err := parseEasing(ts.Easing)
	if err != nil {
		return nil, fmt.Errorf("%s.easing: %w", path, err)
	}
	if len(ts.Children) > 0 {
		return nil, fmt.Errorf("%s: %w: %s animations cannot have children", path, ErrInvalid, ts.Type)
	}

	leaf, err := buildLeaf(ts, timing, easing, path)
	if err != nil {
		return nil, err
	}
	return leaf, nil
}

func buildLeaf(ts timelineSpec, timing motion.Timeline, easing motion.EasingFunc, path string) (motion.AnimationTimeline, error) {
	keyFramed := strings.HasSuffix(ts.Type, "KeyFrames") || ts.Type == "object"
	if keyFramed && (ts.From != nil || ts.To != nil || ts.By != nil) {
		return nil, fmt.Errorf("%s: %w: %s takes keyFrames, not from/to/by", path, ErrInvalid, ts.Type)
	}
	if !keyFramed && len(ts.KeyFrames) > 0 {
		return nil, fmt.Errorf("%s: %w: %s takes from/to/by, not keyFrames", path, ErrInvalid, ts.Type)
	}

	switch ts.Type {
	case "double":
		from, to, by, err := endpoints(ts, parseFloat, path)
		return &motion.DoubleAnimation{Timeline: timing, From: from, To: to, By: by, Easing: easing}, err
	case "int":
		from, to, by, err := endpoints(ts, parseInt, path)
		return &motion.IntAnimation{Timeline: timing, From: from, To: to, By: by, Easing: easing}, err
	case "color":
		from, to, by, err := endpoints(ts, parseColor, path)
		return &motion.ColorAnimation{Timeline: timing, From: from, To: to, By: by, Easing: easing}, err
	case "hclColor":
		from, to, by, err := endpoints(ts, parseColor, path)
		return &motion.HCLColorAnimation{Timeline: timing, From: from, To: to, By: by, Easing: easing}, err
	case "point":
		from, to, by, err := endpoints(ts, parsePoint, path)
		return &motion.PointAnimation{Timeline: timing, From: from, To: to, By: by, Easing: easing}, err
	case "thickness":
		from, to, by, err := endpoints(ts, parseThickness, path)
		return &motion.ThicknessAnimation{Timeline: timing, From: from, To: to, By: by, Easing: easing}, err
	case "doubleKeyFrames":
		kfs, err := keyFrames(ts.KeyFrames, parseFloat, path)
		return &motion.DoubleKeyFrameAnimation{Timeline: timing, KeyFrames: kfs}, err
	case "intKeyFrames":
		kfs, err := keyFrames(ts.KeyFrames, parseInt, path)
		return &motion.IntKeyFrameAnimation{Timeline: timing, KeyFrames: kfs}, err
	case "colorKeyFrames":
		kfs, err := keyFrames(ts.KeyFrames, parseColor, path)
		return &motion.ColorKeyFrameAnimation{Timeline: timing, KeyFrames: kfs}, err
	case "pointKeyFrames":
		kfs, err := keyFrames(ts.KeyFrames, parsePoint, path)
		return &motion.PointKeyFrameAnimation{Timeline: timing, KeyFrames: kfs}, err
	case "thicknessKeyFrames":
		kfs, err := keyFrames(ts.KeyFrames, parseThickness, path)
		return &motion.ThicknessKeyFrameAnimation{Timeline: timing, KeyFrames: kfs}, err
	case "object", "objectKeyFrames":
		kfs, err := keyFrames(ts.KeyFrames, parseObject, path)
		for i := range kfs {
			kfs[i].Interpolation = motion.Discrete
		}
		return &motion.ObjectKeyFrameAnimation{Timeline: timing, KeyFrames: kfs}, err
	}
	return nil, fmt.Errorf("%s: %w: unknown animation type %q", path, ErrInvalid, ts.Type)
}

// endpoints parses the optional from/to/by values of a leaf.
func endpoints[T any](ts timelineSpec, parse func(any) (T, error), path string) (from, to, by *T, err error) {
	one := func(v any, key string) (*T, error) {
		if v == nil {
			return nil, nil
		}
		x, err := parse(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", path, key, err)
		}
		return &x, nil
	}
	if from, err = one(ts.From, "from"); err != nil {
		return
	}
	if to, err = one(ts.To, "to"); err != nil {
		return
	}
	by, err = one(ts.By, "by")
	return
}

func keyFrames[T any](specs []keyFrameSpec, parse func(any) (T, error), path string) ([]motion.KeyFrame[T], error) {
	out := make([]motion.KeyFrame[T], 0, len(specs))
	for i, ks := range specs {
		kpath := fmt.Sprintf("%s.keyFrames[%d]", path, i)
		v, err := parse(ks.Value)
		if err != nil {
			return nil, fmt.Errorf("%s.value: %w", kpath, err)
		}
		kt, err := parseKeyTime(ks.KeyTime)
		if err != nil {
			return nil, fmt.Errorf("%s.keyTime: %w", kpath, err)
		}
		interp, err := parseInterpolation(ks.Interpolation, ks.Spline, ks.Easing)
		if err != nil {
			return nil, fmt.Errorf("%s.interpolation: %w", kpath, err)
		}
		out = append(out, motion.KeyFrame[T]{Value: v, KeyTime: kt, Interpolation: interp})
	}
	return out, nil
}
