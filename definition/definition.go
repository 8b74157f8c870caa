// Package definition loads scenes and storyboards from YAML documents.
//
// A document has two top-level keys: scene, a list of nodes, and
// storyboards, a map of storyboard name to timeline tree:
//
//	scene:
//	  - name: box
//	    x: 10
//	    color: "#ff0000"
//	storyboards:
//	  slide:
//	    target: box
//	    children:
//	      - type: double
//	        property: X
//	        to: 200
//	        duration: 500ms
//	        easing: outCubic
//
// Leaf types are double, int, color, hclColor, point, thickness and object,
// plus the key-frame variants doubleKeyFrames, intKeyFrames,
// colorKeyFrames, pointKeyFrames, thicknessKeyFrames and objectKeyFrames.
package definition

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/motion"
)

// ErrInvalid is wrapped by every error caused by document content.
var ErrInvalid = errors.New("definition: invalid document")

// nodeSpec is one scene node as written in a document.
type nodeSpec struct {
	Name     string     `mapstructure:"name"`
	X        float64    `mapstructure:"x"`
	Y        float64    `mapstructure:"y"`
	ScaleX   *float64   `mapstructure:"scaleX"`
	ScaleY   *float64   `mapstructure:"scaleY"`
	Rotation float64    `mapstructure:"rotation"`
	Alpha    *float64   `mapstructure:"alpha"`
	Visible  *bool      `mapstructure:"visible"`
	Color    any        `mapstructure:"color"`
	Padding  any        `mapstructure:"padding"`
	Children []nodeSpec `mapstructure:"children"`
}

// timelineSpec is a storyboard or a leaf animation as written in a document.
type timelineSpec struct {
	Type        string         `mapstructure:"type"`
	Target      string         `mapstructure:"target"`
	Property    string         `mapstructure:"property"`
	BeginTime   any            `mapstructure:"beginTime"`
	Duration    any            `mapstructure:"duration"`
	SpeedRatio  float64        `mapstructure:"speedRatio"`
	AutoReverse bool           `mapstructure:"autoReverse"`
	Repeat      any            `mapstructure:"repeat"`
	Fill        string         `mapstructure:"fill"`
	Easing      string         `mapstructure:"easing"`
	From        any            `mapstructure:"from"`
	To          any            `mapstructure:"to"`
	By          any            `mapstructure:"by"`
	KeyFrames   []keyFrameSpec `mapstructure:"keyFrames"`
	Children    []timelineSpec `mapstructure:"children"`
}

type keyFrameSpec struct {
	Value         any       `mapstructure:"value"`
	KeyTime       any       `mapstructure:"keyTime"`
	Interpolation string    `mapstructure:"interpolation"`
	Spline        []float64 `mapstructure:"spline"`
	Easing        string    `mapstructure:"easing"`
}

type documentSpec struct {
	Scene       []nodeSpec              `mapstructure:"scene"`
	Storyboards map[string]timelineSpec `mapstructure:"storyboards"`
}

// Definition is a loaded document: scene nodes ready to attach and named
// storyboards ready to begin.
type Definition struct {
	Nodes       []*motion.Node
	Storyboards map[string]*motion.Storyboard
}

// Load reads and parses a YAML document from path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML document.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return Decode(raw)
}

// Decode builds a definition from an already parsed document, such as one
// read from JSON.
func Decode(raw map[string]any) (*Definition, error) {
	var doc documentSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	def := &Definition{Storyboards: make(map[string]*motion.Storyboard, len(doc.Storyboards))}
	for i, ns := range doc.Scene {
		n, err := buildNode(ns, fmt.Sprintf("scene[%d]", i))
		if err != nil {
			return nil, err
		}
		def.Nodes = append(def.Nodes, n)
	}
	for name, ts := range doc.Storyboards {
		sb, err := buildStoryboard(ts, "storyboards."+name)
		if err != nil {
			return nil, err
		}
		def.Storyboards[name] = sb
	}
	return def, nil
}

// StoryboardNames returns the storyboard names in sorted order.
func (d *Definition) StoryboardNames() []string {
	return slices.Sorted(maps.Keys(d.Storyboards))
}

// Storyboard returns the named storyboard.
func (d *Definition) Storyboard(name string) (*motion.Storyboard, error) {
	sb, ok := d.Storyboards[name]
	if !ok {
		return nil, fmt.Errorf("%w: no storyboard named %q", ErrInvalid, name)
	}
	return sb, nil
}

// Populate attaches the definition's nodes to the scene root.
func (d *Definition) Populate(scene *motion.Scene) {
	for _, n := range d.Nodes {
		scene.Root().AddChild(n)
	}
}
