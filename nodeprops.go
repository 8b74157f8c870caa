package motion

import (
	"maps"
	"slices"
	"weak"
)

// nodeProperty describes one animatable Node property.
type nodeProperty struct {
	typ ValueType
	get func(n *Node) Value
	set func(n *Node, v Value)
}

func floatProperty(field func(n *Node) *float64) nodeProperty {
	return nodeProperty{
		typ: TypeFloat64,
		get: func(n *Node) Value { return Number(*field(n)) },
		set: func(n *Node, v Value) {
			if f, ok := v.Float(); ok {
				*field(n) = f
			}
		},
	}
}

// nodeProperties is the table of property paths a Node resolves itself.
var nodeProperties = map[string]nodeProperty{
	"X":        floatProperty(func(n *Node) *float64 { return &n.X }),
	"Y":        floatProperty(func(n *Node) *float64 { return &n.Y }),
	"ScaleX":   floatProperty(func(n *Node) *float64 { return &n.ScaleX }),
	"ScaleY":   floatProperty(func(n *Node) *float64 { return &n.ScaleY }),
	"Rotation": floatProperty(func(n *Node) *float64 { return &n.Rotation }),
	"Alpha":    floatProperty(func(n *Node) *float64 { return &n.Alpha }),
	"Position": {
		typ: TypePoint,
		get: func(n *Node) Value { return PointValue(Point{n.X, n.Y}) },
		set: func(n *Node, v Value) {
			if p, ok := v.Point(); ok {
				n.X, n.Y = p.X, p.Y
			}
		},
	},
	"Scale": {
		typ: TypePoint,
		get: func(n *Node) Value { return PointValue(Point{n.ScaleX, n.ScaleY}) },
		set: func(n *Node, v Value) {
			if p, ok := v.Point(); ok {
				n.ScaleX, n.ScaleY = p.X, p.Y
			}
		},
	},
	"Color": {
		typ: TypeColor,
		get: func(n *Node) Value { return ColorValue(n.Color) },
		set: func(n *Node, v Value) {
			if c, ok := v.Color(); ok {
				n.Color = c
			}
		},
	},
	"Padding": {
		typ: TypeThickness,
		get: func(n *Node) Value { return ThicknessValue(n.Padding) },
		set: func(n *Node, v Value) {
			if t, ok := v.Thickness(); ok {
				n.Padding = t
			}
		},
	},
	"Visible": {
		typ: TypeBool,
		get: func(n *Node) Value { return Opaque(n.Visible) },
		set: func(n *Node, v Value) {
			if b, ok := v.Interface().(bool); ok {
				n.Visible = b
			}
		},
	},
	"Name": {
		typ: TypeString,
		get: func(n *Node) Value { return Opaque(n.Name) },
		set: func(n *Node, v Value) {
			if s, ok := v.Interface().(string); ok {
				n.Name = s
			}
		},
	},
}

// nodeSink fronts one Node property. It holds the node weakly: once the node
// is collected or disposed, Get returns the null value and writes are dropped.
type nodeSink struct {
	ref  weak.Pointer[Node]
	path string
	prop nodeProperty
}

func (n *Node) sink(path string) (Sink, bool) {
	prop, ok := nodeProperties[path]
	if !ok {
		return nil, false
	}
	return &nodeSink{ref: weak.Make(n), path: path, prop: prop}, true
}

func (s *nodeSink) live() *Node {
	n := s.ref.Value()
	if n == nil || n.disposed {
		return nil
	}
	return n
}

func (s *nodeSink) Key() LaneKey { return LaneKey{Target: s.ref, Property: s.path} }

func (s *nodeSink) Type() ValueType { return s.prop.typ }

func (s *nodeSink) Get() Value {
	if n := s.live(); n != nil {
		return s.prop.get(n)
	}
	return Value{}
}

func (s *nodeSink) Set(v Value) {
	if n := s.live(); n != nil {
		s.prop.set(n, v)
		n.MarkDirty()
	}
}

func (s *nodeSink) Clear(base Value) { s.Set(base) }

// NodeProperties lists the property paths a Node resolves without reflection.
func NodeProperties() []string {
	return slices.Sorted(maps.Keys(nodeProperties))
}
