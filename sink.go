package motion

import (
	"fmt"
	"reflect"
	"strings"
	"weak"
)

// LaneKey identifies one animated (target, property) pair. Target must be
// comparable; pointer identity is the usual choice.
type LaneKey struct {
	Target   any
	Property string
}

func (k LaneKey) String() string {
	switch t := k.Target.(type) {
	case weak.Pointer[Node]:
		if n := t.Value(); n != nil {
			return n.Name + "." + k.Property
		}
		return "<collected>." + k.Property
	case fmt.Stringer:
		return t.String() + "." + k.Property
	}
	return fmt.Sprintf("%T.%s", k.Target, k.Property)
}

// Sink is a gettable and settable property on a resolved target. A sink never
// owns its target.
type Sink interface {
	Key() LaneKey
	Type() ValueType
	Get() Value
	Set(v Value)
	// Clear restores the property once no animation drives it. base is the
	// value sampled before the first animation touched the lane.
	Clear(base Value)
}

// LaneContribution is the value one entry emits for one tick.
type LaneContribution struct {
	Key      LaneKey
	Sink     Sink
	Sequence uint64
	Origin   Value
	Value    Value
}

// PathResolver turns a target and a property path into a Sink.
type PathResolver interface {
	ResolveSink(target any, path string) (Sink, bool)
}

// PathResolverFunc adapts a function to PathResolver.
type PathResolverFunc func(target any, path string) (Sink, bool)

// ResolveSink calls f.
func (f PathResolverFunc) ResolveSink(target any, path string) (Sink, bool) {
	return f(target, path)
}

// SinkProvider is implemented by targets that resolve their own properties.
type SinkProvider interface {
	AnimationSink(path string) (Sink, bool)
}

// DefaultPathResolver tries SinkProvider, then Node properties, then exported
// struct fields reached through a dotted path.
var DefaultPathResolver PathResolver = PathResolverFunc(resolveDefault)

func resolveDefault(target any, path string) (Sink, bool) {
	if target == nil || path == "" {
		return nil, false
	}
	if p, ok := target.(SinkProvider); ok {
		if s, ok := p.AnimationSink(path); ok {
			return s, true
		}
	}
	if n, ok := target.(*Node); ok {
		if s, ok := n.sink(path); ok {
			return s, true
		}
	}
	if s, ok := NewStructSink(target, path); ok {
		return s, true
	}
	return nil, false
}

// --- Reflection sink ---

// StructSink animates an exported field of a struct reached through a
// pointer. Nested structs are addressed with dotted paths ("Frame.Margin").
type StructSink struct {
	key   LaneKey
	field reflect.Value
	typ   ValueType
}

var (
	colorType     = reflect.TypeOf(Color{})
	pointType     = reflect.TypeOf(Point{})
	thicknessType = reflect.TypeOf(Thickness{})
)

// NewStructSink resolves path against target, which must be a non-nil
// pointer to a struct.
func NewStructSink(target any, path string) (*StructSink, bool) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, false
	}
	f := rv.Elem()
	for _, part := range strings.Split(path, ".") {
		for f.Kind() == reflect.Pointer {
			if f.IsNil() {
				return nil, false
			}
			f = f.Elem()
		}
		if f.Kind() != reflect.Struct {
			return nil, false
		}
		sf, ok := f.Type().FieldByName(part)
		if !ok || !sf.IsExported() {
			return nil, false
		}
		f = f.FieldByIndex(sf.Index)
	}
	if !f.CanSet() {
		return nil, false
	}
	return &StructSink{
		key:   LaneKey{Target: target, Property: path},
		field: f,
		typ:   valueTypeOf(f.Type()),
	}, true
}

func valueTypeOf(t reflect.Type) ValueType {
	switch t {
	case colorType:
		return TypeColor
	case pointType:
		return TypePoint
	case thicknessType:
		return TypeThickness
	}
	switch t.Kind() {
	case reflect.Float64:
		return TypeFloat64
	case reflect.Float32:
		return TypeFloat32
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInt
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBool
	}
	return TypeAny
}

// Key implements Sink.
func (s *StructSink) Key() LaneKey { return s.key }

// Type implements Sink.
func (s *StructSink) Type() ValueType { return s.typ }

// Get implements Sink.
func (s *StructSink) Get() Value {
	f := s.field
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		return Number(f.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(f.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(f.Uint()))
	}
	return Opaque(f.Interface())
}

// Set implements Sink. Values that do not fit the field are dropped.
func (s *StructSink) Set(v Value) {
	f := s.field
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		if x, ok := v.Float(); ok {
			f.SetFloat(x)
		}
		return
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if x, ok := v.Float(); ok {
			f.SetInt(int64(x))
		}
		return
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if x, ok := v.Float(); ok && x >= 0 {
			f.SetUint(uint64(x))
		}
		return
	}
	x := v.Interface()
	if x == nil {
		f.Set(reflect.Zero(f.Type()))
		return
	}
	rx := reflect.ValueOf(x)
	if rx.Type().AssignableTo(f.Type()) {
		f.Set(rx)
	} else if rx.Type().ConvertibleTo(f.Type()) {
		f.Set(rx.Convert(f.Type()))
	}
}

// Clear implements Sink by writing base back.
func (s *StructSink) Clear(base Value) { s.Set(base) }
