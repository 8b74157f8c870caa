package motion

// NameScope maps names to objects. Lookups that miss fall through to the
// parent scope.
type NameScope struct {
	parent *NameScope
	names  map[string]any
}

// NewNameScope creates a scope chained to parent, which may be nil.
func NewNameScope(parent *NameScope) *NameScope {
	return &NameScope{parent: parent, names: make(map[string]any)}
}

// Register binds name to obj, replacing any earlier binding in this scope.
func (s *NameScope) Register(name string, obj any) {
	s.names[name] = obj
}

// Unregister removes name from this scope only.
func (s *NameScope) Unregister(name string) {
	delete(s.names, name)
}

// FindName looks name up in this scope and then in its ancestors.
func (s *NameScope) FindName(name string) any {
	for p := s; p != nil; p = p.parent {
		if obj, ok := p.names[name]; ok {
			return obj
		}
	}
	return nil
}

// Parent returns the enclosing scope or nil.
func (s *NameScope) Parent() *NameScope { return s.parent }

// NameScoped is implemented by scopes that carry a hierarchical name scope.
type NameScoped interface {
	NameScope() *NameScope
}

// NameFinder is implemented by scopes that can look names up locally.
type NameFinder interface {
	FindName(name string) any
}

// ResolveNameFunc is a caller-supplied name lookup consulted before any scope.
type ResolveNameFunc func(name string) any

// resolveTarget finds the object a leaf animates. An empty name targets the
// scope itself. Otherwise the explicit resolver, the hierarchical scope and
// the scope's own lookup are tried in that order.
func resolveTarget(scope any, name string, resolve ResolveNameFunc) any {
	if name == "" {
		return scope
	}
	if resolve != nil {
		if obj := resolve(name); obj != nil {
			return obj
		}
	}
	if ns, ok := scope.(NameScoped); ok {
		if s := ns.NameScope(); s != nil {
			if obj := s.FindName(name); obj != nil {
				return obj
			}
		}
	}
	if f, ok := scope.(NameFinder); ok {
		if obj := f.FindName(name); obj != nil {
			return obj
		}
	}
	return nil
}
