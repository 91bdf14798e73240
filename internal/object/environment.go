package object

import (
	"log/slog"
	"sync/atomic"
)

var nextID atomic.Uint64

type Environment struct {
	ID       uint64
	Bindings []*Binding
	Outer    *Environment
}

type Binding struct {
	Name  string
	Value Object
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{ID: nextEnvID()}
}

// Copy shares the parent link and deep-copies every binding.
func (e *Environment) Copy() *Environment {
	newEnv := &Environment{
		ID:       nextEnvID(),
		Bindings: make([]*Binding, len(e.Bindings)),
		Outer:    e.Outer,
	}
	for i, b := range e.Bindings {
		newEnv.Bindings[i] = &Binding{Name: b.Name, Value: b.Value.Copy()}
	}
	return newEnv
}

// GetBinding walks the scope chain for name.
func (e *Environment) GetBinding(name string) (*Binding, bool) {
	for _, b := range e.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	if e.Outer != nil {
		return e.Outer.GetBinding(name)
	}
	return nil, false
}

// Get returns a copy of the value bound to name, or an Unbound Symbol error.
func (e *Environment) Get(name string) Object {
	binding, ok := e.GetBinding(name)
	if !ok {
		return NewError("Unbound Symbol '%s'", name)
	}
	return binding.Value.Copy()
}

// Put binds a copy of val in this frame, replacing an existing binding of the same name.
func (e *Environment) Put(name string, val Object) {
	for _, b := range e.Bindings {
		if b.Name == name {
			b.Value = val.Copy()
			slog.Debug("rebinding value",
				slog.String("name", name),
				slog.Any("type", val.Type()),
				slog.Uint64("env", e.ID))
			return
		}
	}
	e.Bindings = append(e.Bindings, &Binding{Name: name, Value: val.Copy()})
	slog.Debug("binding value",
		slog.String("name", name),
		slog.Any("type", val.Type()),
		slog.Uint64("env", e.ID))
}

// Def binds a copy of val in the outermost frame.
func (e *Environment) Def(name string, val Object) {
	e.Root().Put(name, val)
}

func (e *Environment) Root() *Environment {
	root := e
	for root.Outer != nil {
		root = root.Outer
	}
	return root
}

// Names lists the names bound in this frame, in binding order.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.Bindings))
	for _, b := range e.Bindings {
		names = append(names, b.Name)
	}
	return names
}
