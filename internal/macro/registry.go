package macro

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	starctx "github.com/ninjasql/ninjasql/internal/starlark"
)

// Registry holds loaded macro modules by namespace.
type Registry struct {
	modules map[string]*LoadedModule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*LoadedModule)}
}

// Register adds m. Namespaces must be unique and must not shadow a
// template builtin such as batch_date or add_days.
func (r *Registry) Register(m *LoadedModule) error {
	if starctx.IsBuiltin(m.Namespace) {
		return &RegistryError{Namespace: m.Namespace, Message: "conflicts with builtin"}
	}
	if prev, ok := r.modules[m.Namespace]; ok {
		return &RegistryError{Namespace: m.Namespace, Message: "already defined in " + prev.Path}
	}
	r.modules[m.Namespace] = m
	return nil
}

// RegisterAll registers modules in order, stopping at the first error.
func (r *Registry) RegisterAll(modules []*LoadedModule) error {
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the module for namespace, or nil.
func (r *Registry) Get(namespace string) *LoadedModule { return r.modules[namespace] }

// Len returns the number of modules.
func (r *Registry) Len() int { return len(r.modules) }

// Namespaces returns the registered namespaces, sorted.
func (r *Registry) Namespaces() []string {
	out := make([]string, 0, len(r.modules))
	for ns := range r.modules {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Globals returns one starlarkstruct.Module per namespace, ready to merge
// into template globals.
func (r *Registry) Globals() starlark.StringDict {
	out := make(starlark.StringDict, len(r.modules))
	for ns, m := range r.modules {
		out[ns] = &starlarkstruct.Module{Name: ns, Members: m.Exports}
	}
	return out
}

// LoadAndRegister loads every macro file in dir into a new registry.
func LoadAndRegister(dir string) (*Registry, error) {
	modules, err := NewLoader(dir).Load()
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	if err := r.RegisterAll(modules); err != nil {
		return nil, err
	}
	return r, nil
}

// RegistryError is a namespace registration failure.
type RegistryError struct {
	Namespace string
	Message   string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("macro namespace %q: %s", e.Namespace, e.Message)
}
