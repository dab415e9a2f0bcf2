package module

// Registry exclusively owns all module instances, keyed by id. Instances
// are created once at startup and live for the process lifetime; section
// ordering lives in configuration, not here.
type Registry struct {
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register inserts a module by id. Last writer wins on id collision, which
// lets callers hot-swap an implementation.
func (r *Registry) Register(m Module) {
	r.modules[m.ID()] = m
}

// Get returns the module for id. Absence means "render nothing", so the
// second return is a presence flag, not an error.
func (r *Registry) Get(id string) (Module, bool) {
	m, ok := r.modules[id]
	return m, ok
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}

// Each invokes fn for every registered module, in no particular order.
func (r *Registry) Each(fn func(Module)) {
	for _, m := range r.modules {
		fn(m)
	}
}

// UpdateAll invokes every module's update hook. Each call must be
// near-instant; blocking work belongs in workers.
func (r *Registry) UpdateAll(uc UpdateContext) {
	for _, m := range r.modules {
		m.Update(uc)
	}
}

// Ordered resolves an id order list to modules, skipping ids with no
// registered module. An order list referencing an unknown id is a
// configuration inconsistency, never fatal.
func (r *Registry) Ordered(ids []string) []Module {
	out := make([]Module, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.modules[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// As looks up id and asserts it to a concrete module type. This is the
// escape hatch for call sites that need module-specific behavior, such as
// building a settings menu. Layout and hit testing never use it.
func As[T Module](r *Registry, id string) (T, bool) {
	var zero T
	m, ok := r.modules[id]
	if !ok {
		return zero, false
	}
	t, ok := m.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
