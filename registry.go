package appsettings

import (
	"reflect"
	"sync"
)

// registry holds the process-wide state: the singleton instance per section
// type and the file path per container type. Both tables are keyed by type
// identity, so two section types never collide even when their field shapes
// are identical. Entries are replaced whole; registered instances are never
// mutated in place.
type registry struct {
	mutex    sync.RWMutex
	sections map[reflect.Type]any
	paths    map[reflect.Type]string
}

func newRegistry() *registry {
	return &registry{
		sections: make(map[reflect.Type]any),
		paths:    make(map[reflect.Type]string),
	}
}

// store is the process-wide registry. It starts empty and is populated
// lazily on first Get or explicitly via Load; it is cleared only by process
// termination or, in tests, by Reset.
var store = newRegistry()

func (r *registry) section(t reflect.Type) (any, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	v, ok := r.sections[t]
	return v, ok
}

func (r *registry) setSection(t reflect.Type, v any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sections[t] = v
}

func (r *registry) path(t reflect.Type) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.paths[t]
	return p, ok
}

func (r *registry) setPath(t reflect.Type, path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.paths[t] = path
}

func (r *registry) removePath(t reflect.Type) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.paths, t)
}

func (r *registry) clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sections = make(map[reflect.Type]any)
	r.paths = make(map[reflect.Type]string)
}

// Reset clears the singleton and path tables. It exists for test isolation;
// applications have no reason to call it.
func Reset() {
	store.clear()
}

// typeOf returns the type identity key for a section type.
func typeOf[S any]() reflect.Type {
	return reflect.TypeOf((*S)(nil)).Elem()
}
