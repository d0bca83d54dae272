// Package metadata holds the annotations attached to declared entities (controllers,
// modules, route handlers, middlewares). It replaces out-of-band reflection tables with
// an explicit registry that callers create and pass to whoever needs to read it.
package metadata

import "sync"

// Key identifies one kind of annotation.
type Key string

// Keys consumed by the route resolver and the middleware gate.
const (
	KeyController        Key = "isController"
	KeyRoutePath         Key = "routePath"
	KeyModule            Key = "isModule"
	KeyModuleControllers Key = "moduleControllers"
	KeyModuleImports     Key = "moduleImports"
	KeyHTTPMethod        Key = "httpMethod"
	KeyQuerySchema       Key = "querySchema"
	KeyBodySchema        Key = "bodySchema"
	KeyInjectable        Key = "isInjectable"
	KeyControllerRoutes  Key = "controllerRoutes"
	KeyRouteMiddlewares  Key = "routeMiddlewares"
)

// Entity is anything metadata can be attached to. Identity is the value itself, so
// entities must be comparable (in practice, pointers).
type Entity interface {
	Name() string
}

type entry struct {
	key   Key
	value any
}

// Store is a registry of annotations keyed by entity and key.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[Entity][]entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[Entity][]entry)}
}

// Define attaches value under key to entity, overwriting any previous value.
// No validation of the value shape is performed.
func (s *Store) Define(key Key, value any, entity Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[entity]
	for i := range list {
		if list[i].key == key {
			list[i].value = value
			return
		}
	}
	s.entries[entity] = append(list, entry{key: key, value: value})
}

// Get returns the value attached under key, and whether it was ever defined.
func (s *Store) Get(key Key, entity Entity) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries[entity] {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Has reports whether key was defined for entity.
func (s *Store) Has(key Key, entity Entity) bool {
	_, ok := s.Get(key, entity)
	return ok
}

// Keys returns the keys defined for entity in definition order.
func (s *Store) Keys(entity Entity) []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[entity]
	keys := make([]Key, 0, len(list))
	for _, e := range list {
		keys = append(keys, e.key)
	}
	return keys
}

// Lookup returns the value under key converted to T. The boolean is false when the key
// is absent or holds a value of another type.
func Lookup[T any](s *Store, key Key, entity Entity) (T, bool) {
	var zero T
	raw, ok := s.Get(key, entity)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
