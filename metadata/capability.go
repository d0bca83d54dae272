package metadata

// IsInjectable reports whether entity carries the injectable marker.
func IsInjectable(s *Store, entity Entity) bool {
	return marker(s, KeyInjectable, entity)
}

// IsModule reports whether entity carries the module marker.
func IsModule(s *Store, entity Entity) bool {
	return marker(s, KeyModule, entity)
}

// IsController reports whether entity carries the controller marker.
func IsController(s *Store, entity Entity) bool {
	return marker(s, KeyController, entity)
}

// marker treats an explicit false as absent.
func marker(s *Store, key Key, entity Entity) bool {
	if s == nil || entity == nil {
		return false
	}
	v, ok := Lookup[bool](s, key, entity)
	return ok && v
}
