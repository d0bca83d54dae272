package metadata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct{ name string }

func (e *testEntity) Name() string { return e.name }

func TestStoreDefineGetHas(t *testing.T) {
	s := NewStore()
	e := &testEntity{name: "UsersController"}

	_, ok := s.Get(KeyRoutePath, e)
	assert.False(t, ok)
	assert.False(t, s.Has(KeyRoutePath, e))

	s.Define(KeyRoutePath, []string{"/users"}, e)

	v, ok := s.Get(KeyRoutePath, e)
	require.True(t, ok)
	assert.Equal(t, []string{"/users"}, v)
	assert.True(t, s.Has(KeyRoutePath, e))
}

func TestStoreDefineOverwrites(t *testing.T) {
	s := NewStore()
	e := &testEntity{name: "c"}

	s.Define(KeyRoutePath, "/a", e)
	s.Define(KeyController, true, e)
	s.Define(KeyRoutePath, "/b", e)

	v, _ := s.Get(KeyRoutePath, e)
	assert.Equal(t, "/b", v)
	assert.Equal(t, []Key{KeyRoutePath, KeyController}, s.Keys(e))
}

func TestStoreEntitiesAreIsolated(t *testing.T) {
	s := NewStore()
	a := &testEntity{name: "same"}
	b := &testEntity{name: "same"}

	s.Define(KeyModule, true, a)

	assert.True(t, s.Has(KeyModule, a))
	assert.False(t, s.Has(KeyModule, b), "identity is the pointer, not the name")
	assert.Empty(t, s.Keys(b))
}

func TestLookupTyped(t *testing.T) {
	s := NewStore()
	e := &testEntity{name: "h"}
	s.Define(KeyRoutePath, []string{"/x"}, e)

	paths, ok := Lookup[[]string](s, KeyRoutePath, e)
	require.True(t, ok)
	assert.Equal(t, []string{"/x"}, paths)

	_, ok = Lookup[string](s, KeyRoutePath, e)
	assert.False(t, ok, "wrong type")

	_, ok = Lookup[string](s, KeyBodySchema, e)
	assert.False(t, ok, "absent key")
}

func TestCapabilityChecks(t *testing.T) {
	s := NewStore()
	injectable := &testEntity{name: "Injectable"}
	module := &testEntity{name: "Module"}
	disabled := &testEntity{name: "Disabled"}
	plain := &testEntity{name: "Plain"}

	s.Define(KeyInjectable, true, injectable)
	s.Define(KeyModule, true, module)
	s.Define(KeyController, true, module)
	s.Define(KeyInjectable, false, disabled)

	tests := []struct {
		name       string
		entity     Entity
		injectable bool
		module     bool
		controller bool
	}{
		{name: "injectable_marker", entity: injectable, injectable: true},
		{name: "module_and_controller_markers", entity: module, module: true, controller: true},
		{name: "explicit_false_is_absent", entity: disabled},
		{name: "no_markers", entity: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.injectable, IsInjectable(s, tt.entity))
			assert.Equal(t, tt.module, IsModule(s, tt.entity))
			assert.Equal(t, tt.controller, IsController(s, tt.entity))
		})
	}
}

func TestCapabilityChecksNilSafe(t *testing.T) {
	assert.False(t, IsInjectable(nil, &testEntity{}))
	assert.False(t, IsModule(NewStore(), nil))
}

func TestStoreConcurrentReaders(t *testing.T) {
	s := NewStore()
	e := &testEntity{name: "shared"}
	s.Define(KeyHTTPMethod, "GET", e)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := Lookup[string](s, KeyHTTPMethod, e)
			assert.True(t, ok)
			assert.Equal(t, "GET", v)
		}()
	}
	wg.Wait()
}
