package wlclient

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Global is a compositor global announced by wl_registry.global.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Globals tracks the globals announced on one registry.
type Globals struct {
	registry *Registry

	mu      sync.RWMutex
	globals map[uint32]Global
}

// WatchGlobals installs a handler on r that records globals as they are
// announced and removed. h, if not nil, sees every registry event after the
// table has been updated. Call Roundtrip afterwards to receive the initial
// burst of announcements.
func WatchGlobals(r *Registry, h func(RegistryEvent)) (*Globals, error) {
	g := &Globals{registry: r, globals: make(map[uint32]Global)}
	err := r.SetHandler(func(ev RegistryEvent) {
		switch ev := ev.(type) {
		case RegistryGlobalEvent:
			g.mu.Lock()
			g.globals[ev.Name] = Global{Name: ev.Name, Interface: ev.Interface, Version: ev.Version}
			g.mu.Unlock()
		case RegistryGlobalRemoveEvent:
			g.mu.Lock()
			delete(g.globals, ev.Name)
			g.mu.Unlock()
		}
		if h != nil {
			h(ev)
		}
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Registry returns the registry the table follows.
func (g *Globals) Registry() *Registry { return g.registry }

// All returns every known global ordered by name.
func (g *Globals) All() []Global {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Global, 0, len(g.globals))
	for _, gl := range g.globals {
		out = append(out, gl)
	}
	slices.SortFunc(out, func(a, b Global) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Find returns the first global, by name, implementing iface.
func (g *Globals) Find(iface string) (Global, bool) {
	for _, gl := range g.All() {
		if gl.Interface == iface {
			return gl, true
		}
	}
	return Global{}, false
}

// Lookup returns the global with the given numeric name.
func (g *Globals) Lookup(name uint32) (Global, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	gl, ok := g.globals[name]
	return gl, ok
}

// BindGlobal binds gl with a typed wrapper. The version is the lowest of
// the advertised version, maxVersion and the version the bindings know;
// a maxVersion of 0 means no limit.
func BindGlobal[T any, PT Binding[T]](r *Registry, gl Global, maxVersion uint32) (PT, error) {
	iface := PT(nil).Interface()
	if gl.Interface != iface.Name {
		return nil, localError("bind", fmt.Errorf("%w: global %d is %s, not %s", ErrInvalidRequest, gl.Name, gl.Interface, iface.Name))
	}
	version := min(gl.Version, iface.Version)
	if maxVersion > 0 {
		version = min(version, maxVersion)
	}
	p, err := r.Bind(gl.Name, iface, version)
	if err != nil {
		return nil, err
	}
	return Wrap[T, PT](p), nil
}

// Bind finds the first global implementing T's interface and binds it.
func Bind[T any, PT Binding[T]](g *Globals, maxVersion uint32) (PT, error) {
	iface := PT(nil).Interface()
	gl, ok := g.Find(iface.Name)
	if !ok {
		return nil, localError("bind", fmt.Errorf("%w: no %s global", ErrInvalidRequest, iface.Name))
	}
	return BindGlobal[T, PT](g.registry, gl, maxVersion)
}
