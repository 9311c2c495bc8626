package routes

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Descriptor is the resolved routing intent for a route. Query is an opaque
// payload supplied by a path map override and is passed through untouched.
type Descriptor struct {
	Page  string         `json:"page,omitempty"`
	Query map[string]any `json:"query,omitempty"`
}

// PathMap maps routes to descriptors and remembers insertion order. Setting an
// existing route replaces its descriptor in place; the iteration order of a
// PathMap is the order of the generated sitemap.
type PathMap struct {
	order   []string
	entries map[string]Descriptor
}

// NewPathMap returns an empty PathMap.
func NewPathMap() *PathMap {
	return &PathMap{entries: make(map[string]Descriptor)}
}

// PathMapFromRoutes builds the default mapping where each route points at itself.
func PathMapFromRoutes(routes []string) *PathMap {
	m := NewPathMap()
	for _, r := range routes {
		m.Set(r, Descriptor{Page: r})
	}
	return m
}

// Set inserts or replaces the descriptor for route.
func (m *PathMap) Set(route string, d Descriptor) {
	if m.entries == nil {
		m.entries = make(map[string]Descriptor)
	}
	if _, exists := m.entries[route]; !exists {
		m.order = append(m.order, route)
	}
	m.entries[route] = d
}

// Get returns the descriptor for route.
func (m *PathMap) Get(route string) (Descriptor, bool) {
	if m == nil {
		return Descriptor{}, false
	}
	d, ok := m.entries[route]
	return d, ok
}

// Has reports whether route is present.
func (m *PathMap) Has(route string) bool {
	_, ok := m.Get(route)
	return ok
}

// Delete removes route and reports whether it was present.
func (m *PathMap) Delete(route string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.entries[route]; !ok {
		return false
	}
	delete(m.entries, route)
	if i := slices.Index(m.order, route); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return true
}

// Len returns the number of routes.
func (m *PathMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Paths returns the routes in insertion order.
func (m *PathMap) Paths() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Clone returns an independent copy. Query payloads are shared.
func (m *PathMap) Clone() *PathMap {
	c := NewPathMap()
	for _, r := range m.Paths() {
		c.Set(r, m.entries[r])
	}
	return c
}

// String renders the route table, one "route -> page" line per entry.
func (m *PathMap) String() string {
	var b strings.Builder
	for _, p := range m.Paths() {
		d, _ := m.Get(p)
		fmt.Fprintf(&b, "%s -> %s", p, d.Page)
		if len(d.Query) > 0 {
			q, _ := json.Marshal(d.Query)
			fmt.Fprintf(&b, " %s", q)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
