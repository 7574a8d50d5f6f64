package state

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// GlobalData is a concurrent key/value bag for application data. Its
// contents and their lifecycle belong to the application.
type GlobalData struct {
	m cmap.ConcurrentMap[string, any]
}

// Get returns the value stored under key.
func (g *GlobalData) Get(key string) (any, bool) {
	return g.m.Get(key)
}

// Set stores value under key.
func (g *GlobalData) Set(key string, value any) {
	g.m.Set(key, value)
}

// Delete removes key.
func (g *GlobalData) Delete(key string) {
	g.m.Remove(key)
}

// Has reports whether key is present.
func (g *GlobalData) Has(key string) bool {
	return g.m.Has(key)
}

// Keys returns the stored keys in sorted order.
func (g *GlobalData) Keys() []string {
	keys := g.m.Keys()
	sort.Strings(keys)
	return keys
}

// Items returns a copy of the bag.
func (g *GlobalData) Items() map[string]any {
	return g.m.Items()
}

// Len returns the number of stored keys.
func (g *GlobalData) Len() int {
	return g.m.Count()
}
