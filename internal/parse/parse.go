package parse

import (
	"sort"
	"sync"
)

// Line is the canonical pair every adapter produces: an engine-native key and
// the source-language text it carries.
type Line struct {
	Key  string
	Text string
}

// Adapter decodes one engine export format into canonical lines. Adapters
// must be pure and allocation-local so concurrent parses are always safe.
type Adapter interface {
	// FormatID returns the identifier the dispatcher resolves this adapter by.
	FormatID() string
	// Parse decodes raw export content into ordered lines. Zero lines is a
	// valid result and means the file carries nothing to import.
	Parse(data []byte) ([]Line, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Adapter)
)

// Register adds an adapter to the dispatcher. Registering two adapters under
// the same format id is a programming error and panics, matching the
// database/sql driver convention.
func Register(adapter Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	id := adapter.FormatID()
	if id == "" {
		panic("parse: adapter with empty format id")
	}
	if _, dup := registry[id]; dup {
		panic("parse: duplicate adapter registration for " + id)
	}
	registry[id] = adapter
}

// Resolve returns the adapter registered for a format id. Unknown ids return
// ok=false; callers surface that as an unsupported-format condition.
func Resolve(formatID string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	adapter, ok := registry[formatID]
	return adapter, ok
}

// Formats returns the sorted list of registered format ids.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
