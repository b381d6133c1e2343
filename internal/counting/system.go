// Package counting implements card counting systems and the running/true
// count bookkeeping that sits alongside the game engine.
package counting

import (
	"sort"
	"strings"
	"sync"

	"github.com/lox/blackjack/internal/deck"
)

// System assigns a counting weight to each card. Implementations must be
// pure and total over all thirteen ranks.
type System interface {
	// Value returns the counting weight for a card, typically -1, 0 or +1.
	Value(c deck.Card) int

	// Name returns the published name of the system, e.g. "Hi-Lo".
	Name() string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]System)
)

// normalize folds a system name to its lookup key, so "Hi-Opt I",
// "hi-opt-i" and "HI-OPT I" all resolve to the same system.
func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// Register makes a counting system available for lookup by name. Built-in
// systems register themselves; callers may add custom ones.
func Register(s System) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[normalize(s.Name())] = s
}

// Lookup returns the registered system with the given name. Lookup is case
// insensitive and treats spaces and hyphens alike.
func Lookup(name string) (System, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[normalize(name)]
	return s, ok
}

// Names returns the published names of the registered systems in sorted
// order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, s := range registry {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

// Default returns the default counting system (Hi-Lo).
func Default() System {
	return HiLo{}
}

func init() {
	Register(HiLo{})
	Register(KO{})
	Register(HiOptI{})
}
