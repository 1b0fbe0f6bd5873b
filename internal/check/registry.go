package check

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]RuleDef)
)

// Register adds a rule to the global registry. It panics on duplicate
// IDs, which indicates a programming error at init time.
func Register(def RuleDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[def.ID]; exists {
		panic(fmt.Sprintf("check: rule %s registered twice", def.ID))
	}
	registry[def.ID] = def
}

// AllRules returns every registered rule sorted by ID.
func AllRules() []RuleDef {
	registryMu.RLock()
	defer registryMu.RUnlock()
	rules := make([]RuleDef, 0, len(registry))
	for _, def := range registry {
		rules = append(rules, def)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// GetRule returns a rule by ID.
func GetRule(id string) (RuleDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := registry[id]
	return def, ok
}
