// Package fuzzy holds the pluggable fuzzy-hash implementations used
// to cross-check the hash set a report claims for the analyzed sample.
package fuzzy

import "strings"

// Hasher is one fuzzy hashing implementation. Match compares a
// locally computed digest against the digest string a report carries;
// equivalence rules (case, version prefixes) differ per algorithm, so
// they live with the hasher.
type Hasher interface {
	Name() string
	HashFile(path string) (string, error)
	Match(computed, reported string) bool
}

var registry = map[string]Hasher{}

// Register adds a fuzzy hasher to the registry.
func Register(hasher Hasher) {
	if hasher == nil {
		return
	}
	registry[strings.ToLower(hasher.Name())] = hasher
}

// Lookup returns a registered hasher by name.
func Lookup(name string) (Hasher, bool) {
	hasher, ok := registry[strings.ToLower(name)]
	return hasher, ok
}

// Available returns the names of registered hashers.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
