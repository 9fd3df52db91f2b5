package rules

import (
	"fmt"
	"strings"
	"sync"

	"go.jacobcolvin.com/datafix/dyn"
)

// maxPathCache bounds the parsed-path intern table. When the table fills
// it is reset wholesale; dotted paths in fix definitions are few and
// stable, so eviction is effectively never hit in practice.
const maxPathCache = 256

var pathCache = struct {
	sync.Mutex

	m map[string][]string
}{m: map[string][]string{}}

// ParsePath splits a dotted path into segments. Segments are literal map
// keys; no escaping is supported. An empty path or an empty segment is an
// error.
func ParsePath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}

	segments := strings.Split(path, ".")

	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("path %q: empty segment", path)
		}
	}

	return segments, nil
}

// mustPath returns the interned parse of a dotted path, panicking on a
// malformed one. Rule constructors take paths as part of their contract;
// a bad path means the caller is broken, not the data.
func mustPath(path string) []string {
	pathCache.Lock()
	defer pathCache.Unlock()

	if cached, ok := pathCache.m[path]; ok {
		return cached
	}

	segments, err := ParsePath(path)
	if err != nil {
		panic("rules: " + err.Error())
	}

	if len(pathCache.m) >= maxPathCache {
		pathCache.m = map[string][]string{}
	}

	pathCache.m[path] = segments

	return segments
}

// getAt descends a parsed path, failing on any missing or non-map
// intermediate.
func getAt(d dyn.Dynamic, segments []string) (dyn.Dynamic, bool) {
	current := d

	for _, s := range segments {
		next, ok := current.Get(s)
		if !ok {
			return dyn.Dynamic{}, false
		}

		current = next
	}

	return current, true
}

// setAt binds a value at a parsed path. With createParents set, missing
// intermediates become empty maps; otherwise a missing intermediate fails.
func setAt(d dyn.Dynamic, segments []string, v dyn.Dynamic, createParents bool) (dyn.Dynamic, bool) {
	if len(segments) == 1 {
		return d.Set(segments[0], v), true
	}

	child, ok := d.Get(segments[0])
	if !ok {
		if !createParents {
			return d, false
		}

		child = dyn.New(d.Ops(), d.Ops().EmptyMap())
	}

	updated, ok := setAt(child, segments[1:], v, createParents)
	if !ok {
		return d, false
	}

	return d.Set(segments[0], updated), true
}

// removeAt removes the binding at a parsed path. Missing intermediates or
// a missing final key fail.
func removeAt(d dyn.Dynamic, segments []string) (dyn.Dynamic, bool) {
	if len(segments) == 1 {
		if !d.Has(segments[0]) {
			return d, false
		}

		return d.Remove(segments[0]), true
	}

	child, ok := d.Get(segments[0])
	if !ok {
		return d, false
	}

	updated, ok := removeAt(child, segments[1:])
	if !ok {
		return d, false
	}

	return d.Set(segments[0], updated), true
}
