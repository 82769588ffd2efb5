package level

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// FragmentLookup resolves a fragment name to raw JSON. Loaders wire
// this to a directory or embedded filesystem next to the maps.
type FragmentLookup func(name string) ([]byte, error)

const maxFragmentDepth = 16

// resolveFragments walks a decoded script value and splices in any
// {"file": "name"} references. Keys besides "file" override the keys
// of the loaded fragment, so a reference can specialize a shared
// fragment in place. String values of the form "$name" are replaced
// with the matching entry from vars, which the loader fills from the
// owning object's Tiled properties.
func resolveFragments(v any, lookup FragmentLookup, vars map[string]any) (any, error) {
	return resolveFragmentsDepth(v, lookup, vars, 0)
}

func resolveFragmentsDepth(v any, lookup FragmentLookup, vars map[string]any, depth int) (any, error) {
	if depth > maxFragmentDepth {
		return nil, fmt.Errorf("fragment references nested deeper than %d", maxFragmentDepth)
	}
	switch t := v.(type) {
	case string:
		return substituteVar(t, vars), nil
	case []any:
		out := make([]any, len(t))
		for i, in := range t {
			r, err := resolveFragmentsDepth(in, lookup, vars, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		name, isRef := t["file"].(string)
		if !isRef {
			out := make(map[string]any, len(t))
			for k, in := range t {
				r, err := resolveFragmentsDepth(in, lookup, vars, depth+1)
				if err != nil {
					return nil, err
				}
				out[k] = r
			}
			return out, nil
		}
		if lookup == nil {
			return nil, fmt.Errorf("fragment %q referenced but no lookup is configured", name)
		}
		raw, err := lookup(name)
		if err != nil {
			return nil, fmt.Errorf("fragment %q: %w", name, err)
		}
		var loaded any
		if err := json.Unmarshal(raw, &loaded); err != nil {
			return nil, fmt.Errorf("fragment %q: %w", name, err)
		}
		loaded, err = resolveFragmentsDepth(loaded, lookup, vars, depth+1)
		if err != nil {
			return nil, err
		}
		base, ok := loaded.(map[string]any)
		if !ok {
			if len(t) == 1 {
				return loaded, nil
			}
			return nil, fmt.Errorf("fragment %q is not an object but has overrides", name)
		}
		merged := make(map[string]any, len(base)+len(t))
		for k, in := range base {
			merged[k] = in
		}
		for k, in := range t {
			if k == "file" {
				continue
			}
			r, err := resolveFragmentsDepth(in, lookup, vars, depth+1)
			if err != nil {
				return nil, err
			}
			merged[k] = r
		}
		return merged, nil
	}
	return v, nil
}

// substituteVar replaces a "$name" string with the named value. An
// unknown name warns and passes the string through unchanged.
func substituteVar(s string, vars map[string]any) any {
	if !strings.HasPrefix(s, "$") {
		return s
	}
	if v, ok := vars[s[1:]]; ok {
		return v
	}
	log.Printf("warning: variable field %s not specified", s)
	return s
}
