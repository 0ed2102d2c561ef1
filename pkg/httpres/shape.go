package httpres

import (
	"encoding/json"
	"reflect"
	"strings"
)

// ShapeMatcher decides whether a value decoded into some target type is a
// plausible reading of the raw JSON it came from. jsonKeys holds the
// lower-cased top-level property names of the body, typeKeys the lower-cased
// wire names of the target type's fields.
//
// This exists because encoding/json succeeds even when the body shares no
// properties with the target, producing an all-zero value that would make a
// handler for the wrong type fire. The default matcher accepts on any
// intersection of the two sets. That is a heuristic: two unrelated types
// sharing a single field name both pass, and a target with no exported
// fields never passes. Callers needing stricter routing substitute their own
// matcher via WithShapeMatcher.
type ShapeMatcher func(jsonKeys, typeKeys map[string]struct{}) bool

// OverlapMatcher is the default ShapeMatcher: non-empty intersection.
func OverlapMatcher(jsonKeys, typeKeys map[string]struct{}) bool {
	for k := range typeKeys {
		if _, ok := jsonKeys[k]; ok {
			return true
		}
	}
	return false
}

// jsonTopLevelKeys parses raw as a JSON object and returns its property
// names, lower-cased. Non-object bodies yield ok = false.
func jsonTopLevelKeys(raw []byte) (map[string]struct{}, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	keys := make(map[string]struct{}, len(obj))
	for k := range obj {
		keys[strings.ToLower(k)] = struct{}{}
	}
	return keys, true
}

// typeWireKeys returns the lower-cased wire names of t's exported fields,
// honoring json tags. Non-struct targets yield an empty set and therefore
// never match.
func typeWireKeys(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	keys := make(map[string]struct{})
	if t.Kind() != reflect.Struct {
		return keys
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		keys[strings.ToLower(name)] = struct{}{}
	}
	return keys
}
