package logic

import (
	"strings"
)

// Route is a structural pattern: each key is a dotted path into a payload, each value
// the literal string found there. A route matches a payload iff all its paths match.
type Route map[string]string

// GetPath follows a dotted path through nested maps. It reports false if any step is missing.
func GetPath(payload map[string]any, path string) (any, bool) {
	var cur any = payload
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[key]; !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func MatchRoute(route Route, payload map[string]any) bool {
	for path, expected := range route {
		val, ok := GetPath(payload, path)
		if !ok {
			return false
		}
		if str, isStr := val.(string); !isStr || str != expected {
			return false
		}
	}
	return true
}

// Payload expands the route's dotted paths into the nested payload it describes.
// Outbox callers use it to build routing keys.
func (route Route) Payload() map[string]any {
	res := map[string]any{}
	for path, val := range route {
		keys := strings.Split(path, ".")
		obj := res
		for _, key := range keys[:len(keys)-1] {
			child, ok := obj[key].(map[string]any)
			if !ok {
				child = map[string]any{}
				obj[key] = child
			}
			obj = child
		}
		obj[keys[len(keys)-1]] = val
	}
	return res
}

// objectId returns the id of a payload's object, which may be a bare URL or an embedded object.
func objectId(payload map[string]any) string {
	switch obj := payload["object"].(type) {
	case string:
		return obj
	case map[string]any:
		if id, ok := obj["id"].(string); ok {
			return id
		}
	}
	return ""
}
