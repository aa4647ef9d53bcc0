package migrate

import (
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/schema"
)

// mirrorLegacy reconciles every legacy pair. The current field wins when it
// is present and set; otherwise a present legacy value is copied forward.
// When only the current field exists it is copied back so both sides match.
func mirrorLegacy(doc map[string]any) {
	for _, pair := range character.LegacyPairs {
		current, currentOK := lookup(doc, pair.Current)
		legacy, legacyOK := lookup(doc, pair.Legacy)

		switch {
		case currentOK && !isDefault(current):
			assign(doc, pair.Legacy, deepCopy(current))
		case legacyOK:
			assign(doc, pair.Current, deepCopy(legacy))
		case currentOK:
			assign(doc, pair.Legacy, deepCopy(current))
		}
	}
}

func lookup(doc map[string]any, path []string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// assign writes value at path. Missing parents are not created; a pair whose
// parent object is absent stays for the validator to report.
func assign(doc map[string]any, path []string, value any) {
	obj := doc
	for _, key := range path[:len(path)-1] {
		next, ok := obj[key].(map[string]any)
		if !ok {
			return
		}
		obj = next
	}
	obj[path[len(path)-1]] = value
}

func isDefault(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case bool:
		return !t
	}
	if n, ok := schema.AsInt(v); ok {
		return n == 0
	}
	return false
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	}
	return v
}
