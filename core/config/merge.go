package config

import "fmt"

// DeepMerge merges override into base and returns base. Keys present in both
// whose values are both mappings are merged recursively; any other value in
// override (scalar, sequence, mapping over a scalar) replaces the base value
// wholesale. base is modified in place; a nil base is allocated.
func DeepMerge(base, override map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(override))
	}

	for key, value := range override {
		value = normalize(value)

		dstMap, dstOK := base[key].(map[string]any)
		srcMap, srcOK := value.(map[string]any)
		if dstOK && srcOK {
			base[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		base[key] = value
	}
	return base
}

// normalize rewrites mappings decoded with non-string keys into
// map[string]any so that nested mappings merge regardless of key type.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			val[k] = normalize(inner)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[fmt.Sprint(k)] = normalize(inner)
		}
		return out
	case []any:
		for i, inner := range val {
			val[i] = normalize(inner)
		}
		return val
	default:
		return v
	}
}
