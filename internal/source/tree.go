package source

import (
	"fmt"

	"github.com/angeloszaimis/oms-envcheck/internal/settingserr"
)

// Tree is a parsed or merged configuration document. Nested tables are
// map[string]any and lists are []any.
type Tree map[string]any

type shape int

const (
	shapeScalar shape = iota
	shapeList
	shapeTable
)

func (s shape) String() string {
	switch s {
	case shapeList:
		return "list"
	case shapeTable:
		return "table"
	default:
		return "scalar"
	}
}

func shapeOf(v any) shape {
	switch v.(type) {
	case map[string]any, Tree:
		return shapeTable
	case []any:
		return shapeList
	default:
		return shapeScalar
	}
}

func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Tree:
		return t, true
	default:
		return nil, false
	}
}

// Merge applies overlay onto dst in place. Tables merge recursively, every
// other value is replaced by the overlay's. Shape conflicts fail with a
// config error naming the key path; dst may be partially updated in that
// case and must be discarded.
func Merge(dst, overlay Tree) error {
	return mergeTable("", dst, overlay)
}

func mergeTable(prefix string, dst, overlay map[string]any) error {
	for key, incoming := range overlay {
		path := joinPath(prefix, key)

		existing, ok := dst[key]
		if !ok || existing == nil || incoming == nil {
			dst[key] = cloneValue(incoming)
			continue
		}

		have, want := shapeOf(existing), shapeOf(incoming)
		if have != want {
			return settingserr.Field(path, have.String(),
				fmt.Errorf("overlay %s conflicts with base %s", want, have))
		}

		if have == shapeTable {
			dstTable, _ := asTable(existing)
			overlayTable, _ := asTable(incoming)
			if err := mergeTable(path, dstTable, overlayTable); err != nil {
				return err
			}
			continue
		}

		dst[key] = cloneValue(incoming)
	}
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func cloneTable(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneTable(t)
	case Tree:
		return cloneTable(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
