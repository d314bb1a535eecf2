package change

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrUnrecognizedPayload reports a change payload whose top-level structure
// matched none of the accepted shapes.
var ErrUnrecognizedPayload = errors.New("unrecognized change payload structure")

// arrayKeys are accepted top-level wrappers around the change array.
var arrayKeys = []string{"changes", "suggestions"}

// ParseRaw decodes a raw JSON change payload into loosely-typed records,
// ready for Normalize. Language models wrap the change array inconsistently,
// so the accepted shapes are: a top-level array, an object carrying a
// "changes" or "suggestions" array, or a single change object.
func ParseRaw(data []byte) ([]map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrUnrecognizedPayload)
	}

	root := gjson.ParseBytes(data)
	if root.IsArray() {
		return objectList(root)
	}
	if root.IsObject() {
		for _, key := range arrayKeys {
			if arr := root.Get(key); arr.IsArray() {
				return objectList(arr)
			}
		}
		// A single change object returned without a wrapper.
		if _, _, ok := matchFields(rawObject(root)); ok {
			return []map[string]any{rawObject(root)}, nil
		}
	}
	return nil, ErrUnrecognizedPayload
}

func objectList(arr gjson.Result) ([]map[string]any, error) {
	var out []map[string]any
	var err error
	arr.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			err = fmt.Errorf("%w: array element is not an object", ErrUnrecognizedPayload)
			return false
		}
		out = append(out, rawObject(item))
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// rawObject flattens a JSON object into the map shape Normalize consumes.
// Only string values are kept; Normalize treats anything else as absent.
func rawObject(obj gjson.Result) map[string]any {
	m := make(map[string]any)
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.String {
			m[key.String()] = value.String()
		} else {
			m[key.String()] = value.Value()
		}
		return true
	})
	return m
}
