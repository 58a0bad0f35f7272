// Package jsonmerge combines tree-structured JSON values.
package jsonmerge

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Combine deep-merges right into left and returns the merged document.
// Objects merge recursively over the union of their keys; a null on the
// right is absorbing (the left value survives); any other conflict is
// won by the right value. Arrays and scalars are not merged
// element-wise.
func Combine(left, right []byte) ([]byte, error) {
	if !gjson.ValidBytes(left) {
		return nil, errors.New("combine: left operand is not valid JSON")
	}
	if !gjson.ValidBytes(right) {
		return nil, errors.New("combine: right operand is not valid JSON")
	}
	out, err := combine(gjson.ParseBytes(left), gjson.ParseBytes(right))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func combine(left, right gjson.Result) (string, error) {
	if right.Type == gjson.Null {
		return left.Raw, nil
	}
	if !left.IsObject() || !right.IsObject() {
		return right.Raw, nil
	}

	out := left.Raw
	var ferr error
	right.ForEach(func(key, rv gjson.Result) bool {
		path := escapePathKey(key.String())
		lv := left.Get(path)

		if rv.Type == gjson.Null && lv.Exists() {
			return true // null on the right keeps the left entry
		}

		merged := rv.Raw
		if lv.IsObject() && rv.IsObject() {
			var err error
			merged, err = combine(lv, rv)
			if err != nil {
				ferr = err
				return false
			}
		}
		var err error
		out, err = sjson.SetRaw(out, path, merged)
		if err != nil {
			ferr = fmt.Errorf("combine: set %q: %w", key.String(), err)
			return false
		}
		return true
	})
	if ferr != nil {
		return "", ferr
	}
	return out, nil
}

// escapePathKey quotes path metacharacters so a literal object key can
// be used as a gjson/sjson path component.
func escapePathKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MergeMaps copies every entry of src into dst, overwriting on key
// collision.
func MergeMaps[K comparable, V any](dst, src map[K]V) {
	maps.Copy(dst, src)
}
