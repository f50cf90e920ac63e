package validate

import (
	"reflect"
	"strconv"
	"strings"
)

// Resolve returns the value addressed by a dotted key, or nil when any
// segment is missing or nil.
//
// Maps with string keys, slices and arrays (numeric segments) and structs
// (exported fields, matched by name case-insensitively or by json/yaml tag)
// can be traversed. Pointers and interfaces are dereferenced on the way.
func Resolve(data any, key string) any {
	current := data
	for _, segment := range strings.Split(key, ".") {
		next, ok := lookup(current, segment)
		if !ok || isNil(next) {
			return nil
		}
		current = next
	}
	return current
}

// lookup reads a single segment from a container.
func lookup(container any, segment string) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		v, ok := c[segment]
		return v, ok
	case []any:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	}

	v := reflect.ValueOf(container)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := v.MapIndex(reflect.ValueOf(segment).Convert(v.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true

	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= v.Len() {
			return nil, false
		}
		return v.Index(i).Interface(), true

	case reflect.Struct:
		f, ok := structField(v, segment)
		if !ok {
			return nil, false
		}
		return f.Interface(), true
	}

	return nil, false
}

// structField finds an exported field by tag name or case-insensitive name.
func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if matchTag(sf, "json", name) || matchTag(sf, "yaml", name) || strings.EqualFold(sf.Name, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func matchTag(sf reflect.StructField, key, name string) bool {
	tag, ok := sf.Tag.Lookup(key)
	if !ok {
		return false
	}
	tagged, _, _ := strings.Cut(tag, ",")
	return tagged != "" && tagged == name
}

// isNil reports whether v is nil or a typed nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
