package config

import (
	"reflect"
	"time"

	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Value reads the attribute key of tree as a T.
// Absent (or nil) attributes yield def; unconvertible ones yield def and
// domain.MalformedConfig.
func Value[T any](tree ports.ConfigTree, key string, def T) (T, error) {
	if tree == nil {
		return def, domain.MalformedConfig
	}
	raw, ok := tree.Attr(key)
	if !ok || raw == nil {
		return def, nil
	}
	var out T
	if err := decode(raw, &out); err != nil {
		return def, domain.MalformedConfig
	}
	return out, nil
}

// Bool reads a boolean attribute.
func Bool(tree ports.ConfigTree, key string, def bool) (bool, error) {
	return Value(tree, key, def)
}

// String reads a string attribute.
func String(tree ports.ConfigTree, key string, def string) (string, error) {
	return Value(tree, key, def)
}

// Decode maps every attribute of tree onto the struct pointed to by out,
// matching mapstructure tags (case-insensitively). Fields without a matching
// attribute keep their current value, so callers pre-fill defaults.
// Durations accept Go duration strings ("150ms") or bare numbers of seconds.
// The tree must implement ports.AttrLister.
func Decode(tree ports.ConfigTree, out any) error {
	lister, ok := tree.(ports.AttrLister)
	if !ok {
		return domain.MalformedConfig
	}
	if err := decode(lister.Attrs(), out); err != nil {
		return domain.MalformedConfig
	}
	return nil
}

func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			numberToSecondsHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var durationType = reflect.TypeOf(time.Duration(0))

// numberToSecondsHookFunc reads a bare number decoded into a time.Duration as
// seconds. Without it, weak decoding would take 5 as 5ns.
func numberToSecondsHookFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data any) (any, error) {
		if t != durationType || f == durationType {
			return data, nil
		}
		v := reflect.ValueOf(data)
		switch f.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(v.Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(v.Uint()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(v.Float() * float64(time.Second)), nil
		}
		return data, nil
	}
}
