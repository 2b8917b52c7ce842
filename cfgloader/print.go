package cfgloader

import (
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// render returns config as YAML with every field tagged `mask:"true"` masked.
func render(config any) string {
	out, err := yaml.Marshal(masked(reflect.ValueOf(config)).Interface())
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func masked(val reflect.Value) reflect.Value {
	switch val.Kind() { //nolint:exhaustive // other kinds are printed as is
	case reflect.Ptr:
		if val.IsNil() {
			return val
		}
		ptr := reflect.New(val.Elem().Type())
		ptr.Elem().Set(masked(val.Elem()))
		return ptr

	case reflect.Struct:
		out := reflect.New(val.Type()).Elem()
		for i := range val.NumField() {
			field := val.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			if field.Tag.Get("mask") == "true" {
				out.Field(i).Set(maskField(val.Field(i)))
			} else {
				out.Field(i).Set(masked(val.Field(i)))
			}
		}
		return out

	default:
		return val
	}
}

// maskField hides strings behind stars of the same length. Other masked kinds are
// printed as their zero value.
func maskField(val reflect.Value) reflect.Value {
	if val.Kind() == reflect.String {
		return reflect.ValueOf(strings.Repeat("*", val.Len())).Convert(val.Type())
	}
	return reflect.Zero(val.Type())
}
