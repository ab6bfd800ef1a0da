package slurmexec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParamsFromStruct derives a parameter list from an annotated struct,
// as an alternative to writing []Param by hand. v must be a pointer to
// a struct. Supported field tags:
//
//	arg:"name"       flag name (default: lowercased field name; "-" skips)
//	default:"10"     default value, parsed per field type; absent means required
//	choices:"a,b,c"  restricts a string field to a fixed set
//	help:"..."       usage text
//
// Bool fields are never required; without a default tag they default to
// false. Supported field kinds are string, int, float64, and bool.
func ParamsFromStruct(v any) ([]Param, error) {
	st, err := structValue(v)
	if err != nil {
		return nil, err
	}

	t := st.Type()
	var params []Param
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := flagNameForField(field)
		if name == "" {
			continue
		}

		p := Param{Name: name, Help: field.Tag.Get("help")}
		defTag, hasDefault := field.Tag.Lookup("default")

		switch field.Type.Kind() {
		case reflect.String:
			if choices := field.Tag.Get("choices"); choices != "" {
				p.Type = ParamChoice
				p.Choices = strings.Split(choices, ",")
			} else {
				p.Type = ParamString
			}
			if hasDefault {
				p.Default = defTag
			}

		case reflect.Int:
			p.Type = ParamInt
			if hasDefault {
				n, err := strconv.Atoi(defTag)
				if err != nil {
					return nil, fmt.Errorf("%w: field %s default %q", ErrInvalidDefault, field.Name, defTag)
				}
				p.Default = n
			}

		case reflect.Float64:
			p.Type = ParamFloat
			if hasDefault {
				f, err := strconv.ParseFloat(defTag, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: field %s default %q", ErrInvalidDefault, field.Name, defTag)
				}
				p.Default = f
			}

		case reflect.Bool:
			p.Type = ParamBool
			def := false
			if hasDefault {
				b, err := strconv.ParseBool(defTag)
				if err != nil {
					return nil, fmt.Errorf("%w: field %s default %q", ErrInvalidDefault, field.Name, defTag)
				}
				def = b
			}
			p.Default = def

		default:
			return nil, fmt.Errorf("%w: field %s is %s", ErrUnsupportedField, field.Name, field.Type.Kind())
		}

		params = append(params, p)
	}
	return params, nil
}

// BindStruct writes parsed argument values back into the struct the
// parameters were derived from. v must be a pointer to a struct with the
// same annotated fields passed to ParamsFromStruct.
func BindStruct(v any, args *Args) error {
	st, err := structValue(v)
	if err != nil {
		return err
	}

	t := st.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := flagNameForField(field)
		if name == "" {
			continue
		}

		fv := st.Field(i)
		switch field.Type.Kind() {
		case reflect.String:
			fv.SetString(args.String(name))
		case reflect.Int:
			fv.SetInt(int64(args.Int(name)))
		case reflect.Float64:
			fv.SetFloat(args.Float64(name))
		case reflect.Bool:
			fv.SetBool(args.Bool(name))
		default:
			return fmt.Errorf("%w: field %s is %s", ErrUnsupportedField, field.Name, field.Type.Kind())
		}
	}
	return nil
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("expected pointer to struct, got %T", v)
	}
	return rv.Elem(), nil
}

func flagNameForField(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("arg"); ok {
		if tag == "-" {
			return ""
		}
		return tag
	}
	return strings.ToLower(field.Name)
}
