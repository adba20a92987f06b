// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FlagsFromParams builds a flag set from the tagged fields of params,
// which must be a pointer to a struct. Panics on a malformed params
// type: that is a programming error, not runtime data.
//
// Three tags drive the binding: flag:"name" or flag:"name,n" (long
// name plus optional one-letter shorthand), desc:"help text", and
// default:"value" parsed per the field's type. Fields without a flag
// tag are skipped. Supported field types: string, bool, int64,
// []string.
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := bindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

func bindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}

	structValue := value.Elem()
	structType := structValue.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag := field.Tag.Get("flag")
		if tag == "" {
			continue
		}

		name, shorthand, _ := strings.Cut(tag, ",")
		description := field.Tag.Get("desc")
		defaultValue := field.Tag.Get("default")

		switch target := structValue.Field(i).Addr().Interface().(type) {
		case *string:
			flagSet.StringVarP(target, name, shorthand, defaultValue, description)

		case *bool:
			parsed := false
			if defaultValue != "" {
				var err error
				if parsed, err = strconv.ParseBool(defaultValue); err != nil {
					return fmt.Errorf("field %s: default: %w", field.Name, err)
				}
			}
			flagSet.BoolVarP(target, name, shorthand, parsed, description)

		case *int64:
			var parsed int64
			if defaultValue != "" {
				var err error
				if parsed, err = strconv.ParseInt(defaultValue, 10, 64); err != nil {
					return fmt.Errorf("field %s: default: %w", field.Name, err)
				}
			}
			flagSet.Int64VarP(target, name, shorthand, parsed, description)

		case *[]string:
			var parsed []string
			if defaultValue != "" {
				parsed = strings.Split(defaultValue, ",")
			}
			flagSet.StringSliceVarP(target, name, shorthand, parsed, description)

		default:
			return fmt.Errorf("field %s: unsupported flag type %s", field.Name, field.Type)
		}
	}

	return nil
}
