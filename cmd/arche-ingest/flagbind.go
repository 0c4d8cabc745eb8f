package main

import (
	"fmt"
	"reflect"

	"github.com/spf13/pflag"
)

// bindFlags registers a pflag for every field of cfg tagged `flag:"..."`
// by reflection. Anonymous embedded struct fields (SkosIngestConfig
// embeds GraphIngestConfig) are walked recursively so their flags
// register too.
func bindFlags(fs *pflag.FlagSet, cfg any) {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if field.Anonymous && fv.Kind() == reflect.Struct {
			bindFlags(fs, fv.Addr().Interface())
			continue
		}
		name := field.Tag.Get("flag")
		if name == "" {
			continue
		}
		desc := field.Tag.Get("desc")
		switch ptr := fv.Addr().Interface().(type) {
		case *string:
			fs.StringVar(ptr, name, *ptr, desc)
		case *bool:
			fs.BoolVar(ptr, name, *ptr, desc)
		case *int:
			fs.IntVar(ptr, name, *ptr, desc)
		case *int64:
			fs.Int64Var(ptr, name, *ptr, desc)
		case *[]string:
			fs.StringArrayVar(ptr, name, *ptr, desc)
		default:
			panic(fmt.Sprintf("ingestconfig: field %s has unsupported flag-bindable type %s", name, field.Type))
		}
	}
}
