package metrics

import (
	"fmt"
	"path"
	"reflect"
)

// metricAdder allocates a measure for a leaf field, given its name, group
// path and decoded tags. A nil return leaves the field untouched.
type metricAdder func(interface{}, string, string, map[string]string) interface{}

func equalType(a, b interface{}) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// scanStruct walks a tree of structs and allocates a measure on every field
// bearing a "metric" tag. Struct fields without such a tag recurse with their
// "group" tag appended to the path.
func scanStruct(parent string, adder metricAdder, m interface{}) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Type().Kind() != reflect.Struct {
		panic(fmt.Sprintf("scanStruct requires a pointer to a struct, got: %T", m))
	}
	scanTags(parent, adder, m)
}

func scanTags(parent string, adder metricAdder, m interface{}) {
	container := reflect.ValueOf(m)
	if shouldSkip(container) || !isStruct(container) {
		return
	}

	holder, innerType := pointerTo(container) // always a pointer
	inner := reflect.Indirect(holder)         // always a struct
	mutated := false

	for i := 0; i < innerType.NumField(); i++ {
		field := innerType.Field(i)
		fieldVal := inner.Field(i)

		if !fieldVal.CanInterface() {
			continue
		}
		var child interface{}
		if fieldVal.Type().Kind() == reflect.Ptr {
			child = fieldVal.Interface()
		} else {
			child = fieldVal.Addr().Interface()
		}

		tags := fieldTags(field)
		metric := tags["metric"]
		group := tags["group"]

		if metric == "" {
			scanTags(path.Join(parent, group), adder, child)
			continue
		}

		if skipMetric(fieldVal) {
			continue
		}

		allocated := adder(child, metric, path.Join(parent, group), tags)
		if allocated != nil {
			fieldVal.Set(reflect.ValueOf(allocated))
			mutated = true
		}
	}

	if !mutated {
		return
	}

	if container.CanSet() {
		container.Set(holder)
	} else if container.CanAddr() && container.Addr().CanSet() {
		container.Addr().Set(holder)
	}
}

// pointerTo yields an addressable pointer to the walked struct, allocating
// one when the container is not already a non-nil pointer.
func pointerTo(container reflect.Value) (reflect.Value, reflect.Type) {
	deref := derefType(container)
	if container.Type().Kind() == reflect.Ptr && !container.IsNil() {
		return container, deref
	}
	return reflect.New(deref), deref
}

func skipMetric(field reflect.Value) bool {
	return field.Type().Kind() != reflect.Ptr || !field.CanSet()
}

// fieldTags decodes the struct tags decorating a field.
// Supported tags are:
//   - metric: the metric name
//   - unit: the measurement unit (count, bytes, milliseconds, bytespersec, sumbytes)
//   - group: builds an additional path to the metric (e.g. root/path/mymetrics/{metric})
//   - description: adds this description to the metric and the associated views
//   - extraviews:[aggregator, ...]: builds additional views with alternate aggregators
//   - tags:[key, ...]: declares the tag keys views aggregate by
func fieldTags(field reflect.StructField) map[string]string {
	tags := make(map[string]string, 6)
	for _, key := range []string{"metric", "unit", "group", "description"} {
		if value, ok := field.Tag.Lookup(key); ok {
			tags[key] = value
		}
	}
	// these two are renamed when decoded
	if views, ok := field.Tag.Lookup("extraviews"); ok {
		tags["views"] = views
	}
	if groupings, ok := field.Tag.Lookup("tags"); ok {
		tags["groupings"] = groupings
	}
	return tags
}

func isStruct(v reflect.Value) bool {
	return (v.Type().Kind() == reflect.Ptr && v.Type().Elem().Kind() == reflect.Struct) || (v.Type().Kind() == reflect.Struct)
}

func derefType(v reflect.Value) reflect.Type {
	if v.Type().Kind() == reflect.Ptr {
		return v.Type().Elem()
	}
	return v.Type()
}

func shouldSkip(v reflect.Value) bool {
	return !v.IsValid() || v.Type().Kind() == reflect.Map || v.Type().Kind() == reflect.Slice
}
