package pvalue

import "reflect"

// deepCloneRaw recursively copies a raw ingested value (decoded JSON:
// map[string]any, []any, and scalar leaves) so Wrap never aliases memory the
// caller's decoder still owns. Adapted from the extension container's
// reflection-based clone used at the same kind of untyped-boundary crossing.
func deepCloneRaw(value any) any {
	if value == nil {
		return nil
	}
	switch value.(type) {
	case string, bool, int, int64, float64:
		return value
	}

	source := reflect.ValueOf(value)
	switch source.Kind() {
	case reflect.Map:
		if source.IsNil() {
			return value
		}
		clone := reflect.MakeMapWithSize(source.Type(), source.Len())
		iter := source.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), reflect.ValueOf(deepCloneRaw(iter.Value().Interface())))
		}
		return clone.Interface()
	case reflect.Slice:
		if source.IsNil() {
			return value
		}
		clone := reflect.MakeSlice(source.Type(), source.Len(), source.Len())
		for i := 0; i < source.Len(); i++ {
			clone.Index(i).Set(reflect.ValueOf(deepCloneRaw(source.Index(i).Interface())))
		}
		return clone.Interface()
	default:
		return value
	}
}
