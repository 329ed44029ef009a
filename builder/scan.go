package builder

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	gigdriver "github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
)

// fieldCache caches column -> field index maps per struct type.
var fieldCache sync.Map

// columnFields maps column names to struct field indexes. The column name
// comes from the db tag, then the json tag, then the field name. Fields
// tagged db:"-" (relations) are skipped.
func columnFields(t reflect.Type) map[string]int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("db")
		if name == "-" {
			continue
		}
		if name == "" {
			name = tagName(f.Tag.Get("json"))
		}
		if name == "" || name == "-" {
			name = f.Name
		}
		m[name] = i
	}
	fieldCache.Store(t, m)
	return m
}

// relationField returns the index of the field holding relation name: a
// field tagged db:"-" whose json name is name.
func relationField(t reflect.Type, name string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("db") == "-" && tagName(f.Tag.Get("json")) == name {
			return i, true
		}
	}
	return 0, false
}

func tagName(tag string) string {
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx]
	}
	return tag
}

// scanStructs reads every row into a new *T of type t (a struct type).
func scanStructs(rows gigdriver.Rows, t reflect.Type) ([]reflect.Value, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	fields := columnFields(t)

	var out []reflect.Value
	for rows.Next() {
		if len(out) >= limits.MaxScanRows {
			return nil, fmt.Errorf("result set too large: maximum %d rows allowed", limits.MaxScanRows)
		}
		v := reflect.New(t)
		elem := v.Elem()
		dest := make([]interface{}, len(cols))
		for i, col := range cols {
			if idx, ok := fields[col]; ok {
				dest[i] = elem.Field(idx).Addr().Interface()
			} else {
				var discard interface{}
				dest[i] = &discard
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		normalizeTimes(elem)
		out = append(out, v)
	}
	return out, nil
}

// ScanAll reads every row into dest, a pointer to a slice of structs or of
// struct pointers. Columns are matched to fields by db tag.
func ScanAll(rows gigdriver.Rows, dest interface{}) error {
	if err := checkSliceDest("", dest); err != nil {
		return err
	}
	sliceVal := reflect.ValueOf(dest).Elem()
	elemType := sliceVal.Type().Elem()
	isPtr := elemType.Kind() == reflect.Pointer
	if isPtr {
		elemType = elemType.Elem()
	}

	items, err := scanStructs(rows, elemType)
	if err != nil {
		return err
	}
	out := reflect.MakeSlice(sliceVal.Type(), 0, len(items))
	for _, item := range items {
		if isPtr {
			out = reflect.Append(out, item)
		} else {
			out = reflect.Append(out, item.Elem())
		}
	}
	sliceVal.Set(out)
	return nil
}

func checkSliceDest(model string, dest interface{}) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Slice {
		return errors.Validation(model, "find", "dest must be a pointer to slice, got %T", dest)
	}
	elem := v.Elem().Type().Elem()
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return errors.Validation(model, "find", "dest must be a slice of structs, got %T", dest)
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// normalizeTimes puts every time field in UTC, whatever location the driver
// returned.
func normalizeTimes(v reflect.Value) {
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch {
		case f.Type() == timeType:
			f.Set(reflect.ValueOf(f.Interface().(time.Time).UTC()))
		case f.Kind() == reflect.Pointer && f.Type().Elem() == timeType && !f.IsNil():
			t := f.Elem().Interface().(time.Time).UTC()
			f.Set(reflect.ValueOf(&t))
		}
	}
}

// columnValue returns the value of column in struct value v, dereferencing
// pointers. ok is false for unknown columns and nil pointers.
func columnValue(v reflect.Value, column string) (interface{}, bool) {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	idx, ok := columnFields(v.Type())[column]
	if !ok {
		return nil, false
	}
	f := v.Field(idx)
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return nil, false
		}
		f = f.Elem()
	}
	return normalizeArg(f.Interface()), true
}

// normalizeArg converts bound values to types every driver accepts: named
// string types (enums) become string, pointers are dereferenced and times
// are stored in UTC at millisecond precision.
func normalizeArg(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, int64, float64, bool, []byte:
		return v
	case int:
		return int64(x)
	case time.Time:
		return x.UTC().Truncate(time.Millisecond)
	case driver.Valuer:
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return normalizeArg(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

// keyOf renders a normalized value as a map key for relation matching.
func keyOf(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

// toFloat converts an aggregate result to float64.
func toFloat(v interface{}) (*float64, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case int:
		f = float64(x)
	case []byte:
		if _, err := fmt.Sscan(string(x), &f); err != nil {
			return nil, err
		}
	case string:
		if _, err := fmt.Sscan(x, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cannot convert %T to float64", v)
	}
	return &f, nil
}

// toInt converts a COUNT result to int64.
func toInt(v interface{}) (int64, error) {
	f, err := toFloat(v)
	if err != nil || f == nil {
		return 0, err
	}
	return int64(*f), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerce converts a MIN/MAX result, or a GroupBy key, to the Go type of a
// schema field. Drivers return aggregates untyped, e.g. SQLite hands back
// DATETIME aggregates as text.
func coerce(fieldType string, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch fieldType {
	case "Int":
		return toInt(v)
	case "Float":
		f, err := toFloat(v)
		if err != nil || f == nil {
			return nil, err
		}
		return *f, nil
	case "Boolean":
		switch x := v.(type) {
		case bool:
			return x, nil
		case int64:
			return x != 0, nil
		case string:
			return x == "1" || strings.EqualFold(x, "true"), nil
		}
	case "DateTime":
		switch x := v.(type) {
		case time.Time:
			return x.UTC(), nil
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, x); err == nil {
					return t.UTC(), nil
				}
			}
			return nil, fmt.Errorf("cannot parse %q as DateTime", x)
		}
	default:
		return fmt.Sprint(v), nil
	}
	return v, nil
}
