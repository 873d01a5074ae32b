package hydrate

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/dql/internal/naming"
)

// Scan reads every remaining row into a column-keyed map. []byte values
// are converted to string. Scan does not close rows.
func Scan(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return out, nil
}

// Decode copies the row into the struct dest points to. A field reads the
// column named by its db tag, or the snake_case form of its name. Fields
// without a matching column are left untouched.
func (r Row) Decode(dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct, got %T", dest)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}
		column := columnName(field)
		if column == "" {
			continue
		}
		value, ok := r[column]
		if !ok {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// DecodeAll decodes every row of the result into the slice dest points to.
func (r *Result) DecodeAll(dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice, got %T", dest)
	}
	slice := v.Elem()
	elemType := slice.Type().Elem()
	isPtr := elemType.Kind() == reflect.Ptr
	if isPtr {
		elemType = elemType.Elem()
	}

	out := reflect.MakeSlice(slice.Type(), 0, r.Len())
	for _, row := range r.Rows() {
		elem := reflect.New(elemType)
		if err := row.Decode(elem.Interface()); err != nil {
			return err
		}
		if isPtr {
			out = reflect.Append(out, elem)
		} else {
			out = reflect.Append(out, elem.Elem())
		}
	}
	slice.Set(out)
	return nil
}

func columnName(field reflect.StructField) string {
	if tag := field.Tag.Get("db"); tag != "" {
		if tag == "-" {
			return ""
		}
		return strings.Split(tag, ",")[0]
	}
	return naming.Column(field.Name)
}

func setField(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Ptr {
		ptr := reflect.New(field.Type().Elem())
		if err := setField(ptr.Elem(), value); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(fmt.Sprintf("%v", value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch x := value.(type) {
		case int64:
			field.SetInt(x)
		case int32:
			field.SetInt(int64(x))
		case int:
			field.SetInt(int64(x))
		case float64:
			field.SetInt(int64(x))
		case string:
			n, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return fmt.Errorf("cannot convert %q to int: %w", x, err)
			}
			field.SetInt(n)
		default:
			return fmt.Errorf("cannot convert %T to int", value)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch x := value.(type) {
		case uint64:
			field.SetUint(x)
		case int64:
			field.SetUint(uint64(x))
		case float64:
			field.SetUint(uint64(x))
		default:
			return fmt.Errorf("cannot convert %T to uint", value)
		}

	case reflect.Float32, reflect.Float64:
		switch x := value.(type) {
		case float64:
			field.SetFloat(x)
		case float32:
			field.SetFloat(float64(x))
		case int64:
			field.SetFloat(float64(x))
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return fmt.Errorf("cannot convert %q to float: %w", x, err)
			}
			field.SetFloat(f)
		default:
			return fmt.Errorf("cannot convert %T to float", value)
		}

	case reflect.Bool:
		switch x := value.(type) {
		case int64:
			field.SetBool(x != 0)
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return fmt.Errorf("cannot convert %q to bool: %w", x, err)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("cannot convert %T to bool", value)
		}

	case reflect.Struct:
		if field.Type() != reflect.TypeOf(time.Time{}) {
			return fmt.Errorf("unsupported struct type: %s", field.Type())
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to time.Time", value)
		}
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, s); err == nil {
				field.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return fmt.Errorf("cannot parse time %q", s)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
	return nil
}
