package output

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats data as an aligned text table.
type TableFormatter struct {
	NoHeaders bool
}

// Format implements Formatter. It accepts a *Table, a slice of structs,
// a single struct, a map or a scalar.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}
	if t, ok := data.(*Table); ok {
		return t.render(w, f.NoHeaders)
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return sliceToTable(v).render(w, f.NoHeaders)
	case reflect.Struct:
		return structToTable(v).render(w, f.NoHeaders)
	case reflect.Map:
		return mapToTable(v).render(w, f.NoHeaders)
	default:
		_, err := fmt.Fprintln(w, formatValue(v))
		return err
	}
}

// Table is a header row plus data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) render(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// columns returns the exported fields of t with their header names.
func columns(t reflect.Type) (idx []int, headers []string) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag == "-" {
			continue
		} else if tag != "" {
			name = tag
		}
		idx = append(idx, i)
		headers = append(headers, strings.ToUpper(name))
	}
	return idx, headers
}

func sliceToTable(v reflect.Value) *Table {
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}

	if elemType.Kind() != reflect.Struct {
		t := &Table{Headers: []string{"VALUE"}}
		for i := range v.Len() {
			t.AddRow(formatValue(v.Index(i)))
		}
		return t
	}

	idx, headers := columns(elemType)
	t := &Table{Headers: headers}
	for i := range v.Len() {
		elem := reflect.Indirect(v.Index(i))
		row := make([]string, len(idx))
		for j, fi := range idx {
			row[j] = formatValue(elem.Field(fi))
		}
		t.AddRow(row...)
	}
	return t
}

func structToTable(v reflect.Value) *Table {
	idx, headers := columns(v.Type())
	t := &Table{Headers: []string{"NAME", "VALUE"}}
	for j, fi := range idx {
		t.AddRow(strings.ToLower(headers[j]), formatValue(v.Field(fi)))
	}
	return t
}

func mapToTable(v reflect.Value) *Table {
	t := &Table{Headers: []string{"KEY", "VALUE"}}
	keys := v.MapKeys()
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{formatValue(k), formatValue(v.MapIndex(k))})
	}
	slices.SortFunc(rows, func(a, b []string) int { return strings.Compare(a[0], b[0]) })
	t.Rows = rows
	return t
}

// formatValue renders a scalar cell. Empty strings print as "-".
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprint(v.Interface())
	}
}
