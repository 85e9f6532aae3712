package ux

import (
	"fmt"
	"io"
	"strings"
)

// Row is one key/value line of a Table.
type Row struct {
	Key   string
	Value string
}

// Table is a titled list of aligned key/value rows. It implements
// fmt.Stringer so the text formatter can print it.
type Table struct {
	Title  string
	Rows   []Row
	Styles *Styles
}

// Add appends a row, formatting value with %v.
func (t *Table) Add(key string, value any) {
	t.Rows = append(t.Rows, Row{Key: key, Value: fmt.Sprint(value)})
}

// String renders the table.
func (t *Table) String() string {
	st := t.Styles
	if st == nil {
		st = NewStyles(io.Discard, true)
	}

	width := 0
	for _, r := range t.Rows {
		width = max(width, len(r.Key))
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(st.Title.Render(t.Title))
		b.WriteByte('\n')
	}
	for _, r := range t.Rows {
		key := fmt.Sprintf("%-*s", width+1, r.Key+":")
		fmt.Fprintf(&b, "  %s %s\n", st.Key.Render(key), st.Value.Render(r.Value))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
