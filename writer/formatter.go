package writer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ebridges/metaproc/model"
)

// Formatter renders one record to text.
type Formatter func(md *model.Metadata) (string, error)

// Formatters maps the CLI format names to their implementations.
var Formatters = map[string]Formatter{
	"csv":  CSVFormatter,
	"txt":  TextFormatter,
	"json": JSONFormatter,
}

// FormatterFor looks a formatter up by name.
func FormatterFor(name string) (Formatter, error) {
	f, ok := Formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return f, nil
}

// CSVFormatter renders a header row of sorted field names followed by one
// value row. Absent values render as empty strings.
func CSVFormatter(md *model.Metadata) (string, error) {
	data := md.Map()
	keys := sortedKeys(data)

	var b strings.Builder
	b.WriteString(strings.Join(keys, ","))
	b.WriteString("\n")
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, renderValue(data[k], ""))
	}
	b.WriteString(strings.Join(vals, ","))
	b.WriteString("\n")
	return b.String(), nil
}

// TextFormatter renders key=value lines sorted by key.
func TextFormatter(md *model.Metadata) (string, error) {
	data := md.Map()
	var b strings.Builder
	for _, k := range sortedKeys(data) {
		b.WriteString(fmt.Sprintf("%s=%s\n", k, renderValue(data[k], "<nil>")))
	}
	return b.String(), nil
}

// JSONFormatter renders an indented object with UUIDs and timestamps as
// ISO-8601 strings and absent values as null.
func JSONFormatter(md *model.Metadata) (string, error) {
	data := md.Map()
	for k, v := range data {
		if t, ok := v.(time.Time); ok {
			data[k] = t.Format(time.RFC3339)
		}
	}
	out, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to render JSON: %w", err)
	}
	return string(out) + "\n", nil
}

func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func renderValue(v any, null string) string {
	if v == nil {
		return null
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}
