// Package emitter renders compiled content as TypeScript modules.
package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dtnitsch/contentc/pkg/content"
)

const indentUnit = "  "

// Literal renders v as a TypeScript object literal in the layout of
// JSON.stringify(v, null, 2). Keys keep the tree's order.
func Literal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any, depth int) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(quote(t))
	case int:
		buf.WriteString(strconv.Itoa(t))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(t, 10))
	case float64:
		buf.WriteString(formatFloat(t))
	case *content.Map:
		return writeMap(buf, t, depth)
	case []any:
		return writeList(buf, t, depth)
	default:
		return fmt.Errorf("unsupported content value of type %T", v)
	}
	return nil
}

func writeMap(buf *bytes.Buffer, m *content.Map, depth int) error {
	keys := m.Keys()
	if len(keys) == 0 {
		buf.WriteString("{}")
		return nil
	}

	inner := strings.Repeat(indentUnit, depth+1)
	buf.WriteString("{\n")
	for i, k := range keys {
		v, _ := m.Get(k)
		buf.WriteString(inner)
		buf.WriteString(quote(k))
		buf.WriteString(": ")
		if err := writeValue(buf, v, depth+1); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat(indentUnit, depth))
	buf.WriteByte('}')
	return nil
}

func writeList(buf *bytes.Buffer, items []any, depth int) error {
	if len(items) == 0 {
		buf.WriteString("[]")
		return nil
	}

	inner := strings.Repeat(indentUnit, depth+1)
	buf.WriteString("[\n")
	for i, item := range items {
		buf.WriteString(inner)
		if err := writeValue(buf, item, depth+1); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		if i < len(items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat(indentUnit, depth))
	buf.WriteByte(']')
	return nil
}

// quote renders s as a JSON string literal, which is also a valid TypeScript string.
// U+2028 and U+2029 are escaped by encoding/json.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// formatFloat keeps a decimal point on integral values so the literal decodes
// back as a float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
