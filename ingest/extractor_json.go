package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// JSONExtractor flattens arbitrary JSON into "path: value" lines, grouped
// into one block per top-level key (or array element) so records chunk the
// same way CSV rows do. Keys are walked in sorted order to keep the output
// deterministic.
type JSONExtractor struct{}

var _ Extractor = JSONExtractor{}

// jsonMaxDepth caps recursion on pathological nesting.
const jsonMaxDepth = 100

func (JSONExtractor) Extract(content []byte) (string, error) {
	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		return "", nil
	}
	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return "", fmt.Errorf("parse json: %w", err)
	}
	return joinByRoot(flattenJSON("", data, 0)), nil
}

func flattenJSON(path string, v any, depth int) []string {
	if depth >= jsonMaxDepth {
		return []string{jsonLine(path, "<truncated>")}
	}
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var lines []string
		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			lines = append(lines, flattenJSON(child, val[k], depth+1)...)
		}
		return lines
	case []any:
		if len(val) == 0 {
			return nil
		}
		if scalarsOnly(val) {
			items := make([]string, len(val))
			for i, item := range val {
				items[i] = jsonScalar(item)
			}
			return []string{jsonLine(path, strings.Join(items, ", "))}
		}
		var lines []string
		for i, item := range val {
			lines = append(lines, flattenJSON(fmt.Sprintf("%s[%d]", path, i), item, depth+1)...)
		}
		return lines
	case nil:
		return nil
	default:
		return []string{jsonLine(path, jsonScalar(val))}
	}
}

func jsonLine(path, value string) string {
	if path == "" {
		path = "value"
	}
	return path + ": " + value
}

func scalarsOnly(arr []any) bool {
	for _, v := range arr {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func jsonScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// joinByRoot turns consecutive lines sharing a top-level path segment into
// a single blank-line-separated block, one block per record.
func joinByRoot(lines []string) string {
	var blocks []string
	var cur []string
	var root string
	for _, line := range lines {
		r := rootSegment(line)
		if len(cur) > 0 && r != root {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
		root = r
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// rootSegment returns the leading path segment of a line, keeping the
// element index when the segment is an array ("users[0].name" groups
// under "users[0]" so each record becomes its own block).
func rootSegment(line string) string {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '.', ':':
			return line[:i]
		case '[':
			end := strings.IndexByte(line[i:], ']')
			if end < 0 {
				return line[:i]
			}
			return line[:i+end+1]
		}
	}
	return line
}
