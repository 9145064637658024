package compare

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // Indented, newline-terminated output; otherwise a single line
}

// Format generates JSON output for comparison results. Template descriptions
// are written verbatim, without HTML escaping.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	if compSet == nil {
		return "", fmt.Errorf("comparison set cannot be nil")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", fmt.Errorf("failed to encode comparison: %w", err)
	}

	if jf.Pretty {
		return buf.String(), nil
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
