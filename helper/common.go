package helper

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

var IdentifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Placeholder is shown for any absent or null cell.
const Placeholder = "-"

func IsValidIdentifier(s string) bool {
	return IdentifierRegex.MatchString(s)
}

func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return Placeholder
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
