package configform

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOffset reads a start offset as plain seconds, mm:ss, or hh:mm:ss.
func ParseOffset(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("start offset is empty")
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("start offset %q: want seconds, mm:ss, or hh:mm:ss", value)
	}
	var total uint64
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("start offset %q: %w", value, err)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("start offset %q: %d is not a valid minute or second", value, n)
		}
		total = total*60 + n
	}
	return total, nil
}

// FormatOffset renders seconds as hh:mm:ss.
func FormatOffset(seconds uint64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
