// Package timefmt converts between clock-style time strings and seconds.
// Timeouts and walltimes in a benchmark specification are written as
// "[[h:]m:]s", the format understood by cluster schedulers.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a "[[h:]m:]s" string into seconds. A plain integer is
// treated as seconds.
func Parse(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q: expected [[h:]m:]s", s)
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q: expected [[h:]m:]s", s)
		}
		total = total*60 + n
	}
	return total, nil
}

// Format converts seconds into an "hh:mm:ss" string as expected by
// scheduler walltime directives.
func Format(seconds int) string {
	s := seconds % 60
	seconds /= 60
	m := seconds % 60
	h := seconds / 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
