package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatHMS renders milliseconds as HH:MM:SS, flooring to whole seconds.
// Hours are not wrapped at 24.
func FormatHMS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// ParseHMS converts an "H:MM:SS" string into milliseconds.
func ParseHMS(v string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("duration %q: expected HH:MM:SS", v)
	}
	var fields [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("duration %q: invalid field %q", v, p)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("duration %q: minutes and seconds must be below 60", v)
	}
	return (fields[0]*3600 + fields[1]*60 + fields[2]) * 1000, nil
}

// FormatHoursFromSeconds renders a duration as "1 h 23 m" or "18 m".
func FormatHoursFromSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := ((seconds % 3600) + 30) / 60
	if m == 60 {
		h++
		m = 0
	}
	if h > 0 {
		return fmt.Sprintf("%d h %d m", h, m)
	}
	return fmt.Sprintf("%d m", m)
}

// FormatDecimalHours renders fractional hours with FormatHoursFromSeconds.
func FormatDecimalHours(hours float64) string {
	return FormatHoursFromSeconds(int64(hours*3600 + 0.5))
}
