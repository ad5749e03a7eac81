package tracker

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	maxHours         = (math.MaxInt - secondsPerHour + 1) / secondsPerHour
)

// FormatDuration formats seconds as HH:MM:SS with every field padded to at least two digits. Hours are never
// truncated so 360000 seconds is 100:00:00.
func FormatDuration(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign,
		seconds/secondsPerHour, seconds%secondsPerHour/secondsPerMinute, seconds%secondsPerMinute)
}

// ParseDuration is the inverse of FormatDuration for non-negative durations.
func ParseDuration(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 { //nolint:mnd // hours, minutes and seconds.
		return 0, invalid("duration", "%q is not HH:MM:SS", s)
	}
	var fields [3]int
	for i, part := range parts {
		if len(part) < 2 || (i > 0 && len(part) != 2) {
			return 0, invalid("duration", "%q is not HH:MM:SS", s)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || strings.ContainsAny(part, "+-") {
			return 0, invalid("duration", "%q is not HH:MM:SS", s)
		}
		fields[i] = n
	}
	hours, minutes, seconds := fields[0], fields[1], fields[2]
	if minutes >= secondsPerMinute || seconds >= secondsPerMinute {
		return 0, invalid("duration", "%q has minutes or seconds above 59", s)
	}
	if hours > maxHours {
		return 0, invalid("duration", "%q is too long", s)
	}
	return hours*secondsPerHour + minutes*secondsPerMinute + seconds, nil
}

// ToMinutes converts seconds to whole minutes, discarding the remainder.
func ToMinutes(seconds int) int {
	return seconds / secondsPerMinute
}
