package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every interval endpoint.
const MinutesPerDay = 24 * 60

// ValidateInterval rejects intervals the layout engine cannot place.
//
// Validation rules:
//   - start must not be negative
//   - end must not exceed midnight (1440)
//   - start must be strictly before end
func ValidateInterval(start, end int) error {
	if start < 0 {
		return New(ErrCodeInvalidInterval, "start %d is before midnight", start)
	}
	if end > MinutesPerDay {
		return New(ErrCodeInvalidInterval, "end %d is past midnight (max %d)", end, MinutesPerDay)
	}
	if start >= end {
		return New(ErrCodeInvalidInterval, "start %d must be before end %d", start, end)
	}
	return nil
}

// ParseClock parses "HH:MM" (24h) into minutes since midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, New(ErrCodeInvalidClock, "invalid time %q (want HH:MM)", s)
	}
	if len(h) == 0 || len(h) > 2 || !digits(h) {
		return 0, New(ErrCodeInvalidClock, "invalid hour in %q", s)
	}
	if len(m) != 2 || !digits(m) {
		return 0, New(ErrCodeInvalidClock, "invalid minute in %q", s)
	}
	hours, _ := strconv.Atoi(h)
	mins, _ := strconv.Atoi(m)
	if hours < 0 || hours > 24 || mins < 0 || mins > 59 || (hours == 24 && mins != 0) {
		return 0, New(ErrCodeInvalidClock, "time out of range: %q", s)
	}
	return hours*60 + mins, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
