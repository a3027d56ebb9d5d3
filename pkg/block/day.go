package block

import (
	"slices"
	"strconv"
	"strings"

	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
)

// Day is a day of the week. Each day is laid out independently.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays are the five days a week layout covers by default.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// AllDays lists Monday through Sunday.
var AllDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String returns the full English day name.
func (d Day) String() string {
	if d < Monday || d > Sunday {
		return "Day(" + strconv.Itoa(int(d)) + ")"
	}
	return dayNames[d]
}

// Short returns the three-letter abbreviation ("Mon").
func (d Day) Short() string { return d.String()[:3] }

// Valid reports whether d is Monday..Sunday.
func (d Day) Valid() bool { return d >= Monday && d <= Sunday }

// ParseDay accepts full names, three-letter abbreviations and the
// single-letter codes registrars use (M T W R F S U), case-insensitively.
func ParseDay(s string) (Day, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "m", "mo", "mon", "monday":
		return Monday, nil
	case "t", "tu", "tue", "tues", "tuesday":
		return Tuesday, nil
	case "w", "we", "wed", "wednesday":
		return Wednesday, nil
	case "r", "th", "thu", "thur", "thurs", "thursday":
		return Thursday, nil
	case "f", "fr", "fri", "friday":
		return Friday, nil
	case "s", "sa", "sat", "saturday":
		return Saturday, nil
	case "u", "su", "sun", "sunday":
		return Sunday, nil
	}
	return 0, bwerrors.New(bwerrors.ErrCodeInvalidDay, "unknown day %q", s)
}

// Week maps each day to its blocks. Days absent from the map are empty.
type Week map[Day][]Block

// Days returns the days present in w in Monday-first order.
func (w Week) Days() []Day {
	days := make([]Day, 0, len(w))
	for d := range w {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// Len returns the total number of blocks across all days.
func (w Week) Len() int {
	n := 0
	for _, blocks := range w {
		n += len(blocks)
	}
	return n
}

// Add appends b to day d.
func (w Week) Add(d Day, b Block) {
	w[d] = append(w[d], b)
}

// Validate checks every block of every day.
func (w Week) Validate() error {
	for _, d := range w.Days() {
		if !d.Valid() {
			return bwerrors.New(bwerrors.ErrCodeInvalidDay, "invalid day %d", int(d))
		}
		if err := ValidateAll(w[d]); err != nil {
			return bwerrors.Wrap(bwerrors.ErrCodeInvalidInterval, err, "%s", d)
		}
	}
	return nil
}

// Clone deep-copies every day.
func (w Week) Clone() Week {
	out := make(Week, len(w))
	for d, blocks := range w {
		out[d] = Clone(blocks)
	}
	return out
}
