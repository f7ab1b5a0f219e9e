package clock

import (
	"fmt"
	"time"
)

const layout = "2006-01-02T15:04:05Z"

// Now returns the current UTC time in the storage timestamp format.
func Now() string {
	return time.Now().UTC().Format(layout)
}

// FromTime formats a time in the same layout Now uses, so stored
// timestamps stay comparable with Parse.
func FromTime(t time.Time) string {
	return t.UTC().Format(layout)
}

// Parse reads a timestamp previously produced by Now or FromTime.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a valid time: %s", value)
	}
	return t, nil
}
