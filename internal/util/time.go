package util

import (
	"fmt"
	"time"
)

// RFC3339Now returns the current UTC time formatted as RFC3339.
func RFC3339Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// HumanTime returns the current local time for messages read by people.
func HumanTime() string {
	return time.Now().Format("2006-01-02 15:04:05 MST")
}

// FormatUptime renders a duration as "1h 2m 3s".
func FormatUptime(d time.Duration) string {
	return fmt.Sprintf("%dh %dm %ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// FormatHumanTime renders an RFC3339 timestamp in local time. Values that do
// not parse are returned unchanged.
func FormatHumanTime(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return rfc3339
	}
	return t.Local().Format("2006-01-02 15:04:05 MST")
}
