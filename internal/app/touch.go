package app

import "time"

// touch returns the next updated_at value, which never moves backwards.
func touch(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
