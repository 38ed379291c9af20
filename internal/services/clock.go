package services

import "time"

// Clock returns the current time. Services take one so expiry boundaries can be tested.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
