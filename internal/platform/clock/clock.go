package clock

import "time"

// Clock abstracts time so elapsed and remaining values stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a clock stopped at one instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
