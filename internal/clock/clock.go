package clock

import "time"

// Clock supplies the current time. The registration handler takes it as an
// explicit dependency so tests can pin the timestamp written to new rows.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) Fixed {
	return Fixed{t: t.UTC()}
}

func (f Fixed) Now() time.Time { return f.t }
