package clock

import "time"

// Clock abstracts "now" so delinquency and renewal evaluation can be
// tested against fixed points in time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock in UTC.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Tests move it with Advance.
type Fixed struct{ t time.Time }

func NewFixed(t time.Time) *Fixed { return &Fixed{t: t.UTC()} }

func (f *Fixed) Now() time.Time { return f.t }

func (f *Fixed) Advance(d time.Duration) { f.t = f.t.Add(d) }
