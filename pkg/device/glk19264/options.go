package glk19264

import "time"

type Option func(d *Dev)

// WithFlushRate caps full-frame transmissions at perSecond per second.
func WithFlushRate(perSecond int) Option {
	return func(d *Dev) {
		if perSecond > 0 {
			d.flushEvery = time.Second / time.Duration(perSecond)
		}
	}
}

// WithPollInterval sets the keypad poll cadence. Values are clamped
// between 100ms and 1s.
func WithPollInterval(every time.Duration) Option {
	return func(d *Dev) {
		d.pollEvery = every
	}
}

// WithKeyBuffer sets how many key events may queue before the poller
// starts dropping.
func WithKeyBuffer(n int) Option {
	return func(d *Dev) {
		if n > 0 {
			d.keyBuffer = n
		}
	}
}
