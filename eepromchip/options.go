package eepromchip

import "time"

type config struct {
	logFunc      LogFunc
	pollInterval time.Duration
	pollDeadline time.Duration
}

func defaultConfig() config {
	return config{
		pollInterval: 500 * time.Microsecond,
	}
}

// Option configures a Chip at construction time.
type Option func(*config)

// WithLogFunc installs a logger for bus-level tracing. A nil LogFunc keeps
// the driver silent, which is the default.
func WithLogFunc(logFunc LogFunc) Option {
	return func(c *config) {
		c.logFunc = logFunc
	}
}

// WithPollInterval sets the sleep between status polls while waiting for an
// internal write or erase cycle to finish. Default is 500µs.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithPollDeadline bounds how long WaitUntilReady will poll before giving up
// with a PollTimeoutError. The default of 0 polls forever, which is what the
// device semantics call for: a healthy part always clears WIP eventually.
func WithPollDeadline(d time.Duration) Option {
	return func(c *config) {
		c.pollDeadline = d
	}
}
