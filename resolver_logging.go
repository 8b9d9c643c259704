package ordering

import "time"

// ResolutionLogEvent describes one order resolution for logging.
type ResolutionLogEvent struct {
	Strategy  string
	Candidate string
	Order     int
	Duration  time.Duration
	Err       error
}

// ResolutionLogger records order resolution events.
type ResolutionLogger interface {
	LogResolution(ResolutionLogEvent)
}

// ResolutionLoggerFunc adapts a function to ResolutionLogger.
type ResolutionLoggerFunc func(ResolutionLogEvent)

// LogResolution implements ResolutionLogger.
func (f ResolutionLoggerFunc) LogResolution(event ResolutionLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopResolutionLogger struct{}

func (noopResolutionLogger) LogResolution(ResolutionLogEvent) {}

// WithResolutionLogger attaches a resolution logger to the Comparator.
func WithResolutionLogger(logger ResolutionLogger) Option {
	return func(cfg *comparatorConfig) {
		if logger == nil {
			cfg.logger = noopResolutionLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (c *Comparator) logEvent(event ResolutionLogEvent) {
	if c.cfg.logger != nil {
		c.cfg.logger.LogResolution(event)
		return
	}
	noopResolutionLogger{}.LogResolution(event)
}
