package sat

import "github.com/sirupsen/logrus"

// newNullLogger returns a logrus logger that discards everything. Options
// leaves Logger nil by default; the solver always calls through s.log()
// so a nil Options.Logger never causes a nil-pointer dereference and never
// changes solver behavior, only its observability.
func newNullLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	return l
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// log returns a usable logger, substituting the null logger when the
// caller has not configured one.
func (s *Solver) log() *logrus.Entry {
	if s.opts.Logger == nil {
		return s.nullLogger.WithField("component", "sat")
	}
	return s.opts.Logger.WithField("component", "sat")
}
