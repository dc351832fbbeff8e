//go:build debugAssertions

package sat

// assertPrecondition panics when ok is false. Built only with the
// debugAssertions tag (set by tests), mirroring go-sat's Trace/Tracer
// convention of a debug surface compiled out of normal builds: the same
// API misuse that silently returns Unknown/false in a release build is a
// programming error worth crashing on while testing against it.
func assertPrecondition(ok bool, msg string) {
	if !ok {
		panic("sat: " + msg)
	}
}
