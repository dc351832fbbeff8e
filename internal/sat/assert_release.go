//go:build !debugAssertions

package sat

// assertPrecondition is a no-op in release builds: API misuse (spec.md
// section 7's "API misuse" error kind) degrades to the documented
// Unknown/false return rather than crashing the caller's process.
func assertPrecondition(ok bool, msg string) {}
