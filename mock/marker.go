package mock

import "github.com/fwojciec/synccheck"

// Compile-time interface verification.
var _ synccheck.Marker = Marker{}

// Marker returns text unchanged, except that removed and added tokens are
// wrapped as [-x-] and {+x+} so highlighting is visible in assertions.
type Marker struct{}

func (Marker) MarkSuccess(s string) string { return s }
func (Marker) MarkFailure(s string) string { return s }
func (Marker) MarkWarning(s string) string { return s }
func (Marker) MarkInfo(s string) string    { return s }
func (Marker) MarkHeading(s string) string { return s }
func (Marker) MarkMuted(s string) string   { return s }
func (Marker) MarkRemoved(s string) string { return "[-" + s + "-]" }
func (Marker) MarkAdded(s string) string   { return "{+" + s + "+}" }
