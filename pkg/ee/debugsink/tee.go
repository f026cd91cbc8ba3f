package debugsink

import "github.com/randalmurphal/libee/pkg/ee"

// Tee returns a callback that invokes every non-nil fn in order with the same
// arguments. It returns nil when no fn is given, which disables debug output.
func Tee(fns ...ee.DebugFunc) ee.DebugFunc {
	var sinks []ee.DebugFunc
	for _, fn := range fns {
		if fn != nil {
			sinks = append(sinks, fn)
		}
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	}
	return func(cookie any, msg string, length int) {
		for _, fn := range sinks {
			fn(cookie, msg, length)
		}
	}
}
