package debugsink

import (
	"fmt"

	"github.com/randalmurphal/libee/pkg/ee/debuglog"
)

// StoreSink appends debug messages to a debuglog.Store.
// The cookie selects the store key; register the context ID as cookie to
// keep one log per context.
type StoreSink struct {
	store   debuglog.Store
	onError func(error)
}

// NewStoreSink returns a StoreSink. onError, if non-nil, receives append
// errors; the emitting context never sees them.
func NewStoreSink(store debuglog.Store, onError func(error)) *StoreSink {
	return &StoreSink{store: store, onError: onError}
}

// Handle appends msg under the cookie's key.
func (s *StoreSink) Handle(cookie any, msg string, _ int) {
	if err := s.store.Append(cookieKey(cookie), msg); err != nil && s.onError != nil {
		s.onError(fmt.Errorf("debug sink: %w", err))
	}
}

// cookieKey renders a cookie as a string key. nil yields "".
func cookieKey(cookie any) string {
	switch v := cookie.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
