package debugsink

import (
	"io"
	"sync"
	"time"

	"github.com/tidwall/sjson"
)

// Writer writes one line per debug message to an io.Writer.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewWriter returns a Writer that prefixes every line with prefix.
func NewWriter(w io.Writer, prefix string) *Writer {
	return &Writer{w: w, prefix: prefix}
}

// Handle writes msg followed by a newline. Write errors are dropped.
func (s *Writer) Handle(_ any, msg string, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, s.prefix+msg+"\n")
}

// JSONWriter writes each debug message as one JSON object per line:
//
//	{"ts":"2024-05-01T10:00:00Z","cookie":"parser","msg":"hello","len":5}
//
// cookie is omitted when nil and rendered with fmt.Sprint otherwise.
type JSONWriter struct {
	mu      sync.Mutex
	w       io.Writer
	onError func(error)
	now     func() time.Time
}

// NewJSONWriter returns a JSONWriter. onError, if non-nil, receives encoding
// and write errors.
func NewJSONWriter(w io.Writer, onError func(error)) *JSONWriter {
	return &JSONWriter{w: w, onError: onError, now: time.Now}
}

// Handle encodes and writes one line.
func (s *JSONWriter) Handle(cookie any, msg string, length int) {
	line, err := s.encode(cookie, msg, length)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(line, '\n')); err != nil {
		s.fail(err)
	}
}

func (s *JSONWriter) encode(cookie any, msg string, length int) ([]byte, error) {
	line := []byte(`{}`)
	line, err := sjson.SetBytes(line, "ts", s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	if cookie != nil {
		if line, err = sjson.SetBytes(line, "cookie", cookieKey(cookie)); err != nil {
			return nil, err
		}
	}
	if line, err = sjson.SetBytes(line, "msg", msg); err != nil {
		return nil, err
	}
	return sjson.SetBytes(line, "len", length)
}

func (s *JSONWriter) fail(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
