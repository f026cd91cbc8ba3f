package debugsink

import (
	"sync"

	"github.com/eapache/queue"
)

// Message is one recorded debug callback invocation.
type Message struct {
	Cookie any
	Text   string
	Length int
}

// Recorder keeps the most recent debug messages in memory.
// It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	q        *queue.Queue
	capacity int
	total    int
}

// NewRecorder returns a Recorder holding at most capacity messages; older
// messages are dropped first. capacity <= 0 means unbounded.
func NewRecorder(capacity int) *Recorder {
	return &Recorder{q: queue.New(), capacity: capacity}
}

// Handle records the invocation.
func (r *Recorder) Handle(cookie any, msg string, length int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capacity > 0 && r.q.Length() >= r.capacity {
		r.q.Remove()
	}
	r.q.Add(Message{Cookie: cookie, Text: msg, Length: length})
	r.total++
}

// Messages returns the retained messages, oldest first.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, r.q.Length())
	for i := range out {
		out[i] = r.q.Get(i).(Message)
	}
	return out
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.q.Length() == 0 {
		return Message{}, false
	}
	return r.q.Get(r.q.Length() - 1).(Message), true
}

// Len returns the number of retained messages.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.q.Length()
}

// Total returns the number of messages ever recorded, including dropped ones.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Reset discards all messages and the total count.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.q = queue.New()
	r.total = 0
}
