package trace

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/dshills/scribe/internal/event"
)

// Recorder writes events to a JSON lines stream.
type Recorder struct {
	mu      sync.Mutex
	w       io.Writer
	session uuid.UUID
	seq     uint64
	now     func() time.Time
}

// NewRecorder creates a recorder writing to w under a fresh session id.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		w:       w,
		session: uuid.New(),
		now:     time.Now,
	}
}

// Session returns the id stamped on every record.
func (r *Recorder) Session() uuid.UUID {
	return r.session
}

// Count returns the number of events recorded.
func (r *Recorder) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Record appends ev to the stream. Only complete events can be recorded.
func (r *Recorder) Record(ev event.Event) error {
	line, err := Encode(ev)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.seq + 1
	if line, err = sjson.Set(line, "seq", seq); err != nil {
		return err
	}
	if line, err = sjson.Set(line, "session", r.session.String()); err != nil {
		return err
	}
	if line, err = sjson.Set(line, "at", r.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	if _, err := io.WriteString(r.w, line+"\n"); err != nil {
		return err
	}
	r.seq = seq
	return nil
}
