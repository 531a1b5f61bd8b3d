package sys

import (
	"os"
	"sync"

	"go.uber.org/multierr"

	"github.com/mu-lang/mu/condition"
)

// EventType classifies a stream lifecycle notification.
type EventType uint8

const (
	EventOpened EventType = iota
	EventClosed
)

// Event describes a stream lifecycle transition.
type Event struct {
	Type EventType
	ID   StreamID
}

// Observer receives stream lifecycle notifications.
type Observer interface {
	OnStreamEvent(Event)
}

// Table is the system-stream table: stdin/stdout/stderr are always
// present at ids 0-2, every other stream is opened on demand and
// addressed by the id Open* returns.
type Table struct {
	mu        sync.RWMutex
	streams   map[StreamID]Stream
	nextID    StreamID
	observers []Observer
}

// NewTable creates a table with the three standard streams registered.
func NewTable() *Table {
	t := &Table{
		streams: make(map[StreamID]Stream),
		nextID:  firstDynamicID,
	}
	t.streams[StdinID] = newFileInputStream(os.Stdin)
	t.streams[StdoutID] = newFileOutputStream(os.Stdout)
	t.streams[StderrID] = newFileOutputStream(os.Stderr)
	return t
}

// Subscribe adds an observer for stream lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *Table) notify(e Event) {
	for _, o := range t.observers {
		o.OnStreamEvent(e)
	}
}

func (t *Table) insert(s Stream) StreamID {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.streams[id] = s
	t.mu.Unlock()
	t.notify(Event{Type: EventOpened, ID: id})
	return id
}

func (t *Table) get(id StreamID) (Stream, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.streams[id]
	if !ok {
		return nil, condition.StreamError("no such stream", nil)
	}
	return s, nil
}

// OpenInputFile opens path for reading and returns its stream id.
func (t *Table) OpenInputFile(path string) (StreamID, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, condition.OpenError(path, err)
	}
	return t.insert(newFileInputStream(f)), nil
}

// OpenOutputFile creates or truncates path for writing and returns its
// stream id.
func (t *Table) OpenOutputFile(path string) (StreamID, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, condition.OpenError(path, err)
	}
	return t.insert(newFileOutputStream(f)), nil
}

// OpenInputString opens an input stream over the bytes of s.
func (t *Table) OpenInputString(s string) (StreamID, error) {
	return t.insert(newInputStringStream(s)), nil
}

// OpenOutputString opens an empty output stream that accumulates
// written bytes for later retrieval with GetString.
func (t *Table) OpenOutputString() (StreamID, error) {
	return t.insert(newOutputStringStream()), nil
}

// OpenBidirString opens a stream seeded with initial content that
// supports both reading the seed and writing further output, each
// independently retrievable with GetString.
func (t *Table) OpenBidirString(initial string) (StreamID, error) {
	return t.insert(newBidirStringStream(initial)), nil
}

// ReadByte reads one byte from the stream at id.
func (t *Table) ReadByte(id StreamID) (byte, error) {
	s, err := t.get(id)
	if err != nil {
		return 0, err
	}
	return s.ReadByte()
}

// WriteByte writes one byte to the stream at id.
func (t *Table) WriteByte(id StreamID, b byte) error {
	s, err := t.get(id)
	if err != nil {
		return err
	}
	return s.WriteByte(b)
}

// Flush flushes any buffered output on the stream at id.
func (t *Table) Flush(id StreamID) error {
	s, err := t.get(id)
	if err != nil {
		return err
	}
	return s.Flush()
}

// GetString returns the accumulated content of an output or
// bidirectional string stream at id.
func (t *Table) GetString(id StreamID) (string, error) {
	s, err := t.get(id)
	if err != nil {
		return "", err
	}
	return s.GetString()
}

// Close closes the stream at id and removes it from the table. The
// three standard streams are closed like any other, including their
// underlying os.File, and the close error is returned.
func (t *Table) Close(id StreamID) error {
	t.mu.Lock()
	s, ok := t.streams[id]
	if !ok {
		t.mu.Unlock()
		return condition.StreamError("no such stream", nil)
	}
	delete(t.streams, id)
	t.mu.Unlock()

	t.notify(Event{Type: EventClosed, ID: id})
	return s.Close()
}

// CloseAll closes every stream still open in the table, including the
// three standard streams, fanning individual close failures into a
// single multierr-joined error so one bad stream never hides another's
// failure. Called once at process shutdown.
func (t *Table) CloseAll() error {
	t.mu.Lock()
	ids := make([]StreamID, 0, len(t.streams))
	for id := range t.streams {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	var err error
	for _, id := range ids {
		if cerr := t.Close(id); cerr != nil {
			err = multierr.Append(err, cerr)
		}
	}
	return err
}

// Len returns the number of open streams, including the three standard
// streams.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.streams)
}
