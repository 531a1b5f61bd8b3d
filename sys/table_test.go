package sys

import "testing"

func TestStandardStreamsPreregistered(t *testing.T) {
	tbl := NewTable()
	if tbl.Len() != 3 {
		t.Fatalf("got %d streams, want 3", tbl.Len())
	}
}

func TestOutputStringRoundTrip(t *testing.T) {
	tbl := NewTable()
	id, err := tbl.OpenOutputString()
	if err != nil {
		t.Fatalf("OpenOutputString failed: %v", err)
	}
	for _, b := range []byte("hello") {
		if err := tbl.WriteByte(id, b); err != nil {
			t.Fatalf("WriteByte failed: %v", err)
		}
	}
	got, err := tbl.GetString(id)
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestInputStringEOF(t *testing.T) {
	tbl := NewTable()
	id, _ := tbl.OpenInputString("ab")

	for i := 0; i < 2; i++ {
		if _, err := tbl.ReadByte(id); err != nil {
			t.Fatalf("unexpected error reading byte %d: %v", i, err)
		}
	}
	if _, err := tbl.ReadByte(id); err == nil {
		t.Fatal("expected an EOF condition reading past the end of the stream")
	}
}

func TestBidirStringIndependentReadWrite(t *testing.T) {
	tbl := NewTable()
	id, _ := tbl.OpenBidirString("seed")

	b, err := tbl.ReadByte(id)
	if err != nil || b != 's' {
		t.Fatalf("got (%v, %v), want ('s', nil)", b, err)
	}

	tbl.WriteByte(id, 'X')
	got, _ := tbl.GetString(id)
	if got != "seedX" {
		t.Fatalf("got %q, want %q", got, "seedX")
	}
}

func TestCloseRemovesStream(t *testing.T) {
	tbl := NewTable()
	id, _ := tbl.OpenOutputString()
	if err := tbl.Close(id); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := tbl.WriteByte(id, 'a'); err == nil {
		t.Fatal("expected an error writing to a closed stream")
	}
}

type countingObserver struct {
	opened, closed int
}

func (c *countingObserver) OnStreamEvent(e Event) {
	switch e.Type {
	case EventOpened:
		c.opened++
	case EventClosed:
		c.closed++
	}
}

func TestObserverSeesOpenAndClose(t *testing.T) {
	tbl := NewTable()
	obs := &countingObserver{}
	tbl.Subscribe(obs)

	id, _ := tbl.OpenOutputString()
	tbl.Close(id)

	if obs.opened != 1 || obs.closed != 1 {
		t.Fatalf("got opened=%d closed=%d, want 1, 1", obs.opened, obs.closed)
	}
}
