package neobolt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	bolterrors "github.com/corebolt/neobolt/errors"
	"github.com/corebolt/neobolt/packstream"
)

// recorder wraps a net.Conn, capturing every Read/Write as an Event so
// a session can be replayed later from recordings/<name>.json without a
// running Neo4j instance.
type recorder struct {
	net.Conn
	name         string
	events       []*Event
	recording    bool
	currentEvent int
}

// newRecorder creates a recorder that records onto conn. If conn is
// nil, it instead replays a previously recorded session loaded from
// recordings/<name>.json.
func newRecorder(name string, conn net.Conn) (*recorder, error) {
	r := &recorder{name: name, Conn: conn, recording: conn != nil}
	if conn == nil {
		if err := r.load(name); err != nil {
			return nil, bolterrors.WrapKind(bolterrors.KindConnection, err, "loading recording %q", name)
		}
	}
	return r, nil
}

func (r *recorder) completedLast() bool {
	event := r.lastEvent()
	return event == nil || event.Completed
}

func (r *recorder) lastEvent() *Event {
	if len(r.events) > 0 {
		return r.events[len(r.events)-1]
	}
	return nil
}

// Read reads from the underlying net.Conn while recording, or replays
// the next recorded Read event.
func (r *recorder) Read(p []byte) (n int, err error) {
	if r.recording {
		n, err = r.Conn.Read(p)
		r.record(p[:n], false)
		r.recordErr(err, false)
		return n, err
	}

	if r.currentEvent >= len(r.events) {
		return 0, bolterrors.New(bolterrors.KindInvalidInput, "recorder %q has no more events to replay", r.name)
	}
	event := r.events[r.currentEvent]
	if event.IsWrite {
		return 0, bolterrors.New(bolterrors.KindInvalidInput, "recorder %q expected a Read, next event is a Write", r.name)
	}
	if len(p) > len(event.Event) {
		return 0, bolterrors.New(bolterrors.KindInvalidInput, "recorder %q: read past the end of the current event", r.name)
	}

	n = copy(p, event.Event)
	event.Event = event.Event[n:]
	if len(event.Event) == 0 {
		r.currentEvent++
	}
	return n, nil
}

// Write writes to the underlying net.Conn while recording, or replays
// (validates against) the next recorded Write event.
func (r *recorder) Write(b []byte) (n int, err error) {
	if r.recording {
		n, err = r.Conn.Write(b)
		r.record(b[:n], true)
		r.recordErr(err, true)
		return n, err
	}

	if r.currentEvent >= len(r.events) {
		return 0, bolterrors.New(bolterrors.KindInvalidInput, "recorder %q has no more events to replay", r.name)
	}
	event := r.events[r.currentEvent]
	if !event.IsWrite {
		return 0, bolterrors.New(bolterrors.KindInvalidInput, "recorder %q expected a Write, next event is a Read", r.name)
	}
	if len(b) > len(event.Event) {
		return 0, bolterrors.New(bolterrors.KindInvalidInput, "recorder %q: write past the end of the current event", r.name)
	}

	event.Event = event.Event[len(b):]
	if len(event.Event) == 0 {
		r.currentEvent++
	}
	return len(b), nil
}

// Close closes the underlying net.Conn (flushing the recording first
// if RECORD_OUTPUT is set), or, in playback mode, verifies every event
// was consumed.
func (r *recorder) Close() error {
	if r.recording {
		if err := r.flush(); err != nil {
			return err
		}
		return r.Conn.Close()
	}
	if r.currentEvent != len(r.events) {
		return bolterrors.New(bolterrors.KindInvalidInput, "recorder %q: %d of %d events never replayed", r.name, len(r.events)-r.currentEvent, len(r.events))
	}
	if last := r.lastEvent(); last != nil && len(last.Event) != 0 {
		return bolterrors.New(bolterrors.KindInvalidInput, "recorder %q: final event was not fully consumed", r.name)
	}
	return nil
}

func (r *recorder) record(data []byte, isWrite bool) {
	if len(data) == 0 {
		return
	}
	event := r.lastEvent()
	if event == nil || event.Completed || event.IsWrite != isWrite {
		event = newEvent(isWrite)
		r.events = append(r.events, event)
	}
	event.Event = append(event.Event, data...)
	event.Completed = bytes.HasSuffix(data, packstream.EndMarker)
}

func (r *recorder) recordErr(err error, isWrite bool) {
	if err == nil {
		return
	}
	event := r.lastEvent()
	if event == nil || event.Completed || event.IsWrite != isWrite {
		event = newEvent(isWrite)
		r.events = append(r.events, event)
	}
	event.ErrorText = err.Error()
	event.Completed = true
}

func (r *recorder) load(name string) error {
	path := filepath.Join("recordings", name+".json")
	file, err := os.OpenFile(path, os.O_RDONLY, 0660)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(&r.events)
}

func (r *recorder) writeRecording() error {
	path := filepath.Join("recordings", r.name+".json")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0660)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(r.events)
}

func (r *recorder) flush() error {
	if os.Getenv("RECORD_OUTPUT") != "" {
		return r.writeRecording()
	}
	return nil
}

// print dumps every recorded event's decoded PackStream value and hex
// bytes to stdout, for inspecting a recording by hand.
func (r *recorder) print() {
	fmt.Println("recording " + r.name)
	for _, event := range r.events {
		fmt.Println()
		kind := "READ"
		if event.IsWrite {
			kind = "WRITE"
		}
		fmt.Printf("%s @ %d:\n", kind, event.Timestamp)

		decoded, err := packstream.Unmarshal(bytes.TrimSuffix(event.Event, packstream.EndMarker))
		if err != nil {
			fmt.Printf("could not decode: %s\n", err)
		} else {
			fmt.Printf("decoded: %+v\n", decoded)
		}
		fmt.Print(sprintByteHex(event.Event))

		if !event.Completed {
			fmt.Println("event never completed")
		}
		if event.ErrorText != "" {
			fmt.Printf("error during event: %s\n", event.ErrorText)
		}
	}
	fmt.Println("end of recording " + r.name)
}

func (r *recorder) LocalAddr() net.Addr {
	if r.Conn != nil {
		return r.Conn.LocalAddr()
	}
	return nil
}

func (r *recorder) RemoteAddr() net.Addr {
	if r.Conn != nil {
		return r.Conn.RemoteAddr()
	}
	return nil
}

func (r *recorder) SetDeadline(t time.Time) error {
	if r.Conn != nil {
		return r.Conn.SetDeadline(t)
	}
	return nil
}

func (r *recorder) SetReadDeadline(t time.Time) error {
	if r.Conn != nil {
		return r.Conn.SetReadDeadline(t)
	}
	return nil
}

func (r *recorder) SetWriteDeadline(t time.Time) error {
	if r.Conn != nil {
		return r.Conn.SetWriteDeadline(t)
	}
	return nil
}

// Event is one recorded Read or Write on a connection.
type Event struct {
	Timestamp int64 `json:"-"`
	Event     []byte
	IsWrite   bool
	Completed bool
	ErrorText string
}

func newEvent(isWrite bool) *Event {
	return &Event{Timestamp: time.Now().UnixNano(), IsWrite: isWrite}
}
