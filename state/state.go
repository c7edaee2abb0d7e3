// Package state implements the Bolt connection state machine:
// Connected -> Negotiated -> Authenticating -> Ready <-> Streaming <->
// TxReady <-> TxStreaming, with Failed, Interrupted, and the terminal
// Defunct absorbing every path that can no longer recover.
//
// Mirrors the request/response exchange conn.go drives (one message
// out, responses drained before the next write) and tx.go's commit/
// rollback handling, covering the full multi-version transaction
// lifecycle including transaction-depth reentrancy.
package state

import bolterrors "github.com/corebolt/neobolt/errors"

// State is one node of the Bolt connection state machine.
type State int

const (
	Connected State = iota
	Negotiated
	Authenticating
	Ready
	Streaming
	TxReady
	TxStreaming
	Failed
	Interrupted
	Defunct
)

func (s State) String() string {
	switch s {
	case Connected:
		return "Connected"
	case Negotiated:
		return "Negotiated"
	case Authenticating:
		return "Authenticating"
	case Ready:
		return "Ready"
	case Streaming:
		return "Streaming"
	case TxReady:
		return "TxReady"
	case TxStreaming:
		return "TxStreaming"
	case Failed:
		return "Failed"
	case Interrupted:
		return "Interrupted"
	case Defunct:
		return "Defunct"
	default:
		return "Unknown"
	}
}

// Machine tracks the current state of one connection plus its
// transaction-nesting depth. It is not safe for concurrent use; callers
// hold exclusive lease on the connection (the pool enforces this).
type Machine struct {
	current  State
	txDepth  int
}

// NewMachine creates a Machine starting in Connected.
func NewMachine() *Machine {
	return &Machine{current: Connected}
}

// Current returns the machine's current state.
func (m *Machine) Current() State { return m.current }

// TxDepth returns the current transaction nesting depth (0 outside any
// transaction).
func (m *Machine) TxDepth() int { return m.txDepth }

// Negotiated transitions Connected -> Negotiated after a successful
// version handshake.
func (m *Machine) Negotiated() error {
	if m.current != Connected {
		return m.illegal("negotiate")
	}
	m.current = Negotiated
	return nil
}

// Authenticating transitions Negotiated -> Authenticating once HELLO/INIT
// has been sent.
func (m *Machine) Authenticating() error {
	if m.current != Negotiated {
		return m.illegal("authenticate")
	}
	m.current = Authenticating
	return nil
}

// Authenticated transitions Authenticating -> Ready on a SUCCESS
// response to HELLO/INIT (and LOGON, for v5.1+).
func (m *Machine) Authenticated() error {
	if m.current != Authenticating {
		return m.illegal("complete authentication")
	}
	m.current = Ready
	return nil
}

// Run transitions on sending RUN: Ready -> Streaming, or, inside a
// transaction, TxReady -> TxStreaming.
func (m *Machine) Run() error {
	switch m.current {
	case Ready:
		m.current = Streaming
	case TxReady:
		m.current = TxStreaming
	default:
		return m.illegal("run")
	}
	return nil
}

// Begin transitions Ready -> TxReady, or, when already inside a
// transaction, increments tx_depth without requiring a new BEGIN on the
// wire (transaction-depth reentrancy: Neo4j has no savepoints).
// WireNeeded reports whether the caller must still send BEGIN.
func (m *Machine) Begin() (wireNeeded bool, err error) {
	if m.txDepth > 0 {
		m.txDepth++
		return false, nil
	}
	if m.current != Ready {
		return false, m.illegal("begin")
	}
	m.current = TxReady
	m.txDepth = 1
	return true, nil
}

// Commit decrements tx_depth; only the outermost commit (depth 1->0)
// requires a wire COMMIT and the Ready transition.
func (m *Machine) Commit() (wireNeeded bool, err error) {
	return m.endTransaction("commit")
}

// Rollback decrements tx_depth; only the outermost rollback (depth 1->0)
// requires a wire ROLLBACK and the Ready transition.
func (m *Machine) Rollback() (wireNeeded bool, err error) {
	return m.endTransaction("rollback")
}

func (m *Machine) endTransaction(op string) (bool, error) {
	if m.txDepth == 0 {
		return false, m.illegal(op)
	}
	if m.txDepth > 1 {
		m.txDepth--
		return false, nil
	}
	switch m.current {
	case TxReady, TxStreaming:
		m.current = Ready
		m.txDepth = 0
		return true, nil
	default:
		return false, m.illegal(op)
	}
}

// PullDrained transitions Streaming -> Ready, or TxStreaming -> TxReady,
// once a PULL/DISCARD response's terminal SUCCESS reports has_more=false
// (or omits has_more).
func (m *Machine) PullDrained() error {
	switch m.current {
	case Streaming:
		m.current = Ready
	case TxStreaming:
		m.current = TxReady
	default:
		return m.illegal("drain")
	}
	return nil
}

// PullHasMore keeps Streaming/TxStreaming in place when has_more=true.
func (m *Machine) PullHasMore() error {
	switch m.current {
	case Streaming, TxStreaming:
		return nil
	default:
		return m.illegal("continue streaming")
	}
}

// Fail transitions any state to Failed on a FAILURE response.
func (m *Machine) Fail() {
	m.current = Failed
}

// Reset transitions Failed (or any other recoverable state) back to
// Ready on a successful RESET, discarding tx_depth since RESET always
// fully unwinds any open transaction.
func (m *Machine) Reset() {
	m.current = Ready
	m.txDepth = 0
}

// Defunct marks the connection permanently unusable; no further
// transitions are legal.
func (m *Machine) Defunct() {
	m.current = Defunct
}

// Interrupt marks the machine Interrupted, e.g. on caller-initiated
// cancellation, until a RESET resolves it.
func (m *Machine) Interrupt() {
	m.current = Interrupted
}

// InFailedState reports whether the machine is in Failed, where only
// RESET (or ACK_FAILURE pre-v4) is legal and anything else is IGNORED.
func (m *Machine) InFailedState() bool { return m.current == Failed }

func (m *Machine) illegal(op string) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "cannot %s from state %s", op, m.current)
}
