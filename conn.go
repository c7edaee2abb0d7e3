package neobolt

import (
	"context"
	"fmt"
	"sync"
	"time"

	bolterrors "github.com/corebolt/neobolt/errors"
	"github.com/corebolt/neobolt/log"
	"github.com/corebolt/neobolt/message"
	"github.com/corebolt/neobolt/packstream"
	"github.com/corebolt/neobolt/state"
	"github.com/google/uuid"
)

// Connection is one negotiated, authenticated Bolt connection. It is
// NOT safe for concurrent use: the pool hands out exclusive leases, and
// within a lease the caller issues one request at a time per the
// protocol's ordering guarantee.
//
// Connection is built by dialing, writing the magic preamble and
// version slots, reading the accepted version, then sending the
// handshake-completion message and reading its SUCCESS/FAILURE:
// per-version HELLO/INIT + LOGON/LOGOFF negotiation feeding a
// request/response state machine.
type Connection struct {
	id      string
	cfg     Config
	t       *transport
	version message.Version
	machine *state.Machine

	mu          sync.Mutex
	defunct     bool
	serverHints map[string]interface{}
}

// ID returns the connection's correlation id, generated once at dial
// time and stable for the connection's lifetime - useful for tying
// together log lines and metrics from the same leased connection
// across a pool of many.
func (c *Connection) ID() string { return c.id }

// Connect dials cfg.Hostname:cfg.Port, performs the version handshake,
// and authenticates, choosing INIT, HELLO+inline-auth, or HELLO+LOGON
// according to the negotiated version.
func Connect(ctx context.Context, cfg Config) (*Connection, error) {
	t, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	c := &Connection{id: uuid.NewString(), cfg: cfg, t: t, machine: state.NewMachine()}

	if err := message.EncodeHandshake(c.t); err != nil {
		c.t.Close()
		return nil, err
	}
	version, err := message.DecodeHandshakeResponse(c.t)
	if err != nil {
		c.t.Close()
		return nil, err
	}
	c.version = version
	if err := c.machine.Negotiated(); err != nil {
		c.t.Close()
		return nil, err
	}

	if err := c.authenticate(); err != nil {
		c.t.Close()
		return nil, err
	}

	log.Infof("[%s] connected to %s:%d on Bolt %d.%d", c.id, cfg.Hostname, cfg.Port, c.version.Major, c.version.Minor)
	return c, nil
}

func (c *Connection) authenticate() error {
	if err := c.machine.Authenticating(); err != nil {
		return err
	}

	auth := BasicAuthTokenFor(c.cfg)

	var resp interface{}
	var err error
	switch {
	case c.version.AtLeast(5, 1):
		resp, err = c.roundtrip(message.Hello{UserAgent: c.cfg.UserAgent, BoltAgent: defaultBoltAgent()})
		if err == nil {
			if _, ok := resp.(message.Success); !ok {
				return c.unexpectedAuthResponse(resp)
			}
			resp, err = c.roundtrip(message.Logon{Auth: auth})
		}
	case c.version.Major >= 3:
		resp, err = c.roundtrip(message.Hello{UserAgent: c.cfg.UserAgent, BoltAgent: boltAgentIfSupported(c.version), Auth: auth})
	default:
		resp, err = c.roundtrip(message.Init{ClientName: c.cfg.UserAgent, AuthToken: auth})
	}
	if err != nil {
		return err
	}

	switch r := resp.(type) {
	case message.Success:
		c.serverHints = extractHints(r.Metadata)
		return c.machine.Authenticated()
	case message.Failure:
		return bolterrors.New(bolterrors.KindAuth, "authentication failed: %s", r.Message())
	default:
		return c.unexpectedAuthResponse(resp)
	}
}

func (c *Connection) unexpectedAuthResponse(resp interface{}) error {
	return bolterrors.New(bolterrors.KindProtocol, "unexpected response during authentication: %T %#v", resp, resp)
}

func defaultBoltAgent() *message.BoltAgent {
	return &message.BoltAgent{Product: "neobolt/1.0", Platform: "go", Language: "go"}
}

func boltAgentIfSupported(v message.Version) *message.BoltAgent {
	if v.AtLeast(5, 0) {
		return defaultBoltAgent()
	}
	return nil
}

// BasicAuthTokenFor builds the auth map HELLO/INIT/LOGON send, or the
// unauthenticated "none" scheme if cfg carries no credentials.
func BasicAuthTokenFor(cfg Config) map[string]interface{} {
	return message.BasicAuthToken(cfg.BasicAuthUsername, cfg.BasicAuthPassword)
}

func extractHints(metadata map[string]interface{}) map[string]interface{} {
	hints := map[string]interface{}{}
	for _, key := range []string{"connection.recv_timeout_seconds", "telemetry.enabled", "ssr.enabled"} {
		if v, ok := metadata[key]; ok {
			hints[key] = v
		}
	}
	if nested, ok := metadata["hints"].(map[string]interface{}); ok {
		for k, v := range nested {
			hints[k] = v
		}
	}
	return hints
}

// ServerHints returns the server hints extracted from the
// authentication SUCCESS response.
func (c *Connection) ServerHints() map[string]interface{} { return c.serverHints }

// Version returns the negotiated Bolt protocol version.
func (c *Connection) Version() message.Version { return c.version }

func (c *Connection) send(msg interface {
	Signature() byte
	Fields() []interface{}
}) error {
	enc := packstream.NewEncoder(c.t, c.cfg.ChunkSize)
	if err := enc.Encode(msg); err != nil {
		return bolterrors.WrapKind(bolterrors.KindConnection, err, "encoding message")
	}
	return nil
}

func (c *Connection) receive() (interface{}, error) {
	dec := packstream.NewDecoder(c.t)
	resp, err := dec.Decode()
	if err != nil {
		return nil, bolterrors.WrapKind(bolterrors.KindConnection, err, "decoding response")
	}
	return resp, nil
}

func (c *Connection) roundtrip(msg interface {
	Signature() byte
	Fields() []interface{}
}) (interface{}, error) {
	if err := c.send(msg); err != nil {
		return nil, err
	}
	return c.receive()
}

// recoverFromFailure issues RESET after a FAILURE or Protocol-class
// error so the connection can return to Ready; a RESET failure marks
// the connection Defunct, per the failure-path cleanup design note.
func (c *Connection) recoverFromFailure() error {
	resp, err := c.roundtrip(message.Reset{})
	if err != nil {
		c.markDefunct()
		return bolterrors.WrapKind(bolterrors.KindConnection, err, "RESET failed after failure; connection is defunct")
	}
	if _, ok := resp.(message.Success); !ok {
		c.markDefunct()
		return c.protocolErrorNoRecover("RESET", resp)
	}
	c.machine.Reset()
	return nil
}

func (c *Connection) markDefunct() {
	c.mu.Lock()
	c.defunct = true
	c.mu.Unlock()
	c.machine.Defunct()
}

// Defunct reports whether this connection has been marked permanently
// unusable, satisfying pool.PoolableConn.
func (c *Connection) Defunct() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defunct
}

// RunResult is the outcome of a successful RUN: the field names of the
// result and, for v4+, the server-assigned query id subsequent
// PULL/DISCARD calls must reference.
type RunResult struct {
	Fields  []string
	QueryID int64
	Raw     map[string]interface{}
}

// Run sends RUN (or, inside a transaction, the equivalent TxStreaming
// transition) and awaits its SUCCESS or FAILURE.
func (c *Connection) Run(statement string, params, extra map[string]interface{}) (RunResult, error) {
	resp, err := c.roundtrip(message.Run{Statement: statement, Parameters: params, Extra: extra})
	if err != nil {
		return RunResult{}, err
	}

	switch r := resp.(type) {
	case message.Success:
		if err := c.machine.Run(); err != nil {
			return RunResult{}, err
		}
		return runResultFrom(r.Metadata), nil
	case message.Failure:
		c.machine.Fail()
		cypherErr := bolterrors.New(bolterrors.KindCypher, "%s", r.Message()).WithWire(r.Metadata)
		if rerr := c.recoverFromFailure(); rerr != nil {
			return RunResult{}, rerr
		}
		return RunResult{}, cypherErr
	case message.Ignored:
		if rerr := c.recoverFromFailure(); rerr != nil {
			return RunResult{}, rerr
		}
		return RunResult{}, bolterrors.New(bolterrors.KindIgnored, "RUN ignored: connection was already in a failed state")
	default:
		return RunResult{}, c.protocolError("RUN", resp)
	}
}

func runResultFrom(metadata map[string]interface{}) RunResult {
	result := RunResult{Raw: metadata}
	if fields, ok := metadata["fields"].([]interface{}); ok {
		result.Fields = make([]string, len(fields))
		for i, f := range fields {
			if s, ok := f.(string); ok {
				result.Fields[i] = s
			}
		}
	}
	if qid, ok := metadata["qid"].(int64); ok {
		result.QueryID = qid
	} else {
		result.QueryID = -1
	}
	return result
}

func (c *Connection) protocolError(op string, resp interface{}) error {
	err := bolterrors.New(bolterrors.KindProtocol, "unexpected response to %s: %T %#v", op, resp, resp)
	if rerr := c.recoverFromFailure(); rerr != nil {
		return rerr
	}
	return err
}

// PullEach streams records for query qid (n=-1 for all, qid=-1 for the
// most recent query), invoking fn for each record, until the terminal
// SUCCESS. It returns that SUCCESS's metadata (bookmark, has_more,
// type, ...).
func (c *Connection) PullEach(n, qid int64, fn func(message.Record) error) (map[string]interface{}, error) {
	if err := message.ValidateExtra(n, qid); err != nil {
		return nil, err
	}

	kind := message.Normalize(c.version, message.KindPullAll)
	var msg interface {
		Signature() byte
		Fields() []interface{}
	}
	if kind == message.KindPull {
		msg = message.Pull{N: n, QID: qid}
	} else {
		msg = message.PullAll{}
	}

	if err := c.send(msg); err != nil {
		return nil, err
	}
	return c.drain(fn)
}

// DiscardAll drops records for query qid without delivering them to the
// caller, otherwise identical to PullEach.
func (c *Connection) DiscardAll(n, qid int64) (map[string]interface{}, error) {
	if err := message.ValidateExtra(n, qid); err != nil {
		return nil, err
	}

	kind := message.Normalize(c.version, message.KindDiscardAll)
	var msg interface {
		Signature() byte
		Fields() []interface{}
	}
	if kind == message.KindDiscard {
		msg = message.Discard{N: n, QID: qid}
	} else {
		msg = message.DiscardAll{}
	}

	if err := c.send(msg); err != nil {
		return nil, err
	}
	return c.drain(nil)
}

func (c *Connection) drain(fn func(message.Record) error) (map[string]interface{}, error) {
	for {
		resp, err := c.receive()
		if err != nil {
			return nil, err
		}

		switch r := resp.(type) {
		case message.Record:
			if fn != nil {
				if err := fn(r); err != nil {
					return nil, err
				}
			}
		case message.Success:
			hasMore, _ := r.Metadata["has_more"].(bool)
			if hasMore {
				if err := c.machine.PullHasMore(); err != nil {
					return nil, err
				}
				return r.Metadata, nil
			}
			if err := c.machine.PullDrained(); err != nil {
				return nil, err
			}
			return r.Metadata, nil
		case message.Failure:
			c.machine.Fail()
			cypherErr := bolterrors.New(bolterrors.KindCypher, "%s", r.Message()).WithWire(r.Metadata)
			if rerr := c.recoverFromFailure(); rerr != nil {
				return nil, rerr
			}
			return nil, cypherErr
		default:
			return nil, c.protocolError("PULL/DISCARD", resp)
		}
	}
}

// Begin opens a transaction, or, if one is already open, increments its
// nesting depth without sending BEGIN again (transaction-depth
// reentrancy: Neo4j has no savepoints).
func (c *Connection) Begin(ctx context.Context) error {
	return c.BeginWithMetadata(nil)
}

// BeginWithMetadata is Begin with explicit transaction metadata (db,
// mode, bookmarks, tx_timeout, imp_user).
func (c *Connection) BeginWithMetadata(extra map[string]interface{}) error {
	wireNeeded, err := c.machine.Begin()
	if err != nil {
		return err
	}
	if !wireNeeded {
		return nil
	}

	resp, err := c.roundtrip(message.Begin{Extra: extra})
	if err != nil {
		return err
	}
	return c.expectSuccessOrFail("BEGIN", resp)
}

// Commit ends the transaction, persisting its writes. Nested commits
// (tx_depth>1) decrement depth without wire traffic; only the outermost
// commit talks to the server.
func (c *Connection) Commit(ctx context.Context) error {
	wireNeeded, err := c.machine.Commit()
	if err != nil {
		return err
	}
	if !wireNeeded {
		return nil
	}

	resp, err := c.roundtrip(message.Commit{})
	if err != nil {
		return err
	}
	return c.expectSuccessOrFail("COMMIT", resp)
}

// Rollback ends the transaction, discarding its writes. Nested
// rollbacks (tx_depth>1) decrement depth without wire traffic; only the
// outermost rollback talks to the server.
func (c *Connection) Rollback(ctx context.Context) error {
	wireNeeded, err := c.machine.Rollback()
	if err != nil {
		return err
	}
	if !wireNeeded {
		return nil
	}

	resp, err := c.roundtrip(message.Rollback{})
	if err != nil {
		return err
	}
	return c.expectSuccessOrFail("ROLLBACK", resp)
}

func (c *Connection) expectSuccessOrFail(op string, resp interface{}) error {
	switch r := resp.(type) {
	case message.Success:
		return nil
	case message.Failure:
		c.machine.Fail()
		cypherErr := bolterrors.New(bolterrors.KindCypher, "%s failed: %s", op, r.Message()).WithWire(r.Metadata)
		if rerr := c.recoverFromFailure(); rerr != nil {
			return rerr
		}
		return cypherErr
	default:
		return c.protocolError(op, resp)
	}
}

// Reset discards any pending work and returns the connection to Ready.
// It is also used as a liveness ping.
func (c *Connection) Reset() error {
	resp, err := c.roundtrip(message.Reset{})
	if err != nil {
		c.markDefunct()
		return err
	}
	if _, ok := resp.(message.Success); !ok {
		c.markDefunct()
		return c.protocolErrorNoRecover("RESET", resp)
	}
	c.machine.Reset()
	return nil
}

func (c *Connection) protocolErrorNoRecover(op string, resp interface{}) error {
	return bolterrors.New(bolterrors.KindProtocol, "unexpected response to %s: %T %#v", op, resp, resp)
}

// Ping performs a RESET with a short receive deadline: any error means
// the connection should be treated as disconnected.
func (c *Connection) Ping(ctx context.Context, timeout time.Duration) error {
	prev := c.t.recvTimeout
	c.t.recvTimeout = timeout
	defer func() { c.t.recvTimeout = prev }()

	if err := c.Reset(); err != nil {
		return bolterrors.WrapKind(bolterrors.KindConnection, err, "ping failed")
	}
	return nil
}

// Goodbye tells the server this connection is closing, tolerating a
// write failure since the server may have already hung up, then closes
// the transport. Satisfies pool.PoolableConn.
func (c *Connection) Goodbye(ctx context.Context) error {
	if !message.Legal(c.version, message.KindGoodbye) {
		return c.t.Close()
	}
	if err := c.send(message.Goodbye{}); err != nil {
		log.Infof("GOODBYE write failed (tolerated): %s", err)
	}
	return c.t.Close()
}

func wrapConnect(err error, addr string) error {
	return bolterrors.WrapKind(bolterrors.KindConnection, err, "connecting to %s", addr)
}

// String implements fmt.Stringer for log messages.
func (c *Connection) String() string {
	return fmt.Sprintf("Connection{id=%s %s:%d bolt=%d.%d state=%s}", c.id, c.cfg.Hostname, c.cfg.Port, c.version.Major, c.version.Minor, c.machine.Current())
}
