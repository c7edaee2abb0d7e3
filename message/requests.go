package message

import bolterrors "github.com/corebolt/neobolt/errors"

// BoltAgent is the product/platform/language triple Bolt 5+ HELLO
// carries alongside user_agent.
type BoltAgent struct {
	Product  string
	Platform string
	Language string
}

func (a BoltAgent) asMap() map[string]interface{} {
	return map[string]interface{}{
		"product":  a.Product,
		"platform": a.Platform,
		"language": a.Language,
	}
}

// Hello is the HELLO request. For v5.1+ it carries no auth (use Logon
// instead); for v3-v5.0 Auth is inlined.
type Hello struct {
	UserAgent string
	BoltAgent *BoltAgent
	Auth      map[string]interface{}
	Routing   map[string]interface{}
}

func (h Hello) Signature() byte { return HelloSignature }

func (h Hello) Fields() []interface{} {
	extra := map[string]interface{}{"user_agent": h.UserAgent}
	if h.BoltAgent != nil {
		extra["bolt_agent"] = h.BoltAgent.asMap()
	}
	if h.Routing != nil {
		extra["routing"] = h.Routing
	}
	for k, v := range h.Auth {
		extra[k] = v
	}
	return []interface{}{extra}
}

// Init is the legacy (v1-v2) handshake-completion message: client name
// plus inline auth token, no separate bolt_agent.
type Init struct {
	ClientName string
	AuthToken  map[string]interface{}
}

func (i Init) Signature() byte { return InitSignature }

func (i Init) Fields() []interface{} { return []interface{}{i.ClientName, i.AuthToken} }

// BasicAuthToken builds the {scheme, principal, credentials} auth map
// shared by HELLO, INIT, and LOGON. An empty username selects the
// unauthenticated "none" scheme.
func BasicAuthToken(username, password string) map[string]interface{} {
	if username == "" {
		return map[string]interface{}{"scheme": "none"}
	}
	return map[string]interface{}{
		"scheme":      "basic",
		"principal":   username,
		"credentials": password,
	}
}

// Logon is the v5.1+ request that carries auth separately from HELLO.
type Logon struct {
	Auth map[string]interface{}
}

func (l Logon) Signature() byte       { return LogonSignature }
func (l Logon) Fields() []interface{} { return []interface{}{l.Auth} }

// Logoff invalidates the current auth context without closing the
// connection, ahead of a fresh Logon.
type Logoff struct{}

func (l Logoff) Signature() byte       { return LogoffSignature }
func (l Logoff) Fields() []interface{} { return []interface{}{} }

// Goodbye tells the server this connection is closing; best-effort,
// writes are tolerated to fail since the server may have already hung
// up.
type Goodbye struct{}

func (g Goodbye) Signature() byte       { return GoodbyeSignature }
func (g Goodbye) Fields() []interface{} { return []interface{}{} }

// AckFailure clears a Failed state on v1-v3 connections (v4+ uses Reset
// instead; Normalize performs that substitution).
type AckFailure struct{}

func (a AckFailure) Signature() byte       { return AckFailureSignature }
func (a AckFailure) Fields() []interface{} { return []interface{}{} }

// Reset discards any queued work and returns the connection to Ready.
type Reset struct{}

func (r Reset) Signature() byte       { return ResetSignature }
func (r Reset) Fields() []interface{} { return []interface{}{} }

// Run executes a statement with parameters and version-dependent extra
// metadata (db, mode, bookmarks, tx_timeout, imp_user, ...).
type Run struct {
	Statement  string
	Parameters map[string]interface{}
	Extra      map[string]interface{}
}

func (r Run) Signature() byte { return RunSignature }

func (r Run) Fields() []interface{} {
	params := r.Parameters
	if params == nil {
		params = map[string]interface{}{}
	}
	extra := r.Extra
	if extra == nil {
		extra = map[string]interface{}{}
	}
	return []interface{}{r.Statement, params, extra}
}

// Begin opens a transaction with the given metadata (db, mode,
// bookmarks, tx_timeout, imp_user, ...).
type Begin struct {
	Extra map[string]interface{}
}

func (b Begin) Signature() byte { return BeginSignature }

func (b Begin) Fields() []interface{} {
	extra := b.Extra
	if extra == nil {
		extra = map[string]interface{}{}
	}
	return []interface{}{extra}
}

// Commit ends the current transaction, persisting its writes.
type Commit struct{}

func (c Commit) Signature() byte       { return CommitSignature }
func (c Commit) Fields() []interface{} { return []interface{}{} }

// Rollback ends the current transaction, discarding its writes.
type Rollback struct{}

func (r Rollback) Signature() byte       { return RollbackSignature }
func (r Rollback) Fields() []interface{} { return []interface{}{} }

// PullAll streams every remaining record of the current result (v1-v3).
type PullAll struct{}

func (p PullAll) Signature() byte       { return PullSignature }
func (p PullAll) Fields() []interface{} { return []interface{}{} }

// DiscardAll drops every remaining record of the current result (v1-v3).
type DiscardAll struct{}

func (d DiscardAll) Signature() byte       { return DiscardSignature }
func (d DiscardAll) Fields() []interface{} { return []interface{}{} }

// Pull streams up to N records of query QID (v4+); N=-1 means all, and
// QID=-1 means the most recently opened result.
type Pull struct {
	N   int64
	QID int64
}

func (p Pull) Signature() byte { return PullSignature }

func (p Pull) Fields() []interface{} {
	return []interface{}{map[string]interface{}{"n": p.N, "qid": p.QID}}
}

// Discard drops up to N records of query QID (v4+), same N/QID
// semantics as Pull.
type Discard struct {
	N   int64
	QID int64
}

func (d Discard) Signature() byte { return DiscardSignature }

func (d Discard) Fields() []interface{} {
	return []interface{}{map[string]interface{}{"n": d.N, "qid": d.QID}}
}

// ValidateExtra checks the n/qid extras PULL and DISCARD share: n must
// be -1 (all) or positive; qid must be -1 (most recent) or
// non-negative.
func ValidateExtra(n, qid int64) error {
	if n != -1 && n <= 0 {
		return bolterrors.New(bolterrors.KindInvalidInput, "n must be -1 or a positive integer, got %d", n)
	}
	if qid != -1 && qid < 0 {
		return bolterrors.New(bolterrors.KindInvalidInput, "qid must be -1 or non-negative, got %d", qid)
	}
	return nil
}

// Route requests a routing table for the given bookmarks/database
// context (v4.3+). The resulting table is returned to the caller
// uninterpreted; this driver does not cache or resolve it.
type Route struct {
	RoutingContext map[string]interface{}
	Bookmarks      []string
	Database       map[string]interface{}
}

func (r Route) Signature() byte { return RouteSignature }

func (r Route) Fields() []interface{} {
	bookmarks := make([]interface{}, len(r.Bookmarks))
	for i, b := range r.Bookmarks {
		bookmarks[i] = b
	}
	db := r.Database
	if db == nil {
		db = map[string]interface{}{}
	}
	return []interface{}{r.RoutingContext, bookmarks, db}
}

// Telemetry reports a client API usage signal (v5.4+). Failures are
// treated as non-fatal by the caller; the server may ignore unsupported
// api values.
type Telemetry struct {
	API int64
}

func (t Telemetry) Signature() byte { return TelemetrySignature }

func (t Telemetry) Fields() []interface{} {
	return []interface{}{map[string]interface{}{"api": t.API}}
}
