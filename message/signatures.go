// Package message implements the Bolt message vocabulary: request and
// response struct signatures, the version-handshake wire format, the
// per-version legal message matrix, and the normalization adapters that
// let a single caller API target any negotiated version.
//
// Covers the full HELLO/LOGON/BEGIN/ROUTE/TELEMETRY vocabulary through
// Bolt 5.6, one struct per message kind.
package message

// Kind identifies a Bolt message independent of its wire signature, so
// the legality matrix and normalization adapters can be expressed once
// per logical operation rather than once per signature byte.
type Kind int

const (
	KindHello Kind = iota
	KindInit
	KindLogon
	KindLogoff
	KindGoodbye
	KindAckFailure
	KindReset
	KindRun
	KindBegin
	KindCommit
	KindRollback
	KindDiscard
	KindDiscardAll
	KindPull
	KindPullAll
	KindRoute
	KindTelemetry

	KindSuccess
	KindRecord
	KindIgnored
	KindFailure
)

// Request signature bytes, fixed across all versions that carry the kind.
const (
	HelloSignature      = 0x01
	InitSignature       = 0x01
	GoodbyeSignature    = 0x02
	AckFailureSignature = 0x0E
	ResetSignature      = 0x0F
	RunSignature        = 0x10
	BeginSignature      = 0x11
	CommitSignature     = 0x12
	RollbackSignature   = 0x13
	DiscardSignature    = 0x2F
	PullSignature       = 0x3F
	TelemetrySignature  = 0x54
	RouteSignature      = 0x66
	LogonSignature      = 0x6A
	LogoffSignature     = 0x6B
)

// Response signature bytes.
const (
	SuccessSignature = 0x70
	RecordSignature  = 0x71
	IgnoredSignature = 0x7E
	FailureSignature = 0x7F
)
