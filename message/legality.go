package message

import bolterrors "github.com/corebolt/neobolt/errors"

// Legal reports whether kind may be sent on a connection negotiated at
// version v, per the per-version message matrix. It is the single
// source of truth an encoder consults before putting a message on the
// wire; callers that need a different shape for the same logical
// operation (PULL_ALL vs PULL, ACK_FAILURE vs RESET) should normalize
// first via Normalize.
func Legal(v Version, kind Kind) bool {
	switch kind {
	case KindInit:
		return v.Major <= 2
	case KindAckFailure:
		return v.Major <= 3
	case KindHello:
		return v.Major == 3 || (v.Major == 4) || (v.Major == 5 && v.Minor == 0)
	case KindLogon, KindLogoff:
		return v.AtLeast(5, 1)
	case KindPullAll, KindDiscardAll:
		return v.Major <= 3
	case KindPull, KindDiscard:
		return v.Major >= 4
	case KindBegin, KindCommit, KindRollback:
		return v.Major >= 3
	case KindRoute:
		return v.AtLeast(4, 3)
	case KindTelemetry:
		return v.AtLeast(5, 4)
	case KindGoodbye:
		return v.Major >= 3
	case KindReset, KindRun:
		return true
	default:
		return false
	}
}

// InvalidMessageForVersion is returned by an encoder asked to emit a
// message kind the negotiated version does not support.
func InvalidMessageForVersion(v Version, kind Kind) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindInvalidInput, "message kind %d is not legal on Bolt %d.%d", kind, v.Major, v.Minor)
}

// Normalize adapts a caller's requested kind to the shape the negotiated
// version actually expects: PULL_ALL/DISCARD_ALL become PULL/DISCARD
// with n:-1 for v4+, and ACK_FAILURE becomes RESET for v4+. Callers
// should build the message for the *normalized* kind, not the
// originally requested one.
func Normalize(v Version, kind Kind) Kind {
	switch kind {
	case KindPullAll:
		if v.Major >= 4 {
			return KindPull
		}
	case KindDiscardAll:
		if v.Major >= 4 {
			return KindDiscard
		}
	case KindAckFailure:
		if v.Major >= 4 {
			return KindReset
		}
	}
	return kind
}
