package message

import (
	"fmt"
	"testing"
)

func TestLegalAcrossVersions(t *testing.T) {
	cases := []struct {
		name string
		v    Version
		kind Kind
		want bool
	}{
		{"init legal on v1", Version{1, 0}, KindInit, true},
		{"init illegal on v3", Version{3, 0}, KindInit, false},
		{"hello legal on v3", Version{3, 0}, KindHello, true},
		{"hello illegal on v5.1", Version{5, 1}, KindHello, false},
		{"logon illegal before v5.1", Version{5, 0}, KindLogon, false},
		{"logon legal on v5.1", Version{5, 1}, KindLogon, true},
		{"pull_all legal on v3", Version{3, 0}, KindPullAll, true},
		{"pull_all illegal on v4", Version{4, 0}, KindPullAll, false},
		{"pull legal on v4", Version{4, 0}, KindPull, true},
		{"pull illegal on v3", Version{3, 0}, KindPull, false},
		{"route requires 4.3", Version{4, 2}, KindRoute, false},
		{"route legal on 4.3", Version{4, 3}, KindRoute, true},
		{"telemetry requires 5.4", Version{5, 3}, KindTelemetry, false},
		{"telemetry legal on 5.4", Version{5, 4}, KindTelemetry, true},
		{"run always legal", Version{1, 0}, KindRun, true},
		{"reset always legal", Version{5, 6}, KindReset, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Legal(tc.v, tc.kind); got != tc.want {
				t.Errorf("Legal(%v, %v) = %v, want %v", tc.v, tc.kind, got, tc.want)
			}
		})
	}
}

// legalOn is an independently-written restatement of the Bolt
// version-history rules (not derived from Legal's switch) used to cross-
// check Legal over every version/kind combination below. INIT was retired
// after v2 and ACK_FAILURE after v3, HELLO/GOODBYE/BEGIN/COMMIT/ROLLBACK
// arrived with v3, PULL_ALL/DISCARD_ALL gave way to PULL/DISCARD in v4,
// ROUTE arrived in v4.3, LOGON/LOGOFF in v5.1, TELEMETRY in v5.4.
// RESET and RUN have been legal since v1 and stay legal forever. The
// response kinds (SUCCESS/RECORD/IGNORED/FAILURE) are never legal to send
// as a request and Legal should reject all of them.
func legalOn(v Version, kind Kind) bool {
	switch kind {
	case KindHello:
		return v.Major == 3 || v.Major == 4 || (v.Major == 5 && v.Minor == 0)
	case KindInit:
		return v.Major <= 2
	case KindLogon:
		return v.AtLeast(5, 1)
	case KindLogoff:
		return v.AtLeast(5, 1)
	case KindGoodbye:
		return v.Major >= 3
	case KindAckFailure:
		return v.Major <= 3
	case KindReset:
		return true
	case KindRun:
		return true
	case KindBegin:
		return v.Major >= 3
	case KindCommit:
		return v.Major >= 3
	case KindRollback:
		return v.Major >= 3
	case KindDiscard:
		return v.Major >= 4
	case KindDiscardAll:
		return v.Major <= 3
	case KindPull:
		return v.Major >= 4
	case KindPullAll:
		return v.Major <= 3
	case KindRoute:
		return v.AtLeast(4, 3)
	case KindTelemetry:
		return v.AtLeast(5, 4)
	case KindSuccess, KindRecord, KindIgnored, KindFailure:
		return false
	default:
		return false
	}
}

func TestLegalFullCrossProduct(t *testing.T) {
	versions := []Version{
		{1, 0},
		{2, 0},
		{3, 0},
		{4, 0},
		{4, 1},
		{4, 2},
		{4, 3},
		{4, 4},
		{5, 0},
		{5, 1},
		{5, 4},
		{5, 6},
	}
	kinds := []Kind{
		KindHello, KindInit, KindLogon, KindLogoff, KindGoodbye,
		KindAckFailure, KindReset, KindRun, KindBegin, KindCommit,
		KindRollback, KindDiscard, KindDiscardAll, KindPull, KindPullAll,
		KindRoute, KindTelemetry,
		KindSuccess, KindRecord, KindIgnored, KindFailure,
	}

	for _, v := range versions {
		for _, kind := range kinds {
			v, kind := v, kind
			t.Run(fmt.Sprintf("v%d.%d/kind%d", v.Major, v.Minor, kind), func(t *testing.T) {
				got := Legal(v, kind)
				want := legalOn(v, kind)
				if got != want {
					t.Errorf("Legal(%v, %v) = %v, want %v", v, kind, got, want)
				}
			})
		}
	}
}

func TestNormalizeAdaptsToNegotiatedVersion(t *testing.T) {
	if got := Normalize(Version{3, 0}, KindPullAll); got != KindPullAll {
		t.Errorf("expected PULL_ALL to stay PULL_ALL on v3, got %v", got)
	}
	if got := Normalize(Version{4, 0}, KindPullAll); got != KindPull {
		t.Errorf("expected PULL_ALL to normalize to PULL on v4, got %v", got)
	}
	if got := Normalize(Version{4, 0}, KindDiscardAll); got != KindDiscard {
		t.Errorf("expected DISCARD_ALL to normalize to DISCARD on v4, got %v", got)
	}
	if got := Normalize(Version{3, 0}, KindAckFailure); got != KindAckFailure {
		t.Errorf("expected ACK_FAILURE to stay on v3, got %v", got)
	}
	if got := Normalize(Version{4, 0}, KindAckFailure); got != KindReset {
		t.Errorf("expected ACK_FAILURE to normalize to RESET on v4, got %v", got)
	}
}

func TestInvalidMessageForVersionMentionsKindAndVersion(t *testing.T) {
	err := InvalidMessageForVersion(Version{4, 0}, KindInit)
	if err == nil {
		t.Fatal("expected non-nil error")
	}
}
