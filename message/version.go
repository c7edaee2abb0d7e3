package message

import (
	"io"

	bolterrors "github.com/corebolt/neobolt/errors"
)

// Magic is the 4-byte preamble that opens every Bolt handshake.
var Magic = []byte{0x60, 0x60, 0xB0, 0x17}

// Version is a negotiated Bolt protocol version. Major/Minor 0/0 is the
// zero value and is never a valid negotiated version on its own; use
// IsZero to test for handshake rejection.
type Version struct {
	Major byte
	Minor byte
}

// IsZero reports whether v is the all-zero sentinel the server sends to
// reject a handshake.
func (v Version) IsZero() bool { return v.Major == 0 && v.Minor == 0 }

// AtLeast reports whether v is the same major version and at least the
// given minor, or a strictly greater major version.
func (v Version) AtLeast(major, minor byte) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// clientSlot is one of the four version proposals sent in a handshake.
type clientSlot struct {
	version Version
	rangeN  byte
}

func (s clientSlot) encode() [4]byte {
	if s.version.Major < 4 {
		return [4]byte{0, 0, 0, s.version.Major}
	}
	return [4]byte{0, s.rangeN, s.version.Minor, s.version.Major}
}

// NegotiationSlots is the fixed, most-preferred-first proposal this
// driver advertises: latest 5.x with a fallback range, then 4.4 with its
// own range, then the legacy single-version 3 and 2 slots.
func NegotiationSlots() [4]clientSlot {
	return [4]clientSlot{
		{version: Version{5, 6}, rangeN: 4},
		{version: Version{4, 4}, rangeN: 4},
		{version: Version{3, 0}},
		{version: Version{2, 0}},
	}
}

// EncodeHandshake writes the magic preamble followed by the four client
// version slots.
func EncodeHandshake(w io.Writer) error {
	if _, err := w.Write(Magic); err != nil {
		return bolterrors.WrapKind(bolterrors.KindConnection, err, "writing handshake preamble")
	}
	for _, slot := range NegotiationSlots() {
		b := slot.encode()
		if _, err := w.Write(b[:]); err != nil {
			return bolterrors.WrapKind(bolterrors.KindConnection, err, "writing handshake version slot")
		}
	}
	return nil
}

// DecodeHandshakeResponse reads the server's 4-byte accepted-version
// slot and resolves it to a Version. A zero slot is a rejected
// handshake.
func DecodeHandshakeResponse(r io.Reader) (Version, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Version{}, bolterrors.WrapKind(bolterrors.KindConnection, err, "reading handshake response")
	}

	major, minor := buf[3], buf[2]
	if major == 0 && minor == 0 && buf[1] == 0 {
		return Version{}, bolterrors.New(bolterrors.KindHandshake, "server rejected all proposed Bolt versions")
	}
	return Version{Major: major, Minor: minor}, nil
}
