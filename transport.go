package neobolt

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/corebolt/neobolt/log"
)

// transport is a net.Conn with a per-call read/write deadline and
// trace-level hex logging of everything that crosses it.
//
// A deadline is set before every call, and a hex dump is logged at
// trace level; split out so Connection can delegate transport concerns
// instead of owning the net.Conn directly.
type transport struct {
	net.Conn
	recvTimeout time.Duration
}

func dial(cfg Config) (*transport, error) {
	addr := net.JoinHostPort(cfg.Hostname, strconv.Itoa(cfg.Port))

	if cfg.DebugConnect {
		log.Infof("connecting to %s (tls=%v)", addr, cfg.TLS != nil)
	}

	var conn net.Conn
	var err error
	if cfg.TLS != nil {
		dialer := &net.Dialer{Timeout: cfg.Timeout}
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
			ServerName:         cfg.TLS.ServerName,
		})
	} else {
		conn, err = net.DialTimeout("tcp", addr, cfg.Timeout)
	}
	if err != nil {
		return nil, wrapConnect(err, addr)
	}

	return &transport{Conn: conn, recvTimeout: cfg.RecvTimeout}, nil
}

// Read reads from the underlying connection under recvTimeout, logging
// a hex dump of what was read at trace level.
func (t *transport) Read(p []byte) (n int, err error) {
	if err := t.Conn.SetReadDeadline(time.Now().Add(t.recvTimeout)); err != nil {
		return 0, err
	}
	n, err = t.Conn.Read(p)
	if n > 0 {
		log.Tracef("read %d bytes:\n%s", n, sprintByteHex(p[:n]))
	}
	if err != nil && err != io.EOF {
		log.Errorf("read error: %s", err)
	}
	return n, err
}

// Write writes to the underlying connection under recvTimeout, logging
// a hex dump of what was written at trace level.
func (t *transport) Write(p []byte) (n int, err error) {
	if err := t.Conn.SetWriteDeadline(time.Now().Add(t.recvTimeout)); err != nil {
		return 0, err
	}
	n, err = t.Conn.Write(p)
	if n > 0 {
		log.Tracef("wrote %d of %d bytes:\n%s", n, len(p), sprintByteHex(p[:n]))
	}
	if err != nil {
		log.Errorf("write error: %s", err)
	}
	return n, err
}

// sprintByteHex returns a hex dump of b, 16 bytes per line with a
// 4-byte gap every word.
func sprintByteHex(b []byte) string {
	output := "\t"
	for i, c := range b {
		output += fmt.Sprintf("%x", c)
		switch {
		case (i+1)%16 == 0:
			output += "\n\n\t"
		case (i+1)%4 == 0:
			output += "  "
		default:
			output += " "
		}
	}
	return output + "\n"
}
