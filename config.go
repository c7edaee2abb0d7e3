package neobolt

import "time"

// Config collects the tunables a connection (or pool of connections)
// accepts. Ambient concerns this package never wraps a third-party
// configuration library around: a host application builds one of these
// however it likes (flags, env, a config file parsed by the host) and
// hands it to Open/OpenNeo.
type Config struct {
	Hostname string
	Port     int

	BasicAuthUsername string
	BasicAuthPassword string

	// Timeout bounds the initial TCP connect.
	Timeout time.Duration
	// RecvTimeout bounds each individual message read.
	RecvTimeout time.Duration
	// PingTimeout bounds the RESET issued as a liveness probe.
	PingTimeout time.Duration
	// IdleInterval is how often the pool proactively pings idle
	// connections.
	IdleInterval time.Duration

	PoolSize         int
	OwnershipTimeout time.Duration

	// TLS selects the transport: nil means plain TCP. A non-nil
	// TLSConfig with InsecureSkipVerify true and no other options opts
	// into TLS without certificate verification.
	TLS *TLSConfig

	ChunkSize int

	DebugConnect bool

	UserAgent string
}

// TLSConfig selects TLS transport options.
type TLSConfig struct {
	InsecureSkipVerify bool
	ServerName         string
}

// DefaultConfig returns a Config with sensible production defaults: 15s
// connect timeout, 15s recv_timeout, 5s ping_timeout, 1s idle_interval,
// 120s ownership_timeout, 4096-byte chunks.
func DefaultConfig(hostname string, port int) Config {
	return Config{
		Hostname:         hostname,
		Port:             port,
		Timeout:          15 * time.Second,
		RecvTimeout:      15 * time.Second,
		PingTimeout:      5 * time.Second,
		IdleInterval:     time.Second,
		PoolSize:         10,
		OwnershipTimeout: 120 * time.Second,
		ChunkSize:        4096,
		UserAgent:        "neobolt/1.0",
	}
}
