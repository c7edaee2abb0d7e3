package neobolt

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net/url"
	"strconv"
	"time"

	"github.com/corebolt/neobolt/circuitbreaker"
	bolterrors "github.com/corebolt/neobolt/errors"
	"github.com/corebolt/neobolt/log"
	"github.com/corebolt/neobolt/message"
	"github.com/corebolt/neobolt/pool"
	"github.com/corebolt/neobolt/retry"
	"github.com/corebolt/neobolt/sandbox"
)

func init() {
	sql.Register("neo4j-bolt", &sqlDriver{})
}

// NeoDriver is the entry point for the Neo-flavored surface: a pooled,
// circuit-breaker-protected, retrying source of Connections, wrapping
// bare dial-per-connection with the pool/circuitbreaker/retry packages.
type NeoDriver struct {
	cfg     Config
	pool    *pool.Pool
	breaker *circuitbreaker.Breaker
	retry   retry.Policy
	sandbox *sandbox.Sandbox
}

// OpenNeo builds a NeoDriver for cfg: a pool of up to cfg.PoolSize
// connections, a circuit breaker opening after 5 consecutive connect
// failures with a 30s recovery timeout, and the default retry policy.
func OpenNeo(cfg Config) *NeoDriver {
	ctx := context.Background()
	connect := func(ctx context.Context) (pool.PoolableConn, error) {
		return Connect(ctx, cfg)
	}

	poolCfg := pool.DefaultConfig(cfg.PoolSize)
	if cfg.IdleInterval > 0 {
		poolCfg.IdleInterval = cfg.IdleInterval
	}
	if cfg.PingTimeout > 0 {
		poolCfg.PingTimeout = cfg.PingTimeout
	}

	d := &NeoDriver{
		cfg:     cfg,
		pool:    pool.New(ctx, connect, poolCfg),
		breaker: circuitbreaker.New(5, 30*time.Second),
		retry:   retry.DefaultPolicy(),
	}
	d.sandbox = sandbox.New(&sandboxPoolAdapter{driver: d}, sandbox.Auto)
	return d
}

// Sandbox returns the driver's per-test isolation wrapper (see the
// sandbox package). A test suite typically calls SetMode(sandbox.Manual)
// once and Acquire/Release around each test.
func (d *NeoDriver) Sandbox() *sandbox.Sandbox { return d.sandbox }

// sandboxPoolAdapter narrows pool.Pool's PoolableConn-returning methods
// to the TxConn-returning shape sandbox.Pool requires; both interfaces
// are satisfied by the same *Connection value, but Go does not let a
// method whose declared return type is PoolableConn also satisfy a
// TxConn-returning interface method without this adapter. Borrow goes
// through the driver's own Acquire rather than the pool directly, so
// an Auto-mode implicit per-call checkout still passes through the
// circuit breaker and retry policy.
type sandboxPoolAdapter struct {
	driver *NeoDriver
}

func (a *sandboxPoolAdapter) Borrow(ctx context.Context) (sandbox.TxConn, error) {
	return a.driver.Acquire(ctx)
}

func (a *sandboxPoolAdapter) Return(ctx context.Context, conn sandbox.TxConn) error {
	return a.driver.Release(ctx, conn.(*Connection))
}

func (a *sandboxPoolAdapter) Invalidate(ctx context.Context, conn sandbox.TxConn) error {
	return a.driver.pool.Invalidate(ctx, conn.(pool.PoolableConn))
}

// Acquire leases a connection through the circuit breaker, retrying
// transient connection failures per the driver's retry policy.
func (d *NeoDriver) Acquire(ctx context.Context) (*Connection, error) {
	allowed, state := d.breaker.Allow()
	if !allowed {
		return nil, bolterrors.New(bolterrors.KindConnection, "circuit breaker is %s", state)
	}

	var conn *Connection
	err := retry.Do(ctx, d.retry, func(ctx context.Context) error {
		pooled, err := d.pool.Borrow(ctx)
		if err != nil {
			return bolterrors.WrapKind(bolterrors.KindConnection, err, "borrowing connection")
		}
		conn = pooled.(*Connection)
		return nil
	})
	if err != nil {
		d.breaker.Failure()
		return nil, err
	}
	d.breaker.Success()
	return conn, nil
}

// Release returns conn to the pool, or discards it if it has gone
// Defunct mid-lease.
func (d *NeoDriver) Release(ctx context.Context, conn *Connection) error {
	if conn.Defunct() {
		return d.pool.Invalidate(ctx, conn)
	}
	return d.pool.Return(ctx, conn)
}

// Close drains and closes every pooled connection.
func (d *NeoDriver) Close(ctx context.Context) {
	d.pool.Close(ctx)
}

// NeoResult is the outcome of ExecNeo: a statement run to completion
// with its records discarded.
type NeoResult struct {
	Summary map[string]interface{}
}

// ExecNeo runs statement with params, discards its result rows, and
// returns the terminal summary metadata. The connection it runs
// against is whatever the driver's sandbox resolves for ctx: an owned,
// transaction-wrapped lease if ctx carries one (or the sandbox is in
// Shared mode), otherwise an implicit per-call checkout with no
// isolation.
func (d *NeoDriver) ExecNeo(ctx context.Context, statement string, params map[string]interface{}) (NeoResult, error) {
	var result NeoResult
	err := d.sandbox.Execute(ctx, func(tc sandbox.TxConn) error {
		conn := tc.(*Connection)
		run, err := conn.Run(statement, params, nil)
		if err != nil {
			return err
		}
		summary, err := conn.DiscardAll(-1, run.QueryID)
		if err != nil {
			return err
		}
		result = NeoResult{Summary: summary}
		return nil
	})
	return result, err
}

// NeoRows is the fully buffered outcome of QueryNeo. Callers streaming
// large results should use QueryNeoEach instead.
type NeoRows struct {
	Fields  []string
	Records [][]interface{}
	Summary map[string]interface{}
}

// QueryNeo runs statement with params and collects every resulting
// record.
func (d *NeoDriver) QueryNeo(ctx context.Context, statement string, params map[string]interface{}) (NeoRows, error) {
	rows := NeoRows{}
	summary, err := d.QueryNeoEach(ctx, statement, params, func(fields []string, record []interface{}) error {
		rows.Fields = fields
		rows.Records = append(rows.Records, record)
		return nil
	})
	rows.Summary = summary
	return rows, err
}

// QueryNeoEach runs statement with params and invokes fn for each
// record as it streams in, never buffering the whole result; it
// returns the terminal summary metadata. Like ExecNeo, it runs against
// whatever connection the driver's sandbox resolves for ctx.
func (d *NeoDriver) QueryNeoEach(ctx context.Context, statement string, params map[string]interface{}, fn func(fields []string, record []interface{}) error) (map[string]interface{}, error) {
	var summary map[string]interface{}
	err := d.sandbox.Execute(ctx, func(tc sandbox.TxConn) error {
		conn := tc.(*Connection)
		run, err := conn.Run(statement, params, nil)
		if err != nil {
			return err
		}
		s, err := conn.PullEach(-1, run.QueryID, func(rec message.Record) error {
			return fn(run.Fields, rec.Values)
		})
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	return summary, err
}

// sqlDriver is the database/sql/driver.Driver registered under
// "neo4j-bolt". It is the limited surface: see the package doc for why
// OpenNeo is preferred.
type sqlDriver struct{}

func (sqlDriver) Open(dsn string) (driver.Conn, error) {
	cfg, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	conn, err := Connect(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	log.Infof("sql.driver connection opened to %s:%d", cfg.Hostname, cfg.Port)
	return &sqlConn{conn: conn}, nil
}

// parseDSN parses a bolt://[user:pass@]host:port[?timeout=15s&tls=true]
// DSN into a Config, defaulted via DefaultConfig.
func parseDSN(dsn string) (Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Config{}, bolterrors.New(bolterrors.KindInvalidInput, "invalid DSN %q: %s", dsn, err)
	}

	host := u.Hostname()
	port := 7687
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return Config{}, bolterrors.New(bolterrors.KindInvalidInput, "invalid port in DSN %q", dsn)
		}
	}

	cfg := DefaultConfig(host, port)
	if u.User != nil {
		cfg.BasicAuthUsername = u.User.Username()
		cfg.BasicAuthPassword, _ = u.User.Password()
	}

	q := u.Query()
	if q.Get("tls") == "true" {
		cfg.TLS = &TLSConfig{InsecureSkipVerify: q.Get("tls_insecure") == "true"}
	}
	if t := q.Get("timeout"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Config{}, bolterrors.New(bolterrors.KindInvalidInput, "invalid timeout in DSN %q: %s", dsn, err)
		}
		cfg.Timeout = d
		cfg.RecvTimeout = d
	}
	return cfg, nil
}
