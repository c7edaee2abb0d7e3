package neobolt

import (
	"math/rand"

	bolterrors "github.com/corebolt/neobolt/errors"
	"github.com/corebolt/neobolt/message"
)

// RouteServer is one entry of a routing table: the addresses serving a
// given role.
type RouteServer struct {
	Addresses []string
	Role      string // "READ", "WRITE", or "ROUTE"
}

// RouteTable is the raw routing table a ROUTE response carries. This
// driver does not cache, refresh, or resolve it into live connections
// - that decision belongs to whatever sits above this package, per the
// driver's cluster-routing non-goal. RouteTable only exposes what the
// server actually said.
type RouteTable struct {
	TTL     int64
	Servers []RouteServer
}

// Route issues ROUTE and returns the raw table the server reports,
// uninterpreted (v4.3+ only). Maintaining standing read/write pools
// across the returned servers, reconnecting, and failing over are all
// cluster-routing functionality this driver explicitly does not take
// on - callers get the single request/response exchange and decide
// the rest themselves.
func (c *Connection) Route(routingContext map[string]interface{}, bookmarks []string, database map[string]interface{}) (RouteTable, error) {
	if !message.Legal(c.version, message.KindRoute) {
		return RouteTable{}, bolterrors.New(bolterrors.KindInvalidInput, "ROUTE requires Bolt 4.3+, connection negotiated %d.%d", c.version.Major, c.version.Minor)
	}

	resp, err := c.roundtrip(message.Route{RoutingContext: routingContext, Bookmarks: bookmarks, Database: database})
	if err != nil {
		return RouteTable{}, err
	}

	switch r := resp.(type) {
	case message.Success:
		return parseRouteTable(r.Metadata)
	case message.Failure:
		cypherErr := bolterrors.New(bolterrors.KindCypher, "ROUTE failed: %s", r.Message()).WithWire(r.Metadata)
		if rerr := c.recoverFromFailure(); rerr != nil {
			return RouteTable{}, rerr
		}
		return RouteTable{}, cypherErr
	default:
		return RouteTable{}, c.protocolError("ROUTE", resp)
	}
}

func parseRouteTable(metadata map[string]interface{}) (RouteTable, error) {
	rt, ok := metadata["rt"].(map[string]interface{})
	if !ok {
		return RouteTable{}, bolterrors.New(bolterrors.KindProtocol, "ROUTE success missing rt: %#v", metadata)
	}

	table := RouteTable{TTL: -1}
	if ttl, ok := rt["ttl"].(int64); ok {
		table.TTL = ttl
	}

	servers, _ := rt["servers"].([]interface{})
	for _, s := range servers {
		entry, ok := s.(map[string]interface{})
		if !ok {
			continue
		}
		role, _ := entry["role"].(string)
		rawAddrs, _ := entry["addresses"].([]interface{})
		addrs := make([]string, 0, len(rawAddrs))
		for _, a := range rawAddrs {
			if addr, ok := a.(string); ok {
				addrs = append(addrs, addr)
			}
		}
		table.Servers = append(table.Servers, RouteServer{Addresses: addrs, Role: role})
	}
	return table, nil
}

// PickAddress returns a random address serving role ("READ", "WRITE",
// or "ROUTE") from table, for a caller that fetched a RouteTable and
// wants to dial one of its servers - connecting to it, retrying, and
// refreshing the table on failure are all the caller's responsibility.
func PickAddress(table RouteTable, role string) (string, error) {
	for _, server := range table.Servers {
		if server.Role != role || len(server.Addresses) == 0 {
			continue
		}
		return server.Addresses[rand.Intn(len(server.Addresses))], nil
	}
	return "", bolterrors.New(bolterrors.KindInvalidInput, "routing table has no %s servers", role)
}
