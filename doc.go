/*Package neobolt is a client for Neo4j's Bolt protocol.

It dials a server, negotiates a protocol version (1 through 5.6), then
drives Cypher statements and transactions over the negotiated wire
format. Connections are pooled and, for tests, sandboxed: each checkout
runs inside a transaction that is rolled back on checkin, so tests never
need teardown Cypher.

The package exposes two parallel surfaces. The database/sql/driver
surface (registered with sql.Register under "neo4j-bolt") is standard but
limited: sql.driver.Value cannot represent Bolt's nodes, relationships,
or paths, and only supports positional parameters where Neo4j expects
named ones. The Neo-flavored surface (OpenNeo, NeoDriver.ExecNeo/QueryNeo)
returns domain types straight from the graph package and accepts
map[string]interface{} parameters directly; it is the one most callers
should use.

Integers always come back as int64, whatever width the wire used:
an integer encoded as one byte on the wire decodes as an int64 with that
value, not an int8 - PackStream's marker hierarchy is about wire
size, not Go type. Maps must be map[string]interface{} and lists
[]interface{}; Bolt has no native unsigned 64-bit integer, so the
largest representable value is math.MaxInt64.
*/
package neobolt
