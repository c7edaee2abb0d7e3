package graph

// PathSignature is the PackStream struct signature for a Path.
const PathSignature = 0x50

const pathFields = 3

// Path is an alternating sequence of nodes and unbound relationships, as
// returned by a Cypher path pattern. Sequence encodes the traversal: each
// pair of ints is a 1-based, sign-indicating relationship index (negative
// meaning traversed against its natural direction) followed by the index
// of the next node in Nodes.
type Path struct {
	Nodes         []Node
	Relationships []UnboundRelationship
	Sequence      []int64
}

// Signature returns the PackStream struct signature for Path.
func (p Path) Signature() byte { return PathSignature }

// Fields returns the ordered field list PackStream encodes.
func (p Path) Fields() []interface{} {
	nodes := make([]interface{}, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = n
	}
	rels := make([]interface{}, len(p.Relationships))
	for i, r := range p.Relationships {
		rels[i] = r
	}
	seq := make([]interface{}, len(p.Sequence))
	for i, s := range p.Sequence {
		seq[i] = s
	}
	return []interface{}{nodes, rels, seq}
}

// DecodePath builds a Path from a decoded PackStream field list.
func DecodePath(fields []interface{}) (Path, error) {
	if len(fields) != pathFields {
		return Path{}, wrongFieldCount("Path", len(fields))
	}

	rawNodes, ok := fields[0].([]interface{})
	if !ok {
		return Path{}, badField("Path.nodes", fields[0])
	}
	nodes := make([]Node, len(rawNodes))
	for i, raw := range rawNodes {
		n, ok := raw.(Node)
		if !ok {
			return Path{}, badField("Path.nodes[]", raw)
		}
		nodes[i] = n
	}

	rawRels, ok := fields[1].([]interface{})
	if !ok {
		return Path{}, badField("Path.relationships", fields[1])
	}
	rels := make([]UnboundRelationship, len(rawRels))
	for i, raw := range rawRels {
		r, ok := raw.(UnboundRelationship)
		if !ok {
			return Path{}, badField("Path.relationships[]", raw)
		}
		rels[i] = r
	}

	rawSeq, ok := fields[2].([]interface{})
	if !ok {
		return Path{}, badField("Path.sequence", fields[2])
	}
	seq := make([]int64, len(rawSeq))
	for i, raw := range rawSeq {
		s, ok := raw.(int64)
		if !ok {
			return Path{}, badField("Path.sequence[]", raw)
		}
		seq[i] = s
	}

	return Path{Nodes: nodes, Relationships: rels, Sequence: seq}, nil
}
