// Package graph holds the domain structs PackStream decodes by signature:
// Node, Relationship, UnboundRelationship, and Path. Each accepts both the
// legacy wire shape and the Bolt 5 shape carrying element_id strings,
// selecting between them by the decoded field count.
//
// Carries the Bolt 5 element_id fields alongside the legacy numeric ids
// and decodes from a PackStream field list rather than only encoding
// to one.
package graph

import bolterrors "github.com/corebolt/neobolt/errors"

// NodeSignature is the PackStream struct signature for a Node.
const NodeSignature = 0x4E

const (
	nodeFieldsLegacy = 3
	nodeFieldsBolt5  = 4
)

// Node is a graph node: an identity, zero or more labels, and a property
// map. ElementID is populated from Bolt 5 onward and empty otherwise.
type Node struct {
	ID         int64
	Labels     []string
	Properties map[string]interface{}
	ElementID  string
}

// Signature returns the PackStream struct signature for Node.
func (n Node) Signature() byte { return NodeSignature }

// Fields returns the ordered field list PackStream encodes. When
// ElementID is set, the Bolt 5 shape (4 fields) is emitted; otherwise the
// legacy 3-field shape is used.
func (n Node) Fields() []interface{} {
	labels := make([]interface{}, len(n.Labels))
	for i, label := range n.Labels {
		labels[i] = label
	}
	if n.ElementID != "" {
		return []interface{}{n.ID, labels, n.Properties, n.ElementID}
	}
	return []interface{}{n.ID, labels, n.Properties}
}

// DecodeNode builds a Node from a decoded PackStream field list, accepting
// both the legacy and Bolt 5 shapes.
func DecodeNode(fields []interface{}) (Node, error) {
	switch len(fields) {
	case nodeFieldsLegacy, nodeFieldsBolt5:
	default:
		return Node{}, wrongFieldCount("Node", len(fields))
	}

	id, err := asInt64(fields[0], "Node.id")
	if err != nil {
		return Node{}, err
	}
	labels, err := asStringSlice(fields[1], "Node.labels")
	if err != nil {
		return Node{}, err
	}
	props, err := asPropertyMap(fields[2], "Node.properties")
	if err != nil {
		return Node{}, err
	}

	n := Node{ID: id, Labels: labels, Properties: props}
	if len(fields) == nodeFieldsBolt5 {
		elementID, err := asString(fields[3], "Node.element_id")
		if err != nil {
			return Node{}, err
		}
		n.ElementID = elementID
	}
	return n, nil
}

func wrongFieldCount(what string, got int) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "%s: unexpected field count %d", what, got)
}
