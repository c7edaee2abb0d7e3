package graph

const (
	// RelationshipSignature is the PackStream struct signature for a
	// bound Relationship.
	RelationshipSignature = 0x52

	relFieldsLegacy = 5
	relFieldsBolt5  = 8
)

// Relationship is a graph relationship bound to its two endpoint node
// identities. The element ID trio is populated from Bolt 5 onward.
type Relationship struct {
	ID                int64
	StartNodeID       int64
	EndNodeID         int64
	Type              string
	Properties        map[string]interface{}
	ElementID         string
	StartNodeElementID string
	EndNodeElementID   string
}

// Signature returns the PackStream struct signature for Relationship.
func (r Relationship) Signature() byte { return RelationshipSignature }

// Fields returns the ordered field list PackStream encodes.
func (r Relationship) Fields() []interface{} {
	if r.ElementID != "" {
		return []interface{}{
			r.ID, r.StartNodeID, r.EndNodeID, r.Type, r.Properties,
			r.ElementID, r.StartNodeElementID, r.EndNodeElementID,
		}
	}
	return []interface{}{r.ID, r.StartNodeID, r.EndNodeID, r.Type, r.Properties}
}

// DecodeRelationship builds a Relationship from a decoded PackStream field
// list, accepting both the legacy and Bolt 5 shapes.
func DecodeRelationship(fields []interface{}) (Relationship, error) {
	switch len(fields) {
	case relFieldsLegacy, relFieldsBolt5:
	default:
		return Relationship{}, wrongFieldCount("Relationship", len(fields))
	}

	id, err := asInt64(fields[0], "Relationship.id")
	if err != nil {
		return Relationship{}, err
	}
	start, err := asInt64(fields[1], "Relationship.start")
	if err != nil {
		return Relationship{}, err
	}
	end, err := asInt64(fields[2], "Relationship.end")
	if err != nil {
		return Relationship{}, err
	}
	relType, err := asString(fields[3], "Relationship.type")
	if err != nil {
		return Relationship{}, err
	}
	props, err := asPropertyMap(fields[4], "Relationship.properties")
	if err != nil {
		return Relationship{}, err
	}

	r := Relationship{ID: id, StartNodeID: start, EndNodeID: end, Type: relType, Properties: props}
	if len(fields) == relFieldsBolt5 {
		elementID, err := asString(fields[5], "Relationship.element_id")
		if err != nil {
			return Relationship{}, err
		}
		startElementID, err := asString(fields[6], "Relationship.start_element_id")
		if err != nil {
			return Relationship{}, err
		}
		endElementID, err := asString(fields[7], "Relationship.end_element_id")
		if err != nil {
			return Relationship{}, err
		}
		r.ElementID = elementID
		r.StartNodeElementID = startElementID
		r.EndNodeElementID = endElementID
	}
	return r, nil
}
