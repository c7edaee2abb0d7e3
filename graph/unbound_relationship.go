package graph

const (
	// UnboundRelationshipSignature is the PackStream struct signature for
	// an UnboundRelationship, as found inside a Path.
	UnboundRelationshipSignature = 0x72

	unboundRelFieldsLegacy = 3
	unboundRelFieldsBolt5  = 4
)

// UnboundRelationship is a Relationship stripped of its endpoint node
// identities, as carried inside a Path's relationship list.
type UnboundRelationship struct {
	ID         int64
	Type       string
	Properties map[string]interface{}
	ElementID  string
}

// Signature returns the PackStream struct signature for UnboundRelationship.
func (r UnboundRelationship) Signature() byte { return UnboundRelationshipSignature }

// Fields returns the ordered field list PackStream encodes.
func (r UnboundRelationship) Fields() []interface{} {
	if r.ElementID != "" {
		return []interface{}{r.ID, r.Type, r.Properties, r.ElementID}
	}
	return []interface{}{r.ID, r.Type, r.Properties}
}

// DecodeUnboundRelationship builds an UnboundRelationship from a decoded
// PackStream field list, accepting both the legacy and Bolt 5 shapes.
func DecodeUnboundRelationship(fields []interface{}) (UnboundRelationship, error) {
	switch len(fields) {
	case unboundRelFieldsLegacy, unboundRelFieldsBolt5:
	default:
		return UnboundRelationship{}, wrongFieldCount("UnboundRelationship", len(fields))
	}

	id, err := asInt64(fields[0], "UnboundRelationship.id")
	if err != nil {
		return UnboundRelationship{}, err
	}
	relType, err := asString(fields[1], "UnboundRelationship.type")
	if err != nil {
		return UnboundRelationship{}, err
	}
	props, err := asPropertyMap(fields[2], "UnboundRelationship.properties")
	if err != nil {
		return UnboundRelationship{}, err
	}

	r := UnboundRelationship{ID: id, Type: relType, Properties: props}
	if len(fields) == unboundRelFieldsBolt5 {
		elementID, err := asString(fields[3], "UnboundRelationship.element_id")
		if err != nil {
			return UnboundRelationship{}, err
		}
		r.ElementID = elementID
	}
	return r, nil
}
