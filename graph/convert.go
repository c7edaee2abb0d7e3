package graph

import bolterrors "github.com/corebolt/neobolt/errors"

func asInt64(v interface{}, what string) (int64, error) {
	i, ok := v.(int64)
	if !ok {
		return 0, badField(what, v)
	}
	return i, nil
}

func asString(v interface{}, what string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", badField(what, v)
	}
	return s, nil
}

func asStringSlice(v interface{}, what string) ([]string, error) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, badField(what, v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, badField(what, item)
		}
		out[i] = s
	}
	return out, nil
}

func asPropertyMap(v interface{}, what string) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, badField(what, v)
	}
	return m, nil
}

func badField(what string, got interface{}) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "%s: unexpected type %T", what, got)
}
