package neobolt

import (
	"database/sql/driver"
	"fmt"

	bolterrors "github.com/corebolt/neobolt/errors"
)

// driverArgsToMap adapts database/sql's positional driver.Value
// parameters to the named map[string]interface{} Cypher expects,
// naming each one p0, p1, ... in positional order, since database/sql
// has no notion of named bind parameters.
func driverArgsToMap(args []driver.Value) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(args))
	for i, arg := range args {
		params[fmt.Sprintf("p%d", i)] = arg
	}
	return params, nil
}

func unsupportedDriverValue(v interface{}) error {
	return bolterrors.New(bolterrors.KindInvalidInput, "value %#v (%T) cannot be represented as a database/sql/driver.Value", v, v)
}
