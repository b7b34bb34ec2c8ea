package mapper

import (
	"errors"
	"fmt"

	"github.com/broady/typedwamp/contract"
)

// CheckAliases reports TypeScript names that collide after naming: two
// remote methods with one alias, or two parameters of a method with one
// alias. Distinct Go names can meet this way: user_id and userId both
// become userId. Unmarked methods are not emitted and are not checked.
func (m *Mapper) CheckAliases(c *contract.Contract) error {
	var errs []error
	methods := make(map[string]string)
	for _, method := range c.Methods {
		if method.Marker.Kind == contract.MarkerNone {
			continue
		}

		alias := m.namer.MethodName(method)
		if prev, ok := methods[alias]; ok {
			errs = append(errs, fmt.Errorf("methods %s and %s both map to %q", prev, method.Name, alias))
		} else {
			methods[alias] = method.Name
		}

		params := make(map[string]string, len(method.Params))
		for _, p := range method.Params {
			alias := m.namer.ParamName(p)
			if prev, ok := params[alias]; ok {
				errs = append(errs, fmt.Errorf("method %s: parameters %s and %s both map to %q", method.Name, prev, p.Name, alias))
				continue
			}
			params[alias] = p.Name
		}
	}
	return errors.Join(errs...)
}
