package mapper

import (
	"fmt"

	"github.com/broady/typedwamp/contract"
)

// UnsupportedKeyTypeError reports a keyed container whose key does not map
// to "string" or "number". The contract cannot be represented and its
// generation must abort.
type UnsupportedKeyTypeError struct {
	// Key is the offending key type.
	Key contract.Type

	// Mapped is the TypeScript expression the key mapped to.
	Mapped string
}

func (e *UnsupportedKeyTypeError) Error() string {
	return fmt.Sprintf("received %s keyed dictionary: only number or string keys are supported", e.Key)
}
