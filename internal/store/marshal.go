package store

import (
	"encoding/json"
	"fmt"

	"github.com/instawp/twowaysync-sample/internal/metaval"
)

// marshalData converts an event's data object to stable JSON TEXT.
// Keys are sorted and string bytes are kept, so replay sees the exact value.
func marshalData(data metaval.Object) (string, error) {
	if data == nil {
		data = metaval.Object{}
	}
	b, err := metaval.MarshalStable(data)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}
	return string(b), nil
}

// unmarshalData parses canonical JSON TEXT back to an object. Integers are
// decoded via json.Number so large ids survive.
func unmarshalData(data string) (metaval.Object, error) {
	if data == "" || data == "{}" {
		return metaval.Object{}, nil
	}
	var obj metaval.Object
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	return obj, nil
}
