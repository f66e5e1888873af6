package metaval

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Serialize converts v into its stored text form.
//
// A String is stored verbatim unless it already looks serialized, in which
// case it is encoded as a JSON string so that Unserialize returns the same
// text. All other values are stored as MarshalStable JSON, which keeps
// string bytes exactly.
func Serialize(v Value) (string, error) {
	if s, ok := v.(String); ok && !IsSerialized(string(s)) {
		return string(s), nil
	}
	b, err := MarshalStable(v)
	if err != nil {
		return "", fmt.Errorf("serialize: %w", err)
	}
	return string(b), nil
}

// MustSerialize is like Serialize but panics on error.
// Use only in tests or when the value is known to be valid.
func MustSerialize(v Value) string {
	s, err := Serialize(v)
	if err != nil {
		panic(err)
	}
	return s
}

// Unserialize reverses Serialize. Text that does not look serialized, or
// that fails to decode, is returned unchanged as a String.
func Unserialize(s string) Value {
	if !IsSerialized(s) {
		return String(s)
	}
	v, err := Decode([]byte(strings.TrimSpace(s)))
	if err != nil {
		return String(s)
	}
	return v
}

// IsSerialized reports whether s is in serialized form: null, a boolean,
// an integer literal, or a JSON string, array or object.
func IsSerialized(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return false
	}
	switch t {
	case "null", "true", "false":
		return true
	}
	switch t[0] {
	case '"', '[', '{':
		return json.Valid([]byte(t))
	}
	_, err := strconv.ParseInt(t, 10, 64)
	return err == nil
}
