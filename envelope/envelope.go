// Package envelope finds the real payload inside generic response wrappers.
//
// Feature endpoints receive bodies such as
//
//	{"message": "ok", "data": {...}}
//	{"status": "success", "habit": {...}}
//	{"success": true, "habitId": "abc"}
//
// and want the inner object. Unwrap applies, in order:
//
//  1. a nested non-string, non-null "data" value;
//  2. the first non-null value among PreferredKeys;
//  3. the only non-null member left after dropping the metadata keys in
//     IgnoredKeys (compared case-insensitively). An object or array member is
//     returned as is; a scalar member keeps its key, so {"habitId": "abc"}
//     still decodes into a struct.
//
// Anything else is ambiguous and is left to the caller.
package envelope

import (
	"dash-api/message"
	"encoding/json"
	"strings"
)

// PreferredKeys are tried in order after "data".
var PreferredKeys = []string{"habit", "task", "payload", "result"}

// IgnoredKeys hold response metadata, never the payload. Lower case.
var IgnoredKeys = map[string]struct{}{
	"message":    {},
	"status":     {},
	"success":    {},
	"code":       {},
	"error":      {},
	"errors":     {},
	"timestamp":  {},
	"requestid":  {},
	"request_id": {},
	"encoding":   {},
}

// Unwrap returns the re-serialized payload of the envelope in data. ok is
// false when data is not a JSON object or no rule matches; the caller then
// uses data as is.
//
// The single-member rule gives two shapes:
//
//	{"message":"ok","stats":{"done":3}}  ->  {"done":3}
//	{"status":"ok","habits":[1,2]}       ->  [1,2]
//	{"message":"ok","habitId":"abc"}     ->  {"habitId":"abc"}
func Unwrap(data []byte) (payload []byte, ok bool) {
	env, isObject := message.ParseEnvelope(data)
	if !isObject {
		return nil, false
	}

	if v, present := env["data"]; present && v.Kind() != message.String && !v.IsNull() {
		if b, err := v.MarshalJSON(); err == nil {
			return b, true
		}
	}

	for _, key := range PreferredKeys {
		if v, present := env[key]; present && !v.IsNull() {
			if b, err := v.MarshalJSON(); err == nil {
				return b, true
			}
		}
	}

	var (
		candidateKey string
		candidate    message.Value
		n            int
	)
	for key, v := range env {
		if _, ignored := IgnoredKeys[strings.ToLower(key)]; ignored || v.IsNull() {
			continue
		}
		candidateKey, candidate = key, v
		n++
	}
	if n != 1 {
		return nil, false
	}
	if k := candidate.Kind(); k != message.Object && k != message.Array {
		candidate = message.ObjectValue(map[string]message.Value{candidateKey: candidate})
	}
	if b, err := candidate.MarshalJSON(); err == nil {
		return b, true
	}
	return nil, false
}

// UnwrapOr returns the unwrapped payload, or data itself when there is
// nothing to unwrap.
func UnwrapOr(data []byte) []byte {
	if payload, ok := Unwrap(data); ok {
		return payload
	}
	return data
}

// Decode unwraps data and decodes the payload into a T.
func Decode[T any](data []byte) (T, error) {
	var out T
	err := json.Unmarshal(UnwrapOr(data), &out)
	return out, err
}
