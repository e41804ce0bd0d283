package message

// Envelope is a response body that parsed as a JSON object. Any object is a
// candidate envelope; its shape is not fixed.
//
//	{"data": "<payload>", "encoding": "aes", "message": "ok", ...}
type Envelope map[string]Value

// ParseEnvelope parses data as a JSON object. ok is false when data is not
// JSON or its top-level value is not an object.
func ParseEnvelope(data []byte) (env Envelope, ok bool) {
	v, err := Parse(data)
	if err != nil {
		return nil, false
	}
	obj, ok := v.Object()
	if !ok {
		return nil, false
	}
	return Envelope(obj), true
}

// Lookup returns the value of the first of keys present in e.
func (e Envelope) Lookup(keys ...string) (Value, bool) {
	for _, k := range keys {
		if v, ok := e[k]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// String returns the first of keys whose value is a string. Keys holding
// null or any other non-string value are skipped.
func (e Envelope) String(keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := e[k].Str(); ok {
			return s, true
		}
	}
	return "", false
}

// Value returns e as an object Value.
func (e Envelope) Value() Value {
	return ObjectValue(map[string]Value(e))
}
