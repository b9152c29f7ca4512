package request

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that tells apart an absent key, an explicit null
// and a value. UnmarshalJSON only runs for keys present in the payload.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// ptr returns nil unless a non-null value was supplied.
func (o Optional[T]) ptr() *T {
	if !o.Present || o.Null {
		return nil
	}
	v := o.Value
	return &v
}
