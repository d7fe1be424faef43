package object

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Inspect returns the value's text form: the shortest decimal that round
// trips, without exponent notation.
func (v Value) Inspect() string {
	switch {
	case math.IsInf(v.num, 1):
		return "inf"
	case math.IsInf(v.num, -1):
		return "-inf"
	case math.IsNaN(v.num):
		return "NaN"
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

func (v Value) String() string {
	return v.Inspect()
}

// ValueState is the serialized form of a Value.
type ValueState struct {
	Type  Type    `json:"type" cbor:"1,keyasint"`
	Value float64 `json:"value" cbor:"2,keyasint"`
}

// MarshalJSON encodes the value as {"type": "number", "value": n}. JSON has
// no representation for infinities or NaN, so those fail to encode.
func (v Value) MarshalJSON() ([]byte, error) {
	if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
		return nil, fmt.Errorf("value error: %s cannot be encoded as json", v.Inspect())
	}
	return json.Marshal(v.State())
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var state ValueState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	decoded, err := FromState(state)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// State returns the serializable form of the value.
func (v Value) State() ValueState {
	return ValueState{Type: v.Type(), Value: v.num}
}

// FromState rebuilds a value from its serialized form.
func FromState(state ValueState) (Value, error) {
	switch state.Type {
	case NUMBER:
		return NewNumber(state.Value), nil
	default:
		return Value{}, fmt.Errorf("value error: unknown value type %q", state.Type)
	}
}
