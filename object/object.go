// Package object provides the value types manipulated by the rlox virtual
// machine.
//
// A Value is a small tagged union that is passed and stored by value. The
// only variant today is a number, backed by a float64:
//
//	v := object.NewNumber(1.2)
//	switch v.Type() {
//	case object.NUMBER:
//		// do something with v.AsNumber()
//	}
package object

// Type of a value as a string.
type Type string

// Type constants
const (
	NUMBER Type = "number"
)

// Value is a tagged literal. The zero Value is the number 0.
type Value struct {
	typ Type
	num float64
}

// NewNumber returns a number value.
func NewNumber(n float64) Value {
	return Value{typ: NUMBER, num: n}
}

// Type returns the value's variant. The zero Value reports NUMBER.
func (v Value) Type() Type {
	if v.typ == "" {
		return NUMBER
	}
	return v.typ
}

// IsNumber reports whether the value holds a number.
func (v Value) IsNumber() bool {
	return v.Type() == NUMBER
}

// AsNumber returns the numeric payload.
func (v Value) AsNumber() float64 {
	return v.num
}

// Interface returns the value as a native Go value.
func (v Value) Interface() interface{} {
	return v.num
}

// Equals reports whether two values have the same type and payload. NaN is
// not equal to itself.
func (v Value) Equals(other Value) bool {
	return v.Type() == other.Type() && v.num == other.num
}
