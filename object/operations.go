package object

import (
	"fmt"

	"github.com/deepnoodle-ai/rlox/op"
)

// Negate returns the arithmetic negation of v.
func Negate(v Value) Value {
	return NewNumber(-v.num)
}

func Add(a, b Value) Value {
	return NewNumber(a.num + b.num)
}

func Subtract(a, b Value) Value {
	return NewNumber(a.num - b.num)
}

func Multiply(a, b Value) Value {
	return NewNumber(a.num * b.num)
}

// Divide follows IEEE 754: dividing by zero yields an infinity or NaN.
func Divide(a, b Value) Value {
	return NewNumber(a.num / b.num)
}

// BinaryFunc computes a binary operation. The first argument is the operand
// the interpreter popped first.
type BinaryFunc func(a, b Value) Value

var binaryOps = map[op.Code]BinaryFunc{
	op.Add:      Add,
	op.Subtract: Subtract,
	op.Multiply: Multiply,
	op.Divide:   Divide,
}

// BinaryOperation returns the function implementing a binary opcode.
func BinaryOperation(code op.Code) (BinaryFunc, bool) {
	fn, ok := binaryOps[code]
	return fn, ok
}

// BinaryOp applies the binary opcode to a and b.
func BinaryOp(code op.Code, a, b Value) (Value, error) {
	fn, ok := binaryOps[code]
	if !ok {
		return Value{}, fmt.Errorf("eval error: %s is not a binary operation", code)
	}
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, fmt.Errorf("type error: unsupported operand types for %s: %s and %s",
			code, a.Type(), b.Type())
	}
	return fn(a, b), nil
}
