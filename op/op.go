// Package op defines the opcodes understood by the rlox virtual machine and
// the table describing how many operand bytes each one carries.
package op

import (
	"fmt"
	"strings"
)

// Code is a one-byte opcode that indicates an operation to execute.
type Code byte

const (
	Return   Code = 0
	Constant Code = 1
	Negate   Code = 2
	Add      Code = 3
	Subtract Code = 4
	Multiply Code = 5
	Divide   Code = 6
)

// String returns the opcode's name, or a placeholder for unmapped values.
func (c Code) String() string {
	if info, ok := GetInfo(c); ok {
		return info.Name
	}
	return fmt.Sprintf("UNKNOWN(%d)", byte(c))
}

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

// Width returns the number of bytes the instruction occupies, including the
// opcode itself.
func (i Info) Width() int {
	return 1 + i.OperandCount
}

var (
	infos  [256]*Info
	byName = map[string]Code{}
	codes  []Code
)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Return, "OP_RETURN", 0},
		{Constant, "OP_CONSTANT", 1},
		{Negate, "OP_NEGATE", 0},
		{Add, "OP_ADD", 0},
		{Subtract, "OP_SUBTRACT", 0},
		{Multiply, "OP_MULTIPLY", 0},
		{Divide, "OP_DIVIDE", 0},
	}
	for _, o := range ops {
		infos[o.op] = &Info{
			Code:         o.op,
			Name:         o.name,
			OperandCount: o.count,
		}
		byName[o.name] = o.op
		byName[strings.TrimPrefix(o.name, "OP_")] = o.op
		codes = append(codes, o.op)
	}
}

// GetInfo returns information about the given opcode. The second result is
// false for bytes that are not opcodes.
func GetInfo(c Code) (Info, bool) {
	info := infos[c]
	if info == nil {
		return Info{}, false
	}
	return *info, true
}

// Width returns the encoded size of an instruction starting with c. Unknown
// opcodes are treated as one byte wide.
func Width(c Code) int {
	if info, ok := GetInfo(c); ok {
		return info.Width()
	}
	return 1
}

// Lookup finds an opcode by mnemonic. Both "OP_ADD" and "add" forms are
// accepted, in any case.
func Lookup(name string) (Code, bool) {
	c, ok := byName[strings.ToUpper(name)]
	return c, ok
}

// All returns every defined opcode in encoding order.
func All() []Code {
	out := make([]Code, len(codes))
	copy(out, codes)
	return out
}

// DecodeError reports a byte that does not map to any opcode.
type DecodeError struct {
	Byte byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode %d", e.Byte)
}

// Encode returns the byte representation of c.
func Encode(c Code) byte {
	return byte(c)
}

// Decode maps a raw byte to its opcode. Bytes with no mapping produce a
// *DecodeError carrying the byte.
func Decode(b byte) (Code, error) {
	switch Code(b) {
	case Return, Constant, Negate, Add, Subtract, Multiply, Divide:
		return Code(b), nil
	default:
		return 0, &DecodeError{Byte: b}
	}
}
