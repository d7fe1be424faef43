// Package vm provides a VirtualMachine that executes rlox chunks.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/errz"
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/rs/zerolog"
)

// DefaultStackSize is the operand stack capacity used when WithStackSize is
// not given.
const DefaultStackSize = 256

// VirtualMachine is a stack-based interpreter for chunks. It is not safe for
// concurrent use; Interpret may be called repeatedly and starts each run
// with an empty stack.
type VirtualMachine struct {
	ip        int // instruction pointer
	sp        int // stack top: number of occupied slots
	steps     int
	stack     []object.Value
	chunk     *bytecode.Chunk
	stackSize int
	trace     bool
	out       io.Writer
	traceOut  io.Writer
	observer  Observer
	observe   ObserverConfig
	filter    *stepFilter
	logger    zerolog.Logger
}

// New creates a new Virtual Machine.
func New(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		stackSize: DefaultStackSize,
		out:       os.Stdout,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.traceOut == nil {
		vm.traceOut = vm.out
	}
	vm.stack = make([]object.Value, vm.stackSize)
	return vm
}

// StackSize returns the capacity of the operand stack.
func (vm *VirtualMachine) StackSize() int {
	return vm.stackSize
}

// Interpret executes the chunk from its first byte until a Return
// instruction. The returned value is also printed to the configured output.
// Execution problems are reported as *errz.StructuredError values of kind
// errz.ErrRuntime; the machine stays usable afterwards.
func (vm *VirtualMachine) Interpret(chunk *bytecode.Chunk) (object.Value, error) {
	vm.reset(chunk)
	vm.logger.Debug().
		Str("chunk", chunk.Name()).
		Int("bytes", chunk.Count()).
		Int("constants", chunk.ConstantCount()).
		Msg("interpret")
	result, err := vm.run()
	if err != nil {
		vm.logger.Debug().Err(err).Int("ip", vm.ip).Int("steps", vm.steps).Msg("interpret failed")
		return object.Value{}, err
	}
	vm.logger.Debug().Str("result", result.String()).Int("steps", vm.steps).Msg("interpret finished")
	return result, nil
}

func (vm *VirtualMachine) reset(chunk *bytecode.Chunk) {
	clear(vm.stack)
	vm.sp = 0
	vm.ip = 0
	vm.steps = 0
	vm.chunk = chunk
	if vm.observer != nil {
		vm.observe = vm.observer.Config()
		vm.filter = newStepFilter(vm.observe)
	}
}

func (vm *VirtualMachine) run() (object.Value, error) {
	for {
		if vm.ip >= vm.chunk.Count() {
			return object.Value{}, vm.runtimeError(errz.ErrIPOutOfRange,
				"reached end of code at offset %d without a return", vm.ip)
		}
		if vm.trace {
			vm.traceStep()
		}

		// The current instruction opcode
		raw, _ := vm.chunk.Instruction(vm.ip)
		code, err := op.Decode(raw)
		if err != nil {
			return object.Value{}, vm.runtimeError(err, "%s", err)
		}
		vm.steps++

		if vm.observer != nil && vm.filter.want(vm.line()) {
			event := StepEvent{
				IP:         vm.ip,
				Opcode:     code,
				OpcodeName: code.String(),
				Line:       vm.line(),
				StackDepth: vm.sp,
			}
			if !vm.observer.OnStep(event) {
				return object.Value{}, vm.runtimeError(nil, "execution halted by observer")
			}
		}

		// Dispatch the instruction
		switch code {
		case op.Return:
			result, err := vm.pop()
			if err != nil {
				return object.Value{}, err
			}
			if vm.observer != nil && vm.observe.ObserveReturns {
				event := ReturnEvent{Value: result, Line: vm.line(), Steps: vm.steps}
				if !vm.observer.OnReturn(event) {
					return object.Value{}, vm.runtimeError(nil, "execution halted by observer")
				}
			}
			fmt.Fprintln(vm.out, result)
			return result, nil
		case op.Constant:
			index, err := vm.chunk.Instruction(vm.ip + 1)
			if err != nil {
				return object.Value{}, vm.runtimeError(err, "%s is missing its operand", code)
			}
			value, err := vm.chunk.Constant(int(index))
			if err != nil {
				return object.Value{}, vm.runtimeError(err,
					"constant index %d out of range (pool has %d)", index, vm.chunk.ConstantCount())
			}
			if err := vm.push(value); err != nil {
				return object.Value{}, err
			}
		case op.Negate:
			value, err := vm.pop()
			if err != nil {
				return object.Value{}, err
			}
			if !value.IsNumber() {
				return object.Value{}, vm.runtimeError(nil, "operand must be a number (got %s)", value.Type())
			}
			if err := vm.push(object.Negate(value)); err != nil {
				return object.Value{}, err
			}
		case op.Add, op.Subtract, op.Multiply, op.Divide:
			// a is the operand pushed last.
			a, err := vm.pop()
			if err != nil {
				return object.Value{}, err
			}
			b, err := vm.pop()
			if err != nil {
				return object.Value{}, err
			}
			result, err := object.BinaryOp(code, a, b)
			if err != nil {
				return object.Value{}, vm.runtimeError(err, "%s", err)
			}
			if err := vm.push(result); err != nil {
				return object.Value{}, err
			}
		}
		vm.ip += op.Width(code)
	}
}

// TOS returns the value on top of the stack, if any.
func (vm *VirtualMachine) TOS() (object.Value, bool) {
	if vm.sp == 0 {
		return object.Value{}, false
	}
	return vm.stack[vm.sp-1], true
}

// Stack returns a copy of the occupied part of the stack, bottom first.
func (vm *VirtualMachine) Stack() []object.Value {
	out := make([]object.Value, vm.sp)
	copy(out, vm.stack[:vm.sp])
	return out
}

func (vm *VirtualMachine) pop() (object.Value, error) {
	if vm.sp == 0 {
		return object.Value{}, vm.runtimeError(errz.ErrStackUnderflow, "cannot pop from an empty stack")
	}
	vm.sp--
	obj := vm.stack[vm.sp]
	vm.stack[vm.sp] = object.Value{}
	return obj, nil
}

func (vm *VirtualMachine) push(obj object.Value) error {
	if vm.sp >= len(vm.stack) {
		return vm.runtimeError(errz.ErrStackOverflow, "stack capacity of %d exceeded", len(vm.stack))
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

func (vm *VirtualMachine) line() int {
	line, _ := vm.chunk.Line(vm.ip)
	return line
}

// runtimeError creates a StructuredError located at the current instruction.
func (vm *VirtualMachine) runtimeError(cause error, format string, args ...any) *errz.StructuredError {
	loc := errz.SourceLocation{Chunk: vm.chunk.Name(), Line: vm.line(), Offset: vm.ip}
	err := errz.NewStructuredErrorf(errz.ErrRuntime, loc, format, args...)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
