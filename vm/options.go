package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithStackSize sets the capacity of the operand stack. Values below 1 are
// ignored. The default is DefaultStackSize.
func WithStackSize(size int) Option {
	return func(vm *VirtualMachine) {
		if size > 0 {
			vm.stackSize = size
		}
	}
}

// WithTrace enables printing the stack and the instruction about to run
// before every step. Tracing has no effect on results.
func WithTrace(enabled bool) Option {
	return func(vm *VirtualMachine) {
		vm.trace = enabled
	}
}

// WithOutput sets where the value produced by Return is printed. The
// default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.out = w
	}
}

// WithTraceOutput sets where trace output is written. The default is the
// same writer as WithOutput.
func WithTraceOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.traceOut = w
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithLogger sets the logger used for debug-level run diagnostics. The
// default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}
