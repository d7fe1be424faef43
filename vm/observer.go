package vm

import (
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	// Use for: detailed tracing, instruction-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: observers that only need Return events.
	StepNone

	// StepSampled calls OnStep every N instructions.
	// Use for: statistical profiling.
	StepSampled

	// StepOnLine calls OnStep when the source line changes.
	// Use for: coverage tools, line-level debugging.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveReturns enables OnReturn callbacks.
	ObserveReturns bool
}

// NewObserverConfig creates a config with safe defaults.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveReturns: true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution events.
// Implementations can embed NoOpObserver and override what they need.
//
// Observer methods are called synchronously from the run loop; they see
// the machine state before the instruction executes.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once per Interpret call.
	Config() ObserverConfig

	// OnStep is called based on the StepMode in the observer's config.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnReturn is called when the chunk returns its result.
	// Returns false to discard the result and report a halt.
	OnReturn(event ReturnEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IP is the offset of the instruction about to execute.
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Line is the source line recorded for the instruction.
	Line int

	// StackDepth is the current depth of the value stack.
	StackDepth int
}

// ReturnEvent contains information about the chunk's result.
type ReturnEvent struct {
	Value object.Value
	Line  int
	Steps int
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// stepFilter decides which steps reach the observer.
type stepFilter struct {
	cfg      ObserverConfig
	count    int
	lastLine int
	started  bool
}

func newStepFilter(cfg ObserverConfig) *stepFilter {
	return &stepFilter{cfg: NormalizeConfig(cfg)}
}

func (f *stepFilter) want(line int) bool {
	f.count++
	switch f.cfg.StepMode {
	case StepAll:
		return true
	case StepSampled:
		return f.count%f.cfg.SampleInterval == 0
	case StepOnLine:
		changed := !f.started || line != f.lastLine
		f.started = true
		f.lastLine = line
		return changed
	default:
		return false
	}
}
