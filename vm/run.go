package vm

import (
	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/object"
)

// Run the given chunk in a new Virtual Machine and return the result.
func Run(chunk *bytecode.Chunk, options ...Option) (object.Value, error) {
	return New(options...).Interpret(chunk)
}
