package bytecode

import (
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/rlox/object"
	"github.com/fxamacker/cbor/v2"
)

// FormatVersion is written into serialized chunks and checked on load.
const FormatVersion = 1

// Marshal converts a Chunk into its JSON representation.
func Marshal(chunk *Chunk) ([]byte, error) {
	return json.Marshal(stateFromChunk(chunk))
}

// Unmarshal converts a JSON representation into a Chunk.
func Unmarshal(data []byte) (*Chunk, error) {
	var state chunkState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return chunkFromState(&state)
}

// MarshalCBOR converts a Chunk into its compact binary representation.
func MarshalCBOR(chunk *Chunk) ([]byte, error) {
	return cbor.Marshal(stateFromChunk(chunk))
}

// UnmarshalCBOR converts a binary representation into a Chunk.
func UnmarshalCBOR(data []byte) (*Chunk, error) {
	var state chunkState
	if err := cbor.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return chunkFromState(&state)
}

// Serialization types

// byteList is written to JSON as an array of numbers rather than base64 so
// that chunk files stay readable.
type byteList []byte

func (b byteList) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

func (b *byteList) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make(byteList, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("code byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

type chunkState struct {
	Version   int                 `json:"version" cbor:"1,keyasint"`
	Name      string              `json:"name,omitempty" cbor:"2,keyasint,omitempty"`
	Code      byteList            `json:"code" cbor:"3,keyasint"`
	Lines     []int               `json:"lines" cbor:"4,keyasint"`
	Constants []object.ValueState `json:"constants" cbor:"5,keyasint"`
}

func stateFromChunk(chunk *Chunk) *chunkState {
	constants := chunk.Constants()
	states := make([]object.ValueState, len(constants))
	for i, c := range constants {
		states[i] = c.State()
	}
	return &chunkState{
		Version:   FormatVersion,
		Name:      chunk.Name(),
		Code:      chunk.Code(),
		Lines:     chunk.Lines(),
		Constants: states,
	}
}

func chunkFromState(state *chunkState) (*Chunk, error) {
	if state.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported chunk format version %d", state.Version)
	}
	if len(state.Code) != len(state.Lines) {
		return nil, fmt.Errorf("chunk has %d code bytes but %d line entries",
			len(state.Code), len(state.Lines))
	}
	chunk := NewChunk(state.Name)
	for i, s := range state.Constants {
		v, err := object.FromState(s)
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		if _, err := chunk.AddConstant(v); err != nil {
			return nil, err
		}
	}
	for i, b := range state.Code {
		chunk.Write(b, state.Lines[i])
	}
	return chunk, nil
}
