package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/rlox/asm"
	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/errz"
)

// File extensions recognized by loadChunk and saveChunk.
const (
	extAssembly = ".rlasm"
	extJSON     = ".json"
	extCBOR     = ".rloxc"
)

// loadChunk reads a chunk from path, choosing the decoder by extension.
// Unknown extensions are treated as assembly; "-" reads assembly from stdin.
func loadChunk(path string, stdin io.Reader) (*bytecode.Chunk, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &ioError{err: err}
	}
	return decodeChunk(path, data)
}

func decodeChunk(path string, data []byte) (*bytecode.Chunk, error) {
	var chunk *bytecode.Chunk
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case extJSON:
		chunk, err = bytecode.Unmarshal(data)
	case extCBOR:
		chunk, err = bytecode.UnmarshalCBOR(data)
	default:
		return asm.Assemble(chunkName(path), bytes.NewReader(data))
	}
	if err != nil {
		loc := errz.SourceLocation{Chunk: path, Offset: -1}
		return nil, errz.NewStructuredErrorf(errz.ErrCompile, loc, "invalid chunk: %s", err).WithCause(err)
	}
	return chunk, nil
}

// saveChunk encodes chunk according to the extension of path and writes it.
func saveChunk(path string, chunk *bytecode.Chunk) error {
	data, err := encodeChunk(path, chunk)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ioError{err: err}
	}
	return nil
}

func encodeChunk(path string, chunk *bytecode.Chunk) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extJSON:
		return bytecode.Marshal(chunk)
	case extCBOR:
		return bytecode.MarshalCBOR(chunk)
	default:
		var buf bytes.Buffer
		if err := asm.Format(&buf, chunk); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// chunkName derives a chunk name from a file path.
func chunkName(path string) string {
	if path == "-" || path == "" {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
