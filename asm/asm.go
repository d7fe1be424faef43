package asm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/errz"
	"github.com/deepnoodle-ai/rlox/object"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/hashicorp/go-multierror"
)

// Assemble reads assembly from r and returns the resulting chunk, named
// after name.
//
// Every problem found in the source is reported. The returned error, if not
// nil, is a *multierror.Error whose entries are *errz.StructuredError values
// of kind errz.ErrCompile, located at the offending assembly line.
func Assemble(name string, r io.Reader) (*bytecode.Chunk, error) {
	p := newParser(name)
	if err := p.parse(r); err != nil {
		return nil, err
	}
	return p.chunk, nil
}

// AssembleString is like Assemble but reads from a string.
func AssembleString(name, source string) (*bytecode.Chunk, error) {
	return Assemble(name, strings.NewReader(source))
}

type parser struct {
	name     string
	chunk    *bytecode.Chunk
	lineno   int    // current assembly line
	source   string // text of the current assembly line
	override *int   // line set by .line
	errs     *multierror.Error
}

func newParser(name string) *parser {
	return &parser{name: name, chunk: bytecode.NewChunk(name)}
}

func (p *parser) parse(r io.Reader) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		p.lineno++
		p.source = strings.TrimSpace(s.Text())
		text := p.source
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, stmt := range strings.Split(text, ";") {
			if fields := strings.Fields(stmt); len(fields) > 0 {
				p.statement(fields)
			}
		}
	}
	if err := s.Err(); err != nil {
		p.errorf(err, "read error: %s", err)
	}
	return p.errs.ErrorOrNil()
}

// line returns the source line recorded for emitted bytes.
func (p *parser) line() int {
	if p.override != nil {
		return *p.override
	}
	return p.lineno
}

func (p *parser) statement(fields []string) {
	word, args := fields[0], fields[1:]
	if strings.HasPrefix(word, ".") {
		p.directive(word, args)
		return
	}
	code, ok := op.Lookup(word)
	if !ok {
		p.errorf(nil, "unknown instruction %q", word)
		return
	}
	info, _ := op.GetInfo(code)
	if len(args) != info.OperandCount {
		p.errorf(nil, "%s expects %d operand(s), got %d", strings.ToLower(word), info.OperandCount, len(args))
		return
	}
	switch code {
	case op.Constant:
		if strings.HasPrefix(args[0], "#") {
			p.loadSlot(args[0])
			return
		}
		v, ok := p.number(args[0])
		if !ok {
			return
		}
		if err := p.chunk.EmitConstant(v, p.line()); err != nil {
			p.errorf(err, "%s", err)
		}
	default:
		p.chunk.WriteOp(code, p.line())
	}
}

func (p *parser) directive(word string, args []string) {
	switch strings.ToLower(word) {
	case ".line":
		if len(args) != 1 {
			p.errorf(nil, ".line expects 1 operand, got %d", len(args))
			return
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			p.errorf(err, "invalid line number %q", args[0])
			return
		}
		p.override = &n
	case ".const":
		if len(args) != 1 {
			p.errorf(nil, ".const expects 1 operand, got %d", len(args))
			return
		}
		v, ok := p.number(args[0])
		if !ok {
			return
		}
		if _, err := p.chunk.AddConstant(v); err != nil {
			p.errorf(err, "%s", err)
		}
	default:
		p.errorf(nil, "unknown directive %q", word)
	}
}

func (p *parser) number(text string) (object.Value, bool) {
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.errorf(err, "invalid number %q", text)
		return object.Value{}, false
	}
	return object.NewNumber(n), true
}

// loadSlot emits a Constant instruction for a pool slot written as #index.
// The slot must already have been added with .const or an earlier constant.
func (p *parser) loadSlot(text string) {
	index, err := strconv.Atoi(text[1:])
	if err != nil || index < 0 {
		p.errorf(err, "invalid constant slot %q", text)
		return
	}
	if index >= p.chunk.ConstantCount() {
		p.errorf(nil, "constant slot %d out of range (pool has %d)", index, p.chunk.ConstantCount())
		return
	}
	p.chunk.WriteOp(op.Constant, p.line())
	p.chunk.Write(byte(index), p.line())
}

func (p *parser) errorf(cause error, format string, args ...any) {
	loc := errz.SourceLocation{Chunk: p.name, Line: p.lineno, Offset: -1, Source: p.source}
	err := errz.NewStructuredErrorf(errz.ErrCompile, loc, format, args...)
	if cause != nil {
		err = err.WithCause(cause)
	}
	p.errs = multierror.Append(p.errs, err)
}
