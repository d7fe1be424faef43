package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/rlox/asm"
	"github.com/deepnoodle-ai/rlox/bytecode"
	"github.com/deepnoodle-ai/rlox/dis"
	"github.com/deepnoodle-ai/rlox/op"
	"github.com/deepnoodle-ai/rlox/vm"
)

const (
	historyFile = ".rlox_history"
	promptMain  = "rlox> "
)

const replHelp = `Enter assembly, e.g. "constant 1; constant 2; add".
A return is appended when the line does not end with one.
Commands:
  :dis     toggle disassembly of each entered chunk
  :trace   toggle execution tracing
  :help    show this help
  :quit    exit the REPL
`

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive assembly REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd)
		},
	}
}

// replSession holds the state shared by the lines of one REPL session.
type replSession struct {
	out     io.Writer
	errOut  io.Writer
	machine *vm.VirtualMachine
	trace   bool
	dis     bool
	count   int
}

func newReplSession(cmd *cobra.Command) *replSession {
	s := &replSession{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		trace:  traceEnabled(),
	}
	s.reset(cmd)
	return s
}

func (s *replSession) reset(cmd *cobra.Command) {
	opts := getVMOptions(s.out, newLogger(cmd.ErrOrStderr()))
	opts = append(opts, vm.WithTrace(s.trace))
	s.machine = vm.New(opts...)
}

func runRepl(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "rlox %s. Type :help for commands.\n", version)

	var histPath string
	if home, err := homedir.Dir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		if _, ok := <-sigc; ok {
			ln.Close()
			os.Exit(130)
		}
	}()

	session := newReplSession(cmd)
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}
		if err != nil {
			return &ioError{err: err}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if !session.handle(cmd, line) {
			return nil
		}
	}
}

// handle processes one line of input and reports whether the session should
// continue.
func (s *replSession) handle(cmd *cobra.Command, line string) bool {
	input := strings.TrimSpace(line)
	if strings.HasPrefix(input, ":") {
		switch strings.ToLower(input) {
		case ":quit", ":q", ":exit":
			return false
		case ":help":
			fmt.Fprint(s.out, replHelp)
		case ":dis":
			s.dis = !s.dis
			fmt.Fprintf(s.out, "disassembly %s\n", onOff(s.dis))
		case ":trace":
			s.trace = !s.trace
			s.reset(cmd)
			fmt.Fprintf(s.out, "trace %s\n", onOff(s.trace))
		default:
			fmt.Fprintf(s.errOut, "unknown command %s. Type :help for commands.\n", input)
		}
		return true
	}
	if err := s.eval(input); err != nil {
		fmt.Fprint(s.errOut, red(errorText(err)))
	}
	return true
}

// eval assembles and interprets one line.
func (s *replSession) eval(input string) error {
	s.count++
	chunk, err := asm.AssembleString(fmt.Sprintf("repl-%d", s.count), input)
	if err != nil {
		return err
	}
	defer chunk.Free()
	ensureReturn(chunk)
	if s.dis {
		printer := &dis.Printer{Writer: s.out, Color: useColor()}
		printer.Disassemble(chunk, chunk.Name())
	}
	_, err = s.machine.Interpret(chunk)
	return err
}

// ensureReturn appends a Return unless the last instruction already is one.
func ensureReturn(chunk *bytecode.Chunk) {
	instructions := dis.Instructions(chunk)
	line := 1
	if n := len(instructions); n > 0 {
		last := instructions[n-1]
		if last.Error == "" && last.Opcode == op.Return {
			return
		}
		line = last.Line
	}
	chunk.WriteOp(op.Return, line)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
