// Package compiler exposes the public compile entry point (spec.md §4.6):
// the facade wiring the lexer, parser, analyser, and emitter together
// behind a single pure function of the source string.
package compiler

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/saaam-lang/compiler/pkgs/analyser"
	"github.com/saaam-lang/compiler/pkgs/ast"
	"github.com/saaam-lang/compiler/pkgs/diag"
	"github.com/saaam-lang/compiler/pkgs/emitter"
	"github.com/saaam-lang/compiler/pkgs/parser"
)

// Result is the structured outcome of a compile (spec.md §4.6).
type Result struct {
	Success  bool
	Output   string // valid target text iff Success; a comment-only diagnostic header otherwise
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
	AST      *ast.Program // nil iff the parse aborted fatally
}

// Option configures a single Compile call.
type Option func(*options)

type options struct {
	traceHook TraceFunc
}

// WithTrace enables a best-effort debug trace of which pipeline stage is
// currently running, written through the TraceFunc hook. The hook is held
// on this call's own options value, never in package state, so concurrent
// Compile calls with different hooks never race with one another.
func WithTrace(fn TraceFunc) Option {
	return func(o *options) {
		o.traceHook = fn
	}
}

// TraceFunc receives one call per pipeline stage entered, for callers that
// want visibility into compile progress (e.g. a CLI's --debug flag).
type TraceFunc func(stage string)

func trace(o *options, stage string) {
	if o.traceHook != nil {
		o.traceHook(stage)
	}
}

// Compile runs the full pipeline over source: lex, parse (catching the
// one fatal parse-abort condition), analyse, and — only if no ERROR
// diagnostic was recorded — emit. It is a pure function of source: the
// same input always produces the same Result (spec.md §5).
//
// Every stage is expected to handle its own malformed input as a
// diagnostic, never a panic; Compile recovers around compileStages anyway,
// so a bug that slips past that discipline (an unreachable type-switch case
// hit by a future grammar addition, say) degrades to a failed Result whose
// output names the panic as an internal compiler error, instead of taking
// the caller's process down with it. Only the error's message reaches the
// Result; the stack recorded by errors.WithStack is not included.
func Compile(source string, opts ...Option) (result Result) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	defer func() {
		if r := recover(); r != nil {
			err := errors.WithStack(fmt.Errorf("internal compiler error: %v", r))
			result = Result{Success: false, Output: emitter.FailureOutput([]string{err.Error()})}
		}
	}()

	return compileStages(source, o)
}

func compileStages(source string, o *options) Result {
	sink := diag.NewSink()

	trace(o, "lex+parse")
	prog, err := parser.Parse(source, sink)
	if err != nil {
		// The one fatal condition: unexpected EOF inside a block. Emission
		// is skipped entirely; the AST root is null per spec.md §3's
		// success invariant.
		return assemble(false, emitter.FailureOutput(messagesOf(sink.Errors())), sink, nil)
	}

	trace(o, "analyse")
	analyser.Analyse(prog, sink)

	if sink.HasErrors() {
		return assemble(false, emitter.FailureOutput(messagesOf(sink.Errors())), sink, prog)
	}

	trace(o, "emit")
	output := emitter.Emit(prog, sink)
	return assemble(true, output, sink, prog)
}

func assemble(success bool, output string, sink *diag.Sink, prog *ast.Program) Result {
	return Result{
		Success:  success,
		Output:   output,
		Errors:   sink.Errors(),
		Warnings: sink.Warnings(),
		AST:      prog,
	}
}

func messagesOf(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}
