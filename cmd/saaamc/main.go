// Command saaamc compiles a single SAAAM source file and prints either the
// emitted target text or a diagnostic report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saaam-lang/compiler/pkgs/compiler"
)

// Exit code constants.
const (
	exitSuccess          = 0
	exitInvalidArguments = 1
	exitIOError          = 2
	exitCompileError     = 3
)

func main() {
	var debug bool
	var outPath string

	rootCmd := &cobra.Command{
		Use:           "saaamc <source-file>",
		Short:         "Compile a SAAAM source file to target text",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], outPath, debug)
		},
	}
	rootCmd.Flags().BoolVar(&debug, "debug", false, "trace pipeline stages to stderr")
	rootCmd.Flags().StringVar(&outPath, "out", "", "write emitted output to this file instead of stdout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitFor(err))
	}
}

// exitCodeError carries the process exit code alongside the error message
// main prints, so main can distinguish argument/IO failures from compile
// failures without re-parsing the error text.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }

func exitFor(err error) int {
	if ece, ok := err.(*exitCodeError); ok {
		return ece.code
	}
	return exitInvalidArguments
}

func run(path, outPath string, debug bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &exitCodeError{code: exitIOError, err: fmt.Errorf("reading %s: %w", path, err)}
	}

	var opts []compiler.Option
	if debug {
		opts = append(opts, compiler.WithTrace(func(stage string) {
			fmt.Fprintf(os.Stderr, "[saaamc] %s\n", stage)
		}))
	}

	result := compiler.Compile(string(content), opts...)

	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, w.Render(string(content)))
	}
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, e.Render(string(content)))
	}

	if !result.Success {
		return &exitCodeError{code: exitCompileError, err: fmt.Errorf("compilation failed with %d error(s)", countErrors(result))}
	}

	if outPath == "" {
		fmt.Print(result.Output)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(result.Output), 0o644); err != nil {
		return &exitCodeError{code: exitIOError, err: fmt.Errorf("writing %s: %w", outPath, err)}
	}
	return nil
}

func countErrors(r compiler.Result) int {
	return len(r.Errors)
}
