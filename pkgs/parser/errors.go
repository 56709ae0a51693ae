package parser

import "github.com/pkg/errors"

// errSyntax is returned by parse functions to signal a recorded, recoverable
// syntax error; the diagnostic itself is already in the sink by the time
// this is returned, so the error value only carries control flow.
var errSyntax = errors.New("syntax error")

// ErrUnexpectedEOF signals the one fatal parse condition spec.md §4.3
// names: end of input reached before a block's closing '}'. It propagates
// past every enclosing construct up to Parse, aborting the compile instead
// of resyncing at a statement boundary.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

func isFatal(err error) bool {
	return errors.Is(err, ErrUnexpectedEOF)
}
