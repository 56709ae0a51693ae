package analyser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaam-lang/compiler/pkgs/diag"
	"github.com/saaam-lang/compiler/pkgs/parser"
)

func analyse(t *testing.T, src string) *diag.Sink {
	t.Helper()
	sink := diag.NewSink()
	prog, err := parser.Parse(src, sink)
	require.NoError(t, err)
	require.NotNil(t, prog)
	Analyse(prog, sink)
	return sink
}

func hasWarningContaining(sink *diag.Sink, substr string) bool {
	for _, w := range sink.Warnings() {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func TestAnalyseDuplicateDeclaration(t *testing.T) {
	sink := analyse(t, `var x = 1; var x = 2;`)
	assert.True(t, hasWarningContaining(sink, "already declared"))
}

func TestAnalyseUndeclaredUse(t *testing.T) {
	sink := analyse(t, `y = 1;`)
	assert.True(t, hasWarningContaining(sink, "used but not declared"))
}

func TestAnalyseUnusedDeclaration(t *testing.T) {
	sink := analyse(t, `var unused = 1;`)
	assert.True(t, hasWarningContaining(sink, "declared but never used"))
}

func TestAnalyseUsedDeclarationNotFlagged(t *testing.T) {
	sink := analyse(t, `var x = 1; var y = x;`)
	assert.False(t, hasWarningContaining(sink, `"x" declared but never used`))
}

func TestAnalyseIntrinsicIdentifierNeverFlagged(t *testing.T) {
	sink := analyse(t, `var d = delta_time; var v = position;`)
	assert.False(t, hasWarningContaining(sink, "used but not declared"))
}

func TestAnalyseFunctionParamsScopedToBody(t *testing.T) {
	sink := analyse(t, `function f(a, b) { return a + b; } f(1, 2);`)
	assert.False(t, hasWarningContaining(sink, "used but not declared"))
	assert.False(t, hasWarningContaining(sink, "declared but never used"))
}

func TestAnalyseUnusedParam(t *testing.T) {
	sink := analyse(t, `function f(a, unused) { return a; }`)
	assert.True(t, hasWarningContaining(sink, "unused"))
}

func TestAnalyseForwardReferenceToSiblingFunction(t *testing.T) {
	sink := analyse(t, `
		function main() { helper(); }
		function helper() { }
	`)
	assert.False(t, hasWarningContaining(sink, "used but not declared"))
}

func TestAnalyseArityWarningKeyboardCheck(t *testing.T) {
	sink := analyse(t, `keyboard_check();`)
	assert.True(t, hasWarningContaining(sink, "keyboard_check"))
}

func TestAnalyseArityWarningDrawSprite(t *testing.T) {
	sink := analyse(t, `draw_sprite("hero");`)
	var found bool
	for _, w := range sink.Warnings() {
		if w.Message == `"draw_sprite" called with 1 argument(s), expected at least 3` {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyseArityOKNoWarning(t *testing.T) {
	sink := analyse(t, `draw_sprite("hero", 1, 2);`)
	assert.False(t, hasWarningContaining(sink, "draw_sprite"))
}

func TestAnalyseDidYouMeanSuggestion(t *testing.T) {
	sink := analyse(t, `var playerSpeed = 1; var y = playerSped;`)
	assert.True(t, hasWarningContaining(sink, "did you mean"))
}
