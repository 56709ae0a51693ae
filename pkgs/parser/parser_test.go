package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaam-lang/compiler/pkgs/ast"
	"github.com/saaam-lang/compiler/pkgs/diag"
)

func mustParse(t *testing.T, src string) (*ast.Program, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	prog, err := Parse(src, sink)
	require.NoError(t, err)
	require.NotNil(t, prog)
	return prog, sink
}

func TestParseVarDeclBindingForms(t *testing.T) {
	prog, sink := mustParse(t, `var a = 1; const b = 2; let c = 3;`)
	require.False(t, sink.HasErrors())
	require.Len(t, prog.Body, 3)

	want := []ast.BindingForm{ast.Mutable, ast.Immutable, ast.Lexical}
	for i, stmt := range prog.Body {
		vd, ok := stmt.(*ast.VarDecl)
		require.True(t, ok, "statement %d is %T", i, stmt)
		assert.Equal(t, want[i], vd.Binding)
	}
}

func TestParseFuncDeclAndLifecycleLint(t *testing.T) {
	prog, sink := mustParse(t, `
		function create(){ }
		function step(dt){ }
		function draw(ctx){ }
	`)
	require.False(t, sink.HasErrors())
	require.Len(t, prog.Body, 3)

	names := []string{"create", "step", "draw"}
	for i, stmt := range prog.Body {
		fd, ok := stmt.(*ast.FuncDecl)
		require.True(t, ok)
		assert.Equal(t, names[i], fd.Name)
	}

	// No warning for step/draw since both have a parameter.
	for _, w := range sink.Warnings() {
		assert.NotContains(t, w.Message, "time-delta")
		assert.NotContains(t, w.Message, "drawing-context")
	}
}

func TestParseLifecycleParameterLintFires(t *testing.T) {
	_, sink := mustParse(t, `function step(){ } function draw(){ }`)
	var sawStep, sawDraw bool
	for _, w := range sink.Warnings() {
		if w.Message == "'step' should accept a time-delta parameter" {
			sawStep = true
		}
		if w.Message == "'draw' should accept a drawing-context parameter" {
			sawDraw = true
		}
	}
	assert.True(t, sawStep)
	assert.True(t, sawDraw)
}

func TestParsePrecedenceLadder(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3).
	prog, sink := mustParse(t, `var x = 1 + 2 * 3;`)
	require.False(t, sink.HasErrors())
	vd := prog.Body[0].(*ast.VarDecl)
	bin, ok := vd.Init.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", rhs.Op)
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	prog, sink := mustParse(t, `var x; var y; x = y = 1;`)
	require.False(t, sink.HasErrors())
	es := prog.Body[2].(*ast.ExprStmt)
	assign, ok := es.Expr.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "=", assign.Op)
	_, rightIsAssign := assign.Right.(*ast.Assign)
	assert.True(t, rightIsAssign, "assignment must be right-associative")
}

func TestParseCallMemberChain(t *testing.T) {
	prog, sink := mustParse(t, `a.b.c(1)[2];`)
	require.False(t, sink.HasErrors())
	es := prog.Body[0].(*ast.ExprStmt)
	member, ok := es.Expr.(*ast.Member)
	require.True(t, ok)
	assert.True(t, member.Computed)
	call, ok := member.Object.(*ast.Call)
	require.True(t, ok)
	assert.Len(t, call.Args, 1)
}

func TestParseObjectLiteralShorthand(t *testing.T) {
	explicit, sink1 := mustParse(t, `var o = {x: x};`)
	shorthand, sink2 := mustParse(t, `var o = {x};`)
	require.False(t, sink1.HasErrors())
	require.False(t, sink2.HasErrors())

	normalize := func(p *ast.Program) *ast.ObjectLit {
		vd := p.Body[0].(*ast.VarDecl)
		return vd.Init.(*ast.ObjectLit)
	}
	// Structural equality modulo position (spec.md §8 property 5).
	a, b := normalize(explicit), normalize(shorthand)
	a.Base, b.Base = ast.Base{}, ast.Base{}
	for i := range a.Properties {
		a.Properties[i].Key.(*ast.Identifier).Base = ast.Base{}
		a.Properties[i].Value.(*ast.Identifier).Base = ast.Base{}
		b.Properties[i].Key.(*ast.Identifier).Base = ast.Base{}
		b.Properties[i].Value.(*ast.Identifier).Base = ast.Base{}
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("shorthand object literal differs from explicit form (-explicit +shorthand):\n%s", diff)
	}
}

func TestParseObjectLiteralMissingCommaWarns(t *testing.T) {
	_, sink := mustParse(t, `var o = {a: 1 b: 2};`)
	var found bool
	for _, w := range sink.Warnings() {
		if w.Message == "missing comma between object literal properties" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseArrayLiteralHoles(t *testing.T) {
	prog, sink := mustParse(t, `var a = [1, , 3];`)
	require.False(t, sink.HasErrors())
	vd := prog.Body[0].(*ast.VarDecl)
	arr := vd.Init.(*ast.ArrayLit)
	require.Len(t, arr.Elements, 3)
	assert.Nil(t, arr.Elements[1])
}

func TestParseVecLiterals(t *testing.T) {
	prog, sink := mustParse(t, `var p = vec2(1, 2+3); var q = vec3(1,2,3);`)
	require.False(t, sink.HasErrors())
	v2 := prog.Body[0].(*ast.VarDecl).Init.(*ast.Vec2Lit)
	assert.NotNil(t, v2.X)
	assert.NotNil(t, v2.Y)
	v3 := prog.Body[1].(*ast.VarDecl).Init.(*ast.Vec3Lit)
	assert.NotNil(t, v3.Z)
}

func TestParseForSynthesisesTrueCondition(t *testing.T) {
	prog, sink := mustParse(t, `for(;;){ }`)
	require.False(t, sink.HasErrors())
	f := prog.Body[0].(*ast.For)
	require.NotNil(t, f.Condition)
	lit, ok := f.Condition.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.BoolLit, lit.Kind)
	assert.Equal(t, "true", lit.Value)
}

func TestParseSemicolonToleranceWarnsOnly(t *testing.T) {
	prog, sink := mustParse(t, "var a = 1\nvar b = 2;")
	require.False(t, sink.HasErrors())
	require.Len(t, prog.Body, 2)
	var sawWarning bool
	for _, w := range sink.Warnings() {
		if w.Message == "missing semicolon" {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning)
}

func TestParseResyncAfterSyntaxError(t *testing.T) {
	// A well-formed statement, a broken one, then another well-formed one.
	sink := diag.NewSink()
	prog, err := Parse(`var a = 1; var b = ; var c = 3;`, sink)
	require.NoError(t, err) // non-fatal: resync, not abort
	require.NotEmpty(t, sink.Errors())

	var names []string
	for _, stmt := range prog.Body {
		if vd, ok := stmt.(*ast.VarDecl); ok {
			names = append(names, vd.Name)
		}
	}
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "c")
}

func TestParseResyncStopsAtNextStatementNotItsTerminator(t *testing.T) {
	// The stray ")" is not itself followed by a natural ";"/"}" boundary
	// before the next statement's own keyword; synchronize must stop at
	// "var", not scan through to c's own trailing semicolon.
	sink := diag.NewSink()
	prog, err := Parse(`var a = 1; ) var c = 3;`, sink)
	require.NoError(t, err)
	require.NotEmpty(t, sink.Errors())

	var names []string
	for _, stmt := range prog.Body {
		if vd, ok := stmt.(*ast.VarDecl); ok {
			names = append(names, vd.Name)
		}
	}
	assert.Equal(t, []string{"a", "c"}, names)
}

func TestParseUnterminatedBlockIsFatal(t *testing.T) {
	sink := diag.NewSink()
	prog, err := Parse(`function f(){ var x = 1`, sink)
	require.Error(t, err)
	assert.True(t, isFatal(err))
	assert.Nil(t, prog)
	require.NotEmpty(t, sink.Errors())
}

func TestParseDoWhile(t *testing.T) {
	prog, sink := mustParse(t, `do { x = x + 1; } while (x < 10);`)
	require.False(t, sink.HasErrors())
	dw, ok := prog.Body[0].(*ast.DoWhile)
	require.True(t, ok)
	assert.NotNil(t, dw.Cond)
}

func TestParseSwitch(t *testing.T) {
	prog, sink := mustParse(t, `
		switch (x) {
			case 1:
				y = 1;
			default:
				y = 2;
		}
	`)
	require.False(t, sink.HasErrors())
	sw := prog.Body[0].(*ast.Switch)
	require.Len(t, sw.Cases, 2)
	assert.NotNil(t, sw.Cases[0].Test)
	assert.Nil(t, sw.Cases[1].Test)
}

func TestParseDomainKeywordAsDeclarationName(t *testing.T) {
	// Lifecycle names lex as DOMAIN_KEYWORD but must still work as
	// function/variable/parameter names (spec.md §9 "yield" note
	// generalised to the whole domain-keyword class).
	prog, sink := mustParse(t, `function create(step){ }`)
	require.False(t, sink.HasErrors())
	fd := prog.Body[0].(*ast.FuncDecl)
	assert.Equal(t, "create", fd.Name)
	assert.Equal(t, []string{"step"}, fd.Params)
}

func TestParseIntrinsicIdentifierFlag(t *testing.T) {
	prog, sink := mustParse(t, `var v = keyboard_check(vk_space);`)
	require.False(t, sink.HasErrors())
	vd := prog.Body[0].(*ast.VarDecl)
	call := vd.Init.(*ast.Call)
	callee := call.Callee.(*ast.Identifier)
	assert.True(t, callee.IsIntrinsic)
	arg := call.Args[0].(*ast.Identifier)
	assert.True(t, arg.IsIntrinsic)
}

func TestParsePositionsAreFirstToken(t *testing.T) {
	prog, sink := mustParse(t, `  var a = 1;`)
	require.False(t, sink.HasErrors())
	vd := prog.Body[0].(*ast.VarDecl)
	assert.Equal(t, 2, vd.Position())
}
