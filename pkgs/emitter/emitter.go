// Package emitter re-emits an analysed AST as target-language text
// (spec.md §4.5): a pure syntax-directed translation with no further
// analysis, rewriting intrinsic identifiers through the fixed table and
// appending the lifecycle-registration epilogue.
package emitter

import (
	"fmt"
	"strings"

	"github.com/saaam-lang/compiler/pkgs/ast"
	"github.com/saaam-lang/compiler/pkgs/diag"
	"github.com/saaam-lang/compiler/pkgs/intrinsics"
)

const indentUnit = "  "

// printer accumulates emitted text with the teacher's strings.Builder
// convention, tracking indentation depth for block bodies.
type printer struct {
	buf   strings.Builder
	depth int
	sink  *diag.Sink
}

func (p *printer) indent() {
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(indentUnit)
	}
}

func (p *printer) writeLine(s string) {
	p.indent()
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

// Emit re-emits prog as target text, wrapped in a function scope that
// receives the host namespace H, followed by the lifecycle-registration
// epilogue for whichever of create/step/draw/on_collision were declared
// at top level (spec.md §4.5). Emit never fails: an AST kind it does not
// recognise prints a commented placeholder rather than panicking.
func Emit(prog *ast.Program, sink *diag.Sink) string {
	p := &printer{sink: sink}
	p.writeLine("function(H) {")
	p.depth++
	for _, stmt := range prog.Body {
		p.emitStmt(stmt)
	}
	for _, name := range []string{"create", "step", "draw", "on_collision"} {
		if declaresLifecycle(prog, name) {
			p.writeLine(fmt.Sprintf("H.%s(%s);", intrinsics.LifecycleFunctions[name], name))
		}
	}
	p.depth--
	p.writeLine("}")
	return p.buf.String()
}

// FailureOutput produces the diagnostic-only text the facade substitutes
// for output when compilation failed (spec.md §4.5 "On compilation
// failure"): a comment header listing every error message, no executable
// code.
func FailureOutput(errorMessages []string) string {
	var b strings.Builder
	b.WriteString("// compilation failed:\n")
	for _, msg := range errorMessages {
		b.WriteString("// - ")
		b.WriteString(msg)
		b.WriteByte('\n')
	}
	return b.String()
}

func declaresLifecycle(prog *ast.Program, name string) bool {
	for _, stmt := range prog.Body {
		if fd, ok := stmt.(*ast.FuncDecl); ok && fd.Name == name {
			return true
		}
	}
	return false
}

// ---- statements ----

func (p *printer) emitStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		p.emitVarDecl(s)
	case *ast.FuncDecl:
		p.emitFuncDecl(s)
	case *ast.Block:
		p.emitBlock(s)
	case *ast.If:
		p.emitIf(s)
	case *ast.For:
		p.emitFor(s)
	case *ast.While:
		p.emitWhile(s)
	case *ast.DoWhile:
		p.emitDoWhile(s)
	case *ast.Switch:
		p.emitSwitch(s)
	case *ast.Return:
		if s.Value != nil {
			p.writeLine("return " + p.expr(s.Value) + ";")
		} else {
			p.writeLine("return;")
		}
	case *ast.Break:
		p.writeLine("break;")
	case *ast.Continue:
		p.writeLine("continue;")
	case *ast.Empty:
		p.writeLine(";")
	case *ast.ExprStmt:
		p.writeLine(p.expr(s.Expr) + ";")
	default:
		p.sink.Warn(s.Position(), "unknown statement kind %T", s)
		p.writeLine(fmt.Sprintf("// unknown statement kind %T", s))
	}
}

func bindingKeyword(b ast.BindingForm) string {
	switch b {
	case ast.Immutable:
		return "const"
	case ast.Lexical:
		return "let"
	default:
		return "var"
	}
}

func (p *printer) emitVarDecl(s *ast.VarDecl) {
	line := bindingKeyword(s.Binding) + " " + s.Name
	if s.Init != nil {
		line += " = " + p.expr(s.Init)
	}
	p.writeLine(line + ";")
}

func (p *printer) emitFuncDecl(s *ast.FuncDecl) {
	p.writeLine(fmt.Sprintf("function %s(%s) {", s.Name, strings.Join(s.Params, ", ")))
	p.depth++
	for _, stmt := range s.Body.Body {
		p.emitStmt(stmt)
	}
	p.depth--
	p.writeLine("}")
}

func (p *printer) emitBlock(b *ast.Block) {
	p.writeLine("{")
	p.depth++
	for _, stmt := range b.Body {
		p.emitStmt(stmt)
	}
	p.depth--
	p.writeLine("}")
}

func (p *printer) emitIf(s *ast.If) {
	p.writeLine("if (" + p.expr(s.Cond) + ") {")
	p.depth++
	p.emitStmt(s.Then)
	p.depth--
	if s.Else != nil {
		p.writeLine("} else {")
		p.depth++
		p.emitStmt(s.Else)
		p.depth--
	}
	p.writeLine("}")
}

func (p *printer) emitFor(s *ast.For) {
	init := ""
	if s.Init != nil {
		init = strings.TrimSuffix(p.exprStmtText(s.Init), ";")
	}
	update := ""
	if s.Update != nil {
		update = p.expr(s.Update)
	}
	p.writeLine(fmt.Sprintf("for (%s; %s; %s) {", init, p.expr(s.Condition), update))
	p.depth++
	p.emitStmt(s.Body)
	p.depth--
	p.writeLine("}")
}

// exprStmtText renders a for-loop initializer clause (a VarDecl or
// ExprStmt) without its own trailing newline, for inlining into the
// `for (...)` header.
func (p *printer) exprStmtText(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		line := bindingKeyword(s.Binding) + " " + s.Name
		if s.Init != nil {
			line += " = " + p.expr(s.Init)
		}
		return line + ";"
	case *ast.ExprStmt:
		return p.expr(s.Expr) + ";"
	default:
		return ""
	}
}

func (p *printer) emitWhile(s *ast.While) {
	p.writeLine("while (" + p.expr(s.Cond) + ") {")
	p.depth++
	p.emitStmt(s.Body)
	p.depth--
	p.writeLine("}")
}

func (p *printer) emitDoWhile(s *ast.DoWhile) {
	p.writeLine("do {")
	p.depth++
	p.emitStmt(s.Body)
	p.depth--
	p.writeLine("} while (" + p.expr(s.Cond) + ");")
}

func (p *printer) emitSwitch(s *ast.Switch) {
	p.writeLine("switch (" + p.expr(s.Discriminant) + ") {")
	p.depth++
	for _, c := range s.Cases {
		if c.Test != nil {
			p.writeLine("case " + p.expr(c.Test) + ":")
		} else {
			p.writeLine("default:")
		}
		p.depth++
		for _, stmt := range c.Body {
			p.emitStmt(stmt)
		}
		p.depth--
	}
	p.depth--
	p.writeLine("}")
}

// ---- expressions ----

func (p *printer) expr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Assign:
		return p.expr(n.Left) + " " + n.Op + " " + p.expr(n.Right)
	case *ast.Binary:
		return p.expr(n.Left) + " " + n.Op + " " + p.expr(n.Right)
	case *ast.Unary:
		return n.Op + p.expr(n.Operand)
	case *ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = p.expr(a)
		}
		return p.expr(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.Member:
		if n.Computed {
			return p.expr(n.Object) + "[" + p.expr(n.Property) + "]"
		}
		return p.expr(n.Object) + "." + propertyNameText(n.Property)
	case *ast.ThisRef:
		return "this"
	case *ast.Identifier:
		if rewritten, ok := intrinsics.Rewrite[n.Name]; ok {
			return rewritten
		}
		return n.Name
	case *ast.Literal:
		return emitLiteral(n)
	case *ast.ObjectLit:
		return emitObjectLit(p, n)
	case *ast.ArrayLit:
		return emitArrayLit(p, n)
	case *ast.Vec2Lit:
		return fmt.Sprintf("{ x: %s, y: %s }", p.expr(n.X), p.expr(n.Y))
	case *ast.Vec3Lit:
		return fmt.Sprintf("{ x: %s, y: %s, z: %s }", p.expr(n.X), p.expr(n.Y), p.expr(n.Z))
	default:
		p.sink.Warn(n.Position(), "unknown expression kind %T", n)
		return fmt.Sprintf("/* unknown expression kind %T */", n)
	}
}

func emitLiteral(n *ast.Literal) string {
	switch n.Kind {
	case ast.StringLit:
		return requote(n.Value)
	case ast.NumberLit, ast.BoolLit:
		return n.Value
	case ast.NullLit:
		return "null"
	case ast.UndefinedLit:
		return "undefined"
	default:
		return n.Value
	}
}

// requote re-quotes a source string literal (which may be single- or
// double-quoted, with `\`-escapes) into a double-quoted form with inner
// double quotes escaped, per spec.md §4.5.
func requote(lexeme string) string {
	if len(lexeme) < 2 {
		return `""`
	}
	quote := lexeme[0]
	inner := lexeme[1 : len(lexeme)-1]

	var out strings.Builder
	out.WriteByte('"')
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		if ch == '\\' && i+1 < len(inner) {
			next := inner[i+1]
			if next == quote && quote != '"' {
				// An escape that only existed to protect the original
				// quote character is dropped; '"' is re-escaped below.
				out.WriteByte(next)
				i++
				continue
			}
			out.WriteByte(ch)
			out.WriteByte(next)
			i++
			continue
		}
		if ch == '"' {
			out.WriteString(`\"`)
			continue
		}
		out.WriteByte(ch)
	}
	out.WriteByte('"')
	return out.String()
}

func emitObjectLit(p *printer, n *ast.ObjectLit) string {
	parts := make([]string, len(n.Properties))
	for i, prop := range n.Properties {
		key := propertyKeyText(p, prop)
		parts[i] = key + ": " + p.expr(prop.Value)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// propertyNameText prints a non-computed Member.Property: a field name,
// never a variable reference, so it must bypass the Identifier rewrite
// table a bare reference to the same name would go through.
func propertyNameText(property ast.Expression) string {
	switch k := property.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.Literal:
		return emitLiteral(k)
	default:
		return fmt.Sprintf("/* unknown member property kind %T */", k)
	}
}

func propertyKeyText(p *printer, prop ast.Property) string {
	if prop.Computed {
		return "[" + p.expr(prop.Key) + "]"
	}
	switch k := prop.Key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.Literal:
		return emitLiteral(k)
	default:
		return p.expr(prop.Key)
	}
}

func emitArrayLit(p *printer, n *ast.ArrayLit) string {
	parts := make([]string, len(n.Elements))
	for i, el := range n.Elements {
		if el == nil {
			parts[i] = ""
			continue
		}
		parts[i] = p.expr(el)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
