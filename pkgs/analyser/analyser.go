// Package analyser performs the single top-down symbol-table walk of
// spec.md §4.4: duplicate-declaration, undeclared-use, unused-declaration,
// and intrinsic call-arity checks. It never rejects a program outright —
// every finding is a WARNING, recorded into the diagnostics sink.
package analyser

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/saaam-lang/compiler/pkgs/ast"
	"github.com/saaam-lang/compiler/pkgs/diag"
	"github.com/saaam-lang/compiler/pkgs/intrinsics"
)

// symbol tracks one name's declaration/use state within a scope.
type symbol struct {
	used     bool
	firstPos int
}

// scope is a single flat binding table: one for the program, and one per
// function body (spec.md §3). Blocks, if/for/while bodies do not open a
// new scope — only Analyse and FuncDecl do.
type scope struct {
	parent  *scope
	symbols map[string]*symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, symbols: make(map[string]*symbol)}
}

// lookup walks the scope chain for name, returning nil if never declared.
func (s *scope) lookup(name string) *symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// visibleNames collects every name declared in this scope or an ancestor,
// for "did you mean" suggestions.
func (s *scope) visibleNames() []string {
	var names []string
	for sc := s; sc != nil; sc = sc.parent {
		for name := range sc.symbols {
			names = append(names, name)
		}
	}
	return names
}

// Analyse walks prog, recording diagnostics into sink. It never returns an
// error: every rule in spec.md §4.4 produces a WARNING, not an ERROR.
func Analyse(prog *ast.Program, sink *diag.Sink) {
	global := newScope(nil)
	processScope(prog.Body, global, sink)
}

// processScope hoists every declaration reachable from stmts without
// crossing into a nested FuncDecl, walks the statements to resolve uses,
// then reports every symbol declared-but-never-used in this scope.
func processScope(stmts []ast.Statement, sc *scope, sink *diag.Sink) {
	for _, stmt := range stmts {
		hoistStmt(stmt, sc, sink)
	}
	for _, stmt := range stmts {
		walkStmt(stmt, sc, sink)
	}
	reportUnused(sc, sink)
}

func declareOrWarnDup(sc *scope, name string, pos int, sink *diag.Sink) {
	if _, exists := sc.symbols[name]; exists {
		sink.Warn(pos, "%q already declared", name)
		return
	}
	sc.symbols[name] = &symbol{firstPos: pos}
}

// reportUnused emits "declared but never used" for this scope's own
// symbols, ordered by declaration position; parameters share their
// function's position and are ordered by name among themselves (map
// iteration order is not deterministic, and determinism is a testable
// property of the whole compiler — spec.md §8.1).
func reportUnused(sc *scope, sink *diag.Sink) {
	type entry struct {
		name string
		sym  *symbol
	}
	var entries []entry
	for name, sym := range sc.symbols {
		entries = append(entries, entry{name, sym})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].sym.firstPos != entries[j].sym.firstPos {
			return entries[i].sym.firstPos < entries[j].sym.firstPos
		}
		return entries[i].name < entries[j].name
	})
	for _, e := range entries {
		if !e.sym.used {
			sink.Warn(e.sym.firstPos, "%q declared but never used", e.name)
		}
	}
}

// ---- hoisting: collect every declaration visible in this flat scope ----

func hoistStmt(stmt ast.Statement, sc *scope, sink *diag.Sink) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		declareOrWarnDup(sc, s.Name, s.Position(), sink)
	case *ast.FuncDecl:
		declareOrWarnDup(sc, s.Name, s.Position(), sink)
	case *ast.Block:
		for _, st := range s.Body {
			hoistStmt(st, sc, sink)
		}
	case *ast.If:
		hoistStmt(s.Then, sc, sink)
		if s.Else != nil {
			hoistStmt(s.Else, sc, sink)
		}
	case *ast.For:
		if s.Init != nil {
			hoistStmt(s.Init, sc, sink)
		}
		hoistStmt(s.Body, sc, sink)
	case *ast.While:
		hoistStmt(s.Body, sc, sink)
	case *ast.DoWhile:
		hoistStmt(s.Body, sc, sink)
	case *ast.Switch:
		for _, c := range s.Cases {
			for _, st := range c.Body {
				hoistStmt(st, sc, sink)
			}
		}
	}
}

// ---- walking: resolve identifier uses and recurse into nested scopes ----

func walkStmt(stmt ast.Statement, sc *scope, sink *diag.Sink) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s.Init != nil {
			walkExpr(s.Init, sc, sink)
		}
	case *ast.FuncDecl:
		child := newScope(sc)
		for _, param := range s.Params {
			declareOrWarnDup(child, param, s.Position(), sink)
		}
		processScope(s.Body.Body, child, sink)
	case *ast.Block:
		for _, st := range s.Body {
			walkStmt(st, sc, sink)
		}
	case *ast.If:
		walkExpr(s.Cond, sc, sink)
		walkStmt(s.Then, sc, sink)
		if s.Else != nil {
			walkStmt(s.Else, sc, sink)
		}
	case *ast.For:
		if s.Init != nil {
			walkStmt(s.Init, sc, sink)
		}
		walkExpr(s.Condition, sc, sink)
		if s.Update != nil {
			walkExpr(s.Update, sc, sink)
		}
		walkStmt(s.Body, sc, sink)
	case *ast.While:
		walkExpr(s.Cond, sc, sink)
		walkStmt(s.Body, sc, sink)
	case *ast.DoWhile:
		walkStmt(s.Body, sc, sink)
		walkExpr(s.Cond, sc, sink)
	case *ast.Switch:
		walkExpr(s.Discriminant, sc, sink)
		for _, c := range s.Cases {
			if c.Test != nil {
				walkExpr(c.Test, sc, sink)
			}
			for _, st := range c.Body {
				walkStmt(st, sc, sink)
			}
		}
	case *ast.Return:
		if s.Value != nil {
			walkExpr(s.Value, sc, sink)
		}
	case *ast.ExprStmt:
		walkExpr(s.Expr, sc, sink)
	// Break, Continue, Empty carry no sub-expressions.
	case *ast.Break, *ast.Continue, *ast.Empty:
	}
}

func walkExpr(expr ast.Expression, sc *scope, sink *diag.Sink) {
	switch e := expr.(type) {
	case *ast.Identifier:
		visitIdentifier(e, sc, sink)
	case *ast.Assign:
		walkExpr(e.Left, sc, sink)
		walkExpr(e.Right, sc, sink)
	case *ast.Binary:
		walkExpr(e.Left, sc, sink)
		walkExpr(e.Right, sc, sink)
	case *ast.Unary:
		walkExpr(e.Operand, sc, sink)
	case *ast.Call:
		walkExpr(e.Callee, sc, sink)
		for _, a := range e.Args {
			walkExpr(a, sc, sink)
		}
		checkArity(e, sink)
	case *ast.Member:
		walkExpr(e.Object, sc, sink)
		if e.Computed {
			walkExpr(e.Property, sc, sink)
		}
		// A non-computed Property is a field name, not a variable reference.
	case *ast.ObjectLit:
		for _, prop := range e.Properties {
			if prop.Computed {
				walkExpr(prop.Key, sc, sink)
			}
			walkExpr(prop.Value, sc, sink)
		}
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			if el != nil {
				walkExpr(el, sc, sink)
			}
		}
	case *ast.Vec2Lit:
		walkExpr(e.X, sc, sink)
		walkExpr(e.Y, sc, sink)
	case *ast.Vec3Lit:
		walkExpr(e.X, sc, sink)
		walkExpr(e.Y, sc, sink)
		walkExpr(e.Z, sc, sink)
	// ThisRef and Literal carry no sub-expressions.
	case *ast.ThisRef, *ast.Literal:
	}
}

func visitIdentifier(ident *ast.Identifier, sc *scope, sink *diag.Sink) {
	if ident.IsIntrinsic {
		return
	}
	if sym := sc.lookup(ident.Name); sym != nil {
		sym.used = true
		return
	}
	if suggestion := suggestName(ident.Name, sc); suggestion != "" {
		sink.Warn(ident.Position(), "%q used but not declared (did you mean %q?)", ident.Name, suggestion)
		return
	}
	sink.Warn(ident.Position(), "%q used but not declared", ident.Name)
}

// suggestName offers a fuzzy "did you mean" correction over every name
// visible at this point plus the intrinsic catalogues, the way the
// teacher's planner suggests the closest target-function name. Only
// candidates that contain every letter of name in order (case-folded) are
// considered, so a name with a dropped letter gets a suggestion while one
// with an extra or swapped letter does not.
func suggestName(name string, sc *scope) string {
	candidates := append(sc.visibleNames(), intrinsics.AllNames()...)
	sort.Strings(candidates) // keep fuzzy ranking input order deterministic
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Distance < ranks[j].Distance })
	best := ranks[0]
	if best.Distance > 2 || best.Target == name {
		return ""
	}
	return best.Target
}

func checkArity(call *ast.Call, sink *diag.Sink) {
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok || !ident.IsIntrinsic {
		return
	}
	rule, ok := intrinsics.CallArity[ident.Name]
	if !ok {
		return
	}
	n := len(call.Args)
	var bad bool
	if rule.Exact {
		bad = n != rule.Min
	} else {
		bad = n < rule.Min
	}
	if !bad {
		return
	}
	if rule.Exact {
		sink.Warn(call.Position(), "%q called with %d argument(s), expected exactly %d", ident.Name, n, rule.Min)
	} else {
		sink.Warn(call.Position(), "%q called with %d argument(s), expected at least %d", ident.Name, n, rule.Min)
	}
}
