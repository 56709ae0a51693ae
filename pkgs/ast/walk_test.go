package ast

import "testing"

func TestWalkVisitsEveryNode(t *testing.T) {
	prog := &Program{
		Body: []Statement{
			&VarDecl{Name: "x", Init: &Binary{
				Op:    "+",
				Left:  &Identifier{Name: "a"},
				Right: &Identifier{Name: "b"},
			}},
			&If{
				Cond: &Identifier{Name: "cond"},
				Then: &Block{Body: []Statement{&Return{}}},
				Else: &Empty{},
			},
		},
	}

	var visited []Node
	Walk(prog, func(n Node) bool {
		visited = append(visited, n)
		return true
	})

	// Program, VarDecl, Binary, Identifier(a), Identifier(b), If,
	// Identifier(cond), Block, Return, Empty.
	if len(visited) != 10 {
		t.Fatalf("visited %d nodes, want 10: %v", len(visited), visited)
	}
}

func TestWalkStopsDescentWhenFnReturnsFalse(t *testing.T) {
	prog := &Program{
		Body: []Statement{
			&If{
				Cond: &Identifier{Name: "cond"},
				Then: &Block{Body: []Statement{&Return{}}},
			},
		},
	}

	var visited []Node
	Walk(prog, func(n Node) bool {
		visited = append(visited, n)
		_, isIf := n.(*If)
		return !isIf // stop descending into the If's children
	})

	if len(visited) != 2 { // Program, If
		t.Fatalf("visited %d nodes, want 2: %v", len(visited), visited)
	}
}

func TestForConditionNeverNilInvariant(t *testing.T) {
	// The parser guarantees this; here we just confirm the zero-value
	// shape callers are expected to produce when synthesising one.
	f := &For{Condition: &Literal{Kind: BoolLit, Value: "true"}}
	if f.Condition == nil {
		t.Fatal("For.Condition must never be nil")
	}
}

func TestSwitchCaseTestNilIffDefault(t *testing.T) {
	def := &SwitchCase{Test: nil}
	caseArm := &SwitchCase{Test: &Literal{Kind: NumberLit, Value: "1"}}
	if def.Test != nil {
		t.Error("default case must have a nil Test")
	}
	if caseArm.Test == nil {
		t.Error("non-default case must have a non-nil Test")
	}
}
