package compiler

import "testing"

func parse(t *testing.T, src string) []Stmt {
	t.Helper()
	p := NewParser(NewLexer(src))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParserMoveStatements(t *testing.T) {
	prog := parse(t, "fd 100\nrt 90\nbk 50\nlt 45")
	if len(prog) != 4 {
		t.Fatalf("got %d statements, want 4", len(prog))
	}
	wantDirs := []MoveDir{MoveForward, TurnRight, MoveBack, TurnLeft}
	for i, want := range wantDirs {
		m, ok := prog[i].(*MoveStmt)
		if !ok {
			t.Fatalf("statement %d: got %T, want *MoveStmt", i, prog[i])
		}
		if m.Dir != want {
			t.Errorf("statement %d: got dir %d, want %d", i, m.Dir, want)
		}
	}
}

func TestParserArgumentGreediness(t *testing.T) {
	// "repeat 4 [fd 50 rt 90]" must not let fd's argument swallow "rt".
	prog := parse(t, "repeat 4 [fd 50 rt 90]")
	rep, ok := prog[0].(*RepeatStmt)
	if !ok {
		t.Fatalf("got %T, want *RepeatStmt", prog[0])
	}
	if len(rep.Body) != 2 {
		t.Fatalf("body has %d statements, want 2", len(rep.Body))
	}
}

func TestParserPrecedence(t *testing.T) {
	// "print 2 + 3 * 4" should parse as 2 + (3 * 4).
	prog := parse(t, "print 2 + 3 * 4")
	ps, ok := prog[0].(*PrintStmt)
	if !ok {
		t.Fatalf("got %T, want *PrintStmt", prog[0])
	}
	bin, ok := ps.Value.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("got %#v, want top-level +", ps.Value)
	}
	rhs, ok := bin.Right.(*BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("got %#v, want right side *", bin.Right)
	}
}

func TestParserDefineAndCall(t *testing.T) {
	prog := parse(t, "to square :side\n  repeat 4 [fd :side rt 90]\nend\nsquare 50")
	def, ok := prog[0].(*DefineStmt)
	if !ok {
		t.Fatalf("got %T, want *DefineStmt", prog[0])
	}
	if def.Name != "square" || len(def.Params) != 1 || def.Params[0] != "side" {
		t.Fatalf("got %+v, want square(side)", def)
	}
	call, ok := prog[1].(*CallStmt)
	if !ok {
		t.Fatalf("got %T, want *CallStmt", prog[1])
	}
	if call.Name != "square" || len(call.Args) != 1 {
		t.Fatalf("got %+v, want square(50)", call)
	}
}

func TestParserForStep(t *testing.T) {
	prog := parse(t, "for \"i 1 10 2 [print :i]")
	f, ok := prog[0].(*ForStmt)
	if !ok {
		t.Fatalf("got %T, want *ForStmt", prog[0])
	}
	if f.Var != "i" || f.Step == nil {
		t.Fatalf("got %+v, want step present", f)
	}
}

func TestParserForNoStep(t *testing.T) {
	prog := parse(t, "for \"i 1 10 [print :i]")
	f, ok := prog[0].(*ForStmt)
	if !ok {
		t.Fatalf("got %T, want *ForStmt", prog[0])
	}
	if f.Step != nil {
		t.Fatalf("got step %+v, want nil", f.Step)
	}
}

func TestParserIfElse(t *testing.T) {
	prog := parse(t, "if 1 = 1 [print 1] else [print 2]")
	ie, ok := prog[0].(*IfElseStmt)
	if !ok {
		t.Fatalf("got %T, want *IfElseStmt", prog[0])
	}
	if len(ie.Then) != 1 || len(ie.Else) != 1 {
		t.Fatalf("got %+v", ie)
	}
}

func TestParserListLiteral(t *testing.T) {
	prog := parse(t, "make \"x [1 2 [3 4] :y]")
	m, ok := prog[0].(*MakeStmt)
	if !ok {
		t.Fatalf("got %T, want *MakeStmt", prog[0])
	}
	ll, ok := m.Value.(*ListLit)
	if !ok || len(ll.Items) != 4 {
		t.Fatalf("got %#v, want a 4-item list literal", m.Value)
	}
	if _, ok := ll.Items[2].(*ListLit); !ok {
		t.Fatalf("item 2: got %#v, want nested ListLit", ll.Items[2])
	}
	if _, ok := ll.Items[3].(*VarRef); !ok {
		t.Fatalf("item 3: got %#v, want VarRef", ll.Items[3])
	}
}

func TestParserZeroArgTurtleReporters(t *testing.T) {
	prog := parse(t, "print xcor\nprint ycor\nprint heading\nprint pendown?")
	names := []string{"xcor", "ycor", "heading", "pendown?"}
	for i, want := range names {
		ps, ok := prog[i].(*PrintStmt)
		if !ok {
			t.Fatalf("statement %d: got %T, want *PrintStmt", i, prog[i])
		}
		rep, ok := ps.Value.(*Reporter)
		if !ok || rep.Name != want || len(rep.Args) != 0 {
			t.Fatalf("statement %d: got %#v, want zero-arg reporter %q", i, ps.Value, want)
		}
	}
}

func TestParserIllegalCharacterIsLexicalError(t *testing.T) {
	p := NewParser(NewLexer("print 1 @ 2"))
	p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("expected a parse error for the illegal character")
	}
	found := false
	for _, e := range errs {
		if e.Kind == LexicalError {
			found = true
		}
	}
	if !found {
		t.Errorf("got %v, want a LexicalError among the errors", errs)
	}
}

func TestParserReporterArity(t *testing.T) {
	prog := parse(t, "print list 1 2 3 4")
	ps, ok := prog[0].(*PrintStmt)
	if !ok {
		t.Fatalf("got %T, want *PrintStmt", prog[0])
	}
	rep, ok := ps.Value.(*Reporter)
	if !ok || rep.Name != "list" || len(rep.Args) != 4 {
		t.Fatalf("got %#v, want list/4", ps.Value)
	}
}
