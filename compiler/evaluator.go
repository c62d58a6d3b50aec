package compiler

import (
	"fmt"
	"math/rand"

	"github.com/RobertP-SyndicateLabs/turtle-logo/internal/logger"
)

// Evaluator walks the AST produced by the Parser and drives a Turtle,
// directly descending from the teacher's single-error-return execWork
// convention, generalized from token-slice walking to tree walking.
type Evaluator struct {
	global *Env
	procs  map[string]*DefineStmt
	turtle *Turtle
	output []string
	cfg    Config
	log    *logger.Logger
	rng    *rand.Rand

	callDepth int
}

func NewEvaluator(cfg Config, log *logger.Logger) *Evaluator {
	if log == nil {
		log = logger.New(nil)
	}
	return &Evaluator{
		global: NewEnv(nil),
		procs:  make(map[string]*DefineStmt),
		turtle: NewTurtleWithConfig(cfg),
		cfg:    cfg,
		log:    log,
		rng:    rand.New(rand.NewSource(cfg.RandomSeed)),
	}
}

func (ev *Evaluator) Turtle() *Turtle   { return ev.turtle }
func (ev *Evaluator) Output() []string  { return ev.output }
func (ev *Evaluator) emit(line string)  { ev.output = append(ev.output, line) }

// Run executes a top-level statement list in the global frame. A `stop`
// or `output` reaching this point has escaped every procedure boundary,
// which spec.md treats as a runtime error rather than a silent no-op.
func (ev *Evaluator) Run(stmts []Stmt) *Error {
	// A first pass registers every `to` definition so forward references
	// between procedures (mutual recursion) resolve regardless of the
	// order they appear in the source.
	ev.registerDefines(stmts)

	for _, s := range stmts {
		if _, ok := s.(*DefineStmt); ok {
			continue
		}
		if err := ev.execStmt(ev.global, s); err != nil {
			if _, ok := isControlSignal(err); ok {
				return newRuntimeError(ArityError, "stop/output used outside of a procedure")
			}
			if e, ok := err.(*Error); ok {
				return e
			}
			return newRuntimeError(TypeError, err.Error())
		}
	}
	return nil
}

func (ev *Evaluator) registerDefines(stmts []Stmt) {
	for _, s := range stmts {
		if d, ok := s.(*DefineStmt); ok {
			ev.procs[d.Name] = d
		}
	}
}

// -------- STATEMENT EXECUTION --------

func (ev *Evaluator) execStmt(env *Env, s Stmt) error {
	ev.log.Debugf("exec %T", s)

	switch st := s.(type) {
	case *MoveStmt:
		n, err := ev.evalNumber(env, st.Amount)
		if err != nil {
			return err
		}
		switch st.Dir {
		case MoveForward:
			ev.turtle.Forward(n)
		case MoveBack:
			ev.turtle.Back(n)
		case TurnRight:
			ev.turtle.Right(n)
		case TurnLeft:
			ev.turtle.Left(n)
		}
		return nil

	case *PenUpStmt:
		ev.turtle.PenIsDown = false
		return nil
	case *PenDownStmt:
		ev.turtle.PenIsDown = true
		return nil

	case *PenColorStmt:
		v, err := ev.evalExpr(env, st.Color)
		if err != nil {
			return err
		}
		ev.turtle.PenColor = Display(v)
		return nil

	case *PenSizeStmt:
		n, err := ev.evalNumber(env, st.Size)
		if err != nil {
			return err
		}
		ev.turtle.PenSize = n
		return nil

	case *HomeStmt:
		ev.turtle.Home()
		return nil

	case *SetXYStmt:
		x, err := ev.evalNumber(env, st.X)
		if err != nil {
			return err
		}
		y, err := ev.evalNumber(env, st.Y)
		if err != nil {
			return err
		}
		ev.turtle.SetXY(x, y)
		return nil

	case *SetXStmt:
		x, err := ev.evalNumber(env, st.X)
		if err != nil {
			return err
		}
		ev.turtle.SetX(x)
		return nil

	case *SetYStmt:
		y, err := ev.evalNumber(env, st.Y)
		if err != nil {
			return err
		}
		ev.turtle.SetY(y)
		return nil

	case *SetHeadingStmt:
		h, err := ev.evalNumber(env, st.Heading)
		if err != nil {
			return err
		}
		ev.turtle.SetHeading(h)
		return nil

	case *CircleStmt:
		r, err := ev.evalNumber(env, st.Radius)
		if err != nil {
			return err
		}
		ev.turtle.Circle(r)
		return nil

	case *ArcStmt:
		a, err := ev.evalNumber(env, st.Angle)
		if err != nil {
			return err
		}
		r, err := ev.evalNumber(env, st.Radius)
		if err != nil {
			return err
		}
		ev.turtle.Arc(a, r)
		return nil

	case *ClearScreenStmt:
		ev.turtle.ClearScreen()
		return nil
	case *HideTurtleStmt:
		ev.turtle.Visible = false
		return nil
	case *ShowTurtleStmt:
		ev.turtle.Visible = true
		return nil

	case *RepeatStmt:
		return ev.execRepeat(env, st)
	case *WhileStmt:
		return ev.execWhile(env, st)
	case *ForStmt:
		return ev.execFor(env, st)
	case *IfStmt:
		return ev.execIf(env, st)
	case *IfElseStmt:
		return ev.execIfElse(env, st)

	case *DefineStmt:
		ev.procs[st.Name] = st
		return nil

	case *StopStmt:
		return &controlSignal{stop: true}

	case *OutputStmt:
		v, err := ev.evalExpr(env, st.Value)
		if err != nil {
			return err
		}
		return &controlSignal{stop: false, value: v, hasVal: true}

	case *MakeStmt:
		v, err := ev.evalExpr(env, st.Value)
		if err != nil {
			return err
		}
		if IsNoValue(v) {
			return newRuntimeError(TypeError, "make: procedure did not output a value")
		}
		env.Make(st.Name, v)
		return nil

	case *LocalStmt:
		env.Local(st.Name)
		return nil

	case *PrintStmt:
		v, err := ev.evalExpr(env, st.Value)
		if err != nil {
			return err
		}
		if IsNoValue(v) {
			return newRuntimeError(TypeError, "print: procedure did not output a value")
		}
		ev.emit(Display(v))
		return nil

	case *TypeStmt:
		v, err := ev.evalExpr(env, st.Value)
		if err != nil {
			return err
		}
		if IsNoValue(v) {
			return newRuntimeError(TypeError, "type: procedure did not output a value")
		}
		if n := len(ev.output); n > 0 {
			ev.output[n-1] += Display(v)
		} else {
			ev.emit(Display(v))
		}
		return nil

	case *ShowStmt:
		v, err := ev.evalExpr(env, st.Value)
		if err != nil {
			return err
		}
		if IsNoValue(v) {
			return newRuntimeError(TypeError, "show: procedure did not output a value")
		}
		ev.emit(Show(v))
		return nil

	case *CallStmt:
		_, err := ev.callProcedure(env, st.Name, st.Args)
		return err

	default:
		return newRuntimeError(TypeError, fmt.Sprintf("unhandled statement %T", st))
	}
}

func (ev *Evaluator) execRepeat(env *Env, st *RepeatStmt) error {
	n, err := ev.evalNumber(env, st.Count)
	if err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		if err := ev.execBlock(env, st.Body); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execWhile(env *Env, st *WhileStmt) error {
	for {
		cond, err := ev.evalExpr(env, st.Cond)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			return nil
		}
		if err := ev.execBlock(env, st.Body); err != nil {
			return err
		}
	}
}

func (ev *Evaluator) execFor(env *Env, st *ForStmt) error {
	start, err := ev.evalNumber(env, st.Start)
	if err != nil {
		return err
	}
	end, err := ev.evalNumber(env, st.End)
	if err != nil {
		return err
	}
	step := 1.0
	if st.Step != nil {
		step, err = ev.evalNumber(env, st.Step)
		if err != nil {
			return err
		}
	}
	if step == 0 {
		return newRuntimeError(ArithmeticError, "for: step must not be zero")
	}

	frame := NewEnv(env)
	for v := start; (step > 0 && v <= end) || (step < 0 && v >= end); v += step {
		frame.Bind(st.Var, NumberValue(v))
		if err := ev.execBlock(frame, st.Body); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execIf(env *Env, st *IfStmt) error {
	cond, err := ev.evalExpr(env, st.Cond)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		return ev.execBlock(env, st.Then)
	}
	return nil
}

func (ev *Evaluator) execIfElse(env *Env, st *IfElseStmt) error {
	cond, err := ev.evalExpr(env, st.Cond)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		return ev.execBlock(env, st.Then)
	}
	return ev.execBlock(env, st.Else)
}

// execBlock runs a statement list in the frame it is given, adding no
// frame of its own: repeat/while/if/ifelse bodies run in their caller's
// frame. Only procedure calls and execFor (one frame for the whole loop)
// introduce a new frame.
func (ev *Evaluator) execBlock(env *Env, stmts []Stmt) error {
	for _, s := range stmts {
		if err := ev.execStmt(env, s); err != nil {
			return err
		}
	}
	return nil
}

// -------- PROCEDURE INVOCATION --------

// callProcedure invokes a user-defined procedure by name. Its frame
// chains to the global environment rather than the caller's frame
// (lexical scope with a global top), per spec.md §4.4. stop/output are
// caught exactly here, at the frame boundary, and never propagate past
// it as anything but a plain return.
func (ev *Evaluator) callProcedure(callerEnv *Env, name string, argExprs []Expr) (Value, error) {
	def, ok := ev.procs[name]
	if !ok {
		return Value{}, newRuntimeError(NameError, "unknown procedure: "+name)
	}
	if len(argExprs) != len(def.Params) {
		return Value{}, newRuntimeError(ArityError, fmt.Sprintf(
			"%s expects %d argument(s), got %d", name, len(def.Params), len(argExprs)))
	}

	args := make([]Value, len(argExprs))
	for i, a := range argExprs {
		v, err := ev.evalExpr(callerEnv, a)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if ev.cfg.MaxCallDepth > 0 && ev.callDepth >= ev.cfg.MaxCallDepth {
		return Value{}, newRuntimeError(ArityError, "call depth exceeded in "+name)
	}
	ev.callDepth++
	defer func() { ev.callDepth-- }()

	frame := NewEnv(ev.global)
	for i, p := range def.Params {
		frame.Bind(p, args[i])
	}

	err := ev.execBlock(frame, def.Body)
	if err == nil {
		return NoValue, nil
	}
	if cs, ok := isControlSignal(err); ok {
		if cs.hasVal {
			return cs.value, nil
		}
		return NoValue, nil
	}
	return Value{}, err
}

// -------- EXPRESSION EVALUATION --------

func (ev *Evaluator) evalExpr(env *Env, e Expr) (Value, error) {
	switch x := e.(type) {
	case *NumberLit:
		return NumberValue(x.Value), nil
	case *TextLit:
		return TextValue(x.Value), nil
	case *ListLit:
		items := make([]Value, len(x.Items))
		for i, it := range x.Items {
			v, err := ev.evalExpr(env, it)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ListValue(items), nil
	case *VarRef:
		v, ok := env.Get(x.Name)
		if !ok || IsNoValue(v) {
			return Value{}, newRuntimeError(NameError, "unbound variable: "+x.Name)
		}
		return v, nil
	case *Neg:
		n, err := ev.evalNumber(env, x.X)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(-n), nil
	case *Not:
		v, err := ev.evalExpr(env, x.X)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!v.Truthy()), nil
	case *BinaryExpr:
		return ev.evalBinary(env, x)
	case *Reporter:
		return ev.evalReporter(env, x)
	case *FunCall:
		return ev.callProcedure(env, x.Name, x.Args)
	default:
		return Value{}, newRuntimeError(TypeError, fmt.Sprintf("unhandled expression %T", x))
	}
}

func (ev *Evaluator) evalNumber(env *Env, e Expr) (float64, error) {
	v, err := ev.evalExpr(env, e)
	if err != nil {
		return 0, err
	}
	if IsNoValue(v) {
		return 0, newRuntimeError(TypeError, "procedure did not output a value")
	}
	if v.Kind != KindNumber {
		return 0, newRuntimeError(TypeError, "expected a number, got "+Display(v))
	}
	return v.Num, nil
}

func (ev *Evaluator) evalBinary(env *Env, x *BinaryExpr) (Value, error) {
	if x.Op == "and" {
		l, err := ev.evalExpr(env, x.Left)
		if err != nil {
			return Value{}, err
		}
		if !l.Truthy() {
			return BoolValue(false), nil
		}
		r, err := ev.evalExpr(env, x.Right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(r.Truthy()), nil
	}
	if x.Op == "or" {
		l, err := ev.evalExpr(env, x.Left)
		if err != nil {
			return Value{}, err
		}
		if l.Truthy() {
			return BoolValue(true), nil
		}
		r, err := ev.evalExpr(env, x.Right)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(r.Truthy()), nil
	}

	switch x.Op {
	case "=", "<", ">", "<=", ">=", "<>":
		l, err := ev.evalExpr(env, x.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := ev.evalExpr(env, x.Right)
		if err != nil {
			return Value{}, err
		}
		return compareValues(x.Op, l, r)
	}

	l, err := ev.evalNumber(env, x.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := ev.evalNumber(env, x.Right)
	if err != nil {
		return Value{}, err
	}
	switch x.Op {
	case "+":
		return NumberValue(l + r), nil
	case "-":
		return NumberValue(l - r), nil
	case "*":
		return NumberValue(l * r), nil
	case "/":
		if r == 0 {
			return Value{}, newRuntimeError(ArithmeticError, "division by zero")
		}
		return NumberValue(l / r), nil
	case "%":
		if r == 0 {
			return Value{}, newRuntimeError(ArithmeticError, "modulo by zero")
		}
		return NumberValue(numMod(l, r)), nil
	}
	return Value{}, newRuntimeError(TypeError, "unknown operator: "+x.Op)
}

// compareValues implements <, >, <=, >=, =, <> consistently across
// Number/Text comparison: numeric comparison when both sides are
// numbers, lexical comparison otherwise, and deep equality for = / <>.
func compareValues(op string, l, r Value) (Value, error) {
	if op == "=" {
		return BoolValue(Equal(l, r)), nil
	}
	if op == "<>" {
		return BoolValue(!Equal(l, r)), nil
	}

	if l.Kind == KindNumber && r.Kind == KindNumber {
		switch op {
		case "<":
			return BoolValue(l.Num < r.Num), nil
		case ">":
			return BoolValue(l.Num > r.Num), nil
		case "<=":
			return BoolValue(l.Num <= r.Num), nil
		case ">=":
			return BoolValue(l.Num >= r.Num), nil
		}
	}

	ls, rs := Display(l), Display(r)
	switch op {
	case "<":
		return BoolValue(ls < rs), nil
	case ">":
		return BoolValue(ls > rs), nil
	case "<=":
		return BoolValue(ls <= rs), nil
	case ">=":
		return BoolValue(ls >= rs), nil
	}
	return Value{}, newRuntimeError(TypeError, "unknown comparator: "+op)
}

func numMod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}
