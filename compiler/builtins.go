package compiler

import "math"

// evalReporter evaluates a built-in reporter call. Arity is already
// fixed by the parser (oneArgBuiltins/twoArgBuiltins, plus the list/
// sentence/atan special cases), so each case here trusts len(x.Args).
func (ev *Evaluator) evalReporter(env *Env, x *Reporter) (Value, error) {
	switch x.Name {
	case "xcor":
		return NumberValue(ev.turtle.X), nil
	case "ycor":
		return NumberValue(ev.turtle.Y), nil
	case "heading":
		return NumberValue(ev.turtle.Heading), nil
	case "pendown?":
		return BoolValue(ev.turtle.PenIsDown), nil

	case "list":
		items := make([]Value, len(x.Args))
		for i, a := range x.Args {
			v, err := ev.evalExpr(env, a)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ListValue(items), nil

	case "sentence":
		return ev.builtinSentence(env, x.Args[0], x.Args[1])

	case "atan":
		a, err := ev.evalNumber(env, x.Args[0])
		if err != nil {
			return Value{}, err
		}
		if len(x.Args) == 2 {
			b, err := ev.evalNumber(env, x.Args[1])
			if err != nil {
				return Value{}, err
			}
			return NumberValue(math.Atan2(a, b) * 180 / math.Pi), nil
		}
		return NumberValue(math.Atan(a) * 180 / math.Pi), nil
	}

	if len(x.Args) == 1 {
		return ev.evalOneArgBuiltin(env, x.Name, x.Args[0])
	}
	return ev.evalTwoArgBuiltin(env, x.Name, x.Args[0], x.Args[1])
}

func (ev *Evaluator) evalOneArgBuiltin(env *Env, name string, argExpr Expr) (Value, error) {
	switch name {
	case "sqrt":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, newRuntimeError(ArithmeticError, "sqrt of negative number")
		}
		return NumberValue(math.Sqrt(n)), nil
	case "abs":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(math.Abs(n)), nil
	case "int":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(math.Trunc(n)), nil
	case "round":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(math.Round(n)), nil
	case "sin":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(math.Sin(n * math.Pi / 180)), nil
	case "cos":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(math.Cos(n * math.Pi / 180)), nil
	case "tan":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(math.Tan(n * math.Pi / 180)), nil
	case "first":
		return ev.builtinFirst(env, argExpr)
	case "last":
		return ev.builtinListLast(env, argExpr)
	case "butfirst":
		return ev.builtinListTrim(env, argExpr, false)
	case "butlast":
		return ev.builtinListTrim(env, argExpr, true)
	case "count":
		v, err := ev.evalExpr(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		switch v.Kind {
		case KindList:
			return NumberValue(float64(len(v.Items))), nil
		case KindText:
			return NumberValue(float64(len(v.Text))), nil
		}
		return Value{}, newRuntimeError(TypeError, "count expects a list or text")
	case "thing":
		v, err := ev.evalExpr(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		name := Display(v)
		val, ok := env.Get(name)
		if !ok || IsNoValue(val) {
			return Value{}, newRuntimeError(NameError, "unbound variable: "+name)
		}
		return val, nil
	case "random":
		n, err := ev.evalNumber(env, argExpr)
		if err != nil {
			return Value{}, err
		}
		if n <= 0 {
			return NumberValue(0), nil
		}
		return NumberValue(float64(ev.rng.Intn(int(n)))), nil
	}
	return Value{}, newRuntimeError(NameError, "unknown reporter: "+name)
}

func (ev *Evaluator) evalTwoArgBuiltin(env *Env, name string, aExpr, bExpr Expr) (Value, error) {
	switch name {
	case "sum":
		a, b, err := ev.evalNumberPair(env, aExpr, bExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(a + b), nil
	case "difference":
		a, b, err := ev.evalNumberPair(env, aExpr, bExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(a - b), nil
	case "product":
		a, b, err := ev.evalNumberPair(env, aExpr, bExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(a * b), nil
	case "quotient":
		a, b, err := ev.evalNumberPair(env, aExpr, bExpr)
		if err != nil {
			return Value{}, err
		}
		if b == 0 {
			return Value{}, newRuntimeError(ArithmeticError, "division by zero")
		}
		return NumberValue(a / b), nil
	case "remainder":
		a, b, err := ev.evalNumberPair(env, aExpr, bExpr)
		if err != nil {
			return Value{}, err
		}
		if b == 0 {
			return Value{}, newRuntimeError(ArithmeticError, "modulo by zero")
		}
		return NumberValue(numMod(a, b)), nil
	case "power":
		a, b, err := ev.evalNumberPair(env, aExpr, bExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(math.Pow(a, b)), nil
	case "item":
		return ev.builtinItem(env, aExpr, bExpr)
	case "word":
		a, err := ev.evalExpr(env, aExpr)
		if err != nil {
			return Value{}, err
		}
		b, err := ev.evalExpr(env, bExpr)
		if err != nil {
			return Value{}, err
		}
		return TextValue(Display(a) + Display(b)), nil
	case "towards":
		x, y, err := ev.evalNumberPair(env, aExpr, bExpr)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(ev.turtle.Towards(x, y)), nil
	case "fput":
		v, err := ev.evalExpr(env, aExpr)
		if err != nil {
			return Value{}, err
		}
		l, err := ev.evalList(env, bExpr)
		if err != nil {
			return Value{}, err
		}
		out := make([]Value, 0, len(l)+1)
		out = append(out, v)
		out = append(out, l...)
		return ListValue(out), nil
	case "lput":
		v, err := ev.evalExpr(env, aExpr)
		if err != nil {
			return Value{}, err
		}
		l, err := ev.evalList(env, bExpr)
		if err != nil {
			return Value{}, err
		}
		out := make([]Value, 0, len(l)+1)
		out = append(out, l...)
		out = append(out, v)
		return ListValue(out), nil
	}
	return Value{}, newRuntimeError(NameError, "unknown reporter: "+name)
}

func (ev *Evaluator) evalNumberPair(env *Env, aExpr, bExpr Expr) (float64, float64, error) {
	a, err := ev.evalNumber(env, aExpr)
	if err != nil {
		return 0, 0, err
	}
	b, err := ev.evalNumber(env, bExpr)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// evalList evaluates argExpr and requires the result to be a List,
// returning its items. Used by fput/lput.
func (ev *Evaluator) evalList(env *Env, argExpr Expr) ([]Value, error) {
	v, err := ev.evalExpr(env, argExpr)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindList {
		return nil, newRuntimeError(TypeError, "expected a list, got "+Display(v))
	}
	return v.Items, nil
}

func (ev *Evaluator) builtinSentence(env *Env, aExpr, bExpr Expr) (Value, error) {
	a, err := ev.evalExpr(env, aExpr)
	if err != nil {
		return Value{}, err
	}
	b, err := ev.evalExpr(env, bExpr)
	if err != nil {
		return Value{}, err
	}
	var out []Value
	if a.Kind == KindList {
		out = append(out, a.Items...)
	} else {
		out = append(out, a)
	}
	if b.Kind == KindList {
		out = append(out, b.Items...)
	} else {
		out = append(out, b)
	}
	return ListValue(out), nil
}

func (ev *Evaluator) builtinItem(env *Env, idxExpr, listExpr Expr) (Value, error) {
	idx, err := ev.evalNumber(env, idxExpr)
	if err != nil {
		return Value{}, err
	}
	v, err := ev.evalExpr(env, listExpr)
	if err != nil {
		return Value{}, err
	}
	i := int(idx)
	switch v.Kind {
	case KindList:
		if i < 1 || i > len(v.Items) {
			return Value{}, newRuntimeError(ArithmeticError, "item: index out of range")
		}
		return v.Items[i-1], nil
	case KindText:
		if i < 1 || i > len(v.Text) {
			return Value{}, newRuntimeError(ArithmeticError, "item: index out of range")
		}
		return TextValue(string(v.Text[i-1])), nil
	}
	return Value{}, newRuntimeError(TypeError, "item expects a list or text")
}

// builtinListLast implements `last`.
func (ev *Evaluator) builtinListLast(env *Env, argExpr Expr) (Value, error) {
	v, err := ev.evalExpr(env, argExpr)
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case KindList:
		if len(v.Items) == 0 {
			return Value{}, newRuntimeError(TypeError, "last: empty list")
		}
		return v.Items[len(v.Items)-1], nil
	case KindText:
		if v.Text == "" {
			return Value{}, newRuntimeError(TypeError, "last: empty text")
		}
		return TextValue(string(v.Text[len(v.Text)-1])), nil
	}
	return Value{}, newRuntimeError(TypeError, "last expects a list or text")
}

func (ev *Evaluator) builtinFirst(env *Env, argExpr Expr) (Value, error) {
	v, err := ev.evalExpr(env, argExpr)
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case KindList:
		if len(v.Items) == 0 {
			return Value{}, newRuntimeError(TypeError, "first: empty list")
		}
		return v.Items[0], nil
	case KindText:
		if v.Text == "" {
			return Value{}, newRuntimeError(TypeError, "first: empty text")
		}
		return TextValue(string(v.Text[0])), nil
	}
	return Value{}, newRuntimeError(TypeError, "first expects a list or text")
}

// builtinListTrim backs butfirst (dropLast=false, drops the first
// element) and butlast (dropLast=true, drops the last element).
func (ev *Evaluator) builtinListTrim(env *Env, argExpr Expr, dropLast bool) (Value, error) {
	v, err := ev.evalExpr(env, argExpr)
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case KindList:
		if len(v.Items) == 0 {
			return Value{}, newRuntimeError(TypeError, "empty list")
		}
		if dropLast {
			return ListValue(v.Items[:len(v.Items)-1]), nil
		}
		return ListValue(v.Items[1:]), nil
	case KindText:
		if v.Text == "" {
			return Value{}, newRuntimeError(TypeError, "empty text")
		}
		if dropLast {
			return TextValue(v.Text[:len(v.Text)-1]), nil
		}
		return TextValue(v.Text[1:]), nil
	}
	return Value{}, newRuntimeError(TypeError, "expects a list or text")
}
