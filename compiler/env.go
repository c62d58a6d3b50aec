package compiler

// Env is a single frame of the environment chain: a name-to-Value binding
// table plus an optional parent. Lookup searches innermost-first.
type Env struct {
	vars   map[string]Value
	parent *Env
}

func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Get searches this frame and its ancestors, innermost-first.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// frameDefining returns the nearest frame (searching outward from e) that
// already binds name, or nil if no frame does.
func (e *Env) frameDefining(name string) *Env {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			return f
		}
	}
	return nil
}

// Make implements the `make` assignment rule: walk outward to the nearest
// enclosing frame that already binds name and assign there; if no frame
// binds it, create the binding in the current frame.
func (e *Env) Make(name string, v Value) {
	if f := e.frameDefining(name); f != nil {
		f.vars[name] = v
		return
	}
	e.vars[name] = v
}

// Local implements `local`: always creates a binding in the current
// frame, shadowing any outer binding, initially unset (NoValue).
func (e *Env) Local(name string) {
	e.vars[name] = NoValue
}

// Bind sets name in the current frame unconditionally. Used to bind
// procedure parameters and `for`-loop control variables.
func (e *Env) Bind(name string, v Value) {
	e.vars[name] = v
}
