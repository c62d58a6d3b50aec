package compiler

import (
	"fmt"
	"os"

	"github.com/RobertP-SyndicateLabs/turtle-logo/internal/logger"
)

// Interpreter bundles the Lexer, Parser, Evaluator, Turtle, output
// buffer, Config, and Logger behind a single embedding entry point,
// directly modeled on the teacher's top-level RunFile.
type Interpreter struct {
	cfg Config
	log *logger.Logger
	ev  *Evaluator
}

func NewInterpreter(cfg Config, log *logger.Logger) *Interpreter {
	if log == nil {
		log = logger.New(nil)
	}
	return &Interpreter{
		cfg: cfg,
		log: log,
		ev:  NewEvaluator(cfg, log),
	}
}

// Run lexes, parses, and evaluates source in one pass.
func (in *Interpreter) Run(source string) error {
	lx := NewLexer(source)
	p := NewParser(lx)

	stop := in.log.Step("parse")
	prog := p.ParseProgram()
	stop()

	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			in.log.Errorf("%s", e.Error())
		}
		return fmt.Errorf("cannot run: %d parse error(s)", len(errs))
	}

	stop = in.log.Step("evaluate")
	defer stop()
	if err := in.ev.Run(prog); err != nil {
		return err
	}
	return nil
}

func (in *Interpreter) Turtle() *Turtle  { return in.ev.Turtle() }
func (in *Interpreter) Output() []string { return in.ev.Output() }

// RunFile reads path and runs it, the file-loading counterpart spec.md
// leaves to the embedding program.
func RunFile(path string, cfg Config, log *logger.Logger) (*Interpreter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	in := NewInterpreter(cfg, log)
	if err := in.Run(string(data)); err != nil {
		return in, err
	}
	return in, nil
}

// RunString runs source directly, for embedding programs that already
// hold the text (e.g. REPLs or tests) instead of a file path.
func RunString(source string, cfg Config, log *logger.Logger) (*Interpreter, error) {
	in := NewInterpreter(cfg, log)
	if err := in.Run(source); err != nil {
		return in, err
	}
	return in, nil
}
