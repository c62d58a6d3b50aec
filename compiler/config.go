package compiler

// Config carries the knobs a real embedding needs, mirroring the
// teacher's DefaultOptions convention: a plain struct with a
// Default constructor rather than functional options, since every
// field here is independent and has an obvious default.
type Config struct {
	// MaxCallDepth guards against runaway recursion in user-defined
	// procedures. Zero means unlimited.
	MaxCallDepth int

	// CircleSteps is the number of chords Circle draws per full turn.
	CircleSteps int

	// RandomSeed seeds the evaluator's random source for `random`, so a
	// program's output is reproducible across runs.
	RandomSeed int64
}

func DefaultConfig() Config {
	return Config{
		MaxCallDepth: 1000,
		CircleSteps:  36,
		RandomSeed:   1,
	}
}
