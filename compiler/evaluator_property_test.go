package compiler

import (
	"fmt"
	"testing"

	"github.com/RobertP-SyndicateLabs/turtle-logo/internal/logger"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func mustRun(src string) (*Interpreter, error) {
	in := NewInterpreter(DefaultConfig(), logger.New(nil).WithLevel(logger.LevelError))
	err := in.Run(src)
	return in, err
}

// TestPropertyLocalAlwaysIsolatesFromCaller exercises spec.md §8's scope
// isolation invariant: a procedure that `local`s a name and reassigns it
// can never leak that value back out to the caller's binding, for any
// pair of distinct numeric values.
func TestPropertyLocalAlwaysIsolatesFromCaller(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("local shadow never escapes the procedure boundary", prop.ForAll(
		func(outer, inner int) bool {
			src := fmt.Sprintf(`
make "v %d
to shadow
  local "v
  make "v %d
end
shadow
print :v
`, outer, inner)
			in, err := mustRun(src)
			if err != nil {
				return false
			}
			got := in.Output()
			want := formatNumber(float64(outer))
			return len(got) == 1 && got[0] == want
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestPropertyMakeWithoutLocalAlwaysMutatesOuter is the complementary
// case: without `local`, make always reaches the existing outer binding.
func TestPropertyMakeWithoutLocalAlwaysMutatesOuter(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("make without local always mutates the nearest defining frame", prop.ForAll(
		func(outer, inner int) bool {
			src := fmt.Sprintf(`
make "v %d
to mutate
  make "v %d
end
mutate
print :v
`, outer, inner)
			in, err := mustRun(src)
			if err != nil {
				return false
			}
			got := in.Output()
			want := formatNumber(float64(inner))
			return len(got) == 1 && got[0] == want
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestPropertyComparatorConsistency checks spec.md §8's comparator
// consistency invariant across generated pairs of numbers: exactly one
// of <, =, > holds, and <> is the negation of =.
func TestPropertyComparatorConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly one of <, =, > holds for any two numbers", prop.ForAll(
		func(a, b float64) bool {
			lt, err := compareValues("<", NumberValue(a), NumberValue(b))
			if err != nil {
				return false
			}
			eq, err := compareValues("=", NumberValue(a), NumberValue(b))
			if err != nil {
				return false
			}
			gt, err := compareValues(">", NumberValue(a), NumberValue(b))
			if err != nil {
				return false
			}
			count := 0
			for _, v := range []Value{lt, eq, gt} {
				if v.Truthy() {
					count++
				}
			}
			return count == 1
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("<> is the negation of =", prop.ForAll(
		func(a, b float64) bool {
			eq, err := compareValues("=", NumberValue(a), NumberValue(b))
			if err != nil {
				return false
			}
			ne, err := compareValues("<>", NumberValue(a), NumberValue(b))
			if err != nil {
				return false
			}
			return eq.Truthy() != ne.Truthy()
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// TestPropertyRepeatRunsBodyExactlyN checks that `repeat n [...]` runs
// its body exactly n times for any non-negative n, by counting prints.
func TestPropertyRepeatRunsBodyExactlyN(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("repeat n runs its body exactly n times", prop.ForAll(
		func(n int) bool {
			src := fmt.Sprintf(`repeat %d [print 1]`, n)
			in, err := mustRun(src)
			if err != nil {
				return false
			}
			return len(in.Output()) == n
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
