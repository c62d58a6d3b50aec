package compiler

import "math"

// LineSegment is a single recorded pen-down movement. Segments are
// append-only; the only way to remove them is clearscreen, which empties
// the sequence entirely.
type LineSegment struct {
	X1, Y1 float64
	X2, Y2 float64
	Color  string
	Size   float64
}

// Turtle is the geometric state machine the evaluator drives. Heading is
// measured clockwise from the positive Y-axis (0 = up) and is always
// normalized into [0,360).
type Turtle struct {
	X, Y    float64
	Heading float64

	PenIsDown bool
	PenColor  string
	PenSize   float64
	Visible   bool

	Lines []LineSegment

	// CircleSteps is the chord count Circle draws per full turn, taken
	// from Config at construction time.
	CircleSteps int
}

func NewTurtle() *Turtle {
	return &Turtle{
		PenIsDown:   true,
		PenColor:    "black",
		PenSize:     1,
		Visible:     true,
		CircleSteps: 36,
	}
}

// NewTurtleWithConfig is identical to NewTurtle but takes its
// CircleSteps from cfg instead of the spec.md default.
func NewTurtleWithConfig(cfg Config) *Turtle {
	t := NewTurtle()
	if cfg.CircleSteps > 0 {
		t.CircleSteps = cfg.CircleSteps
	}
	return t
}

func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// moveTo updates position to (x, y), recording a segment iff the pen is
// down.
func (t *Turtle) moveTo(x, y float64) {
	if t.PenIsDown {
		t.Lines = append(t.Lines, LineSegment{
			X1: t.X, Y1: t.Y,
			X2: x, Y2: y,
			Color: t.PenColor,
			Size:  t.PenSize,
		})
	}
	t.X, t.Y = x, y
}

// Forward advances the turtle by d units in the direction of Heading.
func (t *Turtle) Forward(d float64) {
	rad := t.Heading * math.Pi / 180
	nx := t.X + d*math.Sin(rad)
	ny := t.Y + d*math.Cos(rad)
	t.moveTo(nx, ny)
}

func (t *Turtle) Back(d float64) {
	t.Forward(-d)
}

func (t *Turtle) Right(deg float64) {
	t.Heading = normalizeHeading(t.Heading + deg)
}

func (t *Turtle) Left(deg float64) {
	t.Heading = normalizeHeading(t.Heading - deg)
}

func (t *Turtle) SetXY(x, y float64) {
	t.moveTo(x, y)
}

func (t *Turtle) SetX(x float64) {
	t.moveTo(x, t.Y)
}

func (t *Turtle) SetY(y float64) {
	t.moveTo(t.X, y)
}

func (t *Turtle) SetHeading(h float64) {
	t.Heading = normalizeHeading(h)
}

// Home moves to the origin, drawing a segment if the pen is down, and
// resets heading to 0.
func (t *Turtle) Home() {
	t.moveTo(0, 0)
	t.Heading = 0
}

// ClearScreen empties the line sequence and resets position/heading.
// Pen state (up/down, color, size, visibility) is preserved.
func (t *Turtle) ClearScreen() {
	t.Lines = nil
	t.X, t.Y = 0, 0
	t.Heading = 0
}

// Circle approximates a circle of radius r as CircleSteps equal chords
// (36 by default, a 10 degree right turn between them), per spec.md
// §4.3.
func (t *Turtle) Circle(r float64) {
	steps := t.CircleSteps
	if steps <= 0 {
		steps = 36
	}
	chord := 2 * math.Pi * r / float64(steps)
	turn := 360.0 / float64(steps)
	for i := 0; i < steps; i++ {
		t.Forward(chord)
		t.Right(turn)
	}
}

// Arc approximates an arc subtending a degrees of radius r as
// max(1, round(|a|/10)) equal chords.
func (t *Turtle) Arc(a, r float64) {
	steps := int(math.Round(math.Abs(a) / 10))
	if steps < 1 {
		steps = 1
	}
	turn := a / float64(steps)
	chord := 2 * math.Pi * r * (math.Abs(a) / 360) / float64(steps)
	for i := 0; i < steps; i++ {
		t.Forward(chord)
		t.Right(turn)
	}
}

// Towards returns the heading from the turtle's position to (x, y), in
// the same clockwise-from-north degree convention as Heading.
func (t *Turtle) Towards(x, y float64) float64 {
	dx := x - t.X
	dy := y - t.Y
	deg := math.Atan2(dx, dy) * 180 / math.Pi
	return normalizeHeading(deg)
}
