package drillgen

import "fmt"

// Level is the Basic Math operand table for one difficulty.
type Level struct {
	Ops     []Operator
	AddMax  int64 // + and - operands in [1, AddMax]
	MulMin  int64 // * operands in [MulMin, MulMax]
	MulMax  int64
	DivMin  int64 // divisor in [DivMin, DivMax]
	DivMax  int64
	QuotMax int64 // quotient in [1, QuotMax]
}

var levels = map[int]Level{
	1: {Ops: []Operator{OpAdd, OpSub}, AddMax: 20, MulMin: 2, MulMax: 10, DivMin: 2, DivMax: 12, QuotMax: 10},
	2: {Ops: []Operator{OpAdd, OpSub, OpMul}, AddMax: 50, MulMin: 2, MulMax: 10, DivMin: 2, DivMax: 12, QuotMax: 10},
	3: {Ops: []Operator{OpAdd, OpSub, OpMul, OpDiv}, AddMax: 100, MulMin: 2, MulMax: 12, DivMin: 2, DivMax: 12, QuotMax: 10},
}

// LevelFor returns the operand table for a difficulty, clamped to range.
func LevelFor(difficulty int) Level {
	return levels[ClampDifficulty(difficulty)]
}

var percentChoices = []int64{10, 15, 20, 25, 30, 40, 50}

func genMixed(g *Generator, difficulty int) Question {
	lv := LevelFor(difficulty)
	op := lv.Ops[g.rng.IntN(len(lv.Ops))]
	return g.arithmetic(op, lv, difficulty)
}

func genOp(op Operator) genFunc {
	return func(g *Generator, difficulty int) Question {
		return g.arithmetic(op, LevelFor(difficulty), difficulty)
	}
}

func (g *Generator) arithmetic(op Operator, lv Level, difficulty int) Question {
	var a, b, result int64
	switch op {
	case OpAdd:
		a, b = g.between(1, lv.AddMax), g.between(1, lv.AddMax)
		result = a + b
	case OpSub:
		a, b = g.between(1, lv.AddMax), g.between(1, lv.AddMax)
		if b > a {
			a, b = b, a
		}
		result = a - b
	case OpMul:
		a, b = g.between(lv.MulMin, lv.MulMax), g.between(lv.MulMin, lv.MulMax)
		result = a * b
	case OpDiv:
		divisor := g.between(lv.DivMin, lv.DivMax)
		result = g.between(1, lv.QuotMax)
		a, b = divisor*result, divisor
	}
	return Question{
		Text:       fmt.Sprintf("What is %d %s %d?", a, op, b),
		Answer:     Int(result),
		Difficulty: difficulty,
		Expr:       &Expr{A: a, B: b, Op: op},
	}
}

func genPercentage(g *Generator, difficulty int) Question {
	percent := percentChoices[g.rng.IntN(len(percentChoices))]
	base := g.between(50, 300)
	return Question{
		Text:       fmt.Sprintf("What is %d%% of %d?", percent, base),
		Answer:     Decimal(float64(percent) / 100 * float64(base)),
		Difficulty: difficulty,
	}
}
