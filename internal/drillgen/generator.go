package drillgen

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Source produces drill questions. Implementations must never panic on an
// unknown pair and return the Unrecognized sentinel instead.
type Source interface {
	Generate(c Category, sub Subcategory, difficulty int) Question
}

// Locked serializes calls to src so one Source can serve many sessions.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) Generate(c Category, sub Subcategory, difficulty int) Question {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Generate(c, sub, difficulty)
}

// Generator synthesizes and samples questions from the built-in dispatch
// table. It is not safe for concurrent use; give each session its own.
type Generator struct {
	rng *rand.Rand
}

var _ Source = (*Generator)(nil)

// New creates a Generator drawing from rng. A nil rng seeds one from the
// clock.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return &Generator{rng: rng}
}

// NewSeeded creates a Generator with a deterministic stream.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed)))
}

type key struct {
	category    Category
	subcategory Subcategory
}

type genFunc func(g *Generator, difficulty int) Question

var table map[key]genFunc

func init() {
	table = map[key]genFunc{
		{CategoryBasicMath, SubMixed}:          genMixed,
		{CategoryBasicMath, SubAddition}:       genOp(OpAdd),
		{CategoryBasicMath, SubSubtraction}:    genOp(OpSub),
		{CategoryBasicMath, SubMultiplication}: genOp(OpMul),
		{CategoryBasicMath, SubDivision}:       genOp(OpDiv),
		{CategoryBasicMath, SubPercentages}:    genPercentage,
		{CategoryBasicMath, SubAllBasicMath}: pickAmong(CategoryBasicMath,
			SubAddition, SubSubtraction, SubMultiplication, SubDivision, SubPercentages),

		{CategoryRealWorldMath, SubInterest}:     genInterest,
		{CategoryRealWorldMath, SubGrowth}:       genGrowth,
		{CategoryRealWorldMath, SubCAGR}:         genCAGR,
		{CategoryRealWorldMath, SubIRR}:          genIRR,
		{CategoryRealWorldMath, SubPayback}:      genPayback,
		{CategoryRealWorldMath, SubBreakEven}:    genBreakEven,
		{CategoryRealWorldMath, SubProfitMargin}: genProfitMargin,
		{CategoryRealWorldMath, SubEBITDA}:       genEBITDA,
		{CategoryRealWorldMath, SubCaseBank}:     fromPool(caseBank),
		{CategoryRealWorldMath, SubAllRealWorld}: pickAmong(CategoryRealWorldMath,
			SubInterest, SubGrowth, SubCAGR, SubIRR, SubPayback,
			SubBreakEven, SubProfitMargin, SubEBITDA),

		{CategoryLogical, SubNone}:   fromPool(logicalPool),
		{CategoryNumerical, SubNone}: fromPool(numericalPool),
		{CategoryChart, SubNone}:     fromPool(chartPool),
		{CategoryVerbal, SubNone}:    fromPool(verbalPool),
	}
}

// Generate returns a question for the pair. Difficulty only affects Basic
// Math and is clamped to [MinDifficulty, MaxDifficulty].
func (g *Generator) Generate(c Category, sub Subcategory, difficulty int) Question {
	fn, ok := table[key{c, sub}]
	if !ok {
		return unrecognized(c)
	}
	q := fn(g, ClampDifficulty(difficulty))
	q.Category = c
	if q.Subcategory == SubNone {
		q.Subcategory = sub
	}
	return q
}

// ClampDifficulty forces d into [MinDifficulty, MaxDifficulty].
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

func unrecognized(c Category) Question {
	text := "Error: Unknown Category"
	if HasSubcategories(c) {
		text = fmt.Sprintf("Error: Unknown %s Subcategory", c)
	}
	return Question{
		Text:         text,
		Answer:       Int(0),
		Category:     c,
		Unrecognized: true,
	}
}

// pickAmong draws one of subs uniformly on every call. The drawn
// subcategory is kept on the question.
func pickAmong(c Category, subs ...Subcategory) genFunc {
	return func(g *Generator, difficulty int) Question {
		sub := subs[g.rng.IntN(len(subs))]
		q := table[key{c, sub}](g, difficulty)
		q.Subcategory = sub
		return q
	}
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int64) int64 {
	return lo + g.rng.Int64N(hi-lo+1)
}
