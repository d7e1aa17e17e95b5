package drillgen

import (
	"reflect"
	"slices"
	"sync"
	"testing"
)

const draws = 2000

func TestGenerate_DivisionIsExact(t *testing.T) {
	g := NewSeeded(1)
	for d := MinDifficulty; d <= MaxDifficulty; d++ {
		for i := 0; i < draws; i++ {
			q := g.Generate(CategoryBasicMath, SubDivision, d)
			if q.Expr == nil || q.Expr.Op != OpDiv {
				t.Fatalf("level %d: expr = %+v, want a division", d, q.Expr)
			}
			if q.Expr.A%q.Expr.B != 0 {
				t.Errorf("dividend %d not divisible by %d", q.Expr.A, q.Expr.B)
			}
			if q.Answer != Int(q.Expr.A/q.Expr.B) {
				t.Errorf("%d / %d answered %v", q.Expr.A, q.Expr.B, q.Answer)
			}
		}
	}
}

func TestGenerate_MixedRespectsLevelTable(t *testing.T) {
	g := NewSeeded(2)
	for d := MinDifficulty; d <= MaxDifficulty; d++ {
		lv := LevelFor(d)
		seen := map[Operator]bool{}
		for i := 0; i < draws; i++ {
			q := g.Generate(CategoryBasicMath, SubMixed, d)
			e := q.Expr
			if e == nil {
				t.Fatalf("level %d: no expression", d)
			}
			seen[e.Op] = true
			if !slices.Contains(lv.Ops, e.Op) {
				t.Fatalf("level %d produced %s", d, e.Op)
			}
			if q.Difficulty != d {
				t.Errorf("Difficulty = %d, want %d", q.Difficulty, d)
			}

			var ok bool
			switch e.Op {
			case OpAdd:
				ok = e.A >= 1 && e.A <= lv.AddMax && e.B >= 1 && e.B <= lv.AddMax && q.Answer == Int(e.A+e.B)
			case OpSub:
				ok = e.A >= e.B && e.B >= 1 && e.A <= lv.AddMax && q.Answer == Int(e.A-e.B)
			case OpMul:
				ok = e.A >= lv.MulMin && e.A <= lv.MulMax && e.B >= lv.MulMin && e.B <= lv.MulMax && q.Answer == Int(e.A*e.B)
			case OpDiv:
				ok = e.B >= lv.DivMin && e.B <= lv.DivMax && e.A/e.B <= lv.QuotMax
			}
			if !ok {
				t.Errorf("level %d: %d %s %d = %v outside the level table", d, e.A, e.Op, e.B, q.Answer)
			}
		}
		if len(seen) != len(lv.Ops) {
			t.Errorf("level %d used %d of %d operators", d, len(seen), len(lv.Ops))
		}
	}
}

func TestGenerate_ClampsDifficulty(t *testing.T) {
	g := NewSeeded(3)
	if got := g.Generate(CategoryBasicMath, SubMixed, 0).Difficulty; got != 1 {
		t.Errorf("difficulty 0 clamped to %d, want 1", got)
	}
	if got := g.Generate(CategoryBasicMath, SubMixed, 9).Difficulty; got != 3 {
		t.Errorf("difficulty 9 clamped to %d, want 3", got)
	}
}

func TestGenerate_Percentages(t *testing.T) {
	g := NewSeeded(4)
	for i := 0; i < draws; i++ {
		q := g.Generate(CategoryBasicMath, SubPercentages, 1)
		if q.Answer.Kind != AnswerDecimal {
			t.Fatalf("answer kind = %v, want decimal", q.Answer.Kind)
		}
		if n := q.Answer.Number; n < 5 || n > 150 {
			t.Errorf("out of range: %v", n)
		}
	}
}

func TestGenerate_AllPicksConcreteSubcategory(t *testing.T) {
	g := NewSeeded(5)
	basic := map[Subcategory]bool{}
	realWorld := map[Subcategory]bool{}
	for i := 0; i < draws; i++ {
		basic[g.Generate(CategoryBasicMath, SubAllBasicMath, 2).Subcategory] = true
		realWorld[g.Generate(CategoryRealWorldMath, SubAllRealWorld, 1).Subcategory] = true
	}
	if len(basic) != 5 || basic[SubAllBasicMath] || basic[SubMixed] {
		t.Errorf("All Basic Math drew %v", basic)
	}
	if len(realWorld) != 8 || realWorld[SubCaseBank] {
		t.Errorf("All Real World Math drew %v", realWorld)
	}
}

func TestGenerate_EveryKnownPair(t *testing.T) {
	g := NewSeeded(6)
	for _, c := range Categories() {
		subs := Subcategories(c)
		if subs == nil {
			subs = []Subcategory{SubNone}
		}
		for _, sub := range subs {
			if !Known(c, sub) {
				t.Fatalf("%s/%s not known", c, sub)
			}
			q := g.Generate(c, sub, 1)
			if q.Unrecognized || q.Text == "" || q.Category != c {
				t.Errorf("%s/%s generated %+v", c, sub, q)
			}
		}
	}
}

func TestGenerate_ChartCarriesSeries(t *testing.T) {
	g := NewSeeded(7)
	for i := 0; i < 50; i++ {
		q := g.Generate(CategoryChart, SubNone, 1)
		if len(q.Series) != 4 || q.Series[0].Label != "Q1" {
			t.Fatalf("series = %+v, want Q1..Q4", q.Series)
		}
	}
}

func TestGenerate_Unrecognized(t *testing.T) {
	g := NewSeeded(8)

	q := g.Generate(CategoryBasicMath, "Calculus", 1)
	if !q.Unrecognized || q.Text != "Error: Unknown Basic Math Subcategory" || q.Answer != Int(0) {
		t.Errorf("unknown subcategory = %+v", q)
	}
	if !g.Generate("Astrology", SubNone, 1).Unrecognized {
		t.Error("unknown category was recognized")
	}
	if !g.Generate(CategoryLogical, SubCAGR, 1).Unrecognized {
		t.Error("CAGR under Logical was recognized")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 100; i++ {
		qa := a.Generate(CategoryRealWorldMath, SubAllRealWorld, 1)
		qb := b.Generate(CategoryRealWorldMath, SubAllRealWorld, 1)
		if !reflect.DeepEqual(qa, qb) {
			t.Fatalf("draw %d differs:\n%+v\n%+v", i, qa, qb)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("  chart analysis "); err != nil || c != CategoryChart {
		t.Errorf("ParseCategory(chart analysis) = %q, %v", c, err)
	}
	if _, err := ParseCategory("chess"); err == nil {
		t.Error("ParseCategory(chess) accepted")
	}
	if sub, err := ParseSubcategory(CategoryRealWorldMath, "cagr"); err != nil || sub != SubCAGR {
		t.Errorf("ParseSubcategory(cagr) = %q, %v", sub, err)
	}
	if sub, err := ParseSubcategory(CategoryVerbal, ""); err != nil || sub != SubNone {
		t.Errorf("ParseSubcategory(Verbal, \"\") = %q, %v", sub, err)
	}
	if _, err := ParseSubcategory(CategoryBasicMath, ""); err == nil {
		t.Error("Basic Math without a subcategory accepted")
	}
}

func TestLocked_ConcurrentGenerate(t *testing.T) {
	src := Locked(NewSeeded(7))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				if q := src.Generate(CategoryBasicMath, SubAddition, 2); q.Unrecognized {
					t.Errorf("unrecognized: %+v", q)
					return
				}
			}
		}()
	}
	wg.Wait()
}
