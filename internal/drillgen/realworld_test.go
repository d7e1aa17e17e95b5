package drillgen

import (
	"math"
	"testing"
)

func TestFormulas(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"interest 1000 at 5% for 1y", SimpleInterest(1000, 5, 1), 50},
		{"interest 2000 at 3% for 4y", SimpleInterest(2000, 3, 4), 240},
		{"growth 200 to 242", TotalGrowth(200, 242), 21},
		{"cagr doubling in 1y", CAGR(100, 200, 1), 100},
		{"cagr quadrupling in 2y", CAGR(100, 400, 2), 100},
		{"irr approximation", ApproxIRR(1000, 1210, 2), 10},
		{"payback rounds to 2dp", PaybackPeriod(1000, 300), 3.33},
		{"break even 1000/(80-30)", BreakEvenUnits(1000, 30, 80), 20},
		{"break even rounds", BreakEvenUnits(1000, 5, 8), 333.33},
		{"margin", ProfitMargin(500, 400), 20},
	}

	for _, tc := range tests {
		if math.Abs(tc.got-tc.want) > 1e-9 {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestEBITDA(t *testing.T) {
	if got := EBITDA(500, 20, 30, 40, 0); got != 590 {
		t.Errorf("EBITDA = %d, want 590", got)
	}
}

func TestInterestAnswerAccepts50(t *testing.T) {
	a := Decimal(SimpleInterest(1000, 5, 1))
	if !CheckAnswer("50", a) {
		t.Errorf("CheckAnswer(\"50\", %v) = false, want true", a)
	}
}

func TestRealWorldRanges(t *testing.T) {
	g := NewSeeded(11)
	for i := 0; i < draws; i++ {
		be := g.Generate(CategoryRealWorldMath, SubBreakEven, 1)
		if be.Answer.Number <= 0 || math.IsInf(be.Answer.Number, 0) {
			t.Fatalf("break-even produced %v for %q", be.Answer.Number, be.Text)
		}

		pm := g.Generate(CategoryRealWorldMath, SubProfitMargin, 1)
		if pm.Answer.Number < 0 || pm.Answer.Number >= 100 {
			t.Fatalf("margin out of range: %v for %q", pm.Answer.Number, pm.Text)
		}

		for _, sub := range []Subcategory{SubGrowth, SubCAGR, SubIRR} {
			q := g.Generate(CategoryRealWorldMath, sub, 1)
			if q.Answer.Number <= 0 {
				t.Fatalf("%s produced non-positive rate %v for %q", sub, q.Answer.Number, q.Text)
			}
		}

		eb := g.Generate(CategoryRealWorldMath, SubEBITDA, 1)
		if eb.Answer.Kind != AnswerInteger || eb.Answer.Number < 130 || eb.Answer.Number > 1800 {
			t.Fatalf("EBITDA out of range: %v", eb.Answer.Number)
		}
	}
}
