package drillgen

import (
	"fmt"
	"math"
)

// SimpleInterest returns p*r*t/100.
func SimpleInterest(p, r, t float64) float64 {
	return p * r * t / 100
}

// TotalGrowth returns the non-annualized growth from a to b in percent.
func TotalGrowth(a, b float64) float64 {
	return (b - a) / a * 100
}

// CAGR returns the compound annual growth rate from a to b over t years, in
// percent.
func CAGR(a, b, t float64) float64 {
	return (math.Pow(b/a, 1/t) - 1) * 100
}

// ApproxIRR treats an investment x returning y after t years as a single
// compounding period chain: ((y/x)^(1/t) - 1) * 100. It is not a general IRR
// solve.
func ApproxIRR(x, y, t float64) float64 {
	return (math.Pow(y/x, 1/t) - 1) * 100
}

// PaybackPeriod returns cost/annual return in years, rounded to 2 places.
func PaybackPeriod(cost, annual float64) float64 {
	return round2(cost / annual)
}

// BreakEvenUnits returns fixed/(price-variable), rounded to 2 places. The
// caller guarantees price > variable.
func BreakEvenUnits(fixed, variable, price float64) float64 {
	return round2(fixed / (price - variable))
}

// ProfitMargin returns (revenue-cost)/revenue in percent.
func ProfitMargin(revenue, cost float64) float64 {
	return (revenue - cost) / revenue * 100
}

// EBITDA adds interest, taxes, depreciation and amortization back to net
// income.
func EBITDA(net, interest, taxes, depreciation, amortization int64) int64 {
	return net + interest + taxes + depreciation + amortization
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func genInterest(g *Generator, _ int) Question {
	p, r, t := g.between(1000, 5000), g.between(1, 10), g.between(1, 5)
	return Question{
		Text:   fmt.Sprintf("Simple interest on $%d at %d%% for %d years?", p, r, t),
		Answer: Decimal(SimpleInterest(float64(p), float64(r), float64(t))),
	}
}

func genGrowth(g *Generator, _ int) Question {
	a := g.between(50, 500)
	b := a + g.between(1, 200)
	t := g.between(1, 5)
	return Question{
		Text:   fmt.Sprintf("Value grows from %d to %d in %d years. What is the total growth rate (%%)?", a, b, t),
		Answer: Decimal(TotalGrowth(float64(a), float64(b))),
	}
}

func genCAGR(g *Generator, _ int) Question {
	a := g.between(100, 1000)
	b := a + g.between(1, 2000)
	t := g.between(1, 5)
	return Question{
		Text:   fmt.Sprintf("Initial %d, final %d, over %d years. What is the CAGR (%%)?", a, b, t),
		Answer: Decimal(CAGR(float64(a), float64(b), float64(t))),
	}
}

func genIRR(g *Generator, _ int) Question {
	x := g.between(1000, 5000)
	t := g.between(1, 5)
	y := x + g.between(1, 5000)
	return Question{
		Text:   fmt.Sprintf("Invest %d now, receive %d in %d years. Approx IRR (%%)?", x, y, t),
		Answer: Decimal(ApproxIRR(float64(x), float64(y), float64(t))),
	}
}

func genPayback(g *Generator, _ int) Question {
	c, r := g.between(1000, 5000), g.between(100, 1000)
	return Question{
		Text:   fmt.Sprintf("Project costs %d and returns %d per year. Payback period (years)?", c, r),
		Answer: Decimal(PaybackPeriod(float64(c), float64(r))),
	}
}

func genBreakEven(g *Generator, _ int) Question {
	f := g.between(500, 2000)
	v := g.between(5, 20)
	p := v + g.between(1, 15)
	return Question{
		Text:   fmt.Sprintf("Fixed cost=%d, var cost=%d, price=%d. Break-even units?", f, v, p),
		Answer: Decimal(BreakEvenUnits(float64(f), float64(v), float64(p))),
	}
}

func genProfitMargin(g *Generator, _ int) Question {
	r := g.between(1000, 5000)
	c := g.between(500, r)
	return Question{
		Text:   fmt.Sprintf("Revenue=%d, Cost=%d. Profit margin (%%)?", r, c),
		Answer: Decimal(ProfitMargin(float64(r), float64(c))),
	}
}

func genEBITDA(g *Generator, _ int) Question {
	n := g.between(100, 1000)
	i, t, d := g.between(10, 200), g.between(10, 200), g.between(10, 200)
	a := g.between(0, 200)
	return Question{
		Text:   fmt.Sprintf("NetIncome=%d, Interest=%d, Taxes=%d, Depr=%d, Amort=%d. EBITDA?", n, i, t, d, a),
		Answer: Int(EBITDA(n, i, t, d, a)),
	}
}
