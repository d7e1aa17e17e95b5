package drillgen

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Category is a top-level drill category.
type Category string

const (
	CategoryBasicMath     Category = "Basic Math"
	CategoryRealWorldMath Category = "Real World Math"
	CategoryLogical       Category = "Logical Reasoning"
	CategoryNumerical     Category = "Numerical Reasoning"
	CategoryChart         Category = "Chart Analysis"
	CategoryVerbal        Category = "Verbal Reasoning"
)

// Subcategory narrows Basic Math and Real World Math drills.
type Subcategory string

const (
	SubMixed          Subcategory = "Mixed"
	SubAddition       Subcategory = "Addition"
	SubSubtraction    Subcategory = "Subtraction"
	SubMultiplication Subcategory = "Multiplication"
	SubDivision       Subcategory = "Division"
	SubPercentages    Subcategory = "Percentages"
	SubAllBasicMath   Subcategory = "All Basic Math"

	SubInterest     Subcategory = "Interest Rates"
	SubGrowth       Subcategory = "Growth Rates"
	SubCAGR         Subcategory = "CAGR"
	SubIRR          Subcategory = "IRR"
	SubPayback      Subcategory = "Payback Period"
	SubBreakEven    Subcategory = "Break Even"
	SubProfitMargin Subcategory = "Profit Margins"
	SubEBITDA       Subcategory = "EBITDA"
	SubCaseBank     Subcategory = "Case Bank"
	SubAllRealWorld Subcategory = "All Real-World Math"
	SubNone         Subcategory = ""
)

// Difficulty bounds for Basic Math.
const (
	MinDifficulty = 1
	MaxDifficulty = 3
)

// Operator is a Basic Math arithmetic operator.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Expr is the arithmetic behind a Basic Math question.
type Expr struct {
	A  int64    `json:"a"`
	B  int64    `json:"b"`
	Op Operator `json:"op"`
}

// SeriesPoint is one bar of a chart question.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Question is a generated or sampled drill question. Treat it as immutable.
type Question struct {
	Text        string        `json:"text"`
	Answer      Answer        `json:"-"`
	Category    Category      `json:"category"`
	Subcategory Subcategory   `json:"subcategory,omitempty"`
	Difficulty  int           `json:"difficulty,omitempty"`
	Expr        *Expr         `json:"expr,omitempty"`
	Series      []SeriesPoint `json:"series,omitempty"`

	// Unrecognized marks the sentinel returned for an unknown
	// category/subcategory pair.
	Unrecognized bool `json:"unrecognized,omitempty"`
}

// AnswerKind describes how an expected answer is compared.
type AnswerKind string

const (
	AnswerInteger     AnswerKind = "integer"     // e.g. 20, 1050
	AnswerDecimal     AnswerKind = "decimal"     // e.g. 2.5, 37.5
	AnswerText        AnswerKind = "text"        // e.g. "20%", "Wednesday"
	AnswerCategorical AnswerKind = "categorical" // "True", "False", "Cannot Say"
)

// Answer is the expected answer of a question.
type Answer struct {
	Kind   AnswerKind
	Number float64
	Text   string
}

// Int returns an integer answer.
func Int(n int64) Answer {
	return Answer{Kind: AnswerInteger, Number: float64(n)}
}

// Decimal returns a decimal answer compared with NumericTolerance.
func Decimal(f float64) Answer {
	return Answer{Kind: AnswerDecimal, Number: f}
}

// Text returns a string answer. "True", "False" and "Cannot Say" in any case
// become categorical answers.
func Text(s string) Answer {
	switch strings.ToLower(s) {
	case "true", "false", "cannot say":
		return Answer{Kind: AnswerCategorical, Text: s}
	}
	return Answer{Kind: AnswerText, Text: s}
}

// IsNumeric reports whether the answer is compared as a number.
func (a Answer) IsNumeric() bool {
	return a.Kind == AnswerInteger || a.Kind == AnswerDecimal
}

func (a Answer) String() string {
	switch a.Kind {
	case AnswerInteger:
		return strconv.FormatInt(int64(a.Number), 10)
	case AnswerDecimal:
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	default:
		return a.Text
	}
}

// MarshalJSON encodes numeric answers as JSON numbers and the rest as strings.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.IsNumeric() {
		return json.Marshal(a.Number)
	}
	return json.Marshal(a.Text)
}
