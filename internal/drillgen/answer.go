package drillgen

import (
	"math"
	"strconv"
	"strings"
)

// NumericTolerance is the absolute difference under which a numeric answer
// is accepted.
const NumericTolerance = 0.001

// CheckAnswer compares free-text input against the expected answer.
// Returns true if the answer is correct.
//
// Normalization rules:
// - Whitespace is trimmed and comparison is case-insensitive
// - Numeric answers parse as floats and match within NumericTolerance
// - "can't say" is accepted for "Cannot Say"
// - Other text answers compare with "%" removed from both sides, so "20"
//   matches "20%" but "0.2" does not
//
// Unparsable input is an incorrect answer, never an error.
func CheckAnswer(input string, expected Answer) bool {
	input = strings.ToLower(strings.TrimSpace(input))

	switch expected.Kind {
	case AnswerInteger, AnswerDecimal:
		f, err := strconv.ParseFloat(input, 64)
		if err != nil || math.IsNaN(f) {
			return false
		}
		return math.Abs(f-expected.Number) < NumericTolerance

	case AnswerCategorical:
		want := strings.ToLower(expected.Text)
		if input == "can't say" {
			input = "cannot say"
		}
		return input == want

	default:
		want := strings.ToLower(strings.TrimSpace(expected.Text))
		return strings.ReplaceAll(input, "%", "") == strings.ReplaceAll(want, "%", "")
	}
}
