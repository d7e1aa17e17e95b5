package drillgen

import (
	"fmt"
	"strings"
)

var categories = []Category{
	CategoryBasicMath,
	CategoryRealWorldMath,
	CategoryLogical,
	CategoryNumerical,
	CategoryChart,
	CategoryVerbal,
}

var subcategories = map[Category][]Subcategory{
	CategoryBasicMath: {
		SubMixed, SubAddition, SubSubtraction, SubMultiplication,
		SubDivision, SubPercentages, SubAllBasicMath,
	},
	CategoryRealWorldMath: {
		SubInterest, SubGrowth, SubCAGR, SubIRR, SubPayback,
		SubBreakEven, SubProfitMargin, SubEBITDA, SubCaseBank, SubAllRealWorld,
	},
}

// Categories returns every drill category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Subcategories returns the subcategories of c in display order, or nil if c
// takes none.
func Subcategories(c Category) []Subcategory {
	subs := subcategories[c]
	if subs == nil {
		return nil
	}
	out := make([]Subcategory, len(subs))
	copy(out, subs)
	return out
}

// HasSubcategories reports whether a drill in c needs a subcategory.
func HasSubcategories(c Category) bool {
	return len(subcategories[c]) > 0
}

// IsAdaptive reports whether c uses streak-based difficulty escalation.
func IsAdaptive(c Category) bool {
	return c == CategoryBasicMath
}

// Known reports whether the pair resolves to a generator.
func Known(c Category, sub Subcategory) bool {
	_, ok := table[key{c, sub}]
	return ok
}

// ParseCategory matches s against the category names, ignoring case and
// surrounding space.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ParseSubcategory matches s against the subcategories of c, ignoring case.
// An empty s is valid only for categories without subcategories.
func ParseSubcategory(c Category, s string) (Subcategory, error) {
	s = strings.TrimSpace(s)
	if s == "" && !HasSubcategories(c) {
		return SubNone, nil
	}
	for _, sub := range subcategories[c] {
		if strings.EqualFold(string(sub), s) {
			return sub, nil
		}
	}
	return "", fmt.Errorf("unknown %s subcategory %q", c, s)
}
