package drillgen

// poolItem is one fixed question in a static bank.
type poolItem struct {
	text   string
	answer Answer
	series []SeriesPoint
}

func fromPool(pool []poolItem) genFunc {
	return func(g *Generator, _ int) Question {
		item := pool[g.rng.IntN(len(pool))]
		return Question{
			Text:   item.text,
			Answer: item.answer,
			Series: item.series,
		}
	}
}

func quarters(values ...float64) []SeriesPoint {
	labels := []string{"Q1", "Q2", "Q3", "Q4"}
	out := make([]SeriesPoint, len(values))
	for i, v := range values {
		out[i] = SeriesPoint{Label: labels[i], Value: v}
	}
	return out
}

var caseBank = []poolItem{
	{text: "If a bank offers 5% annual interest on $1,000, how much will you have after 1 year?", answer: Int(1050)},
	{text: "A company's revenue is $500 and profit is $100. What is the profit margin (in %)?", answer: Text("20%")},
	{text: "Fixed costs are $1,000 and profit per unit is $50. How many units must be sold to break even?", answer: Int(20)},
	{text: "If an investment grows from $200 to $242 in one year, what was the percentage gain?", answer: Text("21%")},
	{text: "You invest $100 today and get $150 back in 3 years. What is the total return in dollars?", answer: Int(50)},
}

var logicalPool = []poolItem{
	{text: "If all VIPs are club members, and all club members are invited, are all VIPs invited? (True/False)", answer: Text("True")},
	{text: "If A > B and B > C, is A > C? (True/False)", answer: Text("True")},
	{text: "Tom is taller than Jim, and Jim is taller than Alex. Is Tom taller than Alex? (True/False)", answer: Text("True")},
	{text: "All cats are mammals. Rex is a mammal. Conclusion: Rex is a cat. (True/False/Cannot Say)", answer: Text("Cannot Say")},
	{text: "If the day after tomorrow is Friday, what day is today?", answer: Text("Wednesday")},
}

var numericalPool = []poolItem{
	{text: "If 5 pens cost $15, how much would 8 pens cost?", answer: Int(24)},
	{text: "A shop sells 3 apples for $1. How many apples can you buy for $5?", answer: Int(15)},
	{text: "There are 120 students, 55% of them are male. How many females are there?", answer: Int(54)},
	{text: "Train A travels 60 miles in 1 hour. How long to travel 150 miles at the same speed?", answer: Decimal(2.5)},
	{text: "A recipe needs 3 cups of flour to serve 4 people. How many cups are needed for 6 people?", answer: Decimal(4.5)},
}

var chartPool = []poolItem{
	{text: "Which quarter had the highest sales?", answer: Text("Q4"), series: quarters(10, 15, 5, 20)},
	{text: "Were sales highest in Q1? (True/False)", answer: Text("True"), series: quarters(30, 20, 10, 15)},
}

var verbalPool = []poolItem{
	{text: `"All dogs have tails. Rex is a dog. Rex has a tail." Is this conclusion true? (True/False)`, answer: Text("True")},
	{text: `"Some books are long. The Bible is a book. The Bible is long." Does this conclusion follow? (True/False/Cannot Say)`, answer: Text("Cannot Say")},
	{text: `If "None of the engineers are women" is true, can "Some women are engineers" be true? (True/False)`, answer: Text("False")},
	{text: `"All A are B. All B are C. Therefore, all A are C." Is this conclusion valid? (True/False)`, answer: Text("True")},
	{text: `"Most people have cats. John is a person. John has a cat." Does this conclusion follow? (True/False/Cannot Say)`, answer: Text("Cannot Say")},
}
