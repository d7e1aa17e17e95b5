package sparring

// topic is one themed list of interview prompts.
type topic struct {
	name    string
	prompts []string
}

// bank is ordered the way topics are presented to the candidate.
var bank = []topic{
	{"Business - Basic", []string{
		"What are the 4 Ps of marketing?",
		"Define 'market segmentation'.",
		"Explain the difference between revenue and profit.",
		"What does 'MECE' stand for and why is it important?",
		"How would you assess whether a product launch was successful?",
	}},
	{"Business - Advanced", []string{
		"Walk me through a Porter's Five Forces analysis for the airline industry.",
		"How would you value a high-growth startup with no profits?",
		"Explain how you would structure an M&A due-diligence process.",
		"Discuss the pros and cons of vertical integration for a manufacturer.",
		"How do you evaluate the competitive advantage of a market leader?",
	}},
	{"Economics - Basic", []string{
		"What is GDP and how is it calculated?",
		"Explain the law of supply and demand.",
		"What causes inflation?",
		"Define 'opportunity cost'.",
		"How does a price ceiling affect a market?",
	}},
	{"Economics - Advanced", []string{
		"Explain the Phillips Curve and its implications.",
		"What is quantitative easing and when is it used?",
		"Discuss the trade-off between inflation and unemployment.",
		"How do exchange rates affect a country's exports?",
		"Explain the concept of 'moral hazard' in banking.",
	}},
	{"Finance - Basic", []string{
		"What is the time value of money?",
		"Explain the difference between simple and compound interest.",
		"How do you calculate ROI?",
		"Define 'liquidity'.",
		"What is a balance sheet?",
	}},
	{"Finance - Advanced", []string{
		"Walk me through a DCF valuation step by step.",
		"What is IRR and how do you interpret it?",
		"Explain the impact of leverage on a company's ROE.",
		"How do you assess credit risk?",
		"What are the main components of a cash flow statement?",
	}},
	{"Brain Teasers", []string{
		"Why are manhole covers round?",
		"How many golf balls can you fit in a school bus?",
		"You have 8 balls, one is heavier. How do you find it in 2 weighings?",
		"What is the angle between the hour and minute hands at 3:15?",
		"A snail climbs 3m up a wall by day and slips 2m at night. How long to reach 10m?",
	}},
	{"Punches", []string{
		"Explain a complex topic you know in under 30 seconds.",
		"What's your biggest weakness, and how are you fixing it?",
		"Sell me this pen.",
		"How many windows are in New York City?",
		"Describe a time you failed and what you learned.",
	}},
	{"Personal Fit - CV", []string{
		"Walk me through your resume.",
		"What are the top three things that aren't on your resume?",
		"Why did you choose your undergraduate major?",
		"How has your background prepared you for consulting?",
		"Tell me about a gap or change in your CV.",
	}},
	{"Personal Fit - Why", []string{
		"Why consulting?",
		"Why our firm?",
		"Why now and not later?",
		"Why should we hire you over other candidates?",
		"Why did you leave your last role?",
	}},
	{"Personal Fit - Situations", []string{
		"Tell me about a time you led a team under pressure.",
		"Describe a conflict you had to resolve at work.",
		"Give an example of when you had to influence without authority.",
		"Tell me about a time you made a decision with incomplete data.",
		"Describe a project that failed and how you responded.",
	}},
	{"Personal Fit - Tricky", []string{
		"If you could be any animal, which would you choose and why?",
		"How many slices of pizza are eaten in New York City each day?",
		"If I gave you $1 million to start a business, what would you do?",
		"How would you design an evacuation plan for this building?",
		"Sell me this app in 15 seconds.",
	}},
}

// Topics returns the topic names in presentation order.
func Topics() []string {
	out := make([]string, len(bank))
	for i, t := range bank {
		out[i] = t.name
	}
	return out
}

// Prompts returns a copy of the prompts for name, or nil if the topic is
// unknown.
func Prompts(name string) []string {
	for _, t := range bank {
		if t.name == name {
			return append([]string(nil), t.prompts...)
		}
	}
	return nil
}
