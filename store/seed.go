package store

import "github.com/TonySuccar/autogen-realestate/core"

// SeedProperties returns a small demo catalog fixture.
func SeedProperties() []core.PropertyRecord {
	return []core.PropertyRecord{
		{ID: 1, Title: "Luxury Downtown Apartment", City: "New York", Price: 850000, SizeSqft: 1200,
			Description: "Bright two-bedroom apartment in the heart of downtown with skyline views and a doorman building."},
		{ID: 2, Title: "Modern Villa", City: "Miami", Price: 1450000, SizeSqft: 3400,
			Description: "Waterfront villa with a private pool, open-plan kitchen and a two-car garage."},
		{ID: 3, Title: "Cozy Studio", City: "New York", Price: 420000, SizeSqft: 480,
			Description: "Compact studio near the park, freshly renovated, ideal for first-time buyers."},
		{ID: 4, Title: "Downtown Loft", City: "Chicago", Price: 610000, SizeSqft: 1500,
			Description: "Industrial loft with exposed brick, high ceilings and original hardwood floors."},
		{ID: 5, Title: "Suburban Family Home", City: "Austin", Price: 530000, SizeSqft: 2200,
			Description: "Four-bedroom family home with a large backyard in a quiet school district."},
	}
}

// SeedFAQ returns the question/answer fixture without vectors; callers embed
// the questions before loading the entries into a knowledge base.
func SeedFAQ() []core.EmbeddingEntry {
	return []core.EmbeddingEntry{
		{ID: 1, Question: "What documents do I need to buy a house?",
			Answer: "Typically you need proof of identity, proof of income, bank statements, tax returns and a mortgage pre-approval letter.",
			Tags:   []string{"buying", "documents"}},
		{ID: 2, Question: "How much deposit do I need?",
			Answer: "Most lenders ask for 10-20% of the purchase price; some first-time buyer programs accept less.",
			Tags:   []string{"financing"}},
		{ID: 3, Question: "Can I view the same property twice?",
			Answer: "Yes, repeat viewings are encouraged before making an offer. Just schedule another appointment.",
			Tags:   []string{"viewings"}},
		{ID: 4, Question: "What is a mortgage?",
			Answer: "A mortgage is a loan secured against the property you buy, repaid in monthly installments over an agreed term.",
			Tags:   []string{"financing"}},
		{ID: 5, Question: "How long does closing take?",
			Answer: "Closing usually takes 30-45 days from the accepted offer, depending on financing and inspections.",
			Tags:   []string{"buying"}},
		{ID: 6, Question: "Do I need a home inspection?",
			Answer: "An inspection is optional but strongly recommended; it can reveal structural or maintenance issues before you commit.",
			Tags:   []string{"inspection"}},
	}
}
